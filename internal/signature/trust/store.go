package trust

import (
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"time"
)

// TrustStore manages the CA certificates a signing certificate must chain to
type TrustStore struct {
	roots     *x509.CertPool
	rootCerts []*x509.Certificate
	now       func() time.Time
}

// TrustStoreOption configures a TrustStore
type TrustStoreOption func(*TrustStore)

// NewTrustStore creates a trust store seeded with the system roots
func NewTrustStore(opts ...TrustStoreOption) (*TrustStore, error) {
	roots, err := x509.SystemCertPool()
	if err != nil {
		return nil, fmt.Errorf("failed to load system roots: %w", err)
	}

	store := &TrustStore{
		roots:     roots,
		rootCerts: make([]*x509.Certificate, 0),
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(store)
	}

	return store, nil
}

// NewEmptyTrustStore creates a trust store without default CAs
func NewEmptyTrustStore(opts ...TrustStoreOption) *TrustStore {
	store := &TrustStore{
		roots:     x509.NewCertPool(),
		rootCerts: make([]*x509.Certificate, 0),
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

// WithClock overrides the time used for chain validation
func WithClock(now func() time.Time) TrustStoreOption {
	return func(s *TrustStore) {
		s.now = now
	}
}

// LoadFile builds an empty trust store from a PEM bundle of CA certificates
func LoadFile(path string) (*TrustStore, error) {
	store := NewEmptyTrustStore()
	if err := store.AddFile(path); err != nil {
		return nil, err
	}
	return store, nil
}

// AddFile adds the CA certificates of a PEM bundle
func (s *TrustStore) AddFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read trust bundle: %w", err)
	}
	if err := s.AddCertificatesFromPEM(data); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// AddCertificate adds a single certificate to the trust store
func (s *TrustStore) AddCertificate(cert *x509.Certificate) {
	if cert != nil {
		s.roots.AddCert(cert)
		s.rootCerts = append(s.rootCerts, cert)
	}
}

// AddCertificates adds multiple certificates to the trust store
func (s *TrustStore) AddCertificates(certs ...*x509.Certificate) {
	for _, cert := range certs {
		s.AddCertificate(cert)
	}
}

// AddCertificatesFromPEM parses and adds certificates from PEM data.
// Blocks other than CERTIFICATE, such as private keys, are skipped.
func (s *TrustStore) AddCertificatesFromPEM(pemData []byte) error {
	var added int
	for {
		block, rest := pem.Decode(pemData)
		if block == nil {
			break
		}
		if block.Type == "CERTIFICATE" {
			cert, err := x509.ParseCertificate(block.Bytes)
			if err != nil {
				return fmt.Errorf("failed to parse certificate: %w", err)
			}
			s.AddCertificate(cert)
			added++
		}
		pemData = rest
	}
	if added == 0 {
		return fmt.Errorf("no certificates found in PEM data")
	}
	return nil
}

// VerifyChain verifies the certificate chain against trusted roots
func (s *TrustStore) VerifyChain(cert *x509.Certificate, intermediates []*x509.Certificate) ([]*x509.Certificate, error) {
	if cert == nil {
		return nil, fmt.Errorf("certificate is nil")
	}

	var interPool *x509.CertPool
	if len(intermediates) > 0 {
		interPool = x509.NewCertPool()
		for _, inter := range intermediates {
			interPool.AddCert(inter)
		}
	}

	opts := x509.VerifyOptions{
		Roots:         s.roots,
		Intermediates: interPool,
		CurrentTime:   s.now(),
		KeyUsages:     []x509.ExtKeyUsage{x509.ExtKeyUsageAny},
	}

	chains, err := cert.Verify(opts)
	if err != nil {
		return nil, fmt.Errorf("chain verification failed: %w", err)
	}

	if len(chains) == 0 {
		return nil, fmt.Errorf("no valid certificate chains found")
	}

	return chains[0], nil
}

// Roots returns the certificate pool
func (s *TrustStore) Roots() *x509.CertPool {
	return s.roots
}

// RootCerts returns the certificates added explicitly, without system roots
func (s *TrustStore) RootCerts() []*x509.Certificate {
	return s.rootCerts
}
