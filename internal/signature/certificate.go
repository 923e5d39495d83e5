package signature

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"time"
)

// Certificate is a signing certificate with its private key
type Certificate struct {
	TLS  tls.Certificate
	Leaf *x509.Certificate
}

// LoadCertificate parses a PEM bundle holding both the certificate and its private key
func LoadCertificate(pemData []byte) (*Certificate, error) {
	pair, err := tls.X509KeyPair(pemData, pemData)
	if err != nil {
		return nil, ErrInvalidCertificate(err)
	}

	leaf := pair.Leaf
	if leaf == nil {
		leaf, err = x509.ParseCertificate(pair.Certificate[0])
		if err != nil {
			return nil, ErrInvalidCertificate(err)
		}
		pair.Leaf = leaf
	}
	return &Certificate{TLS: pair, Leaf: leaf}, nil
}

// LoadCertificateFile reads a PEM bundle from disk
func LoadCertificateFile(path string) (*Certificate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read certificate file: %w", err)
	}
	return LoadCertificate(data)
}

// CheckValidity reports whether cert is inside its validity period at t
func CheckValidity(cert *x509.Certificate, t time.Time) error {
	if t.Before(cert.NotBefore) {
		return ErrCertNotYetValid(cert.Subject.CommonName)
	}
	if t.After(cert.NotAfter) {
		return ErrCertExpired(cert.Subject.CommonName)
	}
	return nil
}
