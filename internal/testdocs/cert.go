package testdocs

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"sync"
	"time"
)

var (
	certOnce sync.Once
	certPEM  []byte
	certErr  error
)

// CertificatePEM returns a self-signed RSA certificate and its private key
// as one PEM bundle. The bundle is generated once per test binary and is
// valid for a day around the current time.
func CertificatePEM() ([]byte, error) {
	certOnce.Do(func() {
		certPEM, certErr = generateCertificate()
	})
	return certPEM, certErr
}

func generateCertificate() ([]byte, error) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	template := &x509.Certificate{
		SerialNumber: big.NewInt(now.UnixNano()),
		Subject: pkix.Name{
			CommonName:   "EMPRESA SAC",
			Organization: []string{"EMPRESA"},
			Country:      []string{"PE"},
		},
		NotBefore:             now.Add(-12 * time.Hour),
		NotAfter:              now.Add(12 * time.Hour),
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		BasicConstraintsValid: true,
		IsCA:                  true,
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	if err != nil {
		return nil, err
	}

	out := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	out = append(out, pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})...)
	return out, nil
}
