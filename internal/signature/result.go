package signature

import (
	"crypto/x509"
	"time"
)

// VerificationResult contains the complete signature verification outcome
type VerificationResult struct {
	// Overall validity - true only if all checks pass
	Valid bool `json:"valid"`

	// Individual check results
	SignatureFound bool `json:"signature_found"`
	SignatureValid bool `json:"signature_valid"`
	CertTimeValid  bool `json:"cert_time_valid"`
	CertChainValid bool `json:"cert_chain_valid"`

	// Signer information
	Signer *SignerInfo `json:"signer,omitempty"`

	// SignatureID is the Id attribute of the signature element
	SignatureID string `json:"signature_id,omitempty"`

	// Document identity, filled when the root is a recognized document
	Kind     string `json:"kind,omitempty"`
	Filename string `json:"filename,omitempty"`

	// Certificate chain (not serialized to JSON)
	CertChain []*x509.Certificate `json:"-"`

	// Warnings (non-fatal issues)
	Warnings []string `json:"warnings,omitempty"`

	// Errors (reasons for invalid result)
	Errors []string `json:"errors,omitempty"`
}

// SignerInfo contains certificate subject information
type SignerInfo struct {
	// Common name (CN)
	Name string `json:"name"`

	// Organization (O)
	Organization string `json:"organization,omitempty"`

	// Certificate serial number
	SerialNumber string `json:"serial_number"`

	// Issuer common name
	Issuer string `json:"issuer"`

	// Certificate validity period
	ValidFrom time.Time `json:"valid_from"`
	ValidTo   time.Time `json:"valid_to"`
}

// NewVerificationResult creates a new empty result
func NewVerificationResult() *VerificationResult {
	return &VerificationResult{
		Warnings: make([]string, 0),
		Errors:   make([]string, 0),
	}
}

// AddWarning adds a warning message to the result
func (r *VerificationResult) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// AddError adds an error message and sets Valid to false
func (r *VerificationResult) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
	r.Valid = false
}

// SetSigner populates SignerInfo from an x509 certificate
func (r *VerificationResult) SetSigner(cert *x509.Certificate) {
	if cert == nil {
		return
	}
	r.Signer = NewSignerInfo(cert)
}

// NewSignerInfo extracts subject and issuer details from a certificate
func NewSignerInfo(cert *x509.Certificate) *SignerInfo {
	signer := &SignerInfo{
		Name:         cert.Subject.CommonName,
		SerialNumber: cert.SerialNumber.String(),
		ValidFrom:    cert.NotBefore,
		ValidTo:      cert.NotAfter,
	}

	if len(cert.Subject.Organization) > 0 {
		signer.Organization = cert.Subject.Organization[0]
	}

	if len(cert.Issuer.CommonName) > 0 {
		signer.Issuer = cert.Issuer.CommonName
	} else if len(cert.Issuer.Organization) > 0 {
		signer.Issuer = cert.Issuer.Organization[0]
	}

	return signer
}

// ComputeValidity sets the Valid field based on individual check results
func (r *VerificationResult) ComputeValidity() {
	r.Valid = r.SignatureFound &&
		r.SignatureValid &&
		r.CertTimeValid &&
		r.CertChainValid &&
		len(r.Errors) == 0
}
