package xml

import (
	"context"
	"crypto/x509"
	"errors"
	"fmt"
	"time"

	dsig "github.com/russellhaering/goxmldsig"

	"github.com/rezonia/einvoice-submit/internal/signature"
	"github.com/rezonia/einvoice-submit/internal/signature/trust"
	"github.com/rezonia/einvoice-submit/internal/xml/resolver"
)

// XMLVerifier verifies the enveloped signature of a UBL document
type XMLVerifier struct {
	trustStore *trust.TrustStore
	extractor  *SignatureExtractor
	now        func() time.Time
}

var _ signature.Verifier = (*XMLVerifier)(nil)

// NewXMLVerifier creates a new XML signature verifier. A nil trust store
// skips the chain check.
func NewXMLVerifier(ts *trust.TrustStore) *XMLVerifier {
	return &XMLVerifier{
		trustStore: ts,
		extractor:  NewSignatureExtractor(),
		now:        time.Now,
	}
}

// Verify checks the signature, the embedded certificate and, when a trust
// store is configured, its chain. Malformed XML and missing signatures are
// returned as errors alongside the partial result.
func (v *XMLVerifier) Verify(ctx context.Context, data []byte) (*signature.VerificationResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := signature.NewVerificationResult()

	extraction, err := v.extractor.Extract(data)
	if err != nil {
		result.AddError(err.Error())
		return result, err
	}

	result.SignatureFound = true
	result.SignatureID = extraction.SignatureElement.SelectAttrValue("Id", "")

	if kind, kerr := resolver.Classify(extraction.Document); kerr == nil {
		result.Kind = kind.String()
		if name, nerr := resolver.ExtractFilename(extraction.Document, kind); nerr == nil {
			result.Filename = name
		}
	} else {
		result.AddWarning(fmt.Sprintf("document not recognized: %v", kerr))
	}

	cert, err := ParseCertificate(extraction.SignatureElement)
	if err != nil {
		result.AddError(fmt.Sprintf("certificate: %v", err))
		result.ComputeValidity()
		return result, nil
	}
	result.SetSigner(cert)

	if err := signature.CheckValidity(cert, v.now()); err != nil {
		result.AddError(err.Error())
	} else {
		result.CertTimeValid = true
	}

	validationCtx := dsig.NewDefaultValidationContext(&dsig.MemoryX509CertificateStore{
		Roots: []*x509.Certificate{cert},
	})
	if _, err := validationCtx.Validate(extraction.Document.Root()); err != nil {
		result.AddError(signature.ErrInvalidSignature(err).Error())
	} else {
		result.SignatureValid = true
	}

	v.verifyChain(result, cert)

	result.ComputeValidity()
	return result, nil
}

func (v *XMLVerifier) verifyChain(result *signature.VerificationResult, cert *x509.Certificate) {
	if v.trustStore == nil {
		result.CertChainValid = true
		result.AddWarning("certificate chain not checked: no trust store configured")
		return
	}

	chain, err := v.trustStore.VerifyChain(cert, nil)
	if err != nil {
		result.AddError(signature.ErrChainInvalid(err).Error())
		return
	}
	result.CertChain = chain
	result.CertChainValid = true
}

// IsNoSignature reports whether err means the document carries no signature
func IsNoSignature(err error) bool {
	var se *signature.SignatureError
	return errors.As(err, &se) && se.Code == signature.ErrCodeNoSignature
}
