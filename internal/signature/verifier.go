package signature

import "context"

// Signer produces an enveloped signature over a rendered document
type Signer interface {
	// Sign returns the signed document. Failures are *SignatureError with
	// code SIGNING_FAILED.
	Sign(xml []byte) ([]byte, error)
}

// Verifier defines the interface for signature verification
type Verifier interface {
	// Verify verifies the digital signature on the given data
	// Returns VerificationResult with detailed check outcomes
	Verify(ctx context.Context, data []byte) (*VerificationResult, error)
}
