package signature

import "fmt"

// Error codes for signing and signature verification
const (
	ErrCodeSigningFailed      = "SIGNING_FAILED"
	ErrCodeInvalidCertificate = "INVALID_CERTIFICATE"
	ErrCodeNoSignature        = "NO_SIGNATURE"
	ErrCodeInvalidSignature   = "INVALID_SIGNATURE"
	ErrCodeCertExpired        = "CERT_EXPIRED"
	ErrCodeCertNotYetValid    = "CERT_NOT_YET_VALID"
	ErrCodeChainInvalid       = "CHAIN_INVALID"
)

// SignatureError represents signing and signature verification errors
type SignatureError struct {
	Code    string
	Field   string
	Message string
	Cause   error
}

func (e *SignatureError) Error() string {
	if e.Field != "" && e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %s (%v)", e.Code, e.Field, e.Message, e.Cause)
	}
	if e.Field != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s (%v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *SignatureError) Unwrap() error {
	return e.Cause
}

// Is matches any SignatureError carrying the same code
func (e *SignatureError) Is(target error) bool {
	t, ok := target.(*SignatureError)
	return ok && t.Code == e.Code
}

// NewSignatureError creates a new signature error
func NewSignatureError(code, field, message string, cause error) *SignatureError {
	return &SignatureError{
		Code:    code,
		Field:   field,
		Message: message,
		Cause:   cause,
	}
}

// ErrSigning matches every signing failure with errors.Is
var ErrSigning = &SignatureError{Code: ErrCodeSigningFailed, Message: "signing failed"}

// Common error constructors

// ErrSigningFailed returns error when a document cannot be signed
func ErrSigningFailed(message string, cause error) *SignatureError {
	return NewSignatureError(ErrCodeSigningFailed, "", message, cause)
}

// ErrInvalidCertificate returns error when the signing certificate cannot be loaded
func ErrInvalidCertificate(cause error) *SignatureError {
	return NewSignatureError(ErrCodeInvalidCertificate, "certificate", "cannot load certificate and private key", cause)
}

// ErrNoSignature returns error when no signature found in document
func ErrNoSignature() *SignatureError {
	return NewSignatureError(ErrCodeNoSignature, "", "no signature found in document", nil)
}

// ErrInvalidSignature returns error when signature validation fails
func ErrInvalidSignature(cause error) *SignatureError {
	return NewSignatureError(ErrCodeInvalidSignature, "signature", "signature validation failed", cause)
}

// ErrCertExpired returns error when certificate has expired
func ErrCertExpired(subject string) *SignatureError {
	return NewSignatureError(ErrCodeCertExpired, "certificate", fmt.Sprintf("certificate expired: %s", subject), nil)
}

// ErrCertNotYetValid returns error when certificate is not yet valid
func ErrCertNotYetValid(subject string) *SignatureError {
	return NewSignatureError(ErrCodeCertNotYetValid, "certificate", fmt.Sprintf("certificate not yet valid: %s", subject), nil)
}

// ErrChainInvalid returns error when certificate chain is invalid
func ErrChainInvalid(cause error) *SignatureError {
	return NewSignatureError(ErrCodeChainInvalid, "chain", "certificate chain validation failed", cause)
}
