package model

import (
	"errors"
	"fmt"
)

// Error codes for submission failures that are returned to the caller
// instead of being reported as authority responses
const (
	ErrCodeUnsupportedKind   = "UNSUPPORTED_DOCUMENT_KIND"
	ErrCodeUnrecognizedType  = "UNRECOGNIZED_DOCUMENT_TYPE"
	ErrCodeMalformedXML      = "MALFORMED_XML"
	ErrCodeMissingElement    = "MISSING_ELEMENT"
	ErrCodeMalformedArchive  = "MALFORMED_ARCHIVE"
	ErrCodeMalformedCdr      = "MALFORMED_CDR"
	ErrCodeMalformedResponse = "MALFORMED_RESPONSE"
	ErrCodeDocumentMismatch  = "DOCUMENT_MISMATCH"
	ErrCodeInvalidDocType    = "INVALID_DOCUMENT_TYPE"
)

// SubmissionError represents a structural failure raised while building,
// classifying or reading documents and receipts
type SubmissionError struct {
	Code    string
	Field   string
	Message string
	Cause   error
}

func (e *SubmissionError) Error() string {
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

func (e *SubmissionError) Unwrap() error {
	return e.Cause
}

// Is matches any SubmissionError carrying the same code
func (e *SubmissionError) Is(target error) bool {
	t, ok := target.(*SubmissionError)
	return ok && t.Code == e.Code
}

// Sentinels for errors.Is checks
var (
	ErrUnsupportedDocumentKind  = &SubmissionError{Code: ErrCodeUnsupportedKind, Message: "unsupported document kind"}
	ErrUnrecognizedDocumentType = &SubmissionError{Code: ErrCodeUnrecognizedType, Message: "unrecognized document type"}
	ErrArchive                  = &SubmissionError{Code: ErrCodeMalformedArchive, Message: "malformed archive"}
	ErrCdr                      = &SubmissionError{Code: ErrCodeMalformedCdr, Message: "malformed CDR"}
)

// NewSubmissionError creates a new submission error
func NewSubmissionError(code, field, message string, cause error) *SubmissionError {
	return &SubmissionError{
		Code:    code,
		Field:   field,
		Message: message,
		Cause:   cause,
	}
}

// HasCode reports whether err wraps a SubmissionError with the given code
func HasCode(err error, code string) bool {
	var se *SubmissionError
	return errors.As(err, &se) && se.Code == code
}

// ErrUnsupportedKind returns error for a kind with no registered strategy
func ErrUnsupportedKind(kind any) *SubmissionError {
	return NewSubmissionError(ErrCodeUnsupportedKind, "kind", fmt.Sprintf("unsupported document kind: %v", kind), nil)
}

// ErrUnrecognizedType returns error when a root element matches no known document
func ErrUnrecognizedType(root string) *SubmissionError {
	return NewSubmissionError(ErrCodeUnrecognizedType, "root", fmt.Sprintf("unrecognized document root: %s", root), nil)
}

// ErrMalformedXML returns error when content cannot be parsed as XML
func ErrMalformedXML(cause error) *SubmissionError {
	return NewSubmissionError(ErrCodeMalformedXML, "", "failed to parse XML", cause)
}

// ErrMissingElement returns error when a required element is absent or empty
func ErrMissingElement(path string) *SubmissionError {
	return NewSubmissionError(ErrCodeMissingElement, path, "element not found or empty", nil)
}

// ErrMalformedArchive returns error when a receipt archive is empty or unreadable
func ErrMalformedArchive(message string, cause error) *SubmissionError {
	return NewSubmissionError(ErrCodeMalformedArchive, "archive", message, cause)
}

// ErrMalformedCdr returns error when a receipt entry is not a valid ApplicationResponse
func ErrMalformedCdr(field, message string, cause error) *SubmissionError {
	return NewSubmissionError(ErrCodeMalformedCdr, field, message, cause)
}

// ErrMalformedResponse returns error when the web service reply lacks the expected payload
func ErrMalformedResponse(field, message string) *SubmissionError {
	return NewSubmissionError(ErrCodeMalformedResponse, field, message, nil)
}

// ErrDocumentMismatch returns error when a builder receives a document of another kind
func ErrDocumentMismatch(want Kind, got Document) *SubmissionError {
	return NewSubmissionError(ErrCodeDocumentMismatch, "document", fmt.Sprintf("expected %s document, got %T", want, got), nil)
}

// ErrInvalidDocType returns error when a document carries a type code its kind does not allow
func ErrInvalidDocType(kind Kind, docType string) *SubmissionError {
	return NewSubmissionError(ErrCodeInvalidDocType, "doc_type", fmt.Sprintf("invalid %s document type %q", kind, docType), nil)
}
