package model

import (
	"strconv"
	"strings"
)

// Status codes returned by the status operation
const (
	StatusFinished   = "0"
	StatusPending    = "98"
	StatusWithErrors = "99"
)

// CdrResponse is the authority's receipt (constancia de recepción)
type CdrResponse struct {
	ID          string   `json:"id"`
	Code        string   `json:"code"`
	Description string   `json:"description"`
	Notes       []string `json:"notes,omitempty"`
	Reference   string   `json:"reference,omitempty"`
}

// IsAccepted reports whether the receipt accepts the document.
// Any response code that parses to zero means accepted.
func (c *CdrResponse) IsAccepted() bool {
	code, err := strconv.Atoi(strings.TrimSpace(c.Code))
	return err == nil && code == 0
}

// Warnings returns the observations attached to an accepted document
func (c *CdrResponse) Warnings() []string {
	return c.Notes
}

// Error is a business rejection or fault reported by the authority
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return e.Code + ": " + e.Message
}

// Variant names which field of a Result is populated
type Variant string

// Result variants
const (
	VariantCDR    Variant = "cdr"
	VariantTicket Variant = "ticket"
	VariantError  Variant = "error"
)

// Result is the outcome of a submission.
// Exactly one of CDRResponse, Ticket or Error is set.
type Result struct {
	Success     bool         `json:"success"`
	Error       *Error       `json:"error,omitempty"`
	CDRResponse *CdrResponse `json:"cdr,omitempty"`
	CDRZip      []byte       `json:"-"`
	Ticket      string       `json:"ticket,omitempty"`
}

// Variant reports which outcome the result carries
func (r *Result) Variant() Variant {
	switch {
	case r.Error != nil:
		return VariantError
	case r.CDRResponse != nil:
		return VariantCDR
	default:
		return VariantTicket
	}
}

// NewErrorResult wraps a rejection into a failed result
func NewErrorResult(err *Error) *Result {
	return &Result{Error: err}
}

// StatusResult is the state of an asynchronous ticket
type StatusResult struct {
	Result
	Code string `json:"code"`
}

// Pending reports whether the authority is still processing the ticket
func (s *StatusResult) Pending() bool {
	return s.Code == StatusPending
}
