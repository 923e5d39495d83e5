// Package einvoice provides a public API for signing and submitting
// electronic documents to the SUNAT web services.
//
// Example usage:
//
//	client, err := einvoice.New(einvoice.Config{
//	    Certificate: pemBytes,
//	    Credentials: einvoice.Credentials{RUC: "20000000001", User: "MODDATOS", Password: "moddatos"},
//	    Endpoint:    einvoice.EndpointBeta,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := client.Send(ctx, invoice)
package einvoice

import (
	"github.com/rezonia/einvoice-submit/internal/model"
	"github.com/rezonia/einvoice-submit/internal/see"
	"github.com/rezonia/einvoice-submit/internal/ws"
)

// Re-export core types for public API
type (
	Client       = see.See
	Config       = see.Config
	Option       = see.Option
	Credentials  = ws.Credentials
	Metrics      = see.Metrics
	Document     = model.Document
	Kind         = model.Kind
	Result       = model.Result
	StatusResult = model.StatusResult
	CdrResponse  = model.CdrResponse
	Error        = model.Error
)

// Re-export document types
type (
	Invoice    = model.Invoice
	Note       = model.Note
	Summary    = model.Summary
	Voided     = model.Voided
	Reversion  = model.Reversion
	Despatch   = model.Despatch
	Retention  = model.Retention
	Perception = model.Perception
	Company    = model.Company
	Customer   = model.Client
	Address    = model.Address
)

// Re-export document kinds
const (
	KindInvoice    = model.KindInvoice
	KindNote       = model.KindNote
	KindSummary    = model.KindSummary
	KindVoided     = model.KindVoided
	KindReversion  = model.KindReversion
	KindDespatch   = model.KindDespatch
	KindRetention  = model.KindRetention
	KindPerception = model.KindPerception
)

// Service endpoints
const (
	EndpointBeta       = ws.EndpointBeta
	EndpointProduction = ws.EndpointProduction
)

// Re-export error types
type (
	SubmissionError = model.SubmissionError
)

// Re-export options
var (
	WithTransport  = see.WithTransport
	WithSigner     = see.WithSigner
	WithLogger     = see.WithLogger
	WithMetrics    = see.WithMetrics
	WithHTTPClient = see.WithHTTPClient
	WithTracer     = see.WithTracer
	NewMetrics     = see.NewMetrics
	ParseKind      = model.ParseKind
	NewDocument    = model.NewDocument
)

// New creates a submission client
func New(cfg Config, opts ...Option) (*Client, error) {
	return see.New(cfg, opts...)
}
