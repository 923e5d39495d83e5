package server

import (
	"context"

	"github.com/rezonia/einvoice-submit/internal/model"
	"github.com/rezonia/einvoice-submit/internal/see"
)

// Submitter is the part of the submission client the API exposes
type Submitter interface {
	GetXmlSigned(ctx context.Context, doc model.Document) ([]byte, error)
	SendXml(ctx context.Context, kind model.Kind, filename string, xml []byte) (*model.Result, error)
	SendXmlFile(ctx context.Context, xml []byte) (*model.Result, error)
	GetStatus(ctx context.Context, ticket string) (*model.StatusResult, error)
}

var _ Submitter = (*see.See)(nil)

// InfoResponse is the response for the info endpoint
type InfoResponse struct {
	Kind     model.Kind `json:"kind"`
	Filename string     `json:"filename"`
	Size     int        `json:"size"`
}

// ErrorResponse is the standard error response for hard failures
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	Details   string `json:"details,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}
