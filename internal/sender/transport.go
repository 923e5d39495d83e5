// Package sender submits signed documents through the web service and turns
// replies into results.
package sender

import (
	"context"

	"github.com/rezonia/einvoice-submit/internal/ws"
)

// Transport is the web service contract used by the senders. Protocol faults
// are reported as *ws.Fault errors; any other error is an infrastructure failure.
type Transport interface {
	SendBill(ctx context.Context, fileName string, content []byte) ([]byte, error)
	SendSummary(ctx context.Context, fileName string, content []byte) (string, error)
	GetStatus(ctx context.Context, ticket string) (*ws.StatusReply, error)
}

var _ Transport = (*ws.Client)(nil)
