// Package ws implements the SOAP transport to the authority's web services.
package ws

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/rezonia/einvoice-submit/internal/model"
)

// Operation names a web service operation
type Operation string

// Operations exposed by the billing service
const (
	OpSendBill    Operation = "sendBill"
	OpSendSummary Operation = "sendSummary"
	OpGetStatus   Operation = "getStatus"
)

// Endpoint presets
const (
	EndpointBeta       = "https://e-beta.sunat.gob.pe/ol-ti-itcpfegem-beta/billService"
	EndpointProduction = "https://e-factura.sunat.gob.pe/ol-ti-itcpfegem/billService"
)

// DefaultTimeout applies when no HTTP client is supplied
const DefaultTimeout = 60 * time.Second

// maxReplySize bounds the SOAP reply read into memory
const maxReplySize = 64 << 20

// ErrEmptyReply is returned when the service answers with no body
var ErrEmptyReply = errors.New("empty reply from web service")

// Credentials authenticate against the web service
type Credentials struct {
	RUC      string `json:"ruc" yaml:"ruc"`
	User     string `json:"user" yaml:"user"`
	Password string `json:"-" yaml:"password"`
}

// Username is the WS-Security user: RUC followed by the secondary user
func (c Credentials) Username() string {
	return c.RUC + c.User
}

// StatusReply is the answer to getStatus
type StatusReply struct {
	Code    string
	Content []byte
}

// Client calls the billing web service. Faults are returned as *Fault errors.
type Client struct {
	endpoint string
	creds    Credentials
	http     *http.Client
	logger   *slog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for calls
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a client for endpoint
func NewClient(endpoint string, creds Credentials, opts ...Option) *Client {
	c := &Client{
		endpoint: endpoint,
		creds:    creds,
		http:     &http.Client{Timeout: DefaultTimeout},
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the service URL
func (c *Client) Endpoint() string {
	return c.endpoint
}

// SendBill uploads a zipped document and returns the zipped receipt
func (c *Client) SendBill(ctx context.Context, fileName string, content []byte) ([]byte, error) {
	env, err := c.call(ctx, OpSendBill, fileParams(fileName, content))
	if err != nil {
		return nil, err
	}
	if env.Body.SendBill == nil || env.Body.SendBill.ApplicationResponse == "" {
		return nil, model.ErrMalformedResponse("applicationResponse", "sendBill reply carries no receipt")
	}

	cdr, err := decodeBase64(env.Body.SendBill.ApplicationResponse)
	if err != nil {
		return nil, fmt.Errorf("failed to decode applicationResponse: %w", err)
	}
	return cdr, nil
}

// SendSummary uploads a zipped batch and returns its ticket
func (c *Client) SendSummary(ctx context.Context, fileName string, content []byte) (string, error) {
	env, err := c.call(ctx, OpSendSummary, fileParams(fileName, content))
	if err != nil {
		return "", err
	}
	if env.Body.SendSummary == nil || env.Body.SendSummary.Ticket == "" {
		return "", model.ErrMalformedResponse("ticket", "sendSummary reply carries no ticket")
	}
	return env.Body.SendSummary.Ticket, nil
}

// GetStatus queries the state of a ticket. The ticket is sent as given.
func (c *Client) GetStatus(ctx context.Context, ticket string) (*StatusReply, error) {
	env, err := c.call(ctx, OpGetStatus, []Param{{Name: "ticket", Value: ticket}})
	if err != nil {
		return nil, err
	}
	if env.Body.GetStatus == nil {
		return nil, model.ErrMalformedResponse("status", "getStatus reply carries no status")
	}

	status := env.Body.GetStatus.Status
	reply := &StatusReply{Code: status.StatusCode}
	if status.Content != "" {
		content, err := decodeBase64(status.Content)
		if err != nil {
			return nil, fmt.Errorf("failed to decode status content: %w", err)
		}
		reply.Content = content
	}
	return reply, nil
}

// call performs one SOAP request. A fault in the reply is returned as *Fault.
func (c *Client) call(ctx context.Context, op Operation, params []Param) (*responseEnvelope, error) {
	payload, err := buildEnvelope(op, c.creds, params)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", SOAP11ContentType)
	req.Header.Set("SOAPAction", ServiceNamespace+"/"+string(op))

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send %s request: %w", op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxReplySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", op, err)
	}
	c.logger.Debug("soap call",
		"operation", string(op),
		"status", resp.StatusCode,
		"bytes", len(body),
		"duration", time.Since(start),
	)

	if len(bytes.TrimSpace(body)) == 0 {
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status code %d", resp.StatusCode)
		}
		return nil, ErrEmptyReply
	}

	// faults arrive with HTTP 500, so the body is inspected before the status
	env, perr := parseEnvelope(body)
	if perr == nil && env.Body.Fault != nil {
		return nil, env.Body.Fault.toFault()
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, truncate(body, 512))
	}
	if perr != nil {
		return nil, fmt.Errorf("failed to parse %s response: %w", op, perr)
	}
	return env, nil
}

func fileParams(fileName string, content []byte) []Param {
	return []Param{
		{Name: "fileName", Value: fileName},
		{Name: "contentFile", Value: base64.StdEncoding.EncodeToString(content)},
	}
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
