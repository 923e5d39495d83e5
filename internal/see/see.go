// Package see submits electronic documents to the tax authority. It picks
// the builder and sender for each document kind, signs what it builds and
// turns authority replies into results.
package see

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/rezonia/einvoice-submit/internal/errcode"
	"github.com/rezonia/einvoice-submit/internal/model"
	"github.com/rezonia/einvoice-submit/internal/sender"
	"github.com/rezonia/einvoice-submit/internal/signature"
	sigxml "github.com/rezonia/einvoice-submit/internal/signature/xml"
	"github.com/rezonia/einvoice-submit/internal/ws"
	"github.com/rezonia/einvoice-submit/internal/xml/builder"
	"github.com/rezonia/einvoice-submit/internal/xml/resolver"
)

const tracerName = "github.com/rezonia/einvoice-submit/internal/see"

// Operation names used in logs, spans and metrics
const (
	opSign        = "sign"
	opSend        = "send"
	opSendXml     = "send_xml"
	opSendXmlFile = "send_xml_file"
	opGetStatus   = "get_status"
)

// ErrNoEndpoint is returned by New when no transport can be built
var ErrNoEndpoint = errors.New("see: endpoint is required")

// Config holds what a client needs to sign and submit documents
type Config struct {
	// Certificate is a PEM bundle holding the signing certificate and key.
	// Leave empty when only sending pre-signed XML or querying tickets.
	Certificate []byte

	Credentials    ws.Credentials
	Endpoint       string
	BuilderOptions builder.Options

	// Catalog resolves authority codes to messages; nil uses the embedded catalog
	Catalog errcode.Catalog
}

type options struct {
	transport  sender.Transport
	signer     signature.Signer
	logger     *slog.Logger
	metrics    *Metrics
	httpClient *http.Client
	tracer     trace.Tracer
}

// Option configures a See
type Option func(*options)

// WithTransport replaces the SOAP client
func WithTransport(t sender.Transport) Option {
	return func(o *options) { o.transport = t }
}

// WithSigner replaces the certificate based signer
func WithSigner(s signature.Signer) Option {
	return func(o *options) { o.signer = s }
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithMetrics enables submission metrics
func WithMetrics(m *Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithHTTPClient sets the HTTP client of the default transport
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

// WithTracer overrides the tracer taken from the global provider
func WithTracer(t trace.Tracer) Option {
	return func(o *options) { o.tracer = t }
}

// See is the submission client. It is safe to reuse across calls but a
// single instance does not submit concurrently.
type See struct {
	registry    Registry
	builderOpts builder.Options
	signer      signature.Signer
	bill        sender.Sender
	summary     sender.Sender
	status      *sender.StatusService
	logger      *slog.Logger
	metrics     *Metrics
	tracer      trace.Tracer
}

// New creates a submission client from cfg
func New(cfg Config, opts ...Option) (*See, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	if o.tracer == nil {
		o.tracer = otel.Tracer(tracerName)
	}

	if o.signer == nil {
		var cert *signature.Certificate
		if len(cfg.Certificate) > 0 {
			loaded, err := signature.LoadCertificate(cfg.Certificate)
			if err != nil {
				return nil, err
			}
			cert = loaded
		}
		o.signer = sigxml.NewXMLSigner(cert)
	}

	if o.transport == nil {
		if cfg.Endpoint == "" {
			return nil, ErrNoEndpoint
		}
		clientOpts := []ws.Option{ws.WithLogger(o.logger)}
		if o.httpClient != nil {
			clientOpts = append(clientOpts, ws.WithHTTPClient(o.httpClient))
		}
		o.transport = ws.NewClient(cfg.Endpoint, cfg.Credentials, clientOpts...)
	}

	catalog := cfg.Catalog
	if catalog == nil {
		catalog = errcode.Default()
	}

	return &See{
		registry:    NewRegistry(),
		builderOpts: cfg.BuilderOptions.Merge(builder.DefaultOptions()),
		signer:      o.signer,
		bill:        sender.NewBillSender(o.transport, catalog),
		summary:     sender.NewSummarySender(o.transport, catalog),
		status:      sender.NewStatusService(o.transport, catalog),
		logger:      o.logger,
		metrics:     o.metrics,
		tracer:      o.tracer,
	}, nil
}

// GetXmlSigned builds and signs doc without contacting the authority
func (s *See) GetXmlSigned(ctx context.Context, doc model.Document) ([]byte, error) {
	ctx, span := s.tracer.Start(ctx, "see.GetXmlSigned")
	defer span.End()

	if doc == nil {
		return nil, s.fail(ctx, span, opSign, model.ErrUnsupportedKind(nil))
	}
	span.SetAttributes(attribute.String("kind", doc.Kind().String()))

	strategy, err := s.registry.Resolve(doc.Kind())
	if err != nil {
		return nil, s.fail(ctx, span, opSign, err)
	}

	signed, err := s.buildSigned(ctx, strategy, doc)
	if err != nil {
		return nil, s.fail(ctx, span, opSign, err)
	}
	return signed, nil
}

// Send builds, signs and submits doc under its canonical name
func (s *See) Send(ctx context.Context, doc model.Document) (*model.Result, error) {
	ctx, span := s.tracer.Start(ctx, "see.Send")
	defer span.End()
	start := time.Now()
	defer func() { s.metrics.ObserveDuration(opSend, time.Since(start)) }()

	if doc == nil {
		return nil, s.fail(ctx, span, opSend, model.ErrUnsupportedKind(nil))
	}
	span.SetAttributes(attribute.String("kind", doc.Kind().String()))

	strategy, err := s.registry.Resolve(doc.Kind())
	if err != nil {
		return nil, s.fail(ctx, span, opSend, err)
	}

	signed, err := s.buildSigned(ctx, strategy, doc)
	if err != nil {
		return nil, s.fail(ctx, span, opSend, err)
	}

	result, err := s.submit(ctx, span, doc.Kind(), strategy.Category, doc.Name(), signed)
	if err != nil {
		return nil, s.fail(ctx, span, opSend, err)
	}
	return result, nil
}

// SendXml submits already signed XML of the given kind. The content is
// sent as-is; only the kind's category is used.
func (s *See) SendXml(ctx context.Context, kind model.Kind, filename string, xml []byte) (*model.Result, error) {
	ctx, span := s.tracer.Start(ctx, "see.SendXml", trace.WithAttributes(attribute.String("kind", kind.String())))
	defer span.End()
	start := time.Now()
	defer func() { s.metrics.ObserveDuration(opSendXml, time.Since(start)) }()

	strategy, err := s.registry.Resolve(kind)
	if err != nil {
		return nil, s.fail(ctx, span, opSendXml, err)
	}

	result, err := s.submit(ctx, span, kind, strategy.Category, filename, xml)
	if err != nil {
		return nil, s.fail(ctx, span, opSendXml, err)
	}
	return result, nil
}

// SendXmlFile classifies signed XML, derives its filename and submits it
func (s *See) SendXmlFile(ctx context.Context, xml []byte) (*model.Result, error) {
	kind, filename, err := resolver.Resolve(xml)
	if err != nil {
		s.metrics.IncrementFailure(opSendXmlFile)
		s.logger.WarnContext(ctx, "cannot classify document", "error", err)
		return nil, err
	}
	s.logger.DebugContext(ctx, "classified document", "kind", kind, "filename", filename)
	return s.SendXml(ctx, kind, filename, xml)
}

// GetStatus queries the processing state of a ticket. The ticket is sent
// unchanged.
func (s *See) GetStatus(ctx context.Context, ticket string) (*model.StatusResult, error) {
	ctx, span := s.tracer.Start(ctx, "see.GetStatus", trace.WithAttributes(attribute.String("ticket", ticket)))
	defer span.End()
	start := time.Now()
	defer func() { s.metrics.ObserveDuration(opGetStatus, time.Since(start)) }()

	result, err := s.status.GetStatus(ctx, ticket)
	if err != nil {
		return nil, s.fail(ctx, span, opGetStatus, err)
	}

	span.SetAttributes(
		attribute.String("status_code", result.Code),
		attribute.String("variant", string(result.Variant())),
	)
	s.logger.InfoContext(ctx, "status retrieved",
		"ticket", ticket,
		"code", result.Code,
		"variant", result.Variant(),
	)
	return result, nil
}

func (s *See) buildSigned(ctx context.Context, strategy Strategy, doc model.Document) ([]byte, error) {
	xml, err := strategy.Builder(s.builderOpts).Build(doc)
	if err != nil {
		return nil, err
	}
	s.logger.DebugContext(ctx, "document built", "kind", doc.Kind(), "filename", doc.Name(), "bytes", len(xml))

	signed, err := s.signer.Sign(xml)
	if err != nil {
		return nil, err
	}
	s.logger.DebugContext(ctx, "document signed", "kind", doc.Kind(), "filename", doc.Name())
	return signed, nil
}

func (s *See) submit(ctx context.Context, span trace.Span, kind model.Kind, category Category, filename string, xml []byte) (*model.Result, error) {
	id := uuid.NewString()
	logger := s.logger.With("submission_id", id, "kind", kind, "filename", filename, "category", category)
	span.SetAttributes(
		attribute.String("submission_id", id),
		attribute.String("filename", filename),
		attribute.String("category", category.String()),
	)

	var out sender.Sender
	switch category {
	case CategoryBill:
		out = s.bill
	case CategorySummary:
		out = s.summary
	default:
		return nil, model.ErrUnsupportedKind(kind)
	}

	logger.DebugContext(ctx, "submitting document")
	result, err := out.Send(ctx, filename, xml)
	if err != nil {
		return nil, err
	}

	variant := result.Variant()
	span.SetAttributes(attribute.String("variant", string(variant)))
	s.metrics.IncrementSubmission(kind.String(), category.String(), string(variant))

	switch variant {
	case model.VariantError:
		logger.WarnContext(ctx, "document rejected", "code", result.Error.Code, "message", result.Error.Message)
	case model.VariantTicket:
		logger.InfoContext(ctx, "ticket received", "ticket", result.Ticket)
	default:
		logger.InfoContext(ctx, "receipt received",
			"cdr_code", result.CDRResponse.Code,
			"accepted", result.CDRResponse.IsAccepted(),
		)
	}
	return result, nil
}

func (s *See) fail(ctx context.Context, span trace.Span, operation string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	s.metrics.IncrementFailure(operation)
	s.logger.ErrorContext(ctx, "operation failed", "operation", operation, "error", err)
	return err
}
