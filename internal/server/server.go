package server

import (
	"context"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rezonia/einvoice-submit/internal/model"
	"github.com/rezonia/einvoice-submit/internal/signature"
	"github.com/rezonia/einvoice-submit/internal/xml/resolver"
)

// RequestIDHeader carries the request id in both directions
const RequestIDHeader = "X-Request-ID"

const requestIDKey = "request_id"

// Config holds server configuration
type Config struct {
	Address        string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	RequestTimeout time.Duration
	MaxBodySize    int64
	Debug          bool
}

// Server represents the HTTP API server
type Server struct {
	config    *Config
	router    *gin.Engine
	submitter Submitter
	verifier  signature.Verifier
	gatherer  prometheus.Gatherer
	logger    *slog.Logger
}

// Option configures a Server
type Option func(*Server)

// WithVerifier enables the verify endpoint
func WithVerifier(v signature.Verifier) Option {
	return func(s *Server) { s.verifier = v }
}

// WithGatherer sets the registry served on /metrics
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) { s.gatherer = g }
}

// WithLogger sets the request logger
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// NewServer creates a new API server
func NewServer(config *Config, submitter Submitter, opts ...Option) *Server {
	if !config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		config:    config,
		router:    gin.New(),
		submitter: submitter,
		gatherer:  prometheus.DefaultGatherer,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.router.Use(gin.Recovery(), s.requestID(), s.accessLog())
	if config.MaxBodySize > 0 {
		s.router.Use(s.limitBody(config.MaxBodySize))
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)
	s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))

	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/send", s.handleSendFile)
		v1.POST("/send/:kind", s.handleSend)
		v1.POST("/sign/:kind", s.handleSign)
		v1.GET("/status/:ticket", s.handleStatus)
		v1.POST("/info", s.handleInfo)
		v1.POST("/verify", s.handleVerify)
	}
}

// Run serves until ctx is canceled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.config.Address,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// Handler returns the http.Handler for use with custom servers
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.InfoContext(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"request_id", c.GetString(requestIDKey),
		)
	}
}

func (s *Server) limitBody(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}

func (s *Server) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	if s.config.RequestTimeout > 0 {
		return context.WithTimeout(c.Request.Context(), s.config.RequestTimeout)
	}
	return context.WithCancel(c.Request.Context())
}

// readBody returns the request body, writing a 400 when it is unusable
func (s *Server) readBody(c *gin.Context) ([]byte, bool) {
	body, err := c.GetRawData()
	if err != nil {
		s.abort(c, http.StatusBadRequest, "failed to read request body", err)
		return nil, false
	}
	if len(body) == 0 {
		s.abort(c, http.StatusBadRequest, "empty request body", nil)
		return nil, false
	}
	return body, true
}

func (s *Server) parseKind(c *gin.Context) (model.Kind, bool) {
	kind, err := model.ParseKind(c.Param("kind"))
	if err != nil {
		s.abort(c, http.StatusBadRequest, "unsupported document kind", err)
		return model.KindUnknown, false
	}
	return kind, true
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleSendFile(c *gin.Context) {
	body, ok := s.readBody(c)
	if !ok {
		return
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	result, err := s.submitter.SendXmlFile(ctx, body)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleSend(c *gin.Context) {
	kind, ok := s.parseKind(c)
	if !ok {
		return
	}
	filename := c.Query("filename")
	if filename == "" {
		s.abort(c, http.StatusBadRequest, "filename query parameter is required", nil)
		return
	}
	body, ok := s.readBody(c)
	if !ok {
		return
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	result, err := s.submitter.SendXml(ctx, kind, filename, body)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleSign(c *gin.Context) {
	kind, ok := s.parseKind(c)
	if !ok {
		return
	}
	doc, err := model.NewDocument(kind)
	if err != nil {
		s.abort(c, http.StatusBadRequest, "unsupported document kind", err)
		return
	}
	if err := c.ShouldBindJSON(doc); err != nil {
		s.abort(c, http.StatusBadRequest, "invalid document", err)
		return
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	signed, err := s.submitter.GetXmlSigned(ctx, doc)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": doc.Name() + ".xml"}))
	c.Data(http.StatusOK, "application/xml", signed)
}

func (s *Server) handleStatus(c *gin.Context) {
	ctx, cancel := s.requestContext(c)
	defer cancel()

	result, err := s.submitter.GetStatus(ctx, c.Param("ticket"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleInfo(c *gin.Context) {
	body, ok := s.readBody(c)
	if !ok {
		return
	}

	kind, filename, err := resolver.Resolve(body)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, InfoResponse{
		Kind:     kind,
		Filename: filename,
		Size:     len(body),
	})
}

func (s *Server) handleVerify(c *gin.Context) {
	if s.verifier == nil {
		s.abort(c, http.StatusServiceUnavailable, "signature verification is not configured", nil)
		return
	}
	body, ok := s.readBody(c)
	if !ok {
		return
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	result, err := s.verifier.Verify(ctx, body)
	if err != nil && result == nil {
		s.fail(c, err)
		return
	}

	if result.Valid {
		c.JSON(http.StatusOK, result)
	} else {
		c.JSON(http.StatusUnprocessableEntity, result)
	}
}

func (s *Server) abort(c *gin.Context, status int, message string, err error) {
	resp := ErrorResponse{Error: message, RequestID: c.GetString(requestIDKey)}
	if err != nil {
		resp.Details = err.Error()
	}
	c.AbortWithStatusJSON(status, resp)
}

// fail maps hard failures to 422 when the input is at fault and 502 when
// the authority or the connection is
func (s *Server) fail(c *gin.Context, err error) {
	status, code := classify(err)
	s.logger.WarnContext(c.Request.Context(), "request failed",
		"error", err,
		"status", status,
		"request_id", c.GetString(requestIDKey),
	)
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:     http.StatusText(status),
		Code:      code,
		Details:   err.Error(),
		RequestID: c.GetString(requestIDKey),
	})
}

func classify(err error) (int, string) {
	var se *model.SubmissionError
	if errors.As(err, &se) {
		switch se.Code {
		case model.ErrCodeMalformedArchive, model.ErrCodeMalformedCdr, model.ErrCodeMalformedResponse:
			return http.StatusBadGateway, se.Code
		default:
			return http.StatusUnprocessableEntity, se.Code
		}
	}

	var sigErr *signature.SignatureError
	if errors.As(err, &sigErr) {
		return http.StatusUnprocessableEntity, sigErr.Code
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout, ""
	}
	return http.StatusBadGateway, ""
}
