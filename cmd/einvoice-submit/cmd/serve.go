package cmd

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/rezonia/einvoice-submit/internal/see"
	"github.com/rezonia/einvoice-submit/internal/server"
	"github.com/rezonia/einvoice-submit/internal/signature/xml"
)

var (
	serverAddr     string
	serverDebug    bool
	readTimeout    time.Duration
	writeTimeout   time.Duration
	requestTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP API server in front of the submission client.

The API provides endpoints for:
  - POST /api/v1/send             - Send a signed XML, kind and name derived from it
  - POST /api/v1/send/:kind       - Send a signed XML of the given kind
  - POST /api/v1/sign/:kind       - Build and sign a JSON document
  - GET  /api/v1/status/:ticket   - Query the state of a ticket
  - POST /api/v1/info             - Classify an XML document
  - POST /api/v1/verify           - Verify the signature of an XML document
  - GET  /health                  - Health check
  - GET  /metrics                 - Prometheus metrics

Examples:
  # Start server on the configured address
  einvoice-submit serve

  # Start on a custom port against production
  einvoice-submit serve --address :9090 --endpoint production

  # Start in debug mode
  einvoice-submit serve --debug`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serverAddr, "address", "", "Server listen address (default from config)")
	serveCmd.Flags().BoolVar(&serverDebug, "debug", false, "Enable debug mode")
	serveCmd.Flags().DurationVar(&readTimeout, "read-timeout", 30*time.Second, "HTTP read timeout")
	serveCmd.Flags().DurationVar(&writeTimeout, "write-timeout", 2*time.Minute, "HTTP write timeout")
	serveCmd.Flags().DurationVar(&requestTimeout, "request-timeout", 90*time.Second, "Per request deadline for remote calls")
	serveCmd.Flags().StringVar(&caFile, "ca-file", "", "CA bundle for the verify endpoint (PEM format)")
	serveCmd.Flags().BoolVar(&systemRoots, "system-roots", false, "Trust the system CA pool on the verify endpoint")
}

func runServe(cmd *cobra.Command, _ []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	client, err := newClient(see.WithMetrics(see.NewMetrics(prometheus.DefaultRegisterer)))
	if err != nil {
		return err
	}

	store, err := trustStore()
	if err != nil {
		return err
	}

	addr := serverAddr
	if addr == "" {
		addr = cfg.Server.Addr
	}

	srv := server.NewServer(&server.Config{
		Address:        addr,
		ReadTimeout:    readTimeout,
		WriteTimeout:   writeTimeout,
		RequestTimeout: requestTimeout,
		MaxBodySize:    cfg.Server.MaxBodySize,
		Debug:          serverDebug,
	}, client,
		server.WithVerifier(xml.NewXMLVerifier(store)),
		server.WithGatherer(prometheus.DefaultGatherer),
		server.WithLogger(logger),
	)

	fmt.Fprintf(cmd.ErrOrStderr(), "Starting server on %s\n", addr)
	if cfg.CertFile == "" {
		fmt.Fprintln(cmd.ErrOrStderr(), "Signing disabled (no certificate configured)")
	}

	if err := srv.Run(cmd.Context()); err != nil {
		return err
	}
	fmt.Fprintln(cmd.ErrOrStderr(), "Server stopped")
	return nil
}
