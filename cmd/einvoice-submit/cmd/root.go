package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rezonia/einvoice-submit/internal/config"
	"github.com/rezonia/einvoice-submit/internal/logging"
	"github.com/rezonia/einvoice-submit/internal/see"
)

var (
	version = "1.0.0"

	// Global flags
	cfgFile      string
	verbose      bool
	outputFormat string
	endpoint     string
	logLevel     string

	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "einvoice-submit",
	Short: "Sign and submit electronic documents to SUNAT",
	Long: `einvoice-submit builds, signs and submits electronic documents to the
SUNAT web services and reads back their receipts (CDR).

Supports:
  - Invoices, receipts, credit and debit notes
  - Despatch advices, retention and perception certificates
  - Daily summaries, voided communications and reversions (ticket based)

Configuration is read from --config (YAML), then EINVOICE_* environment
variables, then flags.

Examples:
  # Send signed documents, deriving kind and filename from the XML
  einvoice-submit send 20000000001-01-F001-1.xml

  # Poll a ticket returned for a summary
  einvoice-submit status 1500523236696

  # Sign a document described as JSON
  einvoice-submit sign --kind invoice invoice.json -o F001-1.xml

  # Verify the signature of a document
  einvoice-submit verify F001-1.xml`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
}

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Config file (YAML)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "table", "Output format (json, table)")
	rootCmd.PersistentFlags().StringVar(&endpoint, "endpoint", "", "Service endpoint: beta, production or a URL (env: EINVOICE_ENDPOINT)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (env: EINVOICE_LOG_LEVEL)")
}

// initConfig loads the file and environment, then lets flags win
func initConfig(cmd *cobra.Command, _ []string) error {
	loaded, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if endpoint != "" {
		loaded.Endpoint = endpoint
	}
	if logLevel != "" {
		loaded.Log.Level = logLevel
	}
	cfg = loaded

	if outputFormat != "json" && outputFormat != "table" {
		return fmt.Errorf("unsupported output format %q", outputFormat)
	}

	logger = logging.New(logging.Config{
		Level:  logging.ParseLevel(cfg.Log.Level),
		Format: logging.ParseFormat(cfg.Log.Format),
		Output: cmd.ErrOrStderr(),
	})
	return nil
}

// newClient builds a submission client from the loaded configuration
func newClient(opts ...see.Option) (*see.See, error) {
	seeCfg, err := cfg.ToSee()
	if err != nil {
		return nil, err
	}
	printVerbose("Endpoint: %s\n", seeCfg.Endpoint)

	opts = append([]see.Option{
		see.WithLogger(logger),
		see.WithHTTPClient(cfg.HTTPClient()),
	}, opts...)
	return see.New(seeCfg, opts...)
}

func printVerbose(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}
