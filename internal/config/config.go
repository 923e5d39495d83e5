// Package config loads client settings from a YAML file and the environment.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rezonia/einvoice-submit/internal/errcode"
	"github.com/rezonia/einvoice-submit/internal/see"
	"github.com/rezonia/einvoice-submit/internal/ws"
	"github.com/rezonia/einvoice-submit/internal/xml/builder"
)

// Environment variables read by Load
const (
	EnvEndpoint  = "EINVOICE_ENDPOINT"
	EnvRUC       = "EINVOICE_RUC"
	EnvUser      = "EINVOICE_USER"
	EnvPassword  = "EINVOICE_PASSWORD"
	EnvCertFile  = "EINVOICE_CERT_FILE"
	EnvLogLevel  = "EINVOICE_LOG_LEVEL"
	EnvLogFormat = "EINVOICE_LOG_FORMAT"
	EnvTimeout   = "EINVOICE_TIMEOUT"
)

// Endpoint presets
const (
	PresetBeta       = "beta"
	PresetProduction = "production"
)

// ErrMissingCredentials is returned by Validate when the account is incomplete
var ErrMissingCredentials = errors.New("config: ruc, user and password are required")

// Config is the on-disk configuration
type Config struct {
	// Endpoint is a preset name or a service URL
	Endpoint string `yaml:"endpoint"`

	RUC      string `yaml:"ruc"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`

	// CertFile is a PEM bundle with the signing certificate and its key
	CertFile string `yaml:"cert_file"`

	// TrustFile is a PEM bundle of CAs used by verify
	TrustFile string `yaml:"trust_file"`

	// CatalogFile overrides entries of the embedded error catalog
	CatalogFile string `yaml:"catalog_file"`

	Indent  int           `yaml:"indent"`
	Timeout time.Duration `yaml:"timeout"`

	Log    LogConfig    `yaml:"log"`
	Server ServerConfig `yaml:"server"`
}

// LogConfig selects log level and format
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Addr        string `yaml:"addr"`
	MaxBodySize int64  `yaml:"max_body_size"`
}

// Default returns the configuration used when nothing is set
func Default() Config {
	return Config{
		Endpoint: PresetBeta,
		Timeout:  ws.DefaultTimeout,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Addr:        ":8080",
			MaxBodySize: 10 << 20,
		},
	}
}

// Load reads path (optional) over the defaults, then applies environment overrides
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := decode(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	set := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	set(EnvEndpoint, &c.Endpoint)
	set(EnvRUC, &c.RUC)
	set(EnvUser, &c.User)
	set(EnvPassword, &c.Password)
	set(EnvCertFile, &c.CertFile)
	set(EnvLogLevel, &c.Log.Level)
	set(EnvLogFormat, &c.Log.Format)

	if v, ok := lookup(EnvTimeout); ok && v != "" {
		d, err := parseTimeout(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvTimeout, err)
		}
		c.Timeout = d
	}
	return nil
}

// parseTimeout accepts a duration ("30s") or a number of seconds ("30")
func parseTimeout(v string) (time.Duration, error) {
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return time.ParseDuration(v)
}

// EndpointURL resolves preset names to service URLs
func (c *Config) EndpointURL() string {
	switch strings.ToLower(strings.TrimSpace(c.Endpoint)) {
	case PresetBeta, "":
		return ws.EndpointBeta
	case PresetProduction, "prod":
		return ws.EndpointProduction
	default:
		return c.Endpoint
	}
}

// Credentials returns the web service account
func (c *Config) Credentials() ws.Credentials {
	return ws.Credentials{RUC: c.RUC, User: c.User, Password: c.Password}
}

// Validate checks what every remote call needs
func (c *Config) Validate() error {
	if c.RUC == "" || c.User == "" || c.Password == "" {
		return ErrMissingCredentials
	}
	return nil
}

// HTTPClient returns the client for the SOAP transport
func (c *Config) HTTPClient() *http.Client {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = ws.DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// Catalog returns the embedded catalog merged with CatalogFile, if set
func (c *Config) Catalog() (errcode.Catalog, error) {
	if c.CatalogFile == "" {
		return errcode.Default(), nil
	}
	data, err := os.ReadFile(c.CatalogFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	overrides, err := errcode.Parse(data)
	if err != nil {
		return nil, err
	}
	return errcode.Merge(errcode.Default(), overrides), nil
}

// ToSee converts the configuration into a client configuration. The
// certificate is loaded only when CertFile is set.
func (c *Config) ToSee() (see.Config, error) {
	cfg := see.Config{
		Credentials:    c.Credentials(),
		Endpoint:       c.EndpointURL(),
		BuilderOptions: builder.Options{Indent: c.Indent},
	}

	if c.CertFile != "" {
		pem, err := os.ReadFile(c.CertFile)
		if err != nil {
			return see.Config{}, fmt.Errorf("failed to read certificate: %w", err)
		}
		cfg.Certificate = pem
	}

	catalog, err := c.Catalog()
	if err != nil {
		return see.Config{}, err
	}
	cfg.Catalog = catalog
	return cfg, nil
}
