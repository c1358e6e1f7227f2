package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"runtime"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Default transport budgets. They match the budgets of the reference Ruby gem.
const (
	DefaultConnectTimeout = 5 * time.Second
	DefaultReadTimeout    = 10 * time.Second
	DefaultWriteTimeout   = 2 * time.Second
)

// SynapseConfig represents the configuration required to create a Synapse session.
type SynapseConfig struct {
	ClientID           string         // Platform client id (first half of X-SP-GATEWAY).
	ClientSecret       string         // Platform client secret (second half of X-SP-GATEWAY).
	Sandbox            bool           // Selects the sandbox base URL instead of the live one.
	BaseURL            string         // Optional override of the base URL. Intended for tests and proxies.
	ConnectTimeout     *time.Duration // Budget for establishing the TCP/TLS connection. If nil, a default is applied.
	ReadTimeout        *time.Duration // Budget for every read from the connection. If nil, a default is applied.
	WriteTimeout       *time.Duration // Budget for every write to the connection. If nil, a default is applied.
	UserAgent          string         // Optional custom User-Agent header. If empty, a default is applied.
	ClientIP           string         // Value sent in X-SP-USER-IP. Empty lets the server infer it.
	InsecureSkipVerify bool           // Disable TLS certificate verification.
	RespectProxy       bool           // Whether to respect proxy environment variables (HTTP_PROXY, HTTPS_PROXY, NO_PROXY).
	StrictRoutes       bool           // Reject requests whose method/path is not in the embedded API catalogue.

	// Logger receives request/response logs. If nil, WithLogger derives one from SYNAPSE_LOG.
	Logger *zap.Logger

	// BeforeRequestFn is an optional function hook executed before an API request is sent.
	// It allows for request inspection, mutation, or logging.
	//
	// Parameters:
	//   - ctx: The request context for managing deadlines and cancellations.
	//   - req: Request object (headers already finalized)
	//   - verb: The HTTP method (e.g., GET, POST, PATCH).
	//   - url: The target URL (path and query parameters).
	//   - body: The request body reader, typically containing JSON payload.
	//
	// Return:
	//   - error: Any error returned will abort the request.
	BeforeRequestFn func(ctx context.Context, r *http.Request, verb, url string, body io.Reader) error

	// AfterRequestFn is an optional function hook executed after a successful API response
	// has been normalized. It can be used for post-processing, transformation, or logging.
	AfterRequestFn func(ctx context.Context, response Record) (Record, error)

	// FillFn optionally overrides the default function used to populate structs
	// from generic Record maps. The override is process wide: it replaces the
	// function Record.Fill uses for every session, not only this one.
	FillFn func(r Record, container any) error
}

// SynapseConfigFunc defines a function that can modify or validate a SynapseConfig.
type SynapseConfigFunc func(*SynapseConfig) error

// Validate applies the given SynapseConfigFunc validators to the config.
// Panics if any validator returns an error.
func (config *SynapseConfig) Validate(validators ...SynapseConfigFunc) {
	for _, fn := range validators {
		if err := fn(config); err != nil {
			panic(err)
		}
	}
}

// Credentials returns the gateway credential pair derived from the config.
func (config *SynapseConfig) Credentials() Credentials {
	return Credentials{ClientID: config.ClientID, ClientSecret: config.ClientSecret}
}

// ApiBase returns the base URL every relative resource path is joined to.
func (config *SynapseConfig) ApiBase() string {
	if config.BaseURL != "" {
		return strings.TrimRight(config.BaseURL, "/")
	}
	if config.Sandbox {
		return SandboxBaseURL
	}
	return LiveBaseURL
}

// Credentials is the platform identity sent with every authenticated call.
type Credentials struct {
	ClientID     string
	ClientSecret string
}

// Valid reports whether both halves of the credential pair are present.
func (c Credentials) Valid() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// WithTimeouts returns a SynapseConfigFunc that fills any unset transport budget.
func WithTimeouts(connect, read, write time.Duration) SynapseConfigFunc {
	return func(config *SynapseConfig) error {
		if config.ConnectTimeout == nil {
			config.ConnectTimeout = &connect
		}
		if config.ReadTimeout == nil {
			config.ReadTimeout = &read
		}
		if config.WriteTimeout == nil {
			config.WriteTimeout = &write
		}
		for name, d := range map[string]*time.Duration{
			"connect": config.ConnectTimeout,
			"read":    config.ReadTimeout,
			"write":   config.WriteTimeout,
		} {
			if *d <= 0 {
				return fmt.Errorf("%s timeout must be positive, got %s", name, *d)
			}
		}
		return nil
	}
}

// WithCredentials validates that both client id and client secret are provided.
func WithCredentials(config *SynapseConfig) error {
	if !config.Credentials().Valid() {
		return errors.New("both client id and client secret must be provided")
	}
	return nil
}

// WithUserAgent sets a default User-Agent header if none is provided in the config.
func WithUserAgent(config *SynapseConfig) error {
	if config.UserAgent == "" {
		v, err := parseClientVersion()
		if err != nil {
			return fmt.Errorf("client version %q: %w", ClientVersion(), err)
		}
		config.UserAgent = fmt.Sprintf(
			"%s,os:%s,arch:%s",
			fmt.Sprintf("go-synapse-client-%s", v.String()),
			runtime.GOOS,
			runtime.GOARCH,
		)
	}
	return nil
}

// WithBaseURL validates an explicit base URL override.
func WithBaseURL(config *SynapseConfig) error {
	if config.BaseURL == "" {
		return nil
	}
	if !strings.HasPrefix(config.BaseURL, "http://") && !strings.HasPrefix(config.BaseURL, "https://") {
		return fmt.Errorf("base url %q must start with http:// or https://", config.BaseURL)
	}
	return nil
}

// WithLogger installs a logger when none was provided.
// SYNAPSE_LOG=info|debug enables a development logger at that level, anything else keeps logging off.
func WithLogger(config *SynapseConfig) error {
	if config.Logger != nil {
		return nil
	}
	switch strings.ToLower(os.Getenv("SYNAPSE_LOG")) {
	case "debug":
		logger, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		config.Logger = logger
	case "info":
		cfg := zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
		logger, err := cfg.Build()
		if err != nil {
			return err
		}
		config.Logger = logger
	default:
		config.Logger = zap.NewNop()
	}
	return nil
}

// WithFillFn installs a custom FillFn into the global fillFunc used by Record.Fill.
// The last session built with a FillFn wins; sessions without one leave it untouched.
func WithFillFn(config *SynapseConfig) error {
	if config.FillFn != nil {
		fillFunc = config.FillFn
	}
	return nil
}

// DefaultValidators is the validator chain NewSynapseSession applies.
func DefaultValidators() []SynapseConfigFunc {
	return []SynapseConfigFunc{
		WithCredentials,
		WithBaseURL,
		WithTimeouts(DefaultConnectTimeout, DefaultReadTimeout, DefaultWriteTimeout),
		WithUserAgent,
		WithLogger,
		WithFillFn,
	}
}
