package deemo

import (
	"errors"
	"net/http"
	"net/url"
	"time"
)

// Config defines a public type used by deemo APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	API     APIConfig
	Audit   AuditConfig
	Metrics MetricsConfig
}

/*
====================================
API CONFIG
====================================
*/

// APIConfig defines a public type used by deemo APIs.
//
// APIConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type APIConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
	UserAgent      string
}

// AuditConfig defines a public type used by deemo APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig defines a public type used by deemo APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

func defaultConfig() Config {
	return Config{
		API: APIConfig{
			RequestTimeout: 15 * time.Second,
			UserAgent:      "deemo-go/1.0",
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
	}
}

func cloneConfig(cfg Config) Config {
	return cfg
}

/*
====================================
VALIDATION
====================================
*/

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
// Validate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Config) Validate() error {
	// API. An unconstructable endpoint is a configuration defect surfaced at
	// build time, never a runtime path users can trigger in a shipped build.
	if c.API.BaseURL == "" {
		return errors.New("API BaseURL must be set")
	}
	base, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return errors.New("API BaseURL must parse as a URL")
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return errors.New("API BaseURL scheme must be http or https")
	}
	if base.Host == "" {
		return errors.New("API BaseURL must include a host")
	}
	if c.API.RequestTimeout <= 0 {
		return errors.New("API RequestTimeout must be > 0")
	}

	// Audit
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit BufferSize must be > 0 when Audit is enabled")
	}

	return nil
}

// DefaultHTTPClient returns the client the engine uses when none is injected.
func DefaultHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &http.Client{Timeout: timeout}
}
