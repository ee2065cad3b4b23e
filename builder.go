package deemo

import (
	"errors"
	"net/http"

	"github.com/deemo-app/deemo-go/api"
	"github.com/deemo-app/deemo-go/credential"
)

// Builder defines a public type used by deemo APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config

	httpClient *http.Client
	apiClient  *api.Client
	creds      credential.Store
	auditSink  AuditSink

	built bool
}

// New describes the new operation and its observable behavior.
//
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig describes the withconfig operation and its observable behavior.
//
// WithConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithBaseURL describes the withbaseurl operation and its observable behavior.
//
// WithBaseURL does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithBaseURL(baseURL string) *Builder {
	b.config.API.BaseURL = baseURL
	return b
}

// WithHTTPClient injects the transport used by the API client. Useful for
// proxies, custom TLS, or test servers.
func (b *Builder) WithHTTPClient(client *http.Client) *Builder {
	b.httpClient = client
	return b
}

// WithAPIClient injects a fully constructed API client, bypassing BaseURL
// and HTTP client assembly. Intended for tests and embedded deployments.
func (b *Builder) WithAPIClient(client *api.Client) *Builder {
	b.apiClient = client
	return b
}

// WithCredentialStore describes the withcredentialstore operation and its observable behavior.
//
// WithCredentialStore does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithCredentialStore(store credential.Store) *Builder {
	b.creds = store
	return b
}

// WithAuditSink describes the withauditsink operation and its observable behavior.
//
// WithAuditSink does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithMetricsEnabled describes the withmetricsenabled operation and its observable behavior.
//
// WithMetricsEnabled does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms describes the withlatencyhistograms operation and its observable behavior.
//
// WithLatencyHistograms does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build describes the build operation and its observable behavior.
//
// Build may return an error when input validation, dependency calls, or security checks fail.
// Build does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)

	if b.creds == nil {
		return nil, errors.New("credential store required")
	}

	apiClient := b.apiClient
	if apiClient == nil {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}

		httpClient := b.httpClient
		if httpClient == nil {
			httpClient = DefaultHTTPClient(cfg.API.RequestTimeout)
		}

		built, err := api.NewClient(api.Config{
			BaseURL:        cfg.API.BaseURL,
			HTTPClient:     httpClient,
			RequestTimeout: cfg.API.RequestTimeout,
			UserAgent:      cfg.API.UserAgent,
		})
		if err != nil {
			return nil, err
		}
		apiClient = built
	} else if cfg.Audit.Enabled && cfg.Audit.BufferSize <= 0 {
		return nil, errors.New("Audit BufferSize must be > 0 when Audit is enabled")
	}

	engine := &Engine{
		config:    cfg,
		apiClient: apiClient,
		creds:     b.creds,
		observers: make(map[int]Observer),
	}

	engine.audit = newAuditDispatcher(cfg.Audit, b.auditSink)
	engine.metrics = NewMetrics(cfg.Metrics)

	b.built = true

	return engine, nil
}
