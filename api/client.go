package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrInvalidBaseURL is an exported constant or variable used by the API client.
	ErrInvalidBaseURL = errors.New("invalid base url")
	// ErrTransport is an exported constant or variable used by the API client.
	ErrTransport = errors.New("transport failure")
	// ErrDecode is an exported constant or variable used by the API client.
	ErrDecode = errors.New("malformed response body")
	// ErrAuthRejected is an exported constant or variable used by the API client.
	ErrAuthRejected = errors.New("credentials rejected")
	// ErrSignupRejected is an exported constant or variable used by the API client.
	ErrSignupRejected = errors.New("signup rejected")
	// ErrProfileRejected is an exported constant or variable used by the API client.
	ErrProfileRejected = errors.New("profile request rejected")
)

const (
	loginPath   = "/api/auth/login"
	signupPath  = "/api/auth/signup"
	profilePath = "/api/profile"

	defaultRequestTimeout = 15 * time.Second
	defaultUserAgent      = "deemo-go/1.0"

	// Failure bodies are surfaced to the UI as-is; cap how much we read.
	maxErrorBodyBytes = 4 << 10
)

// Profile is the immutable account record returned by the profile endpoint.
// PhoneNumber and About are optional server-side; absence decodes to "".
type Profile struct {
	Name        string `json:"name"`
	Role        string `json:"role"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Age         int    `json:"age"`
	About       string `json:"about,omitempty"`
}

// Config defines a public type used by deemo APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	BaseURL        string
	HTTPClient     *http.Client
	RequestTimeout time.Duration
	UserAgent      string
}

// Client defines a public type used by deemo APIs.
//
// Client instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Client struct {
	base      *url.URL
	http      *http.Client
	userAgent string
}

// NewClient validates cfg.BaseURL and returns a client bound to it. An
// unparsable or schemeless base URL is a configuration defect, not a runtime
// condition, and fails construction with [ErrInvalidBaseURL].
func NewClient(cfg Config) (*Client, error) {
	base, err := url.Parse(strings.TrimSuffix(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBaseURL, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidBaseURL, base.Scheme)
	}
	if base.Host == "" {
		return nil, fmt.Errorf("%w: missing host", ErrInvalidBaseURL)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.RequestTimeout
		if timeout <= 0 {
			timeout = defaultRequestTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	return &Client{
		base:      base,
		http:      httpClient,
		userAgent: userAgent,
	}, nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login posts credentials as a JSON body and decodes the issued bearer token.
// Any transport failure, non-2xx status, or decode failure maps to a sentinel
// from the closed taxonomy; the token is treated as opaque.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	body, err := json.Marshal(loginRequest{Email: email, Password: password})
	if err != nil {
		return "", fmt.Errorf("%w: encode login body: %v", ErrTransport, err)
	}

	resp, err := c.do(ctx, http.MethodPost, loginPath, body, "")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if !statusOK(resp.StatusCode) {
		return "", fmt.Errorf("%w: %s", ErrAuthRejected, failureMessage(resp))
	}

	var decoded loginResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxErrorBodyBytes)).Decode(&decoded); err != nil {
		return "", fmt.Errorf("%w: decode login response: %v", ErrDecode, err)
	}
	if decoded.Token == "" {
		return "", fmt.Errorf("%w: login response missing token", ErrDecode)
	}

	return decoded.Token, nil
}

// Signup registers a new account. HTTP 200 or 201 is success and the body is
// ignored; otherwise the failure message is taken from the response body text
// when present.
func (c *Client) Signup(ctx context.Context, name, email, password string) error {
	body, err := json.Marshal(signupRequest{Name: name, Email: email, Password: password})
	if err != nil {
		return fmt.Errorf("%w: encode signup body: %v", ErrTransport, err)
	}

	resp, err := c.do(ctx, http.MethodPost, signupPath, body, "")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("%w: %s", ErrSignupRejected, failureMessage(resp))
	}

	return nil
}

// FetchProfile sends token as a bearer credential and decodes the profile.
func (c *Client) FetchProfile(ctx context.Context, token string) (*Profile, error) {
	resp, err := c.do(ctx, http.MethodGet, profilePath, nil, token)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if !statusOK(resp.StatusCode) {
		return nil, fmt.Errorf("%w: %s", ErrProfileRejected, failureMessage(resp))
	}

	var profile Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("%w: decode profile: %v", ErrDecode, err)
	}

	return &profile, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, bearer string) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, reader)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrTransport, err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	requestID := requestIDFromContext(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	req.Header.Set("X-Request-ID", requestID)

	userAgent := userAgentFromContext(ctx)
	if userAgent == "" {
		userAgent = c.userAgent
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}

	return resp, nil
}

func statusOK(code int) bool {
	return code >= 200 && code < 300
}

func failureMessage(resp *http.Response) string {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	text := strings.TrimSpace(string(body))
	if err != nil || text == "" {
		return fmt.Sprintf("status %d", resp.StatusCode)
	}
	return fmt.Sprintf("status %d: %s", resp.StatusCode, text)
}
