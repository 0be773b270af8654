package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"vigil/internal/verification/settings"
	dErrors "vigil/pkg/domain-errors"
)

// HTTPDoer is the minimal interface needed from an HTTP client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the external verification provider. It is stateless;
// connection settings arrive per call so runtime configuration changes take
// effect without a restart.
type Client struct {
	httpClient HTTPDoer
	logger     *slog.Logger
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient overrides the HTTP client, used by tests.
func WithHTTPClient(doer HTTPDoer) ClientOption {
	return func(c *Client) {
		c.httpClient = doer
	}
}

// NewClient creates a provider client with a 30s default transport timeout.
func NewClient(logger *slog.Logger, opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Health performs the lightweight pre-flight probe. An unauthorized response
// is surfaced as a distinct actionable error so callers fail fast instead of
// hitting a confusing error on the full submission.
func (c *Client) Health(ctx context.Context, cfg settings.Config) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cfg.APIEndpoint+"/v1/health", nil)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "could not create health request")
	}
	setAuthHeaders(req, cfg)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.collapse(err, "health probe failed")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return dErrors.New(dErrors.CodeProviderUnauthorized, "verification credentials not activated")
	case resp.StatusCode != http.StatusOK:
		return c.collapse(fmt.Errorf("health status %d", resp.StatusCode), "health probe failed")
	}
	return nil
}

// Submit posts one verification request and decodes the synchronous response.
func (c *Client) Submit(ctx context.Context, cfg settings.Config, request Request) (*SubmitResponse, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "could not marshal verification request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.APIEndpoint+"/v1/verifications", bytes.NewReader(body))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "could not create verification request")
	}
	req.Header.Set("Content-Type", "application/json")
	setAuthHeaders(req, cfg)

	var out SubmitResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Status re-fetches the result for a previously submitted verification.
func (c *Client) Status(ctx context.Context, cfg settings.Config, verificationID string) (*StatusResponse, error) {
	url := fmt.Sprintf("%s/v1/verifications/%s/status", cfg.APIEndpoint, verificationID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "could not create status request")
	}
	setAuthHeaders(req, cfg)

	var out StatusResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// do executes a request and decodes a 2xx JSON body into out. Non-2xx
// responses collapse into the coded error taxonomy with full detail logged,
// never returned.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.collapse(err, "provider request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.collapse(err, "provider response unreadable")
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		c.logDetail("provider rejected credentials", req, resp.StatusCode, body)
		return dErrors.New(dErrors.CodeProviderUnauthorized, "verification credentials not activated")
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		c.logDetail("provider returned error status", req, resp.StatusCode, body)
		return dErrors.New(dErrors.CodeProviderError, "verification failed")
	}

	if err := json.Unmarshal(body, out); err != nil {
		c.logDetail("provider response undecodable", req, resp.StatusCode, body)
		return dErrors.New(dErrors.CodeProviderError, "verification failed")
	}
	return nil
}

// collapse logs the underlying failure and returns the generic caller-facing error.
func (c *Client) collapse(err error, msg string) error {
	if c.logger != nil {
		c.logger.Error(msg, "error", err)
	}
	return dErrors.Wrap(err, dErrors.CodeProviderError, "verification failed")
}

func (c *Client) logDetail(msg string, req *http.Request, status int, body []byte) {
	if c.logger == nil {
		return
	}
	c.logger.Error(msg,
		"method", req.Method,
		"path", req.URL.Path,
		"status", status,
		"body", string(body),
	)
}

func setAuthHeaders(req *http.Request, cfg settings.Config) {
	req.Header.Set("X-API-Key", cfg.APIKey)
	req.Header.Set("X-Client-ID", cfg.CredentialID)
	req.Header.Set("X-Client-Secret", cfg.CredentialSecret)
}
