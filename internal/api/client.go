// Package api implements the HTTP client for the remote tutor service.
//
// The service is an opaque collaborator: it receives the full
// conversation history on every call and returns a single reply. It is
// not trusted to retain memory between calls.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/tidwall/gjson"

	apierrors "github.com/helena/scitutor/internal/errors"
	"github.com/helena/scitutor/internal/logger"
	"github.com/helena/scitutor/internal/models"
)

// Turn is one conversational exchange in the outbound history
type Turn struct {
	Role  string `json:"role"` // "user" or "model"
	Parts []Part `json:"parts"`
}

// Part carries the text of a turn
type Part struct {
	Text string `json:"text"`
}

// askRequest is the wire shape of the outbound request body
type askRequest struct {
	History []Turn `json:"history"`
}

// TutorClientInterface defines the client operations consumed by the
// session and commands layers.
type TutorClientInterface interface {
	Ask(ctx context.Context, history []Turn) (string, error)
	Close()
}

// TutorClient talks to the tutor service over HTTP
type TutorClient struct {
	httpClient tls_client.HttpClient
	endpoint   string
	mu         sync.Mutex
	closed     bool
}

// Ensure TutorClient implements the interface
var _ TutorClientInterface = (*TutorClient)(nil)

// ClientOption is a function that configures the client
type ClientOption func(*clientSettings)

type clientSettings struct {
	endpoint string
	timeout  time.Duration
}

// WithEndpoint overrides the tutor service URL
func WithEndpoint(endpoint string) ClientOption {
	return func(s *clientSettings) {
		s.endpoint = endpoint
	}
}

// WithTimeout sets the per-request timeout. The timeout is a transport
// property; an expired request surfaces as a TransportError.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(s *clientSettings) {
		s.timeout = timeout
	}
}

// NewClient creates a new TutorClient
func NewClient(opts ...ClientOption) (*TutorClient, error) {
	settings := &clientSettings{
		endpoint: models.DefaultEndpoint,
		timeout:  120 * time.Second,
	}
	for _, opt := range opts {
		opt(settings)
	}

	options := []tls_client.HttpClientOption{
		tls_client.WithTimeoutSeconds(int(settings.timeout.Seconds())),
		tls_client.WithNotFollowRedirects(),
	}

	httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	return &TutorClient{
		httpClient: httpClient,
		endpoint:   settings.endpoint,
	}, nil
}

// Endpoint returns the configured tutor service URL
func (c *TutorClient) Endpoint() string {
	return c.endpoint
}

// Close marks the client as closed
func (c *TutorClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

// IsClosed reports whether the client has been closed
func (c *TutorClient) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Ask posts the conversation history and returns the reply text.
//
// The returned string may be empty when the service answered
// successfully without a usable reply field; substituting the fallback
// message is the caller's concern. Failures are TransportError
// (unreachable, timeout, non-2xx) or MalformedResponseError (2xx with
// an error field or an undecodable body).
func (c *TutorClient) Ask(ctx context.Context, history []Turn) (string, error) {
	if len(history) == 0 {
		return "", fmt.Errorf("history cannot be empty")
	}
	if c.IsClosed() {
		return "", fmt.Errorf("client is closed")
	}

	payload, err := json.Marshal(askRequest{History: history})
	if err != nil {
		return "", fmt.Errorf("failed to build payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(string(payload)))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Error().Err(err).Str("endpoint", c.endpoint).Msg("tutor request failed")
		return "", apierrors.NewNetworkError(c.endpoint, err)
	}
	defer func() {
		if resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", apierrors.NewNetworkError(c.endpoint, err)
	}

	logger.Debug().
		Int("status", resp.StatusCode).
		Int("turns", len(history)).
		Dur("duration", time.Since(started)).
		Msg("tutor request completed")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", apierrors.NewTransportError(resp.StatusCode, c.endpoint, errorDetail(body))
	}

	if !gjson.ValidBytes(body) {
		return "", apierrors.NewMalformedResponseError("body is not valid JSON")
	}

	// A 2xx body carrying an error field is still a failure.
	if errField := gjson.GetBytes(body, "error"); errField.Exists() {
		return "", apierrors.NewMalformedResponseError(errorDetail(body))
	}

	return gjson.GetBytes(body, "response").String(), nil
}

// errorDetail extracts the error field from a failing response body,
// defaulting to the fixed diagnostic string.
func errorDetail(body []byte) string {
	if gjson.ValidBytes(body) {
		if errField := gjson.GetBytes(body, "error"); errField.Exists() && errField.String() != "" {
			return errField.String()
		}
	}
	return models.UnknownBackendError
}
