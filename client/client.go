// Package client executes requests against a Loom inference endpoint,
// either as one blocking round trip or as a pull-driven event stream.
package client

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"os"

	"github.com/google/uuid"

	"github.com/loomlabs/loom/core"
)

// responsesPath is the inference endpoint path.
const responsesPath = "/responses"

// DefaultAPIKeyEnvVar is the environment variable NewFromEnv reads.
const DefaultAPIKeyEnvVar = "LOOM_API_KEY"

// ErrAPIKeyNotFound is returned by NewFromEnv when the environment variable
// is not set.
var ErrAPIKeyNotFound = errors.New("client: " + DefaultAPIKeyEnvVar + " environment variable not set")

// Client executes requests against the inference endpoint. It holds only
// read-only configuration, so one Client is safe for concurrent use by any
// number of independent calls.
type Client struct {
	config Config
}

// New creates a Client with the given API key and options. The credential
// is an explicit argument; the client never reads ambient process state.
func New(apiKey string, opts ...Option) *Client {
	cfg := Config{
		APIKey:     core.NewSecret(apiKey),
		BaseURL:    DefaultBaseURL,
		HTTPClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	if cfg.Timeout > 0 {
		hc := *cfg.HTTPClient
		hc.Timeout = cfg.Timeout
		cfg.HTTPClient = &hc
	}
	return &Client{config: cfg}
}

// NewFromEnv creates a Client using the LOOM_API_KEY environment variable.
// This convenience lives at the process edge; the Client itself still
// receives the credential explicitly.
func NewFromEnv(opts ...Option) (*Client, error) {
	apiKey := os.Getenv(DefaultAPIKeyEnvVar)
	if apiKey == "" {
		return nil, ErrAPIKeyNotFound
	}
	return New(apiKey, opts...), nil
}

// HasAuthentication reports whether a credential is configured.
func (c *Client) HasAuthentication() bool {
	return !c.config.APIKey.IsEmpty()
}

// ValidateAuthentication fails with an authentication error when no
// credential is configured, letting callers fail fast before network I/O.
func (c *Client) ValidateAuthentication() error {
	if !c.HasAuthentication() {
		return authenticationError()
	}
	return nil
}

// Respond executes one blocking round trip and decodes the complete
// response body. Transport failures, non-2xx statuses, and malformed bodies
// surface as typed errors.
func (c *Client) Respond(ctx context.Context, req *core.Request) (*core.Response, error) {
	resp, err := c.do(ctx, req, false)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, networkError(err)
	}
	return decodeResponse(body)
}

// Stream executes the request in streaming mode and returns a cold,
// pull-driven event sequence. Connection-establishment failures are
// returned here; failures after that terminate the sequence through Recv.
func (c *Client) Stream(ctx context.Context, req *core.Request) (*Stream, error) {
	resp, err := c.do(ctx, req, true)
	if err != nil {
		return nil, err
	}
	return newStream(ctx, resp.Body, c.config.MaxStreamRecordSize), nil
}

// Chat builds a single-user-turn request and executes it blocking.
func (c *Client) Chat(ctx context.Context, model, message string) (*core.Response, error) {
	req, err := core.NewRequest(model).User(message).Build()
	if err != nil {
		return nil, err
	}
	return c.Respond(ctx, req)
}

// do serializes the request, performs the HTTP exchange, and checks the
// status. On success the caller owns the response body.
func (c *Client) do(ctx context.Context, req *core.Request, stream bool) (*http.Response, error) {
	body, err := encodeRequest(req, stream)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+responsesPath, bytes.NewReader(body))
	if err != nil {
		return nil, networkError(err)
	}
	for key, values := range c.buildHeaders(stream) {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}

	resp, err := c.config.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, networkError(err)
	}

	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		respBody, _ := io.ReadAll(resp.Body)
		return nil, normalizeStatusError(resp.StatusCode, respBody, resp.Header.Get("x-request-id"))
	}
	return resp, nil
}

// buildHeaders constructs the headers for one exchange, including a fresh
// correlation ID.
func (c *Client) buildHeaders(stream bool) http.Header {
	headers := make(http.Header)
	headers.Set("Content-Type", "application/json")
	headers.Set("X-Request-ID", uuid.NewString())
	if stream {
		headers.Set("Accept", "text/event-stream")
	} else {
		headers.Set("Accept", "application/json")
	}
	if !c.config.APIKey.IsEmpty() {
		headers.Set("Authorization", "Bearer "+c.config.APIKey.Expose())
	}
	for key, values := range c.config.Headers {
		for _, v := range values {
			headers.Add(key, v)
		}
	}
	return headers
}
