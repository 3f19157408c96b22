package client

import (
	"net/http"
	"time"

	"github.com/loomlabs/loom/core"
)

// Config holds the immutable transport configuration for a Client.
type Config struct {
	// APIKey is the bearer credential. May be empty for endpoints that do
	// not require authentication.
	APIKey core.Secret

	// BaseURL is the endpoint base URL. Defaults to DefaultBaseURL.
	BaseURL string

	// HTTPClient is the HTTP client to use. Defaults to http.DefaultClient.
	HTTPClient *http.Client

	// Headers contains extra headers to include in every request.
	Headers http.Header

	// Timeout is the per-request deadline. Zero means no client-side
	// deadline; enforcement is delegated to the HTTP transport.
	Timeout time.Duration

	// MaxStreamRecordSize bounds how many bytes one streaming record may
	// buffer before decoding fails. Zero selects the default.
	MaxStreamRecordSize int
}

// DefaultBaseURL is the default inference endpoint base URL.
const DefaultBaseURL = "https://api.loomlabs.ai/v1"

// Option configures a Client.
type Option func(*Config)

// WithBaseURL sets the endpoint base URL.
func WithBaseURL(url string) Option {
	return func(c *Config) {
		c.BaseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Config) {
		c.HTTPClient = client
	}
}

// WithHeader adds an extra header to include in every request.
func WithHeader(key, value string) Option {
	return func(c *Config) {
		if c.Headers == nil {
			c.Headers = make(http.Header)
		}
		c.Headers.Set(key, value)
	}
}

// WithTimeout sets the per-request deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.Timeout = d
	}
}

// WithMaxStreamRecordSize sets the streaming record buffer limit.
func WithMaxStreamRecordSize(n int) Option {
	return func(c *Config) {
		c.MaxStreamRecordSize = n
	}
}
