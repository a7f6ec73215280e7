package geek

import (
	"net/http"
	"time"

	"github.com/nwept/bggstats/pkg/logger"
)

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithBaseURL overrides the catalog API root.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithQueueRetries sets how often a queued (202) request is retried.
func WithQueueRetries(retries int) Option {
	return func(c *Client) {
		if retries > 0 {
			c.queueRetries = retries
		}
	}
}

// WithQueueRetryDelay sets the pause between queued-request retries.
func WithQueueRetryDelay(delay time.Duration) Option {
	return func(c *Client) {
		if delay > 0 {
			c.queueRetryDelay = delay
		}
	}
}

// WithThingChunkSize caps how many game ids one request carries.
func WithThingChunkSize(size int) Option {
	return func(c *Client) {
		if size > 0 {
			c.thingChunkSize = size
		}
	}
}

// WithLogger sets a custom logger for the client.
func WithLogger(log logger.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}
