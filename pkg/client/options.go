package client

import (
	"net/http"

	"github.com/rs/zerolog"
)

// Option configures a QuoteClient during New.
type Option func(*QuoteClient)

// WithHTTPClient sends requests through hc instead of a client built from
// Config.Timeout. A nil hc is ignored.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *QuoteClient) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the logger used for per-request logging.
func WithLogger(log zerolog.Logger) Option {
	return func(c *QuoteClient) {
		c.log = log
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *QuoteClient) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}
