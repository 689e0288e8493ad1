package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	DefaultQuoteAPIURL = "https://quote-api.jup.ag/v6"
	DefaultPriceAPIURL = "https://price.jup.ag/v4"
	DefaultTimeout     = 30 * time.Second

	defaultUserAgent = "jup-ag-go"

	headerRequestID = "X-Request-Id"
	headerAPIKey    = "x-api-key"
)

// Config holds the endpoints and credentials a QuoteClient talks to.
type Config struct {
	QuoteAPIURL string
	PriceAPIURL string
	APIKey      string
	Timeout     time.Duration
}

// QuoteClient calls the Jupiter quote, swap and price APIs. It is safe for
// concurrent use.
type QuoteClient struct {
	cfg        Config
	httpClient *http.Client
	rest       *resty.Client
	log        zerolog.Logger
	userAgent  string
}

// New builds a client. Empty Config fields fall back to the public endpoints
// and DefaultTimeout.
func New(cfg Config, opts ...Option) *QuoteClient {
	if cfg.QuoteAPIURL == "" {
		cfg.QuoteAPIURL = DefaultQuoteAPIURL
	}
	if cfg.PriceAPIURL == "" {
		cfg.PriceAPIURL = DefaultPriceAPIURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	cfg.QuoteAPIURL = strings.TrimRight(cfg.QuoteAPIURL, "/")
	cfg.PriceAPIURL = strings.TrimRight(cfg.PriceAPIURL, "/")

	c := &QuoteClient{
		cfg:       cfg,
		log:       zerolog.Nop(),
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}

	// An injected client keeps its own timeout.
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	c.rest = resty.NewWithClient(c.httpClient).
		SetLogger(restyLogger{log: c.log}).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", c.userAgent)
	if cfg.APIKey != "" {
		c.rest.SetHeader(headerAPIKey, cfg.APIKey)
	}

	return c
}

// Config returns the effective configuration.
func (c *QuoteClient) Config() Config { return c.cfg }

// do sends one request and returns the body of a 2xx response. Transport
// failures and non-2xx statuses come back as typed errors.
func (c *QuoteClient) do(ctx context.Context, op, method, endpoint string, query url.Values, body interface{}) ([]byte, error) {
	requestID := uuid.NewString()

	req := c.rest.R().
		SetContext(ctx).
		SetHeader(headerRequestID, requestID)
	if query != nil {
		req.SetQueryParamsFromValues(query)
	}
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, invalidRequest(op, err)
		}
		req.SetHeader("Content-Type", "application/json").SetBody(payload)
	}

	start := time.Now()
	resp, err := req.Execute(method, endpoint)
	elapsed := time.Since(start)

	event := c.log.Debug()
	if err == nil && !resp.IsSuccess() {
		event = c.log.Warn()
	}
	event = event.
		Str("op", op).
		Str("method", method).
		Str("url", endpoint).
		Str("request_id", requestID).
		Dur("duration", elapsed)

	if err != nil {
		event.Err(err).Msg("request failed")
		return nil, &TransportError{Op: op, Err: err}
	}

	event.Int("status", resp.StatusCode()).Msg("request completed")

	if !resp.IsSuccess() {
		return nil, newRemoteError(op, resp.StatusCode(), resp.Body())
	}
	return resp.Body(), nil
}

type validator interface {
	Validate() error
}

// decode unmarshals body into out and runs its Validate method if it has one.
func decode(op string, body []byte, out interface{}) error {
	if err := json.Unmarshal(body, out); err != nil {
		return &DecodeError{Op: op, Err: err}
	}
	if v, ok := out.(validator); ok {
		if err := v.Validate(); err != nil {
			return &DecodeError{Op: op, Err: err}
		}
	}
	return nil
}

type restyLogger struct {
	log zerolog.Logger
}

func (l restyLogger) Errorf(format string, v ...interface{}) { l.log.Error().Msgf(format, v...) }
func (l restyLogger) Warnf(format string, v ...interface{})  { l.log.Warn().Msgf(format, v...) }
func (l restyLogger) Debugf(format string, v ...interface{}) { l.log.Debug().Msgf(format, v...) }
