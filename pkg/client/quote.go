package client

import (
	"context"
	"net/http"
	"time"

	"jup-ag/pkg/types"
)

const opQuote = "quote"

// GetQuote asks for the best route for req.
func (c *QuoteClient) GetQuote(ctx context.Context, req types.QuoteRequest) (quote *types.QuoteResponse, err error) {
	start := time.Now()
	defer func() { observe(opQuote, start, err) }()

	if err := req.Validate(); err != nil {
		return nil, invalidRequest(opQuote, err)
	}

	body, err := c.do(ctx, opQuote, http.MethodGet, c.cfg.QuoteAPIURL+"/quote", req.Values(), nil)
	if err != nil {
		return nil, err
	}

	quote = new(types.QuoteResponse)
	if err := decode(opQuote, body, quote); err != nil {
		return nil, err
	}
	return quote, nil
}
