package client

import (
	"context"
	"net/http"
	"time"

	"jup-ag/pkg/types"
)

const opPrice = "price"

// GetPrice fetches unit prices for req.IDs from the price API.
func (c *QuoteClient) GetPrice(ctx context.Context, req types.PriceRequest) (prices *types.PriceResponse, err error) {
	start := time.Now()
	defer func() { observe(opPrice, start, err) }()

	if err := req.Validate(); err != nil {
		return nil, invalidRequest(opPrice, err)
	}

	body, err := c.do(ctx, opPrice, http.MethodGet, c.cfg.PriceAPIURL+"/price", req.Values(), nil)
	if err != nil {
		return nil, err
	}

	prices = new(types.PriceResponse)
	if err := decode(opPrice, body, prices); err != nil {
		return nil, err
	}
	return prices, nil
}
