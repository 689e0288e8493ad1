package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gagliardetto/solana-go"

	"jup-ag/pkg/types"
)

const (
	opTokens   = "tokens"
	opLabels   = "program_labels"
	opRouteMap = "route_map"
)

// GetTokens lists every mint the router can trade.
func (c *QuoteClient) GetTokens(ctx context.Context) (mints []solana.PublicKey, err error) {
	start := time.Now()
	defer func() { observe(opTokens, start, err) }()

	body, err := c.do(ctx, opTokens, http.MethodGet, c.cfg.QuoteAPIURL+"/tokens", nil, nil)
	if err != nil {
		return nil, err
	}

	var raw []string
	if err := decode(opTokens, body, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, &DecodeError{Op: opTokens, Err: errors.New("tokens: missing")}
	}

	mints = make([]solana.PublicKey, 0, len(raw))
	for i, s := range raw {
		mint, err := solana.PublicKeyFromBase58(s)
		if err != nil {
			return nil, &DecodeError{Op: opTokens, Err: fmt.Errorf("tokens[%d]: %w", i, err)}
		}
		mints = append(mints, mint)
	}
	return mints, nil
}

// GetProgramIDToLabel maps each AMM program id to its DEX label.
func (c *QuoteClient) GetProgramIDToLabel(ctx context.Context) (labels map[solana.PublicKey]string, err error) {
	start := time.Now()
	defer func() { observe(opLabels, start, err) }()

	body, err := c.do(ctx, opLabels, http.MethodGet, c.cfg.QuoteAPIURL+"/program-id-to-label", nil, nil)
	if err != nil {
		return nil, err
	}

	var raw map[string]string
	if err := decode(opLabels, body, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, &DecodeError{Op: opLabels, Err: errors.New("labels: missing")}
	}

	labels = make(map[solana.PublicKey]string, len(raw))
	for s, label := range raw {
		program, err := solana.PublicKeyFromBase58(s)
		if err != nil {
			return nil, &DecodeError{Op: opLabels, Err: fmt.Errorf("program id %q: %w", s, err)}
		}
		labels[program] = label
	}
	return labels, nil
}

// GetRouteMap returns, for every input mint, the mints it can be swapped to.
func (c *QuoteClient) GetRouteMap(ctx context.Context, onlyDirectRoutes bool) (routes types.RouteMap, err error) {
	start := time.Now()
	defer func() { observe(opRouteMap, start, err) }()

	query := url.Values{}
	query.Set("onlyDirectRoutes", strconv.FormatBool(onlyDirectRoutes))

	body, err := c.do(ctx, opRouteMap, http.MethodGet, c.cfg.QuoteAPIURL+"/indexed-route-map", query, nil)
	if err != nil {
		return nil, err
	}

	if err := decode(opRouteMap, body, &routes); err != nil {
		return nil, err
	}
	return routes, nil
}
