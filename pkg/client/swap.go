package client

import (
	"context"
	"net/http"
	"time"

	"jup-ag/pkg/types"
)

const (
	opSwap             = "swap"
	opSwapInstructions = "swap_instructions"
)

// GetSwapTransaction asks the server to build the unsigned swap transaction
// for a previously fetched quote. Signing and sending are left to the caller.
func (c *QuoteClient) GetSwapTransaction(ctx context.Context, req types.SwapRequest) (tx *types.SwapTransaction, err error) {
	start := time.Now()
	defer func() { observe(opSwap, start, err) }()

	if err := req.Validate(); err != nil {
		return nil, invalidRequest(opSwap, err)
	}

	body, err := c.do(ctx, opSwap, http.MethodPost, c.cfg.QuoteAPIURL+"/swap", nil, req)
	if err != nil {
		return nil, err
	}

	tx = new(types.SwapTransaction)
	if err := decode(opSwap, body, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// GetSwapInstructions returns the swap as individual instructions instead of
// a serialized transaction.
func (c *QuoteClient) GetSwapInstructions(ctx context.Context, req types.SwapRequest) (ixs *types.SwapInstructions, err error) {
	start := time.Now()
	defer func() { observe(opSwapInstructions, start, err) }()

	if err := req.Validate(); err != nil {
		return nil, invalidRequest(opSwapInstructions, err)
	}

	body, err := c.do(ctx, opSwapInstructions, http.MethodPost, c.cfg.QuoteAPIURL+"/swap-instructions", nil, req)
	if err != nil {
		return nil, err
	}

	ixs = new(types.SwapInstructions)
	if err := decode(opSwapInstructions, body, ixs); err != nil {
		return nil, err
	}
	return ixs, nil
}
