package client

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jup-ag/pkg/types"
)

func solToUSDC() types.QuoteRequest {
	return types.QuoteRequest{
		InputMint:   solMint,
		OutputMint:  usdcMint,
		Amount:      1_000_000_000,
		SlippageBps: 50,
	}
}

func TestGetQuote_SolToUSDC(t *testing.T) {
	fixture := loadFixture(t, "quote_sol_usdc.json")

	ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/quote", r.URL.Path)

		q := r.URL.Query()
		assert.Equal(t, solMint.String(), q.Get("inputMint"))
		assert.Equal(t, usdcMint.String(), q.Get("outputMint"))
		assert.Equal(t, "1000000000", q.Get("amount"))
		assert.Equal(t, "50", q.Get("slippageBps"))
		assert.Equal(t, "Raydium,Orca", q.Get("excludeDexes"))
		assert.Equal(t, "true", q.Get("onlyDirectRoutes"))

		writeJSON(w, http.StatusOK, fixture)
	})

	req := solToUSDC()
	req.ExcludeDexes = []string{"Raydium", "Orca"}
	req.OnlyDirectRoutes = true

	quote, err := newTestClient(ts).GetQuote(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, uint64(150_000_000), quote.OutAmount)
	assert.Equal(t, uint64(149_250_000), quote.MinimumOutAmount())
	assert.True(t, decimal.RequireFromString("0.01").Equal(quote.PriceImpactPct))
	require.NotEmpty(t, quote.RoutePlan)

	total := 0
	for _, step := range quote.RoutePlan {
		total += step.Percent
	}
	assert.Equal(t, 100, total)

	// The quote is replayed byte for byte when passed on to /swap.
	replayed, err := json.Marshal(quote)
	require.NoError(t, err)
	assert.JSONEq(t, string(fixture), string(replayed))
}

func TestGetQuote_InvalidRequestSkipsNetwork(t *testing.T) {
	ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not reach the server")
	})
	c := newTestClient(ts)

	tests := []struct {
		name   string
		mutate func(*types.QuoteRequest)
		field  string
	}{
		{"zero amount", func(r *types.QuoteRequest) { r.Amount = 0 }, "amount"},
		{"same mints", func(r *types.QuoteRequest) { r.OutputMint = r.InputMint }, "outputMint"},
		{"slippage too high", func(r *types.QuoteRequest) { r.SlippageBps = 10_001 }, "slippageBps"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := solToUSDC()
			tt.mutate(&req)

			_, err := c.GetQuote(context.Background(), req)
			var ierr *InvalidRequestError
			require.ErrorAs(t, err, &ierr)
			assert.Equal(t, tt.field, ierr.Field)
			assert.Equal(t, opQuote, ierr.Op)
		})
	}

	assert.Zero(t, ts.hits.Load())
}

func TestGetQuote_RemoteErrors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
		wantCode    string
	}{
		{
			name:        "not found",
			status:      http.StatusNotFound,
			body:        `{"error":"Route not found"}`,
			wantMessage: "Route not found",
		},
		{
			name:        "no route with code",
			status:      http.StatusBadRequest,
			body:        `{"error":"Could not find any route","errorCode":"COULD_NOT_FIND_ANY_ROUTE"}`,
			wantMessage: "Could not find any route",
			wantCode:    "COULD_NOT_FIND_ANY_ROUTE",
		},
		{
			name:        "internal error with numeric code",
			status:      http.StatusInternalServerError,
			body:        `{"message":"Internal Server Error: upstream timed out","code":500}`,
			wantMessage: "Internal Server Error: upstream timed out",
			wantCode:    "500",
		},
		{
			name:        "plain text body",
			status:      http.StatusBadGateway,
			body:        "upstream connect error\n",
			wantMessage: "upstream connect error",
		},
		{
			name:        "empty body",
			status:      http.StatusServiceUnavailable,
			body:        "",
			wantMessage: "Service Unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, []byte(tt.body))
			})

			_, err := newTestClient(ts).GetQuote(context.Background(), solToUSDC())
			require.Error(t, err)
			assert.True(t, IsRemote(err))

			var rerr *RemoteError
			require.ErrorAs(t, err, &rerr)
			assert.Equal(t, tt.status, rerr.StatusCode)
			assert.Equal(t, tt.wantMessage, rerr.Message)
			assert.Equal(t, tt.wantCode, rerr.Code)
			assert.Equal(t, tt.body, string(rerr.Body))
			assert.Contains(t, err.Error(), tt.wantMessage)
		})
	}
}

func TestGetQuote_DecodeErrors(t *testing.T) {
	fixture := loadFixture(t, "quote_sol_usdc.json")

	without := func(field string) []byte {
		var doc map[string]interface{}
		require.NoError(t, json.Unmarshal(fixture, &doc))
		delete(doc, field)
		body, err := json.Marshal(doc)
		require.NoError(t, err)
		return body
	}

	shortRoute := func() []byte {
		var doc map[string]interface{}
		require.NoError(t, json.Unmarshal(fixture, &doc))
		steps := doc["routePlan"].([]interface{})
		steps[0].(map[string]interface{})["percent"] = 50
		body, err := json.Marshal(doc)
		require.NoError(t, err)
		return body
	}

	mismatchedTotal := func() []byte {
		var doc map[string]interface{}
		require.NoError(t, json.Unmarshal(fixture, &doc))
		doc["inAmount"] = "2000000000"
		body, err := json.Marshal(doc)
		require.NoError(t, err)
		return body
	}

	tests := []struct {
		name string
		body []byte
	}{
		{"missing outAmount", without("outAmount")},
		{"missing routePlan", without("routePlan")},
		{"percents short of 100", shortRoute()},
		{"route amounts disagree with inAmount", mismatchedTotal()},
		{"truncated json", fixture[:len(fixture)/2]},
		{"wrong type", []byte(`{"inAmount": true}`)},
		{"not an object", []byte(`[]`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, tt.body)
			})

			quote, err := newTestClient(ts).GetQuote(context.Background(), solToUSDC())
			assert.Nil(t, quote)
			require.Error(t, err)
			assert.True(t, IsDecode(err), "got %T: %v", err, err)
		})
	}
}
