package types

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrioritizationFee_JSON(t *testing.T) {
	tests := []struct {
		name string
		fee  *PrioritizationFee
		want string
	}{
		{"auto", AutoPrioritizationFee(), `"auto"`},
		{"exact", ExactPrioritizationFee(10_000), `10000`},
		{"auto multiplier", AutoMultiplierPrioritizationFee(3), `{"autoMultiplier":3}`},
		{"jito tip", JitoTipPrioritizationFee(1_000), `{"jitoTipLamports":1000}`},
		{
			"priority level",
			PriorityLevelPrioritizationFee(PriorityVeryHigh, 4_000_000),
			`{"priorityLevelWithMaxLamports":{"priorityLevel":"veryHigh","maxLamports":4000000}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := json.Marshal(tt.fee)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(out))

			var back PrioritizationFee
			require.NoError(t, json.Unmarshal(out, &back))
			assert.Equal(t, *tt.fee, back)
		})
	}
}

func TestPrioritizationFee_UnmarshalRejectsUnknown(t *testing.T) {
	for _, body := range []string{`"fast"`, `{"somethingElse":1}`, `[1]`} {
		var fee PrioritizationFee
		assert.Error(t, json.Unmarshal([]byte(body), &fee), body)
	}
}

func TestSwapRequest_JSON(t *testing.T) {
	var quote QuoteResponse
	require.NoError(t, json.Unmarshal([]byte(splitQuoteJSON), &quote))

	user := solana.NewWallet().PublicKey()
	req := NewSwapRequest(user, quote)
	require.NoError(t, req.Validate())

	body, err := json.Marshal(req)
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body, &doc))

	assert.JSONEq(t, `"`+user.String()+`"`, string(doc["userPublicKey"]))
	assert.JSONEq(t, `true`, string(doc["wrapAndUnwrapSol"]))
	assert.JSONEq(t, `"auto"`, string(doc["prioritizationFeeLamports"]))
	assert.JSONEq(t, splitQuoteJSON, string(doc["quoteResponse"]))
	assert.NotContains(t, doc, "feeAccount")
	assert.NotContains(t, doc, "computeUnitPriceMicroLamports")
}

func TestSwapRequest_Validate(t *testing.T) {
	var quote QuoteResponse
	require.NoError(t, json.Unmarshal([]byte(splitQuoteJSON), &quote))
	user := solana.NewWallet().PublicKey()
	price := uint64(1)

	tests := []struct {
		name  string
		req   SwapRequest
		field string
	}{
		{"missing user", NewSwapRequest(solana.PublicKey{}, quote), "userPublicKey"},
		{"missing quote", NewSwapRequest(user, QuoteResponse{}), "quoteResponse"},
		{"invalid quote", NewSwapRequest(user, QuoteResponse{InputMint: solMint, InAmount: 1}), "quoteResponse"},
		{
			"both fee settings",
			func() SwapRequest {
				r := NewSwapRequest(user, quote)
				r.ComputeUnitPriceMicroLamports = &price
				return r
			}(),
			"prioritizationFeeLamports",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestSwapTransaction_Decode(t *testing.T) {
	payer := solana.NewWallet().PublicKey()
	raw := unsignedTransaction(t, payer)

	body := `{
		"swapTransaction": "` + base64.StdEncoding.EncodeToString(raw) + `",
		"lastValidBlockHeight": 279632475,
		"prioritizationFeeLamports": 9999
	}`

	var swapTx SwapTransaction
	require.NoError(t, json.Unmarshal([]byte(body), &swapTx))

	assert.Equal(t, raw, swapTx.Raw)
	assert.Equal(t, uint64(279_632_475), swapTx.LastValidBlockHeight)
	assert.Equal(t, uint64(9999), swapTx.PrioritizationFeeLamports)
	assert.Equal(t, base64.StdEncoding.EncodeToString(raw), swapTx.Base64())

	tx, err := swapTx.Transaction()
	require.NoError(t, err)
	assert.Equal(t, payer, tx.Message.AccountKeys[0])

	out, err := json.Marshal(swapTx)
	require.NoError(t, err)
	assert.JSONEq(t, body, string(out))
}

func TestSwapTransaction_DecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing transaction", `{"lastValidBlockHeight": 1}`},
		{"not base64", `{"swapTransaction": "!!!", "lastValidBlockHeight": 1}`},
		{"not a transaction", `{"swapTransaction": "AQ==", "lastValidBlockHeight": 1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var swapTx SwapTransaction
			err := json.Unmarshal([]byte(tt.body), &swapTx)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
			assert.Equal(t, "swapTransaction", verr.Field)
		})
	}
}
