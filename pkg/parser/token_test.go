package parser

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveToken(t *testing.T) {
	usdc := solana.MustPublicKeyFromBase58("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")

	tok, err := ResolveToken("usdc")
	require.NoError(t, err)
	assert.Equal(t, usdc, tok.Mint)
	assert.Equal(t, int32(6), tok.Decimals)

	tok, err = ResolveToken(usdc.String())
	require.NoError(t, err)
	assert.Equal(t, "USDC", tok.Symbol)

	tok, err = ResolveToken("wSOL")
	require.NoError(t, err)
	assert.Equal(t, "SOL", tok.Symbol)
	assert.Equal(t, int32(9), tok.Decimals)

	other := solana.NewWallet().PublicKey()
	tok, err = ResolveToken(other.String())
	require.NoError(t, err)
	assert.Equal(t, other, tok.Mint)
	assert.False(t, tok.KnownDecimals())

	_, err = ResolveToken("NOTATOKEN")
	assert.Error(t, err)
}

func TestKnownTokens(t *testing.T) {
	tokens := KnownTokens()
	require.NotEmpty(t, tokens)
	for i := 1; i < len(tokens); i++ {
		assert.Less(t, tokens[i-1].Symbol, tokens[i].Symbol)
	}
}

func TestToBaseUnits(t *testing.T) {
	tests := []struct {
		amount   string
		decimals int32
		want     uint64
	}{
		{"1", 9, 1_000_000_000},
		{"1.5", 9, 1_500_000_000},
		{"150", 6, 150_000_000},
		{"0.000001", 6, 1},
		{"42", 0, 42},
		{"18446744073709.551615", 6, 18_446_744_073_709_551_615},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			got, err := ToBaseUnits(tt.amount, tt.decimals)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			back := FromBaseUnits(got, tt.decimals)
			assert.True(t, decimal.RequireFromString(tt.amount).Equal(back), "got %s", back)
		})
	}
}

func TestToBaseUnits_Errors(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		decimals int32
	}{
		{"zero", "0", 6},
		{"negative", "-1", 6},
		{"not a number", "abc", 6},
		{"too precise", "0.0000001", 6},
		{"overflow", "18446744073709.551616", 6},
		{"unknown decimals", "1", UnknownDecimals},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ToBaseUnits(tt.amount, tt.decimals)
			assert.Error(t, err)
		})
	}
}
