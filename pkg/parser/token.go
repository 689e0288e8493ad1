package parser

import (
	"fmt"
	"math/big"
	"sort"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
)

// UnknownDecimals marks a token resolved from a raw mint that is not in the
// well-known list.
const UnknownDecimals int32 = -1

// Token is a mint plus what is needed to show amounts to a user.
type Token struct {
	Symbol   string
	Mint     solana.PublicKey
	Decimals int32
}

// KnownDecimals reports whether Decimals can be used for unit conversion.
func (t Token) KnownDecimals() bool { return t.Decimals >= 0 }

var knownTokens = map[string]Token{
	"SOL":     {"SOL", solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112"), 9},
	"USDC":    {"USDC", solana.MustPublicKeyFromBase58("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"), 6},
	"USDT":    {"USDT", solana.MustPublicKeyFromBase58("Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB"), 6},
	"MSOL":    {"MSOL", solana.MustPublicKeyFromBase58("mSoLzYCxHdYgdzU16g5QSh3i5K3z3KZK7ytfqcJm7So"), 9},
	"JITOSOL": {"JITOSOL", solana.MustPublicKeyFromBase58("J1toso1uCk3RLmjorhTtrVwY9HJ7X8V9yYac6Y7kGCPn"), 9},
	"JUP":     {"JUP", solana.MustPublicKeyFromBase58("JUPyiwrYJFskUPiHa7hkeR8VUtAeFoSYbKedZNsDvCN"), 6},
	"BONK":    {"BONK", solana.MustPublicKeyFromBase58("DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263"), 5},
}

// KnownTokens returns the well-known tokens sorted by symbol.
func KnownTokens() []Token {
	out := make([]Token, 0, len(knownTokens))
	for _, t := range knownTokens {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

// LookupMint finds a well-known token by mint.
func LookupMint(mint solana.PublicKey) (Token, bool) {
	for _, t := range knownTokens {
		if t.Mint.Equals(mint) {
			return t, true
		}
	}
	return Token{}, false
}

// ResolveToken accepts a symbol or a base58 mint. A mint outside the
// well-known list resolves with UnknownDecimals.
func ResolveToken(s string) (Token, error) {
	symbol := NormalizeTokenSymbol(s)
	if t, ok := knownTokens[symbol]; ok {
		return t, nil
	}

	mint, err := solana.PublicKeyFromBase58(symbol)
	if err != nil {
		return Token{}, fmt.Errorf("token '%s' not found; use a known symbol or a mint address", s)
	}
	if t, ok := LookupMint(mint); ok {
		return t, nil
	}
	return Token{Symbol: mint.String(), Mint: mint, Decimals: UnknownDecimals}, nil
}

// ToBaseUnits converts a UI amount such as "1.5" into base units. Amounts
// with more fractional digits than the token supports are rejected.
func ToBaseUnits(amount string, decimals int32) (uint64, error) {
	if decimals < 0 {
		return 0, fmt.Errorf("token decimals are unknown")
	}

	d, err := decimal.NewFromString(amount)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	if !d.IsPositive() {
		return 0, fmt.Errorf("amount must be greater than zero")
	}

	units := d.Shift(decimals)
	if !units.Equal(units.Truncate(0)) {
		return 0, fmt.Errorf("amount %s has more than %d decimal places", amount, decimals)
	}

	n := units.BigInt()
	if !n.IsUint64() {
		return 0, fmt.Errorf("amount %s is too large", amount)
	}
	return n.Uint64(), nil
}

// FromBaseUnits converts base units back into a UI amount.
func FromBaseUnits(amount uint64, decimals int32) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(amount), -decimals)
}
