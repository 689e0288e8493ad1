package types

import "github.com/gagliardetto/solana-go"

// PlatformFeeSource labels the integrator fee in a fee breakdown.
const PlatformFeeSource = "platform"

// PlatformFee is the integrator fee attached to a quote.
type PlatformFee struct {
	Amount uint64 `json:"amount,string"`
	FeeBps uint16 `json:"feeBps"`
}

// Fee is one entry of a quote's fee breakdown.
type Fee struct {
	Source string // liquidity source label or PlatformFeeSource
	Mint   solana.PublicKey
	Amount uint64
	Bps    uint16 // only set for the platform fee
}
