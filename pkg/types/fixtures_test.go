package types

import (
	"net/url"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/stretchr/testify/require"
)

var (
	solMint  = solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112")
	usdcMint = solana.MustPublicKeyFromBase58("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")
	msolMint = solana.MustPublicKeyFromBase58("mSoLzYCxHdYgdzU16g5QSh3i5K3z3KZK7ytfqcJm7So")
)

// splitQuoteJSON routes 1 SOL to USDC across two pools, 60/40.
const splitQuoteJSON = `{
	"inputMint": "So11111111111111111111111111111111111111112",
	"inAmount": "1000000000",
	"outputMint": "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
	"outAmount": "150000000",
	"otherAmountThreshold": "149250000",
	"swapMode": "ExactIn",
	"slippageBps": 50,
	"platformFee": {"amount": "15000", "feeBps": 10},
	"priceImpactPct": "0.01",
	"routePlan": [
		{
			"swapInfo": {
				"ammKey": "whirLbMiicVdio4qvUfM5KAg6Ct8VwpYzGff3uctyCc",
				"label": "Whirlpool",
				"inputMint": "So11111111111111111111111111111111111111112",
				"outputMint": "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
				"inAmount": "600000000",
				"outAmount": "90000000",
				"feeAmount": "1200",
				"feeMint": "So11111111111111111111111111111111111111112"
			},
			"percent": 60
		},
		{
			"swapInfo": {
				"ammKey": "675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8",
				"label": "Raydium",
				"inputMint": "So11111111111111111111111111111111111111112",
				"outputMint": "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
				"inAmount": "400000000",
				"outAmount": "60000000",
				"feeAmount": "1000",
				"feeMint": "So11111111111111111111111111111111111111112"
			},
			"percent": 40
		}
	],
	"contextSlot": 250000000,
	"timeTaken": 0.012
}`

func swapInfo(in, out solana.PublicKey, inAmount uint64) SwapInfo {
	return SwapInfo{
		AmmKey:     solana.SystemProgramID,
		Label:      "Test",
		InputMint:  in,
		OutputMint: out,
		InAmount:   inAmount,
		OutAmount:  inAmount,
	}
}

// unsignedTransaction builds a transfer paid by payer, with the single empty
// signature slot the swap endpoint leaves for the user.
func unsignedTransaction(t *testing.T, payer solana.PublicKey) []byte {
	t.Helper()

	tx, err := solana.NewTransaction(
		[]solana.Instruction{
			system.NewTransferInstruction(5000, payer, solana.NewWallet().PublicKey()).Build(),
		},
		solana.Hash{1, 2, 3},
		solana.TransactionPayer(payer),
	)
	require.NoError(t, err)
	tx.Signatures = []solana.Signature{{}}

	raw, err := tx.MarshalBinary()
	require.NoError(t, err)
	return raw
}

func mustParseQuery(t *testing.T, query string) url.Values {
	t.Helper()

	v, err := url.ParseQuery(query)
	require.NoError(t, err)
	return v
}
