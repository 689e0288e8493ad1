package types

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// SwapRequest asks the swap endpoint to build the transaction for a quote.
type SwapRequest struct {
	UserPublicKey                 solana.PublicKey   `json:"userPublicKey"`
	WrapAndUnwrapSol              *bool              `json:"wrapAndUnwrapSol,omitempty"`
	UseSharedAccounts             *bool              `json:"useSharedAccounts,omitempty"`
	FeeAccount                    *solana.PublicKey  `json:"feeAccount,omitempty"`
	DestinationTokenAccount       *solana.PublicKey  `json:"destinationTokenAccount,omitempty"`
	ComputeUnitPriceMicroLamports *uint64            `json:"computeUnitPriceMicroLamports,omitempty"`
	PrioritizationFeeLamports     *PrioritizationFee `json:"prioritizationFeeLamports,omitempty"`
	AsLegacyTransaction           bool               `json:"asLegacyTransaction,omitempty"`
	UseTokenLedger                bool               `json:"useTokenLedger,omitempty"`
	DynamicComputeUnitLimit       bool               `json:"dynamicComputeUnitLimit,omitempty"`
	SkipUserAccountsRPCCalls      bool               `json:"skipUserAccountsRpcCalls,omitempty"`
	QuoteResponse                 QuoteResponse      `json:"quoteResponse"`
}

// NewSwapRequest builds a request that wraps and unwraps SOL and lets the
// server pick the prioritization fee.
func NewSwapRequest(user solana.PublicKey, quote QuoteResponse) SwapRequest {
	wrap := true
	return SwapRequest{
		UserPublicKey:             user,
		WrapAndUnwrapSol:          &wrap,
		PrioritizationFeeLamports: AutoPrioritizationFee(),
		QuoteResponse:             quote,
	}
}

// Validate checks the request before it is sent.
func (r *SwapRequest) Validate() error {
	if r.UserPublicKey.IsZero() {
		return invalid("userPublicKey", "is required")
	}
	if r.QuoteResponse.IsZero() {
		return invalid("quoteResponse", "is required")
	}
	if err := r.QuoteResponse.Validate(); err != nil {
		return invalid("quoteResponse", "%v", err)
	}
	if r.ComputeUnitPriceMicroLamports != nil && r.PrioritizationFeeLamports != nil {
		return invalid("prioritizationFeeLamports", "cannot be combined with computeUnitPriceMicroLamports")
	}
	return nil
}

// PriorityLevel is a named percentile of recent prioritization fees.
type PriorityLevel string

const (
	PriorityMedium   PriorityLevel = "medium"
	PriorityHigh     PriorityLevel = "high"
	PriorityVeryHigh PriorityLevel = "veryHigh"
)

type prioritizationKind int

const (
	prioritizationAuto prioritizationKind = iota
	prioritizationExact
	prioritizationAutoMultiplier
	prioritizationJitoTip
	prioritizationPriorityLevel
)

// PrioritizationFee selects how the swap transaction pays for priority.
type PrioritizationFee struct {
	kind       prioritizationKind
	lamports   uint64
	multiplier uint64
	level      PriorityLevel
}

// AutoPrioritizationFee lets the server choose.
func AutoPrioritizationFee() *PrioritizationFee {
	return &PrioritizationFee{kind: prioritizationAuto}
}

// ExactPrioritizationFee pays exactly lamports.
func ExactPrioritizationFee(lamports uint64) *PrioritizationFee {
	return &PrioritizationFee{kind: prioritizationExact, lamports: lamports}
}

// AutoMultiplierPrioritizationFee scales the server's automatic fee.
func AutoMultiplierPrioritizationFee(multiplier uint64) *PrioritizationFee {
	return &PrioritizationFee{kind: prioritizationAutoMultiplier, multiplier: multiplier}
}

// JitoTipPrioritizationFee tips a Jito validator instead of paying a compute unit price.
func JitoTipPrioritizationFee(lamports uint64) *PrioritizationFee {
	return &PrioritizationFee{kind: prioritizationJitoTip, lamports: lamports}
}

// PriorityLevelPrioritizationFee pays the given priority level, capped at maxLamports.
func PriorityLevelPrioritizationFee(level PriorityLevel, maxLamports uint64) *PrioritizationFee {
	return &PrioritizationFee{kind: prioritizationPriorityLevel, level: level, lamports: maxLamports}
}

func (p PrioritizationFee) String() string {
	switch p.kind {
	case prioritizationExact:
		return fmt.Sprintf("%d lamports", p.lamports)
	case prioritizationAutoMultiplier:
		return fmt.Sprintf("auto x%d", p.multiplier)
	case prioritizationJitoTip:
		return fmt.Sprintf("jito tip %d lamports", p.lamports)
	case prioritizationPriorityLevel:
		return fmt.Sprintf("%s (max %d lamports)", p.level, p.lamports)
	default:
		return "auto"
	}
}

type priorityLevelWithMax struct {
	PriorityLevel PriorityLevel `json:"priorityLevel"`
	MaxLamports   uint64        `json:"maxLamports"`
}

type prioritizationObject struct {
	AutoMultiplier               *uint64               `json:"autoMultiplier,omitempty"`
	JitoTipLamports              *uint64               `json:"jitoTipLamports,omitempty"`
	PriorityLevelWithMaxLamports *priorityLevelWithMax `json:"priorityLevelWithMaxLamports,omitempty"`
}

// MarshalJSON encodes the fee in the shape the swap endpoint expects.
func (p PrioritizationFee) MarshalJSON() ([]byte, error) {
	switch p.kind {
	case prioritizationAuto:
		return []byte(`"auto"`), nil
	case prioritizationExact:
		return json.Marshal(p.lamports)
	case prioritizationAutoMultiplier:
		return json.Marshal(prioritizationObject{AutoMultiplier: &p.multiplier})
	case prioritizationJitoTip:
		return json.Marshal(prioritizationObject{JitoTipLamports: &p.lamports})
	case prioritizationPriorityLevel:
		return json.Marshal(prioritizationObject{PriorityLevelWithMaxLamports: &priorityLevelWithMax{
			PriorityLevel: p.level,
			MaxLamports:   p.lamports,
		}})
	default:
		return nil, fmt.Errorf("unknown prioritization fee kind %d", p.kind)
	}
}

// UnmarshalJSON accepts every shape MarshalJSON produces.
func (p *PrioritizationFee) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != "auto" {
			return fmt.Errorf("unknown prioritization fee %q", s)
		}
		*p = PrioritizationFee{kind: prioritizationAuto}
		return nil
	}

	var lamports uint64
	if err := json.Unmarshal(data, &lamports); err == nil {
		*p = PrioritizationFee{kind: prioritizationExact, lamports: lamports}
		return nil
	}

	var obj prioritizationObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("decode prioritization fee: %w", err)
	}
	switch {
	case obj.AutoMultiplier != nil:
		*p = PrioritizationFee{kind: prioritizationAutoMultiplier, multiplier: *obj.AutoMultiplier}
	case obj.JitoTipLamports != nil:
		*p = PrioritizationFee{kind: prioritizationJitoTip, lamports: *obj.JitoTipLamports}
	case obj.PriorityLevelWithMaxLamports != nil:
		*p = PrioritizationFee{
			kind:     prioritizationPriorityLevel,
			level:    obj.PriorityLevelWithMaxLamports.PriorityLevel,
			lamports: obj.PriorityLevelWithMaxLamports.MaxLamports,
		}
	default:
		return fmt.Errorf("unknown prioritization fee %s", string(data))
	}
	return nil
}

// SwapTransaction is an unsigned swap transaction ready for signing.
type SwapTransaction struct {
	Raw                       []byte
	LastValidBlockHeight      uint64
	PrioritizationFeeLamports uint64
}

type swapTransactionWire struct {
	SwapTransaction           string `json:"swapTransaction"`
	LastValidBlockHeight      uint64 `json:"lastValidBlockHeight"`
	PrioritizationFeeLamports uint64 `json:"prioritizationFeeLamports"`
}

// UnmarshalJSON decodes a swap endpoint response and checks that the
// payload is a well-formed Solana transaction.
func (s *SwapTransaction) UnmarshalJSON(data []byte) error {
	var w swapTransactionWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if w.SwapTransaction == "" {
		return invalid("swapTransaction", "missing")
	}
	raw, err := base64.StdEncoding.DecodeString(w.SwapTransaction)
	if err != nil {
		return invalid("swapTransaction", "base64: %v", err)
	}

	decoded := SwapTransaction{
		Raw:                       raw,
		LastValidBlockHeight:      w.LastValidBlockHeight,
		PrioritizationFeeLamports: w.PrioritizationFeeLamports,
	}
	if _, err := decoded.Transaction(); err != nil {
		return invalid("swapTransaction", "%v", err)
	}
	*s = decoded
	return nil
}

// MarshalJSON encodes the transaction back into the endpoint's shape.
func (s SwapTransaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(swapTransactionWire{
		SwapTransaction:           s.Base64(),
		LastValidBlockHeight:      s.LastValidBlockHeight,
		PrioritizationFeeLamports: s.PrioritizationFeeLamports,
	})
}

// Base64 is the wire encoding of the raw transaction.
func (s *SwapTransaction) Base64() string {
	return base64.StdEncoding.EncodeToString(s.Raw)
}

// Transaction parses a fresh copy of the payload. Legacy and v0 messages
// are both supported.
func (s *SwapTransaction) Transaction() (*solana.Transaction, error) {
	if len(s.Raw) == 0 {
		return nil, fmt.Errorf("empty transaction")
	}
	tx, err := solana.TransactionFromDecoder(bin.NewBinDecoder(s.Raw))
	if err != nil {
		return nil, fmt.Errorf("parse transaction: %w", err)
	}
	return tx, nil
}
