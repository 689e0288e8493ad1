package types

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
)

// MaxBps is 100% expressed in basis points.
const MaxBps = 10000

// SwapMode selects which side of the swap is fixed.
type SwapMode string

const (
	SwapModeExactIn  SwapMode = "ExactIn"  // Amount is the input, output floats
	SwapModeExactOut SwapMode = "ExactOut" // Amount is the output, input floats
)

// Query parameter names understood by the quote endpoint.
const (
	paramInputMint                  = "inputMint"
	paramOutputMint                 = "outputMint"
	paramAmount                     = "amount"
	paramSlippageBps                = "slippageBps"
	paramSwapMode                   = "swapMode"
	paramDexes                      = "dexes"
	paramExcludeDexes               = "excludeDexes"
	paramOnlyDirectRoutes           = "onlyDirectRoutes"
	paramAsLegacyTransaction        = "asLegacyTransaction"
	paramRestrictIntermediateTokens = "restrictIntermediateTokens"
	paramPlatformFeeBps             = "platformFeeBps"
	paramMaxAccounts                = "maxAccounts"
)

// QuoteRequest describes the swap a quote is requested for.
type QuoteRequest struct {
	InputMint   solana.PublicKey
	OutputMint  solana.PublicKey
	Amount      uint64 // smallest denomination of the fixed side
	SlippageBps uint16

	// Optional routing constraints
	SwapMode                   SwapMode
	Dexes                      []string
	ExcludeDexes               []string
	OnlyDirectRoutes           bool
	AsLegacyTransaction        bool
	RestrictIntermediateTokens bool
	PlatformFeeBps             uint16
	MaxAccounts                int
}

// Validate checks the request before it is sent.
func (r *QuoteRequest) Validate() error {
	if r.InputMint.IsZero() {
		return invalid(paramInputMint, "is required")
	}
	if r.OutputMint.IsZero() {
		return invalid(paramOutputMint, "is required")
	}
	if r.InputMint.Equals(r.OutputMint) {
		return invalid(paramOutputMint, "must differ from inputMint")
	}
	if r.Amount == 0 {
		return invalid(paramAmount, "must be greater than 0")
	}
	if r.SlippageBps > MaxBps {
		return invalid(paramSlippageBps, "must be at most %d", MaxBps)
	}
	if r.PlatformFeeBps > MaxBps {
		return invalid(paramPlatformFeeBps, "must be at most %d", MaxBps)
	}
	if r.MaxAccounts < 0 {
		return invalid(paramMaxAccounts, "must not be negative")
	}
	switch r.SwapMode {
	case "", SwapModeExactIn, SwapModeExactOut:
	default:
		return invalid(paramSwapMode, "unknown mode %q", r.SwapMode)
	}
	if err := validateDexList(paramDexes, r.Dexes); err != nil {
		return err
	}
	return validateDexList(paramExcludeDexes, r.ExcludeDexes)
}

func validateDexList(field string, dexes []string) error {
	for _, dex := range dexes {
		if strings.TrimSpace(dex) == "" {
			return invalid(field, "contains a blank label")
		}
		if strings.Contains(dex, ",") {
			return invalid(field, "label %q contains a comma", dex)
		}
	}
	return nil
}

// Values encodes the request as quote endpoint query parameters.
// Flags are only emitted when set; zero-valued optional numbers are omitted.
func (r QuoteRequest) Values() url.Values {
	v := url.Values{}
	v.Set(paramInputMint, r.InputMint.String())
	v.Set(paramOutputMint, r.OutputMint.String())
	v.Set(paramAmount, strconv.FormatUint(r.Amount, 10))
	v.Set(paramSlippageBps, strconv.FormatUint(uint64(r.SlippageBps), 10))

	if r.SwapMode != "" {
		v.Set(paramSwapMode, string(r.SwapMode))
	}
	if len(r.Dexes) > 0 {
		v.Set(paramDexes, strings.Join(r.Dexes, ","))
	}
	if len(r.ExcludeDexes) > 0 {
		v.Set(paramExcludeDexes, strings.Join(r.ExcludeDexes, ","))
	}
	if r.OnlyDirectRoutes {
		v.Set(paramOnlyDirectRoutes, "true")
	}
	if r.AsLegacyTransaction {
		v.Set(paramAsLegacyTransaction, "true")
	}
	if r.RestrictIntermediateTokens {
		v.Set(paramRestrictIntermediateTokens, "true")
	}
	if r.PlatformFeeBps > 0 {
		v.Set(paramPlatformFeeBps, strconv.FormatUint(uint64(r.PlatformFeeBps), 10))
	}
	if r.MaxAccounts > 0 {
		v.Set(paramMaxAccounts, strconv.Itoa(r.MaxAccounts))
	}
	return v
}

// ParseQuoteRequest is the inverse of QuoteRequest.Values.
func ParseQuoteRequest(v url.Values) (*QuoteRequest, error) {
	var (
		r   QuoteRequest
		err error
	)

	if r.InputMint, err = solana.PublicKeyFromBase58(v.Get(paramInputMint)); err != nil {
		return nil, invalid(paramInputMint, "%v", err)
	}
	if r.OutputMint, err = solana.PublicKeyFromBase58(v.Get(paramOutputMint)); err != nil {
		return nil, invalid(paramOutputMint, "%v", err)
	}
	if r.Amount, err = strconv.ParseUint(v.Get(paramAmount), 10, 64); err != nil {
		return nil, invalid(paramAmount, "%v", err)
	}
	if s := v.Get(paramSlippageBps); s != "" {
		bps, err := strconv.ParseUint(s, 10, 16)
		if err != nil {
			return nil, invalid(paramSlippageBps, "%v", err)
		}
		r.SlippageBps = uint16(bps)
	}

	r.SwapMode = SwapMode(v.Get(paramSwapMode))
	r.Dexes = splitList(v.Get(paramDexes))
	r.ExcludeDexes = splitList(v.Get(paramExcludeDexes))

	flags := []struct {
		name string
		dst  *bool
	}{
		{paramOnlyDirectRoutes, &r.OnlyDirectRoutes},
		{paramAsLegacyTransaction, &r.AsLegacyTransaction},
		{paramRestrictIntermediateTokens, &r.RestrictIntermediateTokens},
	}
	for _, f := range flags {
		s := v.Get(f.name)
		if s == "" {
			continue
		}
		b, err := strconv.ParseBool(s)
		if err != nil {
			return nil, invalid(f.name, "%v", err)
		}
		*f.dst = b
	}

	if s := v.Get(paramPlatformFeeBps); s != "" {
		bps, err := strconv.ParseUint(s, 10, 16)
		if err != nil {
			return nil, invalid(paramPlatformFeeBps, "%v", err)
		}
		r.PlatformFeeBps = uint16(bps)
	}
	if s := v.Get(paramMaxAccounts); s != "" {
		if r.MaxAccounts, err = strconv.Atoi(s); err != nil {
			return nil, invalid(paramMaxAccounts, "%v", err)
		}
	}

	return &r, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

// QuoteResponse is a quote as returned by the quote endpoint.
// It keeps the exact bytes it was decoded from so it can be posted back
// to the swap endpoint unchanged.
type QuoteResponse struct {
	InputMint            solana.PublicKey `json:"inputMint"`
	InAmount             uint64           `json:"inAmount,string"`
	OutputMint           solana.PublicKey `json:"outputMint"`
	OutAmount            uint64           `json:"outAmount,string"`
	OtherAmountThreshold uint64           `json:"otherAmountThreshold,string"`
	SwapMode             SwapMode         `json:"swapMode"`
	SlippageBps          uint16           `json:"slippageBps"`
	PlatformFee          *PlatformFee     `json:"platformFee,omitempty"`
	PriceImpactPct       decimal.Decimal  `json:"priceImpactPct"`
	RoutePlan            RoutePlan        `json:"routePlan"`
	ContextSlot          uint64           `json:"contextSlot,omitempty"`
	TimeTaken            float64          `json:"timeTaken,omitempty"`

	raw json.RawMessage
}

type quoteResponseWire QuoteResponse

// UnmarshalJSON decodes the quote and remembers the original payload.
func (q *QuoteResponse) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var w quoteResponseWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*q = QuoteResponse(w)
	q.raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON replays the payload the quote was decoded from, if any.
func (q QuoteResponse) MarshalJSON() ([]byte, error) {
	if len(q.raw) > 0 {
		return q.raw, nil
	}
	return json.Marshal(quoteResponseWire(q))
}

// Validate checks that every required field of a decoded quote is present
// and that the route plan is consistent.
func (q *QuoteResponse) Validate() error {
	switch {
	case q.InputMint.IsZero():
		return invalid("inputMint", "missing")
	case q.OutputMint.IsZero():
		return invalid("outputMint", "missing")
	case q.InAmount == 0:
		return invalid("inAmount", "missing")
	case q.OutAmount == 0:
		return invalid("outAmount", "missing")
	case q.SwapMode == "":
		return invalid("swapMode", "missing")
	case len(q.RoutePlan) == 0:
		return invalid("routePlan", "missing")
	}
	if err := q.RoutePlan.Validate(q.InputMint); err != nil {
		return err
	}
	if routed := q.RoutePlan.InAmountFor(q.InputMint); routed != q.InAmount {
		return invalid("routePlan", "routes %d of inAmount %d", routed, q.InAmount)
	}
	return nil
}

// IsZero reports whether the quote is empty.
func (q *QuoteResponse) IsZero() bool {
	return len(q.raw) == 0 && q.InputMint.IsZero() && q.InAmount == 0 && len(q.RoutePlan) == 0
}

// MinimumOutAmount is the output guaranteed after slippage.
func (q *QuoteResponse) MinimumOutAmount() uint64 {
	if q.SwapMode == SwapModeExactOut {
		return q.OutAmount
	}
	return q.OtherAmountThreshold
}

// MaximumInAmount is the input that may be spent after slippage.
func (q *QuoteResponse) MaximumInAmount() uint64 {
	if q.SwapMode == SwapModeExactOut {
		return q.OtherAmountThreshold
	}
	return q.InAmount
}

// Fees lists every fee charged along the route, followed by the platform fee.
func (q *QuoteResponse) Fees() []Fee {
	fees := make([]Fee, 0, len(q.RoutePlan)+1)
	for _, step := range q.RoutePlan {
		if step.SwapInfo.FeeAmount == 0 {
			continue
		}
		fees = append(fees, Fee{
			Source: step.SwapInfo.Label,
			Mint:   step.SwapInfo.FeeMint,
			Amount: step.SwapInfo.FeeAmount,
		})
	}
	if q.PlatformFee != nil && q.PlatformFee.Amount > 0 {
		mint := q.OutputMint
		if q.SwapMode == SwapModeExactOut {
			mint = q.InputMint
		}
		fees = append(fees, Fee{
			Source: PlatformFeeSource,
			Mint:   mint,
			Amount: q.PlatformFee.Amount,
			Bps:    q.PlatformFee.FeeBps,
		})
	}
	return fees
}

// FeesByMint totals Fees per fee mint.
func (q *QuoteResponse) FeesByMint() map[solana.PublicKey]uint64 {
	totals := make(map[solana.PublicKey]uint64)
	for _, fee := range q.Fees() {
		totals[fee.Mint] += fee.Amount
	}
	return totals
}
