package types

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// SwapInfo describes the swap a single liquidity source performs.
type SwapInfo struct {
	AmmKey     solana.PublicKey `json:"ammKey"`
	Label      string           `json:"label,omitempty"`
	InputMint  solana.PublicKey `json:"inputMint"`
	OutputMint solana.PublicKey `json:"outputMint"`
	InAmount   uint64           `json:"inAmount,string"`
	OutAmount  uint64           `json:"outAmount,string"`
	FeeAmount  uint64           `json:"feeAmount,string"`
	FeeMint    solana.PublicKey `json:"feeMint"`
}

// RoutePlanStep is one hop of a route together with the share of its
// leg's input it carries.
type RoutePlanStep struct {
	SwapInfo SwapInfo `json:"swapInfo"`
	Percent  int      `json:"percent"`
}

// RoutePlan is the ordered list of steps a quote executes.
type RoutePlan []RoutePlanStep

// Leg is the set of route steps that consume the same input mint.
type Leg struct {
	InputMint solana.PublicKey
	Steps     []RoutePlanStep
}

// Percent is the share of the leg's input covered by its steps.
func (l Leg) Percent() int {
	total := 0
	for _, step := range l.Steps {
		total += step.Percent
	}
	return total
}

// InAmount is the input consumed across the leg.
func (l Leg) InAmount() uint64 {
	var total uint64
	for _, step := range l.Steps {
		total += step.SwapInfo.InAmount
	}
	return total
}

// Legs groups steps by input mint in order of first appearance.
func (p RoutePlan) Legs() []Leg {
	var legs []Leg
	index := make(map[solana.PublicKey]int)
	for _, step := range p {
		mint := step.SwapInfo.InputMint
		i, ok := index[mint]
		if !ok {
			i = len(legs)
			index[mint] = i
			legs = append(legs, Leg{InputMint: mint})
		}
		legs[i].Steps = append(legs[i].Steps, step)
	}
	return legs
}

// Validate checks that the plan starts from inputMint and that every leg
// splits 100% of its input.
func (p RoutePlan) Validate(inputMint solana.PublicKey) error {
	if len(p) == 0 {
		return invalid("routePlan", "empty")
	}
	for i, step := range p {
		if step.Percent <= 0 || step.Percent > 100 {
			return invalid(fmt.Sprintf("routePlan[%d].percent", i), "out of range: %d", step.Percent)
		}
		if step.SwapInfo.InputMint.IsZero() || step.SwapInfo.OutputMint.IsZero() {
			return invalid(fmt.Sprintf("routePlan[%d].swapInfo", i), "missing mint")
		}
	}

	legs := p.Legs()
	if !legs[0].InputMint.Equals(inputMint) {
		return invalid("routePlan", "first step consumes %s, want %s", legs[0].InputMint, inputMint)
	}
	for _, leg := range legs {
		if pct := leg.Percent(); pct != 100 {
			return invalid("routePlan", "steps from %s sum to %d%%", leg.InputMint, pct)
		}
	}
	return nil
}

// InAmountFor sums the in-amounts of the steps that consume mint.
func (p RoutePlan) InAmountFor(mint solana.PublicKey) uint64 {
	var total uint64
	for _, step := range p {
		if step.SwapInfo.InputMint.Equals(mint) {
			total += step.SwapInfo.InAmount
		}
	}
	return total
}

// Labels names the liquidity source of every step.
func (p RoutePlan) Labels() []string {
	labels := make([]string, 0, len(p))
	for _, step := range p {
		label := step.SwapInfo.Label
		if label == "" {
			label = "Unknown DEX"
		}
		labels = append(labels, label)
	}
	return labels
}
