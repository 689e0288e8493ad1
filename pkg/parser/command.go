package parser

import (
	"fmt"
	"regexp"
	"strings"
)

// SwapCommand is a parsed "<amount> <token> to <token>" command. Tokens are
// symbols or base58 mints, as typed.
type SwapCommand struct {
	Amount      string
	InputToken  string
	OutputToken string
}

// Mints are case sensitive, so only the keywords are matched without case.
var swapPattern = regexp.MustCompile(`(?i)^(?:swap\s+)?(\d+\.?\d*)\s+([a-z0-9]+)\s+to\s+([a-z0-9]+)$`)

// ParseSwapCommand parses a natural language swap command
// Examples:
//   - "swap 1 SOL to USDC"
//   - "1.5 sol to JUP"
//   - "100 EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v to SOL"
func ParseSwapCommand(command string) (*SwapCommand, error) {
	command = strings.Join(strings.Fields(command), " ")

	matches := swapPattern.FindStringSubmatch(command)
	if matches == nil {
		return nil, fmt.Errorf("invalid swap command format. Expected: 'swap <amount> <token> to <token>' (e.g., 'swap 1 SOL to USDC')")
	}

	return &SwapCommand{
		Amount:      matches[1],
		InputToken:  matches[2],
		OutputToken: matches[3],
	}, nil
}

// Validate checks that a command has all required fields
func (c *SwapCommand) Validate() error {
	if c.Amount == "" {
		return fmt.Errorf("amount is required")
	}
	if c.InputToken == "" {
		return fmt.Errorf("input token is required")
	}
	if c.OutputToken == "" {
		return fmt.Errorf("output token is required")
	}
	if NormalizeTokenSymbol(c.InputToken) == NormalizeTokenSymbol(c.OutputToken) {
		return fmt.Errorf("input and output token are both %s", c.InputToken)
	}
	return nil
}

// NormalizeTokenSymbol upper-cases a symbol and folds common aliases. Mints
// are returned unchanged.
func NormalizeTokenSymbol(symbol string) string {
	symbol = strings.TrimSpace(symbol)
	if looksLikeMint(symbol) {
		return symbol
	}
	symbol = strings.ToUpper(symbol)

	aliases := map[string]string{
		"WSOL":  "SOL",
		"WUSDC": "USDC",
	}
	if normalized, exists := aliases[symbol]; exists {
		return normalized
	}
	return symbol
}

// looksLikeMint reports whether s is long enough to be a base58 public key
// rather than a ticker.
func looksLikeMint(s string) bool {
	return len(s) >= 32
}
