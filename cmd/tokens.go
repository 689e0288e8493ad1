package cmd

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"

	"jup-ag/pkg/parser"
)

var (
	knownOnly    bool
	filterSymbol string
)

var tokensCmd = &cobra.Command{
	Use:     "list-tokens",
	Aliases: []string{"tokens", "ls"},
	Short:   "List tradable tokens",
	Long: `List every mint the quote API can route.

Use --known to list only the symbols this tool understands, or --symbol
to filter them.

Examples:
  jup-ag list-tokens
  jup-ag list-tokens --known
  jup-ag list-tokens --symbol SOL`,
	Run: runListTokens,
}

func init() {
	rootCmd.AddCommand(tokensCmd)

	tokensCmd.Flags().BoolVar(&knownOnly, "known", false, "Only list well-known tokens")
	tokensCmd.Flags().StringVar(&filterSymbol, "symbol", "", "Filter well-known tokens by symbol")
}

func runListTokens(cmd *cobra.Command, args []string) {
	jsonOutput := isJSON(cmd)

	if knownOnly || filterSymbol != "" {
		known := filterKnown(parser.KnownTokens(), filterSymbol)
		if jsonOutput {
			printJSON(known)
			return
		}
		displayKnownTokens(known)
		return
	}

	stop := startSpinner(jsonOutput, "Fetching tradable tokens...")
	mints, err := newAPIClient().GetTokens(context.Background())
	stop()
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if jsonOutput {
		printJSON(mints)
		return
	}
	displayMints(mints)
}

func filterKnown(tokens []parser.Token, symbol string) []parser.Token {
	if symbol == "" {
		return tokens
	}
	var filtered []parser.Token
	for _, token := range tokens {
		if strings.Contains(token.Symbol, strings.ToUpper(symbol)) {
			filtered = append(filtered, token)
		}
	}
	return filtered
}

func displayKnownTokens(tokens []parser.Token) {
	if len(tokens) == 0 {
		fmt.Println("\nNo tokens found matching the criteria.")
		return
	}

	printHeader("KNOWN TOKENS", 80)
	fmt.Println()
	for _, token := range tokens {
		fmt.Printf("  %-10s  %2d decimals  %s\n",
			color.YellowString(token.Symbol),
			token.Decimals,
			color.HiBlackString(token.Mint.String()))
	}
	printFooter(80)
}

func displayMints(mints []solana.PublicKey) {
	printHeader("TRADABLE TOKENS", 80)
	fmt.Println()

	sort.Slice(mints, func(i, j int) bool { return mints[i].String() < mints[j].String() })
	for _, mint := range mints {
		if tok, ok := parser.LookupMint(mint); ok {
			fmt.Printf("  %s  %s\n", mint, color.YellowString(tok.Symbol))
			continue
		}
		fmt.Printf("  %s\n", color.HiBlackString(mint.String()))
	}

	fmt.Printf("\nTotal: %d tokens\n", len(mints))
	printFooter(80)
}
