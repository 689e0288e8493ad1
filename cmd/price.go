package cmd

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"jup-ag/pkg/parser"
	"jup-ag/pkg/types"
)

var vsToken string

var priceCmd = &cobra.Command{
	Use:   "price <token> [token...]",
	Short: "Show token prices",
	Long: `Look up the unit price of one or more tokens.

Examples:
  jup-ag price SOL
  jup-ag price SOL JUP BONK --vs USDT
  jup-ag price So11111111111111111111111111111111111111112 --json`,
	Args: cobra.MinimumNArgs(1),
	Run:  runPrice,
}

func init() {
	rootCmd.AddCommand(priceCmd)

	priceCmd.Flags().StringVar(&vsToken, "vs", "", "Quote prices in this token (default USDC)")
}

// priceID maps well-known symbols to their mint and passes anything else through.
func priceID(s string) string {
	if tok, err := parser.ResolveToken(s); err == nil {
		return tok.Mint.String()
	}
	return s
}

func runPrice(cmd *cobra.Command, args []string) {
	jsonOutput := isJSON(cmd)

	req := types.PriceRequest{}
	for _, arg := range args {
		req.IDs = append(req.IDs, priceID(arg))
	}
	if vsToken != "" {
		req.VsToken = priceID(vsToken)
	}

	stop := startSpinner(jsonOutput, "Fetching prices...")
	prices, err := newAPIClient().GetPrice(context.Background(), req)
	stop()
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if jsonOutput {
		printJSON(prices)
		return
	}
	displayPrices(prices, req.IDs)
}

func displayPrices(prices *types.PriceResponse, ids []string) {
	printHeader("PRICES", 70)
	fmt.Println()

	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	for _, id := range sorted {
		p, ok := prices.Data[id]
		if !ok {
			fmt.Printf("  %-12s %s\n", shortID(id), color.HiBlackString("no price"))
			continue
		}
		symbol := p.MintSymbol
		if symbol == "" {
			symbol = shortID(id)
		}
		vs := p.VsTokenSymbol
		if vs == "" {
			vs = shortID(p.VsToken)
		}
		fmt.Printf("  %-12s %s %s\n", color.YellowString(symbol), p.Price.String(), vs)
	}

	printFooter(70)
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:4] + ".." + id[len(id)-4:]
	}
	return id
}
