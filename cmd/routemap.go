package cmd

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"

	"jup-ag/pkg/parser"
)

var directOnly bool

var routeMapCmd = &cobra.Command{
	Use:   "route-map [token]",
	Short: "Show which tokens can be swapped into",
	Long: `Show the output mints reachable from a token, or a summary of the whole
route map when no token is given.

Examples:
  jup-ag route-map SOL --direct
  jup-ag route-map --json`,
	Args: cobra.MaximumNArgs(1),
	Run:  runRouteMap,
}

func init() {
	rootCmd.AddCommand(routeMapCmd)

	routeMapCmd.Flags().BoolVar(&directOnly, "direct", false, "Only direct (single-hop) routes")
}

func runRouteMap(cmd *cobra.Command, args []string) {
	jsonOutput := isJSON(cmd)

	var from *parser.Token
	if len(args) == 1 {
		tok, err := parser.ResolveToken(args[0])
		if err != nil {
			printError(err)
			os.Exit(1)
		}
		from = &tok
	}

	stop := startSpinner(jsonOutput, "Fetching route map...")
	routes, err := newAPIClient().GetRouteMap(context.Background(), directOnly)
	stop()
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if from == nil {
		if jsonOutput {
			printJSON(routes)
			return
		}
		printHeader("ROUTE MAP", 60)
		fmt.Printf("\n  Input mints:   %d\n", len(routes))
		pairs := 0
		for _, outs := range routes {
			pairs += len(outs)
		}
		fmt.Printf("  Routes:        %d\n", pairs)
		printFooter(60)
		return
	}

	outs := append([]solana.PublicKey(nil), routes[from.Mint]...)
	sort.Slice(outs, func(i, j int) bool { return outs[i].String() < outs[j].String() })
	if jsonOutput {
		printJSON(outs)
		return
	}

	printHeader("ROUTES FROM "+from.Symbol, 60)
	fmt.Println()
	if len(outs) == 0 {
		fmt.Println("  No routes found.")
	}
	for _, mint := range outs {
		fmt.Printf("  %s  %s\n", mint, tokenSymbol(mint))
	}
	printFooter(60)
}
