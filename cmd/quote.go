package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"

	"jup-ag/pkg/parser"
	"jup-ag/pkg/types"
)

var (
	slippageBps          uint16
	exactOut             bool
	onlyDirectRoutes     bool
	dexes                []string
	excludeDexes         []string
	maxAccounts          int
	platformFeeBps       uint16
	restrictIntermediate bool
	legacyTransaction    bool
)

var quoteCmd = &cobra.Command{
	Use:   "quote <amount> <input-token> to <output-token>",
	Short: "Get the best route and price for a swap",
	Long: `Ask Jupiter for the best route for a swap without executing it.

Tokens are well-known symbols (SOL, USDC, USDT, JUP, BONK, MSOL, JITOSOL) or
base58 mint addresses. Amounts are in whole tokens, e.g. 1.5 SOL.

Examples:
  jup-ag quote 1 SOL to USDC
  jup-ag quote 100 USDC to SOL --slippage-bps 30 --direct
  jup-ag quote 150 USDC to SOL --exact-out
  jup-ag quote 1 SOL to USDC --exclude-dexes Raydium,Orca --json`,
	Args: cobra.MinimumNArgs(1),
	Run:  runQuote,
}

func init() {
	rootCmd.AddCommand(quoteCmd)
	addQuoteFlags(quoteCmd)
}

func addQuoteFlags(cmd *cobra.Command) {
	cmd.Flags().Uint16Var(&slippageBps, "slippage-bps", 50, "Slippage tolerance in basis points")
	cmd.Flags().BoolVar(&exactOut, "exact-out", false, "Treat the amount as the exact output (ExactOut mode)")
	cmd.Flags().BoolVar(&onlyDirectRoutes, "direct", false, "Only use single-hop routes")
	cmd.Flags().StringSliceVar(&dexes, "dexes", nil, "Only route through these DEXes")
	cmd.Flags().StringSliceVar(&excludeDexes, "exclude-dexes", nil, "Never route through these DEXes")
	cmd.Flags().IntVar(&maxAccounts, "max-accounts", 0, "Cap the accounts a route may use (0 for no cap)")
	cmd.Flags().Uint16Var(&platformFeeBps, "platform-fee-bps", 0, "Platform fee in basis points")
	cmd.Flags().BoolVar(&restrictIntermediate, "restrict-intermediate", false, "Only hop through liquid intermediate tokens")
	cmd.Flags().BoolVar(&legacyTransaction, "legacy", false, "Quote for a legacy (non-versioned) transaction")
}

// swapPair is the parsed command with both tokens resolved.
type swapPair struct {
	command *parser.SwapCommand
	in      parser.Token
	out     parser.Token
}

func buildQuoteRequest(args []string) (types.QuoteRequest, *swapPair, error) {
	command, err := parser.ParseSwapCommand(strings.Join(args, " "))
	if err != nil {
		return types.QuoteRequest{}, nil, err
	}
	if err := command.Validate(); err != nil {
		return types.QuoteRequest{}, nil, err
	}

	in, err := parser.ResolveToken(command.InputToken)
	if err != nil {
		return types.QuoteRequest{}, nil, fmt.Errorf("input token error: %w", err)
	}
	out, err := parser.ResolveToken(command.OutputToken)
	if err != nil {
		return types.QuoteRequest{}, nil, fmt.Errorf("output token error: %w", err)
	}

	mode, amountToken := types.SwapModeExactIn, in
	if exactOut {
		mode, amountToken = types.SwapModeExactOut, out
	}
	if !amountToken.KnownDecimals() {
		return types.QuoteRequest{}, nil, fmt.Errorf("decimals for %s are unknown; use a well-known symbol for the amount side", amountToken.Symbol)
	}
	amount, err := parser.ToBaseUnits(command.Amount, amountToken.Decimals)
	if err != nil {
		return types.QuoteRequest{}, nil, err
	}

	req := types.QuoteRequest{
		InputMint:                  in.Mint,
		OutputMint:                 out.Mint,
		Amount:                     amount,
		SlippageBps:                slippageBps,
		SwapMode:                   mode,
		Dexes:                      dexes,
		ExcludeDexes:               excludeDexes,
		OnlyDirectRoutes:           onlyDirectRoutes,
		AsLegacyTransaction:        legacyTransaction,
		RestrictIntermediateTokens: restrictIntermediate,
		PlatformFeeBps:             platformFeeBps,
		MaxAccounts:                maxAccounts,
	}
	return req, &swapPair{command: command, in: in, out: out}, nil
}

// fetchQuote builds the request from args and asks the API for a quote.
func fetchQuote(cmd *cobra.Command, args []string) (*types.QuoteResponse, *swapPair, error) {
	req, pair, err := buildQuoteRequest(args)
	if err != nil {
		return nil, nil, err
	}

	logger.Debug().
		Str("input", pair.in.Symbol).
		Str("output", pair.out.Symbol).
		Uint64("amount", req.Amount).
		Str("mode", string(req.SwapMode)).
		Msg("requesting quote")

	stop := startSpinner(isJSON(cmd), "Fetching quote...")
	quote, err := newAPIClient().GetQuote(context.Background(), req)
	stop()
	if err != nil {
		return nil, nil, err
	}
	return quote, pair, nil
}

func runQuote(cmd *cobra.Command, args []string) {
	quote, pair, err := fetchQuote(cmd, args)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if isJSON(cmd) {
		printJSON(quote)
		return
	}
	displayQuote(quote, pair, isVerbose(cmd))
}

func displayQuote(quote *types.QuoteResponse, pair *swapPair, verbose bool) {
	printHeader("SWAP QUOTE", 60)

	fmt.Printf("\n  From:              %s %s\n", formatAmount(quote.InAmount, pair.in), color.YellowString(pair.in.Symbol))
	fmt.Printf("  To:                ~%s %s\n", formatAmount(quote.OutAmount, pair.out), color.YellowString(pair.out.Symbol))
	if quote.SwapMode == types.SwapModeExactOut {
		fmt.Printf("  Maximum Sent:      %s %s\n", formatAmount(quote.MaximumInAmount(), pair.in), pair.in.Symbol)
	} else {
		fmt.Printf("  Minimum Received:  %s %s\n", formatAmount(quote.MinimumOutAmount(), pair.out), pair.out.Symbol)
	}
	fmt.Printf("  Slippage:          %.2f%%\n", float64(quote.SlippageBps)/100)
	fmt.Printf("  Price Impact:      %s%%\n", quote.PriceImpactPct.String())

	fmt.Printf("\n  Route:\n")
	for _, leg := range quote.RoutePlan.Legs() {
		for _, step := range leg.Steps {
			label := step.SwapInfo.Label
			if label == "" {
				label = "Unknown DEX"
			}
			fmt.Printf("    %3d%%  %s -> %s via %s\n",
				step.Percent,
				tokenSymbol(step.SwapInfo.InputMint),
				tokenSymbol(step.SwapInfo.OutputMint),
				color.CyanString(label))
		}
	}

	if fees := quote.Fees(); len(fees) > 0 {
		fmt.Printf("\n  Fees:\n")
		for _, fee := range fees {
			tok := tokenFor(fee.Mint)
			fmt.Printf("    %-14s %s %s\n", fee.Source, formatAmount(fee.Amount, tok), tok.Symbol)
		}
	}

	if verbose {
		fmt.Printf("\n  Context Slot:      %d\n", quote.ContextSlot)
		fmt.Printf("  Time Taken:        %.3fs\n", quote.TimeTaken)
	}

	printFooter(60)
}

// tokenFor returns the well-known token for mint, or a token with unknown
// decimals named by the mint.
func tokenFor(mint solana.PublicKey) parser.Token {
	if tok, ok := parser.LookupMint(mint); ok {
		return tok
	}
	return parser.Token{Symbol: mint.Short(4), Mint: mint, Decimals: parser.UnknownDecimals}
}

func tokenSymbol(mint solana.PublicKey) string {
	return tokenFor(mint).Symbol
}

func formatAmount(amount uint64, tok parser.Token) string {
	if !tok.KnownDecimals() {
		return fmt.Sprintf("%d (base units)", amount)
	}
	return parser.FromBaseUnits(amount, tok.Decimals).String()
}
