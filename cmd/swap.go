package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"jup-ag/pkg/parser"
	"jup-ag/pkg/types"
	"jup-ag/pkg/wallet"
)

var (
	noConfirm        bool
	userPubkey       string
	priorityFee      string
	noWrapSol        bool
	dynamicCULimit   bool
	dryRun           bool
	wantInstructions bool
	confirmTimeout   time.Duration
)

var swapCmd = &cobra.Command{
	Use:   "swap <amount> <input-token> to <output-token>",
	Short: "Quote, sign and send a swap",
	Long: `Fetch a quote, build the swap transaction, sign it with the configured
keypair and send it to the cluster.

Without a keypair, pass --user to only build the unsigned transaction for
that wallet; it is printed base64 encoded for signing elsewhere.

Examples:
  jup-ag swap 1 SOL to USDC
  jup-ag swap 100 USDC to SOL --slippage-bps 30 --priority-fee veryHigh:4000000
  jup-ag swap 1 SOL to USDC --dry-run
  jup-ag swap 1 SOL to USDC --user <pubkey> --json
  jup-ag swap 1 SOL to USDC --user <pubkey> --instructions --json`,
	Args: cobra.MinimumNArgs(1),
	Run:  runSwap,
}

func init() {
	rootCmd.AddCommand(swapCmd)
	addQuoteFlags(swapCmd)

	swapCmd.Flags().BoolVarP(&noConfirm, "yes", "y", false, "Skip confirmation prompt")
	swapCmd.Flags().StringVar(&userPubkey, "user", "", "Build an unsigned transaction for this wallet instead of signing")
	swapCmd.Flags().StringVar(&priorityFee, "priority-fee", "auto", "auto, <lamports>, x<multiplier>, jito:<lamports> or <medium|high|veryHigh>:<max-lamports>")
	swapCmd.Flags().BoolVar(&noWrapSol, "no-wrap-sol", false, "Use the wSOL token account instead of native SOL")
	swapCmd.Flags().BoolVar(&dynamicCULimit, "dynamic-cu-limit", false, "Size the compute unit limit from a simulation")
	swapCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Sign and simulate the transaction without sending it")
	swapCmd.Flags().BoolVar(&wantInstructions, "instructions", false, "Fetch the swap instructions instead of a transaction")
	swapCmd.Flags().DurationVar(&confirmTimeout, "confirm-timeout", 90*time.Second, "How long to wait for confirmation")
}

func runSwap(cmd *cobra.Command, args []string) {
	if err := executeSwap(cmd, args, isJSON(cmd)); err != nil {
		printError(err)
		os.Exit(1)
	}
}

func executeSwap(cmd *cobra.Command, args []string, jsonOutput bool) error {
	fee, err := parser.ParsePriorityFee(priorityFee)
	if err != nil {
		return err
	}

	var w *wallet.SolanaWallet
	var user solana.PublicKey
	if userPubkey != "" {
		user, err = solana.PublicKeyFromBase58(userPubkey)
		if err != nil {
			return fmt.Errorf("invalid --user: %w", err)
		}
	} else {
		w, err = newWallet(false)
		if err != nil {
			return err
		}
		if !w.HasKey() {
			return errors.New("no keypair configured: set keypair in the config, JUP_KEYPAIR, or pass --user")
		}
		user = w.PublicKey()
	}

	quote, pair, err := fetchQuote(cmd, args)
	if err != nil {
		return err
	}
	if !jsonOutput {
		displayQuote(quote, pair, isVerbose(cmd))
	}

	req := types.NewSwapRequest(user, *quote)
	req.PrioritizationFeeLamports = fee
	req.AsLegacyTransaction = legacyTransaction
	req.DynamicComputeUnitLimit = dynamicCULimit
	if noWrapSol {
		wrap := false
		req.WrapAndUnwrapSol = &wrap
	}

	apiClient := newAPIClient()
	ctx := context.Background()

	if wantInstructions {
		stop := startSpinner(jsonOutput, "Fetching swap instructions...")
		ixs, err := apiClient.GetSwapInstructions(ctx, req)
		stop()
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(ixs)
		} else {
			displayInstructions(ixs)
		}
		return nil
	}

	// Only prompt when something would actually be sent.
	if w != nil && !dryRun && !noConfirm && !jsonOutput {
		if !confirmSwap() {
			fmt.Println("\nSwap cancelled.")
			return nil
		}
	}

	stop := startSpinner(jsonOutput, "Building swap transaction...")
	swapTx, err := apiClient.GetSwapTransaction(ctx, req)
	stop()
	if err != nil {
		return err
	}

	if w == nil {
		return printUnsigned(swapTx, jsonOutput)
	}

	tx, err := w.Sign(swapTx)
	if err != nil {
		return err
	}

	if dryRun {
		return simulate(ctx, w, tx, jsonOutput)
	}

	stop = startSpinner(jsonOutput, "Sending transaction...")
	sig, err := w.Send(ctx, tx)
	stop()
	if err != nil {
		return err
	}
	logger.Info().Str("signature", sig.String()).Msg("swap transaction sent")

	confirmCtx, cancel := context.WithTimeout(ctx, confirmTimeout)
	defer cancel()

	stop = startSpinner(jsonOutput, "Waiting for confirmation...")
	status, err := w.Confirm(confirmCtx, sig, swapTx.LastValidBlockHeight, 2*time.Second)
	stop()

	if jsonOutput {
		out := map[string]interface{}{
			"signature":  sig.String(),
			"in_amount":  quote.InAmount,
			"out_amount": quote.OutAmount,
			"confirmed":  err == nil,
		}
		if status != nil {
			out["slot"] = status.Slot
			out["confirmation_status"] = status.ConfirmationStatus
		}
		if err != nil {
			out["error"] = err.Error()
		}
		printJSON(out)
		return err
	}

	if err != nil {
		color.Yellow("\nTransaction %s was sent but not confirmed.", sig)
		fmt.Println("Check it later with:")
		color.Cyan("  jup-ag status %s\n", sig)
		return err
	}

	printSuccess("Swap confirmed!")
	fmt.Printf("  Signature:  %s\n", color.CyanString(sig.String()))
	fmt.Printf("  Slot:       %d\n", status.Slot)
	fmt.Printf("  Explorer:   https://solscan.io/tx/%s\n\n", sig)
	return nil
}

func printUnsigned(swapTx *types.SwapTransaction, jsonOutput bool) error {
	if jsonOutput {
		printJSON(swapTx)
		return nil
	}

	printHeader("UNSIGNED TRANSACTION", 60)
	fmt.Printf("\n  Last Valid Block Height:  %d\n", swapTx.LastValidBlockHeight)
	if swapTx.PrioritizationFeeLamports > 0 {
		fmt.Printf("  Prioritization Fee:       %d lamports\n", swapTx.PrioritizationFeeLamports)
	}
	fmt.Printf("\n%s\n", swapTx.Base64())
	printFooter(60)
	return nil
}

func simulate(ctx context.Context, w *wallet.SolanaWallet, tx *solana.Transaction, jsonOutput bool) error {
	stop := startSpinner(jsonOutput, "Simulating transaction...")
	result, err := w.Simulate(ctx, tx)
	stop()

	var simErr *wallet.SimulationError
	if err != nil && !errors.As(err, &simErr) {
		return err
	}

	if jsonOutput {
		printJSON(result)
	} else if result != nil {
		printHeader("SIMULATION", 60)
		if result.UnitsConsumed != nil {
			fmt.Printf("\n  Compute Units:  %d\n", *result.UnitsConsumed)
		}
		if showLogs(result.Logs) {
			fmt.Printf("\n  Logs:\n")
			for _, line := range result.Logs {
				fmt.Printf("    %s\n", color.HiBlackString(line))
			}
		}
		printFooter(60)
	}

	if simErr != nil {
		return simErr
	}
	if !jsonOutput {
		printSuccess("Simulation succeeded. Nothing was sent.")
	}
	return nil
}

func showLogs(logs []string) bool {
	return len(logs) > 0 && logger.GetLevel() <= zerolog.DebugLevel
}

func displayInstructions(ixs *types.SwapInstructions) {
	printHeader("SWAP INSTRUCTIONS", 70)
	for i, ix := range ixs.Instructions() {
		fmt.Printf("\n  %2d. program %s  (%d accounts)\n", i+1, color.CyanString(ix.ProgramID().String()), len(ix.Accounts()))
	}
	if len(ixs.AddressLookupTableAddresses) > 0 {
		fmt.Printf("\n  Address Lookup Tables:\n")
		for _, addr := range ixs.AddressLookupTableAddresses {
			fmt.Printf("    %s\n", addr)
		}
	}
	printFooter(70)
}

func confirmSwap() bool {
	reader := bufio.NewReader(os.Stdin)
	fmt.Print("\nProceed with swap? (y/N): ")

	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}
