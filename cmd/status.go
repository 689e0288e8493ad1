package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"

	"jup-ag/pkg/parser"
	"jup-ag/pkg/wallet"
)

var (
	watchStatus   bool
	watchInterval int
)

var statusCmd = &cobra.Command{
	Use:   "status <signature>",
	Short: "Check the status of a swap transaction",
	Long: `Check a sent swap transaction by its signature.

Examples:
  jup-ag status 5VERv8NMvzbJMEkV8xnrLkEaWRtSz9CosKDYjCJjBRnbJLgp8uirBgmQpjKhoR4tjF3ZpRzrFmBV6UjKdiSZkQUW
  jup-ag status <signature> --watch
  jup-ag status <signature> --watch --interval 10`,
	Args: cobra.ExactArgs(1),
	Run:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().BoolVarP(&watchStatus, "watch", "w", false, "Watch status updates continuously")
	statusCmd.Flags().IntVar(&watchInterval, "interval", 5, "Polling interval in seconds (when watching)")
}

// swapStatus is what the status command reports for a signature.
type swapStatus struct {
	Signature     string     `json:"signature"`
	Status        string     `json:"status"`
	Slot          uint64     `json:"slot,omitempty"`
	Confirmations *uint64    `json:"confirmations,omitempty"`
	Fee           uint64     `json:"fee,omitempty"`
	BlockTime     *time.Time `json:"block_time,omitempty"`
	Error         string     `json:"error,omitempty"`
}

func runStatus(cmd *cobra.Command, args []string) {
	jsonOutput := isJSON(cmd)

	sig, err := solana.SignatureFromBase58(args[0])
	if err != nil {
		printError(fmt.Errorf("invalid signature: %w", err))
		os.Exit(1)
	}

	w, err := newWallet(true)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if watchStatus && watchInterval <= 0 {
		printError(fmt.Errorf("--interval must be positive"))
		os.Exit(1)
	}

	if watchStatus {
		watchSwapStatus(w, sig, jsonOutput)
	} else {
		checkSwapStatus(w, sig, jsonOutput)
	}
}

func fetchStatus(ctx context.Context, w *wallet.SolanaWallet, sig solana.Signature) (*swapStatus, error) {
	out := &swapStatus{Signature: sig.String()}

	status, err := w.Status(ctx, sig)
	if errors.Is(err, wallet.ErrNotFound) {
		out.Status = "NOT_FOUND"
		return out, nil
	}
	if err != nil {
		return nil, err
	}

	out.Slot = status.Slot
	out.Confirmations = status.Confirmations
	out.Status = string(status.ConfirmationStatus)
	if status.Err != nil {
		out.Status = "FAILED"
		out.Error = fmt.Sprintf("%v", status.Err)
	}

	info, err := w.GetTransactionInfo(ctx, sig)
	switch {
	case err == nil:
		out.Fee = info.Fee
		out.BlockTime = info.BlockTime
	case errors.Is(err, wallet.ErrNotFound):
		// Processed but not yet confirmed.
	default:
		return nil, err
	}
	return out, nil
}

func checkSwapStatus(w *wallet.SolanaWallet, sig solana.Signature, jsonOutput bool) {
	stop := startSpinner(jsonOutput, "Checking transaction status...")
	status, err := fetchStatus(context.Background(), w, sig)
	stop()

	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if jsonOutput {
		printJSON(status)
	} else {
		displayStatus(status)
	}
}

func watchSwapStatus(w *wallet.SolanaWallet, sig solana.Signature, jsonOutput bool) {
	if jsonOutput {
		fmt.Println(`{"error": "watch mode not supported with JSON output"}`)
		os.Exit(1)
	}

	fmt.Printf("\nWatching transaction %s\n", color.CyanString(sig.String()))
	fmt.Printf("Checking every %d seconds. Press Ctrl+C to stop.\n\n", watchInterval)

	ticker := time.NewTicker(time.Duration(watchInterval) * time.Second)
	defer ticker.Stop()

	if checkAndDisplayStatus(w, sig) {
		return
	}
	for range ticker.C {
		if checkAndDisplayStatus(w, sig) {
			return
		}
	}
}

// checkAndDisplayStatus reports whether the transaction reached a final state.
func checkAndDisplayStatus(w *wallet.SolanaWallet, sig solana.Signature) bool {
	status, err := fetchStatus(context.Background(), w, sig)
	if err != nil {
		color.Red("Error: %v", err)
		return false
	}

	displayStatus(status)
	return status.Status == "FAILED" || strings.EqualFold(status.Status, "finalized")
}

func displayStatus(status *swapStatus) {
	printHeader("TRANSACTION STATUS", 70)

	fmt.Printf("\n  Signature:       %s\n", color.CyanString(status.Signature))
	fmt.Printf("  Status:          %s\n", getColoredStatus(status.Status))
	if status.Slot > 0 {
		fmt.Printf("  Slot:            %d\n", status.Slot)
	}
	if status.Confirmations != nil {
		fmt.Printf("  Confirmations:   %d\n", *status.Confirmations)
	}
	if status.Fee > 0 {
		fmt.Printf("  Fee:             %s SOL\n", parser.FromBaseUnits(status.Fee, 9).String())
	}
	if status.BlockTime != nil {
		fmt.Printf("  Block Time:      %s\n", status.BlockTime.Format("2006-01-02 15:04:05"))
	}
	if status.Error != "" {
		fmt.Printf("  Error:           %s\n", color.RedString(status.Error))
	}

	printFooter(70)
}

func getColoredStatus(status string) string {
	status = strings.ToUpper(status)

	switch status {
	case "FINALIZED":
		return color.GreenString(status)
	case "CONFIRMED":
		return color.HiGreenString(status)
	case "PROCESSED":
		return color.YellowString(status)
	case "FAILED":
		return color.RedString(status)
	case "NOT_FOUND":
		return color.MagentaString(status)
	default:
		return status
	}
}
