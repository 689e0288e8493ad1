package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"jup-ag/config"
	"jup-ag/pkg/client"
	"jup-ag/pkg/wallet"
)

var (
	cfgFile string
	appCfg  *config.Config
	logger  = zerolog.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "jup-ag",
	Short: "A CLI for Solana token swaps using the Jupiter API",
	Long: `jup-ag is a command-line tool for quoting and executing Solana token swaps
through the Jupiter aggregator. Quotes are routed across every DEX Jupiter
indexes; swaps are signed locally with your Solana keypair.

Examples:
  jup-ag quote 1 SOL to USDC
  jup-ag swap 0.5 SOL to JUP --slippage-bps 100
  jup-ag price SOL JUP BONK
  jup-ag list-tokens --known
  jup-ag status <signature>`,
	Version:           "0.1.0",
	PersistentPreRunE: setup,
	SilenceUsage:      true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default $HOME/.jup-ag.yaml)")
}

// setup loads configuration and configures logging before any command runs.
func setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFrom(cfgFile)
	if err != nil {
		return err
	}
	appCfg = cfg

	level, _ := zerolog.ParseLevel(cfg.LogLevel)
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = zerolog.DebugLevel
	}
	logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().
		Timestamp().
		Logger()

	if cfg.ConfigFile != "" {
		logger.Debug().Str("file", cfg.ConfigFile).Msg("loaded config")
	}
	return nil
}

func newAPIClient() *client.QuoteClient {
	return client.New(appCfg.ClientConfig(), client.WithLogger(logger))
}

// newWallet loads the configured keypair. With readOnly the keypair is
// skipped and only cluster queries work.
func newWallet(readOnly bool) (*wallet.SolanaWallet, error) {
	wc := appCfg.WalletConfig()
	if readOnly {
		wc.Keypair = ""
	}
	return wallet.NewSolanaWallet(wc, logger)
}

func isJSON(cmd *cobra.Command) bool {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	return jsonOutput
}

func isVerbose(cmd *cobra.Command) bool {
	verbose, _ := cmd.Flags().GetBool("verbose")
	return verbose
}

// startSpinner starts a spinner unless output is JSON. The returned func stops it.
func startSpinner(jsonOutput bool, suffix string) func() {
	if jsonOutput {
		return func() {}
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + suffix
	s.Start()
	return s.Stop
}

func printJSON(v interface{}) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	fmt.Println(string(jsonData))
}

func printError(err error) {
	fmt.Fprintf(os.Stderr, "\n%s %v\n", color.RedString("Error:"), err)

	var remote *client.RemoteError
	if errors.As(err, &remote) && remote.Code != "" {
		fmt.Fprintf(os.Stderr, "  Code: %s\n", remote.Code)
	}
	fmt.Fprintln(os.Stderr)
}

func printSuccess(message string) {
	fmt.Printf("\n%s\n\n", color.GreenString(message))
}

func printHeader(title string, width int) {
	fmt.Println("\n" + strings.Repeat("=", width))
	pad := (width - len(title)) / 2
	if pad < 0 {
		pad = 0
	}
	color.Green("%s%s", strings.Repeat(" ", pad), title)
	fmt.Println(strings.Repeat("=", width))
}

func printFooter(width int) {
	fmt.Println("\n" + strings.Repeat("=", width) + "\n")
}
