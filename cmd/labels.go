package cmd

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var labelFilter string

var labelsCmd = &cobra.Command{
	Use:   "labels",
	Short: "List the DEXes routes can use",
	Long: `List AMM program ids and their labels. Labels are the names accepted by
--dexes and --exclude-dexes.

Examples:
  jup-ag labels
  jup-ag labels --filter raydium`,
	Run: runLabels,
}

func init() {
	rootCmd.AddCommand(labelsCmd)

	labelsCmd.Flags().StringVar(&labelFilter, "filter", "", "Only show labels containing this text")
}

func runLabels(cmd *cobra.Command, args []string) {
	jsonOutput := isJSON(cmd)

	stop := startSpinner(jsonOutput, "Fetching DEX labels...")
	labels, err := newAPIClient().GetProgramIDToLabel(context.Background())
	stop()
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	type row struct {
		ProgramID string `json:"programId"`
		Label     string `json:"label"`
	}
	var rows []row
	for id, label := range labels {
		if labelFilter != "" && !strings.Contains(strings.ToLower(label), strings.ToLower(labelFilter)) {
			continue
		}
		rows = append(rows, row{ProgramID: id.String(), Label: label})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Label != rows[j].Label {
			return rows[i].Label < rows[j].Label
		}
		return rows[i].ProgramID < rows[j].ProgramID
	})

	if jsonOutput {
		printJSON(rows)
		return
	}

	printHeader("DEX LABELS", 80)
	fmt.Println()
	for _, r := range rows {
		fmt.Printf("  %-24s %s\n", color.YellowString(r.Label), color.HiBlackString(r.ProgramID))
	}
	fmt.Printf("\nTotal: %d programs\n", len(rows))
	printFooter(80)
}
