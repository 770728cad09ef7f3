// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/csv2parquet/internal/ledger"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent outcomes from the ledger",
	Long: `History prints the most recent per-record outcomes stored in the SQLite
ledger (ledger.path or --ledger), newest first.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	store, err := ledger.NewStore(cfg.Ledger)
	if errors.Is(err, ledger.ErrDisabled) {
		return fmt.Errorf("%w: set ledger.path or --ledger", err)
	}
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	entries, err := store.Recent(ctx, limit)
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Println("No outcomes recorded.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-20s  %-9s  %-9s  %-40s  %6s  %s\n",
		"Processed", "Status", "Stage", "Key", "Rows", "Reason")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))
	for _, e := range entries {
		o := e.Outcome
		fmt.Fprintf(os.Stdout, "%-20s  %-9s  %-9s  %-40s  %6d  %s\n",
			o.ProcessedAt.Format("2006-01-02 15:04:05"), o.Status, o.Stage,
			truncate(o.Bucket+"/"+o.Key, 40), o.Rows, truncate(o.Reason, 40))
	}

	counts, err := store.Counts(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "\nprocessed: %d, skipped: %d, failed: %d (total: %d)\n",
		counts.Processed, counts.Skipped, counts.Failed, counts.Total())
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of outcomes to show")
	historyCmd.Flags().Bool("json", false, "output outcomes as JSON")

	rootCmd.AddCommand(historyCmd)
}
