// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pdiddy/csv2parquet/internal/dispatch"
	"github.com/pdiddy/csv2parquet/internal/storage"
	"github.com/pdiddy/csv2parquet/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Convert CSV files as they appear in a local directory",
	Long: `Watch treats a local directory as a bucket. Each new or rewritten file is
dispatched once it has been quiet for the debounce delay; CSV files are
converted into <dir>/output/. Stop with Ctrl-C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.Conversion.Scheme = storage.SchemeFile + "://"
	delay, _ := cmd.Flags().GetDuration("delay")

	n := newNotifier(cfg, "watch")
	d, cleanup, err := newDispatcher(cfg, n)
	if err != nil {
		return err
	}
	defer cleanup()

	w, err := watch.New(args[0], func(ctx context.Context, records []dispatch.Record) {
		d.Handle(ctx, records)
	}, watch.WithDelay(delay), watch.WithNotifier(n))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return w.Run(ctx)
}

func init() {
	watchCmd.Flags().Duration("delay", watch.DefaultDelay, "debounce delay before a changed file is converted")

	rootCmd.AddCommand(watchCmd)
}
