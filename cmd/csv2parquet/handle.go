// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"
)

var handleCmd = &cobra.Command{
	Use:   "handle [event.json]",
	Short: "Dispatch an S3 event document locally",
	Long: `Handle reads an S3 notification event (from a file or stdin), runs every
record through the same dispatcher the Lambda function uses, and prints the
batch report as YAML. It exits non-zero when any record failed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHandle,
}

func runHandle(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var src io.Reader = os.Stdin
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening event: %w", err)
		}
		defer f.Close()
		src = f
	}

	var ev events.S3Event
	if err := json.NewDecoder(src).Decode(&ev); err != nil {
		return fmt.Errorf("decoding event: %w", err)
	}

	d, cleanup, err := newDispatcher(cfg, newNotifier(cfg, "handle"))
	if err != nil {
		return err
	}
	defer cleanup()

	report := d.HandleEvent(context.Background(), ev)

	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(&report); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	if err := enc.Close(); err != nil {
		return err
	}

	if report.HasFailures() {
		return fmt.Errorf("%d of %d record(s) failed", report.Failed, report.Total())
	}
	return nil
}

func init() {
	rootCmd.AddCommand(handleCmd)
}
