// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/csv2parquet/internal/dispatch"
	"github.com/pdiddy/csv2parquet/internal/storage"
	"github.com/pdiddy/csv2parquet/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert <input> [output]",
	Short: "Convert one CSV file to Snappy-compressed Parquet",
	Long: `Convert runs extract, transform and load on a single input. Inputs and
outputs are locators: s3://bucket/key, file:///path or a plain path.

Without an output, the result is written where the Lambda function would put
it: the output/ folder next to the input, named <base>_processed.snappy.parquet.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runConvert,
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	n := newNotifier(cfg, "convert")

	input := args[0]
	var output string
	if len(args) > 1 {
		output = args[1]
	} else {
		output, err = derivedOutput(cfg.Conversion, input)
		if err != nil {
			return err
		}
	}

	pipeline, err := newPipeline(cfg, n)
	if err != nil {
		return err
	}
	res, err := pipeline.Run(context.Background(), input, output)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "%s -> %s\n", res.Input, res.Output)
	fmt.Fprintf(os.Stdout, "rows: %d, bytes: %d\n", res.Rows, res.Bytes)
	fmt.Fprintf(os.Stdout, "columns: %s\n", strings.Join(res.Columns, ", "))
	return nil
}

// derivedOutput applies the dispatcher's naming rule to a single input
// locator.
func derivedOutput(conv types.ConversionConfig, input string) (string, error) {
	loc, err := storage.ParseLocator(input)
	if err != nil {
		return "", err
	}

	var rec dispatch.Record
	switch loc.Scheme {
	case storage.SchemeS3:
		conv.Scheme = storage.SchemeS3 + "://"
		rec = dispatch.Record{Bucket: loc.Bucket, Key: loc.Key}
	default:
		conv.Scheme = storage.SchemeFile + "://"
		rec = dispatch.Record{Bucket: filepath.Dir(loc.Key), Key: filepath.Base(loc.Key)}
	}

	_, output, ok := dispatch.New(conv, nil).Paths(rec)
	if !ok {
		return "", fmt.Errorf("%s is not a %s file; pass an output explicitly", input, conv.InputExtension)
	}
	return output, nil
}

func init() {
	rootCmd.AddCommand(convertCmd)
}
