// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/spf13/cobra"
)

var lambdaCmd = &cobra.Command{
	Use:   "lambda",
	Short: "Serve S3 events in the AWS Lambda runtime",
	Long: `Lambda starts the AWS Lambda runtime loop. Each S3 event is dispatched
record by record and the batch report is returned as the function response.
With conversion.fail_on_error set, a batch with failures also fails the
invocation.

This is the default when the binary runs inside Lambda without arguments.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		d, cleanup, err := newDispatcher(cfg, newNotifier(cfg, "lambda"))
		if err != nil {
			return err
		}
		defer cleanup()

		lambda.Start(d.LambdaHandler(cfg.Conversion.FailOnError))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lambdaCmd)
}
