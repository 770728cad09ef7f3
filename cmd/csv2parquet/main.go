// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the csv2parquet CLI and Lambda function.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/csv2parquet/internal/secrets"
	"github.com/pdiddy/csv2parquet/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// envKeyReplacer maps config keys to environment names:
// conversion.output_folder is read from CSV2PARQUET_CONVERSION_OUTPUT_FOLDER.
var envKeyReplacer = strings.NewReplacer(".", "_")

// loadedSecrets holds credentials loaded from the secrets directory at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the csv2parquet CLI.
var rootCmd = &cobra.Command{
	Use:   "csv2parquet",
	Short: "Convert CSV objects to Snappy-compressed Parquet",
	Long: `csv2parquet converts delimited text files into Snappy-compressed Parquet.
Column labels are normalized to lowercase snake_case and a processing_date
column is appended.

It runs as an AWS Lambda function triggered by S3 object-created events, or
locally: convert single files, replay event documents, or watch a directory.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("secrets-dir")
		s, err := secrets.Load(dir, newNotifier(loadConfigOrDefault(), "secrets"))
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default: ./csv2parquet.yaml or ~/.config/csv2parquet/config.yaml)")
	flags.String("secrets-dir", ".secrets/", "directory holding credential files")
	flags.String("log-level", types.DefaultLogLevel, "minimum log level: debug, info, warn, error")
	flags.String("policy", string(types.CollisionSuffix), "column label collision policy: reject, suffix, overwrite")
	flags.String("ledger", "", "SQLite outcome ledger path (empty disables)")
	flags.String("region", "", "AWS region")
	flags.String("endpoint", "", "S3 endpoint override for S3-compatible stores")

	viper.BindPFlag("log.level", flags.Lookup("log-level"))
	viper.BindPFlag("conversion.collision_policy", flags.Lookup("policy"))
	viper.BindPFlag("ledger.path", flags.Lookup("ledger"))
	viper.BindPFlag("storage.region", flags.Lookup("region"))
	viper.BindPFlag("storage.endpoint", flags.Lookup("endpoint"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("csv2parquet")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "csv2parquet"))
		}
	}

	setDefaults()
	viper.SetEnvPrefix("CSV2PARQUET")
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// lambdaArgs returns the arguments to run with. Inside the Lambda runtime the
// binary is started without arguments and serves events.
func lambdaArgs(args []string, runtimeAPI string) []string {
	if len(args) == 0 && runtimeAPI != "" {
		return []string{"lambda"}
	}
	return args
}

func main() {
	rootCmd.SetArgs(lambdaArgs(os.Args[1:], os.Getenv("AWS_LAMBDA_RUNTIME_API")))
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
