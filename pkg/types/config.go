// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the configuration and outcome types shared by the
// conversion pipeline, the dispatcher and the CLI.
package types

// CollisionPolicy decides what happens when two column labels normalize to
// the same name.
type CollisionPolicy string

const (
	// CollisionReject fails the transform on the first collision.
	CollisionReject CollisionPolicy = "reject"

	// CollisionSuffix keeps every column and appends _2, _3, ... to later
	// duplicates.
	CollisionSuffix CollisionPolicy = "suffix"

	// CollisionOverwrite keeps only the last column that maps to a label.
	CollisionOverwrite CollisionPolicy = "overwrite"
)

// Valid reports whether p is one of the known policies.
func (p CollisionPolicy) Valid() bool {
	switch p {
	case CollisionReject, CollisionSuffix, CollisionOverwrite:
		return true
	}
	return false
}

// ConversionConfig holds settings for the dispatcher and the conversion pipeline.
type ConversionConfig struct {
	// InputExtension is the only object key extension that is converted
	// (default ".csv"). The match is case-sensitive.
	InputExtension string `json:"input_extension" yaml:"input_extension"`

	// OutputFolder is the folder, relative to the bucket root, that receives
	// converted files (default "output/").
	OutputFolder string `json:"output_folder" yaml:"output_folder"`

	// OutputSuffix replaces the input extension in the output file name
	// (default "_processed.snappy.parquet").
	OutputSuffix string `json:"output_suffix" yaml:"output_suffix"`

	// Scheme is the locator prefix placed before the bucket (default "s3://").
	Scheme string `json:"scheme" yaml:"scheme"`

	// CollisionPolicy resolves duplicate normalized column labels (default suffix).
	CollisionPolicy CollisionPolicy `json:"collision_policy" yaml:"collision_policy"`

	// FailOnError makes the Lambda handler return an error when any record
	// in the batch failed. The report is returned either way.
	FailOnError bool `json:"fail_on_error" yaml:"fail_on_error"`
}

// StorageConfig holds S3 client settings.
type StorageConfig struct {
	// Region is the AWS region. Empty defers to the SDK (AWS_REGION etc).
	Region string `json:"region,omitempty" yaml:"region,omitempty"`

	// Endpoint overrides the S3 endpoint, for S3-compatible stores.
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`

	// ForcePathStyle addresses buckets as path segments instead of subdomains.
	ForcePathStyle bool `json:"force_path_style" yaml:"force_path_style"`
}

// LedgerConfig holds settings for the outcome ledger.
type LedgerConfig struct {
	// Path is the SQLite database file. Empty disables the ledger.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is the minimum level emitted: debug, info, warn or error.
	Level string `json:"level" yaml:"level"`
}

// Config groups all settings.
type Config struct {
	Conversion ConversionConfig `json:"conversion" yaml:"conversion"`
	Storage    StorageConfig    `json:"storage" yaml:"storage"`
	Ledger     LedgerConfig     `json:"ledger" yaml:"ledger"`
	Log        LogConfig        `json:"log" yaml:"log"`
}

const (
	DefaultInputExtension = ".csv"
	DefaultOutputFolder   = "output/"
	DefaultOutputSuffix   = "_processed.snappy.parquet"
	DefaultScheme         = "s3://"
	DefaultLogLevel       = "info"
)

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		Conversion: DefaultConversionConfig(),
		Log:        LogConfig{Level: DefaultLogLevel},
	}
}

// DefaultConversionConfig returns the conversion defaults.
func DefaultConversionConfig() ConversionConfig {
	return ConversionConfig{
		InputExtension:  DefaultInputExtension,
		OutputFolder:    DefaultOutputFolder,
		OutputSuffix:    DefaultOutputSuffix,
		Scheme:          DefaultScheme,
		CollisionPolicy: CollisionSuffix,
	}
}
