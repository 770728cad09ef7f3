// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/csv2parquet/pkg/types"
)

func TestLambdaArgs(t *testing.T) {
	assert.Equal(t, []string{"lambda"}, lambdaArgs(nil, "127.0.0.1:9001"))
	assert.Empty(t, lambdaArgs(nil, ""))
	assert.Equal(t, []string{"version"}, lambdaArgs([]string{"version"}, "127.0.0.1:9001"))
}

func TestDerivedOutput(t *testing.T) {
	conv := types.DefaultConversionConfig()
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "s3://bucket/in/sales.csv", want: "s3://bucket/output/sales_processed.snappy.parquet"},
		{input: "/data/landing/sales.csv", want: "file:///data/landing/output/sales_processed.snappy.parquet"},
		{input: "file:///data/q1.csv", want: "file:///data/output/q1_processed.snappy.parquet"},
		{input: "/data/notes.txt", wantErr: true},
		{input: "gs://bucket/a.csv", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := derivedOutput(conv, tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	t.Cleanup(viper.Reset)

	viper.Reset()
	setDefaults()
	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, types.DefaultConfig(), cfg)

	t.Setenv("CSV2PARQUET_CONVERSION_OUTPUT_FOLDER", "parquet/")
	viper.SetEnvPrefix("CSV2PARQUET")
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()
	cfg, err = loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "parquet/", cfg.Conversion.OutputFolder)

	viper.Set("conversion.collision_policy", "merge")
	_, err = loadConfig()
	assert.ErrorContains(t, err, "collision policy")

	viper.Set("conversion.collision_policy", "reject")
	viper.Set("log.level", "loud")
	_, err = loadConfig()
	assert.ErrorContains(t, err, "log level")
}

func TestNewNotifierKeepsStdoutForCommandOutput(t *testing.T) {
	assert.Equal(t, io.Writer(os.Stderr), logOutput)

	r, w, err := os.Pipe()
	require.NoError(t, err)
	stdout := os.Stdout
	os.Stdout = w
	var buf bytes.Buffer
	logOutput = &buf
	t.Cleanup(func() {
		os.Stdout = stdout
		logOutput = os.Stderr
	})

	cfg := types.DefaultConfig()
	cfg.Log.Level = "debug"
	n := newNotifier(cfg, "handle")
	n.Debugf("resolved output")
	n.Errorf("load failed")

	require.NoError(t, w.Close())
	written, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Empty(t, written)
	assert.Contains(t, buf.String(), "resolved output")
	assert.Contains(t, buf.String(), "load failed")
}
