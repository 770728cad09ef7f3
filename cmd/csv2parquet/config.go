// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/viper"
	"github.com/teltech/logger"

	"github.com/pdiddy/csv2parquet/internal/convert"
	"github.com/pdiddy/csv2parquet/internal/dispatch"
	"github.com/pdiddy/csv2parquet/internal/ledger"
	"github.com/pdiddy/csv2parquet/internal/notify"
	"github.com/pdiddy/csv2parquet/internal/storage"
	"github.com/pdiddy/csv2parquet/pkg/types"
)

func setDefaults() {
	d := types.DefaultConfig()
	viper.SetDefault("conversion.input_extension", d.Conversion.InputExtension)
	viper.SetDefault("conversion.output_folder", d.Conversion.OutputFolder)
	viper.SetDefault("conversion.output_suffix", d.Conversion.OutputSuffix)
	viper.SetDefault("conversion.scheme", d.Conversion.Scheme)
	viper.SetDefault("conversion.collision_policy", string(d.Conversion.CollisionPolicy))
	viper.SetDefault("conversion.fail_on_error", d.Conversion.FailOnError)
	viper.SetDefault("storage.force_path_style", d.Storage.ForcePathStyle)
	viper.SetDefault("log.level", d.Log.Level)
}

// loadConfig reads the effective configuration from viper and validates it.
func loadConfig() (types.Config, error) {
	cfg := types.Config{
		Conversion: types.ConversionConfig{
			InputExtension:  viper.GetString("conversion.input_extension"),
			OutputFolder:    viper.GetString("conversion.output_folder"),
			OutputSuffix:    viper.GetString("conversion.output_suffix"),
			Scheme:          viper.GetString("conversion.scheme"),
			CollisionPolicy: types.CollisionPolicy(viper.GetString("conversion.collision_policy")),
			FailOnError:     viper.GetBool("conversion.fail_on_error"),
		},
		Storage: types.StorageConfig{
			Region:         viper.GetString("storage.region"),
			Endpoint:       viper.GetString("storage.endpoint"),
			ForcePathStyle: viper.GetBool("storage.force_path_style"),
		},
		Ledger: types.LedgerConfig{Path: viper.GetString("ledger.path")},
		Log:    types.LogConfig{Level: viper.GetString("log.level")},
	}

	if !cfg.Conversion.CollisionPolicy.Valid() {
		return cfg, fmt.Errorf("unknown collision policy %q: use reject, suffix or overwrite", cfg.Conversion.CollisionPolicy)
	}
	if notify.ParseLevel(cfg.Log.Level) == notify.LevelInvalid {
		return cfg, fmt.Errorf("unknown log level %q: use debug, info, warn or error", cfg.Log.Level)
	}
	return cfg, nil
}

// loadConfigOrDefault is loadConfig for callers that cannot fail yet.
func loadConfigOrDefault() types.Config {
	cfg, err := loadConfig()
	if err != nil {
		return types.DefaultConfig()
	}
	return cfg
}

// logOutput receives log lines. Stdout is reserved for command output such
// as handle reports and history --json.
var logOutput io.Writer = os.Stderr

func newNotifier(cfg types.Config, sender string) *notify.Notifier {
	return notify.New(logger.New().WithOutput(logOutput), notify.ParseLevel(cfg.Log.Level), sender)
}

// newStore routes file locators to the local filesystem and s3 locators to
// S3, using static credentials from the secrets directory when present.
func newStore(cfg types.Config) (*storage.Mux, error) {
	client, err := storage.NewS3Client(cfg.Storage, loadedSecrets)
	if err != nil {
		return nil, err
	}
	return storage.NewMux().
		Handle(storage.SchemeFile, storage.NewFileStore()).
		Handle(storage.SchemeS3, storage.NewS3Store(client)), nil
}

func newPipeline(cfg types.Config, n *notify.Notifier) (*convert.Pipeline, error) {
	store, err := newStore(cfg)
	if err != nil {
		return nil, err
	}
	return &convert.Pipeline{
		Store:    store,
		Policy:   cfg.Conversion.CollisionPolicy,
		Notifier: n,
	}, nil
}

// newDispatcher builds the dispatcher and, when a ledger path is configured,
// attaches the ledger. The returned func releases the ledger.
func newDispatcher(cfg types.Config, n *notify.Notifier) (*dispatch.Dispatcher, func(), error) {
	pipeline, err := newPipeline(cfg, n)
	if err != nil {
		return nil, nil, err
	}

	opts := []dispatch.Option{dispatch.WithNotifier(n)}
	cleanup := func() {}

	store, err := ledger.NewStore(cfg.Ledger)
	switch {
	case errors.Is(err, ledger.ErrDisabled):
	case err != nil:
		return nil, nil, err
	default:
		opts = append(opts, dispatch.WithRecorder(store))
		cleanup = func() { store.Close() }
	}

	return dispatch.New(cfg.Conversion, pipeline, opts...), cleanup, nil
}
