package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jonathan/bpk-stats/internal/config"
	"github.com/jonathan/bpk-stats/internal/db"
	"github.com/jonathan/bpk-stats/internal/fetch"
	"github.com/jonathan/bpk-stats/internal/loader"
	"github.com/jonathan/bpk-stats/internal/logging"
	"github.com/jonathan/bpk-stats/internal/types"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// setup resolves the configuration, applies the global flags and builds the logger.
func setup(cmd *cobra.Command) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Resolve(configPath, os.Getenv)
	if err != nil {
		return nil, nil, err
	}

	if err := applyGlobalFlags(cfg); err != nil {
		return nil, nil, err
	}

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	logger, err := logging.New(logging.Options{
		Level:  level,
		Format: cfg.LogFormat,
		Output: cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// applyGlobalFlags lets --base-url, --data-dir and --set win over the file and
// environment. A source flag replaces the other source setting.
func applyGlobalFlags(cfg *config.Config) error {
	changed := false
	if baseURL != "" {
		cfg.BaseURL, cfg.DataDir = baseURL, ""
		changed = true
	}
	if dataDir != "" {
		cfg.DataDir, cfg.BaseURL = dataDir, ""
		changed = true
	}
	if documentSet != "" {
		cfg.DocumentSet = documentSet
		changed = true
	}
	if !changed {
		return nil
	}
	return cfg.Validate()
}

// newSource returns the file source when data_dir is set, else the HTTP source.
func newSource(cfg *config.Config) (fetch.Source, error) {
	switch {
	case cfg.DataDir != "":
		src, err := fetch.NewDirSource(cfg.DataDir)
		if err != nil {
			return nil, err
		}
		return src, nil
	case cfg.BaseURL != "":
		opts := fetch.DefaultOptions()
		opts.Timeout = cfg.RequestTimeout.Std()
		opts.Retries = cfg.Retries
		src, err := fetch.NewHTTPSource(cfg.BaseURL, opts)
		if err != nil {
			return nil, err
		}
		return src, nil
	default:
		return nil, fmt.Errorf("no source configured: set base_url or data_dir (BPK_BASE_URL, BPK_DATA_DIR, --base-url, --data-dir)")
	}
}

// newLoader builds a loader for the configured document set.
func newLoader(cfg *config.Config, src fetch.Source, archiver loader.Archiver, logger *zap.Logger) (*loader.Loader, error) {
	docs, err := types.DocumentSet(cfg.DocumentSet)
	if err != nil {
		return nil, err
	}
	opts := loader.Options{
		Strategy:   loader.Strategy(cfg.Strategy),
		SchemaMode: loader.SchemaMode(cfg.SchemaMode),
		Archiver:   archiver,
	}
	return loader.New(src, docs, opts, logger), nil
}

// openArchive connects to the snapshot archive. Returns nil without an error
// when no database is configured.
func openArchive(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*db.DB, error) {
	if cfg.DatabaseURL == "" {
		return nil, nil
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.EnsureSchema(ctx); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to prepare snapshot archive: %w", err)
	}
	logger.Info("snapshot archive enabled")
	return database, nil
}
