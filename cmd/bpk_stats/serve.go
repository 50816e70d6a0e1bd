package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonathan/bpk-stats/internal/config"
	"github.com/jonathan/bpk-stats/internal/fetch"
	"github.com/jonathan/bpk-stats/internal/loader"
	"github.com/jonathan/bpk-stats/internal/server"
	"github.com/jonathan/bpk-stats/internal/watch"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	servePort  int
	serveWatch bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the statistics HTTP API",
	Long: "Loads the configured document set in the background and serves the views over HTTP. " +
		"Loading progress is streamed on GET /events; POST /reload starts a new load.",
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to listen on (overrides port)")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "Reload when files under data_dir change (overrides watch)")
	rootCmd.AddCommand(serveCmd)
}

// serveStack is everything serve starts, in the order it must be stopped.
type serveStack struct {
	server  *server.Server
	loader  *loader.Loader
	watcher *watch.Watcher
	cleanup func()
}

// newServeStack wires source, archive, loader, watcher and server from the configuration.
func newServeStack(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*serveStack, error) {
	src, err := newSource(cfg)
	if err != nil {
		return nil, err
	}

	stack := &serveStack{cleanup: func() {}}

	opts, err := server.OptionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	var archiver loader.Archiver
	database, err := openArchive(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	if database != nil {
		archiver = database
		opts.Store = database
		stack.cleanup = database.Close
	}

	l, err := newLoader(cfg, src, archiver, logger)
	if err != nil {
		stack.cleanup()
		return nil, err
	}
	stack.loader = l

	if cfg.Watch {
		dir, ok := src.(*fetch.DirSource)
		if !ok {
			stack.cleanup()
			return nil, fmt.Errorf("watch requires data_dir")
		}
		w, err := watch.New(dir, l.Documents(), l, cfg.WatchDebounce.Std(), logger)
		if err != nil {
			stack.cleanup()
			return nil, fmt.Errorf("failed to start watcher: %w", err)
		}
		stack.watcher = w
		closeArchive := stack.cleanup
		stack.cleanup = func() {
			_ = w.Close()
			closeArchive()
		}
	}

	stack.server = server.New(l, opts, logger)
	return stack, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if servePort != 0 {
		cfg.Port = servePort
	}
	if serveWatch {
		cfg.Watch = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	stack, err := newServeStack(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer stack.cleanup()

	if stack.watcher != nil {
		go func() {
			if err := stack.watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("watcher stopped", zap.Error(err))
			}
		}()
	}

	// The API answers with the loading state until the first run commits.
	go stack.loader.Load(ctx)

	return stack.server.Start(ctx)
}
