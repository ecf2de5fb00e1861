package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"engined/internal/config"
	"engined/internal/engine"
	"engined/internal/httpapi"
	"engined/internal/manager"
	"engined/internal/registry"
)

type serveOptions struct {
	configPath   string
	addr         string
	modelsDir    string
	defaultModel string
	numa         string
	logLevel     string
	ctxSize      int
	threads      int
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "engined",
		Short:         "llama.cpp engine lifecycle daemon",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newModelsCmd())
	return root
}

func newServeCmd() *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", "", "Optional config file (.yaml/.json/.toml); flags override file values")
	f.StringVar(&opts.addr, "addr", "", "HTTP listen address, e.g. :8080")
	f.StringVar(&opts.modelsDir, "models-dir", "", "Directory to scan for *.gguf model files")
	f.StringVar(&opts.defaultModel, "default-model", "", "Default model id when request omits model")
	f.StringVar(&opts.numa, "numa", "", "NUMA strategy: disable|distribute|isolate|numactl|mirror|count")
	f.StringVar(&opts.logLevel, "log-level", "", "Log level: debug|info|warn|error")
	f.IntVar(&opts.ctxSize, "ctx-size", 0, "Model context size in tokens")
	f.IntVar(&opts.threads, "threads", 0, "Inference threads (0 = library default)")
	return cmd
}

// resolveConfig merges the optional config file with flag overrides and
// applies defaults.
func resolveConfig(opts *serveOptions) (config.Config, error) {
	var cfg config.Config
	if opts.configPath != "" {
		var err error
		cfg, err = config.Load(opts.configPath)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
	}
	if opts.addr != "" {
		cfg.Addr = opts.addr
	}
	if opts.modelsDir != "" {
		cfg.ModelsDir = opts.modelsDir
	}
	if opts.defaultModel != "" {
		cfg.DefaultModel = opts.defaultModel
	}
	if opts.numa != "" {
		cfg.NumaStrategy = opts.numa
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	if opts.ctxSize != 0 {
		cfg.CtxSize = opts.ctxSize
	}
	if opts.threads != 0 {
		cfg.Threads = opts.threads
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.ModelsDir == "" {
		cfg.ModelsDir = "~/models/llm"
	}
	return cfg, nil
}

func newLogger(level string) (zerolog.Logger, error) {
	lvl := zerolog.InfoLevel
	if level != "" {
		var err error
		lvl, err = zerolog.ParseLevel(level)
		if err != nil {
			return zerolog.Logger{}, fmt.Errorf("log level: %w", err)
		}
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(lvl).With().Timestamp().Logger(), nil
}

func runServe(opts *serveOptions) error {
	cfg, err := resolveConfig(opts)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	numa, err := engine.ParseNumaStrategy(cfg.NumaStrategy)
	if err != nil {
		return err
	}
	engine.SetLogger(logger)
	httpapi.SetLogger(logger)

	reg, err := registry.LoadDir(cfg.ModelsDir)
	if err != nil {
		return fmt.Errorf("load models: %w", err)
	}
	logger.Info().Int("models", len(reg)).Str("dir", cfg.ModelsDir).Msg("registry loaded")

	mgr := manager.NewWithConfig(manager.ManagerConfig{
		Registry:     reg,
		DefaultModel: cfg.DefaultModel,
		Numa:         numa,
		CtxSize:      cfg.CtxSize,
		Threads:      cfg.Threads,
	})

	baseCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	httpapi.SetBaseContext(baseCtx)
	srv := &http.Server{Addr: cfg.Addr, Handler: httpapi.NewMux(mgr)}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.Addr).Str("numa", numa.String()).Msg("engined listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Graceful shutdown (Ctrl+C / SIGTERM)
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
	}
	cancel()
	ctx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown")
	}
	// Unloads every instance, releasing all engine handles; the last release
	// tears the native engine down.
	return mgr.Close()
}

func newModelsCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "models",
		Short: "List *.gguf models in a directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := registry.LoadDir(dir)
			if err != nil {
				return err
			}
			for _, m := range reg {
				line := m.ID
				if m.Quant != "" {
					line += "\t" + m.Quant
				}
				if m.Family != "" {
					line += "\t" + m.Family
				}
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "models-dir", "~/models/llm", "Directory to scan for *.gguf model files")
	return cmd
}
