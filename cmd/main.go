// cmd/main.go - Program entry
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

	"github.com/spf13/cobra"

	"coverage-miner/internal/config"
	"coverage-miner/internal/metrics"
	"coverage-miner/internal/server"
	"coverage-miner/pkg/logger"
)

var (
	// set by the linker during build
	osName   string
	archName string
	version  string
)

type rootOptions struct {
	configPath  string
	logLevel    string
	metricsAddr string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:          "coverage-miner",
		Short:        "mine covered Java methods from open source repositories and verify predicted ones",
		Version:      version,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a TOML config file")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "loglevel", "", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&opts.metricsAddr, "metrics-addr", "", "serve /metrics on this address while running")

	cmd.AddCommand(newMineCmd(opts), newVerifyCmd(opts))
	return cmd
}

// app holds what every subcommand needs.
type app struct {
	cfg     *config.Config
	logger  logger.Logger
	metrics *metrics.Metrics
	server  server.Server
}

func newApp(opts *rootOptions) (*app, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize configuration: %w", err)
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if opts.metricsAddr != "" {
		cfg.Metrics.Address = opts.metricsAddr
	}
	if cfg.Database.DataDir == "" {
		cfg.Database.DataDir = cfg.Paths.ResourcesDir
	}

	appLogger, err := logger.NewLogger(cfg.Paths.LogsDir, cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logging system: %w", err)
	}
	appLogger.Info("OS: %s, Arch: %s, Version: %s, Starting...", osName, archName, version)

	return &app{
		cfg:     cfg,
		logger:  appLogger,
		metrics: metrics.New(),
	}, nil
}

// startMetrics serves the metrics endpoint in the background when an address is configured.
func (a *app) startMetrics() {
	if a.cfg.Metrics.Address == "" {
		return
	}
	a.server = server.NewServer(a.metrics, a.logger)
	go func() {
		if err := a.server.Start(a.cfg.Metrics.Address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("metrics server failed: %v", err)
		}
	}()
}

func (a *app) close() {
	if a.server == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.server.Shutdown(ctx); err != nil {
		a.logger.Error("metrics server shutdown error: %v", err)
	}
}
