package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/amaumene/gocinema/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "gocinema",
		Short:         "Browse, search and collect movies from TMDB",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().String("log-format", "", "log format (text or json)")
	_ = viper.BindPFlag("LOG_LEVEL", root.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("LOG_FORMAT", root.PersistentFlags().Lookup("log-format"))

	root.AddCommand(
		newServeCmd(),
		newSearchCmd(),
		newDetailsCmd(),
		newSuggestCmd(),
		newToggleCmd("favorite", "Toggle a movie in the favorites"),
		newToggleCmd("watchlist", "Toggle a movie in the watchlist"),
		newReviewCmd(),
		newLibraryCmd(),
	)

	return root
}

// loadApp loads the configuration and builds the dependency graph
func loadApp() (*App, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	app, cleanup, err := initializeApp(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize application: %w", err)
	}
	return app, cleanup, nil
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}
}

func run() error {
	app, cleanup, err := loadApp()
	if err != nil {
		return err
	}
	defer cleanup()

	logger := app.Logger
	logger.Info("Starting gocinema")
	logger.WithField("config_dir", filepath.Dir(app.Config.DatabaseFile)).Info("Configuration loaded")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := app.Scheduler.Start(ctx); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer app.Scheduler.Stop()

	serverDone := make(chan error, 1)
	go func() {
		serverDone <- app.Server.Start(ctx)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	logger.Info("gocinema is running")

	select {
	case err := <-serverDone:
		if err != nil {
			return err
		}
	case sig := <-sigChan:
		logger.WithField("signal", sig).Info("Received shutdown signal")
		cancel()
		if err := <-serverDone; err != nil {
			logger.WithError(err).Error("Error during server shutdown")
		}
	}

	logger.Info("gocinema stopped")
	return nil
}
