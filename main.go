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

	"github.com/krishakhanal/Tasks-API/internal/config"
	"github.com/krishakhanal/Tasks-API/internal/handlers"
	"github.com/krishakhanal/Tasks-API/internal/logging"
	"github.com/krishakhanal/Tasks-API/internal/store"
)

// configFile is set by the --config flag.
var configFile string

var rootCmd = &cobra.Command{
	Use:           "tasks-api",
	Short:         "Tasks API serves a JSON task list over HTTP",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFile, cmd.Flags())
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		return serve(cmd.Context(), cfg)
	},
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&configFile, "config", "", "optional YAML config file")
	flags.Int("port", config.DefaultPort, "port to listen on (env PORT)")
	flags.String("store", config.DefaultStore, "storage backend: file or sqlite (env STORE_BACKEND)")
	flags.String("tasks-file", config.DefaultTasksFile, "JSON file for the file backend (env TASKS_FILE)")
	flags.String("db-path", config.DefaultDBPath, "database file for the sqlite backend (env DB_PATH)")
	flags.String("log-level", config.DefaultLogLevel, "debug, info, warn or error (env LOG_LEVEL)")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	logger := logging.Setup(cfg.LogLevel, os.Stderr)

	// Initialize store
	s, err := store.Open(cfg.Store, cfg.StorePath())
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	defer s.Close()

	h := handlers.New(s, logger)

	srv := &http.Server{
		Addr:              cfg.Address(),
		Handler:           h.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(fmt.Sprintf("Server running on port %d", cfg.Port), "store", cfg.Store, "path", cfg.StorePath())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
