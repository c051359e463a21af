// mockspotfire runs an in-memory mock of the Spotfire REST APIs for use in
// client test suites.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/scrankin/spotfire-community/internal/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "mockspotfire",
		Short:         "In-memory mock Spotfire server for client testing",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the mock Spotfire server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := server.LoadConfig()
			if err != nil {
				return err
			}
			srv, err := server.NewFromConfig(cfg)
			if err != nil {
				return err
			}
			return run(cfg, srv)
		},
	}
}

func run(cfg *server.Config, srv *server.Server) error {
	httpServer := &http.Server{
		Addr:    cfg.Addr(),
		Handler: srv.Routes(),
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Mock Spotfire server starting", "addr", cfg.Addr())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		slog.Info("Shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		return err
	}

	slog.Info("Server exiting")
	return nil
}
