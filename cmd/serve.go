package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/lehigh-university-libraries/scorediff/internal/comparing"
	"github.com/lehigh-university-libraries/scorediff/internal/handlers"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the diff API server",
		Long: `Starts the scorediff HTTP API on the specified port.

POST two score documents to /api/diffs to get the edit operations, the
symbol error rate and the highlight marks for a renderer. Results are kept in
memory and can be listed, fetched and deleted. Prometheus metrics are served
on /metrics.`,
		Example: `  # Start server on default port 8888
  scorediff serve

  # Start server on custom port
  scorediff serve --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if port == "" {
				port = envOr("SCOREDIFF_PORT", "8888")
			}
			defaults := comparing.ConfigFromEnv()
			if _, err := comparing.NewService(defaults, slog.Default()); err != nil {
				return err
			}
			handler := handlers.New(defaults)

			addr := ":" + port
			server := &http.Server{
				Addr:              addr,
				Handler:           handler.Routes(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Scorediff API available", "addr", addr, "url", "http://localhost"+addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (env SCOREDIFF_PORT, default 8888)")

	return cmd
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
