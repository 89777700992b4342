package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	nethttp "net/http"
	"time"

	"github.com/spf13/cobra"

	"docrag/internal/http"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(opts *rootOptions) *cobra.Command {
	var host, port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if host != "" {
				opts.cfg.APIHost = host
			}
			if port != "" {
				opts.cfg.APIPort = port
			}
			if !isLoopback(opts.cfg.APIHost) {
				slog.Warn("API is reachable from other hosts and has no authentication",
					"host", opts.cfg.APIHost,
					"ingest_root", opts.cfg.IngestRoot,
				)
			}

			a, err := newApp(opts.cfg)
			if err != nil {
				return err
			}
			defer func() {
				_ = a.Close()
			}()

			router := http.NewRouter(&http.Deps{
				Service:        a.service,
				DB:             a.db,
				EmbedderName:   a.embedder.Name(),
				AllowedOrigins: opts.cfg.CORSOrigins,
			})

			srv := &nethttp.Server{
				Addr:              net.JoinHostPort(opts.cfg.APIHost, opts.cfg.APIPort),
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}
			return runServer(cmd.Context(), srv)
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "address to bind (default from config, 127.0.0.1)")
	cmd.Flags().StringVar(&port, "port", "", "port to listen on (default from config, 9000)")

	return cmd
}

// isLoopback reports whether host only accepts local connections.
func isLoopback(host string) bool {
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// runServer serves until ctx is cancelled, then shuts the server down.
func runServer(ctx context.Context, srv *nethttp.Server) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting API server", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, nethttp.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
