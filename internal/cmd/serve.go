package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/gravitrone/registry-console/internal/devserver"
	"github.com/gravitrone/registry-console/internal/logging"
)

// ServeCmd returns the `registry serve` command: a seeded in-memory data
// service for local development and demos.
func ServeCmd() *cobra.Command {
	var (
		addr      string
		auth      bool
		rateLimit int
		logFormat string
		logLevel  string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a local registry data service with seed data",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := logging.New(logFormat, logLevel, os.Stderr)
			logging.SetDefault(logger)

			opts := []devserver.Option{devserver.WithLogger(logger), devserver.WithRateLimit(rateLimit)}
			if auth {
				opts = append(opts, devserver.WithAuth())
			}
			handler := devserver.New(devserver.NewSeededRegistry(), opts...)

			listener, err := net.Listen("tcp", addr)
			if err != nil {
				return goerr.Wrap(err, "listen", goerr.V("addr", addr))
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "serving on http://%s\n", listener.Addr())
			if auth {
				fmt.Fprintf(out, "login with %s / %s\n", devserver.SeedEmail, devserver.SeedPassword)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serveUntilDone(ctx, listener, handler, logger)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:3300", "listen address")
	cmd.Flags().BoolVar(&auth, "auth", false, "require a login token")
	cmd.Flags().IntVar(&rateLimit, "rate-limit", devserver.DefaultRateLimit, "requests per minute per client (0 disables)")
	cmd.Flags().StringVar(&logFormat, "log-format", "text", "log format: text or json")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level")
	return cmd
}

// serveUntilDone serves on listener until ctx is cancelled, then shuts
// down gracefully.
func serveUntilDone(ctx context.Context, listener net.Listener, handler http.Handler, logger *slog.Logger) error {
	server := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 30 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting HTTP server", "addr", listener.Addr().String())
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return goerr.Wrap(err, "failed to serve")
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return goerr.Wrap(err, "failed to shutdown server gracefully")
		}
		logger.Info("Server shutdown completed")
		return nil
	})
	return g.Wait()
}
