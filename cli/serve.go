package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the Google sign-in HTTP service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
}

func runServe(ctx context.Context, opts *rootOptions) error {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	sampling := configureLogger(logrusLogger, cfg)

	if shutdown := initOTel(ctx, cfg, logrusLogger); shutdown != nil {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), otelShutdownTimeout)
			defer cancel()
			if err := shutdown(ctx); err != nil {
				logrusLogger.WithError(err).Warn("otel shutdown failed")
			}
		}()
	}

	a, err := newApp(ctx, cfg, logrusLogger)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.bootstrapCredentials(ctx); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              listenAddr(cfg.Port),
		Handler:           newEngine(a, sampling),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logrusLogger.WithField("addr", srv.Addr).Info("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logrusLogger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// listenAddr accepts "8080", ":8080" or "host:8080".
func listenAddr(port string) string {
	port = strings.TrimSpace(port)
	if _, _, err := net.SplitHostPort(port); err == nil {
		return port
	}
	return ":" + port
}
