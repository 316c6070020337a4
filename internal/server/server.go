// Package server runs the HTTP listener and shuts it down gracefully.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/shashiranjanraj/eatn/config"
	"github.com/shashiranjanraj/eatn/pkg/logger"
)

const shutdownGrace = 10 * time.Second

// New returns a server bound to APP_PORT with conservative timeouts.
func New(handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// Start serves handler until ctx is cancelled, then drains in-flight
// requests for up to shutdownGrace.
func Start(ctx context.Context, handler http.Handler) error {
	srv := New(handler)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("eatn listening", "addr", srv.Addr, "env", config.AppEnv())
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

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
