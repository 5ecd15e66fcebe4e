package glaive

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// defaultShutdownTimeout bounds graceful shutdown when Start handles the
// lifecycle itself.
const defaultShutdownTimeout = 30 * time.Second

// Start runs the app on addr and blocks until a shutdown signal (SIGINT
// or SIGTERM) arrives, then shuts down gracefully, waiting for in-flight
// requests within the shutdown timeout.
func (a *App) Start(addr string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return a.startWithContext(ctx, addr)
}

func (a *App) startWithContext(ctx context.Context, addr string) error {
	a.serverMu.Lock()
	a.server = &http.Server{Addr: addr, Handler: a}
	srv := a.server
	a.serverMu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		a.config.Logger.Info("server starting", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.config.Logger.Info("shutting down gracefully",
		slog.Duration("timeout", defaultShutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.config.Logger.Error("shutdown error", slog.String("error", err.Error()))
		return err
	}
	return nil
}

// Shutdown stops a server started with Start, waiting for in-flight
// requests until ctx expires.
func (a *App) Shutdown(ctx context.Context) error {
	a.serverMu.Lock()
	srv := a.server
	a.serverMu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}
