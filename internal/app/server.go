package app

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const closeTimeout = 5 * time.Second

// Start binds the HTTP listener and serves in the background. The returned
// channel fires once on SIGINT, SIGTERM or SIGHUP.
func (a *App) Start() <-chan struct{} {
	ln, err := net.Listen("tcp", a.httpServer.Addr)
	if err != nil {
		slog.Error("failed to listen", "address", a.httpServer.Addr, "error", err)
		os.Exit(1)
	}

	go func() {
		slog.Info("http server listening", "address", ln.Addr().String())

		if err := a.httpServer.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to serve http server", "error", err)
			os.Exit(1)
		}
	}()

	terminate := make(chan struct{})
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
		defer signal.Stop(sig)

		s := <-sig
		slog.Info("termination signal received", "signal", s.String())
		close(terminate)
	}()

	return terminate
}

// Stop stops accepting requests and lets uploads in progress finish. When ctx
// expires first they are canceled, which marks them FAILED. Module resources
// are released afterwards.
func (a *App) Stop(ctx context.Context) {
	if err := a.httpServer.Shutdown(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to close resources", "name", "HTTP Server", "error", err)
	}

	slog.InfoContext(ctx, "waiting for uploads in progress to finish", "running", a.goroutine.Running())
	done := make(chan error, 1)
	go func() { done <- a.goroutine.Wait() }()

	var waitErr error
	select {
	case waitErr = <-done:
	case <-ctx.Done():
		slog.WarnContext(ctx, "uploads still running at deadline, canceling them")
		a.cancel()
		waitErr = <-done
	}
	if waitErr != nil {
		slog.ErrorContext(ctx, "error from goroutines executions", "error", waitErr)
	}

	// closers get their own budget even when ctx is already spent
	closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), closeTimeout)
	defer cancel()
	for _, c := range a.closers {
		if err := c.fn(closeCtx); err != nil {
			slog.ErrorContext(ctx, "failed to close resources", "name", c.name, "error", err)
		}
	}

	a.cancel()
	slog.InfoContext(ctx, "application gracefully shutdown")
}
