package pkgroutine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
)

// DefaultMaxGoroutine is used when NewManager receives a non-positive limit.
const DefaultMaxGoroutine int = 10

var (
	// ErrPanic wraps the value recovered from a panicking task so Wait reports it.
	ErrPanic = errors.New("goroutine panicked")

	// ErrNotStarted is returned by Go when the context ends before a slot frees up.
	ErrNotStarted = errors.New("goroutine not started")
)

// Manager runs functions in goroutines with a configurable concurrency limit.
//
// It collects errors returned by tasks and can be waited on using Wait.
type Manager struct {
	mu      sync.Mutex
	errs    []error
	wg      sync.WaitGroup
	sema    chan struct{}
	running atomic.Int64
}

// NewManager creates a new Manager with the provided maximum concurrency.
func NewManager(maxGoroutine int) *Manager {
	if maxGoroutine < 1 {
		maxGoroutine = DefaultMaxGoroutine
	}

	return &Manager{sema: make(chan struct{}, maxGoroutine)}
}

// Go schedules f, blocking until a slot is free.
//
// When ctx ends first f never runs and an error wrapping ErrNotStarted is
// returned, so the caller can release whatever f would have consumed. Once
// started, f owns ctx. A panic inside f is recovered and collected as ErrPanic.
func (g *Manager) Go(ctx context.Context, f func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrNotStarted, err)
	}

	select {
	case g.sema <- struct{}{}:
	case <-ctx.Done():
		slog.WarnContext(ctx, "goroutine canceled before start", "because", ctx.Err())
		return fmt.Errorf("%w: %w", ErrNotStarted, ctx.Err())
	}

	g.wg.Add(1)
	g.running.Add(1)
	go func() {
		defer g.wg.Done()
		defer func() {
			g.running.Add(-1)
			<-g.sema

			if rvr := recover(); rvr != nil {
				slog.ErrorContext(ctx, "panic occurred in goroutine", "because", rvr, "stack", string(debug.Stack()))
				g.collect(fmt.Errorf("%w: %v", ErrPanic, rvr))
			}
		}()

		if err := f(ctx); err != nil {
			g.collect(err)
		}
	}()

	return nil
}

// Running is the number of tasks currently executing.
func (g *Manager) Running() int {
	return int(g.running.Load())
}

func (g *Manager) collect(err error) {
	g.mu.Lock()
	g.errs = append(g.errs, err)
	g.mu.Unlock()
}

// Wait blocks until all scheduled goroutines finish and returns any collected errors.
func (g *Manager) Wait() error {
	g.wg.Wait()

	g.mu.Lock()
	defer g.mu.Unlock()
	return errors.Join(g.errs...)
}
