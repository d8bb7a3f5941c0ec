// Package shutdown provides a reusable graceful-termination coordinator:
// one OS-signal listener fanning out a single cancellation to every
// long-lived task (exchange adapters, merger, fan-out server), then
// waiting for them to finish within a bounded grace period.
package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Coordinator cancels a context on SIGINT/SIGTERM (or an explicit
// Trigger call) and waits for registered tasks to acknowledge.
type Coordinator struct {
	logger *zap.Logger
	grace  time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	wg sync.WaitGroup
}

// New returns a Coordinator derived from parent. grace bounds how long
// Wait will block for registered tasks to finish before giving up.
func New(parent context.Context, logger *zap.Logger, grace time.Duration) *Coordinator {
	ctx, cancel := context.WithCancel(parent)
	return &Coordinator{logger: logger, grace: grace, ctx: ctx, cancel: cancel}
}

// Context returns the context every managed task should select on.
func (c *Coordinator) Context() context.Context {
	return c.ctx
}

// Go runs fn in its own goroutine and tracks its completion for Wait.
func (c *Coordinator) Go(fn func()) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		fn()
	}()
}

// ListenForSignals cancels the coordinator's context when the process
// receives SIGINT or SIGTERM, and blocks until that happens or ctx is
// otherwise cancelled.
func (c *Coordinator) ListenForSignals(ctx context.Context) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		c.logger.Info("received shutdown signal", zap.String("signal", sig.String()))
		c.cancel()
	case <-ctx.Done():
	case <-c.ctx.Done():
	}
}

// Trigger cancels the coordinator's context directly, for callers that
// want to force shutdown without a signal (tests, admin endpoints).
func (c *Coordinator) Trigger() {
	c.cancel()
}

// Wait blocks until every task registered via Go has returned, or the
// grace period, counted from the call to Wait, elapses — whichever comes
// first. It returns true if every task finished within the grace period.
func (c *Coordinator) Wait() bool {
	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-time.After(c.grace):
		c.logger.Warn("shutdown grace period elapsed with tasks still running")
		return false
	}
}
