package app

import (
	"context"
	"os/signal"
	"syscall"
	"time"
)

// estimateContext bounds a single estimation run. The returned context is
// canceled when the configured timeout expires or when the process receives
// SIGINT or SIGTERM, whichever comes first. The cancel function releases the
// timer and the signal listener and should be deferred.
func estimateContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx, cancelTimeout := context.WithTimeout(ctx, timeout)
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	return ctx, func() {
		stopSignals()
		cancelTimeout()
	}
}
