package ledger

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

const sweepInterval = 1 * time.Hour

// Sweeper is implemented by ledgers that need periodic cleanup of lapsed
// solved markers (the Redis ledger expires keys natively).
type Sweeper interface {
	SweepExpired(ctx context.Context) (int64, error)
}

// StartSweeper runs a background goroutine that periodically deletes lapsed
// solved markers until ctx is cancelled.
func StartSweeper(ctx context.Context, sw Sweeper) {
	ticker := time.NewTicker(sweepInterval)
	go func() {
		defer ticker.Stop()
		slog.Info("Ledger sweeper started", "interval", sweepInterval)

		for {
			select {
			case <-ticker.C:
				sweepOnce(ctx, sw)
			case <-ctx.Done():
				slog.Info("Ledger sweeper shutting down", "reason", ctx.Err())
				return
			}
		}
	}()
}

func sweepOnce(ctx context.Context, sw Sweeper) {
	maxRetries := 3
	baseDelay := 100 * time.Millisecond

	for i := 0; i < maxRetries; i++ {
		deleted, err := sw.SweepExpired(ctx)
		if err == nil {
			if deleted > 0 {
				slog.Info("Ledger sweeper removed lapsed solved markers", "count", deleted)
			}
			return
		}

		// Check if it's a SQLITE_BUSY or locked error
		errStr := err.Error()
		if (strings.Contains(errStr, "database is locked") || strings.Contains(errStr, "SQLITE_BUSY")) && i < maxRetries-1 {
			delay := baseDelay * time.Duration(1<<i) // exponential backoff: 100ms, 200ms, 400ms
			slog.Debug("Ledger sweep hit a locked database, retrying", "attempt", i+1, "delay", delay)
			time.Sleep(delay)
			continue
		}

		slog.Error("Ledger sweep failed", "error", err)
		return
	}
}
