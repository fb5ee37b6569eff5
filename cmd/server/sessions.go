package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/playperu/cyberfront/internal/store"
)

// sweepSessions drops expired login sessions once per ttl, or hourly for
// long ttls, until ctx is cancelled.
func sweepSessions(ctx context.Context, logger *slog.Logger, records *store.Store, ttl time.Duration) error {
	every := min(ttl, time.Hour)
	t := time.NewTicker(every)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-t.C:
			n, err := records.DeleteExpiredSessions(ctx, now)
			if err != nil {
				logger.Warn("sweeping sessions", "error", err)
				continue
			}
			if n > 0 {
				logger.Info("expired sessions removed", "count", n)
			}
		}
	}
}
