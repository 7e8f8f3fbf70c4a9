// Package jobs holds the background maintenance loops.
package jobs

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/aviranmz/thedude/internal/clock"
)

// CleanerStore is the persistence surface the cleaner needs.
type CleanerStore interface {
	DeleteExpiredRedirects(ctx context.Context, now time.Time, grace time.Duration) (int64, error)
}

// RedirectCleaner periodically removes long-expired redirect rows. Expiry is
// enforced at resolution time; this loop only reclaims storage, so it runs
// with a grace period to keep recently expired tokens resolvable as 410
// rather than 404.
type RedirectCleaner struct {
	store    CleanerStore
	clock    clock.Clock
	interval time.Duration
	grace    time.Duration
	logger   zerolog.Logger
}

// NewRedirectCleaner creates a cleaner. A non-positive interval defaults to
// hourly; grace defaults to 30 days.
func NewRedirectCleaner(store CleanerStore, clk clock.Clock, interval, grace time.Duration, logger zerolog.Logger) *RedirectCleaner {
	if interval <= 0 {
		interval = time.Hour
	}
	if grace <= 0 {
		grace = 30 * 24 * time.Hour
	}
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &RedirectCleaner{
		store:    store,
		clock:    clk,
		interval: interval,
		grace:    grace,
		logger:   logger.With().Str("component", "redirect_cleaner").Logger(),
	}
}

// Start begins the cleanup loop. It returns when ctx is cancelled.
func (c *RedirectCleaner) Start(ctx context.Context) {
	c.logger.Info().Dur("interval", c.interval).Dur("grace", c.grace).Msg("redirect cleaner started")

	// Run immediately on start
	c.sweep(ctx)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.logger.Info().Msg("redirect cleaner stopped")
			return
		case <-ticker.C:
			c.sweep(ctx)
		}
	}
}

func (c *RedirectCleaner) sweep(ctx context.Context) {
	removed, err := c.store.DeleteExpiredRedirects(ctx, c.clock.Now(), c.grace)
	if err != nil {
		c.logger.Error().Err(err).Msg("expired redirect sweep failed")
		return
	}
	if removed > 0 {
		c.logger.Info().Int64("removed", removed).Msg("swept expired redirects")
	}
}
