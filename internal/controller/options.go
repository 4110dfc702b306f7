package controller

import (
	"log/slog"
	"time"
)

// Option configures a ThumbnailController
type Option func(*ThumbnailController)

// WithLogger sets the logger. A nil logger falls back to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *ThumbnailController) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithOperationTimeout bounds every use-case call. Zero disables the timeout.
// A timed-out call is reported like any other failure of its kind.
func WithOperationTimeout(d time.Duration) Option {
	return func(c *ThumbnailController) {
		if d >= 0 {
			c.timeout = d
		}
	}
}

// WithOptimisticUpdates makes SaveThumbnail and RemoveThumbnail edit the
// saved collection immediately instead of waiting for the next reload.
func WithOptimisticUpdates(enabled bool) Option {
	return func(c *ThumbnailController) {
		c.optimistic = enabled
	}
}

// WithSurfacedFailures replaces the set of failure kinds that reach the UI
// through FetchError and Failures. The default set is FailureSearch only.
func WithSurfacedFailures(kinds ...FailureKind) Option {
	return func(c *ThumbnailController) {
		c.surfaced = make(map[FailureKind]bool, len(kinds))
		for _, k := range kinds {
			c.surfaced[k] = true
		}
	}
}
