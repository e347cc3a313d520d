package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/miladsoleymani/eventdispatch/core"
)

// Logging returns middleware that logs handler duration and errors
// through the given logger. A nil logger falls back to slog.Default.
func Logging(logger *slog.Logger) core.Middleware {
	return func(next core.Handler) core.Handler {
		return func(ctx context.Context, e core.Event) error {
			l := logger
			if l == nil {
				l = slog.Default()
			}

			start := time.Now()
			err := next(ctx, e)
			elapsed := time.Since(start)

			if err != nil {
				l.Error("event handled", "event", e.Name, "elapsed", elapsed, "error", err)
			} else {
				l.Info("event handled", "event", e.Name, "elapsed", elapsed)
			}
			return err
		}
	}
}
