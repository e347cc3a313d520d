package middleware

import (
	"context"
	"time"

	"github.com/miladsoleymani/eventdispatch/core"
)

// MetricsCollector is the interface that metrics backends must implement.
// This keeps the middleware decoupled from any specific metrics library.
type MetricsCollector interface {
	// EventHandled records that an event was processed. name is the
	// event name, duration is handler time, and err is nil on success.
	EventHandled(name string, duration time.Duration, err error)
}

// Metrics returns middleware that reports handler metrics to the given collector.
func Metrics(collector MetricsCollector) core.Middleware {
	return func(next core.Handler) core.Handler {
		return func(ctx context.Context, e core.Event) error {
			start := time.Now()
			err := next(ctx, e)
			collector.EventHandled(e.Name, time.Since(start), err)
			return err
		}
	}
}
