package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/miladsoleymani/eventdispatch/core"
)

// Recovery returns middleware that recovers from panics in handlers,
// logs the stack trace, and returns the panic as an error. The
// dispatcher already isolates panics; Recovery additionally converts
// them into errors visible to outer middleware such as Metrics.
func Recovery() core.Middleware {
	return func(next core.Handler) core.Handler {
		return func(ctx context.Context, e core.Event) (err error) {
			defer func() {
				if r := recover(); r != nil {
					buf := make([]byte, 4096)
					n := runtime.Stack(buf, false)
					slog.Error("panic recovered",
						"event", e.Name,
						"panic", fmt.Sprintf("%v", r),
						"stack", string(buf[:n]))
					err = fmt.Errorf("eventdispatch: panic recovered: %v", r)
				}
			}()
			return next(ctx, e)
		}
	}
}
