package core

import "context"

// Connect is the reserved event name synthesized by the dispatcher once
// per successful connection establishment. It is fired locally only and
// never travels over the wire; its payload is nil.
const Connect = "connect"

// Event is a named payload exchanged between dispatcher instances.
// Name is a plain identifier chosen by callers; Payload carries any
// codec-serializable value and has no schema beyond that.
type Event struct {
	Name    string
	Payload any
}

// Handler is invoked with a decoded event. Handlers run synchronously on
// the consuming goroutine in registration order; a returned error (or a
// panic) is logged and isolated — it never stops the consume loop or
// prevents later handlers from running.
type Handler func(ctx context.Context, e Event) error

// Middleware wraps a Handler to add cross-cutting behavior.
//
//	func MyMiddleware() core.Middleware {
//	    return func(next core.Handler) core.Handler {
//	        return func(ctx context.Context, e core.Event) error {
//	            // before
//	            err := next(ctx, e)
//	            // after
//	            return err
//	        }
//	    }
//	}
type Middleware func(Handler) Handler
