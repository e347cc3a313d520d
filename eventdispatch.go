// Package eventdispatch provides the top-level API for the event
// dispatcher. It re-exports core types for convenience, so users can write:
//
//	d := eventdispatch.New("orders", tr)
//	d.On("created", handler)
//	d.Start(ctx)
package eventdispatch

import (
	"github.com/miladsoleymani/eventdispatch/core"
)

// Re-export core types at the package level for ergonomic usage.
type (
	Event      = core.Event
	Handler    = core.Handler
	Middleware = core.Middleware
	Transport  = core.Transport
	Codec      = core.Codec
	Dispatcher = core.Dispatcher
	Option     = core.Option
)

// Connect is the reserved event name fired locally once per successful
// connection establishment.
const Connect = core.Connect

// Re-export option constructors.
var (
	WithCodec  = core.WithCodec
	WithLogger = core.WithLogger
)

// New creates a Dispatcher bound to the given namespace and Transport.
func New(namespace string, t Transport, opts ...Option) *Dispatcher {
	return core.New(namespace, t, opts...)
}
