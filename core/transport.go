package core

import "context"

// Transport defines the contract for message broker adapters. Each
// adapter owns the physical connection to one broker and moves opaque
// frames scoped to a namespace; the Dispatcher never branches on which
// adapter it holds.
type Transport interface {
	// Connect establishes the broker connection. It is called once by
	// Dispatcher.Start and must not retry on failure; the dispatcher
	// surfaces the error and stays idle.
	Connect(ctx context.Context) error

	// Publish sends one frame to the given namespace and returns the
	// number of receivers the broker reported. Brokers that cannot
	// count receivers return 0; each adapter documents which.
	Publish(ctx context.Context, namespace string, frame []byte) (int, error)

	// Receive delivers inbound frames for the subscribed namespace to
	// deliver, one at a time, until ctx is cancelled. Transient read
	// failures are handled inside the adapter (logged, consumer
	// reopened); Receive returns a non-nil error only when the
	// transport is unrecoverably broken.
	Receive(ctx context.Context, deliver func(frame []byte)) error

	// Close tears down the connection. Safe to call more than once.
	Close() error

	// Echo reports whether this backend delivers an instance's own
	// publishes back to it. Broker-dependent: callers must consult this
	// flag rather than assume either answer.
	Echo() bool
}
