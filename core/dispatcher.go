package core

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
)

// state is the dispatcher lifecycle flag: idle (never started), running
// (consume loop active), stopped (loop terminated, terminal).
type state int

const (
	stateIdle state = iota
	stateRunning
	stateStopped
)

// Dispatcher multiplexes a single namespace-scoped broker channel into
// many named-event handlers. It owns the handler registry and the
// connect/consume lifecycle, delegating raw I/O to a Transport and
// payload (de)serialization to a Codec.
//
// One dispatcher instance is bound to exactly one namespace for its
// lifetime. Whether an instance receives its own publishes is
// broker-dependent; consult Transport.Echo.
type Dispatcher struct {
	namespace string
	transport Transport
	codec     Codec
	logger    *slog.Logger
	registry  *registry

	mu          sync.Mutex
	middlewares []Middleware
	state       state
	cancel      context.CancelFunc
	done        chan struct{}
}

// Option configures a Dispatcher at construction.
type Option func(*Dispatcher)

// WithCodec replaces the default JSONCodec.
func WithCodec(c Codec) Option {
	return func(d *Dispatcher) { d.codec = c }
}

// WithLogger sets the parent logger. The dispatcher logs through a
// child scoped to its namespace.
func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) { d.logger = l }
}

// New creates a Dispatcher bound to the given namespace and Transport.
// It uses JSONCodec and slog.Default unless overridden by options.
func New(namespace string, t Transport, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		namespace: namespace,
		transport: t,
		codec:     JSONCodec{},
		logger:    slog.Default(),
		registry:  newRegistry(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = d.logger.With("namespace", namespace)
	return d
}

// Namespace returns the namespace this dispatcher publishes to and
// subscribes from.
func (d *Dispatcher) Namespace() string { return d.namespace }

// On registers a handler for the named event. Handlers are invoked in
// registration order; registering the same handler twice results in two
// invocations per trigger.
//
//	d.On("created", func(ctx context.Context, e core.Event) error {
//	    // process e.Payload...
//	    return nil
//	})
func (d *Dispatcher) On(name string, h Handler) {
	d.registry.add(name, h)
}

// Off removes every handler registered for the named event. Handlers
// are never removed implicitly.
func (d *Dispatcher) Off(name string) {
	d.registry.remove(name)
}

// Use registers global middleware applied to every handler invocation.
// Middleware runs in registration order (first registered outermost).
func (d *Dispatcher) Use(m Middleware) {
	d.mu.Lock()
	d.middlewares = append(d.middlewares, m)
	d.mu.Unlock()
}

// Trigger publishes the named event to the dispatcher's own namespace.
// It returns the receiver count reported by the broker (0 means
// "unknown" on brokers that cannot count; see each transport's docs).
// Local handlers are invoked only if the transport echoes own publishes.
func (d *Dispatcher) Trigger(ctx context.Context, name string, payload any) (int, error) {
	return d.TriggerTo(ctx, d.namespace, name, payload)
}

// TriggerTo publishes the named event to another namespace the broker
// can route to, enabling cross-namespace signaling through a shared
// exchange or channel naming scheme.
func (d *Dispatcher) TriggerTo(ctx context.Context, namespace, name string, payload any) (int, error) {
	if d.transport == nil {
		return 0, ErrNoTransport
	}
	frame, err := d.codec.Encode(Event{Name: name, Payload: payload})
	if err != nil {
		return 0, err
	}
	n, err := d.transport.Publish(ctx, namespace, frame)
	if err != nil {
		return 0, &PublishError{Namespace: namespace, Event: name, Err: err}
	}
	return n, nil
}

// Start transitions the dispatcher from idle to running. It connects
// the transport, synthesizes the local "connect" event, and runs the
// consume loop on a background goroutine until Stop is called or the
// transport fails unrecoverably.
//
// On connection failure the dispatcher stays idle, the error is logged
// and returned as a *ConnectionError, and Start may be called again.
// There is no automatic retry of the initial connect at this layer.
func (d *Dispatcher) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.transport == nil {
		return ErrNoTransport
	}
	switch d.state {
	case stateRunning:
		return ErrAlreadyStarted
	case stateStopped:
		return ErrStopped
	}

	if err := d.transport.Connect(ctx); err != nil {
		d.logger.Error("connect failed", "error", err)
		return &ConnectionError{Namespace: d.namespace, Err: err}
	}

	// The loop's life is governed by the running state, not by the
	// caller's connect context.
	loopCtx, cancel := context.WithCancel(context.Background())
	d.state = stateRunning
	d.cancel = cancel
	d.done = make(chan struct{})

	go d.run(loopCtx, d.done)

	return nil
}

// Stop transitions running to stopped, signals the consume loop to exit
// at its next blocking or suspension point, waits for it, and closes
// the transport. Stop is idempotent; stopping an idle dispatcher is a
// no-op. Stopped is terminal: construct a new dispatcher to reconnect.
func (d *Dispatcher) Stop() error {
	d.mu.Lock()
	if d.state != stateRunning {
		d.mu.Unlock()
		return nil
	}
	d.state = stateStopped
	cancel, done := d.cancel, d.done
	d.mu.Unlock()

	cancel()
	<-done

	return d.transport.Close()
}

// run is the consume loop. Its first action is the deferred local
// "connect" trigger, so Start never blocks on connect handlers.
func (d *Dispatcher) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	d.dispatch(ctx, Event{Name: Connect})

	err := d.transport.Receive(ctx, func(frame []byte) {
		d.deliver(ctx, frame)
	})
	if err != nil && ctx.Err() == nil {
		d.logger.Error("receive loop terminated", "error", err)
		if cerr := d.transport.Close(); cerr != nil {
			d.logger.Error("close transport", "error", cerr)
		}
	}

	d.mu.Lock()
	d.state = stateStopped
	d.mu.Unlock()
}

// deliver decodes one inbound frame and dispatches it. A decode failure
// drops the single frame; the loop continues.
func (d *Dispatcher) deliver(ctx context.Context, frame []byte) {
	e, err := d.codec.Decode(frame)
	if err != nil {
		d.logger.Error("dropping undecodable frame", "error", err)
		return
	}
	d.dispatch(ctx, e)
}

// dispatch invokes every handler registered for e.Name in registration
// order, each wrapped in the global middleware chain. Handler errors
// and panics are logged and isolated.
func (d *Dispatcher) dispatch(ctx context.Context, e Event) {
	handlers := d.registry.get(e.Name)
	if len(handlers) == 0 {
		return
	}

	d.mu.Lock()
	mws := make([]Middleware, len(d.middlewares))
	copy(mws, d.middlewares)
	d.mu.Unlock()

	for _, h := range handlers {
		d.invoke(ctx, applyMiddleware(h, mws), e)
	}
}

// invoke runs one handler with panic isolation.
func (d *Dispatcher) invoke(ctx context.Context, h Handler, e Event) {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			d.logger.Error("handler panic",
				"event", e.Name,
				"panic", fmt.Sprintf("%v", r),
				"stack", string(buf[:n]))
		}
	}()
	if err := h(ctx, e); err != nil {
		d.logger.Error("handler error", "event", e.Name, "error", err)
	}
}

// applyMiddleware wraps a handler with middleware in reverse order.
// Given middleware [A, B, C], the call order is A -> B -> C -> handler.
func applyMiddleware(h Handler, mws []Middleware) Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
