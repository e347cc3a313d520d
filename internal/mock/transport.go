package mock

import (
	"context"
	"sync"

	"github.com/miladsoleymani/eventdispatch/core"
)

// Transport is a test double for core.Transport. It records publishes,
// lets tests inject inbound frames, and optionally echoes publishes to
// its own namespace back into the receive loop like a self-receiving
// broker would.
type Transport struct {
	mu        sync.Mutex
	namespace string
	frames    chan []byte
	published []Published
	closed    bool
	bus       *Bus

	// Scripted behavior, set by tests before use.
	ConnectErr  error
	PublishErr  error
	ReceiveErr  error
	Subscribers int
	EchoLocal   bool
}

// Published records a frame sent through Publish.
type Published struct {
	Namespace string
	Frame     []byte
}

// NewTransport creates a Transport subscribed to the given namespace.
func NewTransport(namespace string) *Transport {
	return &Transport{
		namespace: namespace,
		frames:    make(chan []byte, 64),
	}
}

func (t *Transport) Connect(_ context.Context) error {
	return t.ConnectErr
}

func (t *Transport) Publish(_ context.Context, namespace string, frame []byte) (int, error) {
	t.mu.Lock()
	if t.PublishErr != nil {
		err := t.PublishErr
		t.mu.Unlock()
		return 0, err
	}
	if t.closed {
		t.mu.Unlock()
		return 0, core.ErrTransportClosed
	}
	t.published = append(t.published, Published{Namespace: namespace, Frame: frame})
	echo := t.EchoLocal && namespace == t.namespace
	n := t.Subscribers
	bus := t.bus
	t.mu.Unlock()

	if bus != nil {
		return bus.publish(namespace, frame), nil
	}
	if echo {
		t.frames <- frame
	}
	return n, nil
}

// Receive delivers injected (and echoed) frames until the context is
// cancelled, simulating a real subscription loop.
func (t *Transport) Receive(ctx context.Context, deliver func(frame []byte)) error {
	if t.ReceiveErr != nil {
		return t.ReceiveErr
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case f := <-t.frames:
			deliver(f)
		}
	}
}

func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	return nil
}

func (t *Transport) Echo() bool { return t.EchoLocal }

// Inject simulates an inbound frame arriving from the broker.
func (t *Transport) Inject(frame []byte) {
	t.frames <- frame
}

// PublishedFrames returns all frames sent via Publish.
func (t *Transport) PublishedFrames() []Published {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Published, len(t.published))
	copy(out, t.published)
	return out
}

// IsClosed reports whether Close was called.
func (t *Transport) IsClosed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}
