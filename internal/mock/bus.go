package mock

import "sync"

// Bus connects several Transports in one process, routing publishes to
// every Transport subscribed to the target namespace — Redis pub/sub
// semantics, including delivery back to the publisher. It backs the
// multi-dispatcher tests.
type Bus struct {
	mu   sync.Mutex
	subs map[string][]*Transport
}

func NewBus() *Bus {
	return &Bus{subs: make(map[string][]*Transport)}
}

// Transport creates a bus-attached Transport subscribed to namespace.
func (b *Bus) Transport(namespace string) *Transport {
	t := NewTransport(namespace)
	t.bus = b
	b.mu.Lock()
	b.subs[namespace] = append(b.subs[namespace], t)
	b.mu.Unlock()
	return t
}

// publish fans the frame out to every subscriber of namespace and
// returns the subscriber count, 0 when no one is listening.
func (b *Bus) publish(namespace string, frame []byte) int {
	b.mu.Lock()
	targets := make([]*Transport, len(b.subs[namespace]))
	copy(targets, b.subs[namespace])
	b.mu.Unlock()

	for _, t := range targets {
		t.frames <- frame
	}
	return len(targets)
}
