package nats

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/nats-io/nats.go"

	"github.com/miladsoleymani/eventdispatch/core"
	"github.com/miladsoleymani/eventdispatch/transport"
)

func init() {
	transport.Register("nats", func(cfg transport.Config) (core.Transport, error) {
		if cfg.URL == "" {
			return nil, fmt.Errorf("eventdispatch/nats: broker URL is required")
		}
		return New(cfg.URL, cfg.Namespace, optsFromConfig(cfg)...)
	})
}

// Transport implements core.Transport for core NATS pub/sub. Like the
// Redis adapter it is ephemeral fan-out: one subject named after the
// namespace, no persistence, events published with no subscriber are
// lost. JetStream is deliberately not used; the dispatcher's contract
// does not include replay or durability (non-goals).
//
// Reconnect after a drop is delegated to the NATS client's built-in
// reconnect; the subscription survives it.
//
// Self-echo: yes by default — the server delivers a connection's own
// publishes back to it unless WithNoEcho is set.
type Transport struct {
	url       string
	namespace string
	opts      options
	logger    *slog.Logger

	mu     sync.Mutex
	conn   *nats.Conn
	sub    *nats.Subscription
	msgs   chan *nats.Msg
	closed bool
}

// New creates a NATS Transport. url is a standard NATS URL
// (nats://host:port). No connection is made until Connect.
func New(url, namespace string, fns ...Option) (*Transport, error) {
	if namespace == "" {
		return nil, fmt.Errorf("eventdispatch/nats: namespace is required")
	}
	opts := defaults()
	for _, fn := range fns {
		fn(&opts)
	}
	logger := opts.logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Transport{
		url:       url,
		namespace: namespace,
		opts:      opts,
		logger:    logger.With("namespace", namespace),
	}, nil
}

// Connect dials the server and opens the namespace subscription.
func (t *Transport) Connect(_ context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return core.ErrTransportClosed
	}
	if t.conn != nil && t.conn.IsConnected() {
		return nil
	}

	natsOpts := t.opts.natsOpts
	if t.opts.noEcho {
		natsOpts = append(natsOpts, nats.NoEcho())
	}
	nc, err := nats.Connect(t.url, natsOpts...)
	if err != nil {
		return fmt.Errorf("eventdispatch/nats: connect to %q: %w", t.url, err)
	}

	msgs := make(chan *nats.Msg, 64)
	sub, err := nc.ChanSubscribe(t.namespace, msgs)
	if err != nil {
		nc.Close()
		return fmt.Errorf("eventdispatch/nats: subscribe %q: %w", t.namespace, err)
	}

	t.conn = nc
	t.sub = sub
	t.msgs = msgs
	return nil
}

// Publish sends one frame to the subject named by namespace. NATS does
// not report receiver counts; the int result is always 0.
func (t *Transport) Publish(ctx context.Context, namespace string, frame []byte) (int, error) {
	t.mu.Lock()
	conn := t.conn
	closed := t.closed
	t.mu.Unlock()
	if closed {
		return 0, core.ErrTransportClosed
	}
	if conn == nil {
		return 0, fmt.Errorf("eventdispatch/nats: not connected")
	}

	if err := conn.Publish(namespace, frame); err != nil {
		return 0, fmt.Errorf("eventdispatch/nats: publish to %q: %w", namespace, err)
	}
	return 0, nil
}

// Receive consumes the subscription channel, handing each message's
// data to deliver, until ctx is cancelled.
func (t *Transport) Receive(ctx context.Context, deliver func(frame []byte)) error {
	t.mu.Lock()
	msgs := t.msgs
	t.mu.Unlock()
	if msgs == nil {
		return fmt.Errorf("eventdispatch/nats: not connected")
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case m, ok := <-msgs:
			if !ok {
				t.mu.Lock()
				closed := t.closed
				t.mu.Unlock()
				if closed {
					return core.ErrTransportClosed
				}
				return fmt.Errorf("eventdispatch/nats: subscription channel closed")
			}
			deliver(m.Data)
		}
	}
}

// Close unsubscribes and drains the connection. Safe to call more than once.
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true

	if t.sub != nil {
		if err := t.sub.Unsubscribe(); err != nil {
			t.logger.Error("unsubscribe", "error", err)
		}
	}
	if t.conn != nil {
		t.conn.Close()
	}
	return nil
}

// Echo reports whether the server delivers this connection's own
// publishes back to it; false when WithNoEcho was set.
func (t *Transport) Echo() bool { return !t.opts.noEcho }

// optsFromConfig extracts options from transport.Config.Extra.
func optsFromConfig(cfg transport.Config) []Option {
	var opts []Option
	if cfg.Extra == nil {
		return opts
	}
	if v, ok := cfg.Extra["no_echo"].(bool); ok && v {
		opts = append(opts, WithNoEcho())
	}
	if name, ok := cfg.Extra["client_name"].(string); ok {
		opts = append(opts, WithNatsOptions(nats.Name(name)))
	}
	return opts
}
