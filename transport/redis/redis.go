package redis

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/miladsoleymani/eventdispatch/core"
	"github.com/miladsoleymani/eventdispatch/transport"
)

func init() {
	transport.Register("redis", func(cfg transport.Config) (core.Transport, error) {
		if cfg.URL == "" {
			return nil, fmt.Errorf("eventdispatch/redis: broker URL is required")
		}
		return New(cfg.URL, cfg.Namespace, optsFromConfig(cfg)...)
	})
}

// Transport implements core.Transport for Redis pub/sub using
// go-redis/v9. This is the suspension-based adapter: the consume loop
// selects on the subscription's Go channel and never blocks other
// goroutines.
//
// Design decisions:
//   - Exactly one channel, named after the namespace; no routing-key
//     fan-out, no queue durability. Events published while no one is
//     subscribed are lost (non-goal: persistence of missed events).
//   - Publish returns the live subscriber count reported by Redis;
//     0 is a legal, non-error result meaning no one is listening.
//   - Reconnect after a dropped subscription is delegated to go-redis's
//     built-in reconnect; this adapter only logs and keeps consuming.
//
// Self-echo: yes. Redis delivers a published message to every
// subscriber of the channel, including the publisher's own
// subscription.
type Transport struct {
	namespace  string
	clientOpts *redis.Options
	logger     *slog.Logger

	mu     sync.Mutex
	client *redis.Client
	pubsub *redis.PubSub
	closed bool
}

// New creates a Redis Transport from a redis:// URL. A malformed URL or
// unsupported scheme is a construction-time error; no connection is
// made until Connect.
func New(url, namespace string, fns ...Option) (*Transport, error) {
	if namespace == "" {
		return nil, fmt.Errorf("eventdispatch/redis: namespace is required")
	}
	clientOpts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("eventdispatch/redis: parse url %q: %w", url, err)
	}

	opts := defaults()
	for _, fn := range fns {
		fn(&opts)
	}
	for _, mutate := range opts.clientOpts {
		mutate(clientOpts)
	}

	logger := opts.logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Transport{
		namespace:  namespace,
		clientOpts: clientOpts,
		logger:     logger.With("namespace", namespace),
	}, nil
}

// Connect creates the client, verifies liveness with PING, and opens
// the subscription handle for the namespace channel.
func (t *Transport) Connect(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return core.ErrTransportClosed
	}
	if t.client != nil {
		return nil
	}

	client := redis.NewClient(t.clientOpts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return fmt.Errorf("eventdispatch/redis: ping %q: %w", t.clientOpts.Addr, err)
	}

	t.client = client
	t.pubsub = client.Subscribe(ctx, t.namespace)
	return nil
}

// Publish sends one frame to the channel named by namespace and returns
// the number of live subscribers that received it.
func (t *Transport) Publish(ctx context.Context, namespace string, frame []byte) (int, error) {
	t.mu.Lock()
	client := t.client
	closed := t.closed
	t.mu.Unlock()
	if closed {
		return 0, core.ErrTransportClosed
	}
	if client == nil {
		return 0, fmt.Errorf("eventdispatch/redis: not connected")
	}

	n, err := client.Publish(ctx, namespace, frame).Result()
	if err != nil {
		return 0, fmt.Errorf("eventdispatch/redis: publish to %q: %w", namespace, err)
	}
	return int(n), nil
}

// Receive consumes the subscription channel, handing each message's
// payload to deliver. It suspends on the channel and on ctx; dropped
// connections are re-established by the client library.
func (t *Transport) Receive(ctx context.Context, deliver func(frame []byte)) error {
	t.mu.Lock()
	pubsub := t.pubsub
	t.mu.Unlock()
	if pubsub == nil {
		return fmt.Errorf("eventdispatch/redis: not connected")
	}

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				t.mu.Lock()
				closed := t.closed
				t.mu.Unlock()
				if closed {
					return core.ErrTransportClosed
				}
				return fmt.Errorf("eventdispatch/redis: subscription channel closed")
			}
			deliver([]byte(msg.Payload))
		}
	}
}

// Close unsubscribes and closes the client. Safe to call more than once.
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true

	if t.pubsub != nil {
		if err := t.pubsub.Close(); err != nil {
			t.logger.Error("close subscription", "error", err)
		}
	}
	if t.client != nil {
		if err := t.client.Close(); err != nil {
			return fmt.Errorf("eventdispatch/redis: close client: %w", err)
		}
	}
	return nil
}

// Echo reports true: Redis delivers publishes to every subscriber of
// the channel, including the publisher's own subscription.
func (t *Transport) Echo() bool { return true }

// optsFromConfig extracts options from transport.Config.Extra.
func optsFromConfig(cfg transport.Config) []Option {
	var opts []Option
	if cfg.Extra == nil {
		return opts
	}
	if db, ok := cfg.Extra["db"].(int); ok {
		opts = append(opts, WithClientOptions(func(o *redis.Options) { o.DB = db }))
	}
	if pw, ok := cfg.Extra["password"].(string); ok {
		opts = append(opts, WithClientOptions(func(o *redis.Options) { o.Password = pw }))
	}
	if n, ok := cfg.Extra["pool_size"].(int); ok {
		opts = append(opts, WithClientOptions(func(o *redis.Options) { o.PoolSize = n }))
	}
	return opts
}
