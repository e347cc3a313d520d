package kafka

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/jpillora/backoff"
	"github.com/segmentio/kafka-go"

	"github.com/miladsoleymani/eventdispatch/core"
	"github.com/miladsoleymani/eventdispatch/transport"
)

func init() {
	transport.Register("kafka", func(cfg transport.Config) (core.Transport, error) {
		brokers := brokersFromURL(cfg.URL)
		if len(brokers) == 0 {
			return nil, fmt.Errorf("eventdispatch/kafka: at least one broker address is required")
		}
		return New(brokers, cfg.Namespace, cfg.Group, optsFromConfig(cfg)...)
	})
}

// Transport implements core.Transport for Apache Kafka using
// segmentio/kafka-go. This is a blocking adapter: the consume loop
// blocks in FetchMessage on a dedicated goroutine.
//
// Design decisions:
//   - The namespace is the topic; one writer shared by all publishes,
//     one reader for the consume loop.
//   - With a consumer group, offsets are committed on fetch, before
//     decode and dispatch (at-least-once, same stance as the AMQP
//     adapter). Without a group the reader starts at the last offset
//     and commits nothing.
//   - Fetch failures are logged and retried under exponential backoff;
//     only context cancellation or Close ends the loop.
//
// Self-echo: yes — a consumer on the topic reads every message
// including its own. Sharing a Group across instances changes this:
// each event then reaches only one member of the group.
type Transport struct {
	brokers   []string
	namespace string
	group     string
	opts      options
	logger    *slog.Logger

	mu     sync.Mutex
	writer *kafka.Writer
	reader *kafka.Reader
	closed bool
}

// New creates a Kafka Transport. No connection is made until Connect.
func New(brokers []string, namespace, group string, fns ...Option) (*Transport, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("eventdispatch/kafka: at least one broker address is required")
	}
	if namespace == "" {
		return nil, fmt.Errorf("eventdispatch/kafka: namespace is required")
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
		brokers:   brokers,
		namespace: namespace,
		group:     group,
		opts:      opts,
		logger:    logger.With("namespace", namespace),
	}, nil
}

// Connect verifies broker reachability and creates the writer and reader.
func (t *Transport) Connect(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return core.ErrTransportClosed
	}
	if t.writer != nil {
		return nil
	}

	conn, err := kafka.DialContext(ctx, "tcp", t.brokers[0])
	if err != nil {
		return fmt.Errorf("eventdispatch/kafka: dial %q: %w", t.brokers[0], err)
	}
	conn.Close()

	t.writer = &kafka.Writer{
		Addr:                   kafka.TCP(t.brokers...),
		BatchSize:              t.opts.batchSize,
		Async:                  t.opts.async,
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}

	cfg := kafka.ReaderConfig{
		Brokers:  t.brokers,
		Topic:    t.namespace,
		GroupID:  t.group,
		MinBytes: t.opts.minBytes,
		MaxBytes: t.opts.maxBytes,
		MaxWait:  t.opts.maxWait,
	}
	if t.group == "" {
		cfg.StartOffset = t.opts.startOffset
	}
	t.reader = kafka.NewReader(cfg)

	return nil
}

// Publish sends one frame to the topic named by namespace. Kafka does
// not report receiver counts; the int result is always 0.
func (t *Transport) Publish(ctx context.Context, namespace string, frame []byte) (int, error) {
	t.mu.Lock()
	w := t.writer
	closed := t.closed
	t.mu.Unlock()
	if closed {
		return 0, core.ErrTransportClosed
	}
	if w == nil {
		return 0, fmt.Errorf("eventdispatch/kafka: not connected")
	}

	if err := w.WriteMessages(ctx, kafka.Message{Topic: namespace, Value: frame}); err != nil {
		return 0, fmt.Errorf("eventdispatch/kafka: publish to %q: %w", namespace, err)
	}
	return 0, nil
}

// Receive fetches messages from the namespace topic and hands raw
// frames to deliver. Offsets are committed on fetch, before dispatch.
// Fetch failures are logged and retried under backoff.
func (t *Transport) Receive(ctx context.Context, deliver func(frame []byte)) error {
	t.mu.Lock()
	r := t.reader
	t.mu.Unlock()
	if r == nil {
		return fmt.Errorf("eventdispatch/kafka: not connected")
	}

	delay := &backoff.Backoff{
		Min:    500 * time.Millisecond,
		Max:    30 * time.Second,
		Jitter: true,
	}

	for {
		msg, err := r.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			t.mu.Lock()
			closed := t.closed
			t.mu.Unlock()
			if closed {
				return core.ErrTransportClosed
			}

			d := delay.Duration()
			t.logger.Error("fetch failed, retrying", "error", err, "retry_in", d)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(d):
			}
			continue
		}
		delay.Reset()

		if t.group != "" {
			if err := r.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
				t.logger.Error("commit failed", "error", err)
			}
		}
		deliver(msg.Value)
	}
}

// Close flushes the writer and closes the reader. Safe to call more
// than once.
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true

	var errs []error
	if t.writer != nil {
		if err := t.writer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("eventdispatch/kafka: close writer: %w", err))
		}
	}
	if t.reader != nil {
		if err := t.reader.Close(); err != nil {
			errs = append(errs, fmt.Errorf("eventdispatch/kafka: close reader: %w", err))
		}
	}
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

// Echo reports true: a consumer on the topic reads every message,
// including the instance's own publishes. See the type docs for the
// consumer-group caveat.
func (t *Transport) Echo() bool { return true }

// brokersFromURL splits a comma-separated broker list, stripping an
// optional kafka:// scheme.
func brokersFromURL(url string) []string {
	url = strings.TrimPrefix(url, "kafka://")
	if url == "" {
		return nil
	}
	parts := strings.Split(url, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// optsFromConfig extracts options from transport.Config.Extra.
func optsFromConfig(cfg transport.Config) []Option {
	var opts []Option
	if cfg.Extra == nil {
		return opts
	}
	if v, ok := cfg.Extra["async"].(bool); ok && v {
		opts = append(opts, WithAsync(true))
	}
	if v, ok := cfg.Extra["batch_size"].(int); ok {
		opts = append(opts, WithBatchSize(v))
	}
	if v, ok := cfg.Extra["max_bytes"].(int); ok {
		opts = append(opts, WithMaxBytes(v))
	}
	return opts
}
