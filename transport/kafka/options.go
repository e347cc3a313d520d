package kafka

import (
	"log/slog"
	"time"
)

// Option configures the Kafka transport.
type Option func(*options)

type options struct {
	// Reader settings
	minBytes    int
	maxBytes    int
	maxWait     time.Duration
	startOffset int64

	// Writer settings
	batchSize int
	async     bool

	logger *slog.Logger
}

func defaults() options {
	return options{
		minBytes:    1,
		maxBytes:    10e6,
		maxWait:     500 * time.Millisecond,
		startOffset: -1, // LastOffset: only events published after subscribing
		batchSize:   1,
	}
}

// WithMaxBytes sets the maximum batch size fetched per read.
func WithMaxBytes(n int) Option {
	return func(o *options) { o.maxBytes = n }
}

// WithMaxWait sets how long a fetch waits for data before returning.
func WithMaxWait(d time.Duration) Option {
	return func(o *options) { o.maxWait = d }
}

// WithBatchSize sets how many messages the writer batches per produce.
func WithBatchSize(n int) Option {
	return func(o *options) { o.batchSize = n }
}

// WithAsync makes publishes fire-and-forget: WriteMessages returns
// before the broker acknowledges.
func WithAsync(async bool) Option {
	return func(o *options) { o.async = async }
}

// WithLogger sets the logger used for fetch-failure records.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}
