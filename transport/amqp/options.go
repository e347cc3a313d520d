package amqp

import (
	"log/slog"
	"time"
)

// Option configures the AMQP transport.
type Option func(*options)

type options struct {
	// Exchange settings
	exchange        string
	exchangeDurable bool

	// Queue settings
	queueName        string // defaults to the namespace
	queueDurable     bool
	autoDelete       bool
	extraRoutingKeys []string

	// Publish settings
	messageTTL time.Duration

	logger *slog.Logger
}

func defaults() options {
	return options{
		exchange:   "dispatcher",
		autoDelete: true,
	}
}

// WithExchange sets the shared exchange name. All dispatcher instances
// that should reach each other must publish through the same exchange.
func WithExchange(name string) Option {
	return func(o *options) { o.exchange = name }
}

// WithDurableExchange controls whether the exchange survives broker restart.
func WithDurableExchange(d bool) Option {
	return func(o *options) { o.exchangeDurable = d }
}

// WithQueueName overrides the subscriber queue name. The queue is still
// bound to the transport's namespace in addition to its own name.
func WithQueueName(name string) Option {
	return func(o *options) { o.queueName = name }
}

// WithDurableQueue controls whether the queue survives broker restart.
func WithDurableQueue(d bool) Option {
	return func(o *options) { o.queueDurable = d }
}

// WithAutoDelete causes the queue to be deleted when the last consumer
// disconnects. On by default; dispatcher queues are transient.
func WithAutoDelete(d bool) Option {
	return func(o *options) { o.autoDelete = d }
}

// WithExtraRoutingKeys binds the queue to additional routing keys, so
// one transport hears several logical namespaces through one queue.
func WithExtraRoutingKeys(keys ...string) Option {
	return func(o *options) { o.extraRoutingKeys = append(o.extraRoutingKeys, keys...) }
}

// WithMessageTTL sets a broker-side expiration on published messages.
func WithMessageTTL(ttl time.Duration) Option {
	return func(o *options) { o.messageTTL = ttl }
}

// WithLogger sets the logger used for reconnect and read-failure records.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}
