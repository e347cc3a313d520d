package nats

import (
	"log/slog"

	"github.com/nats-io/nats.go"
)

// Option configures the NATS transport.
type Option func(*options)

type options struct {
	natsOpts []nats.Option
	noEcho   bool
	logger   *slog.Logger
}

func defaults() options {
	return options{}
}

// WithNatsOptions passes connection options through to the NATS client
// (credentials, TLS, reconnect tuning).
func WithNatsOptions(opts ...nats.Option) Option {
	return func(o *options) { o.natsOpts = append(o.natsOpts, opts...) }
}

// WithNoEcho asks the server not to deliver this connection's own
// publishes back to it. Echo() reports the resulting capability.
func WithNoEcho() Option {
	return func(o *options) { o.noEcho = true }
}

// WithLogger sets the logger used for subscription records.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}
