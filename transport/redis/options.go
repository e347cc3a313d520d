package redis

import (
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// Option configures the Redis transport.
type Option func(*options)

type options struct {
	// clientOpts mutate the parsed URL options before the client is
	// created; pass-through for anything go-redis supports.
	clientOpts []func(*redis.Options)

	logger *slog.Logger
}

func defaults() options {
	return options{}
}

// WithClientOptions applies fn to the client options parsed from the
// URL, letting callers tune anything go-redis exposes (pool size,
// timeouts, credentials).
func WithClientOptions(fn func(*redis.Options)) Option {
	return func(o *options) { o.clientOpts = append(o.clientOpts, fn) }
}

// WithLogger sets the logger used for subscription records.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}
