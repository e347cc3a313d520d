package transport

// Config holds transport-agnostic configuration.
// Adapters extract the fields they need.
type Config struct {
	// URL is the broker connection URL; the scheme is backend-specific
	// (amqp://, redis://, nats://, kafka://).
	URL string

	// Namespace is the logical channel the transport subscribes to.
	Namespace string

	// Group is the consumer group ID, for backends that have one.
	Group string

	// Extra holds backend-specific configuration, passed through
	// verbatim to the adapter.
	Extra map[string]any
}

// ExtraStrings reads an Extra entry that may be a single string or a
// list of strings, the shape accepted for routing-key style options.
func (c Config) ExtraStrings(key string) []string {
	v, ok := c.Extra[key]
	if !ok {
		return nil
	}
	switch s := v.(type) {
	case string:
		return []string{s}
	case []string:
		return s
	case []any:
		out := make([]string, 0, len(s))
		for _, e := range s {
			if str, ok := e.(string); ok {
				out = append(out, str)
			}
		}
		return out
	}
	return nil
}
