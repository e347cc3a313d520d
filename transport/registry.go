// Package transport holds the named factory registry and broker-agnostic
// configuration for Transport adapters. Adapters self-register from
// init(), so importing an adapter package for side effects is enough to
// make it creatable by name:
//
//	import _ "github.com/miladsoleymani/eventdispatch/transport/redis"
//
//	tr, err := transport.Create("redis", transport.Config{
//	    URL:       "redis://localhost:6379/0",
//	    Namespace: "orders",
//	})
package transport

import (
	"fmt"
	"sync"

	"github.com/miladsoleymani/eventdispatch/core"
)

// Factory creates a Transport from the given Config.
type Factory func(cfg Config) (core.Transport, error)

var (
	mu        sync.RWMutex
	factories = make(map[string]Factory)
)

// Register adds a named transport factory. Adapters call this from init().
func Register(name string, factory Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[name] = factory
}

// Create instantiates a transport by name using the registered factory.
func Create(name string, cfg Config) (core.Transport, error) {
	mu.RLock()
	f, ok := factories[name]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("eventdispatch: unknown transport %q", name)
	}
	return f(cfg)
}
