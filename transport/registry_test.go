package transport_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/miladsoleymani/eventdispatch/core"
	"github.com/miladsoleymani/eventdispatch/internal/mock"
	"github.com/miladsoleymani/eventdispatch/transport"
)

func TestRegistry_CreateUnknown(t *testing.T) {
	_, err := transport.Create("carrier-pigeon", transport.Config{})
	if err == nil {
		t.Fatal("expected error for unknown transport")
	}
	if !strings.Contains(err.Error(), "carrier-pigeon") {
		t.Errorf("error should name the transport: %v", err)
	}
}

func TestRegistry_RegisterAndCreate(t *testing.T) {
	var gotCfg transport.Config
	transport.Register("test-mem", func(cfg transport.Config) (core.Transport, error) {
		gotCfg = cfg
		return mock.NewTransport(cfg.Namespace), nil
	})

	tr, err := transport.Create("test-mem", transport.Config{
		URL:       "mem://",
		Namespace: "orders",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if tr == nil {
		t.Fatal("expected a transport")
	}
	if gotCfg.Namespace != "orders" {
		t.Errorf("factory config namespace = %q, want %q", gotCfg.Namespace, "orders")
	}
}

func TestRegistry_FactoryError(t *testing.T) {
	boom := errors.New("bad config")
	transport.Register("test-err", func(cfg transport.Config) (core.Transport, error) {
		return nil, boom
	})

	_, err := transport.Create("test-err", transport.Config{})
	if !errors.Is(err, boom) {
		t.Errorf("expected factory error, got %v", err)
	}
}

func TestConfig_ExtraStrings(t *testing.T) {
	cfg := transport.Config{Extra: map[string]any{
		"single": "a",
		"list":   []string{"a", "b"},
		"anys":   []any{"a", "b", 3},
	}}

	if got := cfg.ExtraStrings("single"); len(got) != 1 || got[0] != "a" {
		t.Errorf("single = %v", got)
	}
	if got := cfg.ExtraStrings("list"); len(got) != 2 {
		t.Errorf("list = %v", got)
	}
	// Non-string elements are skipped, not an error.
	if got := cfg.ExtraStrings("anys"); len(got) != 2 {
		t.Errorf("anys = %v", got)
	}
	if got := cfg.ExtraStrings("missing"); got != nil {
		t.Errorf("missing = %v, want nil", got)
	}
}
