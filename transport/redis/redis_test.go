package redis

import (
	"testing"

	"github.com/redis/go-redis/v9"
)

func TestNew_ParsesURL(t *testing.T) {
	tr, err := New("redis://localhost:6379/2", "orders")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if tr.clientOpts.Addr != "localhost:6379" {
		t.Errorf("addr = %q", tr.clientOpts.Addr)
	}
	if tr.clientOpts.DB != 2 {
		t.Errorf("db = %d, want 2", tr.clientOpts.DB)
	}
	if !tr.Echo() {
		t.Error("redis transport receives its own publishes")
	}
}

func TestNew_MalformedURL(t *testing.T) {
	// A bad URL is a construction-time error, not a runtime one.
	if _, err := New("http://localhost:6379", "orders"); err == nil {
		t.Fatal("expected error for unsupported scheme")
	}
	if _, err := New("redis://localhost:6379/not-a-db", "orders"); err == nil {
		t.Fatal("expected error for malformed URL")
	}
}

func TestNew_RequiresNamespace(t *testing.T) {
	if _, err := New("redis://localhost:6379/0", ""); err == nil {
		t.Fatal("expected error for empty namespace")
	}
}

func TestNew_ClientOptionsPassThrough(t *testing.T) {
	tr, err := New("redis://localhost:6379/0", "orders",
		WithClientOptions(func(o *redis.Options) { o.PoolSize = 3 }),
	)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if tr.clientOpts.PoolSize != 3 {
		t.Errorf("pool size = %d, want 3", tr.clientOpts.PoolSize)
	}
}
