package amqp

import (
	"testing"
	"time"

	"github.com/miladsoleymani/eventdispatch/transport"
)

func TestNew_RequiresNamespace(t *testing.T) {
	if _, err := New("amqp://localhost", ""); err == nil {
		t.Fatal("expected error for empty namespace")
	}
}

func TestNew_Defaults(t *testing.T) {
	tr, err := New("amqp://localhost", "orders")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if tr.opts.exchange != "dispatcher" {
		t.Errorf("exchange = %q, want %q", tr.opts.exchange, "dispatcher")
	}
	if tr.opts.exchangeDurable || tr.opts.queueDurable {
		t.Error("exchange and queue should be transient by default")
	}
	if !tr.opts.autoDelete {
		t.Error("queue should auto-delete by default")
	}
	if !tr.Echo() {
		t.Error("amqp transport receives its own publishes")
	}
}

func TestNew_Options(t *testing.T) {
	tr, err := New("amqp://localhost", "orders",
		WithExchange("events"),
		WithDurableExchange(true),
		WithQueueName("orders-worker"),
		WithExtraRoutingKeys("billing", "audit"),
		WithMessageTTL(30*time.Second),
	)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if tr.opts.exchange != "events" || !tr.opts.exchangeDurable {
		t.Errorf("exchange opts = %q/%v", tr.opts.exchange, tr.opts.exchangeDurable)
	}
	if tr.opts.queueName != "orders-worker" {
		t.Errorf("queue = %q", tr.opts.queueName)
	}
	if len(tr.opts.extraRoutingKeys) != 2 {
		t.Errorf("extra routing keys = %v", tr.opts.extraRoutingKeys)
	}
	if tr.opts.messageTTL != 30*time.Second {
		t.Errorf("ttl = %v", tr.opts.messageTTL)
	}
}

func TestOptsFromConfig_ExtraRoutingKeys(t *testing.T) {
	// A single string and a list are both accepted.
	for _, extra := range []any{"billing", []string{"billing"}} {
		cfg := transport.Config{
			URL:       "amqp://localhost",
			Namespace: "orders",
			Extra: map[string]any{
				"extra_routing_keys": extra,
				"exchange":           "events",
			},
		}
		tr, err := New(cfg.URL, cfg.Namespace, optsFromConfig(cfg)...)
		if err != nil {
			t.Fatalf("new: %v", err)
		}
		if len(tr.opts.extraRoutingKeys) != 1 || tr.opts.extraRoutingKeys[0] != "billing" {
			t.Errorf("extra routing keys = %v, want [billing]", tr.opts.extraRoutingKeys)
		}
		if tr.opts.exchange != "events" {
			t.Errorf("exchange = %q, want %q", tr.opts.exchange, "events")
		}
	}
}
