package core

import (
	"context"
	"testing"
)

func TestRegistry_Order(t *testing.T) {
	r := newRegistry()

	var order []int
	for i := 0; i < 5; i++ {
		i := i
		r.add("created", func(ctx context.Context, e Event) error {
			order = append(order, i)
			return nil
		})
	}

	hs := r.get("created")
	if len(hs) != 5 {
		t.Fatalf("expected 5 handlers, got %d", len(hs))
	}
	for _, h := range hs {
		h(context.Background(), Event{Name: "created"})
	}
	for i, v := range order {
		if v != i {
			t.Fatalf("invocation order %v, want ascending", order)
		}
	}
}

func TestRegistry_DuplicateHandler(t *testing.T) {
	r := newRegistry()

	calls := 0
	h := func(ctx context.Context, e Event) error {
		calls++
		return nil
	}
	r.add("created", h)
	r.add("created", h)

	for _, h := range r.get("created") {
		h(context.Background(), Event{Name: "created"})
	}
	if calls != 2 {
		t.Errorf("duplicate registration should mean two invocations, got %d", calls)
	}
}

func TestRegistry_Remove(t *testing.T) {
	r := newRegistry()
	r.add("created", func(ctx context.Context, e Event) error { return nil })
	r.add("deleted", func(ctx context.Context, e Event) error { return nil })

	r.remove("created")

	if got := r.get("created"); got != nil {
		t.Errorf("expected no handlers after remove, got %d", len(got))
	}
	if got := r.get("deleted"); len(got) != 1 {
		t.Errorf("remove should not touch other events, got %d handlers", len(got))
	}
}

func TestRegistry_SnapshotIsolation(t *testing.T) {
	r := newRegistry()
	r.add("created", func(ctx context.Context, e Event) error { return nil })

	snap := r.get("created")
	r.add("created", func(ctx context.Context, e Event) error { return nil })

	if len(snap) != 1 {
		t.Errorf("snapshot should not observe later registrations, got %d", len(snap))
	}
}
