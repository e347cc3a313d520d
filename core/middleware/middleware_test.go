package middleware_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/miladsoleymani/eventdispatch/core"
	"github.com/miladsoleymani/eventdispatch/core/middleware"
)

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	handler := middleware.Logging(logger)(func(ctx context.Context, e core.Event) error {
		return nil
	})

	e := core.Event{Name: "orders.created", Payload: "val"}
	if err := handler(context.Background(), e); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(buf.String(), "level=INFO") {
		t.Errorf("expected INFO log, got: %s", buf.String())
	}
	if !strings.Contains(buf.String(), "orders.created") {
		t.Errorf("expected event name in log, got: %s", buf.String())
	}
}

func TestLogging_Error(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	handler := middleware.Logging(logger)(func(ctx context.Context, e core.Event) error {
		return errors.New("boom")
	})

	handler(context.Background(), core.Event{Name: "x"})

	if !strings.Contains(buf.String(), "level=ERROR") {
		t.Errorf("expected ERROR log, got: %s", buf.String())
	}
	if !strings.Contains(buf.String(), "boom") {
		t.Errorf("expected error message in log, got: %s", buf.String())
	}
}

func TestRecovery(t *testing.T) {
	handler := middleware.Recovery()(func(ctx context.Context, e core.Event) error {
		panic("test panic")
	})

	err := handler(context.Background(), core.Event{Name: "x"})
	if err == nil {
		t.Fatal("expected error from recovered panic")
	}
	if !strings.Contains(err.Error(), "panic recovered") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestRecovery_NoPanic(t *testing.T) {
	handler := middleware.Recovery()(func(ctx context.Context, e core.Event) error {
		return nil
	})

	if err := handler(context.Background(), core.Event{Name: "x"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

type recordingCollector struct {
	name     string
	duration time.Duration
	err      error
	calls    int
}

func (c *recordingCollector) EventHandled(name string, d time.Duration, err error) {
	c.name = name
	c.duration = d
	c.err = err
	c.calls++
}

func TestMetrics(t *testing.T) {
	col := &recordingCollector{}

	handler := middleware.Metrics(col)(func(ctx context.Context, e core.Event) error {
		return errors.New("nope")
	})

	handler(context.Background(), core.Event{Name: "payments.failed"})

	if col.calls != 1 {
		t.Fatalf("expected 1 collector call, got %d", col.calls)
	}
	if col.name != "payments.failed" {
		t.Errorf("collector name = %q, want %q", col.name, "payments.failed")
	}
	if col.err == nil {
		t.Error("collector should record the handler error")
	}
}
