package logging

import (
	"context"
	"sync"
	"testing"
	"time"
)

type captureSink struct {
	mu     sync.Mutex
	events []Event
	closed bool
}

func (s *captureSink) Write(event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *captureSink) Close(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *captureSink) snapshot() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

func fixedClock(t time.Time) Clock {
	return ClockFunc(func() time.Time { return t })
}

func TestRouter_DeliversToEverySink(t *testing.T) {
	first := &captureSink{}
	second := &captureSink{}
	router := NewRouter(SystemClock{}, DefaultConfig(), []NamedSink{
		{Name: "first", Sink: first},
		{Name: "second", Sink: second},
	})

	router.Publish(context.Background(), Event{Type: "moved", Tick: 1, Severity: SeverityInfo})
	if err := router.Close(context.Background()); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	for _, sink := range []*captureSink{first, second} {
		events := sink.snapshot()
		if len(events) != 1 {
			t.Fatalf("expected one delivered event, got %d", len(events))
		}
		if events[0].Type != "moved" || events[0].Tick != 1 {
			t.Fatalf("unexpected event: %+v", events[0])
		}
		if !sink.closed {
			t.Fatalf("expected Close to propagate to sinks")
		}
	}
}

func TestRouter_FiltersBelowMinimumSeverity(t *testing.T) {
	sink := &captureSink{}
	cfg := DefaultConfig()
	cfg.MinimumSeverity = SeverityWarn
	router := NewRouter(SystemClock{}, cfg, []NamedSink{{Name: "capture", Sink: sink}})

	router.Publish(context.Background(), Event{Type: "noise", Severity: SeverityInfo})
	router.Publish(context.Background(), Event{Type: "signal", Severity: SeverityError})
	if err := router.Close(context.Background()); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	events := sink.snapshot()
	if len(events) != 1 {
		t.Fatalf("expected only the error event, got %d", len(events))
	}
	if events[0].Type != "signal" {
		t.Fatalf("expected signal, got %q", events[0].Type)
	}
}

func TestRouter_StampsTimeAndStaticFields(t *testing.T) {
	sink := &captureSink{}
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cfg := DefaultConfig()
	cfg.Fields = map[string]any{"host": "test", "tick": "never-overwrites"}
	router := NewRouter(fixedClock(now), cfg, []NamedSink{{Name: "capture", Sink: sink}})

	router.Publish(context.Background(), Event{
		Type:     "moved",
		Severity: SeverityInfo,
		Extra:    map[string]any{"tick": "original"},
	})
	if err := router.Close(context.Background()); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	events := sink.snapshot()
	if len(events) != 1 {
		t.Fatalf("expected one event, got %d", len(events))
	}
	event := events[0]
	if !event.Time.Equal(now) {
		t.Fatalf("expected clock time %v, got %v", now, event.Time)
	}
	if event.Extra["host"] != "test" {
		t.Fatalf("expected static field merged, got %+v", event.Extra)
	}
	if event.Extra["tick"] != "original" {
		t.Fatalf("expected existing field preserved, got %+v", event.Extra)
	}
}

func TestRouter_IgnoresUntypedEvents(t *testing.T) {
	sink := &captureSink{}
	router := NewRouter(SystemClock{}, DefaultConfig(), []NamedSink{{Name: "capture", Sink: sink}})

	router.Publish(context.Background(), Event{Severity: SeverityInfo})
	if err := router.Close(context.Background()); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	if got := len(sink.snapshot()); got != 0 {
		t.Fatalf("expected no delivered events, got %d", got)
	}
}

func TestRouter_PublishAfterCloseIsNoop(t *testing.T) {
	sink := &captureSink{}
	router := NewRouter(SystemClock{}, DefaultConfig(), []NamedSink{{Name: "capture", Sink: sink}})
	if err := router.Close(context.Background()); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	router.Publish(context.Background(), Event{Type: "late", Severity: SeverityInfo})
	if got := len(sink.snapshot()); got != 0 {
		t.Fatalf("expected post-close publish dropped, got %d events", got)
	}
}

func TestRouter_StatsCountDeliveredEvents(t *testing.T) {
	sink := &captureSink{}
	router := NewRouter(SystemClock{}, DefaultConfig(), []NamedSink{{Name: "capture", Sink: sink}})

	for i := 0; i < 5; i++ {
		router.Publish(context.Background(), Event{Type: "moved", Severity: SeverityInfo})
	}
	if err := router.Close(context.Background()); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	stats := router.Stats()
	if stats.EventsTotal != 5 {
		t.Fatalf("expected 5 events counted, got %d", stats.EventsTotal)
	}
	if stats.DroppedTotal != 0 {
		t.Fatalf("expected no drops, got %d", stats.DroppedTotal)
	}
}

func TestRouter_SinkLookupByName(t *testing.T) {
	sink := &captureSink{}
	router := NewRouter(SystemClock{}, DefaultConfig(), []NamedSink{{Name: "capture", Sink: sink}})
	defer router.Close(context.Background())

	if got := router.Sink("capture"); got != sink {
		t.Fatalf("expected the registered sink back, got %v", got)
	}
	if got := router.Sink("absent"); got != nil {
		t.Fatalf("expected nil for unknown sink, got %v", got)
	}
}

func TestWithFields_DecoratesWithoutOverwriting(t *testing.T) {
	var captured []Event
	base := PublisherFunc(func(_ context.Context, event Event) {
		captured = append(captured, event)
	})
	pub := WithFields(base, map[string]any{"env": "test", "kept": "decorated"})

	pub.Publish(context.Background(), Event{
		Type:  "moved",
		Extra: map[string]any{"kept": "original"},
	})

	if len(captured) != 1 {
		t.Fatalf("expected one event, got %d", len(captured))
	}
	extra := captured[0].Extra
	if extra["env"] != "test" {
		t.Fatalf("expected decorated field, got %+v", extra)
	}
	if extra["kept"] != "original" {
		t.Fatalf("expected original field preserved, got %+v", extra)
	}
}

func TestWithFields_NilPublisherBecomesNop(t *testing.T) {
	pub := WithFields(nil, map[string]any{"env": "test"})
	// Must not panic.
	pub.Publish(context.Background(), Event{Type: "moved"})
}
