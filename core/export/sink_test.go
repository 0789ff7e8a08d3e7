package export

import (
	"context"
	"errors"
	"testing"

	"github.com/kilianp07/microgrid/core/events"
	"github.com/kilianp07/microgrid/core/factory"
)

type recordSink struct {
	count  int
	closed bool
	err    error
}

func (r *recordSink) Export(context.Context, *Run) error {
	r.count++
	return r.err
}

func (r *recordSink) Close() error {
	r.closed = true
	return nil
}

func TestMultiSink(t *testing.T) {
	s1 := &recordSink{err: errors.New("boom")}
	s2 := &recordSink{}
	m := NewMultiSink(s1, s2, NopSink{})
	err := m.Export(context.Background(), &Run{})
	if err == nil || err.Error() != "boom" {
		t.Fatalf("expected joined error, got %v", err)
	}
	if s1.count != 1 || s2.count != 1 {
		t.Fatalf("run not forwarded to every sink")
	}
	if err := m.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !s1.closed || !s2.closed {
		t.Fatalf("sinks not closed")
	}
}

func TestNewSink(t *testing.T) {
	if err := RegisterSink("test-record", func(map[string]any) (ResultSink, error) {
		return &recordSink{}, nil
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := RegisterSink("test-record", func(map[string]any) (ResultSink, error) { return nil, nil }); err == nil {
		t.Fatal("expected duplicate registration error")
	}

	s, err := NewSink(nil)
	if err != nil {
		t.Fatalf("default: %v", err)
	}
	if _, ok := s.(NopSink); !ok {
		t.Fatalf("expected NopSink, got %T", s)
	}

	s, err = NewSink([]factory.ModuleConfig{{Type: "test-record"}})
	if err != nil {
		t.Fatalf("single: %v", err)
	}
	if _, ok := s.(*recordSink); !ok {
		t.Fatalf("expected recordSink, got %T", s)
	}

	s, err = NewSink([]factory.ModuleConfig{{Type: "test-record"}, {Type: "test-record"}})
	if err != nil {
		t.Fatalf("multi: %v", err)
	}
	m, ok := s.(*MultiSink)
	if !ok || len(m.Sinks) != 2 {
		t.Fatalf("expected MultiSink with 2 sinks, got %T", s)
	}

	if _, err := NewSink([]factory.ModuleConfig{{Type: "test-record"}, {Type: "missing"}}); err == nil {
		t.Fatal("expected error for unknown type")
	}

	found := false
	for _, n := range SinkTypes() {
		if n == "test-record" {
			found = true
		}
	}
	if !found {
		t.Fatalf("test-record missing from %v", SinkTypes())
	}
}

type eventSink struct {
	recordSink
	unmet, replaced int
}

func (e *eventSink) RecordUnmet(events.UnmetDemandEvent) error {
	e.unmet++
	return nil
}

func (e *eventSink) RecordReplacement(events.ReplacementEvent) error {
	e.replaced++
	return nil
}

func TestMultiSink_ForwardsEvents(t *testing.T) {
	rec := &eventSink{}
	m := NewMultiSink(&recordSink{}, rec, NopSink{})
	if err := m.RecordUnmet(events.UnmetDemandEvent{Step: 1}); err != nil {
		t.Fatalf("unmet: %v", err)
	}
	if err := m.RecordReplacement(events.ReplacementEvent{Component: "fc"}); err != nil {
		t.Fatalf("replacement: %v", err)
	}
	if rec.unmet != 1 || rec.replaced != 1 {
		t.Fatalf("events not forwarded: %+v", rec)
	}
}
