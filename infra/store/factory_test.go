package store_test

import (
	"path/filepath"
	"testing"

	"github.com/kilianp07/microgrid/core/export"
	"github.com/kilianp07/microgrid/core/factory"
	"github.com/kilianp07/microgrid/infra/store"
)

func TestStoreSinksRegistered(t *testing.T) {
	dir := t.TempDir()
	cfgs := []factory.ModuleConfig{
		{Type: "jsonl", Conf: map[string]any{"path": filepath.Join(dir, "steps.jsonl"), "max_size_mb": "2"}},
		{Type: "sqlite", Conf: map[string]any{"path": filepath.Join(dir, "runs.db")}},
		{Type: "csv", Conf: map[string]any{"dir": filepath.Join(dir, "csv")}},
	}
	s, err := export.NewSink(cfgs)
	if err != nil {
		t.Fatalf("new sink: %v", err)
	}
	m, ok := s.(*export.MultiSink)
	if !ok || len(m.Sinks) != 3 {
		t.Fatalf("expected MultiSink of 3, got %T", s)
	}
	if _, ok := m.Sinks[0].(*store.RotatingJSONLStore); !ok {
		t.Fatalf("expected jsonl store, got %T", m.Sinks[0])
	}
	if err := m.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
