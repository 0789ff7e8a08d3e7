package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestRotatingJSONLStore_Rotation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "steps.jsonl")
	store, err := NewRotatingJSONLStore(path, 1, 2, 1, false)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	defer func() { _ = store.Close() }()
	run := testRun(t, "r1")
	for i := 0; i < 100; i++ {
		if err := store.Export(context.Background(), run); err != nil {
			t.Fatalf("export: %v", err)
		}
	}
	files, _ := filepath.Glob(path + "*")
	if len(files) == 0 {
		t.Fatalf("expected log files")
	}
}

func TestRotatingJSONLStore_Query(t *testing.T) {
	dir := t.TempDir()
	store, err := NewRotatingJSONLStore(filepath.Join(dir, "steps.jsonl"), 1, 2, 1, false)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	defer func() { _ = store.Close() }()
	ctx := context.Background()
	if err := store.Export(ctx, testRun(t, "r1")); err != nil {
		t.Fatalf("export: %v", err)
	}
	if err := store.Export(ctx, testRun(t, "r2")); err != nil {
		t.Fatalf("export: %v", err)
	}
	out, err := store.Query(ctx, StepQuery{RunID: "r2"})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 records, got %d", len(out))
	}
	if out[2].Values["grid"] != 7 || out[2].Scenario != "test" {
		t.Fatalf("unexpected record %+v", out[2])
	}
	out, err = store.Query(ctx, StepQuery{Start: t0.Add(time.Hour)})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected last step of both runs, got %d", len(out))
	}
}
