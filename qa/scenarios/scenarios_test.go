package scenarios

import (
	"os"
	"path/filepath"
	"testing"
)

func TestScenario(t *testing.T) {
	files, err := filepath.Glob("*.yaml")
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(files) == 0 {
		t.Fatal("no scenario fixtures")
	}
	for _, f := range files {
		sc, err := Load(f)
		if err != nil {
			t.Fatalf("load %s: %v", f, err)
		}
		t.Run(sc.Name, func(t *testing.T) {
			RunScenario(t, sc)
		})
	}
}

func TestScenarioIsRepeatable(t *testing.T) {
	sc, err := Load("stable_battery.yaml")
	if err != nil {
		t.Fatal(err)
	}
	first := RunScenario(t, sc)
	second := RunScenario(t, sc)
	if !first.Ledger.Equal(second.Ledger) {
		t.Fatal("replaying a scenario changed its ledger")
	}
	if first.Summary.RunID == second.Summary.RunID {
		t.Fatal("expected a fresh run id per run")
	}
}

func TestBuildConfigDefaults(t *testing.T) {
	sc := &Scenario{Name: "named", Config: map[string]any{
		"horizon":  map[string]any{"start": "2024-06-01T00:00:00Z", "steps": 2},
		"load":     map[string]any{"values": []any{1, 2}},
		"dispatch": map[string]any{"mode": "off_grid"},
	}}
	cfg, err := sc.BuildConfig()
	if err != nil {
		t.Fatalf("build config: %v", err)
	}
	if cfg.Scenario != "named" || cfg.Dispatch.Mode != "off-grid" {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestLoadInvalid(t *testing.T) {
	if _, err := Load("no-file.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
	tmp, err := os.CreateTemp(t.TempDir(), "bad*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tmp.WriteString(":"); err != nil {
		t.Fatal(err)
	}
	if err := tmp.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(tmp.Name()); err == nil {
		t.Fatal("expected unmarshal error")
	}
}
