package factory

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

type sample struct {
	A     int
	Every time.Duration
}

type sampleConf struct {
	A     int           `json:"a"`
	Every time.Duration `json:"every"`
}

func sampleFactory(conf map[string]any) (*sample, error) {
	var c sampleConf
	if err := Decode(conf, &c); err != nil {
		return nil, err
	}
	return &sample{A: c.A, Every: c.Every}, nil
}

// Test registry registration and instantiation using Decode.
func TestRegistry_Create(t *testing.T) {
	reg := NewRegistry[*sample]()
	if err := reg.Register("s", sampleFactory); err != nil {
		t.Fatalf("register: %v", err)
	}
	inst, err := reg.Create(ModuleConfig{Type: "s", Conf: map[string]any{"a": "3", "every": "2s"}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if inst.A != 3 || inst.Every != 2*time.Second {
		t.Fatalf("unexpected instance %+v", inst)
	}
}

// Test duplicate registration and unknown type errors.
func TestRegistry_Errors(t *testing.T) {
	reg := NewRegistry[int]()
	if err := reg.Register("x", func(map[string]any) (int, error) { return 1, nil }); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.Register("x", nil); err == nil {
		t.Fatal("expected nil factory error")
	}
	if err := reg.Register("x", func(map[string]any) (int, error) { return 2, nil }); err == nil {
		t.Fatal("expected duplicate error")
	}
	if err := reg.Register("", func(map[string]any) (int, error) { return 2, nil }); err == nil {
		t.Fatal("expected empty name error")
	}
	if _, err := reg.Create(ModuleConfig{Type: "y"}); !errors.Is(err, ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
	if err := reg.Register("fail", func(map[string]any) (int, error) { return 0, errors.New("bad conf") }); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := reg.Create(ModuleConfig{Type: "fail"}); err == nil || err.Error() != "fail: bad conf" {
		t.Fatalf("expected wrapped factory error, got %v", err)
	}
}

func TestRegistry_Names(t *testing.T) {
	reg := NewRegistry[int]()
	for _, n := range []string{"sqlite", "csv", "nop"} {
		if err := reg.Register(n, func(map[string]any) (int, error) { return 0, nil }); err != nil {
			t.Fatalf("register %s: %v", n, err)
		}
	}
	if got := reg.Names(); !reflect.DeepEqual(got, []string{"csv", "nop", "sqlite"}) {
		t.Fatalf("unexpected names %v", got)
	}
}
