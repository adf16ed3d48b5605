package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("loading embedded defaults: %v", err)
	}

	if cfg.Map.Radius < 1 {
		t.Errorf("default map radius %d is unusable", cfg.Map.Radius)
	}
	r := cfg.Map.Radius
	if want := 1 + 3*r*(r+1); cfg.Derived.ArenaTiles != want {
		t.Errorf("ArenaTiles = %d, want %d", cfg.Derived.ArenaTiles, want)
	}
	if len(cfg.Items) == 0 || len(cfg.Units) == 0 {
		t.Fatal("defaults must define items and units")
	}
	if _, ok := cfg.Derived.ItemIndex[cfg.Units[0].DietItem]; !ok {
		t.Errorf("unit diet item %q not in item index", cfg.Units[0].DietItem)
	}
}

func TestLoadMergesUserFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "override.yaml")
	if err := os.WriteFile(path, []byte("map:\n  radius: 5\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("loading merged config: %v", err)
	}
	if cfg.Map.Radius != 5 {
		t.Errorf("radius = %d, want 5 from user file", cfg.Map.Radius)
	}
	// Fields absent from the user file keep their defaults.
	if cfg.Actions.MoveTicks < 1 {
		t.Errorf("move_ticks lost its default: %d", cfg.Actions.MoveTicks)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"zero radius", "map:\n  radius: 0\n"},
		{"diffusion above one", "signals:\n  push:\n    diffusion_factor: 1.5\n"},
		{"negative decay", "signals:\n  pull:\n    decay_factor: -0.1\n"},
		{"zero move ticks", "actions:\n  move_ticks: 0\n"},
		{"unknown diet item", "units:\n  - name: ant\n    diet_item: nope\n    max_energy: 100\n    hunger_threshold: 0.3\n    max_impatience: 10\n    mean_free_wander_period: 16\n"},
	}

	for _, tc := range cases {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		if err := os.WriteFile(path, []byte(tc.yaml), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(path); err == nil {
			t.Errorf("%s: Load accepted invalid config", tc.name)
		}
	}
}

func TestByClassOrder(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}

	blocks := []*SignalClassConfig{
		&cfg.Signals.Push, &cfg.Signals.Pull, &cfg.Signals.Work, &cfg.Signals.Demolish,
		&cfg.Signals.Contains, &cfg.Signals.Stores, &cfg.Signals.Unit,
	}
	for i, want := range blocks {
		if got := cfg.Signals.ByClass(uint8(i)); got != want {
			t.Errorf("ByClass(%d) returned wrong block", i)
		}
	}
	if cfg.Signals.ByClass(200) != nil {
		t.Error("ByClass out of range should be nil")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	back, err := Load(path)
	if err != nil {
		t.Fatalf("re-reading written config: %v", err)
	}
	if back.Map.Radius != cfg.Map.Radius {
		t.Errorf("radius changed across round trip: %d vs %d", back.Map.Radius, cfg.Map.Radius)
	}
}
