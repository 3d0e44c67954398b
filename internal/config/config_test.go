package config

import (
	"path/filepath"
	"testing"

	"github.com/san-kum/grinprobe/internal/field"
	"github.com/san-kum/grinprobe/internal/grin"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Medium.Kind != "luneberg" {
		t.Errorf("expected kind luneberg, got %s", cfg.Medium.Kind)
	}
	if cfg.Scan.Steps <= 0 {
		t.Error("steps should be positive")
	}
	if cfg.Grid.N < 2 {
		t.Error("grid should have at least 2 points per side")
	}
	if cfg.Check.Step <= 0 {
		t.Error("check step should be positive")
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "probe.yaml")
	cfg := DefaultConfig()
	cfg.Medium.C1 = 0.3
	cfg.Grid.Plane = "xz"
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Medium.C1 != 0.3 {
		t.Errorf("expected c1 0.3, got %f", loaded.Medium.C1)
	}
	if loaded.Medium.C2 != DefaultC2 {
		t.Errorf("expected default c2 to survive, got %f", loaded.Medium.C2)
	}

	spec, err := loaded.Grid.Spec()
	if err != nil {
		t.Fatalf("grid spec failed: %v", err)
	}
	if spec.Plane != field.PlaneXZ {
		t.Errorf("expected plane xz, got %s", spec.Plane)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestScanLine(t *testing.T) {
	s := ScanConfig{From: []float64{1, 2}, To: []float64{3, 4, 5}, Steps: 10}
	line, err := s.Line()
	if err != nil {
		t.Fatalf("line failed: %v", err)
	}
	if line.From != (grin.Vec3{X: 1, Y: 2}) {
		t.Errorf("unexpected from %+v", line.From)
	}
	if line.To != (grin.Vec3{X: 3, Y: 4, Z: 5}) {
		t.Errorf("unexpected to %+v", line.To)
	}

	s.From = []float64{1, 2, 3, 4}
	if _, err := s.Line(); err == nil {
		t.Error("expected error for a 4-component point")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("luneberg", "ring")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.C2 != 5.0 {
		t.Errorf("expected c2 5.0, got %f", cfg.C2)
	}

	// Presets are handed out as copies.
	cfg.C2 = 99
	if GetPreset("luneberg", "ring").C2 != 5.0 {
		t.Error("preset table was modified through a returned pointer")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if GetPreset("luneberg", "nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if GetPreset("nonexistent", "ring") != nil {
		t.Error("expected nil for nonexistent kind")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets("luneberg")
	if len(presets) == 0 {
		t.Fatal("expected presets for luneberg")
	}
	for i := 1; i < len(presets); i++ {
		if presets[i-1] > presets[i] {
			t.Errorf("presets not sorted: %v", presets)
		}
	}

	if ListPresets("nonexistent") != nil {
		t.Error("expected nil for nonexistent kind")
	}
}

func TestMediumParams(t *testing.T) {
	tests := []struct {
		kind     string
		expected int
	}{
		{"luneberg", 3},
		{"uniform", 1},
	}

	for _, tt := range tests {
		m := MediumConfig{Kind: tt.kind, Base: 1.5, C1: 1, C2: 2}
		if got := len(m.Params()); got != tt.expected {
			t.Errorf("kind %s: expected %d params, got %d", tt.kind, tt.expected, got)
		}
	}
}
