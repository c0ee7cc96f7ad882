package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/buoysim/internal/fluid"
	"github.com/san-kum/buoysim/internal/shape"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Engine != "simple" {
		t.Errorf("expected engine simple, got %s", cfg.Engine)
	}
	if cfg.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if cfg.Fluid.Density != fluid.DefaultDensity {
		t.Errorf("expected density %f, got %f", fluid.DefaultDensity, cfg.Fluid.Density)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("cube")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if len(cfg.Masses) != 1 || cfg.Masses[0].Density != 500 {
		t.Errorf("unexpected cube preset: %+v", cfg.Masses)
	}

	cfg.Masses[0].Density = 900
	if Presets["cube"].Masses[0].Density != 500 {
		t.Error("GetPreset must return a copy")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestPresetsAreValid(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets) {
		t.Fatalf("expected %d presets, got %d", len(Presets), len(names))
	}
	for _, name := range names {
		if err := GetPreset(name).Validate(); err != nil {
			t.Errorf("preset %s: %v", name, err)
		}
	}
}

func TestMassConfigShapes(t *testing.T) {
	tests := []struct {
		cfg  MassConfig
		kind shape.Kind
		vol  float64
	}{
		{MassConfig{Shape: "cube", Size: Vec{0.1}}, shape.Box, 0.001},
		{MassConfig{Shape: "box", Size: Vec{0.1, 0.2, 0.3}}, shape.Box, 0.006},
		{MassConfig{Shape: "cone", Radius: 1, Height: 3}, shape.Cone, math.Pi},
		{MassConfig{Shape: "ellipsoid", Size: Vec{2, 2, 2}}, shape.Ellipsoid, 4 * math.Pi / 3},
	}
	for _, tt := range tests {
		s, err := tt.cfg.BuildShape()
		if err != nil {
			t.Fatalf("%s: %v", tt.cfg.Shape, err)
		}
		if s.Kind != tt.kind {
			t.Errorf("%s: kind %v, want %v", tt.cfg.Shape, s.Kind, tt.kind)
		}
		if math.Abs(s.MaxVolume()-tt.vol) > 1e-6 {
			t.Errorf("%s: volume %f, want %f", tt.cfg.Shape, s.MaxVolume(), tt.vol)
		}
	}

	if _, err := (MassConfig{Shape: "teapot", Size: Vec{1, 1, 1}}).BuildShape(); !errors.Is(err, shape.ErrUnknownKind) {
		t.Errorf("expected unknown kind, got %v", err)
	}
	if _, err := (MassConfig{Shape: "cone"}).BuildShape(); !errors.Is(err, shape.ErrInvalidDimensions) {
		t.Errorf("expected invalid dimensions, got %v", err)
	}
}

func TestMassFromDensity(t *testing.T) {
	m := MassConfig{Shape: "cube", Size: Vec{0.1}, Density: 500}
	s, _ := m.BuildShape()
	if got := m.MassValue(s); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("expected 0.5 kg, got %f", got)
	}
	m.Mass = 2
	if got := m.MassValue(s); got != 2 {
		t.Errorf("explicit mass should win, got %f", got)
	}
}

func TestValidateRejectsBadScenes(t *testing.T) {
	cfg := GetPreset("duck")
	cfg.Boats[0].Pool = "dinghy"
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) || !errors.Is(err, fluid.ErrSelfChild) {
		t.Errorf("expected self child, got %v", err)
	}

	cfg = GetPreset("cube")
	cfg.Dt = 0
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected invalid config, got %v", err)
	}

	for _, bad := range []func(*Config){
		func(c *Config) { c.Duration = math.Inf(1) },
		func(c *Config) { c.Duration = math.NaN() },
		func(c *Config) { c.Dt = math.Inf(1) },
		func(c *Config) { c.FixedStep = math.NaN() },
	} {
		cfg = GetPreset("cube")
		bad(cfg)
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected invalid config for dt %g duration %g fixed_step %g, got %v", cfg.Dt, cfg.Duration, cfg.FixedStep, err)
		}
	}

	cfg = GetPreset("cube")
	cfg.Limits.FillRate = 2
	if err := cfg.Validate(); !errors.Is(err, fluid.ErrInvalidContext) {
		t.Errorf("expected invalid context, got %v", err)
	}
}

func TestContextDefaults(t *testing.T) {
	cfg := DefaultConfig()
	ctx := cfg.Context(nil)
	if ctx.Slip != fluid.DefaultSlip || ctx.FillRate != fluid.DefaultFillRate {
		t.Errorf("unset limits should default: %+v", ctx)
	}
	cfg.Limits.Slip = 0.002
	cfg.Limits.SolverIterations = 7
	ctx = cfg.Context(nil)
	if ctx.Slip != 0.002 || ctx.Solver.MaxIterations != 7 || ctx.Solver.Tolerance <= 0 {
		t.Errorf("limits not applied: %+v", ctx)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	want := GetPreset("mixed")
	if err := Save(path, want); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Masses) != len(want.Masses) || len(got.Boats) != 1 {
		t.Fatalf("loaded %d masses %d boats", len(got.Masses), len(got.Boats))
	}
	if got.Masses[7].IsVisible() {
		t.Error("ghost should stay hidden")
	}
	if !got.Masses[0].IsMovable() {
		t.Error("masses default to movable")
	}
	if got.Masses[2].Radius != 0.08 || got.Pools[0].Max != (Vec{2, 0, 0.5}) {
		t.Errorf("round trip lost data: %+v %+v", got.Masses[2], got.Pools[0])
	}
}

func TestLoadRejectsInfiniteDuration(t *testing.T) {
	cfg := GetPreset("cube")
	path := filepath.Join(t.TempDir(), "scene.yaml")
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	data = []byte(strings.Replace(string(data), "duration: 20", "duration: .inf", 1))
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !math.IsInf(loaded.Duration, 1) {
		t.Fatalf("expected +Inf duration from yaml, got %g", loaded.Duration)
	}
	if err := loaded.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected invalid config, got %v", err)
	}
}
