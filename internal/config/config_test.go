package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Design.SlopeAngle != DefaultSlopeAngle {
		t.Errorf("expected slope angle %f, got %f", DefaultSlopeAngle, cfg.Design.SlopeAngle)
	}
	if cfg.Skier.Mass != 75 {
		t.Errorf("expected skier mass 75, got %f", cfg.Skier.Mass)
	}
	if cfg.Solver.SampleRate != 360 {
		t.Errorf("expected sample rate 360, got %f", cfg.Solver.SampleRate)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"zero mass", func(c *Config) { c.Skier.Mass = 0 }},
		{"gamma one", func(c *Config) { c.Solver.Gamma = 1 }},
		{"negative ramp time", func(c *Config) { c.Solver.TimeOnRamp = -1 }},
		{"zero sample rate", func(c *Config) { c.Solver.SampleRate = 0 }},
		{"zero increment", func(c *Config) { c.Solver.EFHIncrement = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoad_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jump.yaml")
	data := []byte("design:\n  fall_height: 1.2\n  takeoff_angle: 20\nskier:\n  mass: 80\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Design.FallHeight != 1.2 || cfg.Design.TakeoffAngle != 20 {
		t.Errorf("design not loaded: %+v", cfg.Design)
	}
	if cfg.Design.ApproachLen != DefaultApproachLen {
		t.Errorf("missing field should keep default, got %f", cfg.Design.ApproachLen)
	}
	if cfg.Skier.Mass != 80 || cfg.Skier.Area != 0.34 {
		t.Errorf("skier not merged: %+v", cfg.Skier)
	}
}

func TestLoad_HJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jump.hjson")
	data := []byte(`{
  # comments and unquoted keys are allowed
  design: {
    slope_angle: -25
    approach_len: 55
  }
  solver: {
    efh_increment: 0.5
  }
}`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Design.SlopeAngle != -25 || cfg.Design.ApproachLen != 55 {
		t.Errorf("design not loaded: %+v", cfg.Design)
	}
	if cfg.Solver.EFHIncrement != 0.5 || cfg.Solver.SampleRate != 360 {
		t.Errorf("solver not merged: %+v", cfg.Solver)
	}
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("solver:\n  gamma: 2\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected validation error")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved.yaml")
	cfg := GetPreset("medium")
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", loaded, cfg)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("small")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	p := cfg.Params()
	if p.SlopeAngle != -15 || p.ApproachLen != 40 || p.TakeoffAngle != 25 || p.FallHeight != 0.5 {
		t.Errorf("unexpected small preset: %+v", p)
	}

	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets) {
		t.Fatalf("expected %d presets, got %d", len(Presets), len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("presets not sorted: %v", names)
		}
	}
}

func TestJumpOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Skier.Mass = 90
	cfg.Solver.SampleRate = 100

	opts := cfg.JumpOptions()
	if opts.Skier.Mass != 90 {
		t.Errorf("skier mass = %f, want 90", opts.Skier.Mass)
	}
	if opts.Flight.SampleRate != 100 {
		t.Errorf("sample rate = %f, want 100", opts.Flight.SampleRate)
	}
	if !opts.Flight.Fine {
		t.Error("flight should default to the fine pass")
	}
}

func TestSetSkierParam(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.SetSkierParam("drag_coeff", 0.9); err != nil {
		t.Fatalf("SetSkierParam failed: %v", err)
	}
	if cfg.Skier.DragCoeff != 0.9 {
		t.Errorf("drag coeff = %f, want 0.9", cfg.Skier.DragCoeff)
	}
	if cfg.Skier.Mass != 75 {
		t.Errorf("mass changed to %f", cfg.Skier.Mass)
	}
	if got := cfg.JumpOptions().Skier.DragCoeff; got != 0.9 {
		t.Errorf("jump options drag coeff = %f, want 0.9", got)
	}

	if err := cfg.SetSkierParam("height", 1.8); err == nil {
		t.Error("expected error for unknown skier parameter")
	}
}
