package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Width <= 0 || cfg.Height <= 0 {
		t.Error("world size should be positive")
	}
	if cfg.Frames <= 0 {
		t.Error("frames should be positive")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Width = 0 }},
		{"negative height", func(c *Config) { c.Height = -100 }},
		{"zero frames", func(c *Config) { c.Frames = 0 }},
		{"zero spacing", func(c *Config) { c.Block.Spacing = 0 }},
		{"zero smoothing radius", func(c *Config) { c.Params.SmoothingRadius = 0 }},
		{"negative dt", func(c *Config) { c.Params.Dt = -0.01 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	cfg := DefaultConfig()
	cfg.Width = 1280
	cfg.Params.Viscosity = 0.42
	cfg.Block = BlockConfig{X: 50, Y: 200, W: 400, H: 150, Spacing: 8}

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if loaded.Width != 1280 {
		t.Errorf("expected width 1280, got %g", loaded.Width)
	}
	if loaded.Params.Viscosity != 0.42 {
		t.Errorf("expected viscosity 0.42, got %g", loaded.Params.Viscosity)
	}
	if loaded.Block.W != 400 {
		t.Errorf("expected block width 400, got %g", loaded.Block.W)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "partial.yaml")

	data := []byte("params:\n  gravity: 120\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Params.Gravity != 120 {
		t.Errorf("expected gravity 120, got %g", cfg.Params.Gravity)
	}
	if cfg.Params.SmoothingRadius != DefaultConfig().Params.SmoothingRadius {
		t.Error("unset fields should keep defaults")
	}
	if cfg.Frames != DefaultFrames {
		t.Errorf("expected default frames, got %d", cfg.Frames)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("storm")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Params.ImpactSplashChance != 0.8 {
		t.Errorf("expected splash chance 0.8, got %g", cfg.Params.ImpactSplashChance)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("preset should validate: %v", err)
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("tsunami"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	if len(names) != 4 {
		t.Errorf("expected 4 presets, got %d", len(names))
	}
}

func TestAllPresetsValidate(t *testing.T) {
	for name, cfg := range Presets {
		if err := cfg.Validate(); err != nil {
			t.Errorf("preset %q: %v", name, err)
		}
	}
}

func TestBlockRectDefaultsToLowerHalf(t *testing.T) {
	cfg := DefaultConfig()
	rect := cfg.BlockRect()

	if rect.Y != cfg.Height/2 {
		t.Errorf("expected block at mid height, got %g", rect.Y)
	}
	if rect.X != cfg.Params.Margin {
		t.Errorf("expected block inset by margin, got %g", rect.X)
	}
}

func TestNewSimulator(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width = 300
	cfg.Height = 200
	cfg.Block = BlockConfig{X: 50, Y: 50, W: 100, H: 50, Spacing: 10}

	sim, err := cfg.NewSimulator()
	if err != nil {
		t.Fatalf("NewSimulator failed: %v", err)
	}
	if len(sim.Particles) != 50 {
		t.Errorf("expected 50 particles, got %d", len(sim.Particles))
	}
}
