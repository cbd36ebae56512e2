package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Estimator.MinSamples != 10 {
		t.Fatalf("expected default min_samples 10, got %d", cfg.Estimator.MinSamples)
	}
	if cfg.Estimator.ConfidenceLevel != 0.95 {
		t.Fatalf("expected default confidence 0.95, got %v", cfg.Estimator.ConfidenceLevel)
	}
	if cfg.Optimizer.CeilingMultiplier != 2.0 {
		t.Fatalf("expected default ceiling multiplier 2.0, got %v", cfg.Optimizer.CeilingMultiplier)
	}
	if cfg.Data.Columns.Price == "" || cfg.Data.Columns.Quantity == "" {
		t.Fatalf("expected default column mapping, got %+v", cfg.Data.Columns)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := writeTempConfig(t, `
estimator:
  min_samples: 25
  workers: 8
optimizer:
  floor_multiplier: 0.8
  ceiling_multiplier: 1.5
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Estimator.MinSamples != 25 || cfg.Estimator.Workers != 8 {
		t.Fatalf("file values not applied: %+v", cfg.Estimator)
	}
	if cfg.Optimizer.FloorMultiplier != 0.8 {
		t.Fatalf("file values not applied: %+v", cfg.Optimizer)
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"min samples too small", "estimator:\n  min_samples: 1\n"},
		{"confidence out of range", "estimator:\n  confidence_level: 1.5\n"},
		{"inverted multipliers", "optimizer:\n  floor_multiplier: 2.0\n  ceiling_multiplier: 1.0\n"},
		{"zero grid step", "optimizer:\n  grid_step: 0\n"},
	}

	for _, tc := range cases {
		path := writeTempConfig(t, tc.content)
		if _, err := Load(path); err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
	}
}

func TestOptimizerRange(t *testing.T) {
	o := OptimizerConfig{FloorMultiplier: 0.5, CeilingMultiplier: 2.0}
	floor, ceiling := o.Range(10)
	if floor != 5 || ceiling != 20 {
		t.Fatalf("unexpected range: [%v, %v]", floor, ceiling)
	}
}

func TestResolveWorkers(t *testing.T) {
	cfg := &Config{Estimator: EstimatorConfig{Workers: 4}}
	if got := cfg.ResolveWorkers(0); got != 4 {
		t.Fatalf("expected config workers 4, got %d", got)
	}
	if got := cfg.ResolveWorkers(9); got != 9 {
		t.Fatalf("expected override 9, got %d", got)
	}
}
