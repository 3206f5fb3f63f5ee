// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package ggscale

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v", err)
	}
	if cfg.Midpoint() != 22 {
		t.Errorf("Midpoint() = %v, want 22", cfg.Midpoint())
	}
	if cfg.LastStep() != 3 {
		t.Errorf("LastStep() = %d, want 3", cfg.LastStep())
	}
	if len(cfg.ScaleTable) != 7 || cfg.ScaleTable[0] != 1 || cfg.ScaleTable[6] != 0.25 {
		t.Errorf("ScaleTable = %v", cfg.ScaleTable)
	}
}

func TestDefaultScaleTableFresh(t *testing.T) {
	a := DefaultScaleTable()
	a[0] = 42
	if DefaultScaleTable()[0] != 1 {
		t.Error("DefaultScaleTable returned a shared slice")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"valid", func(*Config) {}, nil},
		{"nan low", func(c *Config) { c.LowThreshold = math.NaN() }, ErrInvalidConfig},
		{"zero low", func(c *Config) { c.LowThreshold = 0 }, ErrInvalidConfig},
		{"equal thresholds", func(c *Config) { c.HighThreshold = c.LowThreshold }, ErrInvalidConfig},
		{"inf max change", func(c *Config) { c.MaxChange = math.Inf(1) }, ErrInvalidConfig},
		{"no delta cap", func(c *Config) { c.MaxFrameDelta = 0 }, nil},
		{"nil table", func(c *Config) { c.ScaleTable = nil }, ErrInvalidScaleTable},
		{"zero entry", func(c *Config) { c.ScaleTable = []float64{1, 0} }, ErrInvalidScaleTable},
		{"single entry", func(c *Config) { c.ScaleTable = []float64{1} }, nil},
		{"nan min scale", func(c *Config) { c.MinScale = math.NaN() }, ErrInvalidMinScale},
		{"min scale one", func(c *Config) { c.MinScale = 1 }, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.want == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestConfigForRefreshRate(t *testing.T) {
	tests := []struct {
		hz                   float64
		low, high, maxChange float64
	}{
		{0, 18, 26, 2},
		{-10, 18, 26, 2},
		{60, 18, 26, 2},
		{120, 9, 13, 1},
		{30, 36, 52, 4},
	}
	for _, tt := range tests {
		cfg := ConfigForRefreshRate(tt.hz)
		if cfg.LowThreshold != tt.low || cfg.HighThreshold != tt.high || cfg.MaxChange != tt.maxChange {
			t.Errorf("ConfigForRefreshRate(%v) = low %v high %v max %v, want %v %v %v",
				tt.hz, cfg.LowThreshold, cfg.HighThreshold, cfg.MaxChange, tt.low, tt.high, tt.maxChange)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("ConfigForRefreshRate(%v) invalid: %v", tt.hz, err)
		}
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ggscale.json")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `{"min_scale": 0.25, "high_threshold_ms": 30}`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.MinScale != 0.25 || cfg.HighThreshold != 30 {
		t.Errorf("loaded fields: min %v high %v", cfg.MinScale, cfg.HighThreshold)
	}
	if cfg.LowThreshold != DefaultLowThreshold || cfg.Decay != DefaultDecay {
		t.Error("missing fields did not keep defaults")
	}
	if cfg.LastStep() != 6 {
		t.Errorf("LastStep() = %d, want 6", cfg.LastStep())
	}
}

func TestLoadConfigErrors(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("LoadConfig(missing) should fail")
	}
	if _, err := LoadConfig(writeConfig(t, `{"min_scale":`)); err == nil {
		t.Error("LoadConfig(truncated) should fail")
	}
	_, err := LoadConfig(writeConfig(t, `{"min_scale": 2}`))
	if !errors.Is(err, ErrInvalidMinScale) {
		t.Errorf("LoadConfig(min 2) error = %v, want ErrInvalidMinScale", err)
	}
}
