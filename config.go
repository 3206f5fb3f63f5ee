// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package ggscale

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
)

// Default tuning values. They were chosen for 60 Hz displays; see
// ConfigForRefreshRate for other refresh rates.
const (
	// DefaultLowThreshold is the smoothed frame duration (ms) below which
	// resolution is restored one step. Roughly 55 fps.
	DefaultLowThreshold = 18.0

	// DefaultHighThreshold is the smoothed frame duration (ms) above which
	// resolution is reduced one step. Roughly 38 fps.
	DefaultHighThreshold = 26.0

	// DefaultDecay is the weight given to each new frame delta.
	DefaultDecay = 0.2

	// DefaultMaxChange bounds how far (ms) the average may move per tick.
	DefaultMaxChange = 2.0

	// DefaultMinScale is the lowest scale factor the controller may select.
	DefaultMinScale = 0.5

	// DefaultMaxFrameDelta caps a single delta (ms) before smoothing.
	// Larger gaps come from stalls such as a backgrounded window.
	DefaultMaxFrameDelta = 250.0

	// referenceRefreshHz is the refresh rate the default thresholds target.
	referenceRefreshHz = 60.0
)

// DefaultScaleTable returns the standard scale factors, full resolution first.
// Each call returns a fresh slice.
func DefaultScaleTable() []float64 {
	return []float64{1, 0.79, 0.62, 0.5, 0.4, 0.31, 0.25}
}

// Configuration errors.
var (
	// ErrInvalidConfig is returned when thresholds or smoothing parameters
	// are out of range.
	ErrInvalidConfig = errors.New("ggscale: invalid config")

	// ErrInvalidScaleTable is returned when the scale table is empty, does not
	// start at 1 or is not strictly decreasing.
	ErrInvalidScaleTable = errors.New("ggscale: invalid scale table")

	// ErrInvalidMinScale is returned when the minimum scale is outside (0, 1].
	ErrInvalidMinScale = errors.New("ggscale: min scale must be in (0, 1]")
)

// Config holds the tuning parameters of a Controller.
// The zero value is not valid; start from DefaultConfig.
type Config struct {
	// LowThreshold and HighThreshold are smoothed frame durations in
	// milliseconds. LowThreshold must be below HighThreshold.
	LowThreshold  float64 `json:"low_threshold_ms"`
	HighThreshold float64 `json:"high_threshold_ms"`

	// Decay is the smoothing weight in (0, 1].
	Decay float64 `json:"decay"`

	// MaxChange is the largest per-tick adjustment of the average, in ms.
	MaxChange float64 `json:"max_change_ms"`

	// ScaleTable lists the selectable scale factors, 1 first, strictly
	// decreasing.
	ScaleTable []float64 `json:"scale_table"`

	// MinScale is the floor on downscaling. It selects the last usable step.
	MinScale float64 `json:"min_scale"`

	// MaxFrameDelta caps each delta before smoothing. Zero disables the cap.
	MaxFrameDelta float64 `json:"max_frame_delta_ms"`
}

// DefaultConfig returns the tuning used for 60 Hz displays.
func DefaultConfig() Config {
	return Config{
		LowThreshold:  DefaultLowThreshold,
		HighThreshold: DefaultHighThreshold,
		Decay:         DefaultDecay,
		MaxChange:     DefaultMaxChange,
		ScaleTable:    DefaultScaleTable(),
		MinScale:      DefaultMinScale,
		MaxFrameDelta: DefaultMaxFrameDelta,
	}
}

// ConfigForRefreshRate returns DefaultConfig with the thresholds and the
// per-tick clamp rescaled to a display refreshing at hz.
// A non-positive hz returns DefaultConfig unchanged.
func ConfigForRefreshRate(hz float64) Config {
	cfg := DefaultConfig()
	if hz <= 0 {
		return cfg
	}
	k := referenceRefreshHz / hz
	cfg.LowThreshold *= k
	cfg.HighThreshold *= k
	cfg.MaxChange *= k
	return cfg
}

// Midpoint returns the steady-state average, halfway between the thresholds.
func (c Config) Midpoint() float64 {
	return (c.LowThreshold + c.HighThreshold) / 2
}

// LastStep returns the highest scale step permitted by MinScale.
func (c Config) LastStep() int {
	return LastStep(c.ScaleTable, c.MinScale)
}

// Validate reports the first problem found in c.
func (c Config) Validate() error {
	switch {
	case isBad(c.LowThreshold) || isBad(c.HighThreshold) || c.LowThreshold <= 0:
		return fmt.Errorf("%w: thresholds low=%v high=%v", ErrInvalidConfig, c.LowThreshold, c.HighThreshold)
	case c.LowThreshold >= c.HighThreshold:
		return fmt.Errorf("%w: low threshold %v must be below high threshold %v", ErrInvalidConfig, c.LowThreshold, c.HighThreshold)
	case isBad(c.Decay) || c.Decay <= 0 || c.Decay > 1:
		return fmt.Errorf("%w: decay=%v, want (0, 1]", ErrInvalidConfig, c.Decay)
	case isBad(c.MaxChange) || c.MaxChange <= 0:
		return fmt.Errorf("%w: max change=%v, want > 0", ErrInvalidConfig, c.MaxChange)
	case isBad(c.MaxFrameDelta) || c.MaxFrameDelta < 0:
		return fmt.Errorf("%w: max frame delta=%v, want >= 0", ErrInvalidConfig, c.MaxFrameDelta)
	}
	if err := validateScaleTable(c.ScaleTable); err != nil {
		return err
	}
	return validateMinScale(c.MinScale)
}

func validateScaleTable(table []float64) error {
	if len(table) == 0 {
		return fmt.Errorf("%w: empty", ErrInvalidScaleTable)
	}
	if table[0] != 1 {
		return fmt.Errorf("%w: first entry is %v, want 1", ErrInvalidScaleTable, table[0])
	}
	for i := 1; i < len(table); i++ {
		if isBad(table[i]) || table[i] <= 0 || table[i] >= table[i-1] {
			return fmt.Errorf("%w: entry %d (%v) must be positive and below %v", ErrInvalidScaleTable, i, table[i], table[i-1])
		}
	}
	return nil
}

func validateMinScale(s float64) error {
	if isBad(s) || s <= 0 || s > 1 {
		return fmt.Errorf("%w: got %v", ErrInvalidMinScale, s)
	}
	return nil
}

func isBad(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}

// LoadConfig reads a JSON config file. Fields missing from the file keep
// their DefaultConfig values. The result is validated.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return cfg, fmt.Errorf("ggscale: read config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("ggscale: parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return DefaultConfig(), err
	}
	return cfg, nil
}
