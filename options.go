// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package ggscale

import "github.com/gogpu/ggscale/surface"

// Option configures a Controller during creation.
//
// Example:
//
//	// Default 60 Hz tuning, never below half resolution
//	c, err := ggscale.New()
//
//	// 120 Hz display, allow quarter resolution, drive a surface registry
//	c, err := ggscale.New(
//	    ggscale.WithConfig(ggscale.ConfigForRefreshRate(120)),
//	    ggscale.WithMinScale(0.25),
//	    ggscale.WithSurfaces(reg),
//	)
type Option func(*options)

// options holds optional configuration for Controller creation.
type options struct {
	cfg      Config
	start    float64
	hasStart bool
	clock    func() float64
	surfaces *surface.Registry
	onChange func(RenderPlan)
}

func defaultOptions() options {
	return options{
		cfg:   DefaultConfig(),
		clock: Now,
	}
}

// WithConfig replaces the whole tuning configuration.
// Options applied after it still override individual fields.
func WithConfig(cfg Config) Option {
	return func(o *options) {
		cfg.ScaleTable = append([]float64(nil), cfg.ScaleTable...)
		o.cfg = cfg
	}
}

// WithThresholds sets the low and high smoothed frame durations in ms.
func WithThresholds(low, high float64) Option {
	return func(o *options) {
		o.cfg.LowThreshold = low
		o.cfg.HighThreshold = high
	}
}

// WithDecay sets the smoothing weight applied to each new delta.
func WithDecay(decay float64) Option {
	return func(o *options) {
		o.cfg.Decay = decay
	}
}

// WithMaxChange bounds the per-tick movement of the average, in ms.
func WithMaxChange(ms float64) Option {
	return func(o *options) {
		o.cfg.MaxChange = ms
	}
}

// WithScaleTable replaces the scale factor table.
// The first entry must be 1 and entries must strictly decrease.
func WithScaleTable(table ...float64) Option {
	return func(o *options) {
		o.cfg.ScaleTable = append([]float64(nil), table...)
	}
}

// WithMinScale sets the lowest scale factor the controller may select.
func WithMinScale(scale float64) Option {
	return func(o *options) {
		o.cfg.MinScale = scale
	}
}

// WithMaxFrameDelta caps each frame delta before smoothing. Zero disables it.
func WithMaxFrameDelta(ms float64) Option {
	return func(o *options) {
		o.cfg.MaxFrameDelta = ms
	}
}

// WithStartTime sets the timestamp (ms) the first frame is measured from.
// Use it when the host clock is not Now, e.g. a requestAnimationFrame-style
// timestamp or a recorded trace.
func WithStartTime(ms float64) Option {
	return func(o *options) {
		o.start = ms
		o.hasStart = true
	}
}

// WithClock sets the clock that supplies the start time when WithStartTime
// is not given.
// It must return milliseconds on the same timeline as the Tick timestamps.
func WithClock(clock func() float64) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithSurfaces attaches a surface registry. Render applies each plan to it
// and gates adaptation on surface visibility.
func WithSurfaces(reg *surface.Registry) Option {
	return func(o *options) {
		o.surfaces = reg
	}
}

// WithOnScaleChange registers a callback invoked from Tick whenever the
// scale step changes.
func WithOnScaleChange(fn func(RenderPlan)) Option {
	return func(o *options) {
		o.onChange = fn
	}
}
