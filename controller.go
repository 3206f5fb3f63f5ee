// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package ggscale

import (
	"errors"
	"fmt"
	"math"
	"time"

	"golang.org/x/time/rate"

	"github.com/gogpu/ggscale/surface"
)

// ErrClosed is returned by operations on a closed Controller.
var ErrClosed = errors.New("ggscale: controller is closed")

// Controller chooses a render scale from measured frame durations.
//
// Each Tick measures the time since the previous tick, folds it into a
// clamped moving average and moves the scale step at most one position
// through the scale table. After a step change the average is re-seeded
// at the threshold midpoint, so the new scale gets a fair measurement
// before the next decision.
//
// Controller is NOT safe for concurrent use. It is meant to be driven
// from the host's per-frame callback, which never overlaps itself.
type Controller struct {
	cfg      Config
	timer    FrameTimer
	est      Estimator
	sel      Selector
	surfaces *surface.Registry
	onChange func(RenderPlan)
	stats    Stats
	statsLog rate.Sometimes
	paused   bool
	resumed  bool // first tick after Resume not yet seen
	closed   bool
}

// New creates a Controller. The configuration is validated after all
// options have been applied.
func New(opts ...Option) (*Controller, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.cfg.Validate(); err != nil {
		return nil, err
	}

	start := o.start
	if !o.hasStart {
		start = o.clock()
	}

	c := &Controller{
		cfg:      o.cfg,
		timer:    NewFrameTimer(start),
		est:      NewEstimator(o.cfg.Midpoint(), o.cfg.Decay, o.cfg.MaxChange),
		sel:      NewSelector(o.cfg.ScaleTable, o.cfg.LowThreshold, o.cfg.HighThreshold, o.cfg.MinScale),
		surfaces: o.surfaces,
		onChange: o.onChange,
		statsLog: rate.Sometimes{Interval: time.Second},
	}
	c.stats.Average = c.est.Average()
	c.stats.Scale = c.sel.Scale()

	Logger().Info("ggscale: controller created",
		"low_ms", o.cfg.LowThreshold, "high_ms", o.cfg.HighThreshold,
		"min_scale", o.cfg.MinScale, "last_step", c.sel.LastStep(),
	)
	return c, nil
}

// MustNew is like New but panics on error.
// Use only when the options are fixed at compile time.
func MustNew(opts ...Option) *Controller {
	c, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// Tick runs one evaluation for a frame rendered at timestampMs and returns
// the resulting plan. It does not touch any surface; see Render.
func (c *Controller) Tick(timestampMs float64) RenderPlan {
	raw := c.timer.Tick(timestampMs)
	if c.closed || c.paused {
		return c.idle(timestampMs, raw)
	}
	if c.resumed {
		c.resumed = false
		// The host stopped ticking while paused: re-anchor instead of
		// measuring the pause.
		if raw < 0 || raw > c.maxDelta() {
			return c.idle(timestampMs, raw)
		}
	}

	delta := c.clampDelta(raw)
	c.stats.observe(delta)

	prev := c.sel.Step()
	avg := c.est.Update(delta)
	changed := c.sel.Select(avg)
	if changed {
		c.est.Reset(c.cfg.Midpoint())
		avg = c.est.Average()
		c.stats.StepChanges++
	}
	c.stats.Average = avg
	c.stats.Step = c.sel.Step()
	c.stats.Scale = c.sel.Scale()

	plan := RenderPlan{
		Timestamp: timestampMs,
		RawDelta:  raw,
		Delta:     delta,
		Average:   avg,
		Step:      c.sel.Step(),
		PrevStep:  prev,
		LastStep:  c.sel.LastStep(),
		Scale:     c.sel.Scale(),
		Changed:   changed,
	}

	if changed {
		Logger().Debug("ggscale: scale step changed",
			"from", prev, "to", plan.Step, "scale", plan.Scale, "delta_ms", delta)
		if c.onChange != nil {
			c.onChange(plan)
		}
	}
	c.statsLog.Do(func() {
		Logger().Debug("ggscale: frame stats",
			"frames", c.stats.Frames, "avg_ms", c.stats.Average,
			"fps", c.stats.AverageFPS(), "step", c.stats.Step)
	})
	return plan
}

// Render is the per-frame entry point for hosts with an attached surface
// registry. When no surface is visible it only advances the timer.
// Otherwise it ticks, and applies the plan to the registry when the step
// changed or the surfaces need a new layout.
func (c *Controller) Render(timestampMs float64) RenderPlan {
	if c.surfaces == nil {
		return c.Tick(timestampMs)
	}
	if c.surfaces.VisibleCount() == 0 {
		raw := c.timer.Tick(timestampMs)
		return c.idle(timestampMs, raw)
	}

	plan := c.Tick(timestampMs)
	if c.closed {
		return plan
	}
	if plan.Changed || c.surfaces.NeedsLayout(plan.Scale) {
		layout := c.surfaces.Apply(plan.Scale)
		plan.Layout = &layout
	}
	return plan
}

func (c *Controller) idle(ts, raw float64) RenderPlan {
	c.stats.IdleFrames++
	return RenderPlan{
		Timestamp: ts,
		RawDelta:  raw,
		Delta:     clamp(raw, 0, c.maxDelta()),
		Average:   c.est.Average(),
		Step:      c.sel.Step(),
		PrevStep:  c.sel.Step(),
		LastStep:  c.sel.LastStep(),
		Scale:     c.sel.Scale(),
		Idle:      true,
	}
}

func (c *Controller) maxDelta() float64 {
	if c.cfg.MaxFrameDelta > 0 {
		return c.cfg.MaxFrameDelta
	}
	return math.Inf(1)
}

// clampDelta bounds a delta to [0, MaxFrameDelta]. Only called on
// adapting ticks, so idle gaps are not counted as clamped.
func (c *Controller) clampDelta(d float64) float64 {
	hi := c.cfg.MaxFrameDelta
	switch {
	case d < 0:
		c.stats.ClampedDeltas++
		Logger().Warn("ggscale: negative frame delta clamped", "delta_ms", d)
		return 0
	case hi > 0 && d > hi:
		c.stats.ClampedDeltas++
		Logger().Warn("ggscale: frame delta clamped", "delta_ms", d, "max_ms", hi)
		return hi
	}
	return d
}

// SetMinScale changes the floor on downscaling. If the current step is
// below the new floor, the next tick moves it up to the new last step.
func (c *Controller) SetMinScale(scale float64) error {
	if c.closed {
		return ErrClosed
	}
	if err := validateMinScale(scale); err != nil {
		return err
	}
	c.cfg.MinScale = scale
	c.sel.SetMinScale(scale)
	Logger().Info("ggscale: min scale set", "min_scale", scale, "last_step", c.sel.LastStep())
	return nil
}

// MinScale returns the configured floor on downscaling.
func (c *Controller) MinScale() float64 { return c.cfg.MinScale }

// Step returns the current scale step.
func (c *Controller) Step() int { return c.sel.Step() }

// LastStep returns the highest step the controller may select.
func (c *Controller) LastStep() int { return c.sel.LastStep() }

// Scale returns the current scale factor.
func (c *Controller) Scale() float64 { return c.sel.Scale() }

// Average returns the smoothed frame duration in ms.
func (c *Controller) Average() float64 { return c.est.Average() }

// Config returns a copy of the active configuration.
func (c *Controller) Config() Config {
	cfg := c.cfg
	cfg.ScaleTable = append([]float64(nil), c.cfg.ScaleTable...)
	return cfg
}

// Surfaces returns the attached registry, or nil.
func (c *Controller) Surfaces() *surface.Registry { return c.surfaces }

// Stats returns a snapshot of the observed frame statistics.
func (c *Controller) Stats() Stats { return c.stats }

// Pause suspends adaptation. Ticks while paused keep the timer current but
// leave the average and step alone.
func (c *Controller) Pause() {
	c.paused = true
}

// Resume re-enables adaptation. Ticks while paused keep the timer
// current, so the next frame is measured normally. If the host did not
// tick while paused, the first frame after Resume only re-anchors the
// timer and the pause is not measured as one long frame.
func (c *Controller) Resume() {
	if !c.paused {
		return
	}
	c.paused = false
	c.resumed = true
}

// Paused reports whether adaptation is suspended.
func (c *Controller) Paused() bool { return c.paused }

// Reset returns to full resolution and re-seeds the average, measuring the
// next frame from timestampMs. Statistics are kept.
func (c *Controller) Reset(timestampMs float64) error {
	if c.closed {
		return ErrClosed
	}
	prev := c.sel.Step()
	c.sel.Reset()
	c.est.Reset(c.cfg.Midpoint())
	c.timer.Anchor(timestampMs)
	if c.surfaces != nil && prev != 0 {
		c.surfaces.Apply(c.sel.Scale())
	}
	return nil
}

// Close detaches the controller. Later ticks return idle plans.
// Close is idempotent.
func (c *Controller) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.surfaces = nil
	c.onChange = nil
	Logger().Info("ggscale: controller closed",
		"frames", c.stats.Frames, "step_changes", c.stats.StepChanges)
	return nil
}

// String implements fmt.Stringer.
func (c *Controller) String() string {
	return fmt.Sprintf("ggscale.Controller{step=%d/%d scale=%.2f avg=%.2fms}",
		c.sel.Step(), c.sel.LastStep(), c.sel.Scale(), c.est.Average())
}
