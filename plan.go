// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package ggscale

import (
	"fmt"

	"github.com/gogpu/ggscale/surface"
)

// RenderPlan is the outcome of one controller tick: which scale to render
// at and why. It carries no references to live surfaces, so the decision
// can be inspected and tested without a rendering target.
type RenderPlan struct {
	// Timestamp is the host timestamp passed to Tick, in ms.
	Timestamp float64

	// RawDelta is the measured time since the previous tick.
	// Delta is RawDelta after clamping to [0, MaxFrameDelta].
	RawDelta float64
	Delta    float64

	// Average is the smoothed frame duration after this tick. It equals the
	// threshold midpoint when Changed is true.
	Average float64

	// Step and PrevStep index the scale table; Scale is table[Step].
	Step     int
	PrevStep int
	LastStep int
	Scale    float64

	// Changed reports a step change on this tick.
	Changed bool

	// Idle is set when adaptation was skipped: the controller is paused,
	// closed, or no attached surface is visible.
	Idle bool

	// Layout is set by Controller.Render when the plan was applied to the
	// attached surface registry.
	Layout *surface.Layout
}

// Downscaled reports whether the plan renders below full resolution.
func (p RenderPlan) Downscaled() bool {
	return p.Step > 0
}

// String returns a compact description for logs and the simulator.
func (p RenderPlan) String() string {
	s := fmt.Sprintf("t=%.1fms delta=%.2fms avg=%.2fms step=%d/%d scale=%.2f",
		p.Timestamp, p.Delta, p.Average, p.Step, p.LastStep, p.Scale)
	if p.Changed {
		s += fmt.Sprintf(" (from %d)", p.PrevStep)
	}
	if p.Idle {
		s += " idle"
	}
	return s
}
