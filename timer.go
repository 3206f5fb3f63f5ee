// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package ggscale

import "time"

// epoch anchors Now. Monotonic, so wall clock jumps do not produce deltas.
var epoch = time.Now()

// Now returns milliseconds elapsed since the package was initialized.
// Hosts without their own frame timestamp can pass Now() to Tick.
func Now() float64 {
	return float64(time.Since(epoch)) / float64(time.Millisecond)
}

// FrameTimer measures the time between successive render callbacks.
type FrameTimer struct {
	lastTick float64
}

// NewFrameTimer returns a timer whose first delta is measured from start.
func NewFrameTimer(start float64) FrameTimer {
	return FrameTimer{lastTick: start}
}

// Tick returns t minus the previous timestamp and records t.
// No bounds checking is done here; see Controller for delta clamping.
func (ft *FrameTimer) Tick(t float64) float64 {
	delta := t - ft.lastTick
	ft.lastTick = t
	return delta
}

// Anchor moves the previous timestamp to t without producing a delta.
func (ft *FrameTimer) Anchor(t float64) {
	ft.lastTick = t
}

// LastTick returns the most recent timestamp.
func (ft *FrameTimer) LastTick() float64 {
	return ft.lastTick
}
