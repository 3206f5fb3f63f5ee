// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package ggscale

import "math"

// Stats summarises what a Controller has observed.
type Stats struct {
	// Frames counts ticks that went through adaptation.
	Frames uint64

	// IdleFrames counts ticks skipped while paused or with nothing visible.
	IdleFrames uint64

	// StepChanges counts scale step changes in either direction.
	StepChanges uint64

	// ClampedDeltas counts deltas outside [0, MaxFrameDelta].
	ClampedDeltas uint64

	// LastDelta, MinDelta and MaxDelta are clamped deltas in ms.
	LastDelta float64
	MinDelta  float64
	MaxDelta  float64

	// Average is the current smoothed frame duration in ms.
	Average float64

	Step  int
	Scale float64
}

// AverageFPS converts the smoothed duration into frames per second.
func (s Stats) AverageFPS() float64 {
	if s.Average <= 0 {
		return 0
	}
	return 1000 / s.Average
}

func (s *Stats) observe(delta float64) {
	if s.Frames == 0 {
		s.MinDelta = delta
		s.MaxDelta = delta
	} else {
		s.MinDelta = math.Min(s.MinDelta, delta)
		s.MaxDelta = math.Max(s.MaxDelta, delta)
	}
	s.Frames++
	s.LastDelta = delta
}
