// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package ggscale

// LastStep returns the index of the last entry in table that is still >=
// minScale, scanning from index 1. Index 0 is always allowed, so a
// minScale of 1 or more yields 0.
func LastStep(table []float64, minScale float64) int {
	i := 1
	for i < len(table) {
		if table[i] < minScale {
			break
		}
		i++
	}
	return i - 1
}

// Selector moves a step index through a scale table in response to the
// smoothed frame duration.
//
// Invariant: 0 <= step <= lastStep <= len(table)-1, observed after every
// call to Select.
type Selector struct {
	table    []float64
	low      float64
	high     float64
	step     int
	lastStep int
}

// NewSelector returns a selector at full resolution. The table is not
// copied and must not be modified afterwards.
func NewSelector(table []float64, low, high, minScale float64) Selector {
	return Selector{
		table:    table,
		low:      low,
		high:     high,
		lastStep: LastStep(table, minScale),
	}
}

// Select evaluates avg and moves at most one step. It reports whether the
// step changed.
func (s *Selector) Select(avg float64) bool {
	prev := s.step
	switch {
	case avg > s.high && s.step < s.lastStep:
		s.step++
	case avg < s.low && s.step > 0:
		s.step--
	}
	// lastStep may have been lowered by SetMinScale since the last call.
	if s.step > s.lastStep {
		s.step = s.lastStep
	}
	return s.step != prev
}

// SetMinScale recomputes the step ceiling. The current step is not
// touched here; the next Select brings it under the new ceiling.
func (s *Selector) SetMinScale(minScale float64) {
	s.lastStep = LastStep(s.table, minScale)
}

// Step returns the current step index.
func (s *Selector) Step() int { return s.step }

// LastStep returns the current step ceiling.
func (s *Selector) LastStep() int { return s.lastStep }

// Scale returns the scale factor of the current step.
func (s *Selector) Scale() float64 { return s.table[s.step] }

// Reset returns to full resolution.
func (s *Selector) Reset() { s.step = 0 }
