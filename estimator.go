// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package ggscale

// Estimator keeps an exponentially weighted average of frame duration.
// Each update moves the average by at most maxChange milliseconds, so a
// single outlier (GC pause, tab switch) cannot swing it far.
type Estimator struct {
	avg       float64
	decay     float64
	maxChange float64
}

// NewEstimator returns an estimator seeded with initial.
func NewEstimator(initial, decay, maxChange float64) Estimator {
	return Estimator{avg: initial, decay: decay, maxChange: maxChange}
}

// Update folds delta into the average and returns the new average.
func (e *Estimator) Update(delta float64) float64 {
	e.avg += clamp(e.decay*(delta-e.avg), -e.maxChange, e.maxChange)
	return e.avg
}

// Average returns the current smoothed duration.
func (e *Estimator) Average() float64 {
	return e.avg
}

// Reset re-seeds the average.
func (e *Estimator) Reset(avg float64) {
	e.avg = avg
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
