// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package trace

import (
	"github.com/gogpu/ggscale"
)

// Recorder receives every plan produced during a replay.
type Recorder interface {
	OnPlan(p ggscale.RenderPlan)
	Close() error
}

// Summary aggregates one replay.
type Summary struct {
	Trace       string
	Frames      int
	DurationMs  float64
	StepChanges int
	FinalStep   int
	MaxStep     int
	MeanScale   float64
	// DownscaledFrames counts frames rendered below full resolution.
	DownscaledFrames int
}

// Replay ticks a fresh controller built from opts through every frame of
// t, starting at timestamp 0. rec may be nil.
func Replay(t Trace, rec Recorder, opts ...ggscale.Option) (Summary, error) {
	opts = append([]ggscale.Option{ggscale.WithStartTime(0)}, opts...)
	c, err := ggscale.New(opts...)
	if err != nil {
		return Summary{}, err
	}
	defer c.Close()

	return ReplayWith(c, t, 0, rec), nil
}

// ReplayWith ticks c through t with timestamps accumulated from start.
// Frames go through Render, so an attached registry is laid out too.
func ReplayWith(c *ggscale.Controller, t Trace, start float64, rec Recorder) Summary {
	s := Summary{Trace: t.Name, Frames: t.Len(), DurationMs: t.Duration()}
	var scaleSum float64
	for _, ts := range t.Timestamps(start) {
		p := c.Render(ts)
		if rec != nil {
			rec.OnPlan(p)
		}
		if p.Changed {
			s.StepChanges++
		}
		if p.Step > s.MaxStep {
			s.MaxStep = p.Step
		}
		if p.Downscaled() {
			s.DownscaledFrames++
		}
		scaleSum += p.Scale
	}
	s.FinalStep = c.Step()
	if s.Frames > 0 {
		s.MeanScale = scaleSum / float64(s.Frames)
	}
	return s
}
