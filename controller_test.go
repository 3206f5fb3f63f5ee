// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package ggscale

import (
	"errors"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/gogpu/ggscale/surface"
)

// feeder ticks a controller with a constant delta on a synthetic timeline.
type feeder struct {
	c   *Controller
	now float64
}

func newFeeder(t *testing.T, opts ...Option) *feeder {
	t.Helper()
	c, err := New(append([]Option{WithStartTime(0)}, opts...)...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return &feeder{c: c}
}

func (f *feeder) tick(delta float64) RenderPlan {
	f.now += delta
	return f.c.Tick(f.now)
}

func (f *feeder) render(delta float64) RenderPlan {
	f.now += delta
	return f.c.Render(f.now)
}

// downTo ticks with slow frames until the controller reaches step.
func (f *feeder) downTo(t *testing.T, step int) {
	t.Helper()
	for range 1000 {
		if f.c.Step() == step {
			return
		}
		f.tick(40)
	}
	t.Fatalf("never reached step %d (at %d)", step, f.c.Step())
}

func TestControllerInitialState(t *testing.T) {
	f := newFeeder(t)
	c := f.c
	if c.Step() != 0 || c.Scale() != 1 {
		t.Errorf("initial step %d scale %v", c.Step(), c.Scale())
	}
	if c.Average() != 22 {
		t.Errorf("initial avg = %v, want 22", c.Average())
	}
	if c.LastStep() != 3 || c.MinScale() != 0.5 {
		t.Errorf("LastStep %d MinScale %v", c.LastStep(), c.MinScale())
	}
	if !strings.Contains(c.String(), "step=0/3") {
		t.Errorf("String() = %q", c.String())
	}
}

func TestControllerStepInvariant(t *testing.T) {
	for _, minScale := range []float64{1, 0.79, 0.5, 0.25} {
		f := newFeeder(t, WithMinScale(minScale))
		rng := rand.New(rand.NewPCG(1, uint64(minScale*100)))
		for i := range 5000 {
			p := f.tick(rng.Float64() * 60)
			if p.Step < 0 || p.Step > p.LastStep || p.LastStep > len(DefaultScaleTable())-1 {
				t.Fatalf("min %v tick %d: step %d lastStep %d", minScale, i, p.Step, p.LastStep)
			}
			if p.Step-p.PrevStep > 1 || p.PrevStep-p.Step > 1 {
				t.Fatalf("min %v tick %d: moved %d -> %d", minScale, i, p.PrevStep, p.Step)
			}
		}
	}
}

func TestControllerMidpointSteady(t *testing.T) {
	f := newFeeder(t)
	for i := range 1000 {
		if p := f.tick(22); p.Changed || p.Step != 0 {
			t.Fatalf("tick %d: changed at steady midpoint delta", i)
		}
	}
}

func TestControllerSustainedSlowFrames(t *testing.T) {
	f := newFeeder(t)
	want := 1
	for i := range 2000 {
		p := f.tick(DefaultHighThreshold + 1)
		if !p.Changed {
			continue
		}
		if p.Step != want || p.PrevStep != want-1 {
			t.Fatalf("tick %d: step %d -> %d, want %d -> %d", i, p.PrevStep, p.Step, want-1, want)
		}
		want++
	}
	if f.c.Step() != f.c.LastStep() {
		t.Errorf("final step %d, want lastStep %d", f.c.Step(), f.c.LastStep())
	}
	if want-1 != 3 {
		t.Errorf("saw %d step increases, want 3", want-1)
	}
}

func TestControllerSustainedFastFrames(t *testing.T) {
	f := newFeeder(t)
	f.downTo(t, 3)

	prev := f.c.Step()
	for i := range 2000 {
		p := f.tick(DefaultLowThreshold - 1)
		if p.Step > prev {
			t.Fatalf("tick %d: step rose %d -> %d on fast frames", i, prev, p.Step)
		}
		prev = p.Step
	}
	if f.c.Step() != 0 {
		t.Errorf("final step %d, want 0", f.c.Step())
	}
}

func TestControllerResetAfterChange(t *testing.T) {
	f := newFeeder(t)
	var p RenderPlan
	for !p.Changed {
		p = f.tick(40)
	}
	if p.Average != 22 || f.c.Average() != 22 {
		t.Fatalf("avg after change = %v, want 22", p.Average)
	}

	// The worst delta moves avg by MaxChange, not past the threshold.
	next := f.tick(250)
	if next.Changed {
		t.Error("tick right after a change changed the step again")
	}
	if next.Average != 24 {
		t.Errorf("avg = %v, want 24", next.Average)
	}
}

func TestControllerExampleScenario(t *testing.T) {
	tests := []struct {
		name     string
		delta    float64
		changeAt int
		avgs     []float64
	}{
		{"delta 30", 30, 4, []float64{23.6, 24.88, 25.904}},
		{"delta 40 clamped", 40, 3, []float64{24, 26}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFeeder(t)
			for i := 1; i <= tt.changeAt; i++ {
				p := f.tick(tt.delta)
				if i < tt.changeAt {
					if p.Changed {
						t.Fatalf("tick %d: unexpected change", i)
					}
					if !approx(p.Average, tt.avgs[i-1]) {
						t.Fatalf("tick %d: avg = %v, want %v", i, p.Average, tt.avgs[i-1])
					}
					continue
				}
				if !p.Changed || p.Step != 1 {
					t.Fatalf("tick %d: changed=%v step=%d, want step 1", i, p.Changed, p.Step)
				}
				if p.Average != 22 {
					t.Errorf("avg after change = %v, want 22", p.Average)
				}
			}
		})
	}
}

func TestControllerDeltaClamp(t *testing.T) {
	f := newFeeder(t)

	p := f.c.Tick(-50)
	if p.RawDelta != -50 || p.Delta != 0 {
		t.Errorf("negative delta: raw %v clamped %v", p.RawDelta, p.Delta)
	}
	p = f.c.Tick(2000)
	if p.Delta != DefaultMaxFrameDelta {
		t.Errorf("huge delta clamped to %v, want %v", p.Delta, DefaultMaxFrameDelta)
	}
	// 22 -> 20 on the zero delta, then back up by MaxChange.
	if p.Average != 22 {
		t.Errorf("avg = %v, want 22", p.Average)
	}
	if got := f.c.Stats().ClampedDeltas; got != 2 {
		t.Errorf("ClampedDeltas = %d, want 2", got)
	}

	noCap := newFeeder(t, WithMaxFrameDelta(0))
	if p := noCap.tick(5000); p.Delta != 5000 {
		t.Errorf("uncapped delta = %v, want 5000", p.Delta)
	}
}

func TestControllerSetMinScale(t *testing.T) {
	f := newFeeder(t, WithMinScale(0.25))
	f.downTo(t, 5)

	if err := f.c.SetMinScale(0.62); err != nil {
		t.Fatalf("SetMinScale() error = %v", err)
	}
	if f.c.LastStep() != 2 || f.c.MinScale() != 0.62 {
		t.Fatalf("LastStep %d MinScale %v", f.c.LastStep(), f.c.MinScale())
	}
	if f.c.Step() != 5 {
		t.Error("SetMinScale moved the step before the next tick")
	}
	p := f.tick(22)
	if !p.Changed || p.Step != 2 {
		t.Errorf("next tick: changed=%v step=%d, want step 2", p.Changed, p.Step)
	}

	if err := f.c.SetMinScale(0); !errors.Is(err, ErrInvalidMinScale) {
		t.Errorf("SetMinScale(0) = %v, want ErrInvalidMinScale", err)
	}
}

func TestControllerOnScaleChange(t *testing.T) {
	var got []RenderPlan
	f := newFeeder(t, WithOnScaleChange(func(p RenderPlan) { got = append(got, p) }))
	f.downTo(t, 2)
	if len(got) != 2 {
		t.Fatalf("callback ran %d times, want 2", len(got))
	}
	for i, p := range got {
		if !p.Changed || p.Step != i+1 {
			t.Errorf("callback %d: changed=%v step=%d", i, p.Changed, p.Step)
		}
	}
}

func TestControllerPauseResume(t *testing.T) {
	// Host timestamps only, no clock: paused ticks keep the timer current.
	c := MustNew(WithStartTime(10000))
	defer c.Close()

	now := 10000.0
	for range 5 {
		now += 16
		c.Tick(now)
	}
	c.Pause()
	if !c.Paused() {
		t.Fatal("Paused() = false after Pause")
	}

	avg := c.Average()
	for range 20 {
		now += 16
		if p := c.Tick(now); !p.Idle {
			t.Fatal("tick while paused was not idle")
		}
	}
	if c.Average() != avg {
		t.Error("average moved while paused")
	}

	c.Resume()
	now += 16
	p := c.Tick(now)
	if p.Idle || p.RawDelta != 16 || p.Delta != 16 {
		t.Errorf("first tick after Resume: idle=%v raw=%v delta=%v, want 16", p.Idle, p.RawDelta, p.Delta)
	}
	st := c.Stats()
	if st.ClampedDeltas != 0 || st.IdleFrames != 20 || st.Frames != 6 {
		t.Errorf("stats = %+v", st)
	}
}

func TestControllerResumeWithoutPausedTicks(t *testing.T) {
	c := MustNew(WithStartTime(0))
	defer c.Close()

	c.Tick(16)
	c.Pause()
	avg := c.Average()
	c.Resume()

	p := c.Tick(9016)
	if !p.Idle || p.RawDelta != 9000 {
		t.Errorf("first tick after a silent pause: idle=%v raw=%v, want idle 9000", p.Idle, p.RawDelta)
	}
	if c.Average() != avg {
		t.Error("pause gap moved the average")
	}

	p = c.Tick(9032)
	if p.Idle || p.Delta != 16 {
		t.Errorf("second tick: idle=%v delta=%v, want 16", p.Idle, p.Delta)
	}
	if st := c.Stats(); st.ClampedDeltas != 0 {
		t.Errorf("ClampedDeltas = %d, want 0", st.ClampedDeltas)
	}
}

func TestControllerReset(t *testing.T) {
	reg := surface.NewRegistry()
	id, _ := reg.Add("main", 100, 100)
	f := newFeeder(t, WithSurfaces(reg))
	for f.c.Step() < 2 {
		f.render(40)
	}

	if err := f.c.Reset(f.now); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	if f.c.Step() != 0 || f.c.Average() != 22 {
		t.Errorf("after Reset: step %d avg %v", f.c.Step(), f.c.Average())
	}
	if s, _ := reg.Get(id); s.Scale != 1 || s.RenderWidth != 100 {
		t.Errorf("surface after Reset: scale %v render %d", s.Scale, s.RenderWidth)
	}
	if p := f.tick(16); p.RawDelta != 16 {
		t.Errorf("delta after Reset = %v, want 16", p.RawDelta)
	}
}

func TestControllerClose(t *testing.T) {
	c := MustNew(WithStartTime(0), WithSurfaces(surface.NewRegistry()))
	if err := c.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if p := c.Tick(16); !p.Idle {
		t.Error("tick after Close was not idle")
	}
	if p := c.Render(32); !p.Idle || p.Layout != nil {
		t.Error("render after Close was not idle")
	}
	if c.Surfaces() != nil {
		t.Error("Close did not detach the registry")
	}
	if err := c.SetMinScale(0.5); !errors.Is(err, ErrClosed) {
		t.Errorf("SetMinScale after Close = %v, want ErrClosed", err)
	}
	if err := c.Reset(0); !errors.Is(err, ErrClosed) {
		t.Errorf("Reset after Close = %v, want ErrClosed", err)
	}
}

func TestControllerRenderAppliesLayout(t *testing.T) {
	reg := surface.NewRegistry()
	id, _ := reg.Add("main", 800, 600)
	if err := reg.SetDevicePixelRatio(2); err != nil {
		t.Fatal(err)
	}
	f := newFeeder(t, WithSurfaces(reg))

	p := f.render(16)
	if p.Layout == nil {
		t.Fatal("first Render did not lay out the registry")
	}
	if p.Layout.BackingWidth != 1600 || p.Layout.BackingHeight != 1200 {
		t.Errorf("backing = %dx%d, want 1600x1200", p.Layout.BackingWidth, p.Layout.BackingHeight)
	}
	if p := f.render(16); p.Layout != nil {
		t.Error("Render re-applied an unchanged layout")
	}

	for !p.Changed {
		p = f.render(40)
	}
	if p.Layout == nil || p.Layout.Scale != 0.79 {
		t.Fatalf("layout after step change = %+v", p.Layout)
	}
	s, _ := reg.Get(id)
	if s.RenderWidth != 1264 || s.RenderHeight != 948 {
		t.Errorf("render size = %dx%d, want 1264x948", s.RenderWidth, s.RenderHeight)
	}
	if s.BackingWidth != 1600 {
		t.Errorf("backing width changed with scale: %d", s.BackingWidth)
	}

	// A resize between step changes is picked up on the next frame.
	_ = reg.Resize(id, 400, 300)
	if p := f.render(22); p.Layout == nil || p.Layout.BackingWidth != 800 {
		t.Errorf("resize not applied: %+v", p.Layout)
	}
}

func TestControllerRenderIdleWhenHidden(t *testing.T) {
	reg := surface.NewRegistry()
	id, _ := reg.Add("main", 100, 100)
	_ = reg.SetVisible(id, false)
	f := newFeeder(t, WithSurfaces(reg))

	for range 100 {
		if p := f.render(100); !p.Idle {
			t.Fatal("Render with no visible surface was not idle")
		}
	}
	if f.c.Step() != 0 || f.c.Average() != 22 {
		t.Error("hidden frames reached the estimator")
	}

	_ = reg.SetVisible(id, true)
	if p := f.render(16); p.Idle || p.RawDelta != 16 || p.Layout == nil {
		t.Errorf("first visible frame: %v", p)
	}
	st := f.c.Stats()
	if st.IdleFrames != 100 || st.Frames != 1 {
		t.Errorf("stats = %+v", st)
	}
}

func TestControllerStats(t *testing.T) {
	f := newFeeder(t)
	for _, d := range []float64{10, 30, 20} {
		f.tick(d)
	}
	st := f.c.Stats()
	if st.Frames != 3 || st.MinDelta != 10 || st.MaxDelta != 30 || st.LastDelta != 20 {
		t.Errorf("stats = %+v", st)
	}
	if !approx(st.Average, f.c.Average()) {
		t.Errorf("stats avg %v != controller avg %v", st.Average, f.c.Average())
	}
	if fps := (Stats{Average: 20}).AverageFPS(); fps != 50 {
		t.Errorf("AverageFPS = %v, want 50", fps)
	}
	if fps := (Stats{}).AverageFPS(); fps != 0 {
		t.Errorf("zero AverageFPS = %v", fps)
	}
}

func TestRenderPlanString(t *testing.T) {
	p := RenderPlan{Step: 1, PrevStep: 0, LastStep: 3, Scale: 0.79, Changed: true}
	s := p.String()
	if !strings.Contains(s, "step=1/3") || !strings.Contains(s, "(from 0)") {
		t.Errorf("String() = %q", s)
	}
	if !p.Downscaled() {
		t.Error("Downscaled() = false at step 1")
	}
	if !strings.Contains(RenderPlan{Idle: true}.String(), "idle") {
		t.Error("idle plan String() missing idle marker")
	}
}
