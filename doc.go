// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package ggscale adapts render resolution to frame time.
//
// A Controller is ticked once per displayed frame. It measures the time
// since the previous frame, keeps a smoothed estimate of frame duration,
// and walks a table of scale factors one step at a time: down when frames
// are slow, back up when they are fast again.
//
// # Algorithm
//
// For each frame delta (clamped to [0, MaxFrameDelta]):
//
//	avg += clamp(Decay*(delta-avg), -MaxChange, +MaxChange)
//	if avg > HighThreshold && step < lastStep { step++ }
//	else if avg < LowThreshold && step > 0    { step-- }
//
// After a step change avg is reset to the threshold midpoint. With the
// defaults (18ms / 26ms, MaxChange 2ms) this means a single frame can
// never trigger two consecutive changes. lastStep is the last entry of the
// scale table that is still >= MinScale.
//
// # Quick Start
//
//	reg := surface.NewRegistry()
//	id, _ := reg.Add("viewer", 800, 600)
//
//	ctrl, err := ggscale.New(
//	    ggscale.WithSurfaces(reg),
//	    ggscale.WithMinScale(0.4),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer ctrl.Close()
//
//	// in the host's per-frame callback:
//	plan := ctrl.Render(ggscale.Now())
//	if plan.Changed {
//	    log.Printf("rendering at %.0f%%", plan.Scale*100)
//	}
//
// Tick is the pure decision step and touches no surface; Render also
// applies the plan to the attached surface registry. Use Tick directly
// when the host manages its own render targets.
//
// # Sub-packages
//
//   - surface: surface registry and shared canvas layout
//   - integration/ggcanvas: gg rendering at the selected scale, upscaled
//     with golang.org/x/image and presented through gpucontext
//
// # Logging
//
// ggscale is silent by default. See SetLogger.
//
// # Thread Safety
//
// Controller is not safe for concurrent use; drive it from one render
// loop. surface.Registry is safe for concurrent use.
package ggscale

// Version is the ggscale library version.
const Version = "0.3.0"
