// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package surface tracks the surfaces that share one physical canvas and
// computes their geometry for a render scale.
//
// A surface has a logical size in CSS/DIP units. For a device pixel ratio
// dpr and a render scale s, ComputeLayout derives:
//
//	backing store  round(logical * dpr)
//	display (CSS)  logical / s, shown through a scale(s) transform
//	render region  min(ceil(logical * dpr * s), shared backing)
//
// The shared canvas is sized to the union (max width, max height) of the
// visible surfaces, so capping each render region by it avoids overdraw
// from stale dimensions during a resize.
//
// # Registry
//
// Registry owns the live surfaces. Hosts add, resize and hide surfaces
// (often from window event callbacks) and the render loop calls Apply once
// the scale is known:
//
//	reg := surface.NewRegistry()
//	id, _ := reg.Add("viewer", 800, 600)
//	_ = reg.SyncWindow(id, window) // gpucontext.WindowProvider
//
//	if reg.NeedsLayout(scale) {
//	    reg.Apply(scale)
//	}
//	if reg.TakeDirty(id) {
//	    // redraw
//	}
//
// # Thread Safety
//
// Registry is safe for concurrent use. Surface values are snapshots.
package surface
