// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import "math"

// ceilSlack absorbs float error such as 1600*0.79 = 1264.0000000000002,
// which would otherwise round up to an extra pixel.
const ceilSlack = 1e-9

// Layout is the geometry of all surfaces sharing one physical canvas.
type Layout struct {
	// DevicePixelRatio and Scale are the inputs the layout was computed for.
	DevicePixelRatio float64
	Scale            float64

	// Width and Height are the shared canvas logical size: the maximum
	// width and height over visible surfaces (over all surfaces when none
	// is visible).
	Width  int
	Height int

	// BackingWidth and BackingHeight size the shared backing store.
	BackingWidth  int
	BackingHeight int

	// CSSWidth and CSSHeight size the shared canvas element before its
	// scale(Scale) display transform.
	CSSWidth  float64
	CSSHeight float64

	// Surfaces holds the per-surface geometry in input order.
	Surfaces []Surface
}

// ComputeLayout lays out surfaces for a device pixel ratio and a render
// scale. It is pure: the input slice is not modified, and Dirty flags in
// the result are copied from the input.
//
// Non-positive dpr or scale are treated as 1.
func ComputeLayout(surfaces []Surface, dpr, scale float64) Layout {
	if dpr <= 0 {
		dpr = 1
	}
	if scale <= 0 {
		scale = 1
	}

	l := Layout{DevicePixelRatio: dpr, Scale: scale}
	anyVisible := false
	for _, s := range surfaces {
		if s.Visible {
			anyVisible = true
			break
		}
	}
	for _, s := range surfaces {
		if anyVisible && !s.Visible {
			continue
		}
		l.Width = max(l.Width, s.Width)
		l.Height = max(l.Height, s.Height)
	}
	l.BackingWidth = roundPixels(float64(l.Width) * dpr)
	l.BackingHeight = roundPixels(float64(l.Height) * dpr)
	l.CSSWidth = float64(l.Width) / scale
	l.CSSHeight = float64(l.Height) / scale

	l.Surfaces = make([]Surface, len(surfaces))
	for i, s := range surfaces {
		s.DevicePixelRatio = dpr
		s.Scale = scale
		s.CSSWidth = float64(s.Width) / scale
		s.CSSHeight = float64(s.Height) / scale
		s.BackingWidth = roundPixels(float64(s.Width) * dpr)
		s.BackingHeight = roundPixels(float64(s.Height) * dpr)
		s.RenderWidth = renderPixels(s.Width, dpr, scale, l.BackingWidth)
		s.RenderHeight = renderPixels(s.Height, dpr, scale, l.BackingHeight)
		l.Surfaces[i] = s
	}
	return l
}

// Surface returns the laid-out geometry for id.
func (l Layout) Surface(id ID) (Surface, bool) {
	for _, s := range l.Surfaces {
		if s.ID == id {
			return s, true
		}
	}
	return Surface{}, false
}

func roundPixels(v float64) int {
	return int(math.Round(v))
}

// renderPixels is ceil(logical*dpr*scale), capped by the shared backing
// store so stale sizes never overdraw the canvas.
func renderPixels(logical int, dpr, scale float64, shared int) int {
	n := int(math.Ceil(float64(logical)*dpr*scale - ceilSlack))
	return min(n, shared)
}
