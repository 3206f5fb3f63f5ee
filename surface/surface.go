// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"image"

	"github.com/google/uuid"
)

// Surface describes one rendered view: its logical size, where it is
// displayed and how many pixels it is rendered with.
//
// Surface is a value type. The Registry owns the live state and hands out
// copies, so a Surface obtained from the registry is a snapshot.
type Surface struct {
	// ID identifies the surface within its registry.
	ID uuid.UUID

	// Name is a caller-chosen label used in logs.
	Name string

	// Width and Height are the logical (CSS/DIP) dimensions.
	Width  int
	Height int

	// Visible surfaces take part in the shared canvas union and keep the
	// controller adapting. Hidden surfaces are still laid out.
	Visible bool

	// DevicePixelRatio is the physical pixels per logical pixel used for the
	// last layout.
	DevicePixelRatio float64

	// Scale is the render scale factor used for the last layout.
	Scale float64

	// CSSWidth and CSSHeight are the display dimensions, logical/Scale.
	// The host displays them with a scale(Scale) transform, so they occupy
	// the logical size on screen.
	CSSWidth  float64
	CSSHeight float64

	// BackingWidth and BackingHeight are the backing store dimensions,
	// round(logical*DevicePixelRatio).
	BackingWidth  int
	BackingHeight int

	// RenderWidth and RenderHeight bound the region that is actually
	// rendered: ceil(logical*DevicePixelRatio*Scale), capped by the shared
	// canvas backing store.
	RenderWidth  int
	RenderHeight int

	// Dirty is set when the surface needs to be redrawn.
	Dirty bool
}

// LogicalSize returns Width and Height.
func (s Surface) LogicalSize() (width, height int) {
	return s.Width, s.Height
}

// BackingSize returns the backing store dimensions.
func (s Surface) BackingSize() (width, height int) {
	return s.BackingWidth, s.BackingHeight
}

// RenderSize returns the rendered region dimensions.
func (s Surface) RenderSize() (width, height int) {
	return s.RenderWidth, s.RenderHeight
}

// RenderBounds returns the rendered region anchored at the origin.
func (s Surface) RenderBounds() image.Rectangle {
	return image.Rect(0, 0, s.RenderWidth, s.RenderHeight)
}

// sameGeometry reports whether two snapshots would display identically.
func (s Surface) sameGeometry(o Surface) bool {
	return s.DevicePixelRatio == o.DevicePixelRatio &&
		s.Scale == o.Scale &&
		s.CSSWidth == o.CSSWidth && s.CSSHeight == o.CSSHeight &&
		s.BackingWidth == o.BackingWidth && s.BackingHeight == o.BackingHeight &&
		s.RenderWidth == o.RenderWidth && s.RenderHeight == o.RenderHeight
}
