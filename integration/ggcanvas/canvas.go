// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package ggcanvas

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"

	"golang.org/x/image/draw"

	"github.com/gogpu/gg"
	"github.com/gogpu/ggscale"
	"github.com/gogpu/ggscale/surface"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// Common errors returned by Canvas operations.
var (
	// ErrCanvasClosed is returned when operations are attempted on a closed canvas.
	ErrCanvasClosed = errors.New("ggcanvas: canvas is closed")

	// ErrNilRegistry is returned when New is given a nil registry.
	ErrNilRegistry = errors.New("ggcanvas: nil surface registry")

	// ErrNotLaidOut is returned when the surface has no geometry yet.
	// Call Registry.Apply (or Controller.Render) first.
	ErrNotLaidOut = errors.New("ggcanvas: surface has not been laid out")
)

// Quality selects the filter used to upscale the render region to the
// backing store.
type Quality int

const (
	// QualityBilinear is a fast bilinear approximation. Default.
	QualityBilinear Quality = iota
	// QualityNearest keeps hard pixel edges.
	QualityNearest
	// QualityCatmullRom is the sharpest and slowest filter.
	QualityCatmullRom
)

func (q Quality) scaler() draw.Scaler {
	switch q {
	case QualityNearest:
		return draw.NearestNeighbor
	case QualityCatmullRom:
		return draw.CatmullRom
	default:
		return draw.ApproxBiLinear
	}
}

// String returns the filter name.
func (q Quality) String() string {
	switch q {
	case QualityNearest:
		return "nearest"
	case QualityCatmullRom:
		return "catmull-rom"
	default:
		return "bilinear"
	}
}

// Option configures a Canvas.
type Option func(*Canvas)

// WithQuality sets the upscaling filter.
func WithQuality(q Quality) Option {
	return func(c *Canvas) {
		c.quality = q
	}
}

// WithProvider attaches the GPU device provider of the host window.
// Without one the canvas is headless: Compose still works, RenderTo needs
// only a TextureDrawer.
func WithProvider(p gpucontext.DeviceProvider) Option {
	return func(c *Canvas) {
		c.provider = p
	}
}

// textureDestroyer matches gogpu.Texture.Destroy.
type textureDestroyer interface {
	Destroy()
}

// Canvas renders one registered surface at its current render scale.
//
// Drawing happens in logical coordinates on a gg.Context sized to the
// surface's render region. Compose upscales that region into a backing
// store sized round(logical*dpr), and RenderTo presents the backing store
// through a gpucontext.TextureDrawer.
//
// Canvas is NOT safe for concurrent use.
type Canvas struct {
	reg      *surface.Registry
	id       surface.ID
	provider gpucontext.DeviceProvider
	quality  Quality

	ctx     *gg.Context
	backing *image.RGBA
	geom    surface.Surface

	texture     gpucontext.Texture
	sizeChanged bool // backing size changed, texture must be recreated
	drawn       bool // content changed since the last compose
	composed    bool // backing holds content not yet uploaded
	closed      bool
}

// New creates a Canvas for surface id of reg.
func New(reg *surface.Registry, id surface.ID, opts ...Option) (*Canvas, error) {
	if reg == nil {
		return nil, ErrNilRegistry
	}
	if _, ok := reg.Get(id); !ok {
		return nil, &surface.NotFoundError{ID: id}
	}

	c := &Canvas{reg: reg, id: id}
	for _, opt := range opts {
		opt(c)
	}

	if c.provider != nil {
		info := c.provider.AdapterInfo()
		ggscale.Logger().Info("ggcanvas: attached to GPU",
			"adapter", info.Name, "type", info.Type.String(),
			"surface_format", c.provider.SurfaceFormat().String())
	}
	return c, nil
}

// MustNew is like New but panics on error.
func MustNew(reg *surface.Registry, id surface.ID, opts ...Option) *Canvas {
	c, err := New(reg, id, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// Headless reports whether the canvas has no presentable GPU surface.
func (c *Canvas) Headless() bool {
	return c.provider == nil || c.provider.SurfaceFormat() == gputypes.TextureFormatUndefined
}

// Sync pulls the surface geometry from the registry and reallocates the
// render context and backing store when it changed. It reports whether
// the surface needs to be redrawn, consuming the registry's dirty flag.
func (c *Canvas) Sync() (bool, error) {
	if c.closed {
		return false, ErrCanvasClosed
	}
	s, ok := c.reg.Get(c.id)
	if !ok {
		return false, &surface.NotFoundError{ID: c.id}
	}
	if s.RenderWidth <= 0 || s.RenderHeight <= 0 || s.BackingWidth <= 0 || s.BackingHeight <= 0 {
		return false, fmt.Errorf("%w: %s", ErrNotLaidOut, s.ID)
	}

	redraw := c.reg.TakeDirty(c.id)
	if c.ctx == nil {
		c.ctx = gg.NewContext(s.RenderWidth, s.RenderHeight)
		redraw = true
	} else if c.ctx.Width() != s.RenderWidth || c.ctx.Height() != s.RenderHeight {
		if err := c.ctx.Resize(s.RenderWidth, s.RenderHeight); err != nil {
			return false, fmt.Errorf("ggcanvas: context resize failed: %w", err)
		}
		redraw = true
	}

	if c.backing == nil || c.backing.Rect.Dx() != s.BackingWidth || c.backing.Rect.Dy() != s.BackingHeight {
		c.backing = image.NewRGBA(image.Rect(0, 0, s.BackingWidth, s.BackingHeight))
		c.sizeChanged = true
		redraw = true
	}

	c.geom = s
	return redraw, nil
}

// Draw calls fn with the render context, scaled so that fn draws in the
// surface's logical coordinates. Sync must have succeeded at least once.
func (c *Canvas) Draw(fn func(cc *gg.Context)) error {
	if c.closed {
		return ErrCanvasClosed
	}
	if c.ctx == nil {
		return ErrNotLaidOut
	}
	sx := float64(c.ctx.Width()) / float64(c.geom.Width)
	sy := float64(c.ctx.Height()) / float64(c.geom.Height)

	c.ctx.Push()
	c.ctx.Identity()
	c.ctx.Scale(sx, sy)
	fn(c.ctx)
	c.ctx.Pop()

	c.drawn = true
	return nil
}

// Compose upscales the render region into the backing store and returns
// it. The backing store is reused between frames; callers must not keep it
// across a Sync that changes the surface size.
func (c *Canvas) Compose() (*image.RGBA, error) {
	if c.closed {
		return nil, ErrCanvasClosed
	}
	if c.ctx == nil || c.backing == nil {
		return nil, ErrNotLaidOut
	}
	if !c.drawn {
		return c.backing, nil
	}

	// Errors are non-fatal: CPU-rendered content is still in the pixmap.
	_ = c.ctx.FlushGPU()

	src := c.ctx.ResizeTarget().ToImage()
	dst := c.backing
	if src.Rect.Size() == dst.Rect.Size() {
		draw.Draw(dst, dst.Rect, src, image.Point{}, draw.Src)
	} else {
		c.quality.scaler().Scale(dst, dst.Rect, src, src.Rect, draw.Src, nil)
	}

	c.drawn = false
	c.composed = true
	return dst, nil
}

// Context returns the render context, or nil before the first Sync or
// after Close. Prefer Draw, which sets up the logical transform.
func (c *Canvas) Context() *gg.Context {
	if c.closed {
		return nil
	}
	return c.ctx
}

// Surface returns the geometry from the last Sync.
func (c *Canvas) Surface() surface.Surface {
	return c.geom
}

// ID returns the surface ID the canvas renders.
func (c *Canvas) ID() surface.ID {
	return c.id
}

// Quality returns the upscaling filter.
func (c *Canvas) Quality() Quality {
	return c.quality
}

// SavePNG composes and writes the backing store to path.
func (c *Canvas) SavePNG(path string) error {
	img, err := c.Compose()
	if err != nil {
		return err
	}
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Close releases all resources associated with the Canvas.
// Close is idempotent.
func (c *Canvas) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true

	if c.texture != nil {
		if d, ok := c.texture.(textureDestroyer); ok {
			d.Destroy()
		}
		c.texture = nil
	}
	if c.ctx != nil {
		_ = c.ctx.Close()
		c.ctx = nil
	}
	c.backing = nil
	c.provider = nil
	return nil
}
