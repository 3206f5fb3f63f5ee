// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package ggcanvas

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
)

// ErrInvalidRenderer is returned when the draw context has no
// gpucontext.TextureCreator.
var ErrInvalidRenderer = errors.New("ggcanvas: draw context has no TextureCreator")

// RenderTo composes the canvas and draws the backing store at (0, 0) of
// dc, uploading it to a GPU texture first when it changed.
//
// The texture is created on first use and recreated when the backing size
// changes; otherwise new content goes through gpucontext.TextureUpdater.
//
// Example:
//
//	app.OnDraw(func(dc *gogpu.Context) {
//	    plan := ctrl.Render(ggscale.Now())
//	    if redraw, _ := canvas.Sync(); redraw {
//	        canvas.Draw(drawScene)
//	    }
//	    canvas.RenderTo(dc.AsTextureDrawer())
//	})
func (c *Canvas) RenderTo(dc gpucontext.TextureDrawer) error {
	return c.RenderToPosition(dc, 0, 0)
}

// RenderToPosition is RenderTo with the top-left corner at (x, y).
func (c *Canvas) RenderToPosition(dc gpucontext.TextureDrawer, x, y float32) error {
	if c.closed {
		return ErrCanvasClosed
	}

	img, err := c.Compose()
	if err != nil {
		return err
	}

	if c.texture == nil || c.sizeChanged {
		creator := dc.TextureCreator()
		if creator == nil {
			return ErrInvalidRenderer
		}
		tex, err := creator.NewTextureFromRGBA(img.Rect.Dx(), img.Rect.Dy(), img.Pix)
		if err != nil {
			return fmt.Errorf("ggcanvas: NewTextureFromRGBA failed: %w", err)
		}
		// NewTextureFromRGBA waits for the GPU, so the old texture is no
		// longer referenced by in-flight work.
		if c.texture != nil {
			if d, ok := c.texture.(textureDestroyer); ok {
				d.Destroy()
			}
		}
		// Pixmap data is premultiplied alpha.
		if pt, ok := tex.(interface{ SetPremultiplied(bool) }); ok {
			pt.SetPremultiplied(true)
		}
		c.texture = tex
		c.sizeChanged = false
		c.composed = false
	} else if c.composed {
		if u, ok := c.texture.(gpucontext.TextureUpdater); ok {
			if err := u.UpdateData(img.Pix); err != nil {
				return fmt.Errorf("ggcanvas: texture update failed: %w", err)
			}
		}
		c.composed = false
	}

	return dc.DrawTexture(c.texture, x, y)
}

// Texture returns the current GPU texture, or nil before the first RenderTo.
func (c *Canvas) Texture() gpucontext.Texture {
	return c.texture
}
