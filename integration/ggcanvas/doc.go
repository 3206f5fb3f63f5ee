// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package ggcanvas renders a ggscale surface with gg at the render scale
// chosen by the controller and presents it at full size.
//
// The data flow per frame is:
//
//	gg.Context (render region) -> x/image/draw upscale -> backing store -> GPU texture
//
// # Usage
//
//	reg := surface.NewRegistry()
//	id, _ := reg.Add("viewer", 800, 600)
//	ctrl, _ := ggscale.New(ggscale.WithSurfaces(reg))
//	canvas, _ := ggcanvas.New(reg, id, ggcanvas.WithProvider(app.GPUContextProvider()))
//	defer canvas.Close()
//
//	// once per frame
//	ctrl.Render(ggscale.Now())
//	if redraw, err := canvas.Sync(); err == nil && redraw {
//	    canvas.Draw(func(cc *gg.Context) {
//	        cc.SetRGB(1, 0, 0)
//	        cc.DrawCircle(400, 300, 100) // logical coordinates
//	        cc.Fill()
//	    })
//	}
//	canvas.RenderTo(dc)
//
// # Thread Safety
//
// Canvas is NOT safe for concurrent use. The surface registry it reads
// from is.
package ggcanvas
