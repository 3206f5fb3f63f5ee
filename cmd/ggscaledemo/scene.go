package main

import (
	"math"

	"github.com/gogpu/gg"
)

// scene is an animated test pattern. Every layer fills most of the surface,
// so its cost grows with the render region's pixel count and with load.
type scene struct {
	load int
}

func newScene(load int) *scene {
	return &scene{load: max(load, 1)}
}

func (s *scene) draw(dc *gg.Context, w, h int, ts float64) {
	fw, fh := float64(w), float64(h)
	phase := ts / 1000

	dc.ClearWithColor(gg.RGB(0.08, 0.09, 0.12))

	for i := range s.load {
		t := phase + float64(i)*0.37
		cx := fw/2 + math.Cos(t*0.9)*fw/4
		cy := fh/2 + math.Sin(t*1.3)*fh/4
		r := math.Min(fw, fh) * (0.35 + 0.1*math.Sin(t))

		dc.SetRGBA(0.5+0.5*math.Sin(t), 0.5+0.5*math.Sin(t+2.1), 0.5+0.5*math.Sin(t+4.2), 0.35)
		dc.DrawCircle(cx, cy, r)
		dc.Fill()
	}

	// A fixed grid makes resolution changes easy to see.
	dc.SetRGBA(1, 1, 1, 0.6)
	for x := 0.0; x <= fw; x += 40 {
		dc.DrawRectangle(x, 0, 1, fh)
	}
	for y := 0.0; y <= fh; y += 40 {
		dc.DrawRectangle(0, y, fw, 1)
	}
	dc.Fill()

	dc.SetRGB(0.95, 0.75, 0.2)
	dc.DrawRoundedRectangle(16, 16, 160, 24, 6)
	dc.Fill()
}
