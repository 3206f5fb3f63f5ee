package main

import (
	"image"
	"math"

	"github.com/gogpu/gpucontext"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/gogpu/ggscale"
)

// runWindow opens a resizable window and blocks until it closes.
func runWindow(cfg demoConfig) error {
	app, err := newDemoApp(cfg)
	if err != nil {
		return err
	}
	defer app.close()

	g := &hostGame{app: app}
	ebiten.SetWindowTitle("ggscale demo")
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if cfg.Hz > 0 {
		ebiten.SetTPS(cfg.Hz)
	}
	err = ebiten.RunGame(g)
	ggscale.Logger().Info("window closed", "stats", app.summary(), "ebiten_fps", ebiten.ActualFPS())
	return err
}

type hostGame struct {
	app   *demoApp
	fbImg *ebiten.Image
	fbW   int
	fbH   int
}

func (g *hostGame) Update() error {
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	img, err := g.app.frame(ggscale.Now())
	if err != nil {
		ggscale.Logger().Warn("frame failed", "err", err)
		return
	}
	if img != nil {
		g.upload(img)
	}
	if g.fbImg == nil {
		return
	}

	op := &ebiten.DrawImageOptions{}
	sb := screen.Bounds()
	if sb.Dx() != g.fbW || sb.Dy() != g.fbH {
		op.GeoM.Scale(float64(sb.Dx())/float64(g.fbW), float64(sb.Dy())/float64(g.fbH))
	}
	screen.DrawImage(g.fbImg, op)
}

func (g *hostGame) upload(img *image.RGBA) {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if g.fbImg == nil || g.fbW != w || g.fbH != h {
		if g.fbImg != nil {
			g.fbImg.Deallocate()
		}
		g.fbImg = ebiten.NewImage(w, h)
		g.fbW, g.fbH = w, h
	}
	g.fbImg.WritePixels(img.Pix)
}

// Layout reports the window's logical size and pixel ratio to the
// registry and renders the screen at device resolution.
func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	dpr := 1.0
	if m := ebiten.Monitor(); m != nil {
		dpr = m.DeviceScaleFactor()
	}
	win := gpucontext.NullWindowProvider{W: outsideWidth, H: outsideHeight, SF: dpr}
	if err := g.app.reg.SyncWindow(g.app.id, win); err != nil {
		ggscale.Logger().Warn("window sync failed", "err", err)
	}
	return int(math.Round(float64(outsideWidth) * dpr)), int(math.Round(float64(outsideHeight) * dpr))
}
