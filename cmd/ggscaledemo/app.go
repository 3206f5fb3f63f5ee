package main

import (
	"fmt"
	"image"

	"github.com/gogpu/gg"
	"github.com/gogpu/ggscale"
	"github.com/gogpu/ggscale/integration/ggcanvas"
	"github.com/gogpu/ggscale/surface"
)

// demoApp owns one surface, the controller that scales it and the canvas
// that draws it. Both hosts drive it through frame.
type demoApp struct {
	reg    *surface.Registry
	ctrl   *ggscale.Controller
	canvas *ggcanvas.Canvas
	id     surface.ID
	scene  *scene
	frames uint64
}

func newDemoApp(cfg demoConfig) (*demoApp, error) {
	reg := surface.NewRegistry()
	id, err := reg.Add("main", cfg.Width, cfg.Height)
	if err != nil {
		return nil, err
	}

	opts := []ggscale.Option{
		ggscale.WithSurfaces(reg),
		ggscale.WithConfig(ggscale.ConfigForRefreshRate(float64(cfg.Hz))),
		ggscale.WithOnScaleChange(func(p ggscale.RenderPlan) {
			ggscale.Logger().Info("render scale changed",
				"from", p.PrevStep, "to", p.Step, "scale", p.Scale, "avg_ms", p.Average)
		}),
	}
	if cfg.MinScale > 0 {
		opts = append(opts, ggscale.WithMinScale(cfg.MinScale))
	}
	ctrl, err := ggscale.New(opts...)
	if err != nil {
		return nil, err
	}

	canvas, err := ggcanvas.New(reg, id, ggcanvas.WithQuality(cfg.Quality))
	if err != nil {
		_ = ctrl.Close()
		return nil, err
	}

	return &demoApp{
		reg:    reg,
		ctrl:   ctrl,
		canvas: canvas,
		id:     id,
		scene:  newScene(cfg.Load),
	}, nil
}

// frame advances the controller to ts, redraws the scene at the current
// render scale and returns the composed backing store. It returns nil when
// the controller skipped the frame.
func (a *demoApp) frame(ts float64) (*image.RGBA, error) {
	plan := a.ctrl.Render(ts)
	if plan.Idle {
		return nil, nil
	}
	a.frames++

	if _, err := a.canvas.Sync(); err != nil {
		return nil, err
	}
	// The scene animates, so every frame is redrawn.
	if err := a.canvas.Draw(func(dc *gg.Context) {
		s := a.canvas.Surface()
		a.scene.draw(dc, s.Width, s.Height, ts)
	}); err != nil {
		return nil, err
	}
	return a.canvas.Compose()
}

func (a *demoApp) summary() string {
	st := a.ctrl.Stats()
	return fmt.Sprintf("frames=%d idle=%d changes=%d clamped=%d avg=%.2fms (%.1f fps) step=%d scale=%.2f",
		st.Frames, st.IdleFrames, st.StepChanges, st.ClampedDeltas, st.Average, st.AverageFPS(), st.Step, st.Scale)
}

func (a *demoApp) close() {
	_ = a.canvas.Close()
	_ = a.ctrl.Close()
}
