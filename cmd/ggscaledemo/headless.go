package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/ggscale"
)

// runHeadless drives the demo from a ticker instead of a window.
func runHeadless(ctx context.Context, cfg demoConfig) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 60
	}
	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("invalid headless hz: %d", cfg.Hz)
	}

	app, err := newDemoApp(cfg)
	if err != nil {
		return err
	}
	defer app.close()

	win := gpucontext.NullWindowProvider{W: cfg.Width, H: cfg.Height, SF: cfg.DPR}
	if err := app.reg.SyncWindow(app.id, win); err != nil {
		return err
	}

	t := time.NewTicker(d)
	defer t.Stop()

	defer func() {
		ggscale.Logger().Info("headless run finished", "stats", app.summary())
	}()

	var tick uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			if _, err := app.frame(ggscale.Now()); err != nil {
				return err
			}
			tick++
			if cfg.Ticks > 0 && tick >= cfg.Ticks {
				if cfg.Snapshot != "" {
					return app.canvas.SavePNG(cfg.Snapshot)
				}
				return nil
			}
		}
	}
}
