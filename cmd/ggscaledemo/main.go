// Command ggscaledemo draws an animated gg scene whose render resolution is
// adapted by ggscale to keep the frame rate up.
//
// Usage:
//
//	ggscaledemo -load 40
//	ggscaledemo -headless -ticks 600 -snapshot frame.png -v
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/gogpu/ggscale"
	"github.com/gogpu/ggscale/integration/ggcanvas"
)

type demoConfig struct {
	Headless bool
	Hz       int
	Ticks    uint64
	Width    int
	Height   int
	DPR      float64
	Load     int
	MinScale float64
	Quality  ggcanvas.Quality
	Snapshot string
}

func main() {
	var cfg demoConfig
	var quality string
	var verbose bool
	flag.BoolVar(&cfg.Headless, "headless", false, "Run without a window.")
	flag.IntVar(&cfg.Hz, "hz", 60, "Target refresh rate.")
	flag.Uint64Var(&cfg.Ticks, "ticks", 0, "Stop after N ticks in headless mode (0 = run until interrupted).")
	flag.IntVar(&cfg.Width, "width", 800, "Logical surface width.")
	flag.IntVar(&cfg.Height, "height", 600, "Logical surface height.")
	flag.Float64Var(&cfg.DPR, "dpr", 2, "Device pixel ratio in headless mode.")
	flag.IntVar(&cfg.Load, "load", 24, "Full-surface layers drawn per frame.")
	flag.Float64Var(&cfg.MinScale, "min-scale", 0, "Lowest render scale (0 = default).")
	flag.StringVar(&quality, "quality", "bilinear", "Upscale filter: nearest, bilinear or catmull-rom.")
	flag.StringVar(&cfg.Snapshot, "snapshot", "", "Write the last headless frame to this PNG file.")
	flag.BoolVar(&verbose, "v", false, "Debug logging.")
	flag.Parse()

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	ggscale.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	q, err := parseQuality(quality)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	cfg.Quality = q

	if cfg.Headless {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := runHeadless(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	if err := runWindow(cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func parseQuality(s string) (ggcanvas.Quality, error) {
	for _, q := range []ggcanvas.Quality{ggcanvas.QualityNearest, ggcanvas.QualityBilinear, ggcanvas.QualityCatmullRom} {
		if q.String() == s {
			return q, nil
		}
	}
	return 0, fmt.Errorf("unknown quality %q", s)
}
