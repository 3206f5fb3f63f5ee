// Command ggscalesim replays frame-delta traces through the ggscale
// controller and reports how the render scale adapts.
//
// Usage:
//
//	ggscalesim -scenario all -out simdata
//	ggscalesim -trace frames.csv -min-scale 0.25 -v
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/gogpu/ggscale"
	"github.com/gogpu/ggscale/internal/trace"
)

func main() {
	var (
		scenarios = flag.String("scenario", "all", "comma-separated builtin scenarios, or all ("+strings.Join(trace.Names(), ", ")+")")
		traceFile = flag.String("trace", "", "CSV trace with a delta_ms or t_ms column (overrides -scenario)")
		cfgFile   = flag.String("config", "", "JSON controller config")
		minScale  = flag.Float64("min-scale", 0, "override the minimum scale (0 keeps the config value)")
		hz        = flag.Float64("hz", 0, "display refresh rate used to derive thresholds (0 = 60 Hz defaults; not allowed with -config)")
		outDir    = flag.String("out", "", "directory for per-frame CSV files (empty disables)")
		parallel  = flag.Int("parallel", runtime.GOMAXPROCS(0), "scenarios replayed concurrently")
		verbose   = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	ggscale.SetLogger(logger)

	cfg, err := loadConfig(*cfgFile, *hz, *minScale)
	if err != nil {
		logger.Error("config", "err", err)
		os.Exit(2)
	}

	traces, err := selectTraces(*traceFile, *scenarios)
	if err != nil {
		logger.Error("traces", "err", err)
		os.Exit(2)
	}

	summaries := make([]trace.Summary, len(traces))
	var g errgroup.Group
	g.SetLimit(max(*parallel, 1))
	for i, tr := range traces {
		g.Go(func() error {
			s, err := replay(tr, cfg, *outDir)
			if err != nil {
				return fmt.Errorf("%s: %w", tr.Name, err)
			}
			summaries[i] = s
			logger.Info("replayed", "trace", s.Trace, "frames", s.Frames,
				"step_changes", s.StepChanges, "final_step", s.FinalStep, "mean_scale", s.MeanScale)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Error("replay failed", "err", err)
		os.Exit(1)
	}

	if err := trace.WriteSummaries(os.Stdout, summaries); err != nil {
		logger.Error("write summary", "err", err)
		os.Exit(1)
	}
}

var errHzWithConfig = errors.New("-hz cannot be combined with -config; set the thresholds in the config file")

func loadConfig(path string, hz, minScale float64) (ggscale.Config, error) {
	if path != "" && hz > 0 {
		return ggscale.Config{}, errHzWithConfig
	}
	cfg := ggscale.ConfigForRefreshRate(hz)
	if path != "" {
		var err error
		if cfg, err = ggscale.LoadConfig(path); err != nil {
			return cfg, err
		}
	}
	if minScale > 0 {
		cfg.MinScale = minScale
	}
	return cfg, cfg.Validate()
}

func selectTraces(file, names string) ([]trace.Trace, error) {
	if file != "" {
		f, err := os.Open(file) //nolint:gosec // path is user-provided intentionally
		if err != nil {
			return nil, err
		}
		defer f.Close()
		name := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
		t, err := trace.ReadCSV(name, f)
		if err != nil {
			return nil, err
		}
		return []trace.Trace{t}, nil
	}

	if names == "all" {
		return trace.Builtin(), nil
	}
	var out []trace.Trace
	for _, n := range strings.Split(names, ",") {
		t, err := trace.Lookup(strings.TrimSpace(n))
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func replay(t trace.Trace, cfg ggscale.Config, outDir string) (trace.Summary, error) {
	var rec trace.Recorder
	if outDir != "" {
		r, err := trace.NewCSVRecorder(filepath.Join(outDir, t.Name+".csv"))
		if err != nil {
			return trace.Summary{}, err
		}
		rec = r
	}
	s, err := trace.Replay(t, rec, ggscale.WithConfig(cfg))
	if rec != nil {
		if cerr := rec.Close(); err == nil {
			err = cerr
		}
	}
	return s, err
}
