// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package trace

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gogpu/ggscale"
)

// CSVRecorder writes one row per plan.
type CSVRecorder struct {
	c io.Closer
	w *csv.Writer
}

var planHeader = []string{
	"t_ms",
	"delta_ms",
	"avg_ms",
	"step",
	"scale",
	"changed",
	"idle",
}

// NewCSVRecorder creates path (and its directory) and writes the header.
func NewCSVRecorder(path string) (*CSVRecorder, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return nil, err
	}
	r, err := NewCSVRecorderWriter(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return r, nil
}

// NewCSVRecorderWriter writes to w. Close closes w if it is an io.Closer.
func NewCSVRecorderWriter(w io.Writer) (*CSVRecorder, error) {
	r := &CSVRecorder{w: csv.NewWriter(w)}
	if c, ok := w.(io.Closer); ok {
		r.c = c
	}
	if err := r.w.Write(planHeader); err != nil {
		return nil, err
	}
	return r, nil
}

// OnPlan implements Recorder.
func (r *CSVRecorder) OnPlan(p ggscale.RenderPlan) {
	_ = r.w.Write([]string{
		ff(p.Timestamp),
		ff(p.Delta),
		ff(p.Average),
		strconv.Itoa(p.Step),
		ff(p.Scale),
		strconv.FormatBool(p.Changed),
		strconv.FormatBool(p.Idle),
	})
}

// Close flushes buffered rows.
func (r *CSVRecorder) Close() error {
	r.w.Flush()
	err := r.w.Error()
	if r.c != nil {
		if cerr := r.c.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// WriteSummaries writes one CSV row per summary.
func WriteSummaries(w io.Writer, rows []Summary) error {
	cw := csv.NewWriter(w)
	hdr := []string{
		"trace",
		"frames",
		"duration_ms",
		"step_changes",
		"final_step",
		"max_step",
		"mean_scale",
		"downscaled_frames",
	}
	if err := cw.Write(hdr); err != nil {
		return err
	}
	for _, s := range rows {
		if err := cw.Write([]string{
			s.Trace,
			strconv.Itoa(s.Frames),
			ff(s.DurationMs),
			strconv.Itoa(s.StepChanges),
			strconv.Itoa(s.FinalStep),
			strconv.Itoa(s.MaxStep),
			ff(s.MeanScale),
			strconv.Itoa(s.DownscaledFrames),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func ff(v float64) string { return strconv.FormatFloat(v, 'f', 3, 64) }
