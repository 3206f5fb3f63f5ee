// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package trace builds and loads frame-delta traces and replays them
// through a ggscale.Controller.
package trace

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrEmptyTrace is returned when a trace source holds no frames.
var ErrEmptyTrace = errors.New("trace: no frames")

// Trace is a named sequence of frame deltas in milliseconds.
type Trace struct {
	Name   string
	Deltas []float64
}

// Len returns the number of frames.
func (t Trace) Len() int { return len(t.Deltas) }

// Timestamps returns the frame timestamps obtained by accumulating the
// deltas from start.
func (t Trace) Timestamps(start float64) []float64 {
	ts := make([]float64, len(t.Deltas))
	now := start
	for i, d := range t.Deltas {
		now += d
		ts[i] = now
	}
	return ts
}

// Duration returns the sum of all deltas.
func (t Trace) Duration() float64 {
	var sum float64
	for _, d := range t.Deltas {
		sum += d
	}
	return sum
}

// Constant returns n frames of ms each.
func Constant(name string, ms float64, n int) Trace {
	d := make([]float64, n)
	for i := range d {
		d[i] = ms
	}
	return Trace{Name: name, Deltas: d}
}

// Ramp returns n frames moving linearly from `from` to `to`.
func Ramp(name string, from, to float64, n int) Trace {
	d := make([]float64, n)
	for i := range d {
		if n == 1 {
			d[i] = from
			continue
		}
		d[i] = from + (to-from)*float64(i)/float64(n-1)
	}
	return Trace{Name: name, Deltas: d}
}

// Spike returns n frames of base, with every `every`-th frame replaced by
// spike. Models periodic stalls such as GC pauses.
func Spike(name string, base, spike float64, every, n int) Trace {
	t := Constant(name, base, n)
	if every <= 0 {
		return t
	}
	for i := every - 1; i < n; i += every {
		t.Deltas[i] = spike
	}
	return t
}

// Square alternates between low and high every period frames.
func Square(name string, low, high float64, period, n int) Trace {
	if period <= 0 {
		period = 1
	}
	d := make([]float64, n)
	for i := range d {
		if (i/period)%2 == 0 {
			d[i] = low
		} else {
			d[i] = high
		}
	}
	return Trace{Name: name, Deltas: d}
}

// Concat joins traces under a new name.
func Concat(name string, parts ...Trace) Trace {
	var d []float64
	for _, p := range parts {
		d = append(d, p.Deltas...)
	}
	return Trace{Name: name, Deltas: d}
}

// ReadCSV loads a trace from CSV with a header row. A "delta_ms" column is
// used directly; otherwise a "t_ms" column of timestamps is differenced,
// measuring the first frame from the first timestamp (delta 0).
func ReadCSV(name string, r io.Reader) (Trace, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	hdr, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Trace{}, ErrEmptyTrace
		}
		return Trace{}, fmt.Errorf("trace: read header: %w", err)
	}

	deltaCol, tsCol := -1, -1
	for i, h := range hdr {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "delta_ms":
			deltaCol = i
		case "t_ms":
			tsCol = i
		}
	}
	if deltaCol < 0 && tsCol < 0 {
		return Trace{}, fmt.Errorf("trace: header %v has neither delta_ms nor t_ms", hdr)
	}

	t := Trace{Name: name}
	var prev float64
	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return Trace{}, fmt.Errorf("trace: line %d: %w", line, err)
		}
		if deltaCol >= 0 {
			v, err := parseField(rec, deltaCol, line)
			if err != nil {
				return Trace{}, err
			}
			t.Deltas = append(t.Deltas, v)
			continue
		}
		v, err := parseField(rec, tsCol, line)
		if err != nil {
			return Trace{}, err
		}
		if len(t.Deltas) == 0 {
			t.Deltas = append(t.Deltas, 0)
		} else {
			t.Deltas = append(t.Deltas, v-prev)
		}
		prev = v
	}
	if len(t.Deltas) == 0 {
		return Trace{}, ErrEmptyTrace
	}
	return t, nil
}

func parseField(rec []string, col, line int) (float64, error) {
	if col >= len(rec) {
		return 0, fmt.Errorf("trace: line %d: missing column %d", line, col)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(rec[col]), 64)
	if err != nil {
		return 0, fmt.Errorf("trace: line %d: %w", line, err)
	}
	return v, nil
}
