// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package trace

import (
	"fmt"
	"sort"
)

// framesPerScenario is ten seconds at 60 Hz.
const framesPerScenario = 600

// Builtin returns the named synthetic scenarios, sorted by name.
func Builtin() []Trace {
	n := framesPerScenario
	all := []Trace{
		Constant("steady", 22, n),
		Constant("slow", 30, n),
		Constant("fast", 12, n),
		Concat("recover", Constant("", 30, n/2), Constant("", 12, n/2)),
		Spike("gc-spikes", 14, 120, 60, n),
		Square("oscillate", 14, 32, 90, n),
		Ramp("ramp", 12, 40, n),
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return all
}

// Lookup returns the builtin scenario called name.
func Lookup(name string) (Trace, error) {
	for _, t := range Builtin() {
		if t.Name == name {
			return t, nil
		}
	}
	return Trace{}, fmt.Errorf("trace: unknown scenario %q", name)
}

// Names lists the builtin scenario names.
func Names() []string {
	b := Builtin()
	names := make([]string, len(b))
	for i, t := range b {
		names[i] = t.Name
	}
	return names
}
