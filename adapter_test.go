// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package ggscale

import (
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// mockProvider reports a fixed adapter and no GPU handles.
type mockProvider struct {
	info gpucontext.AdapterInfo
}

func (m mockProvider) Device() gpucontext.Device             { return nil }
func (m mockProvider) Queue() gpucontext.Queue               { return nil }
func (m mockProvider) SurfaceFormat() gputypes.TextureFormat { return gputypes.TextureFormatUndefined }
func (m mockProvider) Adapter() gpucontext.Adapter           { return nil }
func (m mockProvider) AdapterInfo() gpucontext.AdapterInfo   { return m.info }

var _ gpucontext.DeviceProvider = mockProvider{}

func TestMinScaleHint(t *testing.T) {
	tests := []struct {
		typ  gpucontext.AdapterType
		want float64
	}{
		{gpucontext.AdapterTypeDiscrete, DefaultMinScale},
		{gpucontext.AdapterTypeIntegrated, DefaultMinScale},
		{gpucontext.AdapterTypeSoftware, SoftwareMinScale},
		{gpucontext.AdapterTypeUnknown, DefaultMinScale},
	}
	for _, tt := range tests {
		info := gpucontext.AdapterInfo{Name: "test", Type: tt.typ}
		if got := MinScaleHint(info); got != tt.want {
			t.Errorf("MinScaleHint(%v) = %v, want %v", tt.typ, got, tt.want)
		}
	}
}

func TestMinScaleForProvider(t *testing.T) {
	if got := MinScaleForProvider(nil); got != DefaultMinScale {
		t.Errorf("MinScaleForProvider(nil) = %v", got)
	}
	p := mockProvider{info: gpucontext.AdapterInfo{Name: "llvmpipe", Type: gpucontext.AdapterTypeSoftware}}
	got := MinScaleForProvider(p)
	if got != SoftwareMinScale {
		t.Errorf("MinScaleForProvider(software) = %v", got)
	}

	c := MustNew(WithMinScale(got), WithStartTime(0))
	defer c.Close()
	if c.LastStep() != 6 {
		t.Errorf("LastStep with software hint = %d, want 6", c.LastStep())
	}
}
