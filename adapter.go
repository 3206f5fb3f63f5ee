// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package ggscale

import "github.com/gogpu/gpucontext"

// SoftwareMinScale is the floor suggested for software adapters, where
// fill rate is the dominant frame cost.
const SoftwareMinScale = 0.25

// MinScaleHint suggests a MinScale for the given GPU adapter.
// Software rasterizers (llvmpipe, SwiftShader, the wgpu software HAL) get
// SoftwareMinScale; everything else gets DefaultMinScale.
func MinScaleHint(info gpucontext.AdapterInfo) float64 {
	if info.Type == gpucontext.AdapterTypeSoftware {
		return SoftwareMinScale
	}
	return DefaultMinScale
}

// MinScaleForProvider is MinScaleHint for a device provider. A nil
// provider yields DefaultMinScale.
func MinScaleForProvider(p gpucontext.DeviceProvider) float64 {
	if p == nil {
		return DefaultMinScale
	}
	return MinScaleHint(p.AdapterInfo())
}
