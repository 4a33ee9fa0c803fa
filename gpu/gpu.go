// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !nogpu

// Package gpu registers the GPU accelerator for the Accelerated strategy.
//
// Import this package to enable GPU fractal rendering. The accelerator uses
// wgpu/hal compute shaders on a Vulkan device.
//
// If GPU initialization fails (no Vulkan driver or adapter), registration is
// skipped and logged. Generating with fractal.Accelerated then fails with
// fractal.ErrBackendUnavailable wrapping the initialization error; it never
// falls back to the CPU.
//
// Usage:
//
//	import _ "github.com/gogpu/fractal/gpu" // enable GPU acceleration
package gpu

import (
	"github.com/gogpu/fractal"
	gpuimpl "github.com/gogpu/fractal/internal/gpu"
)

func init() {
	if err := fractal.RegisterAccelerator(&gpuimpl.MandelbrotAccelerator{}); err != nil {
		fractal.Logger().Warn("GPU accelerator not available", "err", err)
	}
}
