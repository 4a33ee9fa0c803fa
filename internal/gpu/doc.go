// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !nogpu

// Package gpu provides the GPU-accelerated fractal backend.
//
// This is an internal package used by the fractal library. The escape-time
// kernel is written in WGSL, compiled to SPIR-V with naga and dispatched as
// a wgpu/hal compute pipeline on a Vulkan device (zero CGO).
//
// # Pipeline
//
//	AcceleratedRequest -> kernel uniforms + palette buffer
//	  -> compute pass (8x8 workgroups, one invocation per pixel)
//	  -> staging copy -> readback -> image.RGBA -> artifact or window
//
// The pixel buffer holds little-endian RGBA words, so the readback is
// already in image.RGBA layout and needs no conversion.
//
// # Precision
//
// The kernel computes in float32. Views close to the default framing match
// the CPU strategies pixel for pixel away from the set boundary; deep zooms
// lose detail sooner than on the CPU.
//
// # Interactive mode
//
// RenderInteractive renders the default view on the GPU and shows it in a
// gogpu window, uploading the pixels through gpucontext.TextureCreator.
package gpu
