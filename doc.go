// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package fractal renders the Mandelbrot set to raster images and times the
// rendering strategies against each other.
//
// # Overview
//
// Every pixel of the output grid is mapped to a point c of the complex plane
// and classified by its escape time under z ← z² + c. Escape times are
// turned into colours through a cyclic palette; points that never escape are
// drawn black.
//
// # Quick Start
//
//	import "github.com/gogpu/fractal"
//
//	cfg := fractal.NewConfig(fractal.WithGrid(1024, 1024))
//
//	// Render and write Parallel_Fractal.png into the current directory
//	res, err := fractal.Generate(ctx, fractal.Parallel, cfg, ".")
//
//	// Or compare two strategies
//	cmp, err := fractal.Compare(ctx, fractal.Sequential, fractal.Parallel, cfg, ".")
//	fmt.Printf("%.2fx\n", cmp.Ratio)
//
// # Strategies
//
// Three strategies produce the same logical artifact:
//   - Sequential: a single goroutine, rows then columns. This is the
//     reference output.
//   - Parallel: full-width row bands on a work-stealing worker pool. The
//     output is byte-identical to Sequential for any worker count.
//   - Accelerated: a hardware backend registered with RegisterAccelerator.
//     If none is registered the run fails with ErrBackendUnavailable; it is
//     never replaced by a CPU strategy.
//
// GPU acceleration is opt-in via blank import:
//
//	import _ "github.com/gogpu/fractal/gpu"
//
// # Coordinate System
//
// Pixel (px, py) samples c = (X0 + px·pw) + (Y0 + py·ph)i where pw and ph
// are the plane extents of one pixel. The imaginary part grows with the row
// index; no vertical flip is applied.
//
// # Configuration
//
// Config is a plain value passed to every call. Nothing in this package
// holds configuration in shared state, so runs with different
// configurations can proceed concurrently.
package fractal

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
