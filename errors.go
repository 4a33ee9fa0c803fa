// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package fractal

import "errors"

// Configuration errors. Returned by Config.Validate before any pixel is
// computed; always wrapped with the offending values.
var (
	// ErrInvalidViewport is returned when a viewport has a non-positive or
	// non-finite extent.
	ErrInvalidViewport = errors.New("fractal: invalid viewport")

	// ErrInvalidGrid is returned when a grid dimension is not positive.
	ErrInvalidGrid = errors.New("fractal: invalid grid")

	// ErrInvalidIterations is returned for a negative iteration cap.
	ErrInvalidIterations = errors.New("fractal: invalid iteration cap")

	// ErrInvalidPalette is returned for an empty palette or an entry that
	// does not fit in 24 bits.
	ErrInvalidPalette = errors.New("fractal: invalid palette")
)

// Backend errors.
var (
	// ErrBackendUnavailable is returned when the accelerated strategy is
	// requested but no backend is registered or the device is missing.
	// The CPU strategies are never substituted.
	ErrBackendUnavailable = errors.New("fractal: accelerated backend not available")

	// ErrInteractiveUnavailable is returned when the accelerated backend
	// cannot open an interactive display.
	ErrInteractiveUnavailable = errors.New("fractal: interactive display not available")
)

// Run errors.
var (
	// ErrUnknownStrategy is returned for a strategy outside the closed set.
	ErrUnknownStrategy = errors.New("fractal: unknown strategy")

	// ErrSameStrategy is returned when a strategy is compared against itself.
	ErrSameStrategy = errors.New("fractal: cannot compare a strategy with itself")

	// ErrUnsupportedFormat is returned when an artifact extension has no encoder.
	ErrUnsupportedFormat = errors.New("fractal: unsupported image format")

	// ErrArtifactOpen is returned by Preview when the artifact is missing or
	// unreadable.
	ErrArtifactOpen = errors.New("fractal: cannot open artifact")
)
