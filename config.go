// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package fractal

import (
	"fmt"
	"math"
)

// Reference configuration values.
const (
	// DefaultWidth and DefaultHeight are the grid size of a file render.
	DefaultWidth  = 1024
	DefaultHeight = 1024

	// DefaultMaxIterations is the reference iteration cap.
	DefaultMaxIterations = 1000

	// InteractiveWidth and InteractiveHeight size the interactive display.
	InteractiveWidth  = 1280
	InteractiveHeight = 720
)

// Upper bounds enforced by Validate.
const (
	// MaxDimension is the largest accepted grid width or height.
	MaxDimension = 1 << 16

	// MaxPixels is the largest accepted width*height. The RGBA buffer of
	// such a grid is 1 GiB, so its byte length fits a 32-bit int.
	MaxPixels = 1 << 28

	// MaxIterationCap is the largest accepted iteration cap. It fits the
	// 32-bit unsigned counter of the accelerated kernel.
	MaxIterationCap = 1 << 30
)

// Viewport is the rectangle of the complex plane mapped onto the pixel grid.
// X spans the real axis, Y the imaginary axis.
type Viewport struct {
	X0, X1 float64
	Y0, Y1 float64
}

// DefaultViewport frames the whole set: x in [-2.0, 0.5], y in [-1.25, 1.25].
var DefaultViewport = Viewport{X0: -2.0, X1: 0.5, Y0: -1.25, Y1: 1.25}

// Validate reports whether the viewport has a positive, finite extent.
func (v Viewport) Validate() error {
	for _, f := range [...]float64{v.X0, v.X1, v.Y0, v.Y1} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: non-finite bound in %v", ErrInvalidViewport, v)
		}
	}
	if !(v.X0 < v.X1) {
		return fmt.Errorf("%w: x0=%g must be less than x1=%g", ErrInvalidViewport, v.X0, v.X1)
	}
	if !(v.Y0 < v.Y1) {
		return fmt.Errorf("%w: y0=%g must be less than y1=%g", ErrInvalidViewport, v.Y0, v.Y1)
	}
	return nil
}

// String formats the viewport as its visible coordinate ranges.
func (v Viewport) String() string {
	return fmt.Sprintf("x: (%g; %g) y: (%g; %g)", v.X0, v.X1, v.Y0, v.Y1)
}

// Grid is the pixel grid resolution.
type Grid struct {
	Width  int
	Height int
}

// Validate reports whether both dimensions are positive and the grid is
// within MaxDimension and MaxPixels.
func (g Grid) Validate() error {
	if g.Width <= 0 || g.Height <= 0 {
		return fmt.Errorf("%w: %dx%d, both dimensions must be positive", ErrInvalidGrid, g.Width, g.Height)
	}
	if g.Width > MaxDimension || g.Height > MaxDimension {
		return fmt.Errorf("%w: %dx%d, dimensions must not exceed %d", ErrInvalidGrid, g.Width, g.Height, MaxDimension)
	}
	if g.Width*g.Height > MaxPixels {
		return fmt.Errorf("%w: %dx%d, more than %d pixels", ErrInvalidGrid, g.Width, g.Height, MaxPixels)
	}
	return nil
}

// Pixels returns the number of cells in the grid.
func (g Grid) Pixels() int {
	return g.Width * g.Height
}

// Config describes a single generation run. It is a plain value: every
// generation call receives its own copy and nothing in this package keeps
// configuration in shared state.
type Config struct {
	Viewport      Viewport
	Grid          Grid
	MaxIterations int
	Palette       Palette

	// Workers is the size of the parallel strategy's worker pool.
	// Zero selects one less than the number of logical CPUs (minimum 1).
	Workers int

	// BandHeight is the number of rows per unit of parallel work.
	// Zero means one row per band.
	BandHeight int
}

// DefaultConfig returns the reference configuration: a 1024x1024 grid over
// DefaultViewport with 1000 iterations and the 64-entry default palette.
func DefaultConfig() Config {
	return Config{
		Viewport:      DefaultViewport,
		Grid:          Grid{Width: DefaultWidth, Height: DefaultHeight},
		MaxIterations: DefaultMaxIterations,
		Palette:       DefaultPalette(),
	}
}

// NewConfig returns DefaultConfig with opts applied in order.
func NewConfig(opts ...Option) Config {
	c := DefaultConfig()
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Validate checks every parameter before any computation starts.
func (c Config) Validate() error {
	if err := c.Viewport.Validate(); err != nil {
		return err
	}
	if err := c.Grid.Validate(); err != nil {
		return err
	}
	if c.MaxIterations < 0 {
		return fmt.Errorf("%w: %d must not be negative", ErrInvalidIterations, c.MaxIterations)
	}
	if c.MaxIterations > MaxIterationCap {
		return fmt.Errorf("%w: %d exceeds %d", ErrInvalidIterations, c.MaxIterations, MaxIterationCap)
	}
	if c.Workers < 0 {
		return fmt.Errorf("fractal: invalid worker count %d", c.Workers)
	}
	if c.BandHeight < 0 {
		return fmt.Errorf("fractal: invalid band height %d", c.BandHeight)
	}
	return c.Palette.Validate()
}

// PixelWidth returns the real-axis extent of one pixel. It is derived from
// the current viewport and grid on every call.
func (c Config) PixelWidth() float64 {
	return (c.Viewport.X1 - c.Viewport.X0) / float64(c.Grid.Width)
}

// PixelHeight returns the imaginary-axis extent of one pixel.
func (c Config) PixelHeight() float64 {
	return (c.Viewport.Y1 - c.Viewport.Y0) / float64(c.Grid.Height)
}

// Point returns the complex coordinate sampled by pixel (px, py).
// The imaginary part grows with the row index; no vertical flip is applied.
func (c Config) Point(px, py int) (cReal, cImag float64) {
	return c.Viewport.X0 + float64(px)*c.PixelWidth(),
		c.Viewport.Y0 + float64(py)*c.PixelHeight()
}
