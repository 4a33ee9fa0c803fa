// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package fractal

// Option configures a Config built by NewConfig.
//
// Example:
//
//	cfg := fractal.NewConfig(
//	    fractal.WithGrid(1920, 1080),
//	    fractal.WithMaxIterations(500),
//	)
type Option func(*Config)

// WithViewport sets the visible rectangle of the complex plane.
func WithViewport(x0, x1, y0, y1 float64) Option {
	return func(c *Config) {
		c.Viewport = Viewport{X0: x0, X1: x1, Y0: y0, Y1: y1}
	}
}

// WithGrid sets the output resolution in pixels.
func WithGrid(width, height int) Option {
	return func(c *Config) {
		c.Grid = Grid{Width: width, Height: height}
	}
}

// WithMaxIterations sets the escape-time iteration cap.
func WithMaxIterations(n int) Option {
	return func(c *Config) {
		c.MaxIterations = n
	}
}

// WithPalette sets the colour palette. The slice is copied.
func WithPalette(p Palette) Option {
	return func(c *Config) {
		c.Palette = append(Palette(nil), p...)
	}
}

// WithWorkers sets the worker count of the parallel strategy.
// Zero selects the default (logical CPUs minus one, minimum one).
func WithWorkers(n int) Option {
	return func(c *Config) {
		c.Workers = n
	}
}

// WithBandHeight sets how many rows form one unit of parallel work.
func WithBandHeight(rows int) Option {
	return func(c *Config) {
		c.BandHeight = rows
	}
}
