// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package fractal

import (
	"errors"
	"math"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v", err)
	}
	if cfg.Grid != (Grid{Width: 1024, Height: 1024}) {
		t.Errorf("Grid = %+v, want 1024x1024", cfg.Grid)
	}
	if cfg.MaxIterations != 1000 {
		t.Errorf("MaxIterations = %d, want 1000", cfg.MaxIterations)
	}
	if cfg.Viewport != (Viewport{X0: -2.0, X1: 0.5, Y0: -1.25, Y1: 1.25}) {
		t.Errorf("Viewport = %v", cfg.Viewport)
	}
	if len(cfg.Palette) != 64 {
		t.Errorf("len(Palette) = %d, want 64", len(cfg.Palette))
	}
}

func TestNewConfig_Options(t *testing.T) {
	p := Palette{0x111111, 0x222222}
	cfg := NewConfig(
		WithViewport(-1, 1, -0.5, 0.5),
		WithGrid(320, 200),
		WithMaxIterations(50),
		WithPalette(p),
		WithWorkers(3),
		WithBandHeight(4),
	)

	if cfg.Viewport != (Viewport{X0: -1, X1: 1, Y0: -0.5, Y1: 0.5}) {
		t.Errorf("Viewport = %v", cfg.Viewport)
	}
	if cfg.Grid != (Grid{Width: 320, Height: 200}) {
		t.Errorf("Grid = %+v", cfg.Grid)
	}
	if cfg.MaxIterations != 50 || cfg.Workers != 3 || cfg.BandHeight != 4 {
		t.Errorf("MaxIterations/Workers/BandHeight = %d/%d/%d", cfg.MaxIterations, cfg.Workers, cfg.BandHeight)
	}

	p[0] = 0x999999
	if cfg.Palette[0] != 0x111111 {
		t.Error("WithPalette did not copy the palette")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		opts    []Option
		wantErr error
	}{
		{"empty x extent", []Option{WithViewport(1, 1, 0, 1)}, ErrInvalidViewport},
		{"reversed y", []Option{WithViewport(0, 1, 1, 0)}, ErrInvalidViewport},
		{"nan bound", []Option{WithViewport(math.NaN(), 1, 0, 1)}, ErrInvalidViewport},
		{"infinite bound", []Option{WithViewport(0, math.Inf(1), 0, 1)}, ErrInvalidViewport},
		{"zero width", []Option{WithGrid(0, 10)}, ErrInvalidGrid},
		{"negative height", []Option{WithGrid(10, -1)}, ErrInvalidGrid},
		{"negative iterations", []Option{WithMaxIterations(-1)}, ErrInvalidIterations},
		{"width above limit", []Option{WithGrid(MaxDimension+1, 1)}, ErrInvalidGrid},
		{"height above limit", []Option{WithGrid(1, MaxDimension+1)}, ErrInvalidGrid},
		{"too many pixels", []Option{WithGrid(MaxDimension, MaxDimension)}, ErrInvalidGrid},
		{"iterations above limit", []Option{WithMaxIterations(MaxIterationCap + 1)}, ErrInvalidIterations},
		{"empty palette", []Option{WithPalette(nil)}, ErrInvalidPalette},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewConfig(tt.opts...).Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_ValidateBoundaries(t *testing.T) {
	valid := [][]Option{
		{WithGrid(1, 1)},
		{WithGrid(1, 500)},
		{WithGrid(500, 1)},
		{WithMaxIterations(0)},
		{WithMaxIterations(MaxIterationCap)},
		{WithGrid(MaxDimension, MaxPixels/MaxDimension)},
		{WithWorkers(0), WithBandHeight(0)},
	}
	for i, opts := range valid {
		if err := NewConfig(opts...).Validate(); err != nil {
			t.Errorf("case %d: Validate() = %v, want nil", i, err)
		}
	}

	invalid := [][]Option{
		{WithWorkers(-1)},
		{WithBandHeight(-2)},
	}
	for i, opts := range invalid {
		if err := NewConfig(opts...).Validate(); err == nil {
			t.Errorf("case %d: Validate() = nil, want error", i)
		}
	}
}

func TestConfig_PixelSize(t *testing.T) {
	cfg := DefaultConfig()
	if got, want := cfg.PixelWidth(), 2.5/1024; got != want {
		t.Errorf("PixelWidth() = %g, want %g", got, want)
	}
	if got, want := cfg.PixelHeight(), 2.5/1024; got != want {
		t.Errorf("PixelHeight() = %g, want %g", got, want)
	}

	// Derived sizes follow the current values, never a cached copy.
	cfg.Grid.Width = 512
	if got, want := cfg.PixelWidth(), 2.5/512; got != want {
		t.Errorf("PixelWidth() after resize = %g, want %g", got, want)
	}
	cfg.Viewport.X1 = 3
	if got, want := cfg.PixelWidth(), 5.0/512; got != want {
		t.Errorf("PixelWidth() after viewport change = %g, want %g", got, want)
	}
}

func TestConfig_Point(t *testing.T) {
	cfg := NewConfig(WithGrid(64, 64))

	re, im := cfg.Point(0, 0)
	if re != -2.0 || im != -1.25 {
		t.Errorf("Point(0, 0) = (%g, %g), want (-2, -1.25)", re, im)
	}

	// Row 32 of 64 sits on the real axis; rows grow towards +i.
	_, im = cfg.Point(0, 32)
	if im != 0 {
		t.Errorf("Point(0, 32) imag = %g, want 0", im)
	}
	_, imBelow := cfg.Point(0, 33)
	if imBelow <= im {
		t.Errorf("imaginary part does not grow with row index: %g <= %g", imBelow, im)
	}
}

func TestViewport_String(t *testing.T) {
	got := DefaultViewport.String()
	want := "x: (-2; 0.5) y: (-1.25; 1.25)"
	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
