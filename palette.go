// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package fractal

import (
	"fmt"
	"image/color"
)

// RGB is a packed 24-bit colour, 0xRRGGBB.
type RGB uint32

// R returns the red component.
func (c RGB) R() uint8 { return uint8(c >> 16) } //nolint:gosec // masked by shift

// G returns the green component.
func (c RGB) G() uint8 { return uint8(c >> 8) } //nolint:gosec // truncation intended

// B returns the blue component.
func (c RGB) B() uint8 { return uint8(c) } //nolint:gosec // truncation intended

// RGBA returns the colour as an opaque color.RGBA.
func (c RGB) RGBA() color.RGBA {
	return color.RGBA{R: c.R(), G: c.G(), B: c.B(), A: 0xff}
}

// Palette is an ordered list of colours assigned cyclically to escape times.
type Palette []RGB

// defaultColors is the 64-entry reference colour map, fading red to green
// to blue.
var defaultColors = [64]RGB{
	0xff0000, 0xf60800, 0xee1000, 0xe61800,
	0xde2000, 0xd52900, 0xcd3100, 0xc53900,
	0xbd4100, 0xb44a00, 0xac5200, 0xa45a00,
	0x9c6200, 0x946a00, 0x8b7300, 0x837b00,
	0x7b8300, 0x738b00, 0x6a9400, 0x629c00,
	0x5aa400, 0x52ac00, 0x4ab400, 0x41bd00,
	0x39c500, 0x31cd00, 0x29d500, 0x20de00,
	0x18e600, 0x10ee00, 0x08f600, 0x00ff00,
	0x00ff00, 0x00f608, 0x00ee10, 0x00e618,
	0x00de20, 0x00d529, 0x00cd31, 0x00c539,
	0x00bd41, 0x00b44a, 0x00ac52, 0x00a45a,
	0x009c62, 0x00946a, 0x008b73, 0x00837b,
	0x007b83, 0x00738b, 0x006a94, 0x00629c,
	0x005aa4, 0x0052ac, 0x004ab4, 0x0041bd,
	0x0039c5, 0x0031cd, 0x0029d5, 0x0020de,
	0x0018e6, 0x0010ee, 0x0008f6, 0x0000ff,
}

// DefaultPalette returns a copy of the 64-entry reference palette.
func DefaultPalette() Palette {
	p := make(Palette, len(defaultColors))
	copy(p, defaultColors[:])
	return p
}

// Validate reports whether the palette can be used for rendering.
func (p Palette) Validate() error {
	if len(p) == 0 {
		return fmt.Errorf("%w: empty", ErrInvalidPalette)
	}
	for i, c := range p {
		if c > 0xffffff {
			return fmt.Errorf("%w: entry %d = %#x exceeds 24 bits", ErrInvalidPalette, i, uint32(c))
		}
	}
	return nil
}

// Packed returns the palette as packed 0xRRGGBB integers, the layout the
// accelerated backend consumes.
func (p Palette) Packed() []int32 {
	out := make([]int32, len(p))
	for i, c := range p {
		out[i] = int32(c & 0xffffff) //nolint:gosec // 24-bit value fits int32
	}
	return out
}

// ColorFor maps an escape time to a pixel colour.
//
// Bounded (and any other negative count) maps to opaque black without
// consulting the palette. A count n >= 0 maps to p[n mod len(p)] with full
// opacity, so the mapping repeats every len(p) iterations. An empty palette
// renders everything black.
func ColorFor(n int, p Palette) color.RGBA {
	if n < 0 || len(p) == 0 {
		return color.RGBA{A: 0xff}
	}
	return p[n%len(p)].RGBA()
}
