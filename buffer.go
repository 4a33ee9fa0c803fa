// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package fractal

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
)

// PixelBuffer is a row-major RGBA pixel grid produced by a render.
//
// During generation each cell is written exactly once by exactly one unit
// of work. Once a render returns, the buffer is complete and belongs to the
// caller.
type PixelBuffer struct {
	width  int
	height int
	pix    []uint8 // RGBA, 4 bytes per pixel
}

// NewPixelBuffer creates a zeroed buffer with the given dimensions, which
// must pass Grid.Validate.
func NewPixelBuffer(width, height int) *PixelBuffer {
	return &PixelBuffer{
		width:  width,
		height: height,
		pix:    make([]uint8, width*height*4),
	}
}

// Width returns the width of the buffer.
func (b *PixelBuffer) Width() int {
	return b.width
}

// Height returns the height of the buffer.
func (b *PixelBuffer) Height() int {
	return b.height
}

// Pix returns the raw RGBA bytes.
func (b *PixelBuffer) Pix() []uint8 {
	return b.pix
}

// Stride returns the number of bytes per row.
func (b *PixelBuffer) Stride() int {
	return b.width * 4
}

// offset returns the byte offset of pixel (x, y).
func (b *PixelBuffer) offset(x, y int) int {
	return (y*b.width + x) * 4
}

// set writes pixel (x, y) without bounds checking.
func (b *PixelBuffer) set(x, y int, c color.RGBA) {
	i := b.offset(x, y)
	b.pix[i+0] = c.R
	b.pix[i+1] = c.G
	b.pix[i+2] = c.B
	b.pix[i+3] = c.A
}

// RGBAAt returns the colour of pixel (x, y), or transparent black outside
// the buffer.
func (b *PixelBuffer) RGBAAt(x, y int) color.RGBA {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return color.RGBA{}
	}
	i := b.offset(x, y)
	return color.RGBA{R: b.pix[i+0], G: b.pix[i+1], B: b.pix[i+2], A: b.pix[i+3]}
}

// Equal reports whether both buffers have the same size and bytes.
func (b *PixelBuffer) Equal(other *PixelBuffer) bool {
	if b == nil || other == nil {
		return b == other
	}
	return b.width == other.width && b.height == other.height && bytes.Equal(b.pix, other.pix)
}

// ToImage returns the buffer as an image.RGBA sharing the same memory.
func (b *PixelBuffer) ToImage() *image.RGBA {
	return &image.RGBA{
		Pix:    b.pix,
		Stride: b.Stride(),
		Rect:   image.Rect(0, 0, b.width, b.height),
	}
}

// At implements the image.Image interface.
func (b *PixelBuffer) At(x, y int) color.Color {
	return b.RGBAAt(x, y)
}

// Bounds implements the image.Image interface.
func (b *PixelBuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.width, b.height)
}

// ColorModel implements the image.Image interface.
func (b *PixelBuffer) ColorModel() color.Model {
	return color.RGBAModel
}

// Format is an artifact encoding.
type Format string

// Supported artifact formats.
const (
	FormatPNG Format = "png"
	FormatBMP Format = "bmp"
)

// FormatFromPath derives the encoding from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		return FormatPNG, nil
	case ".bmp":
		return FormatBMP, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// Encode writes the buffer to w in the given format.
func (b *PixelBuffer) Encode(w io.Writer, format Format) error {
	return encodeImage(w, b.ToImage(), format)
}

// Save encodes the buffer to path, choosing the encoder from the extension.
// On failure the partially written file is removed.
func (b *PixelBuffer) Save(path string) error {
	return saveImage(path, b.ToImage())
}

func encodeImage(w io.Writer, img image.Image, format Format) error {
	switch format {
	case FormatPNG:
		return png.Encode(w, img)
	case FormatBMP:
		return bmp.Encode(w, img)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// saveImage writes img to path. Shared with accelerated backends so every
// strategy produces artifacts through the same encoders.
func saveImage(path string, img image.Image) (err error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return fmt.Errorf("fractal: create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("fractal: close %s: %w", path, cerr)
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	if err := encodeImage(f, img, format); err != nil {
		return fmt.Errorf("fractal: encode %s: %w", path, err)
	}
	return nil
}

// SaveImage writes an RGBA image to path using the artifact encoders.
// Accelerated backends use it so their output matches the CPU artifacts.
func SaveImage(path string, img *image.RGBA) error {
	if img == nil {
		return errors.New("fractal: nil image")
	}
	return saveImage(path, img)
}
