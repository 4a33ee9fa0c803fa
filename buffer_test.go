// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package fractal

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
)

func testBuffer(t *testing.T) *PixelBuffer {
	t.Helper()
	buf, err := RenderSequential(NewConfig(WithGrid(19, 11), WithMaxIterations(40)))
	if err != nil {
		t.Fatalf("RenderSequential: %v", err)
	}
	return buf
}

func assertSameImage(t *testing.T, got image.Image, want *PixelBuffer) {
	t.Helper()
	if got.Bounds() != want.Bounds() {
		t.Fatalf("bounds = %v, want %v", got.Bounds(), want.Bounds())
	}
	for y := 0; y < want.Height(); y++ {
		for x := 0; x < want.Width(); x++ {
			g := color.RGBAModel.Convert(got.At(x, y)).(color.RGBA)
			if w := want.RGBAAt(x, y); g != w {
				t.Fatalf("pixel (%d, %d) = %v, want %v", x, y, g, w)
			}
		}
	}
}

func TestPixelBuffer_Basics(t *testing.T) {
	buf := NewPixelBuffer(3, 2)
	if buf.Width() != 3 || buf.Height() != 2 || buf.Stride() != 12 {
		t.Fatalf("size = %dx%d stride %d", buf.Width(), buf.Height(), buf.Stride())
	}
	if len(buf.Pix()) != 24 {
		t.Fatalf("len(Pix()) = %d, want 24", len(buf.Pix()))
	}

	c := color.RGBA{R: 1, G: 2, B: 3, A: 255}
	buf.set(2, 1, c)
	if got := buf.RGBAAt(2, 1); got != c {
		t.Errorf("RGBAAt(2, 1) = %v, want %v", got, c)
	}
	if got := buf.At(2, 1); got != c {
		t.Errorf("At(2, 1) = %v, want %v", got, c)
	}
	if got := buf.RGBAAt(3, 0); got != (color.RGBA{}) {
		t.Errorf("RGBAAt out of bounds = %v, want zero", got)
	}

	img := buf.ToImage()
	if img.RGBAAt(2, 1) != c {
		t.Error("ToImage does not share pixel memory")
	}
}

func TestPixelBuffer_Equal(t *testing.T) {
	a := NewPixelBuffer(2, 2)
	b := NewPixelBuffer(2, 2)
	if !a.Equal(b) {
		t.Error("zeroed buffers of same size should be equal")
	}
	b.set(0, 0, color.RGBA{R: 1})
	if a.Equal(b) {
		t.Error("buffers with different pixels should differ")
	}
	if a.Equal(NewPixelBuffer(4, 1)) {
		t.Error("buffers with different shape should differ")
	}
	var nilBuf *PixelBuffer
	if a.Equal(nilBuf) || !nilBuf.Equal(nil) {
		t.Error("nil handling in Equal is wrong")
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"a.png", FormatPNG, false},
		{"dir/B.PNG", FormatPNG, false},
		{"Cuda_Fractal.bmp", FormatBMP, false},
		{"x.gif", "", true},
		{"noext", "", true},
	}
	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		if (err != nil) != tt.wantErr {
			t.Errorf("FormatFromPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("FormatFromPath(%q) = %v, want ErrUnsupportedFormat", tt.path, err)
		}
		if got != tt.want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestPixelBuffer_SavePNG(t *testing.T) {
	buf := testBuffer(t)
	path := filepath.Join(t.TempDir(), "out.png")
	if err := buf.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	assertSameImage(t, img, buf)
}

func TestPixelBuffer_SaveBMP(t *testing.T) {
	buf := testBuffer(t)
	path := filepath.Join(t.TempDir(), "out.bmp")
	if err := buf.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := bmp.Decode(f)
	if err != nil {
		t.Fatalf("bmp.Decode: %v", err)
	}
	assertSameImage(t, img, buf)
}

func TestPixelBuffer_Encode(t *testing.T) {
	buf := testBuffer(t)
	var out bytes.Buffer
	if err := buf.Encode(&out, FormatPNG); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	img, err := png.Decode(&out)
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	assertSameImage(t, img, buf)

	if err := buf.Encode(&out, Format("tiff")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Encode(tiff) = %v, want ErrUnsupportedFormat", err)
	}
}

func TestPixelBuffer_SaveFailureLeavesNoFile(t *testing.T) {
	buf := testBuffer(t)
	dir := t.TempDir()

	gif := filepath.Join(dir, "out.gif")
	if err := buf.Save(gif); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Save(.gif) = %v, want ErrUnsupportedFormat", err)
	}
	if _, err := os.Stat(gif); !os.IsNotExist(err) {
		t.Errorf("unsupported save left a file behind: %v", err)
	}

	missing := filepath.Join(dir, "no", "such", "dir", "out.png")
	if err := buf.Save(missing); err == nil {
		t.Error("Save into missing directory should fail")
	}
}

func TestSaveImage(t *testing.T) {
	buf := testBuffer(t)
	path := filepath.Join(t.TempDir(), "img.png")
	if err := SaveImage(path, buf.ToImage()); err != nil {
		t.Fatalf("SaveImage: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("artifact missing: %v", err)
	}
	if err := SaveImage(path, nil); err == nil {
		t.Error("SaveImage(nil) should fail")
	}
}
