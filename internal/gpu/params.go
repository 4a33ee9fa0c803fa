// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !nogpu

package gpu

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/fractal"
)

// maxDispatchGroups is the per-dimension workgroup limit of the default
// device limits.
const maxDispatchGroups = 65535

// kernelParams mirrors the Params uniform of the kernel.
// Field order and sizes must match the WGSL struct (8 x 4 bytes).
type kernelParams struct {
	Width   uint32
	Height  uint32
	MaxIter uint32
	Colors  uint32
	X0      float32
	Y0      float32
	DX      float32
	DY      float32
}

// kernelParamsSize is the uniform buffer size in bytes.
const kernelParamsSize = 32

// newKernelParams converts an accelerated request to kernel uniforms.
// The kernel works in single precision.
func newKernelParams(req fractal.AcceleratedRequest) kernelParams {
	return kernelParams{
		Width:   uint32(req.Width),         //nolint:gosec // validated by validateRequest
		Height:  uint32(req.Height),        //nolint:gosec // validated by validateRequest
		MaxIter: uint32(req.MaxIterations), //nolint:gosec // validated by validateRequest
		Colors:  uint32(req.ColorsAmount),  //nolint:gosec // validated by validateRequest
		X0:      float32(req.X0),
		Y0:      float32(req.Y0),
		DX:      float32(req.PixelWidth),
		DY:      float32(req.PixelHeight),
	}
}

// bytes returns the uniform contents in little-endian order.
func (p kernelParams) bytes() []byte {
	out := make([]byte, 0, kernelParamsSize)
	out = binary.LittleEndian.AppendUint32(out, p.Width)
	out = binary.LittleEndian.AppendUint32(out, p.Height)
	out = binary.LittleEndian.AppendUint32(out, p.MaxIter)
	out = binary.LittleEndian.AppendUint32(out, p.Colors)
	out = binary.LittleEndian.AppendUint32(out, math.Float32bits(p.X0))
	out = binary.LittleEndian.AppendUint32(out, math.Float32bits(p.Y0))
	out = binary.LittleEndian.AppendUint32(out, math.Float32bits(p.DX))
	out = binary.LittleEndian.AppendUint32(out, math.Float32bits(p.DY))
	return out
}

// paletteBytes packs the first n palette colours as little-endian u32.
func paletteBytes(colors []int32, n int) []byte {
	out := make([]byte, 0, n*4)
	for _, c := range colors[:n] {
		out = binary.LittleEndian.AppendUint32(out, uint32(c)&0xffffff) //nolint:gosec // 24-bit colour
	}
	return out
}

// validateRequest rejects requests the kernel cannot run.
func validateRequest(req fractal.AcceleratedRequest) error {
	if req.Width <= 0 || req.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", fractal.ErrInvalidGrid, req.Width, req.Height)
	}
	if req.Width > maxDispatchGroups*workgroupSize || req.Height > maxDispatchGroups*workgroupSize {
		return fmt.Errorf("%w: %dx%d exceeds the dispatch limit", fractal.ErrInvalidGrid, req.Width, req.Height)
	}
	if uint64(req.Width)*uint64(req.Height)*4 > math.MaxUint32 {
		return fmt.Errorf("%w: %dx%d exceeds the buffer limit", fractal.ErrInvalidGrid, req.Width, req.Height)
	}
	if req.MaxIterations < 0 || req.MaxIterations > fractal.MaxIterationCap {
		return fmt.Errorf("%w: %d", fractal.ErrInvalidIterations, req.MaxIterations)
	}
	if req.ColorsAmount <= 0 || req.ColorsAmount > len(req.Colors) {
		return fmt.Errorf("%w: %d colours declared, %d given", fractal.ErrInvalidPalette, req.ColorsAmount, len(req.Colors))
	}
	if !req.UseInteractive && req.FileName == "" {
		return errors.New("gpu: request has no output file")
	}
	return nil
}
