// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !nogpu

package gpu

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/naga"
)

// mandelbrotShaderSource is the escape-time compute kernel.
//
//go:embed shaders/mandelbrot.wgsl
var mandelbrotShaderSource string

// kernelEntryPoint is the compute entry point of mandelbrotShaderSource.
const kernelEntryPoint = "main"

// workgroupSize matches @workgroup_size in the kernel.
const workgroupSize = 8

// compileKernel compiles the kernel from WGSL to SPIR-V words.
func compileKernel() ([]uint32, error) {
	spirvBytes, err := naga.Compile(mandelbrotShaderSource)
	if err != nil {
		return nil, fmt.Errorf("compile mandelbrot shader: %w", err)
	}
	if len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("compile mandelbrot shader: SPIR-V size %d is not word aligned", len(spirvBytes))
	}

	// SPIR-V is little-endian 32-bit words
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return words, nil
}

// workgroups returns the dispatch size covering n invocations.
func workgroups(n uint32) uint32 {
	return (n + workgroupSize - 1) / workgroupSize
}
