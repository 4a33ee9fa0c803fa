// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package fractal

import (
	"fmt"
	"strings"
)

// Strategy selects how a fractal is generated. The set is closed.
type Strategy uint8

const (
	// Sequential renders on the calling goroutine.
	Sequential Strategy = iota

	// Parallel renders row bands on a worker pool.
	Parallel

	// Accelerated delegates to the registered AcceleratedBackend.
	Accelerated

	strategyCount
)

// Strategies lists every strategy in menu order.
func Strategies() []Strategy {
	return []Strategy{Sequential, Parallel, Accelerated}
}

// String returns the lower-case strategy name used on the command line.
func (s Strategy) String() string {
	switch s {
	case Sequential:
		return "sequential"
	case Parallel:
		return "parallel"
	case Accelerated:
		return "accelerated"
	default:
		return fmt.Sprintf("Strategy(%d)", uint8(s))
	}
}

// Label returns the human-readable strategy name shown in menus and reports.
func (s Strategy) Label() string {
	switch s {
	case Sequential:
		return "CPU Fractal (Single Thread)"
	case Parallel:
		return "CPU Fractal (Multithread)"
	case Accelerated:
		return "GPU Fractal"
	default:
		return s.String()
	}
}

// ArtifactName returns the file name a strategy writes its image to.
func (s Strategy) ArtifactName() string {
	switch s {
	case Sequential:
		return "Serial_Fractal.png"
	case Parallel:
		return "Parallel_Fractal.png"
	case Accelerated:
		return "Cuda_Fractal.bmp"
	default:
		return ""
	}
}

// Valid reports whether s is one of the defined strategies.
func (s Strategy) Valid() bool {
	return s < strategyCount
}

// ParseStrategy parses a strategy name. Matching is case-insensitive and
// accepts the short aliases "serial", "seq", "par", "gpu" and "cuda".
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sequential", "serial", "seq":
		return Sequential, nil
	case "parallel", "par":
		return Parallel, nil
	case "accelerated", "gpu", "cuda":
		return Accelerated, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}

// Generator produces one artifact for a configuration.
//
// Generate renders cfg and writes the image to path. CPU generators return
// the rendered buffer; the accelerated generator returns nil because the
// pixels never leave the backend.
type Generator interface {
	Strategy() Strategy
	Generate(cfg Config, path string) (*PixelBuffer, error)
}

// NewGenerator returns the generator for s.
func NewGenerator(s Strategy) (Generator, error) {
	switch s {
	case Sequential:
		return cpuGenerator{strategy: s, render: RenderSequential}, nil
	case Parallel:
		return cpuGenerator{strategy: s, render: RenderParallel}, nil
	case Accelerated:
		return acceleratedGenerator{}, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownStrategy, uint8(s))
	}
}

// cpuGenerator renders into a PixelBuffer and encodes it.
type cpuGenerator struct {
	strategy Strategy
	render   func(Config) (*PixelBuffer, error)
}

func (g cpuGenerator) Strategy() Strategy { return g.strategy }

func (g cpuGenerator) Generate(cfg Config, path string) (*PixelBuffer, error) {
	buf, err := g.render(cfg)
	if err != nil {
		return nil, err
	}
	if err := buf.Save(path); err != nil {
		return nil, err
	}
	return buf, nil
}

// acceleratedGenerator forwards to the registered backend. It never falls
// back to a CPU strategy.
type acceleratedGenerator struct{}

func (acceleratedGenerator) Strategy() Strategy { return Accelerated }

func (acceleratedGenerator) Generate(cfg Config, path string) (*PixelBuffer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	a, err := requireAccelerator()
	if err != nil {
		return nil, err
	}
	if err := a.RenderToFile(NewAcceleratedRequest(cfg, path)); err != nil {
		return nil, fmt.Errorf("fractal: %s backend: %w", a.Name(), err)
	}
	return nil, nil
}
