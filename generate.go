// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package fractal

import (
	"context"
	"fmt"
	"path/filepath"
	"time"
)

// Result is the outcome of one generation run.
type Result struct {
	Strategy Strategy

	// Elapsed covers rendering and writing the artifact.
	Elapsed time.Duration

	// Artifact is the path of the written image.
	Artifact string

	// Buffer holds the rendered pixels. It is nil for Accelerated.
	Buffer *PixelBuffer
}

// Millis returns Elapsed in fractional milliseconds.
func (r Result) Millis() float64 {
	return Millis(r.Elapsed)
}

// Generate renders cfg with strategy s, writes the artifact to
// dir/s.ArtifactName() and returns the timed result.
//
// The configuration is validated before anything is computed. The context
// is only checked before the run starts; generation itself is not
// interruptible. On failure no artifact is left behind.
func Generate(ctx context.Context, s Strategy, cfg Config, dir string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}
	gen, err := NewGenerator(s)
	if err != nil {
		return Result{}, err
	}

	path := filepath.Join(dir, s.ArtifactName())
	Logger().Info(fmt.Sprintf("generating %s fractal of %dx%d pixels with %d iterations",
		s, cfg.Grid.Width, cfg.Grid.Height, cfg.MaxIterations),
		"strategy", s.String(),
		"visible", cfg.Viewport.String())

	var buf *PixelBuffer
	elapsed, err := Time(func() error {
		var gerr error
		buf, gerr = gen.Generate(cfg, path)
		return gerr
	})
	if err != nil {
		Logger().Warn("generation failed", "strategy", s.String(), "err", err)
		return Result{}, err
	}

	Logger().Info("fractal generated",
		"strategy", s.String(),
		"elapsed_ms", Millis(elapsed),
		"artifact", path)

	return Result{
		Strategy: s,
		Elapsed:  elapsed,
		Artifact: path,
		Buffer:   buf,
	}, nil
}

// RunInteractive opens the accelerated backend's real-time display sized
// width x height and blocks until it is closed.
func RunInteractive(width, height int) error {
	if err := (Grid{Width: width, Height: height}).Validate(); err != nil {
		return err
	}
	a, err := requireAccelerator()
	if err != nil {
		return err
	}
	Logger().Info("starting interactive display", "backend", a.Name(), "width", width, "height", height)
	if err := a.RenderInteractive(width, height); err != nil {
		return fmt.Errorf("fractal: %s interactive: %w", a.Name(), err)
	}
	return nil
}
