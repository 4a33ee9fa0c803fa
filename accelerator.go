// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package fractal

import (
	"errors"
	"fmt"
	"sync"
)

// AcceleratedRequest is the argument block of an accelerated render.
//
// Field order, types and units follow the native call contract of the
// accelerated backend: interactive flag, grid size, viewport bounds, pixel
// step sizes, iteration cap, packed palette with its length, output file.
// Backends must not reorder or reinterpret them.
type AcceleratedRequest struct {
	// UseInteractive asks the backend to drive its display instead of
	// writing FileName.
	UseInteractive bool

	Width  int
	Height int

	X0, X1 float64
	Y0, Y1 float64

	// PixelWidth and PixelHeight are the plane extents of one pixel.
	PixelWidth  float64
	PixelHeight float64

	MaxIterations int

	// Colors is the palette as packed 0xRRGGBB integers.
	Colors       []int32
	ColorsAmount int

	// FileName is the artifact path.
	FileName string
}

// NewAcceleratedRequest builds the request for cfg writing to file.
// The pixel step sizes are derived from cfg at call time.
func NewAcceleratedRequest(cfg Config, file string) AcceleratedRequest {
	colors := cfg.Palette.Packed()
	return AcceleratedRequest{
		Width:         cfg.Grid.Width,
		Height:        cfg.Grid.Height,
		X0:            cfg.Viewport.X0,
		X1:            cfg.Viewport.X1,
		Y0:            cfg.Viewport.Y0,
		Y1:            cfg.Viewport.Y1,
		PixelWidth:    cfg.PixelWidth(),
		PixelHeight:   cfg.PixelHeight(),
		MaxIterations: cfg.MaxIterations,
		Colors:        colors,
		ColorsAmount:  len(colors),
		FileName:      file,
	}
}

// AcceleratedBackend renders on a hardware accelerator.
//
// Implementations are provided by backend packages and registered with
// RegisterAccelerator. Users opt in via blank import:
//
//	import _ "github.com/gogpu/fractal/gpu" // enables the GPU strategy
type AcceleratedBackend interface {
	// Name returns the backend name (e.g., "wgpu").
	Name() string

	// Init acquires device resources. Called once during registration.
	Init() error

	// Close releases device resources.
	Close()

	// RenderToFile computes the request and writes req.FileName.
	// It blocks until the artifact is finalized.
	RenderToFile(req AcceleratedRequest) error

	// RenderInteractive opens a real-time display of the default view
	// sized width x height and blocks until it is closed.
	// Returns ErrInteractiveUnavailable if the backend has no display.
	RenderInteractive(width, height int) error
}

var (
	accelMu sync.RWMutex
	accel   AcceleratedBackend

	// accelInitErr is the Init error of the last failed registration.
	// Cleared by a successful one.
	accelInitErr error
)

// RegisterAccelerator registers the accelerated backend.
//
// Only one backend can be registered. Subsequent calls replace the previous
// one, which is closed. The backend's Init method is called during
// registration; if it fails the backend is not registered and the error is
// returned wrapped in ErrBackendUnavailable.
func RegisterAccelerator(a AcceleratedBackend) error {
	if a == nil {
		return errors.New("fractal: accelerator must not be nil")
	}
	if err := a.Init(); err != nil {
		accelMu.Lock()
		accelInitErr = fmt.Errorf("%s: %w", a.Name(), err)
		accelMu.Unlock()
		return errors.Join(ErrBackendUnavailable, err)
	}
	propagateLogger(a, Logger())

	accelMu.Lock()
	old := accel
	accel = a
	accelInitErr = nil
	accelMu.Unlock()
	if old != nil {
		old.Close()
	}
	Logger().Debug("accelerated backend registered", "name", a.Name())
	return nil
}

// Accelerator returns the registered backend, or nil if none.
func Accelerator() AcceleratedBackend {
	accelMu.RLock()
	a := accel
	accelMu.RUnlock()
	return a
}

// CloseAccelerator unregisters and closes the backend, if any.
func CloseAccelerator() {
	accelMu.Lock()
	a := accel
	accel = nil
	accelMu.Unlock()
	if a != nil {
		a.Close()
	}
}

// requireAccelerator returns the registered backend or ErrBackendUnavailable,
// wrapping the Init error of the last failed registration when there is one.
func requireAccelerator() (AcceleratedBackend, error) {
	accelMu.RLock()
	a, initErr := accel, accelInitErr
	accelMu.RUnlock()
	if a != nil {
		return a, nil
	}
	if initErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrBackendUnavailable, initErr)
	}
	return nil, ErrBackendUnavailable
}
