// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package fractal

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"sync"
)

// Opener hands an artifact to something that can show it.
type Opener interface {
	Open(ctx context.Context, path string) error
}

// OpenerFunc adapts a function to the Opener interface.
type OpenerFunc func(ctx context.Context, path string) error

// Open calls f(ctx, path).
func (f OpenerFunc) Open(ctx context.Context, path string) error {
	return f(ctx, path)
}

// systemOpener launches the platform's default image viewer.
type systemOpener struct{}

func (systemOpener) Open(ctx context.Context, path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.CommandContext(ctx, "rundll32", "url.dll,FileProtocolHandler", path)
	case "darwin":
		cmd = exec.CommandContext(ctx, "open", path)
	default:
		cmd = exec.CommandContext(ctx, "xdg-open", path)
	}
	return cmd.Start()
}

var (
	openerMu sync.RWMutex
	opener   Opener = systemOpener{}
)

// SetOpener replaces the opener used by Preview. Pass nil to restore the
// system viewer.
func SetOpener(o Opener) {
	if o == nil {
		o = systemOpener{}
	}
	openerMu.Lock()
	opener = o
	openerMu.Unlock()
}

func currentOpener() Opener {
	openerMu.RLock()
	o := opener
	openerMu.RUnlock()
	return o
}

// Preview shows the artifact at path.
//
// A missing or unreadable artifact, or a viewer that fails to start, is
// logged at warn level and returned wrapped in ErrArtifactOpen. Callers
// treat the error as informational; it never invalidates a generation run.
func Preview(ctx context.Context, path string) error {
	f, err := os.Open(path) //nolint:gosec // artifact path is produced by Generate
	if err != nil {
		Logger().Warn("cannot open artifact", "path", path, "err", err)
		return fmt.Errorf("%w: %w", ErrArtifactOpen, err)
	}
	_ = f.Close()

	if err := currentOpener().Open(ctx, path); err != nil {
		Logger().Warn("cannot launch viewer", "path", path, "err", err)
		return fmt.Errorf("%w: %s: %w", ErrArtifactOpen, path, err)
	}
	Logger().Debug("artifact previewed", "path", path)
	return nil
}
