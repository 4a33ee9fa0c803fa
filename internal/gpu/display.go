// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !nogpu

package gpu

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/fractal"
	"github.com/gogpu/gogpu"
	"github.com/gogpu/gpucontext"
)

// textureDestroyer matches the gogpu.Texture.Destroy signature.
type textureDestroyer interface {
	Destroy()
}

// showWindow opens a gogpu window sized to img and draws it until the
// window is closed. The image is uploaded once on the first frame; the app
// is event-driven so an idle window costs no GPU time.
func showWindow(title string, img *image.RGBA) error {
	w, h := img.Rect.Dx(), img.Rect.Dy()

	app := gogpu.NewApp(gogpu.DefaultConfig().
		WithTitle(title).
		WithSize(w, h).
		WithContinuousRender(false))

	var (
		texture any
		drawErr error
	)

	app.OnDraw(func(dc *gogpu.Context) {
		if drawErr != nil {
			return
		}
		td := dc.AsTextureDrawer()

		if texture == nil {
			creator := td.TextureCreator()
			if creator == nil {
				drawErr = fmt.Errorf("%w: renderer cannot create textures", fractal.ErrInteractiveUnavailable)
				return
			}
			tex, err := creator.NewTextureFromRGBA(w, h, img.Pix)
			if err != nil {
				drawErr = fmt.Errorf("upload fractal texture: %w", err)
				return
			}
			texture = tex
			slogger().Debug("gpu: fractal texture uploaded", "width", w, "height", h, "backend", dc.Backend())
		}

		gpuTex, ok := texture.(gpucontext.Texture)
		if !ok {
			drawErr = fmt.Errorf("%w: unexpected texture type %T", fractal.ErrInteractiveUnavailable, texture)
			return
		}
		if err := td.DrawTexture(gpuTex, 0, 0); err != nil {
			slogger().Warn("gpu: draw fractal texture", "err", err)
		}
	})

	app.OnClose(func() {
		if d, ok := texture.(textureDestroyer); ok {
			d.Destroy()
		}
		texture = nil
	})

	if err := app.Run(); err != nil {
		return errors.Join(fractal.ErrInteractiveUnavailable, err)
	}
	return drawErr
}
