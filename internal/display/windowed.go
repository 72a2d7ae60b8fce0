// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package display

import (
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/brandonfranzke/panelkit/internal/errs"
)

// windowedBackend is the development-host backend. It has no window-
// manager or compositor dependency (the spec's Non-goals rule both out);
// it keeps a software surface of the requested size and, on each Present,
// can optionally snapshot the frame to disk for developers driving the UI
// without a DRM panel attached.
type windowedBackend struct {
	width, height int
	surface       *image.RGBA
	snapshotPath  string // set via PANELKIT_WINDOWED_SNAPSHOT for dev inspection.
	scope         *errs.Scope
}

func openWindowed(cfg Config, scope *errs.Scope) (Backend, error) {
	w, h := cfg.Width, cfg.Height
	if w <= 0 {
		w = 800
	}
	if h <= 0 {
		h = 480
	}
	return &windowedBackend{
		width:        w,
		height:       h,
		surface:      image.NewRGBA(image.Rect(0, 0, w, h)),
		snapshotPath: os.Getenv("PANELKIT_WINDOWED_SNAPSHOT"),
		scope:        scope,
	}, nil
}

func (b *windowedBackend) ActualWidth() int  { return b.width }
func (b *windowedBackend) ActualHeight() int { return b.height }

func (b *windowedBackend) Surface() *image.RGBA { return b.surface }

func (b *windowedBackend) Present() error {
	if b.snapshotPath == "" {
		return nil
	}
	f, err := os.Create(filepath.Clean(b.snapshotPath))
	if err != nil {
		return errs.New(b.scope, errs.IO, "windowed.Present:snapshot", err)
	}
	defer f.Close()
	if err := png.Encode(f, b.surface); err != nil {
		return errs.New(b.scope, errs.RenderFailed, "windowed.Present:encode", err)
	}
	return nil
}

func (b *windowedBackend) Destroy() error { return nil }
