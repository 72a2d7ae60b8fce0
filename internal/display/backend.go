// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package display provides the two display backend implementations
// (windowed, for development hosts, and direct, which scans a software
// surface out through a Linux DRM dumb buffer) behind one Backend
// interface, plus environment-based auto-selection between them.
package display

import (
	"image"
	"log/slog"

	"github.com/brandonfranzke/panelkit/internal/errs"
)

// Kind selects which concrete backend to construct.
type Kind string

const (
	Auto     Kind = "auto"
	Windowed Kind = "windowed"
	Direct   Kind = "direct"
)

// Config mirrors the display.{width,height,fullscreen,vsync,backend}
// configuration keys.
type Config struct {
	Width, Height int
	Title         string
	Backend       Kind
	Fullscreen    bool
	VSync         bool
}

// Backend is the display output contract both implementations satisfy.
// Surface returns the software render target the widget manager paints
// into every frame; Present commits it to the screen.
type Backend interface {
	ActualWidth() int
	ActualHeight() int
	Surface() *image.RGBA
	Present() error
	Destroy() error
}

// Open selects and constructs a backend per Config.Backend, falling back
// from direct to windowed exactly once on construction failure (§4.3).
func Open(cfg Config, log *slog.Logger, scope *errs.Scope) (Backend, error) {
	kind := cfg.Backend
	if kind == "" || kind == Auto {
		kind = selectAuto(log)
	}

	if kind == Direct {
		b, err := openDirect(cfg, scope)
		if err == nil {
			return b, nil
		}
		log.Warn("direct backend init failed, falling back to windowed", "err", err)
		return openWindowed(cfg, scope)
	}
	return openWindowed(cfg, scope)
}

// selectAuto implements the §4.3/§6 probe: pick direct when a DRM device
// node exists, no graphical-session environment hint is present, and the
// node is openable; otherwise windowed.
func selectAuto(log *slog.Logger) Kind {
	ok, reason := ProbeDirectCapable()
	if ok {
		return Direct
	}
	log.Debug("auto-selected windowed backend", "reason", reason)
	return Windowed
}
