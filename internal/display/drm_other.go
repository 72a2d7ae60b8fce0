// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

//go:build !linux

package display

import "github.com/brandonfranzke/panelkit/internal/errs"

// openDirect is only implemented for Linux, where the DRM dumb-buffer path
// exists. On other platforms it always fails, which Open() turns into a
// fallback to the windowed backend.
func openDirect(cfg Config, scope *errs.Scope) (Backend, error) {
	return nil, errs.New(scope, errs.DisplayInitFailed, "display.openDirect", errUnsupportedPlatform)
}
