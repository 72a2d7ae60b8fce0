// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

//go:build !linux

package input

import "github.com/brandonfranzke/panelkit/internal/errs"

// NewEvdevSource is only implemented for Linux, where /dev/input device
// nodes and the evdev multi-touch protocol exist.
func NewEvdevSource(devicePath string, scope *errs.Scope) (Source, error) {
	return nil, errs.New(scope, errs.InputDeviceUnavailable, "input.NewEvdevSource", errUnsupportedPlatform)
}
