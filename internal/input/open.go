// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package input

import (
	"io"
	"log/slog"

	"github.com/brandonfranzke/panelkit/internal/errs"
)

// Config mirrors the input.{source,device_path,auto_detect_devices,
// mouse_emulation} configuration keys.
type Config struct {
	Source            string // auto|native|evdev|mock
	DevicePath        string
	AutoDetectDevices bool
	MouseEmulation    bool
}

// Open selects and constructs a Source per cfg.Source. "auto" picks evdev
// when directBackend is true (a panel with a DRM display almost certainly
// has a touch digitizer), otherwise native (§4.4). If evdev construction
// fails, whether evdev was auto-selected or named explicitly, it retries
// device auto-detection once
// and then falls back to native, matching the recoverable-locally policy
// for input-device-unavailable in §7.
func Open(cfg Config, directBackend bool, stdin io.Reader, log *slog.Logger, scope *errs.Scope) (Source, error) {
	source := cfg.Source
	if source == "" || source == "auto" {
		if directBackend {
			source = "evdev"
		} else {
			source = "native"
		}
	}

	switch source {
	case "evdev":
		s, err := NewEvdevSource(cfg.DevicePath, scope)
		if err == nil {
			return s, nil
		}
		log.Warn("evdev source unavailable, retrying auto-detection once", "error", err)
		s, err = NewEvdevSource("", scope)
		if err == nil {
			return s, nil
		}
		log.Warn("evdev auto-detect failed, falling back to native", "error", err)
		return NewNativeSource(stdin, cfg.MouseEmulation, scope), nil
	case "mock":
		return NewMockSource(Capabilities{}, nil), nil
	case "native":
		return NewNativeSource(stdin, cfg.MouseEmulation, scope), nil
	default:
		return nil, errs.New(scope, errs.InvalidArgument, "input.Open:source", nil)
	}
}
