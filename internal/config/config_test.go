// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package config

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoadDefaultsWithNoFile(t *testing.T) {
	cfg, err := Load("", nil, Overrides{}, discardLogger())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Display.Width != Default().Display.Width {
		t.Fatalf("expected default width, got %d", cfg.Display.Width)
	}
}

func TestLoadFileThenOverrideThenCLI(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("display:\n  width: 600\n  height: 800\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path, []string{"display.height=900"}, Overrides{Width: 700}, discardLogger())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Display.Width != 700 {
		t.Fatalf("expected CLI width override 700, got %d", cfg.Display.Width)
	}
	if cfg.Display.Height != 900 {
		t.Fatalf("expected config-override height 900, got %d", cfg.Display.Height)
	}
}

func TestPortraitSwapsDimensionsWhenLandscape(t *testing.T) {
	cfg, err := Load("", nil, Overrides{Width: 800, Height: 480, Portrait: true}, discardLogger())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Display.Width != 480 || cfg.Display.Height != 800 {
		t.Fatalf("expected swapped dimensions, got %dx%d", cfg.Display.Width, cfg.Display.Height)
	}
}

func TestValidateRejectsBadBackend(t *testing.T) {
	cfg := Default()
	cfg.Display.Backend = "holographic"
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected validation error for bad backend")
	}
}

func TestValidateRejectsBadColor(t *testing.T) {
	cfg := Default()
	cfg.UI.Colors.Background = "blue"
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected validation error for non-hex color")
	}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	if err := Validate(Default()); err != nil {
		t.Fatalf("expected default config to validate, got %v", err)
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	out, err := Marshal(Default())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if len(out) == 0 {
		t.Fatalf("expected non-empty YAML output")
	}
}

func TestMalformedOverrideIsIgnoredWithWarning(t *testing.T) {
	cfg, err := Load("", []string{"not-a-kv-pair"}, Overrides{}, discardLogger())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Display.Width != Default().Display.Width {
		t.Fatalf("malformed override should not affect unrelated defaults")
	}
}
