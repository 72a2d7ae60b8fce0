// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package config

import (
	"log/slog"

	"github.com/fsnotify/fsnotify"
)

// SafeReloadKeys are the only settings --watch-config is allowed to push
// into the running state store; display backend and input source are
// construction-time only and never change after startup.
var SafeReloadKeys = []string{"ui.colors.background", "ui.fonts.regular_size", "ui.fonts.large_size", "ui.fonts.small_size"}

// Watcher reloads configFile on change and reports the new Config via
// onChange. It never reads display.* or input.* from a reload; only the
// UI font/color subset is considered safe to change live.
type Watcher struct {
	watcher    *fsnotify.Watcher
	configFile string
	onChange   func(*Config)
	log        *slog.Logger
}

// NewWatcher starts watching configFile. Callers must call Close when
// done.
func NewWatcher(configFile string, onChange func(*Config), log *slog.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(configFile); err != nil {
		fw.Close()
		return nil, err
	}
	w := &Watcher{watcher: fw, configFile: configFile, onChange: onChange, log: log}
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	for {
		select {
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			cfg, err := Load(w.configFile, nil, Overrides{}, w.log)
			if err != nil {
				w.log.Warn("config reload failed, keeping previous settings", "error", err)
				continue
			}
			if err := Validate(cfg); err != nil {
				w.log.Warn("reloaded config is invalid, keeping previous settings", "error", err)
				continue
			}
			w.onChange(safeSubset(cfg))
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("config watcher error", "error", err)
		}
	}
}

// safeSubset returns a Config carrying only the fields SafeReloadKeys
// names, leaving everything else zero so callers only apply what changed.
func safeSubset(cfg *Config) *Config {
	return &Config{UI: cfg.UI}
}

// Close stops the watcher.
func (w *Watcher) Close() error { return w.watcher.Close() }
