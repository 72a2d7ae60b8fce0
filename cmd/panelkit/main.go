// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Command panelkit is PanelKit's application entry point: it parses the
// CLI surface in §6, loads the layered configuration, wires the five core
// subsystems, builds the hardcoded initial widget tree, and runs the
// application loop until quit.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/brandonfranzke/panelkit/internal/api"
	"github.com/brandonfranzke/panelkit/internal/app"
	"github.com/brandonfranzke/panelkit/internal/bus"
	"github.com/brandonfranzke/panelkit/internal/config"
	"github.com/brandonfranzke/panelkit/internal/display"
	"github.com/brandonfranzke/panelkit/internal/errs"
	"github.com/brandonfranzke/panelkit/internal/font"
	"github.com/brandonfranzke/panelkit/internal/gesture"
	"github.com/brandonfranzke/panelkit/internal/geom"
	"github.com/brandonfranzke/panelkit/internal/input"
	"github.com/brandonfranzke/panelkit/internal/store"
	"github.com/brandonfranzke/panelkit/internal/ui"
)

// exitError carries a deliberate process exit code out of cobra's RunE,
// since the CLI surface in §6 distinguishes 0/1/validation-specific codes
// rather than cobra's default "any error means 1".
type exitError int

func (e exitError) Error() string { return fmt.Sprintf("exit %d", int(e)) }

func main() {
	os.Exit(runMain())
}

func runMain() int {
	var (
		configFile     string
		overrides      []string
		displayBackend string
		width, height  int
		portrait       bool
		validateConfig string
		generateConfig string
		logFormat      string
		watchConfig    bool
	)

	root := &cobra.Command{
		Use:           "panelkit",
		Short:         "PanelKit touch UI runtime",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(logFormat)

			if generateConfig != "" {
				return runGenerateConfig(generateConfig, log)
			}
			if validateConfig != "" {
				return runValidateConfig(validateConfig, log)
			}

			cli := config.Overrides{Width: width, Height: height, Portrait: portrait, DisplayBackend: displayBackend}
			cfg, err := config.Load(configFile, overrides, cli, log)
			if err != nil {
				log.Error("config load failed", "error", err)
				return exitError(1)
			}
			if err := config.Validate(cfg); err != nil {
				log.Error("startup config invalid", "error", err)
				return exitError(1)
			}

			watchFile := ""
			if watchConfig {
				watchFile = configFile
			}
			if err := runApp(cfg, watchFile, log); err != nil {
				log.Error("fatal error", "error", err)
				return exitError(1)
			}
			return nil
		},
	}

	root.Flags().StringVar(&configFile, "config", "", "additional YAML config file to overlay on the built-in defaults")
	root.Flags().StringArrayVar(&overrides, "config-override", nil, "single key=value override, repeatable, highest precedence short of CLI flags")
	root.Flags().StringVar(&displayBackend, "display-backend", "", "force the display backend: auto|windowed|direct")
	root.Flags().IntVar(&width, "width", 0, "override display width in pixels")
	root.Flags().IntVar(&height, "height", 0, "override display height in pixels")
	root.Flags().BoolVar(&portrait, "portrait", false, "swap width/height for a portrait panel")
	root.Flags().StringVar(&validateConfig, "validate-config", "", "validate a config file, print the result, and exit")
	root.Flags().StringVar(&generateConfig, "generate-config", "", "write a default configuration file and exit")
	root.Flags().StringVar(&logFormat, "log-format", "text", "log output format: text|json")
	root.Flags().BoolVar(&watchConfig, "watch-config", false, "reload ui.colors.background from --config on file change")

	if err := root.Execute(); err != nil {
		if code, ok := err.(exitError); ok {
			return int(code)
		}
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func newLogger(format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// runGenerateConfig implements --generate-config: write the built-in
// defaults as YAML to path and exit 0.
func runGenerateConfig(path string, log *slog.Logger) error {
	data, err := config.Marshal(config.Default())
	if err != nil {
		log.Error("could not marshal default config", "error", err)
		return exitError(1)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Error("could not write config file", "path", path, "error", err)
		return exitError(1)
	}
	return nil
}

// runValidateConfig implements --validate-config: exit 0 on a valid file,
// exit 1 with a message on an invalid one.
func runValidateConfig(path string, log *slog.Logger) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		return exitError(1)
	}
	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		return exitError(1)
	}
	cfg, err := config.Load(path, nil, config.Overrides{}, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		return exitError(1)
	}
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		return exitError(1)
	}
	fmt.Println("config is valid")
	return nil
}

// runApp wires every core subsystem, builds the initial tree, and runs the
// application loop to completion. watchFile is empty unless --watch-config
// was passed, in which case it is the same path as --config.
func runApp(cfg *config.Config, watchFile string, log *slog.Logger) error {
	scope := errs.NewScope()
	notifier := errs.NewNotifier(16)

	b := bus.New(scope)
	st := store.New(scope)
	seedStoreDefaults(st, cfg)

	backend, err := display.Open(display.Config{
		Width: cfg.Display.Width, Height: cfg.Display.Height,
		Backend: display.Kind(cfg.Display.Backend), Fullscreen: cfg.Display.Fullscreen, VSync: cfg.Display.VSync,
	}, log, scope)
	if err != nil {
		return err
	}
	defer backend.Destroy()

	directBackend := cfg.Display.Backend == "direct"
	inputCfg := input.Config{
		Source: cfg.Input.Source, DevicePath: cfg.Input.DevicePath,
		AutoDetectDevices: cfg.Input.AutoDetectDevices, MouseEmulation: cfg.Input.MouseEmulation,
	}
	src, err := input.Open(inputCfg, directBackend, os.Stdin, log, scope)
	if err != nil {
		return err
	}
	if err := src.Start(); err != nil {
		return err
	}
	defer src.Stop()

	faces := font.NewSet(cfg.UI.Fonts.RegularSize, cfg.UI.Fonts.LargeSize, cfg.UI.Fonts.SmallSize)

	fetcher := api.NewMockFetcher()
	worker := api.NewWorker(fetcher, b, st,
		cfg.API.DefaultRetryCount, time.Duration(cfg.API.DefaultRetryDelayMS)*time.Millisecond,
		time.Duration(cfg.API.DefaultTimeoutMS)*time.Millisecond, notifier, log, scope)
	if err := worker.Start(); err != nil {
		return err
	}

	tree := ui.Build(ui.Deps{
		Store: st, Bus: b, APIWorker: worker, Measurer: faces, Rasterizer: faces,
		Scope: scope, Log: log,
	})
	tree.Manager.Root.SetRootBounds(geom.Rect{X: 0, Y: 0, W: backend.ActualWidth(), H: backend.ActualHeight()})

	var watcher *config.Watcher
	if watchFile != "" {
		w, err := config.NewWatcher(watchFile, func(reloaded *config.Config) {
			writeJSON(st, "app", "bg_color", hexToColor(reloaded.UI.Colors.Background))
			log.Info("config reloaded", "background", reloaded.UI.Colors.Background)
		}, log)
		if err != nil {
			log.Warn("config watch unavailable", "error", err)
		} else {
			watcher = w
			defer watcher.Close()
		}
	}

	worker.RequestRefresh("startup")

	ctx, cancel := signalContext()
	defer cancel()

	loop := &app.Loop{
		Bus: b, Store: st, Display: backend, Input: src,
		Gesture: gesture.New(gesture.DefaultConfig(), tree.Manager),
		Tree:    tree, Notifier: notifier, Log: log, Scope: scope,
	}
	return loop.Run(ctx)
}

// seedStoreDefaults populates the compound keys §6 lists so the first
// frame has something to read before any button or API refresh writes to
// them.
func seedStoreDefaults(st *store.Store, cfg *config.Config) {
	writeJSON(st, "app", "bg_color", hexToColor(cfg.UI.Colors.Background))
	writeJSON(st, "app", "current_page", 0)
	writeJSON(st, "app", "show_time", false)
	writeJSON(st, "app", "show_debug", false)
	writeJSON(st, "app", "page1_text_color", 0)
	writeJSON(st, "app", "quit", false)
}

// writeJSON marshals v and writes it under (typeName, id), logging nothing
// on failure since these are all known-good startup values.
func writeJSON(st *store.Store, typeName, id string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	st.Set(typeName, id, data)
}

// hexToColor parses a "#RRGGBB" string (already validated by
// config.Validate) into a geom.Color.
func hexToColor(hex string) geom.Color {
	if len(hex) != 7 || hex[0] != '#' {
		return geom.Opaque(30, 30, 30)
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return geom.Opaque(30, 30, 30)
	}
	return geom.Opaque(uint8(v>>16), uint8(v>>8), uint8(v))
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()
	return ctx, cancel
}
