// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package app wires the display backend, input source, gesture engine,
// widget manager, event bus, and state store into the single-threaded
// cooperative frame loop described in §4.8: drain input, update, render,
// present, sleep to cap the frame, repeat until quit.
package app

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/brandonfranzke/panelkit/internal/bus"
	"github.com/brandonfranzke/panelkit/internal/display"
	"github.com/brandonfranzke/panelkit/internal/errs"
	"github.com/brandonfranzke/panelkit/internal/gesture"
	"github.com/brandonfranzke/panelkit/internal/geom"
	"github.com/brandonfranzke/panelkit/internal/input"
	"github.com/brandonfranzke/panelkit/internal/store"
	"github.com/brandonfranzke/panelkit/internal/ui"
)

// frameInterval caps the loop at roughly 60 Hz.
const frameInterval = 16 * time.Millisecond

// defaultBackground is used until ("app","bg_color") is ever set.
var defaultBackground = geom.Opaque(30, 30, 30)

// mousePointerID is the fixed pointer id the loop assigns the single
// emulated mouse pointer; touch fingers carry their own FingerID, which
// the evdev/native sources start numbering from 1, so -1 never collides.
const mousePointerID = -1

// Loop owns the running application: every subsystem the UI thread drives
// once per frame, plus teardown order.
type Loop struct {
	Bus      *bus.Bus
	Store    *store.Store
	Display  display.Backend
	Input    input.Source
	Gesture  *gesture.Engine
	Tree     *ui.Tree
	Notifier *errs.Notifier
	Log      *slog.Logger
	Scope    *errs.Scope

	// Now overrides the wall clock for deterministic tests; nil uses
	// time.Now.
	Now func() time.Time

	lastFrame time.Time
}

func (l *Loop) now() time.Time {
	if l.Now != nil {
		return l.Now()
	}
	return time.Now()
}

// Run drives the loop until ctx is cancelled, a quit input event arrives,
// or the store's ("app","quit") key becomes true. It returns the first
// fatal error encountered (e.g. a display-disconnected Present failure);
// a nil return means a clean, requested shutdown.
func (l *Loop) Run(ctx context.Context) error {
	l.lastFrame = l.now()
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		frameStart := l.now()
		dt := frameStart.Sub(l.lastFrame).Seconds()
		l.lastFrame = frameStart

		if l.drainInput() {
			return nil
		}

		l.Tree.PollUpdates(l.Store)
		l.Tree.Manager.Update(dt)
		l.Tree.Manager.Layout()

		surface := l.Display.Surface()
		if err := l.Tree.Manager.Render(surface, l.backgroundColor()); err != nil {
			l.Log.Error("frame render failed, skipping present", "error", err)
		} else if err := l.Display.Present(); err != nil {
			if perr, ok := err.(*errs.Error); ok && perr.Kind.Fatal() {
				return err
			}
			l.Log.Error("present failed", "error", err)
		}

		if l.shouldQuit() {
			return nil
		}

		if elapsed := l.now().Sub(frameStart); elapsed < frameInterval {
			time.Sleep(frameInterval - elapsed)
		}
	}
}

// drainInput pulls every pending normalized event from the input source
// and feeds it through the gesture engine and widget manager. It reports
// true if a quit event was seen.
func (l *Loop) drainInput() bool {
	w, h := l.Display.ActualWidth(), l.Display.ActualHeight()
	for _, ev := range l.Input.Drain() {
		switch ev.Kind {
		case input.Quit:
			return true
		case input.FingerDown:
			l.pointerDown(ev.FingerID, normalizedToPixel(ev.X, ev.Y, w, h))
		case input.FingerMotion:
			l.pointerMotion(ev.FingerID, normalizedToPixel(ev.X, ev.Y, w, h))
		case input.FingerUp:
			l.pointerUp(ev.FingerID, normalizedToPixel(ev.X, ev.Y, w, h))
		case input.MouseButtonDown:
			l.pointerDown(mousePointerID, geom.Point{X: ev.PX, Y: ev.PY})
		case input.MouseMotion:
			l.pointerMotion(mousePointerID, geom.Point{X: ev.PX, Y: ev.PY})
		case input.MouseButtonUp:
			l.pointerUp(mousePointerID, geom.Point{X: ev.PX, Y: ev.PY})
		case input.KeyDown, input.KeyUp:
			// No widget in the initial tree binds a keysym; reserved for
			// future keyboard shortcuts.
		}
	}
	return false
}

func normalizedToPixel(x, y float64, w, h int) geom.Point {
	return geom.Point{X: int(x * float64(w)), Y: int(y * float64(h))}
}

// pointerDown marks the hit-tested widget pressed and starts the gesture
// engine's classification for pointerID.
func (l *Loop) pointerDown(pointerID int, p geom.Point) {
	if id, _, ok := l.Tree.Manager.HitTest(p); ok {
		l.Tree.Manager.OnPointerDown(pointerID, l.Tree.Manager.WidgetByID(id))
	}
	l.Gesture.Feed(gesture.PointerEvent{Phase: gesture.Down, PointerID: pointerID, Point: p, Time: l.now()})
}

// pointerMotion advances the gesture engine (driving page drag/scroll) and
// separately updates hover/pressed routing on the manager.
func (l *Loop) pointerMotion(pointerID int, p geom.Point) {
	tr := l.Gesture.Feed(gesture.PointerEvent{Phase: gesture.Motion, PointerID: pointerID, Point: p, Time: l.now()})
	l.Tree.Manager.HandleGesture(tr)
	l.Tree.Manager.OnPointerMotion(pointerID, p)
}

// pointerUp resolves the gesture and, if and only if the engine classified
// the whole stream as a click (never left Potential), dispatches it
// through the manager's bounds-checked OnPointerUp. Any other outcome
// (swipe, scroll, hold) only releases the pressed state, per the click
// discipline law in §8.
func (l *Loop) pointerUp(pointerID int, p geom.Point) {
	tr := l.Gesture.Feed(gesture.PointerEvent{Phase: gesture.Up, PointerID: pointerID, Point: p, Time: l.now()})
	l.Tree.Manager.HandleGesture(tr)
	if tr.Kind == gesture.ClickDispatched {
		l.Tree.Manager.OnPointerUp(pointerID, p)
	} else {
		l.Tree.Manager.ClearPressed(pointerID)
	}
}

func (l *Loop) backgroundColor() geom.Color {
	data, _, ok := l.Store.Get("app", "bg_color")
	if !ok {
		return defaultBackground
	}
	var c geom.Color
	if err := json.Unmarshal(data, &c); err != nil {
		return defaultBackground
	}
	return c
}

func (l *Loop) shouldQuit() bool {
	data, _, ok := l.Store.Get("app", "quit")
	if !ok {
		return false
	}
	var q bool
	if err := json.Unmarshal(data, &q); err != nil {
		return false
	}
	return q
}
