// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package app

import (
	"context"
	"encoding/json"
	"image"
	"io"
	"log/slog"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/brandonfranzke/panelkit/internal/app/mocks"
	"github.com/brandonfranzke/panelkit/internal/bus"
	"github.com/brandonfranzke/panelkit/internal/errs"
	"github.com/brandonfranzke/panelkit/internal/gesture"
	"github.com/brandonfranzke/panelkit/internal/geom"
	"github.com/brandonfranzke/panelkit/internal/input"
	"github.com/brandonfranzke/panelkit/internal/store"
	"github.com/brandonfranzke/panelkit/internal/ui"
	"github.com/brandonfranzke/panelkit/internal/widget"
)

const testWidth, testHeight = 480, 320

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestTree(t *testing.T, scope *errs.Scope, b *bus.Bus, st *store.Store) *ui.Tree {
	t.Helper()
	tr := ui.Build(ui.Deps{Store: st, Bus: b, Measurer: stubMeasurer{}, Rasterizer: stubMeasurer{}, Scope: scope})
	tr.Manager.Root.SetRootBounds(geom.Rect{X: 0, Y: 0, W: testWidth, H: testHeight})
	tr.Manager.Layout()
	return tr
}

type stubMeasurer struct{}

func (stubMeasurer) Measure(text, font string) (int, int) { return len(text) * 7, 13 }
func (stubMeasurer) Rasterize(text, font string, fg geom.Color) (*image.RGBA, error) {
	return image.NewRGBA(image.Rect(0, 0, 1, 1)), nil
}

// TestLoopClickDiscipline drives a down/up pair squarely inside the
// "Change Text Color" button's bounds through the mocked backend and input
// source and confirms the click fires exactly once, then a second frame
// reporting a quit event ends Run cleanly — exercising the click-discipline
// law end to end rather than unit-by-unit.
func TestLoopClickDiscipline(t *testing.T) {
	ctrl := gomock.NewController(t)
	scope := errs.NewScope()
	b := bus.New(scope)
	st := store.New(scope)
	tr := newTestTree(t, scope, b, st)

	backend := mocks.NewMockBackend(ctrl)
	backend.EXPECT().ActualWidth().Return(testWidth).AnyTimes()
	backend.EXPECT().ActualHeight().Return(testHeight).AnyTimes()
	backend.EXPECT().Surface().Return(image.NewRGBA(image.Rect(0, 0, testWidth, testHeight))).AnyTimes()
	backend.EXPECT().Present().Return(nil).AnyTimes()

	// Button "page0_change_color" sits at (40,120)-(240,168); (140,144) is
	// its center.
	down := input.Event{Kind: input.MouseButtonDown, PX: 140, PY: 144}
	up := input.Event{Kind: input.MouseButtonUp, PX: 140, PY: 144}
	quit := input.Event{Kind: input.Quit}

	src := mocks.NewMockSource(ctrl)
	gomock.InOrder(
		src.EXPECT().Drain().Return([]input.Event{down, up}),
		src.EXPECT().Drain().Return([]input.Event{quit}),
	)

	clock := time.UnixMilli(0)
	loop := &Loop{
		Bus: b, Store: st, Display: backend, Input: src,
		Gesture: gesture.New(gesture.DefaultConfig(), tr.Manager),
		Tree:    tr, Notifier: errs.NewNotifier(4), Log: newTestLogger(), Scope: scope,
		Now: func() time.Time { return clock },
	}

	if err := loop.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	data, _, ok := st.Get("app", "page1_text_color")
	if !ok {
		t.Fatal("expected page1_text_color to be written by the click")
	}
	var idx int
	if err := json.Unmarshal(data, &idx); err != nil {
		t.Fatalf("unmarshal index: %v", err)
	}
	if idx != 1 {
		t.Fatalf("expected palette index 1 after one click, got %d", idx)
	}
}

// TestLoopDragDoesNotClick confirms a down/motion-past-threshold/up stream
// never dispatches the button's click callback, matching the "no
// intervening drag classification" clause of the click-discipline law.
func TestLoopDragDoesNotClick(t *testing.T) {
	ctrl := gomock.NewController(t)
	scope := errs.NewScope()
	b := bus.New(scope)
	st := store.New(scope)
	tr := newTestTree(t, scope, b, st)

	backend := mocks.NewMockBackend(ctrl)
	backend.EXPECT().ActualWidth().Return(testWidth).AnyTimes()
	backend.EXPECT().ActualHeight().Return(testHeight).AnyTimes()
	backend.EXPECT().Surface().Return(image.NewRGBA(image.Rect(0, 0, testWidth, testHeight))).AnyTimes()
	backend.EXPECT().Present().Return(nil).AnyTimes()

	down := input.Event{Kind: input.MouseButtonDown, PX: 140, PY: 144}
	motion := input.Event{Kind: input.MouseMotion, PX: 140, PY: 250} // well past the drag threshold
	up := input.Event{Kind: input.MouseButtonUp, PX: 140, PY: 250}
	quit := input.Event{Kind: input.Quit}

	src := mocks.NewMockSource(ctrl)
	gomock.InOrder(
		src.EXPECT().Drain().Return([]input.Event{down}),
		src.EXPECT().Drain().Return([]input.Event{motion, up}),
		src.EXPECT().Drain().Return([]input.Event{quit}),
	)

	clock := time.UnixMilli(0)
	loop := &Loop{
		Bus: b, Store: st, Display: backend, Input: src,
		Gesture: gesture.New(gesture.DefaultConfig(), tr.Manager),
		Tree:    tr, Notifier: errs.NewNotifier(4), Log: newTestLogger(), Scope: scope,
		Now: func() time.Time { clock = clock.Add(20 * time.Millisecond); return clock },
	}

	if err := loop.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if _, _, ok := st.Get("app", "page1_text_color"); ok {
		t.Fatal("drag must not have dispatched the click")
	}
	btn := tr.Manager.WidgetByID("page0_change_color")
	if btn.State.Has(widget.FlagPressed) {
		t.Fatal("button must not still read pressed after the drag released it")
	}
}
