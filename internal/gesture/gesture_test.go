// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package gesture

import (
	"testing"
	"time"

	"github.com/brandonfranzke/panelkit/internal/geom"
)

type fixedHit struct {
	widgetID  string
	pageIndex int
	ok        bool
}

func (f fixedHit) HitTest(p geom.Point) (string, int, bool) { return f.widgetID, f.pageIndex, f.ok }

func TestClickBelowThresholdAndTimeout(t *testing.T) {
	e := New(DefaultConfig(), fixedHit{widgetID: "btn1", pageIndex: 0, ok: true})
	t0 := time.Unix(0, 0)

	tr := e.Feed(PointerEvent{Phase: Down, PointerID: 1, Point: geom.Point{X: 10, Y: 10}, Time: t0})
	if tr.Kind != NoTransition {
		t.Fatalf("pointer-down should not transition immediately, got %v", tr.Kind)
	}
	if e.State().Phase != Potential {
		t.Fatalf("expected Potential phase, got %v", e.State().Phase)
	}

	tr = e.Feed(PointerEvent{Phase: Up, PointerID: 1, Point: geom.Point{X: 11, Y: 9}, Time: t0.Add(100 * time.Millisecond)})
	if tr.Kind != ClickDispatched || tr.WidgetID != "btn1" {
		t.Fatalf("expected click on btn1, got %+v", tr)
	}
	if e.State().Phase != Idle {
		t.Fatalf("expected Idle after click, got %v", e.State().Phase)
	}
}

func TestDragHorizontalClassification(t *testing.T) {
	e := New(DefaultConfig(), fixedHit{ok: false})
	t0 := time.Unix(0, 0)

	e.Feed(PointerEvent{Phase: Down, PointerID: 1, Point: geom.Point{X: 100, Y: 100}, Time: t0})
	tr := e.Feed(PointerEvent{Phase: Motion, PointerID: 1, Point: geom.Point{X: 130, Y: 102}, Time: t0.Add(10 * time.Millisecond)})
	if tr.Kind != NoTransition {
		t.Fatalf("first over-threshold motion should just flip phase, got %v", tr.Kind)
	}
	if e.State().Phase != DragHorizontal {
		t.Fatalf("expected DragHorizontal, got %v", e.State().Phase)
	}

	tr = e.Feed(PointerEvent{Phase: Motion, PointerID: 1, Point: geom.Point{X: 140, Y: 103}, Time: t0.Add(20 * time.Millisecond)})
	if tr.Kind != PageOffsetUpdated {
		t.Fatalf("expected PageOffsetUpdated, got %v", tr.Kind)
	}
	if tr.OffsetDelta != 10 {
		t.Fatalf("expected delta 10, got %v", tr.OffsetDelta)
	}

	tr = e.Feed(PointerEvent{Phase: Up, PointerID: 1, Point: geom.Point{X: 200, Y: 103}, Time: t0.Add(30 * time.Millisecond)})
	if tr.Kind != SwipeEnded {
		t.Fatalf("expected SwipeEnded, got %v", tr.Kind)
	}
	if tr.DX != 100 {
		t.Fatalf("expected total dx 100, got %v", tr.DX)
	}
	if e.State().Phase != Idle {
		t.Fatalf("expected Idle after swipe end, got %v", e.State().Phase)
	}
}

func TestDragVerticalScroll(t *testing.T) {
	e := New(DefaultConfig(), fixedHit{ok: false})
	t0 := time.Unix(0, 0)

	e.Feed(PointerEvent{Phase: Down, PointerID: 1, Point: geom.Point{X: 50, Y: 50}, Time: t0})
	e.Feed(PointerEvent{Phase: Motion, PointerID: 1, Point: geom.Point{X: 52, Y: 80}, Time: t0.Add(10 * time.Millisecond)})
	if e.State().Phase != DragVertical {
		t.Fatalf("expected DragVertical, got %v", e.State().Phase)
	}

	tr := e.Feed(PointerEvent{Phase: Motion, PointerID: 1, Point: geom.Point{X: 52, Y: 95}, Time: t0.Add(20 * time.Millisecond)})
	if tr.Kind != ScrollUpdated || tr.DY != 15 {
		t.Fatalf("expected ScrollUpdated dy=15, got %+v", tr)
	}

	tr = e.Feed(PointerEvent{Phase: Up, PointerID: 1, Point: geom.Point{X: 52, Y: 95}, Time: t0.Add(30 * time.Millisecond)})
	if tr.Kind != NoTransition || e.State().Phase != Idle {
		t.Fatalf("expected quiet return to Idle, got %+v phase=%v", tr, e.State().Phase)
	}
}

func TestHoldTransition(t *testing.T) {
	e := New(DefaultConfig(), fixedHit{widgetID: "tile", ok: true})
	t0 := time.Unix(0, 0)

	e.Feed(PointerEvent{Phase: Down, PointerID: 1, Point: geom.Point{X: 10, Y: 10}, Time: t0})
	tr := e.Feed(PointerEvent{Phase: Motion, PointerID: 1, Point: geom.Point{X: 11, Y: 10}, Time: t0.Add(1100 * time.Millisecond)})
	if tr.Kind != HoldStarted || tr.WidgetID != "tile" {
		t.Fatalf("expected HoldStarted on tile, got %+v", tr)
	}
	if e.State().Phase != Hold {
		t.Fatalf("expected Hold phase, got %v", e.State().Phase)
	}

	tr = e.Feed(PointerEvent{Phase: Up, PointerID: 1, Point: geom.Point{X: 11, Y: 10}, Time: t0.Add(1200 * time.Millisecond)})
	if tr.Kind != NoTransition || e.State().Phase != Idle {
		t.Fatalf("expected Idle after hold release, got %+v phase=%v", tr, e.State().Phase)
	}
}

func TestStalePointerIgnored(t *testing.T) {
	e := New(DefaultConfig(), fixedHit{ok: false})
	t0 := time.Unix(0, 0)

	e.Feed(PointerEvent{Phase: Down, PointerID: 1, Point: geom.Point{X: 0, Y: 0}, Time: t0})
	tr := e.Feed(PointerEvent{Phase: Motion, PointerID: 2, Point: geom.Point{X: 500, Y: 500}, Time: t0})
	if tr.Kind != NoTransition || e.State().Phase != Potential {
		t.Fatalf("event from a second pointer id must not disturb the active gesture, got %+v phase=%v", tr, e.State().Phase)
	}
}

func TestClickMissWhenHitTestFails(t *testing.T) {
	e := New(DefaultConfig(), fixedHit{ok: false})
	t0 := time.Unix(0, 0)

	e.Feed(PointerEvent{Phase: Down, PointerID: 1, Point: geom.Point{X: 5, Y: 5}, Time: t0})
	tr := e.Feed(PointerEvent{Phase: Up, PointerID: 1, Point: geom.Point{X: 5, Y: 5}, Time: t0.Add(10 * time.Millisecond)})
	if tr.Kind != NoTransition {
		t.Fatalf("a click over empty space should not dispatch, got %v", tr.Kind)
	}
}
