// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package widget

import (
	"testing"

	"github.com/brandonfranzke/panelkit/internal/geom"
)

func buildTree() (*Manager, *Container, *Button) {
	root := NewContainer("root")
	root.Background = geom.Opaque(10, 10, 10)
	btn := NewButton("btn1", StateColors{
		Normal:   geom.Opaque(50, 50, 50),
		Hover:    geom.Opaque(70, 70, 70),
		Pressed:  geom.Opaque(90, 90, 90),
		Disabled: geom.Opaque(30, 30, 30),
	})
	btn.RelativeBounds = geom.Rect{X: 10, Y: 10, W: 100, H: 40}
	root.AddChild(&btn.Widget)

	m := NewManager(&root.Widget, nil)
	root.SetRootBounds(geom.Rect{X: 0, Y: 0, W: 480, H: 320})
	return m, root, btn
}

func TestHitTestResolvesButtonOverContainer(t *testing.T) {
	m, _, btn := buildTree()
	id, _, ok := m.HitTest(geom.Point{X: 15, Y: 15})
	if !ok || id != btn.ID {
		t.Fatalf("expected hit on %s, got id=%q ok=%v", btn.ID, id, ok)
	}
}

func TestHitTestMiss(t *testing.T) {
	m, _, _ := buildTree()
	_, _, ok := m.HitTest(geom.Point{X: 600, Y: 400})
	if ok {
		t.Fatalf("expected no hit far from the button")
	}
}

func TestClickDispatchRequiresStillPressedAndWithinBounds(t *testing.T) {
	m, _, btn := buildTree()
	clicked := 0
	btn.OnClickFunc = func() { clicked++ }

	m.OnPointerDown(1, &btn.Widget)
	if !btn.State.Has(FlagPressed) {
		t.Fatalf("expected pressed after pointer-down")
	}
	m.OnPointerUp(1, geom.Point{X: 20, Y: 20})
	if clicked != 1 {
		t.Fatalf("expected one click, got %d", clicked)
	}
	if btn.State.Has(FlagPressed) {
		t.Fatalf("expected pressed cleared after click dispatch")
	}
}

func TestClickSwallowedWhenUpOutsideBounds(t *testing.T) {
	m, _, btn := buildTree()
	clicked := 0
	btn.OnClickFunc = func() { clicked++ }

	m.OnPointerDown(1, &btn.Widget)
	m.OnPointerUp(1, geom.Point{X: 400, Y: 300})
	if clicked != 0 {
		t.Fatalf("expected no click when release lands outside bounds, got %d", clicked)
	}
	if btn.State.Has(FlagPressed) {
		t.Fatalf("expected pressed cleared even when click is swallowed")
	}
}

func TestClickSwallowedWhenUnpressedBeforeUp(t *testing.T) {
	m, _, btn := buildTree()
	clicked := 0
	btn.OnClickFunc = func() { clicked++ }

	m.OnPointerDown(1, &btn.Widget)
	btn.State &^= FlagPressed // simulate something clearing pressed first
	m.OnPointerUp(1, geom.Point{X: 20, Y: 20})
	if clicked != 0 {
		t.Fatalf("click must not fire once pressed was already cleared, got %d clicks", clicked)
	}
}

func TestHiddenWidgetNotHitTested(t *testing.T) {
	m, root, btn := buildTree()
	btn.State |= FlagHidden
	id, _, ok := m.HitTest(geom.Point{X: 15, Y: 15})
	if !ok || id != root.ID {
		t.Fatalf("expected hidden widget to be skipped by hit-test and the hit to fall through to %s, got id=%q ok=%v", root.ID, id, ok)
	}
}

