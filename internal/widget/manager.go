// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package widget

import (
	"image"
	"image/draw"

	"github.com/brandonfranzke/panelkit/internal/errs"
	"github.com/brandonfranzke/panelkit/internal/gesture"
	"github.com/brandonfranzke/panelkit/internal/geom"
)

// Manager owns the widget tree's root and implements the hit-testing,
// pointer dispatch, layout, and render passes the application loop drives
// once per frame. It also implements gesture.HitTester so the gesture
// engine can resolve a pointer-down to a target widget without either
// package depending on the other's internals.
type Manager struct {
	Root *Widget

	pressed map[int]*Widget // pointer id -> widget holding "pressed"
	hovered *Widget

	pageManagerID string

	scope *errs.Scope
}

var _ gesture.HitTester = (*Manager)(nil)

// SetPageManagerID records which widget id is the tree's page-manager so
// HandleGesture can route drag/swipe transitions without a tree walk.
func (m *Manager) SetPageManagerID(id string) { m.pageManagerID = id }

// NewManager creates a Manager rooted at root.
func NewManager(root *Widget, scope *errs.Scope) *Manager {
	return &Manager{Root: root, pressed: map[int]*Widget{}, scope: scope}
}

// byID finds a widget anywhere in the tree by id, depth-first.
func (m *Manager) byID(id string) *Widget {
	return findByID(m.Root, id)
}

// WidgetByID exposes byID to callers outside the package (the application
// loop needs it to resolve a hit-test id into the *Widget OnPointerDown
// marks pressed).
func (m *Manager) WidgetByID(id string) *Widget { return m.byID(id) }

func findByID(w *Widget, id string) *Widget {
	if w == nil {
		return nil
	}
	if w.ID == id {
		return w
	}
	for _, c := range w.Children {
		if found := findByID(c, id); found != nil {
			return found
		}
	}
	return nil
}

// HitTest implements gesture.HitTester: depth-first over visible, enabled
// widgets, preferring the deepest hit but walking back up to the nearest
// interactive ancestor if the deepest hit is a passive container.
func (m *Manager) HitTest(p geom.Point) (widgetID string, pageIndex int, ok bool) {
	path := hitPath(m.Root, p, nil)
	if len(path) == 0 {
		return "", -1, false
	}
	deepest := path[len(path)-1]
	target := deepest
	if !isInteractive(deepest) {
		for i := len(path) - 1; i >= 0; i-- {
			if isInteractive(path[i]) {
				target = path[i]
				break
			}
		}
	}
	return target.ID, pageIndexOf(target), true
}

// hitPath returns the chain of visible, enabled widgets containing p, from
// root to the deepest hit, or nil if p misses every widget.
func hitPath(w *Widget, p geom.Point, path []*Widget) []*Widget {
	if w == nil || w.Hidden() || w.Disabled() || !w.Bounds.Contains(p) {
		return nil
	}
	path = append(path, w)
	for _, c := range w.Children {
		if deeper := hitPath(c, p, path); deeper != nil {
			return deeper
		}
	}
	return path
}

func isInteractive(w *Widget) bool {
	return w.Caps.HandlePointer && !w.Disabled()
}

func pageIndexOf(w *Widget) int {
	for cur := w; cur != nil; cur = cur.Parent {
		if pg, ok := cur.Self.(*Page); ok {
			return pg.Index
		}
	}
	return -1
}

// HandleGesture reacts to one gesture.Transition, implementing the event
// propagation and timing rules of §4.6/§4.7.
func (m *Manager) HandleGesture(tr gesture.Transition) {
	switch tr.Kind {
	case gesture.ClickDispatched:
		// Deliberately a no-op here: the gesture engine's own hit-test only
		// resolves the down-point's target, so it cannot also enforce "up
		// inside target bounds" (§4.6 rule 3). The application loop drives
		// OnPointerDown/OnPointerUp directly with both points; that is the
		// one path a click is ever dispatched through, so it can't double
		// fire alongside this transition.
	case gesture.ScrollUpdated:
		// Vertical scroll is reserved for future scrollable containers;
		// no widget kind currently consumes it.
	case gesture.PageOffsetUpdated:
		if pm := m.pageManager(); pm != nil {
			pm.DragBy(tr.OffsetDelta)
		}
	case gesture.SwipeEnded:
		if pm := m.pageManager(); pm != nil {
			pm.Commit()
		}
	case gesture.HoldStarted:
		// Hold is reserved for future long-press affordances.
	}
}

func (m *Manager) pageManager() *PageManager {
	if w := m.byID(m.pageManagerID); w != nil {
		if pm, ok := w.Self.(*PageManager); ok {
			return pm
		}
	}
	return nil
}

// OnPointerDown marks target as pressed for pointerID.
func (m *Manager) OnPointerDown(pointerID int, target *Widget) {
	if target == nil {
		return
	}
	target.State |= FlagPressed
	m.pressed[pointerID] = target
}

// OnPointerUp resolves the click-dispatch timing rule: the up must land on
// the widget remembered for pointerID, and that widget must still be
// pressed, before a click fires. pressed is cleared after the check.
func (m *Manager) OnPointerUp(pointerID int, upPoint geom.Point) {
	target, ok := m.pressed[pointerID]
	if !ok || target == nil {
		return
	}
	stillPressed := target.State.Has(FlagPressed)
	withinBounds := target.Bounds.Contains(upPoint)
	if stillPressed && withinBounds {
		if clicker, ok := target.Self.(Clicker); ok {
			clicker.OnClick()
		}
	}
	target.State &^= FlagPressed
	delete(m.pressed, pointerID)
}

// ClearPressed releases whatever widget pointerID holds pressed without
// dispatching a click, for pointer-ups the gesture engine classified as a
// drag, swipe, or hold rather than a click (the "no intervening drag
// classification" clause of the click-discipline law).
func (m *Manager) ClearPressed(pointerID int) {
	target, ok := m.pressed[pointerID]
	if !ok || target == nil {
		return
	}
	target.State &^= FlagPressed
	delete(m.pressed, pointerID)
}

// OnPointerMotion changes nothing while pointerID holds a pressed target
// (no widget kind consumes motion); otherwise it updates hover state on
// whatever is under the point.
func (m *Manager) OnPointerMotion(pointerID int, p geom.Point) {
	if target, ok := m.pressed[pointerID]; ok && target != nil {
		return
	}
	id, _, ok := m.HitTest(p)
	if !ok {
		if m.hovered != nil {
			m.hovered.State &^= FlagHovered
			m.hovered = nil
		}
		return
	}
	w := m.byID(id)
	if w == m.hovered {
		return
	}
	if m.hovered != nil {
		m.hovered.State &^= FlagHovered
	}
	w.State |= FlagHovered
	m.hovered = w
}

// Layout recomputes the whole tree's absolute bounds from the root down.
func (m *Manager) Layout() {
	if m.Root != nil {
		m.Root.Layout()
	}
}

// Update calls OnUpdate(dt) on every widget implementing Updater.
func (m *Manager) Update(dt float64) {
	walkUpdate(m.Root, dt)
}

func walkUpdate(w *Widget, dt float64) {
	if w == nil || w.Hidden() {
		return
	}
	if updater, ok := w.Self.(Updater); ok {
		updater.OnUpdate(dt)
	}
	for _, c := range w.Children {
		walkUpdate(c, dt)
	}
}

// Render paints the tree into dst, clearing to bg first. Rendering a
// widget with a custom Renderer delegates to RenderSelf for the
// background/border paint step but always continues into children.
func (m *Manager) Render(dst *image.RGBA, bg geom.Color) error {
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: toNRGBA(bg)}, image.Point{}, draw.Src)
	if err := renderWidget(m.Root, dst); err != nil {
		return errs.New(m.scope, errs.RenderFailed, "widget.Manager.Render", err)
	}
	return nil
}

func renderWidget(w *Widget, dst *image.RGBA) error {
	if w == nil || w.Hidden() {
		return nil
	}
	if renderer, ok := w.Self.(Renderer); ok {
		if err := renderer.RenderSelf(dst, w.Bounds); err != nil {
			return err
		}
	} else {
		paintDefault(w, dst)
	}
	for _, c := range w.Children {
		if err := renderWidget(c, dst); err != nil {
			return err
		}
	}
	return nil
}

// paintDefault fills the background and strokes the border for widgets
// with no custom RenderSelf.
func paintDefault(w *Widget, dst *image.RGBA) {
	fillRect(dst, w.Bounds, w.Background)
	if w.BorderWidth > 0 {
		strokeRect(dst, w.Bounds, w.Border, w.BorderWidth)
	}
}
