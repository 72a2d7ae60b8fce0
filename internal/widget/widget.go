// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package widget implements the node tree PanelKit renders and routes
// pointer events through: containers, buttons, text, a live clock, a
// data-display grid, and the swiping page-manager built on top of them.
package widget

import (
	"image"

	"github.com/brandonfranzke/panelkit/internal/errs"
	"github.com/brandonfranzke/panelkit/internal/geom"
)

// Kind identifies a widget's concrete behavior.
type Kind int

const (
	KindContainer Kind = iota
	KindPage
	KindPageManager
	KindButton
	KindText
	KindTime
	KindDataDisplay
	KindCustom
)

// StateFlag is one bit of a widget's interaction/visibility state.
type StateFlag uint8

const (
	FlagNormal StateFlag = 1 << iota
	FlagHovered
	FlagPressed
	FlagFocused
	FlagDisabled
	FlagHidden
	FlagDirty
)

// Has reports whether all bits in mask are set.
func (f StateFlag) Has(mask StateFlag) bool { return f&mask == mask }

// Align is text alignment within a text widget's bounds.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Capabilities records which optional behaviors a widget kind implements.
// Hit-testing consults HandlePointer; render, click and update dispatch
// type-assert Self against Renderer/Clicker/Updater instead.
type Capabilities struct {
	Render       bool
	HandlePointer bool
	HandleData   bool
	Layout       bool
	Update       bool
}

// Renderer is implemented by widgets needing custom painting beyond the
// base background/border/children walk.
type Renderer interface {
	RenderSelf(dst *image.RGBA, bounds geom.Rect) error
}

// Clicker receives a click once the manager's timing rule (§ Event
// propagation) resolves a pointer-down/up pair to this widget.
type Clicker interface {
	OnClick()
}

// Updater is called once per frame with the elapsed duration.
type Updater interface {
	OnUpdate(dt float64)
}

// DataHandler receives bus payloads for events the widget subscribed to.
type DataHandler interface {
	OnData(eventName string, payload any)
}

// Widget is one node in the tree. The embedded behavior-specific struct
// (Button, Text, ...) composes a *Widget and implements whichever of
// Renderer/Clicker/Updater/DataHandler its kind needs.
type Widget struct {
	ID   string
	Kind Kind

	Bounds         geom.Rect // absolute, derived
	RelativeBounds geom.Rect // authoritative for non-root widgets

	State StateFlag

	Background, Foreground, Border geom.Color
	BorderWidth                    int
	Padding                        int

	Children []*Widget
	Parent   *Widget

	SubscribedEvents []string

	Caps Capabilities

	// Self refers back to the concrete widget (Button, Text, ...) embedding
	// this Widget, so the manager can type-assert to Renderer/Clicker/
	// Updater/DataHandler without walking the tree twice.
	Self any
}

// NewWidget constructs the common base for a widget kind; callers embed it
// in a concrete type and set Self to that type's pointer.
func NewWidget(id string, kind Kind) Widget {
	return Widget{
		ID:         id,
		Kind:       kind,
		State:      FlagNormal,
		Background: geom.Opaque(0, 0, 0),
		Foreground: geom.Opaque(255, 255, 255),
	}
}

// Hidden reports whether this widget (and therefore its subtree) is
// hidden, not hit-tested, and not rendered.
func (w *Widget) Hidden() bool { return w.State.Has(FlagHidden) }

// Disabled reports whether this widget should be skipped for pointer
// routing while still rendering (e.g. greyed out).
func (w *Widget) Disabled() bool { return w.State.Has(FlagDisabled) }

// AddChild appends child, sets its parent, and marks layout dirty.
func (w *Widget) AddChild(child *Widget) {
	child.Parent = w
	w.Children = append(w.Children, child)
	w.State |= FlagDirty
}

// RemoveChild detaches child from w, per the lifecycle rule that removal
// from a parent must precede destruction.
func (w *Widget) RemoveChild(child *Widget) error {
	for i, c := range w.Children {
		if c == child {
			w.Children = append(w.Children[:i], w.Children[i+1:]...)
			child.Parent = nil
			return nil
		}
	}
	return errs.New(nil, errs.InvalidArgument, "widget.RemoveChild:"+w.ID, nil)
}

// Layout recomputes w's absolute Bounds from parent.Bounds.Origin() +
// RelativeBounds (root widgets keep their own absolute Bounds, set via
// SetRootBounds), then recurses into children.
func (w *Widget) Layout() {
	if w.Parent != nil {
		w.Bounds = w.RelativeBounds.Translate(w.Parent.Bounds.Origin())
	}
	if layouter, ok := w.Self.(interface{ LayoutSelf() }); ok {
		layouter.LayoutSelf()
	}
	for _, c := range w.Children {
		c.Layout()
	}
	w.State &^= FlagDirty
}

// SetRootBounds sets a root widget's authoritative absolute bounds and
// relayouts its subtree.
func (w *Widget) SetRootBounds(b geom.Rect) {
	w.Bounds = b
	w.Layout()
}
