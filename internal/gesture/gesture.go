// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package gesture classifies a stream of pointer-down/motion/up events into
// clicks, vertical scrolls, horizontal page drags, and holds. It knows
// nothing about widgets or hardware; the application loop feeds it pixel-
// space pointer events (after converting normalized touch coordinates
// against the live surface size) and reacts to the Transitions it returns.
package gesture

import (
	"time"

	"github.com/brandonfranzke/panelkit/internal/geom"
)

// Phase is the gesture state machine's current state.
type Phase int

const (
	Idle Phase = iota
	Potential
	Click
	DragVertical
	DragHorizontal
	Hold
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Potential:
		return "potential"
	case Click:
		return "click"
	case DragVertical:
		return "drag_vertical"
	case DragHorizontal:
		return "drag_horizontal"
	case Hold:
		return "hold"
	default:
		return "unknown"
	}
}

// PointerPhase distinguishes the three kinds of pointer activity the engine
// consumes; it is deliberately narrower than input.Kind since a mouse
// button and a finger collapse to the same three phases once normalized.
type PointerPhase int

const (
	Down PointerPhase = iota
	Motion
	Up
)

// PointerEvent is one normalized, pixel-space pointer sample.
type PointerEvent struct {
	Phase     PointerPhase
	PointerID int
	Point     geom.Point
	Time      time.Time
}

// Config holds the engine's timing and distance thresholds; all four are
// configuration knobs with the defaults below.
type Config struct {
	ClickTimeout        time.Duration
	DragThreshold       int
	HoldTimeout         time.Duration
	SwipeCommitFraction float64
}

// DefaultConfig returns the specified defaults.
func DefaultConfig() Config {
	return Config{
		ClickTimeout:        time.Second,
		DragThreshold:       10,
		HoldTimeout:         time.Second,
		SwipeCommitFraction: 0.30,
	}
}

// State is the gesture engine's current classification, mirroring the
// data model's gesture-state record.
type State struct {
	Phase        Phase
	StartPoint   geom.Point
	StartTime    time.Time
	LastPoint    geom.Point
	PointerID    int
	TargetWidget string
	TargetPage   int
}

// HitTester resolves a pointer-down point to the widget that should become
// the gesture's target, if any. The widget manager implements this.
type HitTester interface {
	HitTest(p geom.Point) (widgetID string, pageIndex int, ok bool)
}

// Transition describes one state-machine outcome the caller should act on.
// Exactly the fields relevant to Kind are populated.
type Transition struct {
	Kind         TransitionKind
	WidgetID     string
	PageIndex    int
	DX, DY       float64
	OffsetDelta  float64
	CommitSwipe  bool
	CommitToward int // +1 / -1, valid when CommitSwipe
}

type TransitionKind int

const (
	NoTransition TransitionKind = iota
	ClickDispatched
	HoldStarted
	ScrollUpdated
	PageOffsetUpdated
	SwipeEnded
)

// Engine runs the gesture classification state machine for a single active
// pointer; simultaneous multi-finger gestures are out of scope (see
// Non-goals), matching the reference behavior of tracking one logical
// gesture at a time.
type Engine struct {
	cfg   Config
	hit   HitTester
	state State
}

// New creates an Engine with cfg and the given hit-tester.
func New(cfg Config, hit HitTester) *Engine {
	return &Engine{cfg: cfg, hit: hit, state: State{Phase: Idle, PointerID: -1}}
}

// State returns a copy of the engine's current gesture state.
func (e *Engine) State() State { return e.state }

// Feed advances the state machine by one pointer event and reports the
// resulting Transition, or NoTransition if the event only updated internal
// bookkeeping (e.g. a motion sample still below the drag threshold).
func (e *Engine) Feed(ev PointerEvent) Transition {
	switch e.state.Phase {
	case Idle:
		return e.feedIdle(ev)
	case Potential:
		return e.feedPotential(ev)
	case DragVertical:
		return e.feedDragVertical(ev)
	case DragHorizontal:
		return e.feedDragHorizontal(ev)
	case Hold:
		return e.feedHold(ev)
	default:
		return Transition{Kind: NoTransition}
	}
}

func (e *Engine) feedIdle(ev PointerEvent) Transition {
	if ev.Phase != Down {
		return Transition{Kind: NoTransition}
	}
	widgetID, pageIndex := "", -1
	if e.hit != nil {
		if id, pg, ok := e.hit.HitTest(ev.Point); ok {
			widgetID, pageIndex = id, pg
		}
	}
	e.state = State{
		Phase:        Potential,
		StartPoint:   ev.Point,
		StartTime:    ev.Time,
		LastPoint:    ev.Point,
		PointerID:    ev.PointerID,
		TargetWidget: widgetID,
		TargetPage:   pageIndex,
	}
	return Transition{Kind: NoTransition}
}

func (e *Engine) feedPotential(ev PointerEvent) Transition {
	if ev.PointerID != e.state.PointerID {
		return Transition{Kind: NoTransition}
	}

	if ev.Phase == Up {
		elapsed := ev.Time.Sub(e.state.StartTime)
		widgetID := e.state.TargetWidget
		e.reset()
		if elapsed > e.cfg.ClickTimeout {
			return Transition{Kind: NoTransition}
		}
		if widgetID == "" {
			return Transition{Kind: NoTransition}
		}
		return Transition{Kind: ClickDispatched, WidgetID: widgetID}
	}

	e.state.LastPoint = ev.Point
	dx := float64(ev.Point.X - e.state.StartPoint.X)
	dy := float64(ev.Point.Y - e.state.StartPoint.Y)
	if abs(dx) > float64(e.cfg.DragThreshold) || abs(dy) > float64(e.cfg.DragThreshold) {
		if abs(dx) > abs(dy) {
			e.state.Phase = DragHorizontal
		} else {
			e.state.Phase = DragVertical
		}
		return Transition{Kind: NoTransition}
	}

	if ev.Time.Sub(e.state.StartTime) > e.cfg.HoldTimeout {
		e.state.Phase = Hold
		return Transition{Kind: HoldStarted, WidgetID: e.state.TargetWidget}
	}

	return Transition{Kind: NoTransition}
}

func (e *Engine) feedDragVertical(ev PointerEvent) Transition {
	if ev.PointerID != e.state.PointerID {
		return Transition{Kind: NoTransition}
	}
	if ev.Phase == Up {
		e.reset()
		return Transition{Kind: NoTransition}
	}
	dy := float64(ev.Point.Y - e.state.LastPoint.Y)
	e.state.LastPoint = ev.Point
	return Transition{Kind: ScrollUpdated, PageIndex: e.state.TargetPage, DY: dy}
}

func (e *Engine) feedDragHorizontal(ev PointerEvent) Transition {
	if ev.PointerID != e.state.PointerID {
		return Transition{Kind: NoTransition}
	}
	if ev.Phase == Up {
		total := float64(ev.Point.X - e.state.StartPoint.X)
		e.reset()
		return Transition{Kind: SwipeEnded, DX: total}
	}
	dx := float64(ev.Point.X - e.state.LastPoint.X)
	e.state.LastPoint = ev.Point
	return Transition{Kind: PageOffsetUpdated, OffsetDelta: dx}
}

func (e *Engine) feedHold(ev PointerEvent) Transition {
	if ev.PointerID != e.state.PointerID {
		return Transition{Kind: NoTransition}
	}
	if ev.Phase == Up {
		e.reset()
	}
	return Transition{Kind: NoTransition}
}

func (e *Engine) reset() {
	e.state = State{Phase: Idle, PointerID: -1}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
