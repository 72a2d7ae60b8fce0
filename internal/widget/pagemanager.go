// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package widget

import (
	"image"
	"time"

	"github.com/brandonfranzke/panelkit/internal/bus"
	"github.com/brandonfranzke/panelkit/internal/geom"
)

// PageMode is the page-manager's current drag/animation state.
type PageMode int

const (
	ModeNone PageMode = iota
	ModeDragging
	ModeAnimating
)

const (
	elasticEdgeFactor   = 0.30
	swipeCommitFraction = 0.30
	animationStep       = 0.12
	indicatorGrace      = 2 * time.Second
	indicatorFade       = 400 * time.Millisecond
)

// PageTransitionEvent is the payload published for "system.page_transition".
type PageTransitionEvent struct {
	FromPage, ToPage int
	Timestamp        time.Time
}

// PageManager owns an ordered list of pages and drives swipe paging: drag
// tracking with elastic edges, commit-or-snap-back on release, and a
// frame-stepped animation, plus a fading page-indicator capsule.
type PageManager struct {
	Widget

	Pages       []*Page
	CurrentPage int
	TargetPage  int
	Mode        PageMode
	Offset      float64

	dragPixels float64

	IndicatorNormal, IndicatorActive geom.Color
	lastInteraction                  time.Time
	now                              func() time.Time

	PublishBus *bus.Bus
}

// NewPageManager creates a manager over pages, starting on page 0.
func NewPageManager(id string, pages []*Page, normal, active geom.Color, publishBus *bus.Bus, now func() time.Time) *PageManager {
	if now == nil {
		now = time.Now
	}
	pm := &PageManager{
		Widget:          NewWidget(id, KindPageManager),
		Pages:           pages,
		TargetPage:      -1,
		IndicatorNormal: normal,
		IndicatorActive: active,
		now:             now,
		PublishBus:      publishBus,
	}
	pm.Caps.HandlePointer = true
	pm.Self = pm
	for _, p := range pages {
		pm.AddChild(&p.Widget)
	}
	pm.lastInteraction = now()
	return pm
}

func (pm *PageManager) touch() { pm.lastInteraction = pm.now() }

// DragBy accumulates a pixel delta from an in-progress horizontal drag,
// applying the elastic-edge resistance when dragging past the first or
// last page.
func (pm *PageManager) DragBy(dxPixels float64) {
	if pm.Mode == ModeAnimating || pm.Bounds.W == 0 {
		return
	}
	pm.Mode = ModeDragging
	pm.dragPixels += dxPixels
	raw := pm.dragPixels / float64(pm.Bounds.W)
	if (pm.CurrentPage == 0 && raw > 0) || (pm.CurrentPage == len(pm.Pages)-1 && raw < 0) {
		raw *= elasticEdgeFactor
	}
	pm.Offset = clamp(raw, -1, 1)
	pm.touch()
}

// Commit resolves the drag: if the accumulated offset passed the commit
// fraction and a neighbor exists in that direction, target it and animate
// toward the commit; otherwise snap back to the current page.
func (pm *PageManager) Commit() {
	neighbor := pm.neighborFor(pm.Offset)
	if absf(pm.Offset) >= swipeCommitFraction && neighbor >= 0 {
		pm.TargetPage = neighbor
	} else {
		pm.TargetPage = pm.CurrentPage
	}
	pm.Mode = ModeAnimating
	pm.dragPixels = 0
	pm.touch()
}

// GoTo animates directly to index, e.g. from a navigation button rather
// than a drag. Adjacent-page jumps animate correctly under the current
// single-step model; this tree never asks for anything else.
func (pm *PageManager) GoTo(index int) {
	if pm.Mode == ModeAnimating || index == pm.CurrentPage || index < 0 || index >= len(pm.Pages) {
		return
	}
	pm.TargetPage = index
	pm.Mode = ModeAnimating
	pm.Offset = 0
	pm.dragPixels = 0
	pm.touch()
}

func (pm *PageManager) neighborFor(offset float64) int {
	if offset > 0 {
		if pm.CurrentPage-1 >= 0 {
			return pm.CurrentPage - 1
		}
	} else if offset < 0 {
		if pm.CurrentPage+1 < len(pm.Pages) {
			return pm.CurrentPage + 1
		}
	}
	return -1
}

// OnUpdate steps the commit/snap-back animation by animationStep per
// frame; on crossing the target offset it finalizes the page switch and
// publishes a page-transition notification.
func (pm *PageManager) OnUpdate(dt float64) {
	if pm.Mode != ModeAnimating {
		return
	}
	target := 0.0
	if pm.TargetPage != pm.CurrentPage {
		if pm.TargetPage < pm.CurrentPage {
			target = 1
		} else {
			target = -1
		}
	}

	if pm.Offset < target {
		pm.Offset += animationStep
		if pm.Offset >= target {
			pm.finishAnimation(target)
		}
	} else if pm.Offset > target {
		pm.Offset -= animationStep
		if pm.Offset <= target {
			pm.finishAnimation(target)
		}
	} else {
		pm.finishAnimation(target)
	}
}

func (pm *PageManager) finishAnimation(target float64) {
	from := pm.CurrentPage
	pm.Offset = 0
	pm.CurrentPage = pm.TargetPage
	pm.TargetPage = -1
	pm.Mode = ModeNone
	if from != pm.CurrentPage && pm.PublishBus != nil {
		pm.PublishBus.Publish("system.page_transition", PageTransitionEvent{
			FromPage: from, ToPage: pm.CurrentPage, Timestamp: pm.now(),
		}, nil)
	}
}

// LayoutSelf positions every page at manager.x + (index-current)*width,
// offset by the current drag/animation fraction; this is how swipe
// translates the whole visible subtree (child Layout calls below finish
// the job recursively).
func (pm *PageManager) LayoutSelf() {
	for _, p := range pm.Pages {
		dx := int((float64(p.Index-pm.CurrentPage) + pm.Offset) * float64(pm.Bounds.W))
		p.RelativeBounds = geom.Rect{X: dx, Y: 0, W: pm.Bounds.W, H: pm.Bounds.H}
	}
}

// RenderSelf paints the manager's own background (children render
// separately via the normal tree walk) and the fading indicator capsule.
func (pm *PageManager) RenderSelf(dst *image.RGBA, bounds geom.Rect) error {
	fillRect(dst, bounds, pm.Background)
	drawIndicators(dst, bounds, len(pm.Pages), pm.CurrentPage, pm.IndicatorNormal, pm.IndicatorActive, pm.indicatorAlpha())
	return nil
}

// indicatorAlpha implements the fade rule: full opacity through the grace
// period, linear fade to zero over the following indicatorFade window.
func (pm *PageManager) indicatorAlpha() float64 {
	elapsed := pm.now().Sub(pm.lastInteraction)
	if elapsed <= indicatorGrace {
		return 1
	}
	fadeElapsed := elapsed - indicatorGrace
	if fadeElapsed >= indicatorFade {
		return 0
	}
	return 1 - float64(fadeElapsed)/float64(indicatorFade)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
