// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package widget

import (
	"testing"
	"time"

	"github.com/brandonfranzke/panelkit/internal/geom"
)

func newTestPageManager(clock *time.Time) *PageManager {
	pages := []*Page{NewPage("page0", 0), NewPage("page1", 1), NewPage("page2", 2)}
	pm := NewPageManager("pager", pages, geom.Opaque(80, 80, 80), geom.Opaque(255, 255, 255), nil, func() time.Time { return *clock })
	pm.SetRootBounds(geom.Rect{X: 0, Y: 0, W: 400, H: 300})
	return pm
}

func TestPageManagerElasticEdge(t *testing.T) {
	now := time.Unix(0, 0)
	pm := newTestPageManager(&now)

	pm.DragBy(200) // positive drag at page 0: resisted
	if pm.Offset <= 0 || pm.Offset >= 0.5 {
		t.Fatalf("expected a resisted small positive offset, got %v", pm.Offset)
	}
}

func TestPageManagerCommitAndAnimate(t *testing.T) {
	now := time.Unix(0, 0)
	pm := newTestPageManager(&now)

	pm.DragBy(-160) // 160/400 = 0.40, past the 0.30 commit threshold
	pm.Commit()
	if pm.TargetPage != 1 {
		t.Fatalf("expected target page 1, got %d", pm.TargetPage)
	}
	if pm.Mode != ModeAnimating {
		t.Fatalf("expected animating mode after commit")
	}

	for i := 0; i < 20 && pm.Mode == ModeAnimating; i++ {
		pm.OnUpdate(0.016)
	}
	if pm.Mode != ModeNone {
		t.Fatalf("expected animation to finish, still in mode %v", pm.Mode)
	}
	if pm.CurrentPage != 1 {
		t.Fatalf("expected current page 1 after commit, got %d", pm.CurrentPage)
	}
	if pm.Offset != 0 {
		t.Fatalf("expected offset reset to 0, got %v", pm.Offset)
	}
}

func TestPageManagerSnapBackBelowThreshold(t *testing.T) {
	now := time.Unix(0, 0)
	pm := newTestPageManager(&now)

	pm.DragBy(-40) // 40/400 = 0.10, below threshold
	pm.Commit()
	if pm.TargetPage != pm.CurrentPage {
		t.Fatalf("expected snap-back target to equal current page, got target=%d current=%d", pm.TargetPage, pm.CurrentPage)
	}
	for i := 0; i < 20 && pm.Mode == ModeAnimating; i++ {
		pm.OnUpdate(0.016)
	}
	if pm.CurrentPage != 0 {
		t.Fatalf("expected to remain on page 0 after snap-back, got %d", pm.CurrentPage)
	}
}

func TestPageManagerIndicatorFade(t *testing.T) {
	now := time.Unix(0, 0)
	pm := newTestPageManager(&now)

	if a := pm.indicatorAlpha(); a != 1 {
		t.Fatalf("expected full alpha immediately after interaction, got %v", a)
	}
	now = now.Add(2200 * time.Millisecond)
	if a := pm.indicatorAlpha(); a <= 0 || a >= 1 {
		t.Fatalf("expected partial fade mid-window, got %v", a)
	}
	now = now.Add(400 * time.Millisecond)
	if a := pm.indicatorAlpha(); a != 0 {
		t.Fatalf("expected zero alpha once fade window elapses, got %v", a)
	}
}

func TestPageManagerLayoutPositionsPages(t *testing.T) {
	now := time.Unix(0, 0)
	pm := newTestPageManager(&now)
	pm.Layout()
	if pm.Pages[0].Bounds.X != 0 {
		t.Fatalf("expected current page at x=0, got %d", pm.Pages[0].Bounds.X)
	}
	if pm.Pages[1].Bounds.X != 400 {
		t.Fatalf("expected next page positioned one width to the right, got %d", pm.Pages[1].Bounds.X)
	}
}
