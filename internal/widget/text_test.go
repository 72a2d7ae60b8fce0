// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package widget

import (
	"image"
	"testing"
	"time"

	"github.com/brandonfranzke/panelkit/internal/geom"
)

func TestTextCacheInvalidatesOnValueChange(t *testing.T) {
	txt := NewText("t1", "hello", "default", AlignLeft, geom.Opaque(255, 255, 255), nil, nil)
	txt.SetRootBounds(geom.Rect{X: 0, Y: 0, W: 100, H: 20})

	dst := image.NewRGBA(image.Rect(0, 0, 100, 20))
	if err := txt.RenderSelf(dst, txt.Bounds); err != nil {
		t.Fatalf("render: %v", err)
	}
	firstKey := txt.cacheKey

	txt.SetValue("hello") // no change
	if txt.cacheKey != firstKey {
		t.Fatalf("cache key should not change when value is unchanged")
	}

	txt.SetValue("world")
	if err := txt.RenderSelf(dst, txt.Bounds); err != nil {
		t.Fatalf("render: %v", err)
	}
	if txt.cacheKey == firstKey {
		t.Fatalf("expected cache key to change after value change")
	}
}

func TestTimeWidgetUpdatesOnlyOnTick(t *testing.T) {
	label := NewText("clockLabel", "", "default", AlignCenter, geom.Opaque(255, 255, 255), nil, nil)
	clock := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	tw := NewTimeWidget("clock", "15:04:05", label, func() time.Time { return clock })

	tw.OnUpdate(0)
	if label.Value != "10:00:00" {
		t.Fatalf("expected formatted time, got %q", label.Value)
	}

	prev := label.Value
	clock = clock.Add(500 * time.Millisecond) // still within the same second
	tw.OnUpdate(0)
	if label.Value != prev {
		t.Fatalf("expected label unchanged within the same second boundary")
	}

	clock = clock.Add(600 * time.Millisecond) // crosses into the next second
	tw.OnUpdate(0)
	if label.Value == prev {
		t.Fatalf("expected label to update after crossing a second boundary")
	}
}

func TestDataDisplayLayout(t *testing.T) {
	d := NewDataDisplay("profile", geom.Opaque(255, 255, 255), nil, nil)
	d.SetRootBounds(geom.Rect{X: 0, Y: 0, W: 200, H: 80})
	d.SetFields(DataDisplayFields{Name: "Ada", Email: "ada@example.com", Phone: "555", Location: "London"})

	if d.rows[0].value.Value != "Ada" {
		t.Fatalf("expected name row populated, got %q", d.rows[0].value.Value)
	}
	if d.rows[0].value.Bounds.Y != 0 {
		t.Fatalf("expected first row at y=0, got %d", d.rows[0].value.Bounds.Y)
	}
	if d.rows[1].value.Bounds.Y != 20 {
		t.Fatalf("expected second row at y=20 (80/4), got %d", d.rows[1].value.Bounds.Y)
	}
}
