// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package widget

import (
	"fmt"
	"image"
	"image/draw"

	"golang.org/x/text/unicode/norm"

	"github.com/brandonfranzke/panelkit/internal/geom"
)

// TextMeasurer measures how much space a string needs in a given font.
// Actual glyph rasterization is an external collaborator (font loading and
// hinting are out of scope here); Text only needs sizes and, optionally, a
// Rasterizer to produce the texture it caches.
type TextMeasurer interface {
	Measure(text, font string) (w, h int)
}

// TextRasterizer produces a rendered texture for a string in a font and
// foreground color. Text caches the result; a nil Rasterizer falls back to
// a plain colored bar sized by Measure, which still exercises the cache
// and layout paths without a real font backend.
type TextRasterizer interface {
	Rasterize(text, font string, fg geom.Color) (*image.RGBA, error)
}

// Text wraps a string, font handle, color, and alignment, caching its
// rasterized texture keyed by (text, color, font).
type Text struct {
	Widget

	Value string
	Font  string
	Align Align

	Measurer   TextMeasurer
	Rasterizer TextRasterizer

	cacheKey string
	cache    *image.RGBA
}

// NewText creates a text widget.
func NewText(id, value, font string, align Align, fg geom.Color, measurer TextMeasurer, rasterizer TextRasterizer) *Text {
	t := &Text{Widget: NewWidget(id, KindText), Value: value, Font: font, Align: align, Measurer: measurer, Rasterizer: rasterizer}
	t.Widget.Foreground = fg
	t.Self = t
	return t
}

// SetValue updates the displayed string, invalidating the cached texture
// only when the content actually changed.
func (t *Text) SetValue(v string) {
	if v == t.Value {
		return
	}
	t.Value = v
	t.State |= FlagDirty
}

func (t *Text) cacheKeyFor() string {
	return fmt.Sprintf("%s|%02x%02x%02x%02x|%s", norm.NFC.String(t.Value), t.Foreground.R, t.Foreground.G, t.Foreground.B, t.Foreground.A, t.Font)
}

func (t *Text) ensureTexture() error {
	key := t.cacheKeyFor()
	if t.cache != nil && key == t.cacheKey {
		return nil
	}
	if t.Rasterizer != nil {
		img, err := t.Rasterizer.Rasterize(t.Value, t.Font, t.Foreground)
		if err != nil {
			return err
		}
		t.cache, t.cacheKey = img, key
		return nil
	}

	w, h := 0, 0
	if t.Measurer != nil {
		w, h = t.Measurer.Measure(t.Value, t.Font)
	}
	if w <= 0 {
		w = len(t.Value) * 7
	}
	if h <= 0 {
		h = 14
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: toNRGBA(t.Foreground)}, image.Point{}, draw.Src)
	t.cache, t.cacheKey = img, key
	return nil
}

// RenderSelf paints the background then blits the cached texture, aligned
// within Bounds per Align.
func (t *Text) RenderSelf(dst *image.RGBA, bounds geom.Rect) error {
	fillRect(dst, bounds, t.Background)
	if t.Value == "" {
		return nil
	}
	if err := t.ensureTexture(); err != nil {
		return err
	}
	tw := t.cache.Bounds().Dx()
	th := t.cache.Bounds().Dy()
	x := bounds.X + t.Padding
	switch t.Align {
	case AlignCenter:
		x = bounds.X + (bounds.W-tw)/2
	case AlignRight:
		x = bounds.X + bounds.W - tw - t.Padding
	}
	y := bounds.Y + (bounds.H-th)/2
	dp := image.Pt(x, y)
	destRect := image.Rectangle{Min: dp, Max: dp.Add(t.cache.Bounds().Size())}
	draw.Draw(dst, destRect, t.cache, image.Point{}, draw.Over)
	return nil
}
