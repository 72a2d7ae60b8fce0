// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package font is the default text-measurement/rendering collaborator the
// spec treats as an external, out-of-scope dependency (§1): the widget
// package only ever sees the TextMeasurer/TextRasterizer contracts. This
// implementation backs those contracts with golang.org/x/image's fixed
// bitmap face so the runtime has real glyphs to drive end to end without
// a font-file loader or hinting engine.
package font

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/brandonfranzke/panelkit/internal/geom"
)

// Set maps the three opaque font handles the UI init layout names
// ("regular", "large", "small") to concrete faces, scaled from
// ui.fonts.{regular_size,large_size,small_size} by whole-number glyph
// replication (the configured size divided by the 13px base, rounded down,
// at least 1) since basicfont ships a single fixed size.
type Set struct {
	faces map[string]scaledFace
}

type scaledFace struct {
	face  font.Face
	scale int
}

// NewSet builds the three named faces from the configured point sizes.
func NewSet(regularSize, largeSize, smallSize int) *Set {
	base := basicfont.Face7x13 // 7x13px glyphs, ascent 11.
	const baseSize = 13
	return &Set{faces: map[string]scaledFace{
		"regular": {face: base, scale: scaleFor(regularSize, baseSize)},
		"large":   {face: base, scale: scaleFor(largeSize, baseSize)},
		"small":   {face: base, scale: scaleFor(smallSize, baseSize)},
	}}
}

func scaleFor(want, base int) int {
	s := want / base
	if s < 1 {
		s = 1
	}
	return s
}

// Measure implements widget.TextMeasurer.
func (s *Set) Measure(text, fontName string) (w, h int) {
	f, ok := s.faces[fontName]
	if !ok {
		f = s.faces["regular"]
	}
	width := font.MeasureString(f.face, text).Ceil()
	_, _, _, lh := faceExtents(f.face)
	return width * f.scale, lh * f.scale
}

// Rasterize implements widget.TextRasterizer: it draws text with fg onto a
// transparent RGBA tile sized by Measure, nearest-neighbor upscaled by the
// face's integer scale factor.
func (s *Set) Rasterize(text, fontName string, fg geom.Color) (*image.RGBA, error) {
	f, ok := s.faces[fontName]
	if !ok {
		f = s.faces["regular"]
	}
	w, h := s.Measure(text, fontName)
	if w == 0 || h == 0 {
		w, h = 1, 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))

	baseW := w / f.scale
	ascent, _, _, baseH := faceExtents(f.face)
	if baseW == 0 {
		baseW = 1
	}
	if baseH == 0 {
		baseH = 1
	}
	tile := image.NewRGBA(image.Rect(0, 0, baseW, baseH))
	col := &image.Uniform{C: toColor(fg)}
	d := &font.Drawer{
		Dst:  tile,
		Src:  col,
		Face: f.face,
		Dot:  fixed.Point26_6{X: 0, Y: fixed.I(ascent)},
	}
	d.DrawString(text)

	for y := 0; y < h; y++ {
		sy := y / f.scale
		if sy >= baseH {
			sy = baseH - 1
		}
		for x := 0; x < w; x++ {
			sx := x / f.scale
			if sx >= baseW {
				sx = baseW - 1
			}
			dst.Set(x, y, tile.At(sx, sy))
		}
	}
	return dst, nil
}

func faceExtents(f font.Face) (ascent, descent, lineGap, lineHeight int) {
	m := f.Metrics()
	ascent = m.Ascent.Ceil()
	descent = m.Descent.Ceil()
	lineHeight = (m.Ascent + m.Descent).Ceil()
	return
}

func toColor(c geom.Color) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}
