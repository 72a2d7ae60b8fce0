// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package widget

import (
	"image"
	"image/color"

	"github.com/brandonfranzke/panelkit/internal/geom"
)

func toNRGBA(c geom.Color) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// fillRect paints b solid with c, clipped to dst's bounds.
func fillRect(dst *image.RGBA, b geom.Rect, c geom.Color) {
	clip := clipToImage(dst, b)
	if clip.Dx() <= 0 || clip.Dy() <= 0 {
		return
	}
	col := toNRGBA(c)
	for y := clip.Min.Y; y < clip.Max.Y; y++ {
		for x := clip.Min.X; x < clip.Max.X; x++ {
			dst.SetNRGBA(x, y, col)
		}
	}
}

// strokeRect paints a width-px border of c around b's perimeter.
func strokeRect(dst *image.RGBA, b geom.Rect, c geom.Color, width int) {
	fillRect(dst, geom.Rect{X: b.X, Y: b.Y, W: b.W, H: width}, c)
	fillRect(dst, geom.Rect{X: b.X, Y: b.Y + b.H - width, W: b.W, H: width}, c)
	fillRect(dst, geom.Rect{X: b.X, Y: b.Y, W: width, H: b.H}, c)
	fillRect(dst, geom.Rect{X: b.X + b.W - width, Y: b.Y, W: width, H: b.H}, c)
}

func clipToImage(dst *image.RGBA, b geom.Rect) image.Rectangle {
	r := image.Rect(b.X, b.Y, b.X+b.W, b.Y+b.H)
	return r.Intersect(dst.Bounds())
}
