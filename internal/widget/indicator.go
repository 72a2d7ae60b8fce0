// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package widget

import (
	"image"
	"image/draw"

	"golang.org/x/image/vector"

	"github.com/brandonfranzke/panelkit/internal/geom"
)

// rasterizeCapsule rasterizes a filled rounded-rectangle mask of size w×h
// with corner radius r, replacing the reference implementation's per-pixel
// alpha-erase arcs with a proper vector path.
func rasterizeCapsule(w, h, r int) *image.Alpha {
	if r*2 > h {
		r = h / 2
	}
	z := vector.NewRasterizer(w, h)
	fw, fh, fr := float32(w), float32(h), float32(r)

	z.MoveTo(fr, 0)
	z.LineTo(fw-fr, 0)
	z.QuadTo(fw, 0, fw, fr)
	z.LineTo(fw, fh-fr)
	z.QuadTo(fw, fh, fw-fr, fh)
	z.LineTo(fr, fh)
	z.QuadTo(0, fh, 0, fh-fr)
	z.LineTo(0, fr)
	z.QuadTo(0, 0, fr, 0)
	z.ClosePath()

	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	return mask
}

// drawIndicators paints the page-indicator capsule at bounds's bottom
// center: a rounded background behind one dot per page, the current page
// highlighted, both modulated by alpha (the fade-after-interaction level).
func drawIndicators(dst *image.RGBA, bounds geom.Rect, count, current int, normal, active geom.Color, alpha float64) {
	if count <= 1 || alpha <= 0 {
		return
	}
	const dotSize = 8
	const gap = 6
	const padY = 6
	capsuleW := count*dotSize + (count-1)*gap + 2*padY
	capsuleH := dotSize + 2*padY

	x0 := bounds.X + (bounds.W-capsuleW)/2
	y0 := bounds.Y + bounds.H - capsuleH - padY

	mask := rasterizeCapsule(capsuleW, capsuleH, capsuleH/2)
	bg := geom.Color{R: 0, G: 0, B: 0, A: uint8(120 * alpha)}
	drawMasked(dst, image.Pt(x0, y0), mask, bg)

	for i := 0; i < count; i++ {
		c := normal
		if i == current {
			c = active
		}
		c.A = uint8(float64(c.A) * alpha)
		cx := x0 + padY + i*(dotSize+gap)
		cy := y0 + padY
		dotMask := rasterizeCapsule(dotSize, dotSize, dotSize/2)
		drawMasked(dst, image.Pt(cx, cy), dotMask, c)
	}
}

func drawMasked(dst *image.RGBA, at image.Point, mask *image.Alpha, c geom.Color) {
	r := image.Rectangle{Min: at, Max: at.Add(mask.Bounds().Size())}
	draw.DrawMask(dst, r, &image.Uniform{C: toNRGBA(c)}, image.Point{}, mask, image.Point{}, draw.Over)
}
