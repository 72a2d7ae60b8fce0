// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package geom provides the minimal 2D primitives shared across the display,
// widget, and gesture packages: colors, points, and pixel-space rectangles.
package geom

// Color is an 8-bit-per-channel RGBA color.
type Color struct {
	R, G, B, A uint8
}

// Opaque returns c with full alpha.
func Opaque(r, g, b uint8) Color { return Color{R: r, G: g, B: b, A: 255} }

// Point is a pixel-space coordinate pair.
type Point struct {
	X, Y int
}

// Rect is an axis-aligned pixel rectangle with origin at its top-left corner,
// matching the display surface's coordinate convention (y grows downward).
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether p lies within r, with the top-left edge inclusive
// and the bottom-right edge exclusive, consistent with how hit-testing treats
// adjacent widget bounds as non-overlapping.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// Origin returns the rectangle's top-left corner.
func (r Rect) Origin() Point { return Point{X: r.X, Y: r.Y} }

// Translate returns r shifted by the given origin, used to convert a
// relative rect into an absolute one: parent.bounds.Origin() + relative.
func (r Rect) Translate(origin Point) Rect {
	return Rect{X: r.X + origin.X, Y: r.Y + origin.Y, W: r.W, H: r.H}
}

// Center returns the rectangle's center point.
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}
