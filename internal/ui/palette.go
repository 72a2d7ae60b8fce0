// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package ui

import "github.com/brandonfranzke/panelkit/internal/geom"

// textColorPalette is the 7-entry cycle "Change Text Color" steps through.
var textColorPalette = []geom.Color{
	geom.Opaque(255, 255, 255),
	geom.Opaque(255, 80, 80),
	geom.Opaque(80, 255, 80),
	geom.Opaque(80, 160, 255),
	geom.Opaque(255, 220, 80),
	geom.Opaque(220, 120, 255),
	geom.Opaque(80, 220, 220),
}
