// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package ui

import "time"

// ButtonPressedEvent is the payload published on "ui.button_pressed" by
// every button in the initial tree, giving diagnostics/telemetry
// subscribers a uniform click feed.
type ButtonPressedEvent struct {
	ButtonIndex int
	Page        int
	Timestamp   time.Time
	ButtonText  string
}
