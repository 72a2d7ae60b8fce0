// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package widget

import (
	"github.com/brandonfranzke/panelkit/internal/bus"
	"github.com/brandonfranzke/panelkit/internal/geom"
)

// StateColors holds the four background colors a button cycles through
// based on its state_flags.
type StateColors struct {
	Normal, Hover, Pressed, Disabled geom.Color
}

// Button is an interactive container; it composes children (typically a
// Text) for its label rather than owning a label string itself.
type Button struct {
	Widget

	Colors StateColors

	OnClickFunc func()
	PublishName string
	PublishBus  *bus.Bus
	Payload     func() any
}

// NewButton creates a button with the given state colors. Either
// onClick, a publish name plus bus (or both) supply the click behavior.
func NewButton(id string, colors StateColors) *Button {
	b := &Button{Widget: NewWidget(id, KindButton), Colors: colors}
	b.Caps.HandlePointer = true
	b.Background = colors.Normal
	b.Self = b
	return b
}

// OnClick = Clicker. Invokes the stored callback and/or publishes the
// configured event with an owned payload copy.
func (b *Button) OnClick() {
	if b.OnClickFunc != nil {
		b.OnClickFunc()
	}
	if b.PublishBus != nil && b.PublishName != "" {
		var payload any
		if b.Payload != nil {
			payload = b.Payload()
		}
		b.PublishBus.Publish(b.PublishName, payload, nil)
	}
}

// OnUpdate derives Background from state_flags each frame, implementing
// Updater so the manager refreshes it without a render-time type switch.
func (b *Button) OnUpdate(dt float64) {
	switch {
	case b.Disabled():
		b.Background = b.Colors.Disabled
	case b.State.Has(FlagPressed):
		b.Background = b.Colors.Pressed
	case b.State.Has(FlagHovered):
		b.Background = b.Colors.Hover
	default:
		b.Background = b.Colors.Normal
	}
}
