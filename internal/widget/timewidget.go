// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package widget

import "time"

// TimeWidget internally composes a Text child, reformatting the current
// wall-clock time per a Go reference-time layout and updating the child's
// value only when the formatted string actually changes.
type TimeWidget struct {
	Widget

	Pattern string // Go reference-time layout, e.g. "15:04:05"
	Now     func() time.Time

	label *Text
	last  string
}

// NewTimeWidget creates a clock widget wrapping label, which becomes its
// sole child. now defaults to time.Now when nil (tests inject a fake
// clock).
func NewTimeWidget(id, pattern string, label *Text, now func() time.Time) *TimeWidget {
	if now == nil {
		now = time.Now
	}
	t := &TimeWidget{Widget: NewWidget(id, KindTime), Pattern: pattern, Now: now, label: label}
	t.Self = t
	t.AddChild(&label.Widget)
	return t
}

// OnUpdate reformats the clock and pushes the new string into the label
// child only on change, avoiding a cache invalidation on every frame.
func (t *TimeWidget) OnUpdate(dt float64) {
	formatted := t.Now().Format(t.Pattern)
	if formatted == t.last {
		return
	}
	t.last = formatted
	t.label.SetValue(formatted)
}
