// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package input

// MockSource replays a preloaded, deterministic event script. It exists so
// gesture-engine and widget-manager tests can drive exact pointer streams
// (tap, swipe, hold) without real hardware or a host event queue.
type MockSource struct {
	caps   Capabilities
	script []Event
	cursor int
}

// NewMockSource creates a Source that yields the whole script (see
// Tap/Swipe below) on the first Drain call, then nothing until Reset.
func NewMockSource(caps Capabilities, script []Event) *MockSource {
	return &MockSource{caps: caps, script: script}
}

func (m *MockSource) Start() error              { return nil }
func (m *MockSource) Stop() error                { return nil }
func (m *MockSource) Capabilities() Capabilities { return m.caps }

// Drain returns the entire remaining script in one call, matching how a
// test typically wants one full gesture delivered to a single loop
// iteration; call Reset to replay.
func (m *MockSource) Drain() []Event {
	if m.cursor >= len(m.script) {
		return nil
	}
	out := m.script[m.cursor:]
	m.cursor = len(m.script)
	return out
}

// Reset rewinds the script for reuse across test cases.
func (m *MockSource) Reset() { m.cursor = 0 }

// Tap builds a down/up script at one point with a stable finger id.
func Tap(x, y float64) []Event {
	return []Event{
		{Kind: FingerDown, TouchID: 0, FingerID: 1, X: x, Y: y, Pressure: 1},
		{Kind: FingerUp, TouchID: 0, FingerID: 1, X: x, Y: y},
	}
}

// Swipe builds a down/motion/up script moving linearly from (x0,y0) to
// (x1,y1) over the given number of intermediate motion steps.
func Swipe(x0, y0, x1, y1 float64, steps int) []Event {
	if steps < 1 {
		steps = 1
	}
	events := []Event{{Kind: FingerDown, TouchID: 0, FingerID: 1, X: x0, Y: y0, Pressure: 1}}
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps)
		events = append(events, Event{
			Kind: FingerMotion, TouchID: 0, FingerID: 1,
			X: x0 + (x1-x0)*t, Y: y0 + (y1-y0)*t, Pressure: 1,
		})
	}
	events = append(events, Event{Kind: FingerUp, TouchID: 0, FingerID: 1, X: x1, Y: y1})
	return events
}

// Hold builds a down-only script; the caller's test clock is expected to
// advance past hold_timeout before the next Drain.
func Hold(x, y float64) []Event {
	return []Event{{Kind: FingerDown, TouchID: 0, FingerID: 1, X: x, Y: y, Pressure: 1}}
}
