// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package input

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/brandonfranzke/panelkit/internal/errs"
)

// NativeSource is the desktop development-host input source. PanelKit's
// retrieved dependency stack carries no windowing toolkit (the windowed
// display backend is a bare software surface, see internal/display), so
// there is no host event queue to poll. In its place NativeSource reads a
// small line-oriented control protocol from an io.Reader (stdin by
// default) that a developer or test harness drives directly — "tap X Y",
// "swipe X0 Y0 X1 Y1 STEPS", "key down|up KEYSYM", "quit" — and translates
// each line into the same normalized Event stream evdev produces. This
// runs entirely on the UI thread's Drain call, per §5; no goroutine is
// needed for stdin because the application loop reads fully before acting
// each iteration.
type NativeSource struct {
	in             *bufio.Scanner
	mouseEmulation bool
	q              *queue
	scope          *errs.Scope

	mu      sync.Mutex
	started bool
}

// NewNativeSource creates a NativeSource reading commands from r. If r is
// nil, os.Stdin is used. mouseEmulation, when true, mirrors mouse-down/
// motion/up commands into finger events as well, per §4.4.
func NewNativeSource(r io.Reader, mouseEmulation bool, scope *errs.Scope) *NativeSource {
	if r == nil {
		r = os.Stdin
	}
	return &NativeSource{in: bufio.NewScanner(r), mouseEmulation: mouseEmulation, q: newQueue(256), scope: scope}
}

func (n *NativeSource) Start() error {
	n.mu.Lock()
	n.started = true
	n.mu.Unlock()
	return nil
}

func (n *NativeSource) Stop() error {
	n.mu.Lock()
	n.started = false
	n.mu.Unlock()
	return nil
}

func (n *NativeSource) Capabilities() Capabilities {
	return Capabilities{HasMouse: true, HasKeyboard: true, HasTouch: n.mouseEmulation, MaxTouchPoints: 1}
}

// Drain consumes any control-protocol lines available without blocking by
// scanning greedily; on a terminal, a fully-buffered line is typically
// already available by the time the loop calls Drain. Unparsable lines are
// ignored.
func (n *NativeSource) Drain() []Event {
	for n.in.Scan() {
		line := strings.TrimSpace(n.in.Text())
		if line == "" {
			continue
		}
		n.translate(line)
	}
	return n.q.drain()
}

func (n *NativeSource) translate(line string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return
	}
	switch fields[0] {
	case "quit":
		n.q.push(Event{Kind: Quit})
	case "tap":
		if len(fields) >= 3 {
			x, y := atoi(fields[1]), atoi(fields[2])
			n.q.push(Event{Kind: MouseButtonDown, Button: 0, PX: x, PY: y})
			n.q.push(Event{Kind: MouseButtonUp, Button: 0, PX: x, PY: y})
			if n.mouseEmulation {
				n.q.push(Event{Kind: FingerDown, FingerID: 1, X: normX(x), Y: normY(y), Pressure: 1})
				n.q.push(Event{Kind: FingerUp, FingerID: 1, X: normX(x), Y: normY(y)})
			}
		}
	case "swipe":
		if len(fields) >= 5 {
			x0, y0, x1, y1 := atoi(fields[1]), atoi(fields[2]), atoi(fields[3]), atoi(fields[4])
			steps := 10
			if len(fields) >= 6 {
				steps = atoi(fields[5])
			}
			n.pushSwipe(x0, y0, x1, y1, steps)
		}
	case "key":
		if len(fields) >= 3 {
			kind := KeyDown
			if fields[1] == "up" {
				kind = KeyUp
			}
			if len(fields[2]) > 0 {
				n.q.push(Event{Kind: kind, Keysym: rune(fields[2][0])})
			}
		}
	}
}

func (n *NativeSource) pushSwipe(x0, y0, x1, y1, steps int) {
	n.q.push(Event{Kind: MouseButtonDown, PX: x0, PY: y0})
	if n.mouseEmulation {
		n.q.push(Event{Kind: FingerDown, FingerID: 1, X: normX(x0), Y: normY(y0), Pressure: 1})
	}
	if steps < 1 {
		steps = 1
	}
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := x0 + int(float64(x1-x0)*t)
		y := y0 + int(float64(y1-y0)*t)
		n.q.push(Event{Kind: MouseMotion, PX: x, PY: y, Buttons: 1})
		if n.mouseEmulation {
			n.q.push(Event{Kind: FingerMotion, FingerID: 1, X: normX(x), Y: normY(y), Pressure: 1})
		}
	}
	n.q.push(Event{Kind: MouseButtonUp, PX: x1, PY: y1})
	if n.mouseEmulation {
		n.q.push(Event{Kind: FingerUp, FingerID: 1, X: normX(x1), Y: normY(y1)})
	}
}

func atoi(s string) int {
	v, _ := strconv.Atoi(s)
	return v
}

// normX/normY are placeholders for surface-size-aware normalization; the
// application loop rewrites PX/PY-derived finger coordinates against the
// actual backend surface size before handing them to the gesture engine
// (see internal/app), so these simply pass pixels through unchanged here.
func normX(px int) float64 { return float64(px) }
func normY(px int) float64 { return float64(px) }
