// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package ui builds PanelKit's hardcoded initial widget tree and wires its
// bus subscriptions, per the fixed two-page layout the runtime always
// starts with.
package ui

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/brandonfranzke/panelkit/internal/api"
	"github.com/brandonfranzke/panelkit/internal/bus"
	"github.com/brandonfranzke/panelkit/internal/errs"
	"github.com/brandonfranzke/panelkit/internal/geom"
	"github.com/brandonfranzke/panelkit/internal/store"
	"github.com/brandonfranzke/panelkit/internal/widget"
)

// Tree is the constructed initial UI plus the bits the application loop
// needs to finish wiring the concurrency-safe data path for it.
type Tree struct {
	Manager     *widget.Manager
	PageManager *widget.PageManager

	dataDisplay *widget.DataDisplay
	dirty       dirtySignal
}

// dirtySignal is the thread-safe "new data available" flag a bus handler
// sets from a worker thread and the UI thread clears once it has applied
// the update, the reference pattern for keeping widget mutation on the UI
// thread alone.
type dirtySignal struct {
	mu      sync.Mutex
	pending bool
}

func (s *dirtySignal) mark() {
	s.mu.Lock()
	s.pending = true
	s.mu.Unlock()
}

func (s *dirtySignal) takeAndClear() bool {
	s.mu.Lock()
	p := s.pending
	s.pending = false
	s.mu.Unlock()
	return p
}

// Deps bundles the collaborators the tree's buttons and subscriptions
// need.
type Deps struct {
	Store      *store.Store
	Bus        *bus.Bus
	APIWorker  *api.Worker
	Measurer   widget.TextMeasurer
	Rasterizer widget.TextRasterizer
	Now        func() time.Time
	Scope      *errs.Scope
	Log        *slog.Logger
}

// Build constructs the two-page tree described in the UI initialization
// section and wires its bus subscriptions.
func Build(deps Deps) *Tree {
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	page0 := buildPage0(deps)
	page1, dataDisplay := buildPage1(deps)

	pm := widget.NewPageManager("pager", []*widget.Page{page0, page1},
		geom.Opaque(120, 120, 120), geom.Opaque(255, 255, 255), deps.Bus, now)

	manager := widget.NewManager(&pm.Widget, deps.Scope)
	manager.SetPageManagerID("pager")

	t := &Tree{Manager: manager, PageManager: pm, dataDisplay: dataDisplay}
	t.wireSubscriptions(deps)
	return t
}

func buildPage0(deps Deps) *widget.Page {
	page := widget.NewPage("page0", 0)

	title := widget.NewText("page0_title", "PanelKit", "regular", widget.AlignCenter,
		textColorPalette[0], deps.Measurer, deps.Rasterizer)
	title.RelativeBounds = geom.Rect{X: 0, Y: 20, W: 0, H: 40} // width patched by LayoutSelf below
	page.AddChild(&title.Widget)

	btn := widget.NewButton("page0_change_color", widget.StateColors{
		Normal: geom.Opaque(60, 60, 90), Hover: geom.Opaque(80, 80, 110),
		Pressed: geom.Opaque(40, 40, 70), Disabled: geom.Opaque(50, 50, 50),
	})
	btn.RelativeBounds = geom.Rect{X: 40, Y: 120, W: 200, H: 48}
	label := widget.NewText("page0_change_color_label", "Change Text Color", "regular",
		widget.AlignCenter, geom.Opaque(255, 255, 255), deps.Measurer, deps.Rasterizer)
	label.RelativeBounds = geom.Rect{X: 0, Y: 0, W: 200, H: 48}
	btn.AddChild(&label.Widget)

	btn.OnClickFunc = func() {
		idx := nextPaletteIndex(deps.Store)
		title.Foreground = textColorPalette[idx]
		title.State |= widget.FlagDirty
	}
	btn.PublishBus = deps.Bus
	btn.PublishName = "ui.button_pressed"
	btn.Payload = func() any {
		return ButtonPressedEvent{ButtonIndex: 0, Page: 0, Timestamp: time.Now(), ButtonText: "Change Text Color"}
	}
	page.AddChild(&btn.Widget)

	return page
}

// nextPaletteIndex reads the current index from the store, advances it
// mod len(textColorPalette), and writes it back.
func nextPaletteIndex(st *store.Store) int {
	cur := 0
	if data, _, ok := st.Get("app", "page1_text_color"); ok {
		json.Unmarshal(data, &cur)
	}
	next := (cur + 1) % len(textColorPalette)
	if data, err := json.Marshal(next); err == nil {
		st.Set("app", "page1_text_color", data)
	}
	return next
}

func buildPage1(deps Deps) (*widget.Page, *widget.DataDisplay) {
	page := widget.NewPage("page1", 1)

	title := widget.NewText("page1_title", "Controls", "regular", widget.AlignCenter,
		geom.Opaque(255, 255, 255), deps.Measurer, deps.Rasterizer)
	title.RelativeBounds = geom.Rect{X: 0, Y: 20, W: 0, H: 40}
	page.AddChild(&title.Widget)

	labels := []struct {
		id, text string
		onClick  func()
	}{
		{"page1_blue", "Blue", func() { setBGColor(deps.Store, geom.Opaque(30, 60, 160)) }},
		{"page1_random", "Random", func() { setBGColor(deps.Store, randomColor()) }},
		{"page1_time", "Time", func() { toggleBool(deps.Store, "show_time") }},
		{"page1_goto0", "Go to Page 1", func() {}}, // bound to pm.GoTo(0) after manager exists; see Build
		{"page1_refresh", "Refresh User", func() {
			if deps.APIWorker != nil {
				deps.APIWorker.RequestRefresh("button")
			}
		}},
		{"page1_exit", "Exit App", func() { setQuit(deps.Store) }},
		{"page1_debug1", "Debug: Dump Store", func() { deps.Log.Info("debug dump store requested") }},
		{"page1_debug2", "Debug: Toggle Grid", func() { toggleBool(deps.Store, "show_debug") }},
		{"page1_debug3", "Debug: Notify", func() {}},
	}

	const cols, btnW, btnH, gap = 2, 160, 44, 10
	for i, l := range labels {
		btn := widget.NewButton(l.id, widget.StateColors{
			Normal: geom.Opaque(50, 50, 50), Hover: geom.Opaque(70, 70, 70),
			Pressed: geom.Opaque(90, 90, 90), Disabled: geom.Opaque(30, 30, 30),
		})
		row, col := i/cols, i%cols
		btn.RelativeBounds = geom.Rect{
			X: 20 + col*(btnW+gap), Y: 80 + row*(btnH+gap), W: btnW, H: btnH,
		}
		label := widget.NewText(l.id+"_label", l.text, "small", widget.AlignCenter,
			geom.Opaque(255, 255, 255), deps.Measurer, deps.Rasterizer)
		label.RelativeBounds = geom.Rect{X: 0, Y: 0, W: btnW, H: btnH}
		btn.AddChild(&label.Widget)
		btn.OnClickFunc = l.onClick
		btn.PublishBus = deps.Bus
		btn.PublishName = "ui.button_pressed"
		idx, text := i, l.text
		btn.Payload = func() any {
			return ButtonPressedEvent{ButtonIndex: idx, Page: 1, Timestamp: time.Now(), ButtonText: text}
		}
		page.AddChild(&btn.Widget)
	}

	dataDisplay := widget.NewDataDisplay("page1_data_display", geom.Opaque(255, 255, 255), deps.Measurer, deps.Rasterizer)
	dataDisplay.RelativeBounds = geom.Rect{X: 360, Y: 80, W: 200, H: 160}
	page.AddChild(&dataDisplay.Widget)

	return page, dataDisplay
}

func setBGColor(st *store.Store, c geom.Color) {
	data, err := json.Marshal(c)
	if err != nil {
		return
	}
	st.Set("app", "bg_color", data)
}

func randomColor() geom.Color {
	now := time.Now().UnixNano()
	return geom.Opaque(uint8(now), uint8(now>>8), uint8(now>>16))
}

func toggleBool(st *store.Store, id string) {
	cur := false
	if data, _, ok := st.Get("app", id); ok {
		json.Unmarshal(data, &cur)
	}
	data, err := json.Marshal(!cur)
	if err != nil {
		return
	}
	st.Set("app", id, data)
}

func setQuit(st *store.Store) {
	data, _ := json.Marshal(true)
	st.Set("app", "quit", data)
}

// wireSubscriptions installs the three bus subscriptions from §4.9. The
// api.user_data_updated handler only marks a dirty flag: it may run on a
// worker goroutine via Publish, so it must not touch the widget tree
// directly (see PollUpdates).
func (t *Tree) wireSubscriptions(deps Deps) {
	deps.Bus.Subscribe("api.user_data_updated", func(name string, payload any) error {
		t.dirty.mark()
		return nil
	})
	deps.Bus.Subscribe("system.page_transition", func(name string, payload any) error {
		if deps.Log != nil {
			deps.Log.Debug("page transition", "event", payload)
		}
		return nil
	})
	deps.Bus.Subscribe("system.api_refresh", func(name string, payload any) error {
		return nil // the api.Worker itself owns the refresh trigger subscription
	})

	// "Go to Page 1" needs the page manager, which does not exist yet when
	// buildPage1's button table is built; wire it here instead.
	if goBtn := findButton(t.Manager.Root, "page1_goto0"); goBtn != nil {
		pm := t.PageManager
		goBtn.OnClickFunc = func() { pm.GoTo(0) }
	}
}

func findButton(w *widget.Widget, id string) *widget.Button {
	if w == nil {
		return nil
	}
	if w.ID == id {
		if b, ok := w.Self.(*widget.Button); ok {
			return b
		}
	}
	for _, c := range w.Children {
		if found := findButton(c, id); found != nil {
			return found
		}
	}
	return nil
}

// PollUpdates applies any pending api.user_data_updated payload to the
// data-display; call once per frame from the application loop's
// bus-drain step, on the UI thread.
func (t *Tree) PollUpdates(st *store.Store) {
	if !t.dirty.takeAndClear() {
		return
	}
	data, _, ok := st.Get("api", "user_data")
	if !ok {
		return
	}
	var rec api.UserRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return
	}
	t.dataDisplay.SetFields(widget.DataDisplayFields{
		Name: rec.Name, Email: rec.Email, Phone: rec.Phone, Location: rec.Location,
	})
}
