// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package widget

// Page is a container representing one screen; its bounds equal the
// owning page-manager's bounds translated by its index offset, which the
// manager maintains in its LayoutSelf on every layout pass.
type Page struct {
	Widget

	Index int
}

// NewPage creates a page at index within its page-manager.
func NewPage(id string, index int) *Page {
	p := &Page{Widget: NewWidget(id, KindPage), Index: index}
	p.Self = p
	return p
}
