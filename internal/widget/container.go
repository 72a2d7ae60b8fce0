// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package widget

// Container is background plus children only; it carries no behavior of
// its own beyond the default render/layout the base Widget provides.
type Container struct {
	Widget
}

// NewContainer creates a container widget with the given id.
func NewContainer(id string) *Container {
	c := &Container{Widget: NewWidget(id, KindContainer)}
	c.Self = c
	return c
}
