// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package widget

import "github.com/brandonfranzke/panelkit/internal/geom"

// DataDisplayFields is the fixed four-row record DataDisplay shows.
type DataDisplayFields struct {
	Name, Email, Phone, Location string
}

// dataRow is one label/value pair; both are Text children.
type dataRow struct {
	label, value *Text
}

// DataDisplay is a label/value grid with four fixed rows. Each row is two
// Text children; it recomputes child bounds whenever the parent layout
// changes.
type DataDisplay struct {
	Widget

	rows     [4]dataRow
	rowNames [4]string
}

// NewDataDisplay creates the four-row grid, using measurer/rasterizer to
// build each Text child.
func NewDataDisplay(id string, fg geom.Color, measurer TextMeasurer, rasterizer TextRasterizer) *DataDisplay {
	d := &DataDisplay{Widget: NewWidget(id, KindDataDisplay)}
	d.Self = d
	d.rowNames = [4]string{"Name", "Email", "Phone", "Location"}
	for i, name := range d.rowNames {
		label := NewText(id+"_"+name+"_label", name+":", "", AlignLeft, fg, measurer, rasterizer)
		value := NewText(id+"_"+name+"_value", "", "", AlignLeft, fg, measurer, rasterizer)
		d.rows[i] = dataRow{label: label, value: value}
		d.AddChild(&label.Widget)
		d.AddChild(&value.Widget)
	}
	return d
}

// SetFields updates every row's value text from fields.
func (d *DataDisplay) SetFields(fields DataDisplayFields) {
	d.rows[0].value.SetValue(fields.Name)
	d.rows[1].value.SetValue(fields.Email)
	d.rows[2].value.SetValue(fields.Phone)
	d.rows[3].value.SetValue(fields.Location)
}

// LayoutSelf recomputes each row's relative bounds from the display's own
// size, called by the base Widget.Layout walk before it recurses into
// children.
func (d *DataDisplay) LayoutSelf() {
	rowHeight := d.Bounds.H / len(d.rows)
	labelWidth := d.Bounds.W / 3
	for i, row := range d.rows {
		y := i * rowHeight
		row.label.RelativeBounds = geom.Rect{X: 0, Y: y, W: labelWidth, H: rowHeight}
		row.value.RelativeBounds = geom.Rect{X: labelWidth, Y: y, W: d.Bounds.W - labelWidth, H: rowHeight}
	}
}
