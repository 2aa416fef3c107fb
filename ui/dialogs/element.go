// Package dialogs provides application dialogs.
package dialogs

import (
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"whiteboard-studio/internal/element"
	"whiteboard-studio/internal/textfit"
	"whiteboard-studio/pkg/colorutil"
)

// ElementDialog edits the content and style of a single element. It
// mutates the element it was given; pass a clone and apply the result
// through the state so the edit lands in history.
type ElementDialog struct {
	el     *element.Element
	window fyne.Window

	contentEntry *widget.Entry
	fontSize     *widget.Entry
	alignSelect  *widget.Select
	valignSelect *widget.Select
	fillCheck    *widget.Check

	colorEntry  *widget.Entry
	colorSwatch *fynecanvas.Rectangle
	bgEntry     *widget.Entry
	bgSwatch    *fynecanvas.Rectangle

	onSave func(*element.Element)
}

// NewElementDialog creates an element properties dialog.
func NewElementDialog(el *element.Element, window fyne.Window, onSave func(*element.Element)) *ElementDialog {
	return &ElementDialog{
		el:     el,
		window: window,
		onSave: onSave,
	}
}

// Show displays the dialog.
func (d *ElementDialog) Show() {
	content := d.createContent()

	dlg := dialog.NewCustomConfirm(
		"Edit "+typeLabel(d.el.Type),
		"Apply",
		"Cancel",
		content,
		func(save bool) {
			if save {
				d.applyChanges()
				if d.onSave != nil {
					d.onSave(d.el)
				}
			}
		},
		d.window,
	)
	dlg.Resize(fyne.NewSize(420, 540))
	dlg.Show()
	if d.contentEntry != nil {
		d.window.Canvas().Focus(d.contentEntry)
	}
}

func (d *ElementDialog) createContent() fyne.CanvasObject {
	hasText := typeHasText(d.el.Type)

	sections := []fyne.CanvasObject{}

	if hasText {
		d.contentEntry = widget.NewMultiLineEntry()
		d.contentEntry.SetText(d.el.Content)
		d.contentEntry.Wrapping = fyne.TextWrapWord
		d.contentEntry.SetMinRowsVisible(4)

		d.fontSize = widget.NewEntry()
		d.fontSize.SetText(fmt.Sprintf("%.0f", d.el.FontSize))

		d.alignSelect = widget.NewSelect([]string{
			string(element.AlignLeft), string(element.AlignCenter), string(element.AlignRight),
		}, nil)
		d.alignSelect.SetSelected(string(d.el.TextAlign))

		d.valignSelect = widget.NewSelect([]string{
			string(element.VAlignTop), string(element.VAlignMiddle), string(element.VAlignBottom),
		}, nil)
		d.valignSelect.SetSelected(string(d.el.TextVerticalAlign))

		d.fillCheck = widget.NewCheck("Scale text to fill the box", nil)
		d.fillCheck.SetChecked(d.el.Fill)

		textForm := widget.NewForm(
			widget.NewFormItem("Font Size", d.fontSize),
			widget.NewFormItem("Align", d.alignSelect),
			widget.NewFormItem("Vertical", d.valignSelect),
		)

		sections = append(sections,
			widget.NewCard("Content", "", d.contentEntry),
			widget.NewCard("Text", "", container.NewVBox(textForm, d.fillCheck)),
		)
	}

	d.colorEntry = widget.NewEntry()
	d.colorEntry.SetText(d.el.Color)
	d.colorSwatch = newSwatch()

	colorRows := []fyne.CanvasObject{
		swatchRow("Stroke", d.colorEntry, d.colorSwatch),
	}

	if typeHasBackground(d.el.Type) {
		d.bgEntry = widget.NewEntry()
		d.bgEntry.SetText(d.el.Background)
		d.bgSwatch = newSwatch()
		colorRows = append(colorRows, swatchRow("Background", d.bgEntry, d.bgSwatch))
	}

	d.colorEntry.OnChanged = func(string) { d.updateSwatches() }
	if d.bgEntry != nil {
		d.bgEntry.OnChanged = func(string) { d.updateSwatches() }
	}
	d.updateSwatches()

	sections = append(sections, widget.NewCard("Colors", "", container.NewVBox(colorRows...)))

	return container.NewVBox(sections...)
}

func (d *ElementDialog) applyChanges() {
	if d.contentEntry != nil {
		d.el.Content = d.contentEntry.Text
	}
	if d.fontSize != nil {
		if v, err := strconv.ParseFloat(d.fontSize.Text, 64); err == nil && v > 0 {
			if v > textfit.MaxFontSize {
				v = textfit.MaxFontSize
			}
			d.el.FontSize = v
		}
	}
	if d.alignSelect != nil && d.alignSelect.Selected != "" {
		d.el.TextAlign = element.Align(d.alignSelect.Selected)
	}
	if d.valignSelect != nil && d.valignSelect.Selected != "" {
		d.el.TextVerticalAlign = element.VerticalAlign(d.valignSelect.Selected)
	}
	if d.fillCheck != nil {
		d.el.Fill = d.fillCheck.Checked
	}

	// Malformed colors are dropped rather than stored; empty clears to
	// the type default.
	if d.colorEntry.Text == "" {
		d.el.Color = ""
	} else if _, ok := colorutil.ParseHex(d.colorEntry.Text); ok {
		d.el.Color = d.colorEntry.Text
	}
	if d.bgEntry != nil {
		if d.bgEntry.Text == "" {
			d.el.Background = ""
		} else if _, ok := colorutil.ParseHex(d.bgEntry.Text); ok {
			d.el.Background = d.bgEntry.Text
		}
	}
}

// updateSwatches refreshes the color preview rectangles from the entry
// text.
func (d *ElementDialog) updateSwatches() {
	d.colorSwatch.FillColor = colorutil.ParseHexDefault(d.colorEntry.Text, colorutil.Black)
	fynecanvas.Refresh(d.colorSwatch)
	if d.bgEntry != nil {
		d.bgSwatch.FillColor = colorutil.ParseHexDefault(d.bgEntry.Text, colorutil.White)
		fynecanvas.Refresh(d.bgSwatch)
	}
}

func newSwatch() *fynecanvas.Rectangle {
	sw := fynecanvas.NewRectangle(colorutil.White)
	sw.SetMinSize(fyne.NewSize(40, 24))
	return sw
}

func swatchRow(label string, entry *widget.Entry, swatch *fynecanvas.Rectangle) fyne.CanvasObject {
	return container.NewBorder(nil, nil, widget.NewLabel(label), swatch, entry)
}

func typeHasText(t element.Type) bool {
	switch t {
	case element.TypeText, element.TypeSticky, element.TypeRect, element.TypeEllipse:
		return true
	}
	return false
}

func typeHasBackground(t element.Type) bool {
	switch t {
	case element.TypeSticky, element.TypeRect, element.TypeEllipse:
		return true
	}
	return false
}

func typeLabel(t element.Type) string {
	switch t {
	case element.TypeText:
		return "Text"
	case element.TypeSticky:
		return "Sticky Note"
	case element.TypeRect:
		return "Rectangle"
	case element.TypeEllipse:
		return "Ellipse"
	case element.TypeLine:
		return "Line"
	case element.TypePen:
		return "Pen Stroke"
	}
	return "Element"
}
