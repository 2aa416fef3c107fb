package dialogs

import (
	"fmt"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"whiteboard-studio/internal/document"
	"whiteboard-studio/pkg/colorutil"
)

// BoardPropsDialog edits board-level settings.
type BoardPropsDialog struct {
	window fyne.Window

	name       string
	background string
	snap       bool

	nameEntry *widget.Entry
	bgEntry   *widget.Entry
	bgSwatch  *fynecanvas.Rectangle
	snapCheck *widget.Check

	onSave func(name, background string, snap bool)
}

// NewBoardPropsDialog creates a board properties dialog seeded with the
// current values.
func NewBoardPropsDialog(name, background string, snap bool, window fyne.Window, onSave func(name, background string, snap bool)) *BoardPropsDialog {
	return &BoardPropsDialog{
		window:     window,
		name:       name,
		background: background,
		snap:       snap,
		onSave:     onSave,
	}
}

// Show displays the dialog.
func (d *BoardPropsDialog) Show() {
	d.nameEntry = widget.NewEntry()
	d.nameEntry.SetText(d.name)

	d.bgEntry = widget.NewEntry()
	d.bgEntry.SetText(d.background)
	d.bgSwatch = newSwatch()
	d.bgEntry.OnChanged = func(string) {
		d.bgSwatch.FillColor = colorutil.ParseHexDefault(d.bgEntry.Text, colorutil.White)
		fynecanvas.Refresh(d.bgSwatch)
	}
	d.bgEntry.OnChanged("")

	d.snapCheck = widget.NewCheck("Snap to alignment guides", nil)
	d.snapCheck.SetChecked(d.snap)

	form := widget.NewForm(
		widget.NewFormItem("Name", d.nameEntry),
		widget.NewFormItem("Background", container.NewBorder(nil, nil, nil, d.bgSwatch, d.bgEntry)),
	)

	content := container.NewVBox(form, d.snapCheck)

	dlg := dialog.NewCustomConfirm(
		"Board Properties",
		"Apply",
		"Cancel",
		content,
		func(save bool) {
			if !save {
				return
			}
			bg := d.bgEntry.Text
			if bg != "" {
				if _, ok := colorutil.ParseHex(bg); !ok {
					bg = d.background
				}
			}
			if d.onSave != nil {
				d.onSave(d.nameEntry.Text, bg, d.snapCheck.Checked)
			}
		},
		d.window,
	)
	dlg.Resize(fyne.NewSize(380, 260))
	dlg.Show()
}

// LibraryDialog lists the boards stored in the local library.
type LibraryDialog struct {
	window fyne.Window
	infos  []document.BoardInfo

	list     *widget.List
	selected int

	onLoad   func(id string)
	onDelete func(id string)
}

// NewLibraryDialog creates a library browser over the given boards.
func NewLibraryDialog(infos []document.BoardInfo, window fyne.Window, onLoad, onDelete func(id string)) *LibraryDialog {
	return &LibraryDialog{
		window:   window,
		infos:    infos,
		selected: -1,
		onLoad:   onLoad,
		onDelete: onDelete,
	}
}

// Show displays the dialog. Confirming opens the selected board.
func (d *LibraryDialog) Show() {
	d.list = widget.NewList(
		func() int { return len(d.infos) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(i widget.ListItemID, o fyne.CanvasObject) {
			info := d.infos[i]
			o.(*widget.Label).SetText(fmt.Sprintf("%s  (%d elements, %s)",
				info.Name, info.Elements, info.Modified.Format("Jan 2 15:04")))
		},
	)
	d.list.OnSelected = func(i widget.ListItemID) { d.selected = i }
	d.list.OnUnselected = func(widget.ListItemID) { d.selected = -1 }

	deleteBtn := widget.NewButton("Delete Selected", func() { d.deleteSelected() })

	content := container.NewBorder(nil, deleteBtn, nil, nil, d.list)

	dlg := dialog.NewCustomConfirm(
		"Board Library",
		"Open",
		"Close",
		content,
		func(open bool) {
			if open && d.selected >= 0 && d.selected < len(d.infos) && d.onLoad != nil {
				d.onLoad(d.infos[d.selected].ID)
			}
		},
		d.window,
	)
	dlg.Resize(fyne.NewSize(440, 360))
	dlg.Show()
}

func (d *LibraryDialog) deleteSelected() {
	if d.selected < 0 || d.selected >= len(d.infos) {
		return
	}
	info := d.infos[d.selected]
	if d.onDelete != nil {
		d.onDelete(info.ID)
	}
	d.infos = append(d.infos[:d.selected], d.infos[d.selected+1:]...)
	d.selected = -1
	d.list.UnselectAll()
	d.list.Refresh()
}
