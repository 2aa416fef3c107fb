// Package mainwindow provides the main application window.
package mainwindow

import (
	"context"
	"fmt"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"whiteboard-studio/internal/app"
	"whiteboard-studio/internal/document"
	"whiteboard-studio/internal/element"
	"whiteboard-studio/internal/export"
	"whiteboard-studio/internal/render"
	"whiteboard-studio/internal/version"
	"whiteboard-studio/ui/board"
	"whiteboard-studio/ui/dialogs"
	"whiteboard-studio/ui/prefs"
)

const appTitle = "Whiteboard Studio"

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app      fyne.App
	state    *app.State
	prefs    *prefs.Prefs
	renderer *render.Renderer
	saver    *app.Autosaver
	canvas   *board.BoardCanvas

	statusBar *widget.Label
	zoomLabel *widget.Label

	toolButtons map[board.Tool]*widget.Button

	// Menu items that need state tracking
	snapItem     *fyne.MenuItem
	autosaveItem *fyne.MenuItem
}

// New creates a new main window.
func New(fyneApp fyne.App, state *app.State, renderer *render.Renderer, appPrefs *prefs.Prefs, saver *app.Autosaver) *MainWindow {
	win := fyneApp.NewWindow(appTitle)

	mw := &MainWindow{
		Window:   win,
		app:      fyneApp,
		state:    state,
		prefs:    appPrefs,
		renderer: renderer,
		saver:    saver,
	}

	w := appPrefs.Float(prefs.KeyWindowWidth, 1200)
	h := appPrefs.Float(prefs.KeyWindowHeight, 800)
	win.Resize(fyne.NewSize(float32(w), float32(h)))

	mw.setupUI()
	mw.setupMenus()
	mw.setupShortcuts()
	mw.setupEventHandlers()
	mw.refreshTitle()

	win.SetCloseIntercept(func() {
		mw.saveWindowPrefs()
		mw.confirmDiscard(func() { fyneApp.Quit() })
	})

	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.canvas = board.New(mw.state, mw.renderer)
	mw.canvas.OnEditText(mw.editElement)
	mw.canvas.OnToolChanged(mw.updateToolButtons)

	mw.statusBar = widget.NewLabel("Ready")
	mw.zoomLabel = widget.NewLabel("100%")

	toolbar := mw.createToolbar()

	statusRow := container.NewBorder(
		nil, nil,
		nil,
		mw.zoomLabel,
		mw.statusBar,
	)

	content := container.NewBorder(
		toolbar,                        // top
		container.NewPadded(statusRow), // bottom
		nil,                            // left
		nil,                            // right
		mw.canvas,                      // center
	)

	mw.SetContent(content)
}

// createToolbar creates the tool buttons and zoom controls.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	tools := []struct {
		label string
		tool  board.Tool
	}{
		{"Select", board.ToolSelect},
		{"Pan", board.ToolPan},
		{"Text", board.ToolText},
		{"Sticky", board.ToolSticky},
		{"Rect", board.ToolRect},
		{"Ellipse", board.ToolEllipse},
		{"Line", board.ToolLine},
		{"Pen", board.ToolPen},
		{"Eraser", board.ToolEraser},
	}

	mw.toolButtons = make(map[board.Tool]*widget.Button)
	items := []fyne.CanvasObject{}
	for _, tc := range tools {
		tool := tc.tool
		btn := widget.NewButton(tc.label, func() {
			mw.canvas.SetTool(tool)
		})
		mw.toolButtons[tool] = btn
		items = append(items, btn)
	}
	mw.updateToolButtons(board.ToolSelect)

	zoomOutBtn := widget.NewButton("-", mw.onZoomOut)
	zoomInBtn := widget.NewButton("+", mw.onZoomIn)
	fitBtn := widget.NewButton("Fit", mw.onFitContent)
	actualBtn := widget.NewButton("1:1", mw.onActualSize)

	items = append(items,
		widget.NewSeparator(),
		zoomOutBtn,
		zoomInBtn,
		fitBtn,
		actualBtn,
	)

	return container.NewHBox(items...)
}

// updateToolButtons highlights the active tool's button.
func (mw *MainWindow) updateToolButtons(active board.Tool) {
	for tool, btn := range mw.toolButtons {
		if tool == active {
			btn.Importance = widget.HighImportance
		} else {
			btn.Importance = widget.MediumImportance
		}
		btn.Refresh()
	}
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	mw.autosaveItem = fyne.NewMenuItem(
		autosaveLabel(mw.prefs.Bool(prefs.KeyAutosaveEnabled, true)), mw.onToggleAutosave)

	// File menu
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("New Board", mw.onNewBoard),
		fyne.NewMenuItem("Open Board...", mw.onOpenBoard),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save", mw.onSaveBoard),
		fyne.NewMenuItem("Save As...", mw.onSaveBoardAs),
		mw.autosaveItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export PNG...", mw.onExportPNG),
		fyne.NewMenuItem("Export PDF...", mw.onExportPDF),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() {
			mw.saveWindowPrefs()
			mw.confirmDiscard(func() { mw.app.Quit() })
		}),
	)

	// Edit menu
	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", mw.onUndo),
		fyne.NewMenuItem("Redo", mw.onRedo),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Cut", mw.onCut),
		fyne.NewMenuItem("Copy", mw.onCopy),
		fyne.NewMenuItem("Paste", mw.onPaste),
		fyne.NewMenuItem("Duplicate", mw.onDuplicate),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Delete", mw.onDelete),
		fyne.NewMenuItem("Select All", mw.onSelectAll),
	)

	// View menu
	mw.snapItem = fyne.NewMenuItem(snapLabel(mw.state.SnapToGuides()), mw.onToggleSnap)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", mw.onZoomIn),
		fyne.NewMenuItem("Zoom Out", mw.onZoomOut),
		fyne.NewMenuItem("Actual Size", mw.onActualSize),
		fyne.NewMenuItem("Fit to Content", mw.onFitContent),
		fyne.NewMenuItemSeparator(),
		mw.snapItem,
	)

	// Board menu
	boardMenu := fyne.NewMenu("Board",
		fyne.NewMenuItem("Properties...", mw.onBoardProps),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save to Library", mw.onSaveToLibrary),
		fyne.NewMenuItem("Browse Library...", mw.onBrowseLibrary),
	)

	// Help menu
	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mainMenu := fyne.NewMainMenu(fileMenu, editMenu, viewMenu, boardMenu, helpMenu)
	mw.SetMainMenu(mainMenu)
}

// setupShortcuts registers the keyboard shortcuts on the window canvas.
func (mw *MainWindow) setupShortcuts() {
	ctrl := []struct {
		key fyne.KeyName
		fn  func()
	}{
		{fyne.KeyZ, mw.onUndo},
		{fyne.KeyY, mw.onRedo},
		{fyne.KeyX, mw.onCut},
		{fyne.KeyC, mw.onCopy},
		{fyne.KeyV, mw.onPaste},
		{fyne.KeyD, mw.onDuplicate},
		{fyne.KeyA, mw.onSelectAll},
		{fyne.KeyN, mw.onNewBoard},
		{fyne.KeyO, mw.onOpenBoard},
		{fyne.KeyS, mw.onSaveBoard},
	}
	for _, sc := range ctrl {
		fn := sc.fn
		mw.Canvas().AddShortcut(
			&desktop.CustomShortcut{KeyName: sc.key, Modifier: fyne.KeyModifierControl},
			func(fyne.Shortcut) { fn() },
		)
	}
	mw.Canvas().AddShortcut(
		&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierControl | fyne.KeyModifierShift},
		func(fyne.Shortcut) { mw.onRedo() },
	)

	mw.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		switch ev.Name {
		case fyne.KeyDelete, fyne.KeyBackspace:
			mw.onDelete()
		case fyne.KeyEscape:
			mw.state.Controller().CancelGesture()
			mw.state.ClearSelection()
			mw.canvas.Refresh()
		}
	})
}

// setupEventHandlers registers for application events.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventBoardLoaded, func(data interface{}) {
		mw.renderer.SetBackground(mw.state.Background())
		mw.refreshTitle()
		mw.updateSnapItem()
		if path, ok := data.(string); ok && path != "" {
			if path == mw.state.BoardID() {
				mw.updateStatus("Loaded from library")
			} else {
				mw.updateStatus("Loaded " + filepath.Base(path))
			}
		} else {
			mw.updateStatus("Ready")
		}
	})

	mw.state.On(app.EventBoardSaved, func(data interface{}) {
		mw.refreshTitle()
		if path, ok := data.(string); ok {
			if path == mw.state.BoardID() {
				mw.updateStatus("Saved to library")
			} else if path != "" {
				mw.updateStatus("Saved " + filepath.Base(path))
			}
		}
	})

	mw.state.On(app.EventModified, func(data interface{}) {
		if modified, ok := data.(bool); ok && modified {
			title := mw.Title()
			if len(title) > 0 && title[len(title)-1] != '*' {
				mw.SetTitle(title + " *")
			}
		} else {
			mw.refreshTitle()
		}
	})

	mw.state.On(app.EventSelectionChanged, func(data interface{}) {
		if ids, ok := data.([]string); ok && len(ids) > 0 {
			mw.updateStatus(fmt.Sprintf("%d selected", len(ids)))
		} else {
			mw.updateStatus("Ready")
		}
	})

	mw.state.On(app.EventViewportChanged, func(interface{}) {
		text := fmt.Sprintf("%.0f%%", mw.canvas.Zoom()*100)
		if mw.zoomLabel.Text != text {
			mw.zoomLabel.SetText(text)
		}
	})
}

// refreshTitle rebuilds the window title from the board name and
// modified flag.
func (mw *MainWindow) refreshTitle() {
	title := appTitle + " - " + mw.state.Name()
	if mw.state.Modified {
		title += " *"
	}
	mw.SetTitle(title)
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

func (mw *MainWindow) updateSnapItem() {
	mw.snapItem.Label = snapLabel(mw.state.SnapToGuides())
}

func snapLabel(enabled bool) string {
	if enabled {
		return "✓ Snap to Guides"
	}
	return "  Snap to Guides"
}

func autosaveLabel(enabled bool) string {
	if enabled {
		return "✓ Autosave"
	}
	return "  Autosave"
}

// confirmDiscard runs the action, asking first when the board has
// unsaved changes.
func (mw *MainWindow) confirmDiscard(action func()) {
	if !mw.state.Modified {
		action()
		return
	}
	dialog.NewConfirm("Unsaved Changes",
		"The board has unsaved changes. Discard them?",
		func(ok bool) {
			if ok {
				action()
			}
		}, mw.Window).Show()
}

// saveWindowPrefs persists the window size.
func (mw *MainWindow) saveWindowPrefs() {
	size := mw.Canvas().Size()
	mw.prefs.SetFloat(prefs.KeyWindowWidth, float64(size.Width))
	mw.prefs.SetFloat(prefs.KeyWindowHeight, float64(size.Height))
	if err := mw.prefs.Save(); err != nil {
		mw.updateStatus("Could not save preferences: " + err.Error())
	}
}

// getLastDir returns the last used directory as a ListableURI, or nil.
func (mw *MainWindow) getLastDir() fyne.ListableURI {
	path := mw.prefs.String(prefs.KeyLastDirectory, "")
	if path == "" {
		return nil
	}
	uri := storage.NewFileURI(path)
	listable, err := storage.ListerForURI(uri)
	if err != nil {
		return nil
	}
	return listable
}

// saveLastDir saves the directory of the given file path.
func (mw *MainWindow) saveLastDir(filePath string) {
	dir := filepath.Dir(filePath)
	mw.prefs.SetString(prefs.KeyLastDirectory, dir)
}

// editElement opens the properties dialog for an element and applies
// the result as a single undoable edit.
func (mw *MainWindow) editElement(id string) {
	el, _ := element.FindByID(mw.state.Elements(), id)
	if el == nil {
		return
	}
	d := dialogs.NewElementDialog(el.Clone(), mw.Window, func(edited *element.Element) {
		// Turning fill off keeps the size on screen: bake the fitted
		// font size unless the user typed a new one in the same dialog.
		fontSize := edited.FontSize
		if el.Fill && !edited.Fill && edited.FontSize == el.FontSize {
			if fitted, ok := mw.state.EffectiveFontSize(id); ok {
				fontSize = fitted
			}
		}
		changed := mw.state.UpdateElement(id, func(e *element.Element) {
			e.Content = edited.Content
			e.FontSize = fontSize
			e.TextAlign = edited.TextAlign
			e.TextVerticalAlign = edited.TextVerticalAlign
			e.Fill = edited.Fill
			e.Color = edited.Color
			e.Background = edited.Background
		})
		if changed {
			mw.state.Fitter().Invalidate(id)
			mw.canvas.Refresh()
		}
	})
	d.Show()
}

// Menu action handlers

func (mw *MainWindow) onNewBoard() {
	mw.confirmDiscard(func() {
		mw.state.NewBoard("Untitled Board")
	})
}

func (mw *MainWindow) onOpenBoard() {
	mw.confirmDiscard(func() {
		fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
			if err != nil || reader == nil {
				return
			}
			reader.Close()
			path := reader.URI().Path()
			mw.saveLastDir(path)
			if err := mw.state.LoadBoard(path); err != nil {
				dialog.ShowError(err, mw.Window)
				return
			}
			mw.prefs.SetString(prefs.KeyLastBoard, path)
		}, mw.Window)
		fd.SetFilter(storage.NewExtensionFileFilter([]string{document.Extension}))
		if loc := mw.getLastDir(); loc != nil {
			fd.SetLocation(loc)
		}
		fd.Show()
	})
}

func (mw *MainWindow) onSaveBoard() {
	if mw.state.BoardPath == "" {
		mw.onSaveBoardAs()
		return
	}
	if err := mw.state.SaveBoard(mw.state.BoardPath); err != nil {
		dialog.ShowError(err, mw.Window)
	}
}

func (mw *MainWindow) onSaveBoardAs() {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		if filepath.Ext(path) != document.Extension {
			path += document.Extension
		}
		mw.saveLastDir(path)
		if err := mw.state.SaveBoard(path); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.prefs.SetString(prefs.KeyLastBoard, path)
	}, mw.Window)
	fd.SetFileName(mw.state.Name() + document.Extension)
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onExportPNG() {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		if filepath.Ext(path) != ".png" {
			path += ".png"
		}
		mw.saveLastDir(path)
		opts := export.PNGOptions{Scale: 2}
		if err := export.PNG(path, mw.state.Elements(), mw.renderer, opts); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.updateStatus("Exported " + filepath.Base(path))
	}, mw.Window)
	fd.SetFileName(mw.state.Name() + ".png")
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".png"}))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onExportPDF() {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		if filepath.Ext(path) != ".pdf" {
			path += ".pdf"
		}
		mw.saveLastDir(path)
		if err := export.PDF(path, mw.state.Elements(), mw.renderer); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.updateStatus("Exported " + filepath.Base(path))
	}, mw.Window)
	fd.SetFileName(mw.state.Name() + ".pdf")
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".pdf"}))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onUndo() {
	if !mw.state.Undo() {
		mw.updateStatus("Nothing to undo")
	}
}

func (mw *MainWindow) onRedo() {
	if !mw.state.Redo() {
		mw.updateStatus("Nothing to redo")
	}
}

func (mw *MainWindow) onCut() {
	if err := mw.state.CopySelection(); err != nil {
		mw.updateStatus("Nothing to cut")
		return
	}
	n := mw.state.DeleteSelected()
	mw.updateStatus(fmt.Sprintf("Cut %d element(s)", n))
}

func (mw *MainWindow) onCopy() {
	n := mw.state.Selection().Len()
	if err := mw.state.CopySelection(); err != nil {
		mw.updateStatus("Nothing to copy")
		return
	}
	mw.updateStatus(fmt.Sprintf("Copied %d element(s)", n))
}

func (mw *MainWindow) onPaste() {
	if err := mw.state.PasteFromClipboard(); err != nil {
		mw.updateStatus("Clipboard has no board elements")
	}
}

func (mw *MainWindow) onDuplicate() {
	if ids := mw.state.DuplicateSelection(); len(ids) == 0 {
		mw.updateStatus("Nothing to duplicate")
	}
}

func (mw *MainWindow) onDelete() {
	n := mw.state.DeleteSelected()
	if n == 0 {
		mw.updateStatus("Nothing to delete")
		return
	}
	mw.updateStatus(fmt.Sprintf("Deleted %d element(s)", n))
}

func (mw *MainWindow) onSelectAll() {
	mw.state.SelectAll()
}

func (mw *MainWindow) onZoomIn() {
	mw.canvas.ZoomIn()
}

func (mw *MainWindow) onZoomOut() {
	mw.canvas.ZoomOut()
}

func (mw *MainWindow) onActualSize() {
	mw.canvas.ResetView()
}

func (mw *MainWindow) onFitContent() {
	mw.canvas.FitToContent()
}

func (mw *MainWindow) onToggleSnap() {
	mw.state.SetSnapToGuides(!mw.state.SnapToGuides())
	mw.updateSnapItem()
}

func (mw *MainWindow) onToggleAutosave() {
	enabled := !mw.prefs.Bool(prefs.KeyAutosaveEnabled, true)
	mw.prefs.SetBool(prefs.KeyAutosaveEnabled, enabled)
	mw.autosaveItem.Label = autosaveLabel(enabled)

	if mw.saver != nil {
		if enabled {
			mw.saver.Start()
			mw.updateStatus("Autosave on")
		} else {
			mw.saver.Stop()
			mw.updateStatus("Autosave off")
		}
	}
}

func (mw *MainWindow) onBoardProps() {
	d := dialogs.NewBoardPropsDialog(
		mw.state.Name(),
		mw.state.Background(),
		mw.state.SnapToGuides(),
		mw.Window,
		func(name, background string, snap bool) {
			if name != "" && name != mw.state.Name() {
				mw.state.SetName(name)
			}
			if background != mw.state.Background() {
				mw.state.SetBackground(background)
				mw.renderer.SetBackground(background)
			}
			if snap != mw.state.SnapToGuides() {
				mw.state.SetSnapToGuides(snap)
				mw.updateSnapItem()
			}
			mw.refreshTitle()
			mw.canvas.Refresh()
		},
	)
	d.Show()
}

func (mw *MainWindow) onSaveToLibrary() {
	if err := mw.state.SaveToLibrary(context.Background()); err != nil {
		dialog.ShowError(err, mw.Window)
	}
}

func (mw *MainWindow) onBrowseLibrary() {
	lib := mw.state.Library()
	if lib == nil {
		dialog.ShowInformation("Board Library", "No board library is open.", mw.Window)
		return
	}

	ctx := context.Background()
	infos, err := lib.List(ctx)
	if err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	if len(infos) == 0 {
		dialog.ShowInformation("Board Library", "The library is empty.", mw.Window)
		return
	}

	d := dialogs.NewLibraryDialog(infos, mw.Window,
		func(id string) {
			mw.confirmDiscard(func() {
				if err := mw.state.LoadFromLibrary(context.Background(), id); err != nil {
					dialog.ShowError(err, mw.Window)
				}
			})
		},
		func(id string) {
			if err := lib.Delete(context.Background(), id); err != nil {
				dialog.ShowError(err, mw.Window)
			}
		},
	)
	d.Show()
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About "+appTitle,
		fmt.Sprintf("%s v%s\n\n"+
			"A whiteboard for sketching, notes, and diagrams.\n\n"+
			"Built: %s\n"+
			"Commit: %s",
			appTitle, version.Version, version.BuildTime, version.GitCommit),
		mw.Window)
}
