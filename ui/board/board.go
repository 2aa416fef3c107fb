// Package board provides the whiteboard canvas widget with pan, zoom,
// and direct manipulation of elements.
package board

import (
	"image"
	"math"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"github.com/fogleman/gg"

	"whiteboard-studio/internal/app"
	"whiteboard-studio/internal/element"
	"whiteboard-studio/internal/interaction"
	"whiteboard-studio/internal/render"
	"whiteboard-studio/internal/selection"
	"whiteboard-studio/pkg/geometry"
)

const (
	minZoom  = 0.1
	maxZoom  = 10.0
	zoomStep = 1.25

	// Eraser brush radius in screen pixels.
	eraserRadius = 12.0

	// Minimum pen sample spacing in screen pixels.
	penStep = 1.0
)

// Tool represents the current interaction tool.
type Tool int

const (
	ToolSelect Tool = iota
	ToolPan
	ToolText
	ToolSticky
	ToolRect
	ToolEllipse
	ToolLine
	ToolPen
	ToolEraser
)

// toolElements maps the one-shot placement tools to the element type
// they drop on the canvas.
var toolElements = map[Tool]element.Type{
	ToolText:    element.TypeText,
	ToolSticky:  element.TypeSticky,
	ToolRect:    element.TypeRect,
	ToolEllipse: element.TypeEllipse,
	ToolLine:    element.TypeLine,
}

// BoardCanvas renders the board through a raster and routes pointer
// input to the interaction controller.
type BoardCanvas struct {
	widget.BaseWidget

	state    *app.State
	renderer *render.Renderer

	raster *fynecanvas.Raster

	tool Tool

	// Pan gesture state
	panning  bool
	panFrom  geometry.Point2D // viewBox point where the pan grabbed
	panStart geometry.Point2D // Pan value at grab

	// Pen stroke state
	penID     string
	penOrigin geometry.Point2D
	penLast   geometry.Point2D

	// Eraser stroke state
	erasing   bool
	eraseLast geometry.Point2D

	buttonDown bool

	// Callbacks
	onToolChanged func(Tool)
	onEditText    func(id string) // Double-tap on an element with content
}

var (
	_ desktop.Mouseable   = (*BoardCanvas)(nil)
	_ desktop.Hoverable   = (*BoardCanvas)(nil)
	_ fyne.Scrollable     = (*BoardCanvas)(nil)
	_ fyne.DoubleTappable = (*BoardCanvas)(nil)
)

// New creates a board canvas bound to the application state.
func New(state *app.State, renderer *render.Renderer) *BoardCanvas {
	bc := &BoardCanvas{
		state:    state,
		renderer: renderer,
		tool:     ToolSelect,
	}

	bc.raster = fynecanvas.NewRaster(bc.draw)
	bc.raster.ScaleMode = fynecanvas.ImageScalePixels
	bc.ExtendBaseWidget(bc)

	state.On(app.EventElementsChanged, func(interface{}) { bc.Refresh() })
	state.On(app.EventSelectionChanged, func(interface{}) { bc.Refresh() })
	state.On(app.EventBoardLoaded, func(interface{}) { bc.Refresh() })

	return bc
}

// SetTool switches the active tool, ending any gesture in flight.
func (bc *BoardCanvas) SetTool(tool Tool) {
	if bc.tool == tool {
		return
	}
	bc.tool = tool
	bc.state.Controller().CancelGesture()
	bc.finishStrokes()
	if bc.onToolChanged != nil {
		bc.onToolChanged(tool)
	}
	bc.Refresh()
}

// Tool returns the active tool.
func (bc *BoardCanvas) Tool() Tool {
	return bc.tool
}

// OnToolChanged sets a callback fired whenever the tool switches,
// including the automatic return to select after placing an element.
func (bc *BoardCanvas) OnToolChanged(callback func(Tool)) {
	bc.onToolChanged = callback
}

// OnEditText sets a callback fired when the user double-taps an element
// whose content should open in the text editor.
func (bc *BoardCanvas) OnEditText(callback func(id string)) {
	bc.onEditText = callback
}

// Zoom returns the current zoom level.
func (bc *BoardCanvas) Zoom() float64 {
	return bc.state.Viewport().Zoom
}

// ZoomIn zooms in around the view center.
func (bc *BoardCanvas) ZoomIn() {
	bc.zoomAtCenter(zoomStep)
}

// ZoomOut zooms out around the view center.
func (bc *BoardCanvas) ZoomOut() {
	bc.zoomAtCenter(1 / zoomStep)
}

// ResetView restores identity pan and zoom.
func (bc *BoardCanvas) ResetView() {
	v := bc.state.Viewport()
	v.Pan = geometry.Point2D{}
	v.Zoom = 1
	bc.state.SetViewport(v)
	bc.Refresh()
}

// FitToContent zooms so every element is visible, with a small margin.
func (bc *BoardCanvas) FitToContent() {
	els := bc.state.Elements()
	bounds, ok := render.ContentBounds(els, bc.renderer.MeasureBounds(els))
	if !ok || bounds.Width <= 0 || bounds.Height <= 0 {
		return
	}

	v := bc.state.Viewport()
	if !v.ViewBox.Positive() {
		return
	}

	zoom := math.Min(v.ViewBox.Width/bounds.Width, v.ViewBox.Height/bounds.Height)
	zoom = clampZoom(zoom * 0.95) // Leave a small margin

	center := bounds.Center()
	v.Zoom = zoom
	v.Pan = geometry.Point2D{
		X: v.ViewBox.Width/2 - center.X*zoom,
		Y: v.ViewBox.Height/2 - center.Y*zoom,
	}
	bc.state.SetViewport(v)
	bc.Refresh()
}

// Refresh redraws the canvas.
func (bc *BoardCanvas) Refresh() {
	bc.raster.Refresh()
}

// MouseDown starts a gesture for the active tool. Secondary-button drags
// always pan, whatever the tool.
func (bc *BoardCanvas) MouseDown(ev *desktop.MouseEvent) {
	bc.buttonDown = true

	if ev.Button == desktop.MouseButtonSecondary {
		bc.startPan(ev.Position)
		return
	}

	switch bc.tool {
	case ToolSelect:
		bc.state.Controller().PointerDown(bc.pointerEvent(ev, true))
		bc.Refresh()
	case ToolPan:
		bc.startPan(ev.Position)
	case ToolPen:
		bc.startPen(ev.Position)
	case ToolEraser:
		bc.startErase(ev.Position)
	default:
		bc.placeElement(ev.Position)
	}
}

// MouseUp ends the gesture in flight.
func (bc *BoardCanvas) MouseUp(ev *desktop.MouseEvent) {
	bc.buttonDown = false

	switch {
	case bc.panning:
		bc.panning = false
	case bc.penID != "":
		bc.endPen()
	case bc.erasing:
		bc.state.EndErase()
		bc.erasing = false
	default:
		if bc.tool == ToolSelect {
			bc.state.Controller().PointerUp(bc.pointerEvent(ev, false))
			bc.Refresh()
		}
	}
}

// MouseIn implements desktop.Hoverable.
func (bc *BoardCanvas) MouseIn(ev *desktop.MouseEvent) {}

// MouseMoved feeds the gesture in flight. Select-tool moves are queued
// on the controller and applied once per frame.
func (bc *BoardCanvas) MouseMoved(ev *desktop.MouseEvent) {
	switch {
	case bc.panning:
		bc.movePan(ev.Position)
	case bc.penID != "":
		bc.movePen(ev.Position)
	case bc.erasing:
		bc.moveErase(ev.Position)
	default:
		if bc.tool == ToolSelect && bc.buttonDown {
			bc.state.Controller().PointerMove(bc.pointerEvent(ev, true))
			bc.Refresh()
		}
	}
}

// MouseOut aborts the gesture when the pointer leaves with no button
// held; an active drag survives until it ends or the pointer returns.
func (bc *BoardCanvas) MouseOut() {
	if bc.buttonDown {
		bc.state.Controller().PointerLeave(interaction.PointerEvent{Primary: true})
		return
	}
	bc.state.Controller().PointerLeave(interaction.PointerEvent{})
	bc.finishStrokes()
	bc.Refresh()
}

// Scrolled zooms at the cursor; the world point under it stays put.
func (bc *BoardCanvas) Scrolled(ev *fyne.ScrollEvent) {
	if ev.Scrolled.DY == 0 {
		return
	}
	factor := zoomStep
	if ev.Scrolled.DY < 0 {
		factor = 1 / zoomStep
	}
	bc.zoomAt(factor, ev.Position)
}

// DoubleTapped opens the text editor for the element under the cursor.
func (bc *BoardCanvas) DoubleTapped(ev *fyne.PointEvent) {
	if bc.onEditText == nil || bc.tool != ToolSelect {
		return
	}
	world, ok := bc.worldAt(ev.Position)
	if !ok {
		return
	}
	id := selection.ElementAtPoint(world, bc.state.Elements(), bc.state.ElementBounds)
	if id == "" {
		return
	}
	e, _ := element.FindByID(bc.state.Elements(), id)
	if e == nil || e.Type == element.TypeLine || e.Type == element.TypePen {
		return
	}
	bc.onEditText(id)
}

// pointerEvent translates a Fyne mouse event for the controller.
func (bc *BoardCanvas) pointerEvent(ev *desktop.MouseEvent, primary bool) interaction.PointerEvent {
	return interaction.PointerEvent{
		Client: geometry.Point2D{X: float64(ev.Position.X), Y: float64(ev.Position.Y)},
		Modifier: selection.ModifierFromKeys(
			ev.Modifier&fyne.KeyModifierShift != 0,
			ev.Modifier&fyne.KeyModifierControl != 0,
		),
		Primary: primary,
		Touches: 1,
	}
}

// worldAt converts a widget position to world coordinates.
func (bc *BoardCanvas) worldAt(pos fyne.Position) (geometry.Point2D, bool) {
	v := bc.state.Viewport()
	return v.ClientToWorld(geometry.Point2D{X: float64(pos.X), Y: float64(pos.Y)})
}

// placeElement drops a new element of the tool's type centered under
// the cursor, then returns to the select tool.
func (bc *BoardCanvas) placeElement(pos fyne.Position) {
	t, ok := toolElements[bc.tool]
	if !ok {
		return
	}
	world, ok := bc.worldAt(pos)
	if !ok {
		return
	}

	el := element.New(t, world.X, world.Y)
	b := element.Bounds(el, nil)
	el.X -= b.Width / 2
	el.Y -= b.Height / 2
	bc.state.AddElement(el)

	bc.SetTool(ToolSelect)
	if (t == element.TypeText || t == element.TypeSticky) && bc.onEditText != nil {
		bc.onEditText(el.ID)
	}
}

func (bc *BoardCanvas) startPan(pos fyne.Position) {
	v := bc.state.Viewport()
	vb, ok := v.ClientToViewBox(geometry.Point2D{X: float64(pos.X), Y: float64(pos.Y)})
	if !ok {
		return
	}
	bc.panning = true
	bc.panFrom = vb
	bc.panStart = v.Pan
}

func (bc *BoardCanvas) movePan(pos fyne.Position) {
	v := bc.state.Viewport()
	vb, ok := v.ClientToViewBox(geometry.Point2D{X: float64(pos.X), Y: float64(pos.Y)})
	if !ok {
		return
	}
	v.Pan = bc.panStart.Add(vb.Sub(bc.panFrom))
	bc.state.SetViewport(v)
	bc.Refresh()
}

func (bc *BoardCanvas) startPen(pos fyne.Position) {
	world, ok := bc.worldAt(pos)
	if !ok {
		return
	}
	el := element.New(element.TypePen, world.X, world.Y)
	el.Points = []geometry.Point2D{{X: 0, Y: 0}}
	bc.state.AddElement(el)

	bc.penID = el.ID
	bc.penOrigin = world
	bc.penLast = world
}

func (bc *BoardCanvas) movePen(pos fyne.Position) {
	world, ok := bc.worldAt(pos)
	if !ok {
		return
	}
	v := bc.state.Viewport()
	if world.Distance(bc.penLast) < penStep/v.Zoom {
		return
	}
	bc.penLast = world

	rel := world.Sub(bc.penOrigin)
	bc.state.UpdateElementLive(bc.penID, func(e *element.Element) {
		e.Points = append(e.Points, rel)
	})
}

func (bc *BoardCanvas) startErase(pos fyne.Position) {
	world, ok := bc.worldAt(pos)
	if !ok {
		return
	}
	bc.state.BeginErase()
	bc.state.EraseAt(world, eraserRadius/bc.state.Viewport().Zoom)
	bc.erasing = true
	bc.eraseLast = world
}

func (bc *BoardCanvas) moveErase(pos fyne.Position) {
	world, ok := bc.worldAt(pos)
	if !ok {
		return
	}
	radius := eraserRadius / bc.state.Viewport().Zoom

	// Sweep the region between samples so fast strokes cannot jump
	// over thin elements.
	sweep := geometry.RectFromPoints(bc.eraseLast, world)
	sweep = geometry.NewRect(sweep.X-radius, sweep.Y-radius, sweep.Width+2*radius, sweep.Height+2*radius)
	bc.state.EraseSweep(sweep)
	bc.eraseLast = world
}

// endPen closes the pen stroke. A click that never moved still leaves a
// visible dot rather than an empty stroke.
func (bc *BoardCanvas) endPen() {
	id := bc.penID
	bc.penID = ""
	el, _ := element.FindByID(bc.state.Elements(), id)
	if el != nil && len(el.Points) < 2 {
		bc.state.UpdateElementLive(id, func(e *element.Element) {
			e.Points = append(e.Points, geometry.Point2D{X: 0.01, Y: 0})
		})
	}
}

// finishStrokes ends any canvas-local gesture (pan, pen, eraser).
func (bc *BoardCanvas) finishStrokes() {
	bc.panning = false
	if bc.penID != "" {
		bc.endPen()
	}
	if bc.erasing {
		bc.state.EndErase()
		bc.erasing = false
	}
}

func (bc *BoardCanvas) zoomAtCenter(factor float64) {
	v := bc.state.Viewport()
	bc.zoomWithPivot(factor, geometry.Point2D{X: v.ViewBox.Width / 2, Y: v.ViewBox.Height / 2})
}

func (bc *BoardCanvas) zoomAt(factor float64, pos fyne.Position) {
	v := bc.state.Viewport()
	pivot, ok := v.ClientToViewBox(geometry.Point2D{X: float64(pos.X), Y: float64(pos.Y)})
	if !ok {
		return
	}
	bc.zoomWithPivot(factor, pivot)
}

// zoomWithPivot applies a clamped zoom step keeping the world point
// under the viewBox pivot stationary.
func (bc *BoardCanvas) zoomWithPivot(factor float64, pivot geometry.Point2D) {
	v := bc.state.Viewport()
	target := clampZoom(v.Zoom * factor)
	if target == v.Zoom {
		return
	}
	bc.state.SetViewport(v.ZoomedAt(target/v.Zoom, pivot))
	bc.Refresh()
}

func clampZoom(z float64) float64 {
	if z < minZoom {
		return minZoom
	}
	if z > maxZoom {
		return maxZoom
	}
	return z
}

// syncViewport keeps the state's client rect and viewBox in step with
// the widget layout and raster resolution.
func (bc *BoardCanvas) syncViewport(w, h int) {
	size := bc.Size()
	v := bc.state.Viewport()
	client := geometry.NewRect(0, 0, float64(size.Width), float64(size.Height))
	viewBox := geometry.NewSize(float64(w), float64(h))
	if v.Client == client && v.ViewBox == viewBox {
		return
	}
	v.Client = client
	v.ViewBox = viewBox
	bc.state.SetViewport(v)
}

// draw is the raster drawing function. Coalesced pointer moves are
// applied here, so element positions change at most once per frame.
func (bc *BoardCanvas) draw(w, h int) image.Image {
	if w <= 0 || h <= 0 {
		return image.NewRGBA(image.Rect(0, 0, 1, 1))
	}

	bc.syncViewport(w, h)
	bc.state.Controller().FlushMoves()

	els := bc.state.Elements()
	measured := bc.renderer.MeasureBounds(els)
	bc.state.SetMeasuredBounds(measured)

	v := bc.state.Viewport()
	dc := gg.NewContext(w, h)
	bc.renderer.DrawView(dc, v, els, measured)
	bc.drawOverlays(dc, v, measured)
	return dc.Image()
}

// CreateRenderer implements fyne.Widget.
func (bc *BoardCanvas) CreateRenderer() fyne.WidgetRenderer {
	return &boardCanvasRenderer{canvas: bc}
}

type boardCanvasRenderer struct {
	canvas *BoardCanvas
}

func (r *boardCanvasRenderer) Layout(size fyne.Size) {
	r.canvas.raster.Resize(size)
}

func (r *boardCanvasRenderer) MinSize() fyne.Size {
	return fyne.NewSize(100, 100)
}

func (r *boardCanvasRenderer) Refresh() {
	r.canvas.raster.Refresh()
}

func (r *boardCanvasRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.canvas.raster}
}

func (r *boardCanvasRenderer) Destroy() {}
