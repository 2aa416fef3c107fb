package interaction

import (
	"math"

	"whiteboard-studio/internal/element"
	"whiteboard-studio/internal/history"
	"whiteboard-studio/internal/selection"
	"whiteboard-studio/internal/viewport"
	"whiteboard-studio/pkg/geometry"
)

// moveEpsilon is the world-unit jitter threshold: a press counts as a
// click, not a drag, until the pointer travels further than this on
// either axis.
const moveEpsilon = 0.1

// HandlePickRadius is the screen-pixel reach of a resize handle. It is
// divided by the zoom at pick time so handles feel the same at any scale.
const HandlePickRadius = 8.0

// snapScreenTolerance is the screen-pixel distance at which alignment
// snapping engages during a move.
const snapScreenTolerance = 6.0

// PointerEvent is one normalized pointer sample from the host surface.
type PointerEvent struct {
	Client   geometry.Point2D
	Modifier selection.Modifier
	Primary  bool // primary button or single touch still down
	Touches  int  // simultaneous touch points, 0 for mouse
}

type gestureKind int

const (
	gestureNone gestureKind = iota
	gestureMove
	gestureResize
	gestureMarquee
)

// dragState tracks a move gesture. Deltas are measured against the
// anchor captured at pointer-down, never accumulated frame to frame.
type dragState struct {
	startWorld     geometry.Point2D
	startPositions map[string]geometry.Point2D
	clickElementID string // deferred narrowing target, resolved at pointer-up
	hasMoved       bool
}

// resizeState tracks a handle drag. The original element snapshot lets
// every frame re-derive geometry from the start bounds, so stroke points
// never compound scaling error.
type resizeState struct {
	elementID   string
	handle      Handle
	original    *element.Element
	startWorld  geometry.Point2D
	startBounds geometry.Rect
	hasResized  bool
}

// Controller turns pointer events into selection changes, marquee
// updates, moves, and resizes. It owns the gesture state machine; element
// data lives in the history store and the selection set it is given.
type Controller struct {
	hist   *history.Store
	sel    *selection.Set
	view   func() viewport.Viewport
	bounds selection.BoundsFunc

	marquee selection.Marquee
	gesture gestureKind
	drag    dragState
	resize  resizeState

	pending *PointerEvent // coalesced move, last event wins
	snap    bool
	guides  []Guide

	onSelectionChanged func()
	onElementsChanged  func()
	onGestureEnd       func()
}

// NewController wires a controller to its stores. view is called on every
// event so the controller always sees the live pan/zoom; bounds resolves
// element bounds including measured text sizes.
func NewController(hist *history.Store, sel *selection.Set, view func() viewport.Viewport, bounds selection.BoundsFunc) *Controller {
	return &Controller{
		hist:   hist,
		sel:    sel,
		view:   view,
		bounds: bounds,
	}
}

// SetOnSelectionChanged registers a callback fired after the selection set
// changes.
func (c *Controller) SetOnSelectionChanged(fn func()) {
	c.onSelectionChanged = fn
}

// SetOnElementsChanged registers a callback fired after a gesture frame
// writes element state.
func (c *Controller) SetOnElementsChanged(fn func()) {
	c.onElementsChanged = fn
}

// SetOnGestureEnd registers a callback fired when a gesture finishes or
// aborts.
func (c *Controller) SetOnGestureEnd(fn func()) {
	c.onGestureEnd = fn
}

// SetSnapEnabled toggles alignment-guide snapping for move gestures.
func (c *Controller) SetSnapEnabled(enabled bool) {
	c.snap = enabled
}

// GestureActive reports whether a gesture is in progress.
func (c *Controller) GestureActive() bool {
	return c.gesture != gestureNone
}

// MarqueeRect returns the marquee rectangle while one is being drawn.
func (c *Controller) MarqueeRect() (geometry.Rect, bool) {
	return c.marquee.Rect()
}

// Guides returns the alignment guides for the current move frame.
func (c *Controller) Guides() []Guide {
	return c.guides
}

// ActiveHandle returns the handle being dragged, if a resize is live.
func (c *Controller) ActiveHandle() (Handle, bool) {
	if c.gesture != gestureResize {
		return 0, false
	}
	return c.resize.handle, true
}

// HandleHit tests a client point against the selected element's resize
// handles. Handles exist only for a single-element selection.
func (c *Controller) HandleHit(client geometry.Point2D) (Handle, bool) {
	if c.sel.Len() != 1 {
		return 0, false
	}
	v := c.view()
	world, ok := v.ClientToWorld(client)
	if !ok {
		return 0, false
	}
	el, _ := element.FindByID(c.hist.Present(), c.sel.IDs()[0])
	if el == nil {
		return 0, false
	}
	return HandleAt(world, c.bounds(el), HandlePickRadius/v.Zoom)
}

// PointerDown starts a gesture: resize when a handle is hit, move when an
// element is hit, marquee on empty space. A second touch point cancels
// instead; pinch zoom must never fight a drag.
func (c *Controller) PointerDown(ev PointerEvent) {
	if ev.Touches > 1 {
		c.CancelGesture()
		return
	}
	if c.gesture != gestureNone {
		// Missed pointer-up; restart cleanly.
		c.CancelGesture()
	}

	world, ok := c.view().ClientToWorld(ev.Client)
	if !ok {
		return
	}

	if h, ok := c.HandleHit(ev.Client); ok {
		el, _ := element.FindByID(c.hist.Present(), c.sel.IDs()[0])
		c.gesture = gestureResize
		c.resize = resizeState{
			elementID:   el.ID,
			handle:      h,
			original:    el.Clone(),
			startWorld:  world,
			startBounds: c.bounds(el),
		}
		return
	}

	id := selection.ElementAtPoint(world, c.hist.Present(), c.bounds)
	if id == "" {
		if ev.Modifier == selection.ModifierNone && c.sel.Len() > 0 {
			c.sel.Clear()
			c.emitSelection()
		}
		c.gesture = gestureMarquee
		c.marquee.Begin(world, ev.Modifier)
		return
	}

	if ev.Modifier == selection.ModifierShift || ev.Modifier == selection.ModifierCtrl {
		// Toggles apply immediately, whatever the pointer does next.
		c.sel.Toggle(id)
		c.emitSelection()
		if c.sel.Contains(id) {
			c.beginMove(world)
		}
		return
	}

	if c.sel.Contains(id) {
		if c.sel.Len() > 1 {
			// Keep the group selected for now; narrow to this element at
			// pointer-up only if no drag happened.
			c.drag.clickElementID = id
		}
	} else {
		c.sel.Replace([]string{id})
		c.emitSelection()
	}
	c.beginMove(world)
}

func (c *Controller) beginMove(world geometry.Point2D) {
	c.gesture = gestureMove
	c.drag.startWorld = world
	c.drag.startPositions = make(map[string]geometry.Point2D)
	for _, e := range c.hist.Present() {
		if c.sel.Contains(e.ID) {
			c.drag.startPositions[e.ID] = geometry.Point2D{X: e.X, Y: e.Y}
		}
	}
}

// PointerMove queues a move sample. Only the last sample queued between
// flushes is applied; the host flushes once per frame.
func (c *Controller) PointerMove(ev PointerEvent) {
	c.pending = &ev
}

// FlushMoves applies the pending move sample, if any.
func (c *Controller) FlushMoves() {
	ev := c.pending
	c.pending = nil
	if ev == nil || c.gesture == gestureNone {
		return
	}
	if ev.Touches > 1 {
		c.CancelGesture()
		return
	}

	world, ok := c.view().ClientToWorld(ev.Client)
	if !ok {
		return
	}

	switch c.gesture {
	case gestureMarquee:
		c.marquee.Update(world)
	case gestureMove:
		c.stepMove(world)
	case gestureResize:
		c.stepResize(world, ev.Modifier)
	}
}

func (c *Controller) stepMove(world geometry.Point2D) {
	dx := world.X - c.drag.startWorld.X
	dy := world.Y - c.drag.startWorld.Y

	if !c.drag.hasMoved && math.Abs(dx) <= moveEpsilon && math.Abs(dy) <= moveEpsilon {
		return
	}
	if !c.drag.hasMoved {
		c.drag.hasMoved = true
		c.hist.SetElements(nil, history.Options{PushToPast: true})
	}

	if c.snap {
		res := c.snapMove(dx, dy)
		dx, dy = res.DX, res.DY
		c.guides = res.Guides
	} else {
		c.guides = nil
	}

	positions := c.drag.startPositions
	c.hist.SetElements(func(cur []*element.Element) []*element.Element {
		next := element.CloneAll(cur)
		for _, e := range next {
			if start, ok := positions[e.ID]; ok {
				e.X = start.X + dx
				e.Y = start.Y + dy
			}
		}
		return next
	}, history.Options{SkipHistory: true})
	c.emitElements()
}

// snapMove aligns the union box of the dragged elements, at their naive
// dragged position, against every element staying put.
func (c *Controller) snapMove(dx, dy float64) SnapResult {
	v := c.view()
	tolerance := snapScreenTolerance
	if v.Zoom > 0 {
		tolerance = snapScreenTolerance / v.Zoom
	}

	var moving geometry.Rect
	var others []geometry.Rect
	first := true
	for _, e := range c.hist.Present() {
		b := c.bounds(e)
		start, dragged := c.drag.startPositions[e.ID]
		if !dragged {
			others = append(others, b)
			continue
		}
		// Rebase mid-drag bounds onto the gesture-start anchor.
		atStart := b.Translate(geometry.Point2D{X: start.X - e.X, Y: start.Y - e.Y})
		if first {
			moving = atStart
			first = false
		} else {
			moving = moving.Union(atStart)
		}
	}
	if first {
		return SnapResult{DX: dx, DY: dy}
	}
	return SnapDelta(moving, others, dx, dy, tolerance)
}

func (c *Controller) stepResize(world geometry.Point2D, mod selection.Modifier) {
	dx := world.X - c.resize.startWorld.X
	dy := world.Y - c.resize.startWorld.Y

	target := Resize(c.resize.startBounds, c.resize.handle, dx, dy, mod)
	if !c.resize.hasResized {
		if target == element.SanitizeBounds(c.resize.startBounds, MinResizeSize) {
			return
		}
		c.resize.hasResized = true
		c.hist.SetElements(nil, history.Options{PushToPast: true})
	}

	id := c.resize.elementID
	original := c.resize.original
	startBounds := c.resize.startBounds
	c.hist.SetElements(func(cur []*element.Element) []*element.Element {
		next := element.CloneAll(cur)
		if _, i := element.FindByID(next, id); i >= 0 {
			fresh := original.Clone()
			element.ApplyBounds(fresh, target, startBounds)
			next[i] = fresh
		}
		return next
	}, history.Options{SkipHistory: true})
	c.emitElements()
}

// PointerUp finishes the gesture: marquee hits fold into the selection
// under the modifier captured at marquee start, and a click that never
// crossed the movement threshold narrows a group selection to the element
// under the pointer.
func (c *Controller) PointerUp(ev PointerEvent) {
	c.FlushMoves()

	switch c.gesture {
	case gestureMarquee:
		if r, mod, ok := c.marquee.Finish(); ok {
			hits := selection.ElementsInRect(r, c.hist.Present(), c.bounds)
			c.sel.Apply(hits, mod)
			c.emitSelection()
		}
	case gestureMove:
		if !c.drag.hasMoved && c.drag.clickElementID != "" {
			c.sel.Replace([]string{c.drag.clickElementID})
			c.emitSelection()
		}
	}
	c.endGesture()
}

// PointerLeave aborts the gesture when the pointer leaves the surface
// with no button held. With the button still down the gesture survives;
// the pointer may re-enter.
func (c *Controller) PointerLeave(ev PointerEvent) {
	if ev.Primary {
		return
	}
	if c.gesture != gestureNone {
		c.CancelGesture()
	}
}

// CancelGesture aborts whatever gesture is live. Frames already written
// to present stay; the pre-gesture snapshot stays undoable.
func (c *Controller) CancelGesture() {
	c.marquee.Cancel()
	c.endGesture()
}

func (c *Controller) endGesture() {
	fireEnd := c.gesture != gestureNone
	c.gesture = gestureNone
	c.drag = dragState{}
	c.resize = resizeState{}
	c.guides = nil
	c.pending = nil
	if fireEnd && c.onGestureEnd != nil {
		c.onGestureEnd()
	}
}

func (c *Controller) emitSelection() {
	if c.onSelectionChanged != nil {
		c.onSelectionChanged()
	}
}

func (c *Controller) emitElements() {
	if c.onElementsChanged != nil {
		c.onElementsChanged()
	}
}
