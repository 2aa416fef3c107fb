// Package selection implements marquee selection, hit-testing, and the
// selection-set algebra that modifier keys drive.
package selection

import (
	"whiteboard-studio/pkg/geometry"
)

// Modifier is the modifier key held when a gesture begins. It is captured
// once at gesture start; keys may change mid-drag without affecting the
// outcome.
type Modifier int

const (
	ModifierNone Modifier = iota
	ModifierShift
	ModifierCtrl // Ctrl on most platforms, Cmd on macOS
)

// ModifierFromKeys folds raw key state into one modifier. Shift wins when
// both are held.
func ModifierFromKeys(shift, ctrl bool) Modifier {
	switch {
	case shift:
		return ModifierShift
	case ctrl:
		return ModifierCtrl
	default:
		return ModifierNone
	}
}

// Marquee is the drag-drawn selection rectangle's state machine:
// idle -> drawing -> idle. A second touch point or a pointer-leave
// cancels it; pinch gestures must never leave a half-drawn marquee.
type Marquee struct {
	active   bool
	start    geometry.Point2D
	end      geometry.Point2D
	modifier Modifier
}

// Begin starts drawing at a world point, capturing the modifier held now.
func (m *Marquee) Begin(p geometry.Point2D, mod Modifier) {
	m.active = true
	m.start = p
	m.end = p
	m.modifier = mod
}

// Update tracks the opposite corner while drawing. Ignored when idle.
func (m *Marquee) Update(p geometry.Point2D) {
	if !m.active {
		return
	}
	m.end = p
}

// Cancel resets to idle without reporting a rectangle.
func (m *Marquee) Cancel() {
	*m = Marquee{}
}

// Active reports whether a marquee is being drawn.
func (m *Marquee) Active() bool {
	return m.active
}

// Modifier returns the modifier captured at Begin.
func (m *Marquee) Modifier() Modifier {
	return m.modifier
}

// Rect returns the current rectangle. A start/end pair that collapses to
// zero area is no rectangle at all, not a degenerate one.
func (m *Marquee) Rect() (geometry.Rect, bool) {
	if !m.active {
		return geometry.Rect{}, false
	}
	r := geometry.RectFromPoints(m.start, m.end)
	if r.Width == 0 || r.Height == 0 {
		return geometry.Rect{}, false
	}
	return r, true
}

// Finish ends the marquee, returning the final rectangle (if any) and the
// modifier captured at start.
func (m *Marquee) Finish() (geometry.Rect, Modifier, bool) {
	r, ok := m.Rect()
	mod := m.modifier
	*m = Marquee{}
	return r, mod, ok
}
