// Package interaction drives pointer gestures: moving and resizing
// elements, marquee dispatch, per-frame move coalescing, and alignment
// guides. It owns no element state; all writes go through the history
// store's gesture-aware paths.
package interaction

import (
	"math"

	"whiteboard-studio/internal/element"
	"whiteboard-studio/internal/selection"
	"whiteboard-studio/pkg/geometry"
)

// Handle identifies one of the eight compass resize handles.
type Handle int

const (
	HandleNW Handle = iota
	HandleN
	HandleNE
	HandleE
	HandleSE
	HandleS
	HandleSW
	HandleW
)

var handleNames = [...]string{"nw", "n", "ne", "e", "se", "s", "sw", "w"}

func (h Handle) String() string {
	if h < 0 || int(h) >= len(handleNames) {
		return "?"
	}
	return handleNames[h]
}

// MinResizeSize is the smallest width or height a resize may produce.
const MinResizeSize = 10.0

func (h Handle) left() bool   { return h == HandleNW || h == HandleW || h == HandleSW }
func (h Handle) right() bool  { return h == HandleNE || h == HandleE || h == HandleSE }
func (h Handle) top() bool    { return h == HandleNW || h == HandleN || h == HandleNE }
func (h Handle) bottom() bool { return h == HandleSW || h == HandleS || h == HandleSE }

func (h Handle) corner() bool {
	return h == HandleNW || h == HandleNE || h == HandleSE || h == HandleSW
}

// Resize computes the new bounds for dragging a handle by (dx, dy) world
// units from the start bounds. Each handle keeps its opposite edge or
// corner anchored; dimensions are clamped to MinResizeSize before the
// derived position is computed, so clamping never moves the anchor.
// Shift preserves the start aspect ratio; Ctrl keeps the center fixed.
// Shift wins when both are held.
func Resize(start geometry.Rect, h Handle, dx, dy float64, mod selection.Modifier) geometry.Rect {
	var out geometry.Rect

	switch {
	case mod == selection.ModifierShift:
		out = resizeAspect(start, h, dx, dy)
	case mod == selection.ModifierCtrl:
		out = resizeCentered(start, h, dx, dy)
	default:
		out = resizeFree(start, h, dx, dy)
	}

	return element.SanitizeBounds(out, MinResizeSize)
}

// naiveSize returns the unclamped dimensions the pointer is asking for.
func naiveSize(start geometry.Rect, h Handle, dx, dy float64) (w, h2 float64) {
	w = start.Width
	h2 = start.Height
	if h.left() {
		w = start.Width - dx
	} else if h.right() {
		w = start.Width + dx
	}
	if h.top() {
		h2 = start.Height - dy
	} else if h.bottom() {
		h2 = start.Height + dy
	}
	return w, h2
}

// place positions a clamped size against the handle's fixed anchor.
func place(start geometry.Rect, h Handle, w, h2 float64) geometry.Rect {
	x := start.X
	if h.left() {
		x = start.X + start.Width - w
	}
	y := start.Y
	if h.top() {
		y = start.Y + start.Height - h2
	}
	return geometry.Rect{X: x, Y: y, Width: w, Height: h2}
}

func resizeFree(start geometry.Rect, h Handle, dx, dy float64) geometry.Rect {
	w, h2 := naiveSize(start, h, dx, dy)
	w = math.Max(w, MinResizeSize)
	h2 = math.Max(h2, MinResizeSize)
	return place(start, h, w, h2)
}

// resizeAspect preserves the start aspect ratio. Edge handles derive the
// cross-axis dimension from the dragged axis and re-center on it. Corner
// handles take the larger of the two naive scale factors, so the box may
// overshoot the pointer when the axes disagree; it never shrinks below it.
func resizeAspect(start geometry.Rect, h Handle, dx, dy float64) geometry.Rect {
	if start.Width <= 0 || start.Height <= 0 {
		return resizeFree(start, h, dx, dy)
	}
	ratio := start.Width / start.Height

	if h.corner() {
		nw, nh := naiveSize(start, h, dx, dy)
		scale := math.Max(nw/start.Width, nh/start.Height)
		w := math.Max(start.Width*scale, MinResizeSize)
		h2 := math.Max(start.Height*scale, MinResizeSize)
		return place(start, h, w, h2)
	}

	center := start.Center()
	switch h {
	case HandleE, HandleW:
		w, _ := naiveSize(start, h, dx, dy)
		w = math.Max(w, MinResizeSize)
		h2 := w / ratio
		r := place(start, h, w, start.Height)
		r.Height = h2
		r.Y = center.Y - h2/2
		return r
	default: // HandleN, HandleS
		_, h2 := naiveSize(start, h, dx, dy)
		h2 = math.Max(h2, MinResizeSize)
		w := h2 * ratio
		r := place(start, h, start.Width, h2)
		r.Width = w
		r.X = center.X - w/2
		return r
	}
}

// resizeCentered grows or shrinks symmetrically about the start center:
// the dragged edge moves by the delta and the opposite edge mirrors it.
func resizeCentered(start geometry.Rect, h Handle, dx, dy float64) geometry.Rect {
	w := start.Width
	h2 := start.Height
	if h.left() {
		w = start.Width - 2*dx
	} else if h.right() {
		w = start.Width + 2*dx
	}
	if h.top() {
		h2 = start.Height - 2*dy
	} else if h.bottom() {
		h2 = start.Height + 2*dy
	}
	w = math.Max(w, MinResizeSize)
	h2 = math.Max(h2, MinResizeSize)

	center := start.Center()
	return geometry.Rect{
		X:      center.X - w/2,
		Y:      center.Y - h2/2,
		Width:  w,
		Height: h2,
	}
}

// HandlePoints returns the world position of each handle on a bounds
// rectangle: four corners and four edge midpoints.
func HandlePoints(r geometry.Rect) map[Handle]geometry.Point2D {
	cx := r.X + r.Width/2
	cy := r.Y + r.Height/2
	right := r.X + r.Width
	bottom := r.Y + r.Height
	return map[Handle]geometry.Point2D{
		HandleNW: {X: r.X, Y: r.Y},
		HandleN:  {X: cx, Y: r.Y},
		HandleNE: {X: right, Y: r.Y},
		HandleE:  {X: right, Y: cy},
		HandleSE: {X: right, Y: bottom},
		HandleS:  {X: cx, Y: bottom},
		HandleSW: {X: r.X, Y: bottom},
		HandleW:  {X: r.X, Y: cy},
	}
}

// HandleAt returns the handle within tolerance of a world point, if any.
// Corners win over edges when both are in range.
func HandleAt(p geometry.Point2D, r geometry.Rect, tolerance float64) (Handle, bool) {
	points := HandlePoints(r)
	order := []Handle{
		HandleNW, HandleNE, HandleSE, HandleSW, // corners first
		HandleN, HandleE, HandleS, HandleW,
	}
	for _, h := range order {
		hp := points[h]
		if math.Abs(p.X-hp.X) <= tolerance && math.Abs(p.Y-hp.Y) <= tolerance {
			return h, true
		}
	}
	return 0, false
}
