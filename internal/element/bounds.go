package element

import (
	"math"

	"whiteboard-studio/pkg/geometry"
)

// MinBoundsSize is the minimum width/height any derived bounds may report.
const MinBoundsSize = 1.0

// SanitizeBounds forces the rectangle to finite values with width and
// height at least min. Non-finite positions collapse to zero, non-finite
// or undersized dimensions to min. Malformed input is repaired, never
// rejected.
func SanitizeBounds(r geometry.Rect, min float64) geometry.Rect {
	if math.IsNaN(r.X) || math.IsInf(r.X, 0) {
		r.X = 0
	}
	if math.IsNaN(r.Y) || math.IsInf(r.Y, 0) {
		r.Y = 0
	}
	if math.IsNaN(r.Width) || math.IsInf(r.Width, 0) || r.Width < min {
		r.Width = min
	}
	if math.IsNaN(r.Height) || math.IsInf(r.Height, 0) || r.Height < min {
		r.Height = min
	}
	return r
}

// Bounds derives an element's world-space bounds. Precedence: explicit
// size, then the measured-bounds cache (size only; position always comes
// from the element so a stale cache entry cannot displace a moved
// element), then a type-specific default. The result is always sanitized.
func Bounds(e *Element, measured map[string]geometry.Rect) geometry.Rect {
	r := geometry.Rect{X: e.X, Y: e.Y}

	if e.Width > 0 && e.Height > 0 {
		r.Width = e.Width
		r.Height = e.Height
	} else if s := measuredSize(e.ID, measured); s.Positive() {
		r.Width = s.Width
		r.Height = s.Height
	} else {
		r = defaultBounds(e)
	}

	return SanitizeBounds(r, MinBoundsSize)
}

func measuredSize(id string, measured map[string]geometry.Rect) geometry.Size {
	if measured == nil {
		return geometry.Size{}
	}
	m, ok := measured[id]
	if !ok || m.Width <= 0 || m.Height <= 0 {
		return geometry.Size{}
	}
	return geometry.Size{Width: m.Width, Height: m.Height}
}

func defaultBounds(e *Element) geometry.Rect {
	switch e.Type {
	case TypeLine, TypePen:
		if len(e.Points) > 0 {
			box := geometry.BoundingBox(e.Points)
			return box.Translate(geometry.Point2D{X: e.X, Y: e.Y})
		}
		return geometry.Rect{X: e.X, Y: e.Y, Width: 120, Height: 1}
	case TypeText:
		return geometry.Rect{X: e.X, Y: e.Y, Width: 160, Height: 40}
	case TypeSticky:
		return geometry.Rect{X: e.X, Y: e.Y, Width: 200, Height: 200}
	default:
		return geometry.Rect{X: e.X, Y: e.Y, Width: 160, Height: 100}
	}
}

// ApplyBounds writes a sanitized target rectangle back onto the element.
// Box elements take the size directly; line and pen elements scale their
// relative points so the stroke fills the new rectangle.
func ApplyBounds(e *Element, target, old geometry.Rect) {
	switch e.Type {
	case TypeLine, TypePen:
		sx, sy := 1.0, 1.0
		if old.Width > 0 {
			sx = target.Width / old.Width
		}
		if old.Height > 0 {
			sy = target.Height / old.Height
		}
		for i, p := range e.Points {
			e.Points[i] = geometry.Point2D{X: p.X * sx, Y: p.Y * sy}
		}
		e.X = target.X
		e.Y = target.Y
	default:
		e.X = target.X
		e.Y = target.Y
		e.Width = target.Width
		e.Height = target.Height
	}
}

// HitGeometry is a refined containment test used by the eraser: line and
// pen elements hit only within tolerance of their stroke, everything else
// within its bounds.
func HitGeometry(e *Element, p geometry.Point2D, tolerance float64, bounds geometry.Rect) bool {
	switch e.Type {
	case TypeLine, TypePen:
		origin := geometry.Point2D{X: e.X, Y: e.Y}
		return geometry.PolylineDistance(p.Sub(origin), e.Points) <= tolerance
	default:
		return bounds.Contains(p)
	}
}

// SweepGeometry is the rectangle analogue of HitGeometry: line and pen
// elements must actually pass through the rect, not merely have
// overlapping bounds.
func SweepGeometry(e *Element, r geometry.Rect, bounds geometry.Rect) bool {
	switch e.Type {
	case TypeLine, TypePen:
		local := r.Translate(geometry.Point2D{X: -e.X, Y: -e.Y})
		return geometry.PolylineIntersectsRect(e.Points, local)
	default:
		return bounds.Intersects(r)
	}
}
