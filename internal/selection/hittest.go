package selection

import (
	"whiteboard-studio/internal/element"
	"whiteboard-studio/pkg/geometry"
)

// BoundsFunc resolves an element's current world bounds. The interaction
// layer supplies a closure over the measured-bounds cache.
type BoundsFunc func(*element.Element) geometry.Rect

// ElementAtPoint scans in reverse paint order (topmost first) and returns
// the ID of the first element whose bounds contain the point, or "" when
// nothing is hit.
func ElementAtPoint(p geometry.Point2D, els []*element.Element, bounds BoundsFunc) string {
	for i := len(els) - 1; i >= 0; i-- {
		if bounds(els[i]).Contains(p) {
			return els[i].ID
		}
	}
	return ""
}

// ElementsInRect returns the IDs of all elements whose bounds overlap the
// rectangle (containment is not required), in paint order.
func ElementsInRect(r geometry.Rect, els []*element.Element, bounds BoundsFunc) []string {
	var ids []string
	for _, e := range els {
		if bounds(e).Intersects(r) {
			ids = append(ids, e.ID)
		}
	}
	return ids
}
