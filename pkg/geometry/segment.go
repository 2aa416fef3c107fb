package geometry

import "math"

// SegmentDistance returns the shortest distance from point p to the line
// segment a-b. Degenerate segments (a == b) reduce to point distance.
func SegmentDistance(p, a, b Point2D) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	lenSq := dx*dx + dy*dy
	if lenSq < 1e-12 {
		return p.Distance(a)
	}

	// Project p onto the segment, clamping to the endpoints.
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	nearest := Point2D{X: a.X + t*dx, Y: a.Y + t*dy}
	return p.Distance(nearest)
}

// PolylineDistance returns the shortest distance from point p to any
// segment of the polyline. A single-point polyline reduces to point
// distance; an empty polyline returns +Inf.
func PolylineDistance(p Point2D, points []Point2D) float64 {
	switch len(points) {
	case 0:
		return math.Inf(1)
	case 1:
		return p.Distance(points[0])
	}

	best := math.Inf(1)
	for i := 0; i < len(points)-1; i++ {
		d := SegmentDistance(p, points[i], points[i+1])
		if d < best {
			best = d
		}
	}
	return best
}

// PolylineIntersectsRect returns true if any segment of the polyline
// passes through the rectangle. Endpoints inside the rectangle count.
func PolylineIntersectsRect(points []Point2D, r Rect) bool {
	if len(points) == 1 {
		return r.Contains(points[0])
	}
	for i := 0; i < len(points)-1; i++ {
		if segmentIntersectsRect(points[i], points[i+1], r) {
			return true
		}
	}
	return false
}

func segmentIntersectsRect(a, b Point2D, r Rect) bool {
	if r.Contains(a) || r.Contains(b) {
		return true
	}

	x2 := r.X + r.Width
	y2 := r.Y + r.Height
	edges := [4][2]Point2D{
		{{X: r.X, Y: r.Y}, {X: x2, Y: r.Y}},
		{{X: x2, Y: r.Y}, {X: x2, Y: y2}},
		{{X: x2, Y: y2}, {X: r.X, Y: y2}},
		{{X: r.X, Y: y2}, {X: r.X, Y: r.Y}},
	}
	for _, e := range edges {
		if segmentsCross(a, b, e[0], e[1]) {
			return true
		}
	}
	return false
}

// segmentsCross returns true if segments p1-p2 and p3-p4 intersect.
func segmentsCross(p1, p2, p3, p4 Point2D) bool {
	d1 := crossProduct(p3, p4, p1)
	d2 := crossProduct(p3, p4, p2)
	d3 := crossProduct(p1, p2, p3)
	d4 := crossProduct(p1, p2, p4)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}

	// Collinear touching cases.
	return (d1 == 0 && onSegment(p3, p4, p1)) ||
		(d2 == 0 && onSegment(p3, p4, p2)) ||
		(d3 == 0 && onSegment(p1, p2, p3)) ||
		(d4 == 0 && onSegment(p1, p2, p4))
}

func onSegment(a, b, p Point2D) bool {
	return math.Min(a.X, b.X) <= p.X && p.X <= math.Max(a.X, b.X) &&
		math.Min(a.Y, b.Y) <= p.Y && p.Y <= math.Max(a.Y, b.Y)
}

// crossProduct computes the cross product of vectors OA and OB.
func crossProduct(o, a, b Point2D) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}
