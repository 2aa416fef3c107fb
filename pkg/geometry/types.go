// Package geometry provides the value types the whiteboard works in:
// points, rectangles, sizes, and affine transforms, all in float64
// world coordinates.
package geometry

import "math"

// Point2D is a 2D point, also used as a vector.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns the vector sum p+q.
func (p Point2D) Add(q Point2D) Point2D {
	return Point2D{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the vector difference p-q.
func (p Point2D) Sub(q Point2D) Point2D {
	return Point2D{X: p.X - q.X, Y: p.Y - q.Y}
}

// Distance returns the Euclidean distance between p and q.
func (p Point2D) Distance(q Point2D) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Finite reports whether both coordinates are finite numbers.
func (p Point2D) Finite() bool {
	return finite(p.X) && finite(p.Y)
}

// Size is a width and height pair.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NewSize returns a Size with the given dimensions.
func NewSize(width, height float64) Size {
	return Size{Width: width, Height: height}
}

// Positive reports whether both dimensions are greater than zero.
func (s Size) Positive() bool {
	return s.Width > 0 && s.Height > 0
}

// Rect is an axis-aligned rectangle. X, Y is the top-left corner.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NewRect returns the rectangle at x, y with the given dimensions.
func NewRect(x, y, width, height float64) Rect {
	return Rect{X: x, Y: y, Width: width, Height: height}
}

// RectFromPoints returns the normalized rectangle spanned by two corner
// points, regardless of which corner each point is.
func RectFromPoints(a, b Point2D) Rect {
	x := math.Min(a.X, b.X)
	y := math.Min(a.Y, b.Y)
	return Rect{X: x, Y: y, Width: math.Abs(a.X - b.X), Height: math.Abs(a.Y - b.Y)}
}

// Contains reports whether p lies inside r. Points on the edge count
// as inside.
func (r Rect) Contains(p Point2D) bool {
	return p.X >= r.X && p.X <= r.X+r.Width &&
		p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// Intersects reports whether r and s overlap. Touching edges do not
// count as overlap.
func (r Rect) Intersects(s Rect) bool {
	return r.X < s.X+s.Width && r.X+r.Width > s.X &&
		r.Y < s.Y+s.Height && r.Y+r.Height > s.Y
}

// Union returns the smallest rectangle containing both r and s.
func (r Rect) Union(s Rect) Rect {
	x1 := math.Min(r.X, s.X)
	y1 := math.Min(r.Y, s.Y)
	x2 := math.Max(r.X+r.Width, s.X+s.Width)
	y2 := math.Max(r.Y+r.Height, s.Y+s.Height)
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// Translate returns the rectangle moved by the given offset.
func (r Rect) Translate(d Point2D) Rect {
	return Rect{X: r.X + d.X, Y: r.Y + d.Y, Width: r.Width, Height: r.Height}
}

// Center returns the midpoint of r.
func (r Rect) Center() Point2D {
	return Point2D{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Size returns r's dimensions.
func (r Rect) Size() Size {
	return Size{Width: r.Width, Height: r.Height}
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Finite reports whether all four fields are finite numbers.
func (r Rect) Finite() bool {
	return finite(r.X) && finite(r.Y) && finite(r.Width) && finite(r.Height)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// BoundingBox returns the smallest rectangle containing every point in
// the slice. An empty slice yields the zero Rect.
func BoundingBox(points []Point2D) Rect {
	if len(points) == 0 {
		return Rect{}
	}
	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points[1:] {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	return NewRect(minX, minY, maxX-minX, maxY-minY)
}

// AffineTransform is a 2x3 affine matrix with rows [A B TX] and
// [C D TY], applied to column vectors.
type AffineTransform struct {
	A, B, TX float64
	C, D, TY float64
}

// Translation returns the transform that moves points by (tx, ty).
func Translation(tx, ty float64) AffineTransform {
	return AffineTransform{A: 1, D: 1, TX: tx, TY: ty}
}

// Scale returns the transform that scales points by sx, sy.
func Scale(sx, sy float64) AffineTransform {
	return AffineTransform{A: sx, D: sy}
}

// Apply maps p through the transform.
func (t AffineTransform) Apply(p Point2D) Point2D {
	return Point2D{
		X: t.A*p.X + t.B*p.Y + t.TX,
		Y: t.C*p.X + t.D*p.Y + t.TY,
	}
}

// Compose returns t*u, the transform that applies u first and then t.
func (t AffineTransform) Compose(u AffineTransform) AffineTransform {
	return AffineTransform{
		A:  t.A*u.A + t.B*u.C,
		B:  t.A*u.B + t.B*u.D,
		TX: t.A*u.TX + t.B*u.TY + t.TX,
		C:  t.C*u.A + t.D*u.C,
		D:  t.C*u.B + t.D*u.D,
		TY: t.C*u.TX + t.D*u.TY + t.TY,
	}
}

// Inverse returns the transform mapping in the opposite direction. The
// second result is false when the matrix is singular.
func (t AffineTransform) Inverse() (AffineTransform, bool) {
	det := t.A*t.D - t.B*t.C
	if math.Abs(det) < 1e-10 {
		return AffineTransform{}, false
	}
	return AffineTransform{
		A:  t.D / det,
		B:  -t.B / det,
		TX: (t.B*t.TY - t.D*t.TX) / det,
		C:  -t.C / det,
		D:  t.A / det,
		TY: (t.C*t.TX - t.A*t.TY) / det,
	}, true
}
