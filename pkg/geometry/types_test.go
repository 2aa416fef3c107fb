package geometry

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

const tol = 1e-9

func TestRectFromPoints(t *testing.T) {
	tests := []struct {
		name string
		a, b Point2D
		want Rect
	}{
		{"top-left to bottom-right", Point2D{X: 10, Y: 20}, Point2D{X: 40, Y: 60}, Rect{X: 10, Y: 20, Width: 30, Height: 40}},
		{"bottom-right to top-left", Point2D{X: 40, Y: 60}, Point2D{X: 10, Y: 20}, Rect{X: 10, Y: 20, Width: 30, Height: 40}},
		{"crossed corners", Point2D{X: 40, Y: 20}, Point2D{X: 10, Y: 60}, Rect{X: 10, Y: 20, Width: 30, Height: 40}},
		{"same point", Point2D{X: 5, Y: 5}, Point2D{X: 5, Y: 5}, Rect{X: 5, Y: 5, Width: 0, Height: 0}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := RectFromPoints(tc.a, tc.b)
			if got != tc.want {
				t.Errorf("RectFromPoints(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestRectIntersects(t *testing.T) {
	base := Rect{X: 0, Y: 0, Width: 100, Height: 50}

	tests := []struct {
		name  string
		other Rect
		want  bool
	}{
		{"overlapping", Rect{X: 50, Y: 25, Width: 100, Height: 50}, true},
		{"contained", Rect{X: 10, Y: 10, Width: 20, Height: 20}, true},
		{"disjoint", Rect{X: 200, Y: 0, Width: 50, Height: 50}, false},
		{"touching edge", Rect{X: 100, Y: 0, Width: 50, Height: 50}, false},
		{"partial overlap corners", Rect{X: 90, Y: 40, Width: 50, Height: 50}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := base.Intersects(tc.other); got != tc.want {
				t.Errorf("Intersects(%v) = %v, want %v", tc.other, got, tc.want)
			}
			// Overlap is symmetric.
			if got := tc.other.Intersects(base); got != tc.want {
				t.Errorf("reversed Intersects(%v) = %v, want %v", base, got, tc.want)
			}
		})
	}
}

func TestRectUnion(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	b := Rect{X: 20, Y: 30, Width: 10, Height: 10}

	got := a.Union(b)
	want := Rect{X: 0, Y: 0, Width: 30, Height: 40}
	if got != want {
		t.Errorf("Union = %v, want %v", got, want)
	}
}

func TestRectFinite(t *testing.T) {
	if !(Rect{X: 1, Y: 2, Width: 3, Height: 4}).Finite() {
		t.Error("finite rect reported as non-finite")
	}
	if (Rect{X: math.NaN(), Y: 0, Width: 1, Height: 1}).Finite() {
		t.Error("NaN X reported as finite")
	}
	if (Rect{X: 0, Y: 0, Width: math.Inf(1), Height: 1}).Finite() {
		t.Error("Inf width reported as finite")
	}
}

func TestBoundingBox(t *testing.T) {
	points := []Point2D{{X: 5, Y: 10}, {X: -3, Y: 4}, {X: 7, Y: -2}}

	got := BoundingBox(points)
	want := Rect{X: -3, Y: -2, Width: 10, Height: 12}
	if got != want {
		t.Errorf("BoundingBox = %v, want %v", got, want)
	}

	if got := BoundingBox(nil); got != (Rect{}) {
		t.Errorf("BoundingBox(nil) = %v, want zero rect", got)
	}
}

func TestAffineComposeInverse(t *testing.T) {
	// world -> viewBox: scale by zoom, then translate by pan.
	tr := Translation(40, -20).Compose(Scale(2.5, 2.5))

	p := Point2D{X: 12, Y: -7}
	mapped := tr.Apply(p)

	wantX := 12*2.5 + 40
	wantY := -7*2.5 - 20
	if !scalar.EqualWithinAbs(mapped.X, wantX, tol) || !scalar.EqualWithinAbs(mapped.Y, wantY, tol) {
		t.Fatalf("Apply = %v, want (%v, %v)", mapped, wantX, wantY)
	}

	inv, ok := tr.Inverse()
	if !ok {
		t.Fatal("Inverse reported singular for an invertible transform")
	}
	back := inv.Apply(mapped)
	if !scalar.EqualWithinAbs(back.X, p.X, tol) || !scalar.EqualWithinAbs(back.Y, p.Y, tol) {
		t.Errorf("round trip = %v, want %v", back, p)
	}
}

func TestAffineInverseSingular(t *testing.T) {
	if _, ok := Scale(0, 1).Inverse(); ok {
		t.Error("Inverse succeeded on a singular transform")
	}
}

func TestSegmentDistance(t *testing.T) {
	tests := []struct {
		name string
		p    Point2D
		a, b Point2D
		want float64
	}{
		{"perpendicular to middle", Point2D{X: 5, Y: 3}, Point2D{X: 0, Y: 0}, Point2D{X: 10, Y: 0}, 3},
		{"beyond end clamps to endpoint", Point2D{X: 14, Y: 3}, Point2D{X: 0, Y: 0}, Point2D{X: 10, Y: 0}, 5},
		{"degenerate segment", Point2D{X: 3, Y: 4}, Point2D{X: 0, Y: 0}, Point2D{X: 0, Y: 0}, 5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := SegmentDistance(tc.p, tc.a, tc.b)
			if !scalar.EqualWithinAbs(got, tc.want, tol) {
				t.Errorf("SegmentDistance = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestPolylineDistance(t *testing.T) {
	line := []Point2D{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}}

	got := PolylineDistance(Point2D{X: 12, Y: 5}, line)
	if !scalar.EqualWithinAbs(got, 2, tol) {
		t.Errorf("PolylineDistance = %v, want 2", got)
	}

	if d := PolylineDistance(Point2D{X: 1, Y: 1}, nil); !math.IsInf(d, 1) {
		t.Errorf("PolylineDistance(empty) = %v, want +Inf", d)
	}
}

func TestPolylineIntersectsRect(t *testing.T) {
	r := Rect{X: 0, Y: 0, Width: 10, Height: 10}

	tests := []struct {
		name   string
		points []Point2D
		want   bool
	}{
		{"crosses through", []Point2D{{X: -5, Y: 5}, {X: 15, Y: 5}}, true},
		{"endpoint inside", []Point2D{{X: 5, Y: 5}, {X: 20, Y: 20}}, true},
		{"misses entirely", []Point2D{{X: -5, Y: 20}, {X: 15, Y: 20}}, false},
		{"single point inside", []Point2D{{X: 3, Y: 3}}, true},
		{"single point outside", []Point2D{{X: 30, Y: 3}}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := PolylineIntersectsRect(tc.points, r); got != tc.want {
				t.Errorf("PolylineIntersectsRect = %v, want %v", got, tc.want)
			}
		})
	}
}
