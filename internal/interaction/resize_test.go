package interaction

import (
	"testing"

	"gonum.org/v1/gonum/floats/scalar"

	"whiteboard-studio/internal/selection"
	"whiteboard-studio/pkg/geometry"
)

const tol = 1e-9

func rectEq(t *testing.T, got, want geometry.Rect) {
	t.Helper()
	if !scalar.EqualWithinAbs(got.X, want.X, tol) ||
		!scalar.EqualWithinAbs(got.Y, want.Y, tol) ||
		!scalar.EqualWithinAbs(got.Width, want.Width, tol) ||
		!scalar.EqualWithinAbs(got.Height, want.Height, tol) {
		t.Errorf("rect = %+v, want %+v", got, want)
	}
}

func TestResizeFree(t *testing.T) {
	start := geometry.NewRect(100, 200, 80, 60)

	cases := []struct {
		name   string
		handle Handle
		dx, dy float64
		want   geometry.Rect
	}{
		{"se grows both", HandleSE, 20, 10, geometry.NewRect(100, 200, 100, 70)},
		{"nw anchors se corner", HandleNW, 20, 10, geometry.NewRect(120, 210, 60, 50)},
		{"e only width", HandleE, 15, 999, geometry.NewRect(100, 200, 95, 60)},
		{"n only height", HandleN, 999, -15, geometry.NewRect(100, 185, 80, 75)},
		{"w moves x with width", HandleW, 30, 0, geometry.NewRect(130, 200, 50, 60)},
		{"s only height", HandleS, 0, 25, geometry.NewRect(100, 200, 80, 85)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rectEq(t, Resize(start, tc.handle, tc.dx, tc.dy, selection.ModifierNone), tc.want)
		})
	}
}

// Clamping the driven dimension happens before the derived position, so a
// wild drag past the anchor pins the box at minimum size against it.
func TestResizeClampsBeforePlacing(t *testing.T) {
	start := geometry.NewRect(100, 0, 50, 40)

	got := Resize(start, HandleW, 1000, 0, selection.ModifierNone)
	rectEq(t, got, geometry.NewRect(140, 0, MinResizeSize, 40))

	got = Resize(start, HandleN, 0, 1000, selection.ModifierNone)
	rectEq(t, got, geometry.NewRect(100, 30, 50, MinResizeSize))

	got = Resize(start, HandleSE, -1000, -1000, selection.ModifierNone)
	rectEq(t, got, geometry.NewRect(100, 0, MinResizeSize, MinResizeSize))
}

func TestResizeAspectCornerTakesLargerScale(t *testing.T) {
	start := geometry.NewRect(0, 0, 200, 100)

	got := Resize(start, HandleSE, 20, 20, selection.ModifierShift)
	rectEq(t, got, geometry.NewRect(0, 0, 240, 120))
	if r := got.Width / got.Height; !scalar.EqualWithinAbs(r, 2, tol) {
		t.Errorf("aspect ratio = %v, want 2", r)
	}

	// The vertical pull dominates even though the horizontal delta shrank.
	got = Resize(start, HandleSE, -10, 20, selection.ModifierShift)
	rectEq(t, got, geometry.NewRect(0, 0, 240, 120))

	// Opposite corner keeps the bottom-right anchored.
	got = Resize(start, HandleNW, -20, -20, selection.ModifierShift)
	rectEq(t, got, geometry.NewRect(-40, -20, 240, 120))
}

func TestResizeAspectEdgeRecenters(t *testing.T) {
	start := geometry.NewRect(0, 0, 200, 100)

	// East edge drives width; height follows and stays centered on y.
	got := Resize(start, HandleE, 20, 0, selection.ModifierShift)
	rectEq(t, got, geometry.NewRect(0, -5, 220, 110))

	// South edge drives height; width follows and stays centered on x.
	got = Resize(start, HandleS, 0, 30, selection.ModifierShift)
	rectEq(t, got, geometry.NewRect(-30, 0, 260, 130))
}

func TestResizeCenterAnchored(t *testing.T) {
	start := geometry.NewRect(0, 0, 100, 50)

	got := Resize(start, HandleE, 10, 0, selection.ModifierCtrl)
	rectEq(t, got, geometry.NewRect(-10, 0, 120, 50))
	if c := got.Center(); !scalar.EqualWithinAbs(c.X, 50, tol) || !scalar.EqualWithinAbs(c.Y, 25, tol) {
		t.Errorf("center moved to %+v", c)
	}

	got = Resize(start, HandleSE, 10, 5, selection.ModifierCtrl)
	rectEq(t, got, geometry.NewRect(-10, -5, 120, 60))

	// Shrinking past zero bottoms out at minimum size, center still fixed.
	got = Resize(start, HandleE, -200, 0, selection.ModifierCtrl)
	rectEq(t, got, geometry.NewRect(45, 0, MinResizeSize, 50))
}

func TestHandlePointsCoverBox(t *testing.T) {
	r := geometry.NewRect(10, 20, 100, 60)
	pts := HandlePoints(r)
	if len(pts) != 8 {
		t.Fatalf("got %d handles, want 8", len(pts))
	}
	if p := pts[HandleSE]; p.X != 110 || p.Y != 80 {
		t.Errorf("se = %+v", p)
	}
	if p := pts[HandleN]; p.X != 60 || p.Y != 20 {
		t.Errorf("n = %+v", p)
	}
	if p := pts[HandleW]; p.X != 10 || p.Y != 50 {
		t.Errorf("w = %+v", p)
	}
}

func TestHandleAt(t *testing.T) {
	r := geometry.NewRect(0, 0, 100, 60)

	if h, ok := HandleAt(geometry.Point2D{X: 102, Y: 58}, r, 4); !ok || h != HandleSE {
		t.Errorf("got %v/%v, want se hit", h, ok)
	}
	if h, ok := HandleAt(geometry.Point2D{X: 50, Y: 61}, r, 4); !ok || h != HandleS {
		t.Errorf("got %v/%v, want s hit", h, ok)
	}
	if _, ok := HandleAt(geometry.Point2D{X: 50, Y: 30}, r, 4); ok {
		t.Error("center of box should hit no handle")
	}
	if _, ok := HandleAt(geometry.Point2D{X: 110, Y: 60}, r, 4); ok {
		t.Error("point beyond tolerance should miss")
	}
}

func TestHandleStrings(t *testing.T) {
	want := map[Handle]string{
		HandleNW: "nw", HandleN: "n", HandleNE: "ne", HandleE: "e",
		HandleSE: "se", HandleS: "s", HandleSW: "sw", HandleW: "w",
	}
	for h, s := range want {
		if h.String() != s {
			t.Errorf("%d.String() = %q, want %q", h, h.String(), s)
		}
	}
}
