package viewport

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"

	"whiteboard-studio/pkg/geometry"
)

const tol = 1e-9

func testViewport() Viewport {
	return Viewport{
		Pan:     geometry.Point2D{X: 130, Y: -42},
		Zoom:    1.75,
		ViewBox: geometry.Size{Width: 1600, Height: 1200},
		Client:  geometry.Rect{X: 220, Y: 64, Width: 800, Height: 600},
	}
}

func TestClientWorldRoundTrip(t *testing.T) {
	v := testViewport()

	points := []geometry.Point2D{
		{X: 220, Y: 64},    // surface origin
		{X: 620, Y: 364},   // center
		{X: 1019, Y: 663},  // far corner
		{X: 300.5, Y: 99.25},
	}

	for _, p := range points {
		world, ok := v.ClientToWorld(p)
		if !ok {
			t.Fatalf("ClientToWorld(%v) returned no result", p)
		}
		back, ok := v.WorldToClient(world)
		if !ok {
			t.Fatalf("WorldToClient(%v) returned no result", world)
		}
		if !scalar.EqualWithinAbs(back.X, p.X, tol) || !scalar.EqualWithinAbs(back.Y, p.Y, tol) {
			t.Errorf("round trip %v -> %v -> %v", p, world, back)
		}
	}
}

func TestViewBoxWorldInverse(t *testing.T) {
	v := testViewport()

	p := geometry.Point2D{X: 512, Y: 384}
	if got := v.WorldToViewBox(v.ViewBoxToWorld(p)); !scalar.EqualWithinAbs(got.X, p.X, tol) || !scalar.EqualWithinAbs(got.Y, p.Y, tol) {
		t.Errorf("viewBox round trip = %v, want %v", got, p)
	}
}

func TestClientToViewBoxRejectsDegenerate(t *testing.T) {
	tests := []struct {
		name string
		mut  func(*Viewport)
	}{
		{"zero client width", func(v *Viewport) { v.Client.Width = 0 }},
		{"negative client height", func(v *Viewport) { v.Client.Height = -10 }},
		{"zero viewBox width", func(v *Viewport) { v.ViewBox.Width = 0 }},
		{"zero viewBox height", func(v *Viewport) { v.ViewBox.Height = 0 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := testViewport()
			tc.mut(&v)
			if _, ok := v.ClientToViewBox(geometry.Point2D{X: 400, Y: 300}); ok {
				t.Error("expected no result for degenerate geometry")
			}
			if _, ok := v.ClientToWorld(geometry.Point2D{X: 400, Y: 300}); ok {
				t.Error("expected composed conversion to propagate no result")
			}
		})
	}
}

func TestClientToWorldRejectsBadZoom(t *testing.T) {
	zooms := map[string]float64{
		"zero":     0,
		"negative": -2,
		"NaN":      math.NaN(),
		"Inf":      math.Inf(1),
	}

	for name, z := range zooms {
		t.Run(name, func(t *testing.T) {
			v := testViewport()
			v.Zoom = z
			if _, ok := v.ClientToWorld(geometry.Point2D{X: 400, Y: 300}); ok {
				t.Errorf("zoom %v accepted", z)
			}
			if _, ok := v.WorldToClient(geometry.Point2D{X: 10, Y: 10}); ok {
				t.Errorf("zoom %v accepted on inverse", z)
			}
		})
	}
}

func TestTransformMatchesDirectMapping(t *testing.T) {
	v := testViewport()
	p := geometry.Point2D{X: -33, Y: 87}

	viaTransform := v.Transform().Apply(p)
	direct := v.WorldToViewBox(p)
	if !scalar.EqualWithinAbs(viaTransform.X, direct.X, tol) || !scalar.EqualWithinAbs(viaTransform.Y, direct.Y, tol) {
		t.Errorf("Transform().Apply = %v, WorldToViewBox = %v", viaTransform, direct)
	}

	inv, ok := v.InverseTransform()
	if !ok {
		t.Fatal("InverseTransform failed for a valid viewport")
	}
	back := inv.Apply(viaTransform)
	if !scalar.EqualWithinAbs(back.X, p.X, tol) || !scalar.EqualWithinAbs(back.Y, p.Y, tol) {
		t.Errorf("inverse transform round trip = %v, want %v", back, p)
	}
}

func TestZoomedAtKeepsPivotStationary(t *testing.T) {
	v := testViewport()
	pivot := geometry.Point2D{X: 800, Y: 600}

	worldBefore := v.ViewBoxToWorld(pivot)
	zoomed := v.ZoomedAt(1.25, pivot)
	worldAfter := zoomed.ViewBoxToWorld(pivot)

	if !scalar.EqualWithinAbs(worldBefore.X, worldAfter.X, tol) || !scalar.EqualWithinAbs(worldBefore.Y, worldAfter.Y, tol) {
		t.Errorf("pivot moved: before %v, after %v", worldBefore, worldAfter)
	}
	if !scalar.EqualWithinAbs(zoomed.Zoom, v.Zoom*1.25, tol) {
		t.Errorf("zoom = %v, want %v", zoomed.Zoom, v.Zoom*1.25)
	}
}

func TestZoomedAtIgnoresBadFactor(t *testing.T) {
	v := testViewport()
	for _, f := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if got := v.ZoomedAt(f, geometry.Point2D{X: 100, Y: 100}); got != v {
			t.Errorf("factor %v changed the viewport", f)
		}
	}
}
