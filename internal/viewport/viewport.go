// Package viewport converts between the three coordinate spaces the
// whiteboard works in: client (window pixels), viewBox (the drawing
// surface's internal coordinates, scaled relative to its on-screen rect)
// and world (logical canvas coordinates related to viewBox by pan and
// zoom). Every conversion is pure; invalid inputs yield ok=false rather
// than NaN or Inf coordinates.
package viewport

import (
	"math"

	"whiteboard-studio/pkg/geometry"
)

// Viewport is the value describing the current view: where the surface
// sits on screen (Client), its internal coordinate size (ViewBox), and
// the world mapping (Pan, Zoom). worldToViewBox(w) = w*Zoom + Pan.
type Viewport struct {
	Pan     geometry.Point2D
	Zoom    float64
	ViewBox geometry.Size
	Client  geometry.Rect
}

// New returns a viewport with identity pan and zoom for the given
// surface rect, with the viewBox matching the client size.
func New(client geometry.Rect) Viewport {
	return Viewport{
		Zoom:    1,
		ViewBox: geometry.Size{Width: client.Width, Height: client.Height},
		Client:  client,
	}
}

// zoomValid rejects the zoom values that would turn a division into
// NaN, Inf, or a sign flip.
func (v Viewport) zoomValid() bool {
	return !math.IsNaN(v.Zoom) && !math.IsInf(v.Zoom, 0) && v.Zoom > 0
}

// ClientToViewBox maps a window-pixel point onto the surface's viewBox.
// ok=false when the surface rect or viewBox has a non-positive dimension;
// a division by zero never reaches the caller.
func (v Viewport) ClientToViewBox(p geometry.Point2D) (geometry.Point2D, bool) {
	if v.Client.Width <= 0 || v.Client.Height <= 0 || !v.ViewBox.Positive() {
		return geometry.Point2D{}, false
	}
	return geometry.Point2D{
		X: (p.X - v.Client.X) * v.ViewBox.Width / v.Client.Width,
		Y: (p.Y - v.Client.Y) * v.ViewBox.Height / v.Client.Height,
	}, true
}

// ViewBoxToClient is the inverse of ClientToViewBox.
func (v Viewport) ViewBoxToClient(p geometry.Point2D) (geometry.Point2D, bool) {
	if v.Client.Width <= 0 || v.Client.Height <= 0 || !v.ViewBox.Positive() {
		return geometry.Point2D{}, false
	}
	return geometry.Point2D{
		X: p.X*v.Client.Width/v.ViewBox.Width + v.Client.X,
		Y: p.Y*v.Client.Height/v.ViewBox.Height + v.Client.Y,
	}, true
}

// ViewBoxToWorld maps a viewBox point into world coordinates:
// (p - pan) / zoom. The caller is responsible for a valid zoom; composed
// conversions guard it.
func (v Viewport) ViewBoxToWorld(p geometry.Point2D) geometry.Point2D {
	return geometry.Point2D{
		X: (p.X - v.Pan.X) / v.Zoom,
		Y: (p.Y - v.Pan.Y) / v.Zoom,
	}
}

// WorldToViewBox is the exact inverse of ViewBoxToWorld.
func (v Viewport) WorldToViewBox(p geometry.Point2D) geometry.Point2D {
	return geometry.Point2D{
		X: p.X*v.Zoom + v.Pan.X,
		Y: p.Y*v.Zoom + v.Pan.Y,
	}
}

// ClientToWorld composes ClientToViewBox and ViewBoxToWorld, additionally
// rejecting a non-finite or non-positive zoom. Callers never receive
// NaN or Inf world coordinates.
func (v Viewport) ClientToWorld(p geometry.Point2D) (geometry.Point2D, bool) {
	if !v.zoomValid() {
		return geometry.Point2D{}, false
	}
	vb, ok := v.ClientToViewBox(p)
	if !ok {
		return geometry.Point2D{}, false
	}
	return v.ViewBoxToWorld(vb), true
}

// WorldToClient is the composed inverse of ClientToWorld, used to anchor
// overlays to logical content.
func (v Viewport) WorldToClient(p geometry.Point2D) (geometry.Point2D, bool) {
	if !v.zoomValid() {
		return geometry.Point2D{}, false
	}
	return v.ViewBoxToClient(v.WorldToViewBox(p))
}

// Transform returns the world-to-viewBox mapping as an affine transform:
// scale by zoom, then translate by pan. The renderer consumes this.
func (v Viewport) Transform() geometry.AffineTransform {
	return geometry.Translation(v.Pan.X, v.Pan.Y).Compose(geometry.Scale(v.Zoom, v.Zoom))
}

// InverseTransform returns the viewBox-to-world mapping, if zoom permits.
func (v Viewport) InverseTransform() (geometry.AffineTransform, bool) {
	if !v.zoomValid() {
		return geometry.AffineTransform{}, false
	}
	return v.Transform().Inverse()
}

// WithPan returns the viewport panned by a viewBox-space delta.
func (v Viewport) WithPan(d geometry.Point2D) Viewport {
	v.Pan = v.Pan.Add(d)
	return v
}

// ZoomedAt returns the viewport with zoom multiplied by factor, keeping
// the world point under the given viewBox pivot stationary. Invalid
// current zoom or a non-positive factor returns the viewport unchanged.
func (v Viewport) ZoomedAt(factor float64, pivot geometry.Point2D) Viewport {
	if !v.zoomValid() || factor <= 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return v
	}
	world := v.ViewBoxToWorld(pivot)
	v.Zoom *= factor
	v.Pan = geometry.Point2D{
		X: pivot.X - world.X*v.Zoom,
		Y: pivot.Y - world.Y*v.Zoom,
	}
	return v
}
