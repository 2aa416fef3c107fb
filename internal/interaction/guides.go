package interaction

import (
	"math"

	"whiteboard-studio/pkg/geometry"
)

// Guide is an alignment line produced while snapping a dragged box to a
// neighbor. Pos is the world x (vertical) or y (horizontal) coordinate;
// From/To span the two boxes that aligned, for overlay rendering.
type Guide struct {
	Vertical bool
	Pos      float64
	From     geometry.Point2D
	To       geometry.Point2D
}

// SnapResult carries the adjusted drag delta and the guides to draw.
type SnapResult struct {
	DX     float64
	DY     float64
	Guides []Guide
}

// SnapDelta aligns a moving box against static neighbor boxes. The moving
// rect is taken at its naive dragged position; each axis snaps
// independently to the nearest edge or center within tolerance. The
// returned deltas replace the naive ones; with no match they pass through
// unchanged.
func SnapDelta(moving geometry.Rect, others []geometry.Rect, dx, dy, tolerance float64) SnapResult {
	res := SnapResult{DX: dx, DY: dy}
	if tolerance <= 0 || len(others) == 0 {
		return res
	}

	at := moving.Translate(geometry.Point2D{X: dx, Y: dy})
	xs := []float64{at.X, at.X + at.Width/2, at.X + at.Width}
	ys := []float64{at.Y, at.Y + at.Height/2, at.Y + at.Height}

	bestX := tolerance + 1
	bestY := tolerance + 1
	var guideX, guideY Guide

	for _, o := range others {
		oxs := []float64{o.X, o.X + o.Width/2, o.X + o.Width}
		oys := []float64{o.Y, o.Y + o.Height/2, o.Y + o.Height}

		for _, mx := range xs {
			for _, ox := range oxs {
				d := mx - ox
				if dist := math.Abs(d); dist <= tolerance && dist < bestX {
					bestX = dist
					res.DX = dx - d
					guideX = verticalGuide(ox, at, o)
				}
			}
		}
		for _, my := range ys {
			for _, oy := range oys {
				d := my - oy
				if dist := math.Abs(d); dist <= tolerance && dist < bestY {
					bestY = dist
					res.DY = dy - d
					guideY = horizontalGuide(oy, at, o)
				}
			}
		}
	}

	if bestX <= tolerance {
		res.Guides = append(res.Guides, guideX)
	}
	if bestY <= tolerance {
		res.Guides = append(res.Guides, guideY)
	}
	return res
}

func verticalGuide(x float64, a, b geometry.Rect) Guide {
	top := math.Min(a.Y, b.Y)
	bottom := math.Max(a.Y+a.Height, b.Y+b.Height)
	return Guide{
		Vertical: true,
		Pos:      x,
		From:     geometry.Point2D{X: x, Y: top},
		To:       geometry.Point2D{X: x, Y: bottom},
	}
}

func horizontalGuide(y float64, a, b geometry.Rect) Guide {
	left := math.Min(a.X, b.X)
	right := math.Max(a.X+a.Width, b.X+b.Width)
	return Guide{
		Vertical: false,
		Pos:      y,
		From:     geometry.Point2D{X: left, Y: y},
		To:       geometry.Point2D{X: right, Y: y},
	}
}
