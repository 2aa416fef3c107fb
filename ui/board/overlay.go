package board

import (
	"github.com/fogleman/gg"

	"whiteboard-studio/internal/element"
	"whiteboard-studio/internal/interaction"
	"whiteboard-studio/internal/viewport"
	"whiteboard-studio/pkg/colorutil"
	"whiteboard-studio/pkg/geometry"
)

// Overlay stroke widths and handle size, in screen pixels. Divided by
// the zoom before drawing so they stay constant on screen.
const (
	outlineWidth = 1.5
	marqueeWidth = 1.0
	guideWidth   = 1.0
	handleSide   = 8.0
	guideDash    = 4.0
)

// drawOverlays paints selection outlines, resize handles, the marquee,
// snap guides and the eraser brush on top of the rendered board. All
// geometry is in world coordinates under the same transform the
// renderer uses.
func (bc *BoardCanvas) drawOverlays(dc *gg.Context, v viewport.Viewport, measured map[string]geometry.Rect) {
	zoom := v.Zoom
	if zoom <= 0 {
		return
	}

	dc.Push()
	dc.Translate(v.Pan.X, v.Pan.Y)
	dc.Scale(zoom, zoom)

	selected := bc.state.SelectedElements()
	for _, e := range selected {
		b := element.Bounds(e, measured)
		dc.SetColor(colorutil.Accent)
		dc.SetLineWidth(outlineWidth / zoom)
		dc.DrawRectangle(b.X, b.Y, b.Width, b.Height)
		dc.Stroke()
	}

	// Resize handles only appear for a single selected element.
	if len(selected) == 1 {
		bc.drawHandles(dc, element.Bounds(selected[0], measured), zoom)
	}

	if rect, ok := bc.state.Controller().MarqueeRect(); ok {
		dc.SetColor(colorutil.WithAlpha(colorutil.Accent, 0x30))
		dc.DrawRectangle(rect.X, rect.Y, rect.Width, rect.Height)
		dc.FillPreserve()
		dc.SetColor(colorutil.Accent)
		dc.SetLineWidth(marqueeWidth / zoom)
		dc.Stroke()
	}

	if guides := bc.state.Controller().Guides(); len(guides) > 0 {
		dc.SetColor(colorutil.Guide)
		dc.SetLineWidth(guideWidth / zoom)
		dc.SetDash(guideDash/zoom, guideDash/zoom)
		for _, g := range guides {
			dc.DrawLine(g.From.X, g.From.Y, g.To.X, g.To.Y)
			dc.Stroke()
		}
		dc.SetDash()
	}

	if bc.erasing {
		dc.SetColor(colorutil.WithAlpha(colorutil.Black, 0x60))
		dc.SetLineWidth(guideWidth / zoom)
		dc.DrawCircle(bc.eraseLast.X, bc.eraseLast.Y, eraserRadius/zoom)
		dc.Stroke()
	}

	dc.Pop()
}

// drawHandles paints the eight resize squares around a bounds rect.
func (bc *BoardCanvas) drawHandles(dc *gg.Context, b geometry.Rect, zoom float64) {
	side := handleSide / zoom
	for _, p := range interaction.HandlePoints(b) {
		dc.SetColor(colorutil.White)
		dc.DrawRectangle(p.X-side/2, p.Y-side/2, side, side)
		dc.FillPreserve()
		dc.SetColor(colorutil.Accent)
		dc.SetLineWidth(outlineWidth / zoom)
		dc.Stroke()
	}
}
