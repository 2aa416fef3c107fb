// Package render draws board elements onto a gg context. The same
// renderer backs the on-screen raster and PNG export, and it produces
// the measured-bounds cache entries for text elements that size
// themselves from their content.
package render

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"whiteboard-studio/internal/element"
	"whiteboard-studio/internal/textfit"
	"whiteboard-studio/internal/viewport"
	"whiteboard-studio/pkg/colorutil"
	"whiteboard-studio/pkg/geometry"
)

const (
	strokeWidth     = 2.0
	stickyCornerRad = 8.0
	textPadding     = 6.0
)

// Renderer holds the parsed font and a small face cache; faces are
// keyed by quarter-point size so zooming does not grow the cache without
// bound.
type Renderer struct {
	font       *truetype.Font
	faces      map[float64]font.Face
	fitter     *textfit.Fitter
	background color.Color
}

// New builds a renderer. The fitter is shared with the app layer so
// display and fit math agree on effective font sizes; it may be nil, in
// which case fill-mode text renders at its stored size.
func New(fitter *textfit.Fitter) (*Renderer, error) {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return &Renderer{
		font:       f,
		faces:      make(map[float64]font.Face),
		fitter:     fitter,
		background: colorutil.White,
	}, nil
}

// SetBackground sets the board background from a hex color string.
// Empty or malformed input restores white.
func (r *Renderer) SetBackground(hex string) {
	r.background = colorutil.ParseHexDefault(hex, colorutil.White)
}

// Background returns the board background color.
func (r *Renderer) Background() color.Color {
	return r.background
}

func (r *Renderer) face(size float64) font.Face {
	key := math.Round(size*4) / 4
	if key < 1 {
		key = 1
	}
	if f, ok := r.faces[key]; ok {
		return f
	}
	f := truetype.NewFace(r.font, &truetype.Options{
		Size:    key,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	r.faces[key] = f
	return f
}

// DrawView paints the visible board: background, then elements in paint
// order under the pan/zoom transform.
func (r *Renderer) DrawView(dc *gg.Context, v viewport.Viewport, els []*element.Element, measured map[string]geometry.Rect) {
	dc.SetColor(r.background)
	dc.Clear()

	dc.Push()
	dc.Translate(v.Pan.X, v.Pan.Y)
	dc.Scale(v.Zoom, v.Zoom)
	r.Draw(dc, els, measured)
	dc.Pop()
}

// Draw paints elements in slice order onto a context whose transform is
// already world space.
func (r *Renderer) Draw(dc *gg.Context, els []*element.Element, measured map[string]geometry.Rect) {
	for _, e := range els {
		r.drawElement(dc, e, element.Bounds(e, measured))
	}
}

func (r *Renderer) drawElement(dc *gg.Context, e *element.Element, b geometry.Rect) {
	switch e.Type {
	case element.TypeRect:
		if bg, ok := colorutil.ParseHex(e.Background); ok {
			dc.SetColor(bg)
			dc.DrawRectangle(b.X, b.Y, b.Width, b.Height)
			dc.Fill()
		}
		dc.SetColor(colorutil.ParseHexDefault(e.Color, colorutil.Black))
		dc.SetLineWidth(strokeWidth)
		dc.DrawRectangle(b.X, b.Y, b.Width, b.Height)
		dc.Stroke()

	case element.TypeEllipse:
		cx, cy := b.X+b.Width/2, b.Y+b.Height/2
		if bg, ok := colorutil.ParseHex(e.Background); ok {
			dc.SetColor(bg)
			dc.DrawEllipse(cx, cy, b.Width/2, b.Height/2)
			dc.Fill()
		}
		dc.SetColor(colorutil.ParseHexDefault(e.Color, colorutil.Black))
		dc.SetLineWidth(strokeWidth)
		dc.DrawEllipse(cx, cy, b.Width/2, b.Height/2)
		dc.Stroke()

	case element.TypeLine, element.TypePen:
		if len(e.Points) < 2 {
			return
		}
		dc.SetColor(colorutil.ParseHexDefault(e.Color, colorutil.Black))
		dc.SetLineWidth(strokeWidth)
		dc.SetLineCap(gg.LineCapRound)
		dc.SetLineJoin(gg.LineJoinRound)
		dc.MoveTo(e.X+e.Points[0].X, e.Y+e.Points[0].Y)
		for _, p := range e.Points[1:] {
			dc.LineTo(e.X+p.X, e.Y+p.Y)
		}
		dc.Stroke()

	case element.TypeSticky:
		bg := colorutil.ParseHexDefault(e.Background, colorutil.StickyDef)
		dc.SetColor(bg)
		dc.DrawRoundedRectangle(b.X, b.Y, b.Width, b.Height, stickyCornerRad)
		dc.Fill()
		r.drawContent(dc, e, b)

	case element.TypeText:
		if bg, ok := colorutil.ParseHex(e.Background); ok {
			dc.SetColor(bg)
			dc.DrawRectangle(b.X, b.Y, b.Width, b.Height)
			dc.Fill()
		}
		r.drawContent(dc, e, b)
	}
}

// drawContent lays text into a box line by line, honoring alignment and,
// for fill-mode elements with an explicit size, the fitted font size.
func (r *Renderer) drawContent(dc *gg.Context, e *element.Element, b geometry.Rect) {
	text := textfit.StripMarkup(e.Content)
	if strings.TrimSpace(text) == "" {
		return
	}

	size := e.FontSize
	if size <= 0 {
		size = element.DefaultFontSize
	}
	if e.Fill && r.fitter != nil && e.Width > 0 && e.Height > 0 {
		inner := geometry.NewSize(
			math.Max(e.Width-2*textPadding, 1),
			math.Max(e.Height-2*textPadding, 1),
		)
		size = r.fitter.Fit(e.ID, e.Content, size, inner).FontSize
	}

	face := r.face(size)
	dc.SetFontFace(face)
	dc.SetColor(colorutil.ParseHexDefault(e.Color, colorutil.Black))

	m := face.Metrics()
	lineH := float64(m.Height) / 64
	ascent := float64(m.Ascent) / 64
	lines := strings.Split(text, "\n")
	blockH := lineH * float64(len(lines))

	top := b.Y + textPadding
	switch e.TextVerticalAlign {
	case element.VAlignMiddle:
		top = b.Y + (b.Height-blockH)/2
	case element.VAlignBottom:
		top = b.Y + b.Height - blockH - textPadding
	}

	d := font.Drawer{Face: face}
	for i, line := range lines {
		w := float64(d.MeasureString(line)) / 64
		x := b.X + textPadding
		switch e.TextAlign {
		case element.AlignCenter:
			x = b.X + (b.Width-w)/2
		case element.AlignRight:
			x = b.X + b.Width - w - textPadding
		}
		dc.DrawString(line, x, top+ascent+lineH*float64(i))
	}
}

// MeasureBounds lays out content-sized text elements and returns their
// bounds, keyed by ID. This is the feedback the interaction layer reads
// through its bounds cache; elements with an explicit size are skipped.
func (r *Renderer) MeasureBounds(els []*element.Element) map[string]geometry.Rect {
	out := make(map[string]geometry.Rect)
	for _, e := range els {
		if e.Type != element.TypeText {
			continue
		}
		if e.Width > 0 && e.Height > 0 {
			continue
		}
		size := e.FontSize
		if size <= 0 {
			size = element.DefaultFontSize
		}
		face := r.face(size)
		m := face.Metrics()
		lineH := float64(m.Height) / 64
		d := font.Drawer{Face: face}

		lines := strings.Split(textfit.StripMarkup(e.Content), "\n")
		var width float64
		for _, line := range lines {
			if w := float64(d.MeasureString(line)) / 64; w > width {
				width = w
			}
		}
		out[e.ID] = geometry.Rect{
			X:      e.X,
			Y:      e.Y,
			Width:  width + 2*textPadding,
			Height: lineH*float64(len(lines)) + 2*textPadding,
		}
	}
	return out
}

// ContentBounds is the union of every element's bounds, for fitting
// exports to content.
func ContentBounds(els []*element.Element, measured map[string]geometry.Rect) (geometry.Rect, bool) {
	var out geometry.Rect
	found := false
	for _, e := range els {
		b := element.Bounds(e, measured)
		if !found {
			out = b
			found = true
			continue
		}
		out = out.Union(b)
	}
	return out, found
}
