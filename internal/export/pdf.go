package export

import (
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"whiteboard-studio/internal/element"
	"whiteboard-studio/internal/render"
	"whiteboard-studio/internal/textfit"
	"whiteboard-studio/pkg/colorutil"
	"whiteboard-studio/pkg/geometry"
)

const pdfMarginMM = 10.0

// PDF writes the board to a single landscape A4 page, content scaled
// uniformly to fit inside the margins.
func PDF(path string, els []*element.Element, r *render.Renderer) error {
	measured := r.MeasureBounds(els)
	bounds, ok := render.ContentBounds(els, measured)
	if !ok {
		return fmt.Errorf("nothing to export")
	}

	p := gofpdf.New("L", "mm", "A4", "")
	p.AddPage()
	p.SetFont("Helvetica", "", 12)

	pw, ph := p.GetPageSize()
	scale := (pw - 2*pdfMarginMM) / bounds.Width
	if s := (ph - 2*pdfMarginMM) / bounds.Height; s < scale {
		scale = s
	}

	tx := func(x float64) float64 { return pdfMarginMM + (x-bounds.X)*scale }
	ty := func(y float64) float64 { return pdfMarginMM + (y-bounds.Y)*scale }

	p.SetLineWidth(0.5)
	for _, e := range els {
		b := element.Bounds(e, measured)
		drawPDFElement(p, e, b, scale, tx, ty)
	}

	return p.OutputFileAndClose(path)
}

func drawPDFElement(p *gofpdf.Fpdf, e *element.Element, b geometry.Rect, scale float64, tx, ty func(float64) float64) {
	stroke := colorutil.ParseHexDefault(e.Color, colorutil.Black)
	p.SetDrawColor(int(stroke.R), int(stroke.G), int(stroke.B))
	p.SetTextColor(int(stroke.R), int(stroke.G), int(stroke.B))

	switch e.Type {
	case element.TypeRect:
		style := "D"
		if bg, ok := colorutil.ParseHex(e.Background); ok {
			p.SetFillColor(int(bg.R), int(bg.G), int(bg.B))
			style = "FD"
		}
		p.Rect(tx(b.X), ty(b.Y), b.Width*scale, b.Height*scale, style)

	case element.TypeEllipse:
		style := "D"
		if bg, ok := colorutil.ParseHex(e.Background); ok {
			p.SetFillColor(int(bg.R), int(bg.G), int(bg.B))
			style = "FD"
		}
		p.Ellipse(tx(b.X+b.Width/2), ty(b.Y+b.Height/2), b.Width/2*scale, b.Height/2*scale, 0, style)

	case element.TypeLine, element.TypePen:
		for i := 1; i < len(e.Points); i++ {
			p.Line(
				tx(e.X+e.Points[i-1].X), ty(e.Y+e.Points[i-1].Y),
				tx(e.X+e.Points[i].X), ty(e.Y+e.Points[i].Y),
			)
		}

	case element.TypeSticky:
		bg := colorutil.ParseHexDefault(e.Background, colorutil.StickyDef)
		p.SetFillColor(int(bg.R), int(bg.G), int(bg.B))
		p.RoundedRect(tx(b.X), ty(b.Y), b.Width*scale, b.Height*scale, 2, "1234", "F")
		drawPDFText(p, e, b, scale, tx, ty)

	case element.TypeText:
		drawPDFText(p, e, b, scale, tx, ty)
	}
}

func drawPDFText(p *gofpdf.Fpdf, e *element.Element, b geometry.Rect, scale float64, tx, ty func(float64) float64) {
	text := textfit.StripMarkup(e.Content)
	if strings.TrimSpace(text) == "" {
		return
	}

	size := e.FontSize
	if size <= 0 {
		size = element.DefaultFontSize
	}
	p.SetFontUnitSize(size * scale)

	lines := strings.Split(text, "\n")
	lineH := size * 1.3 * scale
	for i, line := range lines {
		p.Text(tx(b.X)+1, ty(b.Y)+lineH*float64(i)+size*scale, line)
	}
}
