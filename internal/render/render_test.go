package render

import (
	"image/color"
	"testing"

	"github.com/fogleman/gg"

	"whiteboard-studio/internal/element"
	"whiteboard-studio/internal/textfit"
	"whiteboard-studio/internal/viewport"
	"whiteboard-studio/pkg/geometry"
)

func newRenderer(t *testing.T) *Renderer {
	t.Helper()
	ft, err := textfit.NewFitter()
	if err != nil {
		t.Fatalf("NewFitter: %v", err)
	}
	r, err := New(ft)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}

func TestMeasureBoundsCoversAutoSizedTextOnly(t *testing.T) {
	r := newRenderer(t)

	auto := element.New(element.TypeText, 30, 40)
	auto.Content = "hello"
	sized := element.New(element.TypeText, 0, 0)
	sized.Content = "hello"
	sized.Width = 200
	sized.Height = 50
	rect := element.New(element.TypeRect, 0, 0)

	got := r.MeasureBounds([]*element.Element{auto, sized, rect})

	if len(got) != 1 {
		t.Fatalf("measured %d elements, want 1", len(got))
	}
	b, ok := got[auto.ID]
	if !ok {
		t.Fatal("auto-sized text not measured")
	}
	if b.X != 30 || b.Y != 40 {
		t.Errorf("measured origin (%v, %v), want element position (30, 40)", b.X, b.Y)
	}
	if b.Width <= 0 || b.Height <= 0 {
		t.Errorf("degenerate measured size %vx%v", b.Width, b.Height)
	}
}

func TestMeasureBoundsGrowsWithContent(t *testing.T) {
	r := newRenderer(t)

	short := element.New(element.TypeText, 0, 0)
	short.Content = "hi"
	long := element.New(element.TypeText, 0, 0)
	long.Content = "hi there, much longer line"
	tall := element.New(element.TypeText, 0, 0)
	tall.Content = "hi\nhi\nhi"

	got := r.MeasureBounds([]*element.Element{short, long, tall})

	if got[long.ID].Width <= got[short.ID].Width {
		t.Errorf("longer line measured %v, short %v", got[long.ID].Width, got[short.ID].Width)
	}
	if got[tall.ID].Height <= got[short.ID].Height {
		t.Errorf("3-line height %v not above 1-line %v", got[tall.ID].Height, got[short.ID].Height)
	}
}

func TestMeasuredBoundsFlowIntoElementBounds(t *testing.T) {
	r := newRenderer(t)

	e := element.New(element.TypeText, 100, 100)
	e.Content = "measured"
	measured := r.MeasureBounds([]*element.Element{e})

	b := element.Bounds(e, measured)
	if b.X != 100 || b.Y != 100 {
		t.Errorf("bounds origin (%v, %v), want (100, 100)", b.X, b.Y)
	}
	if b.Width != measured[e.ID].Width || b.Height != measured[e.ID].Height {
		t.Errorf("bounds size %vx%v, want measured %vx%v",
			b.Width, b.Height, measured[e.ID].Width, measured[e.ID].Height)
	}
}

func TestContentBounds(t *testing.T) {
	a := element.New(element.TypeRect, 0, 0)
	a.Width, a.Height = 100, 50
	b := element.New(element.TypeRect, 300, 200)
	b.Width, b.Height = 40, 40

	got, ok := ContentBounds([]*element.Element{a, b}, nil)
	if !ok {
		t.Fatal("no bounds for two elements")
	}
	want := geometry.NewRect(0, 0, 340, 240)
	if got != want {
		t.Errorf("content bounds %+v, want %+v", got, want)
	}

	if _, ok := ContentBounds(nil, nil); ok {
		t.Error("empty board should report no bounds")
	}
}

func isWhite(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	return r == 0xffff && g == 0xffff && b == 0xffff
}

func TestDrawViewPaintsElements(t *testing.T) {
	r := newRenderer(t)

	rect := element.New(element.TypeRect, 10, 10)
	rect.Width, rect.Height = 50, 30
	sticky := element.New(element.TypeSticky, 80, 10)
	sticky.Content = "note"
	pen := element.New(element.TypePen, 10, 60)
	pen.Points = []geometry.Point2D{{X: 0, Y: 0}, {X: 30, Y: 10}, {X: 60, Y: 0}}

	dc := gg.NewContext(300, 300)
	v := viewport.New(geometry.NewRect(0, 0, 300, 300))
	r.DrawView(dc, v, []*element.Element{rect, sticky, pen}, nil)
	img := dc.Image()

	// Left edge of the rect stroke.
	if isWhite(img.At(10, 25)) {
		t.Error("rect stroke not painted")
	}
	// Interior of the sticky's background.
	if isWhite(img.At(180, 110)) {
		t.Error("sticky background not painted")
	}
	// Empty canvas stays background-colored.
	if !isWhite(img.At(290, 290)) {
		t.Error("background overpainted")
	}
}

func TestDrawViewAppliesViewportTransform(t *testing.T) {
	r := newRenderer(t)

	rect := element.New(element.TypeRect, 0, 0)
	rect.Width, rect.Height = 20, 20
	els := []*element.Element{rect}

	dc := gg.NewContext(200, 200)
	v := viewport.Viewport{
		Pan:     geometry.Point2D{X: 100, Y: 100},
		Zoom:    2,
		ViewBox: geometry.NewSize(200, 200),
		Client:  geometry.NewRect(0, 0, 200, 200),
	}
	r.DrawView(dc, v, els, nil)
	img := dc.Image()

	// World (0..20) maps to client (100..140); the stroke sits at 100.
	if isWhite(img.At(100, 120)) {
		t.Error("transformed stroke missing at client x=100")
	}
	if !isWhite(img.At(60, 120)) {
		t.Error("paint found left of the panned origin")
	}
}
