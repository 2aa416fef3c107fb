package export

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"whiteboard-studio/internal/element"
	"whiteboard-studio/internal/render"
	"whiteboard-studio/internal/textfit"
	"whiteboard-studio/pkg/geometry"
)

func testRenderer(t *testing.T) *render.Renderer {
	t.Helper()
	ft, err := textfit.NewFitter()
	if err != nil {
		t.Fatalf("NewFitter: %v", err)
	}
	r, err := render.New(ft)
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}
	return r
}

func testBoard() []*element.Element {
	rect := element.New(element.TypeRect, 0, 0)
	rect.Width, rect.Height = 100, 50
	sticky := element.New(element.TypeSticky, 120, 0)
	sticky.Content = "ship it"
	pen := element.New(element.TypePen, 0, 80)
	pen.Points = []geometry.Point2D{{X: 0, Y: 0}, {X: 40, Y: 20}, {X: 90, Y: 5}}
	return []*element.Element{rect, sticky, pen}
}

func TestPNGExport(t *testing.T) {
	r := testRenderer(t)
	path := filepath.Join(t.TempDir(), "board.png")

	els := []*element.Element{element.New(element.TypeRect, 0, 0)}
	els[0].Width, els[0].Height = 100, 50

	if err := PNG(path, els, r, PNGOptions{}); err != nil {
		t.Fatalf("PNG: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	// Content 100x50 plus the default 24 padding on each side.
	if got := img.Bounds().Dx(); got != 148 {
		t.Errorf("width = %d, want 148", got)
	}
	if got := img.Bounds().Dy(); got != 98 {
		t.Errorf("height = %d, want 98", got)
	}
}

func TestPNGExportClampsHugeScale(t *testing.T) {
	r := testRenderer(t)
	path := filepath.Join(t.TempDir(), "huge.png")

	els := []*element.Element{element.New(element.TypeRect, 0, 0)}
	els[0].Width, els[0].Height = 100, 50

	if err := PNG(path, els, r, PNGOptions{Scale: 1000}); err != nil {
		t.Fatalf("PNG: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width > 8192 || cfg.Height > 8192 {
		t.Errorf("export %dx%d exceeds pixel clamp", cfg.Width, cfg.Height)
	}
}

func TestPNGExportEmptyBoard(t *testing.T) {
	r := testRenderer(t)
	path := filepath.Join(t.TempDir(), "empty.png")

	if err := PNG(path, nil, r, PNGOptions{}); err == nil {
		t.Error("empty board should not export")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("empty export left a file behind")
	}
}

func TestPDFExport(t *testing.T) {
	r := testRenderer(t)
	path := filepath.Join(t.TempDir(), "board.pdf")

	if err := PDF(path, testBoard(), r); err != nil {
		t.Fatalf("PDF: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) < 5 || string(data[:5]) != "%PDF-" {
		t.Error("output is not a PDF")
	}
}

func TestPDFExportEmptyBoard(t *testing.T) {
	r := testRenderer(t)
	if err := PDF(filepath.Join(t.TempDir(), "e.pdf"), nil, r); err == nil {
		t.Error("empty board should not export")
	}
}
