// Package export writes boards to image and document files. Exports are
// framed to the content bounds plus padding, not the current viewport.
package export

import (
	"fmt"
	"math"

	"github.com/fogleman/gg"

	"whiteboard-studio/internal/element"
	"whiteboard-studio/internal/render"
)

const (
	defaultPadding = 24.0
	maxPixelDim    = 8192
)

// PNGOptions control raster export.
type PNGOptions struct {
	// Scale maps world units to pixels. Defaults to 1.
	Scale float64
	// Padding is the world-unit margin around the content. Defaults to 24.
	Padding float64
}

// PNG renders the board to a PNG file. The image is clamped to a maximum
// dimension; very large boards export at reduced scale rather than
// failing.
func PNG(path string, els []*element.Element, r *render.Renderer, opts PNGOptions) error {
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	if opts.Padding <= 0 {
		opts.Padding = defaultPadding
	}

	measured := r.MeasureBounds(els)
	bounds, ok := render.ContentBounds(els, measured)
	if !ok {
		return fmt.Errorf("nothing to export")
	}
	bounds.X -= opts.Padding
	bounds.Y -= opts.Padding
	bounds.Width += 2 * opts.Padding
	bounds.Height += 2 * opts.Padding

	scale := opts.Scale
	if bounds.Width*scale > maxPixelDim {
		scale = maxPixelDim / bounds.Width
	}
	if bounds.Height*scale > maxPixelDim {
		scale = maxPixelDim / bounds.Height
	}

	w := int(math.Ceil(bounds.Width * scale))
	h := int(math.Ceil(bounds.Height * scale))
	if w > maxPixelDim {
		w = maxPixelDim
	}
	if h > maxPixelDim {
		h = maxPixelDim
	}
	if w < 1 || h < 1 {
		return fmt.Errorf("degenerate export size %dx%d", w, h)
	}

	dc := gg.NewContext(w, h)
	dc.SetColor(r.Background())
	dc.Clear()
	dc.Scale(scale, scale)
	dc.Translate(-bounds.X, -bounds.Y)
	r.Draw(dc, els, measured)

	return dc.SavePNG(path)
}
