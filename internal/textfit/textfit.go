// Package textfit scales text to fill an explicitly-sized box. Content is
// measured off-screen at the element's base font size and the result is
// reported through callbacks; reported sizes are never fed back into the
// measurement, which is what keeps the display loop from oscillating.
package textfit

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"whiteboard-studio/internal/element"
	"whiteboard-studio/pkg/geometry"
)

// MaxFontSize bounds the effective font size so tiny content in a huge
// box cannot scale without limit.
const MaxFontSize = 96.0

// referenceSize is the size the shared face is built at. Natural sizes at
// other base sizes are derived linearly from it.
const referenceSize = element.DefaultFontSize

var markupPattern = regexp.MustCompile(`<[^>]*>`)

// StripMarkup drops inline formatting tags. Bold, italic, underline, and
// color toggles change glyph style, not layout breakpoints, so the
// stripped text is what decides whether a re-measure is needed.
func StripMarkup(s string) string {
	return markupPattern.ReplaceAllString(s, "")
}

// Result is one fit computation for one element.
type Result struct {
	// Scale multiplies the base font size; 1 when fitting is impossible.
	Scale float64
	// FontSize is the effective size, base times Scale.
	FontSize float64
	// Natural is the unscaled content size at the base font size.
	Natural geometry.Size
	// Remeasured reports whether this call had to measure, rather than
	// serving the cached natural size.
	Remeasured bool
}

type measurement struct {
	key     string
	natural geometry.Size // at referenceSize
}

// Fitter measures content with a shared off-screen face and caches the
// natural size per element ID until the structural content or the base
// font size changes.
type Fitter struct {
	face  font.Face
	lineH float64
	cache map[string]measurement

	onFontSize   func(id string, size float64)
	onAspect     func(id string, ratio float64)
	onMaxBoxSize func(id string, s geometry.Size)
}

// NewFitter builds a fitter around the embedded Go Regular face.
func NewFitter() (*Fitter, error) {
	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    referenceSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("build face: %w", err)
	}
	m := face.Metrics()
	return &Fitter{
		face:  face,
		lineH: fixedToFloat(m.Height),
		cache: make(map[string]measurement),
	}, nil
}

// SetOnFontSize registers the effective-font-size callback, fired on
// every fit so the owner can bake the size into the element when fill
// mode is turned off.
func (ft *Fitter) SetOnFontSize(fn func(id string, size float64)) {
	ft.onFontSize = fn
}

// SetOnAspectRatio registers the natural aspect-ratio callback.
func (ft *Fitter) SetOnAspectRatio(fn func(id string, ratio float64)) {
	ft.onAspect = fn
}

// SetOnMaxBoxSize registers the callback reporting the box size at which
// the font-size cap engages; growing the box past it changes nothing.
func (ft *Fitter) SetOnMaxBoxSize(fn func(id string, s geometry.Size)) {
	ft.onMaxBoxSize = fn
}

// Fit computes the scale for one fill-mode element. The box is the
// element's explicit size; baseSize is its stored font size. Unmeasurable
// content falls back to scale 1 rather than propagating NaN.
func (ft *Fitter) Fit(id, content string, baseSize float64, box geometry.Size) Result {
	if baseSize <= 0 {
		baseSize = element.DefaultFontSize
	}
	fallback := Result{Scale: 1, FontSize: baseSize}

	structural := StripMarkup(content)
	if strings.TrimSpace(structural) == "" {
		return fallback
	}

	natural, remeasured := ft.naturalSize(id, structural, baseSize)
	if natural.Width <= 0 || natural.Height <= 0 || !box.Positive() {
		return fallback
	}

	scale := box.Height / natural.Height
	if capScale := MaxFontSize / baseSize; scale > capScale {
		scale = capScale
	}

	res := Result{
		Scale:      scale,
		FontSize:   baseSize * scale,
		Natural:    natural,
		Remeasured: remeasured,
	}
	ft.report(id, res)
	return res
}

func (ft *Fitter) report(id string, res Result) {
	if ft.onFontSize != nil {
		ft.onFontSize(id, res.FontSize)
	}
	if ft.onAspect != nil {
		ft.onAspect(id, res.Natural.Width/res.Natural.Height)
	}
	if ft.onMaxBoxSize != nil {
		capScale := MaxFontSize * res.Scale / res.FontSize
		ft.onMaxBoxSize(id, geometry.Size{
			Width:  res.Natural.Width * capScale,
			Height: res.Natural.Height * capScale,
		})
	}
}

// naturalSize returns the content's unscaled size at baseSize, measuring
// only when the structural key changed since the last call for this ID.
func (ft *Fitter) naturalSize(id, structural string, baseSize float64) (geometry.Size, bool) {
	key := fmt.Sprintf("%.3f|%s", baseSize, structural)
	if m, ok := ft.cache[id]; ok && m.key == key {
		return scaleSize(m.natural, baseSize/referenceSize), false
	}

	nat := ft.measure(structural)
	ft.cache[id] = measurement{key: key, natural: nat}
	return scaleSize(nat, baseSize/referenceSize), true
}

// measure lays the text out at referenceSize: the widest line by advance
// width, line count times line height.
func (ft *Fitter) measure(s string) geometry.Size {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	d := font.Drawer{Face: ft.face}
	var width float64
	for _, line := range lines {
		if w := fixedToFloat(d.MeasureString(line)); w > width {
			width = w
		}
	}
	return geometry.Size{Width: width, Height: ft.lineH * float64(len(lines))}
}

// Invalidate drops the cached measurement for an element.
func (ft *Fitter) Invalidate(id string) {
	delete(ft.cache, id)
}

// Reset drops every cached measurement, e.g. when a document is replaced.
func (ft *Fitter) Reset() {
	ft.cache = make(map[string]measurement)
}

// EditorScale keeps an editing surface from overflowing its container
// while typing. It is width-driven and never enlarges, deliberately
// decoupled from the fill algorithm.
func EditorScale(natural, box geometry.Size) float64 {
	if natural.Width <= 0 || box.Width <= 0 {
		return 1
	}
	if s := box.Width / natural.Width; s < 1 {
		return s
	}
	return 1
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

func scaleSize(s geometry.Size, factor float64) geometry.Size {
	return geometry.Size{Width: s.Width * factor, Height: s.Height * factor}
}
