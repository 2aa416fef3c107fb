// Package colorutil provides shared color utilities for the whiteboard
// application. Element colors are stored as hex strings in board files.
package colorutil

import (
	"fmt"
	"image/color"
	"strings"
)

// Common colors used throughout the application.
var (
	Black     = color.RGBA{R: 0x21, G: 0x21, B: 0x21, A: 255}
	White     = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Accent    = color.RGBA{R: 0x1E, G: 0x88, B: 0xE5, A: 255} // selection blue
	StickyDef = color.RGBA{R: 0xFF, G: 0xF5, B: 0x9D, A: 255} // sticky-note yellow
	Guide     = color.RGBA{R: 0xE9, G: 0x1E, B: 0x63, A: 255} // alignment guides
)

// ParseHex parses "#RGB", "#RRGGBB", or "#RRGGBBAA" into a color.
// Malformed input returns ok=false; callers fall back to a default rather
// than failing the render.
func ParseHex(s string) (color.RGBA, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")

	var r, g, b, a uint8 = 0, 0, 0, 255
	switch len(s) {
	case 3:
		if n, err := fmt.Sscanf(s, "%1x%1x%1x", &r, &g, &b); n != 3 || err != nil {
			return color.RGBA{}, false
		}
		r *= 17
		g *= 17
		b *= 17
	case 6:
		if n, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); n != 3 || err != nil {
			return color.RGBA{}, false
		}
	case 8:
		if n, err := fmt.Sscanf(s, "%02x%02x%02x%02x", &r, &g, &b, &a); n != 4 || err != nil {
			return color.RGBA{}, false
		}
	default:
		return color.RGBA{}, false
	}

	return color.RGBA{R: r, G: g, B: b, A: a}, true
}

// ParseHexDefault parses a hex color, returning def when the input is
// empty or malformed.
func ParseHexDefault(s string, def color.RGBA) color.RGBA {
	if s == "" {
		return def
	}
	if c, ok := ParseHex(s); ok {
		return c
	}
	return def
}

// Hex formats a color as "#RRGGBB", or "#RRGGBBAA" when not fully opaque.
func Hex(c color.RGBA) string {
	if c.A != 255 {
		return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
	}
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// WithAlpha returns a translucent variant of the color. The result is
// straight-alpha so it blends correctly when drawn.
func WithAlpha(c color.RGBA, a uint8) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: a}
}
