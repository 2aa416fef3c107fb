package app

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// Accent palette shared by the selection chrome.
var (
	accentBlue  = color.NRGBA{R: 0x19, G: 0x76, B: 0xD2, A: 0xFF}
	marqueeBlue = color.NRGBA{R: 0x42, G: 0xA5, B: 0xF5, A: 0x66}
	scrollGray  = color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xFF}
)

// WhiteboardTheme tints the stock theme with the board's accent colors
// and widens the scrollbars for canvas panning.
type WhiteboardTheme struct{}

var _ fyne.Theme = (*WhiteboardTheme)(nil)

func (t *WhiteboardTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary:
		return accentBlue
	case theme.ColorNameSelection:
		return marqueeBlue
	case theme.ColorNameScrollBar:
		return scrollGray
	default:
		return theme.DefaultTheme().Color(name, variant)
	}
}

func (t *WhiteboardTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *WhiteboardTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

// Size widens both scrollbar variants so the board is easier to pan by
// its edges.
func (t *WhiteboardTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameScrollBar:
		return 16
	case theme.SizeNameScrollBarSmall:
		return 12
	default:
		return theme.DefaultTheme().Size(name)
	}
}
