// Package element defines the whiteboard element model: the units placed
// on the canvas, their derived bounds, and the deep-copy and equality
// helpers the history store depends on.
package element

import (
	"github.com/google/uuid"

	"whiteboard-studio/pkg/geometry"
)

// Type identifies the kind of element.
type Type string

const (
	TypeText    Type = "text"
	TypeSticky  Type = "sticky"
	TypeRect    Type = "rect"
	TypeEllipse Type = "ellipse"
	TypeLine    Type = "line"
	TypePen     Type = "pen"
)

// Align is horizontal text alignment inside an element box.
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// VerticalAlign is vertical text alignment inside an element box.
type VerticalAlign string

const (
	VAlignTop    VerticalAlign = "top"
	VAlignMiddle VerticalAlign = "middle"
	VAlignBottom VerticalAlign = "bottom"
)

// DefaultFontSize is the base font size for new text-bearing elements.
const DefaultFontSize = 16.0

// Element is a unit placed on the canvas. ID is unique and stable for the
// element's lifetime; X, Y is the top-left corner in world space. Width and
// Height are zero until a user sizes the element explicitly; zero means
// "auto-sized to content". Points are stored relative to (X, Y) so a move
// only touches the position fields.
type Element struct {
	ID   string `json:"id"`
	Type Type   `json:"type"`

	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`

	Points []geometry.Point2D `json:"points,omitempty"`

	Content           string        `json:"content,omitempty"`
	FontSize          float64       `json:"font_size,omitempty"`
	TextAlign         Align         `json:"text_align,omitempty"`
	TextVerticalAlign VerticalAlign `json:"text_vertical_align,omitempty"`

	// Fill enables text auto-fit: content scales to fill the box.
	Fill bool `json:"fill,omitempty"`

	Color      string `json:"color,omitempty"`
	Background string `json:"background,omitempty"`
}

// New creates an element of the given type at a world position, with
// per-type defaults matching what the toolbar produces.
func New(t Type, x, y float64) *Element {
	el := &Element{
		ID:   uuid.NewString(),
		Type: t,
		X:    x,
		Y:    y,
	}

	switch t {
	case TypeText:
		el.FontSize = DefaultFontSize
		el.TextAlign = AlignLeft
		el.TextVerticalAlign = VAlignTop
		el.Color = "#212121"
	case TypeSticky:
		el.Width = 200
		el.Height = 200
		el.FontSize = DefaultFontSize
		el.TextAlign = AlignCenter
		el.TextVerticalAlign = VAlignMiddle
		el.Fill = true
		el.Color = "#212121"
		el.Background = "#FFF59D"
	case TypeRect, TypeEllipse:
		el.Width = 160
		el.Height = 100
		el.Color = "#212121"
	case TypeLine:
		el.Points = []geometry.Point2D{{X: 0, Y: 0}, {X: 120, Y: 0}}
		el.Color = "#212121"
	case TypePen:
		el.Color = "#212121"
	}

	return el
}

// Clone returns a deep copy. History snapshots rely on clones never
// aliasing the original's slices.
func (e *Element) Clone() *Element {
	c := *e
	if e.Points != nil {
		c.Points = make([]geometry.Point2D, len(e.Points))
		copy(c.Points, e.Points)
	}
	return &c
}

// CloneAll deep-copies a slice of elements.
func CloneAll(els []*Element) []*Element {
	out := make([]*Element, len(els))
	for i, e := range els {
		out[i] = e.Clone()
	}
	return out
}

// Equal reports structural equality: every field compared by value.
func (e *Element) Equal(other *Element) bool {
	if e == nil || other == nil {
		return e == other
	}
	if e.ID != other.ID || e.Type != other.Type ||
		e.X != other.X || e.Y != other.Y ||
		e.Width != other.Width || e.Height != other.Height ||
		e.Content != other.Content || e.FontSize != other.FontSize ||
		e.TextAlign != other.TextAlign || e.TextVerticalAlign != other.TextVerticalAlign ||
		e.Fill != other.Fill || e.Color != other.Color || e.Background != other.Background {
		return false
	}
	if len(e.Points) != len(other.Points) {
		return false
	}
	for i := range e.Points {
		if e.Points[i] != other.Points[i] {
			return false
		}
	}
	return true
}

// SlicesEqual reports structural equality of two element slices, order
// included (order is paint order).
func SlicesEqual(a, b []*Element) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// FindByID returns the element with the given ID and its index, or
// (nil, -1) when absent.
func FindByID(els []*Element, id string) (*Element, int) {
	for i, e := range els {
		if e.ID == id {
			return e, i
		}
	}
	return nil, -1
}

// IDSet returns the set of IDs present in the slice.
func IDSet(els []*Element) map[string]bool {
	set := make(map[string]bool, len(els))
	for _, e := range els {
		set[e.ID] = true
	}
	return set
}
