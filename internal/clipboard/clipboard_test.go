package clipboard

import (
	"testing"

	"whiteboard-studio/internal/element"
	"whiteboard-studio/pkg/geometry"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	sticky := element.New(element.TypeSticky, 40, 60)
	sticky.Content = "copy me"
	pen := element.New(element.TypePen, 0, 0)
	pen.Points = []geometry.Point2D{{X: 0, Y: 0}, {X: 10, Y: 5}}
	src := []*element.Element{sticky, pen}

	text, err := Encode(src)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got, ok := Decode(text)
	if !ok {
		t.Fatal("payload did not decode")
	}
	if !element.SlicesEqual(got, src) {
		t.Error("elements did not survive the round trip")
	}
}

func TestEncodeEmpty(t *testing.T) {
	if _, err := Encode(nil); err == nil {
		t.Error("empty copy should error")
	}
}

func TestDecodeRejectsForeignText(t *testing.T) {
	cases := []struct {
		name string
		text string
	}{
		{"plain text", "just some words"},
		{"foreign json", `{"hello": "world"}`},
		{"wrong format tag", `{"format": "some-other-app/shapes", "elements": [{"id": "x"}]}`},
		{"empty elements", `{"format": "whiteboard-studio/elements", "elements": []}`},
		{"null elements", `{"format": "whiteboard-studio/elements", "elements": [null]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, ok := Decode(tc.text); ok {
				t.Error("foreign text decoded as elements")
			}
		})
	}
}

func TestPrepareForPaste(t *testing.T) {
	src := element.New(element.TypeRect, 100, 200)
	src.Width, src.Height = 50, 50

	pasted := PrepareForPaste([]*element.Element{src})
	if len(pasted) != 1 {
		t.Fatalf("got %d elements", len(pasted))
	}
	p := pasted[0]

	if p.ID == src.ID || p.ID == "" {
		t.Error("paste must mint a fresh ID")
	}
	if p.X != 100+PasteOffset || p.Y != 200+PasteOffset {
		t.Errorf("pasted at (%v, %v), want offset by %v", p.X, p.Y, PasteOffset)
	}

	// Repeated paste of the previous result keeps fanning out.
	again := PrepareForPaste(pasted)
	if again[0].X != 100+2*PasteOffset {
		t.Errorf("second paste at X=%v, want %v", again[0].X, 100+2*PasteOffset)
	}

	// Clones must not alias the source.
	p.Width = 999
	if src.Width != 50 {
		t.Error("paste aliases the source element")
	}
}
