// Package clipboard moves elements through the system clipboard as a
// tagged JSON payload. Encoding and decoding are pure so they stay
// testable without a display server; only Copy and Paste touch the
// system clipboard.
package clipboard

import (
	"encoding/json"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/google/uuid"

	"whiteboard-studio/internal/element"
)

// PasteOffset shifts pasted elements down-right so they never land
// exactly on their originals.
const PasteOffset = 16.0

const formatTag = "whiteboard-studio/elements"

type payload struct {
	Format   string             `json:"format"`
	Elements []*element.Element `json:"elements"`
}

// Encode serializes elements for the clipboard.
func Encode(els []*element.Element) (string, error) {
	if len(els) == 0 {
		return "", fmt.Errorf("nothing to copy")
	}
	data, err := json.Marshal(payload{Format: formatTag, Elements: els})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Decode parses clipboard text. The second return is false when the text
// is not a whiteboard payload; what to do with foreign text is the
// caller's business.
func Decode(text string) ([]*element.Element, bool) {
	var p payload
	if err := json.Unmarshal([]byte(text), &p); err != nil {
		return nil, false
	}
	if p.Format != formatTag {
		return nil, false
	}

	var els []*element.Element
	for _, e := range p.Elements {
		if e != nil {
			els = append(els, e)
		}
	}
	if len(els) == 0 {
		return nil, false
	}
	return els, true
}

// PrepareForPaste clones elements with fresh IDs, offset down-right.
// Feeding a paste's output back in offsets the next paste again, so
// repeated pastes fan out diagonally.
func PrepareForPaste(els []*element.Element) []*element.Element {
	out := make([]*element.Element, 0, len(els))
	for _, e := range els {
		c := e.Clone()
		c.ID = uuid.NewString()
		c.X += PasteOffset
		c.Y += PasteOffset
		out = append(out, c)
	}
	return out
}

// Copy puts elements on the system clipboard.
func Copy(els []*element.Element) error {
	text, err := Encode(els)
	if err != nil {
		return err
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	return nil
}

// Paste reads elements from the system clipboard.
func Paste() ([]*element.Element, error) {
	text, err := clipboard.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read clipboard: %w", err)
	}
	els, ok := Decode(text)
	if !ok {
		return nil, fmt.Errorf("clipboard has no board elements")
	}
	return els, nil
}
