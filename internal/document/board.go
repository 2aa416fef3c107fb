// Package document persists boards: a JSON interchange format (.wboard)
// and a SQLite library of local boards.
package document

import (
	"encoding/json"
	"math"
	"os"
	"time"

	"github.com/google/uuid"

	"whiteboard-studio/internal/element"
	"whiteboard-studio/pkg/geometry"
)

// Extension is the board file extension.
const Extension = ".wboard"

// FileVersion is written to every saved board.
const FileVersion = 1

// BoardFile is the serialized form of a whiteboard.
type BoardFile struct {
	Version  int       `json:"version"`
	Name     string    `json:"name"`
	Created  time.Time `json:"created"`
	Modified time.Time `json:"modified"`

	// Last viewport, restored on open.
	Pan  geometry.Point2D `json:"pan"`
	Zoom float64          `json:"zoom"`

	Elements []*element.Element `json:"elements"`

	Settings BoardSettings `json:"settings,omitempty"`
}

// BoardSettings holds per-board preferences.
type BoardSettings struct {
	SnapToGuides bool   `json:"snap_to_guides"`
	Background   string `json:"background,omitempty"`
}

// New creates an empty board with default settings.
func New(name string) *BoardFile {
	now := time.Now()
	return &BoardFile{
		Version:  FileVersion,
		Name:     name,
		Created:  now,
		Modified: now,
		Zoom:     1,
		Elements: []*element.Element{},
		Settings: BoardSettings{SnapToGuides: true},
	}
}

// Load reads a board from a .wboard file. Foreign data is sanitized, not
// rejected: a hand-edited file with a bad zoom or missing element IDs
// still opens.
func Load(path string) (*BoardFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var b BoardFile
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, err
	}

	b.sanitize()
	return &b, nil
}

// Save writes the board to a file, bumping the modified stamp.
func (b *BoardFile) Save(path string) error {
	b.Modified = time.Now()

	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

func (b *BoardFile) sanitize() {
	if b.Zoom <= 0 || math.IsNaN(b.Zoom) || math.IsInf(b.Zoom, 0) {
		b.Zoom = 1
	}
	if !b.Pan.Finite() {
		b.Pan = geometry.Point2D{}
	}

	kept := b.Elements[:0]
	seen := make(map[string]bool)
	for _, e := range b.Elements {
		if e == nil {
			continue
		}
		if e.ID == "" || seen[e.ID] {
			e.ID = uuid.NewString()
		}
		seen[e.ID] = true
		kept = append(kept, e)
	}
	b.Elements = kept
	if b.Elements == nil {
		b.Elements = []*element.Element{}
	}
}
