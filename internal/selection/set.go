package selection

// Set is the current selection: element IDs with membership semantics.
// Insertion order is kept for stable iteration but carries no meaning.
type Set struct {
	ids []string
}

// NewSet creates an empty selection.
func NewSet() *Set {
	return &Set{}
}

// IDs returns a copy of the selected IDs.
func (s *Set) IDs() []string {
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

// Len returns the number of selected elements.
func (s *Set) Len() int {
	return len(s.ids)
}

// Contains reports membership.
func (s *Set) Contains(id string) bool {
	for _, v := range s.ids {
		if v == id {
			return true
		}
	}
	return false
}

// Clear empties the selection.
func (s *Set) Clear() {
	s.ids = s.ids[:0]
}

// Replace sets the selection to exactly the given IDs.
func (s *Set) Replace(ids []string) {
	s.ids = s.ids[:0]
	for _, id := range ids {
		s.Add(id)
	}
}

// Add inserts IDs not already present.
func (s *Set) Add(ids ...string) {
	for _, id := range ids {
		if !s.Contains(id) {
			s.ids = append(s.ids, id)
		}
	}
}

// Remove deletes IDs if present.
func (s *Set) Remove(ids ...string) {
	for _, id := range ids {
		for i, v := range s.ids {
			if v == id {
				s.ids = append(s.ids[:i], s.ids[i+1:]...)
				break
			}
		}
	}
}

// Toggle flips membership of a single ID.
func (s *Set) Toggle(id string) {
	if s.Contains(id) {
		s.Remove(id)
	} else {
		s.Add(id)
	}
}

// Apply folds marquee hits into the selection according to the modifier
// captured at marquee start: replace, union (Shift), or subtract (Ctrl).
func (s *Set) Apply(hits []string, mod Modifier) {
	switch mod {
	case ModifierShift:
		s.Add(hits...)
	case ModifierCtrl:
		s.Remove(hits...)
	default:
		s.Replace(hits)
	}
}

// Prune drops IDs for elements that no longer exist. The selection is
// always a subset of live element IDs.
func (s *Set) Prune(exists map[string]bool) {
	kept := s.ids[:0]
	for _, id := range s.ids {
		if exists[id] {
			kept = append(kept, id)
		}
	}
	s.ids = kept
}
