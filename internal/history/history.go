// Package history implements the bounded undo/redo store over the board's
// element slice. The store is deliberately drag-aware: a gesture pushes
// one snapshot up front and streams the intermediate frames past the
// history, so undo always jumps to the pre-gesture state.
package history

import (
	"whiteboard-studio/internal/element"
)

// maxHistory bounds both stacks. Oldest entries are dropped silently;
// infinite undo is not guaranteed.
const maxHistory = 50

// Updater produces the next element slice from the current one. It must
// not mutate its argument; return fresh or cloned elements instead.
type Updater func(current []*element.Element) []*element.Element

// Options control how SetElements interacts with the undo stacks.
type Options struct {
	// SkipHistory replaces present without touching past or future.
	// Used for every intermediate frame of a drag or resize.
	SkipHistory bool

	// PushToPast snapshots present onto past without changing present,
	// clearing future. Used exactly once at the start of a gesture.
	PushToPast bool
}

// Store holds {past, present, future}. It is owned by the UI thread; the
// app state layer guards cross-thread access.
type Store struct {
	past    [][]*element.Element
	present []*element.Element
	future  [][]*element.Element
}

// NewStore creates a store with the given initial present state.
func NewStore(initial []*element.Element) *Store {
	return &Store{present: initial}
}

// Present returns the authoritative current element slice. Callers must
// treat it as read-only; all writes go through SetElements.
func (s *Store) Present() []*element.Element {
	return s.present
}

// CanUndo reports whether an undo step exists.
func (s *Store) CanUndo() bool { return len(s.past) > 0 }

// CanRedo reports whether a redo step exists.
func (s *Store) CanRedo() bool { return len(s.future) > 0 }

// Depth returns the number of undo entries.
func (s *Store) Depth() int { return len(s.past) }

// SetElements applies an updater to present under the given options.
// With neither flag set, a structurally-equal result is a no-op so null
// edits never pollute the history. Returns true if anything changed.
func (s *Store) SetElements(update Updater, opts Options) bool {
	if opts.PushToPast {
		s.pushPast(element.CloneAll(s.present))
		s.future = nil
		return true
	}

	next := update(s.present)

	if opts.SkipHistory {
		s.present = next
		return true
	}

	if element.SlicesEqual(next, s.present) {
		return false
	}

	s.pushPast(element.CloneAll(s.present))
	s.present = next
	s.future = nil
	return true
}

// Undo moves the newest past entry into present, pushing the old present
// onto the front of future. No-op when past is empty.
func (s *Store) Undo() bool {
	if len(s.past) == 0 {
		return false
	}

	prev := s.past[len(s.past)-1]
	s.past = s.past[:len(s.past)-1]

	s.pushFuture(element.CloneAll(s.present))
	s.present = prev
	return true
}

// Redo is the inverse of Undo. No-op when future is empty.
func (s *Store) Redo() bool {
	if len(s.future) == 0 {
		return false
	}

	next := s.future[0]
	s.future = s.future[1:]

	s.pushPast(element.CloneAll(s.present))
	s.present = next
	return true
}

// Replace overwrites the whole store with a fresh state, e.g. when
// switching documents. It bypasses the equality check and clears both
// stacks unconditionally.
func (s *Store) Replace(elements []*element.Element) {
	s.past = nil
	s.future = nil
	s.present = elements
}

// pushPast appends a snapshot, dropping the oldest entry beyond the cap.
func (s *Store) pushPast(snapshot []*element.Element) {
	s.past = append(s.past, snapshot)
	if len(s.past) > maxHistory {
		s.past = s.past[1:]
	}
}

// pushFuture prepends a snapshot, dropping the deepest redo beyond the cap.
func (s *Store) pushFuture(snapshot []*element.Element) {
	s.future = append([][]*element.Element{snapshot}, s.future...)
	if len(s.future) > maxHistory {
		s.future = s.future[:maxHistory]
	}
}
