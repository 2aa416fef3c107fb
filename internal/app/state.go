// Package app provides application lifecycle management, state, and events.
package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"whiteboard-studio/internal/clipboard"
	"whiteboard-studio/internal/document"
	"whiteboard-studio/internal/element"
	"whiteboard-studio/internal/history"
	"whiteboard-studio/internal/interaction"
	"whiteboard-studio/internal/selection"
	"whiteboard-studio/internal/textfit"
	"whiteboard-studio/internal/viewport"
	"whiteboard-studio/pkg/geometry"
)

// State holds the application state: the open board, its edit history,
// selection, viewport, and the event bus the UI hangs off.
//
// The history store, selection set, and controller are owned by the UI
// thread. The mutex guards the board metadata, viewport, and measured
// bounds, which background goroutines (autosave) may read.
type State struct {
	mu sync.RWMutex

	// Board
	BoardPath string
	Modified  bool

	boardID  string
	name     string
	created  time.Time
	settings document.BoardSettings

	hist   *history.Store
	sel    *selection.Set
	ctrl   *interaction.Controller
	fitter *textfit.Fitter

	// Optional local board library, nil until opened
	library *document.Store

	view     viewport.Viewport
	measured map[string]geometry.Rect

	// Last effective font size per fill-mode element, reported by the
	// fitter as the renderer draws
	fitted map[string]float64

	// Erase gesture bracketing, see BeginErase
	erasing   bool
	erasedAny bool

	// Event listeners
	listeners map[EventType][]EventListener
}

// EventType identifies different application events.
type EventType int

const (
	EventBoardLoaded EventType = iota
	EventBoardSaved
	EventElementsChanged
	EventSelectionChanged
	EventHistoryChanged
	EventViewportChanged
	EventModified
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// NewState creates a new application state with an empty untitled board.
func NewState() (*State, error) {
	fitter, err := textfit.NewFitter()
	if err != nil {
		return nil, fmt.Errorf("text measurement: %w", err)
	}

	s := &State{
		boardID:   uuid.NewString(),
		name:      "Untitled Board",
		created:   time.Now(),
		settings:  document.BoardSettings{SnapToGuides: true},
		hist:      history.NewStore([]*element.Element{}),
		sel:       selection.NewSet(),
		fitter:    fitter,
		view:      viewport.New(geometry.NewRect(0, 0, 1280, 800)),
		measured:  map[string]geometry.Rect{},
		fitted:    map[string]float64{},
		listeners: make(map[EventType][]EventListener),
	}

	fitter.SetOnFontSize(func(id string, size float64) {
		s.mu.Lock()
		s.fitted[id] = size
		s.mu.Unlock()
	})

	s.ctrl = interaction.NewController(s.hist, s.sel, s.Viewport, s.ElementBounds)
	s.ctrl.SetSnapEnabled(true)
	s.ctrl.SetOnSelectionChanged(func() {
		s.Emit(EventSelectionChanged, s.sel.IDs())
	})
	s.ctrl.SetOnElementsChanged(func() {
		s.SetModified(true)
		s.Emit(EventElementsChanged, nil)
	})
	s.ctrl.SetOnGestureEnd(func() {
		s.Emit(EventHistoryChanged, nil)
	})

	return s, nil
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// SetModified marks the board as modified and emits an event.
func (s *State) SetModified(modified bool) {
	s.mu.Lock()
	s.Modified = modified
	s.mu.Unlock()
	s.Emit(EventModified, modified)
}

// History returns the undo/redo store. UI thread only.
func (s *State) History() *history.Store { return s.hist }

// Selection returns the selection set. UI thread only.
func (s *State) Selection() *selection.Set { return s.sel }

// Controller returns the pointer gesture controller. UI thread only.
func (s *State) Controller() *interaction.Controller { return s.ctrl }

// Fitter returns the shared text measurement engine.
func (s *State) Fitter() *textfit.Fitter { return s.fitter }

// EffectiveFontSize returns the last fitted font size reported for a
// fill-mode element, so turning fill off can keep the size on screen.
func (s *State) EffectiveFontSize(id string) (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	size, ok := s.fitted[id]
	return size, ok
}

// Elements returns the authoritative current element slice. Treat as
// read-only; all edits go through the state or the controller.
func (s *State) Elements() []*element.Element { return s.hist.Present() }

// Name returns the board's display name.
func (s *State) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

// SetName renames the board.
func (s *State) SetName(name string) {
	s.mu.Lock()
	s.name = name
	s.mu.Unlock()
	s.SetModified(true)
}

// BoardID returns the board's identity in the local library.
func (s *State) BoardID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.boardID
}

// Viewport returns the current view mapping.
func (s *State) Viewport() viewport.Viewport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view
}

// SetViewport replaces the view mapping. Pan or zoom changes mark the
// board modified so the restored view persists; pure relayout (client
// rect or viewBox) does not.
func (s *State) SetViewport(v viewport.Viewport) {
	s.mu.Lock()
	moved := v.Pan != s.view.Pan || v.Zoom != s.view.Zoom
	s.view = v
	s.mu.Unlock()

	if moved {
		s.SetModified(true)
	}
	s.Emit(EventViewportChanged, v)
}

// SetMeasuredBounds stores the per-element bounds the renderer measured
// on the last frame. Auto-sized text hit-testing depends on these.
func (s *State) SetMeasuredBounds(m map[string]geometry.Rect) {
	s.mu.Lock()
	s.measured = m
	s.mu.Unlock()
}

// ElementBounds resolves an element's world bounds, consulting the
// measured cache for auto-sized elements.
func (s *State) ElementBounds(e *element.Element) geometry.Rect {
	s.mu.RLock()
	m := s.measured
	s.mu.RUnlock()
	return element.Bounds(e, m)
}

// SnapToGuides reports whether alignment snapping is enabled.
func (s *State) SnapToGuides() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings.SnapToGuides
}

// SetSnapToGuides toggles alignment snapping for moves.
func (s *State) SetSnapToGuides(enabled bool) {
	s.mu.Lock()
	s.settings.SnapToGuides = enabled
	s.mu.Unlock()

	s.ctrl.SetSnapEnabled(enabled)
	s.SetModified(true)
}

// Background returns the board background as a hex color string, empty
// for the default white.
func (s *State) Background() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings.Background
}

// SetBackground changes the board background color.
func (s *State) SetBackground(hex string) {
	s.mu.Lock()
	changed := s.settings.Background != hex
	s.settings.Background = hex
	s.mu.Unlock()

	if changed {
		s.SetModified(true)
	}
}

// Path returns the board's file path, empty for an unsaved board. Safe
// to call from background goroutines.
func (s *State) Path() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.BoardPath
}

// NewBoard resets the state to a fresh empty board.
func (s *State) NewBoard(name string) {
	s.ctrl.CancelGesture()

	s.mu.Lock()
	s.BoardPath = ""
	s.Modified = false
	s.boardID = uuid.NewString()
	s.name = name
	s.created = time.Now()
	s.settings = document.BoardSettings{SnapToGuides: true}
	s.view.Pan = geometry.Point2D{}
	s.view.Zoom = 1
	s.measured = map[string]geometry.Rect{}
	s.fitted = map[string]float64{}
	s.mu.Unlock()

	s.hist.Replace([]*element.Element{})
	s.sel.Clear()
	s.ctrl.SetSnapEnabled(true)
	s.fitter.Reset()

	s.Emit(EventBoardLoaded, "")
}

// LoadBoard loads a board from the specified path.
func (s *State) LoadBoard(path string) error {
	b, err := document.Load(path)
	if err != nil {
		return err
	}

	s.ctrl.CancelGesture()

	s.mu.Lock()
	s.BoardPath = path
	s.Modified = false
	s.boardID = uuid.NewString()
	s.name = b.Name
	s.created = b.Created
	s.settings = b.Settings
	s.view.Pan = b.Pan
	s.view.Zoom = b.Zoom
	s.measured = map[string]geometry.Rect{}
	s.fitted = map[string]float64{}
	s.mu.Unlock()

	s.hist.Replace(b.Elements)
	s.sel.Clear()
	s.ctrl.SetSnapEnabled(b.Settings.SnapToGuides)
	s.fitter.Reset()

	s.Emit(EventBoardLoaded, path)
	return nil
}

// SaveBoard saves the board to the specified path.
func (s *State) SaveBoard(path string) error {
	b := s.snapshot()
	if b.Name == "" {
		b.Name = strings.TrimSuffix(filepath.Base(path), document.Extension)
	}

	if err := b.Save(path); err != nil {
		return err
	}

	s.mu.Lock()
	s.BoardPath = path
	s.name = b.Name
	s.created = b.Created
	s.Modified = false
	s.mu.Unlock()

	s.Emit(EventBoardSaved, path)
	return nil
}

// snapshot assembles the serializable form of the current board.
func (s *State) snapshot() *document.BoardFile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	created := s.created
	if created.IsZero() {
		created = time.Now()
	}

	return &document.BoardFile{
		Version:  document.FileVersion,
		Name:     s.name,
		Created:  created,
		Pan:      s.view.Pan,
		Zoom:     s.view.Zoom,
		Elements: element.CloneAll(s.hist.Present()),
		Settings: s.settings,
	}
}

// OpenLibrary opens (or creates) the local board library at dbPath.
func (s *State) OpenLibrary(dbPath string) error {
	store, err := document.OpenStore(dbPath)
	if err != nil {
		return err
	}

	s.mu.Lock()
	old := s.library
	s.library = store
	s.mu.Unlock()

	if old != nil {
		old.Close()
	}
	return nil
}

// Library returns the open board library, or nil.
func (s *State) Library() *document.Store {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.library
}

// CloseLibrary closes the board library if one is open.
func (s *State) CloseLibrary() error {
	s.mu.Lock()
	store := s.library
	s.library = nil
	s.mu.Unlock()

	if store == nil {
		return nil
	}
	return store.Close()
}

// SaveToLibrary upserts the current board into the local library under
// its board ID.
func (s *State) SaveToLibrary(ctx context.Context) error {
	lib := s.Library()
	if lib == nil {
		return errors.New("no board library open")
	}

	b := s.snapshot()
	b.Modified = time.Now()
	if err := lib.Put(ctx, s.BoardID(), b); err != nil {
		return err
	}

	s.SetModified(false)
	s.Emit(EventBoardSaved, s.BoardID())
	return nil
}

// LoadFromLibrary replaces the current board with one from the library.
func (s *State) LoadFromLibrary(ctx context.Context, id string) error {
	lib := s.Library()
	if lib == nil {
		return errors.New("no board library open")
	}

	b, err := lib.Get(ctx, id)
	if err != nil {
		return err
	}

	s.ctrl.CancelGesture()

	s.mu.Lock()
	s.BoardPath = ""
	s.Modified = false
	s.boardID = id
	s.name = b.Name
	s.created = b.Created
	s.settings = b.Settings
	s.view.Pan = b.Pan
	s.view.Zoom = b.Zoom
	s.measured = map[string]geometry.Rect{}
	s.fitted = map[string]float64{}
	s.mu.Unlock()

	s.hist.Replace(b.Elements)
	s.sel.Clear()
	s.ctrl.SetSnapEnabled(b.Settings.SnapToGuides)
	s.fitter.Reset()

	s.Emit(EventBoardLoaded, id)
	return nil
}

// AddElement appends an element to the board, selects it, and records
// one undo step.
func (s *State) AddElement(el *element.Element) {
	s.hist.SetElements(func(cur []*element.Element) []*element.Element {
		return append(element.CloneAll(cur), el)
	}, history.Options{})

	s.sel.Replace([]string{el.ID})
	s.elementsEdited()
	s.Emit(EventSelectionChanged, s.sel.IDs())
}

// AddElementAt creates an element of the given type at a world position
// with toolbar defaults, and adds it to the board.
func (s *State) AddElementAt(t element.Type, p geometry.Point2D) *element.Element {
	el := element.New(t, p.X, p.Y)
	s.AddElement(el)
	return el
}

// UpdateElement applies a mutation to one element as a single undo step.
// Returns false when the element is missing or the mutation was a no-op.
func (s *State) UpdateElement(id string, mutate func(*element.Element)) bool {
	changed := s.hist.SetElements(mutateUpdater(id, mutate), history.Options{})
	if changed {
		s.elementsEdited()
	}
	return changed
}

// UpdateElementLive applies a mutation without recording history. Used
// for the intermediate frames of a pen stroke or live text preview; the
// gesture is expected to have pushed one undo step up front.
func (s *State) UpdateElementLive(id string, mutate func(*element.Element)) {
	s.hist.SetElements(mutateUpdater(id, mutate), history.Options{SkipHistory: true})
	s.SetModified(true)
	s.Emit(EventElementsChanged, nil)
}

// DeleteSelected removes every selected element as one undo step.
// Returns the number of elements removed.
func (s *State) DeleteSelected() int {
	ids := s.sel.IDs()
	if len(ids) == 0 {
		return 0
	}

	before := len(s.hist.Present())
	s.hist.SetElements(removeUpdater(ids), history.Options{})
	removed := before - len(s.hist.Present())

	s.sel.Clear()
	s.elementsEdited()
	s.Emit(EventSelectionChanged, s.sel.IDs())
	return removed
}

// BeginErase opens an erase gesture so a whole eraser stroke lands in a
// single undo step. Pair with EndErase.
func (s *State) BeginErase() {
	s.erasing = true
	s.erasedAny = false
}

// EndErase closes an erase gesture started with BeginErase.
func (s *State) EndErase() {
	if s.erasedAny {
		s.Emit(EventHistoryChanged, nil)
	}
	s.erasing = false
	s.erasedAny = false
}

// EraseAt removes the elements whose geometry lies within radius of a
// world point. Returns the number removed.
func (s *State) EraseAt(p geometry.Point2D, radius float64) int {
	var ids []string
	for _, e := range s.hist.Present() {
		if element.HitGeometry(e, p, radius, s.ElementBounds(e)) {
			ids = append(ids, e.ID)
		}
	}
	return s.eraseElements(ids)
}

// EraseSweep removes the elements whose geometry intersects a world
// rect, covering the region between two eraser samples so fast strokes
// do not skip over thin elements.
func (s *State) EraseSweep(r geometry.Rect) int {
	var ids []string
	for _, e := range s.hist.Present() {
		if element.SweepGeometry(e, r, s.ElementBounds(e)) {
			ids = append(ids, e.ID)
		}
	}
	return s.eraseElements(ids)
}

// eraseElements removes ids under the active erase gesture's history
// policy: one push for the whole gesture, or a normal undo step when no
// gesture is open.
func (s *State) eraseElements(ids []string) int {
	if len(ids) == 0 {
		return 0
	}

	before := len(s.hist.Present())
	if s.erasing {
		if !s.erasedAny {
			s.hist.SetElements(nil, history.Options{PushToPast: true})
			s.erasedAny = true
		}
		s.hist.SetElements(removeUpdater(ids), history.Options{SkipHistory: true})
	} else {
		s.hist.SetElements(removeUpdater(ids), history.Options{})
	}
	removed := before - len(s.hist.Present())

	s.sel.Remove(ids...)
	s.SetModified(true)
	s.Emit(EventElementsChanged, nil)
	if !s.erasing {
		s.Emit(EventHistoryChanged, nil)
	}
	s.Emit(EventSelectionChanged, s.sel.IDs())
	return removed
}

// Undo steps the board back one edit. Selection is pruned to elements
// that still exist.
func (s *State) Undo() bool {
	if !s.hist.Undo() {
		return false
	}
	s.afterHistoryJump()
	return true
}

// Redo steps the board forward one edit.
func (s *State) Redo() bool {
	if !s.hist.Redo() {
		return false
	}
	s.afterHistoryJump()
	return true
}

// CanUndo reports whether an undo step exists.
func (s *State) CanUndo() bool { return s.hist.CanUndo() }

// CanRedo reports whether a redo step exists.
func (s *State) CanRedo() bool { return s.hist.CanRedo() }

func (s *State) afterHistoryJump() {
	s.sel.Prune(element.IDSet(s.hist.Present()))
	s.SetModified(true)
	s.Emit(EventElementsChanged, nil)
	s.Emit(EventHistoryChanged, nil)
	s.Emit(EventSelectionChanged, s.sel.IDs())
}

// SelectAll selects every element on the board.
func (s *State) SelectAll() {
	els := s.hist.Present()
	ids := make([]string, 0, len(els))
	for _, e := range els {
		ids = append(ids, e.ID)
	}
	s.sel.Replace(ids)
	s.Emit(EventSelectionChanged, s.sel.IDs())
}

// ClearSelection deselects everything.
func (s *State) ClearSelection() {
	if s.sel.Len() == 0 {
		return
	}
	s.sel.Clear()
	s.Emit(EventSelectionChanged, s.sel.IDs())
}

// SelectedElements returns the selected elements in board order.
func (s *State) SelectedElements() []*element.Element {
	var out []*element.Element
	for _, e := range s.hist.Present() {
		if s.sel.Contains(e.ID) {
			out = append(out, e)
		}
	}
	return out
}

// CopySelection serializes the selected elements to the system
// clipboard.
func (s *State) CopySelection() error {
	els := s.SelectedElements()
	if len(els) == 0 {
		return errors.New("nothing selected")
	}
	return clipboard.Copy(els)
}

// PasteFromClipboard inserts the clipboard's elements with fresh IDs at
// a small offset, and selects them.
func (s *State) PasteFromClipboard() error {
	els, err := clipboard.Paste()
	if err != nil {
		return err
	}
	s.insertElements(clipboard.PrepareForPaste(els))
	return nil
}

// DuplicateSelection clones the selected elements in place, offset like
// a paste. Returns the new element IDs.
func (s *State) DuplicateSelection() []string {
	els := s.SelectedElements()
	if len(els) == 0 {
		return nil
	}
	dup := clipboard.PrepareForPaste(els)
	s.insertElements(dup)

	ids := make([]string, len(dup))
	for i, e := range dup {
		ids[i] = e.ID
	}
	return ids
}

// insertElements appends pre-cloned elements as one undo step and
// selects them.
func (s *State) insertElements(els []*element.Element) {
	if len(els) == 0 {
		return
	}

	s.hist.SetElements(func(cur []*element.Element) []*element.Element {
		return append(element.CloneAll(cur), els...)
	}, history.Options{})

	ids := make([]string, len(els))
	for i, e := range els {
		ids[i] = e.ID
	}
	s.sel.Replace(ids)
	s.elementsEdited()
	s.Emit(EventSelectionChanged, s.sel.IDs())
}

// elementsEdited emits the events every history-visible edit produces.
func (s *State) elementsEdited() {
	s.SetModified(true)
	s.Emit(EventElementsChanged, nil)
	s.Emit(EventHistoryChanged, nil)
}

// mutateUpdater clones the slice and mutates the element with the given
// ID, if present.
func mutateUpdater(id string, mutate func(*element.Element)) history.Updater {
	return func(cur []*element.Element) []*element.Element {
		next := element.CloneAll(cur)
		if e, _ := element.FindByID(next, id); e != nil {
			mutate(e)
		}
		return next
	}
}

// removeUpdater drops the elements with the given IDs.
func removeUpdater(ids []string) history.Updater {
	return func(cur []*element.Element) []*element.Element {
		drop := make(map[string]bool, len(ids))
		for _, id := range ids {
			drop[id] = true
		}
		next := make([]*element.Element, 0, len(cur))
		for _, e := range cur {
			if !drop[e.ID] {
				next = append(next, e.Clone())
			}
		}
		return next
	}
}
