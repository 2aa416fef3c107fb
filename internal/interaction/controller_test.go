package interaction

import (
	"sort"
	"testing"

	"whiteboard-studio/internal/element"
	"whiteboard-studio/internal/history"
	"whiteboard-studio/internal/selection"
	"whiteboard-studio/internal/viewport"
	"whiteboard-studio/pkg/geometry"
)

func box(id string, x, y, w, h float64) *element.Element {
	return &element.Element{ID: id, Type: element.TypeRect, X: x, Y: y, Width: w, Height: h}
}

// testRig runs a controller over an identity viewport: client coordinates
// equal world coordinates, zoom 1.
type testRig struct {
	ctrl *Controller
	hist *history.Store
	sel  *selection.Set
}

func newRig(els []*element.Element) *testRig {
	hist := history.NewStore(els)
	sel := selection.NewSet()
	view := func() viewport.Viewport {
		return viewport.New(geometry.NewRect(0, 0, 800, 600))
	}
	bounds := func(e *element.Element) geometry.Rect {
		return element.Bounds(e, nil)
	}
	return &testRig{ctrl: NewController(hist, sel, view, bounds), hist: hist, sel: sel}
}

func (r *testRig) down(x, y float64, mod selection.Modifier) {
	r.ctrl.PointerDown(PointerEvent{Client: geometry.Point2D{X: x, Y: y}, Modifier: mod, Primary: true})
}

func (r *testRig) move(x, y float64, mod selection.Modifier) {
	r.ctrl.PointerMove(PointerEvent{Client: geometry.Point2D{X: x, Y: y}, Modifier: mod, Primary: true})
	r.ctrl.FlushMoves()
}

func (r *testRig) up(x, y float64, mod selection.Modifier) {
	r.ctrl.PointerUp(PointerEvent{Client: geometry.Point2D{X: x, Y: y}, Modifier: mod})
}

func (r *testRig) element(t *testing.T, id string) *element.Element {
	t.Helper()
	e, _ := element.FindByID(r.hist.Present(), id)
	if e == nil {
		t.Fatalf("element %s not found", id)
	}
	return e
}

func (r *testRig) wantSelected(t *testing.T, want ...string) {
	t.Helper()
	got := r.sel.IDs()
	sort.Strings(got)
	sort.Strings(want)
	if len(got) != len(want) {
		t.Fatalf("selection = %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("selection = %v, want %v", got, want)
		}
	}
}

func TestClickSelectsTopmost(t *testing.T) {
	rig := newRig([]*element.Element{
		box("under", 0, 0, 100, 100),
		box("over", 50, 50, 100, 100),
	})

	rig.down(75, 75, selection.ModifierNone)
	rig.wantSelected(t, "over")
	rig.up(75, 75, selection.ModifierNone)
	rig.wantSelected(t, "over")

	if rig.hist.Depth() != 0 {
		t.Errorf("plain click created %d history entries", rig.hist.Depth())
	}
}

func TestClickEmptySpaceClearsImmediately(t *testing.T) {
	rig := newRig([]*element.Element{box("a", 0, 0, 100, 50)})
	rig.sel.Replace([]string{"a"})

	rig.down(400, 400, selection.ModifierNone)
	rig.wantSelected(t) // cleared at pointer-down, not at release

	rig.up(400, 400, selection.ModifierNone)
	rig.wantSelected(t)
	if rig.hist.Depth() != 0 {
		t.Errorf("empty click created history entries")
	}
}

func TestShiftClickTogglesImmediately(t *testing.T) {
	rig := newRig([]*element.Element{
		box("a", 0, 0, 100, 50),
		box("b", 200, 0, 100, 50),
	})
	rig.sel.Replace([]string{"a"})

	rig.down(250, 25, selection.ModifierShift)
	rig.wantSelected(t, "a", "b")
	rig.up(250, 25, selection.ModifierShift)
	rig.wantSelected(t, "a", "b")

	rig.down(250, 25, selection.ModifierShift)
	rig.wantSelected(t, "a")
	rig.up(250, 25, selection.ModifierShift)
	rig.wantSelected(t, "a")
}

func TestClickNarrowsGroupOnlyWithoutMovement(t *testing.T) {
	rig := newRig([]*element.Element{
		box("a", 0, 0, 100, 50),
		box("b", 200, 0, 100, 50),
	})
	rig.sel.Replace([]string{"a", "b"})

	// No movement: the press keeps the group, the release narrows to "a".
	rig.down(50, 25, selection.ModifierNone)
	rig.wantSelected(t, "a", "b")
	rig.up(50, 25, selection.ModifierNone)
	rig.wantSelected(t, "a")

	// With movement: the whole group moves and stays selected.
	rig.sel.Replace([]string{"a", "b"})
	rig.down(50, 25, selection.ModifierNone)
	rig.move(55, 30, selection.ModifierNone)
	rig.up(55, 30, selection.ModifierNone)
	rig.wantSelected(t, "a", "b")

	if e := rig.element(t, "a"); e.X != 5 || e.Y != 5 {
		t.Errorf("a at (%v, %v), want (5, 5)", e.X, e.Y)
	}
	if e := rig.element(t, "b"); e.X != 205 || e.Y != 5 {
		t.Errorf("b at (%v, %v), want (205, 5)", e.X, e.Y)
	}
}

func TestJitterBelowEpsilonIsAClick(t *testing.T) {
	rig := newRig([]*element.Element{box("a", 0, 0, 100, 50)})

	rig.down(50, 25, selection.ModifierNone)
	rig.move(50.05, 25.05, selection.ModifierNone)
	rig.up(50.05, 25.05, selection.ModifierNone)

	if e := rig.element(t, "a"); e.X != 0 || e.Y != 0 {
		t.Errorf("jitter moved element to (%v, %v)", e.X, e.Y)
	}
	if rig.hist.Depth() != 0 {
		t.Errorf("jitter created %d history entries", rig.hist.Depth())
	}
}

func TestDragWritesOneHistoryEntry(t *testing.T) {
	rig := newRig([]*element.Element{box("a", 0, 0, 100, 50)})

	rig.down(50, 25, selection.ModifierNone)
	for i := 1; i <= 20; i++ {
		rig.move(50+float64(i), 25+float64(i), selection.ModifierNone)
	}
	rig.up(70, 45, selection.ModifierNone)

	if rig.hist.Depth() != 1 {
		t.Fatalf("drag created %d history entries, want 1", rig.hist.Depth())
	}
	if e := rig.element(t, "a"); e.X != 20 || e.Y != 20 {
		t.Errorf("a at (%v, %v), want (20, 20)", e.X, e.Y)
	}

	rig.hist.Undo()
	if e := rig.element(t, "a"); e.X != 0 || e.Y != 0 {
		t.Errorf("undo left a at (%v, %v), want (0, 0)", e.X, e.Y)
	}
}

func TestMoveUsesAbsoluteDeltaNotAccumulation(t *testing.T) {
	rig := newRig([]*element.Element{box("a", 0, 0, 100, 50)})

	rig.down(50, 25, selection.ModifierNone)
	rig.move(60, 25, selection.ModifierNone)
	rig.move(55, 25, selection.ModifierNone) // partial retreat
	rig.move(58, 25, selection.ModifierNone)
	rig.up(58, 25, selection.ModifierNone)

	if e := rig.element(t, "a"); e.X != 8 {
		t.Errorf("a.X = %v, want 8 (anchor-relative, not accumulated)", e.X)
	}
}

func TestMarqueeSelectionAlgebra(t *testing.T) {
	els := []*element.Element{
		box("a", 0, 0, 100, 50),
		box("b", 200, 0, 100, 50),
		box("c", 500, 500, 40, 40),
	}

	t.Run("replace", func(t *testing.T) {
		rig := newRig(element.CloneAll(els))
		rig.sel.Replace([]string{"c"})
		rig.down(150, 400, selection.ModifierNone)
		rig.move(40, 20, selection.ModifierNone)
		rig.up(40, 20, selection.ModifierNone)
		rig.wantSelected(t, "a")
	})

	t.Run("shift unions", func(t *testing.T) {
		rig := newRig(element.CloneAll(els))
		rig.sel.Replace([]string{"a"})
		rig.down(180, 100, selection.ModifierShift)
		rig.move(320, 20, selection.ModifierShift)
		rig.up(320, 20, selection.ModifierShift)
		rig.wantSelected(t, "a", "b")
	})

	t.Run("ctrl subtracts", func(t *testing.T) {
		rig := newRig(element.CloneAll(els))
		rig.sel.Replace([]string{"a", "b", "c"})
		rig.down(150, 100, selection.ModifierCtrl)
		rig.move(-10, -10, selection.ModifierCtrl)
		rig.up(-10, -10, selection.ModifierCtrl)
		rig.wantSelected(t, "b", "c")
	})
}

func TestMarqueeModifierCapturedAtStart(t *testing.T) {
	rig := newRig([]*element.Element{
		box("a", 0, 0, 100, 50),
		box("b", 310, 310, 50, 30),
	})
	rig.sel.Replace([]string{"a"})

	// Shift at press, released mid-drag: the union still applies.
	rig.down(300, 300, selection.ModifierShift)
	rig.move(420, 360, selection.ModifierNone)
	rig.up(420, 360, selection.ModifierNone)
	rig.wantSelected(t, "a", "b")
}

func TestMarqueeZeroAreaLeavesSelectionAlone(t *testing.T) {
	rig := newRig([]*element.Element{box("a", 0, 0, 100, 50)})
	rig.sel.Replace([]string{"a"})

	// Shift-click on empty space: no rectangle, no change.
	rig.down(400, 400, selection.ModifierShift)
	rig.up(400, 400, selection.ModifierShift)
	rig.wantSelected(t, "a")

	// Horizontal-only drag collapses to zero area too.
	rig.down(400, 400, selection.ModifierShift)
	rig.move(500, 400, selection.ModifierShift)
	rig.up(500, 400, selection.ModifierShift)
	rig.wantSelected(t, "a")
}

func TestSecondTouchCancelsGesture(t *testing.T) {
	rig := newRig([]*element.Element{box("a", 0, 0, 100, 50)})

	rig.down(300, 300, selection.ModifierNone)
	rig.move(350, 350, selection.ModifierNone)
	if _, ok := rig.ctrl.MarqueeRect(); !ok {
		t.Fatal("marquee should be active")
	}

	rig.ctrl.PointerDown(PointerEvent{Client: geometry.Point2D{X: 400, Y: 400}, Touches: 2})
	if rig.ctrl.GestureActive() {
		t.Error("second touch left gesture active")
	}
	if _, ok := rig.ctrl.MarqueeRect(); ok {
		t.Error("second touch left marquee visible")
	}
}

func TestPointerLeaveAbortsWithoutButtons(t *testing.T) {
	rig := newRig([]*element.Element{box("a", 0, 0, 100, 50)})

	rig.down(50, 25, selection.ModifierNone)
	rig.move(60, 35, selection.ModifierNone)
	rig.ctrl.PointerLeave(PointerEvent{Primary: false})

	if rig.ctrl.GestureActive() {
		t.Error("leave without buttons should abort the gesture")
	}
	// Committed frames stay; the pre-gesture snapshot stays undoable.
	if e := rig.element(t, "a"); e.X != 10 {
		t.Errorf("a.X = %v, want 10", e.X)
	}
	if rig.hist.Depth() != 1 {
		t.Errorf("history depth = %d, want 1", rig.hist.Depth())
	}
	rig.hist.Undo()
	if e := rig.element(t, "a"); e.X != 0 {
		t.Errorf("undo left a.X = %v, want 0", e.X)
	}
}

func TestPointerLeaveWithButtonKeepsGesture(t *testing.T) {
	rig := newRig([]*element.Element{box("a", 0, 0, 100, 50)})

	rig.down(50, 25, selection.ModifierNone)
	rig.move(60, 25, selection.ModifierNone)
	rig.ctrl.PointerLeave(PointerEvent{Primary: true})

	if !rig.ctrl.GestureActive() {
		t.Fatal("leave with button held should keep the gesture")
	}
	rig.move(70, 25, selection.ModifierNone)
	rig.up(70, 25, selection.ModifierNone)

	if e := rig.element(t, "a"); e.X != 20 {
		t.Errorf("a.X = %v, want 20", e.X)
	}
	if rig.hist.Depth() != 1 {
		t.Errorf("history depth = %d, want 1", rig.hist.Depth())
	}
}

func TestMoveCoalescingAppliesLastSampleOnly(t *testing.T) {
	rig := newRig([]*element.Element{box("a", 0, 0, 100, 50)})

	frames := 0
	rig.ctrl.SetOnElementsChanged(func() { frames++ })

	rig.down(50, 25, selection.ModifierNone)
	rig.ctrl.PointerMove(PointerEvent{Client: geometry.Point2D{X: 53, Y: 25}, Primary: true})
	rig.ctrl.PointerMove(PointerEvent{Client: geometry.Point2D{X: 57, Y: 25}, Primary: true})
	rig.ctrl.PointerMove(PointerEvent{Client: geometry.Point2D{X: 62, Y: 25}, Primary: true})
	rig.ctrl.FlushMoves()

	if frames != 1 {
		t.Errorf("flush applied %d frames, want 1", frames)
	}
	if e := rig.element(t, "a"); e.X != 12 {
		t.Errorf("a.X = %v, want 12 (last queued sample)", e.X)
	}

	// Nothing pending: flush is a no-op.
	rig.ctrl.FlushMoves()
	if frames != 1 {
		t.Errorf("idle flush applied a frame")
	}
	rig.up(62, 25, selection.ModifierNone)
}

func TestResizeGestureThroughController(t *testing.T) {
	rig := newRig([]*element.Element{box("a", 0, 0, 100, 50)})
	rig.sel.Replace([]string{"a"})

	rig.down(100, 50, selection.ModifierNone) // se handle
	if _, ok := rig.ctrl.ActiveHandle(); !ok {
		t.Fatal("press on handle should start a resize")
	}
	rig.move(120, 70, selection.ModifierNone)
	rig.up(120, 70, selection.ModifierNone)

	e := rig.element(t, "a")
	if e.X != 0 || e.Y != 0 || e.Width != 120 || e.Height != 70 {
		t.Errorf("bounds = (%v, %v, %v, %v), want (0, 0, 120, 70)", e.X, e.Y, e.Width, e.Height)
	}
	if rig.hist.Depth() != 1 {
		t.Errorf("resize created %d history entries, want 1", rig.hist.Depth())
	}
	rig.hist.Undo()
	if e := rig.element(t, "a"); e.Width != 100 || e.Height != 50 {
		t.Errorf("undo left size (%v, %v), want (100, 50)", e.Width, e.Height)
	}
}

func TestHandlesNeedSingleSelection(t *testing.T) {
	rig := newRig([]*element.Element{
		box("a", 0, 0, 100, 50),
		box("b", 200, 0, 100, 50),
	})
	rig.sel.Replace([]string{"a", "b"})

	if _, ok := rig.ctrl.HandleHit(geometry.Point2D{X: 100, Y: 50}); ok {
		t.Error("handles should not exist for a multi-selection")
	}

	rig.sel.Replace([]string{"a"})
	if h, ok := rig.ctrl.HandleHit(geometry.Point2D{X: 100, Y: 50}); !ok || h != HandleSE {
		t.Errorf("got %v/%v, want se handle", h, ok)
	}
}

func TestHandlePickScalesWithZoom(t *testing.T) {
	hist := history.NewStore([]*element.Element{box("a", 0, 0, 100, 50)})
	sel := selection.NewSet()
	sel.Replace([]string{"a"})
	zoomed := viewport.Viewport{
		Zoom:    2,
		ViewBox: geometry.NewSize(800, 600),
		Client:  geometry.NewRect(0, 0, 800, 600),
	}
	ctrl := NewController(hist, sel,
		func() viewport.Viewport { return zoomed },
		func(e *element.Element) geometry.Rect { return element.Bounds(e, nil) },
	)

	// World (100, 50) sits at client (200, 100); the 8px pick radius is
	// 4 world units at zoom 2.
	if h, ok := ctrl.HandleHit(geometry.Point2D{X: 207, Y: 100}); !ok || h != HandleSE {
		t.Errorf("7px off: got %v/%v, want se hit", h, ok)
	}
	if _, ok := ctrl.HandleHit(geometry.Point2D{X: 209, Y: 100}); ok {
		t.Error("9px off should miss at zoom 2")
	}
}
