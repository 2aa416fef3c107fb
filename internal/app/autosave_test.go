package app

import (
	"testing"
	"time"
)

func TestAutosaverFiresAfterQuietPeriod(t *testing.T) {
	s := newState(t)
	a := NewAutosaver(s, 40*time.Millisecond)
	saved := make(chan struct{}, 8)
	a.OnSave(func() { saved <- struct{}{} })
	a.Start()
	defer a.Stop()

	s.SetModified(true)

	select {
	case <-saved:
	case <-time.After(2 * time.Second):
		t.Fatal("autosave did not fire after the quiet period")
	}

	// No further saves arrive without new changes.
	select {
	case <-saved:
		t.Fatal("autosave fired again without changes")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestAutosaverFlush(t *testing.T) {
	s := newState(t)
	a := NewAutosaver(s, time.Hour)
	fired := 0
	a.OnSave(func() { fired++ })

	a.Flush()
	if fired != 0 {
		t.Fatalf("flush on a clean board fired %d saves", fired)
	}

	a.MarkDirty()
	a.Flush()
	if fired != 1 {
		t.Fatalf("flush after a change fired %d saves, want 1", fired)
	}

	a.Flush()
	if fired != 1 {
		t.Fatalf("second flush fired again, total %d", fired)
	}
}

func TestAutosaverRestart(t *testing.T) {
	s := newState(t)
	a := NewAutosaver(s, 40*time.Millisecond)
	saved := make(chan struct{}, 8)
	a.OnSave(func() { saved <- struct{}{} })

	a.Start()
	a.Stop()
	a.Stop() // second stop must be a no-op

	a.Start()
	defer a.Stop()
	s.SetModified(true)

	select {
	case <-saved:
	case <-time.After(2 * time.Second):
		t.Fatal("restarted autosaver did not fire")
	}
}

func TestAutosaverIgnoresCleanTransitions(t *testing.T) {
	s := newState(t)
	a := NewAutosaver(s, time.Hour)
	fired := 0
	a.OnSave(func() { fired++ })

	// The modified=false event after a save must not re-arm the timer.
	s.SetModified(false)
	a.Flush()
	if fired != 0 {
		t.Fatalf("clean transition fired %d saves", fired)
	}
}
