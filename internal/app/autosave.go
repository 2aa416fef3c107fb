package app

import (
	"sync"
	"time"
)

// Autosaver watches the board for changes and triggers a save callback
// once no new change has arrived for the configured quiet period. This
// keeps disk writes off the hot path of a drag: every frame marks the
// board dirty, but the save fires only after the user pauses.
type Autosaver struct {
	delay  time.Duration
	stopCh chan struct{}
	onSave func() // Called when a save is due

	mu         sync.Mutex
	stopped    bool
	dirty      bool
	lastChange time.Time
}

// NewAutosaver creates an autosaver listening for modification events on
// the given state. It does not start saving until Start is called.
func NewAutosaver(state *State, delay time.Duration) *Autosaver {
	a := &Autosaver{
		delay:  delay,
		stopCh: make(chan struct{}),
	}
	state.On(EventModified, func(data interface{}) {
		if modified, ok := data.(bool); ok && modified {
			a.MarkDirty()
		}
	})
	return a
}

// OnSave sets the callback to invoke when the quiet period elapses.
// The callback is called from a background goroutine - use appropriate
// synchronization before touching application state or UI.
func (a *Autosaver) OnSave(callback func()) {
	a.onSave = callback
}

// MarkDirty records a change and restarts the quiet period.
func (a *Autosaver) MarkDirty() {
	a.mu.Lock()
	a.dirty = true
	a.lastChange = time.Now()
	a.mu.Unlock()
}

// Start begins watching for changes in a background goroutine. Each
// call starts a fresh watcher, so Start after Stop resumes saving.
func (a *Autosaver) Start() {
	a.mu.Lock()
	a.stopCh = make(chan struct{})
	a.stopped = false
	stop := a.stopCh
	a.mu.Unlock()

	go a.saveLoop(stop)
}

// Stop stops the watcher goroutine. Safe to call twice or before Start.
// Pending changes are dropped; callers that want a final save should
// Flush first.
func (a *Autosaver) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.stopped {
		return
	}
	a.stopped = true
	close(a.stopCh)
}

// Flush fires the save callback immediately if a change is pending.
func (a *Autosaver) Flush() {
	a.mu.Lock()
	due := a.dirty
	a.dirty = false
	a.mu.Unlock()

	if due && a.onSave != nil {
		a.onSave()
	}
}

// saveLoop periodically checks whether the quiet period has elapsed.
// The stop channel is bound per call so a restarted watcher never races
// an old one shutting down.
func (a *Autosaver) saveLoop(stop <-chan struct{}) {
	tick := a.delay / 4
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if a.takeDue() && a.onSave != nil {
				a.onSave()
			}
		}
	}
}

// takeDue reports whether a save is due, clearing the dirty flag when it
// is. A change arriving after the save snapshot re-marks the board.
func (a *Autosaver) takeDue() bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.dirty || time.Since(a.lastChange) < a.delay {
		return false
	}
	a.dirty = false
	return true
}
