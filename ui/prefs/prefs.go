// Package prefs persists UI preferences as a JSON file in the user
// config directory.
package prefs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

const fileName = "preferences.json"

// Preference keys used by the whiteboard UI.
const (
	KeyLastDirectory   = "lastDirectory"
	KeyLastBoard       = "lastBoard"
	KeyWindowWidth     = "windowWidth"
	KeyWindowHeight    = "windowHeight"
	KeyAutosaveEnabled = "autosaveEnabled"
	KeyAutosaveSeconds = "autosaveSeconds"
)

// DefaultAutosaveSeconds is the quiet period before an autosave fires.
const DefaultAutosaveSeconds = 30.0

// Prefs is a typed view over a JSON key-value file. Values set here
// live in memory until Save writes them out.
type Prefs struct {
	mu     sync.RWMutex
	path   string
	values map[string]interface{}
}

// Load reads the preferences file. A missing or corrupt file yields
// empty preferences; the next Save replaces it.
func Load() *Prefs {
	p := &Prefs{
		path:   prefsPath(),
		values: map[string]interface{}{},
	}

	data, err := os.ReadFile(p.path)
	if err != nil {
		return p
	}
	var vals map[string]interface{}
	if json.Unmarshal(data, &vals) == nil && vals != nil {
		p.values = vals
	}
	return p
}

func prefsPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "whiteboard-studio", fileName)
}

// Save writes the preferences file, creating the config directory on
// first use. The write goes through a temp file so a crash mid-write
// cannot truncate the existing preferences.
func (p *Prefs) Save() error {
	p.mu.RLock()
	data, err := json.MarshalIndent(p.values, "", "  ")
	p.mu.RUnlock()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return err
	}
	tmp := p.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, p.path)
}

// Float returns a float64 preference, or fallback if not set. JSON
// numbers always decode as float64, so one assertion covers both loaded
// and stored values.
func (p *Prefs) Float(key string, fallback float64) float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if n, ok := p.values[key].(float64); ok {
		return n
	}
	return fallback
}

// SetFloat stores a float64 preference.
func (p *Prefs) SetFloat(key string, val float64) {
	p.set(key, val)
}

// String returns a string preference, or fallback if not set.
func (p *Prefs) String(key, fallback string) string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if s, ok := p.values[key].(string); ok {
		return s
	}
	return fallback
}

// SetString stores a string preference.
func (p *Prefs) SetString(key, val string) {
	p.set(key, val)
}

// Bool returns a bool preference, or fallback if not set.
func (p *Prefs) Bool(key string, fallback bool) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if b, ok := p.values[key].(bool); ok {
		return b
	}
	return fallback
}

// SetBool stores a bool preference.
func (p *Prefs) SetBool(key string, val bool) {
	p.set(key, val)
}

func (p *Prefs) set(key string, val interface{}) {
	p.mu.Lock()
	p.values[key] = val
	p.mu.Unlock()
}
