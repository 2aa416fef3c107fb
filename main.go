// Package main provides the entry point for the Whiteboard Studio application.
package main

import (
	"log"
	"os"
	"path/filepath"
	"time"

	fyneapp "fyne.io/fyne/v2/app"

	"whiteboard-studio/internal/app"
	"whiteboard-studio/internal/render"
	"whiteboard-studio/internal/version"
	"whiteboard-studio/ui/mainwindow"
	"whiteboard-studio/ui/prefs"
)

const appTitle = "Whiteboard Studio"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting %s v%s", appTitle, version.String())

	fyneApp := fyneapp.NewWithID("io.whiteboard.studio")
	fyneApp.Settings().SetTheme(&app.WhiteboardTheme{})

	appState, err := app.NewState()
	if err != nil {
		log.Fatalf("Failed to initialize application state: %v", err)
	}
	appPrefs := prefs.Load()

	renderer, err := render.New(appState.Fitter())
	if err != nil {
		log.Fatalf("Failed to initialize renderer: %v", err)
	}

	openLibrary(appState)
	saver := setupAutosave(appState, appPrefs)

	win := mainwindow.New(fyneApp, appState, renderer, appPrefs, saver)

	// Handle command line arguments, falling back to the last session
	if len(os.Args) > 1 {
		boardPath := os.Args[1]
		if err := appState.LoadBoard(boardPath); err != nil {
			log.Printf("Failed to load board %s: %v", boardPath, err)
		}
	} else if last := appPrefs.String(prefs.KeyLastBoard, ""); last != "" {
		if err := appState.LoadBoard(last); err != nil {
			log.Printf("Failed to reopen %s: %v", last, err)
		}
	}

	win.ShowAndRun()

	// The window close path already asked about unsaved changes, so a
	// final flush here would resurrect edits the user chose to discard.
	saver.Stop()
	if err := appState.CloseLibrary(); err != nil {
		log.Printf("Failed to close board library: %v", err)
	}
}

// openLibrary opens the board library database in the user config
// directory. The application runs without a library when this fails.
func openLibrary(state *app.State) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		log.Printf("Board library unavailable: %v", err)
		return
	}
	dir := filepath.Join(configDir, "whiteboard-studio")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Printf("Board library unavailable: %v", err)
		return
	}

	dbPath := filepath.Join(dir, "boards.db")
	if err := state.OpenLibrary(dbPath); err != nil {
		log.Printf("Board library unavailable: %v", err)
		return
	}
	log.Printf("Board library: %s", dbPath)
}

// setupAutosave configures background saves that fire after edits settle.
func setupAutosave(state *app.State, appPrefs *prefs.Prefs) *app.Autosaver {
	seconds := appPrefs.Float(prefs.KeyAutosaveSeconds, prefs.DefaultAutosaveSeconds)
	delay := time.Duration(seconds * float64(time.Second))
	saver := app.NewAutosaver(state, delay)

	saver.OnSave(func() {
		path := state.Path()
		if path == "" {
			return
		}
		if err := state.SaveBoard(path); err != nil {
			log.Printf("Autosave failed for %s: %v", path, err)
			return
		}
		log.Printf("Autosaved %s", path)
	})

	if appPrefs.Bool(prefs.KeyAutosaveEnabled, true) {
		saver.Start()
		log.Printf("Autosave: after %s idle", delay)
	}
	return saver
}
