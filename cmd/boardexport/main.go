// Command boardexport renders a board file to a PNG or PDF without
// opening the editor. Boards come from a .wboard file or from a library
// database by ID.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"whiteboard-studio/internal/document"
	"whiteboard-studio/internal/export"
	"whiteboard-studio/internal/render"
	"whiteboard-studio/internal/textfit"
)

func main() {
	boardPath := flag.String("board", "", "Path to board file (.wboard)")
	libraryPath := flag.String("library", "", "Path to board library database")
	boardID := flag.String("id", "", "Board ID in the library; omit to list boards")
	outPath := flag.String("out", "", "Output path (.png or .pdf)")
	scale := flag.Float64("scale", 2, "Pixels per world unit for PNG output")
	padding := flag.Float64("padding", 24, "Margin around content in world units")
	flag.Parse()

	if *boardPath == "" && *libraryPath == "" {
		fmt.Println("Usage: boardexport -board <path.wboard> -out <path.png|path.pdf> [-scale 2] [-padding 24]")
		fmt.Println("       boardexport -library <boards.db> [-id <board id>] [-out <path>]")
		os.Exit(1)
	}

	var b *document.BoardFile
	var err error
	if *boardPath != "" {
		b, err = document.Load(*boardPath)
	} else {
		b = loadFromLibrary(*libraryPath, *boardID)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load board: %v\n", err)
		os.Exit(1)
	}
	if b == nil {
		return // library listing only
	}

	if *outPath == "" {
		fmt.Println("No -out path given")
		os.Exit(1)
	}

	fmt.Printf("Loaded %q: %d elements, last modified %s\n",
		b.Name, len(b.Elements), b.Modified.Format("2006-01-02 15:04"))

	fitter, err := textfit.NewFitter()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize text measurement: %v\n", err)
		os.Exit(1)
	}
	r, err := render.New(fitter)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize renderer: %v\n", err)
		os.Exit(1)
	}
	r.SetBackground(b.Settings.Background)

	switch strings.ToLower(filepath.Ext(*outPath)) {
	case ".png":
		opts := export.PNGOptions{Scale: *scale, Padding: *padding}
		if err := export.PNG(*outPath, b.Elements, r, opts); err != nil {
			fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
			os.Exit(1)
		}
	case ".pdf":
		if err := export.PDF(*outPath, b.Elements, r); err != nil {
			fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unsupported output format %q (use .png or .pdf)\n", filepath.Ext(*outPath))
		os.Exit(1)
	}

	fmt.Printf("Exported %s\n", *outPath)
}

// loadFromLibrary fetches a board by ID, or lists the library and
// returns nil when no ID is given.
func loadFromLibrary(dbPath, id string) *document.BoardFile {
	store, err := document.OpenStore(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open library: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	ctx := context.Background()

	if id == "" {
		infos, err := store.List(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to list library: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%-36s %-24s %8s  %s\n", "ID", "Name", "Elements", "Modified")
		for _, info := range infos {
			fmt.Printf("%-36s %-24.24s %8d  %s\n",
				info.ID, info.Name, info.Elements, info.Modified.Format("2006-01-02 15:04"))
		}
		fmt.Printf("\n%d board(s)\n", len(infos))
		return nil
	}

	b, err := store.Get(ctx, id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to fetch board %s: %v\n", id, err)
		os.Exit(1)
	}
	return b
}
