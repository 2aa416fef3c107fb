// Command fitcheck reports how text content fits a target box, using
// the same measurement engine as the editor.
package main

import (
	"flag"
	"fmt"
	"os"

	"whiteboard-studio/internal/document"
	"whiteboard-studio/internal/element"
	"whiteboard-studio/internal/textfit"
	"whiteboard-studio/pkg/geometry"
)

func main() {
	text := flag.String("text", "", "Text content to measure")
	size := flag.Float64("size", element.DefaultFontSize, "Base font size")
	width := flag.Float64("width", 200, "Box width in world units")
	height := flag.Float64("height", 120, "Box height in world units")
	boardPath := flag.String("board", "", "Board file: report every fill-mode element instead")
	flag.Parse()

	if *text == "" && *boardPath == "" {
		fmt.Println("Usage: fitcheck -text <content> [-size 16] [-width 200] [-height 120]")
		fmt.Println("       fitcheck -board <path.wboard>")
		os.Exit(1)
	}

	fitter, err := textfit.NewFitter()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize text measurement: %v\n", err)
		os.Exit(1)
	}
	fitter.SetOnMaxBoxSize(func(id string, s geometry.Size) {
		fmt.Printf("  %-10s max useful box %.1fx%.1f\n", id, s.Width, s.Height)
	})

	if *boardPath != "" {
		reportBoard(fitter, *boardPath)
		return
	}

	box := geometry.NewSize(*width, *height)
	res := fitter.Fit("cli", *text, *size, box)
	fmt.Printf("Box: %.1fx%.1f  base size %.1f\n", box.Width, box.Height, *size)
	fmt.Printf("Natural: %.1fx%.1f\n", res.Natural.Width, res.Natural.Height)
	fmt.Printf("Scale: %.3f  effective font size %.1f\n", res.Scale, res.FontSize)
	fmt.Printf("Editor scale: %.3f\n", textfit.EditorScale(res.Natural, box))
}

// reportBoard prints the fit of every fill-mode element on a board.
func reportBoard(fitter *textfit.Fitter, path string) {
	b, err := document.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load board: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Board %q: %d elements\n\n", b.Name, len(b.Elements))
	fmt.Printf("%-10s %-8s %12s %12s %8s %8s\n", "ID", "Type", "Box", "Natural", "Scale", "Size")

	count := 0
	for _, e := range b.Elements {
		if !e.Fill {
			continue
		}
		count++
		box := geometry.NewSize(e.Width, e.Height)
		res := fitter.Fit(e.ID, e.Content, e.FontSize, box)
		fmt.Printf("%-10.10s %-8s %5.0fx%-6.0f %5.0fx%-6.0f %8.3f %8.1f\n",
			e.ID, e.Type, box.Width, box.Height,
			res.Natural.Width, res.Natural.Height, res.Scale, res.FontSize)
	}

	if count == 0 {
		fmt.Println("No fill-mode elements on this board.")
	}
}
