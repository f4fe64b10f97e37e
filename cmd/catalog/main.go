// Command catalog prints every piece shape in its four rotations, side by
// side, with its color and whether it is a feature brick. Kind names given
// as arguments restrict the output.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/wricardo/blockfall/game/engine"
)

const rotationGap = "   "

func main() {
	kinds := engine.Kinds
	if len(os.Args) > 1 {
		kinds = nil
		for _, name := range os.Args[1:] {
			kind, err := engine.ParseKind(name)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				os.Exit(1)
			}
			kinds = append(kinds, kind)
		}
	}

	for _, kind := range kinds {
		fmt.Print(describeKind(kind))
		fmt.Println()
	}
}

// describeKind returns the header line followed by the rotation strip
func describeKind(kind engine.Kind) string {
	shape, _ := engine.Lookup(kind)
	label := "classic"
	if shape.Feature {
		label = "feature"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "=== %s (%s, %s, %d cells) ===\n", kind, shape.Color, label, len(shape.Offsets)+1)
	for _, line := range rotations(kind, '#', '.') {
		b.WriteString(strings.TrimRight(line, " "))
		b.WriteByte('\n')
	}
	return b.String()
}

// rotations renders the four rotations of kind next to each other, each
// padded to its own width and bottom-aligned
func rotations(kind engine.Kind, full, empty rune) []string {
	piece := engine.NewPiece(kind)

	var blocks [][]string
	height := 0
	for range 4 {
		block := strings.Split(strings.TrimSuffix(piece.Render(full, empty), "\n"), "\n")
		blocks = append(blocks, block)
		height = max(height, len(block))
		piece.Rotate()
	}

	lines := make([]string, height)
	for i, block := range blocks {
		width := len([]rune(block[0]))
		pad := height - len(block)
		for row := range lines {
			cell := strings.Repeat(" ", width)
			if row >= pad {
				cell = block[row-pad]
			}
			if i > 0 {
				lines[row] += rotationGap
			}
			lines[row] += cell
		}
	}
	return lines
}
