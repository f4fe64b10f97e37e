package engine

import (
	"fmt"
	"math"
	"strings"
)

// Piece is a mutable instance of a catalog shape
type Piece struct {
	Kind    Kind     `json:"kind"`
	Offsets []Offset `json:"offsets"`
	Color   Color    `json:"color"`
}

// NewPiece copies the catalog entry for kind. It panics on a kind missing
// from the catalog, which can only happen through a programming error.
func NewPiece(kind Kind) *Piece {
	shape, ok := catalog[kind]
	if !ok {
		panic(fmt.Sprintf("engine: no catalog entry for kind %q", kind))
	}
	offsets := make([]Offset, len(shape.Offsets))
	copy(offsets, shape.Offsets)
	return &Piece{Kind: kind, Offsets: offsets, Color: shape.Color}
}

// Clone returns a deep copy
func (p *Piece) Clone() *Piece {
	offsets := make([]Offset, len(p.Offsets))
	copy(offsets, p.Offsets)
	return &Piece{Kind: p.Kind, Offsets: offsets, Color: p.Color}
}

// Rotate turns the piece 90 degrees about its origin in place
func (p *Piece) Rotate() {
	p.Offsets = rotated(p.Offsets)
}

// Rotated returns a rotated copy, leaving p untouched
func (p *Piece) Rotated() *Piece {
	return &Piece{Kind: p.Kind, Offsets: rotated(p.Offsets), Color: p.Color}
}

func rotated(offsets []Offset) []Offset {
	out := make([]Offset, len(offsets))
	for i, o := range offsets {
		out[i] = Offset{DX: o.DY, DY: -o.DX}
	}
	return out
}

// BoundingBox returns (minX, maxX, minY, maxY) over the offsets.
// A piece without offsets returns a zero box.
func (p *Piece) BoundingBox() (minX, maxX, minY, maxY int) {
	if len(p.Offsets) == 0 {
		return 0, 0, 0, 0
	}
	minX, minY = math.MaxInt, math.MaxInt
	maxX, maxY = math.MinInt, math.MinInt
	for _, o := range p.Offsets {
		minX = min(minX, o.DX)
		maxX = max(maxX, o.DX)
		minY = min(minY, o.DY)
		maxY = max(maxY, o.DY)
	}
	return minX, maxX, minY, maxY
}

// Size returns the width and height of the bounding box including the origin
func (p *Piece) Size() (width, height int) {
	minX, maxX, minY, maxY := p.extent()
	return maxX - minX + 1, maxY - minY + 1
}

// extent is the bounding box widened to contain the origin cell
func (p *Piece) extent() (minX, maxX, minY, maxY int) {
	minX, maxX, minY, maxY = p.BoundingBox()
	return min(minX, 0), max(maxX, 0), min(minY, 0), max(maxY, 0)
}

// AbsoluteCells projects the piece onto the grid with its origin at (x, y).
// The origin is always the first cell; local y is inverted.
func (p *Piece) AbsoluteCells(x, y int) []Point {
	cells := make([]Point, 0, len(p.Offsets)+1)
	cells = append(cells, Point{X: x, Y: y})
	for _, o := range p.Offsets {
		cells = append(cells, Point{X: x + o.DX, Y: y - o.DY})
	}
	return cells
}

// Render draws the piece top row first using full for occupied cells
func (p *Piece) Render(full, empty rune) string {
	minX, maxX, minY, maxY := p.extent()
	occupied := map[Offset]bool{{}: true}
	for _, o := range p.Offsets {
		occupied[o] = true
	}

	var b strings.Builder
	for y := maxY; y >= minY; y-- {
		for x := minX; x <= maxX; x++ {
			if occupied[Offset{DX: x, DY: y}] {
				b.WriteRune(full)
			} else {
				b.WriteRune(empty)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
