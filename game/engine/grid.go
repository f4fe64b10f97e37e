package engine

// Cell is one grid square; Color is meaningful only when Occupied
type Cell struct {
	Occupied bool  `json:"occupied"`
	Color    Color `json:"color,omitempty"`
}

// Grid is a fixed-size matrix of cells. Row 0 is the top, row Height-1 the floor.
type Grid struct {
	width  int
	height int
	rows   [][]Cell
}

// NewGrid creates an empty grid
func NewGrid(width, height int) *Grid {
	rows := make([][]Cell, height)
	for i := range rows {
		rows[i] = make([]Cell, width)
	}
	return &Grid{width: width, height: height, rows: rows}
}

// Width returns the number of columns
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows
func (g *Grid) Height() int { return g.height }

// CenterX is the spawn column
func (g *Grid) CenterX() int { return g.width / 2 }

// InBounds reports whether (x, y) addresses a grid cell
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// IsOccupied reports whether a cell holds an occupant. Out-of-range
// coordinates report false.
func (g *Grid) IsOccupied(x, y int) bool {
	if !g.InBounds(x, y) {
		return false
	}
	return g.rows[y][x].Occupied
}

// At returns the cell at (x, y); callers must stay in bounds
func (g *Grid) At(x, y int) Cell {
	return g.rows[y][x]
}

// Occupy writes a colored occupant. Callers must pass 0 <= y < Height.
func (g *Grid) Occupy(x, y int, color Color) {
	g.rows[y][x] = Cell{Occupied: true, Color: color}
}

// RowIsFull reports whether every cell of the row is occupied
func (g *Grid) RowIsFull(row int) bool {
	for _, c := range g.rows[row] {
		if !c.Occupied {
			return false
		}
	}
	return true
}

// ClearFullRows removes every full row, inserting an empty row at the top for
// each removal. Returns the number of rows removed.
func (g *Grid) ClearFullRows() int {
	kept := make([][]Cell, 0, g.height)
	for y := range g.rows {
		if !g.RowIsFull(y) {
			kept = append(kept, g.rows[y])
		}
	}
	cleared := g.height - len(kept)
	if cleared == 0 {
		return 0
	}

	rows := make([][]Cell, 0, g.height)
	for range cleared {
		rows = append(rows, make([]Cell, g.width))
	}
	g.rows = append(rows, kept...)
	return cleared
}

// Rows returns a deep copy of the cell matrix
func (g *Grid) Rows() [][]Cell {
	out := make([][]Cell, g.height)
	for y, row := range g.rows {
		out[y] = make([]Cell, g.width)
		copy(out[y], row)
	}
	return out
}

// Clone returns an independent copy of the grid
func (g *Grid) Clone() *Grid {
	return &Grid{width: g.width, height: g.height, rows: g.Rows()}
}

// OccupiedCount returns how many cells are filled
func (g *Grid) OccupiedCount() int {
	n := 0
	for _, row := range g.rows {
		for _, c := range row {
			if c.Occupied {
				n++
			}
		}
	}
	return n
}
