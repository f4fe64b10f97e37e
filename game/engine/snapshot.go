package engine

// PieceInfo describes a queued piece for display
type PieceInfo struct {
	Kind  Kind  `json:"kind"`
	Color Color `json:"color"`
}

// Snapshot is an immutable view of a session taken after a mutation
type Snapshot struct {
	Width       int         `json:"width"`
	Height      int         `json:"height"`
	Cells       [][]Cell    `json:"cells"`
	Status      Status      `json:"status"`
	Active      []Point     `json:"active,omitempty"`
	ActiveKind  Kind        `json:"active_kind,omitempty"`
	ActiveColor Color       `json:"active_color,omitempty"`
	Position    Point       `json:"position"`
	Ghost       []Point     `json:"ghost,omitempty"`
	Upcoming    []PieceInfo `json:"upcoming"`
	Ledger      Ledger      `json:"ledger"`
	Pieces      int         `json:"pieces"`
}

// Snapshot copies the current state for a renderer
func (e *Engine) Snapshot() *Snapshot {
	s := &Snapshot{
		Width:    e.grid.width,
		Height:   e.grid.height,
		Cells:    e.grid.Rows(),
		Status:   e.status,
		Position: e.pos,
		Ledger:   e.ledger,
		Pieces:   e.spawned,
		Upcoming: make([]PieceInfo, len(e.queue)),
	}
	for i, p := range e.queue {
		s.Upcoming[i] = PieceInfo{Kind: p.Kind, Color: p.Color}
	}
	if e.active != nil {
		s.Active = e.cells()
		s.ActiveKind = e.active.Kind
		s.ActiveColor = e.active.Color
		if e.status != Exited {
			s.Ghost = e.Ghost()
		}
	}
	return s
}

// GameOver reports whether the session has ended
func (s *Snapshot) GameOver() bool {
	return s.Status == Exited
}

// Occupied reports whether a grid cell of the snapshot is filled
func (s *Snapshot) Occupied(x, y int) bool {
	if y < 0 || y >= len(s.Cells) || x < 0 || x >= len(s.Cells[y]) {
		return false
	}
	return s.Cells[y][x].Occupied
}

// Rows renders the board as text rows using the given glyphs: full for
// locked and active cells, shadow for ghost cells and empty otherwise.
func (s *Snapshot) Rows(full, shadow, empty rune) []string {
	active := make(map[Point]bool, len(s.Active))
	for _, p := range s.Active {
		active[p] = true
	}
	ghost := make(map[Point]bool, len(s.Ghost))
	for _, p := range s.Ghost {
		ghost[p] = true
	}

	rows := make([]string, s.Height)
	line := make([]rune, s.Width)
	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			p := Point{X: x, Y: y}
			switch {
			case active[p] || s.Cells[y][x].Occupied:
				line[x] = full
			case ghost[p]:
				line[x] = shadow
			default:
				line[x] = empty
			}
		}
		rows[y] = string(line)
	}
	return rows
}
