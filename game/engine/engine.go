package engine

import (
	"math/rand/v2"
)

// Engine is the session state machine. It is not safe for concurrent use:
// a single driver owns it and publishes snapshots to readers.
type Engine struct {
	settings Settings
	grid     *Grid
	status   Status
	active   *Piece
	pos      Point
	queue    []*Piece
	ledger   Ledger
	draw     func() Kind
	spawned  int
}

// Option customizes engine construction
type Option func(*Engine)

// WithSequence makes the engine draw kinds cyclically from kinds instead of
// at random. Intended for replays and tests.
func WithSequence(kinds ...Kind) Option {
	return func(e *Engine) {
		if len(kinds) == 0 {
			return
		}
		seq := append([]Kind(nil), kinds...)
		next := 0
		e.draw = func() Kind {
			k := seq[next%len(seq)]
			next++
			return k
		}
	}
}

// New creates a paused session with an empty grid and a full upcoming queue
func New(settings Settings, opts ...Option) (*Engine, error) {
	if err := ValidateSettings(settings); err != nil {
		return nil, err
	}

	e := &Engine{
		settings: settings,
		grid:     NewGrid(settings.Width, settings.Height),
		status:   Paused,
	}

	seed := settings.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	pool := KindsFor(settings.FeatureBricks)
	e.draw = func() Kind {
		return pool[rng.IntN(len(pool))]
	}

	for _, opt := range opts {
		opt(e)
	}

	e.queue = make([]*Piece, 0, QueueLength)
	for range QueueLength {
		e.queue = append(e.queue, NewPiece(e.draw()))
	}
	return e, nil
}

// Settings returns the settings the engine was built with
func (e *Engine) Settings() Settings { return e.settings }

// Status returns the current session status
func (e *Engine) Status() Status { return e.status }

// Ledger returns a copy of the score ledger
func (e *Engine) Ledger() Ledger { return e.ledger }

// Position returns the active piece origin
func (e *Engine) Position() Point { return e.pos }

// Grid returns a copy of the grid
func (e *Engine) Grid() *Grid { return e.grid.Clone() }

// Active returns a copy of the active piece, or nil before Start
func (e *Engine) Active() *Piece {
	if e.active == nil {
		return nil
	}
	return e.active.Clone()
}

// Upcoming returns copies of the queued pieces, front first
func (e *Engine) Upcoming() []*Piece {
	out := make([]*Piece, len(e.queue))
	for i, p := range e.queue {
		out[i] = p.Clone()
	}
	return out
}

// PiecesSpawned counts pieces that have become active
func (e *Engine) PiecesSpawned() int { return e.spawned }

// Start begins play. The first call spawns the first piece; later calls
// resume a paused session. It reports whether the session is now in play.
func (e *Engine) Start() bool {
	switch e.status {
	case Exited:
		return false
	case Running, Accelerative:
		return true
	}
	e.status = Running
	if e.active == nil {
		e.spawn()
	}
	return e.status != Exited
}

// TogglePause switches between paused and running
func (e *Engine) TogglePause() {
	switch e.status {
	case Running, Accelerative:
		e.status = Paused
	case Paused:
		e.Start()
	}
}

// Quit ends the session unconditionally
func (e *Engine) Quit() {
	e.status = Exited
}

// cells returns the absolute cells of the active piece at the current position
func (e *Engine) cells() []Point {
	if e.active == nil {
		return nil
	}
	return e.active.AbsoluteCells(e.pos.X, e.pos.Y)
}

// ActiveCells returns the absolute cells of the active piece
func (e *Engine) ActiveCells() []Point {
	return e.cells()
}

// LegalPosition reports whether every active cell is inside the side walls
// and above the floor. Cells above the board are legal.
func (e *Engine) LegalPosition() bool {
	return e.legal(e.cells())
}

func (e *Engine) legal(cells []Point) bool {
	for _, c := range cells {
		if c.X < 0 || c.X >= e.grid.width || c.Y >= e.grid.height {
			return false
		}
	}
	return true
}

// Overlapped reports whether any on-board active cell sits on an occupied cell
func (e *Engine) Overlapped() bool {
	return e.overlaps(e.cells())
}

func (e *Engine) overlaps(cells []Point) bool {
	for _, c := range cells {
		if c.Y >= 0 && e.grid.IsOccupied(c.X, c.Y) {
			return true
		}
	}
	return false
}

// landed reports whether any cell rests on the floor or on an occupied cell.
// A cell just above the board also lands when row 0 beneath it is taken,
// which keeps a piece from falling through a full top row.
func (e *Engine) landed(cells []Point) bool {
	floor := e.grid.height - 1
	for _, c := range cells {
		if c.Y == floor {
			return true
		}
		if c.Y+1 >= 0 && e.grid.IsOccupied(c.X, c.Y+1) {
			return true
		}
	}
	return false
}

// SideLimit reports which horizontal moves are blocked
func (e *Engine) SideLimit() SideLimit {
	left, right := false, false
	for _, c := range e.cells() {
		if c.X <= 0 || (c.Y >= 0 && e.grid.IsOccupied(c.X-1, c.Y)) {
			left = true
		}
		if c.X >= e.grid.width-1 || (c.Y >= 0 && e.grid.IsOccupied(c.X+1, c.Y)) {
			right = true
		}
	}
	switch {
	case left && right:
		return BothBlocked
	case left:
		return LeftBlocked
	case right:
		return RightBlocked
	default:
		return NoneBlocked
	}
}

// MoveLeft shifts the active piece one column left unless blocked
func (e *Engine) MoveLeft() bool {
	if !e.status.Playing() || e.active == nil || e.SideLimit().Left() {
		return false
	}
	e.pos.X--
	return true
}

// MoveRight shifts the active piece one column right unless blocked
func (e *Engine) MoveRight() bool {
	if !e.status.Playing() || e.active == nil || e.SideLimit().Right() {
		return false
	}
	e.pos.X++
	return true
}

// RotateActive turns the active piece if the rotated cells are legal and free.
// The candidate is validated before it replaces the active piece.
func (e *Engine) RotateActive() bool {
	if !e.status.Playing() || e.active == nil {
		return false
	}
	candidate := e.active.Rotated()
	cells := candidate.AbsoluteCells(e.pos.X, e.pos.Y)
	if !e.legal(cells) || e.overlaps(cells) {
		return false
	}
	e.active = candidate
	return true
}

// GravityTick advances the active piece one row or locks it
func (e *Engine) GravityTick() TickResult {
	if e.status == Accelerative {
		e.status = Running
	}
	result, _ := e.tick()
	return result
}

// SoftDrop applies one gravity step and marks the session accelerative
func (e *Engine) SoftDrop() TickResult {
	result, _ := e.tick()
	if e.status == Running {
		e.status = Accelerative
	}
	return result
}

// HardDrop steps gravity until the piece locks. It returns the final result
// and the number of rows fallen, which is credited to the score.
func (e *Engine) HardDrop() (TickResult, int) {
	fallen := 0
	for {
		result, _ := e.tick()
		if result != KeepFalling {
			e.ledger.AddDropBonus(fallen)
			return result, fallen
		}
		fallen++
	}
}

// tick is one gravity step. It returns the result and the rows cleared by a lock.
func (e *Engine) tick() (TickResult, int) {
	if e.status == Exited {
		return GameOver, 0
	}
	if !e.status.Playing() || e.active == nil {
		return Idle, 0
	}

	cells := e.cells()
	if !e.landed(cells) {
		e.pos.Y++
		return KeepFalling, 0
	}

	for _, c := range cells {
		if c.Y >= 0 {
			e.grid.Occupy(c.X, c.Y, e.active.Color)
		}
	}
	cleared := e.grid.ClearFullRows()
	e.ledger.ApplyClear(cleared)

	if !e.spawn() {
		return GameOver, cleared
	}
	return Locked, cleared
}

// spawn activates the next queued piece at the top center and refills the
// queue. It reports false, ending the session, when the new piece overlaps.
func (e *Engine) spawn() bool {
	e.active = e.queue[0]
	e.queue = append(e.queue[1:], NewPiece(e.draw()))
	e.pos = Point{X: e.grid.CenterX(), Y: 0}
	e.spawned++

	if e.Overlapped() {
		e.status = Exited
		return false
	}
	return true
}

// Ghost returns where the active piece would come to rest. It never mutates.
func (e *Engine) Ghost() []Point {
	cells := e.cells()
	if cells == nil {
		return nil
	}
	ghost := make([]Point, len(cells))
	copy(ghost, cells)
	for !e.landed(ghost) {
		for i := range ghost {
			ghost[i].Y++
		}
	}
	return ghost
}

// Apply executes a command and reports its effect. Commands on an exited
// session are no-ops; while paused only Pause and Quit act.
func (e *Engine) Apply(cmd Command) CommandResult {
	res := CommandResult{Command: cmd}
	if e.status == Exited {
		return res
	}
	if cmd != Pause && cmd != Quit && !e.status.Playing() {
		return res
	}

	before := e.ledger.RowsCleared
	switch cmd {
	case Quit:
		e.Quit()
		res.Applied = true
	case Pause:
		e.TogglePause()
		res.Applied = true
	case Rotate:
		res.Applied = e.RotateActive()
	case MoveLeft:
		res.Applied = e.MoveLeft()
	case MoveRight:
		res.Applied = e.MoveRight()
	case SoftDrop:
		res.Tick = e.SoftDrop()
		res.Applied = res.Tick != Idle
	case HardDrop:
		res.Tick, res.Dropped = e.HardDrop()
		res.Applied = res.Tick != Idle
	case Tick:
		res.Tick = e.GravityTick()
		res.Applied = res.Tick != Idle
	}
	res.Cleared = e.ledger.RowsCleared - before
	return res
}
