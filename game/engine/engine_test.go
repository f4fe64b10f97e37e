package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, width, height int, kinds ...Kind) *Engine {
	t.Helper()
	settings := Settings{Name: "test", Width: width, Height: height}
	eng, err := New(settings, WithSequence(kinds...))
	require.NoError(t, err)
	return eng
}

func startedEngine(t *testing.T, width, height int, kinds ...Kind) *Engine {
	t.Helper()
	eng := newTestEngine(t, width, height, kinds...)
	require.True(t, eng.Start())
	return eng
}

func TestNew(t *testing.T) {
	eng := newTestEngine(t, 10, 20, I, O, T, S)

	assert.Equal(t, Paused, eng.Status())
	assert.Nil(t, eng.Active())
	assert.Nil(t, eng.ActiveCells())
	assert.Nil(t, eng.Ghost())
	assert.Zero(t, eng.Ledger())

	up := eng.Upcoming()
	require.Len(t, up, QueueLength)
	assert.Equal(t, []Kind{I, O, T}, []Kind{up[0].Kind, up[1].Kind, up[2].Kind})
}

func TestNew_InvalidSettings(t *testing.T) {
	_, err := New(Settings{Name: "tiny", Width: 2, Height: 20})
	assert.ErrorIs(t, err, ErrInvalidSettings)
}

func TestNew_SeedIsDeterministic(t *testing.T) {
	s := DefaultSettings()
	s.Seed = 42

	a, err := New(s)
	require.NoError(t, err)
	b, err := New(s)
	require.NoError(t, err)

	a.Start()
	b.Start()
	for range 20 {
		a.HardDrop()
		b.HardDrop()
	}
	assert.Equal(t, a.Snapshot(), b.Snapshot())
}

func TestNew_ClassicPoolOnly(t *testing.T) {
	s := DefaultSettings()
	s.FeatureBricks = false
	s.Seed = 99
	eng, err := New(s)
	require.NoError(t, err)
	eng.Start()

	for range 50 {
		shape, ok := Lookup(eng.Active().Kind)
		require.True(t, ok)
		assert.False(t, shape.Feature)
		if r, _ := eng.HardDrop(); r == GameOver {
			break
		}
	}
}

func TestStart_SpawnsFromQueue(t *testing.T) {
	eng := startedEngine(t, 10, 20, I, O, T, S)

	assert.Equal(t, Running, eng.Status())
	assert.Equal(t, I, eng.Active().Kind)
	assert.Equal(t, Point{X: 5, Y: 0}, eng.Position())
	assert.Equal(t, 1, eng.PiecesSpawned())

	up := eng.Upcoming()
	require.Len(t, up, QueueLength)
	assert.Equal(t, []Kind{O, T, S}, []Kind{up[0].Kind, up[1].Kind, up[2].Kind})

	// a second Start does not spawn again
	assert.True(t, eng.Start())
	assert.Equal(t, 1, eng.PiecesSpawned())
}

func TestLegalPosition_AboveBoard(t *testing.T) {
	eng := startedEngine(t, 10, 20, I)

	cells := eng.ActiveCells()
	assert.Contains(t, cells, Point{X: 5, Y: -2})
	assert.True(t, eng.LegalPosition(), "cells above the board are legal")
	assert.False(t, eng.Overlapped())
}

func TestLegalPosition_Walls(t *testing.T) {
	eng := startedEngine(t, 6, 6, T)

	eng.pos = Point{X: 0, Y: 2}
	assert.False(t, eng.LegalPosition())
	eng.pos = Point{X: 5, Y: 2}
	assert.False(t, eng.LegalPosition())
	eng.pos = Point{X: 3, Y: 6}
	assert.False(t, eng.LegalPosition())
	eng.pos = Point{X: 3, Y: 5}
	assert.True(t, eng.LegalPosition())
}

func TestSideLimit(t *testing.T) {
	eng := startedEngine(t, 6, 6, Dot)

	eng.pos = Point{X: 5, Y: 3}
	assert.Equal(t, RightBlocked, eng.SideLimit())

	eng.pos = Point{X: 0, Y: 3}
	assert.Equal(t, LeftBlocked, eng.SideLimit())

	eng.pos = Point{X: 2, Y: 3}
	assert.Equal(t, NoneBlocked, eng.SideLimit())

	eng.grid.Occupy(1, 3, "x")
	eng.grid.Occupy(3, 3, "x")
	assert.Equal(t, BothBlocked, eng.SideLimit())
}

func TestSideLimit_AboveBoardCellsHitWalls(t *testing.T) {
	eng := startedEngine(t, 6, 6, Dot)
	eng.active = &Piece{Kind: "hook", Offsets: []Offset{{-1, 1}}}
	eng.pos = Point{X: 1, Y: 0}

	// only the cell above the board touches the left wall
	assert.Equal(t, LeftBlocked, eng.SideLimit())

	eng.pos = Point{X: 2, Y: 0}
	assert.Equal(t, NoneBlocked, eng.SideLimit())
}

func TestMoveLeftRight(t *testing.T) {
	eng := startedEngine(t, 4, 6, Dot)
	require.Equal(t, 2, eng.Position().X)

	assert.True(t, eng.MoveRight())
	assert.Equal(t, 3, eng.Position().X)
	assert.False(t, eng.MoveRight(), "right wall")
	assert.Equal(t, 3, eng.Position().X)

	for eng.MoveLeft() {
	}
	assert.Equal(t, 0, eng.Position().X)
}

func TestMove_BlockedByNeighbor(t *testing.T) {
	eng := startedEngine(t, 6, 6, Dot)
	eng.grid.Occupy(2, 0, "x")

	assert.False(t, eng.MoveLeft())
	assert.Equal(t, 3, eng.Position().X)
	assert.True(t, eng.MoveRight())
}

func TestRotateActive(t *testing.T) {
	eng := startedEngine(t, 10, 20, T)
	eng.pos = Point{X: 4, Y: 5}

	require.True(t, eng.RotateActive())
	assert.Equal(t, []Offset{{0, 1}, {1, 0}, {0, -1}}, eng.Active().Offsets)
}

func TestRotateActive_RefusedAtWall(t *testing.T) {
	eng := startedEngine(t, 4, 8, I)
	eng.pos = Point{X: 2, Y: 4}
	before := eng.Active().Offsets

	// horizontal I would reach x=4 on a 4-wide board
	assert.False(t, eng.RotateActive())
	assert.Equal(t, before, eng.Active().Offsets)
	assert.Equal(t, Point{X: 2, Y: 4}, eng.Position())

	require.True(t, eng.MoveLeft())
	assert.True(t, eng.RotateActive())
	assert.Equal(t, []Point{{1, 4}, {3, 4}, {2, 4}, {0, 4}}, eng.ActiveCells())
}

func TestRotateActive_RefusedByOverlap(t *testing.T) {
	eng := startedEngine(t, 8, 8, T)
	eng.pos = Point{X: 4, Y: 4}
	eng.grid.Occupy(4, 5, "x") // below the origin, where rotation puts a cell

	before := eng.Active().Offsets
	assert.False(t, eng.RotateActive())
	assert.Equal(t, before, eng.Active().Offsets)
}

func TestGravityTick_FallAndLock(t *testing.T) {
	eng := startedEngine(t, 4, 4, Dot)

	for y := 1; y <= 3; y++ {
		require.Equal(t, KeepFalling, eng.GravityTick())
		assert.Equal(t, y, eng.Position().Y)
	}

	require.Equal(t, Locked, eng.GravityTick())
	assert.True(t, eng.grid.IsOccupied(2, 3))
	assert.Equal(t, NewPiece(Dot).Color, eng.grid.At(2, 3).Color)
	assert.Equal(t, Point{X: 2, Y: 0}, eng.Position(), "next piece spawns top center")
	assert.Equal(t, 2, eng.PiecesSpawned())
	assert.Equal(t, Running, eng.Status())
}

func TestGravityTick_LandsOnStack(t *testing.T) {
	eng := startedEngine(t, 4, 6, Dot)
	eng.grid.Occupy(2, 3, "x")

	assert.Equal(t, KeepFalling, eng.GravityTick())
	assert.Equal(t, KeepFalling, eng.GravityTick())
	assert.Equal(t, Locked, eng.GravityTick())
	assert.True(t, eng.grid.IsOccupied(2, 2))
}

func TestGravityTick_NotStarted(t *testing.T) {
	eng := newTestEngine(t, 4, 4, Dot)
	assert.Equal(t, Idle, eng.GravityTick())
	assert.Equal(t, Paused, eng.Status())
}

func TestGameOver_SpawnCollision(t *testing.T) {
	eng := startedEngine(t, 4, 4, Dot)

	var results []TickResult
	for range 100 {
		r := eng.GravityTick()
		results = append(results, r)
		if r == GameOver {
			break
		}
	}

	require.Equal(t, GameOver, results[len(results)-1])
	assert.Equal(t, Exited, eng.Status())
	// column 2 stacked up to row 0, so the new origin collides
	for y := 0; y < 4; y++ {
		assert.True(t, eng.grid.IsOccupied(2, y))
	}

	frozen := eng.Grid().Rows()
	ledger := eng.Ledger()
	pos := eng.Position()

	for _, cmd := range Commands {
		res := eng.Apply(cmd)
		assert.False(t, res.Applied, "command %s after exit", cmd)
	}
	assert.Equal(t, GameOver, eng.GravityTick())
	r, fallen := eng.HardDrop()
	assert.Equal(t, GameOver, r)
	assert.Zero(t, fallen)
	assert.False(t, eng.Start())

	assert.Equal(t, frozen, eng.Grid().Rows())
	assert.Equal(t, ledger, eng.Ledger())
	assert.Equal(t, pos, eng.Position())
	assert.Equal(t, Exited, eng.Status())
}

func TestGameOver_RowZeroFilled(t *testing.T) {
	eng := startedEngine(t, 4, 4, I)
	// row 0 occupied except one column, which keeps it from clearing
	for x := 0; x < 3; x++ {
		eng.grid.Occupy(x, 0, "x")
	}
	eng.pos = Point{X: 3, Y: 1}
	eng.active = NewPiece(Dot)

	assert.Equal(t, KeepFalling, eng.GravityTick())
	assert.Equal(t, KeepFalling, eng.GravityTick())
	assert.Equal(t, GameOver, eng.GravityTick())
	assert.Equal(t, Exited, eng.Status())
}

func TestGravityTick_ToppingOut(t *testing.T) {
	eng := startedEngine(t, 4, 4, Dot)
	eng.grid.Occupy(1, 0, "x")
	eng.active = NewPiece(Bean)
	eng.pos = Point{X: 1, Y: -1}

	// resting on row 0 while entirely above the board
	assert.Equal(t, Locked, eng.GravityTick())
	assert.Equal(t, 1, eng.grid.OccupiedCount(), "cells above the board are not written")
	assert.Equal(t, Running, eng.Status())
}

func TestGravityTick_ClearsRows(t *testing.T) {
	eng := startedEngine(t, 4, 4, Dot)
	for _, x := range []int{0, 1, 3} {
		eng.grid.Occupy(x, 3, "x")
		eng.grid.Occupy(x, 2, "x")
	}
	eng.grid.Occupy(2, 3, "x")

	// lands at (2,2) on top of (2,3) and completes rows 2 and 3
	assert.Equal(t, KeepFalling, eng.GravityTick())
	assert.Equal(t, KeepFalling, eng.GravityTick())
	assert.Equal(t, Locked, eng.GravityTick())

	assert.Zero(t, eng.grid.OccupiedCount())
	assert.Equal(t, Ledger{Score: 230, CurrentCombo: 2, BestCombo: 2, RowsCleared: 2}, eng.Ledger())
}

func TestGravityTick_LockWithoutClearResetsCombo(t *testing.T) {
	eng := startedEngine(t, 4, 4, Dot)
	eng.ledger = Ledger{Score: 100, CurrentCombo: 1, BestCombo: 1, RowsCleared: 1}

	r, _ := eng.HardDrop()
	require.Equal(t, Locked, r)
	l := eng.Ledger()
	assert.Zero(t, l.CurrentCombo)
	assert.Equal(t, 1, l.BestCombo)
}

func TestHardDrop(t *testing.T) {
	eng := startedEngine(t, 4, 4, Dot)

	r, fallen := eng.HardDrop()
	assert.Equal(t, Locked, r)
	assert.Equal(t, 3, fallen)
	assert.Equal(t, 3, eng.Ledger().Score)
	assert.True(t, eng.grid.IsOccupied(2, 3))
}

func TestHardDrop_WithClear(t *testing.T) {
	eng := startedEngine(t, 4, 4, Dot)
	for _, x := range []int{0, 1, 3} {
		eng.grid.Occupy(x, 3, "x")
	}

	r, fallen := eng.HardDrop()
	assert.Equal(t, Locked, r)
	assert.Equal(t, 3, fallen)
	assert.Equal(t, Ledger{Score: 103, CurrentCombo: 1, BestCombo: 1, RowsCleared: 1}, eng.Ledger())
}

func TestSoftDrop_Accelerative(t *testing.T) {
	eng := startedEngine(t, 4, 8, Dot)

	assert.Equal(t, KeepFalling, eng.SoftDrop())
	assert.Equal(t, Accelerative, eng.Status())
	assert.Equal(t, 1, eng.Position().Y)
	assert.Zero(t, eng.Ledger().Score)

	assert.True(t, eng.MoveLeft(), "accelerative still accepts movement")

	assert.Equal(t, KeepFalling, eng.GravityTick())
	assert.Equal(t, Running, eng.Status())
}

func TestGhost(t *testing.T) {
	eng := startedEngine(t, 4, 6, I)
	eng.grid.Occupy(2, 5, "x")

	// the lowest cell comes to rest on the stack at row 5
	assert.Equal(t, []Point{{2, 3}, {2, 1}, {2, 2}, {2, 4}}, eng.Ghost())
	assert.Equal(t, Point{X: 2, Y: 0}, eng.Position(), "ghost must not move the piece")
}

func TestGhost_Idempotent(t *testing.T) {
	eng := startedEngine(t, 10, 20, L, T)
	eng.MoveLeft()
	eng.RotateActive()
	snap := eng.Snapshot()

	first := eng.Ghost()
	second := eng.Ghost()
	assert.Equal(t, first, second)
	assert.Equal(t, snap, eng.Snapshot())
}

func TestGhost_MatchesHardDrop(t *testing.T) {
	eng := startedEngine(t, 10, 20, J, O)
	eng.MoveRight()
	eng.MoveRight()
	ghost := eng.Ghost()
	color := eng.Active().Color

	eng.HardDrop()
	for _, p := range ghost {
		if p.Y >= 0 {
			assert.True(t, eng.grid.IsOccupied(p.X, p.Y))
			assert.Equal(t, color, eng.grid.At(p.X, p.Y).Color)
		}
	}
}

func TestApply_Pause(t *testing.T) {
	eng := startedEngine(t, 6, 6, Dot)

	res := eng.Apply(Pause)
	assert.True(t, res.Applied)
	assert.Equal(t, Paused, eng.Status())

	assert.False(t, eng.Apply(MoveLeft).Applied)
	assert.False(t, eng.Apply(Tick).Applied)
	assert.Equal(t, Point{X: 3, Y: 0}, eng.Position())

	eng.Apply(Pause)
	assert.Equal(t, Running, eng.Status())
	assert.True(t, eng.Apply(MoveLeft).Applied)
}

func TestApply_Quit(t *testing.T) {
	eng := startedEngine(t, 6, 6, Dot)
	res := eng.Apply(Quit)
	assert.True(t, res.Applied)
	assert.Equal(t, Exited, eng.Status())
	assert.False(t, eng.Apply(Quit).Applied)
}

func TestApply_HardDropReportsClear(t *testing.T) {
	eng := startedEngine(t, 4, 4, Dot)
	for _, x := range []int{0, 1, 3} {
		eng.grid.Occupy(x, 3, "x")
	}

	res := eng.Apply(HardDrop)
	assert.True(t, res.Applied)
	assert.Equal(t, Locked, res.Tick)
	assert.Equal(t, 3, res.Dropped)
	assert.Equal(t, 1, res.Cleared)
}

func TestApply_Tick(t *testing.T) {
	eng := startedEngine(t, 4, 4, Dot)
	res := eng.Apply(Tick)
	assert.True(t, res.Applied)
	assert.Equal(t, KeepFalling, res.Tick)
}
