// Package engine provides the core game logic for the falling-block puzzle.
//
// The engine package implements the game mechanics including:
//   - A closed catalog of piece shapes stored as offsets around an origin cell
//   - In-place piece rotation and absolute-cell projection
//   - A fixed-size grid with full-row detection and removal
//   - Score, combo and cleared-row bookkeeping
//   - The session state machine: spawn, movement, rotation, gravity, locking,
//     line clears, game-over detection and ghost projection
//
// Core Types:
//
// Engine owns a Grid, the active Piece, the upcoming queue and a Ledger. It is
// mutated by a single driver and exposes read-only Snapshot values for
// renderers. Settings defines the board dimensions and draw rules.
//
// Usage:
//
//	eng, err := engine.New(engine.DefaultSettings())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	eng.Start()
//	eng.Apply(engine.MoveLeft)
//	result := eng.GravityTick()
//	snap := eng.Snapshot()
//
// Coordinates:
//
// Offsets use "up is positive" local coordinates. Absolute cells use grid
// coordinates where row 0 is the top (spawn side) and rows grow downward.
// The active position may have a negative y: cells above the board are legal
// and are never written into the grid.
package engine
