// Package terminal is the tcell front end: a Painter that draws the walled
// board, ghost and side panel, and an Input pump that turns key presses
// into engine commands for a loop.Driver.
//
// Keys: arrows or hjkl/wasd move and rotate, space hard-drops, p pauses,
// q, Esc or Ctrl-C quit.
package terminal
