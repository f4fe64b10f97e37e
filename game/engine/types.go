package engine

import (
	"fmt"
	"strings"
)

// Board limits and default dimensions
const (
	MinBoardSize  = 4
	MaxBoardSize  = 64
	DefaultWidth  = 10
	DefaultHeight = 20

	// QueueLength is the number of upcoming pieces kept ready
	QueueLength = 3
)

// Offset is a cell position relative to a piece's origin, with y pointing up
type Offset struct {
	DX int `json:"dx"`
	DY int `json:"dy"`
}

// Point is an absolute grid coordinate. Y may be negative above the board.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Color is an opaque display tag carried by pieces and grid cells
type Color string

// Status is the session state
type Status string

const (
	Paused       Status = "paused"
	Running      Status = "running"
	Accelerative Status = "accelerative"
	Exited       Status = "exited"
)

// Playing reports whether the status accepts movement commands
func (s Status) Playing() bool {
	return s == Running || s == Accelerative
}

// TickResult is the outcome of a single gravity step
type TickResult string

const (
	KeepFalling TickResult = "keep_falling"
	Locked      TickResult = "locked"
	GameOver    TickResult = "game_over"
	// Idle means no step happened because the session is not in play
	Idle TickResult = "idle"
)

// SideLimit reports which horizontal moves are blocked for the active piece
type SideLimit int

const (
	NoneBlocked SideLimit = iota
	LeftBlocked
	RightBlocked
	BothBlocked
)

func (l SideLimit) String() string {
	switch l {
	case LeftBlocked:
		return "left"
	case RightBlocked:
		return "right"
	case BothBlocked:
		return "both"
	default:
		return "none"
	}
}

// Left reports whether moving left is blocked
func (l SideLimit) Left() bool { return l == LeftBlocked || l == BothBlocked }

// Right reports whether moving right is blocked
func (l SideLimit) Right() bool { return l == RightBlocked || l == BothBlocked }

// Command is a discrete player or driver instruction
type Command string

const (
	Quit      Command = "quit"
	Rotate    Command = "rotate"
	MoveLeft  Command = "left"
	MoveRight Command = "right"
	SoftDrop  Command = "soft_drop"
	HardDrop  Command = "hard_drop"
	Pause     Command = "pause"
	Tick      Command = "tick"
)

// Commands lists every command in a stable order
var Commands = []Command{Rotate, MoveLeft, MoveRight, SoftDrop, HardDrop, Tick, Pause, Quit}

var commandAliases = map[string]Command{
	"quit":       Quit,
	"q":          Quit,
	"exit":       Quit,
	"rotate":     Rotate,
	"up":         Rotate,
	"left":       MoveLeft,
	"move_left":  MoveLeft,
	"right":      MoveRight,
	"move_right": MoveRight,
	"soft_drop":  SoftDrop,
	"down":       SoftDrop,
	"accelerate": SoftDrop,
	"hard_drop":  HardDrop,
	"drop":       HardDrop,
	"sink":       HardDrop,
	"space":      HardDrop,
	"pause":      Pause,
	"tick":       Tick,
	"gravity":    Tick,
}

// ParseCommand converts a command name or alias into a Command
func ParseCommand(s string) (Command, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.ReplaceAll(key, "-", "_")
	if cmd, ok := commandAliases[key]; ok {
		return cmd, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCommand, s)
}

// CommandResult describes what applying a command did
type CommandResult struct {
	Command Command    `json:"command"`
	Applied bool       `json:"applied"`
	Tick    TickResult `json:"tick,omitempty"`
	// Dropped counts rows fallen during a hard drop
	Dropped int `json:"dropped,omitempty"`
	// Cleared counts rows removed by a lock caused by this command
	Cleared int `json:"cleared,omitempty"`
}
