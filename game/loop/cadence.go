package loop

import (
	"fmt"
	"time"

	"github.com/wricardo/blockfall/game/engine"
)

// FrameInterval is the wall-clock length of one frame
const FrameInterval = 10 * time.Millisecond

// DefaultGravityFrames is the gravity interval for non-accelerating sessions
const DefaultGravityFrames = 50

// Cadence decides how many frames pass between gravity ticks.
// Zero means gravity is never applied by the driver.
type Cadence interface {
	Frames(ledger engine.Ledger) int
}

// FixedCadence ticks every n frames regardless of score
type FixedCadence int

func (c FixedCadence) Frames(engine.Ledger) int { return int(c) }

// ManualCadence never ticks
type ManualCadence struct{}

func (ManualCadence) Frames(engine.Ledger) int { return 0 }

// Bracket maps scores below Below to a gravity interval
type Bracket struct {
	Below  int
	Frames int
}

// ScoreCadence picks the gravity interval from score brackets, checked in
// order. Scores past the last bracket use Floor.
type ScoreCadence struct {
	Brackets []Bracket
	Floor    int
}

// DefaultScoreCadence is the difficulty ramp used by accelerating sessions
var DefaultScoreCadence = ScoreCadence{
	Brackets: []Bracket{
		{Below: 1000, Frames: 50},
		{Below: 3000, Frames: 40},
		{Below: 6000, Frames: 30},
		{Below: 10000, Frames: 20},
	},
	Floor: 10,
}

func (c ScoreCadence) Frames(ledger engine.Ledger) int {
	for _, b := range c.Brackets {
		if ledger.Score < b.Below {
			return b.Frames
		}
	}
	return c.Floor
}

// CadenceFor returns the cadence matching the session settings
func CadenceFor(settings engine.Settings) Cadence {
	if settings.Accelerate {
		return DefaultScoreCadence
	}
	return FixedCadence(DefaultGravityFrames)
}

// ParseCadence converts a cadence name into a Cadence. An empty name defers
// to the settings.
func ParseCadence(name string, settings engine.Settings) (Cadence, error) {
	switch name {
	case "":
		return CadenceFor(settings), nil
	case "score":
		return DefaultScoreCadence, nil
	case "fixed":
		return FixedCadence(DefaultGravityFrames), nil
	case "manual":
		return ManualCadence{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCadence, name)
	}
}
