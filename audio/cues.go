package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

// Cue identifies a game event with a sound
type Cue int

const (
	CueLock Cue = iota
	CueClear
	CueGameOver
)

func (c Cue) String() string {
	switch c {
	case CueLock:
		return "lock"
	case CueClear:
		return "clear"
	case CueGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Tone is a single sine note
type Tone struct {
	Frequency float64
	Duration  time.Duration
	Volume    float64
}

const (
	lockFrequency  = 220.0
	clearBase      = 523.25 // C5
	maxComboSteps  = 12
	gameOverHigh   = 392.0
	gameOverLow    = 196.0
	defaultVolume  = 0.25
	lockVolume     = 0.15
	clearDuration  = 120 * time.Millisecond
	lockDuration   = 40 * time.Millisecond
	gameOverLength = 300 * time.Millisecond
)

// ClearFrequency rises a semitone per combo step, capped at one octave
func ClearFrequency(combo int) float64 {
	steps := min(max(combo-1, 0), maxComboSteps)
	return clearBase * math.Pow(2, float64(steps)/12)
}

// Tones returns the notes played for a cue, in order
func Tones(cue Cue, combo int) []Tone {
	switch cue {
	case CueLock:
		return []Tone{{Frequency: lockFrequency, Duration: lockDuration, Volume: lockVolume}}
	case CueClear:
		return []Tone{{Frequency: ClearFrequency(combo), Duration: clearDuration, Volume: defaultVolume}}
	case CueGameOver:
		return []Tone{
			{Frequency: gameOverHigh, Duration: gameOverLength, Volume: defaultVolume},
			{Frequency: gameOverLow, Duration: gameOverLength, Volume: defaultVolume},
		}
	}
	return nil
}

// Fade takes n samples from s, scaled by volume and a linear decay to silence
func Fade(n int, volume float64, s beep.Streamer) beep.Streamer {
	return &fade{s: s, n: n, volume: volume}
}

type fade struct {
	s      beep.Streamer
	n      int
	pos    int
	volume float64
}

func (f *fade) Stream(samples [][2]float64) (int, bool) {
	if f.pos >= f.n {
		return 0, false
	}
	if rem := f.n - f.pos; len(samples) > rem {
		samples = samples[:rem]
	}
	n, ok := f.s.Stream(samples)
	for i := range samples[:n] {
		gain := f.volume * (1 - float64(f.pos)/float64(f.n))
		samples[i][0] *= gain
		samples[i][1] *= gain
		f.pos++
	}
	return n, ok || n > 0
}

func (f *fade) Err() error {
	return f.s.Err()
}
