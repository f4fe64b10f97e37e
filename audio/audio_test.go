package audio

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/blockfall/game/engine"
	"github.com/wricardo/blockfall/game/loop"
)

// constant streams a fixed sample forever
type constant float64

func (c constant) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		samples[i][0], samples[i][1] = float64(c), float64(c)
	}
	return len(samples), true
}

func (constant) Err() error { return nil }

func TestClearFrequency(t *testing.T) {
	assert.InDelta(t, clearBase, ClearFrequency(0), 1e-9)
	assert.InDelta(t, clearBase, ClearFrequency(1), 1e-9)
	assert.InDelta(t, clearBase*math.Pow(2, 1.0/12), ClearFrequency(2), 1e-9)
	assert.InDelta(t, clearBase*2, ClearFrequency(13), 1e-9)
	assert.Equal(t, ClearFrequency(13), ClearFrequency(40), "capped at one octave")

	for combo := 1; combo < maxComboSteps; combo++ {
		assert.Greater(t, ClearFrequency(combo+1), ClearFrequency(combo))
	}
}

func TestTones(t *testing.T) {
	assert.Len(t, Tones(CueLock, 0), 1)
	assert.Len(t, Tones(CueGameOver, 0), 2)
	assert.Nil(t, Tones(Cue(99), 0))

	tone := Tones(CueClear, 3)
	require.Len(t, tone, 1)
	assert.Equal(t, ClearFrequency(3), tone[0].Frequency)

	over := Tones(CueGameOver, 0)
	assert.Greater(t, over[0].Frequency, over[1].Frequency)
}

func TestCueString(t *testing.T) {
	assert.Equal(t, "lock", CueLock.String())
	assert.Equal(t, "clear", CueClear.String())
	assert.Equal(t, "game_over", CueGameOver.String())
	assert.Equal(t, "unknown", Cue(7).String())
}

func TestFade(t *testing.T) {
	s := Fade(10, 0.5, constant(1))

	buf := make([][2]float64, 16)
	n, ok := s.Stream(buf)
	assert.True(t, ok)
	assert.Equal(t, 10, n)
	assert.InDelta(t, 0.5, buf[0][0], 1e-9)
	assert.InDelta(t, 0.05, buf[9][1], 1e-9)
	for i := 1; i < n; i++ {
		assert.Less(t, buf[i][0], buf[i-1][0])
	}

	n, ok = s.Stream(buf)
	assert.False(t, ok)
	assert.Zero(t, n)
	assert.NoError(t, s.Err())
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name                 string
		prevPieces, prevRows int
		prevFinished         bool
		pieces, rows         int
		finished             bool
		want                 Cue
		ok                   bool
	}{
		{"first spawn", 0, 0, false, 1, 0, false, 0, false},
		{"lock", 1, 0, false, 2, 0, false, CueLock, true},
		{"clear", 2, 0, false, 3, 1, false, CueClear, true},
		{"game over", 3, 1, false, 4, 1, true, CueGameOver, true},
		{"still over", 4, 1, true, 4, 1, true, 0, false},
		{"nothing", 2, 0, false, 2, 0, false, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cue, ok := detect(tt.prevPieces, tt.prevRows, tt.prevFinished, tt.pieces, tt.rows, tt.finished)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, cue)
			}
		})
	}
}

func TestOnFrameWithoutSpeaker(t *testing.T) {
	sm := NewSoundManager()

	sm.OnFrame(loop.Frame{})
	sm.OnFrame(loop.Frame{Snapshot: &engine.Snapshot{Pieces: 1}})
	sm.OnFrame(loop.Frame{Snapshot: &engine.Snapshot{Pieces: 2, Ledger: engine.Ledger{RowsCleared: 1, CurrentCombo: 1}}})

	assert.Equal(t, 2, sm.pieces)
	assert.Equal(t, 1, sm.rows)
	assert.False(t, sm.finished)

	sm.OnFrame(loop.Frame{Snapshot: &engine.Snapshot{Pieces: 2, Status: engine.Exited}})
	assert.True(t, sm.finished)

	sm.Cleanup()
}
