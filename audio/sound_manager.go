package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/wricardo/blockfall/game/loop"
)

const (
	sampleRate = beep.SampleRate(44100)
)

// SoundManager plays short tones for game events
type SoundManager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool

	// last observed session state, used to detect events between frames
	pieces   int
	rows     int
	finished bool
}

// NewSoundManager creates a new sound manager
func NewSoundManager() *SoundManager {
	return &SoundManager{
		mixer: &beep.Mixer{},
	}
}

// Initialize sets up the speaker. The game runs silently if it fails.
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	if err := speaker.Init(sampleRate, sampleRate.N(time.Millisecond*100)); err != nil {
		return err
	}

	speaker.Play(sm.mixer)
	sm.initialized = true
	return nil
}

// Cleanup stops all sounds
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	speaker.Lock()
	sm.mixer.Clear()
	speaker.Unlock()
	sm.initialized = false
}

// Play queues the tones of a cue. combo only affects CueClear.
func (sm *SoundManager) Play(cue Cue, combo int) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	streamers := make([]beep.Streamer, 0, 2)
	for _, t := range Tones(cue, combo) {
		sine, err := generators.SineTone(sampleRate, t.Frequency)
		if err != nil {
			continue
		}
		streamers = append(streamers, Fade(sampleRate.N(t.Duration), t.Volume, sine))
	}
	if len(streamers) == 0 {
		return
	}

	speaker.Lock()
	sm.mixer.Add(beep.Seq(streamers...))
	speaker.Unlock()
}

// OnFrame is a loop.FrameHook that plays the cue matching what changed
func (sm *SoundManager) OnFrame(frame loop.Frame) {
	snap := frame.Snapshot
	if snap == nil {
		return
	}

	sm.mu.Lock()
	cue, ok := detect(sm.pieces, sm.rows, sm.finished, snap.Pieces, snap.Ledger.RowsCleared, snap.GameOver())
	sm.pieces, sm.rows, sm.finished = snap.Pieces, snap.Ledger.RowsCleared, snap.GameOver()
	sm.mu.Unlock()

	if ok {
		sm.Play(cue, snap.Ledger.CurrentCombo)
	}
}

// detect compares two consecutive observations. Game over wins over a
// clear, which wins over a plain lock.
func detect(prevPieces, prevRows int, prevFinished bool, pieces, rows int, finished bool) (Cue, bool) {
	switch {
	case finished && !prevFinished:
		return CueGameOver, true
	case rows > prevRows:
		return CueClear, true
	case pieces > prevPieces && prevPieces > 0:
		return CueLock, true
	}
	return 0, false
}
