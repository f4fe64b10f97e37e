package loop

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/blockfall/game/engine"
)

func newDriver(t *testing.T, cadence Cadence, opts ...Option) *Driver {
	t.Helper()
	eng, err := engine.New(engine.Settings{Name: "test", Width: 4, Height: 4}, engine.WithSequence(engine.Dot))
	require.NoError(t, err)
	return New(eng, cadence, opts...)
}

func TestDriver_GravityFollowsCadence(t *testing.T) {
	d := newDriver(t, FixedCadence(3))
	require.True(t, d.Start())

	for i := 1; i <= 2; i++ {
		f := d.Step()
		assert.Equal(t, engine.Idle, f.Gravity, "frame %d", i)
		assert.False(t, f.Changed)
	}
	f := d.Step()
	assert.Equal(t, 3, f.Number)
	assert.Equal(t, engine.KeepFalling, f.Gravity)
	assert.True(t, f.Changed)
	assert.Equal(t, 1, f.Snapshot.Position.Y)
}

func TestDriver_NoGravityWhilePaused(t *testing.T) {
	d := newDriver(t, FixedCadence(1))

	// never started
	f := d.Step()
	assert.Equal(t, engine.Idle, f.Gravity)

	d.Start()
	d.Apply(engine.Pause)
	for range 5 {
		assert.Equal(t, engine.Idle, d.Step().Gravity)
	}
	assert.Equal(t, 0, d.Snapshot().Position.Y)
}

func TestDriver_ManualCadence(t *testing.T) {
	d := newDriver(t, ManualCadence{})
	d.Start()

	for range 100 {
		d.Step()
	}
	assert.Equal(t, 0, d.Snapshot().Position.Y)

	require.NoError(t, d.Submit(engine.Tick))
	f := d.Step()
	require.Len(t, f.Results, 1)
	assert.Equal(t, engine.KeepFalling, f.Results[0].Tick)
	assert.Equal(t, 1, f.Snapshot.Position.Y)
}

func TestDriver_DrainsPendingCommandsInOrder(t *testing.T) {
	d := newDriver(t, ManualCadence{})
	d.Start()

	require.NoError(t, d.Submit(engine.MoveLeft))
	require.NoError(t, d.Submit(engine.MoveLeft))
	require.NoError(t, d.Submit(engine.MoveRight))
	assert.Equal(t, 3, d.Pending())

	f := d.Step()
	require.Len(t, f.Results, 3)
	assert.Equal(t, engine.MoveLeft, f.Results[0].Command)
	assert.Equal(t, engine.MoveRight, f.Results[2].Command)
	assert.Equal(t, 1, f.Snapshot.Position.X)
	assert.Zero(t, d.Pending())

	// an empty poll is a no-op
	f = d.Step()
	assert.Empty(t, f.Results)
	assert.False(t, f.Changed)
}

func TestDriver_GravityBeforeCommands(t *testing.T) {
	d := newDriver(t, FixedCadence(1))
	d.Start()

	require.NoError(t, d.Submit(engine.HardDrop))
	f := d.Step()
	assert.Equal(t, engine.KeepFalling, f.Gravity)
	require.Len(t, f.Results, 1)
	assert.Equal(t, 2, f.Results[0].Dropped, "gravity moved the piece before the drop")
}

func TestDriver_QueueFull(t *testing.T) {
	d := newDriver(t, ManualCadence{}, WithQueueSize(2))
	d.Start()

	require.NoError(t, d.Submit(engine.MoveLeft))
	require.NoError(t, d.Submit(engine.MoveLeft))
	assert.ErrorIs(t, d.Submit(engine.MoveLeft), ErrQueueFull)

	d.Step()
	assert.NoError(t, d.Submit(engine.MoveLeft))
}

func TestDriver_SubmitAfterExit(t *testing.T) {
	d := newDriver(t, ManualCadence{})
	d.Start()

	res := d.Apply(engine.Quit)
	assert.True(t, res.Applied)
	assert.True(t, d.Finished())
	assert.ErrorIs(t, d.Submit(engine.Rotate), ErrFinished)
}

func TestDriver_FrameHook(t *testing.T) {
	var (
		mu     sync.Mutex
		frames []Frame
	)
	hook := func(f Frame) {
		mu.Lock()
		frames = append(frames, f)
		mu.Unlock()
	}
	d := newDriver(t, FixedCadence(2), WithFrameHook(hook))

	d.Start()
	d.Step()
	d.Step()
	d.Apply(engine.MoveLeft)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, frames, 3, "start, gravity and move; the idle frame is skipped")
	assert.Equal(t, engine.KeepFalling, frames[1].Gravity)
	assert.Equal(t, 1, frames[2].Snapshot.Position.X)
}

func TestDriver_RunStopsOnGameOver(t *testing.T) {
	d := newDriver(t, FixedCadence(1))
	d.Start()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := d.Run(ctx, time.Millisecond)
	require.NoError(t, err)
	assert.True(t, d.Finished())
	assert.Equal(t, engine.Exited, d.Snapshot().Status)
}

func TestDriver_RunHonorsContext(t *testing.T) {
	d := newDriver(t, ManualCadence{})
	d.Start()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := d.Run(ctx, time.Millisecond)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, d.Finished())
}

func TestDriver_ConcurrentSubmit(t *testing.T) {
	d := newDriver(t, ManualCadence{}, WithQueueSize(1000))
	d.Start()

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 20 {
				_ = d.Submit(engine.Rotate)
			}
		}()
	}
	wg.Wait()

	f := d.Step()
	assert.Len(t, f.Results, 200)
}
