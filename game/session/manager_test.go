package session

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/blockfall/game/engine"
	"github.com/wricardo/blockfall/game/loop"
	"github.com/wricardo/blockfall/game/service"
)

func testSettings() engine.Settings {
	return engine.Settings{Name: "test", Width: 6, Height: 8, Seed: 1}
}

func manual() service.SessionOptions {
	return service.SessionOptions{ConfigName: "test", Cadence: loop.ManualCadence{}}
}

func TestManager_Create(t *testing.T) {
	manager := NewManager()

	sess, err := manager.Create("", testSettings(), manual())
	require.NoError(t, err)

	assert.Len(t, sess.ID, 4)
	assert.Equal(t, "test", sess.ConfigName)
	assert.False(t, sess.Realtime)
	assert.Nil(t, sess.Cancel)
	assert.Equal(t, engine.Running, sess.Driver.Snapshot().Status, "sessions start in play")
	assert.Equal(t, 1, manager.Count())
}

func TestManager_CreateWithID(t *testing.T) {
	manager := NewManager()

	sess, err := manager.Create("Game1", testSettings(), manual())
	require.NoError(t, err)
	assert.Equal(t, "Game1", sess.ID)

	_, err = manager.Create("GAME1", testSettings(), manual())
	assert.ErrorIs(t, err, ErrSessionAlreadyExists)
}

func TestManager_CreateInvalidSettings(t *testing.T) {
	manager := NewManager()

	_, err := manager.Create("", engine.Settings{Name: "bad", Width: 1, Height: 8}, manual())
	assert.ErrorIs(t, err, engine.ErrInvalidSettings)
	assert.Zero(t, manager.Count())
}

func TestManager_GetCaseInsensitive(t *testing.T) {
	manager := NewManager()
	created, err := manager.Create("AbCd", testSettings(), manual())
	require.NoError(t, err)

	for _, id := range []string{"AbCd", "abcd", "ABCD"} {
		got, err := manager.Get(id)
		require.NoError(t, err, id)
		assert.Equal(t, created.ID, got.ID)
		assert.Same(t, created.Driver, got.Driver)
	}

	_, err = manager.Get("zzzz")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestManager_ListAndDelete(t *testing.T) {
	manager := NewManager()
	for range 3 {
		_, err := manager.Create("", testSettings(), manual())
		require.NoError(t, err)
	}

	sessions := manager.List()
	require.Len(t, sessions, 3)

	require.NoError(t, manager.Delete(strings.ToUpper(sessions[0].ID)))
	assert.Len(t, manager.List(), 2)
	assert.ErrorIs(t, manager.Delete(sessions[0].ID), ErrSessionNotFound)
}

func TestManager_UpdateLastAccessed(t *testing.T) {
	manager := NewManager()
	sess, err := manager.Create("", testSettings(), manual())
	require.NoError(t, err)

	before := sess.LastAccessedAt
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, manager.UpdateLastAccessed(sess.ID))
	assert.Equal(t, before, sess.LastAccessedAt, "returned sessions are copies")

	got, err := manager.Get(sess.ID)
	require.NoError(t, err)
	assert.True(t, got.LastAccessedAt.After(before))

	assert.ErrorIs(t, manager.UpdateLastAccessed("nope"), ErrSessionNotFound)
}

func TestManager_CleanupExpiredSessions(t *testing.T) {
	manager := NewManager()
	old, err := manager.Create("old1", testSettings(), manual())
	require.NoError(t, err)
	_, err = manager.Create("new1", testSettings(), manual())
	require.NoError(t, err)

	manager.sessions[old.ID].LastAccessedAt = time.Now().Add(-2 * time.Hour)

	removed := manager.CleanupExpiredSessions(time.Hour)
	assert.Equal(t, 1, removed)

	_, err = manager.Get("old1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = manager.Get("new1")
	assert.NoError(t, err)
}

func TestManager_RealtimeSession(t *testing.T) {
	manager := NewManagerWithInterval(time.Millisecond)

	var (
		mu     sync.Mutex
		frames int
		ids    = map[string]bool{}
	)
	opts := service.SessionOptions{
		Realtime: true,
		Cadence:  loop.FixedCadence(1),
		Listener: func(id string, f loop.Frame) {
			mu.Lock()
			frames++
			ids[id] = true
			mu.Unlock()
		},
	}

	sess, err := manager.Create("live", testSettings(), opts)
	require.NoError(t, err)
	require.NotNil(t, sess.Cancel)

	assert.Eventually(t, func() bool {
		return sess.Driver.Snapshot().Position.Y > 0
	}, 2*time.Second, time.Millisecond, "gravity advances without commands")

	require.NoError(t, manager.Delete("live"))
	manager.Shutdown()

	mu.Lock()
	defer mu.Unlock()
	assert.Greater(t, frames, 1)
	assert.Equal(t, map[string]bool{"live": true}, ids)
}

func TestManager_ShutdownStopsLoops(t *testing.T) {
	manager := NewManagerWithInterval(time.Millisecond)
	opts := service.SessionOptions{Realtime: true, Cadence: loop.ManualCadence{}}

	for range 3 {
		_, err := manager.Create("", testSettings(), opts)
		require.NoError(t, err)
	}

	done := make(chan struct{})
	go func() {
		manager.Shutdown()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Shutdown did not return")
	}
}

func TestManager_ConcurrentCreate(t *testing.T) {
	manager := NewManager()

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := manager.Create("", testSettings(), manual())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, manager.Count())
}

// stubConfigs serves testSettings as the only preset
type stubConfigs struct{}

func (stubConfigs) LoadConfig(name string) (*engine.Settings, error) {
	s := testSettings()
	return &s, nil
}

func (stubConfigs) ListConfigs() ([]*service.ConfigInfo, error) { return nil, nil }

func (stubConfigs) GetDefault() *engine.Settings {
	s := testSettings()
	return &s
}

func (stubConfigs) SaveConfig(string, *engine.Settings) error { return nil }

func TestManager_ConcurrentAccess(t *testing.T) {
	manager := NewManager()
	svc := service.NewGameService(manager, stubConfigs{})
	ctx := context.Background()

	info, err := svc.CreateSession(ctx, service.CreateOptions{})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 200 {
				got, err := svc.GetSession(ctx, info.ID)
				if !assert.NoError(t, err) {
					return
				}
				assert.False(t, got.LastAccessedAt.IsZero())

				if i%2 == 0 {
					_, err = svc.ListSessions(ctx)
				} else {
					err = manager.UpdateLastAccessed(info.ID)
				}
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, manager.Count())
}
