package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/wricardo/blockfall/game/engine"
	"github.com/wricardo/blockfall/game/loop"
	"github.com/wricardo/blockfall/game/service"
)

var (
	ErrSessionNotFound      = service.ErrSessionNotFound
	ErrSessionAlreadyExists = errors.New("session already exists")
)

// Manager handles game session lifecycle
type Manager struct {
	sessions map[string]*service.Session
	interval time.Duration
	mu       sync.RWMutex
	wg       sync.WaitGroup
}

// NewManager creates a new session manager
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*service.Session),
		interval: loop.FrameInterval,
	}
}

// NewManagerWithInterval creates a session manager whose realtime sessions
// step at the given frame interval
func NewManagerWithInterval(interval time.Duration) *Manager {
	m := NewManager()
	if interval > 0 {
		m.interval = interval
	}
	return m
}

// Create builds an engine and driver for settings and starts play.
// Realtime sessions also get their own frame loop.
func (m *Manager) Create(id string, settings engine.Settings, opts service.SessionOptions) (*service.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id == "" {
		id = m.generateSessionID()
	}

	// Check if session already exists (case-insensitive)
	if _, exists := m.sessions[strings.ToLower(id)]; exists {
		return nil, ErrSessionAlreadyExists
	}

	eng, err := engine.New(settings)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	var driverOpts []loop.Option
	if opts.Listener != nil {
		listener := opts.Listener
		driverOpts = append(driverOpts, loop.WithFrameHook(func(f loop.Frame) {
			listener(id, f)
		}))
	}
	drv := loop.New(eng, opts.Cadence, driverOpts...)

	now := time.Now()
	sess := &service.Session{
		ID:             id,
		Driver:         drv,
		Settings:       settings,
		ConfigName:     opts.ConfigName,
		Realtime:       opts.Realtime,
		CreatedAt:      now,
		LastAccessedAt: now,
	}

	drv.Start()
	if opts.Realtime {
		ctx, cancel := context.WithCancel(context.Background())
		sess.Cancel = cancel
		m.wg.Add(1)
		go m.run(ctx, sess)
	}

	m.sessions[strings.ToLower(id)] = sess
	log.Printf("Session %s created (%s, %dx%d, realtime=%v)", id, settings.Name, settings.Width, settings.Height, opts.Realtime)
	return copySession(sess), nil
}

// copySession returns a copy callers may read without holding m.mu.
// The driver is shared and carries its own lock.
func copySession(sess *service.Session) *service.Session {
	c := *sess
	return &c
}

// run drives a realtime session until it ends or is cancelled
func (m *Manager) run(ctx context.Context, sess *service.Session) {
	defer m.wg.Done()

	err := sess.Driver.Run(ctx, m.interval)
	switch {
	case err == nil:
		log.Printf("Session %s finished: %s", sess.ID, sess.Driver.Snapshot().Ledger)
	case errors.Is(err, context.Canceled):
	default:
		log.Printf("Session %s loop stopped: %v", sess.ID, err)
	}
}

// Get returns a copy of the session with the given ID (case-insensitive)
func (m *Manager) Get(id string) (*service.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sess, exists := m.sessions[strings.ToLower(id)]
	if !exists {
		return nil, ErrSessionNotFound
	}
	return copySession(sess), nil
}

// List returns copies of all active sessions
func (m *Manager) List() []*service.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*service.Session, 0, len(m.sessions))
	for _, sess := range m.sessions {
		result = append(result, copySession(sess))
	}
	return result
}

// Delete stops and removes a session
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(id)
	sess, exists := m.sessions[key]
	if !exists {
		return ErrSessionNotFound
	}
	sess.Close()
	delete(m.sessions, key)
	return nil
}

// UpdateLastAccessed updates the last accessed time for a session
func (m *Manager) UpdateLastAccessed(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, exists := m.sessions[strings.ToLower(id)]
	if !exists {
		return ErrSessionNotFound
	}
	sess.LastAccessedAt = time.Now()
	return nil
}

// CleanupExpiredSessions removes sessions that haven't been accessed in the given duration
func (m *Manager) CleanupExpiredSessions(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	removed := 0

	for id, sess := range m.sessions {
		if sess.LastAccessedAt.Before(cutoff) {
			sess.Close()
			delete(m.sessions, id)
			removed++
		}
	}

	return removed
}

// Count returns the number of active sessions
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Shutdown stops every realtime loop and waits for them to return
func (m *Manager) Shutdown() {
	m.mu.Lock()
	for _, sess := range m.sessions {
		sess.Close()
	}
	m.mu.Unlock()
	m.wg.Wait()
}

// generateSessionID generates a random 4-character session ID
func (m *Manager) generateSessionID() string {
	for {
		// 2 random bytes give 4 hex characters
		bytes := make([]byte, 2)
		rand.Read(bytes)
		id := hex.EncodeToString(bytes)
		if _, exists := m.sessions[id]; !exists {
			return id
		}
	}
}
