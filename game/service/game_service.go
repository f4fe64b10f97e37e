package service

import (
	"context"
	"time"

	"github.com/wricardo/blockfall/game/engine"
	"github.com/wricardo/blockfall/game/loop"
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, opts CreateOptions) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	Command(ctx context.Context, sessionID, command string) (*CommandOutcome, error)
	BulkCommand(ctx context.Context, sessionID string, commands []string) (*BulkCommandResult, error)

	// Game State
	GetSnapshot(ctx context.Context, sessionID string) (*engine.Snapshot, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.Settings, error)
	SaveConfig(ctx context.Context, configName string, settings *engine.Settings) error
}

// FrameListener receives every changed frame of a session
type FrameListener func(sessionID string, frame loop.Frame)

// SessionOptions tells a SessionManager how to drive a new session
type SessionOptions struct {
	ConfigName string
	Realtime   bool
	Cadence    loop.Cadence
	Listener   FrameListener
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, settings engine.Settings, opts SessionOptions) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// ConfigManager handles preset loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.Settings, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.Settings
	SaveConfig(name string, settings *engine.Settings) error
}

// Session represents an active game session
type Session struct {
	ID             string
	Driver         *loop.Driver
	Settings       engine.Settings
	ConfigName     string
	Realtime       bool
	CreatedAt      time.Time
	LastAccessedAt time.Time

	// Cancel stops the frame loop of a realtime session
	Cancel context.CancelFunc
}

// Close stops the session's frame loop, if it has one
func (s *Session) Close() {
	if s.Cancel != nil {
		s.Cancel()
	}
}
