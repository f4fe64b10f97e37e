package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/wricardo/blockfall/game/engine"
	"github.com/wricardo/blockfall/game/loop"
)

// MaxBulkCommands caps the number of commands accepted in one bulk call
const MaxBulkCommands = 200

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrConfigNotFound  = errors.New("configuration not found")
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	listener FrameListener
	mu       sync.RWMutex
}

// Option configures the game service
type Option func(*gameServiceImpl)

// WithFrameListener receives the changed frames of every session
func WithFrameListener(fn FrameListener) Option {
	return func(s *gameServiceImpl) {
		s.listener = fn
	}
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager, opts ...Option) GameService {
	s := &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateSession creates and starts a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, opts CreateOptions) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var settings engine.Settings
	configID := opts.ConfigName
	if configID != "" {
		loaded, err := s.configs.LoadConfig(configID)
		if err != nil {
			if errors.Is(err, ErrConfigNotFound) {
				return nil, s.configNotFound(configID)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configID, err)
		}
		settings = *loaded
	} else {
		settings = *s.configs.GetDefault()
		configID = s.getConfigID(settings.Name)
	}
	if opts.Seed != 0 {
		settings.Seed = opts.Seed
	}

	cadence, err := loop.ParseCadence(opts.Cadence, settings)
	if err != nil {
		return nil, err
	}
	if !opts.Realtime && opts.Cadence == "" {
		// manual sessions only advance on explicit ticks
		cadence = loop.ManualCadence{}
	}

	// Let session manager generate a proper 4-character ID
	sess, err := s.sessions.Create("", settings, SessionOptions{
		ConfigName: configID,
		Realtime:   opts.Realtime,
		Cadence:    cadence,
		Listener:   s.listener,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return sessionInfo(sess), nil
}

// configNotFound builds a helpful error listing the available presets
func (s *gameServiceImpl) configNotFound(name string) error {
	available, err := s.configs.ListConfigs()
	if err == nil && len(available) > 0 {
		ids := make([]string, 0, len(available))
		for _, cfg := range available {
			ids = append(ids, cfg.ConfigID)
		}
		return fmt.Errorf("%w: '%s'. Available configs: %v", ErrConfigNotFound, name, ids)
	}
	return fmt.Errorf("%w: '%s'. Use /api/configs to list available configurations", ErrConfigNotFound, name)
}

// getConfigID returns the config_id for a display name
func (s *gameServiceImpl) getConfigID(configName string) string {
	available, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range available {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

func sessionInfo(sess *Session) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     sess.ConfigName,
		Realtime:       sess.Realtime,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		Settings:       sess.Settings,
		Snapshot:       sess.Driver.Snapshot(),
	}
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return sessionInfo(sess), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, sessionInfo(sess))
	}
	return result, nil
}

// DeleteSession stops and removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.Delete(sessionID)
}

// session looks up a session and refreshes its access time
func (s *gameServiceImpl) session(sessionID string) (*Session, error) {
	if err := s.sessions.UpdateLastAccessed(sessionID); err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	return sess, nil
}

// Command applies one command. Manual sessions apply it immediately;
// realtime sessions queue it for the next frame.
func (s *gameServiceImpl) Command(ctx context.Context, sessionID, command string) (*CommandOutcome, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	cmd, err := engine.ParseCommand(command)
	if err != nil {
		return nil, err
	}

	if sess.Realtime {
		if err := sess.Driver.Submit(cmd); err != nil {
			return nil, fmt.Errorf("failed to queue %s: %w", cmd, err)
		}
		return &CommandOutcome{
			Result:   engine.CommandResult{Command: cmd},
			Queued:   true,
			Message:  fmt.Sprintf("%s queued for the next frame", cmd),
			Snapshot: sess.Driver.Snapshot(),
		}, nil
	}

	res := sess.Driver.Apply(cmd)
	snap := sess.Driver.Snapshot()
	return &CommandOutcome{
		Result:   res,
		Message:  describe(res, snap),
		Snapshot: snap,
	}, nil
}

// BulkCommand applies commands in order, stopping early when one is
// unknown or the game ends.
func (s *gameServiceImpl) BulkCommand(ctx context.Context, sessionID string, commands []string) (*BulkCommandResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	result := &BulkCommandResult{
		Requested: len(commands),
		Queued:    sess.Realtime,
	}
	if len(commands) > MaxBulkCommands {
		commands = commands[:MaxBulkCommands]
		result.Truncated = true
		result.Limit = MaxBulkCommands
	}

	before := sess.Driver.Snapshot().Ledger
	for i, raw := range commands {
		if ctx.Err() != nil {
			result.StoppedReason = ctx.Err().Error()
			result.StoppedOnIndex = i + 1
			break
		}
		cmd, err := engine.ParseCommand(raw)
		if err != nil {
			result.StoppedReason = err.Error()
			result.StoppedOnIndex = i + 1
			break
		}

		if sess.Realtime {
			if err := sess.Driver.Submit(cmd); err != nil {
				result.StoppedReason = err.Error()
				result.StoppedOnIndex = i + 1
				break
			}
			result.Executed++
			continue
		}

		res := sess.Driver.Apply(cmd)
		result.Results = append(result.Results, res)
		result.Executed++
		if sess.Driver.Finished() {
			if i < len(commands)-1 {
				result.StoppedReason = "game over"
				result.StoppedOnIndex = i + 1
			}
			break
		}
	}

	snap := sess.Driver.Snapshot()
	result.Snapshot = snap
	result.GameOver = snap.GameOver()
	result.ScoreDelta = snap.Ledger.Score - before.Score
	result.RowsCleared = snap.Ledger.RowsCleared - before.RowsCleared
	return result, nil
}

// GetSnapshot returns the latest snapshot of a session
func (s *gameServiceImpl) GetSnapshot(ctx context.Context, sessionID string) (*engine.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Driver.Snapshot(), nil
}

// ListConfigs returns available presets
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a preset by name
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.Settings, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig validates and stores a preset
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, settings *engine.Settings) error {
	return s.configs.SaveConfig(configName, settings)
}

// describe summarizes a command result for humans and agents
func describe(res engine.CommandResult, snap *engine.Snapshot) string {
	switch {
	case snap.GameOver():
		return fmt.Sprintf("Game over. %s", snap.Ledger)
	case !res.Applied:
		return fmt.Sprintf("%s had no effect", res.Command)
	case res.Cleared > 0:
		return fmt.Sprintf("%s cleared %d row(s), combo %d", res.Command, res.Cleared, snap.Ledger.CurrentCombo)
	case res.Tick == engine.Locked:
		return fmt.Sprintf("%s locked the piece", res.Command)
	default:
		return fmt.Sprintf("%s applied", res.Command)
	}
}
