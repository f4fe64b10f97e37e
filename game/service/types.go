package service

import (
	"time"

	"github.com/wricardo/blockfall/game/engine"
)

// CreateOptions selects how a session is built
type CreateOptions struct {
	// ConfigName is a preset identifier; empty uses the default preset
	ConfigName string `json:"config_id,omitempty"`
	// Realtime sessions run their own frame loop
	Realtime bool `json:"realtime,omitempty"`
	// Cadence is "score", "fixed" or "manual"; empty derives it from the preset
	Cadence string `json:"cadence,omitempty"`
	// Seed fixes the piece sequence; zero keeps the preset seed
	Seed uint64 `json:"seed,omitempty"`
}

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string           `json:"id"`
	ConfigName     string           `json:"config_name"`
	Realtime       bool             `json:"realtime"`
	CreatedAt      time.Time        `json:"created_at"`
	LastAccessedAt time.Time        `json:"last_accessed_at"`
	Settings       engine.Settings  `json:"settings"`
	Snapshot       *engine.Snapshot `json:"snapshot"`
}

// CommandOutcome is the result of a single command
type CommandOutcome struct {
	Result engine.CommandResult `json:"result"`
	// Queued is set for realtime sessions, where the command runs on the next frame
	Queued   bool             `json:"queued,omitempty"`
	Message  string           `json:"message"`
	Snapshot *engine.Snapshot `json:"snapshot"`
}

// BulkCommandResult contains the result of several commands
type BulkCommandResult struct {
	Requested      int                    `json:"requested"`
	Executed       int                    `json:"executed"`
	Queued         bool                   `json:"queued,omitempty"`
	Results        []engine.CommandResult `json:"results,omitempty"`
	StoppedReason  string                 `json:"stopped_reason,omitempty"`
	StoppedOnIndex int                    `json:"stopped_on_index,omitempty"` // 1-based
	Truncated      bool                   `json:"truncated,omitempty"`
	Limit          int                    `json:"limit,omitempty"`
	ScoreDelta     int                    `json:"score_delta"`
	RowsCleared    int                    `json:"rows_cleared"`
	GameOver       bool                   `json:"game_over"`
	Snapshot       *engine.Snapshot       `json:"snapshot"`
}

// ConfigInfo provides information about a preset
type ConfigInfo struct {
	Filename      string `json:"filename"`
	ConfigID      string `json:"config_id"` // The identifier to use for session creation
	Name          string `json:"name"`      // Display name
	Description   string `json:"description"`
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	FeatureBricks bool   `json:"feature_bricks"`
	Accelerate    bool   `json:"accelerate"`
}
