package service

import (
	"time"

	"github.com/wricardo/mcp-training/game2048/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"` // config id, usable with CreateSession
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	GameState      *engine.GameState  `json:"game_state"`
	GameConfig     *engine.GameConfig `json:"game_config"`
}

// MoveResult contains the result of a move operation
type MoveResult struct {
	Success      bool                `json:"success"`
	Direction    string              `json:"direction"`
	GameState    *engine.GameState   `json:"game_state"`
	Message      string              `json:"message"`
	Events       []GameEvent         `json:"events,omitempty"`
	Relocations  []engine.Relocation `json:"relocations"`
	Merges       int                 `json:"merges"`
	Spawned      *engine.Position    `json:"spawned,omitempty"`
	SpawnedValue int                 `json:"spawned_value,omitempty"`
	ScoreDelta   int                 `json:"score_delta"`
}

// BulkMoveResult contains the result of multiple moves
type BulkMoveResult struct {
	// Summary
	MovesExecuted  int               `json:"moves_executed"`
	RequestedMoves int               `json:"requested_moves"`
	Success        bool              `json:"success"`
	GameState      *engine.GameState `json:"game_state"`
	Events         []GameEvent       `json:"events"`
	StoppedReason  string            `json:"stopped_reason,omitempty"`   // Human-readable reason
	StopReasonCode string            `json:"stop_reason_code,omitempty"` // illegal_move|invalid_direction|game_over
	StoppedOnMove  int               `json:"stopped_on_move,omitempty"`  // 1-based index of the move that caused stop
	Truncated      bool              `json:"truncated,omitempty"`
	Limit          int               `json:"limit,omitempty"`

	// Start/end snapshot
	StartScore int `json:"start_score"`
	EndScore   int `json:"end_score"`
	ScoreDelta int `json:"score_delta"`

	// Per-step trace (only for this call)
	Steps []StepInfo `json:"steps,omitempty"`

	// Final status aids
	GameOver   bool     `json:"game_over"`
	Victory    bool     `json:"victory"`
	Message    string   `json:"message,omitempty"`
	LegalMoves []string `json:"legal_moves"`
}

// StepInfo is a compact record for each executed move in the bulk call
type StepInfo struct {
	Idx          int                 `json:"idx"`
	Dir          string              `json:"dir"`
	Success      bool                `json:"success"`
	Relocations  []engine.Relocation `json:"relocations"`
	Merges       int                 `json:"merges"`
	Spawned      *engine.Position    `json:"spawned,omitempty"`
	SpawnedValue int                 `json:"spawned_value,omitempty"`
	ScoreBefore  int                 `json:"score_before"`
	ScoreAfter   int                 `json:"score_after"`
	Victory      bool                `json:"victory,omitempty"`
}

// Event types reported in MoveResult and BulkMoveResult
const (
	EventReset    = "reset"
	EventMove     = "move"
	EventMerge    = "merge"
	EventSpawn    = "spawn"
	EventVictory  = "victory"
	EventGameOver = "game_over"
)

// Stop reason codes reported by BulkMove
const (
	StopIllegalMove      = "illegal_move"
	StopInvalidDirection = "invalid_direction"
	StopGameOver         = "game_over"
)

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string           `json:"type"`
	Message   string           `json:"message"`
	Timestamp time.Time        `json:"timestamp"`
	Position  *engine.Position `json:"position,omitempty"`
	Value     int              `json:"value,omitempty"`
}

// HistoryOptions configures move history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated move history
type HistoryResponse struct {
	Moves       []engine.MoveHistoryEntry `json:"moves"`
	TotalMoves  int                       `json:"total_moves"`
	Page        int                       `json:"page"`
	PageSize    int                       `json:"page_size"`
	TotalPages  int                       `json:"total_pages"`
	HasNext     bool                      `json:"has_next"`
	HasPrevious bool                      `json:"has_previous"`
}

// ConfigInfo provides information about a game configuration
type ConfigInfo struct {
	Filename             string  `json:"filename"`
	ConfigID             string  `json:"config_id"` // The identifier to use for session creation
	Name                 string  `json:"name"`      // Display name
	Description          string  `json:"description"`
	GridSize             int     `json:"grid_size"`
	WinTarget            int     `json:"win_target"`
	SpawnFourProbability float64 `json:"spawn_four_probability"`
	Seeded               bool    `json:"seeded"`
}
