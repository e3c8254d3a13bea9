package service

import (
	"time"

	"github.com/wricardo/geocoin-carrier/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	GameState      *engine.GameState  `json:"game_state"`
	GameConfig     *engine.GameConfig `json:"game_config"`
}

// MoveResult contains the result of a single step or position update
type MoveResult struct {
	Success      bool              `json:"success"`
	GameState    *engine.GameState `json:"game_state"`
	Message      string            `json:"message"`
	Events       []GameEvent       `json:"events,omitempty"`
	NearbyCaches int               `json:"nearby_caches"`
	Discovered   int               `json:"discovered"` // caches populated by this step
}

// BulkMoveResult contains the result of a sequence of steps
type BulkMoveResult struct {
	RequestedMoves int               `json:"requested_moves"`
	MovesExecuted  int               `json:"moves_executed"`
	Success        bool              `json:"success"`
	GameState      *engine.GameState `json:"game_state"`
	Events         []GameEvent       `json:"events"`
	Steps          []StepInfo        `json:"steps,omitempty"`
	StoppedReason  string            `json:"stopped_reason,omitempty"`
	StoppedOnMove  int               `json:"stopped_on_move,omitempty"` // 1-based index of the rejected step
	Truncated      bool              `json:"truncated,omitempty"`
	Limit          int               `json:"limit,omitempty"`

	StartCell engine.CellID `json:"start_cell"`
	EndCell   engine.CellID `json:"end_cell"`
	CoinsHeld int           `json:"coins_held"`
}

// StepInfo is a compact record for one executed step in a bulk call
type StepInfo struct {
	Idx        int           `json:"idx"`
	Dir        string        `json:"dir"`
	From       engine.CellID `json:"from"`
	To         engine.CellID `json:"to"`
	Discovered int           `json:"discovered"`
	Success    bool          `json:"success"`
}

// TransferResult contains the result of a collect or deposit operation
type TransferResult struct {
	Success   bool              `json:"success"`
	Coin      *engine.Coin      `json:"coin,omitempty"`
	GameState *engine.GameState `json:"game_state"`
	Message   string            `json:"message"`
	Events    []GameEvent       `json:"events,omitempty"`
}

// TrackingStatus reports the location-tracking state of a session
type TrackingStatus struct {
	SessionID string `json:"session_id"`
	Enabled   bool   `json:"enabled"`
	Message   string `json:"message"`
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string         `json:"type"` // "move", "position", "cache_discovered", "collect", "deposit", "reset", "tracking"
	Message   string         `json:"message"`
	Timestamp time.Time      `json:"timestamp"`
	Cell      *engine.CellID `json:"cell,omitempty"`
}

// TrailOptions configures trail retrieval
type TrailOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// TrailResponse contains a paginated slice of the movement trail
type TrailResponse struct {
	Points      []engine.GeoPoint `json:"points"`
	TotalPoints int               `json:"total_points"`
	Page        int               `json:"page"`
	PageSize    int               `json:"page_size"`
	TotalPages  int               `json:"total_pages"`
	HasNext     bool              `json:"has_next"`
	HasPrevious bool              `json:"has_previous"`
}

// ConfigInfo provides information about a game configuration
type ConfigInfo struct {
	Filename         string  `json:"filename"`
	ConfigID         string  `json:"config_id"` // The identifier to use for session creation
	Name             string  `json:"name"`      // Display name
	Description      string  `json:"description"`
	NeighborhoodSize int     `json:"neighborhood_size"`
	SpawnProbability float64 `json:"spawn_probability"`
}
