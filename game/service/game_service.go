package service

import (
	"context"
	"time"

	"github.com/wricardo/geocoin-carrier/game/engine"
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, configName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Movement
	Move(ctx context.Context, sessionID, direction string, reset bool) (*MoveResult, error)
	BulkMove(ctx context.Context, sessionID string, directions []string, reset bool) (*BulkMoveResult, error)
	SetPosition(ctx context.Context, sessionID string, p engine.GeoPoint) (*MoveResult, error)

	// Coin operations
	Collect(ctx context.Context, sessionID string, cell engine.CellID, coinID int64) (*TransferResult, error)
	Deposit(ctx context.Context, sessionID string, cell engine.CellID, coinID int64) (*TransferResult, error)

	// Game state
	Reset(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetCaches(ctx context.Context, sessionID string) ([]engine.CacheView, error)
	GetTrail(ctx context.Context, sessionID string, opts TrailOptions) (*TrailResponse, error)

	// Location tracking
	SetTracking(ctx context.Context, sessionID string, enabled bool) (*TrackingStatus, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error)
	SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, config *engine.GameConfig) (*Session, error)
	Get(id string) (*Session, error)
	GetOrCreate(id string, config *engine.GameConfig) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	Save(id string) error
}

// ConfigManager handles game configuration loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.GameConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.GameConfig
	SaveConfig(name string, config *engine.GameConfig) error
}

// StateListener receives the new state after every mutation, for pushing to
// connected clients. Optional; nil means no push.
type StateListener func(sessionID string, state *engine.GameState)

// Session represents an active game session
type Session struct {
	ID             string
	Engine         *engine.GameEngine
	Config         *engine.GameConfig
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
