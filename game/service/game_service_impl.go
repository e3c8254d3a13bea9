package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/wricardo/geocoin-carrier/game/engine"
	"github.com/wricardo/geocoin-carrier/geo"
)

var ErrTrackingUnavailable = errors.New("location tracking unavailable")

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	watchers geo.WatcherFactory
	listener StateListener

	mu       sync.RWMutex
	tracking map[string]context.CancelFunc
}

// NewGameService creates a new game service instance. The watcher factory
// may be nil, in which case tracking requests fail gracefully.
func NewGameService(sessions SessionManager, configs ConfigManager, watchers geo.WatcherFactory) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
		watchers: watchers,
		tracking: make(map[string]context.CancelFunc),
	}
}

// SetStateListener registers a push callback invoked after background
// mutations (tracking updates). Must be set before tracking starts.
func SetStateListener(svc GameService, listener StateListener) {
	if impl, ok := svc.(*gameServiceImpl); ok {
		impl.listener = listener
	}
}

// getConfigID returns the config_id for a given config display name
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
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

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.GameConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			if strings.Contains(err.Error(), "configuration not found") {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("config '%s' not found. Available configs: %v", configName, configIDs)
				}
				return nil, fmt.Errorf("config '%s' not found. Use /api/configs to list available configurations", configName)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	// Let the session manager generate a proper 4-character ID
	session, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	configID := configName
	if configID == "" {
		configID = s.getConfigID(config.Name)
	}

	return &SessionInfo{
		ID:             session.ID,
		ConfigName:     configID,
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		GameState:      session.Engine.GetState(),
		GameConfig:     session.Config,
	}, nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	return &SessionInfo{
		ID:             session.ID,
		ConfigName:     s.getConfigID(session.Config.Name),
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		GameState:      session.Engine.GetState(),
		GameConfig:     session.Config,
	}, nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))

	for _, sess := range sessions {
		result = append(result, &SessionInfo{
			ID:             sess.ID,
			ConfigName:     s.getConfigID(sess.Config.Name),
			CreatedAt:      sess.CreatedAt,
			LastAccessedAt: sess.LastAccessedAt,
			GameState:      sess.Engine.GetState(),
			GameConfig:     sess.Config,
		})
	}

	return result, nil
}

// DeleteSession removes a session, stopping its tracking first
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopTrackingLocked(sessionID)
	return s.sessions.Delete(sessionID)
}

// Move executes a single step for a session
func (s *gameServiceImpl) Move(ctx context.Context, sessionID, direction string, reset bool) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	events := []GameEvent{}
	if reset {
		sess.Engine.Reset()
		events = append(events, GameEvent{
			Type:      "reset",
			Message:   "Game reset to initial state",
			Timestamp: time.Now(),
		})
	}

	cachesBefore := len(sess.Engine.GetState().Ledger)
	success := sess.Engine.Move(direction)
	state := sess.Engine.GetState()
	discovered := len(state.Ledger) - cachesBefore

	result := &MoveResult{
		Success:      success,
		GameState:    state,
		Message:      state.Message,
		Events:       events,
		NearbyCaches: len(sess.Engine.VisibleCaches()),
		Discovered:   discovered,
	}

	if success {
		result.Events = append(result.Events, s.extractMoveEvents(sess, direction, discovered)...)
	}

	// Auto-save session after move
	if err := s.sessions.Save(sessionID); err != nil {
		fmt.Printf("Warning: Failed to persist session %s after move: %v\n", sessionID, err)
	}

	return result, nil
}

// BulkMove executes multiple steps in sequence
func (s *gameServiceImpl) BulkMove(ctx context.Context, sessionID string, directions []string, reset bool) (*BulkMoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	result := &BulkMoveResult{
		RequestedMoves: len(directions),
		Events:         make([]GameEvent, 0),
		Success:        true,
		StartCell:      sess.Engine.PlayerCell(),
	}

	if reset {
		sess.Engine.Reset()
		result.Events = append(result.Events, GameEvent{
			Type:      "reset",
			Message:   "Game reset to initial state",
			Timestamp: time.Now(),
		})
		result.StartCell = sess.Engine.PlayerCell()
	}

	// Limit moves to prevent abuse
	if len(directions) > engine.MaxBulkMoves {
		result.Truncated = true
		result.Limit = engine.MaxBulkMoves
		directions = directions[:engine.MaxBulkMoves]
	}

	for i, direction := range directions {
		from := sess.Engine.PlayerCell()
		cachesBefore := len(sess.Engine.GetState().Ledger)
		success := sess.Engine.Move(direction)

		if !success {
			result.Success = false
			result.StoppedReason = fmt.Sprintf("step %d rejected: unknown direction %q", i+1, direction)
			result.StoppedOnMove = i + 1
			break
		}

		result.MovesExecuted++
		discovered := len(sess.Engine.GetState().Ledger) - cachesBefore

		result.Events = append(result.Events, s.extractMoveEvents(sess, direction, discovered)...)
		result.Steps = append(result.Steps, StepInfo{
			Idx:        i + 1,
			Dir:        direction,
			From:       from,
			To:         sess.Engine.PlayerCell(),
			Discovered: discovered,
			Success:    true,
		})
	}

	state := sess.Engine.GetState()
	result.GameState = state
	result.EndCell = state.Cell
	result.CoinsHeld = len(state.Inventory)

	// Auto-save session after bulk moves
	if err := s.sessions.Save(sessionID); err != nil {
		fmt.Printf("Warning: Failed to persist session %s after bulk moves: %v\n", sessionID, err)
	}

	return result, nil
}

// SetPosition moves the player to an arbitrary point (geolocation path)
func (s *gameServiceImpl) SetPosition(ctx context.Context, sessionID string, p engine.GeoPoint) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	result := s.applyPositionLocked(sess, p)

	if err := s.sessions.Save(sessionID); err != nil {
		fmt.Printf("Warning: Failed to persist session %s after position update: %v\n", sessionID, err)
	}

	return result, nil
}

// applyPositionLocked runs a position update through the engine. Caller
// holds s.mu.
func (s *gameServiceImpl) applyPositionLocked(sess *Session, p engine.GeoPoint) *MoveResult {
	cachesBefore := len(sess.Engine.GetState().Ledger)
	sess.Engine.SetPosition(p)
	state := sess.Engine.GetState()
	discovered := len(state.Ledger) - cachesBefore

	events := []GameEvent{{
		Type:      "position",
		Message:   fmt.Sprintf("Position updated to cell %s", state.Cell.Key()),
		Timestamp: time.Now(),
		Cell:      &state.Cell,
	}}
	if discovered > 0 {
		events = append(events, GameEvent{
			Type:      "cache_discovered",
			Message:   fmt.Sprintf("%d new caches discovered", discovered),
			Timestamp: time.Now(),
		})
	}

	return &MoveResult{
		Success:      true,
		GameState:    state,
		Message:      state.Message,
		Events:       events,
		NearbyCaches: len(sess.Engine.VisibleCaches()),
		Discovered:   discovered,
	}
}

// Collect moves one coin from a cache into the player inventory
func (s *gameServiceImpl) Collect(ctx context.Context, sessionID string, cell engine.CellID, coinID int64) (*TransferResult, error) {
	return s.transfer(sessionID, cell, coinID, true)
}

// Deposit moves one coin from the player inventory into a cache
func (s *gameServiceImpl) Deposit(ctx context.Context, sessionID string, cell engine.CellID, coinID int64) (*TransferResult, error) {
	return s.transfer(sessionID, cell, coinID, false)
}

func (s *gameServiceImpl) transfer(sessionID string, cell engine.CellID, coinID int64, collect bool) (*TransferResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	op := "collect"
	if !collect {
		op = "deposit"
	}

	var coin engine.Coin
	if collect {
		coin, err = sess.Engine.Collect(cell, coinID)
	} else {
		coin, err = sess.Engine.Deposit(cell, coinID)
	}

	state := sess.Engine.GetState()
	result := &TransferResult{
		GameState: state,
		Message:   state.Message,
	}

	if err != nil {
		// Guarded no-ops: nothing to move is a visible message, not a failure
		if errors.Is(err, engine.ErrCacheEmpty) || errors.Is(err, engine.ErrInventoryEmpty) {
			return result, nil
		}
		return nil, fmt.Errorf("%s failed: %w", op, err)
	}

	result.Success = true
	result.Coin = &coin
	result.Events = []GameEvent{{
		Type:      op,
		Message:   fmt.Sprintf("Coin %s %sed at cell %s", coin.Label(), op, cell.Key()),
		Timestamp: time.Now(),
		Cell:      &cell,
	}}

	if err := s.sessions.Save(sessionID); err != nil {
		fmt.Printf("Warning: Failed to persist session %s after %s: %v\n", sessionID, op, err)
	}

	return result, nil
}

// Reset resets a game session to initial state
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	state := sess.Engine.Reset()

	if err := s.sessions.Save(sessionID); err != nil {
		fmt.Printf("Warning: Failed to persist session %s after reset: %v\n", sessionID, err)
	}

	return state, nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return sess.Engine.GetState(), nil
}

// GetCaches returns the render-ready caches in the visible neighborhood
func (s *gameServiceImpl) GetCaches(ctx context.Context, sessionID string) ([]engine.CacheView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	views := sess.Engine.VisibleCaches()

	// First visibility may have populated new cells; keep the save current.
	if err := s.sessions.Save(sessionID); err != nil {
		fmt.Printf("Warning: Failed to persist session %s after cache render: %v\n", sessionID, err)
	}

	return views, nil
}

// GetTrail returns a paginated slice of the movement trail
func (s *gameServiceImpl) GetTrail(ctx context.Context, sessionID string, opts TrailOptions) (*TrailResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	trail := sess.Engine.Trail()
	total := len(trail)

	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	var points []engine.GeoPoint
	if opts.Order == "desc" {
		// Most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			points = append(points, trail[i])
		}
	} else {
		if start < total {
			points = trail[start:end]
		}
	}
	if points == nil {
		points = []engine.GeoPoint{}
	}

	return &TrailResponse{
		Points:      points,
		TotalPoints: total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// SetTracking starts or stops continuous location tracking for a session.
// Tracking replaces manual stepping with watcher-delivered positions on the
// same refresh pipeline; stopping cancels the watcher so no further
// positions are applied.
func (s *gameServiceImpl) SetTracking(ctx context.Context, sessionID string, enabled bool) (*TrackingStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	state := sess.Engine.GetState()
	messages := sess.Config.Messages

	if !enabled {
		s.stopTrackingLocked(sessionID)
		state.Tracking = false
		state.Message = messages.TrackingOff
		s.sessions.Save(sessionID)
		return &TrackingStatus{SessionID: sessionID, Enabled: false, Message: state.Message}, nil
	}

	if _, active := s.tracking[sessionID]; active {
		return &TrackingStatus{SessionID: sessionID, Enabled: true, Message: messages.TrackingOn}, nil
	}

	if s.watchers == nil {
		return nil, fmt.Errorf("%w: no position source configured", ErrTrackingUnavailable)
	}

	watcher := s.watchers(sess.Config)
	if watcher == nil {
		return nil, fmt.Errorf("%w: no position source configured", ErrTrackingUnavailable)
	}

	watchCtx, cancel := context.WithCancel(context.Background())
	ch, err := watcher.Watch(watchCtx)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("%w: %v", ErrTrackingUnavailable, err)
	}

	s.tracking[sessionID] = cancel
	state.Tracking = true
	state.Message = messages.TrackingOn
	s.sessions.Save(sessionID)

	go s.trackLoop(sessionID, ch)

	return &TrackingStatus{SessionID: sessionID, Enabled: true, Message: state.Message}, nil
}

// trackLoop applies watcher positions until the channel closes
func (s *gameServiceImpl) trackLoop(sessionID string, ch <-chan engine.GeoPoint) {
	for p := range ch {
		s.mu.Lock()
		sess, err := s.sessions.Get(sessionID)
		if err != nil {
			s.mu.Unlock()
			return
		}
		s.applyPositionLocked(sess, p)
		state := sess.Engine.GetState()
		s.sessions.Save(sessionID)
		listener := s.listener
		s.mu.Unlock()

		if listener != nil {
			listener(sessionID, state)
		}
	}
}

// stopTrackingLocked cancels a session's watcher if one is running. Caller
// holds s.mu.
func (s *gameServiceImpl) stopTrackingLocked(sessionID string) {
	if cancel, ok := s.tracking[sessionID]; ok {
		cancel()
		delete(s.tracking, sessionID)
	}
}

// ListConfigs returns available game configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific game configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a game configuration to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	return s.configs.SaveConfig(configName, config)
}

// extractMoveEvents generates events from a successful step
func (s *gameServiceImpl) extractMoveEvents(sess *Session, direction string, discovered int) []GameEvent {
	state := sess.Engine.GetState()

	events := []GameEvent{{
		Type:      "move",
		Message:   fmt.Sprintf("Moved %s to cell %s", direction, state.Cell.Key()),
		Timestamp: time.Now(),
		Cell:      &state.Cell,
	}}

	if discovered > 0 {
		events = append(events, GameEvent{
			Type:      "cache_discovered",
			Message:   fmt.Sprintf("%d new caches discovered", discovered),
			Timestamp: time.Now(),
		})
	}

	return events
}
