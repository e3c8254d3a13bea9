package engine

import "fmt"

// Engine provides the main interface for game operations
type Engine interface {
	// Game state management
	GetState() *GameState
	SetState(state *GameState) error
	Reset() *GameState

	// Movement operations
	Move(direction string) bool
	BulkMove(directions []string) []bool
	SetPosition(p GeoPoint)

	// Coin operations
	Collect(cell CellID, coinID int64) (Coin, error)
	Deposit(cell CellID, coinID int64) (Coin, error)

	// Views
	VisibleCaches() []CacheView
	PlayerPosition() GeoPoint
	PlayerCell() CellID
	Trail() []GeoPoint
	Inventory() []Coin
	TotalCoins() int

	// Configuration
	GetConfig() *GameConfig
	SetConfig(config *GameConfig) error
}

// GameEngine implements the Engine interface
type GameEngine struct {
	state  *GameState
	config *GameConfig
}

// NewEngine creates a new game engine with the provided configuration
func NewEngine(config *GameConfig) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}

	return &GameEngine{
		config: config,
		state:  InitGameStateFromConfig(config),
	}, nil
}

// NewEngineWithDefaults creates a new game engine with the built-in config
func NewEngineWithDefaults() *GameEngine {
	config := DefaultGameConfig()
	return &GameEngine{
		config: config,
		state:  InitGameStateFromConfig(config),
	}
}

// GetState returns the current game state
func (e *GameEngine) GetState() *GameState {
	return e.state
}

// SetState sets the game state (used for persistence loading)
func (e *GameEngine) SetState(state *GameState) error {
	if state == nil {
		return fmt.Errorf("state cannot be nil")
	}
	// Tolerate snapshots from older saves with missing collections.
	if state.Ledger == nil {
		state.Ledger = make(map[string][]Coin)
	}
	if state.Inventory == nil {
		state.Inventory = []Coin{}
	}
	if len(state.Trail) == 0 {
		state.Trail = []GeoPoint{state.Player}
	}
	e.state = state
	return nil
}

// Reset reinitializes the game: trail, inventory, and ledger are cleared
// and the player returns to the configured start. Deterministic placement
// regenerates identical cache contents on revisit.
func (e *GameEngine) Reset() *GameState {
	e.state = InitGameStateFromConfig(e.config)
	if e.config.Messages.Reset != "" {
		e.state.Message = e.config.Messages.Reset
	}
	return e.state
}

// Move attempts to step the player in the specified direction
func (e *GameEngine) Move(direction string) bool {
	return e.state.MovePlayer(direction, e.config)
}

// BulkMove executes multiple steps in sequence, returning success per step
func (e *GameEngine) BulkMove(directions []string) []bool {
	results := make([]bool, 0, len(directions))
	for _, direction := range directions {
		results = append(results, e.Move(direction))
	}
	return results
}

// SetPosition moves the player to an arbitrary point (geolocation path)
func (e *GameEngine) SetPosition(p GeoPoint) {
	e.state.SetPlayerPosition(p, e.config)
}

// Collect moves one coin from the cache at cell into the inventory
func (e *GameEngine) Collect(cell CellID, coinID int64) (Coin, error) {
	return e.state.Collect(cell, coinID, e.config)
}

// Deposit moves one coin from the inventory into the cache at cell
func (e *GameEngine) Deposit(cell CellID, coinID int64) (Coin, error) {
	return e.state.Deposit(cell, coinID, e.config)
}

// VisibleCaches returns the caches within the current neighborhood
func (e *GameEngine) VisibleCaches() []CacheView {
	return e.state.VisibleCaches(e.config)
}

// PlayerPosition returns the current player point
func (e *GameEngine) PlayerPosition() GeoPoint {
	return e.state.Player
}

// PlayerCell returns the player's current grid cell
func (e *GameEngine) PlayerCell() CellID {
	return e.state.Cell
}

// Trail returns the ordered history of visited points
func (e *GameEngine) Trail() []GeoPoint {
	return e.state.Trail
}

// Inventory returns the coins the player currently holds
func (e *GameEngine) Inventory() []Coin {
	return e.state.Inventory
}

// TotalCoins returns the conserved coin total (caches + inventory)
func (e *GameEngine) TotalCoins() int {
	return e.state.TotalCoins()
}

// GetConfig returns the current game configuration
func (e *GameEngine) GetConfig() *GameConfig {
	return e.config
}

// SetConfig sets a new game configuration and resets the game
func (e *GameEngine) SetConfig(config *GameConfig) error {
	if err := ValidateGameConfig(config); err != nil {
		return err
	}
	e.config = config
	e.state = InitGameStateFromConfig(config)
	return nil
}
