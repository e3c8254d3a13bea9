package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// ValidateGameConfig validates a game configuration for correctness
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config cannot be nil")
	}
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}

	if config.Start.Lat < -90 || config.Start.Lat > 90 {
		return fmt.Errorf("config validation: start.lat must be between -90 and 90, got %v", config.Start.Lat)
	}
	if config.Start.Lng < -180 || config.Start.Lng > 180 {
		return fmt.Errorf("config validation: start.lng must be between -180 and 180, got %v", config.Start.Lng)
	}

	if config.TileDegrees <= 0 {
		return fmt.Errorf("config validation: tile_degrees must be positive, got %v", config.TileDegrees)
	}

	if config.NeighborhoodSize < MinNeighborhoodSize || config.NeighborhoodSize > MaxNeighborhoodSize {
		return fmt.Errorf("config validation: neighborhood_size must be between %d and %d, got %d",
			MinNeighborhoodSize, MaxNeighborhoodSize, config.NeighborhoodSize)
	}

	if config.SpawnProbability < 0 || config.SpawnProbability > 1 {
		return fmt.Errorf("config validation: spawn_probability must be between 0 and 1, got %v", config.SpawnProbability)
	}

	if config.MaxInitialCoins < MinInitialCoins || config.MaxInitialCoins > MaxInitialCoinsCap {
		return fmt.Errorf("config validation: max_initial_coins must be between %d and %d, got %d",
			MinInitialCoins, MaxInitialCoinsCap, config.MaxInitialCoins)
	}

	// Validate messages
	if config.Messages.Welcome == "" {
		return fmt.Errorf("config validation: messages.welcome is required")
	}
	if config.Messages.Reset == "" {
		return fmt.Errorf("config validation: messages.reset is required")
	}

	// Validate format strings
	if config.Messages.Moved != "" && !strings.Contains(config.Messages.Moved, "%d") {
		return fmt.Errorf("config validation: messages.moved must contain %%d for the nearby cache count")
	}
	if config.Messages.CoinCollected != "" && !strings.Contains(config.Messages.CoinCollected, "%s") {
		return fmt.Errorf("config validation: messages.coin_collected must contain %%s for the coin label")
	}
	if config.Messages.CoinDeposited != "" && !strings.Contains(config.Messages.CoinDeposited, "%s") {
		return fmt.Errorf("config validation: messages.coin_deposited must contain %%s for the coin label")
	}

	return nil
}

// LoadGameConfig loads a game configuration from a JSON file
func LoadGameConfig(filename string) (*GameConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var config GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	if err := ValidateGameConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// DefaultGameConfig returns the built-in classroom configuration used when
// no config directory is available.
func DefaultGameConfig() *GameConfig {
	return &GameConfig{
		Name:             "Oakes Classroom",
		Description:      "Classic hunt around the default start point",
		Start:            GeoPoint{Lat: 36.98949379578401, Lng: -122.06277128548296},
		TileDegrees:      0.0001,
		NeighborhoodSize: 8,
		SpawnProbability: 0.1,
		MaxInitialCoins:  6,
		Messages: MessageSet{
			Welcome:        "Welcome! Wander the grid and hunt for coin caches.",
			Moved:          "Moved. %d caches nearby.",
			CoinCollected:  "Collected coin %s. Carrying %d.",
			CoinDeposited:  "Deposited coin %s. Cache now holds %d.",
			CacheEmpty:     "This cache is empty.",
			InventoryEmpty: "You have no coins to deposit.",
			Reset:          "Game reset. Back at the start.",
			TrackingOn:     "Location tracking enabled.",
			TrackingOff:    "Location tracking disabled.",
		},
	}
}

// InitGameStateFromConfig creates a new game state using the provided
// configuration. A nil config falls back to the built-in default.
func InitGameStateFromConfig(config *GameConfig) *GameState {
	if config == nil {
		config = DefaultGameConfig()
	}

	state := &GameState{
		Player:     config.Start,
		Cell:       CellForPoint(config.Start, config.TileDegrees),
		Trail:      []GeoPoint{config.Start},
		Inventory:  []Coin{},
		Ledger:     make(map[string][]Coin),
		NextCoinID: 1,
		Message:    config.Messages.Welcome,
		ConfigName: config.Name,
	}

	// Populate the starting neighborhood so the first render has caches.
	state.RefreshNeighborhood(config)

	return state
}
