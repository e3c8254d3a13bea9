package engine

import "fmt"

// Directions a player can step in. Each step shifts the position by exactly
// one grid unit (tile_degrees) along the matching axis.
const (
	North = "north"
	South = "south"
	East  = "east"
	West  = "west"
)

const (
	// Validation constants
	MinNeighborhoodSize = 1
	MaxNeighborhoodSize = 32
	MinInitialCoins     = 1
	MaxInitialCoinsCap  = 100
	MaxBulkMoves        = 50
	WebSocketBufferSize = 256
)

// GeoPoint represents a lat/lng coordinate pair
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// CellID identifies a grid cell by its integer coordinates, derived from
// quantizing lat/lng by the configured tile size.
type CellID struct {
	I int `json:"i"`
	J int `json:"j"`
}

// Key returns the ledger key for this cell ("i:j")
func (c CellID) Key() string {
	return fmt.Sprintf("%d:%d", c.I, c.J)
}

// Coin is a uniquely identified game token. ID is unique for the life of a
// game state; Origin and Serial record where and in which slot it spawned.
// Coins are immutable after creation, only their location moves.
type Coin struct {
	ID     int64  `json:"id"`
	Origin CellID `json:"origin"`
	Serial int    `json:"serial"`
}

// Label returns the human-readable coin identity ("i:j#serial")
func (c Coin) Label() string {
	return fmt.Sprintf("%d:%d#%d", c.Origin.I, c.Origin.J, c.Serial)
}

// CellBounds are the SW/NE corners of a cell, for rectangle rendering
type CellBounds struct {
	SouthWest GeoPoint `json:"south_west"`
	NorthEast GeoPoint `json:"north_east"`
}

// CacheView is a render-ready snapshot of one cache: the cell, its bounds,
// and the coins currently present. Views are always re-derived from the
// ledger, never stored.
type CacheView struct {
	Cell   CellID     `json:"cell"`
	Bounds CellBounds `json:"bounds"`
	Coins  []Coin     `json:"coins"`
}

// GameConfig represents the game configuration from JSON
type GameConfig struct {
	Name             string     `json:"name"`
	Description      string     `json:"description"`
	Start            GeoPoint   `json:"start"`
	TileDegrees      float64    `json:"tile_degrees"`
	NeighborhoodSize int        `json:"neighborhood_size"`
	SpawnProbability float64    `json:"spawn_probability"`
	MaxInitialCoins  int        `json:"max_initial_coins"`
	Messages         MessageSet `json:"messages"`
}

// MessageSet holds the player-facing message templates
type MessageSet struct {
	Welcome        string `json:"welcome"`
	Moved          string `json:"moved"`          // %d caches nearby
	CoinCollected  string `json:"coin_collected"` // %s coin label, %d inventory size
	CoinDeposited  string `json:"coin_deposited"` // %s coin label, %d coins in cache
	CacheEmpty     string `json:"cache_empty"`
	InventoryEmpty string `json:"inventory_empty"`
	Reset          string `json:"reset"`
	TrackingOn     string `json:"tracking_on"`
	TrackingOff    string `json:"tracking_off"`
}

// GameState represents the complete game state. The ledger is the single
// source of truth for cache contents: a key is present once the cell has
// been populated, and its (possibly empty) coin list is reused unchanged on
// every revisit.
type GameState struct {
	Player     GeoPoint          `json:"player"`
	Cell       CellID            `json:"cell"`
	Trail      []GeoPoint        `json:"trail"`
	Inventory  []Coin            `json:"inventory"`
	Ledger     map[string][]Coin `json:"ledger"`
	NextCoinID int64             `json:"next_coin_id"`
	TotalMoves int               `json:"total_moves"`
	Message    string            `json:"message"`
	ConfigName string            `json:"config_name"`
	Tracking   bool              `json:"tracking"`
}
