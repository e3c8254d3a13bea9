package engine

// CellInfo describes one grid cell for diagnostics: whether a cache spawns
// there, whether it has been populated yet, and what it currently holds.
type CellInfo struct {
	Cell      CellID     `json:"cell"`
	Bounds    CellBounds `json:"bounds"`
	Spawns    bool       `json:"spawns"`
	Luck      float64    `json:"luck"`
	Populated bool       `json:"populated"`
	CoinCount int        `json:"coin_count"`
	Visible   bool       `json:"visible"`
}

// DescribeCell reports the deterministic placement facts and current ledger
// contents for a cell without mutating the state.
func DescribeCell(gs *GameState, cell CellID, config *GameConfig) CellInfo {
	info := CellInfo{
		Cell:    cell,
		Bounds:  BoundsForCell(cell, config.TileDegrees),
		Spawns:  CellSpawnsCache(cell, config.SpawnProbability),
		Luck:    Luck(spawnKey(cell)),
		Visible: ChebyshevDistance(cell, gs.Cell) <= config.NeighborhoodSize,
	}

	if coins, exists := gs.Ledger[cell.Key()]; exists {
		info.Populated = true
		info.CoinCount = len(coins)
	}

	return info
}

// FindNearestStockedCache returns the closest populated, non-empty cache to
// the player's cell, by grid distance. Returns false if none exists.
func FindNearestStockedCache(gs *GameState) (CellID, int, bool) {
	best := -1
	var nearest CellID
	found := false

	for key, coins := range gs.Ledger {
		if len(coins) == 0 {
			continue
		}
		cell, err := ParseCellKey(key)
		if err != nil {
			continue
		}
		dist := ChebyshevDistance(cell, gs.Cell)
		if best == -1 || dist < best {
			best = dist
			nearest = cell
			found = true
		}
	}

	return nearest, best, found
}

// CountStockedCaches counts ledger entries that still hold at least one coin
func CountStockedCaches(gs *GameState) int {
	count := 0
	for _, coins := range gs.Ledger {
		if len(coins) > 0 {
			count++
		}
	}
	return count
}

// CoinIDsUnique reports whether every coin across all caches and the
// inventory carries a distinct ID.
func CoinIDsUnique(gs *GameState) bool {
	seen := make(map[int64]bool, len(gs.Inventory))
	check := func(coins []Coin) bool {
		for _, c := range coins {
			if seen[c.ID] {
				return false
			}
			seen[c.ID] = true
		}
		return true
	}

	if !check(gs.Inventory) {
		return false
	}
	for _, coins := range gs.Ledger {
		if !check(coins) {
			return false
		}
	}
	return true
}
