package engine

import "fmt"

// MovePlayer attempts to step the player one grid unit in the given
// direction. Every successful step appends to the trail and re-populates
// the visible neighborhood. Returns false for an unknown direction.
func (gs *GameState) MovePlayer(direction string, config *GameConfig) bool {
	next, ok := Shift(gs.Player, direction, config.TileDegrees)
	if !ok {
		gs.Message = fmt.Sprintf("Unknown direction %q", direction)
		return false
	}

	gs.applyPosition(next, config)
	return true
}

// SetPlayerPosition moves the player to an arbitrary point, as delivered by
// a geolocation watcher. It runs through the same trail/refresh pipeline as
// manual stepping.
func (gs *GameState) SetPlayerPosition(p GeoPoint, config *GameConfig) {
	gs.applyPosition(p, config)
}

func (gs *GameState) applyPosition(p GeoPoint, config *GameConfig) {
	gs.Player = p
	gs.Cell = CellForPoint(p, config.TileDegrees)
	gs.Trail = append(gs.Trail, p)
	gs.TotalMoves++

	gs.RefreshNeighborhood(config)
	nearby := gs.countNearbyCaches(config)

	if config.Messages.Moved != "" {
		gs.Message = fmt.Sprintf(config.Messages.Moved, nearby)
	} else {
		gs.Message = fmt.Sprintf("Moved to cell %s, %d caches nearby", gs.Cell.Key(), nearby)
	}
}

// RefreshNeighborhood lazily populates every spawning cell within the
// visible neighborhood of the player's cell. Cells that already have a
// ledger entry are left untouched, so repeated visits are idempotent.
// Returns the cells populated for the first time by this call.
func (gs *GameState) RefreshNeighborhood(config *GameConfig) []CellID {
	var discovered []CellID

	n := config.NeighborhoodSize
	for di := -n; di <= n; di++ {
		for dj := -n; dj <= n; dj++ {
			cell := CellID{I: gs.Cell.I + di, J: gs.Cell.J + dj}
			if _, exists := gs.Ledger[cell.Key()]; exists {
				continue
			}
			if !CellSpawnsCache(cell, config.SpawnProbability) {
				continue
			}

			count := InitialCoinCount(cell, config.MaxInitialCoins)
			coins := make([]Coin, 0, count)
			for serial := 0; serial < count; serial++ {
				coins = append(coins, Coin{
					ID:     gs.NextCoinID,
					Origin: cell,
					Serial: serial,
				})
				gs.NextCoinID++
			}
			gs.Ledger[cell.Key()] = coins
			discovered = append(discovered, cell)
		}
	}

	return discovered
}

// countNearbyCaches counts populated caches within the visible neighborhood
func (gs *GameState) countNearbyCaches(config *GameConfig) int {
	count := 0
	for key := range gs.Ledger {
		cell, err := ParseCellKey(key)
		if err != nil {
			continue
		}
		if ChebyshevDistance(cell, gs.Cell) <= config.NeighborhoodSize {
			count++
		}
	}
	return count
}

// VisibleCaches returns a render-ready snapshot of every cache within the
// visible neighborhood, populating cells seen for the first time. Views are
// ordered by cell coordinates for stable output.
func (gs *GameState) VisibleCaches(config *GameConfig) []CacheView {
	gs.RefreshNeighborhood(config)

	var views []CacheView
	n := config.NeighborhoodSize
	for di := -n; di <= n; di++ {
		for dj := -n; dj <= n; dj++ {
			cell := CellID{I: gs.Cell.I + di, J: gs.Cell.J + dj}
			coins, exists := gs.Ledger[cell.Key()]
			if !exists {
				continue
			}
			snapshot := make([]Coin, len(coins))
			copy(snapshot, coins)
			views = append(views, CacheView{
				Cell:   cell,
				Bounds: BoundsForCell(cell, config.TileDegrees),
				Coins:  snapshot,
			})
		}
	}

	return views
}
