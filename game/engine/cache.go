package engine

import (
	"errors"
	"fmt"
)

var (
	ErrCacheNotFound  = errors.New("no cache at that cell")
	ErrCacheEmpty     = errors.New("cache is empty")
	ErrInventoryEmpty = errors.New("inventory is empty")
	ErrCoinNotFound   = errors.New("coin not found")
	ErrOutOfRange     = errors.New("cache is outside the visible neighborhood")
)

// AnyCoin selects the first available coin when the caller does not care
// which one moves.
const AnyCoin int64 = 0

// Collect removes one coin from the cache at the given cell and appends it
// to the player inventory. coinID selects a specific coin; AnyCoin takes the
// first. The total coin count across caches and inventory is conserved; on
// any error the state is untouched.
func (gs *GameState) Collect(cell CellID, coinID int64, config *GameConfig) (Coin, error) {
	if ChebyshevDistance(cell, gs.Cell) > config.NeighborhoodSize {
		return Coin{}, ErrOutOfRange
	}

	coins, exists := gs.Ledger[cell.Key()]
	if !exists {
		return Coin{}, ErrCacheNotFound
	}
	if len(coins) == 0 {
		gs.Message = config.Messages.CacheEmpty
		return Coin{}, ErrCacheEmpty
	}

	idx := 0
	if coinID != AnyCoin {
		idx = findCoin(coins, coinID)
		if idx < 0 {
			return Coin{}, fmt.Errorf("%w: id %d in cache %s", ErrCoinNotFound, coinID, cell.Key())
		}
	}

	coin := coins[idx]
	gs.Ledger[cell.Key()] = append(coins[:idx], coins[idx+1:]...)
	gs.Inventory = append(gs.Inventory, coin)

	if config.Messages.CoinCollected != "" {
		gs.Message = fmt.Sprintf(config.Messages.CoinCollected, coin.Label(), len(gs.Inventory))
	}
	return coin, nil
}

// Deposit moves one coin from the player inventory into the cache at the
// given cell. The cache must already exist in the ledger (a cell without a
// cache cannot receive coins).
func (gs *GameState) Deposit(cell CellID, coinID int64, config *GameConfig) (Coin, error) {
	if ChebyshevDistance(cell, gs.Cell) > config.NeighborhoodSize {
		return Coin{}, ErrOutOfRange
	}

	coins, exists := gs.Ledger[cell.Key()]
	if !exists {
		return Coin{}, ErrCacheNotFound
	}
	if len(gs.Inventory) == 0 {
		gs.Message = config.Messages.InventoryEmpty
		return Coin{}, ErrInventoryEmpty
	}

	idx := 0
	if coinID != AnyCoin {
		idx = findCoin(gs.Inventory, coinID)
		if idx < 0 {
			return Coin{}, fmt.Errorf("%w: id %d in inventory", ErrCoinNotFound, coinID)
		}
	}

	coin := gs.Inventory[idx]
	gs.Inventory = append(gs.Inventory[:idx], gs.Inventory[idx+1:]...)
	gs.Ledger[cell.Key()] = append(coins, coin)

	if config.Messages.CoinDeposited != "" {
		gs.Message = fmt.Sprintf(config.Messages.CoinDeposited, coin.Label(), len(gs.Ledger[cell.Key()]))
	}
	return coin, nil
}

func findCoin(coins []Coin, coinID int64) int {
	for i, c := range coins {
		if c.ID == coinID {
			return i
		}
	}
	return -1
}

// TotalCoins returns the coin count across all caches plus the inventory.
// Collect and deposit never change this value.
func (gs *GameState) TotalCoins() int {
	total := len(gs.Inventory)
	for _, coins := range gs.Ledger {
		total += len(coins)
	}
	return total
}
