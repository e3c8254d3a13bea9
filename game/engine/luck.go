package engine

import "hash/fnv"

// Luck maps a string key to a reproducible pseudo-random value in [0,1).
// The same key always yields the same value, within and across processes,
// with no persisted seed. It drives both cache placement (does a cell spawn
// a cache) and the initial coin count of a freshly spawned cache.
func Luck(key string) float64 {
	h := fnv.New64a()
	h.Write([]byte(key))
	// Keep 53 bits so the value is exactly representable as a float64.
	return float64(h.Sum64()>>11) / float64(uint64(1)<<53)
}

// spawnKey and coinsKey derive the purpose-tagged keys for a cell
func spawnKey(cell CellID) string {
	return cell.Key() + "#spawn"
}

func coinsKey(cell CellID) string {
	return cell.Key() + "#coins"
}

// CellSpawnsCache reports whether a cache deterministically spawns in the
// given cell under the configured probability.
func CellSpawnsCache(cell CellID, spawnProbability float64) bool {
	return Luck(spawnKey(cell)) < spawnProbability
}

// InitialCoinCount returns the deterministic number of coins a freshly
// spawned cache in the given cell starts with, in [1, maxInitialCoins].
func InitialCoinCount(cell CellID, maxInitialCoins int) int {
	return 1 + int(Luck(coinsKey(cell))*float64(maxInitialCoins))
}
