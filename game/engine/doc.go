// Package engine provides the core game logic for the Geocoin Carrier game.
//
// The engine package implements the game mechanics including:
//   - Deterministic hash-based cache placement and coin counts
//   - Grid quantization of lat/lng into integer cells
//   - Lazy population of the cache ledger on first visibility
//   - Coin collection and deposit with conservation guarantees
//   - Movement, trail tracking, and neighborhood refresh
//
// Core Types:
//
// The Engine interface defines the main contract for game operations,
// implemented by GameEngine. GameState holds the player position, trail,
// inventory, and the cache ledger, while GameConfig defines the grid
// parameters and message templates loaded from JSON files.
//
// Usage:
//
//	config, err := engine.LoadGameConfig("configs/oakes.json")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameEngine, err := engine.NewEngine(config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Step the player and inspect nearby caches
//	gameEngine.Move(engine.North)
//	caches := gameEngine.VisibleCaches()
//
// Game Rules:
//
// The player wanders a grid overlaid on real lat/lng space. Each cell
// deterministically either spawns a coin cache or stays empty, decided by a
// seedless hash of the cell key, so the same world regenerates on every
// visit and across restarts. Coins carry globally unique IDs and move
// between caches and the player inventory without being created or
// destroyed.
package engine
