// Command analyze prints quick, human-readable heuristics about the project's
// configuration files and saved sessions. The configs subcommand summarizes
// cache density and coin supply around each config's start point; the sessions
// subcommand audits save files for coin ID uniqueness and supply conservation.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/geocoin-carrier/game/engine"
	"github.com/wricardo/geocoin-carrier/game/session"
)

func main() {
	cmd := &cli.Command{
		Name:  "analyze",
		Usage: "inspect game configs and session saves",
		Commands: []*cli.Command{
			{
				Name:  "configs",
				Usage: "summarize cache density and coin supply per config",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "dir",
						Value: "configs",
						Usage: "directory containing config JSON files",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return analyzeConfigs(cmd.String("dir"))
				},
			},
			{
				Name:  "sessions",
				Usage: "audit session saves for coin uniqueness and conservation",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "dir",
						Value: "sessions",
						Usage: "directory containing session save files",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return analyzeSessions(cmd.String("dir"))
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// analyzeConfigs reports cache density around the start of every config in dir.
func analyzeConfigs(dir string) error {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no config files found in %s", dir)
	}

	for _, file := range files {
		fmt.Printf("\n=== Analyzing %s ===\n", filepath.Base(file))
		if err := analyzeConfig(file); err != nil {
			fmt.Printf("Error: %v\n", err)
		}
	}
	return nil
}

func analyzeConfig(path string) error {
	config, err := engine.LoadGameConfig(path)
	if err != nil {
		return err
	}

	fmt.Printf("Name: %s\n", config.Name)
	fmt.Printf("Start: (%.6f, %.6f)\n", config.Start.Lat, config.Start.Lng)
	fmt.Printf("Tile: %g°, neighborhood: %d cells\n", config.TileDegrees, config.NeighborhoodSize)

	stats := neighborhoodStats(config)

	fmt.Printf("Cells in view: %d\n", stats.Cells)
	fmt.Printf("Caches in view: %d (%.1f%% observed vs %.1f%% configured)\n",
		stats.Caches, stats.Density*100, config.SpawnProbability*100)
	fmt.Printf("Coins in view: %d (avg %.1f per cache)\n", stats.Coins, stats.AvgCoins)

	if stats.Caches == 0 {
		fmt.Println("⚠️  WARNING: no caches spawn in the starting neighborhood")
	} else {
		fmt.Println("✅ Starting neighborhood is playable")
	}
	return nil
}

// configStats aggregates deterministic spawn facts for one neighborhood.
type configStats struct {
	Cells    int
	Caches   int
	Coins    int
	Density  float64
	AvgCoins float64
}

func neighborhoodStats(config *engine.GameConfig) configStats {
	origin := engine.CellForPoint(config.Start, config.TileDegrees)
	n := config.NeighborhoodSize

	var stats configStats
	for di := -n; di <= n; di++ {
		for dj := -n; dj <= n; dj++ {
			cell := engine.CellID{I: origin.I + di, J: origin.J + dj}
			stats.Cells++
			if !engine.CellSpawnsCache(cell, config.SpawnProbability) {
				continue
			}
			stats.Caches++
			stats.Coins += engine.InitialCoinCount(cell, config.MaxInitialCoins)
		}
	}

	if stats.Cells > 0 {
		stats.Density = float64(stats.Caches) / float64(stats.Cells)
	}
	if stats.Caches > 0 {
		stats.AvgCoins = float64(stats.Coins) / float64(stats.Caches)
	}
	return stats
}

// analyzeSessions audits every save file in dir for coin invariants.
func analyzeSessions(dir string) error {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no session saves found in %s", dir)
	}

	clean := true
	for _, file := range files {
		fmt.Printf("\n=== Auditing %s ===\n", filepath.Base(file))
		if !auditSave(file) {
			clean = false
		}
	}

	fmt.Println()
	if !clean {
		return fmt.Errorf("audit found invariant violations")
	}
	fmt.Println("✅ All session saves pass the coin audit")
	return nil
}

func auditSave(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Printf("Error reading file: %v\n", err)
		return false
	}

	var saved session.PersistedSessionData
	if err := json.Unmarshal(data, &saved); err != nil {
		fmt.Printf("Error parsing JSON: %v\n", err)
		return false
	}
	if saved.GameState == nil {
		fmt.Println("⚠️  Save carries no game state")
		return false
	}

	gs := saved.GameState
	ok := true

	cached := 0
	for _, coins := range gs.Ledger {
		cached += len(coins)
	}
	carried := len(gs.Inventory)

	fmt.Printf("Session: %s (config: %s)\n", saved.ID, saved.ConfigName)
	fmt.Printf("Moves: %d, trail points: %d\n", gs.TotalMoves, len(gs.Trail))
	fmt.Printf("Coins: %d in caches + %d carried = %d total\n", cached, carried, cached+carried)
	fmt.Printf("Caches discovered: %d (%d still stocked)\n", len(gs.Ledger), engine.CountStockedCaches(gs))

	if !engine.CoinIDsUnique(gs) {
		fmt.Println("⚠️  CRITICAL: duplicate coin IDs found")
		ok = false
	}

	maxID := maxCoinID(gs)
	if maxID >= gs.NextCoinID {
		fmt.Printf("⚠️  CRITICAL: coin ID %d >= next_coin_id %d; future mints may collide\n", maxID, gs.NextCoinID)
		ok = false
	}

	for key := range gs.Ledger {
		if _, err := engine.ParseCellKey(key); err != nil {
			fmt.Printf("⚠️  CRITICAL: malformed ledger key %q\n", key)
			ok = false
		}
	}

	if ok {
		fmt.Println("✅ Coin IDs unique, counter consistent, ledger keys well-formed")
	}
	return ok
}

func maxCoinID(gs *engine.GameState) int64 {
	var max int64
	for _, c := range gs.Inventory {
		if c.ID > max {
			max = c.ID
		}
	}
	for _, coins := range gs.Ledger {
		for _, c := range coins {
			if c.ID > max {
				max = c.ID
			}
		}
	}
	return max
}
