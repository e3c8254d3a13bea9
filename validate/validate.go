// Command validate provides a small CLI that validates game configuration JSON
// files in the ../configs directory. It checks:
//   - JSON structure and required fields
//   - Coordinate, tile size, neighborhood, and probability ranges
//   - Required message templates and their format verbs
//   - Determinism: spawn decisions and coin counts around the start point
//     must come out identical on repeated evaluation
//
// It also prints the observed cache density around the start so a config
// author can sanity-check the spawn probability against reality.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/geocoin-carrier/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

// validateConfig loads and validates a single configuration JSON file.
// It performs structural checks, message validation, and a determinism
// self-check over the starting neighborhood.
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to read file: %v", err))
		return result
	}

	var config engine.GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Invalid JSON: %v", err))
		return result
	}

	if err := engine.ValidateGameConfig(&config); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	// The remaining message templates are optional for the engine but a
	// shipped config should carry all of them.
	missing := missingMessages(&config.Messages)
	if len(missing) > 0 {
		result.Valid = false
		for _, name := range missing {
			result.Errors = append(result.Errors, fmt.Sprintf("Missing message template: %s", name))
		}
		return result
	}

	// Determinism self-check over the starting neighborhood
	detResult := validateDeterminism(&config)
	if !detResult.Valid {
		result.Valid = false
		result.Errors = append(result.Errors, detResult.Errors...)
		return result
	}
	result.Errors = append(result.Errors, detResult.Errors...)

	// Add informational data
	result.Errors = append(result.Errors, fmt.Sprintf("✓ Name: %s", config.Name))
	result.Errors = append(result.Errors, fmt.Sprintf("✓ Start: (%.6f, %.6f)", config.Start.Lat, config.Start.Lng))
	result.Errors = append(result.Errors, fmt.Sprintf("✓ Tile: %g°, neighborhood: %d cells", config.TileDegrees, config.NeighborhoodSize))
	result.Errors = append(result.Errors, fmt.Sprintf("✓ Spawn probability: %.0f%%, max coins per cache: %d", config.SpawnProbability*100, config.MaxInitialCoins))

	return result
}

// missingMessages lists the message template fields left empty in the config.
func missingMessages(m *engine.MessageSet) []string {
	checks := []struct {
		name  string
		value string
	}{
		{"welcome", m.Welcome},
		{"moved", m.Moved},
		{"coin_collected", m.CoinCollected},
		{"coin_deposited", m.CoinDeposited},
		{"cache_empty", m.CacheEmpty},
		{"inventory_empty", m.InventoryEmpty},
		{"reset", m.Reset},
		{"tracking_on", m.TrackingOn},
		{"tracking_off", m.TrackingOff},
	}

	var missing []string
	for _, c := range checks {
		if c.value == "" {
			missing = append(missing, c.name)
		}
	}
	return missing
}

// validateDeterminism evaluates every cell in the starting neighborhood twice
// and verifies the spawn decision and initial coin count never differ. It
// also reports the observed cache density so authors can compare it to the
// configured probability.
func validateDeterminism(config *engine.GameConfig) ValidationResult {
	result := ValidationResult{
		Valid:  true,
		Errors: []string{},
	}

	origin := engine.CellForPoint(config.Start, config.TileDegrees)
	n := config.NeighborhoodSize

	cells := 0
	spawns := 0
	totalCoins := 0

	for di := -n; di <= n; di++ {
		for dj := -n; dj <= n; dj++ {
			cell := engine.CellID{I: origin.I + di, J: origin.J + dj}
			cells++

			first := engine.CellSpawnsCache(cell, config.SpawnProbability)
			second := engine.CellSpawnsCache(cell, config.SpawnProbability)
			if first != second {
				result.Valid = false
				result.Errors = append(result.Errors, fmt.Sprintf("Non-deterministic spawn decision at cell %s", cell.Key()))
				return result
			}
			if !first {
				continue
			}

			spawns++
			count1 := engine.InitialCoinCount(cell, config.MaxInitialCoins)
			count2 := engine.InitialCoinCount(cell, config.MaxInitialCoins)
			if count1 != count2 {
				result.Valid = false
				result.Errors = append(result.Errors, fmt.Sprintf("Non-deterministic coin count at cell %s: %d vs %d", cell.Key(), count1, count2))
				return result
			}
			if count1 < 1 || count1 > config.MaxInitialCoins {
				result.Valid = false
				result.Errors = append(result.Errors, fmt.Sprintf("Coin count out of range at cell %s: %d", cell.Key(), count1))
				return result
			}
			totalCoins += count1
		}
	}

	density := float64(spawns) / float64(cells)
	result.Errors = append(result.Errors, fmt.Sprintf("✓ Determinism: %d cells evaluated twice with identical results", cells))
	result.Errors = append(result.Errors, fmt.Sprintf("✓ Start neighborhood: %d caches (%.0f%% density), %d coins total", spawns, density*100, totalCoins))

	if spawns == 0 && config.SpawnProbability > 0 {
		result.Errors = append(result.Errors, "Note: no caches spawn in the starting neighborhood; players will need to wander")
	}

	return result
}

// main scans ../configs for *.json files and validates each one, printing a
// concise report and exiting with non-zero status if any are invalid.
func main() {
	configDir := "../configs"
	if len(os.Args) > 1 {
		configDir = os.Args[1]
	}

	files, err := filepath.Glob(filepath.Join(configDir, "*.json"))
	if err != nil {
		fmt.Printf("Error finding config files: %v\n", err)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateConfig(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All configurations are valid!")
	} else {
		fmt.Println("❌ Some configurations have errors")
		os.Exit(1)
	}
}
