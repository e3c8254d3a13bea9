package engine

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestValidateGameConfig(t *testing.T) {
	if err := ValidateGameConfig(createTestConfig()); err != nil {
		t.Errorf("Expected valid config, got %v", err)
	}
	if err := ValidateGameConfig(DefaultGameConfig()); err != nil {
		t.Errorf("Expected default config to validate, got %v", err)
	}
	if err := ValidateGameConfig(nil); err == nil {
		t.Error("Expected error for nil config")
	}
}

func TestValidateGameConfig_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*GameConfig)
	}{
		{"empty name", func(c *GameConfig) { c.Name = "" }},
		{"empty description", func(c *GameConfig) { c.Description = "" }},
		{"latitude out of range", func(c *GameConfig) { c.Start.Lat = 91 }},
		{"longitude out of range", func(c *GameConfig) { c.Start.Lng = -181 }},
		{"zero tile size", func(c *GameConfig) { c.TileDegrees = 0 }},
		{"negative tile size", func(c *GameConfig) { c.TileDegrees = -0.0001 }},
		{"neighborhood too small", func(c *GameConfig) { c.NeighborhoodSize = 0 }},
		{"neighborhood too large", func(c *GameConfig) { c.NeighborhoodSize = MaxNeighborhoodSize + 1 }},
		{"probability above one", func(c *GameConfig) { c.SpawnProbability = 1.5 }},
		{"probability negative", func(c *GameConfig) { c.SpawnProbability = -0.1 }},
		{"zero max coins", func(c *GameConfig) { c.MaxInitialCoins = 0 }},
		{"excessive max coins", func(c *GameConfig) { c.MaxInitialCoins = MaxInitialCoinsCap + 1 }},
		{"missing welcome", func(c *GameConfig) { c.Messages.Welcome = "" }},
		{"missing reset", func(c *GameConfig) { c.Messages.Reset = "" }},
		{"moved without placeholder", func(c *GameConfig) { c.Messages.Moved = "moved" }},
		{"collected without placeholder", func(c *GameConfig) { c.Messages.CoinCollected = "got one" }},
	}

	for _, tt := range tests {
		config := createTestConfig()
		tt.mutate(config)
		if err := ValidateGameConfig(config); err == nil {
			t.Errorf("%s: expected validation error", tt.name)
		}
	}
}

func TestLoadGameConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.json")

	data, err := json.Marshal(createTestConfig())
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	config, err := LoadGameConfig(path)
	if err != nil {
		t.Fatalf("LoadGameConfig failed: %v", err)
	}
	if config.Name != "Engine Test Config" {
		t.Errorf("Unexpected config name %q", config.Name)
	}

	if _, err := LoadGameConfig(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("Expected error for missing file")
	}

	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if _, err := LoadGameConfig(path); err == nil {
		t.Error("Expected error for corrupt file")
	}
}
