package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/wricardo/geocoin-carrier/game/engine"
)

func writeConfig(t *testing.T, dir, name string, config *engine.GameConfig) {
	t.Helper()
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		t.Fatalf("failed to marshal config: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
}

func TestNewManager_MissingDir(t *testing.T) {
	if _, err := NewManager("/nonexistent/config/dir"); err == nil {
		t.Error("expected error for missing config directory")
	}
}

func TestManager_LoadConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "oakes.json", engine.DefaultGameConfig())

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	config, err := manager.LoadConfig("oakes")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if config.TileDegrees != 0.0001 {
		t.Errorf("unexpected tile size: %v", config.TileDegrees)
	}

	// Cached load returns the same instance
	again, err := manager.LoadConfig("oakes")
	if err != nil {
		t.Fatalf("cached LoadConfig failed: %v", err)
	}
	if config != again {
		t.Error("expected cached config instance")
	}
}

func TestManager_LoadConfigNotFound(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "oakes.json", engine.DefaultGameConfig())

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	if _, err := manager.LoadConfig("missing"); !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("expected ErrConfigNotFound, got %v", err)
	}
}

func TestManager_LoadConfigInvalid(t *testing.T) {
	dir := t.TempDir()
	bad := engine.DefaultGameConfig()
	bad.SpawnProbability = 2.0
	writeConfig(t, dir, "bad.json", bad)
	writeConfig(t, dir, "oakes.json", engine.DefaultGameConfig())

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	if _, err := manager.LoadConfig("bad"); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestManager_ListConfigsSkipsInvalid(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "oakes.json", engine.DefaultGameConfig())

	variant := engine.DefaultGameConfig()
	variant.Name = "Dense Field"
	variant.SpawnProbability = 0.5
	writeConfig(t, dir, "dense.json", variant)

	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte("nope"), 0644); err != nil {
		t.Fatalf("failed to write broken config: %v", err)
	}

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	configs, err := manager.ListConfigs()
	if err != nil {
		t.Fatalf("ListConfigs failed: %v", err)
	}
	if len(configs) != 2 {
		t.Fatalf("expected 2 valid configs, got %d", len(configs))
	}
	for _, info := range configs {
		if info.ConfigID != "oakes" && info.ConfigID != "dense" {
			t.Errorf("unexpected config ID %q", info.ConfigID)
		}
	}
}

func TestManager_DefaultFallback(t *testing.T) {
	// Empty directory falls back to the built-in default
	manager, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	def := manager.GetDefault()
	if def == nil {
		t.Fatal("expected a default config")
	}
	if err := engine.ValidateGameConfig(def); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestManager_SetDefault(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "oakes.json", engine.DefaultGameConfig())

	variant := engine.DefaultGameConfig()
	variant.Name = "Dense Field"
	writeConfig(t, dir, "dense.json", variant)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	if err := manager.SetDefault("dense"); err != nil {
		t.Fatalf("SetDefault failed: %v", err)
	}
	if manager.GetDefault().Name != "Dense Field" {
		t.Errorf("expected Dense Field default, got %q", manager.GetDefault().Name)
	}

	if err := manager.SetDefault("missing"); !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("expected ErrConfigNotFound, got %v", err)
	}
}

func TestManager_SaveConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "oakes.json", engine.DefaultGameConfig())

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	custom := engine.DefaultGameConfig()
	custom.Name = "Harbor Walk"
	custom.NeighborhoodSize = 4
	if err := manager.SaveConfig("harbor", custom); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := manager.LoadConfig("harbor")
	if err != nil {
		t.Fatalf("LoadConfig after save failed: %v", err)
	}
	if loaded.Name != "Harbor Walk" || loaded.NeighborhoodSize != 4 {
		t.Errorf("round trip mismatch: %+v", loaded)
	}

	invalid := engine.DefaultGameConfig()
	invalid.TileDegrees = -1
	if err := manager.SaveConfig("invalid", invalid); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestManager_RefreshCache(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "oakes.json", engine.DefaultGameConfig())

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	before, _ := manager.LoadConfig("oakes")

	// Change the file on disk, then refresh
	updated := engine.DefaultGameConfig()
	updated.Description = "Updated on disk"
	writeConfig(t, dir, "oakes.json", updated)

	if err := manager.RefreshCache(); err != nil {
		t.Fatalf("RefreshCache failed: %v", err)
	}

	after, err := manager.LoadConfig("oakes")
	if err != nil {
		t.Fatalf("LoadConfig after refresh failed: %v", err)
	}
	if after == before {
		t.Error("expected a fresh instance after refresh")
	}
	if after.Description != "Updated on disk" {
		t.Errorf("expected updated description, got %q", after.Description)
	}
}
