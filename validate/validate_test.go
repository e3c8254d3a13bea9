package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wricardo/geocoin-carrier/game/engine"
)

const validConfigJSON = `{
	"name": "Test Config",
	"description": "Test configuration",
	"start": {"lat": 36.9895, "lng": -122.0628},
	"tile_degrees": 0.0001,
	"neighborhood_size": 8,
	"spawn_probability": 0.1,
	"max_initial_coins": 6,
	"messages": {
		"welcome": "Welcome!",
		"moved": "Moved. %d caches nearby.",
		"coin_collected": "Collected %s. Carrying %d.",
		"coin_deposited": "Deposited %s. Cache holds %d.",
		"cache_empty": "Empty cache.",
		"inventory_empty": "Nothing to deposit.",
		"reset": "Reset.",
		"tracking_on": "Tracking on.",
		"tracking_off": "Tracking off."
	}
}`

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	tmpfile, err := os.CreateTemp("", "test_config_*.json")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	t.Cleanup(func() { os.Remove(tmpfile.Name()) })

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	tmpfile.Close()
	return tmpfile.Name()
}

func TestValidateConfig_ValidConfig(t *testing.T) {
	path := writeTempConfig(t, validConfigJSON)

	result := validateConfig(path)
	if !result.Valid {
		t.Errorf("Expected valid config, but got errors: %v", result.Errors)
	}

	if result.File != filepath.Base(path) {
		t.Errorf("Expected file name %s, got %s", filepath.Base(path), result.File)
	}
}

func TestValidateConfig_InvalidJSON(t *testing.T) {
	path := writeTempConfig(t, `{"name": "test", invalid json}`)

	result := validateConfig(path)
	if result.Valid {
		t.Error("Expected invalid result for malformed JSON")
	}

	if len(result.Errors) == 0 || !strings.Contains(result.Errors[0], "Invalid JSON") {
		t.Errorf("Expected JSON error, got: %v", result.Errors)
	}
}

func TestValidateConfig_MissingFile(t *testing.T) {
	result := validateConfig("/non/existent/config.json")
	if result.Valid {
		t.Error("Expected invalid result for missing file")
	}
}

func TestValidateConfig_BadProbability(t *testing.T) {
	bad := strings.Replace(validConfigJSON, `"spawn_probability": 0.1`, `"spawn_probability": 2.5`, 1)
	path := writeTempConfig(t, bad)

	result := validateConfig(path)
	if result.Valid {
		t.Error("Expected invalid result for out-of-range spawn probability")
	}
}

func TestValidateConfig_MissingMessage(t *testing.T) {
	bad := strings.Replace(validConfigJSON, `"cache_empty": "Empty cache.",`, `"cache_empty": "",`, 1)
	path := writeTempConfig(t, bad)

	result := validateConfig(path)
	if result.Valid {
		t.Error("Expected invalid result for missing message template")
	}

	found := false
	for _, e := range result.Errors {
		if strings.Contains(e, "cache_empty") {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected cache_empty to be reported, got: %v", result.Errors)
	}
}

func TestValidateDeterminism(t *testing.T) {
	config := engine.DefaultGameConfig()

	result := validateDeterminism(config)
	if !result.Valid {
		t.Errorf("Expected deterministic placement, got errors: %v", result.Errors)
	}

	foundDensity := false
	for _, e := range result.Errors {
		if strings.Contains(e, "Start neighborhood") {
			foundDensity = true
		}
	}
	if !foundDensity {
		t.Errorf("Expected density report, got: %v", result.Errors)
	}
}

func TestMissingMessages_AllPresent(t *testing.T) {
	config := engine.DefaultGameConfig()
	if missing := missingMessages(&config.Messages); len(missing) != 0 {
		t.Errorf("Expected no missing messages in default config, got: %v", missing)
	}
}
