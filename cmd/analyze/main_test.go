package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/wricardo/geocoin-carrier/game/engine"
	"github.com/wricardo/geocoin-carrier/game/session"
)

func TestNeighborhoodStats(t *testing.T) {
	config := engine.DefaultGameConfig()

	stats := neighborhoodStats(config)

	n := config.NeighborhoodSize
	expectedCells := (2*n + 1) * (2*n + 1)
	if stats.Cells != expectedCells {
		t.Errorf("Expected %d cells, got %d", expectedCells, stats.Cells)
	}

	if stats.Caches == 0 {
		t.Error("Expected at least one cache near the default start")
	}

	if stats.Coins < stats.Caches {
		t.Errorf("Expected at least one coin per cache, got %d coins for %d caches", stats.Coins, stats.Caches)
	}

	// Determinism: running the same analysis twice gives the same numbers
	again := neighborhoodStats(config)
	if again != stats {
		t.Errorf("Expected identical stats on re-run, got %+v vs %+v", stats, again)
	}
}

func TestAuditSave_CleanState(t *testing.T) {
	gameEngine := engine.NewEngineWithDefaults()
	gameEngine.Move(engine.East)
	gameEngine.Move(engine.North)

	path := writeSave(t, "ab12", gameEngine.GetState())

	if !auditSave(path) {
		t.Error("Expected clean save to pass the audit")
	}
}

func TestAuditSave_DuplicateCoinIDs(t *testing.T) {
	state := engine.NewEngineWithDefaults().GetState()
	dup := engine.Coin{ID: 1, Origin: engine.CellID{I: 1, J: 1}, Serial: 0}
	state.Inventory = append(state.Inventory, dup, dup)

	path := writeSave(t, "bad1", state)

	if auditSave(path) {
		t.Error("Expected duplicate coin IDs to fail the audit")
	}
}

func TestAuditSave_CounterBehindMint(t *testing.T) {
	state := engine.NewEngineWithDefaults().GetState()
	state.Inventory = append(state.Inventory, engine.Coin{ID: state.NextCoinID + 5, Origin: engine.CellID{I: 1, J: 1}})

	path := writeSave(t, "bad2", state)

	if auditSave(path) {
		t.Error("Expected a coin ID at or beyond next_coin_id to fail the audit")
	}
}

func TestAuditSave_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	if auditSave(path) {
		t.Error("Expected malformed save to fail the audit")
	}
}

func TestAnalyzeSessions_EmptyDir(t *testing.T) {
	if err := analyzeSessions(t.TempDir()); err == nil {
		t.Error("Expected error for directory with no saves")
	}
}

func TestAnalyzeConfigs_EmptyDir(t *testing.T) {
	if err := analyzeConfigs(t.TempDir()); err == nil {
		t.Error("Expected error for directory with no configs")
	}
}

func writeSave(t *testing.T, id string, state *engine.GameState) string {
	t.Helper()

	saved := session.PersistedSessionData{
		ID:             id,
		ConfigName:     state.ConfigName,
		CreatedAt:      time.Now(),
		LastAccessedAt: time.Now(),
		GameState:      state,
	}

	data, err := json.Marshal(saved)
	if err != nil {
		t.Fatalf("Failed to marshal save: %v", err)
	}

	path := filepath.Join(t.TempDir(), id+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write save: %v", err)
	}
	return path
}
