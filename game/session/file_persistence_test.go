package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/wricardo/geocoin-carrier/game/engine"
	"github.com/wricardo/geocoin-carrier/game/service"
)

// stubConfigManager serves the default config under the ID "default"
type stubConfigManager struct {
	def *engine.GameConfig
}

func newStubConfigManager() *stubConfigManager {
	return &stubConfigManager{def: engine.DefaultGameConfig()}
}

func (m *stubConfigManager) LoadConfig(name string) (*engine.GameConfig, error) {
	if name == "default" || name == m.def.Name {
		return m.def, nil
	}
	return nil, fmt.Errorf("configuration not found: %s", name)
}

func (m *stubConfigManager) ListConfigs() ([]*service.ConfigInfo, error) {
	return []*service.ConfigInfo{{
		Filename: "default.json",
		ConfigID: "default",
		Name:     m.def.Name,
	}}, nil
}

func (m *stubConfigManager) GetDefault() *engine.GameConfig { return m.def }

func (m *stubConfigManager) SaveConfig(name string, config *engine.GameConfig) error {
	return nil
}

func newTestSession(t *testing.T, id string, config *engine.GameConfig) *service.Session {
	t.Helper()
	eng, err := engine.NewEngine(config)
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}
	return &service.Session{
		ID:             id,
		Engine:         eng,
		Config:         config,
		CreatedAt:      time.Now(),
		LastAccessedAt: time.Now(),
	}
}

func TestFilePersistence_SaveLoadRoundTrip(t *testing.T) {
	configs := newStubConfigManager()
	fp, err := NewFilePersistence(t.TempDir(), configs)
	if err != nil {
		t.Fatalf("NewFilePersistence failed: %v", err)
	}

	sess := newTestSession(t, "ab12", configs.GetDefault())

	// Mutate state so the round trip carries more than the initial snapshot
	sess.Engine.Move(engine.North)
	sess.Engine.Move(engine.East)
	caches := sess.Engine.VisibleCaches()
	if len(caches) == 0 {
		t.Fatal("expected visible caches")
	}
	coin, err := sess.Engine.Collect(caches[0].Cell, engine.AnyCoin)
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	totalBefore := sess.Engine.TotalCoins()
	nextIDBefore := sess.Engine.GetState().NextCoinID

	if err := fp.Save(sess); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := fp.Load("ab12")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	state := loaded.Engine.GetState()
	if state.TotalMoves != 2 {
		t.Errorf("expected 2 moves after restore, got %d", state.TotalMoves)
	}
	if len(state.Inventory) != 1 || state.Inventory[0].ID != coin.ID {
		t.Errorf("inventory not restored: %+v", state.Inventory)
	}
	if state.NextCoinID != nextIDBefore {
		t.Errorf("coin ID counter not restored: want %d, got %d", nextIDBefore, state.NextCoinID)
	}
	if loaded.Engine.TotalCoins() != totalBefore {
		t.Errorf("coin total changed across restore: want %d, got %d", totalBefore, loaded.Engine.TotalCoins())
	}
	if len(state.Trail) != 3 {
		t.Errorf("expected 3 trail points, got %d", len(state.Trail))
	}
}

func TestFilePersistence_LoadMissing(t *testing.T) {
	fp, err := NewFilePersistence(t.TempDir(), newStubConfigManager())
	if err != nil {
		t.Fatalf("NewFilePersistence failed: %v", err)
	}

	if _, err := fp.Load("none"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestFilePersistence_LoadCorrupt(t *testing.T) {
	dir := t.TempDir()
	fp, err := NewFilePersistence(dir, newStubConfigManager())
	if err != nil {
		t.Fatalf("NewFilePersistence failed: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "bad1.json"), []byte("{not json"), 0644); err != nil {
		t.Fatalf("failed to write corrupt file: %v", err)
	}

	if _, err := fp.Load("bad1"); err == nil {
		t.Error("expected error for corrupt save")
	}
}

func TestFilePersistence_DeleteAndList(t *testing.T) {
	configs := newStubConfigManager()
	fp, err := NewFilePersistence(t.TempDir(), configs)
	if err != nil {
		t.Fatalf("NewFilePersistence failed: %v", err)
	}

	for _, id := range []string{"aa11", "bb22"} {
		if err := fp.Save(newTestSession(t, id, configs.GetDefault())); err != nil {
			t.Fatalf("Save %s failed: %v", id, err)
		}
	}

	ids, err := fp.ListAll()
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(ids) != 2 {
		t.Errorf("expected 2 saves, got %d", len(ids))
	}

	if err := fp.Delete("aa11"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if fp.Exists("aa11") {
		t.Error("deleted save should not exist")
	}
	if !fp.Exists("bb22") {
		t.Error("remaining save should exist")
	}
	if err := fp.Delete("aa11"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound on double delete, got %v", err)
	}
}

func TestManagerWithPersistence_CorruptSaveTreatedAsFresh(t *testing.T) {
	dir := t.TempDir()
	configs := newStubConfigManager()
	fp, err := NewFilePersistence(dir, configs)
	if err != nil {
		t.Fatalf("NewFilePersistence failed: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "cc33.json"), []byte("garbage"), 0644); err != nil {
		t.Fatalf("failed to write corrupt file: %v", err)
	}

	manager := NewManagerWithPersistence(fp)

	// Direct Get reports not-found rather than surfacing the parse error
	if _, err := manager.Get("cc33"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound for corrupt save, got %v", err)
	}
}

func TestManagerWithPersistence_ReloadAcrossRestart(t *testing.T) {
	dir := t.TempDir()
	configs := newStubConfigManager()

	fp1, err := NewFilePersistence(dir, configs)
	if err != nil {
		t.Fatalf("NewFilePersistence failed: %v", err)
	}
	manager1 := NewManagerWithPersistence(fp1)

	sess, err := manager1.Create("dd44", configs.GetDefault())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	sess.Engine.Move(engine.South)
	if err := manager1.Save("dd44"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Simulate a restart with a new manager over the same directory
	fp2, err := NewFilePersistence(dir, configs)
	if err != nil {
		t.Fatalf("NewFilePersistence failed: %v", err)
	}
	manager2 := NewManagerWithPersistence(fp2)
	if err := manager2.LoadPersistedSessions(); err != nil {
		t.Fatalf("LoadPersistedSessions failed: %v", err)
	}

	restored, err := manager2.Get("dd44")
	if err != nil {
		t.Fatalf("Get after restart failed: %v", err)
	}
	if restored.Engine.GetState().TotalMoves != 1 {
		t.Errorf("expected move count to survive restart, got %d", restored.Engine.GetState().TotalMoves)
	}
}
