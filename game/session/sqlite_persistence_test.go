package session

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/wricardo/geocoin-carrier/game/engine"
)

func newTestSQLitePersistence(t *testing.T) (*SQLitePersistence, *stubConfigManager) {
	t.Helper()
	configs := newStubConfigManager()
	path := filepath.Join(t.TempDir(), "saves.db")
	sp, err := NewSQLitePersistence(path, configs)
	if err != nil {
		t.Fatalf("NewSQLitePersistence failed: %v", err)
	}
	t.Cleanup(func() { sp.Close() })
	return sp, configs
}

func TestSQLitePersistence_SaveLoadRoundTrip(t *testing.T) {
	sp, configs := newTestSQLitePersistence(t)

	sess := newTestSession(t, "ee55", configs.GetDefault())
	sess.Engine.Move(engine.West)
	caches := sess.Engine.VisibleCaches()
	if len(caches) == 0 {
		t.Fatal("expected visible caches")
	}
	coin, err := sess.Engine.Collect(caches[0].Cell, engine.AnyCoin)
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	totalBefore := sess.Engine.TotalCoins()

	if err := sp.Save(sess); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := sp.Load("EE55")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	state := loaded.Engine.GetState()
	if state.TotalMoves != 1 {
		t.Errorf("expected 1 move after restore, got %d", state.TotalMoves)
	}
	if len(state.Inventory) != 1 || state.Inventory[0].ID != coin.ID {
		t.Errorf("inventory not restored: %+v", state.Inventory)
	}
	if loaded.Engine.TotalCoins() != totalBefore {
		t.Errorf("coin total changed across restore: want %d, got %d", totalBefore, loaded.Engine.TotalCoins())
	}
}

func TestSQLitePersistence_UpsertOverwrites(t *testing.T) {
	sp, configs := newTestSQLitePersistence(t)

	sess := newTestSession(t, "ff66", configs.GetDefault())
	if err := sp.Save(sess); err != nil {
		t.Fatalf("first Save failed: %v", err)
	}

	sess.Engine.Move(engine.North)
	sess.Engine.Move(engine.North)
	if err := sp.Save(sess); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	ids, err := sp.ListAll()
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(ids) != 1 {
		t.Fatalf("expected 1 save row after upsert, got %d", len(ids))
	}

	loaded, err := sp.Load("ff66")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Engine.GetState().TotalMoves != 2 {
		t.Errorf("expected latest snapshot, got %d moves", loaded.Engine.GetState().TotalMoves)
	}
}

func TestSQLitePersistence_DeleteAndExists(t *testing.T) {
	sp, configs := newTestSQLitePersistence(t)

	sess := newTestSession(t, "aa77", configs.GetDefault())
	if err := sp.Save(sess); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !sp.Exists("AA77") {
		t.Error("expected save to exist (case-insensitive)")
	}

	if err := sp.Delete("aa77"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if sp.Exists("aa77") {
		t.Error("deleted save should not exist")
	}
	if err := sp.Delete("aa77"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound on double delete, got %v", err)
	}
	if _, err := sp.Load("aa77"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound on load, got %v", err)
	}
}
