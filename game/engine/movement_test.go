package engine

import "testing"

func TestMovePlayer_AppendsTrail(t *testing.T) {
	engine, err := NewEngine(createTestConfig())
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}

	for i, dir := range []string{North, East, South} {
		if !engine.Move(dir) {
			t.Fatalf("Move %s failed", dir)
		}
		trail := engine.Trail()
		if len(trail) != i+2 {
			t.Fatalf("Expected trail length %d after %d moves, got %d", i+2, i+1, len(trail))
		}
	}

	if engine.GetState().TotalMoves != 3 {
		t.Errorf("Expected 3 total moves, got %d", engine.GetState().TotalMoves)
	}
}

func TestMovePlayer_ShiftsOneCell(t *testing.T) {
	engine, err := NewEngine(createTestConfig())
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	start := engine.PlayerCell()

	engine.Move(North)
	if got := engine.PlayerCell(); got.I != start.I+1 || got.J != start.J {
		t.Errorf("North: expected (%d,%d), got (%d,%d)", start.I+1, start.J, got.I, got.J)
	}

	engine.Move(East)
	if got := engine.PlayerCell(); got.I != start.I+1 || got.J != start.J+1 {
		t.Errorf("East: expected (%d,%d), got (%d,%d)", start.I+1, start.J+1, got.I, got.J)
	}
}

func TestMovePlayer_UnknownDirection(t *testing.T) {
	engine, err := NewEngine(createTestConfig())
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}

	start := engine.PlayerCell()
	trailLen := len(engine.Trail())

	if engine.Move("upward") {
		t.Error("Expected unknown direction to fail")
	}
	if engine.PlayerCell() != start {
		t.Error("Failed move must not change position")
	}
	if len(engine.Trail()) != trailLen {
		t.Error("Failed move must not grow the trail")
	}
}

func TestSetPosition_SameRefreshPipeline(t *testing.T) {
	config := createTestConfig()
	engine, err := NewEngine(config)
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}

	// Jump far enough that the whole neighborhood is new territory
	target := GeoPoint{
		Lat: config.Start.Lat + 50*config.TileDegrees,
		Lng: config.Start.Lng,
	}
	cachesBefore := len(engine.GetState().Ledger)

	engine.SetPosition(target)

	state := engine.GetState()
	if state.Cell != CellForPoint(target, config.TileDegrees) {
		t.Error("SetPosition did not requantize the player cell")
	}
	if state.Trail[len(state.Trail)-1] != target {
		t.Error("SetPosition did not append to the trail")
	}
	if len(state.Ledger) <= cachesBefore {
		t.Error("Expected the new neighborhood to populate fresh caches")
	}
}

func TestVisibleCaches_WithinNeighborhood(t *testing.T) {
	config := createTestConfig()
	engine, err := NewEngine(config)
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}

	for _, view := range engine.VisibleCaches() {
		d := ChebyshevDistance(view.Cell, engine.PlayerCell())
		if d > config.NeighborhoodSize {
			t.Errorf("Cache %s at distance %d exceeds neighborhood %d",
				view.Cell.Key(), d, config.NeighborhoodSize)
		}
	}
}

func TestVisibleCaches_SnapshotIsolated(t *testing.T) {
	engine, err := NewEngine(denseTestConfig())
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}

	views := engine.VisibleCaches()
	if len(views) == 0 {
		t.Fatal("Dense config should render caches")
	}

	// Mutating the returned snapshot must not touch the ledger
	key := views[0].Cell.Key()
	ledgerLen := len(engine.GetState().Ledger[key])
	views[0].Coins[0] = Coin{ID: -1}

	if engine.GetState().Ledger[key][0].ID == -1 {
		t.Error("CacheView snapshot aliases the ledger")
	}
	if len(engine.GetState().Ledger[key]) != ledgerLen {
		t.Error("Snapshot mutation changed ledger size")
	}
}
