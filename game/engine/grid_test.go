package engine

import "testing"

func TestCellForPoint(t *testing.T) {
	tests := []struct {
		name string
		p    GeoPoint
		tile float64
		want CellID
	}{
		{"origin", GeoPoint{0, 0}, 0.0001, CellID{0, 0}},
		{"positive", GeoPoint{5.00005, -3.00015}, 0.0001, CellID{50000, -30002}},
		{"negative rounds down", GeoPoint{-0.00005, -0.00005}, 0.0001, CellID{-1, -1}},
		{"just inside cell", GeoPoint{0.00009, 0.00019}, 0.0001, CellID{0, 1}},
	}

	for _, tt := range tests {
		got := CellForPoint(tt.p, tt.tile)
		if got != tt.want {
			t.Errorf("%s: CellForPoint(%v) = %v, want %v", tt.name, tt.p, got, tt.want)
		}
	}
}

func TestBoundsForCell(t *testing.T) {
	tile := 0.0001
	bounds := BoundsForCell(CellID{I: 2, J: -3}, tile)

	if bounds.SouthWest.Lat != 2*tile || bounds.SouthWest.Lng != -3*tile {
		t.Errorf("Unexpected SW corner: %+v", bounds.SouthWest)
	}
	if bounds.NorthEast.Lat != 3*tile || bounds.NorthEast.Lng != -2*tile {
		t.Errorf("Unexpected NE corner: %+v", bounds.NorthEast)
	}
}

func TestCellKeyRoundTrip(t *testing.T) {
	cells := []CellID{{0, 0}, {12, -7}, {-369894, 1220627}}

	for _, cell := range cells {
		parsed, err := ParseCellKey(cell.Key())
		if err != nil {
			t.Fatalf("ParseCellKey(%q) failed: %v", cell.Key(), err)
		}
		if parsed != cell {
			t.Errorf("Round trip mismatch: %v -> %q -> %v", cell, cell.Key(), parsed)
		}
	}
}

func TestParseCellKey_Invalid(t *testing.T) {
	for _, key := range []string{"", "12", "a:b", "1:2:3x"} {
		if _, err := ParseCellKey(key); err == nil {
			t.Errorf("Expected error for key %q", key)
		}
	}
}

func TestChebyshevDistance(t *testing.T) {
	if d := ChebyshevDistance(CellID{0, 0}, CellID{3, -2}); d != 3 {
		t.Errorf("Expected distance 3, got %d", d)
	}
	if d := ChebyshevDistance(CellID{5, 5}, CellID{5, 5}); d != 0 {
		t.Errorf("Expected distance 0, got %d", d)
	}
}

func TestShift_InversePairsReturnToCell(t *testing.T) {
	const tile = 0.0001
	start := GeoPoint{Lat: 36.98949379578401, Lng: -122.06277128548296}
	startCell := CellForPoint(start, tile)

	pairs := [][2]string{{North, South}, {South, North}, {East, West}, {West, East}}
	for _, pair := range pairs {
		p, ok := Shift(start, pair[0], tile)
		if !ok {
			t.Fatalf("Shift %s failed", pair[0])
		}
		p, ok = Shift(p, pair[1], tile)
		if !ok {
			t.Fatalf("Shift %s failed", pair[1])
		}
		if CellForPoint(p, tile) != startCell {
			t.Errorf("%s then %s did not return to start cell", pair[0], pair[1])
		}
	}
}

func TestShift_UnknownDirection(t *testing.T) {
	p := GeoPoint{1, 2}
	got, ok := Shift(p, "sideways", 0.0001)
	if ok {
		t.Error("Expected Shift to reject unknown direction")
	}
	if got != p {
		t.Error("Expected point unchanged for unknown direction")
	}
}
