package engine

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// CellForPoint quantizes a lat/lng point into its grid cell for the given
// tile size. Floor division keeps cells stable across the equator and the
// prime meridian (negative coordinates round toward negative infinity).
func CellForPoint(p GeoPoint, tileDegrees float64) CellID {
	return CellID{
		I: int(math.Floor(p.Lat / tileDegrees)),
		J: int(math.Floor(p.Lng / tileDegrees)),
	}
}

// BoundsForCell returns the SW/NE corners of a cell, for rectangle rendering
func BoundsForCell(cell CellID, tileDegrees float64) CellBounds {
	return CellBounds{
		SouthWest: GeoPoint{
			Lat: float64(cell.I) * tileDegrees,
			Lng: float64(cell.J) * tileDegrees,
		},
		NorthEast: GeoPoint{
			Lat: float64(cell.I+1) * tileDegrees,
			Lng: float64(cell.J+1) * tileDegrees,
		},
	}
}

// ParseCellKey parses a ledger key ("i:j") back into a CellID
func ParseCellKey(key string) (CellID, error) {
	parts := strings.SplitN(key, ":", 2)
	if len(parts) != 2 {
		return CellID{}, fmt.Errorf("invalid cell key %q", key)
	}

	i, err := strconv.Atoi(parts[0])
	if err != nil {
		return CellID{}, fmt.Errorf("invalid cell key %q: %v", key, err)
	}
	j, err := strconv.Atoi(parts[1])
	if err != nil {
		return CellID{}, fmt.Errorf("invalid cell key %q: %v", key, err)
	}

	return CellID{I: i, J: j}, nil
}

// ChebyshevDistance returns the grid distance between two cells as the
// maximum of the axis deltas. The visible neighborhood is the square of
// cells within this distance of the player's cell.
func ChebyshevDistance(a, b CellID) int {
	di := a.I - b.I
	if di < 0 {
		di = -di
	}
	dj := a.J - b.J
	if dj < 0 {
		dj = -dj
	}
	if di > dj {
		return di
	}
	return dj
}

// Shift returns the point one grid unit away in the given direction, or the
// unchanged point and false for an unknown direction.
func Shift(p GeoPoint, direction string, tileDegrees float64) (GeoPoint, bool) {
	switch direction {
	case North:
		return GeoPoint{Lat: p.Lat + tileDegrees, Lng: p.Lng}, true
	case South:
		return GeoPoint{Lat: p.Lat - tileDegrees, Lng: p.Lng}, true
	case East:
		return GeoPoint{Lat: p.Lat, Lng: p.Lng + tileDegrees}, true
	case West:
		return GeoPoint{Lat: p.Lat, Lng: p.Lng - tileDegrees}, true
	default:
		return p, false
	}
}
