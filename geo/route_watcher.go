package geo

import (
	"context"
	"time"

	"github.com/wricardo/geocoin-carrier/game/engine"
)

// RouteWatcher replays a fixed route of points at a steady interval. It is
// the development stand-in for a real device GPS: the same interface, with
// predictable output.
type RouteWatcher struct {
	route    []engine.GeoPoint
	interval time.Duration
	loop     bool
}

// NewRouteWatcher creates a watcher that emits the given points in order.
// With loop enabled the route repeats until the context is canceled.
func NewRouteWatcher(route []engine.GeoPoint, interval time.Duration, loop bool) *RouteWatcher {
	return &RouteWatcher{
		route:    route,
		interval: interval,
		loop:     loop,
	}
}

// Watch starts the playback goroutine. An empty route is an error so that
// callers can surface "geolocation unavailable" without starting tracking.
func (w *RouteWatcher) Watch(ctx context.Context) (<-chan engine.GeoPoint, error) {
	if len(w.route) == 0 {
		return nil, ErrNoRoute
	}

	ch := make(chan engine.GeoPoint)

	go func() {
		defer close(ch)

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		idx := 0
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				select {
				case ch <- w.route[idx]:
				case <-ctx.Done():
					return
				}

				idx++
				if idx >= len(w.route) {
					if !w.loop {
						return
					}
					idx = 0
				}
			}
		}
	}()

	return ch, nil
}

// SquareRoute builds a small clockwise loop around a center point, stepping
// one grid unit at a time. Handy default route for simulated tracking.
func SquareRoute(center engine.GeoPoint, tileDegrees float64, radius int) []engine.GeoPoint {
	if radius < 1 {
		radius = 1
	}

	var route []engine.GeoPoint
	r := float64(radius) * tileDegrees

	// Four corners walked edge by edge
	corners := []engine.GeoPoint{
		{Lat: center.Lat + r, Lng: center.Lng - r},
		{Lat: center.Lat + r, Lng: center.Lng + r},
		{Lat: center.Lat - r, Lng: center.Lng + r},
		{Lat: center.Lat - r, Lng: center.Lng - r},
	}

	for c := 0; c < 4; c++ {
		from := corners[c]
		to := corners[(c+1)%4]
		steps := 2 * radius
		for s := 0; s < steps; s++ {
			t := float64(s) / float64(steps)
			route = append(route, engine.GeoPoint{
				Lat: from.Lat + (to.Lat-from.Lat)*t,
				Lng: from.Lng + (to.Lng-from.Lng)*t,
			})
		}
	}

	return route
}
