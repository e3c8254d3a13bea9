package geo

import (
	"context"
	"errors"

	"github.com/wricardo/geocoin-carrier/game/engine"
)

var ErrNoRoute = errors.New("watcher has no route to play")

// Watcher delivers a stream of device positions. Watch returns a channel
// that emits points until the context is canceled; cancellation stops
// delivery and closes the channel, so no callback fires after a stop.
type Watcher interface {
	Watch(ctx context.Context) (<-chan engine.GeoPoint, error)
}

// WatcherFactory builds a Watcher for a session's game configuration.
// The server wires this so each session gets a route anchored at its own
// start point.
type WatcherFactory func(config *engine.GameConfig) Watcher
