// Package websocket provides WebSocket transport for the Geocoin Carrier
// game.
//
// The websocket package implements:
//   - Real-time state push to map clients
//   - Session-aware WebSocket connections
//   - Automatic state broadcasting on changes
//   - Connection lifecycle management
//
// Architecture:
//
// The package uses a hub-and-spoke model where a central Hub manages all
// WebSocket connections. Each client connection is handled by dedicated
// read and write goroutines.
//
// Message Protocol:
//
// Outgoing messages are JSON-encoded and carry the full game state after
// each change, so a map client can redraw caches, the player marker, and
// the trail without diffing:
//
//	{"session_id": "ab12", "event": "state_update", "game_state": {...}}
//
// Session Integration:
//
// Clients specify their session via query parameter (?session=ab12) when
// establishing the connection. State updates are broadcast only to clients
// connected to the same session. Updates from location tracking arrive on
// the same channel as updates from player actions.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//
//	// from an HTTP handler, after session validation
//	hub.ServeWS(w, r, sessionID)
//
//	// after any state mutation
//	hub.BroadcastToSession(sessionID, state)
package websocket
