// Package service provides the business logic layer between the HTTP/MCP
// transports and the game engine. GameService wraps engine operations with
// session lookup, persistence, event extraction, and location tracking so
// that transport handlers stay thin.
//
// All mutating operations auto-save the session through the SessionManager;
// persistence failures are logged but never fail the player-visible
// operation. Location tracking runs one watcher goroutine per session and
// pushes resulting states to an optional StateListener for broadcast.
package service
