// Package session provides session management for the Geocoin Carrier game.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - Session lifecycle management with expiration cleanup
//   - Full-state persistence as a single snapshot per session
//
// Core Types:
//
// Manager is the main session manager handling all session operations.
// SessionPersistence abstracts the storage backend; FilePersistence writes
// one JSON file per session and SQLitePersistence keeps one row per session
// in a SQLite database. Both store the identical snapshot shape, so the
// backend can be swapped without migrating game semantics.
//
// Session Identifiers:
//
// Sessions use 4-character hex IDs for easy reference. IDs are
// case-insensitive and generated from cryptographic randomness.
//
// Persistence:
//
// A snapshot carries the complete game state: player position, movement
// trail, inventory, the cache coin ledger, and the next-coin-ID counter.
// Restoring a snapshot resumes the game exactly, and coins minted after a
// restore never collide with coins minted before the save. An unreadable
// snapshot is discarded and the session starts fresh.
//
// Usage:
//
//	persistence, err := session.NewFilePersistence("./sessions", configs)
//	if err != nil {
//		log.Fatal(err)
//	}
//	manager := session.NewManagerWithPersistence(persistence)
//	manager.LoadPersistedSessions()
//
//	sess, err := manager.Create("", config)
//	if err != nil {
//		log.Fatal(err)
//	}
package session
