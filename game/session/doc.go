// Package session provides session management for the 2048 game server.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - File-backed persistence of game state
//   - Session cleanup and expiration
//
// Core Types:
//
// Manager is the main session manager. Each session owns its own
// engine.GameEngine, so games never share grids or random sources.
// FilePersistence stores one JSON file per session holding the config id,
// timestamps and the full engine.GameState snapshot.
//
// Session Identifiers:
//
// Generated IDs are 4 lowercase hex characters drawn from crypto/rand.
// Lookups are case-insensitive.
//
// Usage:
//
//	persistence, err := session.NewFilePersistence("sessions", configManager)
//	manager := session.NewManagerWithPersistence(persistence)
//	manager.LoadPersistedSessions()
//
//	sess, err := manager.Create("", "classic", config)
//	sess, err = manager.Get(sess.ID)
//
// Sessions not in memory are loaded from disk on first Get. A restored game
// continues with a fresh random source, so its future spawns differ from the
// ones the original process would have produced.
package session
