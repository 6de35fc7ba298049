// Package session provides session management for the merge board game.
//
// The session package implements:
//   - Thread-safe in-memory session storage and retrieval
//   - Unique session ID generation
//   - Session lifecycle management and expiration
//
// Core Types:
//
// Manager is the main session manager that handles all session operations.
// It stores service.Session values, each owning an independent engine plus
// metadata like creation time and last access time.
//
// Session Identifiers:
//
// Generated sessions use 4-character hex IDs from crypto/rand; callers may
// also pick their own. Lookups are case-insensitive.
//
// Usage:
//
//	manager := session.NewManager(logger)
//
//	sess, err := manager.Create("", config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sess, err = manager.Get(sessionID)
//	sessions := manager.List()
//
// Cleanup:
//
// Sessions live in memory only. CleanupExpiredSessions removes sessions
// that have not been accessed within a given duration.
package session
