// Package session keeps the live game sessions of a server process.
//
// Core Types:
//
// Manager stores sessions in memory, keyed by a short case-insensitive ID.
// Each session owns an engine wrapped in a loop.Driver. Realtime sessions
// also run a frame loop goroutine that the manager stops on delete, expiry
// or shutdown. Sessions are never written to disk and end with the process.
//
// Session Identifiers:
//
// Sessions use 4-character hex IDs generated from crypto/rand. The manager
// retries on collision.
//
// Usage:
//
//	manager := session.NewManager()
//
//	sess, err := manager.Create("", engine.DefaultSettings(), service.SessionOptions{
//		Realtime: true,
//		Cadence:  loop.DefaultScoreCadence,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	sess.Driver.Submit(engine.HardDrop)
//
// Cleanup:
//
// CleanupExpiredSessions removes sessions idle for longer than a given age.
// Shutdown stops every frame loop and waits for it to return.
package session
