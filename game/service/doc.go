// Package service provides the business logic layer for Blockfall sessions.
//
// The service package implements:
//   - Multi-session game management
//   - Preset loading and saving
//   - Command parsing and application, single or in bulk
//   - Session lifecycle management
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages preset loading and validation.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the frame loop. Each session owns a loop.Driver wrapping its own engine.
// Manual sessions apply commands synchronously and only fall on a tick
// command; realtime sessions run their driver in a goroutine and queue
// commands for the next frame.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr)
//
//	info, err := gameService.CreateSession(ctx, service.CreateOptions{ConfigName: "classic"})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	out, err := gameService.Command(ctx, info.ID, "hard_drop")
//
// Session Management:
//
// Sessions are identified by unique 4-character IDs. Multiple sessions can
// run concurrently with different presets. Sessions track creation and last
// access time so idle ones can be reaped.
package service
