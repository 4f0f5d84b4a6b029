// Package service provides the business logic layer for the 2048 game server.
//
// The service package implements:
//   - Multi-session game management
//   - Move processing and direction parsing
//   - Per-turn events (move, merge, spawn, victory, game_over)
//   - Move history pagination
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages game configuration loading and validation.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the game engine. It serialises mutations with a mutex, persists sessions
// after every change and opens an OpenTelemetry span per operation.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr)
//
//	sessionInfo, err := gameService.CreateSession(ctx, "small")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := gameService.Move(ctx, sessionInfo.ID, "left", false)
//	// result.Relocations lists every tile that moved
//
// Bulk Moves:
//
// BulkMove plays up to engine.MaxBulkMoves directions and stops at the first
// illegal move, unparseable direction or finished game, reporting the reason
// as illegal_move, invalid_direction or game_over.
package service
