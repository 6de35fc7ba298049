// Package service provides the business logic layer for the merge board game.
//
// The service package implements:
//   - Multi-session game management
//   - Turn handling: drawing a pair and placing both of its values
//   - Run resolution in placement order once a pair is down
//   - Paginated history and configuration access
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages game configuration loading and validation.
//
// Architecture:
//
// The service layer sits between the transports (HTTP, WebSocket, MCP,
// console) and the engine. The engine only knows about single placements
// and resolutions; the service adds the turn structure on top of it. Each
// session owns its own engine and a mutex serializing access to it.
//
// Usage:
//
//	sessionMgr := session.NewManager(logger)
//	configMgr := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr, logger)
//
//	info, err := gameService.CreateSession(ctx, "classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	turn, _ := gameService.DrawPair(ctx, info.ID)
//	result, err := gameService.Place(ctx, info.ID, 1, 1) // places turn.Pair[0]
//	result, err = gameService.Place(ctx, info.ID, 1, 2)  // places turn.Pair[1] and resolves
//
// A placement on an occupied cell is reported with Success false and the
// turn stays on the same value.
package service
