// Package api provides HTTP REST API handlers for the merge board game.
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create new session ({"config_id": "easy"}, optional)
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET /api/sessions/{id} - Get specific session
//   - PUT /api/sessions/{id} - Join the session with this ID, creating it on first use ({"config_id": "easy"}, optional)
//   - DELETE /api/sessions/{id} - Delete session
//
// Game Operations:
//   - GET /api/sessions/{id}/state - Current game state as JSON
//   - GET /api/sessions/{id}/board - Current board as plain text
//   - POST /api/sessions/{id}/draw - Draw the pair for the next turn
//   - POST /api/sessions/{id}/place - Place the next value ({"row": 1, "col": 2})
//   - POST /api/sessions/{id}/reset - Start over
//   - GET /api/sessions/{id}/history - Paginated history (?page=&limit=&order=)
//
// Configuration:
//   - GET /api/configs - List available configurations
//   - GET /api/configs/{name} - Get one configuration
//   - POST /api/configs - Save a configuration (?id= picks the file name)
//
// Other:
//   - GET /api - Endpoint index
//   - GET /api/health - Health check
//   - GET /ws?session={id} - WebSocket updates for a session
//
// Error Handling:
//
// Errors are returned as JSON ({"error": "message"}) with a status code
// derived from the error:
//
//	400  invalid coordinate, value not in pool, bad config or session name, malformed body
//	404  session or configuration not found
//	409  game over, no pair drawn
//	422  invalid configuration
//	500  anything else
//
// Usage:
//
//	server := api.NewServer(gameService, hub, logger)
//	http.ListenAndServe(":8080", server)
package api
