// Package websocket pushes game updates to browsers watching a session.
//
// A central Hub owns every connection. Each client gets a read pump, which
// only keeps the connection alive, and a write pump that forwards queued
// messages and pings.
//
// Message Protocol:
//
// Outgoing messages are JSON objects:
//
//	{"session_id": "ab12", "event": "state_update", "game_state": {...}}
//
// Custom events carry a "data" field instead of "game_state".
//
// Session Integration:
//
// Clients pick a session with the query parameter (?session=ab12). Updates
// are delivered only to clients of the same session.
//
// Usage:
//
//	hub := websocket.NewHub(logger)
//	go hub.Run(ctx)
//
//	router.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"))
//	})
//
//	hub.BroadcastToSession(sessionID, state)
//
// Broadcasts never block the caller: they are queued for the Run loop and
// dropped when the queue is full. A client whose buffer is full is
// disconnected.
package websocket
