// Package mcp exposes the merge board game to AI agents over the Model
// Context Protocol.
//
// Client is a thin proxy: every tool call becomes a request against the
// REST API, and the JSON answer is turned into text an agent can read.
//
// MCP Tools:
//   - create_session, list_sessions, get_session: session management
//   - game_state: board, pool and status
//   - draw_pair: deal the two numbers of the next turn
//   - place: place the next number of the pair at (row, col)
//   - reset_game: start over
//   - history: paginated placements, merges and resets
//   - list_configs: available rule sets
//   - game_instructions: rules and strategy hints
//   - describe_cell: what a cell holds and what placing there would do
//
// Transport Modes:
//
// The same server is served over stdio (the stdio-mcp command) and over
// HTTP on /mcp, where each POST body is one JSON-RPC message.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
