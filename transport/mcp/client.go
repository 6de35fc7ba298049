package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/mcp-training/mergegame/game/engine"
	"github.com/wricardo/mcp-training/mergegame/game/render"
	"github.com/wricardo/mcp-training/mergegame/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Merge Board Game",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Merge Board Game - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Build a cell holding the target value. Each turn you draw two different
numbers and place them on empty cells. When enough equal numbers line up
next to a placed number, they merge into it and it grows by one.

AVAILABLE TOOLS:
- create_session: Create new game session, or join one by session_id
- list_sessions: List all active sessions
- get_session: Get session details, including the pending pair
- game_state: Get current board
- draw_pair: Draw the two numbers for the next turn
- place: Place the next number of the drawn pair (row, col start at 1)
- reset_game: Start the session over
- history: View past placements and merges
- list_configs: List available configurations
- game_instructions: Full rules and strategy hints
- describe_cell: What is at a cell, and what placing the next number there would do

NOTE: The 'intent' parameter on place serves as rubber duck debugging - explain your reasoning!`),
	)

	c.registerTools()
}

func sessionSchema(extra map[string]interface{}, required ...string) mcp.ToolInputSchema {
	props := map[string]interface{}{
		"session_id": map[string]interface{}{
			"type":        "string",
			"description": "Session ID",
		},
	}
	for k, v := range extra {
		props[k] = v
	}
	return mcp.ToolInputSchema{
		Type:       "object",
		Properties: props,
		Required:   append([]string{"session_id"}, required...),
	}
}

func coordinateProps() map[string]interface{} {
	return map[string]interface{}{
		"row": map[string]interface{}{
			"type":        "integer",
			"description": "Row, starting at 1 from the top",
			"minimum":     1,
		},
		"col": map[string]interface{}{
			"type":        "integer",
			"description": "Column, starting at 1 from the left",
			"minimum":     1,
		},
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional config selection. With session_id, joins that session if it exists and creates it otherwise",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "ID of the config to use (optional, see list_configs)",
				},
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID to join or create (optional, generated when omitted)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: sessionSchema(nil),
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current board and pool",
		InputSchema: sessionSchema(nil),
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "draw_pair",
		Description: "Draw two different numbers from the pool for the next turn. Returns the pending pair if one is already drawn.",
		InputSchema: sessionSchema(nil),
	}, c.handleDrawPair)

	placeProps := coordinateProps()
	placeProps["intent"] = map[string]interface{}{
		"type":        "string",
		"description": "Why this cell? Explain the run you are building",
	}
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "place",
		Description: "Place the next number of the drawn pair on an empty cell. Runs are resolved after the second number is placed.",
		InputSchema: sessionSchema(placeProps, "row", "col"),
	}, c.handlePlace)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Reset the session to an empty board",
		InputSchema: sessionSchema(nil),
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "history",
		Description: "Get paginated history of placements, merges and resets",
		InputSchema: sessionSchema(map[string]interface{}{
			"page": map[string]interface{}{
				"type":        "integer",
				"description": "Page number (default 1)",
			},
			"limit": map[string]interface{}{
				"type":        "integer",
				"description": "Entries per page (default 20, max 100)",
			},
			"order": map[string]interface{}{
				"type":        "string",
				"description": "asc or desc (default desc, newest first)",
				"enum":        []string{"asc", "desc"},
			},
		}),
	}, c.handleHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available game configurations",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the complete rules and strategy hints",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_cell",
		Description: "Describe a cell: its value, its equal neighbours, and whether placing the next number there would merge",
		InputSchema: sessionSchema(coordinateProps(), "row", "col"),
	}, c.handleDescribeCell)
}

// GetMCPServer returns the underlying MCP server
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func sessionPath(sessionID, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

func stringArg(args map[string]interface{}, key string) string {
	s, _ := args[key].(string)
	return s
}

// intArg reads a JSON number argument
func intArg(args map[string]interface{}, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case json.Number:
		n, err := v.Int64()
		return int(n), err == nil
	default:
		return 0, false
	}
}

func requireSession(args map[string]interface{}) (string, *mcp.CallToolResult) {
	sessionID := stringArg(args, "session_id")
	if sessionID == "" {
		return "", mcp.NewToolResultError("session_id is required")
	}
	return sessionID, nil
}

func requireCoordinates(args map[string]interface{}) (int, int, *mcp.CallToolResult) {
	row, okRow := intArg(args, "row")
	col, okCol := intArg(args, "col")
	if !okRow || !okCol {
		return 0, 0, mcp.NewToolResultError("row and col are required integers")
	}
	return row, col, nil
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	configID := stringArg(request.GetArguments(), "config_id")

	body := map[string]string{}
	if configID != "" {
		body["config_id"] = configID
	}

	method, path, verb := "POST", "/api/sessions", "Created"
	if sessionID := stringArg(request.GetArguments(), "session_id"); sessionID != "" {
		method, path, verb = "PUT", sessionPath(sessionID, ""), "Joined"
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, method, path, body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	next := "call draw_pair"
	if session.Turn != nil {
		next = "place the pending pair"
	}
	result := fmt.Sprintf("%s session: %s\nConfig: %s\n\n%s\nNext: %s.",
		verb, session.ID, session.ConfigName, formatGameState(session.GameState), next)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		status := "unknown"
		if s.GameState != nil {
			status = string(s.GameState.Status)
		}
		fmt.Fprintf(&b, "- %s (Config: %s, Status: %s, Created: %s)\n",
			s.ID, s.ConfigName, status, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, errResult := requireSession(request.GetArguments())
	if errResult != nil {
		return errResult, nil
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, ""), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, errResult := requireSession(request.GetArguments())
	if errResult != nil {
		return errResult, nil
	}

	var state engine.GameState
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handleDrawPair(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, errResult := requireSession(request.GetArguments())
	if errResult != nil {
		return errResult, nil
	}

	var turn service.TurnInfo
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/draw"), nil, &turn); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatTurn(&turn)), nil
}

func (c *Client) handlePlace(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID, errResult := requireSession(args)
	if errResult != nil {
		return errResult, nil
	}
	row, col, errResult := requireCoordinates(args)
	if errResult != nil {
		return errResult, nil
	}

	// Intent parameter serves as rubber duck debugging - we don't need to process it further
	_ = stringArg(args, "intent")

	var result service.PlaceResult
	body := map[string]int{"row": row, "col": col}
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/place"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatPlaceResult(&result)), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, errResult := requireSession(request.GetArguments())
	if errResult != nil {
		return errResult, nil
	}

	var response struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}

	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/reset"), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("%s\n\n%s", response.Message, formatGameState(response.State))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID, errResult := requireSession(args)
	if errResult != nil {
		return errResult, nil
	}

	params := url.Values{}
	if page, ok := intArg(args, "page"); ok {
		params.Set("page", fmt.Sprint(page))
	}
	if limit, ok := intArg(args, "limit"); ok {
		params.Set("limit", fmt.Sprint(limit))
	}
	if order := stringArg(args, "order"); order != "" {
		params.Set("order", order)
	}

	path := sessionPath(sessionID, "/history")
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Configurations:\n\n")
	for _, config := range configs {
		fmt.Fprintf(&b, "• %s (config_id: %s)\n  %s\n  Board: %dx%d, Target: %d, Run: %d",
			config.Name, config.ConfigID, config.Description,
			config.Dimension, config.Dimension, config.TargetValue, config.RunLength)
		if config.DeferLossCheck {
			b.WriteString(", loss checked after merging")
		}
		b.WriteString("\n\n")
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `Merge Board Game - Complete Instructions

GAME OBJECTIVE:
Create a cell holding the target value before the board fills up.

BOARD:
• A square grid, rows and columns numbered from 1 (row 1 is the top)
• Empty cells are blank, occupied cells show their number
• The pool starts as {1, 2} and gains every new highest number you build

TURN STRUCTURE:
1. draw_pair: two different numbers are drawn from the pool
2. place: put the first number on an empty cell
3. place: put the second number on an empty cell
4. After the second placement, runs are resolved through the first placed
   cell, then through the second

MERGING:
• A run is a line of equal numbers, horizontal or vertical, through the
  placed cell, with no gaps
• A run at least as long as the run length merges: every other cell of the
  run empties and the placed cell grows by one
• If both a horizontal and a vertical run qualify, both merge at once and
  the cell still grows by one
• Merges do not chain: a grown cell is not re-checked until a later
  placement passes through it

WINNING AND LOSING:
• You win the moment a merge produces the target value
• You lose when a placement fills the last empty cell (some configs check
  this only after runs are resolved, so a merge can still save you)

STRATEGY HINTS:
• Use describe_cell before placing: it tells you whether the next number
  would complete a run there
• Keep equal numbers close together, but leave room for the second number
  of each pair
• A merge empties cells; plan runs so every turn frees space
• Placing on an occupied cell is rejected and you keep the same number

Good luck!`

	return mcp.NewToolResultText(instructions), nil
}

func (c *Client) handleDescribeCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID, errResult := requireSession(args)
	if errResult != nil {
		return errResult, nil
	}
	row, col, errResult := requireCoordinates(args)
	if errResult != nil {
		return errResult, nil
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, ""), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if session.GameState == nil {
		return mcp.NewToolResultError("session has no game state"), nil
	}

	description, err := describeCell(session.GameState, session.Turn, row, col)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(description), nil
}

// describeCell explains the cell at (row, col) and, when a pair is pending,
// what placing the next value there would do
func describeCell(state *engine.GameState, turn *service.TurnInfo, row, col int) (string, error) {
	dimension := len(state.Grid)
	if row < 1 || row > dimension || col < 1 || col > dimension {
		return "", fmt.Errorf("coordinates (%d,%d) are out of bounds; rows and columns go from 1 to %d", row, col, dimension)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Cell (%d,%d)\n", row, col)

	value := state.Grid[row-1][col-1]
	if value != 0 {
		h := runLength(state.Grid, row, col, value, 0, 1)
		v := runLength(state.Grid, row, col, value, 1, 0)
		fmt.Fprintf(&b, "Value: %d\n", value)
		fmt.Fprintf(&b, "Equal line through it: %d horizontal, %d vertical (run length %d)\n", h, v, state.RunLength)
		b.WriteString("Occupied: placing here is rejected.\n")
		return b.String(), nil
	}

	b.WriteString("Empty\n")
	if turn == nil {
		b.WriteString("No pair drawn yet; call draw_pair to see what placing here would do.\n")
		return b.String(), nil
	}

	next := turn.NextValue
	h := runLength(state.Grid, row, col, next, 0, 1)
	v := runLength(state.Grid, row, col, next, 1, 0)
	fmt.Fprintf(&b, "Placing %d here: %d horizontal, %d vertical (run length %d)\n", next, h, v, state.RunLength)

	if h >= state.RunLength || v >= state.RunLength {
		grown := next + 1
		fmt.Fprintf(&b, "Would merge into %d", grown)
		if grown == state.TargetValue {
			b.WriteString(" and win the game")
		}
		b.WriteString(" once the pair is resolved.\n")
	} else {
		b.WriteString("Would not merge on its own.\n")
	}
	if state.Occupied == dimension*dimension-1 {
		b.WriteString("Warning: this is the last empty cell.\n")
	}
	return b.String(), nil
}

// runLength counts the cells equal to value through (row, col) along one
// axis, treating (row, col) itself as holding value
func runLength(grid [][]int, row, col, value, dr, dc int) int {
	count := 1
	for _, sign := range []int{-1, 1} {
		r, c := row-1+sign*dr, col-1+sign*dc
		for r >= 0 && r < len(grid) && c >= 0 && c < len(grid) && grid[r][c] == value {
			count++
			r += sign * dr
			c += sign * dc
		}
	}
	return count
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Session: %s\nConfig: %s\nCreated: %s\n\n",
		session.ID, session.ConfigName,
		session.CreatedAt.Format("2006-01-02 15:04:05"))
	b.WriteString(formatGameState(session.GameState))
	if session.Turn != nil {
		b.WriteString("\n")
		b.WriteString(formatTurn(session.Turn))
	}
	return b.String()
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var b strings.Builder
	b.WriteString(render.RenderState(state))
	fmt.Fprintf(&b, "Placements: %d | Merges: %d | Highest: %d\n",
		state.Placements, state.Merges, state.HighestTile)

	switch state.Status {
	case engine.Won:
		b.WriteString("\n🎉 VICTORY!")
	case engine.Lost:
		b.WriteString("\n💀 GAME OVER")
	}

	if state.Message != "" {
		fmt.Fprintf(&b, "\nMessage: %s", state.Message)
	}

	return b.String()
}

func formatTurn(turn *service.TurnInfo) string {
	return fmt.Sprintf("Pair: %d & %d | Next to place: %d (%d of 2)\n",
		turn.Pair[0], turn.Pair[1], turn.NextValue, turn.NextIndex+1)
}

func formatPlaceResult(result *service.PlaceResult) string {
	var b strings.Builder

	if !result.Success {
		fmt.Fprintf(&b, "✗ Cell (%d,%d) is occupied: %s\n",
			result.Position.Row, result.Position.Col, result.Message)
		if result.Turn != nil {
			b.WriteString(formatTurn(result.Turn))
		}
		return b.String()
	}

	fmt.Fprintf(&b, "✓ Placed %d at (%d,%d)\n", result.Value, result.Position.Row, result.Position.Col)
	for _, m := range result.Merges {
		fmt.Fprintf(&b, "Merged %d cells into %d at (%d,%d)", m.ClearedCount()+1, m.Value, m.Origin.Row, m.Origin.Col)
		if m.PoolGrew {
			fmt.Fprintf(&b, ", %d joined the pool", m.Value)
		}
		b.WriteString("\n")
	}

	if result.Turn != nil {
		b.WriteString(formatTurn(result.Turn))
	} else if result.TurnComplete && result.GameState != nil && result.GameState.Status == engine.Playing {
		b.WriteString("Turn complete. Call draw_pair for the next pair.\n")
	}

	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "History (Page %d/%d) - Total: %d\n\n",
		history.Page, history.TotalPages, history.TotalEntries)

	for _, entry := range history.Entries {
		switch entry.Kind {
		case "place":
			fmt.Fprintf(&b, "%d. place %d at (%d,%d)\n", entry.Number, entry.Value, entry.Row, entry.Col)
		case "merge":
			fmt.Fprintf(&b, "%d. merge %s at (%d,%d) -> %d, cleared %d\n",
				entry.Number, entry.Result, entry.Row, entry.Col, entry.Value, entry.Cleared)
		default:
			fmt.Fprintf(&b, "%d. %s [%s]\n", entry.Number, entry.Kind, entry.Status)
		}
	}

	if history.HasNext {
		fmt.Fprintf(&b, "\nMore entries on page %d.\n", history.Page+1)
	}
	return b.String()
}
