package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/wricardo/mcp-training/mergegame/game/engine"
	"github.com/wricardo/mcp-training/mergegame/game/service"
)

func toolRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil {
		t.Fatal("Expected result, got nil")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("Expected text content in result")
	}
	return text.Text
}

func sampleState() *engine.GameState {
	return &engine.GameState{
		Grid: [][]int{
			{1, 1, 0},
			{0, 0, 2},
			{0, 0, 2},
		},
		Dimension:   3,
		TargetValue: 4,
		RunLength:   3,
		Pool:        []int{1, 2},
		Status:      engine.Playing,
		Occupied:    4,
		Message:     "Placed.",
	}
}

func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:8080/")

	if client.baseURL != "http://localhost:8080" {
		t.Errorf("Expected trailing slash trimmed, got %s", client.baseURL)
	}
	if client.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}
	if client.GetMCPServer() == nil {
		t.Error("Expected MCP server to be initialized")
	}
}

func TestClient_apiCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"id": "ab12"})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	var response map[string]interface{}
	if err := client.apiCall(context.Background(), "GET", "/api", nil, &response); err != nil {
		t.Fatalf("apiCall failed: %v", err)
	}
	if response["id"] != "ab12" {
		t.Errorf("Expected id ab12, got %v", response["id"])
	}
}

func TestClient_apiCall_Errors(t *testing.T) {
	t.Run("unreachable", func(t *testing.T) {
		client := NewClient("http://invalid-url-that-does-not-exist:9999")
		if err := client.apiCall(context.Background(), "GET", "/api", nil, nil); err == nil {
			t.Error("Expected error for invalid URL")
		}
	})

	t.Run("plain status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Internal Server Error"))
		}))
		defer server.Close()

		err := NewClient(server.URL).apiCall(context.Background(), "GET", "/api", nil, nil)
		if err == nil || !strings.Contains(err.Error(), "API error: 500") {
			t.Errorf("Expected 'API error: 500', got: %v", err)
		}
	})

	t.Run("json error body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
			json.NewEncoder(w).Encode(map[string]string{"error": "no pair drawn"})
		}))
		defer server.Close()

		err := NewClient(server.URL).apiCall(context.Background(), "POST", "/api/sessions/x/place", nil, nil)
		if err == nil || err.Error() != "no pair drawn" {
			t.Errorf("Expected API error message, got: %v", err)
		}
	})
}

func TestClient_handleCreateSession(t *testing.T) {
	var gotBody map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/api/sessions" {
			t.Errorf("Expected POST /api/sessions, got %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(service.SessionInfo{
			ID:         "ab12",
			ConfigName: "easy",
			GameState:  sampleState(),
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.handleCreateSession(context.Background(),
		toolRequest("create_session", map[string]interface{}{"config_id": "easy"}))
	if err != nil {
		t.Fatalf("createSession failed: %v", err)
	}

	text := resultText(t, result)
	if !strings.Contains(text, "Created session: ab12") || !strings.Contains(text, "draw_pair") {
		t.Errorf("Unexpected result: %s", text)
	}
	if gotBody["config_id"] != "easy" {
		t.Errorf("Expected config_id forwarded, got %v", gotBody)
	}
}

func TestClient_handleCreateSession_JoinByID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "PUT" || r.URL.Path != "/api/sessions/table 1" {
			t.Errorf("Expected PUT /api/sessions/table 1, got %s %s", r.Method, r.URL.Path)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(service.SessionInfo{
			ID:         "table 1",
			ConfigName: "quick",
			GameState:  sampleState(),
			Turn:       &service.TurnInfo{Pair: [2]int{1, 2}, NextValue: 1},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.handleCreateSession(context.Background(),
		toolRequest("create_session", map[string]interface{}{"session_id": "table 1"}))
	if err != nil {
		t.Fatalf("createSession failed: %v", err)
	}

	text := resultText(t, result)
	if !strings.Contains(text, "Joined session: table 1") || !strings.Contains(text, "pending pair") {
		t.Errorf("Unexpected result: %s", text)
	}
}

func TestClient_handlePlace(t *testing.T) {
	var gotPath string
	var gotBody map[string]int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)

		state := sampleState()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(service.PlaceResult{
			Success:      true,
			Result:       engine.Placed,
			Value:        2,
			Position:     engine.Position{Row: 1, Col: 3},
			TurnComplete: true,
			Merges: []engine.MergeReport{{
				Origin:   engine.Position{Row: 1, Col: 3},
				Merged:   true,
				Vertical: &engine.Run{Axis: "vertical", Length: 3, Cleared: []engine.Position{{Row: 2, Col: 3}, {Row: 3, Col: 3}}},
				Value:    3,
				PoolGrew: true,
				Status:   engine.Playing,
			}},
			GameState: state,
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	t.Run("missing coordinates", func(t *testing.T) {
		result, _ := client.handlePlace(context.Background(),
			toolRequest("place", map[string]interface{}{"session_id": "ab12", "row": 1.0}))
		if !result.IsError {
			t.Error("Expected an error result without col")
		}
	})

	t.Run("placement", func(t *testing.T) {
		result, err := client.handlePlace(context.Background(),
			toolRequest("place", map[string]interface{}{
				"session_id": "ab12",
				"row":        1.0,
				"col":        3.0,
				"intent":     "complete the column of 2s",
			}))
		if err != nil {
			t.Fatalf("handlePlace failed: %v", err)
		}

		if gotPath != "/api/sessions/ab12/place" || gotBody["row"] != 1 || gotBody["col"] != 3 {
			t.Errorf("Unexpected request %s %v", gotPath, gotBody)
		}

		text := resultText(t, result)
		for _, want := range []string{
			"✓ Placed 2 at (1,3)",
			"Merged 3 cells into 3 at (1,3), 3 joined the pool",
			"Turn complete",
			"Pool: 1, 2",
		} {
			if !strings.Contains(text, want) {
				t.Errorf("Expected %q in result, got:\n%s", want, text)
			}
		}
	})
}

func TestClient_handleHistoryQuery(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		json.NewEncoder(w).Encode(service.HistoryResponse{
			Entries: []engine.HistoryEntry{
				{Number: 1, Kind: "place", Row: 1, Col: 1, Value: 2},
				{Number: 2, Kind: "merge", Row: 1, Col: 1, Value: 3, Result: "merged_horizontal", Cleared: 2},
				{Number: 3, Kind: "reset", Status: engine.Playing},
			},
			TotalEntries: 3,
			Page:         1,
			TotalPages:   1,
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.handleHistory(context.Background(), toolRequest("history", map[string]interface{}{
		"session_id": "ab12",
		"page":       1.0,
		"order":      "asc",
	}))
	if err != nil {
		t.Fatalf("handleHistory failed: %v", err)
	}

	if gotQuery != "order=asc&page=1" {
		t.Errorf("Unexpected query %q", gotQuery)
	}

	text := resultText(t, result)
	for _, want := range []string{"1. place 2 at (1,1)", "2. merge merged_horizontal at (1,1) -> 3, cleared 2", "3. reset [playing]"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in history, got:\n%s", want, text)
		}
	}
}

func TestClient_handleGetSession_RequiresID(t *testing.T) {
	client := NewClient("http://localhost:8080")
	result, err := client.handleGetSession(context.Background(), toolRequest("get_session", map[string]interface{}{}))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !result.IsError {
		t.Error("Expected an error result without session_id")
	}
}

func TestDescribeCell(t *testing.T) {
	state := sampleState()

	t.Run("out of bounds", func(t *testing.T) {
		if _, err := describeCell(state, nil, 0, 1); err == nil {
			t.Error("Expected error for row 0")
		}
		if _, err := describeCell(state, nil, 1, 4); err == nil {
			t.Error("Expected error for col 4")
		}
	})

	t.Run("occupied", func(t *testing.T) {
		text, err := describeCell(state, nil, 1, 1)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(text, "Value: 1") || !strings.Contains(text, "2 horizontal, 1 vertical") {
			t.Errorf("Unexpected description:\n%s", text)
		}
	})

	t.Run("empty without pair", func(t *testing.T) {
		text, _ := describeCell(state, nil, 1, 3)
		if !strings.Contains(text, "No pair drawn yet") {
			t.Errorf("Unexpected description:\n%s", text)
		}
	})

	t.Run("completes both runs", func(t *testing.T) {
		// A 1 at (1,3) continues the row of 1s; a 2 continues the column of 2s
		one, _ := describeCell(state, &service.TurnInfo{Pair: [2]int{1, 2}, NextValue: 1}, 1, 3)
		if !strings.Contains(one, "Placing 1 here: 3 horizontal, 1 vertical") || !strings.Contains(one, "Would merge into 2") {
			t.Errorf("Unexpected description for 1:\n%s", one)
		}

		two, _ := describeCell(state, &service.TurnInfo{Pair: [2]int{1, 2}, NextIndex: 1, NextValue: 2}, 1, 3)
		if !strings.Contains(two, "1 horizontal, 3 vertical") || !strings.Contains(two, "Would merge into 3") {
			t.Errorf("Unexpected description for 2:\n%s", two)
		}
	})

	t.Run("no merge", func(t *testing.T) {
		text, _ := describeCell(state, &service.TurnInfo{Pair: [2]int{2, 1}, NextValue: 2}, 3, 1)
		if !strings.Contains(text, "Would not merge") {
			t.Errorf("Unexpected description:\n%s", text)
		}
	})
}

func TestRunLength(t *testing.T) {
	grid := [][]int{
		{2, 2, 0, 2},
		{0, 0, 0, 2},
		{0, 0, 0, 2},
		{1, 0, 0, 0},
	}

	tests := []struct {
		name             string
		row, col, value  int
		dr, dc, expected int
	}{
		{"joins both sides", 1, 3, 2, 0, 1, 4},
		{"gap stops the row", 1, 1, 2, 0, 1, 2},
		{"column below", 1, 4, 2, 1, 0, 3},
		{"mismatch", 4, 2, 2, 0, 1, 1},
		{"edge", 4, 1, 1, 1, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := runLength(grid, tt.row, tt.col, tt.value, tt.dr, tt.dc); got != tt.expected {
				t.Errorf("runLength = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestFormatGameState(t *testing.T) {
	state := sampleState()
	state.Placements = 4
	state.HighestTile = 2

	result := formatGameState(state)
	for _, field := range []string{"Pool: 1, 2 | Target: 4 | Run: 3", "Placements: 4 | Merges: 0 | Highest: 2", "Message: Placed."} {
		if !strings.Contains(result, field) {
			t.Errorf("Expected field '%s' in formatted output, got: %s", field, result)
		}
	}

	state.Status = engine.Lost
	if !strings.Contains(formatGameState(state), "💀 GAME OVER") {
		t.Error("Expected game over marker")
	}

	state.Status = engine.Won
	if !strings.Contains(formatGameState(state), "🎉 VICTORY!") {
		t.Error("Expected victory marker")
	}

	if formatGameState(nil) != "No game state available" {
		t.Error("Expected placeholder for nil state")
	}
}

func TestFormatPlaceResult_Occupied(t *testing.T) {
	result := formatPlaceResult(&service.PlaceResult{
		Result:   engine.Occupied,
		Position: engine.Position{Row: 2, Col: 3},
		Message:  "That cell is taken.",
		Turn:     &service.TurnInfo{Pair: [2]int{1, 2}, NextIndex: 1, NextValue: 2},
	})

	if !strings.Contains(result, "✗ Cell (2,3) is occupied: That cell is taken.") {
		t.Errorf("Unexpected occupied output: %s", result)
	}
	if !strings.Contains(result, "Next to place: 2 (2 of 2)") {
		t.Errorf("Expected pending value in output: %s", result)
	}
}

func TestClient_handleGameInstructions(t *testing.T) {
	client := NewClient("http://localhost:8080")

	result, err := client.handleGameInstructions(context.Background(), toolRequest("game_instructions", nil))
	if err != nil {
		t.Fatalf("handleGameInstructions failed: %v", err)
	}

	text := resultText(t, result)
	for _, content := range []string{"GAME OBJECTIVE:", "TURN STRUCTURE:", "MERGING:", "WINNING AND LOSING:", "STRATEGY HINTS:"} {
		if !strings.Contains(text, content) {
			t.Errorf("Expected '%s' in instructions", content)
		}
	}
}
