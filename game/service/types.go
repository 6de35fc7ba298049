package service

import (
	"time"

	"github.com/wricardo/mcp-training/mergegame/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	GameState      *engine.GameState  `json:"game_state"`
	GameConfig     *engine.GameConfig `json:"game_config"`
	Turn           *TurnInfo          `json:"turn,omitempty"`
}

// TurnInfo describes the pair currently being placed
type TurnInfo struct {
	Pair      [2]int            `json:"pair"`
	NextIndex int               `json:"next_index"` // 0 or 1
	NextValue int               `json:"next_value"`
	Placed    []engine.Position `json:"placed"`
}

// PlaceResult contains the result of a place operation
type PlaceResult struct {
	Success      bool                   `json:"success"`
	Result       engine.PlacementResult `json:"result"`
	Value        int                    `json:"value"`
	Position     engine.Position        `json:"position"`
	TurnComplete bool                   `json:"turn_complete"`
	Turn         *TurnInfo              `json:"turn,omitempty"` // nil once the turn is complete
	Merges       []engine.MergeReport   `json:"merges,omitempty"`
	GameState    *engine.GameState      `json:"game_state"`
	Message      string                 `json:"message"`
	Events       []GameEvent            `json:"events,omitempty"`
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string          `json:"type"` // "draw", "place", "occupied", "merge", "pool_grew", "victory", "game_over", "reset"
	Message   string          `json:"message"`
	Timestamp time.Time       `json:"timestamp"`
	Position  engine.Position `json:"position,omitempty"`
}

// HistoryOptions configures history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated history
type HistoryResponse struct {
	Entries      []engine.HistoryEntry `json:"entries"`
	TotalEntries int                   `json:"total_entries"`
	Page         int                   `json:"page"`
	PageSize     int                   `json:"page_size"`
	TotalPages   int                   `json:"total_pages"`
	HasNext      bool                  `json:"has_next"`
	HasPrevious  bool                  `json:"has_previous"`
}

// ConfigInfo provides information about a game configuration
type ConfigInfo struct {
	Filename       string `json:"filename"`
	ConfigID       string `json:"config_id"` // The identifier to use for session creation
	Name           string `json:"name"`      // Display name
	Description    string `json:"description"`
	Dimension      int    `json:"dimension"`
	TargetValue    int    `json:"target_value"`
	RunLength      int    `json:"run_length"`
	DeferLossCheck bool   `json:"defer_loss_check,omitempty"`
}
