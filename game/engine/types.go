package engine

import "time"

// Status represents the lifecycle state of a game
type Status string

const (
	Playing Status = "playing"
	Won     Status = "won"
	Lost    Status = "lost"

	// Validation constants
	MinDimension   = 2
	MinTargetValue = 2
	MinRunLength   = 2
	MaxDimension   = 50
)

// IsTerminal reports whether no further gameplay is meaningful
func (s Status) IsTerminal() bool {
	return s == Won || s == Lost
}

// PlacementResult is the outcome of a successful placement call
type PlacementResult string

const (
	Placed   PlacementResult = "placed"
	Occupied PlacementResult = "occupied"
)

// Cell represents a single grid cell. A zero Value means the cell is empty.
type Cell struct {
	Value int `json:"value"`
}

// IsEmpty reports whether the cell holds no number
func (c Cell) IsEmpty() bool {
	return c.Value == 0
}

// Position represents 1-based row/column coordinates
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Messages holds the player-facing texts of a configuration
type Messages struct {
	Welcome  string `json:"welcome"`
	Placed   string `json:"placed"`
	Occupied string `json:"occupied"`
	Merged   string `json:"merged"`
	Victory  string `json:"victory"`
	Lost     string `json:"lost"`
}

// GameConfig represents the game configuration from JSON
type GameConfig struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Dimension   int    `json:"dimension"`
	TargetValue int    `json:"target_value"`
	RunLength   int    `json:"run_length"`

	// DeferLossCheck moves loss detection from placement to run resolution,
	// so a placement that fills the board can still be saved by its merge.
	DeferLossCheck bool `json:"defer_loss_check,omitempty"`

	// Seed makes pair draws reproducible. Zero picks a random seed.
	Seed int64 `json:"seed,omitempty"`

	Messages Messages `json:"messages"`
}

// Run is a qualifying sequence of equal cells along one axis
type Run struct {
	Axis    string     `json:"axis"` // "horizontal" or "vertical"
	Length  int        `json:"length"`
	Cleared []Position `json:"cleared"`
}

// MergeReport describes what ResolveRuns did at one origin
type MergeReport struct {
	Origin     Position `json:"origin"`
	Merged     bool     `json:"merged"`
	Horizontal *Run     `json:"horizontal,omitempty"`
	Vertical   *Run     `json:"vertical,omitempty"`
	Value      int      `json:"value"`
	PoolGrew   bool     `json:"pool_grew,omitempty"`
	Status     Status   `json:"status"`
}

// ClearedCount returns how many cells the merge emptied
func (r MergeReport) ClearedCount() int {
	n := 0
	if r.Horizontal != nil {
		n += len(r.Horizontal.Cleared)
	}
	if r.Vertical != nil {
		n += len(r.Vertical.Cleared)
	}
	return n
}

// GameState is a JSON snapshot of an engine
type GameState struct {
	Grid        [][]int        `json:"grid"`
	Dimension   int            `json:"dimension"`
	TargetValue int            `json:"target_value"`
	RunLength   int            `json:"run_length"`
	Pool        []int          `json:"pool"`
	Status      Status         `json:"status"`
	Message     string         `json:"message"`
	ConfigName  string         `json:"config_name"`
	Occupied    int            `json:"occupied"`
	HighestTile int            `json:"highest_tile"`
	Placements  int            `json:"placements"`
	Merges      int            `json:"merges"`

	// HistoryLength counts recorded entries; the entries themselves are
	// read through GetHistory.
	HistoryLength int `json:"history_length"`
}

// HistoryEntry represents a single recorded engine action
type HistoryEntry struct {
	ID        string    `json:"id"`
	Number    int       `json:"number"`
	Kind      string    `json:"kind"` // "place", "merge", "loss", "reset"
	Row       int       `json:"row,omitempty"`
	Col       int       `json:"col,omitempty"`
	Value     int       `json:"value,omitempty"`
	Result    string    `json:"result,omitempty"`
	Cleared   int       `json:"cleared,omitempty"`
	Status    Status    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}
