package engine

import (
	"encoding/json"
	"errors"
	"math/rand"
	"testing"
)

func createTestConfig() *GameConfig {
	return &GameConfig{
		Name:        "Engine Test Config",
		Description: "Configuration for engine integration tests",
		Dimension:   3,
		TargetValue: 4,
		RunLength:   2,
		Messages: Messages{
			Welcome:  "Welcome to engine test!",
			Placed:   "Placed!",
			Occupied: "Occupied!",
			Merged:   "Merged into %d",
			Victory:  "Victory at %d!",
			Lost:     "Board full!",
		},
	}
}

func newTestEngine(t *testing.T, config *GameConfig) *GameEngine {
	t.Helper()
	e, err := NewEngineWithRand(config, rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	return e
}

// setCells writes raw values onto the board, bypassing placement rules
func setCells(t *testing.T, e *GameEngine, cells map[Position]int) {
	t.Helper()
	for p, v := range cells {
		if err := e.grid.Set(p.Row, p.Col, v); err != nil {
			t.Fatalf("Failed to set (%d,%d): %v", p.Row, p.Col, err)
		}
	}
}

func mustCell(t *testing.T, e *GameEngine, row, col int) int {
	t.Helper()
	cell, err := e.Cell(row, col)
	if err != nil {
		t.Fatalf("Failed to read (%d,%d): %v", row, col, err)
	}
	return cell.Value
}

func mustPlace(t *testing.T, e *GameEngine, row, col, value int) {
	t.Helper()
	result, err := e.Place(row, col, value)
	if err != nil {
		t.Fatalf("Place(%d,%d,%d) failed: %v", row, col, value, err)
	}
	if result != Placed {
		t.Fatalf("Place(%d,%d,%d): expected %s, got %s", row, col, value, Placed, result)
	}
}

func TestNewEngine(t *testing.T) {
	config := createTestConfig()
	engine, err := NewEngine(config)
	if err != nil {
		t.Fatalf("Failed to create new engine: %v", err)
	}

	if engine.Status() != Playing {
		t.Errorf("Expected status %s, got %s", Playing, engine.Status())
	}
	if engine.Dimension() != 3 {
		t.Errorf("Expected dimension 3, got %d", engine.Dimension())
	}
	if engine.TargetValue() != 4 || engine.RunLength() != 2 {
		t.Errorf("Unexpected rules: target=%d run=%d", engine.TargetValue(), engine.RunLength())
	}

	pool := engine.PoolValues()
	if len(pool) != 2 || pool[0] != 1 || pool[1] != 2 {
		t.Errorf("Expected pool [1 2], got %v", pool)
	}

	state := engine.GetState()
	if state.Occupied != 0 {
		t.Errorf("Expected empty board, got %d occupied cells", state.Occupied)
	}
	if state.Message != config.Messages.Welcome {
		t.Errorf("Expected welcome message, got %q", state.Message)
	}
	if !engine.HasAnyEmptyCell() {
		t.Error("Expected a fresh board to have empty cells")
	}
}

func TestNewEngine_InvalidConfig(t *testing.T) {
	tests := []struct {
		name                          string
		dimension, target, runLength int
	}{
		{"dimension below two", 1, 4, 2},
		{"target below two", 3, 1, 2},
		{"run length below two", 3, 4, 1},
		{"run length above dimension", 3, 4, 4},
		{"zero values", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.dimension, tt.target, tt.runLength)
			if !errors.Is(err, ErrInvalidConfiguration) {
				t.Errorf("Expected ErrInvalidConfiguration, got %v", err)
			}
		})
	}

	t.Run("nil config", func(t *testing.T) {
		if _, err := NewEngine(nil); !errors.Is(err, ErrInvalidConfiguration) {
			t.Errorf("Expected ErrInvalidConfiguration, got %v", err)
		}
	})

	t.Run("nil random source", func(t *testing.T) {
		if _, err := NewEngineWithRand(createTestConfig(), nil); !errors.Is(err, ErrInvalidConfiguration) {
			t.Errorf("Expected ErrInvalidConfiguration, got %v", err)
		}
	})
}

func TestNew_AllValidCombinations(t *testing.T) {
	for dimension := 2; dimension <= 6; dimension++ {
		for target := 2; target <= 6; target++ {
			for runLength := 2; runLength <= dimension; runLength++ {
				e, err := New(dimension, target, runLength)
				if err != nil {
					t.Errorf("New(%d,%d,%d) failed: %v", dimension, target, runLength, err)
					continue
				}
				if e.Status() != Playing {
					t.Errorf("New(%d,%d,%d): expected playing, got %s", dimension, target, runLength, e.Status())
				}
			}
		}
	}
}

func TestNewEngine_FillsDefaultMessages(t *testing.T) {
	config := createTestConfig()
	config.Messages = Messages{}

	engine := newTestEngine(t, config)
	if engine.GetConfig().Messages != DefaultMessages() {
		t.Errorf("Expected default messages, got %+v", engine.GetConfig().Messages)
	}
	if config.Messages != (Messages{}) {
		t.Error("Expected caller's config to be left untouched")
	}
}

func TestEngine_DrawPair(t *testing.T) {
	engine := newTestEngine(t, createTestConfig())
	if err := engine.pool.Insert(3, 4, 9); err != nil {
		t.Fatalf("Failed to grow pool: %v", err)
	}

	for i := 0; i < 200; i++ {
		a, b := engine.DrawPair()
		if a == b {
			t.Fatalf("Draw %d returned equal values %d", i, a)
		}
		if !engine.PoolContains(a) || !engine.PoolContains(b) {
			t.Fatalf("Draw %d returned values outside the pool: %d, %d", i, a, b)
		}
	}

	if engine.GetState().Occupied != 0 || len(engine.GetHistory()) != 0 {
		t.Error("Expected DrawPair to leave the game untouched")
	}
}

func TestEngine_DrawPair_Deterministic(t *testing.T) {
	config := createTestConfig()
	config.Seed = 7

	first, err := NewEngine(config)
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	second, err := NewEngine(config)
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}

	for i := 0; i < 20; i++ {
		a1, b1 := first.DrawPair()
		a2, b2 := second.DrawPair()
		if a1 != a2 || b1 != b2 {
			t.Fatalf("Draw %d differs for equal seeds: (%d,%d) vs (%d,%d)", i, a1, b1, a2, b2)
		}
	}
}

func TestEngine_Place(t *testing.T) {
	engine := newTestEngine(t, createTestConfig())

	result, err := engine.Place(2, 3, 1)
	if err != nil {
		t.Fatalf("Place failed: %v", err)
	}
	if result != Placed {
		t.Errorf("Expected %s, got %s", Placed, result)
	}
	if got := mustCell(t, engine, 2, 3); got != 1 {
		t.Errorf("Expected cell (2,3) to hold 1, got %d", got)
	}
	if engine.GetState().Placements != 1 {
		t.Errorf("Expected 1 placement, got %d", engine.GetState().Placements)
	}
}

func TestEngine_Place_Occupied(t *testing.T) {
	engine := newTestEngine(t, createTestConfig())
	mustPlace(t, engine, 1, 1, 2)

	before := engine.GetState()

	for _, value := range []int{1, 2} {
		result, err := engine.Place(1, 1, value)
		if err != nil {
			t.Fatalf("Place on occupied cell returned error: %v", err)
		}
		if result != Occupied {
			t.Errorf("Expected %s, got %s", Occupied, result)
		}
	}

	after := engine.GetState()
	if mustCell(t, engine, 1, 1) != 2 {
		t.Error("Expected occupied cell to keep its value")
	}
	if after.Occupied != before.Occupied || after.Placements != before.Placements {
		t.Error("Expected occupied placement to mutate nothing")
	}
	if after.HistoryLength != before.HistoryLength {
		t.Error("Expected occupied placement to add no history")
	}
}

func TestEngine_Place_InvalidCoordinate(t *testing.T) {
	engine := newTestEngine(t, createTestConfig())

	coords := []Position{{0, 1}, {1, 0}, {4, 1}, {1, 4}, {-1, -1}}
	for _, p := range coords {
		_, err := engine.Place(p.Row, p.Col, 1)
		if !errors.Is(err, ErrInvalidCoordinate) {
			t.Errorf("Place(%d,%d): expected ErrInvalidCoordinate, got %v", p.Row, p.Col, err)
		}
		if !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("Place(%d,%d): expected wrapped ErrOutOfBounds, got %v", p.Row, p.Col, err)
		}
	}
}

func TestEngine_Place_ValueNotInPool(t *testing.T) {
	engine := newTestEngine(t, createTestConfig())

	for _, value := range []int{0, 3, -2} {
		_, err := engine.Place(1, 1, value)
		if !errors.Is(err, ErrValueNotInPool) {
			t.Errorf("Place value %d: expected ErrValueNotInPool, got %v", value, err)
		}
	}
	if engine.GetState().Occupied != 0 {
		t.Error("Expected rejected placements to leave the board empty")
	}
}

func TestEngine_Reset(t *testing.T) {
	engine := newTestEngine(t, createTestConfig())
	mustPlace(t, engine, 1, 1, 1)
	mustPlace(t, engine, 1, 2, 1)
	if _, err := engine.ResolveRuns(1, 2); err != nil {
		t.Fatalf("ResolveRuns failed: %v", err)
	}
	historyBefore := len(engine.GetHistory())

	state := engine.Reset()

	if state.Occupied != 0 {
		t.Errorf("Expected empty board after reset, got %d occupied", state.Occupied)
	}
	if state.Status != Playing {
		t.Errorf("Expected playing after reset, got %s", state.Status)
	}
	if len(state.Pool) != 2 {
		t.Errorf("Expected pool reset to [1 2], got %v", state.Pool)
	}
	if state.HistoryLength != historyBefore+1 {
		t.Errorf("Expected history to survive reset plus one entry, got %d", state.HistoryLength)
	}
	if last := engine.GetLastEntry(); last == nil || last.Kind != "reset" {
		t.Errorf("Expected last history entry to be a reset, got %+v", last)
	}
}

func TestEngine_History(t *testing.T) {
	engine := newTestEngine(t, createTestConfig())
	if engine.GetLastEntry() != nil {
		t.Error("Expected no history on a fresh engine")
	}

	mustPlace(t, engine, 3, 3, 2)
	mustPlace(t, engine, 3, 2, 1)

	history := engine.GetHistory()
	if len(history) != 2 {
		t.Fatalf("Expected 2 history entries, got %d", len(history))
	}
	for i, entry := range history {
		if entry.ID == "" {
			t.Errorf("Entry %d has no ID", i)
		}
		if entry.Number != i+1 {
			t.Errorf("Entry %d: expected number %d, got %d", i, i+1, entry.Number)
		}
		if entry.Kind != "place" {
			t.Errorf("Entry %d: expected kind place, got %s", i, entry.Kind)
		}
	}
	if history[0].ID == history[1].ID {
		t.Error("Expected unique history IDs")
	}
	if history[1].Row != 3 || history[1].Col != 2 || history[1].Value != 1 {
		t.Errorf("Unexpected last entry: %+v", history[1])
	}
}

func TestEngine_GetStateIsSnapshot(t *testing.T) {
	engine := newTestEngine(t, createTestConfig())
	mustPlace(t, engine, 1, 1, 1)

	state := engine.GetState()
	state.Grid[0][0] = 99
	state.Pool[0] = 99

	if mustCell(t, engine, 1, 1) != 1 {
		t.Error("Expected engine grid to be unaffected by snapshot edits")
	}
	if !engine.PoolContains(1) {
		t.Error("Expected engine pool to be unaffected by snapshot edits")
	}
}

func TestEngine_GetStateCarriesHistoryCountOnly(t *testing.T) {
	engine := newTestEngine(t, createTestConfig())
	for i := 0; i < 5; i++ {
		engine.Reset()
	}
	mustPlace(t, engine, 1, 1, 1)

	state := engine.GetState()
	if state.HistoryLength != len(engine.GetHistory()) {
		t.Errorf("Expected history length %d, got %d", len(engine.GetHistory()), state.HistoryLength)
	}

	data, err := json.Marshal(state)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if _, ok := fields["history"]; ok {
		t.Error("Expected state JSON to leave history entries out")
	}
	if string(fields["history_length"]) != "6" {
		t.Errorf("Expected history_length 6, got %s", fields["history_length"])
	}
}

func TestEngine_DrawPair_PanicsOnBrokenPool(t *testing.T) {
	engine := newTestEngine(t, createTestConfig())
	engine.pool = &NumberPool{values: []int{1}}

	defer func() {
		if recover() == nil {
			t.Error("Expected DrawPair to panic on a single-value pool")
		}
	}()
	engine.DrawPair()
}
