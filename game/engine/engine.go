package engine

import (
	"fmt"
	"math/rand"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Game state management
	GetState() *GameState
	Status() Status
	Reset() *GameState

	// Turn operations
	DrawPair() (int, int)
	Place(row, col, value int) (PlacementResult, error)
	ResolveRuns(row, col int) (MergeReport, error)

	// Board queries
	Cell(row, col int) (Cell, error)
	HasAnyEmptyCell() bool
	Dimension() int
	TargetValue() int
	RunLength() int
	PoolValues() []int
	PoolContains(value int) bool

	// Configuration
	GetConfig() *GameConfig

	// History
	GetHistory() []HistoryEntry
	GetLastEntry() *HistoryEntry
}

// GameEngine implements the Engine interface. It is not safe for
// concurrent use; callers serialize access per game.
type GameEngine struct {
	config *GameConfig
	grid   *Grid
	pool   *NumberPool
	rng    *rand.Rand

	status     Status
	message    string
	placements int
	merges     int
	history    []HistoryEntry
}

// New creates an engine from bare rules with default messages
func New(dimension, targetValue, runLength int) (*GameEngine, error) {
	return NewEngine(&GameConfig{
		Name:        "custom",
		Description: fmt.Sprintf("%dx%d board, runs of %d, target %d", dimension, dimension, runLength, targetValue),
		Dimension:   dimension,
		TargetValue: targetValue,
		RunLength:   runLength,
	})
}

// NewEngine creates a new game engine with the provided configuration.
// A zero Seed draws one from crypto/rand.
func NewEngine(config *GameConfig) (*GameEngine, error) {
	if config == nil {
		return nil, fmt.Errorf("%w: config is nil", ErrInvalidConfiguration)
	}

	seed := config.Seed
	if seed == 0 {
		s, err := NewSeed()
		if err != nil {
			return nil, err
		}
		seed = s
	}

	return NewEngineWithRand(config, rand.New(rand.NewSource(seed)))
}

// NewEngineWithRand creates an engine that draws pairs from rng
func NewEngineWithRand(config *GameConfig, rng *rand.Rand) (*GameEngine, error) {
	if config == nil {
		return nil, fmt.Errorf("%w: config is nil", ErrInvalidConfiguration)
	}
	if err := ValidateRules(config.Dimension, config.TargetValue, config.RunLength); err != nil {
		return nil, err
	}
	if err := validateMessages(config.Messages); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: random source is nil", ErrInvalidConfiguration)
	}

	grid, err := NewGrid(config.Dimension)
	if err != nil {
		return nil, err
	}
	pool, err := NewNumberPool(1, 2)
	if err != nil {
		return nil, err
	}

	cfg := withDefaults(config)
	return &GameEngine{
		config:  cfg,
		grid:    grid,
		pool:    pool,
		rng:     rng,
		status:  Playing,
		message: cfg.Messages.Welcome,
		history: []HistoryEntry{},
	}, nil
}

// Status returns the current lifecycle state
func (e *GameEngine) Status() Status {
	return e.status
}

// GetState returns a snapshot of the current game state
func (e *GameEngine) GetState() *GameState {
	return &GameState{
		Grid:          e.grid.Values(),
		Dimension:     e.grid.Dimension(),
		TargetValue:   e.config.TargetValue,
		RunLength:     e.config.RunLength,
		Pool:          e.pool.Values(),
		Status:        e.status,
		Message:       e.message,
		ConfigName:    e.config.Name,
		Occupied:      e.grid.OccupiedCount(),
		HighestTile:   e.grid.HighestValue(),
		Placements:    e.placements,
		Merges:        e.merges,
		HistoryLength: len(e.history),
	}
}

// Reset clears the board and pool. History is cumulative and survives.
func (e *GameEngine) Reset() *GameState {
	e.grid.reset()
	e.pool = &NumberPool{values: []int{1, 2}}
	e.status = Playing
	e.message = e.config.Messages.Welcome
	e.placements = 0
	e.merges = 0
	e.record(HistoryEntry{Kind: "reset"})
	return e.GetState()
}

// DrawPair returns two distinct values from the pool. The pool is seeded
// with {1, 2} and never shrinks, so a pair always exists.
func (e *GameEngine) DrawPair() (int, int) {
	a, b, err := e.pool.PickDistinctPair(e.rng)
	if err != nil {
		// unreachable: the pool starts with two values and only grows
		panic(fmt.Sprintf("engine: draw from pool %v: %v", e.pool.Values(), err))
	}
	return a, b
}

// Place writes value into the empty cell at (row, col)
func (e *GameEngine) Place(row, col, value int) (PlacementResult, error) {
	if err := e.grid.check(row, col); err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidCoordinate, err)
	}
	if !e.pool.Contains(value) {
		return "", fmt.Errorf("%w: %d", ErrValueNotInPool, value)
	}

	cell := &e.grid.cells[row-1][col-1]
	if !cell.IsEmpty() {
		return Occupied, nil
	}

	cell.Value = value
	e.placements++
	e.message = e.config.Messages.Placed

	if !e.config.DeferLossCheck && e.status == Playing && !e.grid.HasAnyEmptyCell() {
		e.status = Lost
		e.message = e.config.Messages.Lost
	}

	e.record(HistoryEntry{Kind: "place", Row: row, Col: col, Value: value, Result: string(Placed)})
	return Placed, nil
}

// Cell returns the cell at (row, col)
func (e *GameEngine) Cell(row, col int) (Cell, error) {
	return e.grid.Get(row, col)
}

// HasAnyEmptyCell reports whether a placement is still possible
func (e *GameEngine) HasAnyEmptyCell() bool {
	return e.grid.HasAnyEmptyCell()
}

// Dimension returns the board side length
func (e *GameEngine) Dimension() int {
	return e.grid.Dimension()
}

// TargetValue returns the value that wins the game
func (e *GameEngine) TargetValue() int {
	return e.config.TargetValue
}

// RunLength returns how many equal cells trigger a merge
func (e *GameEngine) RunLength() int {
	return e.config.RunLength
}

// PoolValues returns the eligible values in ascending order
func (e *GameEngine) PoolValues() []int {
	return e.pool.Values()
}

// PoolContains reports whether value may be placed
func (e *GameEngine) PoolContains(value int) bool {
	return e.pool.Contains(value)
}

// GetConfig returns the current game configuration
func (e *GameEngine) GetConfig() *GameConfig {
	return e.config
}

// GetHistory returns the complete action history
func (e *GameEngine) GetHistory() []HistoryEntry {
	return e.history
}

// GetLastEntry returns the last recorded action, or nil if none
func (e *GameEngine) GetLastEntry() *HistoryEntry {
	if len(e.history) == 0 {
		return nil
	}
	return &e.history[len(e.history)-1]
}
