package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/wricardo/mcp-training/mergegame/game/engine"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrConfigNotFound  = errors.New("configuration not found")
	ErrInvalidConfig   = errors.New("invalid configuration")
	ErrInvalidName     = errors.New("invalid configuration name")
	ErrInvalidSession  = errors.New("invalid session ID")
	ErrGameOver        = errors.New("game is over")
	ErrNoPendingPair   = errors.New("no pair drawn for this turn")
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, configName string) (*SessionInfo, error)
	JoinSession(ctx context.Context, sessionID, configName string) (*SessionInfo, bool, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	DrawPair(ctx context.Context, sessionID string) (*TurnInfo, error)
	Place(ctx context.Context, sessionID string, row, col int) (*PlaceResult, error)
	Reset(ctx context.Context, sessionID string) (*engine.GameState, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error)
	SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, config *engine.GameConfig) (*Session, error)
	Get(id string) (*Session, error)
	// GetOrCreate reports whether the session was created by this call
	GetOrCreate(id string, config *engine.GameConfig) (*Session, bool, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// ConfigManager handles game configuration loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.GameConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.GameConfig
	SaveConfig(name string, config *engine.GameConfig) error
}

// Session represents an active game session. The service serializes all
// engine access for a session through its mutex.
type Session struct {
	ID             string
	Engine         *engine.GameEngine
	Config         *engine.GameConfig
	CreatedAt      time.Time
	LastAccessedAt time.Time

	// Turn is the drawn pair still being placed, nil between turns
	Turn *Turn

	mu sync.Mutex
}

// Turn tracks the placement of a drawn pair
type Turn struct {
	Pair   [2]int
	Next   int
	Placed []engine.Position

	// FirstResolved is set when the first placement filled the board and
	// was resolved before the second value could be placed.
	FirstResolved bool
}

// Info returns the public view of the turn
func (t *Turn) Info() *TurnInfo {
	if t == nil {
		return nil
	}
	placed := make([]engine.Position, len(t.Placed))
	copy(placed, t.Placed)

	info := &TurnInfo{
		Pair:      t.Pair,
		NextIndex: t.Next,
		Placed:    placed,
	}
	if t.Next < len(t.Pair) {
		info.NextValue = t.Pair[t.Next]
	}
	return info
}
