package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/wricardo/mcp-training/mergegame/game/engine"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	logger   *zap.Logger
}

// NewGameService creates a new game service instance. A nil logger
// disables logging.
func NewGameService(sessions SessionManager, configs ConfigManager, logger *zap.Logger) GameService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
		logger:   logger.Named("service"),
	}
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

// resolveConfig loads configName, or the default config when it is empty,
// and returns it with the config_id reported to clients
func (s *gameServiceImpl) resolveConfig(configName string) (*engine.GameConfig, string, error) {
	if configName == "" {
		config := s.configs.GetDefault()
		return config, s.getConfigID(config.Name), nil
	}

	config, err := s.configs.LoadConfig(configName)
	if err == nil {
		return config, configName, nil
	}
	if errors.Is(err, ErrConfigNotFound) {
		availableConfigs, listErr := s.configs.ListConfigs()
		if listErr == nil && len(availableConfigs) > 0 {
			var configIDs []string
			for _, cfg := range availableConfigs {
				configIDs = append(configIDs, cfg.ConfigID)
			}
			return nil, "", fmt.Errorf("%w: '%s'. Available configs: %v", ErrConfigNotFound, configName, configIDs)
		}
		return nil, "", fmt.Errorf("%w: '%s'. Use /api/configs to list available configurations", ErrConfigNotFound, configName)
	}
	return nil, "", fmt.Errorf("failed to load config %s: %w", configName, err)
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	config, configID, err := s.resolveConfig(configName)
	if err != nil {
		return nil, err
	}

	// Let session manager generate a proper 4-character ID
	sess, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.Info("session created",
		zap.String("session", sess.ID),
		zap.String("config", configID),
		zap.Int("dimension", config.Dimension),
		zap.Int("target", config.TargetValue),
		zap.Int("run_length", config.RunLength))

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return s.sessionInfo(sess, configID), nil
}

// JoinSession returns the session with the caller's chosen ID, creating it
// with configName when it does not exist yet. The config is ignored for an
// existing session. The bool reports whether the session was created.
func (s *gameServiceImpl) JoinSession(ctx context.Context, sessionID, configName string) (*SessionInfo, bool, error) {
	if sessionID == "" {
		return nil, false, fmt.Errorf("%w: empty", ErrInvalidSession)
	}

	config, _, err := s.resolveConfig(configName)
	if err != nil {
		return nil, false, err
	}

	sess, created, err := s.sessions.GetOrCreate(sessionID, config)
	if err != nil {
		return nil, false, fmt.Errorf("failed to join session: %w", err)
	}

	if created {
		s.logger.Info("session created",
			zap.String("session", sess.ID),
			zap.String("config", config.Name),
			zap.Bool("chosen_id", true))
	} else if err := s.sessions.UpdateLastAccessed(sess.ID); err != nil {
		s.logger.Warn("failed to update last access", zap.String("session", sess.ID), zap.Error(err))
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return s.sessionInfo(sess, s.getConfigID(sess.Config.Name)), created, nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return s.sessionInfo(sess, s.getConfigID(sess.Config.Name)), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))

	for _, sess := range sessions {
		sess.mu.Lock()
		result = append(result, s.sessionInfo(sess, s.getConfigID(sess.Config.Name)))
		sess.mu.Unlock()
	}

	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(sessionID); err != nil {
		return fmt.Errorf("%w: %w", ErrSessionNotFound, err)
	}
	s.logger.Info("session deleted", zap.String("session", sessionID))
	return nil
}

// DrawPair deals the next pair. While a pair is still being placed the same
// pair is returned.
func (s *gameServiceImpl) DrawPair(ctx context.Context, sessionID string) (*TurnInfo, error) {
	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if status := sess.Engine.Status(); status.IsTerminal() {
		return nil, fmt.Errorf("%w: %s", ErrGameOver, status)
	}
	if sess.Turn != nil {
		return sess.Turn.Info(), nil
	}

	a, b := sess.Engine.DrawPair()
	sess.Turn = &Turn{Pair: [2]int{a, b}}

	s.logger.Debug("pair drawn",
		zap.String("session", sess.ID),
		zap.Int("first", a),
		zap.Int("second", b))

	return sess.Turn.Info(), nil
}

// Place puts the next value of the drawn pair at (row, col). Once both
// values are down, runs are resolved through each placement in order.
func (s *gameServiceImpl) Place(ctx context.Context, sessionID string, row, col int) (*PlaceResult, error) {
	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	eng := sess.Engine
	if status := eng.Status(); status.IsTerminal() {
		return nil, fmt.Errorf("%w: %s", ErrGameOver, status)
	}
	if sess.Turn == nil {
		return nil, ErrNoPendingPair
	}

	turn := sess.Turn
	value := turn.Pair[turn.Next]
	pos := engine.Position{Row: row, Col: col}

	placement, err := eng.Place(row, col, value)
	if err != nil {
		return nil, fmt.Errorf("failed to place %d at (%d,%d): %w", value, row, col, err)
	}

	result := &PlaceResult{
		Result:   placement,
		Value:    value,
		Position: pos,
	}

	if placement == engine.Occupied {
		result.Message = eng.GetConfig().Messages.Occupied
		result.Turn = turn.Info()
		result.GameState = eng.GetState()
		result.Events = []GameEvent{s.event("occupied", fmt.Sprintf("Cell (%d,%d) is occupied", row, col), pos)}
		s.logPlacement(sess, pos, value, placement)
		return result, nil
	}

	result.Success = true
	turn.Placed = append(turn.Placed, pos)
	turn.Next++
	events := []GameEvent{s.event("place", fmt.Sprintf("Placed %d at (%d,%d)", value, row, col), pos)}

	switch {
	case eng.Status().IsTerminal():
		// Loss is declared on the placement that fills the board
	case turn.Next == 1 && !eng.HasAnyEmptyCell():
		report, err := eng.ResolveRuns(row, col)
		if err != nil {
			return nil, err
		}
		turn.FirstResolved = true
		result.Merges = appendMerge(result.Merges, report)
		events = append(events, s.mergeEvents(report, eng)...)
	case turn.Next == len(turn.Pair):
		for i, p := range turn.Placed {
			if i == 0 && turn.FirstResolved {
				continue
			}
			report, err := eng.ResolveRuns(p.Row, p.Col)
			if err != nil {
				return nil, err
			}
			result.Merges = appendMerge(result.Merges, report)
			events = append(events, s.mergeEvents(report, eng)...)
		}
	}

	status := eng.Status()
	if status == engine.Lost {
		events = append(events, s.event("game_over", eng.GetConfig().Messages.Lost, pos))
	}
	if status.IsTerminal() || turn.Next == len(turn.Pair) {
		sess.Turn = nil
		result.TurnComplete = true
	} else {
		result.Turn = turn.Info()
	}

	state := eng.GetState()
	result.GameState = state
	result.Message = state.Message
	result.Events = events

	s.logPlacement(sess, pos, value, placement)
	return result, nil
}

// Reset restarts the game of a session
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.Turn = nil
	state := sess.Engine.Reset()
	s.logger.Info("game reset", zap.String("session", sess.ID))
	return state, nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.Engine.GetState(), nil
}

// GetHistory returns paginated history
func (s *gameServiceImpl) GetHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	history := append([]engine.HistoryEntry(nil), sess.Engine.GetHistory()...)
	sess.mu.Unlock()

	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	entries := []engine.HistoryEntry{}
	if opts.Order == "desc" {
		// Most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			entries = append(entries, history[i])
		}
	} else if start < total {
		entries = append(entries, history[start:end]...)
	}

	return &HistoryResponse{
		Entries:      entries,
		TotalEntries: total,
		Page:         opts.Page,
		PageSize:     opts.Limit,
		TotalPages:   totalPages,
		HasNext:      opts.Page < totalPages,
		HasPrevious:  opts.Page > 1,
	}, nil
}

// ListConfigs returns available game configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific game configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a game configuration to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	if err := s.configs.SaveConfig(configName, config); err != nil {
		return err
	}
	s.logger.Info("config saved", zap.String("config", configName))
	return nil
}

// getSession looks a session up and marks it as accessed
func (s *gameServiceImpl) getSession(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSessionNotFound, err)
	}
	if err := s.sessions.UpdateLastAccessed(sessionID); err != nil {
		s.logger.Warn("failed to update last access", zap.String("session", sessionID), zap.Error(err))
	}
	return sess, nil
}

// sessionInfo builds the public view of a session. The caller holds sess.mu.
func (s *gameServiceImpl) sessionInfo(sess *Session, configID string) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     configID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      sess.Engine.GetState(),
		GameConfig:     sess.Engine.GetConfig(),
		Turn:           sess.Turn.Info(),
	}
}

func (s *gameServiceImpl) logPlacement(sess *Session, pos engine.Position, value int, result engine.PlacementResult) {
	s.logger.Info("placement",
		zap.String("session", sess.ID),
		zap.Int("row", pos.Row),
		zap.Int("col", pos.Col),
		zap.Int("value", value),
		zap.String("result", string(result)),
		zap.String("status", string(sess.Engine.Status())))
}

func (s *gameServiceImpl) event(kind, message string, pos engine.Position) GameEvent {
	return GameEvent{
		Type:      kind,
		Message:   message,
		Timestamp: time.Now(),
		Position:  pos,
	}
}

// mergeEvents generates events from a resolution report
func (s *gameServiceImpl) mergeEvents(report engine.MergeReport, eng *engine.GameEngine) []GameEvent {
	if !report.Merged {
		return nil
	}

	events := []GameEvent{
		s.event("merge", fmt.Sprintf("Merged %d cells into %d at (%d,%d)",
			report.ClearedCount()+1, report.Value, report.Origin.Row, report.Origin.Col), report.Origin),
	}
	if report.PoolGrew {
		events = append(events, s.event("pool_grew", fmt.Sprintf("%d joined the pool", report.Value), report.Origin))
	}
	if report.Status == engine.Won {
		events = append(events, s.event("victory", fmt.Sprintf(eng.GetConfig().Messages.Victory, report.Value), report.Origin))
	}
	return events
}

func appendMerge(merges []engine.MergeReport, report engine.MergeReport) []engine.MergeReport {
	if !report.Merged {
		return merges
	}
	return append(merges, report)
}
