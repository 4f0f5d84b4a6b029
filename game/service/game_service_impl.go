package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wricardo/mcp-training/game2048/game/engine"
	"github.com/wricardo/mcp-training/game2048/telemetry"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	tracer   trace.Tracer
	log      logrus.FieldLogger
	// mu guards engines and session timestamps. getSession refreshes the
	// access time, so every caller of it holds the write lock.
	mu sync.RWMutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
		tracer:   telemetry.Tracer("service"),
		log:      logrus.WithField("component", "service"),
	}
}

// startSpan opens a span tagged with the session id
func (s *gameServiceImpl) startSpan(ctx context.Context, name, sessionID string) (context.Context, trace.Span) {
	ctx, span := s.tracer.Start(ctx, "service."+name)
	if sessionID != "" {
		span.SetAttributes(attribute.String("session.id", sessionID))
	}
	return ctx, span
}

// fail records err on span and returns it
func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	_, span := s.startSpan(ctx, "CreateSession", "")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.GameConfig
	configID := configName
	if configName != "" {
		var err error
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			if errors.Is(err, ErrConfigNotFound) {
				return nil, fail(span, s.configNotFound(configName))
			}
			return nil, fail(span, fmt.Errorf("failed to load config %s: %w", configName, err))
		}
	} else {
		config = s.configs.GetDefault()
		configID = s.getConfigID(config.Name)
	}

	// Let session manager generate a proper 4-character ID
	session, err := s.sessions.Create("", configID, config)
	if err != nil {
		return nil, fail(span, fmt.Errorf("failed to create session: %w", err))
	}

	span.SetAttributes(
		attribute.String("session.id", session.ID),
		attribute.String("config.id", configID),
		attribute.Int("grid.size", config.GridSize),
	)

	return sessionInfo(session), nil
}

// configNotFound lists the available config ids in the error message
func (s *gameServiceImpl) configNotFound(configName string) error {
	availableConfigs, err := s.configs.ListConfigs()
	if err != nil || len(availableConfigs) == 0 {
		return fmt.Errorf("%w: '%s'. Use /api/configs to list available configurations", ErrConfigNotFound, configName)
	}
	ids := make([]string, 0, len(availableConfigs))
	for _, cfg := range availableConfigs {
		ids = append(ids, cfg.ConfigID)
	}
	return fmt.Errorf("%w: '%s'. Available configs: %v", ErrConfigNotFound, configName, ids)
}

// getConfigID returns the config id for a display name, for sessions created from the default
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

func sessionInfo(sess *Session) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     sess.ConfigID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      sess.Engine.GetState(),
		GameConfig:     sess.Config,
	}
}

// getSession looks up a session and refreshes its access time. Callers hold s.mu.Lock.
func (s *gameServiceImpl) getSession(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
		}
		return nil, err
	}
	s.sessions.UpdateLastAccessed(sessionID)
	return sess, nil
}

// save persists a session after a mutation; failures are logged, not returned
func (s *gameServiceImpl) save(sessionID, op string) {
	if err := s.sessions.Save(sessionID); err != nil {
		s.log.WithFields(logrus.Fields{"session": sessionID, "op": op}).WithError(err).Warn("failed to persist session")
	}
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	_, span := s.startSpan(ctx, "GetSession", sessionID)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, fail(span, err)
	}

	return sessionInfo(sess), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	_, span := s.startSpan(ctx, "ListSessions", "")
	defer span.End()

	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, sessionInfo(sess))
	}

	span.SetAttributes(attribute.Int("session.count", len(result)))
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	_, span := s.startSpan(ctx, "DeleteSession", sessionID)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return fail(span, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID))
		}
		return fail(span, err)
	}
	return nil
}

// Move executes a single move for a session
func (s *gameServiceImpl) Move(ctx context.Context, sessionID, direction string, reset bool) (*MoveResult, error) {
	_, span := s.startSpan(ctx, "Move", sessionID)
	defer span.End()
	span.SetAttributes(attribute.String("direction", direction))

	dir, err := engine.ParseDirection(direction)
	if err != nil {
		return nil, fail(span, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, fail(span, err)
	}

	events := []GameEvent{}

	if reset {
		if _, err := sess.Engine.Reset(); err != nil {
			return nil, fail(span, fmt.Errorf("failed to reset game: %w", err))
		}
		events = append(events, resetEvent())
	}

	turn, err := sess.Engine.Move(dir)
	if err != nil {
		return nil, fail(span, err)
	}
	state := sess.Engine.GetState()

	result := &MoveResult{
		Success:      turn.Success,
		Direction:    dir.String(),
		GameState:    state,
		Message:      state.Message,
		Events:       append(events, turnEvents(turn, state)...),
		Relocations:  turn.Relocations,
		Merges:       turn.Merges,
		Spawned:      turn.Spawned,
		SpawnedValue: turn.SpawnedValue,
		ScoreDelta:   turn.ScoreAfter - turn.ScoreBefore,
	}

	span.SetAttributes(
		attribute.Bool("move.success", turn.Success),
		attribute.Int("move.relocations", len(turn.Relocations)),
		attribute.Int("move.merges", turn.Merges),
		attribute.Int("score", state.Score),
	)

	s.save(sessionID, "move")

	return result, nil
}

// BulkMove executes multiple moves in sequence
func (s *gameServiceImpl) BulkMove(ctx context.Context, sessionID string, moves []string, reset bool) (*BulkMoveResult, error) {
	_, span := s.startSpan(ctx, "BulkMove", sessionID)
	defer span.End()
	span.SetAttributes(attribute.Int("moves.requested", len(moves)))

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, fail(span, err)
	}

	result := &BulkMoveResult{
		RequestedMoves: len(moves),
		Events:         make([]GameEvent, 0),
		Success:        true,
	}

	if reset {
		if _, err := sess.Engine.Reset(); err != nil {
			return nil, fail(span, fmt.Errorf("failed to reset game: %w", err))
		}
		result.Events = append(result.Events, resetEvent())
	}

	result.StartScore = sess.Engine.GetScore()

	// Limit moves to prevent abuse
	if len(moves) > engine.MaxBulkMoves {
		result.Truncated = true
		result.Limit = engine.MaxBulkMoves
		moves = moves[:engine.MaxBulkMoves]
	}

	for i, move := range moves {
		if sess.Engine.IsGameOver() {
			result.StoppedReason = "game over"
			result.StopReasonCode = StopGameOver
			result.StoppedOnMove = i + 1
			break
		}

		dir, err := engine.ParseDirection(move)
		if err != nil {
			result.Success = false
			result.StoppedReason = fmt.Sprintf("move %d: invalid direction %q", i+1, move)
			result.StopReasonCode = StopInvalidDirection
			result.StoppedOnMove = i + 1
			break
		}

		turn, err := sess.Engine.Move(dir)
		if err != nil {
			return nil, fail(span, err)
		}

		if !turn.Success {
			result.Success = false
			result.StoppedReason = fmt.Sprintf("move %d blocked: %s", i+1, dir)
			result.StopReasonCode = StopIllegalMove
			result.StoppedOnMove = i + 1
			break
		}

		result.MovesExecuted++
		state := sess.Engine.GetState()
		result.Events = append(result.Events, turnEvents(turn, state)...)
		result.Steps = append(result.Steps, StepInfo{
			Idx:          i + 1,
			Dir:          dir.String(),
			Success:      true,
			Relocations:  turn.Relocations,
			Merges:       turn.Merges,
			Spawned:      turn.Spawned,
			SpawnedValue: turn.SpawnedValue,
			ScoreBefore:  turn.ScoreBefore,
			ScoreAfter:   turn.ScoreAfter,
			Victory:      state.Victory,
		})
	}

	endState := sess.Engine.GetState()
	result.GameState = endState
	result.EndScore = endState.Score
	result.ScoreDelta = endState.Score - result.StartScore
	result.GameOver = endState.GameOver
	result.Victory = endState.Victory
	result.Message = endState.Message
	result.LegalMoves = engine.DirectionNames(endState.LegalMoves)

	span.SetAttributes(
		attribute.Int("moves.executed", result.MovesExecuted),
		attribute.String("moves.stop_reason", result.StopReasonCode),
		attribute.Int("score", endState.Score),
	)

	s.save(sessionID, "bulk_move")

	return result, nil
}

// Reset resets a game session to a fresh grid
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	_, span := s.startSpan(ctx, "Reset", sessionID)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, fail(span, err)
	}

	state, err := sess.Engine.Reset()
	if err != nil {
		return nil, fail(span, fmt.Errorf("failed to reset game: %w", err))
	}

	s.save(sessionID, "reset")

	return state, nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	_, span := s.startSpan(ctx, "GetGameState", sessionID)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, fail(span, err)
	}

	return sess.Engine.GetState(), nil
}

// GetLegalMoves returns the directions that would change the grid
func (s *gameServiceImpl) GetLegalMoves(ctx context.Context, sessionID string) ([]engine.Direction, error) {
	_, span := s.startSpan(ctx, "GetLegalMoves", sessionID)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, fail(span, err)
	}

	moves := sess.Engine.GetPossibleMoves()
	span.SetAttributes(attribute.Int("legal.count", len(moves)))
	return moves, nil
}

// GetMoveHistory returns paginated move history
func (s *gameServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	_, span := s.startSpan(ctx, "GetMoveHistory", sessionID)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, fail(span, err)
	}

	history := sess.Engine.GetMoveHistory()
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
	if opts.Order != "asc" {
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

	moves := []engine.MoveHistoryEntry{}
	if opts.Order == "desc" {
		// Most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			moves = append(moves, history[i])
		}
	} else if start < total {
		moves = append(moves, history[start:end]...)
	}

	return &HistoryResponse{
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// ListConfigs returns available game configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	_, span := s.startSpan(ctx, "ListConfigs", "")
	defer span.End()

	configs, err := s.configs.ListConfigs()
	if err != nil {
		return nil, fail(span, err)
	}
	return configs, nil
}

// LoadConfig loads a specific game configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	_, span := s.startSpan(ctx, "LoadConfig", "")
	defer span.End()
	span.SetAttributes(attribute.String("config.id", configName))

	config, err := s.configs.LoadConfig(configName)
	if err != nil {
		return nil, fail(span, err)
	}
	return config, nil
}

// SaveConfig saves a game configuration to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	_, span := s.startSpan(ctx, "SaveConfig", "")
	defer span.End()
	span.SetAttributes(attribute.String("config.id", configName))

	if err := s.configs.SaveConfig(configName, config); err != nil {
		return fail(span, err)
	}
	return nil
}

func resetEvent() GameEvent {
	return GameEvent{
		Type:      EventReset,
		Message:   "Game reset to a fresh grid",
		Timestamp: time.Now(),
	}
}

// turnEvents describes one turn: the move itself, each merge, the spawn and any ending
func turnEvents(turn *engine.TurnResult, state *engine.GameState) []GameEvent {
	now := time.Now()

	if !turn.Success {
		return []GameEvent{{
			Type:      EventMove,
			Message:   fmt.Sprintf("Nothing moved %s", turn.Direction),
			Timestamp: now,
		}}
	}

	events := []GameEvent{{
		Type:      EventMove,
		Message:   fmt.Sprintf("Moved %s: %d tiles relocated", turn.Direction, len(turn.Relocations)),
		Timestamp: now,
	}}

	for _, r := range turn.Relocations {
		if !r.Merged {
			continue
		}
		to := r.To
		value := state.Grid[to.Row][to.Col]
		events = append(events, GameEvent{
			Type:      EventMerge,
			Message:   fmt.Sprintf("Merged into %d at (%d,%d)", value, to.Row, to.Col),
			Timestamp: now,
			Position:  &to,
			Value:     value,
		})
	}

	if turn.Spawned != nil {
		events = append(events, GameEvent{
			Type:      EventSpawn,
			Message:   fmt.Sprintf("Spawned %d at (%d,%d)", turn.SpawnedValue, turn.Spawned.Row, turn.Spawned.Col),
			Timestamp: now,
			Position:  turn.Spawned,
			Value:     turn.SpawnedValue,
		})
	}

	// Victory is reported on the turn that first reaches the target
	if state.Victory && turn.ScoreBefore < state.WinTarget {
		events = append(events, GameEvent{
			Type:      EventVictory,
			Message:   state.Message,
			Timestamp: now,
			Value:     state.Score,
		})
	}
	if state.GameOver {
		events = append(events, GameEvent{
			Type:      EventGameOver,
			Message:   state.Message,
			Timestamp: now,
		})
	}

	return events
}
