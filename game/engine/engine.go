package engine

import (
	"fmt"
	"time"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Game state management
	GetState() *GameState
	SetState(state *GameState) error
	Reset() (*GameState, error)
	IsGameOver() bool
	IsVictory() bool
	GetScore() int

	// Movement operations
	Move(direction Direction) (*TurnResult, error)
	CanMove(direction Direction) bool
	GetPossibleMoves() []Direction

	// Configuration
	GetConfig() *GameConfig

	// History
	GetMoveHistory() []MoveHistoryEntry
	GetLastMove() *MoveHistoryEntry
}

// GameEngine implements the Engine interface by running the turn protocol
// (apply move, spawn, recompute legal moves) on top of a Board.
type GameEngine struct {
	board  *Board
	config *GameConfig
	rng    RandomSource

	message           string
	lastSpawn         *Position
	moveHistory       []MoveHistoryEntry
	totalMoves        int
	currentMoves      []MoveHistoryEntry
	currentMovesCount int
}

// NewEngine creates a new game engine with the provided configuration.
// A non-zero config.Seed makes every game created from it reproducible.
func NewEngine(config *GameConfig) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}
	return NewEngineWithSource(config, NewRandomSource(config.Seed))
}

// NewEngineWithSource creates an engine that draws spawns from rng
func NewEngineWithSource(config *GameConfig, rng RandomSource) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}

	e := &GameEngine{
		config:       config,
		rng:          rng,
		moveHistory:  []MoveHistoryEntry{},
		currentMoves: []MoveHistoryEntry{},
	}
	if err := e.newBoard(); err != nil {
		return nil, err
	}
	return e, nil
}

// NewEngineWithDefaults creates a new game engine with default configuration
func NewEngineWithDefaults() *GameEngine {
	e, err := NewEngine(DefaultGameConfig())
	if err != nil {
		// The built-in default always validates.
		panic(err)
	}
	return e
}

func (e *GameEngine) newBoard() error {
	board, err := NewBoard(e.config.GridSize, e.config.WinTarget, e.config.FourProbability(), e.rng)
	if err != nil {
		return err
	}
	e.board = board
	e.lastSpawn = nil
	e.message = e.config.Messages.Welcome
	return nil
}

// Board exposes the underlying grid engine
func (e *GameEngine) Board() *Board {
	return e.board
}

// GetState returns a snapshot of the current game state
func (e *GameEngine) GetState() *GameState {
	return &GameState{
		Grid:              e.board.Cells(),
		Score:             e.board.Score(),
		WinTarget:         e.board.WinTarget(),
		LegalMoves:        e.board.LegalMoves(),
		Message:           e.message,
		GameOver:          e.board.Over(),
		Victory:           e.board.Won(),
		ConfigName:        e.config.Name,
		LastSpawn:         e.lastSpawn,
		MoveHistory:       e.moveHistory,
		TotalMoves:        e.totalMoves,
		CurrentMoves:      e.currentMoves,
		CurrentMovesCount: e.currentMovesCount,
	}
}

// SetState restores the game from a snapshot (used for persistence loading)
func (e *GameEngine) SetState(state *GameState) error {
	if state == nil {
		return fmt.Errorf("state cannot be nil")
	}
	if len(state.Grid) != e.config.GridSize {
		return fmt.Errorf("%w: grid has %d rows, config wants %d", ErrInvalidGrid, len(state.Grid), e.config.GridSize)
	}

	board, err := RestoreBoard(state.Grid, e.config.WinTarget, e.config.FourProbability(), e.rng)
	if err != nil {
		return fmt.Errorf("failed to restore board: %w", err)
	}

	e.board = board
	e.message = state.Message
	e.lastSpawn = state.LastSpawn
	e.moveHistory = nonNilHistory(state.MoveHistory)
	e.totalMoves = state.TotalMoves
	e.currentMoves = nonNilHistory(state.CurrentMoves)
	e.currentMovesCount = state.CurrentMovesCount
	return nil
}

// Reset starts a fresh grid while preserving cumulative history and totals
func (e *GameEngine) Reset() (*GameState, error) {
	if err := e.newBoard(); err != nil {
		return nil, err
	}
	e.currentMoves = []MoveHistoryEntry{}
	e.currentMovesCount = 0
	return e.GetState(), nil
}

// IsGameOver returns whether no legal move remains
func (e *GameEngine) IsGameOver() bool {
	return e.board.Over()
}

// IsVictory returns whether the win target tile is on the grid
func (e *GameEngine) IsVictory() bool {
	return e.board.Won()
}

// GetScore returns the current score
func (e *GameEngine) GetScore() int {
	return e.board.Score()
}

// Move plays one full turn. An illegal direction is recorded as an
// unsuccessful move and leaves the grid unchanged.
func (e *GameEngine) Move(direction Direction) (*TurnResult, error) {
	if !direction.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDirection, int(direction))
	}

	result := &TurnResult{
		Direction:   direction,
		Relocations: []Relocation{},
		ScoreBefore: e.board.Score(),
	}

	if !e.board.IsLegal(direction) {
		result.ScoreAfter = result.ScoreBefore
		e.message = e.config.Messages.CantMove
		if e.board.Over() {
			e.message = e.config.Messages.GameOver
		}
		e.addMoveToHistory(direction, result)
		return result, nil
	}

	relocations := e.board.ApplyMove(direction)
	spawned, err := e.board.SpawnTile()
	if err != nil {
		return nil, fmt.Errorf("spawn after %s: %w", direction, err)
	}
	e.board.RecomputeLegalMoves()

	value := e.board.Cell(spawned.Row, spawned.Col)
	e.lastSpawn = &spawned

	result.Success = true
	result.Relocations = relocations
	result.Merges = CountMerges(relocations)
	result.Spawned = &spawned
	result.SpawnedValue = value
	result.ScoreAfter = e.board.Score()

	e.message = e.statusMessage()
	e.addMoveToHistory(direction, result)

	return result, nil
}

func (e *GameEngine) statusMessage() string {
	msgs := e.config.Messages
	switch {
	case e.board.Won():
		return fmt.Sprintf(msgs.Victory, e.board.Score())
	case e.board.Over():
		return msgs.GameOver
	case msgs.ScoreStatus != "":
		return fmt.Sprintf(msgs.ScoreStatus, e.board.Score())
	default:
		return ""
	}
}

// CanMove checks if the direction is currently legal
func (e *GameEngine) CanMove(direction Direction) bool {
	return e.board.IsLegal(direction)
}

// GetPossibleMoves returns all legal directions
func (e *GameEngine) GetPossibleMoves() []Direction {
	return e.board.LegalMoves()
}

// GetConfig returns the current game configuration
func (e *GameEngine) GetConfig() *GameConfig {
	return e.config
}

// GetMoveHistory returns the complete move history
func (e *GameEngine) GetMoveHistory() []MoveHistoryEntry {
	return e.moveHistory
}

// GetLastMove returns the last move made, or nil if no moves
func (e *GameEngine) GetLastMove() *MoveHistoryEntry {
	if len(e.moveHistory) == 0 {
		return nil
	}
	return &e.moveHistory[len(e.moveHistory)-1]
}

// BulkMove executes moves in sequence and stops at the first illegal move or
// once the game is over. It returns one result per executed move.
func (e *GameEngine) BulkMove(moves []Direction) ([]*TurnResult, error) {
	results := make([]*TurnResult, 0, len(moves))

	for _, direction := range moves {
		if e.IsGameOver() {
			break
		}

		result, err := e.Move(direction)
		if err != nil {
			return results, err
		}
		results = append(results, result)
		if !result.Success {
			break
		}
	}

	return results, nil
}

func (e *GameEngine) addMoveToHistory(direction Direction, result *TurnResult) {
	entry := MoveHistoryEntry{
		Action:       direction.String(),
		Success:      result.Success,
		ScoreBefore:  result.ScoreBefore,
		ScoreAfter:   result.ScoreAfter,
		Relocations:  len(result.Relocations),
		Merges:       result.Merges,
		Spawned:      result.Spawned,
		SpawnedValue: result.SpawnedValue,
		Timestamp:    time.Now().Unix(),
		MoveNumber:   e.totalMoves + 1,
	}
	// Append to cumulative history (never cleared by reset) and increment total
	e.moveHistory = append(e.moveHistory, entry)
	e.totalMoves++

	// Append to current segment history and increment its counter
	e.currentMoves = append(e.currentMoves, entry)
	e.currentMovesCount++
}

func nonNilHistory(h []MoveHistoryEntry) []MoveHistoryEntry {
	if h == nil {
		return []MoveHistoryEntry{}
	}
	return h
}
