package engine

import (
	"errors"
	"fmt"
	"strings"
)

// Direction is one of the four moves a player can request
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

const (
	// Validation constants
	DefaultGridSize             = 4
	DefaultWinTarget            = 2048
	DefaultSpawnFourProbability = 0.2
	MinGridSize                 = 2
	MaxGridSize                 = 16
	MinWinTarget                = 4
	MaxBulkMoves                = 100
	WebSocketBufferSize         = 256
)

var (
	ErrInvalidState     = errors.New("invalid state: no empty cell to spawn into")
	ErrInvalidDirection = errors.New("invalid direction")
	ErrInvalidGrid      = errors.New("invalid grid")
)

// Directions lists every direction in the order legal moves are reported
var Directions = [...]Direction{Up, Down, Left, Right}

var directionNames = [...]string{"up", "down", "left", "right"}

// String returns the lowercase name used on the wire
func (d Direction) String() string {
	if d < Up || d > Right {
		return fmt.Sprintf("direction(%d)", int(d))
	}
	return directionNames[d]
}

// Valid reports whether d is one of the four directions
func (d Direction) Valid() bool {
	return d >= Up && d <= Right
}

// ParseDirection converts "up", "down", "left" or "right" (any case) to a Direction
func ParseDirection(s string) (Direction, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range directionNames {
		if n == name {
			return Direction(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

// MarshalText implements encoding.TextMarshaler
func (d Direction) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDirection, int(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// delta returns the row/column step of one cell of travel
func (d Direction) delta() (di, dj int) {
	switch d {
	case Up:
		return -1, 0
	case Down:
		return 1, 0
	case Left:
		return 0, -1
	default:
		return 0, 1
	}
}

// traversal returns row and column visiting orders that reach the leading edge first
func (d Direction) traversal(n int) (rows, cols []int) {
	rows = ascending(n)
	cols = ascending(n)
	switch d {
	case Down:
		rows = descending(n)
	case Right:
		cols = descending(n)
	}
	return rows, cols
}

func ascending(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func descending(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = n - 1 - i
	}
	return out
}

// Position is a row/column grid coordinate
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Relocation describes where one tile ended up during a single move
type Relocation struct {
	From   Position `json:"from"`
	To     Position `json:"to"`
	Merged bool     `json:"merged,omitempty"`
}

// GameConfig represents the game configuration from JSON
type GameConfig struct {
	Name                 string   `json:"name"`
	Description          string   `json:"description"`
	GridSize             int      `json:"grid_size"`
	WinTarget            int      `json:"win_target"`
	SpawnFourProbability *float64 `json:"spawn_four_probability,omitempty"` // nil means DefaultSpawnFourProbability
	Seed                 int64    `json:"seed,omitempty"`
	Messages             struct {
		Welcome     string `json:"welcome"`
		CantMove    string `json:"cant_move"`
		Victory     string `json:"victory"`
		GameOver    string `json:"game_over"`
		ScoreStatus string `json:"score_status"`
	} `json:"messages"`
}

// GameState represents the complete game state
type GameState struct {
	Grid       [][]int     `json:"grid"`
	Score      int         `json:"score"`
	WinTarget  int         `json:"win_target"`
	LegalMoves []Direction `json:"legal_moves"`
	Message    string      `json:"message"`
	GameOver   bool        `json:"game_over"`
	Victory    bool        `json:"victory"`
	ConfigName string      `json:"config_name"`
	LastSpawn  *Position   `json:"last_spawn,omitempty"`

	MoveHistory []MoveHistoryEntry `json:"move_history"`
	TotalMoves  int                `json:"total_moves"`

	// CurrentMoves tracks only the moves since the last reset. It mirrors MoveHistory entries
	// but gets cleared on reset while MoveHistory remains cumulative.
	CurrentMoves      []MoveHistoryEntry `json:"current_moves"`
	CurrentMovesCount int                `json:"current_moves_count"`
}

// MoveHistoryEntry represents a single move in the game history
type MoveHistoryEntry struct {
	Action       string    `json:"action"`
	Success      bool      `json:"success"`
	ScoreBefore  int       `json:"score_before"`
	ScoreAfter   int       `json:"score_after"`
	Relocations  int       `json:"relocations"`
	Merges       int       `json:"merges"`
	Spawned      *Position `json:"spawned,omitempty"`
	SpawnedValue int       `json:"spawned_value,omitempty"`
	Timestamp    int64     `json:"timestamp"`
	MoveNumber   int       `json:"move_number"`
}

// TurnResult is everything one call to GameEngine.Move produced
type TurnResult struct {
	Success      bool         `json:"success"`
	Direction    Direction    `json:"direction"`
	Relocations  []Relocation `json:"relocations"`
	Merges       int          `json:"merges"`
	Spawned      *Position    `json:"spawned,omitempty"`
	SpawnedValue int          `json:"spawned_value,omitempty"`
	ScoreBefore  int          `json:"score_before"`
	ScoreAfter   int          `json:"score_after"`
}
