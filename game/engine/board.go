package engine

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// RandomSource is the only source of non-determinism in a Board.
// *math/rand/v2.Rand satisfies it.
type RandomSource interface {
	IntN(n int) int
	Float64() float64
}

// NewRandomSource returns a PCG-backed source. A zero seed picks one from the clock.
func NewRandomSource(seed int64) RandomSource {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)>>1|1))
}

// Board is the grid engine: it owns the N×N grid, the score and the cached
// legal-move set. A Board is not safe for concurrent use.
type Board struct {
	cells           [][]int
	score           int
	legal           [len(Directions)]bool
	winTarget       int
	fourProbability float64
	rng             RandomSource
}

// NewBoard creates an empty size×size grid, places two tiles and computes the legal moves
func NewBoard(size, winTarget int, fourProbability float64, rng RandomSource) (*Board, error) {
	if size < MinGridSize || size > MaxGridSize {
		return nil, fmt.Errorf("%w: size must be between %d and %d, got %d", ErrInvalidGrid, MinGridSize, MaxGridSize, size)
	}
	if rng == nil {
		rng = NewRandomSource(0)
	}

	b := &Board{
		cells:           makeCells(size),
		winTarget:       winTarget,
		fourProbability: fourProbability,
		rng:             rng,
	}

	for i := 0; i < 2; i++ {
		if _, err := b.SpawnTile(); err != nil {
			return nil, err
		}
	}
	b.RecomputeScore()
	b.RecomputeLegalMoves()

	return b, nil
}

// RestoreBoard rebuilds a board from persisted cells
func RestoreBoard(cells [][]int, winTarget int, fourProbability float64, rng RandomSource) (*Board, error) {
	size := len(cells)
	if size < MinGridSize || size > MaxGridSize {
		return nil, fmt.Errorf("%w: size must be between %d and %d, got %d", ErrInvalidGrid, MinGridSize, MaxGridSize, size)
	}
	if rng == nil {
		rng = NewRandomSource(0)
	}

	restored := makeCells(size)
	for i, row := range cells {
		if len(row) != size {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidGrid, i, len(row), size)
		}
		for j, v := range row {
			if !isTileValue(v) {
				return nil, fmt.Errorf("%w: cell (%d,%d) holds %d", ErrInvalidGrid, i, j, v)
			}
			restored[i][j] = v
		}
	}

	b := &Board{
		cells:           restored,
		winTarget:       winTarget,
		fourProbability: fourProbability,
		rng:             rng,
	}
	b.RecomputeScore()
	b.RecomputeLegalMoves()

	return b, nil
}

// SpawnTile places a 2 (or, with the configured probability, a 4) on a
// uniformly chosen empty cell. Legal moves are left stale; callers follow up
// with RecomputeLegalMoves.
func (b *Board) SpawnTile() (Position, error) {
	empty := b.EmptyCells()
	if len(empty) == 0 {
		return Position{}, ErrInvalidState
	}

	pos := empty[b.rng.IntN(len(empty))]
	value := 2
	if b.rng.Float64() < b.fourProbability {
		value = 4
	}

	b.cells[pos.Row][pos.Col] = value
	// Spawning only adds a tile, so the maximum can only grow to value.
	if value > b.score {
		b.score = value
	}

	return pos, nil
}

// RecomputeScore sets the score to the largest tile on the grid
func (b *Board) RecomputeScore() {
	b.score = maxTile(b.cells)
}

// Size returns N
func (b *Board) Size() int {
	return len(b.cells)
}

// Cells returns a copy of the grid
func (b *Board) Cells() [][]int {
	return copyCells(b.cells)
}

// Cell returns the value at (row, col)
func (b *Board) Cell(row, col int) int {
	return b.cells[row][col]
}

// Score returns the current maximum tile
func (b *Board) Score() int {
	return b.score
}

// WinTarget returns the tile value that wins the game
func (b *Board) WinTarget() int {
	return b.winTarget
}

// EmptyCells lists empty positions in row-major order
func (b *Board) EmptyCells() []Position {
	var empty []Position
	for i, row := range b.cells {
		for j, v := range row {
			if v == 0 {
				empty = append(empty, Position{Row: i, Col: j})
			}
		}
	}
	return empty
}

// Won reports whether the score has reached the win target
func (b *Board) Won() bool {
	return b.score == b.winTarget
}

// Over reports whether no move would change the grid
func (b *Board) Over() bool {
	for _, ok := range b.legal {
		if ok {
			return false
		}
	}
	return true
}

func (b *Board) inBounds(i, j int) bool {
	n := len(b.cells)
	return i >= 0 && i < n && j >= 0 && j < n
}

func makeCells(size int) [][]int {
	cells := make([][]int, size)
	for i := range cells {
		cells[i] = make([]int, size)
	}
	return cells
}
