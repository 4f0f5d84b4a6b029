package main

import (
	"github.com/wricardo/mcp-training/game2048/game/engine"
)

// Strategy picks the next direction for a game state. ok is false when no
// legal move is left.
type Strategy interface {
	NextMove(state *engine.GameState) (dir engine.Direction, ok bool)
}

const (
	emptyCellWeight = 1000
	cornerWeight    = 10
)

// CornerStrategy looks one move ahead and prefers grids with many empty
// cells, rows and columns that decrease away from the top-left corner, and
// the highest tile sitting in that corner.
type CornerStrategy struct {
	rng engine.RandomSource
}

func NewCornerStrategy() *CornerStrategy {
	// Only ApplyMove runs on the simulated boards, so spawns never draw from rng
	return &CornerStrategy{rng: engine.NewRandomSource(1)}
}

func (s *CornerStrategy) NextMove(state *engine.GameState) (engine.Direction, bool) {
	if state == nil || state.GameOver {
		return engine.Up, false
	}

	var (
		best      engine.Direction
		bestScore int
		found     bool
	)
	for _, d := range state.LegalMoves {
		board, err := engine.RestoreBoard(state.Grid, state.WinTarget, engine.DefaultSpawnFourProbability, s.rng)
		if err != nil {
			log.WithError(err).Debug("cannot simulate grid")
			return engine.Up, false
		}
		if len(board.ApplyMove(d)) == 0 {
			continue
		}

		score := evaluate(board.Cells())
		if !found || score > bestScore {
			best, bestScore, found = d, score, true
		}
	}
	return best, found
}

// evaluate scores a grid; higher is better.
func evaluate(cells [][]int) int {
	n := len(cells)
	empty, highest, monotone := 0, 0, 0

	for i := range cells {
		for j, v := range cells[i] {
			if v == 0 {
				empty++
				continue
			}
			if v > highest {
				highest = v
			}
			if j+1 < n && cells[i][j+1] <= v {
				monotone += v
			}
			if i+1 < n && cells[i+1][j] <= v {
				monotone += v
			}
		}
	}

	score := empty*emptyCellWeight + monotone
	if n > 0 && highest > 0 && cells[0][0] == highest {
		score += highest * cornerWeight
	}
	return score
}
