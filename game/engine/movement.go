package engine

// RecomputeLegalMoves rebuilds the legal-move set from scratch. For every
// tile, a neighbour that is empty or holds the same value marks the
// direction from the tile toward that neighbour as legal.
func (b *Board) RecomputeLegalMoves() {
	var legal [len(Directions)]bool

	for i, row := range b.cells {
		for j, v := range row {
			if v == 0 {
				continue
			}
			for _, d := range Directions {
				if legal[d] {
					continue
				}
				di, dj := d.delta()
				ni, nj := i+di, j+dj
				if !b.inBounds(ni, nj) {
					continue
				}
				if next := b.cells[ni][nj]; next == 0 || next == v {
					legal[d] = true
				}
			}
		}
	}

	b.legal = legal
}

// LegalMoves returns the cached legal directions in Up, Down, Left, Right order
func (b *Board) LegalMoves() []Direction {
	moves := make([]Direction, 0, len(Directions))
	for _, d := range Directions {
		if b.legal[d] {
			moves = append(moves, d)
		}
	}
	return moves
}

// IsLegal reports whether d is in the cached legal-move set
func (b *Board) IsLegal(d Direction) bool {
	return d.Valid() && b.legal[d]
}

// ApplyMove slides and merges every tile toward the edge named by d and
// returns the relocations it produced. A direction outside the legal-move
// set leaves the grid untouched and returns nil. Legal moves are not
// recomputed here.
func (b *Board) ApplyMove(d Direction) []Relocation {
	if !b.IsLegal(d) {
		return nil
	}

	n := len(b.cells)
	di, dj := d.delta()
	rows, cols := d.traversal(n)

	merged := make([][]bool, n)
	for i := range merged {
		merged[i] = make([]bool, n)
	}

	var relocations []Relocation
	for _, i := range rows {
		for _, j := range cols {
			v := b.cells[i][j]
			if v == 0 {
				continue
			}

			ni, nj := i, j
			merge := false
			for {
				ti, tj := ni+di, nj+dj
				if !b.inBounds(ti, tj) {
					break
				}
				next := b.cells[ti][tj]
				if next == 0 {
					ni, nj = ti, tj
					continue
				}
				if next == v && !merged[ti][tj] {
					ni, nj = ti, tj
					merge = true
				}
				break
			}

			if ni == i && nj == j {
				continue
			}

			b.cells[i][j] = 0
			if merge {
				b.cells[ni][nj] = v * 2
				merged[ni][nj] = true
			} else {
				b.cells[ni][nj] = v
			}

			relocations = append(relocations, Relocation{
				From:   Position{Row: i, Col: j},
				To:     Position{Row: ni, Col: nj},
				Merged: merge,
			})
		}
	}

	b.RecomputeScore()
	return relocations
}
