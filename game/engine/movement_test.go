package engine

import (
	"reflect"
	"testing"
)

// stubSource replays fixed random draws. IntN results wrap modulo n.
type stubSource struct {
	ints   []int
	floats []float64
}

func (s *stubSource) IntN(n int) int {
	if len(s.ints) == 0 {
		return 0
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	return v % n
}

func (s *stubSource) Float64() float64 {
	if len(s.floats) == 0 {
		return 0.5
	}
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

func boardFrom(t *testing.T, cells [][]int) *Board {
	t.Helper()
	b, err := RestoreBoard(cells, DefaultWinTarget, DefaultSpawnFourProbability, &stubSource{})
	if err != nil {
		t.Fatalf("RestoreBoard failed: %v", err)
	}
	return b
}

// rowGrid places row on the first line of a 4x4 grid
func rowGrid(row [4]int) [][]int {
	return [][]int{
		{row[0], row[1], row[2], row[3]},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}
}

// columnGrid places col in the first column of a 4x4 grid
func columnGrid(col [4]int) [][]int {
	return [][]int{
		{col[0], 0, 0, 0},
		{col[1], 0, 0, 0},
		{col[2], 0, 0, 0},
		{col[3], 0, 0, 0},
	}
}

func TestApplyMove_Rows(t *testing.T) {
	tests := []struct {
		name      string
		direction Direction
		input     [4]int
		expected  [4]int
	}{
		{"merge once per tile", Left, [4]int{2, 2, 2, 2}, [4]int{4, 4, 0, 0}},
		{"blocked merge", Left, [4]int{2, 0, 2, 2}, [4]int{4, 2, 0, 0}},
		{"settle without merge", Left, [4]int{2, 0, 0, 4}, [4]int{2, 4, 0, 0}},
		{"no chain merge", Left, [4]int{2, 2, 4, 0}, [4]int{4, 4, 0, 0}},
		{"two pairs", Left, [4]int{4, 4, 8, 8}, [4]int{8, 16, 0, 0}},
		{"gap merge", Left, [4]int{0, 2, 0, 2}, [4]int{4, 0, 0, 0}},
		{"shift only", Left, [4]int{0, 0, 0, 2}, [4]int{2, 0, 0, 0}},
		{"right merge once", Right, [4]int{2, 2, 2, 2}, [4]int{0, 0, 4, 4}},
		{"right blocked merge", Right, [4]int{2, 2, 0, 2}, [4]int{0, 0, 2, 4}},
		{"right settle", Right, [4]int{4, 0, 0, 2}, [4]int{0, 0, 4, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := boardFrom(t, rowGrid(tt.input))
			b.ApplyMove(tt.direction)

			got := [4]int{b.Cell(0, 0), b.Cell(0, 1), b.Cell(0, 2), b.Cell(0, 3)}
			if got != tt.expected {
				t.Errorf("%s %v = %v, want %v", tt.direction, tt.input, got, tt.expected)
			}
		})
	}
}

func TestApplyMove_Columns(t *testing.T) {
	tests := []struct {
		name      string
		direction Direction
		input     [4]int
		expected  [4]int
	}{
		{"up merge once", Up, [4]int{2, 2, 2, 2}, [4]int{4, 4, 0, 0}},
		{"up blocked merge", Up, [4]int{2, 0, 2, 2}, [4]int{4, 2, 0, 0}},
		{"down merge once", Down, [4]int{2, 2, 2, 2}, [4]int{0, 0, 4, 4}},
		{"down settle", Down, [4]int{8, 0, 4, 0}, [4]int{0, 0, 8, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := boardFrom(t, columnGrid(tt.input))
			b.ApplyMove(tt.direction)

			got := [4]int{b.Cell(0, 0), b.Cell(1, 0), b.Cell(2, 0), b.Cell(3, 0)}
			if got != tt.expected {
				t.Errorf("%s %v = %v, want %v", tt.direction, tt.input, got, tt.expected)
			}
		})
	}
}

func TestApplyMove_SettleRelocations(t *testing.T) {
	b := boardFrom(t, rowGrid([4]int{2, 0, 0, 4}))

	relocations := b.ApplyMove(Left)

	expected := []Relocation{
		{From: Position{Row: 0, Col: 3}, To: Position{Row: 0, Col: 1}},
	}
	if !reflect.DeepEqual(relocations, expected) {
		t.Errorf("Expected relocations %v, got %v", expected, relocations)
	}
}

func TestApplyMove_MergeRelocations(t *testing.T) {
	b := boardFrom(t, rowGrid([4]int{2, 2, 2, 2}))

	relocations := b.ApplyMove(Left)

	expected := []Relocation{
		{From: Position{Row: 0, Col: 1}, To: Position{Row: 0, Col: 0}, Merged: true},
		{From: Position{Row: 0, Col: 2}, To: Position{Row: 0, Col: 1}},
		{From: Position{Row: 0, Col: 3}, To: Position{Row: 0, Col: 1}, Merged: true},
	}
	if !reflect.DeepEqual(relocations, expected) {
		t.Errorf("Expected relocations %v, got %v", expected, relocations)
	}
	if b.Score() != 4 {
		t.Errorf("Expected score 4 after merge, got %d", b.Score())
	}
}

func TestApplyMove_IllegalIsNoOp(t *testing.T) {
	cells := rowGrid([4]int{2, 4, 0, 0})
	b := boardFrom(t, cells)

	if b.IsLegal(Left) {
		t.Fatal("Expected Left to be illegal for a row packed against the left edge")
	}

	before := b.Cells()
	relocations := b.ApplyMove(Left)

	if len(relocations) != 0 {
		t.Errorf("Expected no relocations, got %v", relocations)
	}
	if !reflect.DeepEqual(before, b.Cells()) {
		t.Errorf("Grid changed on illegal move: before %v, after %v", before, b.Cells())
	}
}

func TestApplyMove_InvalidDirection(t *testing.T) {
	b := boardFrom(t, rowGrid([4]int{0, 0, 2, 0}))
	before := b.Cells()

	if relocations := b.ApplyMove(Direction(9)); relocations != nil {
		t.Errorf("Expected nil relocations for invalid direction, got %v", relocations)
	}
	if !reflect.DeepEqual(before, b.Cells()) {
		t.Error("Grid changed on invalid direction")
	}
}

func TestApplyMove_DoesNotRecomputeLegalMoves(t *testing.T) {
	b := boardFrom(t, rowGrid([4]int{0, 0, 0, 2}))

	b.ApplyMove(Left)

	// The cache still reflects the grid before the move until recomputed
	if !b.IsLegal(Left) {
		t.Error("Expected cached legal set to be unchanged by ApplyMove")
	}

	b.RecomputeLegalMoves()
	if b.IsLegal(Left) {
		t.Error("Expected Left to be illegal once recomputed")
	}
}

func TestRecomputeLegalMoves_Convention(t *testing.T) {
	tests := []struct {
		name     string
		cells    [][]int
		expected []Direction
	}{
		{
			name: "top-left corner tile",
			cells: [][]int{
				{2, 0, 0},
				{0, 0, 0},
				{0, 0, 0},
			},
			expected: []Direction{Down, Right},
		},
		{
			name: "bottom-right corner tile",
			cells: [][]int{
				{0, 0, 0},
				{0, 0, 0},
				{0, 0, 2},
			},
			expected: []Direction{Up, Left},
		},
		{
			name: "equal neighbours in full row",
			cells: [][]int{
				{2, 2},
				{4, 8},
			},
			expected: []Direction{Left, Right},
		},
		{
			name: "equal neighbours in full column",
			cells: [][]int{
				{2, 4},
				{2, 8},
			},
			expected: []Direction{Up, Down},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := boardFrom(t, tt.cells)
			got := b.LegalMoves()
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Expected legal moves %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestRecomputeLegalMoves_Terminal(t *testing.T) {
	b := boardFrom(t, [][]int{
		{2, 4, 2, 4},
		{4, 2, 4, 2},
		{2, 4, 2, 4},
		{4, 2, 4, 2},
	})

	if moves := b.LegalMoves(); len(moves) != 0 {
		t.Errorf("Expected no legal moves, got %v", moves)
	}
	if !b.Over() {
		t.Error("Expected game to be over")
	}
	if b.Won() {
		t.Error("Expected game not to be won")
	}
}

func TestWinDetection(t *testing.T) {
	b := boardFrom(t, [][]int{
		{1024, 1024, 0, 0},
		{2, 4, 8, 16},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})

	if b.Won() {
		t.Fatal("Expected no win before merging")
	}

	b.ApplyMove(Left)
	b.RecomputeLegalMoves()

	if !b.Won() {
		t.Errorf("Expected win with score %d", b.Score())
	}
	if b.Over() {
		t.Error("Expected moves to remain after winning")
	}
}

func TestWinAndOverTogether(t *testing.T) {
	b, err := RestoreBoard([][]int{
		{8, 4},
		{4, 2},
	}, 8, DefaultSpawnFourProbability, &stubSource{})
	if err != nil {
		t.Fatalf("RestoreBoard failed: %v", err)
	}

	if !b.Won() || !b.Over() {
		t.Errorf("Expected both won and over, got won=%v over=%v", b.Won(), b.Over())
	}
}

// replay applies relocations to a copy of before and returns the result
func replay(before [][]int, relocations []Relocation) [][]int {
	grid := copyCells(before)
	for _, r := range relocations {
		v := grid[r.From.Row][r.From.Col]
		grid[r.From.Row][r.From.Col] = 0
		if r.Merged {
			grid[r.To.Row][r.To.Col] *= 2
		} else {
			grid[r.To.Row][r.To.Col] = v
		}
	}
	return grid
}

func TestApplyMove_RelocationCompleteness(t *testing.T) {
	rng := NewRandomSource(7)
	b, err := NewBoard(4, DefaultWinTarget, DefaultSpawnFourProbability, rng)
	if err != nil {
		t.Fatalf("NewBoard failed: %v", err)
	}

	for turn := 0; turn < 400 && !b.Over(); turn++ {
		legal := b.LegalMoves()
		d := legal[rng.IntN(len(legal))]

		before := b.Cells()
		relocations := b.ApplyMove(d)
		after := b.Cells()

		if len(relocations) == 0 {
			t.Fatalf("turn %d: legal move %s produced no relocations", turn, d)
		}

		// Replaying the relocations must reproduce the grid exactly
		if got := replay(before, relocations); !reflect.DeepEqual(got, after) {
			t.Fatalf("turn %d: replay of %s mismatch\nbefore:\n%s\nafter:\n%s\nreplayed:\n%s",
				turn, d, FormatGrid(before), FormatGrid(after), FormatGrid(got))
		}

		// Every changed cell is a relocation endpoint
		touched := make(map[Position]bool)
		for _, r := range relocations {
			touched[r.From] = true
			touched[r.To] = true
		}
		for i := range before {
			for j := range before[i] {
				if before[i][j] != after[i][j] && !touched[Position{Row: i, Col: j}] {
					t.Fatalf("turn %d: cell (%d,%d) changed without a relocation", turn, i, j)
				}
			}
		}

		if _, err := b.SpawnTile(); err != nil {
			t.Fatalf("turn %d: spawn failed: %v", turn, err)
		}
		b.RecomputeLegalMoves()
	}
}

func TestApplyMove_LegalSetMatchesGridChange(t *testing.T) {
	rng := NewRandomSource(99)
	b, err := NewBoard(4, DefaultWinTarget, DefaultSpawnFourProbability, rng)
	if err != nil {
		t.Fatalf("NewBoard failed: %v", err)
	}

	for turn := 0; turn < 200 && !b.Over(); turn++ {
		// A direction is legal exactly when applying it changes the grid
		for _, d := range Directions {
			sim, err := RestoreBoard(b.Cells(), DefaultWinTarget, DefaultSpawnFourProbability, &stubSource{})
			if err != nil {
				t.Fatalf("RestoreBoard failed: %v", err)
			}
			before := sim.Cells()
			sim.legal = [len(Directions)]bool{true, true, true, true}
			sim.ApplyMove(d)
			changed := !reflect.DeepEqual(before, sim.Cells())
			if changed != b.IsLegal(d) {
				t.Fatalf("turn %d: %s legal=%v but changes grid=%v\n%s", turn, d, b.IsLegal(d), changed, FormatGrid(before))
			}
		}

		legal := b.LegalMoves()
		b.ApplyMove(legal[rng.IntN(len(legal))])
		if _, err := b.SpawnTile(); err != nil {
			t.Fatalf("spawn failed: %v", err)
		}
		b.RecomputeLegalMoves()
	}
}
