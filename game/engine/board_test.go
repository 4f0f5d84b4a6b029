package engine

import (
	"errors"
	"reflect"
	"testing"
)

func TestNewBoard(t *testing.T) {
	b, err := NewBoard(4, DefaultWinTarget, DefaultSpawnFourProbability, NewRandomSource(1))
	if err != nil {
		t.Fatalf("Failed to create board: %v", err)
	}

	if b.Size() != 4 {
		t.Errorf("Expected size 4, got %d", b.Size())
	}
	if tiles := CountTiles(b.Cells()); tiles != 2 {
		t.Errorf("Expected 2 initial tiles, got %d", tiles)
	}
	if len(b.EmptyCells()) != 14 {
		t.Errorf("Expected 14 empty cells, got %d", len(b.EmptyCells()))
	}
	if b.Score() != maxTile(b.Cells()) {
		t.Errorf("Expected score %d to equal grid max %d", b.Score(), maxTile(b.Cells()))
	}
	if len(b.LegalMoves()) == 0 {
		t.Error("Expected legal moves on a fresh board")
	}
	if b.Over() || b.Won() {
		t.Error("Fresh board should be neither over nor won")
	}
}

func TestNewBoard_SmallestGrid(t *testing.T) {
	b, err := NewBoard(MinGridSize, 16, DefaultSpawnFourProbability, NewRandomSource(3))
	if err != nil {
		t.Fatalf("Failed to create board: %v", err)
	}
	if len(b.EmptyCells()) != 2 {
		t.Errorf("Expected 2 empty cells on a 2x2 board, got %d", len(b.EmptyCells()))
	}
}

func TestNewBoard_InvalidSize(t *testing.T) {
	for _, size := range []int{-1, 0, 1, MaxGridSize + 1} {
		if _, err := NewBoard(size, DefaultWinTarget, DefaultSpawnFourProbability, nil); !errors.Is(err, ErrInvalidGrid) {
			t.Errorf("size %d: expected ErrInvalidGrid, got %v", size, err)
		}
	}
}

func TestSpawnTile_ValueAndCell(t *testing.T) {
	tests := []struct {
		name          string
		source        *stubSource
		expectedPos   Position
		expectedValue int
	}{
		{"first empty cell gets a two", &stubSource{ints: []int{0}, floats: []float64{0.95}}, Position{Row: 0, Col: 1}, 2},
		{"last empty cell gets a four", &stubSource{ints: []int{2}, floats: []float64{0.1}}, Position{Row: 1, Col: 1}, 4},
		{"boundary draw gets a two", &stubSource{ints: []int{1}, floats: []float64{0.2}}, Position{Row: 1, Col: 0}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := RestoreBoard([][]int{{2, 0}, {0, 0}}, 16, DefaultSpawnFourProbability, tt.source)
			if err != nil {
				t.Fatalf("RestoreBoard failed: %v", err)
			}

			pos, err := b.SpawnTile()
			if err != nil {
				t.Fatalf("SpawnTile failed: %v", err)
			}
			if pos != tt.expectedPos {
				t.Errorf("Expected spawn at %v, got %v", tt.expectedPos, pos)
			}
			if v := b.Cell(pos.Row, pos.Col); v != tt.expectedValue {
				t.Errorf("Expected value %d, got %d", tt.expectedValue, v)
			}
			if tiles := CountTiles(b.Cells()); tiles != 2 {
				t.Errorf("Expected exactly one cell to change, got %d tiles", tiles)
			}
		})
	}
}

func TestSpawnTile_FullGrid(t *testing.T) {
	b := boardFrom(t, [][]int{
		{2, 4},
		{8, 16},
	})

	before := b.Cells()
	_, err := b.SpawnTile()
	if !errors.Is(err, ErrInvalidState) {
		t.Errorf("Expected ErrInvalidState, got %v", err)
	}
	if !reflect.DeepEqual(before, b.Cells()) {
		t.Error("Grid changed on failed spawn")
	}
}

func TestSpawnTile_KeepsScoreInvariant(t *testing.T) {
	b, err := RestoreBoard([][]int{{2, 0}, {0, 0}}, 16, DefaultSpawnFourProbability, &stubSource{floats: []float64{0}})
	if err != nil {
		t.Fatalf("RestoreBoard failed: %v", err)
	}

	if _, err := b.SpawnTile(); err != nil {
		t.Fatalf("SpawnTile failed: %v", err)
	}
	if b.Score() != 4 {
		t.Errorf("Expected score 4 after spawning a four, got %d", b.Score())
	}
}

func TestSpawnTile_Determinism(t *testing.T) {
	b1, err := NewBoard(4, DefaultWinTarget, DefaultSpawnFourProbability, NewRandomSource(12345))
	if err != nil {
		t.Fatalf("NewBoard failed: %v", err)
	}
	b2, err := NewBoard(4, DefaultWinTarget, DefaultSpawnFourProbability, NewRandomSource(12345))
	if err != nil {
		t.Fatalf("NewBoard failed: %v", err)
	}

	if !reflect.DeepEqual(b1.Cells(), b2.Cells()) {
		t.Fatalf("Initial grids differ:\n%s\n%s", FormatGrid(b1.Cells()), FormatGrid(b2.Cells()))
	}

	for i := 0; i < 10; i++ {
		p1, err1 := b1.SpawnTile()
		p2, err2 := b2.SpawnTile()
		if err1 != nil || err2 != nil {
			break
		}
		if p1 != p2 || b1.Cell(p1.Row, p1.Col) != b2.Cell(p2.Row, p2.Col) {
			t.Fatalf("spawn %d diverged: %v vs %v", i, p1, p2)
		}
	}
}

func TestSpawnTile_Distribution(t *testing.T) {
	rng := NewRandomSource(2024)
	fours, total := 0, 4000

	for i := 0; i < total; i++ {
		b, err := RestoreBoard([][]int{{0, 0}, {0, 0}}, 16, DefaultSpawnFourProbability, rng)
		if err != nil {
			t.Fatalf("RestoreBoard failed: %v", err)
		}
		pos, err := b.SpawnTile()
		if err != nil {
			t.Fatalf("SpawnTile failed: %v", err)
		}
		if b.Cell(pos.Row, pos.Col) == 4 {
			fours++
		}
	}

	ratio := float64(fours) / float64(total)
	if ratio < 0.15 || ratio > 0.25 {
		t.Errorf("Expected roughly 20%% fours, got %.3f", ratio)
	}
}

func TestRestoreBoard_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		cells [][]int
	}{
		{"not a power of two", [][]int{{3, 0}, {0, 0}}},
		{"one is not a tile", [][]int{{1, 0}, {0, 0}}},
		{"negative value", [][]int{{-2, 0}, {0, 0}}},
		{"not square", [][]int{{2, 0, 0}, {0, 0}}},
		{"too small", [][]int{{2}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := RestoreBoard(tt.cells, DefaultWinTarget, DefaultSpawnFourProbability, nil); !errors.Is(err, ErrInvalidGrid) {
				t.Errorf("Expected ErrInvalidGrid, got %v", err)
			}
		})
	}
}

func TestBoard_CellsReturnsCopy(t *testing.T) {
	b := boardFrom(t, rowGrid([4]int{2, 0, 0, 0}))

	cells := b.Cells()
	cells[0][0] = 1024

	if b.Cell(0, 0) != 2 {
		t.Error("Mutating the returned grid changed the board")
	}
}

func TestBoard_InvariantsUnderRandomPlay(t *testing.T) {
	for _, seed := range []int64{1, 2, 3, 4, 5} {
		rng := NewRandomSource(seed)
		b, err := NewBoard(4, DefaultWinTarget, DefaultSpawnFourProbability, rng)
		if err != nil {
			t.Fatalf("NewBoard failed: %v", err)
		}

		for turn := 0; !b.Over(); turn++ {
			legal := b.LegalMoves()
			b.ApplyMove(legal[rng.IntN(len(legal))])
			if _, err := b.SpawnTile(); err != nil {
				t.Fatalf("seed %d turn %d: spawn failed: %v", seed, turn, err)
			}
			b.RecomputeLegalMoves()

			cells := b.Cells()
			for i, row := range cells {
				for j, v := range row {
					if !isTileValue(v) {
						t.Fatalf("seed %d turn %d: cell (%d,%d) holds %d", seed, turn, i, j, v)
					}
				}
			}
			if b.Score() != maxTile(cells) {
				t.Fatalf("seed %d turn %d: score %d != max %d", seed, turn, b.Score(), maxTile(cells))
			}
		}
	}
}
