package engine

import (
	"strconv"
	"strings"
)

// isPowerOfTwo reports whether v is 2^k for some k ≥ 1
func isPowerOfTwo(v int) bool {
	return v >= 2 && v&(v-1) == 0
}

// isTileValue reports whether v may appear in a grid cell
func isTileValue(v int) bool {
	return v == 0 || isPowerOfTwo(v)
}

// maxTile returns the largest value on the grid
func maxTile(cells [][]int) int {
	best := 0
	for _, row := range cells {
		for _, v := range row {
			if v > best {
				best = v
			}
		}
	}
	return best
}

func copyCells(cells [][]int) [][]int {
	out := make([][]int, len(cells))
	for i, row := range cells {
		out[i] = append([]int(nil), row...)
	}
	return out
}

// CountTiles counts the non-empty cells in the grid
func CountTiles(grid [][]int) int {
	count := 0
	for _, row := range grid {
		for _, v := range row {
			if v != 0 {
				count++
			}
		}
	}
	return count
}

// CountMerges counts relocations that ended in a merge
func CountMerges(relocations []Relocation) int {
	count := 0
	for _, r := range relocations {
		if r.Merged {
			count++
		}
	}
	return count
}

// FormatGrid renders the grid as right-aligned columns with "." for empty cells
func FormatGrid(grid [][]int) string {
	width := 1
	for _, row := range grid {
		for _, v := range row {
			if w := len(strconv.Itoa(v)); w > width {
				width = w
			}
		}
	}

	var b strings.Builder
	for _, row := range grid {
		for j, v := range row {
			if j > 0 {
				b.WriteByte(' ')
			}
			cell := "."
			if v != 0 {
				cell = strconv.Itoa(v)
			}
			b.WriteString(strings.Repeat(" ", width-len(cell)))
			b.WriteString(cell)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// DirectionNames converts directions to their wire names
func DirectionNames(dirs []Direction) []string {
	names := make([]string, len(dirs))
	for i, d := range dirs {
		names[i] = d.String()
	}
	return names
}
