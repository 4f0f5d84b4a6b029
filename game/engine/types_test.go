package engine

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func TestParseDirection(t *testing.T) {
	tests := []struct {
		input    string
		expected Direction
		wantErr  bool
	}{
		{"up", Up, false},
		{"DOWN", Down, false},
		{" Left ", Left, false},
		{"right", Right, false},
		{"north", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseDirection(tt.input)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidDirection) {
				t.Errorf("ParseDirection(%q): expected ErrInvalidDirection, got %v", tt.input, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDirection(%q) failed: %v", tt.input, err)
			continue
		}
		if got != tt.expected {
			t.Errorf("ParseDirection(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestDirection_String(t *testing.T) {
	if Up.String() != "up" || Right.String() != "right" {
		t.Errorf("Unexpected names: %s %s", Up, Right)
	}
	if Direction(7).String() != "direction(7)" {
		t.Errorf("Unexpected name for invalid direction: %s", Direction(7))
	}
}

func TestDirection_JSON(t *testing.T) {
	payload := struct {
		Moves []Direction `json:"moves"`
	}{Moves: []Direction{Up, Left}}

	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `{"moves":["up","left"]}` {
		t.Errorf("Unexpected JSON %s", data)
	}

	var decoded struct {
		Moves []Direction `json:"moves"`
	}
	if err := json.Unmarshal([]byte(`{"moves":["down","right"]}`), &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if !reflect.DeepEqual(decoded.Moves, []Direction{Down, Right}) {
		t.Errorf("Unexpected directions %v", decoded.Moves)
	}

	if err := json.Unmarshal([]byte(`{"moves":["sideways"]}`), &decoded); err == nil {
		t.Error("Expected error for unknown direction")
	}
}

func TestTraversal(t *testing.T) {
	tests := []struct {
		direction Direction
		rows      []int
		cols      []int
	}{
		{Up, []int{0, 1, 2}, []int{0, 1, 2}},
		{Down, []int{2, 1, 0}, []int{0, 1, 2}},
		{Left, []int{0, 1, 2}, []int{0, 1, 2}},
		{Right, []int{0, 1, 2}, []int{2, 1, 0}},
	}

	for _, tt := range tests {
		rows, cols := tt.direction.traversal(3)
		if !reflect.DeepEqual(rows, tt.rows) || !reflect.DeepEqual(cols, tt.cols) {
			t.Errorf("%s traversal = %v %v, want %v %v", tt.direction, rows, cols, tt.rows, tt.cols)
		}
	}
}

func TestFormatGrid(t *testing.T) {
	got := FormatGrid([][]int{{2, 0}, {128, 4}})
	want := "  2   .\n128   4\n"
	if got != want {
		t.Errorf("FormatGrid = %q, want %q", got, want)
	}
}
