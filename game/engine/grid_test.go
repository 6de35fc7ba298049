package engine

import (
	"errors"
	"testing"
)

func TestNewGrid(t *testing.T) {
	if _, err := NewGrid(1); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("Expected ErrInvalidConfiguration for dimension 1, got %v", err)
	}

	grid, err := NewGrid(4)
	if err != nil {
		t.Fatalf("Failed to create grid: %v", err)
	}
	if grid.Dimension() != 4 {
		t.Errorf("Expected dimension 4, got %d", grid.Dimension())
	}
	if grid.OccupiedCount() != 0 || !grid.HasAnyEmptyCell() {
		t.Error("Expected a new grid to be empty")
	}
}

func TestGrid_Bounds(t *testing.T) {
	grid, _ := NewGrid(3)

	tests := []struct {
		row, col int
		valid    bool
	}{
		{1, 1, true},
		{3, 3, true},
		{2, 3, true},
		{0, 1, false},
		{1, 0, false},
		{4, 1, false},
		{1, 4, false},
		{-2, 2, false},
	}

	for _, tt := range tests {
		if grid.InBounds(tt.row, tt.col) != tt.valid {
			t.Errorf("InBounds(%d,%d): expected %v", tt.row, tt.col, tt.valid)
		}
		_, err := grid.Get(tt.row, tt.col)
		if tt.valid && err != nil {
			t.Errorf("Get(%d,%d) failed: %v", tt.row, tt.col, err)
		}
		if !tt.valid && !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("Get(%d,%d): expected ErrOutOfBounds, got %v", tt.row, tt.col, err)
		}
	}
}

func TestGrid_SetClear(t *testing.T) {
	grid, _ := NewGrid(2)

	if err := grid.Set(1, 2, 3); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	empty, err := grid.IsEmpty(1, 2)
	if err != nil || empty {
		t.Errorf("Expected (1,2) occupied, got empty=%v err=%v", empty, err)
	}
	if grid.HighestValue() != 3 {
		t.Errorf("Expected highest value 3, got %d", grid.HighestValue())
	}

	if err := grid.Set(1, 1, 0); !errors.Is(err, ErrNonPositiveValue) {
		t.Errorf("Expected ErrNonPositiveValue, got %v", err)
	}
	if err := grid.Set(3, 1, 1); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Expected ErrOutOfBounds, got %v", err)
	}

	if err := grid.Clear(1, 2); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if empty, _ := grid.IsEmpty(1, 2); !empty {
		t.Error("Expected (1,2) empty after clear")
	}
}

func TestGrid_HasAnyEmptyCell(t *testing.T) {
	grid, _ := NewGrid(2)
	for row := 1; row <= 2; row++ {
		for col := 1; col <= 2; col++ {
			if !grid.HasAnyEmptyCell() {
				t.Fatalf("Expected empty cells before filling (%d,%d)", row, col)
			}
			_ = grid.Set(row, col, row+col)
		}
	}

	if grid.HasAnyEmptyCell() {
		t.Error("Expected a full grid")
	}
	if grid.OccupiedCount() != 4 {
		t.Errorf("Expected 4 occupied cells, got %d", grid.OccupiedCount())
	}

	grid.reset()
	if grid.OccupiedCount() != 0 {
		t.Error("Expected reset to empty the grid")
	}
}

func TestGrid_ValuesIsCopy(t *testing.T) {
	grid, _ := NewGrid(2)
	_ = grid.Set(2, 1, 5)

	values := grid.Values()
	if values[1][0] != 5 {
		t.Errorf("Expected row-major values, got %v", values)
	}

	values[1][0] = 9
	if cell, _ := grid.Get(2, 1); cell.Value != 5 {
		t.Error("Expected Values to return a copy")
	}
}
