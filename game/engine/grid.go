package engine

import "fmt"

// Grid is a fixed-size square board addressed by 1-based coordinates
type Grid struct {
	dimension int
	cells     [][]Cell
}

// NewGrid creates an empty grid of the given dimension
func NewGrid(dimension int) (*Grid, error) {
	if dimension < MinDimension {
		return nil, fmt.Errorf("%w: dimension must be at least %d, got %d",
			ErrInvalidConfiguration, MinDimension, dimension)
	}

	cells := make([][]Cell, dimension)
	for i := range cells {
		cells[i] = make([]Cell, dimension)
	}

	return &Grid{dimension: dimension, cells: cells}, nil
}

// Dimension returns the side length of the grid
func (g *Grid) Dimension() int {
	return g.dimension
}

// InBounds reports whether (row, col) addresses a cell
func (g *Grid) InBounds(row, col int) bool {
	return row >= 1 && row <= g.dimension && col >= 1 && col <= g.dimension
}

func (g *Grid) check(row, col int) error {
	if !g.InBounds(row, col) {
		return fmt.Errorf("%w: (%d,%d) outside 1..%d", ErrOutOfBounds, row, col, g.dimension)
	}
	return nil
}

// Get returns the cell at (row, col)
func (g *Grid) Get(row, col int) (Cell, error) {
	if err := g.check(row, col); err != nil {
		return Cell{}, err
	}
	return g.cells[row-1][col-1], nil
}

// Set writes a positive value. Occupancy is the caller's concern.
func (g *Grid) Set(row, col, value int) error {
	if err := g.check(row, col); err != nil {
		return err
	}
	if value <= 0 {
		return fmt.Errorf("%w: got %d", ErrNonPositiveValue, value)
	}
	g.cells[row-1][col-1].Value = value
	return nil
}

// Clear empties the cell at (row, col)
func (g *Grid) Clear(row, col int) error {
	if err := g.check(row, col); err != nil {
		return err
	}
	g.cells[row-1][col-1] = Cell{}
	return nil
}

// IsEmpty reports whether the cell at (row, col) is empty
func (g *Grid) IsEmpty(row, col int) (bool, error) {
	cell, err := g.Get(row, col)
	if err != nil {
		return false, err
	}
	return cell.IsEmpty(), nil
}

// HasAnyEmptyCell scans the whole grid for an empty cell
func (g *Grid) HasAnyEmptyCell() bool {
	for _, row := range g.cells {
		for _, cell := range row {
			if cell.IsEmpty() {
				return true
			}
		}
	}
	return false
}

// OccupiedCount counts non-empty cells
func (g *Grid) OccupiedCount() int {
	count := 0
	for _, row := range g.cells {
		for _, cell := range row {
			if !cell.IsEmpty() {
				count++
			}
		}
	}
	return count
}

// HighestValue returns the largest value on the board, or 0 when empty
func (g *Grid) HighestValue() int {
	highest := 0
	for _, row := range g.cells {
		for _, cell := range row {
			if cell.Value > highest {
				highest = cell.Value
			}
		}
	}
	return highest
}

// Values returns a row-major copy of the cell values
func (g *Grid) Values() [][]int {
	out := make([][]int, g.dimension)
	for i, row := range g.cells {
		out[i] = make([]int, g.dimension)
		for j, cell := range row {
			out[i][j] = cell.Value
		}
	}
	return out
}

// reset empties every cell
func (g *Grid) reset() {
	for _, row := range g.cells {
		for j := range row {
			row[j] = Cell{}
		}
	}
}
