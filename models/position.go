package models

import "fmt"

// GridPosition is a (row, col) cell on a square grid.
type GridPosition struct {
	Row int `json:"row" yaml:"row"`
	Col int `json:"col" yaml:"col"`
}

// Pos is shorthand for GridPosition{Row: row, Col: col}.
func Pos(row, col int) GridPosition {
	return GridPosition{Row: row, Col: col}
}

// IsAdjacentTo reports whether other is one step away, diagonals excluded.
func (p GridPosition) IsAdjacentTo(other GridPosition) bool {
	return abs(p.Row-other.Row)+abs(p.Col-other.Col) == 1
}

// IsWithinBounds reports whether p lies inside [0, gridSize)².
func (p GridPosition) IsWithinBounds(gridSize int) bool {
	return p.Row >= 0 && p.Row < gridSize && p.Col >= 0 && p.Col < gridSize
}

func (p GridPosition) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
