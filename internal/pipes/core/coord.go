package core

import "fmt"

// Pos is a board position. Row increases downward, Col to the right.
type Pos struct {
	Row int
	Col int
}

// P is a convenience constructor for Pos.
func P(row, col int) Pos {
	return Pos{Row: row, Col: col}
}

// String returns a string representation of the position.
func (p Pos) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Step returns the position one cell away in the given direction.
func (p Pos) Step(d Dir) Pos {
	dr, dc := d.Delta()
	return Pos{Row: p.Row + dr, Col: p.Col + dc}
}
