package core

import "fmt"

// Grid is the fixed-size board. Slots are stored in row-major order:
// index = row*Cols + col. A nil slot holds no piece.
type Grid struct {
	Rows  int
	Cols  int
	Cells []*Cell
}

// NewGrid creates an empty board with the given dimensions.
func NewGrid(rows, cols int) *Grid {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	return &Grid{
		Rows:  rows,
		Cols:  cols,
		Cells: make([]*Cell, rows*cols),
	}
}

// Index converts a position to a slot index.
func (g *Grid) Index(p Pos) int {
	return p.Row*g.Cols + p.Col
}

// Pos converts a slot index to a position.
func (g *Grid) Pos(i int) Pos {
	if g.Cols == 0 {
		return Pos{}
	}
	return Pos{Row: i / g.Cols, Col: i % g.Cols}
}

// InBounds returns true if the position lies on the board.
func (g *Grid) InBounds(p Pos) bool {
	return p.Row >= 0 && p.Row < g.Rows && p.Col >= 0 && p.Col < g.Cols
}

// At returns the piece at position p, or nil if the slot is empty or off the board.
func (g *Grid) At(p Pos) *Cell {
	if !g.InBounds(p) {
		return nil
	}
	i := g.Index(p)
	if i >= len(g.Cells) {
		return nil
	}
	return g.Cells[i]
}

// Set writes a piece into slot index i, overwriting prior content.
func (g *Grid) Set(i int, c *Cell) error {
	if i < 0 || i >= len(g.Cells) {
		return fmt.Errorf("index %d out of range [0,%d)", i, len(g.Cells))
	}
	g.Cells[i] = c
	return nil
}

// PlacePiece drops a fresh palette piece named by its persisted tag into slot i.
func (g *Grid) PlacePiece(i int, tag string) error {
	k, ok := ParseKind(tag)
	if !ok || k == KindSourceSink {
		return fmt.Errorf("unknown piece %q", tag)
	}
	return g.Set(i, NewPiece(k))
}

// PlaceSource puts the start cell at slot i emitting towards d.
// Any other start cell is removed so the board keeps a single source.
func (g *Grid) PlaceSource(i int, d Dir) error {
	if err := g.Set(i, NewSource(d)); err != nil {
		return err
	}
	for j, c := range g.Cells {
		if j != i && c != nil && c.IsStart {
			g.Cells[j] = nil
		}
	}
	return nil
}

// PlaceSink puts the end cell at slot i.
// Any other end cell is removed so the board keeps a single sink.
func (g *Grid) PlaceSink(i int) error {
	if err := g.Set(i, NewSink()); err != nil {
		return err
	}
	for j, c := range g.Cells {
		if j != i && c != nil && c.IsEnd {
			g.Cells[j] = nil
		}
	}
	return nil
}

// ClearInvalidFlags resets the Invalid marker on every piece.
// Callers run it before each simulation so failure markers do not accumulate.
func (g *Grid) ClearInvalidFlags() {
	for _, c := range g.Cells {
		if c != nil {
			c.Invalid = false
		}
	}
}

// Endpoints returns the slot indices of the start and end cells.
// ok is false unless exactly one of each exists.
func (g *Grid) Endpoints() (start, end int, ok bool) {
	start, end = -1, -1
	starts, ends := 0, 0
	for i, c := range g.Cells {
		if c == nil || c.Kind != KindSourceSink {
			continue
		}
		if c.IsStart {
			start = i
			starts++
		}
		if c.IsEnd {
			end = i
			ends++
		}
	}
	return start, end, starts == 1 && ends == 1
}

// StartDirection returns the emission direction of the first start cell.
func (g *Grid) StartDirection() (Dir, bool) {
	for _, c := range g.Cells {
		if c != nil && c.Kind == KindSourceSink && c.IsStart {
			if len(c.Connections) == 0 {
				return DirUp, false
			}
			return c.Connections[0], true
		}
	}
	return DirUp, false
}

// Count returns the number of occupied slots.
func (g *Grid) Count() int {
	n := 0
	for _, c := range g.Cells {
		if c != nil {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	cells := make([]*Cell, len(g.Cells))
	for i, c := range g.Cells {
		cells[i] = c.Clone()
	}
	return &Grid{
		Rows:  g.Rows,
		Cols:  g.Cols,
		Cells: cells,
	}
}

// Equal returns true if two grids have the same dimensions and contents.
func (g *Grid) Equal(other *Grid) bool {
	if g.Rows != other.Rows || g.Cols != other.Cols || len(g.Cells) != len(other.Cells) {
		return false
	}
	for i, c := range g.Cells {
		if !c.Equal(other.Cells[i]) {
			return false
		}
	}
	return true
}

// NewBoard creates an empty board holding a source at src emitting towards
// srcDir and a sink at sink. Positions off the board are skipped.
func NewBoard(rows, cols int, src Pos, srcDir Dir, sink Pos) *Grid {
	g := NewGrid(rows, cols)
	if g.InBounds(src) {
		g.Cells[g.Index(src)] = NewSource(srcDir)
	}
	if g.InBounds(sink) {
		g.Cells[g.Index(sink)] = NewSink()
	}
	return g
}
