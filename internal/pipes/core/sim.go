package core

import "fmt"

// OutcomeKind classifies the result of a flow simulation.
type OutcomeKind int

const (
	OutcomeNoPath      OutcomeKind = iota // Board lacks a single start and a single end
	OutcomeDelivered                      // Water reached the end cell
	OutcomeBlocked                        // A piece is missing or its ports do not line up
	OutcomeOutOfBounds                    // Water would leave the board
	OutcomeCycle                          // Water circles through a closed loop
)

// String returns the string representation of an outcome kind.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeNoPath:
		return "no path"
	case OutcomeDelivered:
		return "delivered"
	case OutcomeBlocked:
		return "blocked"
	case OutcomeOutOfBounds:
		return "out of bounds"
	case OutcomeCycle:
		return "cycle"
	default:
		return "unknown"
	}
}

// Outcome is the result of one simulation run.
type Outcome struct {
	Kind OutcomeKind
	// At is the slot index where the run stopped; -1 for NoPath.
	// For Blocked it is the cell whose step failed.
	At int
	// Steps counts successful moves between cells.
	Steps int
	// Path lists the slot indices the water passed through, in order.
	Path []int
}

// Delivered reports whether water reached the end cell.
func (o Outcome) Delivered() bool {
	return o.Kind == OutcomeDelivered
}

// String returns a short human-readable summary.
func (o Outcome) String() string {
	switch o.Kind {
	case OutcomeBlocked, OutcomeOutOfBounds, OutcomeCycle:
		return fmt.Sprintf("%s at %d", o.Kind, o.At)
	default:
		return o.Kind.String()
	}
}

type visit struct {
	index int
	dir   Dir
}

// Simulate traces water from the start cell and reports where it ends up.
//
// Rules:
//  1. The board must hold exactly one start and one end SourceSink cell, else NoPath
//  2. Water leaves the start through its first listed connection (Right if none)
//  3. A step is valid only if the current piece opens towards the heading and the
//     next piece opens back towards it
//  4. On a failed step the current piece is marked Invalid and the run is Blocked
//  5. A two-port piece turns the heading to its port other than the entry side
//
// At most one cell has its Invalid flag set; callers clear flags between runs.
func Simulate(g *Grid) Outcome {
	start, end, ok := g.Endpoints()
	if !ok || len(g.Cells) != g.Rows*g.Cols {
		return Outcome{Kind: OutcomeNoPath, At: -1}
	}

	heading := DirRight
	if conns := g.Cells[start].Connections; len(conns) > 0 {
		heading = conns[0]
	}

	pos := g.Pos(start)
	endPos := g.Pos(end)
	seen := make(map[visit]bool)
	out := Outcome{Path: make([]int, 0, g.Rows*g.Cols)}

	for {
		idx := g.Index(pos)
		cell := g.Cells[idx]
		out.At = idx
		if cell == nil {
			out.Kind = OutcomeBlocked
			return out
		}
		out.Path = append(out.Path, idx)

		if pos == endPos {
			out.Kind = OutcomeDelivered
			return out
		}

		key := visit{index: idx, dir: heading}
		if seen[key] {
			out.Kind = OutcomeCycle
			return out
		}
		seen[key] = true

		nextPos := pos.Step(heading)
		if !g.InBounds(nextPos) {
			out.Kind = OutcomeOutOfBounds
			return out
		}

		next := g.At(nextPos)
		if next == nil || !cell.Has(heading) || !next.Has(heading.Opposite()) {
			cell.Invalid = true
			out.Kind = OutcomeBlocked
			return out
		}

		heading = exitDir(next, heading)
		pos = nextPos
		out.Steps++
	}
}

// exitDir returns the heading after entering next while moving towards heading.
// Two-port pieces leave through the port other than the entry side; straight
// pieces therefore keep the heading. Other pieces (the sink) keep it unchanged.
func exitDir(next *Cell, heading Dir) Dir {
	if len(next.Connections) != 2 {
		return heading
	}
	entry := heading.Opposite()
	for _, d := range next.Connections {
		if d != entry {
			return d
		}
	}
	return heading
}
