// Package core provides the board model and flow simulation for the pipes puzzle.
// This package is UI-agnostic and deterministic.
package core

// Dir represents a direction a pipe port opens towards.
type Dir uint8

const (
	DirUp Dir = iota
	DirRight
	DirDown
	DirLeft
)

// AllDirs returns the four directions in a fixed order.
func AllDirs() []Dir {
	return []Dir{DirUp, DirRight, DirDown, DirLeft}
}

// String returns the persisted tag of a direction.
func (d Dir) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirRight:
		return "right"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	default:
		return "unknown"
	}
}

// ParseDir converts a persisted tag to a Dir.
func ParseDir(s string) (Dir, bool) {
	switch s {
	case "up":
		return DirUp, true
	case "right":
		return DirRight, true
	case "down":
		return DirDown, true
	case "left":
		return DirLeft, true
	default:
		return DirUp, false
	}
}

// Delta returns the (drow, dcol) offset for moving one step in this direction.
func (d Dir) Delta() (dr, dc int) {
	switch d {
	case DirUp:
		return -1, 0
	case DirRight:
		return 0, 1
	case DirDown:
		return 1, 0
	case DirLeft:
		return 0, -1
	default:
		return 0, 0
	}
}

// Opposite returns the opposite direction.
func (d Dir) Opposite() Dir {
	switch d {
	case DirUp:
		return DirDown
	case DirRight:
		return DirLeft
	case DirDown:
		return DirUp
	case DirLeft:
		return DirRight
	default:
		return d
	}
}

// Kind identifies the shape of a pipe piece.
type Kind uint8

const (
	KindSourceSink Kind = iota
	KindHorizontal
	KindVertical
	KindCurve
	KindCurveInvert
	KindCurveInvertY
	KindCurveY
)

// Tag returns the persisted tag of a kind.
func (k Kind) Tag() string {
	switch k {
	case KindSourceSink:
		return "startEnd"
	case KindHorizontal:
		return "horizontal"
	case KindVertical:
		return "vertical"
	case KindCurve:
		return "curve"
	case KindCurveInvert:
		return "curveInvert"
	case KindCurveInvertY:
		return "curveInvertY"
	case KindCurveY:
		return "curveY"
	default:
		return "unknown"
	}
}

// String returns a display name for the kind.
func (k Kind) String() string {
	switch k {
	case KindSourceSink:
		return "Source/Sink"
	case KindHorizontal:
		return "Horizontal"
	case KindVertical:
		return "Vertical"
	case KindCurve:
		return "Curve"
	case KindCurveInvert:
		return "Curve inverted"
	case KindCurveInvertY:
		return "Curve inverted Y"
	case KindCurveY:
		return "Curve Y"
	default:
		return "Unknown"
	}
}

// ParseKind converts a persisted tag to a Kind.
func ParseKind(tag string) (Kind, bool) {
	for _, k := range allKinds {
		if k.Tag() == tag {
			return k, true
		}
	}
	return KindSourceSink, false
}

var allKinds = []Kind{
	KindSourceSink,
	KindHorizontal,
	KindVertical,
	KindCurve,
	KindCurveInvert,
	KindCurveInvertY,
	KindCurveY,
}

// Ports returns the two fixed connection directions of a placeable kind.
// SourceSink has no fixed ports and returns nil.
func (k Kind) Ports() []Dir {
	switch k {
	case KindHorizontal:
		return []Dir{DirLeft, DirRight}
	case KindVertical:
		return []Dir{DirUp, DirDown}
	case KindCurve:
		return []Dir{DirLeft, DirDown}
	case KindCurveInvert:
		return []Dir{DirRight, DirDown}
	case KindCurveInvertY:
		return []Dir{DirUp, DirRight}
	case KindCurveY:
		return []Dir{DirUp, DirLeft}
	default:
		return nil
	}
}

// Palette returns the kinds a player can place, in palette order.
func Palette() []Kind {
	return []Kind{
		KindHorizontal,
		KindVertical,
		KindCurve,
		KindCurveInvert,
		KindCurveY,
		KindCurveInvertY,
	}
}

// Cell is one placed piece on the board.
type Cell struct {
	Kind        Kind
	Connections []Dir
	Invalid     bool // Set by Simulate on the first mis-connected cell
	IsStart     bool
	IsEnd       bool
}

// NewPiece returns a fresh palette piece of the given kind.
func NewPiece(k Kind) *Cell {
	return &Cell{Kind: k, Connections: k.Ports()}
}

// NewSource returns a start cell emitting water towards d.
func NewSource(d Dir) *Cell {
	return &Cell{Kind: KindSourceSink, Connections: []Dir{d}, IsStart: true}
}

// NewSink returns an end cell open on all four sides.
func NewSink() *Cell {
	return &Cell{
		Kind:        KindSourceSink,
		Connections: []Dir{DirLeft, DirRight, DirUp, DirDown},
		IsEnd:       true,
	}
}

// Has reports whether the cell is open towards d.
func (c *Cell) Has(d Dir) bool {
	for _, conn := range c.Connections {
		if conn == d {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the cell.
func (c *Cell) Clone() *Cell {
	if c == nil {
		return nil
	}
	cp := *c
	cp.Connections = append([]Dir(nil), c.Connections...)
	return &cp
}

// Equal reports whether two cells have the same kind, ports and flags.
func (c *Cell) Equal(other *Cell) bool {
	if c == nil || other == nil {
		return c == other
	}
	if c.Kind != other.Kind || c.Invalid != other.Invalid ||
		c.IsStart != other.IsStart || c.IsEnd != other.IsEnd {
		return false
	}
	if len(c.Connections) != len(other.Connections) {
		return false
	}
	for i, d := range c.Connections {
		if other.Connections[i] != d {
			return false
		}
	}
	return true
}
