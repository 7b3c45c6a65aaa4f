package savefile

import (
	"fmt"
	"math"
	"strconv"

	"github.com/vovakirdan/tui-pipes/internal/pipes/core"
)

// MaxCells bounds rows*cols so a hostile document cannot force a huge allocation.
const MaxCells = 1 << 16

// Resolve turns a validated document into a board.
//
// It fails when rows or cols are not positive integers, when the grid length
// differs from rows*cols, or when a type or connection tag is unknown.
func Resolve(cfg ConfigurationGrid) (*core.Grid, error) {
	rows, cols, ok := dimensions(cfg.Rows, cfg.Cols)
	if !ok {
		return nil, &ValidationError{
			Code:  CodeBadDimensions,
			Index: -1,
			Value: fmt.Sprintf("%sx%s", formatNumber(cfg.Rows), formatNumber(cfg.Cols)),
		}
	}
	if len(cfg.Grid) != rows*cols {
		return nil, &ValidationError{
			Code:  CodeSizeMismatch,
			Index: -1,
			Field: strconv.Itoa(len(cfg.Grid)),
			Value: strconv.Itoa(rows * cols),
		}
	}

	g := core.NewGrid(rows, cols)
	for i, raw := range cfg.Grid {
		if raw == nil {
			continue
		}
		cell, err := resolveCell(i, raw)
		if err != nil {
			return nil, err
		}
		g.Cells[i] = cell
	}
	return g, nil
}

func dimensions(rows, cols float64) (int, int, bool) {
	if !isPositiveInt(rows) || !isPositiveInt(cols) {
		return 0, 0, false
	}
	if rows*cols > MaxCells {
		return 0, 0, false
	}
	return int(rows), int(cols), true
}

func isPositiveInt(f float64) bool {
	return f >= 1 && f == math.Trunc(f) && !math.IsInf(f, 0)
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func resolveCell(index int, raw *RawCell) (*core.Cell, error) {
	kind, ok := core.ParseKind(raw.Type)
	if !ok {
		return nil, &ValidationError{Code: CodeUnknownKind, Index: index, Value: strconv.Quote(raw.Type)}
	}

	conns := make([]core.Dir, len(raw.Connections))
	for i, tag := range raw.Connections {
		d, ok := core.ParseDir(tag)
		if !ok {
			return nil, &ValidationError{Code: CodeUnknownDirection, Index: index, Value: strconv.Quote(tag)}
		}
		conns[i] = d
	}

	return &core.Cell{
		Kind:        kind,
		Connections: conns,
		Invalid:     raw.InvalidConnection,
		IsStart:     raw.IsStart,
		IsEnd:       raw.IsEnd,
	}, nil
}
