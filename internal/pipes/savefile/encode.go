package savefile

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/vovakirdan/tui-pipes/internal/pipes/core"
)

// fileCell is the persisted shape of one piece.
type fileCell struct {
	Type              string   `json:"type"`
	Connections       []string `json:"connections"`
	InvalidConnection bool     `json:"invalidConnection"`
	IsStart           bool     `json:"isStart,omitempty"`
	IsEnd             bool     `json:"isEnd,omitempty"`
}

// fileGrid is the persisted shape of a board.
type fileGrid struct {
	Grid []*fileCell `json:"grid"`
	Rows int         `json:"rows"`
	Cols int         `json:"cols"`
}

// Encode writes a board in the persisted format.
func Encode(g *core.Grid) ([]byte, error) {
	doc := fileGrid{
		Grid: make([]*fileCell, len(g.Cells)),
		Rows: g.Rows,
		Cols: g.Cols,
	}
	for i, c := range g.Cells {
		if c == nil {
			continue
		}
		fc := &fileCell{
			Type:              c.Kind.Tag(),
			Connections:       make([]string, len(c.Connections)),
			InvalidConnection: c.Invalid,
			IsStart:           c.IsStart,
			IsEnd:             c.IsEnd,
		}
		for j, d := range c.Connections {
			fc.Connections[j] = d.String()
		}
		doc.Grid[i] = fc
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encoding board: %w", err)
	}
	return buf.Bytes(), nil
}
