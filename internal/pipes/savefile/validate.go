// Package savefile converts between boards and the persisted JSON document.
//
// Loading runs three steps, each with its own error family:
//
//	text -> jsondoc.Decode -> Validate -> Resolve -> *core.Grid
//
// Validate checks the document shape only and keeps piece and direction tags as
// raw strings; Resolve maps them onto the closed core.Kind and core.Dir sets.
package savefile

import (
	"github.com/vovakirdan/tui-pipes/internal/pipes/jsondoc"
)

// Persisted field names.
const (
	FieldRows              = "rows"
	FieldCols              = "cols"
	FieldGrid              = "grid"
	FieldType              = "type"
	FieldConnections       = "connections"
	FieldInvalidConnection = "invalidConnection"
	FieldIsStart           = "isStart"
	FieldIsEnd             = "isEnd"
)

var allowedCellFields = map[string]bool{
	FieldType:              true,
	FieldConnections:       true,
	FieldInvalidConnection: true,
	FieldIsStart:           true,
	FieldIsEnd:             true,
}

// RawCell is a grid element that passed schema validation.
// Type and Connections are not yet checked against the known tags.
type RawCell struct {
	Type              string
	Connections       []string
	InvalidConnection bool
	IsStart           bool
	IsEnd             bool
}

// ConfigurationGrid is a validated document. Rows and Cols are whatever
// numbers the document held; the slot count is not checked against them.
type ConfigurationGrid struct {
	Rows float64
	Cols float64
	Grid []*RawCell // nil entries are empty slots
}

// Validate confirms that v has the persisted-grid shape.
//
// Checks, in order (the first failure is returned):
//  1. v is an object with numeric "rows" and "cols"
//  2. "grid" is an array
//  3. every element is null or an object
//  4. object elements only use the allowed field names
//  5. object elements have a string "type", an array "connections" and a
//     boolean "invalidConnection"
//
// "isStart" and "isEnd" count as set only when they hold true. Connection
// entries that are not strings are kept as their JSON text so Resolve can
// report them.
func Validate(v jsondoc.Value) (ConfigurationGrid, error) {
	var cfg ConfigurationGrid

	obj, _ := v.AsObject()
	rows, ok := numberField(obj, FieldRows)
	if !ok {
		return cfg, &ValidationError{Code: CodeMissingOrWrongType, Field: FieldRows, Index: -1}
	}
	cols, ok := numberField(obj, FieldCols)
	if !ok {
		return cfg, &ValidationError{Code: CodeMissingOrWrongType, Field: FieldCols, Index: -1}
	}
	cfg.Rows = rows
	cfg.Cols = cols

	gridValue, _ := obj.Get(FieldGrid)
	items, ok := gridValue.AsArray()
	if !ok {
		return cfg, &ValidationError{Code: CodeNotAnArray, Field: FieldGrid, Index: -1}
	}

	cfg.Grid = make([]*RawCell, len(items))
	for i, item := range items {
		if item.IsNull() {
			continue
		}
		cell, err := validateCell(i, item)
		if err != nil {
			return ConfigurationGrid{}, err
		}
		cfg.Grid[i] = cell
	}

	return cfg, nil
}

func numberField(obj *jsondoc.Object, name string) (float64, bool) {
	if obj == nil {
		return 0, false
	}
	v, ok := obj.Get(name)
	if !ok {
		return 0, false
	}
	return v.AsNumber()
}

func validateCell(index int, item jsondoc.Value) (*RawCell, error) {
	obj, ok := item.AsObject()
	if !ok {
		return nil, &ValidationError{Code: CodeInvalidElement, Index: index}
	}

	for _, key := range obj.Keys() {
		if !allowedCellFields[key] {
			return nil, &ValidationError{Code: CodeUnknownField, Field: key, Index: index}
		}
	}

	typeValue, _ := obj.Get(FieldType)
	connsValue, _ := obj.Get(FieldConnections)
	invalidValue, _ := obj.Get(FieldInvalidConnection)

	kind, okType := typeValue.AsString()
	conns, okConns := connsValue.AsArray()
	invalid, okInvalid := invalidValue.AsBool()
	if !okType || !okConns || !okInvalid {
		return nil, &ValidationError{Code: CodeInvalidElement, Index: index}
	}

	cell := &RawCell{
		Type:              kind,
		Connections:       make([]string, len(conns)),
		InvalidConnection: invalid,
		IsStart:           isTrue(obj, FieldIsStart),
		IsEnd:             isTrue(obj, FieldIsEnd),
	}
	for i, c := range conns {
		if s, ok := c.AsString(); ok {
			cell.Connections[i] = s
		} else {
			cell.Connections[i] = c.String()
		}
	}
	return cell, nil
}

func isTrue(obj *jsondoc.Object, name string) bool {
	v, ok := obj.Get(name)
	if !ok {
		return false
	}
	b, ok := v.AsBool()
	return ok && b
}
