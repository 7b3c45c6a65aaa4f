package savefile

import (
	"errors"
	"testing"

	"github.com/vovakirdan/tui-pipes/internal/pipes/jsondoc"
)

func mustDecode(t *testing.T, text string) jsondoc.Value {
	t.Helper()
	v, err := jsondoc.Decode(text)
	if err != nil {
		t.Fatalf("Decode(%q) failed: %v", text, err)
	}
	return v
}

func TestValidateAccepts(t *testing.T) {
	v := mustDecode(t, `{
		"grid": [
			{"type": "startEnd", "connections": ["right"], "invalidConnection": false, "isStart": true},
			null,
			{"type": "horizontal", "connections": ["left", "right"], "invalidConnection": true}
		],
		"rows": 1,
		"cols": 3
	}`)

	cfg, err := Validate(v)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if cfg.Rows != 1 || cfg.Cols != 3 {
		t.Errorf("expected 1x3, got %vx%v", cfg.Rows, cfg.Cols)
	}
	if len(cfg.Grid) != 3 {
		t.Fatalf("expected 3 slots, got %d", len(cfg.Grid))
	}
	if cfg.Grid[1] != nil {
		t.Error("expected slot 1 to be empty")
	}
	start := cfg.Grid[0]
	if start.Type != "startEnd" || !start.IsStart || start.IsEnd {
		t.Errorf("unexpected start cell %+v", start)
	}
	if !cfg.Grid[2].InvalidConnection {
		t.Error("expected invalidConnection to be kept")
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		code  Code
		field string
		index int
	}{
		{"not an object", `[1,2]`, CodeMissingOrWrongType, FieldRows, -1},
		{"missing rows", `{"cols":1,"grid":[]}`, CodeMissingOrWrongType, FieldRows, -1},
		{"string rows", `{"rows":"1","cols":1,"grid":[]}`, CodeMissingOrWrongType, FieldRows, -1},
		{"missing cols", `{"rows":1,"grid":[]}`, CodeMissingOrWrongType, FieldCols, -1},
		{"missing grid", `{"rows":1,"cols":1}`, CodeNotAnArray, FieldGrid, -1},
		{"object grid", `{"rows":1,"cols":1,"grid":{}}`, CodeNotAnArray, FieldGrid, -1},
		{"number element", `{"rows":1,"cols":2,"grid":[null,5]}`, CodeInvalidElement, "", 1},
		{"array element", `{"rows":1,"cols":1,"grid":[[]]}`, CodeInvalidElement, "", 0},
		{
			"extra field",
			`{"rows":1,"cols":1,"grid":[{"type":"x","connections":[],"invalidConnection":false,"extra":1}]}`,
			CodeUnknownField, "extra", 0,
		},
		{"missing type", `{"rows":1,"cols":1,"grid":[{"connections":[],"invalidConnection":false}]}`, CodeInvalidElement, "", 0},
		{"numeric type", `{"rows":1,"cols":1,"grid":[{"type":1,"connections":[],"invalidConnection":false}]}`, CodeInvalidElement, "", 0},
		{"string connections", `{"rows":1,"cols":1,"grid":[{"type":"x","connections":"left","invalidConnection":false}]}`, CodeInvalidElement, "", 0},
		{"missing invalidConnection", `{"rows":1,"cols":1,"grid":[{"type":"x","connections":[]}]}`, CodeInvalidElement, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate(mustDecode(t, tt.doc))
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if ve.Code != tt.code {
				t.Errorf("code = %s, want %s", ve.Code, tt.code)
			}
			if ve.Field != tt.field {
				t.Errorf("field = %q, want %q", ve.Field, tt.field)
			}
			if ve.Index != tt.index {
				t.Errorf("index = %d, want %d", ve.Index, tt.index)
			}
		})
	}
}

func TestValidateShortCircuitsInOrder(t *testing.T) {
	// Both an unknown field (element 0) and a bad element (element 1):
	// the first element is reported.
	doc := `{"rows":1,"cols":2,"grid":[{"type":"x","connections":[],"invalidConnection":false,"bad":true},7]}`
	_, err := Validate(mustDecode(t, doc))
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Code != CodeUnknownField || ve.Index != 0 {
		t.Fatalf("expected UNKNOWN_FIELD at 0, got %v", err)
	}

	// Rule 1 fires before rule 2.
	_, err = Validate(mustDecode(t, `{"grid":5}`))
	if !errors.As(err, &ve) || ve.Code != CodeMissingOrWrongType {
		t.Fatalf("expected MISSING_OR_WRONG_TYPE, got %v", err)
	}
}

func TestValidateLeavesTagsUnchecked(t *testing.T) {
	doc := `{"rows":3,"cols":3,"grid":[{"type":"tee","connections":["north",1],"invalidConnection":false,"isStart":"yes"}]}`

	cfg, err := Validate(mustDecode(t, doc))
	if err != nil {
		t.Fatalf("Validate should not check tags or length: %v", err)
	}
	cell := cfg.Grid[0]
	if cell.Type != "tee" {
		t.Errorf("expected raw type kept, got %q", cell.Type)
	}
	if len(cell.Connections) != 2 || cell.Connections[0] != "north" || cell.Connections[1] != "1" {
		t.Errorf("unexpected connections %v", cell.Connections)
	}
	if cell.IsStart {
		t.Error("a non-boolean isStart should not count as set")
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Code: CodeUnknownField, Field: "extra", Index: 3}
	want := `[UNKNOWN_FIELD] grid element 3 has a field that is not allowed: "extra"`
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}
