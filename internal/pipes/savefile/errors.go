package savefile

import "fmt"

// Code identifies why a document was rejected.
type Code string

// Schema codes, checked in this order by Validate.
const (
	CodeMissingOrWrongType Code = "MISSING_OR_WRONG_TYPE"
	CodeNotAnArray         Code = "NOT_AN_ARRAY"
	CodeInvalidElement     Code = "INVALID_ELEMENT"
	CodeUnknownField       Code = "UNKNOWN_FIELD"
)

// Resolution codes, returned by Resolve.
const (
	CodeBadDimensions    Code = "BAD_DIMENSIONS"
	CodeSizeMismatch     Code = "SIZE_MISMATCH"
	CodeUnknownKind      Code = "UNKNOWN_KIND"
	CodeUnknownDirection Code = "UNKNOWN_DIRECTION"
)

// ValidationError rejects a whole document. No partial grid is ever built
// from a document that fails validation.
type ValidationError struct {
	Code  Code
	Field string // Offending field name, if any
	Index int    // Grid slot index, or -1 when the error is not about a slot
	Value string // Offending value rendered as text, if any
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.message())
}

func (e *ValidationError) message() string {
	switch e.Code {
	case CodeMissingOrWrongType:
		return fmt.Sprintf("document must contain field %q with a numeric value", e.Field)
	case CodeNotAnArray:
		return fmt.Sprintf("document must contain field %q as an array", e.Field)
	case CodeInvalidElement:
		return fmt.Sprintf("grid element %d must be null or an object with \"type\", \"connections\" and \"invalidConnection\"", e.Index)
	case CodeUnknownField:
		return fmt.Sprintf("grid element %d has a field that is not allowed: %q", e.Index, e.Field)
	case CodeBadDimensions:
		return fmt.Sprintf("rows and cols must be positive integers, got %s", e.Value)
	case CodeSizeMismatch:
		return fmt.Sprintf("grid has %s slots, rows*cols requires %s", e.Field, e.Value)
	case CodeUnknownKind:
		return fmt.Sprintf("grid element %d has unknown type %s", e.Index, e.Value)
	case CodeUnknownDirection:
		return fmt.Sprintf("grid element %d has unknown connection %s", e.Index, e.Value)
	default:
		return "invalid document"
	}
}
