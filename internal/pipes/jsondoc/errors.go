package jsondoc

import "fmt"

// ErrorKind classifies a decode failure.
type ErrorKind uint8

const (
	ErrUnexpectedToken    ErrorKind = iota // A character that cannot start or continue the current construct
	ErrUnterminatedString                  // Input ended inside a string
	ErrUnexpectedEOF                       // Input ended where a token was required
	ErrTooDeep                             // Nesting exceeded Options.MaxDepth
)

// String returns a short name for the error kind.
func (k ErrorKind) String() string {
	switch k {
	case ErrUnexpectedToken:
		return "unexpected token"
	case ErrUnterminatedString:
		return "unterminated string"
	case ErrUnexpectedEOF:
		return "unexpected end of input"
	case ErrTooDeep:
		return "nesting too deep"
	default:
		return "unknown error"
	}
}

// DecodeError describes the first position the decoder could not accept.
// Line and Column are 1-based and point at the offending character, or one
// past the last character when input ran out.
type DecodeError struct {
	Kind     ErrorKind
	Line     int
	Column   int
	Char     rune   // Offending character; zero for end of input
	Expected string // What the decoder was looking for, if known
}

func (e *DecodeError) Error() string {
	msg := fmt.Sprintf("%s at line %d, column %d", e.Kind, e.Line, e.Column)
	if e.Kind == ErrUnexpectedToken {
		msg = fmt.Sprintf("%s %q at line %d, column %d", e.Kind, e.Char, e.Line, e.Column)
	}
	if e.Expected != "" {
		msg += fmt.Sprintf(" (expected %s)", e.Expected)
	}
	return msg
}
