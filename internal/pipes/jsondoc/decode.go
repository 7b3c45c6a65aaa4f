package jsondoc

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// DefaultMaxDepth bounds array/object nesting when no option is given.
const DefaultMaxDepth = 512

// Options tunes the decoder.
type Options struct {
	// MaxDepth is the deepest array/object nesting accepted. Zero or negative
	// disables the limit.
	MaxDepth int
}

// DefaultOptions returns the options used by Decode.
func DefaultOptions() Options {
	return Options{MaxDepth: DefaultMaxDepth}
}

// Decode parses text as exactly one JSON value followed by optional whitespace.
//
// Differences from RFC 8259 the persisted format relies on:
//   - Whitespace is space, tab and newline only (no carriage return)
//   - A backslash copies the following character verbatim (no \n or \uXXXX)
//   - A number is the longest run of 0-9 . - e E, read as its longest float prefix
//   - Input must be valid UTF-8; the first bad byte is an unexpected token
func Decode(text string) (Value, error) {
	return DecodeWithOptions(text, DefaultOptions())
}

// DecodeWithOptions is Decode with explicit options.
func DecodeWithOptions(text string, opts Options) (Value, error) {
	src, err := toRunes(text)
	if err != nil {
		return Value{}, err
	}
	d := &decoder{
		src:      src,
		line:     1,
		maxDepth: opts.MaxDepth,
	}

	v, err := d.value()
	if err != nil {
		return Value{}, err
	}

	d.skipWhitespace()
	if r, ok := d.peek(); ok {
		return Value{}, d.unexpected(d.here(), r, "end of input")
	}
	return v, nil
}

// toRunes splits text into characters, rejecting the first byte that is not
// part of a valid UTF-8 sequence at the position the decoder would report.
func toRunes(text string) ([]rune, error) {
	src := make([]rune, 0, len(text))
	line, column := 1, 0
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if r == utf8.RuneError && size == 1 {
			return nil, &DecodeError{
				Kind:     ErrUnexpectedToken,
				Line:     line,
				Column:   column + 1,
				Char:     utf8.RuneError,
				Expected: "valid UTF-8",
			}
		}
		src = append(src, r)
		if r == '\n' {
			line++
			column = 0
		} else {
			column++
		}
		i += size
	}
	return src, nil
}

type position struct {
	line   int
	column int
}

// decoder holds the scan state. column counts characters consumed on the
// current line, so the next character sits at column+1.
type decoder struct {
	src      []rune
	pos      int
	line     int
	column   int
	depth    int
	maxDepth int
}

func (d *decoder) here() position {
	return position{line: d.line, column: d.column + 1}
}

func (d *decoder) peek() (rune, bool) {
	if d.pos >= len(d.src) {
		return 0, false
	}
	return d.src[d.pos], true
}

func (d *decoder) next() (rune, bool) {
	if d.pos >= len(d.src) {
		return 0, false
	}
	r := d.src[d.pos]
	d.pos++
	if r == '\n' {
		d.line++
		d.column = 0
	} else {
		d.column++
	}
	return r, true
}

func (d *decoder) skipWhitespace() {
	for {
		r, ok := d.peek()
		if !ok || (r != ' ' && r != '\t' && r != '\n') {
			return
		}
		d.next()
	}
}

func (d *decoder) unexpected(at position, r rune, expected string) error {
	return &DecodeError{
		Kind:     ErrUnexpectedToken,
		Line:     at.line,
		Column:   at.column,
		Char:     r,
		Expected: expected,
	}
}

func (d *decoder) eof(expected string) error {
	at := d.here()
	return &DecodeError{
		Kind:     ErrUnexpectedEOF,
		Line:     at.line,
		Column:   at.column,
		Expected: expected,
	}
}

// consume reads the next significant character and requires it to be want.
func (d *decoder) consume(want rune, expected string) error {
	d.skipWhitespace()
	at := d.here()
	r, ok := d.next()
	if !ok {
		return d.eof(expected)
	}
	if r != want {
		return d.unexpected(at, r, expected)
	}
	return nil
}

func (d *decoder) enter(at position) error {
	d.depth++
	if d.maxDepth > 0 && d.depth > d.maxDepth {
		return &DecodeError{Kind: ErrTooDeep, Line: at.line, Column: at.column}
	}
	return nil
}

func (d *decoder) leave() {
	d.depth--
}

func (d *decoder) value() (Value, error) {
	d.skipWhitespace()
	at := d.here()
	r, ok := d.next()
	if !ok {
		return Value{}, d.eof("value")
	}

	switch {
	case r == '{':
		return d.object(at)
	case r == '[':
		return d.array(at)
	case r == '"':
		s, err := d.str()
		if err != nil {
			return Value{}, err
		}
		return String(s), nil
	case r == '-' || isDigit(r):
		return d.number(r), nil
	case r == 't' || r == 'f' || r == 'n':
		return d.literal(r)
	default:
		return Value{}, d.unexpected(at, r, "")
	}
}

func (d *decoder) object(at position) (Value, error) {
	if err := d.enter(at); err != nil {
		return Value{}, err
	}
	defer d.leave()

	obj := NewObject()
	d.skipWhitespace()
	if r, ok := d.peek(); ok && r == '}' {
		d.next()
		return ObjectValue(obj), nil
	}

	for {
		if err := d.consume('"', `'"'`); err != nil {
			return Value{}, err
		}
		key, err := d.str()
		if err != nil {
			return Value{}, err
		}
		if err := d.consume(':', "':'"); err != nil {
			return Value{}, err
		}
		v, err := d.value()
		if err != nil {
			return Value{}, err
		}
		obj.Set(key, v)

		d.skipWhitespace()
		sepAt := d.here()
		r, ok := d.next()
		if !ok {
			return Value{}, d.eof("',' or '}'")
		}
		switch r {
		case ',':
			continue
		case '}':
			return ObjectValue(obj), nil
		default:
			return Value{}, d.unexpected(sepAt, r, "',' or '}'")
		}
	}
}

func (d *decoder) array(at position) (Value, error) {
	if err := d.enter(at); err != nil {
		return Value{}, err
	}
	defer d.leave()

	items := []Value{}
	d.skipWhitespace()
	if r, ok := d.peek(); ok && r == ']' {
		d.next()
		return Array(items...), nil
	}

	for {
		v, err := d.value()
		if err != nil {
			return Value{}, err
		}
		items = append(items, v)

		d.skipWhitespace()
		sepAt := d.here()
		r, ok := d.next()
		if !ok {
			return Value{}, d.eof("',' or ']'")
		}
		switch r {
		case ',':
			continue
		case ']':
			return Array(items...), nil
		default:
			return Value{}, d.unexpected(sepAt, r, "',' or ']'")
		}
	}
}

// str reads the rest of a string whose opening quote was consumed.
func (d *decoder) str() (string, error) {
	var sb strings.Builder
	for {
		r, ok := d.next()
		if !ok {
			return "", d.unterminated()
		}
		switch r {
		case '"':
			return sb.String(), nil
		case '\\':
			escaped, ok := d.next()
			if !ok {
				return "", d.unterminated()
			}
			sb.WriteRune(escaped)
		default:
			sb.WriteRune(r)
		}
	}
}

func (d *decoder) unterminated() error {
	at := d.here()
	return &DecodeError{Kind: ErrUnterminatedString, Line: at.line, Column: at.column}
}

func (d *decoder) number(first rune) Value {
	var sb strings.Builder
	sb.WriteRune(first)
	for {
		r, ok := d.peek()
		if !ok || !isNumberRune(r) {
			break
		}
		d.next()
		sb.WriteRune(r)
	}
	return Number(parseFloatPrefix(sb.String()))
}

// parseFloatPrefix reads the longest prefix of s that is a valid float.
// Runs with no valid prefix, such as "-", yield NaN. Overflow yields ±Inf.
func parseFloatPrefix(s string) float64 {
	end := floatPrefixLen(s)
	if end == 0 {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(s[:end], 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return math.NaN()
	}
	return f
}

// floatPrefixLen scans [-]digits[.digits][(e|E)[-]digits] once and returns
// the length of the longest prefix in that shape, or 0 when the mantissa has
// no digit.
func floatPrefixLen(s string) int {
	i := 0
	if i < len(s) && s[i] == '-' {
		i++
	}
	digits := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
			digits++
		}
	}
	if digits == 0 {
		return 0
	}
	end := i
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && s[j] == '-' {
			j++
		}
		start := j
		for j < len(s) && s[j] >= '0' && s[j] <= '9' {
			j++
		}
		if j > start {
			end = j
		}
	}
	return end
}

var literals = map[rune]struct {
	word  string
	value Value
}{
	't': {"true", Bool(true)},
	'f': {"false", Bool(false)},
	'n': {"null", Null()},
}

// literal matches the rest of true, false or null after its first character.
func (d *decoder) literal(first rune) (Value, error) {
	lit := literals[first]
	expected := "'" + lit.word + "'"
	for _, want := range lit.word[1:] {
		at := d.here()
		r, ok := d.peek()
		if !ok {
			return Value{}, d.eof(expected)
		}
		if r != want {
			return Value{}, d.unexpected(at, r, expected)
		}
		d.next()
	}
	return lit.value, nil
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isNumberRune(r rune) bool {
	return isDigit(r) || r == '.' || r == '-' || r == 'e' || r == 'E'
}
