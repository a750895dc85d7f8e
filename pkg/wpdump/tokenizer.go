package wpdump

import (
	"errors"
	"strings"
)

// Tokenizer errors surfaced through RowScanner.Err. Both indicate a truncated
// or corrupted statement tail; callers treat them as row-level diagnostics,
// not run failures.
var (
	ErrUnterminatedRow   = errors.New("unterminated row: end of input inside parenthesis group")
	ErrUnterminatedQuote = errors.New("unterminated quote: end of input inside string literal")
)

// RowScanner splits the VALUES text of one bulk INSERT statement into raw row
// strings, one per top-level parenthesis group. It follows the bufio.Scanner
// idiom:
//
//	sc := NewRowScanner(blob)
//	for sc.Next() {
//	    row := sc.Row()
//	    ...
//	}
//	if err := sc.Err(); err != nil { ... }
//
// The scan is a single forward pass. Parentheses and commas inside quoted
// string literals do not count; both single- and double-quoted literals are
// recognized, with backslash-escaped and doubled quote characters treated as
// literal quotes rather than terminators.
type RowScanner struct {
	input string
	pos   int
	row   string
	err   error
}

// NewRowScanner returns a scanner over the VALUES portion of an INSERT
// statement. The input may span what were originally many physical lines.
func NewRowScanner(values string) *RowScanner {
	return &RowScanner{input: values}
}

// Next advances to the next row. It returns false when the input is
// exhausted or a tokenizer error occurred (see Err).
func (s *RowScanner) Next() bool {
	if s.err != nil {
		return false
	}

	// Skip separators between groups: commas, whitespace, and the statement
	// terminator. Anything outside a parenthesis group is structural.
	for s.pos < len(s.input) {
		c := s.input[s.pos]
		if c == '(' {
			break
		}
		s.pos++
	}
	if s.pos >= len(s.input) {
		return false
	}

	start := s.pos + 1 // exclude the opening paren
	depth := 0
	i := s.pos
	for i < len(s.input) {
		c := s.input[i]
		switch c {
		case '\'', '"':
			end, ok := skipQuoted(s.input, i)
			if !ok {
				s.err = ErrUnterminatedQuote
				return false
			}
			i = end
			continue
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				s.row = s.input[start:i]
				s.pos = i + 1
				return true
			}
		}
		i++
	}

	s.err = ErrUnterminatedRow
	return false
}

// Row returns the body of the current row, without the enclosing parentheses.
// Valid until the next call to Next.
func (s *RowScanner) Row() string {
	return s.row
}

// Err returns the first tokenizer error encountered, if any.
func (s *RowScanner) Err() error {
	return s.err
}

// SplitFields splits one raw row body on top-level commas, using the same
// quote and escape rules as the row scan. Nested parentheses (function calls
// in defaults, etc.) do not split. The returned tokens are still in source
// form: quoted, escaped, or the bare literal NULL.
func SplitFields(row string) ([]string, error) {
	var fields []string
	var current strings.Builder
	depth := 0

	i := 0
	for i < len(row) {
		c := row[i]
		switch c {
		case '\'', '"':
			end, ok := skipQuoted(row, i)
			if !ok {
				return nil, ErrUnterminatedQuote
			}
			current.WriteString(row[i:end])
			i = end
			continue
		case '(':
			depth++
			current.WriteByte(c)
		case ')':
			depth--
			current.WriteByte(c)
		case ',':
			if depth == 0 {
				fields = append(fields, strings.TrimSpace(current.String()))
				current.Reset()
			} else {
				current.WriteByte(c)
			}
		default:
			current.WriteByte(c)
		}
		i++
	}
	fields = append(fields, strings.TrimSpace(current.String()))

	return fields, nil
}

// skipQuoted scans a quoted literal starting at row[i] (which must be the
// opening quote) and returns the index just past the closing quote. Inside
// the literal, a backslash escapes the following character, and a doubled
// quote character is a literal quote. A backslash-escaped quote immediately
// followed by the closing quote therefore still terminates correctly.
func skipQuoted(s string, i int) (end int, ok bool) {
	quote := s[i]
	i++
	for i < len(s) {
		switch s[i] {
		case '\\':
			i += 2 // escaped character, may itself be a quote
		case quote:
			if i+1 < len(s) && s[i+1] == quote {
				i += 2 // doubled quote, stays inside the literal
				continue
			}
			return i + 1, true
		default:
			i++
		}
	}
	return i, false
}
