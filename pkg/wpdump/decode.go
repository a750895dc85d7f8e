package wpdump

import (
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"
)

// ErrColumnCount reports a row whose field count does not match the table
// layout. Such rows are skipped and counted by the readers, never fatal.
var ErrColumnCount = errors.New("unexpected column count")

// Value is one decoded column value. The distinction between an empty string
// and SQL NULL matters for nullable text columns.
type Value struct {
	Str  string
	Null bool
}

// Row is an ordered list of decoded column values.
type Row []Value

// DecodeRow tokenizes one raw row body and decodes every field: surrounding
// quotes stripped, escape sequences resolved, HTML entities decoded, the bare
// literal NULL mapped to a null value. The field count is validated against
// columns; a mismatch returns ErrColumnCount.
func DecodeRow(raw string, columns int) (Row, error) {
	fields, err := SplitFields(raw)
	if err != nil {
		return nil, err
	}
	if len(fields) != columns {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrColumnCount, len(fields), columns)
	}

	row := make(Row, len(fields))
	for i, f := range fields {
		row[i] = decodeField(f)
	}
	return row, nil
}

// String returns the decoded text of column i; NULL decodes as "".
func (r Row) String(i int) string {
	if i < 0 || i >= len(r) || r[i].Null {
		return ""
	}
	return r[i].Str
}

// NullString returns the text of column i, or nil for NULL.
func (r Row) NullString(i int) *string {
	if i < 0 || i >= len(r) || r[i].Null {
		return nil
	}
	s := r[i].Str
	return &s
}

// Int64 returns column i parsed as an integer. NULL and unparsable values
// return 0; the source schema only stores NULL in columns we never read as
// integers, so the zero fallback keeps row decoding total.
func (r Row) Int64(i int) int64 {
	if i < 0 || i >= len(r) || r[i].Null {
		return 0
	}
	n, err := strconv.ParseInt(strings.TrimSpace(r[i].Str), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// decodeField decodes one raw field token.
func decodeField(tok string) Value {
	if isNullLiteral(tok) {
		return Value{Null: true}
	}
	if len(tok) >= 2 && (tok[0] == '\'' || tok[0] == '"') && tok[len(tok)-1] == tok[0] {
		body := tok[1 : len(tok)-1]
		return Value{Str: html.UnescapeString(unescape(body, tok[0]))}
	}
	// Unquoted token: a number or other bare literal, taken as-is.
	return Value{Str: tok}
}

// isNullLiteral reports whether tok is the unquoted SQL NULL literal.
func isNullLiteral(tok string) bool {
	return len(tok) == 4 && strings.EqualFold(tok, "NULL")
}

// unescape resolves MySQL dump escape sequences inside a string literal body:
// backslash escapes (\', \", \\, \n, \r, \t, \0, \Z, \b) and the doubled
// quote form of the enclosing quote character.
func unescape(body string, quote byte) string {
	if !strings.ContainsAny(body, "\\"+string(quote)) {
		return body
	}

	var b strings.Builder
	b.Grow(len(body))
	for i := 0; i < len(body); i++ {
		c := body[i]
		switch {
		case c == '\\' && i+1 < len(body):
			i++
			switch body[i] {
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			case '0':
				b.WriteByte(0x00)
			case 'Z':
				b.WriteByte(0x1a)
			case 'b':
				b.WriteByte('\b')
			default:
				// \' \" \\ and anything unrecognized: keep the escaped char.
				b.WriteByte(body[i])
			}
		case c == quote && i+1 < len(body) && body[i+1] == quote:
			b.WriteByte(quote)
			i++
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
