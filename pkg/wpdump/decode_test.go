package wpdump

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// encodeField renders a value the way mysqldump does: integers bare, strings
// single-quoted with backslash escapes, nil as bare NULL.
func encodeField(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case int:
		return fmt.Sprintf("%d", val)
	case int64:
		return fmt.Sprintf("%d", val)
	case string:
		r := strings.NewReplacer(
			`\`, `\\`,
			`'`, `\'`,
			"\n", `\n`,
			"\r", `\r`,
		)
		return "'" + r.Replace(val) + "'"
	default:
		panic(fmt.Sprintf("encodeField: unsupported type %T", v))
	}
}

func encodeRow(values ...any) string {
	fields := make([]string, len(values))
	for i, v := range values {
		fields[i] = encodeField(v)
	}
	return strings.Join(fields, ",")
}

func TestDecodeRow_Scalars(t *testing.T) {
	row, err := DecodeRow("42,'grip',NULL,'key, grip'", 4)
	require.NoError(t, err)

	assert.Equal(t, int64(42), row.Int64(0))
	assert.Equal(t, "grip", row.String(1))
	assert.Nil(t, row.NullString(2))
	assert.Equal(t, "key, grip", row.String(3))
}

func TestDecodeRow_ColumnCountMismatch(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"too few", "1,'a'"},
		{"too many", "1,'a','b','c'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeRow(tt.raw, 3)
			assert.ErrorIs(t, err, ErrColumnCount)
		})
	}
}

func TestDecodeRow_Escapes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"backslash quote", `'don\'t'`, "don't"},
		{"doubled quote", "'don''t'", "don't"},
		{"double quoted doubled", `"say ""hi"""`, `say "hi"`},
		{"backslash backslash", `'C:\\path'`, `C:\path`},
		{"newline", `'line1\nline2'`, "line1\nline2"},
		{"tab", `'a\tb'`, "a\tb"},
		{"escaped double quote in single", `'he said \"no\"'`, `he said "no"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row, err := DecodeRow(tt.raw, 1)
			require.NoError(t, err)
			assert.Equal(t, tt.want, row.String(0))
		})
	}
}

func TestDecodeRow_HTMLEntities(t *testing.T) {
	row, err := DecodeRow("'Sound &amp; Light','AT&amp;T crew, 2nd unit'", 2)
	require.NoError(t, err)
	assert.Equal(t, "Sound & Light", row.String(0))
	assert.Equal(t, "AT&T crew, 2nd unit", row.String(1))
}

func TestDecodeRow_NullVariants(t *testing.T) {
	row, err := DecodeRow("NULL,null,'NULL'", 3)
	require.NoError(t, err)
	assert.True(t, row[0].Null)
	assert.True(t, row[1].Null, "NULL literal is case insensitive")
	assert.False(t, row[2].Null, "quoted NULL is the string NULL")
	assert.Equal(t, "NULL", row.String(2))
}

// Round-trip: rows encoded the way the export encodes them decode back to
// the original values, across sizes and tricky content.
func TestTokenizeDecode_RoundTrip(t *testing.T) {
	type person struct {
		id   int64
		name string
		bio  *string
	}

	mk := func(s string) *string { return &s }
	people := []person{
		{1, "Ada", mk("likes 'quotes' and, commas")},
		{2, "Bob (camera)", nil},
		{3, `back\slash`, mk("line1\nline2")},
		{4, "O'Neil", mk(`"double" trouble`)},
		{5, "", mk("")},
	}

	for n := 0; n <= len(people); n++ {
		var parts []string
		for _, p := range people[:n] {
			if p.bio == nil {
				parts = append(parts, "("+encodeRow(p.id, p.name, nil)+")")
			} else {
				parts = append(parts, "("+encodeRow(p.id, p.name, *p.bio)+")")
			}
		}
		blob := strings.Join(parts, ",\n")

		sc := NewRowScanner(blob)
		var got []person
		for sc.Next() {
			row, err := DecodeRow(sc.Row(), 3)
			require.NoError(t, err)
			got = append(got, person{row.Int64(0), row.String(1), row.NullString(2)})
		}
		require.NoError(t, sc.Err())

		require.Len(t, got, n)
		for i, p := range people[:n] {
			assert.Equal(t, p.id, got[i].id)
			assert.Equal(t, p.name, got[i].name)
			if p.bio == nil {
				assert.Nil(t, got[i].bio)
			} else {
				require.NotNil(t, got[i].bio)
				assert.Equal(t, *p.bio, *got[i].bio)
			}
		}
	}
}
