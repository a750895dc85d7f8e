// Package wpdump parses the mysqldump text export of the legacy WordPress
// backend into typed source rows. It locates each table's bulk INSERT
// statements, tokenizes their VALUES blocks, and decodes fields according to
// configured column layouts. Nothing in this package touches the destination
// store; decoding problems surface as per-row diagnostics, not errors.
package wpdump

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
)

// Dump is one loaded export file. The file is read fully into memory: exports
// are bounded (tens of megabytes) and several consumers need random access
// across tables that sit far apart in the file.
type Dump struct {
	path   string
	prefix string
	lines  []string
	logger *zap.Logger
}

// Statement is the inclusive line range of one bulk INSERT statement.
type Statement struct {
	Table string // full table name, prefix included
	Begin int
	End   int
}

// Open reads the dump file at path. prefix is the site's table-name prefix,
// underscore included (for example "wp_k7x2q_"). A nil logger disables
// logging.
func Open(path, prefix string, logger *zap.Logger) (*Dump, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dump file: %w", err)
	}

	lines := strings.Split(string(data), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}

	logger.Debug("Loaded dump file",
		zap.String("path", path),
		zap.String("prefix", prefix),
		zap.Int("bytes", len(data)),
		zap.Int("lines", len(lines)),
	)

	return &Dump{path: path, prefix: prefix, lines: lines, logger: logger}, nil
}

// Path returns the dump file path.
func (d *Dump) Path() string {
	return d.path
}

// TableName returns the full, prefixed name of a logical table.
func (d *Dump) TableName(logical string) string {
	return d.prefix + logical
}

// Statements locates every bulk INSERT statement for a logical table. The
// begin marker is a line containing INSERT INTO plus the table name; the end
// marker is the first line, from the begin line onward, whose trimmed content
// ends with the statement terminator. A begin without an end means the
// statement is truncated and is ignored, so a missing or damaged table reads
// as zero rows rather than failing the run. Statements routinely span
// thousands of lines; the scan is linear and line-based on purpose, since a
// whole-file regex is both infeasible at dump sizes and fragile to
// terminator-like text inside string literals.
func (d *Dump) Statements(logical string) []Statement {
	table := d.TableName(logical)
	// Both the backtick-quoted and bare spellings occur across mysqldump
	// configurations.
	markers := []string{
		"INSERT INTO `" + table + "`",
		"INSERT INTO " + table + " ",
	}

	var stmts []Statement
	for i := 0; i < len(d.lines); i++ {
		if !lineHasMarker(d.lines[i], markers) {
			continue
		}
		end := -1
		for j := i; j < len(d.lines); j++ {
			if strings.HasSuffix(strings.TrimSpace(d.lines[j]), ";") {
				end = j
				break
			}
		}
		if end == -1 {
			d.logger.Warn("Unterminated INSERT statement, treating table as absent from here on",
				zap.String("table", table),
				zap.Int("line", i+1),
			)
			break
		}
		stmts = append(stmts, Statement{Table: table, Begin: i, End: end})
		i = end
	}

	if len(stmts) == 0 {
		d.logger.Debug("No INSERT statements found", zap.String("table", table))
	}
	return stmts
}

// Values returns the VALUES portion of a statement: everything after the
// VALUES keyword, with the trailing terminator removed. Returns "" when the
// statement has no VALUES clause.
func (d *Dump) Values(st Statement) string {
	text := strings.Join(d.lines[st.Begin:st.End+1], "\n")

	idx := indexFold(text, "VALUES")
	if idx == -1 {
		return ""
	}
	blob := text[idx+len("VALUES"):]
	blob = strings.TrimSpace(blob)
	blob = strings.TrimSuffix(blob, ";")
	return blob
}

func lineHasMarker(line string, markers []string) bool {
	if !strings.Contains(line, "INSERT INTO") {
		return false
	}
	for _, m := range markers {
		if strings.Contains(line, m) {
			return true
		}
	}
	return false
}

// indexFold returns the index of the first ASCII case-insensitive occurrence
// of sub in s, or -1.
func indexFold(s, sub string) int {
	n := len(sub)
	if n == 0 {
		return 0
	}
	for i := 0; i+n <= len(s); i++ {
		if strings.EqualFold(s[i:i+n], sub) {
			return i
		}
	}
	return -1
}
