package wpdump

import (
	"time"

	"go.uber.org/zap"
)

// Term is one row of the terms table: a named thing (skill, brand, language)
// before classification.
type Term struct {
	ID    int64
	Name  string
	Slug  string
	Group int64
}

// TermTaxonomy classifies a term under a taxonomy and gives it an optional
// parent (0 at the root) plus the usage count the legacy site maintained.
type TermTaxonomy struct {
	ID          int64
	TermID      int64
	Taxonomy    string
	Description string
	Parent      int64
	Count       int64
}

// TermRelationship is a many-to-many edge between an object (user id or post
// id, inconsistently) and a term taxonomy entry.
type TermRelationship struct {
	ObjectID       int64
	TermTaxonomyID int64
	Order          int64
}

// Post is one row of the posts table. The legacy site used the post_type
// column to distinguish job postings from crew profile records.
type Post struct {
	ID         int64
	AuthorID   int64
	CreatedAt  time.Time
	ModifiedAt time.Time
	Content    string
	Title      string
	Excerpt    string
	Status     string
	Slug       string
	ParentID   int64
	Type       string
}

// Meta is one ad-hoc key/value attribute row, attached to a post or a user
// depending on which table it came from.
type Meta struct {
	OwnerID int64
	Key     string
	Value   string
}

// User is one row of the users table.
type User struct {
	ID           int64
	Login        string
	PassHash     string
	Slug         string
	Email        string
	URL          string
	RegisteredAt time.Time
	DisplayName  string
}

// ReadStats summarizes one table read. Skipped counts rows dropped for
// malformed tokenization or a column-count mismatch; the run always
// continues.
type ReadStats struct {
	Statements int
	Rows       int
	Skipped    int
}

// Reader decodes the source tables of one dump according to the configured
// layouts.
type Reader struct {
	dump    *Dump
	layouts *Layouts
	logger  *zap.Logger
}

// NewReader creates a Reader. A nil logger disables logging.
func NewReader(dump *Dump, layouts *Layouts, logger *zap.Logger) *Reader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reader{dump: dump, layouts: layouts, logger: logger}
}

// readTable runs the tokenize/decode loop over every statement of a logical
// table, invoking fn for each well-formed row.
func (r *Reader) readTable(logical string, fn func(Row)) ReadStats {
	layout := r.layouts.table(logical)

	var stats ReadStats
	for _, st := range r.dump.Statements(logical) {
		stats.Statements++
		sc := NewRowScanner(r.dump.Values(st))
		for sc.Next() {
			row, err := DecodeRow(sc.Row(), layout.Columns)
			if err != nil {
				stats.Skipped++
				r.logger.Debug("Skipping malformed row",
					zap.String("table", st.Table),
					zap.Error(err),
				)
				continue
			}
			fn(row)
			stats.Rows++
		}
		if err := sc.Err(); err != nil {
			stats.Skipped++
			r.logger.Warn("Row tokenizer stopped before end of statement",
				zap.String("table", st.Table),
				zap.Error(err),
			)
		}
	}

	r.logger.Debug("Read table",
		zap.String("table", r.dump.TableName(logical)),
		zap.Int("statements", stats.Statements),
		zap.Int("rows", stats.Rows),
		zap.Int("skipped", stats.Skipped),
	)
	return stats
}

// Terms reads all rows of the terms table.
func (r *Reader) Terms() ([]Term, ReadStats) {
	t := r.layouts.table("terms")
	var out []Term
	stats := r.readTable("terms", func(row Row) {
		out = append(out, Term{
			ID:    row.Int64(t.col("term_id")),
			Name:  row.String(t.col("name")),
			Slug:  row.String(t.col("slug")),
			Group: row.Int64(t.col("term_group")),
		})
	})
	return out, stats
}

// TermTaxonomies reads all rows of the term_taxonomy table.
func (r *Reader) TermTaxonomies() ([]TermTaxonomy, ReadStats) {
	t := r.layouts.table("term_taxonomy")
	var out []TermTaxonomy
	stats := r.readTable("term_taxonomy", func(row Row) {
		out = append(out, TermTaxonomy{
			ID:          row.Int64(t.col("term_taxonomy_id")),
			TermID:      row.Int64(t.col("term_id")),
			Taxonomy:    row.String(t.col("taxonomy")),
			Description: row.String(t.col("description")),
			Parent:      row.Int64(t.col("parent")),
			Count:       row.Int64(t.col("count")),
		})
	})
	return out, stats
}

// TermRelationships reads all rows of the term_relationships table.
func (r *Reader) TermRelationships() ([]TermRelationship, ReadStats) {
	t := r.layouts.table("term_relationships")
	var out []TermRelationship
	stats := r.readTable("term_relationships", func(row Row) {
		out = append(out, TermRelationship{
			ObjectID:       row.Int64(t.col("object_id")),
			TermTaxonomyID: row.Int64(t.col("term_taxonomy_id")),
			Order:          row.Int64(t.col("term_order")),
		})
	})
	return out, stats
}

// Posts reads all rows of the posts table.
func (r *Reader) Posts() ([]Post, ReadStats) {
	t := r.layouts.table("posts")
	var out []Post
	stats := r.readTable("posts", func(row Row) {
		out = append(out, Post{
			ID:         row.Int64(t.col("id")),
			AuthorID:   row.Int64(t.col("post_author")),
			CreatedAt:  parseTime(row.String(t.col("post_date"))),
			ModifiedAt: parseTime(row.String(t.col("post_modified"))),
			Content:    row.String(t.col("post_content")),
			Title:      row.String(t.col("post_title")),
			Excerpt:    row.String(t.col("post_excerpt")),
			Status:     row.String(t.col("post_status")),
			Slug:       row.String(t.col("post_name")),
			ParentID:   row.Int64(t.col("post_parent")),
			Type:       row.String(t.col("post_type")),
		})
	})
	return out, stats
}

// PostMeta reads all rows of the postmeta table.
func (r *Reader) PostMeta() ([]Meta, ReadStats) {
	t := r.layouts.table("postmeta")
	var out []Meta
	stats := r.readTable("postmeta", func(row Row) {
		out = append(out, Meta{
			OwnerID: row.Int64(t.col("post_id")),
			Key:     row.String(t.col("meta_key")),
			Value:   row.String(t.col("meta_value")),
		})
	})
	return out, stats
}

// Users reads all rows of the users table.
func (r *Reader) Users() ([]User, ReadStats) {
	t := r.layouts.table("users")
	var out []User
	stats := r.readTable("users", func(row Row) {
		out = append(out, User{
			ID:           row.Int64(t.col("id")),
			Login:        row.String(t.col("user_login")),
			PassHash:     row.String(t.col("user_pass")),
			Slug:         row.String(t.col("user_nicename")),
			Email:        row.String(t.col("user_email")),
			URL:          row.String(t.col("user_url")),
			RegisteredAt: parseTime(row.String(t.col("user_registered"))),
			DisplayName:  row.String(t.col("display_name")),
		})
	})
	return out, stats
}

// UserMeta reads all rows of the usermeta table.
func (r *Reader) UserMeta() ([]Meta, ReadStats) {
	t := r.layouts.table("usermeta")
	var out []Meta
	stats := r.readTable("usermeta", func(row Row) {
		out = append(out, Meta{
			OwnerID: row.Int64(t.col("user_id")),
			Key:     row.String(t.col("meta_key")),
			Value:   row.String(t.col("meta_value")),
		})
	})
	return out, stats
}

// legacyTimeLayout is the MySQL DATETIME format the export uses.
const legacyTimeLayout = "2006-01-02 15:04:05"

// parseTime parses a legacy DATETIME value. The zero date the legacy schema
// used as "unset" and any unparsable value both map to the zero time.
func parseTime(s string) time.Time {
	if s == "" || s == "0000-00-00 00:00:00" {
		return time.Time{}
	}
	ts, err := time.Parse(legacyTimeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return ts
}
