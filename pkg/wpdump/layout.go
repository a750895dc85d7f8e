package wpdump

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed layouts.yaml
var defaultLayoutsYAML []byte

// TableLayout fixes the expected column count of one exported table and the
// positions of the columns the pipeline reads. Column order is determined by
// the source schema version and is configuration, never inferred from data.
type TableLayout struct {
	Columns int            `yaml:"columns"`
	Fields  map[string]int `yaml:"fields"`
}

// Layouts holds the table layouts for one source schema version.
type Layouts struct {
	Version string                 `yaml:"version"`
	Tables  map[string]TableLayout `yaml:"tables"`
}

// requiredFields lists, per logical table, the column names the readers
// depend on. LoadLayouts rejects layout files missing any of them so the
// readers can index columns without per-access checks.
var requiredFields = map[string][]string{
	"terms":              {"term_id", "name", "slug", "term_group"},
	"term_taxonomy":      {"term_taxonomy_id", "term_id", "taxonomy", "description", "parent", "count"},
	"term_relationships": {"object_id", "term_taxonomy_id", "term_order"},
	"posts":              {"id", "post_author", "post_date", "post_content", "post_title", "post_excerpt", "post_status", "post_name", "post_modified", "post_parent", "post_type"},
	"postmeta":           {"meta_id", "post_id", "meta_key", "meta_value"},
	"users":              {"id", "user_login", "user_pass", "user_nicename", "user_email", "user_url", "user_registered", "display_name"},
	"usermeta":           {"umeta_id", "user_id", "meta_key", "meta_value"},
}

// LoadLayouts reads table layouts from the YAML file at path, or the embedded
// default layouts when path is empty. The result is validated against the
// column names the readers require.
func LoadLayouts(path string) (*Layouts, error) {
	data := defaultLayoutsYAML
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read layout file: %w", err)
		}
	}

	var l Layouts
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("failed to parse layout file: %w", err)
	}
	if err := l.validate(); err != nil {
		return nil, err
	}
	return &l, nil
}

func (l *Layouts) validate() error {
	for table, fields := range requiredFields {
		tl, ok := l.Tables[table]
		if !ok {
			return fmt.Errorf("layout missing table %q", table)
		}
		if tl.Columns <= 0 {
			return fmt.Errorf("layout for %q: column count must be positive", table)
		}
		for _, f := range fields {
			idx, ok := tl.Fields[f]
			if !ok {
				return fmt.Errorf("layout for %q missing field %q", table, f)
			}
			if idx < 0 || idx >= tl.Columns {
				return fmt.Errorf("layout for %q: field %q index %d out of range", table, f, idx)
			}
		}
	}
	return nil
}

// table returns the layout for a logical table name. Only called for names
// present in requiredFields, which validate guarantees exist.
func (l *Layouts) table(name string) TableLayout {
	return l.Tables[name]
}

// col returns the index of a required field. Layout validation guarantees
// presence.
func (t TableLayout) col(field string) int {
	return t.Fields[field]
}
