package models

import (
	"time"

	"github.com/google/uuid"
)

// Brand is one equipment brand or brand category, shaped like the skill
// forest: roots with ParentID nil, children one level below.
type Brand struct {
	ID          uuid.UUID  `json:"id"`
	LegacyID    int64      `json:"legacy_id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Description string     `json:"description,omitempty"`
	ParentID    *uuid.UUID `json:"parent_id,omitempty"`
	UsageCount  int64      `json:"usage_count"`
	CreatedAt   time.Time  `json:"created_at"`
}
