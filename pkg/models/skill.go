package models

import (
	"time"

	"github.com/google/uuid"
)

// Skill is one crew skill or skill category. Skills form a forest at most
// two levels deep: category roots and their child skills. ParentID is nil
// for roots.
type Skill struct {
	ID          uuid.UUID  `json:"id"`
	LegacyID    int64      `json:"legacy_id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Description string     `json:"description,omitempty"`
	ParentID    *uuid.UUID `json:"parent_id,omitempty"`
	UsageCount  int64      `json:"usage_count"`
	CreatedAt   time.Time  `json:"created_at"`
}
