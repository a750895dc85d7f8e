package models

import (
	"time"

	"github.com/google/uuid"
)

// ProficiencyUnrated is the proficiency recorded for assignments whose
// source carries no proficiency data, which is all of them today. The
// column exists so later rating features need no migration.
const ProficiencyUnrated = "unrated"

// SkillAssignment links a person to a skill they offer. Position preserves
// the source ordering index of the edge.
type SkillAssignment struct {
	PersonID       uuid.UUID `json:"person_id"`
	SkillID        uuid.UUID `json:"skill_id"`
	LegacyPersonID int64     `json:"legacy_person_id"`
	LegacySkillID  int64     `json:"legacy_skill_id"`
	Proficiency    string    `json:"proficiency"`
	Position       int       `json:"position"`
	CreatedAt      time.Time `json:"created_at"`
}

// LanguageAssignment links a person to a language they speak.
type LanguageAssignment struct {
	PersonID         uuid.UUID `json:"person_id"`
	LanguageID       uuid.UUID `json:"language_id"`
	LegacyPersonID   int64     `json:"legacy_person_id"`
	LegacyLanguageID int64     `json:"legacy_language_id"`
	Proficiency      string    `json:"proficiency"`
	Position         int       `json:"position"`
	CreatedAt        time.Time `json:"created_at"`
}
