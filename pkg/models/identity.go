package models

import (
	"strconv"

	"github.com/google/uuid"
)

// Target ids are derived, not generated: uuid v5 of the legacy numeric id
// inside a per-entity-type namespace. Re-running an import therefore
// reproduces the exact legacy-id to target-id mapping, and the same legacy
// id never collides across entity types.
//
// Never change these namespace values. Derived ids are persisted and
// referenced by shipped clients.
var (
	nsImport = uuid.MustParse("b1c52b6a-9d03-4e5a-8a1f-c2d94707e3b8")

	NamespaceSkill      = uuid.NewSHA1(nsImport, []byte("skill"))
	NamespaceBrand      = uuid.NewSHA1(nsImport, []byte("brand"))
	NamespaceLanguage   = uuid.NewSHA1(nsImport, []byte("language"))
	NamespacePerson     = uuid.NewSHA1(nsImport, []byte("person"))
	NamespaceJobPosting = uuid.NewSHA1(nsImport, []byte("job_posting"))
)

// LegacyUUID derives the target id for a legacy numeric id within one
// entity-type namespace.
func LegacyUUID(namespace uuid.UUID, legacyID int64) uuid.UUID {
	return uuid.NewSHA1(namespace, strconv.AppendInt(nil, legacyID, 10))
}

// SkillUUID returns the target id of the skill with the given legacy id.
func SkillUUID(legacyID int64) uuid.UUID { return LegacyUUID(NamespaceSkill, legacyID) }

// BrandUUID returns the target id of the brand with the given legacy id.
func BrandUUID(legacyID int64) uuid.UUID { return LegacyUUID(NamespaceBrand, legacyID) }

// LanguageUUID returns the target id of the language with the given legacy id.
func LanguageUUID(legacyID int64) uuid.UUID { return LegacyUUID(NamespaceLanguage, legacyID) }

// PersonUUID returns the target id of the person with the given legacy id.
func PersonUUID(legacyID int64) uuid.UUID { return LegacyUUID(NamespacePerson, legacyID) }

// JobPostingUUID returns the target id of the job posting with the given
// legacy id.
func JobPostingUUID(legacyID int64) uuid.UUID { return LegacyUUID(NamespaceJobPosting, legacyID) }
