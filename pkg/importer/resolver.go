package importer

import (
	"go.uber.org/zap"

	"github.com/crewcall-app/crewcall-engine/pkg/models"
	"github.com/crewcall-app/crewcall-engine/pkg/wpdump"
)

// Resolution is one resolved association subject. ViaProfile marks
// subjects that were profile record ids rather than direct person ids.
type Resolution struct {
	Person     *models.Person
	ViaProfile bool
}

// Resolver maps association subject ids to imported people. The export
// addresses subjects inconsistently: most rows carry a person id, some
// carry the id of the person's profile record. Resolution tries the
// direct person id first, then follows the profile record to its owner.
type Resolver struct {
	people       map[int64]*models.Person
	profileOwner map[int64]int64
}

// NewResolver builds a resolver over the planned people and the profile
// records of the export.
func NewResolver(people []*models.Person, posts []wpdump.Post) *Resolver {
	r := &Resolver{
		people:       make(map[int64]*models.Person, len(people)),
		profileOwner: make(map[int64]int64),
	}
	for _, p := range people {
		r.people[p.LegacyID] = p
	}
	for _, post := range posts {
		if post.Type == postTypeProfile {
			r.profileOwner[post.ID] = post.AuthorID
		}
	}
	return r
}

// Resolve maps one subject id to a person. It reports false when the id
// is neither a person nor a profile record owned by one.
func (r *Resolver) Resolve(objectID int64) (Resolution, bool) {
	if p, ok := r.people[objectID]; ok {
		return Resolution{Person: p}, true
	}
	if ownerID, ok := r.profileOwner[objectID]; ok {
		if p, ok := r.people[ownerID]; ok {
			return Resolution{Person: p, ViaProfile: true}, true
		}
	}
	return Resolution{}, false
}

// planAssignments resolves every association row of the skill and
// language taxonomies into assignment edges. Rows for other taxonomies
// pass through untouched; brand associations carry no target edge table.
// An edge is planned only when both endpoints imported, and each
// (person, catalog entry) pair is planned once.
func planAssignments(src *source, plan *importPlan, report *RunReport, logger *zap.Logger) {
	resolver := NewResolver(plan.people, src.posts)

	type classification struct {
		taxonomy string
		termID   int64
	}
	infoByID := make(map[int64]classification, len(src.classifications))
	for _, c := range src.classifications {
		infoByID[c.ID] = classification{taxonomy: c.Taxonomy, termID: c.TermID}
	}

	skillsByLegacy := make(map[int64]*models.Skill, len(plan.skillRoots)+len(plan.skillChildren))
	for _, s := range plan.skillRoots {
		skillsByLegacy[s.LegacyID] = s
	}
	for _, s := range plan.skillChildren {
		skillsByLegacy[s.LegacyID] = s
	}
	langsByLegacy := make(map[int64]*models.Language, len(plan.languages))
	for _, l := range plan.languages {
		langsByLegacy[l.LegacyID] = l
	}

	type pair struct{ person, term int64 }
	seenSkill := make(map[pair]bool)
	seenLang := make(map[pair]bool)

	for _, rel := range src.rels {
		info, ok := infoByID[rel.TermTaxonomyID]
		if !ok {
			continue
		}

		switch info.taxonomy {
		case taxonomySkills:
			skill, ok := skillsByLegacy[info.termID]
			if !ok {
				report.SkillAssignments.Unresolved++
				continue
			}
			res, ok := resolver.Resolve(rel.ObjectID)
			if !ok {
				report.SkillAssignments.Unresolved++
				logger.Debug("Dropping unresolvable skill association",
					zap.Int64("object_id", rel.ObjectID),
					zap.Int64("term_id", info.termID),
				)
				continue
			}
			key := pair{person: res.Person.LegacyID, term: skill.LegacyID}
			if seenSkill[key] {
				report.SkillAssignments.Duplicates++
				continue
			}
			seenSkill[key] = true
			if res.ViaProfile {
				report.SkillAssignments.ViaProfile++
			}
			plan.skillEdges = append(plan.skillEdges, &models.SkillAssignment{
				PersonID:       res.Person.ID,
				SkillID:        skill.ID,
				LegacyPersonID: res.Person.LegacyID,
				LegacySkillID:  skill.LegacyID,
				Position:       int(rel.Order),
			})
			report.SkillAssignments.Imported++

		case taxonomyLanguages:
			lang, ok := langsByLegacy[info.termID]
			if !ok {
				report.LanguageAssignments.Unresolved++
				continue
			}
			res, ok := resolver.Resolve(rel.ObjectID)
			if !ok {
				report.LanguageAssignments.Unresolved++
				logger.Debug("Dropping unresolvable language association",
					zap.Int64("object_id", rel.ObjectID),
					zap.Int64("term_id", info.termID),
				)
				continue
			}
			key := pair{person: res.Person.LegacyID, term: lang.LegacyID}
			if seenLang[key] {
				report.LanguageAssignments.Duplicates++
				continue
			}
			seenLang[key] = true
			if res.ViaProfile {
				report.LanguageAssignments.ViaProfile++
			}
			plan.languageEdges = append(plan.languageEdges, &models.LanguageAssignment{
				PersonID:         res.Person.ID,
				LanguageID:       lang.ID,
				LegacyPersonID:   res.Person.LegacyID,
				LegacyLanguageID: lang.LegacyID,
				Position:         int(rel.Order),
			})
			report.LanguageAssignments.Imported++
		}
	}
}
