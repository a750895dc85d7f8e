package importer

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/crewcall-app/crewcall-engine/pkg/models"
	"github.com/crewcall-app/crewcall-engine/pkg/wpdump"
)

// importPlan is the full set of target rows one run will write, built
// from the source before any write phase starts. Planning is pure, so a
// dry run produces the same counters as a real run.
type importPlan struct {
	skillRoots    []*models.Skill
	skillChildren []*models.Skill
	brandRoots    []*models.Brand
	brandChildren []*models.Brand
	languages     []*models.Language
	people        []*models.Person
	jobs          []*models.JobPosting
	skillEdges    []*models.SkillAssignment
	languageEdges []*models.LanguageAssignment
}

// buildPlan derives every target row from the source and fills the
// report's component counters.
func buildPlan(src *source, report *RunReport, logger *zap.Logger) *importPlan {
	plan := &importPlan{}

	planSkills(src.skills, plan, &report.Skills)
	planBrands(src.brands, plan, &report.Brands)
	planLanguages(src.languages, plan, &report.Languages)
	planPeople(src, plan, &report.People)
	planJobs(src, plan, report, logger)
	planAssignments(src, plan, report, logger)

	return plan
}

func planSkills(forest wpdump.Forest, plan *importPlan, counts *TaxonomyCounts) {
	counts.Orphans = forest.Orphans
	counts.Skipped = forest.MissingTerms

	for _, root := range forest.Roots {
		skill := skillFromNode(root, nil)
		plan.skillRoots = append(plan.skillRoots, skill)
		counts.Imported++

		for _, child := range root.Children {
			plan.skillChildren = append(plan.skillChildren, skillFromNode(child, &skill.ID))
			counts.Imported++
		}
	}
}

func planBrands(forest wpdump.Forest, plan *importPlan, counts *TaxonomyCounts) {
	counts.Orphans = forest.Orphans
	counts.Skipped = forest.MissingTerms

	for _, root := range forest.Roots {
		brand := brandFromNode(root, nil)
		plan.brandRoots = append(plan.brandRoots, brand)
		counts.Imported++

		for _, child := range root.Children {
			plan.brandChildren = append(plan.brandChildren, brandFromNode(child, &brand.ID))
			counts.Imported++
		}
	}
}

// planLanguages flattens the language forest: the spoken-language
// taxonomy carries no meaningful hierarchy, so every node imports as a
// plain language row.
func planLanguages(forest wpdump.Forest, plan *importPlan, counts *ComponentCounts) {
	counts.Skipped = forest.MissingTerms

	for _, node := range forest.Nodes() {
		plan.languages = append(plan.languages, &models.Language{
			ID:       models.LanguageUUID(node.TermID),
			LegacyID: node.TermID,
			Name:     node.Name,
			Code:     models.DeriveLanguageCode(node.Name),
		})
		counts.Imported++
	}
}

func skillFromNode(node *wpdump.TaxonomyNode, parentID *uuid.UUID) *models.Skill {
	return &models.Skill{
		ID:          models.SkillUUID(node.TermID),
		LegacyID:    node.TermID,
		Name:        node.Name,
		Slug:        node.Slug,
		Description: node.Description,
		ParentID:    parentID,
		UsageCount:  node.Count,
	}
}

func brandFromNode(node *wpdump.TaxonomyNode, parentID *uuid.UUID) *models.Brand {
	return &models.Brand{
		ID:          models.BrandUUID(node.TermID),
		LegacyID:    node.TermID,
		Name:        node.Name,
		Slug:        node.Slug,
		Description: node.Description,
		ParentID:    parentID,
		UsageCount:  node.Count,
	}
}
