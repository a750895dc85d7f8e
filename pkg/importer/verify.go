package importer

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/crewcall-app/crewcall-engine/pkg/apperrors"
	"github.com/crewcall-app/crewcall-engine/pkg/database"
	"github.com/crewcall-app/crewcall-engine/pkg/models"
	"github.com/crewcall-app/crewcall-engine/pkg/repositories"
)

// verifyPlan compares the store against the plan. Every owned table must
// hold exactly the planned number of rows, and the first sampleSize rows
// of each entity type must round-trip by legacy id with their key fields
// intact. A returned error means verification itself could not run; data
// mismatches land in the result's Problems instead.
func verifyPlan(ctx context.Context, q database.Querier, plan *importPlan, sampleSize int) (*VerifyResult, error) {
	res := &VerifyResult{SampleSize: sampleSize}

	skills := repositories.NewSkillRepository(q)
	brands := repositories.NewBrandRepository(q)
	languages := repositories.NewLanguageRepository(q)
	people := repositories.NewPersonRepository(q)
	jobs := repositories.NewJobPostingRepository(q)
	assignments := repositories.NewAssignmentRepository(q)

	scheduleTotal := 0
	for _, j := range plan.jobs {
		scheduleTotal += len(j.Schedule)
	}

	for _, c := range []struct {
		name  string
		count func(context.Context) (int64, error)
		want  int
	}{
		{"skills", skills.Count, len(plan.skillRoots) + len(plan.skillChildren)},
		{"brands", brands.Count, len(plan.brandRoots) + len(plan.brandChildren)},
		{"languages", languages.Count, len(plan.languages)},
		{"people", people.Count, len(plan.people)},
		{"job_postings", jobs.Count, len(plan.jobs)},
		{"schedule_entries", jobs.CountScheduleEntries, scheduleTotal},
		{"skill_assignments", assignments.CountSkills, len(plan.skillEdges)},
		{"language_assignments", assignments.CountLanguages, len(plan.languageEdges)},
	} {
		got, err := c.count(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", c.name, err)
		}
		if got != int64(c.want) {
			res.Problems = append(res.Problems,
				fmt.Sprintf("%s: store holds %d rows, expected %d", c.name, got, c.want))
		}
	}

	if err := sampleSkills(ctx, skills, plan, sampleSize, res); err != nil {
		return nil, err
	}
	if err := sampleBrands(ctx, brands, plan, sampleSize, res); err != nil {
		return nil, err
	}
	if err := sampleLanguages(ctx, languages, plan, sampleSize, res); err != nil {
		return nil, err
	}
	if err := samplePeople(ctx, people, plan, sampleSize, res); err != nil {
		return nil, err
	}
	if err := sampleJobs(ctx, jobs, plan, sampleSize, res); err != nil {
		return nil, err
	}
	if err := sampleEdges(ctx, assignments, plan, sampleSize, res); err != nil {
		return nil, err
	}

	res.Passed = len(res.Problems) == 0
	return res, nil
}

// Sampling takes the first n planned rows per type. Plans are built in
// source order, so the sample is stable run to run.

func sampleSkills(ctx context.Context, repo repositories.SkillRepository, plan *importPlan, n int, res *VerifyResult) error {
	all := make([]*models.Skill, 0, len(plan.skillRoots)+len(plan.skillChildren))
	all = append(all, plan.skillRoots...)
	all = append(all, plan.skillChildren...)

	for _, want := range all[:clampSample(len(all), n)] {
		got, err := repo.GetByLegacyID(ctx, want.LegacyID)
		if errors.Is(err, apperrors.ErrNotFound) {
			res.Problems = append(res.Problems, fmt.Sprintf("skill %d: missing from store", want.LegacyID))
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to fetch skill %d: %w", want.LegacyID, err)
		}
		if got.Name != want.Name {
			res.Problems = append(res.Problems,
				fmt.Sprintf("skill %d: name %q, expected %q", want.LegacyID, got.Name, want.Name))
		}
		if !uuidPtrEqual(got.ParentID, want.ParentID) {
			res.Problems = append(res.Problems,
				fmt.Sprintf("skill %d: parent linkage mismatch", want.LegacyID))
		}
	}
	return nil
}

func sampleBrands(ctx context.Context, repo repositories.BrandRepository, plan *importPlan, n int, res *VerifyResult) error {
	all := make([]*models.Brand, 0, len(plan.brandRoots)+len(plan.brandChildren))
	all = append(all, plan.brandRoots...)
	all = append(all, plan.brandChildren...)

	for _, want := range all[:clampSample(len(all), n)] {
		got, err := repo.GetByLegacyID(ctx, want.LegacyID)
		if errors.Is(err, apperrors.ErrNotFound) {
			res.Problems = append(res.Problems, fmt.Sprintf("brand %d: missing from store", want.LegacyID))
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to fetch brand %d: %w", want.LegacyID, err)
		}
		if got.Name != want.Name {
			res.Problems = append(res.Problems,
				fmt.Sprintf("brand %d: name %q, expected %q", want.LegacyID, got.Name, want.Name))
		}
		if !uuidPtrEqual(got.ParentID, want.ParentID) {
			res.Problems = append(res.Problems,
				fmt.Sprintf("brand %d: parent linkage mismatch", want.LegacyID))
		}
	}
	return nil
}

func sampleLanguages(ctx context.Context, repo repositories.LanguageRepository, plan *importPlan, n int, res *VerifyResult) error {
	for _, want := range plan.languages[:clampSample(len(plan.languages), n)] {
		got, err := repo.GetByLegacyID(ctx, want.LegacyID)
		if errors.Is(err, apperrors.ErrNotFound) {
			res.Problems = append(res.Problems, fmt.Sprintf("language %d: missing from store", want.LegacyID))
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to fetch language %d: %w", want.LegacyID, err)
		}
		if got.Name != want.Name || got.Code != want.Code {
			res.Problems = append(res.Problems,
				fmt.Sprintf("language %d: %s/%s, expected %s/%s",
					want.LegacyID, got.Name, got.Code, want.Name, want.Code))
		}
	}
	return nil
}

func samplePeople(ctx context.Context, repo repositories.PersonRepository, plan *importPlan, n int, res *VerifyResult) error {
	for _, want := range plan.people[:clampSample(len(plan.people), n)] {
		got, err := repo.GetByLegacyID(ctx, want.LegacyID)
		if errors.Is(err, apperrors.ErrNotFound) {
			res.Problems = append(res.Problems, fmt.Sprintf("person %d: missing from store", want.LegacyID))
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to fetch person %d: %w", want.LegacyID, err)
		}
		if got.Email != want.Email {
			res.Problems = append(res.Problems,
				fmt.Sprintf("person %d: email %q, expected %q", want.LegacyID, got.Email, want.Email))
		}
		if got.Role != want.Role {
			res.Problems = append(res.Problems,
				fmt.Sprintf("person %d: role %s, expected %s", want.LegacyID, got.Role, want.Role))
		}
	}
	return nil
}

func sampleJobs(ctx context.Context, repo repositories.JobPostingRepository, plan *importPlan, n int, res *VerifyResult) error {
	for _, want := range plan.jobs[:clampSample(len(plan.jobs), n)] {
		got, err := repo.GetByLegacyID(ctx, want.LegacyID)
		if errors.Is(err, apperrors.ErrNotFound) {
			res.Problems = append(res.Problems, fmt.Sprintf("job %d: missing from store", want.LegacyID))
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to fetch job %d: %w", want.LegacyID, err)
		}
		if got.Status != want.Status {
			res.Problems = append(res.Problems,
				fmt.Sprintf("job %d: status %s, expected %s", want.LegacyID, got.Status, want.Status))
		}
		if len(got.Schedule) != len(want.Schedule) {
			res.Problems = append(res.Problems,
				fmt.Sprintf("job %d: %d schedule entries, expected %d",
					want.LegacyID, len(got.Schedule), len(want.Schedule)))
		}
	}
	return nil
}

func sampleEdges(ctx context.Context, repo repositories.AssignmentRepository, plan *importPlan, n int, res *VerifyResult) error {
	for _, e := range plan.skillEdges[:clampSample(len(plan.skillEdges), n)] {
		ok, err := repo.HasSkill(ctx, e.LegacyPersonID, e.LegacySkillID)
		if err != nil {
			return fmt.Errorf("failed to check skill assignment %d->%d: %w", e.LegacyPersonID, e.LegacySkillID, err)
		}
		if !ok {
			res.Problems = append(res.Problems,
				fmt.Sprintf("skill assignment %d->%d: missing from store", e.LegacyPersonID, e.LegacySkillID))
		}
	}
	for _, e := range plan.languageEdges[:clampSample(len(plan.languageEdges), n)] {
		ok, err := repo.HasLanguage(ctx, e.LegacyPersonID, e.LegacyLanguageID)
		if err != nil {
			return fmt.Errorf("failed to check language assignment %d->%d: %w", e.LegacyPersonID, e.LegacyLanguageID, err)
		}
		if !ok {
			res.Problems = append(res.Problems,
				fmt.Sprintf("language assignment %d->%d: missing from store", e.LegacyPersonID, e.LegacyLanguageID))
		}
	}
	return nil
}

func clampSample(total, size int) int {
	if size < total {
		return size
	}
	return total
}

func uuidPtrEqual(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
