//go:build integration

package repositories

import (
	"context"
	"testing"

	"github.com/crewcall-app/crewcall-engine/pkg/models"
	"github.com/crewcall-app/crewcall-engine/pkg/testhelpers"
)

// assignmentTestContext holds test dependencies for assignment repository
// tests, with fixture people, skills and languages to hang edges off.
type assignmentTestContext struct {
	t      *testing.T
	testDB *testhelpers.TestDB
	repo   AssignmentRepository
	person *models.Person
	skill  *models.Skill
	lang   *models.Language
}

func setupAssignmentTest(t *testing.T) *assignmentTestContext {
	testDB := testhelpers.GetTestDB(t)
	tc := &assignmentTestContext{
		t:      t,
		testDB: testDB,
		repo:   NewAssignmentRepository(testDB.DB),
	}
	tc.cleanup()
	tc.ensureFixtures()
	return tc
}

func (tc *assignmentTestContext) cleanup() {
	tc.t.Helper()
	ctx := context.Background()

	_, _ = tc.testDB.DB.Exec(ctx, "DELETE FROM skill_assignments")
	_, _ = tc.testDB.DB.Exec(ctx, "DELETE FROM language_assignments")
	_, _ = tc.testDB.DB.Exec(ctx, "DELETE FROM people")
	_, _ = tc.testDB.DB.Exec(ctx, "DELETE FROM skills")
	_, _ = tc.testDB.DB.Exec(ctx, "DELETE FROM languages")
}

func (tc *assignmentTestContext) ensureFixtures() {
	tc.t.Helper()
	ctx := context.Background()

	tc.person = &models.Person{
		ID:          models.PersonUUID(7),
		LegacyID:    7,
		Login:       "lebo",
		Email:       "lebo@example.co.za",
		DisplayName: "lebo",
		Slug:        "lebo",
		Role:        models.PersonRoleCrew,
	}
	if err := NewPersonRepository(tc.testDB.DB).Create(ctx, tc.person); err != nil {
		tc.t.Fatalf("failed to create fixture person: %v", err)
	}

	tc.skill = &models.Skill{
		ID:       models.SkillUUID(30),
		LegacyID: 30,
		Name:     "Focus Puller",
		Slug:     "focus-puller",
	}
	if err := NewSkillRepository(tc.testDB.DB).Create(ctx, tc.skill); err != nil {
		tc.t.Fatalf("failed to create fixture skill: %v", err)
	}

	tc.lang = &models.Language{
		ID:       models.LanguageUUID(40),
		LegacyID: 40,
		Name:     "Sesotho",
		Code:     "st",
	}
	if err := NewLanguageRepository(tc.testDB.DB).Create(ctx, tc.lang); err != nil {
		tc.t.Fatalf("failed to create fixture language: %v", err)
	}
}

func TestAssignmentRepository_CreateSkill_Success(t *testing.T) {
	tc := setupAssignmentTest(t)

	ctx := context.Background()

	a := &models.SkillAssignment{
		PersonID:       tc.person.ID,
		SkillID:        tc.skill.ID,
		LegacyPersonID: tc.person.LegacyID,
		LegacySkillID:  tc.skill.LegacyID,
		Position:       0,
	}

	inserted, err := tc.repo.CreateSkill(ctx, a)
	if err != nil {
		t.Fatalf("CreateSkill failed: %v", err)
	}
	if !inserted {
		t.Error("expected assignment to be inserted")
	}
	if a.Proficiency != models.ProficiencyUnrated {
		t.Errorf("expected proficiency to default to unrated, got %q", a.Proficiency)
	}

	has, err := tc.repo.HasSkill(ctx, tc.person.LegacyID, tc.skill.LegacyID)
	if err != nil {
		t.Fatalf("HasSkill failed: %v", err)
	}
	if !has {
		t.Error("expected HasSkill to report the assignment")
	}
}

func TestAssignmentRepository_CreateSkill_Duplicate(t *testing.T) {
	tc := setupAssignmentTest(t)

	ctx := context.Background()

	a := &models.SkillAssignment{
		PersonID:       tc.person.ID,
		SkillID:        tc.skill.ID,
		LegacyPersonID: tc.person.LegacyID,
		LegacySkillID:  tc.skill.LegacyID,
	}

	inserted, err := tc.repo.CreateSkill(ctx, a)
	if err != nil {
		t.Fatalf("CreateSkill failed: %v", err)
	}
	if !inserted {
		t.Fatal("expected first insert to succeed")
	}

	// Same pair again reports not inserted, without an error.
	dup := &models.SkillAssignment{
		PersonID:       tc.person.ID,
		SkillID:        tc.skill.ID,
		LegacyPersonID: tc.person.LegacyID,
		LegacySkillID:  tc.skill.LegacyID,
	}
	inserted, err = tc.repo.CreateSkill(ctx, dup)
	if err != nil {
		t.Fatalf("duplicate CreateSkill failed: %v", err)
	}
	if inserted {
		t.Error("expected duplicate to be skipped")
	}

	count, err := tc.repo.CountSkills(ctx)
	if err != nil {
		t.Fatalf("CountSkills failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 skill assignment, got %d", count)
	}
}

func TestAssignmentRepository_CreateLanguage_Success(t *testing.T) {
	tc := setupAssignmentTest(t)

	ctx := context.Background()

	a := &models.LanguageAssignment{
		PersonID:         tc.person.ID,
		LanguageID:       tc.lang.ID,
		LegacyPersonID:   tc.person.LegacyID,
		LegacyLanguageID: tc.lang.LegacyID,
	}

	inserted, err := tc.repo.CreateLanguage(ctx, a)
	if err != nil {
		t.Fatalf("CreateLanguage failed: %v", err)
	}
	if !inserted {
		t.Error("expected assignment to be inserted")
	}

	has, err := tc.repo.HasLanguage(ctx, tc.person.LegacyID, tc.lang.LegacyID)
	if err != nil {
		t.Fatalf("HasLanguage failed: %v", err)
	}
	if !has {
		t.Error("expected HasLanguage to report the assignment")
	}

	// Absent pair reports false.
	has, err = tc.repo.HasLanguage(ctx, tc.person.LegacyID, 99999)
	if err != nil {
		t.Fatalf("HasLanguage failed: %v", err)
	}
	if has {
		t.Error("expected HasLanguage to report false for unknown language")
	}
}

func TestAssignmentRepository_ListSkills(t *testing.T) {
	tc := setupAssignmentTest(t)

	ctx := context.Background()

	second := &models.Skill{
		ID:       models.SkillUUID(31),
		LegacyID: 31,
		Name:     "Clapper Loader",
		Slug:     "clapper-loader",
	}
	if err := NewSkillRepository(tc.testDB.DB).Create(ctx, second); err != nil {
		t.Fatalf("failed to create second skill: %v", err)
	}

	for pos, s := range []*models.Skill{tc.skill, second} {
		a := &models.SkillAssignment{
			PersonID:       tc.person.ID,
			SkillID:        s.ID,
			LegacyPersonID: tc.person.LegacyID,
			LegacySkillID:  s.LegacyID,
			Position:       pos,
		}
		if _, err := tc.repo.CreateSkill(ctx, a); err != nil {
			t.Fatalf("CreateSkill failed: %v", err)
		}
	}

	assignments, err := tc.repo.ListSkills(ctx)
	if err != nil {
		t.Fatalf("ListSkills failed: %v", err)
	}
	if len(assignments) != 2 {
		t.Fatalf("expected 2 assignments, got %d", len(assignments))
	}
	if assignments[0].LegacySkillID != 30 || assignments[1].LegacySkillID != 31 {
		t.Errorf("expected position order [30 31], got [%d %d]",
			assignments[0].LegacySkillID, assignments[1].LegacySkillID)
	}
}

func TestAssignmentRepository_Clear(t *testing.T) {
	tc := setupAssignmentTest(t)

	ctx := context.Background()

	skillEdge := &models.SkillAssignment{
		PersonID:       tc.person.ID,
		SkillID:        tc.skill.ID,
		LegacyPersonID: tc.person.LegacyID,
		LegacySkillID:  tc.skill.LegacyID,
	}
	if _, err := tc.repo.CreateSkill(ctx, skillEdge); err != nil {
		t.Fatalf("CreateSkill failed: %v", err)
	}
	langEdge := &models.LanguageAssignment{
		PersonID:         tc.person.ID,
		LanguageID:       tc.lang.ID,
		LegacyPersonID:   tc.person.LegacyID,
		LegacyLanguageID: tc.lang.LegacyID,
	}
	if _, err := tc.repo.CreateLanguage(ctx, langEdge); err != nil {
		t.Fatalf("CreateLanguage failed: %v", err)
	}

	if err := tc.repo.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	skillCount, err := tc.repo.CountSkills(ctx)
	if err != nil {
		t.Fatalf("CountSkills failed: %v", err)
	}
	langCount, err := tc.repo.CountLanguages(ctx)
	if err != nil {
		t.Fatalf("CountLanguages failed: %v", err)
	}
	if skillCount != 0 || langCount != 0 {
		t.Errorf("expected empty assignment tables after clear, got %d and %d", skillCount, langCount)
	}
}
