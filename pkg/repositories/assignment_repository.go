package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/crewcall-app/crewcall-engine/pkg/database"
	"github.com/crewcall-app/crewcall-engine/pkg/models"
)

// AssignmentRepository provides data access for person-to-skill and
// person-to-language assignments.
type AssignmentRepository interface {
	// CreateSkill inserts a skill assignment. It reports false when the
	// (person, skill) pair already exists.
	CreateSkill(ctx context.Context, a *models.SkillAssignment) (bool, error)
	// CreateLanguage inserts a language assignment. It reports false when
	// the (person, language) pair already exists.
	CreateLanguage(ctx context.Context, a *models.LanguageAssignment) (bool, error)
	HasSkill(ctx context.Context, legacyPersonID, legacySkillID int64) (bool, error)
	HasLanguage(ctx context.Context, legacyPersonID, legacyLanguageID int64) (bool, error)
	ListSkills(ctx context.Context) ([]*models.SkillAssignment, error)
	ListLanguages(ctx context.Context) ([]*models.LanguageAssignment, error)
	CountSkills(ctx context.Context) (int64, error)
	CountLanguages(ctx context.Context) (int64, error)
	Clear(ctx context.Context) error
}

type assignmentRepository struct {
	q database.Querier
}

// NewAssignmentRepository creates an AssignmentRepository over the given
// query handle.
func NewAssignmentRepository(q database.Querier) AssignmentRepository {
	return &assignmentRepository{q: q}
}

var _ AssignmentRepository = (*assignmentRepository)(nil)

func (r *assignmentRepository) CreateSkill(ctx context.Context, a *models.SkillAssignment) (bool, error) {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	if a.Proficiency == "" {
		a.Proficiency = models.ProficiencyUnrated
	}

	query := `
		INSERT INTO skill_assignments (
			person_id, skill_id, legacy_person_id, legacy_skill_id,
			proficiency, position, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (person_id, skill_id) DO NOTHING`

	tag, err := r.q.Exec(ctx, query,
		a.PersonID,
		a.SkillID,
		a.LegacyPersonID,
		a.LegacySkillID,
		a.Proficiency,
		a.Position,
		a.CreatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to create skill assignment: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

func (r *assignmentRepository) CreateLanguage(ctx context.Context, a *models.LanguageAssignment) (bool, error) {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	if a.Proficiency == "" {
		a.Proficiency = models.ProficiencyUnrated
	}

	query := `
		INSERT INTO language_assignments (
			person_id, language_id, legacy_person_id, legacy_language_id,
			proficiency, position, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (person_id, language_id) DO NOTHING`

	tag, err := r.q.Exec(ctx, query,
		a.PersonID,
		a.LanguageID,
		a.LegacyPersonID,
		a.LegacyLanguageID,
		a.Proficiency,
		a.Position,
		a.CreatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to create language assignment: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

func (r *assignmentRepository) HasSkill(ctx context.Context, legacyPersonID, legacySkillID int64) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM skill_assignments
			WHERE legacy_person_id = $1 AND legacy_skill_id = $2
		)`

	var exists bool
	if err := r.q.QueryRow(ctx, query, legacyPersonID, legacySkillID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check skill assignment: %w", err)
	}
	return exists, nil
}

func (r *assignmentRepository) HasLanguage(ctx context.Context, legacyPersonID, legacyLanguageID int64) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM language_assignments
			WHERE legacy_person_id = $1 AND legacy_language_id = $2
		)`

	var exists bool
	if err := r.q.QueryRow(ctx, query, legacyPersonID, legacyLanguageID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check language assignment: %w", err)
	}
	return exists, nil
}

func (r *assignmentRepository) ListSkills(ctx context.Context) ([]*models.SkillAssignment, error) {
	query := `
		SELECT person_id, skill_id, legacy_person_id, legacy_skill_id,
		       proficiency, position, created_at
		FROM skill_assignments
		ORDER BY legacy_person_id, position, legacy_skill_id`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query skill assignments: %w", err)
	}
	defer rows.Close()

	var assignments []*models.SkillAssignment
	for rows.Next() {
		var a models.SkillAssignment
		err := rows.Scan(
			&a.PersonID,
			&a.SkillID,
			&a.LegacyPersonID,
			&a.LegacySkillID,
			&a.Proficiency,
			&a.Position,
			&a.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan skill assignment: %w", err)
		}
		assignments = append(assignments, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating skill assignments: %w", err)
	}

	return assignments, nil
}

func (r *assignmentRepository) ListLanguages(ctx context.Context) ([]*models.LanguageAssignment, error) {
	query := `
		SELECT person_id, language_id, legacy_person_id, legacy_language_id,
		       proficiency, position, created_at
		FROM language_assignments
		ORDER BY legacy_person_id, position, legacy_language_id`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query language assignments: %w", err)
	}
	defer rows.Close()

	var assignments []*models.LanguageAssignment
	for rows.Next() {
		var a models.LanguageAssignment
		err := rows.Scan(
			&a.PersonID,
			&a.LanguageID,
			&a.LegacyPersonID,
			&a.LegacyLanguageID,
			&a.Proficiency,
			&a.Position,
			&a.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan language assignment: %w", err)
		}
		assignments = append(assignments, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating language assignments: %w", err)
	}

	return assignments, nil
}

func (r *assignmentRepository) CountSkills(ctx context.Context) (int64, error) {
	var count int64
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM skill_assignments`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count skill assignments: %w", err)
	}
	return count, nil
}

func (r *assignmentRepository) CountLanguages(ctx context.Context) (int64, error) {
	var count int64
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM language_assignments`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count language assignments: %w", err)
	}
	return count, nil
}

func (r *assignmentRepository) Clear(ctx context.Context) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM skill_assignments`); err != nil {
		return fmt.Errorf("failed to clear skill assignments: %w", err)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM language_assignments`); err != nil {
		return fmt.Errorf("failed to clear language assignments: %w", err)
	}
	return nil
}
