package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/crewcall-app/crewcall-engine/pkg/apperrors"
	"github.com/crewcall-app/crewcall-engine/pkg/database"
	"github.com/crewcall-app/crewcall-engine/pkg/models"
)

// SkillRepository provides data access for the skill forest.
type SkillRepository interface {
	Create(ctx context.Context, skill *models.Skill) error
	GetByLegacyID(ctx context.Context, legacyID int64) (*models.Skill, error)
	List(ctx context.Context) ([]*models.Skill, error)
	Count(ctx context.Context) (int64, error)
	Clear(ctx context.Context) error
}

type skillRepository struct {
	q database.Querier
}

// NewSkillRepository creates a SkillRepository over the given query handle.
// Pass a transaction inside an import phase, the pool for one-off reads.
func NewSkillRepository(q database.Querier) SkillRepository {
	return &skillRepository{q: q}
}

var _ SkillRepository = (*skillRepository)(nil)

func (r *skillRepository) Create(ctx context.Context, skill *models.Skill) error {
	if skill.CreatedAt.IsZero() {
		skill.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO skills (id, legacy_id, name, slug, description, parent_id, usage_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.q.Exec(ctx, query,
		skill.ID,
		skill.LegacyID,
		skill.Name,
		skill.Slug,
		skill.Description,
		skill.ParentID,
		skill.UsageCount,
		skill.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create skill: %w", err)
	}

	return nil
}

func (r *skillRepository) GetByLegacyID(ctx context.Context, legacyID int64) (*models.Skill, error) {
	query := `
		SELECT id, legacy_id, name, slug, description, parent_id, usage_count, created_at
		FROM skills
		WHERE legacy_id = $1`

	skill, err := scanSkill(r.q.QueryRow(ctx, query, legacyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	return skill, nil
}

// List returns every skill, roots before children so the rows can be
// re-inserted in order without violating the parent foreign key.
func (r *skillRepository) List(ctx context.Context) ([]*models.Skill, error) {
	query := `
		SELECT id, legacy_id, name, slug, description, parent_id, usage_count, created_at
		FROM skills
		ORDER BY (parent_id IS NOT NULL), legacy_id`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query skills: %w", err)
	}
	defer rows.Close()

	var skills []*models.Skill
	for rows.Next() {
		skill, err := scanSkill(rows)
		if err != nil {
			return nil, err
		}
		skills = append(skills, skill)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating skills: %w", err)
	}

	return skills, nil
}

func (r *skillRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM skills`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count skills: %w", err)
	}
	return count, nil
}

func (r *skillRepository) Clear(ctx context.Context) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM skills`); err != nil {
		return fmt.Errorf("failed to clear skills: %w", err)
	}
	return nil
}

func scanSkill(row pgx.Row) (*models.Skill, error) {
	var s models.Skill
	err := row.Scan(
		&s.ID,
		&s.LegacyID,
		&s.Name,
		&s.Slug,
		&s.Description,
		&s.ParentID,
		&s.UsageCount,
		&s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan skill: %w", err)
	}
	return &s, nil
}
