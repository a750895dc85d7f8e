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

// LanguageRepository provides data access for spoken languages.
type LanguageRepository interface {
	Create(ctx context.Context, lang *models.Language) error
	GetByLegacyID(ctx context.Context, legacyID int64) (*models.Language, error)
	List(ctx context.Context) ([]*models.Language, error)
	Count(ctx context.Context) (int64, error)
	Clear(ctx context.Context) error
}

type languageRepository struct {
	q database.Querier
}

// NewLanguageRepository creates a LanguageRepository over the given query
// handle.
func NewLanguageRepository(q database.Querier) LanguageRepository {
	return &languageRepository{q: q}
}

var _ LanguageRepository = (*languageRepository)(nil)

func (r *languageRepository) Create(ctx context.Context, lang *models.Language) error {
	if lang.CreatedAt.IsZero() {
		lang.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO languages (id, legacy_id, name, code, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.q.Exec(ctx, query,
		lang.ID,
		lang.LegacyID,
		lang.Name,
		lang.Code,
		lang.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create language: %w", err)
	}

	return nil
}

func (r *languageRepository) GetByLegacyID(ctx context.Context, legacyID int64) (*models.Language, error) {
	query := `
		SELECT id, legacy_id, name, code, created_at
		FROM languages
		WHERE legacy_id = $1`

	var l models.Language
	err := r.q.QueryRow(ctx, query, legacyID).Scan(&l.ID, &l.LegacyID, &l.Name, &l.Code, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get language: %w", err)
	}

	return &l, nil
}

func (r *languageRepository) List(ctx context.Context) ([]*models.Language, error) {
	query := `
		SELECT id, legacy_id, name, code, created_at
		FROM languages
		ORDER BY legacy_id`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query languages: %w", err)
	}
	defer rows.Close()

	var langs []*models.Language
	for rows.Next() {
		var l models.Language
		if err := rows.Scan(&l.ID, &l.LegacyID, &l.Name, &l.Code, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan language: %w", err)
		}
		langs = append(langs, &l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating languages: %w", err)
	}

	return langs, nil
}

func (r *languageRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM languages`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count languages: %w", err)
	}
	return count, nil
}

func (r *languageRepository) Clear(ctx context.Context) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM languages`); err != nil {
		return fmt.Errorf("failed to clear languages: %w", err)
	}
	return nil
}
