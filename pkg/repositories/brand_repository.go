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

// BrandRepository provides data access for the equipment brand forest.
type BrandRepository interface {
	Create(ctx context.Context, brand *models.Brand) error
	GetByLegacyID(ctx context.Context, legacyID int64) (*models.Brand, error)
	List(ctx context.Context) ([]*models.Brand, error)
	Count(ctx context.Context) (int64, error)
	Clear(ctx context.Context) error
}

type brandRepository struct {
	q database.Querier
}

// NewBrandRepository creates a BrandRepository over the given query handle.
func NewBrandRepository(q database.Querier) BrandRepository {
	return &brandRepository{q: q}
}

var _ BrandRepository = (*brandRepository)(nil)

func (r *brandRepository) Create(ctx context.Context, brand *models.Brand) error {
	if brand.CreatedAt.IsZero() {
		brand.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO brands (id, legacy_id, name, slug, description, parent_id, usage_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.q.Exec(ctx, query,
		brand.ID,
		brand.LegacyID,
		brand.Name,
		brand.Slug,
		brand.Description,
		brand.ParentID,
		brand.UsageCount,
		brand.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create brand: %w", err)
	}

	return nil
}

func (r *brandRepository) GetByLegacyID(ctx context.Context, legacyID int64) (*models.Brand, error) {
	query := `
		SELECT id, legacy_id, name, slug, description, parent_id, usage_count, created_at
		FROM brands
		WHERE legacy_id = $1`

	brand, err := scanBrand(r.q.QueryRow(ctx, query, legacyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	return brand, nil
}

// List returns every brand, roots before children so the rows can be
// re-inserted in order without violating the parent foreign key.
func (r *brandRepository) List(ctx context.Context) ([]*models.Brand, error) {
	query := `
		SELECT id, legacy_id, name, slug, description, parent_id, usage_count, created_at
		FROM brands
		ORDER BY (parent_id IS NOT NULL), legacy_id`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query brands: %w", err)
	}
	defer rows.Close()

	var brands []*models.Brand
	for rows.Next() {
		brand, err := scanBrand(rows)
		if err != nil {
			return nil, err
		}
		brands = append(brands, brand)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating brands: %w", err)
	}

	return brands, nil
}

func (r *brandRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM brands`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count brands: %w", err)
	}
	return count, nil
}

func (r *brandRepository) Clear(ctx context.Context) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM brands`); err != nil {
		return fmt.Errorf("failed to clear brands: %w", err)
	}
	return nil
}

func scanBrand(row pgx.Row) (*models.Brand, error) {
	var b models.Brand
	err := row.Scan(
		&b.ID,
		&b.LegacyID,
		&b.Name,
		&b.Slug,
		&b.Description,
		&b.ParentID,
		&b.UsageCount,
		&b.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan brand: %w", err)
	}
	return &b, nil
}
