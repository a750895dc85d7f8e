package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/crewcall-app/crewcall-engine/pkg/apperrors"
	"github.com/crewcall-app/crewcall-engine/pkg/database"
	"github.com/crewcall-app/crewcall-engine/pkg/models"
)

// PersonRepository provides data access for imported people.
type PersonRepository interface {
	Create(ctx context.Context, person *models.Person) error
	GetByLegacyID(ctx context.Context, legacyID int64) (*models.Person, error)
	List(ctx context.Context) ([]*models.Person, error)
	Count(ctx context.Context) (int64, error)
	Clear(ctx context.Context) error
}

type personRepository struct {
	q database.Querier
}

// NewPersonRepository creates a PersonRepository over the given query
// handle.
func NewPersonRepository(q database.Querier) PersonRepository {
	return &personRepository{q: q}
}

var _ PersonRepository = (*personRepository)(nil)

func (r *personRepository) Create(ctx context.Context, person *models.Person) error {
	if person.CreatedAt.IsZero() {
		person.CreatedAt = time.Now()
	}

	settings, err := settingsValue(person.Settings)
	if err != nil {
		return fmt.Errorf("failed to encode person settings: %w", err)
	}

	query := `
		INSERT INTO people (
			id, legacy_id, login, email, display_name, slug, role,
			phone, location, bio, website_url, settings, registered_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err = r.q.Exec(ctx, query,
		person.ID,
		person.LegacyID,
		person.Login,
		person.Email,
		person.DisplayName,
		person.Slug,
		person.Role,
		person.Phone,
		person.Location,
		person.Bio,
		person.WebsiteURL,
		settings,
		nullTime(person.RegisteredAt),
		person.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create person: %w", err)
	}

	return nil
}

func (r *personRepository) GetByLegacyID(ctx context.Context, legacyID int64) (*models.Person, error) {
	query := `
		SELECT id, legacy_id, login, email, display_name, slug, role,
		       phone, location, bio, website_url, settings, registered_at, created_at
		FROM people
		WHERE legacy_id = $1`

	person, err := scanPerson(r.q.QueryRow(ctx, query, legacyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	return person, nil
}

func (r *personRepository) List(ctx context.Context) ([]*models.Person, error) {
	query := `
		SELECT id, legacy_id, login, email, display_name, slug, role,
		       phone, location, bio, website_url, settings, registered_at, created_at
		FROM people
		ORDER BY legacy_id`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query people: %w", err)
	}
	defer rows.Close()

	var people []*models.Person
	for rows.Next() {
		person, err := scanPerson(rows)
		if err != nil {
			return nil, err
		}
		people = append(people, person)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating people: %w", err)
	}

	return people, nil
}

func (r *personRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM people`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count people: %w", err)
	}
	return count, nil
}

func (r *personRepository) Clear(ctx context.Context) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM people`); err != nil {
		return fmt.Errorf("failed to clear people: %w", err)
	}
	return nil
}

func scanPerson(row pgx.Row) (*models.Person, error) {
	var p models.Person
	var settings []byte
	var registeredAt *time.Time

	err := row.Scan(
		&p.ID,
		&p.LegacyID,
		&p.Login,
		&p.Email,
		&p.DisplayName,
		&p.Slug,
		&p.Role,
		&p.Phone,
		&p.Location,
		&p.Bio,
		&p.WebsiteURL,
		&settings,
		&registeredAt,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan person: %w", err)
	}

	if registeredAt != nil {
		p.RegisteredAt = *registeredAt
	}
	if len(settings) > 0 && string(settings) != "null" {
		if err := json.Unmarshal(settings, &p.Settings); err != nil {
			return nil, fmt.Errorf("failed to unmarshal person settings: %w", err)
		}
	}

	return &p, nil
}

// settingsValue encodes the settings bag for storage. An empty bag stores
// the empty JSON object, keeping the column non-null.
func settingsValue(settings map[string]string) ([]byte, error) {
	if len(settings) == 0 {
		return []byte("{}"), nil
	}
	return json.Marshal(settings)
}

// nullTime maps the zero time to NULL for nullable timestamp columns.
func nullTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
