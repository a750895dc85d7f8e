package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/crewcall-app/crewcall-engine/pkg/apperrors"
	"github.com/crewcall-app/crewcall-engine/pkg/database"
	"github.com/crewcall-app/crewcall-engine/pkg/models"
)

// JobPostingRepository provides data access for job postings and their
// schedule entries.
type JobPostingRepository interface {
	Create(ctx context.Context, job *models.JobPosting) error
	CreateScheduleEntry(ctx context.Context, entry *models.ScheduleEntry) error
	GetByLegacyID(ctx context.Context, legacyID int64) (*models.JobPosting, error)
	List(ctx context.Context) ([]*models.JobPosting, error)
	ListScheduleEntries(ctx context.Context) ([]*models.ScheduleEntry, error)
	Count(ctx context.Context) (int64, error)
	CountScheduleEntries(ctx context.Context) (int64, error)
	Clear(ctx context.Context) error
}

type jobPostingRepository struct {
	q database.Querier
}

// NewJobPostingRepository creates a JobPostingRepository over the given
// query handle.
func NewJobPostingRepository(q database.Querier) JobPostingRepository {
	return &jobPostingRepository{q: q}
}

var _ JobPostingRepository = (*jobPostingRepository)(nil)

// Create inserts the job row alone; schedule entries are inserted
// separately so a job with a malformed schedule blob still imports.
func (r *jobPostingRepository) Create(ctx context.Context, job *models.JobPosting) error {
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now()
	}
	if job.UpdatedAt.IsZero() {
		job.UpdatedAt = job.CreatedAt
	}

	query := `
		INSERT INTO job_postings (
			id, legacy_id, owner_id, title, slug, description, status,
			day_rate, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.q.Exec(ctx, query,
		job.ID,
		job.LegacyID,
		job.OwnerID,
		job.Title,
		job.Slug,
		job.Description,
		job.Status,
		job.DayRate,
		job.CreatedAt,
		job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create job posting: %w", err)
	}

	return nil
}

func (r *jobPostingRepository) CreateScheduleEntry(ctx context.Context, entry *models.ScheduleEntry) error {
	query := `
		INSERT INTO schedule_entries (
			job_posting_id, legacy_job_id, position, work_date, start_time, end_time
		) VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.q.Exec(ctx, query,
		entry.JobPostingID,
		entry.LegacyJobID,
		entry.Position,
		entry.WorkDate,
		entry.StartTime,
		entry.EndTime,
	)
	if err != nil {
		return fmt.Errorf("failed to create schedule entry: %w", err)
	}

	return nil
}

// GetByLegacyID returns the job with its schedule entries in position
// order.
func (r *jobPostingRepository) GetByLegacyID(ctx context.Context, legacyID int64) (*models.JobPosting, error) {
	query := `
		SELECT id, legacy_id, owner_id, title, slug, description, status,
		       day_rate, created_at, updated_at
		FROM job_postings
		WHERE legacy_id = $1`

	job, err := scanJobPosting(r.q.QueryRow(ctx, query, legacyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	entries, err := r.scheduleForJob(ctx, job.ID, job.LegacyID)
	if err != nil {
		return nil, err
	}
	job.Schedule = entries

	return job, nil
}

func (r *jobPostingRepository) List(ctx context.Context) ([]*models.JobPosting, error) {
	query := `
		SELECT id, legacy_id, owner_id, title, slug, description, status,
		       day_rate, created_at, updated_at
		FROM job_postings
		ORDER BY legacy_id`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query job postings: %w", err)
	}
	defer rows.Close()

	var jobs []*models.JobPosting
	for rows.Next() {
		job, err := scanJobPosting(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating job postings: %w", err)
	}

	return jobs, nil
}

func (r *jobPostingRepository) ListScheduleEntries(ctx context.Context) ([]*models.ScheduleEntry, error) {
	query := `
		SELECT job_posting_id, legacy_job_id, position, work_date, start_time, end_time
		FROM schedule_entries
		ORDER BY legacy_job_id, position`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedule entries: %w", err)
	}
	defer rows.Close()

	var entries []*models.ScheduleEntry
	for rows.Next() {
		var e models.ScheduleEntry
		err := rows.Scan(&e.JobPostingID, &e.LegacyJobID, &e.Position, &e.WorkDate, &e.StartTime, &e.EndTime)
		if err != nil {
			return nil, fmt.Errorf("failed to scan schedule entry: %w", err)
		}
		entries = append(entries, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating schedule entries: %w", err)
	}

	return entries, nil
}

func (r *jobPostingRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM job_postings`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count job postings: %w", err)
	}
	return count, nil
}

func (r *jobPostingRepository) CountScheduleEntries(ctx context.Context) (int64, error) {
	var count int64
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM schedule_entries`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count schedule entries: %w", err)
	}
	return count, nil
}

// Clear removes schedule entries before their jobs to satisfy the foreign
// key without relying on cascades.
func (r *jobPostingRepository) Clear(ctx context.Context) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM schedule_entries`); err != nil {
		return fmt.Errorf("failed to clear schedule entries: %w", err)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM job_postings`); err != nil {
		return fmt.Errorf("failed to clear job postings: %w", err)
	}
	return nil
}

func (r *jobPostingRepository) scheduleForJob(ctx context.Context, jobID uuid.UUID, legacyJobID int64) ([]models.ScheduleEntry, error) {
	query := `
		SELECT job_posting_id, legacy_job_id, position, work_date, start_time, end_time
		FROM schedule_entries
		WHERE job_posting_id = $1
		ORDER BY position`

	rows, err := r.q.Query(ctx, query, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedule for job %d: %w", legacyJobID, err)
	}
	defer rows.Close()

	var entries []models.ScheduleEntry
	for rows.Next() {
		var e models.ScheduleEntry
		err := rows.Scan(&e.JobPostingID, &e.LegacyJobID, &e.Position, &e.WorkDate, &e.StartTime, &e.EndTime)
		if err != nil {
			return nil, fmt.Errorf("failed to scan schedule entry: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating schedule entries: %w", err)
	}

	return entries, nil
}

func scanJobPosting(row pgx.Row) (*models.JobPosting, error) {
	var j models.JobPosting
	err := row.Scan(
		&j.ID,
		&j.LegacyID,
		&j.OwnerID,
		&j.Title,
		&j.Slug,
		&j.Description,
		&j.Status,
		&j.DayRate,
		&j.CreatedAt,
		&j.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan job posting: %w", err)
	}
	return &j, nil
}
