//go:build integration

package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/crewcall-app/crewcall-engine/pkg/apperrors"
	"github.com/crewcall-app/crewcall-engine/pkg/models"
	"github.com/crewcall-app/crewcall-engine/pkg/testhelpers"
)

// jobTestContext holds test dependencies for job posting repository tests.
type jobTestContext struct {
	t      *testing.T
	testDB *testhelpers.TestDB
	repo   JobPostingRepository
	owner  *models.Person
}

func setupJobTest(t *testing.T) *jobTestContext {
	testDB := testhelpers.GetTestDB(t)
	tc := &jobTestContext{
		t:      t,
		testDB: testDB,
		repo:   NewJobPostingRepository(testDB.DB),
	}
	tc.cleanup()
	tc.ensureOwner()
	return tc
}

// cleanup removes jobs, schedules and the fixture owner.
func (tc *jobTestContext) cleanup() {
	tc.t.Helper()
	ctx := context.Background()

	_, _ = tc.testDB.DB.Exec(ctx, "DELETE FROM schedule_entries")
	_, _ = tc.testDB.DB.Exec(ctx, "DELETE FROM job_postings")
	_, _ = tc.testDB.DB.Exec(ctx, "DELETE FROM people")
}

// ensureOwner creates the fixture person jobs hang off.
func (tc *jobTestContext) ensureOwner() {
	tc.t.Helper()
	ctx := context.Background()

	owner := &models.Person{
		ID:          models.PersonUUID(1),
		LegacyID:    1,
		Login:       "producer",
		Email:       "producer@example.co.za",
		DisplayName: "producer",
		Slug:        "producer",
		Role:        models.PersonRoleProducer,
	}
	if err := NewPersonRepository(tc.testDB.DB).Create(ctx, owner); err != nil {
		tc.t.Fatalf("failed to create fixture owner: %v", err)
	}
	tc.owner = owner
}

func (tc *jobTestContext) createTestJob(ctx context.Context, legacyID int64, title, status string) *models.JobPosting {
	tc.t.Helper()
	job := &models.JobPosting{
		ID:       models.JobPostingUUID(legacyID),
		LegacyID: legacyID,
		OwnerID:  tc.owner.ID,
		Title:    title,
		Status:   status,
	}
	if err := tc.repo.Create(ctx, job); err != nil {
		tc.t.Fatalf("failed to create test job: %v", err)
	}
	return job
}

func TestJobPostingRepository_Create_Success(t *testing.T) {
	tc := setupJobTest(t)

	ctx := context.Background()

	rate := models.ParseDayRate("R 3,500.00")
	if !rate.Valid {
		t.Fatal("expected day rate to parse")
	}

	job := &models.JobPosting{
		ID:          models.JobPostingUUID(200),
		LegacyID:    200,
		OwnerID:     tc.owner.ID,
		Title:       "Commercial shoot, two day call",
		Slug:        "commercial-shoot",
		Description: "Two day beverage commercial in Cape Town.",
		Status:      models.JobStatusAssigned,
		DayRate:     rate,
	}

	if err := tc.repo.Create(ctx, job); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	retrieved, err := tc.repo.GetByLegacyID(ctx, 200)
	if err != nil {
		t.Fatalf("GetByLegacyID failed: %v", err)
	}
	if retrieved.Title != "Commercial shoot, two day call" {
		t.Errorf("expected title, got %q", retrieved.Title)
	}
	if retrieved.Status != models.JobStatusAssigned {
		t.Errorf("expected status ASSIGNED, got %q", retrieved.Status)
	}
	if retrieved.OwnerID != tc.owner.ID {
		t.Errorf("expected owner %s, got %s", tc.owner.ID, retrieved.OwnerID)
	}
	if !retrieved.DayRate.Valid {
		t.Fatal("expected day rate to be set")
	}
	if !retrieved.DayRate.Decimal.Equal(decimal.NewFromInt(3500)) {
		t.Errorf("expected day rate 3500, got %s", retrieved.DayRate.Decimal)
	}
}

func TestJobPostingRepository_Create_NoDayRate(t *testing.T) {
	tc := setupJobTest(t)

	ctx := context.Background()

	tc.createTestJob(ctx, 201, "Unpaid student film", models.JobStatusOpen)

	retrieved, err := tc.repo.GetByLegacyID(ctx, 201)
	if err != nil {
		t.Fatalf("GetByLegacyID failed: %v", err)
	}
	if retrieved.DayRate.Valid {
		t.Errorf("expected null day rate, got %s", retrieved.DayRate.Decimal)
	}
}

func TestJobPostingRepository_ScheduleEntries(t *testing.T) {
	tc := setupJobTest(t)

	ctx := context.Background()

	job := tc.createTestJob(ctx, 202, "Series block shoot", models.JobStatusOpen)

	entries := []models.ScheduleEntry{
		{JobPostingID: job.ID, LegacyJobID: 202, Position: 0, WorkDate: "2015-06-01", StartTime: "07:00", EndTime: "18:00"},
		{JobPostingID: job.ID, LegacyJobID: 202, Position: 1, WorkDate: "2015-06-02", StartTime: "07:00", EndTime: "19:30"},
		{JobPostingID: job.ID, LegacyJobID: 202, Position: 2, WorkDate: "TBC", StartTime: "", EndTime: ""},
	}
	for i := range entries {
		if err := tc.repo.CreateScheduleEntry(ctx, &entries[i]); err != nil {
			t.Fatalf("CreateScheduleEntry failed: %v", err)
		}
	}

	retrieved, err := tc.repo.GetByLegacyID(ctx, 202)
	if err != nil {
		t.Fatalf("GetByLegacyID failed: %v", err)
	}
	if len(retrieved.Schedule) != 3 {
		t.Fatalf("expected 3 schedule entries, got %d", len(retrieved.Schedule))
	}
	if retrieved.Schedule[0].WorkDate != "2015-06-01" {
		t.Errorf("expected first entry 2015-06-01, got %q", retrieved.Schedule[0].WorkDate)
	}
	if retrieved.Schedule[2].WorkDate != "TBC" {
		t.Errorf("expected free text date preserved, got %q", retrieved.Schedule[2].WorkDate)
	}

	count, err := tc.repo.CountScheduleEntries(ctx)
	if err != nil {
		t.Fatalf("CountScheduleEntries failed: %v", err)
	}
	if count != 3 {
		t.Errorf("expected 3 schedule entries, got %d", count)
	}
}

func TestJobPostingRepository_GetByLegacyID_NotFound(t *testing.T) {
	tc := setupJobTest(t)

	_, err := tc.repo.GetByLegacyID(context.Background(), 99999)
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestJobPostingRepository_List_OrderedByLegacyID(t *testing.T) {
	tc := setupJobTest(t)

	ctx := context.Background()

	tc.createTestJob(ctx, 210, "Later job", models.JobStatusCompleted)
	tc.createTestJob(ctx, 205, "Earlier job", models.JobStatusOpen)

	jobs, err := tc.repo.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}
	if jobs[0].LegacyID != 205 || jobs[1].LegacyID != 210 {
		t.Errorf("expected legacy id order [205 210], got [%d %d]", jobs[0].LegacyID, jobs[1].LegacyID)
	}
}

func TestJobPostingRepository_Clear(t *testing.T) {
	tc := setupJobTest(t)

	ctx := context.Background()

	job := tc.createTestJob(ctx, 220, "Doomed job", models.JobStatusOpen)
	entry := models.ScheduleEntry{JobPostingID: job.ID, LegacyJobID: 220, Position: 0, WorkDate: "2015-07-01", StartTime: "08:00", EndTime: "17:00"}
	if err := tc.repo.CreateScheduleEntry(ctx, &entry); err != nil {
		t.Fatalf("CreateScheduleEntry failed: %v", err)
	}

	if err := tc.repo.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	jobCount, err := tc.repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if jobCount != 0 {
		t.Errorf("expected 0 jobs after clear, got %d", jobCount)
	}
	entryCount, err := tc.repo.CountScheduleEntries(ctx)
	if err != nil {
		t.Fatalf("CountScheduleEntries failed: %v", err)
	}
	if entryCount != 0 {
		t.Errorf("expected 0 schedule entries after clear, got %d", entryCount)
	}
}
