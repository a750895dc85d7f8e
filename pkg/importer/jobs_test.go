package importer

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/crewcall-app/crewcall-engine/pkg/models"
	"github.com/crewcall-app/crewcall-engine/pkg/wpdump"
)

const scheduleBlobTwoDays = `a:2:{i:0;a:3:{s:4:"date";s:10:"2023-01-28";s:10:"start_time";s:5:"08:00";s:8:"end_time";s:5:"17:00";}i:1;a:3:{s:4:"date";s:10:"2023-01-29";s:10:"start_time";s:5:"07:30";s:8:"end_time";s:5:"16:00";}}`

// jobsFixture returns a source with one planned owner (legacy id 1) and
// the given posts and post attributes.
func jobsFixture(posts []wpdump.Post, metas []wpdump.Meta) (*source, *importPlan, *RunReport) {
	src := &source{
		posts:    posts,
		postMeta: wpdump.BuildMetaIndex(metas),
	}
	plan := &importPlan{
		people: []*models.Person{{ID: models.PersonUUID(1), LegacyID: 1}},
	}
	return src, plan, NewRunReport("dump.sql", "wp_", true)
}

// A booked status attribute maps to ASSIGNED.
func TestPlanJobs_StatusBooked(t *testing.T) {
	created := time.Date(2023, 1, 10, 8, 0, 0, 0, time.UTC)
	src, plan, report := jobsFixture(
		[]wpdump.Post{{
			ID: 402, AuthorID: 1, Type: postTypeJob,
			Title: "Stills shoot", Slug: "stills-shoot",
			Content: "Two day stills shoot.", CreatedAt: created, ModifiedAt: created,
		}},
		[]wpdump.Meta{{OwnerID: 402, Key: "_job_status", Value: "booked"}},
	)

	planJobs(src, plan, report, zap.NewNop())

	require.Len(t, plan.jobs, 1)
	job := plan.jobs[0]
	assert.Equal(t, models.JobPostingUUID(402), job.ID)
	assert.Equal(t, int64(402), job.LegacyID)
	assert.Equal(t, models.PersonUUID(1), job.OwnerID)
	assert.Equal(t, models.JobStatusAssigned, job.Status)
	assert.True(t, job.CreatedAt.Equal(created))
	assert.Equal(t, 1, report.JobPostings.Imported)
}

// A job without the status attribute is open.
func TestPlanJobs_StatusAbsentIsOpen(t *testing.T) {
	src, plan, report := jobsFixture(
		[]wpdump.Post{{ID: 403, AuthorID: 1, Type: postTypeJob, Title: "Doc shoot"}},
		nil,
	)

	planJobs(src, plan, report, zap.NewNop())

	require.Len(t, plan.jobs, 1)
	assert.Equal(t, models.JobStatusOpen, plan.jobs[0].Status)
}

func TestPlanJobs_StatusComplete(t *testing.T) {
	src, plan, report := jobsFixture(
		[]wpdump.Post{{ID: 404, AuthorID: 1, Type: postTypeJob}},
		[]wpdump.Meta{{OwnerID: 404, Key: "_job_status", Value: "complete"}},
	)

	planJobs(src, plan, report, zap.NewNop())

	assert.Equal(t, models.JobStatusCompleted, plan.jobs[0].Status)
}

func TestPlanJobs_DayRateParsed(t *testing.T) {
	src, plan, report := jobsFixture(
		[]wpdump.Post{
			{ID: 402, AuthorID: 1, Type: postTypeJob},
			{ID: 403, AuthorID: 1, Type: postTypeJob},
		},
		[]wpdump.Meta{{OwnerID: 402, Key: "_day_rate", Value: "R 3,500.00"}},
	)

	planJobs(src, plan, report, zap.NewNop())

	require.Len(t, plan.jobs, 2)
	require.True(t, plan.jobs[0].DayRate.Valid)
	assert.True(t, plan.jobs[0].DayRate.Decimal.Equal(decimal.NewFromInt(3500)))
	assert.False(t, plan.jobs[1].DayRate.Valid)
}

// The secondary rate key counts when the primary is absent.
func TestPlanJobs_RateAliasFallback(t *testing.T) {
	src, plan, report := jobsFixture(
		[]wpdump.Post{{ID: 405, AuthorID: 1, Type: postTypeJob}},
		[]wpdump.Meta{{OwnerID: 405, Key: "_rate", Value: "450"}},
	)

	planJobs(src, plan, report, zap.NewNop())

	require.True(t, plan.jobs[0].DayRate.Valid)
	assert.True(t, plan.jobs[0].DayRate.Decimal.Equal(decimal.NewFromInt(450)))
}

func TestPlanJobs_ScheduleDecoded(t *testing.T) {
	src, plan, report := jobsFixture(
		[]wpdump.Post{{ID: 402, AuthorID: 1, Type: postTypeJob}},
		[]wpdump.Meta{{OwnerID: 402, Key: "_job_dates", Value: scheduleBlobTwoDays}},
	)

	planJobs(src, plan, report, zap.NewNop())

	require.Len(t, plan.jobs, 1)
	entries := plan.jobs[0].Schedule
	require.Len(t, entries, 2)
	assert.Equal(t, 0, entries[0].Position)
	assert.Equal(t, "2023-01-28", entries[0].WorkDate)
	assert.Equal(t, "08:00", entries[0].StartTime)
	assert.Equal(t, "17:00", entries[0].EndTime)
	assert.Equal(t, 1, entries[1].Position)
	assert.Equal(t, "2023-01-29", entries[1].WorkDate)
	assert.Equal(t, models.JobPostingUUID(402), entries[0].JobPostingID)
	assert.Equal(t, 2, report.ScheduleEntries.Imported)
	assert.Equal(t, 0, report.ScheduleEntries.Skipped)
}

// A non-empty blob that decodes to nothing counts as a skipped schedule,
// and the job still imports.
func TestPlanJobs_UndecodableScheduleCounted(t *testing.T) {
	src, plan, report := jobsFixture(
		[]wpdump.Post{{ID: 406, AuthorID: 1, Type: postTypeJob}},
		[]wpdump.Meta{{OwnerID: 406, Key: "_job_dates", Value: "28 and 29 January"}},
	)

	planJobs(src, plan, report, zap.NewNop())

	require.Len(t, plan.jobs, 1)
	assert.Empty(t, plan.jobs[0].Schedule)
	assert.Equal(t, 1, report.ScheduleEntries.Skipped)
	assert.Equal(t, 0, report.ScheduleEntries.Imported)
}

// Jobs whose author never imported are counted skips, not errors.
func TestPlanJobs_OwnerlessSkipped(t *testing.T) {
	src, plan, report := jobsFixture(
		[]wpdump.Post{{ID: 500, AuthorID: 999, Type: postTypeJob}},
		nil,
	)

	planJobs(src, plan, report, zap.NewNop())

	assert.Empty(t, plan.jobs)
	assert.Equal(t, 0, report.JobPostings.Imported)
	assert.Equal(t, 1, report.JobPostings.Skipped)
}

func TestPlanJobs_IgnoresOtherRecordTypes(t *testing.T) {
	src, plan, report := jobsFixture(
		[]wpdump.Post{
			{ID: 55, AuthorID: 1, Type: postTypeProfile},
			{ID: 56, AuthorID: 1, Type: "revision"},
		},
		nil,
	)

	planJobs(src, plan, report, zap.NewNop())

	assert.Empty(t, plan.jobs)
	assert.Equal(t, 0, report.JobPostings.Imported)
	assert.Equal(t, 0, report.JobPostings.Skipped)
}
