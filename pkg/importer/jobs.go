package importer

import (
	"strings"

	"go.uber.org/zap"

	"github.com/crewcall-app/crewcall-engine/pkg/logging"
	"github.com/crewcall-app/crewcall-engine/pkg/models"
	"github.com/crewcall-app/crewcall-engine/pkg/wpdump"
)

// planJobs derives a job posting for every job record whose owner is an
// imported person. A job whose author resolves to no account is a counted
// skip: the legacy site accumulated postings from deleted accounts.
func planJobs(src *source, plan *importPlan, report *RunReport, logger *zap.Logger) {
	people := make(map[int64]*models.Person, len(plan.people))
	for _, p := range plan.people {
		people[p.LegacyID] = p
	}

	for _, post := range src.posts {
		if post.Type != postTypeJob {
			continue
		}

		owner, ok := people[post.AuthorID]
		if !ok {
			report.JobPostings.Skipped++
			logger.Warn("Skipping job with unresolvable owner",
				zap.Int64("job_id", post.ID),
				zap.Int64("author_id", post.AuthorID),
			)
			continue
		}

		job := &models.JobPosting{
			ID:          models.JobPostingUUID(post.ID),
			LegacyID:    post.ID,
			OwnerID:     owner.ID,
			Title:       post.Title,
			Slug:        post.Slug,
			Description: post.Content,
			CreatedAt:   post.CreatedAt,
			UpdatedAt:   post.ModifiedAt,
		}

		statusVal, _ := src.postMeta.Get(post.ID, metaJobStatus)
		job.Status = models.JobStatusFromLegacy(statusVal)

		if rate, ok := src.postMeta.First(post.ID, rateKeys...); ok {
			job.DayRate = models.ParseDayRate(rate)
		}

		blob, hasBlob := src.postMeta.Get(post.ID, metaJobDates)
		slots := wpdump.DecodeSchedule(blob)
		if hasBlob && strings.TrimSpace(blob) != "" && len(slots) == 0 {
			report.ScheduleEntries.Skipped++
			logger.Warn("Schedule blob did not decode",
				zap.Int64("job_id", post.ID),
				zap.String("blob", logging.SanitizeDumpText(blob)),
			)
		}
		for i, slot := range slots {
			job.Schedule = append(job.Schedule, models.ScheduleEntry{
				JobPostingID: job.ID,
				LegacyJobID:  post.ID,
				Position:     i,
				WorkDate:     slot.Date,
				StartTime:    slot.StartTime,
				EndTime:      slot.EndTime,
			})
			report.ScheduleEntries.Imported++
		}

		plan.jobs = append(plan.jobs, job)
		report.JobPostings.Imported++
	}
}
