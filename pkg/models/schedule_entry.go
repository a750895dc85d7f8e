package models

import (
	"github.com/google/uuid"
)

// ScheduleEntry is one working slot of a job posting. Entries have no id of
// their own; (JobPostingID, Position) identifies one, with Position the
// slot's index in the source schedule. Date and times stay as the source
// text (dates "2006-01-02", times "15:04"): the legacy admin accepted
// free-text input and a few historical rows do not parse.
type ScheduleEntry struct {
	JobPostingID uuid.UUID `json:"job_posting_id"`
	LegacyJobID  int64     `json:"legacy_job_id"`
	Position     int       `json:"position"`
	WorkDate     string    `json:"work_date"`
	StartTime    string    `json:"start_time"`
	EndTime      string    `json:"end_time"`
}
