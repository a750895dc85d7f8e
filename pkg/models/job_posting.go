package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status values for job postings.
const (
	JobStatusOpen      = "OPEN"      // published, nobody booked
	JobStatusAssigned  = "ASSIGNED"  // crew booked, work pending
	JobStatusCompleted = "COMPLETED" // work done
)

// JobPosting is one imported job with its schedule. DayRate is invalid when
// the source job carried no rate.
type JobPosting struct {
	ID          uuid.UUID           `json:"id"`
	LegacyID    int64               `json:"legacy_id"`
	OwnerID     uuid.UUID           `json:"owner_id"`
	Title       string              `json:"title"`
	Slug        string              `json:"slug"`
	Description string              `json:"description,omitempty"`
	Status      string              `json:"status"` // 'OPEN', 'ASSIGNED', 'COMPLETED'
	DayRate     decimal.NullDecimal `json:"day_rate,omitempty"`
	Schedule    []ScheduleEntry     `json:"schedule,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// JobStatusFromLegacy maps the legacy status attribute value to the target
// status. The legacy site only ever wrote 'complete' and 'booked'; a
// published job without the attribute is open.
func JobStatusFromLegacy(v string) string {
	switch v {
	case "complete":
		return JobStatusCompleted
	case "booked":
		return JobStatusAssigned
	default:
		return JobStatusOpen
	}
}

// ParseDayRate parses a legacy rate attribute value. Empty or unparsable
// values yield an invalid NullDecimal, not an error: legacy rates were
// free-text and sometimes hold prose like "negotiable".
func ParseDayRate(v string) decimal.NullDecimal {
	d, err := decimal.NewFromString(normalizeRate(v))
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

// normalizeRate strips currency symbols and digit separators the legacy
// data is known to contain, e.g. "R 3,500.00" or "R3500/day".
func normalizeRate(v string) string {
	var out []byte
	for i := 0; i < len(v); i++ {
		c := v[i]
		switch {
		case c >= '0' && c <= '9', c == '.':
			out = append(out, c)
		case c == ',':
			// thousands separator
		case len(out) > 0:
			// digits followed by a unit suffix: stop at the suffix
			return string(out)
		}
	}
	return string(out)
}
