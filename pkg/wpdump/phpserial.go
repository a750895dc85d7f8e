package wpdump

import (
	"html"
	"regexp"
	"strings"
)

// The legacy plugin stored compound values with PHP's serialize(): a schedule
// is an array of arrays, each inner array holding exactly the three
// string-keyed fields date, start_time and end_time, for example
//
//	a:1:{i:0;a:3:{s:4:"date";s:10:"2023-01-28";s:10:"start_time";s:5:"08:00";s:8:"end_time";s:5:"17:00";}}
//
// Only this one inner shape ever occurs, so each i:<k>;a:3:{...} block is
// matched independently instead of parsing the full serialization grammar.

// ScheduleSlot is one decoded (date, start time, end time) triple.
type ScheduleSlot struct {
	Date      string
	StartTime string
	EndTime   string
}

var (
	scheduleBlockRe = regexp.MustCompile(`i:\d+;a:3:\{([^{}]*)\}`)
	scheduleDateRe  = regexp.MustCompile(`s:\d+:"date";s:\d+:"([^"]*)"`)
	scheduleStartRe = regexp.MustCompile(`s:\d+:"start_time";s:\d+:"([^"]*)"`)
	scheduleEndRe   = regexp.MustCompile(`s:\d+:"end_time";s:\d+:"([^"]*)"`)

	enabledRoleRe = regexp.MustCompile(`s:\d+:"([A-Za-z0-9_-]+)";b:1`)
)

// DecodeSchedule decodes a serialized schedule blob into its slots, in blob
// order. Blobs sometimes arrive with HTML-escaped quote characters; those are
// un-escaped before matching. Malformed or empty input decodes to an empty
// list, never an error: schedule meta rows written by hand in the legacy
// admin are occasionally broken and must not stop an import.
func DecodeSchedule(blob string) []ScheduleSlot {
	blob = unescapeEntities(blob)

	var slots []ScheduleSlot
	for _, m := range scheduleBlockRe.FindAllStringSubmatch(blob, -1) {
		body := m[1]
		date := scheduleDateRe.FindStringSubmatch(body)
		start := scheduleStartRe.FindStringSubmatch(body)
		end := scheduleEndRe.FindStringSubmatch(body)
		if date == nil || start == nil || end == nil {
			continue
		}
		slots = append(slots, ScheduleSlot{
			Date:      date[1],
			StartTime: start[1],
			EndTime:   end[1],
		})
	}
	return slots
}

// DecodeRoles decodes the serialized capabilities map of a user into the
// role names flagged true, in blob order. Malformed input decodes to an
// empty list.
func DecodeRoles(blob string) []string {
	blob = unescapeEntities(blob)

	var roles []string
	for _, m := range enabledRoleRe.FindAllStringSubmatch(blob, -1) {
		roles = append(roles, m[1])
	}
	return roles
}

// unescapeEntities resolves HTML entities when the blob still carries them.
// Field decoding already un-escapes once; blobs that were double-encoded in
// the source retain entity-escaped quotes that would otherwise break the
// structural quote matching. Plain blobs pass through untouched so values
// containing literal ampersand text are never decoded twice.
func unescapeEntities(blob string) string {
	if strings.Contains(blob, "&quot;") || strings.Contains(blob, "&#034;") || strings.Contains(blob, "&#34;") {
		return html.UnescapeString(blob)
	}
	return blob
}
