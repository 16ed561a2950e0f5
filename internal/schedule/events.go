package schedule

import "time"

// ComposeUTCRange converts a clicked grid cell (a local calendar date plus
// hour and minute in the agent's zone) into the UTC pair persisted for an
// event. End is start plus the appointment length.
func ComposeUTCRange(localDate time.Time, hour, minute, durationMinutes int, loc *time.Location) (startsAt, endsAt time.Time) {
	start := time.Date(localDate.Year(), localDate.Month(), localDate.Day(), hour, minute, 0, 0, loc)
	startsAt = start.UTC()
	endsAt = start.Add(time.Duration(durationMinutes) * time.Minute).UTC()
	return startsAt, endsAt
}
