package schedule

import "time"

// LocationOrUTC resolves an IANA zone name, falling back to UTC when the
// name is empty or unknown.
func LocationOrUTC(zone string) *time.Location {
	if zone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ToLocal parses a stored UTC timestamp and converts it into the given zone.
// Stored timestamps are always UTC; the ambient machine zone is never used.
// ok is false when the timestamp does not parse.
func ToLocal(isoUTC string, zone string) (hour int, minute int, t time.Time, ok bool) {
	parsed, err := time.Parse(time.RFC3339, isoUTC)
	if err != nil {
		return 0, 0, time.Time{}, false
	}
	local := parsed.In(LocationOrUTC(zone))
	return local.Hour(), local.Minute(), local, true
}

// FormatTimeForDisplay renders a UTC timestamp as e.g. "2:00 PM PST" in the
// given zone. Unparseable input is returned unchanged so malformed data
// degrades to raw text instead of breaking the calendar.
func FormatTimeForDisplay(isoUTC string, zone string) string {
	parsed, err := time.Parse(time.RFC3339, isoUTC)
	if err != nil {
		return isoUTC
	}
	return parsed.In(LocationOrUTC(zone)).Format("3:04 PM MST")
}
