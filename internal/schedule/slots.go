package schedule

import (
	"time"
)

// TimeSlot is one bookable interval surfaced to a family. Timestamps are
// UTC; Time is the agent-local display string.
type TimeSlot struct {
	Time      string    `json:"time"`
	StartsAt  time.Time `json:"startsAt"`
	EndsAt    time.Time `json:"endsAt"`
	Available bool      `json:"available"`
}

// DaySlots groups a date's generated slots for the availability endpoint.
type DaySlots struct {
	Date  string     `json:"date"`
	Slots []TimeSlot `json:"slots"`
}

// Interval is a half-open busy window [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// GenerateSlots expands a location's week schedule into slots of
// slotLengthMins between the local calendar dates from and to (inclusive),
// excluding slots that overlap a booked interval. Rules are interpreted in
// loc; emitted timestamps are UTC.
func GenerateSlots(week WeekSchedule, from, to time.Time, slotLengthMins int, loc *time.Location, booked []Interval) []DaySlots {
	if slotLengthMins <= 0 || week == nil {
		return nil
	}
	slotLen := time.Duration(slotLengthMins) * time.Minute

	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, loc)
	end := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, loc)

	var out []DaySlots
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		rule, ok := week.RuleFor(day)
		if !ok || !rule.Enabled {
			continue
		}
		startH, startM, err := parseHHMM(rule.Start)
		if err != nil {
			continue
		}
		endH, endM, err := parseHHMM(rule.End)
		if err != nil {
			continue
		}
		windowStart := time.Date(day.Year(), day.Month(), day.Day(), startH, startM, 0, 0, loc)
		windowEnd := time.Date(day.Year(), day.Month(), day.Day(), endH, endM, 0, 0, loc)
		if !windowEnd.After(windowStart) {
			continue
		}

		var slots []TimeSlot
		for s := windowStart; !s.Add(slotLen).After(windowEnd); s = s.Add(slotLen) {
			if overlapsAny(s, s.Add(slotLen), booked) {
				continue
			}
			slots = append(slots, TimeSlot{
				Time:      s.Format("3:04 PM"),
				StartsAt:  s.UTC(),
				EndsAt:    s.Add(slotLen).UTC(),
				Available: true,
			})
		}
		if len(slots) > 0 {
			out = append(out, DaySlots{Date: day.Format("2006-01-02"), Slots: slots})
		}
	}
	return out
}

// Half-open overlap: [start,end) intersects [b.Start,b.End) iff
// start < b.End && b.Start < end.
func overlapsAny(start, end time.Time, busy []Interval) bool {
	for _, b := range busy {
		if start.Before(b.End) && b.Start.Before(end) {
			return true
		}
	}
	return false
}
