package schedule

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Rule is one weekday's availability window for one location or for video.
type Rule struct {
	Enabled bool   `json:"enabled"`
	Start   string `json:"start"`
	End     string `json:"end"`
}

// WeekSchedule maps lowercase weekday names ("sunday".."saturday") to rules.
type WeekSchedule map[string]Rule

// ByLocation maps a normalized location name (or "video") to its week.
type ByLocation map[string]WeekSchedule

// WeekdayNames in Sunday-first order, matching time.Weekday.
var WeekdayNames = [7]string{
	"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday",
}

var timeRe = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// Warning thresholds for "unusual" start hours. Product-decided values,
// preserved as observed.
const (
	earliestUsualHour = 5
	latestUsualHour   = 23
)

// ValidationResult separates errors that block a save from warnings the
// agent may confirm through.
type ValidationResult struct {
	Critical []string `json:"criticalErrors"`
	Warnings []string `json:"warnings"`
}

func (v ValidationResult) OK() bool { return len(v.Critical) == 0 }

// Validate checks every enabled day of a week schedule. Malformed times and
// end<=start are critical; starts before 5 AM or at/after 11 PM warn only.
func Validate(week WeekSchedule) ValidationResult {
	var out ValidationResult
	for _, day := range WeekdayNames {
		r, exists := week[day]
		if !exists || !r.Enabled {
			continue
		}
		badStart := !timeRe.MatchString(r.Start)
		badEnd := !timeRe.MatchString(r.End)
		if badStart {
			out.Critical = append(out.Critical, fmt.Sprintf("%s: start time %q is not a valid HH:MM time", day, r.Start))
		}
		if badEnd {
			out.Critical = append(out.Critical, fmt.Sprintf("%s: end time %q is not a valid HH:MM time", day, r.End))
		}
		if badStart || badEnd {
			continue
		}
		if r.End <= r.Start {
			out.Critical = append(out.Critical, fmt.Sprintf("%s: end time must be after start time", day))
		}
		startHour, _ := strconv.Atoi(r.Start[:2])
		if startHour < earliestUsualHour || startHour >= latestUsualHour {
			out.Warnings = append(out.Warnings, fmt.Sprintf("%s: %s is an unusual start time", day, r.Start))
		}
	}
	return out
}

// DefaultWeek is the seed schedule for a location with no stored rules:
// weekdays 9-5 on, weekends 10-2 off.
func DefaultWeek() WeekSchedule {
	week := WeekSchedule{}
	for _, day := range WeekdayNames {
		switch day {
		case "saturday", "sunday":
			week[day] = Rule{Enabled: false, Start: "10:00", End: "14:00"}
		default:
			week[day] = Rule{Enabled: true, Start: "09:00", End: "17:00"}
		}
	}
	return week
}

// NormalizeLocation strips a trailing " office" (any case) and surrounding
// whitespace. Read and write paths must both normalize or stored schedules
// stop matching their location on reload.
func NormalizeLocation(name string) string {
	name = strings.TrimSpace(name)
	if len(name) > 7 && strings.EqualFold(name[len(name)-7:], " office") {
		name = strings.TrimSpace(name[:len(name)-7])
	}
	return name
}

// RuleFor returns the rule covering a local calendar date.
func (w WeekSchedule) RuleFor(date time.Time) (Rule, bool) {
	r, ok := w[WeekdayNames[int(date.Weekday())]]
	return r, ok
}

// parseHHMM splits a validated "HH:MM" string.
func parseHHMM(s string) (hour, minute int, err error) {
	if !timeRe.MatchString(s) {
		return 0, 0, fmt.Errorf("invalid time string: %s", s)
	}
	hour, _ = strconv.Atoi(s[:2])
	minute, _ = strconv.Atoi(s[3:])
	return hour, minute, nil
}
