package schedule

import "time"

// Derived holds the per-render annotation of an appointment in the agent's
// zone. Never persisted; recomputed on every pass.
type Derived struct {
	Day             int    `json:"day"` // Sunday-indexed 0..6
	Hour            int    `json:"hour"`
	Minute          int    `json:"minute"`
	DurationMinutes int    `json:"durationMinutes"`
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	DateStr         string `json:"dateStr"` // local calendar date, 2006-01-02
}

// Annotate converts an appointment's UTC bounds into display fields in loc.
func Annotate(startsAt, endsAt time.Time, loc *time.Location) Derived {
	localStart := startsAt.In(loc)
	localEnd := endsAt.In(loc)
	return Derived{
		Day:             int(localStart.Weekday()),
		Hour:            localStart.Hour(),
		Minute:          localStart.Minute(),
		DurationMinutes: int(endsAt.Sub(startsAt) / time.Minute),
		StartTime:       localStart.Format("3:04 PM"),
		EndTime:         localEnd.Format("3:04 PM"),
		DateStr:         localStart.Format("2006-01-02"),
	}
}

// DayCell is one calendar cell of a day/week/month view.
type DayCell struct {
	DayOfWeek        string     `json:"dayOfWeek"`
	Date             int        `json:"date"`
	Month            string     `json:"month"`
	FullDate         time.Time  `json:"fullDate"`
	DateStr          string     `json:"dateStr"`
	AppointmentCount int        `json:"appointmentCount"`
	TimeSlots        []TimeSlot `json:"timeSlots"`
	IsCurrentMonth   bool       `json:"isCurrentMonth"`
}

func newDayCell(day time.Time, currentMonth time.Month) DayCell {
	return DayCell{
		DayOfWeek:      day.Weekday().String(),
		Date:           day.Day(),
		Month:          day.Month().String(),
		FullDate:       day,
		DateStr:        day.Format("2006-01-02"),
		IsCurrentMonth: day.Month() == currentMonth,
	}
}

// WeekOf returns the 7 local dates of anchor's week. Weeks always start on
// Sunday, not ISO Monday.
func WeekOf(anchor time.Time, loc *time.Location) [7]time.Time {
	local := anchor.In(loc)
	sunday := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc).
		AddDate(0, 0, -int(local.Weekday()))
	var days [7]time.Time
	for i := range days {
		days[i] = sunday.AddDate(0, 0, i)
	}
	return days
}

// MonthCells is always 42: six full weeks starting on the Sunday on or
// before the 1st, padded with adjacent-month days flagged !IsCurrentMonth.
const MonthCells = 42

// MonthGrid builds the 42-cell month view for year/month in loc.
func MonthGrid(year int, month time.Month, loc *time.Location) []DayCell {
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	start := first.AddDate(0, 0, -int(first.Weekday()))
	cells := make([]DayCell, 0, MonthCells)
	for i := 0; i < MonthCells; i++ {
		cells = append(cells, newDayCell(start.AddDate(0, 0, i), month))
	}
	return cells
}

// WeekGrid builds the 7 Sunday-indexed cells for anchor's week.
func WeekGrid(anchor time.Time, loc *time.Location) []DayCell {
	days := WeekOf(anchor, loc)
	cells := make([]DayCell, 0, len(days))
	for _, day := range days {
		cells = append(cells, newDayCell(day, day.Month()))
	}
	return cells
}

// BucketAppointments counts each annotated appointment into the cell whose
// local calendar date it starts on. A local-midnight start belongs to that
// day, never the previous one: bucketing compares DateStr, which is derived
// after zone conversion.
func BucketAppointments(cells []DayCell, appts []Derived) []DayCell {
	byDate := make(map[string]int, len(appts))
	for _, a := range appts {
		byDate[a.DateStr]++
	}
	out := make([]DayCell, len(cells))
	for i, c := range cells {
		c.AppointmentCount = byDate[c.DateStr]
		out[i] = c
	}
	return out
}

// Display-hour window defaults. The grid always shows at least 8 AM-8 PM and
// expands with one hour of padding when an appointment falls outside.
const (
	defaultWindowStart = 8
	defaultWindowEnd   = 20
)

// HourWindow computes the rendered hour range for the appointments in view.
func HourWindow(appts []Derived) (startHour, endHour int) {
	startHour, endHour = defaultWindowStart, defaultWindowEnd
	for _, a := range appts {
		if a.Hour-1 < startHour {
			startHour = a.Hour - 1
			if startHour < 0 {
				startHour = 0
			}
		}
		if a.Hour+1 > endHour {
			endHour = a.Hour + 1
			if endHour > 23 {
				endHour = 23
			}
		}
	}
	return startHour, endHour
}

// Appointment-box geometry. Positioning is an explicit pixel computation,
// not delegated to the layout engine, so both breakpoint cell heights are
// computed here and selected by viewport width.
const (
	CellHeightNarrowPx = 48
	CellHeightWidePx   = 80
	wideBreakpointPx   = 768
)

// CellHeight selects the per-hour cell height for a viewport width.
func CellHeight(viewportWidthPx int) int {
	if viewportWidthPx >= wideBreakpointPx {
		return CellHeightWidePx
	}
	return CellHeightNarrowPx
}

// TopOffset is the pixel offset of an appointment box within its hour cell.
func TopOffset(minute, cellHeightPx int) float64 {
	return float64(minute) / 60 * float64(cellHeightPx)
}

// BoxHeight is the pixel height of an appointment box.
func BoxHeight(durationMinutes, cellHeightPx int) float64 {
	return float64(durationMinutes) / 60 * float64(cellHeightPx)
}

// Fixed palette indexed Sunday..Saturday; the same weekday gets the same
// color in every view.
var weekdayColors = [7]string{
	"#7C6FF0", // Sunday
	"#4F9DF7", // Monday
	"#3EC6A8", // Tuesday
	"#F5B544", // Wednesday
	"#EE7B5C", // Thursday
	"#D96BB1", // Friday
	"#8A93A6", // Saturday
}

// WeekdayColor returns the stable color for a weekday.
func WeekdayColor(d time.Weekday) string {
	return weekdayColors[int(d)]
}
