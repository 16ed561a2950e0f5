package schedule

import (
	"testing"
	"time"
)

func TestWeekOf_AlwaysStartsSunday(t *testing.T) {
	loc := mustLoc(t, "America/Vancouver")
	// one anchor per weekday
	for i := 0; i < 7; i++ {
		anchor := time.Date(2024, 3, 10+i, 12, 0, 0, 0, loc)
		days := WeekOf(anchor, loc)
		if days[0].Weekday() != time.Sunday {
			t.Fatalf("anchor %s: week starts on %s", anchor, days[0].Weekday())
		}
		for j, day := range days {
			if int(day.Weekday()) != j {
				t.Errorf("index %d holds %s", j, day.Weekday())
			}
		}
	}
}

func TestAnnotate_BucketingIsStable(t *testing.T) {
	loc := mustLoc(t, "America/Vancouver")
	start := time.Date(2024, 3, 10, 17, 30, 0, 0, time.UTC)
	end := start.Add(45 * time.Minute)

	first := Annotate(start, end, loc)
	second := Annotate(start, end, loc)
	if first != second {
		t.Fatalf("annotation not idempotent: %+v vs %+v", first, second)
	}
	if first.Day < 0 || first.Day > 6 {
		t.Fatalf("day index %d out of range", first.Day)
	}
	// 17:30 UTC on the DST-transition day is 10:30 PDT, still Sunday
	if first.Day != 0 || first.Hour != 10 || first.Minute != 30 {
		t.Errorf("got day=%d %d:%02d, want Sunday 10:30", first.Day, first.Hour, first.Minute)
	}
	if first.DurationMinutes != 45 {
		t.Errorf("duration = %d", first.DurationMinutes)
	}
	if first.StartTime != "10:30 AM" {
		t.Errorf("start display = %q", first.StartTime)
	}
}

func TestAnnotate_MidnightBelongsToThatDay(t *testing.T) {
	loc := mustLoc(t, "America/Vancouver")
	// 07:00 UTC on June 12 is exactly local midnight June 12 (PDT)
	start := time.Date(2024, 6, 12, 7, 0, 0, 0, time.UTC)
	d := Annotate(start, start.Add(30*time.Minute), loc)
	if d.DateStr != "2024-06-12" {
		t.Errorf("midnight start bucketed to %s, want 2024-06-12", d.DateStr)
	}
	if d.Hour != 0 || d.Minute != 0 {
		t.Errorf("got %d:%02d, want 0:00", d.Hour, d.Minute)
	}
}

func TestMonthGrid_Always42Cells(t *testing.T) {
	loc := time.UTC
	for month := time.January; month <= time.December; month++ {
		cells := MonthGrid(2024, month, loc)
		if len(cells) != MonthCells {
			t.Fatalf("%s: %d cells", month, len(cells))
		}
		first := time.Date(2024, month, 1, 0, 0, 0, 0, loc)
		idx := int(first.Weekday())
		if !cells[idx].FullDate.Equal(first) {
			t.Errorf("%s: cell %d holds %s, want the 1st", month, idx, cells[idx].FullDate)
		}
		if !cells[idx].IsCurrentMonth {
			t.Errorf("%s: 1st not flagged current month", month)
		}
		for i := 0; i < idx; i++ {
			if cells[i].IsCurrentMonth {
				t.Errorf("%s: leading cell %d flagged current month", month, i)
			}
		}
	}
}

func TestBucketAppointments_Counts(t *testing.T) {
	loc := time.UTC
	cells := WeekGrid(time.Date(2026, 1, 7, 0, 0, 0, 0, loc), loc) // week of Jan 4-10
	appts := []Derived{
		{DateStr: "2026-01-05"},
		{DateStr: "2026-01-05"},
		{DateStr: "2026-01-09"},
		{DateStr: "2026-02-01"}, // out of view
	}
	cells = BucketAppointments(cells, appts)
	want := map[string]int{"2026-01-05": 2, "2026-01-09": 1}
	for _, c := range cells {
		if c.AppointmentCount != want[c.DateStr] {
			t.Errorf("%s: count %d, want %d", c.DateStr, c.AppointmentCount, want[c.DateStr])
		}
	}
}

func TestHourWindow(t *testing.T) {
	tests := []struct {
		name      string
		hours     []int
		wantStart int
		wantEnd   int
	}{
		{"empty view keeps default", nil, 8, 20},
		{"inside band keeps default", []int{9, 14, 19}, 8, 20},
		{"early appointment expands down", []int{6}, 5, 20},
		{"late appointment expands up", []int{22}, 8, 23},
		{"midnight clamps at zero", []int{0}, 0, 20},
		{"23h clamps at 23", []int{23}, 8, 23},
		{"both ends", []int{4, 21}, 3, 22},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appts := make([]Derived, len(tt.hours))
			for i, h := range tt.hours {
				appts[i] = Derived{Hour: h}
			}
			start, end := HourWindow(appts)
			if start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("got [%d,%d], want [%d,%d]", start, end, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestGeometry(t *testing.T) {
	for _, cellHeight := range []int{CellHeightNarrowPx, CellHeightWidePx} {
		for minute := 0; minute < 60; minute += 15 {
			got := TopOffset(minute, cellHeight)
			want := float64(minute) / 60 * float64(cellHeight)
			if got != want {
				t.Errorf("TopOffset(%d, %d) = %f, want %f", minute, cellHeight, got, want)
			}
		}
		for _, duration := range []int{15, 30, 45, 60, 90} {
			got := BoxHeight(duration, cellHeight)
			want := float64(duration) / 60 * float64(cellHeight)
			if got != want {
				t.Errorf("BoxHeight(%d, %d) = %f, want %f", duration, cellHeight, got, want)
			}
		}
	}
	if CellHeight(375) != CellHeightNarrowPx {
		t.Error("narrow viewport should use 48px cells")
	}
	if CellHeight(1280) != CellHeightWidePx {
		t.Error("wide viewport should use 80px cells")
	}
}

func TestWeekdayColor_StableAcrossViews(t *testing.T) {
	seen := map[string]time.Weekday{}
	for d := time.Sunday; d <= time.Saturday; d++ {
		color := WeekdayColor(d)
		if color == "" {
			t.Fatalf("%s has no color", d)
		}
		if prev, dup := seen[color]; dup {
			t.Errorf("%s and %s share color %s", prev, d, color)
		}
		seen[color] = d
		if WeekdayColor(d) != color {
			t.Errorf("%s color not stable", d)
		}
	}
}
