package schedule

import (
	"fmt"
	"testing"
)

func week(day string, r Rule) WeekSchedule {
	return WeekSchedule{day: r}
}

func TestValidate_ValidWindows(t *testing.T) {
	tests := []struct {
		start, end string
	}{
		{"09:00", "17:00"},
		{"05:00", "05:01"},
		{"10:30", "14:45"},
		{"08:15", "22:59"},
	}
	for _, tt := range tests {
		t.Run(tt.start+"-"+tt.end, func(t *testing.T) {
			result := Validate(week("monday", Rule{Enabled: true, Start: tt.start, End: tt.end}))
			if !result.OK() {
				t.Fatalf("expected no critical errors, got %v", result.Critical)
			}
		})
	}
}

func TestValidate_Critical(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
	}{
		{"single digit hour", "9:00", "17:00"},
		{"hour out of range", "24:00", "25:00"},
		{"minute out of range", "09:60", "17:00"},
		{"not a time", "morning", "17:00"},
		{"end equals start", "09:00", "09:00"},
		{"end before start", "17:00", "09:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(week("tuesday", Rule{Enabled: true, Start: tt.start, End: tt.end}))
			if result.OK() {
				t.Fatalf("expected critical errors for start=%q end=%q", tt.start, tt.end)
			}
		})
	}
}

func TestValidate_DisabledDaysSkipped(t *testing.T) {
	result := Validate(week("sunday", Rule{Enabled: false, Start: "garbage", End: ""}))
	if !result.OK() || len(result.Warnings) != 0 {
		t.Fatalf("disabled day should not be validated, got %+v", result)
	}
}

func TestValidate_UnusualStartWarnings(t *testing.T) {
	for hour := 0; hour <= 23; hour++ {
		start := fmt.Sprintf("%02d:00", hour)
		result := Validate(week("wednesday", Rule{Enabled: true, Start: start, End: "23:59"}))
		if !result.OK() {
			t.Fatalf("hour %d: unexpected critical errors %v", hour, result.Critical)
		}
		wantWarn := hour < 5 || hour >= 23
		if gotWarn := len(result.Warnings) > 0; gotWarn != wantWarn {
			t.Errorf("hour %d: warning = %v, want %v", hour, gotWarn, wantWarn)
		}
	}
}

func TestDefaultWeek(t *testing.T) {
	w := DefaultWeek()
	if len(w) != 7 {
		t.Fatalf("expected 7 days, got %d", len(w))
	}
	for _, day := range []string{"monday", "tuesday", "wednesday", "thursday", "friday"} {
		r := w[day]
		if !r.Enabled || r.Start != "09:00" || r.End != "17:00" {
			t.Errorf("%s: got %+v, want enabled 09:00-17:00", day, r)
		}
	}
	for _, day := range []string{"saturday", "sunday"} {
		r := w[day]
		if r.Enabled || r.Start != "10:00" || r.End != "14:00" {
			t.Errorf("%s: got %+v, want disabled 10:00-14:00", day, r)
		}
	}
}

func TestNormalizeLocation(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Kelowna", "Kelowna"},
		{"Kelowna Office", "Kelowna"},
		{"Kelowna office", "Kelowna"},
		{"  Kelowna OFFICE  ", "Kelowna"},
		{"Office", "Office"},
		{"Officer Office", "Officer"},
		{"video", "video"},
	}
	for _, tt := range tests {
		if got := NormalizeLocation(tt.in); got != tt.want {
			t.Errorf("NormalizeLocation(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
