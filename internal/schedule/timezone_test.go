package schedule

import (
	"testing"
	"time"
)

func TestToLocal_DSTBoundary(t *testing.T) {
	// Vancouver switched to PDT at 02:00 local on 2024-03-10 (10:00 UTC).
	tests := []struct {
		name     string
		isoUTC   string
		wantHour int
		wantMin  int
	}{
		{"after spring-forward, UTC-7", "2024-03-10T17:30:00Z", 10, 30},
		{"before spring-forward, UTC-8", "2024-03-10T09:30:00Z", 1, 30},
		{"deep winter, UTC-8", "2024-01-15T22:00:00Z", 14, 0},
		{"midsummer, UTC-7", "2024-07-01T19:15:00Z", 12, 15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hour, minute, _, ok := ToLocal(tt.isoUTC, "America/Vancouver")
			if !ok {
				t.Fatal("expected parse to succeed")
			}
			if hour != tt.wantHour || minute != tt.wantMin {
				t.Errorf("got %d:%02d, want %d:%02d", hour, minute, tt.wantHour, tt.wantMin)
			}
		})
	}
}

func TestToLocal_Malformed(t *testing.T) {
	if _, _, _, ok := ToLocal("not-a-timestamp", "America/Vancouver"); ok {
		t.Fatal("expected ok=false for malformed input")
	}
}

func TestFormatTimeForDisplay(t *testing.T) {
	got := FormatTimeForDisplay("2024-01-15T22:00:00Z", "America/Vancouver")
	if got != "2:00 PM PST" {
		t.Errorf("got %q, want %q", got, "2:00 PM PST")
	}
}

func TestFormatTimeForDisplay_FallsBackToRawInput(t *testing.T) {
	raw := "yesterday-ish"
	if got := FormatTimeForDisplay(raw, "America/Vancouver"); got != raw {
		t.Errorf("malformed input should pass through, got %q", got)
	}
}

func TestLocationOrUTC(t *testing.T) {
	if loc := LocationOrUTC("America/Vancouver"); loc.String() != "America/Vancouver" {
		t.Errorf("got %s", loc)
	}
	if loc := LocationOrUTC(""); loc != time.UTC {
		t.Errorf("empty zone should be UTC, got %s", loc)
	}
	if loc := LocationOrUTC("Nowhere/Invalid"); loc != time.UTC {
		t.Errorf("unknown zone should fall back to UTC, got %s", loc)
	}
}
