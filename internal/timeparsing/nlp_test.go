package timeparsing

import (
	"testing"
	"time"
)

// TestParseNaturalLanguage tests the NLP parser wrapper.
func TestParseNaturalLanguage(t *testing.T) {
	// Fixed reference time: Wednesday, January 15, 2025, 10:00:00 AM
	now := time.Date(2025, 1, 15, 10, 0, 0, 0, time.Local)

	tests := []struct {
		name      string
		input     string
		wantYear  int
		wantMonth time.Month
		wantDay   int
		wantErr   bool
	}{
		{name: "yesterday", input: "yesterday", wantYear: 2025, wantMonth: time.January, wantDay: 14},
		{name: "tomorrow", input: "tomorrow", wantYear: 2025, wantMonth: time.January, wantDay: 16},
		{name: "3 days ago", input: "3 days ago", wantYear: 2025, wantMonth: time.January, wantDay: 12},
		{name: "random text", input: "not a date at all", wantErr: true},
		{name: "empty string", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseNaturalLanguage(tt.input, now)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseNaturalLanguage(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}
			if got.Year() != tt.wantYear || got.Month() != tt.wantMonth || got.Day() != tt.wantDay {
				t.Errorf("ParseNaturalLanguage(%q) = %v, want %d-%02d-%02d", tt.input, got, tt.wantYear, tt.wantMonth, tt.wantDay)
			}
		})
	}
}

// TestParseRelativeTime tests the layered parsing function.
func TestParseRelativeTime(t *testing.T) {
	now := time.Date(2025, 1, 15, 10, 0, 0, 0, time.Local)

	tests := []struct {
		name      string
		input     string
		wantYear  int
		wantMonth time.Month
		wantDay   int
		wantHour  int // -1 means don't check hour
		wantErr   bool
	}{
		{name: "compact -2w", input: "-2w", wantYear: 2025, wantMonth: time.January, wantDay: 1, wantHour: 10},
		{name: "compact +6h", input: "+6h", wantYear: 2025, wantMonth: time.January, wantDay: 15, wantHour: 16},
		{name: "NLP yesterday", input: "yesterday", wantYear: 2025, wantMonth: time.January, wantDay: 14, wantHour: -1},
		{name: "date-only", input: "2025-02-01", wantYear: 2025, wantMonth: time.February, wantDay: 1, wantHour: 0},
		{name: "date and time", input: "2025-02-01 08:30", wantYear: 2025, wantMonth: time.February, wantDay: 1, wantHour: 8},
		{name: "RFC3339", input: "2025-03-15T14:30:00Z", wantYear: 2025, wantMonth: time.March, wantDay: 15, wantHour: 14},
		{name: "invalid expression", input: "not-a-date", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRelativeTime(tt.input, now)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseRelativeTime(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}
			if got.Year() != tt.wantYear || got.Month() != tt.wantMonth || got.Day() != tt.wantDay {
				t.Errorf("ParseRelativeTime(%q) = %v, want %d-%02d-%02d", tt.input, got, tt.wantYear, tt.wantMonth, tt.wantDay)
			}
			if tt.wantHour >= 0 && got.UTC().Hour() != tt.wantHour && got.Hour() != tt.wantHour {
				t.Errorf("ParseRelativeTime(%q) hour = %d, want %d", tt.input, got.Hour(), tt.wantHour)
			}
		})
	}
}

// TestParseRelativeTime_LayerPrecedence verifies that layers are tried in order.
func TestParseRelativeTime_LayerPrecedence(t *testing.T) {
	now := time.Date(2025, 1, 15, 10, 0, 0, 0, time.Local)

	t1, err := ParseRelativeTime("+1d", now)
	if err != nil {
		t.Fatalf("ParseRelativeTime(\"+1d\") failed: %v", err)
	}
	if expected := now.AddDate(0, 0, 1); !t1.Equal(expected) {
		t.Errorf("ParseRelativeTime(\"+1d\") = %v, want %v (compact duration should take precedence)", t1, expected)
	}

	t2, err := ParseRelativeTime("2025-01-20", now)
	if err != nil {
		t.Fatalf("ParseRelativeTime(\"2025-01-20\") failed: %v", err)
	}
	if t2.Day() != 20 || t2.Month() != time.January || t2.Year() != 2025 {
		t.Errorf("ParseRelativeTime(\"2025-01-20\") = %v, want Jan 20, 2025", t2)
	}
}
