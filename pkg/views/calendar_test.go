package views

import (
	"testing"
	"time"
)

func TestCalendarGridShape(t *testing.T) {
	for _, tc := range []struct {
		year  int
		month time.Month
	}{
		{2026, time.February}, // starts on a Sunday
		{2026, time.March},
		{2026, time.August},
		{2024, time.February}, // leap year
		{2025, time.December},
	} {
		cells := CalendarGrid(tc.year, tc.month)
		if len(cells) != CalendarGridSize {
			t.Fatalf("%v %d: %d cells, want %d", tc.month, tc.year, len(cells), CalendarGridSize)
		}
		if cells[0].Date.Weekday() != time.Sunday {
			t.Errorf("%v %d: grid starts on %v, want Sunday", tc.month, tc.year, cells[0].Date.Weekday())
		}

		first := time.Date(tc.year, tc.month, 1, 0, 0, 0, 0, time.UTC)
		idx := int(first.Weekday())
		if !cells[idx].Date.Equal(first) {
			t.Errorf("%v %d: cell %d = %v, want the 1st", tc.month, tc.year, idx, cells[idx].Date)
		}
		if !cells[idx].InMonth {
			t.Errorf("%v %d: 1st-of-month cell not marked in-month", tc.month, tc.year)
		}
	}
}

func TestCalendarGridConsecutiveDays(t *testing.T) {
	cells := CalendarGrid(2026, time.August)
	for i := 1; i < len(cells); i++ {
		if got := cells[i].Date.Sub(cells[i-1].Date); got != 24*time.Hour {
			t.Fatalf("cells %d..%d are %v apart", i-1, i, got)
		}
	}
}

func TestCalendarGridKeysMatchDueFormat(t *testing.T) {
	cells := CalendarGrid(2026, time.August)
	if cells[0].Key != "2026-07-26" {
		t.Errorf("first key = %s, want 2026-07-26", cells[0].Key)
	}
	for _, cell := range cells {
		if _, err := time.Parse("2006-01-02", cell.Key); err != nil {
			t.Fatalf("key %q does not parse: %v", cell.Key, err)
		}
	}
}
