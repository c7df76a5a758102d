package services

import (
	"testing"
	"time"
)

// Monday, March 10 2025
var testNow = time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

func TestParseDateRelative(t *testing.T) {
	today, err := ParseDate("today", testNow)
	if err != nil {
		t.Fatalf("ParseDate(today) returned error: %v", err)
	}
	if today.Day() != 10 {
		t.Errorf("today resolved to day %d, want 10", today.Day())
	}

	tomorrow, err := ParseDate("Tomorrow", testNow)
	if err != nil {
		t.Fatalf("ParseDate(tomorrow) returned error: %v", err)
	}
	if tomorrow.Day() != 11 {
		t.Errorf("tomorrow resolved to day %d, want 11", tomorrow.Day())
	}
}

func TestParseDateNextWeekday(t *testing.T) {
	// testNow is a Monday; "next friday" is this week's Friday
	friday, err := ParseDate("next Friday", testNow)
	if err != nil {
		t.Fatalf("ParseDate(next Friday) returned error: %v", err)
	}
	if friday.Weekday() != time.Friday || friday.Day() != 14 {
		t.Errorf("next Friday resolved to %v, want Friday March 14", friday)
	}

	// Naming today's weekday rolls a full week forward
	monday, err := ParseDate("next monday", testNow)
	if err != nil {
		t.Fatalf("ParseDate(next monday) returned error: %v", err)
	}
	if monday.Day() != 17 {
		t.Errorf("next monday resolved to day %d, want 17", monday.Day())
	}
}

func TestParseDateMonthDay(t *testing.T) {
	date, err := ParseDate("March 15", testNow)
	if err != nil {
		t.Fatalf("ParseDate(March 15) returned error: %v", err)
	}
	if date.Year() != 2025 || date.Month() != time.March || date.Day() != 15 {
		t.Errorf("March 15 resolved to %v, want 2025-03-15", date)
	}

	// A month/day already behind us lands in next year
	past, err := ParseDate("January 2", testNow)
	if err != nil {
		t.Fatalf("ParseDate(January 2) returned error: %v", err)
	}
	if past.Year() != 2026 {
		t.Errorf("January 2 resolved to year %d, want 2026", past.Year())
	}
}

func TestParseDateInvalid(t *testing.T) {
	for _, input := range []string{"", "someday", "next", "next fryday", "the 3rd of March"} {
		if _, err := ParseDate(input, testNow); err == nil {
			t.Errorf("ParseDate(%q) succeeded, want error", input)
		}
	}
}

func TestCombineDateTime(t *testing.T) {
	when, err := CombineDateTime("tomorrow", "2:00 PM", testNow)
	if err != nil {
		t.Fatalf("CombineDateTime returned error: %v", err)
	}
	if when.Day() != 11 || when.Hour() != 14 || when.Minute() != 0 {
		t.Errorf("combined time is %v, want March 11 at 14:00", when)
	}

	if _, err := CombineDateTime("tomorrow", "half past two", testNow); err == nil {
		t.Error("CombineDateTime accepted an unparseable time")
	}
}
