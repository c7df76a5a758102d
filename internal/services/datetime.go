package services

import (
	"errors"
	"strings"
	"time"
)

// ErrInvalidDateTime is the recoverable domain error for unparseable dates
// and times. Callers re-prompt the client; it must never crash a conversation.
var ErrInvalidDateTime = errors.New("invalid date or time format")

// ParseDate interprets a client's date phrase relative to now. Supported
// forms: "today", "tomorrow", "next <weekday>", and "<Month> <Day>" with the
// year inferred as the current year, bumped if that date already passed.
func ParseDate(input string, now time.Time) (time.Time, error) {
	lower := strings.ToLower(strings.TrimSpace(input))
	if lower == "" {
		return time.Time{}, ErrInvalidDateTime
	}

	switch {
	case lower == "today":
		return now, nil
	case lower == "tomorrow":
		return now.AddDate(0, 0, 1), nil
	case strings.HasPrefix(lower, "next "):
		fields := strings.Fields(lower)
		if len(fields) < 2 {
			return time.Time{}, ErrInvalidDateTime
		}
		return nextWeekday(now, fields[1])
	}

	parsed, err := time.Parse("January 2", lower)
	if err != nil {
		return time.Time{}, ErrInvalidDateTime
	}

	date := time.Date(now.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, now.Location())
	if date.Before(time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())) {
		date = date.AddDate(1, 0, 0)
	}
	return date, nil
}

// ParseClock parses a 12-hour clock time like "2:00 PM"
func ParseClock(input string) (time.Time, error) {
	t, err := time.Parse("3:04 PM", strings.ToUpper(strings.TrimSpace(input)))
	if err != nil {
		return time.Time{}, ErrInvalidDateTime
	}
	return t, nil
}

// CombineDateTime resolves a raw date phrase and a clock string into a
// single appointment time.
func CombineDateTime(dateStr, timeStr string, now time.Time) (time.Time, error) {
	date, err := ParseDate(dateStr, now)
	if err != nil {
		return time.Time{}, err
	}
	clock, err := ParseClock(timeStr)
	if err != nil {
		return time.Time{}, err
	}

	return time.Date(date.Year(), date.Month(), date.Day(),
		clock.Hour(), clock.Minute(), 0, 0, now.Location()), nil
}

var weekdays = map[string]time.Weekday{
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sunday":    time.Sunday,
}

// nextWeekday returns the next occurrence of the named weekday, rolling a
// full week when the named day is today or already passed this week.
func nextWeekday(now time.Time, name string) (time.Time, error) {
	target, ok := weekdays[strings.ToLower(name)]
	if !ok {
		return time.Time{}, ErrInvalidDateTime
	}

	daysAhead := int(target) - int(now.Weekday())
	if daysAhead <= 0 {
		daysAhead += 7
	}
	return now.AddDate(0, 0, daysAhead), nil
}
