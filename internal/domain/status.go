package domain

import (
	"log/slog"
	"strings"
	"time"
)

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// StartOfDay truncates t to midnight in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Categorize buckets date relative to now. Calendar days are taken in now's location.
func Categorize(date, now time.Time) EventStatus {
	today := StartOfDay(now)
	tomorrow := today.AddDate(0, 0, 1)
	d := date.In(now.Location())

	switch {
	case d.Before(today):
		return StatusPast
	case d.Before(tomorrow):
		return StatusToday
	default:
		return StatusUpcoming
	}
}

// ParseDate accepts RFC3339 timestamps, local date-times and plain dates. Values without
// a zone are read in loc.
func ParseDate(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if loc == nil {
		loc = time.UTC
	}

	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.ParseInLocation(layout, raw, loc)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}

	return time.Time{}, lastErr
}

// CategorizeRaw is Categorize for unparsed input. Unparseable dates fall back to
// upcoming so malformed records stay visible.
func CategorizeRaw(raw string, now time.Time, logger *slog.Logger) EventStatus {
	date, err := ParseDate(raw, now.Location())
	if err != nil {
		if logger != nil {
			logger.Warn("unparseable event date, defaulting to upcoming",
				slog.String("date", raw),
				slog.String("error", err.Error()),
			)
		}
		return StatusUpcoming
	}

	return Categorize(date, now)
}

// SplitByStatus partitions events by their date relative to now.
func SplitByStatus(events []Event, now time.Time) Categorized {
	out := Categorized{
		Upcoming: []Event{},
		Today:    []Event{},
		Past:     []Event{},
	}

	for _, e := range events {
		e.Status = Categorize(e.Date, now)
		switch e.Status {
		case StatusPast:
			out.Past = append(out.Past, e)
		case StatusToday:
			out.Today = append(out.Today, e)
		default:
			out.Upcoming = append(out.Upcoming, e)
		}
	}

	return out
}
