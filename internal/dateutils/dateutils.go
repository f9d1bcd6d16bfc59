// Package dateutils provides common date and time operations used throughout the application.
package dateutils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Date layouts found in raw exports and in the ledger store
const (
	DateLayoutISO      = "2006-01-02"
	DateLayoutEuropean = "02.01.2006"
	DateLayoutDashed   = "02-01-2006"
	DateLayoutFull     = "2006-01-02 15:04:05"
	DateLayoutMonth    = "2006-01"
	WeekLabelSuffix    = " ~"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// ParseExact parses dateStr with exactly one layout and returns the calendar
// day at UTC midnight. Unlike a multi-format guess, a value that does not fit
// the layout is an error, which lets parsers skip the row.
func ParseExact(dateStr, layout string) (time.Time, error) {
	cleaned := CleanDateString(dateStr)
	if cleaned == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	t, err := time.Parse(layout, cleaned)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q does not match layout %s: %w", dateStr, layout, err)
	}
	return DateOf(t), nil
}

// DateOf drops the time-of-day and location, keeping the calendar day as seen
// in t's own location.
func DateOf(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ToISODate formats a time.Time value as an ISO date (YYYY-MM-DD)
func ToISODate(date time.Time) string {
	return date.Format(DateLayoutISO)
}

// CleanDateString trims and collapses whitespace
func CleanDateString(dateStr string) string {
	dateStr = strings.TrimSpace(dateStr)
	return whitespaceRun.ReplaceAllString(dateStr, " ")
}

// StartOfWeek returns the Monday of the ISO week containing date.
func StartOfWeek(date time.Time) time.Time {
	d := DateOf(date)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

// StartOfMonth returns the first day of the month for a given date
func StartOfMonth(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// WeekLabel renders a week bucket as "YYYY-MM-DD ~" using its Monday.
func WeekLabel(date time.Time) string {
	return ToISODate(StartOfWeek(date)) + WeekLabelSuffix
}

// MonthLabel renders a month bucket as "YYYY-MM".
func MonthLabel(date time.Time) string {
	return date.Format(DateLayoutMonth)
}
