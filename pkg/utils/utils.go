package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AddDays moves t by n calendar days in t's location, so a day across a DST
// change keeps the wall-clock time.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// AddMonthsClamped moves t by n calendar months keeping the day-of-month when
// the target month has it and clamping to the target month's last day
// otherwise (Jan 31 + 1 month = Feb 28, or Feb 29 in a leap year).
func AddMonthsClamped(t time.Time, n int) time.Time {
	year, month, day := t.Date()
	hour, min, sec := t.Clock()

	first := time.Date(year, month+time.Month(n), 1, hour, min, sec, t.Nanosecond(), t.Location())
	if last := DaysInMonth(first.Year(), first.Month()); day > last {
		day = last
	}

	return time.Date(first.Year(), first.Month(), day, hour, min, sec, t.Nanosecond(), t.Location())
}

// DaysInMonth returns the number of days of month in year.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// IsDue reports whether a run planned at runAt is due at now.
func IsDue(runAt, now time.Time) bool {
	return !runAt.After(now)
}

// GenerateOrderNumber builds a human readable order number such as
// AUTO-2026-1A2B3C4D from the order id.
func GenerateOrderNumber(prefix string, id uuid.UUID, at time.Time) string {
	short := strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:8])
	return fmt.Sprintf("%s-%d-%s", prefix, at.Year(), short)
}

// DecimalFromString converts string to decimal.Decimal
func DecimalFromString(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}
