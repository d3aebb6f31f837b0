package utils

import (
	"strconv"
	"strings"
	"time"
)

// DefaultPeriod is used when the dashboard is requested without a period.
const DefaultPeriod = "week"

// Periods lists the dashboard periods in display order.
var Periods = []string{"hour", "day", "week", "month", "year"}

func IsValidPeriod(period string) bool {
	switch strings.ToLower(period) {
	case "hour", "day", "week", "month", "year":
		return true
	default:
		return false
	}
}

// SinceForPeriod returns the start of the window ending at now.
// Unknown periods fall back to one week.
func SinceForPeriod(period string, now time.Time) time.Time {
	switch strings.ToLower(period) {
	case "hour":
		return now.Add(-time.Hour)
	case "day":
		return now.AddDate(0, 0, -1)
	case "week":
		return now.AddDate(0, 0, -7)
	case "month":
		return now.AddDate(0, -1, 0)
	case "year":
		return now.AddDate(-1, 0, 0)
	default:
		return now.AddDate(0, 0, -7)
	}
}

// HourBucket formats a trend bucket as "YYYY-MM-DD H".
func HourBucket(t time.Time) string {
	return t.Format("2006-01-02") + " " + strconv.Itoa(t.Hour())
}
