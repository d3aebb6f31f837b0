package dashboard

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// FormatDuration renders whole seconds as "Xh Ym", "Xm Ys" or "Xs".
func FormatDuration(seconds float64) string {
	total := int(math.Round(seconds))
	if total <= 0 {
		return "0s"
	}
	h, m, s := total/3600, (total%3600)/60, total%60
	switch {
	case h > 0:
		return strconv.Itoa(h) + "h " + strconv.Itoa(m) + "m"
	case m > 0:
		return strconv.Itoa(m) + "m " + strconv.Itoa(s) + "s"
	default:
		return strconv.Itoa(s) + "s"
	}
}

// FormatTimestamp renders ts relative to now.
func FormatTimestamp(ts, now time.Time) string {
	diff := now.Sub(ts)
	switch {
	case diff < time.Minute:
		return "Just now"
	case diff < time.Hour:
		return strconv.Itoa(int(diff/time.Minute)) + "m ago"
	case diff < 24*time.Hour:
		return strconv.Itoa(int(diff/time.Hour)) + "h ago"
	case diff < 7*24*time.Hour:
		return strconv.Itoa(int(diff/(24*time.Hour))) + "d ago"
	default:
		return ts.Local().Format("Jan 2, 2006")
	}
}

// FormatPage turns a path into a breadcrumb label.
func FormatPage(page string) string {
	if page == "" {
		return ""
	}
	var parts []string
	for _, p := range strings.Split(page, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return "Home"
	}
	return strings.Join(parts, " › ")
}
