package dashboard

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"portfolio/api/models"
)

var (
	accent = lipgloss.Color("#2563eb")
	muted  = lipgloss.Color("#6b7280")
	danger = lipgloss.Color("#dc2626")

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	labelStyle = lipgloss.NewStyle().Foreground(muted)
	cardStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 2).
			Width(22)
	bannerStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(danger).
			Foreground(danger).
			Padding(0, 1)
	sectionStyle = lipgloss.NewStyle().MarginTop(1)
)

// maxListRows caps ranked lists and the activity feed on screen.
const maxListRows = 10

// Render draws a snapshot as terminal text.
func Render(s Snapshot, now time.Time) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Portfolio Analytics"))
	b.WriteString(labelStyle.Render("  period: " + s.Period))
	b.WriteString("\n")

	if s.Err != "" {
		b.WriteString(bannerStyle.Render("Error Loading Analytics\n" + s.Err + "\npress r to retry"))
		b.WriteString("\n")
		return b.String()
	}
	if s.Stats == nil {
		b.WriteString(labelStyle.Render("Loading analytics..."))
		b.WriteString("\n")
		return b.String()
	}

	st := s.Stats
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		card("Page Views", strconv.FormatUint(st.TotalPageViews, 10)),
		card("Unique Visitors", strconv.FormatUint(st.UniqueVisitors, 10)),
		card("Total Clicks", strconv.FormatUint(st.TotalClicks, 10)),
		card("Avg. Session", FormatDuration(st.AvgSessionDuration)),
	)
	b.WriteString(cards)
	b.WriteString("\n")

	lists := lipgloss.JoinHorizontal(lipgloss.Top,
		rankedList("Popular Pages", st.PopularPages, true),
		rankedList("Top Clicks", clickLabels(st.TopClickedElements), false),
		rankedList("Devices", st.DeviceStats, false),
		rankedList("Browsers", st.BrowserStats, false),
	)
	b.WriteString(sectionStyle.Render(lists))
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render(activityFeed(s.Activity, now)))
	b.WriteString("\n")
	if !s.UpdatedAt.IsZero() {
		b.WriteString(labelStyle.Render("updated " + FormatTimestamp(s.UpdatedAt, now)))
		b.WriteString("\n")
	}
	return b.String()
}

func card(label, value string) string {
	return cardStyle.Render(labelStyle.Render(label) + "\n" + titleStyle.Render(value))
}

// clickLabels prefers the element text over its id.
func clickLabels(in []models.LabelValue) []models.LabelValue {
	out := make([]models.LabelValue, len(in))
	for i, lv := range in {
		out[i] = lv
		if lv.Extra != "" {
			out[i].Label = lv.Extra
		}
	}
	return out
}

func rankedList(title string, rows []models.LabelValue, pages bool) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	if len(rows) == 0 {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("No data"))
	}
	for i, r := range rows {
		if i == maxListRows {
			break
		}
		label := r.Label
		if pages {
			label = FormatPage(label)
		}
		b.WriteString("\n")
		b.WriteString(truncate(label, 24) + " " + labelStyle.Render(strconv.FormatUint(r.Value, 10)))
	}
	return lipgloss.NewStyle().Width(34).Render(b.String())
}

func activityFeed(items []models.ActivityItem, now time.Time) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Recent Activity"))
	if len(items) == 0 {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("No recent activity"))
	}
	for i, it := range items {
		if i == maxListRows {
			break
		}
		what := "Viewed " + FormatPage(it.Page)
		if it.Type == models.ActivityClick {
			what = "Clicked " + it.Element
		}
		if it.Device != "" {
			what += labelStyle.Render(" · " + it.Device)
		}
		b.WriteString("\n")
		b.WriteString(labelStyle.Render(padRight(FormatTimestamp(it.Timestamp, now), 10)) + " " + what)
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func padRight(s string, n int) string {
	if l := len([]rune(s)); l < n {
		return s + strings.Repeat(" ", n-l)
	}
	return s
}
