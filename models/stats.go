package models

// LabelValue is a single row of a ranked or grouped statistic.
type LabelValue struct {
	Label string `json:"label"`
	Value uint64 `json:"value"`
	Extra string `json:"extra,omitempty"`
}

// TrendPoint is an hourly bucket of a trend line.
type TrendPoint struct {
	Time  string `json:"time"`
	Count uint64 `json:"count"`
}

// AnalyticsStats is the dashboard aggregate for one period.
type AnalyticsStats struct {
	TotalPageViews         uint64       `json:"totalPageViews"`
	UniqueVisitors         uint64       `json:"uniqueVisitors"`
	TotalClicks            uint64       `json:"totalClicks"`
	AvgSessionDuration     float64      `json:"avgSessionDuration"`
	AvgPageViewsPerSession float64      `json:"avgPageViewsPerSession"`
	ReturningVisitors      uint64       `json:"returningVisitors"`
	NewVisitors            uint64       `json:"newVisitors"`
	PopularPages           []LabelValue `json:"popularPages"`
	TopClickedElements     []LabelValue `json:"topClickedElements"`
	EntryPages             []LabelValue `json:"entryPages"`
	ExitPages              []LabelValue `json:"exitPages"`
	DeviceStats            []LabelValue `json:"deviceStats"`
	BrowserStats           []LabelValue `json:"browserStats"`
	CountryStats           []LabelValue `json:"countryStats"`
	ReferrerStats          []LabelValue `json:"referrerStats"`
	PageViewTrend          []TrendPoint `json:"pageViewTrend"`
	ClickTrend             []TrendPoint `json:"clickTrend"`
}

// EventSummary is the part of the aggregate computed from raw events.
type EventSummary struct {
	TotalPageViews     uint64
	UniqueVisitors     uint64
	TotalClicks        uint64
	PopularPages       []LabelValue
	TopClickedElements []LabelValue
	DeviceStats        []LabelValue
	BrowserStats       []LabelValue
	CountryStats       []LabelValue
	PageViewTrend      []TrendPoint
	ClickTrend         []TrendPoint
}

// SessionSummary is the part of the aggregate computed from sessions.
type SessionSummary struct {
	AvgSessionDuration     float64
	AvgPageViewsPerSession float64
	ReturningVisitors      uint64
	NewVisitors            uint64
	EntryPages             []LabelValue
	ExitPages              []LabelValue
	ReferrerStats          []LabelValue
}
