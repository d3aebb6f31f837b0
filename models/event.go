// models/event.go
package models

import "time"

// PageViewRequest is the body of POST /analytics/track/pageview.
type PageViewRequest struct {
	Page      string `json:"page"`
	SessionID string `json:"sessionId"`
}

// ClickRequest is the body of POST /analytics/track/click.
type ClickRequest struct {
	SessionID   string `json:"sessionId"`
	Page        string `json:"page"`
	ElementType string `json:"elementType"`
	ElementID   string `json:"elementId,omitempty"`
	ElementText string `json:"elementText,omitempty"`
	TargetURL   string `json:"targetUrl,omitempty"`
	X           *int   `json:"x,omitempty"`
	Y           *int   `json:"y,omitempty"`
}

// PageView is a stored page view, enriched server-side.
type PageView struct {
	EventID   string    `json:"eventId"`
	SessionID string    `json:"sessionId"`
	Page      string    `json:"page"`
	Timestamp time.Time `json:"timestamp"`
	Referrer  string    `json:"referrer"`
	UserAgent string    `json:"userAgent"`
	IPAddress string    `json:"ipAddress"`
	Device    string    `json:"device"`
	Browser   string    `json:"browser"`
	OS        string    `json:"os"`
	Country   string    `json:"country,omitempty"`
}

// ClickEvent is a stored click, enriched server-side.
type ClickEvent struct {
	EventID     string    `json:"eventId"`
	SessionID   string    `json:"sessionId"`
	Page        string    `json:"page"`
	ElementType string    `json:"elementType"`
	ElementID   string    `json:"elementId,omitempty"`
	ElementText string    `json:"elementText,omitempty"`
	TargetURL   string    `json:"targetUrl,omitempty"`
	X           *int      `json:"x,omitempty"`
	Y           *int      `json:"y,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
	UserAgent   string    `json:"userAgent"`
	IPAddress   string    `json:"ipAddress"`
}

// Activity types.
const (
	ActivityPageView = "pageview"
	ActivityClick    = "click"
)

// ActivityItem is one entry of the recent activity feed.
type ActivityItem struct {
	Type      string    `json:"type"`
	Page      string    `json:"page,omitempty"`
	Element   string    `json:"element,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Device    string    `json:"device,omitempty"`
	Country   string    `json:"country,omitempty"`
}
