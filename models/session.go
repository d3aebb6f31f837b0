package models

import "time"

// UserSession groups the events of one browser tab.
type UserSession struct {
	ID                 int64     `json:"id"`
	SessionID          string    `json:"sessionId"`
	IPAddress          string    `json:"ipAddress"`
	UserAgent          string    `json:"userAgent"`
	StartTime          time.Time `json:"startTime"`
	LastSeen           time.Time `json:"lastSeen"`
	PageViews          int       `json:"pageViews"`
	Clicks             int       `json:"clicks"`
	EntryPage          string    `json:"entryPage"`
	ExitPage           string    `json:"exitPage"`
	Referrer           string    `json:"referrer"`
	Device             string    `json:"device"`
	Browser            string    `json:"browser"`
	OS                 string    `json:"os"`
	IsReturningVisitor bool      `json:"isReturningVisitor"`
	PagesVisited       []string  `json:"pagesVisited"`
}
