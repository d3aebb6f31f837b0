package tracker

import (
	"context"
	"time"

	"portfolio/api/models"
)

// Navigate records a move to path. A page view is sent only when the path
// changes; the time spent on the previous page is logged locally.
func (t *Tracker) Navigate(ctx context.Context, path string) {
	if path == "" {
		return
	}

	t.mu.Lock()
	if path == t.path {
		t.mu.Unlock()
		return
	}
	prev, entered := t.path, t.enteredAt
	now := t.now()
	t.path, t.enteredAt = path, now
	t.mu.Unlock()

	if prev != "" {
		t.logger.Debug().
			Str("page", prev).
			Int64("seconds", int64(now.Sub(entered).Round(time.Second)/time.Second)).
			Msg("page viewed")
	}
	t.sendPageView(ctx, path)
}

// TrackPage sends a page view for page, or for the current path when page
// is empty.
func (t *Tracker) TrackPage(ctx context.Context, page string) {
	if page == "" {
		page = t.CurrentPath()
	}
	if page == "" {
		return
	}
	t.sendPageView(ctx, page)
}

func (t *Tracker) sendPageView(ctx context.Context, page string) {
	sessionID := t.SessionID()
	if !t.collector.TrackPageView(ctx, models.PageViewRequest{Page: page, SessionID: sessionID}) {
		t.logger.Debug().Str("page", page).Msg("page view not recorded")
	}
}
