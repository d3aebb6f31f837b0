package tracker

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"portfolio/api/models"
)

// Collector accepts tracked events. It reports success and never fails
// loudly.
type Collector interface {
	TrackPageView(ctx context.Context, data models.PageViewRequest) bool
	TrackClick(ctx context.Context, data models.ClickRequest) bool
}

// Tracker follows one visitor tab: its session, current path and
// visibility.
type Tracker struct {
	collector Collector
	storage   SessionStorage
	logger    zerolog.Logger
	now       func() time.Time

	// sessionMu serializes session id creation for storages without GetOrSet.
	sessionMu sync.Mutex

	mu        sync.Mutex
	path      string
	enteredAt time.Time
	visible   bool
}

func New(collector Collector, storage SessionStorage, logger zerolog.Logger) *Tracker {
	return &Tracker{
		collector: collector,
		storage:   storage,
		logger:    logger.With().Str("component", "tracker").Logger(),
		now:       time.Now,
		visible:   true,
	}
}

// SessionID returns the tab's session id.
func (t *Tracker) SessionID() string {
	t.sessionMu.Lock()
	defer t.sessionMu.Unlock()
	return getSessionID(t.storage, t.now)
}

// CurrentPath returns the last navigated path.
func (t *Tracker) CurrentPath() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.path
}

// SetVisible records whether the page is currently shown.
func (t *Tracker) SetVisible(v bool) {
	t.mu.Lock()
	t.visible = v
	t.mu.Unlock()
}

func (t *Tracker) IsVisible() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.visible
}
