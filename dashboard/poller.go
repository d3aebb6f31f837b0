// Package dashboard polls the collector and renders the analytics view.
package dashboard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"portfolio/api/models"
	"portfolio/api/utils"
)

const (
	DefaultInterval = 30 * time.Second
	ActivityLimit   = 100
	// LoadErrorMessage is shown whenever a refresh fails, whatever the cause.
	LoadErrorMessage = "Failed to load analytics data"
)

// Source is the part of the collector client the dashboard reads.
type Source interface {
	FetchAnalyticsStats(ctx context.Context, period string) (*models.AnalyticsStats, error)
	FetchRecentActivity(ctx context.Context, limit int) ([]models.ActivityItem, error)
}

// Snapshot is the view state after the latest refresh.
type Snapshot struct {
	Period    string
	Stats     *models.AnalyticsStats
	Activity  []models.ActivityItem
	Err       string
	UpdatedAt time.Time
}

// Poller refreshes the view on start, on every tick, and on demand.
// Refreshes never overlap.
type Poller struct {
	source   Source
	interval time.Duration
	logger   zerolog.Logger
	now      func() time.Time

	mu       sync.Mutex
	state    Snapshot
	onUpdate func(Snapshot)

	trigger chan struct{}
}

func NewPoller(source Source, period string, interval time.Duration, logger zerolog.Logger) *Poller {
	if !utils.IsValidPeriod(period) {
		period = utils.DefaultPeriod
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{
		source:   source,
		interval: interval,
		logger:   logger.With().Str("component", "dashboard").Logger(),
		now:      time.Now,
		state:    Snapshot{Period: period},
		trigger:  make(chan struct{}, 1),
	}
}

// OnUpdate registers fn to receive every new snapshot. Call before Run.
func (p *Poller) OnUpdate(fn func(Snapshot)) {
	p.mu.Lock()
	p.onUpdate = fn
	p.mu.Unlock()
}

// Snapshot returns the current view state.
func (p *Poller) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// SetPeriod switches the period and asks for an immediate refresh. The
// tick schedule is left alone.
func (p *Poller) SetPeriod(period string) error {
	if !utils.IsValidPeriod(period) {
		return fmt.Errorf("unknown period %q", period)
	}
	p.mu.Lock()
	p.state.Period = period
	p.mu.Unlock()
	p.requestRefresh()
	return nil
}

// Retry asks for an immediate refresh.
func (p *Poller) Retry() {
	p.requestRefresh()
}

func (p *Poller) requestRefresh() {
	select {
	case p.trigger <- struct{}{}:
	default:
	}
}

// Run refreshes immediately and then until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.Refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.Refresh(ctx)
		case <-p.trigger:
			p.Refresh(ctx)
		}
	}
}

// Refresh loads stats and activity together. Either both are applied or
// the view switches to the error state. Results for a period that was
// replaced while fetching are dropped; SetPeriod has already queued the
// refresh for the new one.
func (p *Poller) Refresh(ctx context.Context) error {
	period := p.Snapshot().Period

	var (
		stats    *models.AnalyticsStats
		activity []models.ActivityItem
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats, err = p.source.FetchAnalyticsStats(gctx, period)
		return err
	})
	g.Go(func() error {
		var err error
		activity, err = p.source.FetchRecentActivity(gctx, ActivityLimit)
		return err
	})
	err := g.Wait()

	p.mu.Lock()
	if p.state.Period != period {
		p.mu.Unlock()
		p.logger.Debug().Str("period", period).Msg("discarding stale refresh")
		return nil
	}
	if err != nil {
		p.logger.Error().Err(err).Str("period", period).Msg("analytics fetch error")
		p.state.Err = LoadErrorMessage
	} else {
		p.state.Stats = stats
		p.state.Activity = activity
		p.state.Err = ""
		p.state.UpdatedAt = p.now()
	}
	snap, fn := p.state, p.onUpdate
	p.mu.Unlock()

	if fn != nil {
		fn(snap)
	}
	return err
}
