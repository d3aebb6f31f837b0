// api/handlers/analytics_handlers.go
package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"portfolio/api/metrics"
	"portfolio/api/models"
	"portfolio/api/store"
	"portfolio/api/utils"
)

const (
	defaultActivityLimit = 50
	maxActivityLimit     = 500
)

// EventStore keeps raw page views and clicks.
type EventStore interface {
	InsertPageViews(ctx context.Context, views []models.PageView) error
	InsertClicks(ctx context.Context, clicks []models.ClickEvent) error
	Summary(ctx context.Context, since time.Time) (*models.EventSummary, error)
	RecentActivity(ctx context.Context, limit int) ([]models.ActivityItem, error)
}

// SessionTracker keeps one aggregate row per browser session.
type SessionTracker interface {
	RecordPageView(ctx context.Context, v store.SessionVisit) error
	RecordClick(ctx context.Context, sessionID string, at time.Time) error
	Summary(ctx context.Context, since time.Time) (*models.SessionSummary, error)
}

type AnalyticsHandlers struct {
	Events   EventStore
	Sessions SessionTracker
	Metrics  *metrics.Metrics
	logger   zerolog.Logger
	now      func() time.Time
}

func NewAnalyticsHandlers(events EventStore, sessions SessionTracker, m *metrics.Metrics, logger zerolog.Logger) *AnalyticsHandlers {
	return &AnalyticsHandlers{
		Events:   events,
		Sessions: sessions,
		Metrics:  m,
		logger:   logger.With().Str("component", "analytics").Logger(),
		now:      time.Now,
	}
}

func (h *AnalyticsHandlers) TrackPageView(c *gin.Context) {
	var req models.PageViewRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Page == "" || req.SessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Page and sessionId are required"})
		return
	}

	ua := c.Request.UserAgent()
	device, browser, osName := utils.ParseUserAgent(ua)
	view := models.PageView{
		EventID:   uuid.New().String(),
		SessionID: req.SessionID,
		Page:      req.Page,
		Timestamp: h.now().UTC(),
		Referrer:  c.Request.Referer(),
		UserAgent: ua,
		IPAddress: utils.ClientIP(c.Request.Header, c.ClientIP()),
		Device:    device,
		Browser:   browser,
		OS:        osName,
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	if err := h.Events.InsertPageViews(ctx, []models.PageView{view}); err != nil {
		h.logger.Error().Err(err).Str("session_id", req.SessionID).Msg("failed to insert page view")
		h.Metrics.RecordError("analytics", "insert_pageview")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record page view"})
		return
	}

	visit := store.SessionVisit{
		SessionID: view.SessionID,
		Page:      view.Page,
		Referrer:  view.Referrer,
		UserAgent: view.UserAgent,
		IPAddress: view.IPAddress,
		Device:    view.Device,
		Browser:   view.Browser,
		OS:        view.OS,
		At:        view.Timestamp,
	}
	if err := h.Sessions.RecordPageView(ctx, visit); err != nil {
		h.logger.Warn().Err(err).Str("session_id", req.SessionID).Msg("failed to update session")
		h.Metrics.RecordError("analytics", "session_pageview")
	}

	h.Metrics.RecordEvent(models.ActivityPageView)
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func (h *AnalyticsHandlers) TrackClick(c *gin.Context) {
	var req models.ClickRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.SessionID == "" || req.Page == "" || req.ElementType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "SessionId, page, and elementType are required"})
		return
	}

	click := models.ClickEvent{
		EventID:     uuid.New().String(),
		SessionID:   req.SessionID,
		Page:        req.Page,
		ElementType: req.ElementType,
		ElementID:   req.ElementID,
		ElementText: req.ElementText,
		TargetURL:   req.TargetURL,
		X:           req.X,
		Y:           req.Y,
		Timestamp:   h.now().UTC(),
		UserAgent:   c.Request.UserAgent(),
		IPAddress:   utils.ClientIP(c.Request.Header, c.ClientIP()),
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	if err := h.Events.InsertClicks(ctx, []models.ClickEvent{click}); err != nil {
		h.logger.Error().Err(err).Str("session_id", req.SessionID).Msg("failed to insert click")
		h.Metrics.RecordError("analytics", "insert_click")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record click"})
		return
	}

	if err := h.Sessions.RecordClick(ctx, req.SessionID, click.Timestamp); err != nil {
		h.logger.Warn().Err(err).Str("session_id", req.SessionID).Msg("failed to update session clicks")
		h.Metrics.RecordError("analytics", "session_click")
	}

	h.Metrics.RecordEvent(models.ActivityClick)
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// DashboardStats aggregates events and sessions since the start of the
// requested period. Unknown periods cover one week.
func (h *AnalyticsHandlers) DashboardStats(c *gin.Context) {
	period := c.DefaultQuery("period", utils.DefaultPeriod)
	since := utils.SinceForPeriod(period, h.now().UTC())

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	var (
		events   *models.EventSummary
		sessions *models.SessionSummary
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		events, err = h.Events.Summary(gctx, since)
		return err
	})
	g.Go(func() error {
		var err error
		sessions, err = h.Sessions.Summary(gctx, since)
		return err
	})
	if err := g.Wait(); err != nil {
		h.logger.Error().Err(err).Str("period", period).Msg("failed to compute dashboard stats")
		h.Metrics.RecordError("analytics", "dashboard")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve analytics statistics"})
		return
	}

	c.JSON(http.StatusOK, buildStats(events, sessions))
}

func buildStats(e *models.EventSummary, s *models.SessionSummary) models.AnalyticsStats {
	return models.AnalyticsStats{
		TotalPageViews:         e.TotalPageViews,
		UniqueVisitors:         e.UniqueVisitors,
		TotalClicks:            e.TotalClicks,
		AvgSessionDuration:     s.AvgSessionDuration,
		AvgPageViewsPerSession: s.AvgPageViewsPerSession,
		ReturningVisitors:      s.ReturningVisitors,
		NewVisitors:            s.NewVisitors,
		PopularPages:           orEmpty(e.PopularPages),
		TopClickedElements:     orEmpty(e.TopClickedElements),
		EntryPages:             orEmpty(s.EntryPages),
		ExitPages:              orEmpty(s.ExitPages),
		DeviceStats:            orEmpty(e.DeviceStats),
		BrowserStats:           orEmpty(e.BrowserStats),
		CountryStats:           orEmpty(e.CountryStats),
		ReferrerStats:          orEmpty(s.ReferrerStats),
		PageViewTrend:          orEmpty(e.PageViewTrend),
		ClickTrend:             orEmpty(e.ClickTrend),
	}
}

// orEmpty keeps JSON arrays from encoding as null.
func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func (h *AnalyticsHandlers) RecentActivity(c *gin.Context) {
	limit := defaultActivityLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = min(n, maxActivityLimit)
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	items, err := h.Events.RecentActivity(ctx, limit)
	if err != nil {
		h.logger.Error().Err(err).Int("limit", limit).Msg("failed to load recent activity")
		h.Metrics.RecordError("analytics", "activity")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve recent activity"})
		return
	}
	c.JSON(http.StatusOK, orEmpty(items))
}

func (h *AnalyticsHandlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "analytics"})
}
