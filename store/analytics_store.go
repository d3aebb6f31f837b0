// store/analytics_store.go
package store

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"portfolio/api/database"
	"portfolio/api/models"
	"portfolio/api/utils"
)

// AnalyticsStore keeps raw page views and clicks in ClickHouse.
type AnalyticsStore struct {
	DB     *database.ClickHouseClient
	logger zerolog.Logger
}

func NewAnalyticsStore(chClient *database.ClickHouseClient, logger zerolog.Logger) *AnalyticsStore {
	return &AnalyticsStore{
		DB:     chClient,
		logger: logger.With().Str("component", "analytics_store").Logger(),
	}
}

func (s *AnalyticsStore) InsertPageViews(ctx context.Context, views []models.PageView) error {
	if len(views) == 0 {
		return nil
	}

	batch, err := s.DB.Conn.PrepareBatch(ctx, `
		INSERT INTO page_views (
			event_id, session_id, page, timestamp, referrer, user_agent,
			ip_address, device, browser, os, country
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare page view batch: %w", err)
	}

	for _, v := range views {
		err := batch.Append(
			v.EventID,
			v.SessionID,
			v.Page,
			v.Timestamp,
			v.Referrer,
			v.UserAgent,
			v.IPAddress,
			v.Device,
			v.Browser,
			v.OS,
			v.Country,
		)
		if err != nil {
			s.logger.Warn().Err(err).Str("event_id", v.EventID).Msg("error appending page view to batch")
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send page view batch: %w", err)
	}

	s.logger.Debug().Int("count", len(views)).Msg("inserted page views")
	return nil
}

func (s *AnalyticsStore) InsertClicks(ctx context.Context, clicks []models.ClickEvent) error {
	if len(clicks) == 0 {
		return nil
	}

	batch, err := s.DB.Conn.PrepareBatch(ctx, `
		INSERT INTO click_events (
			event_id, session_id, page, element_type, element_id, element_text, target_url,
			x, y, timestamp, user_agent, ip_address
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare click batch: %w", err)
	}

	for _, c := range clicks {
		err := batch.Append(
			c.EventID,
			c.SessionID,
			c.Page,
			c.ElementType,
			c.ElementID,
			c.ElementText,
			c.TargetURL,
			toInt32Ptr(c.X),
			toInt32Ptr(c.Y),
			c.Timestamp,
			c.UserAgent,
			c.IPAddress,
		)
		if err != nil {
			s.logger.Warn().Err(err).Str("event_id", c.EventID).Msg("error appending click to batch")
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send click batch: %w", err)
	}

	s.logger.Debug().Int("count", len(clicks)).Msg("inserted clicks")
	return nil
}

// Summary computes the event-based part of the dashboard since the given time.
func (s *AnalyticsStore) Summary(ctx context.Context, since time.Time) (*models.EventSummary, error) {
	summary := &models.EventSummary{}
	var err error

	err = s.DB.Conn.QueryRow(ctx,
		`SELECT count(), uniq(session_id) FROM page_views WHERE timestamp >= ?`, since,
	).Scan(&summary.TotalPageViews, &summary.UniqueVisitors)
	if err != nil {
		return nil, fmt.Errorf("failed to query page view totals: %w", err)
	}

	err = s.DB.Conn.QueryRow(ctx,
		`SELECT count() FROM click_events WHERE timestamp >= ?`, since,
	).Scan(&summary.TotalClicks)
	if err != nil {
		return nil, fmt.Errorf("failed to query click totals: %w", err)
	}

	if summary.PopularPages, err = s.labelCounts(ctx, "page_views", "page", since); err != nil {
		return nil, err
	}
	if summary.DeviceStats, err = s.labelCounts(ctx, "page_views", "device", since); err != nil {
		return nil, err
	}
	if summary.BrowserStats, err = s.labelCounts(ctx, "page_views", "browser", since); err != nil {
		return nil, err
	}
	if summary.CountryStats, err = s.labelCounts(ctx, "page_views", "country", since); err != nil {
		return nil, err
	}
	if summary.TopClickedElements, err = s.topClickedElements(ctx, since); err != nil {
		return nil, err
	}
	if summary.PageViewTrend, err = s.hourlyTrend(ctx, "page_views", since); err != nil {
		return nil, err
	}
	if summary.ClickTrend, err = s.hourlyTrend(ctx, "click_events", since); err != nil {
		return nil, err
	}

	return summary, nil
}

// labelCounts ranks the non-empty values of column, keeping the top
// topListLimit. table and column are never user input.
func (s *AnalyticsStore) labelCounts(ctx context.Context, table, column string, since time.Time) ([]models.LabelValue, error) {
	query := fmt.Sprintf(`
		SELECT %[2]s AS label, count() AS value
		FROM %[1]s
		WHERE timestamp >= ? AND %[2]s != ''
		GROUP BY label
		ORDER BY value DESC, label ASC
		LIMIT ?
	`, table, column)

	rows, err := s.DB.Conn.Query(ctx, query, since, uint64(topListLimit))
	if err != nil {
		return nil, fmt.Errorf("failed to query %s.%s counts: %w", table, column, err)
	}
	defer rows.Close()

	results := []models.LabelValue{}
	for rows.Next() {
		var lv models.LabelValue
		if err := rows.Scan(&lv.Label, &lv.Value); err != nil {
			s.logger.Warn().Err(err).Str("column", column).Msg("error scanning count row")
			continue
		}
		results = append(results, lv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s.%s counts: %w", table, column, err)
	}
	return results, nil
}

func (s *AnalyticsStore) topClickedElements(ctx context.Context, since time.Time) ([]models.LabelValue, error) {
	rows, err := s.DB.Conn.Query(ctx, `
		SELECT element_id, any(element_text) AS text, count() AS value
		FROM click_events
		WHERE timestamp >= ? AND element_id != ''
		GROUP BY element_id
		ORDER BY value DESC, element_id ASC
		LIMIT ?
	`, since, uint64(topListLimit))
	if err != nil {
		return nil, fmt.Errorf("failed to query top clicked elements: %w", err)
	}
	defer rows.Close()

	results := []models.LabelValue{}
	for rows.Next() {
		var lv models.LabelValue
		if err := rows.Scan(&lv.Label, &lv.Extra, &lv.Value); err != nil {
			s.logger.Warn().Err(err).Msg("error scanning clicked element row")
			continue
		}
		results = append(results, lv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating top clicked elements: %w", err)
	}
	return results, nil
}

func (s *AnalyticsStore) hourlyTrend(ctx context.Context, table string, since time.Time) ([]models.TrendPoint, error) {
	query := fmt.Sprintf(`
		SELECT toStartOfHour(timestamp) AS time_bucket, count() AS value
		FROM %s
		WHERE timestamp >= ?
		GROUP BY time_bucket
		ORDER BY time_bucket ASC
	`, table)

	rows, err := s.DB.Conn.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s trend: %w", table, err)
	}
	defer rows.Close()

	results := []models.TrendPoint{}
	for rows.Next() {
		var (
			bucket time.Time
			count  uint64
		)
		if err := rows.Scan(&bucket, &count); err != nil {
			s.logger.Warn().Err(err).Str("table", table).Msg("error scanning trend row")
			continue
		}
		results = append(results, models.TrendPoint{Time: utils.HourBucket(bucket.UTC()), Count: count})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s trend: %w", table, err)
	}
	return results, nil
}

// RecentActivity returns the newest page views and clicks, newest first.
func (s *AnalyticsStore) RecentActivity(ctx context.Context, limit int) ([]models.ActivityItem, error) {
	if limit <= 0 {
		return []models.ActivityItem{}, nil
	}

	views, err := s.recentPageViews(ctx, limit)
	if err != nil {
		return nil, err
	}
	clicks, err := s.recentClicks(ctx, limit)
	if err != nil {
		return nil, err
	}
	return MergeActivity(views, clicks, limit), nil
}

func (s *AnalyticsStore) recentPageViews(ctx context.Context, limit int) ([]models.ActivityItem, error) {
	rows, err := s.DB.Conn.Query(ctx, `
		SELECT page, timestamp, device, country
		FROM page_views
		ORDER BY timestamp DESC
		LIMIT ?
	`, uint64(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to query recent page views: %w", err)
	}
	defer rows.Close()

	var items []models.ActivityItem
	for rows.Next() {
		item := models.ActivityItem{Type: models.ActivityPageView}
		if err := rows.Scan(&item.Page, &item.Timestamp, &item.Device, &item.Country); err != nil {
			s.logger.Warn().Err(err).Msg("error scanning recent page view")
			continue
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recent page views: %w", err)
	}
	return items, nil
}

func (s *AnalyticsStore) recentClicks(ctx context.Context, limit int) ([]models.ActivityItem, error) {
	rows, err := s.DB.Conn.Query(ctx, `
		SELECT page, if(element_text != '', element_text, element_id) AS element, timestamp
		FROM click_events
		ORDER BY timestamp DESC
		LIMIT ?
	`, uint64(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to query recent clicks: %w", err)
	}
	defer rows.Close()

	var items []models.ActivityItem
	for rows.Next() {
		item := models.ActivityItem{Type: models.ActivityClick}
		if err := rows.Scan(&item.Page, &item.Element, &item.Timestamp); err != nil {
			s.logger.Warn().Err(err).Msg("error scanning recent click")
			continue
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recent clicks: %w", err)
	}
	return items, nil
}

// MergeActivity interleaves page views and clicks newest first and keeps
// at most limit items.
func MergeActivity(views, clicks []models.ActivityItem, limit int) []models.ActivityItem {
	merged := make([]models.ActivityItem, 0, len(views)+len(clicks))
	merged = append(merged, views...)
	merged = append(merged, clicks...)
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Timestamp.After(merged[j].Timestamp)
	})
	if limit >= 0 && len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}

func toInt32Ptr(v *int) *int32 {
	if v == nil {
		return nil
	}
	n := int32(*v)
	return &n
}
