package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"portfolio/api/models"
)

// topListLimit caps every ranked list of the dashboard.
const topListLimit = 10

// SessionVisit describes the page view that touches a session.
type SessionVisit struct {
	SessionID string
	Page      string
	Referrer  string
	UserAgent string
	IPAddress string
	Device    string
	Browser   string
	OS        string
	At        time.Time
}

// SessionStore keeps one row per browser session in PostgreSQL.
type SessionStore struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewSessionStore(db *sql.DB, logger zerolog.Logger) *SessionStore {
	return &SessionStore{db: db, logger: logger.With().Str("component", "session_store").Logger()}
}

// RecordPageView advances an existing session or opens a new one.
// A new session is marked returning when its IP address was seen before.
func (s *SessionStore) RecordPageView(ctx context.Context, v SessionVisit) error {
	update := `
		UPDATE user_sessions
		SET page_views = page_views + 1,
		    exit_page = $2,
		    last_seen = $3,
		    pages_visited = CASE WHEN $2 = ANY(pages_visited) THEN pages_visited
		                         ELSE array_append(pages_visited, $2) END
		WHERE session_id = $1`
	res, err := s.db.ExecContext(ctx, update, v.SessionID, v.Page, v.At)
	if err != nil {
		return fmt.Errorf("failed to update session %s: %w", v.SessionID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		return nil
	}

	var returning bool
	if v.IPAddress != "" {
		err = s.db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM user_sessions WHERE ip_address = $1)`, v.IPAddress).Scan(&returning)
		if err != nil {
			return fmt.Errorf("failed to check returning visitor: %w", err)
		}
	}

	// A concurrent first page view of the same session may win the insert.
	insert := `
		INSERT INTO user_sessions (
			session_id, ip_address, user_agent, start_time, last_seen, page_views, clicks,
			entry_page, exit_page, referrer, device, browser, os, is_returning_visitor, pages_visited
		) VALUES ($1, $2, $3, $4, $4, 1, 0, $5, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (session_id) DO UPDATE
		SET page_views = user_sessions.page_views + 1,
		    exit_page = EXCLUDED.exit_page,
		    last_seen = EXCLUDED.last_seen`
	_, err = s.db.ExecContext(ctx, insert,
		v.SessionID, v.IPAddress, v.UserAgent, v.At, v.Page, v.Referrer,
		v.Device, v.Browser, v.OS, returning, pq.Array([]string{v.Page}))
	if err != nil {
		return fmt.Errorf("failed to create session %s: %w", v.SessionID, err)
	}

	s.logger.Debug().Str("session_id", v.SessionID).Bool("returning", returning).Msg("session opened")
	return nil
}

// RecordClick increments the click count of a known session.
// Clicks for unknown sessions are ignored.
func (s *SessionStore) RecordClick(ctx context.Context, sessionID string, at time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE user_sessions SET clicks = clicks + 1, last_seen = GREATEST(last_seen, $2) WHERE session_id = $1`,
		sessionID, at)
	if err != nil {
		return fmt.Errorf("failed to record click for session %s: %w", sessionID, err)
	}
	return nil
}

// Get returns one session or ErrNotFound.
func (s *SessionStore) Get(ctx context.Context, sessionID string) (*models.UserSession, error) {
	var (
		u     models.UserSession
		pages pq.StringArray
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, session_id, ip_address, user_agent, start_time, last_seen, page_views, clicks,
		       entry_page, exit_page, referrer, device, browser, os, is_returning_visitor, pages_visited
		FROM user_sessions WHERE session_id = $1`, sessionID).Scan(
		&u.ID, &u.SessionID, &u.IPAddress, &u.UserAgent, &u.StartTime, &u.LastSeen, &u.PageViews, &u.Clicks,
		&u.EntryPage, &u.ExitPage, &u.Referrer, &u.Device, &u.Browser, &u.OS, &u.IsReturningVisitor, &pages,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("session %s: %w", sessionID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session %s: %w", sessionID, err)
	}
	u.PagesVisited = []string(pages)
	return &u, nil
}

// Summary aggregates the sessions started at or after since.
func (s *SessionStore) Summary(ctx context.Context, since time.Time) (*models.SessionSummary, error) {
	summary := &models.SessionSummary{}

	err := s.db.QueryRowContext(ctx, `
		SELECT
			COALESCE(AVG(EXTRACT(EPOCH FROM (last_seen - start_time))), 0),
			COALESCE(AVG(page_views), 0),
			COUNT(*) FILTER (WHERE is_returning_visitor),
			COUNT(*) FILTER (WHERE NOT is_returning_visitor)
		FROM user_sessions
		WHERE start_time >= $1`, since).Scan(
		&summary.AvgSessionDuration,
		&summary.AvgPageViewsPerSession,
		&summary.ReturningVisitors,
		&summary.NewVisitors,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query session totals: %w", err)
	}

	if summary.EntryPages, err = s.labelCounts(ctx, "entry_page", since); err != nil {
		return nil, err
	}
	if summary.ExitPages, err = s.labelCounts(ctx, "exit_page", since); err != nil {
		return nil, err
	}
	if summary.ReferrerStats, err = s.labelCounts(ctx, "referrer", since); err != nil {
		return nil, err
	}
	return summary, nil
}

// labelCounts ranks the non-empty values of column. column is never user input.
func (s *SessionStore) labelCounts(ctx context.Context, column string, since time.Time) ([]models.LabelValue, error) {
	query := fmt.Sprintf(`
		SELECT %[1]s, COUNT(*) AS n
		FROM user_sessions
		WHERE %[1]s <> '' AND start_time >= $1
		GROUP BY %[1]s
		ORDER BY n DESC, %[1]s
		LIMIT $2`, column)

	rows, err := s.db.QueryContext(ctx, query, since, topListLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s counts: %w", column, err)
	}
	defer rows.Close()

	results := []models.LabelValue{}
	for rows.Next() {
		var lv models.LabelValue
		if err := rows.Scan(&lv.Label, &lv.Value); err != nil {
			s.logger.Warn().Err(err).Str("column", column).Msg("error scanning session row")
			continue
		}
		results = append(results, lv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s counts: %w", column, err)
	}
	return results, nil
}
