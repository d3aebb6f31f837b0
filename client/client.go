// Package client talks to the collector API. The plain methods never fail:
// transport errors and non-2xx responses collapse into a documented
// fallback value and are logged.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"portfolio/api/models"
)

// DefaultBaseURL is used when no collector URL is configured.
const DefaultBaseURL = "http://localhost:8080"

// HTTPClient abstracts HTTP calls for testing.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Client struct {
	baseURL    string
	httpClient HTTPClient
	username   string
	password   string
	logger     zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithCredentials attaches HTTP Basic admin credentials to mutating calls.
func WithCredentials(username, password string) Option {
	return func(c *Client) {
		c.username = username
		c.password = password
	}
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc HTTPClient) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func New(baseURL string, logger zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:    NormalizeBaseURL(baseURL),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger.With().Str("component", "collector_client").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NormalizeBaseURL makes sure the URL ends with "/api" without doubling
// the slash.
func NormalizeBaseURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = DefaultBaseURL
	}
	if strings.HasSuffix(raw, "/api") {
		return raw
	}
	return strings.TrimSuffix(raw, "/") + "/api"
}

// BaseURL returns the normalised API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: HTTP error! status: %d", e.Method, e.Path, e.Code)
}

// do sends a request and returns the response only for 2xx statuses.
func (c *Client) do(ctx context.Context, method, path string, body any, auth bool) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if auth && c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, &StatusError{Method: method, Path: path, Code: resp.StatusCode, Body: string(respBody)}
	}
	return resp, nil
}

// decodeResponse reads and decodes a JSON response.
func decodeResponse(resp *http.Response, v any) error {
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	resp, err := c.do(ctx, http.MethodGet, path, nil, false)
	if err != nil {
		return err
	}
	return decodeResponse(resp, v)
}

func (c *Client) post(ctx context.Context, path string, body any) bool {
	resp, err := c.do(ctx, http.MethodPost, path, body, false)
	if err != nil {
		c.logger.Warn().Err(err).Str("path", path).Msg("tracking request failed")
		return false
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return true
}

// TrackPageView reports whether the collector accepted the page view.
func (c *Client) TrackPageView(ctx context.Context, data models.PageViewRequest) bool {
	return c.post(ctx, "/analytics/track/pageview", data)
}

// TrackClick reports whether the collector accepted the click.
func (c *Client) TrackClick(ctx context.Context, data models.ClickRequest) bool {
	return c.post(ctx, "/analytics/track/click", data)
}

// FetchAnalyticsStats loads the dashboard aggregate for period. An empty
// period means a week.
func (c *Client) FetchAnalyticsStats(ctx context.Context, period string) (*models.AnalyticsStats, error) {
	if period == "" {
		period = "week"
	}
	var stats models.AnalyticsStats
	if err := c.getJSON(ctx, "/analytics/dashboard?period="+url.QueryEscape(period), &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// GetAnalyticsStats is FetchAnalyticsStats returning nil on failure.
func (c *Client) GetAnalyticsStats(ctx context.Context, period string) *models.AnalyticsStats {
	stats, err := c.FetchAnalyticsStats(ctx, period)
	if err != nil {
		c.logger.Error().Err(err).Str("period", period).Msg("error fetching analytics stats")
		return nil
	}
	return stats
}

// FetchRecentActivity loads at most limit activity items, newest first.
func (c *Client) FetchRecentActivity(ctx context.Context, limit int) ([]models.ActivityItem, error) {
	if limit <= 0 {
		limit = 50
	}
	var items []models.ActivityItem
	if err := c.getJSON(ctx, "/analytics/activity?limit="+strconv.Itoa(limit), &items); err != nil {
		return nil, err
	}
	if len(items) > limit {
		items = items[:limit]
	}
	if items == nil {
		items = []models.ActivityItem{}
	}
	return items, nil
}

// GetRecentActivity is FetchRecentActivity returning an empty list on
// failure.
func (c *Client) GetRecentActivity(ctx context.Context, limit int) []models.ActivityItem {
	items, err := c.FetchRecentActivity(ctx, limit)
	if err != nil {
		c.logger.Error().Err(err).Int("limit", limit).Msg("error fetching recent activity")
		return []models.ActivityItem{}
	}
	return items
}
