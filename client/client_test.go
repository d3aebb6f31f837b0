package client

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio/api/models"
)

// recordingHTTP captures requests and answers with a canned response.
type recordingHTTP struct {
	mu     sync.Mutex
	reqs   []*http.Request
	bodies []string
	status int
	body   string
	err    error
}

func (r *recordingHTTP) Do(req *http.Request) (*http.Response, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var body string
	if req.Body != nil {
		raw, _ := io.ReadAll(req.Body)
		body = string(raw)
	}
	r.reqs = append(r.reqs, req)
	r.bodies = append(r.bodies, body)
	if r.err != nil {
		return nil, r.err
	}
	status := r.status
	if status == 0 {
		status = http.StatusOK
	}
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(r.body)),
		Header:     http.Header{"Content-Type": {"application/json"}},
	}, nil
}

func newRecording(rec *recordingHTTP, opts ...Option) *Client {
	return New("", zerolog.Nop(), append(opts, WithHTTPClient(rec))...)
}

var sample = models.Project{
	Title:       "New Project",
	Description: "New Description",
	TechStack:   []string{"React", "TypeScript"},
	GithubURL:   "https://github.com/new",
	DemoURL:     "https://demo.new",
	Images:      []string{},
}

func TestNormalizeBaseURL(t *testing.T) {
	cases := map[string]string{
		"":                        "http://localhost:8080/api",
		"http://localhost:8080":   "http://localhost:8080/api",
		"http://localhost:8080/":  "http://localhost:8080/api",
		"https://x.dev/api":       "https://x.dev/api",
		" https://x.dev/backend ": "https://x.dev/backend/api",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeBaseURL(in), in)
	}
}

func TestGetProjects_URL(t *testing.T) {
	rec := &recordingHTTP{body: `[{"id":1,"title":"Test Project","description":"Test Description","techStack":["React"],"githubUrl":"https://github.com/test","demoUrl":"https://demo.test","images":[]}]`}
	c := newRecording(rec)

	projects := c.GetProjects(testContext(t))
	require.Len(t, projects, 1)
	assert.Equal(t, "Test Project", projects[0].Title)
	require.Len(t, rec.reqs, 1)
	assert.Equal(t, "http://localhost:8080/api/projects", rec.reqs[0].URL.String())
	assert.Equal(t, http.MethodGet, rec.reqs[0].Method)
}

func TestFallbacks_OnNetworkFailure(t *testing.T) {
	rec := &recordingHTTP{err: errors.New("network error")}
	c := newRecording(rec)
	ctx := testContext(t)

	assert.Equal(t, []models.Project{}, c.GetProjects(ctx))
	assert.Nil(t, c.GetProject(ctx, 1))
	assert.Nil(t, c.CreateProject(ctx, sample))
	assert.Nil(t, c.UpdateProject(ctx, 1, sample))
	assert.False(t, c.DeleteProject(ctx, 1))
	assert.False(t, c.TrackPageView(ctx, models.PageViewRequest{Page: "/", SessionID: "s"}))
	assert.False(t, c.TrackClick(ctx, models.ClickRequest{SessionID: "s", Page: "/", ElementType: "link"}))
	assert.Nil(t, c.GetAnalyticsStats(ctx, "week"))
	assert.Equal(t, []models.ActivityItem{}, c.GetRecentActivity(ctx, 10))
}

func TestFallbacks_OnHTTPError(t *testing.T) {
	rec := &recordingHTTP{status: http.StatusInternalServerError, body: `{"error":"boom"}`}
	c := newRecording(rec)
	ctx := testContext(t)

	assert.Nil(t, c.GetProject(ctx, 1))
	assert.False(t, c.DeleteProject(ctx, 1))
	assert.False(t, c.TrackPageView(ctx, models.PageViewRequest{Page: "/", SessionID: "s"}))

	_, err := c.FetchAnalyticsStats(ctx, "day")
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusInternalServerError, se.Code)
}

func TestFallbacks_OnMalformedBody(t *testing.T) {
	c := newRecording(&recordingHTTP{body: `not json`})
	assert.Nil(t, c.GetAnalyticsStats(testContext(t), "week"))
	assert.Equal(t, []models.ActivityItem{}, c.GetRecentActivity(testContext(t), 5))
}

func TestCreateProject_SendsJSON(t *testing.T) {
	rec := &recordingHTTP{status: http.StatusCreated, body: `{"id":2,"title":"New Project","description":"New Description","techStack":["React","TypeScript"],"githubUrl":"https://github.com/new","demoUrl":"https://demo.new","images":[]}`}
	c := newRecording(rec)

	created := c.CreateProject(testContext(t), sample)
	require.NotNil(t, created)
	require.NotNil(t, created.ID)
	assert.EqualValues(t, 2, *created.ID)
	assert.Equal(t, sample.Title, created.Title)
	assert.Equal(t, sample.TechStack, created.TechStack)

	req := rec.reqs[0]
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "http://localhost:8080/api/projects", req.URL.String())
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))

	want, err := json.Marshal(sample)
	require.NoError(t, err)
	assert.JSONEq(t, string(want), rec.bodies[0])
}

func TestUpdateProject_SendsJSON(t *testing.T) {
	rec := &recordingHTTP{body: `{"id":1,"title":"Updated Project","description":"d","techStack":[],"githubUrl":"","demoUrl":"","images":[]}`}
	c := newRecording(rec)

	updated := c.UpdateProject(testContext(t), 1, sample)
	require.NotNil(t, updated)
	assert.Equal(t, "Updated Project", updated.Title)

	req := rec.reqs[0]
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "http://localhost:8080/api/projects/1", req.URL.String())
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
	assert.Contains(t, rec.bodies[0], `"title":"New Project"`)
}

func TestDeleteProject_SingleRequest(t *testing.T) {
	rec := &recordingHTTP{status: http.StatusNoContent}
	c := newRecording(rec)

	assert.True(t, c.DeleteProject(testContext(t), 1))
	require.Len(t, rec.reqs, 1)
	assert.Equal(t, http.MethodDelete, rec.reqs[0].Method)
	assert.Equal(t, "http://localhost:8080/api/projects/1", rec.reqs[0].URL.String())
	assert.Empty(t, rec.bodies[0])
}

func TestWithCredentials_OnlyOnMutations(t *testing.T) {
	rec := &recordingHTTP{body: `{}`}
	c := newRecording(rec, WithCredentials("dev", "devpass"))

	c.GetProject(testContext(t), 1)
	c.UpdateProject(testContext(t), 1, sample)

	_, _, ok := rec.reqs[0].BasicAuth()
	assert.False(t, ok)
	user, pass, ok := rec.reqs[1].BasicAuth()
	require.True(t, ok)
	assert.Equal(t, "dev", user)
	assert.Equal(t, "devpass", pass)
}

func TestAnalytics_RoundTrip(t *testing.T) {
	var gotPeriod, gotLimit string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/analytics/dashboard":
			gotPeriod = r.URL.Query().Get("period")
			w.Write([]byte(`{"totalPageViews":12,"uniqueVisitors":3,"popularPages":[{"label":"/","value":9}]}`))
		case "/api/analytics/activity":
			gotLimit = r.URL.Query().Get("limit")
			w.Write([]byte(`[{"type":"pageview","page":"/","timestamp":"2025-01-01T00:00:00Z"},
				{"type":"click","element":"cta","timestamp":"2024-12-31T23:59:00Z"},
				{"type":"pageview","page":"/blog","timestamp":"2024-12-31T23:58:00Z"}]`))
		case "/api/analytics/track/pageview":
			w.Write([]byte(`{"status":"success"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, zerolog.Nop())

	stats := c.GetAnalyticsStats(testContext(t), "")
	require.NotNil(t, stats)
	assert.Equal(t, "week", gotPeriod)
	assert.EqualValues(t, 12, stats.TotalPageViews)
	assert.Equal(t, "/", stats.PopularPages[0].Label)

	items := c.GetRecentActivity(testContext(t), 2)
	assert.Equal(t, "2", gotLimit)
	require.Len(t, items, 2)
	assert.Equal(t, models.ActivityClick, items[1].Type)

	assert.True(t, c.TrackPageView(testContext(t), models.PageViewRequest{Page: "/", SessionID: "s"}))
}
