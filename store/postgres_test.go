package store

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio/api/database"
	"portfolio/api/models"
)

// newTestDB connects to TEST_DATABASE_URL or skips the test.
func newTestDB(t *testing.T) *database.DBClient {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	client, err := database.NewPostgresDB(context.Background(), url, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(client.Close)
	return client
}

func TestProjectStore_CRUD(t *testing.T) {
	client := newTestDB(t)
	s := NewProjectStore(client.DB)
	ctx := context.Background()

	created, err := s.Create(ctx, models.Project{
		Title:       "Test Project",
		Description: "Test Description",
		TechStack:   []string{"Go", "PostgreSQL"},
		GithubURL:   "https://github.com/test",
	})
	require.NoError(t, err)
	require.NotNil(t, created.ID)
	assert.Equal(t, []string{"Go", "PostgreSQL"}, created.TechStack)
	assert.Equal(t, []string{}, created.Images)
	t.Cleanup(func() { _ = s.Delete(ctx, *created.ID) })

	got, err := s.Get(ctx, *created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	got.Title = "Updated Project"
	got.Images = []string{"a.png"}
	updated, err := s.Update(ctx, *created.ID, *got)
	require.NoError(t, err)
	assert.Equal(t, "Updated Project", updated.Title)
	assert.Equal(t, []string{"a.png"}, updated.Images)

	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, list)

	require.NoError(t, s.Delete(ctx, *created.ID))
	_, err = s.Get(ctx, *created.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(s.Delete(ctx, *created.ID), ErrNotFound))

	_, err = s.Update(ctx, *created.ID, *got)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestSessionStore_RecordPageViewAndClick(t *testing.T) {
	client := newTestDB(t)
	s := NewSessionStore(client.DB, zerolog.Nop())
	ctx := context.Background()

	sessionID := uuid.New().String()
	ip := "198.51.100." + sessionID[:2]
	t.Cleanup(func() {
		_, _ = client.DB.Exec(`DELETE FROM user_sessions WHERE ip_address = $1`, ip)
	})

	start := time.Now().UTC().Truncate(time.Millisecond)
	visit := SessionVisit{SessionID: sessionID, Page: "/", IPAddress: ip, Referrer: "https://google.com", At: start}
	require.NoError(t, s.RecordPageView(ctx, visit))

	visit.Page = "/blog"
	visit.At = start.Add(30 * time.Second)
	require.NoError(t, s.RecordPageView(ctx, visit))

	visit.Page = "/"
	visit.At = start.Add(40 * time.Second)
	require.NoError(t, s.RecordPageView(ctx, visit))

	require.NoError(t, s.RecordClick(ctx, sessionID, start.Add(50*time.Second)))

	sess, err := s.Get(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, 3, sess.PageViews)
	assert.Equal(t, 1, sess.Clicks)
	assert.Equal(t, "/", sess.EntryPage)
	assert.Equal(t, "/", sess.ExitPage)
	assert.Equal(t, []string{"/", "/blog"}, sess.PagesVisited)
	assert.False(t, sess.IsReturningVisitor)

	// A second session from the same address is a returning visitor.
	second := uuid.New().String()
	require.NoError(t, s.RecordPageView(ctx, SessionVisit{SessionID: second, Page: "/", IPAddress: ip, At: start}))
	sess2, err := s.Get(ctx, second)
	require.NoError(t, err)
	assert.True(t, sess2.IsReturningVisitor)

	summary, err := s.Summary(ctx, start.Add(-time.Minute))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, summary.ReturningVisitors, uint64(1))
	assert.NotEmpty(t, summary.EntryPages)
}
