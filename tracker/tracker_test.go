package tracker

import (
	"context"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio/api/models"
)

type fakeCollector struct {
	mu     sync.Mutex
	views  []models.PageViewRequest
	clicks []models.ClickRequest
	fail   bool
}

func (f *fakeCollector) TrackPageView(ctx context.Context, data models.PageViewRequest) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.views = append(f.views, data)
	return !f.fail
}

func (f *fakeCollector) TrackClick(ctx context.Context, data models.ClickRequest) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clicks = append(f.clicks, data)
	return !f.fail
}

func newTestTracker() (*Tracker, *fakeCollector) {
	c := &fakeCollector{}
	return New(c, NewMemoryStorage(), zerolog.Nop()), c
}

func TestNewSessionID(t *testing.T) {
	now := time.UnixMilli(1718000000000)
	id := NewSessionID(now)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-z]+$`), id)
	assert.True(t, strings.HasSuffix(id, "lx8kuby8"), id)
	assert.NotEqual(t, id, NewSessionID(now))
}

func TestGetSessionID_Persists(t *testing.T) {
	s := NewMemoryStorage()
	first := GetSessionID(s)
	require.NotEmpty(t, first)
	assert.Equal(t, first, GetSessionID(s))

	stored, ok := s.Get(SessionKey)
	require.True(t, ok)
	assert.Equal(t, first, stored)

	s.Set(SessionKey, "preset")
	assert.Equal(t, "preset", GetSessionID(s))
}

// slowStorage widens the window between reading and writing the id.
type slowStorage struct {
	mu     sync.Mutex
	values map[string]string
}

func (s *slowStorage) Get(key string) (string, bool) {
	s.mu.Lock()
	v, ok := s.values[key]
	s.mu.Unlock()
	time.Sleep(5 * time.Millisecond)
	return v, ok
}

func (s *slowStorage) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

func collectIDs(n int, get func() string) map[string]struct{} {
	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		ids = map[string]struct{}{}
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := get()
			mu.Lock()
			ids[id] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()
	return ids
}

func TestGetSessionID_ConcurrentFirstUse(t *testing.T) {
	s := NewMemoryStorage()
	ids := collectIDs(8, func() string { return GetSessionID(s) })
	require.Len(t, ids, 1)

	stored, _ := s.Get(SessionKey)
	assert.Contains(t, ids, stored)
}

func TestTracker_SessionIDConcurrentFirstUse(t *testing.T) {
	storage := &slowStorage{values: map[string]string{}}
	tr := New(&fakeCollector{}, storage, zerolog.Nop())

	ids := collectIDs(8, tr.SessionID)
	require.Len(t, ids, 1)

	stored, _ := storage.Get(SessionKey)
	assert.Contains(t, ids, stored)
}

func TestNavigate_EmitsOncePerPathChange(t *testing.T) {
	tr, c := newTestTracker()
	ctx := testContext(t)

	tr.Navigate(ctx, "/")
	tr.Navigate(ctx, "/")
	tr.Navigate(ctx, "/projects")
	tr.Navigate(ctx, "")
	tr.Navigate(ctx, "/projects")
	tr.Navigate(ctx, "/")

	require.Len(t, c.views, 3)
	assert.Equal(t, "/", c.views[0].Page)
	assert.Equal(t, "/projects", c.views[1].Page)
	assert.Equal(t, "/", c.views[2].Page)

	sid := tr.SessionID()
	for _, v := range c.views {
		assert.Equal(t, sid, v.SessionID)
	}
	assert.Equal(t, "/", tr.CurrentPath())
}

func TestNavigate_FailureIsSwallowed(t *testing.T) {
	tr, c := newTestTracker()
	c.fail = true

	tr.Navigate(testContext(t), "/blog")
	assert.Len(t, c.views, 1)
	assert.Equal(t, "/blog", tr.CurrentPath())
}

func TestTrackPage(t *testing.T) {
	tr, c := newTestTracker()

	tr.TrackPage(testContext(t), "")
	assert.Empty(t, c.views)

	tr.Navigate(testContext(t), "/about")
	tr.TrackPage(testContext(t), "")
	tr.TrackPage(testContext(t), "/manual")
	require.Len(t, c.views, 3)
	assert.Equal(t, "/about", c.views[1].Page)
	assert.Equal(t, "/manual", c.views[2].Page)
}

func TestVisibility(t *testing.T) {
	tr, _ := newTestTracker()
	assert.True(t, tr.IsVisible())
	tr.SetVisible(false)
	assert.False(t, tr.IsVisible())
}
