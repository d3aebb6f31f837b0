package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio/api/models"
)

func TestMergeActivity(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	views := []models.ActivityItem{
		{Type: models.ActivityPageView, Page: "/", Timestamp: base.Add(3 * time.Minute)},
		{Type: models.ActivityPageView, Page: "/blog", Timestamp: base.Add(1 * time.Minute)},
	}
	clicks := []models.ActivityItem{
		{Type: models.ActivityClick, Element: "Contact", Timestamp: base.Add(4 * time.Minute)},
		{Type: models.ActivityClick, Element: "GitHub", Timestamp: base.Add(2 * time.Minute)},
	}

	merged := MergeActivity(views, clicks, 3)
	require.Len(t, merged, 3)
	assert.Equal(t, "Contact", merged[0].Element)
	assert.Equal(t, "/", merged[1].Page)
	assert.Equal(t, "GitHub", merged[2].Element)

	all := MergeActivity(views, clicks, 10)
	assert.Len(t, all, 4)
	for i := 1; i < len(all); i++ {
		assert.False(t, all[i].Timestamp.After(all[i-1].Timestamp), "items must be newest first")
	}

	assert.Empty(t, MergeActivity(nil, nil, 5))
}

func TestToInt32Ptr(t *testing.T) {
	assert.Nil(t, toInt32Ptr(nil))
	v := 42
	got := toInt32Ptr(&v)
	require.NotNil(t, got)
	assert.Equal(t, int32(42), *got)
}

type fakeSeeder struct {
	count   int64
	created []models.Project
	failAt  int
}

func (f *fakeSeeder) Count(ctx context.Context) (int64, error) { return f.count, nil }

func (f *fakeSeeder) Create(ctx context.Context, p models.Project) (*models.Project, error) {
	if f.failAt > 0 && len(f.created)+1 == f.failAt {
		return nil, errors.New("boom")
	}
	f.created = append(f.created, p)
	id := int64(len(f.created))
	p.ID = &id
	return &p, nil
}

func TestSeedProjects_EmptyStore(t *testing.T) {
	s := &fakeSeeder{}
	n, err := SeedProjects(context.Background(), s, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, len(DefaultProjects), n)
	assert.Len(t, s.created, 6)
	assert.Equal(t, "AI Portfolio Assistant", s.created[0].Title)
}

func TestSeedProjects_NonEmptyStore(t *testing.T) {
	s := &fakeSeeder{count: 2}
	n, err := SeedProjects(context.Background(), s, zerolog.Nop())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, s.created)
}

func TestSeedProjects_CreateFailure(t *testing.T) {
	s := &fakeSeeder{failAt: 3}
	n, err := SeedProjects(context.Background(), s, zerolog.Nop())
	require.Error(t, err)
	assert.Equal(t, 2, n)
}

func TestDefaultProjects_HaveRequiredFields(t *testing.T) {
	for _, p := range DefaultProjects {
		assert.NotEmpty(t, p.Title)
		assert.NotEmpty(t, p.Description)
		assert.NotEmpty(t, p.TechStack)
		assert.Nil(t, p.ID)
	}
}
