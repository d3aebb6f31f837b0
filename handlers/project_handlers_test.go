package handlers

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio/api/middleware"
	"portfolio/api/models"
	"portfolio/api/store"
)

type memProjects struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]models.Project
}

func newMemProjects() *memProjects {
	return &memProjects{nextID: 1, rows: map[int64]models.Project{}}
}

func (m *memProjects) List(ctx context.Context) ([]models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Project, 0, len(m.rows))
	for _, p := range m.rows {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return *out[i].ID < *out[j].ID })
	return out, nil
}

func (m *memProjects) Get(ctx context.Context, id int64) (*models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.rows[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (m *memProjects) Create(ctx context.Context, p models.Project) (*models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	p.ID = &id
	m.rows[id] = p
	return &p, nil
}

func (m *memProjects) Update(ctx context.Context, id int64, p models.Project) (*models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return nil, store.ErrNotFound
	}
	p.ID = &id
	m.rows[id] = p
	return &p, nil
}

func (m *memProjects) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func projectRouter(t *testing.T, repo ProjectRepository) (*gin.Engine, *middleware.AdminAuth) {
	t.Helper()
	auth, err := middleware.NewAdminAuth("dev", "devpass", []byte("secret"), zerolog.Nop())
	require.NoError(t, err)

	h := NewProjectHandlers(repo, zerolog.Nop())
	a := NewAuthHandlers(auth, false, zerolog.Nop())
	r := gin.New()
	api := r.Group("/api")
	api.POST("/auth/login", a.Login)
	api.POST("/auth/logout", a.Logout)
	api.GET("/projects", h.List)
	api.GET("/projects/:id", h.Get)
	admin := api.Group("/projects", auth.Required())
	admin.POST("", h.Create)
	admin.PUT("/:id", h.Update)
	admin.DELETE("/:id", h.Delete)
	return r, auth
}

func basicAuth() http.Header {
	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	req.SetBasicAuth("dev", "devpass")
	return req.Header
}

var sampleProject = models.Project{
	Title:       "Portfolio",
	Description: "Personal site",
	TechStack:   []string{"Go", "Next.js"},
	GithubURL:   "https://github.com/example/portfolio",
	Images:      []string{},
}

func TestProjects_CRUD(t *testing.T) {
	r, _ := projectRouter(t, newMemProjects())

	w := doRequest(t, r, http.MethodPost, "/api/projects", sampleProject, basicAuth())
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[models.Project](t, w)
	require.NotNil(t, created.ID)
	assert.Equal(t, sampleProject.Title, created.Title)
	assert.Equal(t, sampleProject.TechStack, created.TechStack)

	w = doRequest(t, r, http.MethodGet, "/api/projects/1", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Personal site", decode[models.Project](t, w).Description)

	update := sampleProject
	update.Title = "Portfolio v2"
	w = doRequest(t, r, http.MethodPut, "/api/projects/1", update, basicAuth())
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Portfolio v2", decode[models.Project](t, w).Title)

	w = doRequest(t, r, http.MethodGet, "/api/projects", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Project](t, w), 1)

	w = doRequest(t, r, http.MethodDelete, "/api/projects/1", nil, basicAuth())
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(t, r, http.MethodGet, "/api/projects/1", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProjects_ListEmpty(t *testing.T) {
	r, _ := projectRouter(t, newMemProjects())

	w := doRequest(t, r, http.MethodGet, "/api/projects", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestProjects_Validation(t *testing.T) {
	r, _ := projectRouter(t, newMemProjects())

	w := doRequest(t, r, http.MethodPost, "/api/projects", models.Project{Title: "No description"}, basicAuth())
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, r, http.MethodGet, "/api/projects/abc", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProjects_MissingOnMutation(t *testing.T) {
	r, _ := projectRouter(t, newMemProjects())

	w := doRequest(t, r, http.MethodPut, "/api/projects/99", sampleProject, basicAuth())
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(t, r, http.MethodDelete, "/api/projects/99", nil, basicAuth())
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProjects_MutationsRequireAuth(t *testing.T) {
	repo := newMemProjects()
	r, _ := projectRouter(t, repo)

	w := doRequest(t, r, http.MethodPost, "/api/projects", sampleProject, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, repo.rows)
}

func TestLogin_IssuesUsableToken(t *testing.T) {
	r, _ := projectRouter(t, newMemProjects())

	w := doRequest(t, r, http.MethodPost, "/api/auth/login", models.LoginRequest{Username: "dev", Password: "devpass"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[map[string]string](t, w)
	require.NotEmpty(t, body["token"])

	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.TokenCookie {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)

	w = doRequest(t, r, http.MethodPost, "/api/projects", sampleProject,
		http.Header{"Authorization": {"Bearer " + body["token"]}})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestLogin_BadCredentials(t *testing.T) {
	r, _ := projectRouter(t, newMemProjects())

	w := doRequest(t, r, http.MethodPost, "/api/auth/login", models.LoginRequest{Username: "dev", Password: "nope"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(t, r, http.MethodPost, "/api/auth/login", "{}", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogout_ClearsCookie(t *testing.T) {
	r, _ := projectRouter(t, newMemProjects())

	w := doRequest(t, r, http.MethodPost, "/api/auth/logout", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, w.Result().Cookies())
	assert.Equal(t, middleware.TokenCookie, w.Result().Cookies()[0].Name)
	assert.Less(t, w.Result().Cookies()[0].MaxAge, 0)
}
