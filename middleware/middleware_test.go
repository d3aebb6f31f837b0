package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio/api/metrics"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestAuth(t *testing.T) *AdminAuth {
	t.Helper()
	auth, err := NewAdminAuth("dev", "devpass", []byte("secret"), zerolog.Nop())
	require.NoError(t, err)
	return auth
}

func protectedRouter(auth *AdminAuth) *gin.Engine {
	r := gin.New()
	r.POST("/protected", auth.Required(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": c.MustGet("admin_user")})
	})
	return r
}

func TestAdminAuth_Verify(t *testing.T) {
	auth := newTestAuth(t)
	assert.True(t, auth.Verify("dev", "devpass"))
	assert.False(t, auth.Verify("dev", "wrong"))
	assert.False(t, auth.Verify("other", "devpass"))
}

func TestAuthRequired_NoCredentials(t *testing.T) {
	r := protectedRouter(newTestAuth(t))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/protected", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Header().Get("WWW-Authenticate"), "Basic")
}

func TestAuthRequired_Basic(t *testing.T) {
	r := protectedRouter(newTestAuth(t))

	req := httptest.NewRequest(http.MethodPost, "/protected", nil)
	req.SetBasicAuth("dev", "devpass")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user":"dev"`)

	req = httptest.NewRequest(http.MethodPost, "/protected", nil)
	req.SetBasicAuth("dev", "nope")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequired_BearerAndCookie(t *testing.T) {
	auth := newTestAuth(t)
	r := protectedRouter(auth)
	token, err := auth.IssueToken()
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookie, Value: token})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/protected", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func corsRouter(origins []string) *gin.Engine {
	r := gin.New()
	r.Use(CORSMiddleware(origins))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return r
}

func TestCORSMiddleware_AnyOrigin(t *testing.T) {
	r := corsRouter(nil)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://site.dev")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://site.dev", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSMiddleware_AllowList(t *testing.T) {
	r := corsRouter([]string{"https://gideonglago.com"})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://evil.dev")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://gideonglago.com")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "https://gideonglago.com", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	r := corsRouter(nil)

	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "https://site.dev")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "DELETE")
}

func TestRequestLogger_ObservesLatency(t *testing.T) {
	m := metrics.New()
	r := gin.New()
	r.Use(RequestLogger(zerolog.Nop(), m))
	r.GET("/api/projects", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/projects", nil))
	require.Equal(t, http.StatusOK, w.Code)

	mw := httptest.NewRecorder()
	m.Handler().ServeHTTP(mw, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, mw.Body.String(), `route="/api/projects"`)
}
