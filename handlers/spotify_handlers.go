package handlers

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"portfolio/api/models"
	"portfolio/api/spotify"
	"portfolio/api/utils"
)

// MusicSource authorizes against Spotify and reads the playing track.
type MusicSource interface {
	Configured() bool
	AuthCodeURL(state, redirectURI string) string
	Exchange(ctx context.Context, code, redirectURI string) (*oauth2.Token, error)
	NowPlaying(ctx context.Context) (*models.NowPlaying, error)
}

type SpotifyHandlers struct {
	Music  MusicSource
	States *utils.StateStore
	// RedirectURI overrides the callback derived from the request host.
	RedirectURI string
	logger      zerolog.Logger
}

func NewSpotifyHandlers(music MusicSource, states *utils.StateStore, redirectURI string, logger zerolog.Logger) *SpotifyHandlers {
	return &SpotifyHandlers{
		Music:       music,
		States:      states,
		RedirectURI: redirectURI,
		logger:      logger.With().Str("component", "spotify").Logger(),
	}
}

// redirectURI uses the loopback address with the request's port, which is
// what Spotify accepts for local development.
func (h *SpotifyHandlers) redirectURI(c *gin.Context) string {
	if h.RedirectURI != "" {
		return h.RedirectURI
	}
	_, port, err := net.SplitHostPort(c.Request.Host)
	if err != nil || port == "" {
		return "http://127.0.0.1/callback"
	}
	return "http://127.0.0.1:" + port + "/callback"
}

// AuthURL returns the authorize URL instead of redirecting so the page can
// open it itself.
func (h *SpotifyHandlers) AuthURL(c *gin.Context) {
	if !h.Music.Configured() {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Spotify credentials not configured"})
		return
	}
	state, err := h.States.Issue()
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to generate oauth state")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate auth URL"})
		return
	}
	url := h.Music.AuthCodeURL(state, h.redirectURI(c))
	h.logger.Debug().Str("url", url).Msg("spotify auth url issued")
	c.JSON(http.StatusOK, gin.H{"url": url})
}

func (h *SpotifyHandlers) Callback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.Redirect(http.StatusFound, "/?spotify_error=missing_code")
		return
	}
	if !h.States.Consume(c.Query("state")) {
		h.logger.Warn().Msg("spotify callback with unknown state")
		c.Redirect(http.StatusFound, "/?spotify_error=auth_failed")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	tok, err := h.Music.Exchange(ctx, code, h.redirectURI(c))
	if err != nil {
		h.logger.Error().Err(err).Msg("spotify token exchange failed")
		c.Redirect(http.StatusFound, "/?spotify_error=auth_failed")
		return
	}

	h.logger.Info().Str("SPOTIFY_REFRESH_TOKEN", tok.RefreshToken).Msg("spotify refresh token obtained, add it to the environment")
	c.Redirect(http.StatusFound, "/?spotify_success=true")
}

func (h *SpotifyHandlers) NowPlaying(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	np, err := h.Music.NowPlaying(ctx)
	switch {
	case errors.Is(err, spotify.ErrNotConfigured):
		h.logger.Error().Msg("missing spotify credentials")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Spotify credentials not configured"})
	case errors.Is(err, spotify.ErrNoRefreshToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case err != nil:
		h.logger.Error().Err(err).Msg("failed to fetch spotify data")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch Spotify data"})
	default:
		c.JSON(http.StatusOK, np)
	}
}
