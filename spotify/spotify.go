// Package spotify reads the owner's current or last played track.
package spotify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"portfolio/api/models"
)

// Scopes requested during authorization.
var Scopes = []string{"user-read-currently-playing", "user-read-recently-played"}

var (
	ErrNotConfigured  = errors.New("spotify credentials not configured")
	ErrNoRefreshToken = errors.New("REFRESH_TOKEN not set. Please authenticate with Spotify first")
)

// Endpoints locates the accounts service and the Web API.
type Endpoints struct {
	AuthURL  string
	TokenURL string
	APIBase  string
}

var DefaultEndpoints = Endpoints{
	AuthURL:  "https://accounts.spotify.com/authorize",
	TokenURL: "https://accounts.spotify.com/api/token",
	APIBase:  "https://api.spotify.com/v1",
}

type Config struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	RedirectURL  string
}

type Client struct {
	oauth        *oauth2.Config
	refreshToken string
	apiBase      string
	httpClient   *http.Client
	logger       zerolog.Logger
}

func New(cfg Config, ep Endpoints, logger zerolog.Logger) *Client {
	return &Client{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   ep.AuthURL,
				TokenURL:  ep.TokenURL,
				AuthStyle: oauth2.AuthStyleInHeader,
			},
		},
		refreshToken: cfg.RefreshToken,
		apiBase:      strings.TrimRight(ep.APIBase, "/"),
		httpClient:   http.DefaultClient,
		logger:       logger.With().Str("component", "spotify").Logger(),
	}
}

// Configured reports whether client credentials are present.
func (c *Client) Configured() bool {
	return c.oauth.ClientID != "" && c.oauth.ClientSecret != ""
}

// AuthCodeURL builds the authorize URL. An empty redirectURI keeps the
// configured one.
func (c *Client) AuthCodeURL(state, redirectURI string) string {
	opts := []oauth2.AuthCodeOption{oauth2.SetAuthURLParam("show_dialog", "true")}
	if redirectURI != "" {
		opts = append(opts, oauth2.SetAuthURLParam("redirect_uri", redirectURI))
	}
	return c.oauth.AuthCodeURL(state, opts...)
}

// Exchange trades an authorization code for a token pair.
func (c *Client) Exchange(ctx context.Context, code, redirectURI string) (*oauth2.Token, error) {
	var opts []oauth2.AuthCodeOption
	if redirectURI != "" {
		opts = append(opts, oauth2.SetAuthURLParam("redirect_uri", redirectURI))
	}
	tok, err := c.oauth.Exchange(c.withHTTPClient(ctx), code, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code for token: %w", err)
	}
	return tok, nil
}

type artist struct {
	Name string `json:"name"`
}

type track struct {
	Name    string   `json:"name"`
	Artists []artist `json:"artists"`
	Album   struct {
		Images []struct {
			URL string `json:"url"`
		} `json:"images"`
	} `json:"album"`
	ExternalURLs struct {
		Spotify string `json:"spotify"`
	} `json:"external_urls"`
}

func (t *track) nowPlaying(playing bool) *models.NowPlaying {
	names := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		names = append(names, a.Name)
	}
	np := &models.NowPlaying{
		IsPlaying: playing,
		Title:     t.Name,
		Artist:    strings.Join(names, ", "),
		SongURL:   t.ExternalURLs.Spotify,
	}
	if len(t.Album.Images) > 0 {
		np.AlbumImageURL = t.Album.Images[0].URL
	}
	return np
}

// NowPlaying returns the track playing right now, or the most recently
// played one. It returns nil, nil when Spotify has neither.
func (c *Client) NowPlaying(ctx context.Context) (*models.NowPlaying, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	if c.refreshToken == "" {
		return nil, ErrNoRefreshToken
	}

	ctx = c.withHTTPClient(ctx)
	api := oauth2.NewClient(ctx, c.oauth.TokenSource(ctx, &oauth2.Token{RefreshToken: c.refreshToken}))

	var current struct {
		Item *track `json:"item"`
	}
	found, err := c.getJSON(ctx, api, "/me/player/currently-playing", &current)
	if err != nil {
		return nil, err
	}
	if found && current.Item != nil {
		return current.Item.nowPlaying(true), nil
	}

	var recent struct {
		Items []struct {
			Track track `json:"track"`
		} `json:"items"`
	}
	found, err = c.getJSON(ctx, api, "/me/player/recently-played?limit=1", &recent)
	if err != nil {
		return nil, err
	}
	if !found || len(recent.Items) == 0 {
		return nil, nil
	}
	return recent.Items[0].Track.nowPlaying(false), nil
}

// getJSON decodes the response into v. It reports false on 204.
func (c *Client) getJSON(ctx context.Context, api *http.Client, path string, v any) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBase+path, nil)
	if err != nil {
		return false, err
	}
	resp, err := api.Do(req)
	if err != nil {
		return false, fmt.Errorf("spotify request %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return false, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return false, fmt.Errorf("spotify api error: %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return false, fmt.Errorf("failed to decode spotify response: %w", err)
	}
	return true, nil
}

func (c *Client) withHTTPClient(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
}
