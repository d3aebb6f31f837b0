// api/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"portfolio/api/blog"
	"portfolio/api/config"
	"portfolio/api/database"
	"portfolio/api/handlers"
	"portfolio/api/mailer"
	"portfolio/api/metrics"
	"portfolio/api/middleware"
	"portfolio/api/spotify"
	"portfolio/api/store"
	"portfolio/api/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	logger := newLogger(cfg)
	log.Logger = logger

	if cfg.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// --- PostgreSQL (projects, sessions) ---
	dbClient, err := database.NewPostgresDB(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize PostgreSQL database")
	}
	defer dbClient.Close()

	// --- ClickHouse (page views, clicks) ---
	if !cfg.ClickHouseEnabled() {
		logger.Fatal().Msg("CLICKHOUSE_HOST is required")
	}
	chClient, err := database.NewClickHouseDB(ctx, database.ClickHouseConfig{
		Host:     cfg.ClickHouseHost,
		Port:     cfg.ClickHouseNativePort,
		Database: cfg.ClickHouseDBName,
		Username: cfg.ClickHouseUsername,
		Password: cfg.ClickHousePassword,
	}, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize ClickHouse database")
	}
	defer chClient.Close()

	// --- Stores ---
	projectStore := store.NewProjectStore(dbClient.DB)
	sessionStore := store.NewSessionStore(dbClient.DB, logger)
	analyticsStore := store.NewAnalyticsStore(chClient, logger)

	if cfg.SeedProjects {
		if _, err := store.SeedProjects(ctx, projectStore, logger); err != nil {
			logger.Error().Err(err).Msg("failed to seed projects")
		}
	}

	// --- Services ---
	m := metrics.New()

	admin, err := middleware.NewAdminAuth(cfg.AdminUsername, cfg.AdminPassword, []byte(cfg.JWTSecret), logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to set up admin auth")
	}

	sender, err := mailer.NewSMTPSender(mailer.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.EmailUser,
		Password: cfg.EmailPass,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to set up mail sender")
	}
	if cfg.EmailUser == "" {
		logger.Warn().Msg("EMAIL_USER not set, contact form delivery will fail")
	}
	contactMailer := mailer.New(sender, cfg.EmailUser, cfg.ContactRecipient, cfg.BlogAuthor, logger)

	music := spotify.New(spotify.Config{
		ClientID:     cfg.SpotifyClientID,
		ClientSecret: cfg.SpotifyClientSecret,
		RefreshToken: cfg.SpotifyRefreshToken,
		RedirectURL:  cfg.SpotifyRedirectURI,
	}, spotify.DefaultEndpoints, logger)
	if !cfg.SpotifyEnabled() {
		logger.Warn().Msg("Spotify credentials not configured")
	}

	posts := blog.NewStore(cfg.BlogDir, cfg.BlogAuthor, logger)

	// --- Handlers ---
	production := strings.EqualFold(cfg.Environment, "production")
	r := newRouter(routeDeps{
		Analytics: handlers.NewAnalyticsHandlers(analyticsStore, sessionStore, m, logger),
		Projects:  handlers.NewProjectHandlers(projectStore, logger),
		Auth:      handlers.NewAuthHandlers(admin, production, logger),
		Contact:   handlers.NewContactHandlers(contactMailer, cfg.ContactRecipient, m, logger),
		Spotify:   handlers.NewSpotifyHandlers(music, utils.NewStateStore(10*time.Minute), cfg.SpotifyRedirectURI, logger),
		Blog:      handlers.NewBlogHandlers(posts, logger),
		Admin:     admin,
		Metrics:   m,
		Origins:   cfg.AllowedOrigins(),
	}, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("portfolio API starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server exiting")
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if strings.EqualFold(cfg.Environment, "production") {
		logger = zerolog.New(os.Stdout)
	} else {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}
	return logger.Level(level).With().Timestamp().Str("service", "portfolio-api").Logger()
}
