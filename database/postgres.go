package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
)

type DBClient struct {
	DB     *sql.DB
	logger zerolog.Logger
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id          BIGSERIAL PRIMARY KEY,
		title       TEXT NOT NULL,
		description TEXT NOT NULL,
		tech_stack  TEXT[] NOT NULL DEFAULT '{}',
		github_url  TEXT NOT NULL DEFAULT '',
		demo_url    TEXT NOT NULL DEFAULT '',
		images      TEXT[] NOT NULL DEFAULT '{}',
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS user_sessions (
		id                   BIGSERIAL PRIMARY KEY,
		session_id           TEXT NOT NULL UNIQUE,
		ip_address           TEXT NOT NULL DEFAULT '',
		user_agent           TEXT NOT NULL DEFAULT '',
		start_time           TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		last_seen            TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		page_views           INTEGER NOT NULL DEFAULT 0,
		clicks               INTEGER NOT NULL DEFAULT 0,
		entry_page           TEXT NOT NULL DEFAULT '',
		exit_page            TEXT NOT NULL DEFAULT '',
		referrer             TEXT NOT NULL DEFAULT '',
		device               TEXT NOT NULL DEFAULT '',
		browser              TEXT NOT NULL DEFAULT '',
		os                   TEXT NOT NULL DEFAULT '',
		is_returning_visitor BOOLEAN NOT NULL DEFAULT FALSE,
		pages_visited        TEXT[] NOT NULL DEFAULT '{}'
	)`,
	`CREATE INDEX IF NOT EXISTS idx_user_sessions_start_time ON user_sessions (start_time)`,
	`CREATE INDEX IF NOT EXISTS idx_user_sessions_ip_address ON user_sessions (ip_address)`,
}

// NewPostgresDB opens the relational store and applies the schema.
func NewPostgresDB(ctx context.Context, dbURL string, logger zerolog.Logger) (*DBClient, error) {
	logger = logger.With().Str("component", "postgres").Logger()

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, fmt.Errorf("error opening database connection: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err = db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("error connecting to the database (ping failed): %w", err)
	}

	for _, stmt := range postgresSchema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply schema: %w", err)
		}
	}

	logger.Info().Msg("connected to PostgreSQL")
	return &DBClient{DB: db, logger: logger}, nil
}

// Ping reports whether the database is reachable.
func (c *DBClient) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

func (c *DBClient) Close() {
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			c.logger.Error().Err(err).Msg("error closing database connection")
		} else {
			c.logger.Info().Msg("PostgreSQL connection closed")
		}
	}
}
