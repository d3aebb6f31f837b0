package database

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/rs/zerolog"
)

// ClickHouseConfig holds the native-protocol connection settings.
type ClickHouseConfig struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
}

type ClickHouseClient struct {
	Conn   clickhouse.Conn
	logger zerolog.Logger
}

var clickHouseSchema = []string{
	`CREATE TABLE IF NOT EXISTS page_views (
		event_id   String,
		session_id String,
		page       String,
		timestamp  DateTime64(3, 'UTC'),
		referrer   String,
		user_agent String,
		ip_address String,
		device     LowCardinality(String),
		browser    LowCardinality(String),
		os         LowCardinality(String),
		country    LowCardinality(String)
	) ENGINE = MergeTree
	ORDER BY (timestamp, session_id)`,
	`CREATE TABLE IF NOT EXISTS click_events (
		event_id     String,
		session_id   String,
		page         String,
		element_type LowCardinality(String),
		element_id   String,
		element_text String,
		target_url   String,
		x            Nullable(Int32),
		y            Nullable(Int32),
		timestamp    DateTime64(3, 'UTC'),
		user_agent   String,
		ip_address   String
	) ENGINE = MergeTree
	ORDER BY (timestamp, session_id)`,
}

// NewClickHouseDB connects to the event store and applies the schema.
func NewClickHouseDB(ctx context.Context, cfg ClickHouseConfig, logger zerolog.Logger) (*ClickHouseClient, error) {
	logger = logger.With().Str("component", "clickhouse").Logger()

	if cfg.Host == "" || cfg.Database == "" {
		return nil, fmt.Errorf("clickhouse host and database name are required")
	}

	options := &clickhouse.Options{
		Addr: []string{fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		ClientInfo: clickhouse.ClientInfo{
			Products: []struct {
				Name    string
				Version string
			}{{Name: "portfolio-api", Version: "1.0.0"}},
		},
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
		DialTimeout: time.Second * 5,
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	conn, err := clickhouse.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse via Native TCP: %w", err)
	}

	if err := conn.Ping(pingCtx); err != nil {
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	for _, stmt := range clickHouseSchema {
		if err := conn.Exec(ctx, stmt); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to apply ClickHouse schema: %w", err)
		}
	}

	logger.Info().Str("addr", options.Addr[0]).Msg("connected to ClickHouse")
	return &ClickHouseClient{Conn: conn, logger: logger}, nil
}

// Ping reports whether ClickHouse is reachable.
func (c *ClickHouseClient) Ping(ctx context.Context) error {
	return c.Conn.Ping(ctx)
}

func (c *ClickHouseClient) Close() {
	if c.Conn != nil {
		c.Conn.Close()
		c.logger.Info().Msg("ClickHouse connection closed")
	}
}
