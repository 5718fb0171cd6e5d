package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hmrtn/gtc-api/internal/config"

	// Register the Postgres database driver.
	_ "github.com/lib/pq"
)

// DriverName is the database/sql driver used for the store
const DriverName = "postgres"

// Client wraps the Postgres connection pool
type Client struct {
	db     *sql.DB
	config *config.Database
	log    *zap.Logger
}

// NewClient opens a pool against cfg.URL and verifies it with a ping
func NewClient(ctx context.Context, cfg *config.Database, log *zap.Logger) (*Client, error) {
	log.Info("Connecting to Postgres",
		zap.Int("maxOpenConns", cfg.MaxOpenConns),
		zap.Int("maxIdleConns", cfg.MaxIdleConns))

	db, err := sql.Open(DriverName, cfg.URL)
	if err != nil {
		log.Error("Failed to open Postgres connection", zap.Error(err))
		return nil, fmt.Errorf("failed to open Postgres connection: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeSec) * time.Second)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		log.Error("Failed to ping Postgres", zap.Error(err))
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping Postgres: %w", err)
	}

	log.Info("Postgres connection established successfully")

	return &Client{db: db, config: cfg, log: log}, nil
}

// DB returns the underlying connection pool
func (c *Client) DB() *sql.DB {
	return c.db
}

// Close closes the connection pool
func (c *Client) Close() error {
	c.log.Info("Closing Postgres connection")
	if err := c.db.Close(); err != nil {
		c.log.Error("Error closing Postgres connection", zap.Error(err))
		return err
	}
	c.log.Info("Postgres connection closed successfully")
	return nil
}
