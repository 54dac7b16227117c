package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/GoSim-25-26J-441/go-impact-backend/config"
)

const (
	pingTimeout     = 5 * time.Second
	connMaxLifetime = 30 * time.Minute
)

// NewConnection opens the project database and verifies it answers within pingTimeout.
func NewConnection(ctx context.Context, cfg *config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("open project database: %w", err)
	}
	configurePool(db, cfg.MaxOpenConns)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("reach project database at %s:%d: %w", cfg.Host, cfg.Port, err)
	}
	return db, nil
}

// configurePool keeps at most a fifth of the open connections idle, never fewer than one.
func configurePool(db *sql.DB, maxOpen int) {
	if maxOpen <= 0 {
		return
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(max(1, maxOpen/5))
	db.SetConnMaxLifetime(connMaxLifetime)
}
