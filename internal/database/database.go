// Package database provides database connection management and utilities.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"

	apperrors "github.com/allisson/codepool/internal/errors"
)

const defaultPingTimeout = 5 * time.Second

// ErrUnsupportedDriver indicates a driver other than postgres or mysql.
var ErrUnsupportedDriver = apperrors.Wrap(apperrors.ErrConfiguration, "unsupported database driver")

// Config holds database configuration settings.
type Config struct {
	Driver             string
	ConnectionString   string
	MaxOpenConnections int
	MaxIdleConnections int
	ConnMaxLifetime    time.Duration
	// PingTimeout bounds the start-up reachability check. Zero uses five seconds.
	PingTimeout time.Duration
}

// Connect opens the pool and checks the store is reachable. An unreachable store fails
// with ErrStoreUnavailable so the process exits before it accepts claims.
func Connect(ctx context.Context, cfg Config) (*sql.DB, error) {
	switch cfg.Driver {
	case "postgres", "mysql":
	default:
		return nil, apperrors.Wrapf(ErrUnsupportedDriver, "%q", cfg.Driver)
	}

	db, err := sql.Open(cfg.Driver, cfg.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConnections)
	db.SetMaxIdleConns(cfg.MaxIdleConnections)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	timeout := cfg.PingTimeout
	if timeout <= 0 {
		timeout = defaultPingTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, apperrors.Wrapf(ErrStoreUnavailable, "ping %s: %v", cfg.Driver, err)
	}

	return db, nil
}
