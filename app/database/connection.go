package database

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"
)

const (
	connectMaxRetries = 5
	connectRetryDelay = 5 * time.Second
)

// DB wraps the sql.DB connection
type DB struct {
	*sql.DB
}

// NewConnection opens the SQLite database with retry logic and verifies the
// connection with a ping before returning.
func NewConnection(dbPath string) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)", dbPath)

	var lastErr error
	for attempt := 1; attempt <= connectMaxRetries; attempt++ {
		db, err := sql.Open("sqlite", dsn)
		if err != nil {
			lastErr = err
		} else if err := db.Ping(); err != nil {
			lastErr = err
			db.Close()
		} else {
			// SQLite handles a single writer; keep the pool small to avoid
			// SQLITE_BUSY churn.
			db.SetMaxOpenConns(1)
			return &DB{db}, nil
		}

		slog.Warn("Database connection attempt failed",
			"attempt", attempt, "max_retries", connectMaxRetries, "error", lastErr)

		if attempt < connectMaxRetries {
			time.Sleep(connectRetryDelay)
		}
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", connectMaxRetries, lastErr)
}
