package database

import (
	"time"
)

// Subscriber represents a Telegram chat subscribed to notifications.
type Subscriber struct {
	ChatID       int64
	Username     string
	IsActive     bool
	FirstStarted time.Time
	CreatedAt    time.Time
}

// ProcessedPost represents a promo announcement that has already been seen.
// Rows are inserted once per distinct post hash and never updated or deleted.
type ProcessedPost struct {
	ID                int64
	PostHash          string
	Title             string
	Content           string
	EventAt           *time.Time
	NotificationsSent bool
	ProcessedAt       time.Time
}
