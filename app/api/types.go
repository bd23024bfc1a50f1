package api

import (
	"time"
)

type statsResponse struct {
	Service           string     `json:"service"`
	Version           string     `json:"version"`
	TotalSubscribers  int        `json:"total_subscribers"`
	ActiveSubscribers int        `json:"active_subscribers"`
	ProcessedPosts    int        `json:"processed_posts"`
	LastPostTitle     string     `json:"last_post_title,omitempty"`
	LastPostAt        *time.Time `json:"last_post_at,omitempty"`
	LastCheckAt       *time.Time `json:"last_check_at,omitempty"`
	UptimeSeconds     int64      `json:"uptime_seconds"`
}

type postResponse struct {
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	EventAt     *time.Time `json:"event_at,omitempty"`
	PostHash    string     `json:"post_hash"`
	ProcessedAt time.Time  `json:"processed_at"`
}

type subscriberResponse struct {
	ChatID    int64     `json:"chat_id"`
	Username  string    `json:"username,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}
