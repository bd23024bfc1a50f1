package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jkralik/kaktus-notify/app/cfg"
	"github.com/jkralik/kaktus-notify/app/database"
)

const defaultListLimit = 20

// MonitorInfo exposes the poll loop state the status endpoints report.
type MonitorInfo interface {
	StartedAt() time.Time
	LastCheckAt() *time.Time
}

type Handler struct {
	subscribers database.SubscriberRepository
	posts       database.PostRepository
	monitor     MonitorInfo
}

func NewHandler(subscribers database.SubscriberRepository, posts database.PostRepository,
	monitor MonitorInfo) *Handler {
	return &Handler{
		subscribers: subscribers,
		posts:       posts,
		monitor:     monitor,
	}
}

// HealthCheck reports whether the database answers.
func (h *Handler) HealthCheck(c *gin.Context) {
	if _, _, err := h.subscribers.GetSubscriberStats(); err != nil {
		slog.Error("Health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  "database unavailable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetStats reports subscriber and post counts plus monitor state.
func (h *Handler) GetStats(c *gin.Context) {
	total, active, err := h.subscribers.GetSubscriberStats()
	if err != nil {
		slog.Error("Failed to get subscriber stats", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get stats"})
		return
	}

	postCount, err := h.posts.GetPostCount()
	if err != nil {
		slog.Error("Failed to get post count", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get stats"})
		return
	}

	stats := statsResponse{
		Service:           "Kaktus Notify",
		Version:           cfg.GetVersion(),
		TotalSubscribers:  total,
		ActiveSubscribers: active,
		ProcessedPosts:    postCount,
		LastCheckAt:       h.monitor.LastCheckAt(),
		UptimeSeconds:     int64(time.Since(h.monitor.StartedAt()).Seconds()),
	}

	if last, err := h.posts.GetLastPost(); err == nil && last != nil {
		stats.LastPostTitle = last.Title
		stats.LastPostAt = &last.ProcessedAt
	}

	c.JSON(http.StatusOK, stats)
}

// ListPosts returns the most recently processed posts.
func (h *Handler) ListPosts(c *gin.Context) {
	limit := parseLimit(c.Query("limit"))

	posts, err := h.posts.GetRecentPosts(limit)
	if err != nil {
		slog.Error("Failed to list posts", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list posts"})
		return
	}

	response := make([]postResponse, 0, len(posts))
	for _, p := range posts {
		response = append(response, postResponse{
			Title:       p.Title,
			Content:     p.Content,
			EventAt:     p.EventAt,
			PostHash:    p.PostHash,
			ProcessedAt: p.ProcessedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"posts": response, "count": len(response)})
}

// ListSubscribers returns the most recently added subscribers.
func (h *Handler) ListSubscribers(c *gin.Context) {
	limit := parseLimit(c.Query("limit"))

	subscribers, err := h.subscribers.GetSubscribers(limit)
	if err != nil {
		slog.Error("Failed to list subscribers", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list subscribers"})
		return
	}

	response := make([]subscriberResponse, 0, len(subscribers))
	for _, s := range subscribers {
		response = append(response, subscriberResponse{
			ChatID:    s.ChatID,
			Username:  s.Username,
			IsActive:  s.IsActive,
			CreatedAt: s.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"subscribers": response, "count": len(response)})
}

func parseLimit(raw string) int {
	if raw == "" {
		return defaultListLimit
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 || limit > 100 {
		return defaultListLimit
	}
	return limit
}
