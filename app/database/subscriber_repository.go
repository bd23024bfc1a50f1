package database

import (
	"database/sql"
	"fmt"
)

var _ SubscriberRepository = (*SubscriberRepo)(nil)

// SubscriberRepo handles database operations for subscribers
type SubscriberRepo struct {
	db *DB
}

// NewSubscriberRepository creates a new subscriber repository
func NewSubscriberRepository(db *DB) *SubscriberRepo {
	return &SubscriberRepo{db: db}
}

// Subscribe inserts a new subscriber or reactivates an inactive one.
func (r *SubscriberRepo) Subscribe(chatID int64, username string) (bool, error) {
	var isActive bool
	err := r.db.QueryRow(`
		SELECT is_active FROM subscribers WHERE chat_id = ?
	`, chatID).Scan(&isActive)

	if err == sql.ErrNoRows {
		_, err = r.db.Exec(`
			INSERT INTO subscribers (chat_id, username) VALUES (?, ?)
		`, chatID, username)
		if err != nil {
			return false, fmt.Errorf("failed to insert subscriber: %w", err)
		}
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check existing subscriber: %w", err)
	}

	if isActive {
		return false, nil
	}

	_, err = r.db.Exec(`
		UPDATE subscribers SET is_active = 1, username = ? WHERE chat_id = ?
	`, username, chatID)
	if err != nil {
		return false, fmt.Errorf("failed to reactivate subscriber: %w", err)
	}

	return true, nil
}

// Deactivate marks a subscriber inactive.
func (r *SubscriberRepo) Deactivate(chatID int64) (bool, error) {
	result, err := r.db.Exec(`
		UPDATE subscribers SET is_active = 0 WHERE chat_id = ? AND is_active = 1
	`, chatID)
	if err != nil {
		return false, fmt.Errorf("failed to deactivate subscriber: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return affected > 0, nil
}

// GetActiveChatIDs returns chat IDs of all active subscribers, oldest first.
func (r *SubscriberRepo) GetActiveChatIDs() ([]int64, error) {
	rows, err := r.db.Query(`
		SELECT chat_id FROM subscribers WHERE is_active = 1 ORDER BY created_at, chat_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get active subscribers: %w", err)
	}
	defer rows.Close()

	var chatIDs []int64
	for rows.Next() {
		var chatID int64
		if err := rows.Scan(&chatID); err != nil {
			return nil, fmt.Errorf("failed to scan subscriber row: %w", err)
		}
		chatIDs = append(chatIDs, chatID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subscriber rows: %w", err)
	}

	return chatIDs, nil
}

// GetSubscribers returns the most recently added subscribers.
func (r *SubscriberRepo) GetSubscribers(limit int) ([]Subscriber, error) {
	rows, err := r.db.Query(`
		SELECT chat_id, username, is_active, first_started, created_at
		FROM subscribers
		ORDER BY created_at DESC, chat_id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get subscribers: %w", err)
	}
	defer rows.Close()

	var subscribers []Subscriber
	for rows.Next() {
		var s Subscriber
		if err := rows.Scan(&s.ChatID, &s.Username, &s.IsActive, &s.FirstStarted, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan subscriber row: %w", err)
		}
		subscribers = append(subscribers, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subscriber rows: %w", err)
	}

	return subscribers, nil
}

// GetSubscriberStats returns total and active subscriber counts.
func (r *SubscriberRepo) GetSubscriberStats() (int, int, error) {
	var total, active int
	err := r.db.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(is_active), 0) FROM subscribers
	`).Scan(&total, &active)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get subscriber stats: %w", err)
	}

	return total, active, nil
}
