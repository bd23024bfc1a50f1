package database

type SubscriberRepository interface {
	// Subscribe inserts a new subscriber or reactivates an inactive one.
	// Returns true when the call changed anything, false when the chat was
	// already actively subscribed.
	Subscribe(chatID int64, username string) (bool, error)

	// Deactivate marks a subscriber inactive. Deactivating an unknown or
	// already-inactive chat is a no-op and returns false.
	Deactivate(chatID int64) (bool, error)

	GetActiveChatIDs() ([]int64, error)
	GetSubscribers(limit int) ([]Subscriber, error)
	GetSubscriberStats() (total int, active int, err error)
}

type PostRepository interface {
	// MarkProcessed records the post as seen. Returns true when the post was
	// new and the row was inserted; false when a row with the same hash
	// already existed. The UNIQUE constraint on post_hash makes the
	// check-then-insert race-free.
	MarkProcessed(post ProcessedPost) (bool, error)

	GetRecentPosts(limit int) ([]ProcessedPost, error)
	GetLastPost() (*ProcessedPost, error)
	GetPostCount() (int, error)
}
