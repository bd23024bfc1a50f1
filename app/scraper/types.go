package scraper

import (
	"time"
)

// Announcement is one extracted promo event candidate. PostHash is a
// deterministic digest of the trimmed title and content and is the sole
// identity used for deduplication; EventAt never contributes to it.
type Announcement struct {
	Title    string
	Content  string
	EventAt  *time.Time
	PostHash string
}
