package scraper

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Fingerprint computes the deduplication digest for a post: SHA-256 over the
// trimmed title immediately followed by the trimmed content. Internal
// whitespace is kept as-is, so only leading/trailing noise is ignored.
func Fingerprint(title, content string) string {
	combined := strings.TrimSpace(title) + strings.TrimSpace(content)

	hash := sha256.Sum256([]byte(combined))
	return hex.EncodeToString(hash[:])
}
