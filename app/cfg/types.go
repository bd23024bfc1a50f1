package cfg

type Cfg struct {
	// Telegram configuration
	BotToken       string
	TelegramAPIURL string

	// Database configuration
	DBPath string

	// Scraper configuration
	ScrapeURL      string
	CheckInterval  int // seconds
	FailureBackoff int // seconds
	FetchTimeout   int // seconds
	ProfileFile    string
	Timezone       string
	UserAgent      string

	// HTTP server configuration
	Port         string
	APIAccessKey string

	// Application metadata
	Debug   bool
	Version string
}
