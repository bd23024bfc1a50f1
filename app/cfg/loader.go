package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Telegram configuration
	BotToken       string `long:"bot-token" env:"TELEGRAM_BOT_TOKEN" description:"Telegram bot token (required)" required:"true"`
	TelegramAPIURL string `long:"telegram-api-url" env:"TELEGRAM_API_URL" default:"https://api.telegram.org" description:"Telegram Bot API base URL"`

	// Database configuration
	DBPath string `long:"db-path" env:"DB_PATH" default:"./kaktus.db" description:"Path to the SQLite database file"`

	// Scraper configuration
	ScrapeURL      string `long:"scrape-url" env:"SCRAPE_URL" default:"https://www.mujkaktus.cz/chces-pridat" description:"Promo page URL to watch"`
	CheckInterval  int    `long:"check-interval" env:"CHECK_INTERVAL" default:"300" description:"Page check interval in seconds"`
	FailureBackoff int    `long:"failure-backoff" env:"FAILURE_BACKOFF" default:"60" description:"Delay in seconds before retrying after a monitoring fault"`
	FetchTimeout   int    `long:"fetch-timeout" env:"FETCH_TIMEOUT" default:"30" description:"HTTP fetch timeout in seconds"`
	ProfileFile    string `long:"profile-file" env:"PROFILE_FILE" description:"Optional YAML scrape profile file overriding keywords and message templates"`
	Timezone       string `long:"timezone" env:"TZ" default:"Europe/Prague" description:"Timezone for parsed event times (e.g., Europe/Prague)"`
	UserAgent      string `long:"user-agent" env:"USER_AGENT" default:"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36" description:"User agent string for HTTP requests"`

	// HTTP server configuration
	Port         string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	APIAccessKey string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`

	Debug bool `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		BotToken:       raw.BotToken,
		TelegramAPIURL: raw.TelegramAPIURL,
		DBPath:         raw.DBPath,
		ScrapeURL:      raw.ScrapeURL,
		CheckInterval:  raw.CheckInterval,
		FailureBackoff: raw.FailureBackoff,
		FetchTimeout:   raw.FetchTimeout,
		ProfileFile:    raw.ProfileFile,
		Timezone:       raw.Timezone,
		UserAgent:      raw.UserAgent,
		Port:           raw.Port,
		APIAccessKey:   raw.APIAccessKey,
		Debug:          raw.Debug,
		Version:        GetVersion(),
	}

	if cfg.FailureBackoff >= cfg.CheckInterval {
		// The fault backoff must stay shorter than the regular interval so a
		// flapping page is retried sooner, not later.
		cfg.FailureBackoff = cfg.CheckInterval / 2
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

// Location resolves the configured timezone, falling back to UTC when the
// name is unknown.
func (c *Cfg) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
