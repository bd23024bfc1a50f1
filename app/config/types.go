package config

// Profile represents the scrape profile: the keyword heuristics the extractor
// runs with and the Telegram message templates. All fields are optional in the
// YAML file; anything left empty keeps the built-in Kaktus defaults.
type Profile struct {
	Scraper  ScraperProfile   `yaml:"scraper"`
	Messages MessageTemplates `yaml:"messages"`
}

// ScraperProfile contains the extraction heuristics configuration.
type ScraperProfile struct {
	TitleLabel      string   `yaml:"title_label"`      // prefix for date-pattern titles, e.g. "Dobíječka"
	SectionTitle    string   `yaml:"section_title"`    // title for keyword-section results
	GenericTitle    string   `yaml:"generic_title"`    // title for generic-content fallback results
	ContentKeywords []string `yaml:"content_keywords"` // line filter for date-pattern content
	PromoKeywords   []string `yaml:"promo_keywords"`   // ordered keyword-section indicators
	BrandKeywords   []string `yaml:"brand_keywords"`   // generic-content node filter
	FallbackContent string   `yaml:"fallback_content"` // content when no line matches
}

// MessageTemplates contains the Telegram message texts.
type MessageTemplates struct {
	Welcome           string `yaml:"welcome"`
	AlreadySubscribed string `yaml:"already_subscribed"`
	Goodbye           string `yaml:"goodbye"`
	GoodbyeFailed     string `yaml:"goodbye_failed"`
	Announcement      string `yaml:"announcement"` // fmt template: title, content
	Reminder          string `yaml:"reminder"`     // fmt template: title
}
