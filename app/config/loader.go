package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads the scrape profile from the given YAML file and fills in
// defaults for anything the file does not set. An empty path returns the
// built-in defaults unchanged.
func Load(path string) (*Profile, error) {
	profile := Default()

	if path == "" {
		return profile, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile file: %w", err)
	}

	if err := yaml.Unmarshal(data, profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile YAML: %w", err)
	}

	setDefaults(profile)

	if err := validate(profile); err != nil {
		return nil, fmt.Errorf("invalid profile %s: %w", path, err)
	}

	return profile, nil
}

// Default returns the built-in Kaktus profile.
func Default() *Profile {
	return &Profile{
		Scraper: ScraperProfile{
			TitleLabel:      "Dobíječka",
			SectionTitle:    "Kaktus akce",
			GenericTitle:    "Kaktus - aktuální nabídka",
			ContentKeywords: []string{"bonus", "navíc", "dobij", "kredit", "kč"},
			PromoKeywords:   []string{"dobíječka", "akce", "bonus", "navíc", "kredit"},
			BrandKeywords:   []string{"kaktus", "dobíj", "kredit", "akce"},
			FallbackContent: "Kaktus dobíjení akce",
		},
		Messages: MessageTemplates{
			Welcome: "🌵 Vítejte u Kaktus notifikačního botu!\n\n" +
				"Budete dostávat oznámení o nových akcích na T-Mobile Kaktus.\n" +
				"Pro ukončení odběru použijte /stop",
			AlreadySubscribed: "🌵 Jste již přihlášeni k odběru oznámení!\n\n" +
				"Pro ukončení odběru použijte /stop",
			Goodbye: "👋 Odběr oznámení byl ukončen.\n\n" +
				"Pro obnovení odběru použijte /start",
			GoodbyeFailed: "❌ Chyba při ukončování odběru.",
			Announcement:  "🌵 **Nová Kaktus akce!**\n\n**%s**\n\n%s",
			Reminder:      "⏰ **Připomínka: Kaktus akce začíná nyní!**\n\n**%s**",
		},
	}
}

// setDefaults fills empty fields with the built-in profile values, so a file
// overriding only the keywords keeps the default message texts.
func setDefaults(profile *Profile) {
	def := Default()

	if profile.Scraper.TitleLabel == "" {
		profile.Scraper.TitleLabel = def.Scraper.TitleLabel
	}
	if profile.Scraper.SectionTitle == "" {
		profile.Scraper.SectionTitle = def.Scraper.SectionTitle
	}
	if profile.Scraper.GenericTitle == "" {
		profile.Scraper.GenericTitle = def.Scraper.GenericTitle
	}
	if len(profile.Scraper.ContentKeywords) == 0 {
		profile.Scraper.ContentKeywords = def.Scraper.ContentKeywords
	}
	if len(profile.Scraper.PromoKeywords) == 0 {
		profile.Scraper.PromoKeywords = def.Scraper.PromoKeywords
	}
	if len(profile.Scraper.BrandKeywords) == 0 {
		profile.Scraper.BrandKeywords = def.Scraper.BrandKeywords
	}
	if profile.Scraper.FallbackContent == "" {
		profile.Scraper.FallbackContent = def.Scraper.FallbackContent
	}

	if profile.Messages.Welcome == "" {
		profile.Messages.Welcome = def.Messages.Welcome
	}
	if profile.Messages.AlreadySubscribed == "" {
		profile.Messages.AlreadySubscribed = def.Messages.AlreadySubscribed
	}
	if profile.Messages.Goodbye == "" {
		profile.Messages.Goodbye = def.Messages.Goodbye
	}
	if profile.Messages.GoodbyeFailed == "" {
		profile.Messages.GoodbyeFailed = def.Messages.GoodbyeFailed
	}
	if profile.Messages.Announcement == "" {
		profile.Messages.Announcement = def.Messages.Announcement
	}
	if profile.Messages.Reminder == "" {
		profile.Messages.Reminder = def.Messages.Reminder
	}
}

// validate rejects profiles the extractor cannot run with.
func validate(profile *Profile) error {
	if len(profile.Scraper.PromoKeywords) == 0 {
		return fmt.Errorf("at least one promo keyword is required")
	}
	if len(profile.Scraper.BrandKeywords) == 0 {
		return fmt.Errorf("at least one brand keyword is required")
	}
	return nil
}
