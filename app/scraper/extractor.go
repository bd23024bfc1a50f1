package scraper

import (
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/jkralik/kaktus-notify/app/config"
)

const (
	contentLineMinLen = 10
	contentLineMaxLen = 200
	maxContentLines   = 3
	nodeTextMinLen    = 5
	sectionContentMax = 500
	blockTextMinLen   = 20
)

// Extractor pulls a promo announcement out of the parsed page. The page has
// no stable markup, so extraction is an ordered list of heuristics tried in
// priority order; the first one that yields a result wins.
type Extractor struct {
	profile config.ScraperProfile
	loc     *time.Location
}

func NewExtractor(profile config.ScraperProfile, loc *time.Location) *Extractor {
	return &Extractor{
		profile: profile,
		loc:     loc,
	}
}

// Extract returns the announcement found on the page, or nil when nothing
// recognizable is there. A nil result is "no actionable content this cycle",
// never an error; any fault inside a strategy is swallowed the same way.
func (e *Extractor) Extract(doc *goquery.Document) (result *Announcement) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Extraction fault, treating page as unrecognized", "panic", r)
			result = nil
		}
	}()

	strategies := []struct {
		name string
		run  func(doc *goquery.Document) *Announcement
	}{
		{"date_pattern", e.extractByDatePattern},
		{"keyword_section", e.extractByKeywordSection},
		{"generic_content", e.extractGenericContent},
	}

	for _, strategy := range strategies {
		if ann := strategy.run(doc); ann != nil {
			ann.PostHash = Fingerprint(ann.Title, ann.Content)
			slog.Debug("Extraction strategy matched", "strategy", strategy.name, "title", ann.Title)
			return ann
		}
	}

	slog.Debug("No extraction strategy matched")
	return nil
}

// extractByDatePattern fires whenever a Dobíječka time range like
// "9.9.2025 15:00 - 18:00" appears anywhere in the page text. The raw
// matched substring becomes the title suffix even when the date is not
// calendar-valid; EventAt is then simply left nil.
func (e *Extractor) extractByDatePattern(doc *goquery.Document) *Announcement {
	pageText := doc.Text()

	match := eventRangePattern.FindString(pageText)
	if match == "" {
		return nil
	}

	title := e.profile.TitleLabel + " " + match

	var lines []string
	for _, line := range strings.Split(pageText, "\n") {
		line = strings.TrimSpace(line)

		length := utf8.RuneCountInString(line)
		if length <= contentLineMinLen || length >= contentLineMaxLen {
			continue
		}
		if !containsAnyKeyword(line, e.profile.ContentKeywords) {
			continue
		}

		lines = append(lines, line)
		if len(lines) == maxContentLines {
			break
		}
	}

	content := e.profile.FallbackContent
	if len(lines) > 0 {
		content = strings.Join(lines, " ")
	}

	return &Announcement{
		Title:   title,
		Content: content,
		EventAt: ParseEventTime(title, e.loc),
	}
}

// extractByKeywordSection collects the text nodes mentioning a promo keyword.
// Keywords are tried in order and the first one with usable matches wins.
func (e *Extractor) extractByKeywordSection(doc *goquery.Document) *Announcement {
	for _, keyword := range e.profile.PromoKeywords {
		nodeTexts := findTextNodes(doc, keyword)
		if len(nodeTexts) == 0 {
			continue
		}

		var parts []string
		for _, text := range nodeTexts {
			text = strings.TrimSpace(text)
			if utf8.RuneCountInString(text) > nodeTextMinLen {
				parts = append(parts, text)
			}
		}

		content := truncateRunes(strings.Join(parts, " "), sectionContentMax)
		if content == "" {
			continue
		}

		// The date is searched within the matched nodes only, not the whole
		// page.
		var eventAt *time.Time
		for _, text := range nodeTexts {
			if parsed := ParseEventTime(text, e.loc); parsed != nil {
				eventAt = parsed
				break
			}
		}

		title := e.profile.SectionTitle
		if eventAt != nil {
			title += " " + eventAt.Format("02.01.2006")
		}

		return &Announcement{
			Title:   title,
			Content: content,
			EventAt: eventAt,
		}
	}

	return nil
}

// extractGenericContent is the lowest-confidence fallback: any substantial
// block of text mentioning the brand inside the main content container.
func (e *Extractor) extractGenericContent(doc *goquery.Document) *Announcement {
	container := doc.Find("main").First()
	if container.Length() == 0 {
		container = doc.Find("body").First()
	}
	if container.Length() == 0 {
		return nil
	}

	var parts []string
	container.Find("p, div, span").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if s.Children().Length() > 0 {
			return true
		}

		text := strings.TrimSpace(s.Text())
		if utf8.RuneCountInString(text) <= blockTextMinLen {
			return true
		}
		if !containsAnyKeyword(text, e.profile.BrandKeywords) {
			return true
		}

		parts = append(parts, text)
		return len(parts) < maxContentLines
	})

	if len(parts) == 0 {
		return nil
	}

	return &Announcement{
		Title:   e.profile.GenericTitle,
		Content: strings.Join(parts, " "),
	}
}

// findTextNodes returns the raw text nodes in the document containing the
// keyword, in document order.
func findTextNodes(doc *goquery.Document, keyword string) []string {
	var texts []string

	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		s.Contents().Each(func(_ int, c *goquery.Selection) {
			if goquery.NodeName(c) != "#text" {
				return
			}
			text := c.Text()
			if strings.TrimSpace(text) == "" {
				return
			}
			if containsKeyword(text, keyword) {
				texts = append(texts, text)
			}
		})
	})

	return texts
}

func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}
