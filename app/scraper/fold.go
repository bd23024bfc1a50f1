package scraper

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var diacriticFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// foldText lowercases and strips diacritics, so "Dobíječka" matches the
// keyword "dobijecka" and vice versa. The page is not consistent about
// accents, the keyword lists should not have to be either.
func foldText(s string) string {
	folded, _, err := transform.String(diacriticFolder, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

// containsKeyword reports whether text contains the keyword, ignoring case
// and diacritics.
func containsKeyword(text, keyword string) bool {
	return strings.Contains(foldText(text), foldText(keyword))
}

// containsAnyKeyword reports whether text contains at least one keyword.
func containsAnyKeyword(text string, keywords []string) bool {
	folded := foldText(text)
	for _, keyword := range keywords {
		if strings.Contains(folded, foldText(keyword)) {
			return true
		}
	}
	return false
}
