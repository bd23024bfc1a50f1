package scraper

import (
	"testing"
)

func TestFingerprintDeterministic(t *testing.T) {
	first := Fingerprint("Dobíječka 9.9.2025 15:00 - 18:00", "Bonus 50 Kč při dobití")
	second := Fingerprint("Dobíječka 9.9.2025 15:00 - 18:00", "Bonus 50 Kč při dobití")

	if first != second {
		t.Error("Expected identical fingerprints for identical inputs")
	}
	if len(first) != 64 {
		t.Errorf("Expected 64 hex characters, got %d", len(first))
	}
}

func TestFingerprintIgnoresSurroundingWhitespace(t *testing.T) {
	if Fingerprint(" T ", " C ") != Fingerprint("T", "C") {
		t.Error("Expected fingerprint to depend only on trimmed values")
	}

	// Internal whitespace is significant
	if Fingerprint("T T", "C") == Fingerprint("TT", "C") {
		t.Error("Expected internal whitespace to change the fingerprint")
	}
}

func TestFingerprintDistinguishesContent(t *testing.T) {
	if Fingerprint("title", "content a") == Fingerprint("title", "content b") {
		t.Error("Expected different content to produce different fingerprints")
	}
}
