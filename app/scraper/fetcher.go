package scraper

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Fetcher downloads and parses the watched page.
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	timeout    time.Duration
}

func NewFetcher(httpClient *http.Client, userAgent string, timeout time.Duration) *Fetcher {
	return &Fetcher{
		httpClient: httpClient,
		userAgent:  userAgent,
		timeout:    timeout,
	}
}

// Fetch retrieves the page and parses it into a navigable document. The
// request is bounded by the configured timeout so a network stall cannot
// block the poll cycle indefinitely.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}

	return doc, nil
}
