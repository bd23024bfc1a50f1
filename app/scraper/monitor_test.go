package scraper

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jkralik/kaktus-notify/app/config"
	"github.com/jkralik/kaktus-notify/app/database"
)

// mapPostStore is an in-memory PostRepository for monitor tests.
type mapPostStore struct {
	posts   map[string]database.ProcessedPost
	failing bool
}

func newMapPostStore() *mapPostStore {
	return &mapPostStore{posts: make(map[string]database.ProcessedPost)}
}

func (s *mapPostStore) MarkProcessed(post database.ProcessedPost) (bool, error) {
	if s.failing {
		return false, errors.New("disk full")
	}
	if _, ok := s.posts[post.PostHash]; ok {
		return false, nil
	}
	s.posts[post.PostHash] = post
	return true, nil
}

func (s *mapPostStore) GetRecentPosts(limit int) ([]database.ProcessedPost, error) {
	return nil, nil
}

func (s *mapPostStore) GetLastPost() (*database.ProcessedPost, error) {
	return nil, nil
}

func (s *mapPostStore) GetPostCount() (int, error) {
	return len(s.posts), nil
}

func newTestMonitor(t *testing.T, url string, store database.PostRepository, handler Handler) *Monitor {
	t.Helper()

	fetcher := NewFetcher(&http.Client{}, "test-agent", 5*time.Second)
	extractor := NewExtractor(config.Default().Scraper, mustLoadPrague(t))
	cfg := MonitorConfig{
		URL:            url,
		Interval:       time.Hour,
		FailureBackoff: time.Minute,
	}

	return NewMonitor(cfg, fetcher, extractor, store, handler)
}

func TestCycleDispatchesNewPostOnce(t *testing.T) {
	html := `<html><body>
<h2>Dobíječka 9.9.2025 15:00 - 18:00</h2>
<p>Bonus 50 Kč při dobití</p>
</body></html>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(html))
	}))
	defer server.Close()

	var handled []*Announcement
	handler := func(ctx context.Context, ann *Announcement) error {
		handled = append(handled, ann)
		return nil
	}

	store := newMapPostStore()
	monitor := newTestMonitor(t, server.URL, store, handler)

	// First cycle: new post, dispatched.
	if err := monitor.cycle(); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(handled) != 1 {
		t.Fatalf("Expected 1 dispatched post, got: %d", len(handled))
	}
	if handled[0].Title != "Dobíječka 9.9.2025 15:00 - 18:00" {
		t.Errorf("Unexpected title: %s", handled[0].Title)
	}

	// Second cycle over the unchanged page: suppressed.
	if err := monitor.cycle(); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(handled) != 1 {
		t.Errorf("Expected duplicate to be suppressed, got %d dispatches", len(handled))
	}
}

func TestCycleFetchFailureIsNotFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	handler := func(ctx context.Context, ann *Announcement) error {
		t.Error("Handler must not run on fetch failure")
		return nil
	}

	monitor := newTestMonitor(t, server.URL, newMapPostStore(), handler)

	// A failed fetch is "no content this cycle", not a cycle fault.
	if err := monitor.cycle(); err != nil {
		t.Errorf("Expected no error for fetch failure, got: %v", err)
	}
}

func TestCyclePersistenceFailureBlocksDispatch(t *testing.T) {
	html := `<html><body><h2>Dobíječka 9.9.2025 15:00 - 18:00</h2></body></html>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(html))
	}))
	defer server.Close()

	handler := func(ctx context.Context, ann *Announcement) error {
		t.Error("Handler must not run when the seen-mark could not be written")
		return nil
	}

	store := newMapPostStore()
	store.failing = true
	monitor := newTestMonitor(t, server.URL, store, handler)

	if err := monitor.cycle(); err == nil {
		t.Error("Expected persistence failure to surface as a cycle error")
	}
}

func TestCycleHandlerErrorSurfaces(t *testing.T) {
	html := `<html><body><h2>Dobíječka 9.9.2025 15:00 - 18:00</h2></body></html>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(html))
	}))
	defer server.Close()

	handler := func(ctx context.Context, ann *Announcement) error {
		return errors.New("delivery exploded")
	}

	monitor := newTestMonitor(t, server.URL, newMapPostStore(), handler)

	if err := monitor.cycle(); err == nil {
		t.Error("Expected handler error to surface as a cycle error")
	}
}

func TestMonitorStartStop(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body></body></html>"))
	}))
	defer server.Close()

	handler := func(ctx context.Context, ann *Announcement) error { return nil }

	monitor := newTestMonitor(t, server.URL, newMapPostStore(), handler)
	monitor.Start()

	// Stop must return promptly even with a long interval configured.
	done := make(chan struct{})
	go func() {
		monitor.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Monitor did not stop in time")
	}

	if monitor.StartedAt().IsZero() {
		t.Error("Expected StartedAt to be set after Start")
	}
}
