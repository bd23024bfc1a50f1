package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jkralik/kaktus-notify/app/database"
	"github.com/jkralik/kaktus-notify/app/metrics"
)

// Handler is invoked once per newly admitted announcement, after the seen
// record has been durably written. Broadcast and reminder scheduling happen
// inside the handler, before it returns.
type Handler func(ctx context.Context, ann *Announcement) error

// MonitorConfig carries the explicit poll loop settings; there is no
// process-wide scrape state.
type MonitorConfig struct {
	URL            string
	Interval       time.Duration
	FailureBackoff time.Duration
}

// Monitor runs the poll loop: fetch, extract, deduplicate, dispatch. One
// long-lived goroutine; cycle N+1 never starts before cycle N's dispatch
// has finished.
type Monitor struct {
	cfg       MonitorConfig
	fetcher   *Fetcher
	extractor *Extractor
	posts     database.PostRepository
	handler   Handler

	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	startedAt time.Time
	lastCheck atomic.Int64 // unix seconds, 0 before the first cycle
}

func NewMonitor(cfg MonitorConfig, fetcher *Fetcher, extractor *Extractor,
	posts database.PostRepository, handler Handler) *Monitor {
	ctx, cancel := context.WithCancel(context.Background())

	return &Monitor{
		cfg:       cfg,
		fetcher:   fetcher,
		extractor: extractor,
		posts:     posts,
		handler:   handler,
		ctx:       ctx,
		cancel:    cancel,
	}
}

func (m *Monitor) Start() {
	m.startedAt = time.Now()
	m.wg.Add(1)
	go m.run()
}

// Stop cancels the loop and waits for the in-flight cycle to finish, so
// delivery attempts are not aborted mid-recipient.
func (m *Monitor) Stop() {
	m.cancel()
	m.wg.Wait()
}

func (m *Monitor) StartedAt() time.Time {
	return m.startedAt
}

// LastCheckAt returns the time of the most recent completed cycle, or nil
// before the first one.
func (m *Monitor) LastCheckAt() *time.Time {
	unix := m.lastCheck.Load()
	if unix == 0 {
		return nil
	}
	t := time.Unix(unix, 0)
	return &t
}

func (m *Monitor) run() {
	defer m.wg.Done()

	slog.Info("Starting page monitoring",
		"url", m.cfg.URL, "interval", m.cfg.Interval.String())

	for {
		delay := m.cfg.Interval

		if err := m.cycle(); err != nil {
			// A single bad cycle never stops the loop; retry sooner than the
			// regular interval.
			slog.Error("Monitoring cycle failed", "error", err)
			metrics.PollFaults.Inc()
			delay = m.cfg.FailureBackoff
		}

		m.lastCheck.Store(time.Now().Unix())

		select {
		case <-m.ctx.Done():
			slog.Info("Page monitoring stopped")
			return
		case <-time.After(delay):
		}
	}
}

func (m *Monitor) cycle() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("cycle panic: %v", r)
		}
	}()

	metrics.PollCycles.Inc()

	doc, err := m.fetcher.Fetch(m.ctx, m.cfg.URL)
	if err != nil {
		// Transient: the page will be there next cycle.
		slog.Warn("Error fetching page", "url", m.cfg.URL, "error", err)
		metrics.FetchFailures.Inc()
		return nil
	}

	ann := m.extractor.Extract(doc)
	if ann == nil {
		return nil
	}

	inserted, err := m.posts.MarkProcessed(database.ProcessedPost{
		PostHash:          ann.PostHash,
		Title:             ann.Title,
		Content:           ann.Content,
		EventAt:           ann.EventAt,
		NotificationsSent: true,
	})
	if err != nil {
		// Without a durable seen-mark the announcement must not be
		// dispatched, or a restart would notify everyone again.
		return fmt.Errorf("failed to record processed post: %w", err)
	}
	if !inserted {
		slog.Debug("Post already processed, skipping", "hash", ann.PostHash)
		return nil
	}

	slog.Info("New post detected", "title", ann.Title)
	metrics.PostsDetected.Inc()

	if err := m.handler(m.ctx, ann); err != nil {
		return fmt.Errorf("failed to handle new post: %w", err)
	}

	return nil
}
