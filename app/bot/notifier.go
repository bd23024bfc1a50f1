package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jkralik/kaktus-notify/app/config"
	"github.com/jkralik/kaktus-notify/app/metrics"
	"github.com/jkralik/kaktus-notify/app/scraper"
)

const (
	// Pause between recipients so a large broadcast stays inside the
	// Telegram rate limits.
	defaultPacing = 50 * time.Millisecond

	// Per-attempt delivery deadline; a started send is bounded by this, not
	// by the dispatch context.
	sendTimeout = 30 * time.Second

	// Telegram accepts scheduled deliveries between 10 seconds and 365 days
	// from now.
	minScheduleLead = 10 * time.Second
	maxScheduleLead = 365 * 24 * time.Hour
)

// SubscriberSource provides the active recipient snapshot for one fan-out.
type SubscriberSource interface {
	GetActiveChatIDs() ([]int64, error)
}

// Deactivator marks one subscriber inactive. Kept as a single function
// reference so the notifier stays testable without the full store.
type Deactivator func(chatID int64) (bool, error)

// Notifier fans announcements out to subscribers: an immediate broadcast and
// a reminder scheduled for the event start. Each recipient is an independent
// unit of work; one failure never aborts the rest.
type Notifier struct {
	transport  Transport
	source     SubscriberSource
	deactivate Deactivator
	messages   config.MessageTemplates
	pacing     time.Duration
	now        func() time.Time
}

func NewNotifier(transport Transport, source SubscriberSource, deactivate Deactivator,
	messages config.MessageTemplates) *Notifier {
	return &Notifier{
		transport:  transport,
		source:     source,
		deactivate: deactivate,
		messages:   messages,
		pacing:     defaultPacing,
		now:        time.Now,
	}
}

// HandleNewPost is the monitor's dispatch callback: immediate broadcast
// first, then the scheduled reminder.
func (n *Notifier) HandleNewPost(ctx context.Context, ann *scraper.Announcement) error {
	slog.Info("Handling new post", "title", ann.Title)

	if _, err := n.Broadcast(ctx, ann); err != nil {
		return err
	}

	if _, err := n.ScheduleReminder(ctx, ann); err != nil {
		return err
	}

	return nil
}

// Broadcast sends the announcement to every active subscriber and returns
// the number of successful deliveries. The recipient set is read once at the
// start; a subscriber leaving mid-broadcast may still receive this message.
func (n *Notifier) Broadcast(ctx context.Context, ann *scraper.Announcement) (int, error) {
	chatIDs, err := n.source.GetActiveChatIDs()
	if err != nil {
		return 0, fmt.Errorf("failed to read active subscribers: %w", err)
	}

	if len(chatIDs) == 0 {
		slog.Info("No active subscribers to notify")
		return 0, nil
	}

	message := fmt.Sprintf(n.messages.Announcement, ann.Title, ann.Content)

	sent := 0
	for _, chatID := range chatIDs {
		err := n.send(ctx, chatID, message, nil)
		switch {
		case err == nil:
			sent++
			metrics.NotificationsSent.Inc()
		case errors.Is(err, ErrRevoked):
			// Counted only under SubscribersRevoked: sent + failed + revoked
			// adds up to the recipient snapshot.
			n.handleRevoked(chatID)
		default:
			slog.Error("Error sending notification", "chat_id", chatID, "error", err)
			metrics.NotificationsFailed.Inc()
		}

		n.pause(ctx)
	}

	slog.Info("Immediate notifications sent", "sent", sent, "total", len(chatIDs))
	return sent, nil
}

// ScheduleReminder requests delayed delivery of a reminder at the event
// start for every active subscriber. A no-op when the announcement carries
// no event time or the event is outside the schedulable window.
func (n *Notifier) ScheduleReminder(ctx context.Context, ann *scraper.Announcement) (int, error) {
	if ann.EventAt == nil {
		slog.Debug("No event time, skipping scheduled reminder")
		return 0, nil
	}

	lead := ann.EventAt.Sub(n.now())
	if lead < minScheduleLead || lead > maxScheduleLead {
		slog.Warn("Event time not valid for scheduling, skipping reminder",
			"event_at", ann.EventAt, "lead", lead.String())
		return 0, nil
	}

	chatIDs, err := n.source.GetActiveChatIDs()
	if err != nil {
		return 0, fmt.Errorf("failed to read active subscribers: %w", err)
	}

	if len(chatIDs) == 0 {
		slog.Info("No active subscribers for scheduled reminder")
		return 0, nil
	}

	message := fmt.Sprintf(n.messages.Reminder, ann.Title)

	scheduled := 0
	for _, chatID := range chatIDs {
		err := n.send(ctx, chatID, message, ann.EventAt)
		switch {
		case err == nil:
			scheduled++
			metrics.RemindersScheduled.Inc()
		case errors.Is(err, ErrRevoked):
			n.handleRevoked(chatID)
		default:
			slog.Error("Error scheduling reminder", "chat_id", chatID, "error", err)
		}

		n.pause(ctx)
	}

	slog.Info("Reminders scheduled", "scheduled", scheduled, "total", len(chatIDs), "event_at", ann.EventAt)
	return scheduled, nil
}

// send performs one delivery attempt. The attempt is shielded from
// cancellation of the dispatch context: a started send runs to completion or
// its own timeout, so shutdown never leaves a recipient in an unknown
// delivery state.
func (n *Notifier) send(ctx context.Context, chatID int64, text string, scheduleAt *time.Time) error {
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sendTimeout)
	defer cancel()

	return n.transport.SendMessage(sendCtx, chatID, text, scheduleAt)
}

func (n *Notifier) handleRevoked(chatID int64) {
	slog.Warn("Bot blocked by subscriber, deactivating", "chat_id", chatID)
	metrics.SubscribersRevoked.Inc()

	if _, err := n.deactivate(chatID); err != nil {
		slog.Error("Failed to deactivate subscriber", "chat_id", chatID, "error", err)
	}
}

// pause waits the pacing delay unless the context ends first. In-flight
// sends are never aborted; only the gap between recipients is.
func (n *Notifier) pause(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-time.After(n.pacing):
	}
}
