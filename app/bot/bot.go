package bot

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/jkralik/kaktus-notify/app/config"
	"github.com/jkralik/kaktus-notify/app/database"
)

const (
	updatesTimeout    = 30 // seconds, long poll
	updatesRetryDelay = 5 * time.Second
)

// Bot handles incoming Telegram commands: /start subscribes a chat,
// /stop unsubscribes it.
type Bot struct {
	transport   Transport
	subscribers database.SubscriberRepository
	messages    config.MessageTemplates

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	offset int64
}

func NewBot(transport Transport, subscribers database.SubscriberRepository,
	messages config.MessageTemplates) *Bot {
	ctx, cancel := context.WithCancel(context.Background())

	return &Bot{
		transport:   transport,
		subscribers: subscribers,
		messages:    messages,
		ctx:         ctx,
		cancel:      cancel,
	}
}

func (b *Bot) Start() {
	b.wg.Add(1)
	go b.run()
}

func (b *Bot) Stop() {
	b.cancel()
	b.wg.Wait()
}

func (b *Bot) run() {
	defer b.wg.Done()

	slog.Info("Telegram command loop started")

	for {
		select {
		case <-b.ctx.Done():
			slog.Info("Telegram command loop stopped")
			return
		default:
		}

		updates, err := b.transport.GetUpdates(b.ctx, b.offset, updatesTimeout)
		if err != nil {
			if b.ctx.Err() != nil {
				continue
			}
			slog.Warn("Failed to get updates", "error", err)
			select {
			case <-b.ctx.Done():
			case <-time.After(updatesRetryDelay):
			}
			continue
		}

		for _, update := range updates {
			if update.UpdateID >= b.offset {
				b.offset = update.UpdateID + 1
			}
			b.handleUpdate(update)
		}
	}
}

func (b *Bot) handleUpdate(update Update) {
	if update.Message == nil {
		return
	}

	fields := strings.Fields(update.Message.Text)
	if len(fields) == 0 {
		return
	}

	// Commands arrive either bare or addressed, e.g. "/start@KaktusBot".
	command, _, _ := strings.Cut(fields[0], "@")

	switch command {
	case "/start":
		b.handleStart(update.Message)
	case "/stop":
		b.handleStop(update.Message)
	}
}

func (b *Bot) handleStart(msg *Message) {
	chatID := msg.Chat.ID

	var username string
	if msg.From != nil {
		username = msg.From.Username
	}

	added, err := b.subscribers.Subscribe(chatID, username)
	if err != nil {
		slog.Error("Failed to subscribe chat", "chat_id", chatID, "error", err)
		return
	}

	reply := b.messages.AlreadySubscribed
	if added {
		reply = b.messages.Welcome
	}

	if err := b.transport.SendMessage(b.ctx, chatID, reply, nil); err != nil {
		slog.Error("Error sending start reply", "chat_id", chatID, "error", err)
		return
	}

	slog.Info("Start command processed", "chat_id", chatID, "new_subscriber", added)
}

func (b *Bot) handleStop(msg *Message) {
	chatID := msg.Chat.ID

	_, err := b.subscribers.Deactivate(chatID)

	reply := b.messages.Goodbye
	if err != nil {
		slog.Error("Failed to unsubscribe chat", "chat_id", chatID, "error", err)
		reply = b.messages.GoodbyeFailed
	}

	if err := b.transport.SendMessage(b.ctx, chatID, reply, nil); err != nil {
		slog.Error("Error sending stop reply", "chat_id", chatID, "error", err)
		return
	}

	slog.Info("Stop command processed", "chat_id", chatID)
}
