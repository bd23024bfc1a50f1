package bot

import (
	"strings"
	"testing"

	"github.com/jkralik/kaktus-notify/app/config"
	"github.com/jkralik/kaktus-notify/app/database"
)

// fakeSubscriberRepo is an in-memory SubscriberRepository for bot tests.
type fakeSubscriberRepo struct {
	active   map[int64]bool
	username map[int64]string
}

func newFakeSubscriberRepo() *fakeSubscriberRepo {
	return &fakeSubscriberRepo{
		active:   make(map[int64]bool),
		username: make(map[int64]string),
	}
}

func (f *fakeSubscriberRepo) Subscribe(chatID int64, username string) (bool, error) {
	if f.active[chatID] {
		return false, nil
	}
	f.active[chatID] = true
	f.username[chatID] = username
	return true, nil
}

func (f *fakeSubscriberRepo) Deactivate(chatID int64) (bool, error) {
	if !f.active[chatID] {
		return false, nil
	}
	f.active[chatID] = false
	return true, nil
}

func (f *fakeSubscriberRepo) GetActiveChatIDs() ([]int64, error) {
	var chatIDs []int64
	for chatID, active := range f.active {
		if active {
			chatIDs = append(chatIDs, chatID)
		}
	}
	return chatIDs, nil
}

func (f *fakeSubscriberRepo) GetSubscribers(limit int) ([]database.Subscriber, error) {
	return nil, nil
}

func (f *fakeSubscriberRepo) GetSubscriberStats() (int, int, error) {
	return len(f.active), 0, nil
}

func newTestBot() (*Bot, *fakeTransport, *fakeSubscriberRepo) {
	transport := newFakeTransport()
	repo := newFakeSubscriberRepo()
	return NewBot(transport, repo, config.Default().Messages), transport, repo
}

func startUpdate(chatID int64, username, text string) Update {
	return Update{
		UpdateID: 1,
		Message: &Message{
			Chat: Chat{ID: chatID},
			From: &User{Username: username},
			Text: text,
		},
	}
}

func TestHandleStartSubscribes(t *testing.T) {
	b, transport, repo := newTestBot()

	b.handleUpdate(startUpdate(42, "pepa", "/start"))

	if !repo.active[42] {
		t.Error("Expected chat 42 to be subscribed")
	}
	if repo.username[42] != "pepa" {
		t.Errorf("Expected username 'pepa', got: %s", repo.username[42])
	}

	if len(transport.sent) != 1 {
		t.Fatalf("Expected 1 reply, got: %d", len(transport.sent))
	}
	if !strings.Contains(transport.sent[0].text, "Vítejte") {
		t.Errorf("Expected welcome reply, got: %s", transport.sent[0].text)
	}
}

func TestHandleStartAlreadySubscribed(t *testing.T) {
	b, transport, repo := newTestBot()
	repo.active[42] = true

	b.handleUpdate(startUpdate(42, "pepa", "/start"))

	if len(transport.sent) != 1 {
		t.Fatalf("Expected 1 reply, got: %d", len(transport.sent))
	}
	if !strings.Contains(transport.sent[0].text, "již přihlášeni") {
		t.Errorf("Expected already-subscribed reply, got: %s", transport.sent[0].text)
	}
}

func TestHandleStopUnsubscribes(t *testing.T) {
	b, transport, repo := newTestBot()
	repo.active[42] = true

	b.handleUpdate(startUpdate(42, "pepa", "/stop"))

	if repo.active[42] {
		t.Error("Expected chat 42 to be unsubscribed")
	}

	if len(transport.sent) != 1 {
		t.Fatalf("Expected 1 reply, got: %d", len(transport.sent))
	}
	if !strings.Contains(transport.sent[0].text, "ukončen") {
		t.Errorf("Expected goodbye reply, got: %s", transport.sent[0].text)
	}
}

func TestHandleUpdateIgnoresNonCommands(t *testing.T) {
	b, transport, repo := newTestBot()

	b.handleUpdate(startUpdate(42, "pepa", "hello there"))
	b.handleUpdate(Update{UpdateID: 2})
	b.handleUpdate(startUpdate(42, "pepa", ""))

	if len(transport.sent) != 0 {
		t.Errorf("Expected no replies, got: %d", len(transport.sent))
	}
	if repo.active[42] {
		t.Error("Expected no subscription from plain text")
	}
}

func TestHandleUpdateAddressedCommand(t *testing.T) {
	b, _, repo := newTestBot()

	b.handleUpdate(startUpdate(42, "pepa", "/start@KaktusNotifyBot"))

	if !repo.active[42] {
		t.Error("Expected addressed /start command to subscribe")
	}
}
