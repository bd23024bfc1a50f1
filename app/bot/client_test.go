package bot

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSendMessage(t *testing.T) {
	var got sendMessageRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bottest-token/sendMessage" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		w.Write([]byte(`{"ok":true,"result":{}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-token", server.Client())

	err := client.SendMessage(context.Background(), 42, "ahoj", nil)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if got.ChatID != 42 {
		t.Errorf("Expected chat_id 42, got: %d", got.ChatID)
	}
	if got.Text != "ahoj" {
		t.Errorf("Expected text 'ahoj', got: %s", got.Text)
	}
	if got.ParseMode != "Markdown" {
		t.Errorf("Expected Markdown parse mode, got: %s", got.ParseMode)
	}
	if got.ScheduleDate != 0 {
		t.Errorf("Expected no schedule date, got: %d", got.ScheduleDate)
	}
}

func TestSendMessageScheduled(t *testing.T) {
	var got sendMessageRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"ok":true,"result":{}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-token", server.Client())

	scheduleAt := time.Date(2025, 9, 9, 15, 0, 0, 0, time.UTC)
	if err := client.SendMessage(context.Background(), 42, "pozdeji", &scheduleAt); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if got.ScheduleDate != scheduleAt.Unix() {
		t.Errorf("Expected schedule date %d, got: %d", scheduleAt.Unix(), got.ScheduleDate)
	}
}

func TestSendMessageRevoked(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":false,"error_code":403,"description":"Forbidden: bot was blocked by the user"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-token", server.Client())

	err := client.SendMessage(context.Background(), 42, "ahoj", nil)
	if err == nil {
		t.Fatal("Expected an error")
	}
	if !errors.Is(err, ErrRevoked) {
		t.Errorf("Expected ErrRevoked classification, got: %v", err)
	}
}

func TestSendMessageOtherError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":false,"error_code":429,"description":"Too Many Requests"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-token", server.Client())

	err := client.SendMessage(context.Background(), 42, "ahoj", nil)
	if err == nil {
		t.Fatal("Expected an error")
	}
	if errors.Is(err, ErrRevoked) {
		t.Error("A rate limit must not be classified as revoked access")
	}
}

func TestGetUpdates(t *testing.T) {
	var got getUpdatesRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bottest-token/getUpdates" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"ok":true,"result":[
			{"update_id":10,"message":{"chat":{"id":42},"from":{"username":"pepa"},"text":"/start"}},
			{"update_id":11,"message":{"chat":{"id":43},"text":"/stop"}}
		]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-token", server.Client())

	updates, err := client.GetUpdates(context.Background(), 10, 30)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if got.Offset != 10 || got.Timeout != 30 {
		t.Errorf("Unexpected request: %+v", got)
	}

	if len(updates) != 2 {
		t.Fatalf("Expected 2 updates, got: %d", len(updates))
	}
	if updates[0].UpdateID != 10 || updates[0].Message.Chat.ID != 42 {
		t.Errorf("Unexpected first update: %+v", updates[0])
	}
	if updates[0].Message.From.Username != "pepa" {
		t.Errorf("Expected username 'pepa', got: %s", updates[0].Message.From.Username)
	}
	if updates[1].Message.From != nil {
		t.Error("Expected nil From for second update")
	}
}
