package bot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrRevoked marks the delivery-failure class where the recipient has
// blocked the bot. Distinct from transient delivery errors: it triggers
// subscriber deactivation instead of a retry.
var ErrRevoked = errors.New("recipient revoked access")

// Transport is the messaging capability the bot and the notifier run on.
type Transport interface {
	SendMessage(ctx context.Context, chatID int64, text string, scheduleAt *time.Time) error
	GetUpdates(ctx context.Context, offset int64, timeoutSeconds int) ([]Update, error)
}

// Update is one entry from the getUpdates long poll.
type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message"`
}

type Message struct {
	Chat Chat   `json:"chat"`
	From *User  `json:"from"`
	Text string `json:"text"`
}

type Chat struct {
	ID int64 `json:"id"`
}

type User struct {
	Username string `json:"username"`
}

var _ Transport = (*Client)(nil)

// Client is a minimal Telegram Bot API client over plain HTTP.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(baseURL, token string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: httpClient,
	}
}

type apiResponse struct {
	OK          bool            `json:"ok"`
	ErrorCode   int             `json:"error_code"`
	Description string          `json:"description"`
	Result      json.RawMessage `json:"result"`
}

func (c *Client) call(ctx context.Context, method string, payload any, result any) error {
	url := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call %s: %w", method, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var apiResp apiResponse
	if err := json.Unmarshal(data, &apiResp); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if !apiResp.OK {
		if apiResp.ErrorCode == http.StatusForbidden {
			return fmt.Errorf("%s: %s: %w", method, apiResp.Description, ErrRevoked)
		}
		return fmt.Errorf("%s failed: %d %s", method, apiResp.ErrorCode, apiResp.Description)
	}

	if result != nil {
		if err := json.Unmarshal(apiResp.Result, result); err != nil {
			return fmt.Errorf("failed to decode %s result: %w", method, err)
		}
	}

	return nil
}

type sendMessageRequest struct {
	ChatID       int64  `json:"chat_id"`
	Text         string `json:"text"`
	ParseMode    string `json:"parse_mode,omitempty"`
	ScheduleDate int64  `json:"schedule_date,omitempty"`
}

// SendMessage delivers text to the chat, optionally as a delayed delivery at
// scheduleAt.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string, scheduleAt *time.Time) error {
	req := sendMessageRequest{
		ChatID:    chatID,
		Text:      text,
		ParseMode: "Markdown",
	}
	if scheduleAt != nil {
		req.ScheduleDate = scheduleAt.Unix()
	}

	return c.call(ctx, "sendMessage", req, nil)
}

type getUpdatesRequest struct {
	Offset  int64 `json:"offset,omitempty"`
	Timeout int   `json:"timeout,omitempty"`
}

// GetUpdates long-polls for incoming updates starting at offset.
func (c *Client) GetUpdates(ctx context.Context, offset int64, timeoutSeconds int) ([]Update, error) {
	var updates []Update

	err := c.call(ctx, "getUpdates", getUpdatesRequest{Offset: offset, Timeout: timeoutSeconds}, &updates)
	if err != nil {
		return nil, err
	}

	return updates, nil
}
