package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Bot is the Telegram Bot API client.
type Bot struct {
	token      string
	apiURL     string
	httpClient *http.Client
}

// NewBot creates a new Telegram Bot client with the given token.
func NewBot(token string) *Bot {
	return &Bot{
		token:      token,
		apiURL:     BotURL(DefaultAPIURL, token),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// BotURL joins a Bot API base URL and a token.
func BotURL(base, token string) string {
	return fmt.Sprintf("%s/bot%s", strings.TrimRight(base, "/"), token)
}

// SetAPIURL overrides the full bot endpoint (base URL plus /bot<token>), e.g. for tests.
func (b *Bot) SetAPIURL(url string) {
	b.apiURL = url
}

// SetTimeout bounds every API call. Non-positive values are ignored.
func (b *Bot) SetTimeout(timeout time.Duration) {
	if timeout > 0 {
		b.httpClient.Timeout = timeout
	}
}

// SendMessage sends a plain text message to a Telegram chat.
func (b *Bot) SendMessage(ctx context.Context, chatID string, text string) error {
	return b.SendMessageWithMode(ctx, chatID, text, "")
}

// SendMessageWithMode sends a message with optional parse mode (e.g. "Markdown").
func (b *Bot) SendMessageWithMode(ctx context.Context, chatID string, text string, parseMode string) error {
	url := fmt.Sprintf("%s/sendMessage", b.apiURL)
	payload := SendMessageRequest{
		ChatID:    chatID,
		Text:      text,
		ParseMode: parseMode,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)

	var apiResp APIResponse
	decodeErr := json.Unmarshal(raw, &apiResp)

	if resp.StatusCode != http.StatusOK {
		if decodeErr == nil && apiResp.Description != "" {
			return fmt.Errorf("telegram sendMessage API error %d: %s", resp.StatusCode, apiResp.Description)
		}
		return fmt.Errorf("telegram sendMessage API error %d: %s", resp.StatusCode, string(raw))
	}
	if decodeErr != nil {
		return fmt.Errorf("failed to decode sendMessage response: %w", decodeErr)
	}
	if !apiResp.OK {
		return fmt.Errorf("telegram sendMessage failed: %s", apiResp.Description)
	}

	return nil
}
