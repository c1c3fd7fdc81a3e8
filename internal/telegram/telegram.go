// Package telegram delivers formatted item messages through the Bot API.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/platcorn/newsbot/internal/logger"
	"github.com/platcorn/newsbot/internal/retry"
)

// Notifier sends HTML-formatted messages to one chat. The zero value is not
// usable; use NewNotifier or NewNoopNotifier.
type Notifier struct {
	token      string
	chatID     string
	client     *http.Client
	baseURL    string
	retryDelay time.Duration
	noop       bool
}

// NewNotifier builds a live notifier.
func NewNotifier(token, chatID string, timeout time.Duration) *Notifier {
	return &Notifier{
		token:      token,
		chatID:     chatID,
		client:     &http.Client{Timeout: timeout},
		baseURL:    "https://api.telegram.org",
		retryDelay: 2 * time.Second,
	}
}

// NewNoopNotifier returns a notifier that logs instead of sending. Used when
// credentials are absent so the rest of the pipeline still runs.
func NewNoopNotifier() *Notifier {
	return &Notifier{noop: true}
}

// Send delivers text with up to three attempts and exponential backoff.
// parse_mode is HTML; the caller is responsible for escaping item-derived
// text (see ComposeMessage).
func (n *Notifier) Send(ctx context.Context, text string) error {
	if n.noop {
		logger.Warn("telegram credentials missing, dropping message", "chars", len(text))
		return nil
	}

	return retry.Do(ctx, retry.Config{MaxAttempts: 3, Delay: n.retryDelay, Backoff: true}, func() error {
		return n.sendOnce(ctx, text)
	})
}

func (n *Notifier) sendOnce(ctx context.Context, text string) error {
	url := fmt.Sprintf("%s/bot%s/sendMessage", n.baseURL, n.token)

	payload := map[string]interface{}{
		"chat_id":                  n.chatID,
		"text":                     text,
		"parse_mode":               "HTML",
		"disable_web_page_preview": false,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram API status %d", resp.StatusCode)
	}
	return nil
}
