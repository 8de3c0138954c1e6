package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

type WebhookSMSSender struct {
	url    string
	token  string
	sender string
	http   *http.Client
}

func NewWebhookSMSSender(url, token, sender string) *WebhookSMSSender {
	return &WebhookSMSSender{
		url:    strings.TrimSpace(url),
		token:  strings.TrimSpace(token),
		sender: sender,
		http: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

func (s *WebhookSMSSender) Channel() string {
	return "sms-webhook"
}

func (s *WebhookSMSSender) Send(ctx context.Context, msg Message) error {
	if msg.Phone == "" {
		return nil
	}

	raw, err := json.Marshal(map[string]string{
		"from": s.sender,
		"to":   msg.Phone,
		"body": msg.Body,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sms webhook returned %d", resp.StatusCode)
	}
	return nil
}

type NoopSender struct{}

func (NoopSender) Channel() string {
	return "noop"
}

func (NoopSender) Send(context.Context, Message) error {
	return nil
}
