// Package notify delivers fire-and-forget user notifications for trip
// events. Dispatch failures are logged by callers, never propagated.
package notify

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Sink pushes a local notification to the user
type Sink interface {
	Show(ctx context.Context, id, title, body string) error
}

// Noop is the sink used when no notification channel is configured
type Noop struct{}

// Show discards the notification
func (Noop) Show(ctx context.Context, id, title, body string) error {
	return nil
}

// PushSink publishes notifications to an ntfy-style topic endpoint
type PushSink struct {
	topicURL   string
	httpClient *http.Client
}

// NewPushSink creates a push sink for the given topic URL
func NewPushSink(topicURL string) *PushSink {
	return &PushSink{
		topicURL:   topicURL,
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

// Show posts the notification body with the title and a stable tag so
// repeated sends for the same event id replace each other
func (s *PushSink) Show(ctx context.Context, id, title, body string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.topicURL, strings.NewReader(body))
	if err != nil {
		return fmt.Errorf("build notification request: %w", err)
	}
	req.Header.Set("Title", title)
	req.Header.Set("X-Tags", id)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("notification endpoint returned status %d", resp.StatusCode)
	}
	return nil
}
