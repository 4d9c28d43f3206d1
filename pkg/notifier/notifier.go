// Package notifier delivers processed-transaction notifications to the
// downstream subscriber service over HTTP.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Behyna/bank-webhooks/pkg/httpclient"
)

type Notifier interface {
	Notify(ctx context.Context, notification Notification) error
}

type Config struct {
	URL      string        `mapstructure:"url"`
	Token    string        `mapstructure:"token"`
	Timeout  time.Duration `mapstructure:"timeout"`
	MaxRetry int           `mapstructure:"max_retry"`
}

type Notification struct {
	EventID     string          `json:"eventId"`
	UserIDs     []string        `json:"userIds"`
	Transaction json.RawMessage `json:"transaction"`
}

type HTTPNotifier struct {
	cfg    Config
	client httpclient.HTTPClient
}

func NewHTTPNotifier(cfg Config, client httpclient.HTTPClient) Notifier {
	return &HTTPNotifier{cfg: cfg, client: client}
}

func (n *HTTPNotifier) Notify(ctx context.Context, notification Notification) error {
	if n.cfg.URL == "" {
		return ErrDisabled
	}

	body, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}

	headers := map[string]string{
		"Content-Type":    "application/json",
		"Idempotency-Key": notification.EventID,
	}
	if n.cfg.Token != "" {
		headers["Authorization"] = "Bearer " + n.cfg.Token
	}

	resp, err := n.client.Post(ctx, n.cfg.URL, bytes.NewReader(body), headers)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return ErrTimeout
		}

		return fmt.Errorf("%w: %v", ErrNetworkError, err)
	}

	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices:
		return nil
	case resp.StatusCode == http.StatusTooManyRequests, resp.StatusCode == http.StatusRequestTimeout:
		return fmt.Errorf("%w: status %d", ErrServerError, resp.StatusCode)
	case resp.StatusCode >= http.StatusBadRequest && resp.StatusCode < http.StatusInternalServerError:
		return fmt.Errorf("%w: status %d", ErrRejected, resp.StatusCode)
	default:
		return fmt.Errorf("%w: status %d", ErrServerError, resp.StatusCode)
	}
}
