package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/use-agent/ballotmap/models"
)

// EventMapRefresh tells the map front-end that new artifacts are on disk.
const EventMapRefresh = "map.refresh"

// Event is the payload sent to webhook endpoints.
type Event struct {
	Type      string      `json:"type"`
	RunID     string      `json:"run_id"`
	Timestamp int64       `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// RefreshData describes the artifacts of a finished run.
type RefreshData struct {
	AggregatePath string   `json:"aggregate_path"`
	MatchedPath   string   `json:"matched_path"`
	Counties      []string `json:"counties"`
	Matched       int      `json:"matched"`
	Unmatched     int      `json:"unmatched"`
}

// NewRefreshEvent stamps a map.refresh event with a fresh run ID.
func NewRefreshEvent(data RefreshData) *Event {
	return &Event{
		Type:      EventMapRefresh,
		RunID:     uuid.NewString(),
		Timestamp: time.Now().Unix(),
		Data:      data,
	}
}

// retryDelays are the waits before each redelivery.
var retryDelays = []time.Duration{1 * time.Second, 5 * time.Second, 30 * time.Second}

// Deliver sends a webhook event synchronously.
// The request body is signed with HMAC-SHA256 if secret is non-empty.
// Header: X-Ballotmap-Signature: sha256=<hex>
func Deliver(ctx context.Context, url, secret string, event *Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("webhook: marshal event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("webhook: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Ballotmap-Webhook/1.0")

	if secret != "" {
		req.Header.Set("X-Ballotmap-Signature", "sha256="+Sign(secret, body))
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook: deliver: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook: endpoint returned status %d", resp.StatusCode)
	}
	return nil
}

// Sign returns the hex HMAC-SHA256 of body under secret.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// DeliverWithRetry sends the event, redelivering up to retries times.
// It blocks so a CLI run does not exit before the notification lands.
func DeliverWithRetry(ctx context.Context, url, secret string, event *Event, retries int) error {
	return deliverWithDelays(ctx, url, secret, event, delaysFor(retries))
}

func delaysFor(retries int) []time.Duration {
	delays := []time.Duration{0}
	for i := 0; i < retries; i++ {
		if i < len(retryDelays) {
			delays = append(delays, retryDelays[i])
		} else {
			delays = append(delays, retryDelays[len(retryDelays)-1])
		}
	}
	return delays
}

func deliverWithDelays(ctx context.Context, url, secret string, event *Event, delays []time.Duration) error {
	var lastErr error
	for attempt, delay := range delays {
		if delay > 0 {
			select {
			case <-ctx.Done():
				return models.NewPipelineError(models.ErrCodeNotify, "webhook delivery canceled", ctx.Err())
			case <-time.After(delay):
			}
		}
		attemptCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		err := Deliver(attemptCtx, url, secret, event)
		cancel()
		if err == nil {
			slog.Info("webhook delivered",
				"url", url,
				"event", event.Type,
				"run_id", event.RunID,
				"attempt", attempt+1,
			)
			return nil
		}
		lastErr = err
		slog.Warn("webhook delivery failed",
			"url", url,
			"event", event.Type,
			"run_id", event.RunID,
			"attempt", attempt+1,
			"error", err,
		)
	}
	slog.Error("webhook delivery exhausted all retries",
		"url", url,
		"event", event.Type,
		"run_id", event.RunID,
	)
	return models.NewPipelineError(models.ErrCodeNotify, "webhook delivery exhausted all retries", lastErr)
}
