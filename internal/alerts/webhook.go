package alerts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/cenkalti/backoff"
)

// deliver sends webhook notifications for a to all configured targets.
// Errors are logged but do not affect the caller. Runs in its own
// goroutine per alert event.
func (e *Engine) deliver(a *Alert) {
	e.mu.Lock()
	webhooks := e.webhooks
	e.mu.Unlock()

	for _, wh := range webhooks {
		url := wh.URL()
		if url == "" {
			continue
		}

		if err := e.send(url, a); err != nil {
			slog.Error("alerts: webhook delivery failed",
				"rule", a.RuleName,
				"dataset", a.Dataset,
				"err", err,
			)
		} else {
			slog.Debug("alerts: webhook delivered",
				"rule", a.RuleName,
				"state", a.State,
			)
		}
	}
}

// send posts the alert as JSON, retrying transient failures with
// exponential backoff until the target accepts it or the backoff gives up.
func (e *Engine) send(url string, a *Alert) error {
	body, err := json.Marshal(map[string]any{"alert": a})
	if err != nil {
		return fmt.Errorf("encode alert: %w", err)
	}

	post := func() error {
		return e.post(url, body)
	}
	return backoff.Retry(post, backoff.NewExponentialBackOff())
}

func (e *Engine) post(url string, body []byte) error {
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return backoff.Permanent(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("http post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return fmt.Errorf("webhook returned HTTP %d", resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		// Client errors will not improve on retry.
		return backoff.Permanent(fmt.Errorf("webhook returned HTTP %d", resp.StatusCode))
	}
	return nil
}
