package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/CodexForgeBR/mock-interviewer/internal/logging"
)

// Timeout bounds a single webhook delivery.
const Timeout = 10 * time.Second

// Client is used for webhook deliveries. Tests may replace it.
var Client = &http.Client{Timeout: Timeout}

// SendNotification posts p to webhook as JSON.
// Fire-and-forget: silent on failure apart from a debug line.
// No-op when webhook is empty.
func SendNotification(webhook string, p Payload) {
	if webhook == "" {
		return
	}
	if p.Message == "" {
		p.Message = FormatEvent(p)
	}
	body, err := json.Marshal(p)
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), Timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhook, bytes.NewReader(body))
	if err != nil {
		logging.Debug("notification: " + err.Error())
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := Client.Do(req)
	if err != nil {
		logging.Debug("notification: " + err.Error())
		return
	}
	resp.Body.Close()
	if resp.StatusCode >= 300 {
		logging.Debug("notification: webhook returned " + resp.Status)
	}
}
