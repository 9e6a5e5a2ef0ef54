package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"docgate/internal/domain"
)

// WebhookNotifier delivers access-request notifications to an admin mail
// webhook. Implements domain.AccessNotifier. Delivery is best-effort; the
// caller decides whether to run it in the background.
type WebhookNotifier struct {
	webhookURL string
	adminEmail string
	httpClient *http.Client
}

// NewWebhookNotifier creates a notifier posting to webhookURL.
func NewWebhookNotifier(webhookURL, adminEmail string, timeout time.Duration) *WebhookNotifier {
	return &WebhookNotifier{
		webhookURL: webhookURL,
		adminEmail: adminEmail,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// notifyPayload is the body the mail webhook expects.
type notifyPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Content string `json:"content"`
}

// NotifyAccessRequest posts the request details to the webhook.
func (n *WebhookNotifier) NotifyAccessRequest(ctx context.Context, req domain.AccessRequest) error {
	if n.webhookURL == "" {
		return fmt.Errorf("notification webhook not configured")
	}

	reason := req.Reason
	if reason == "" {
		reason = "Not provided"
	}

	payload := notifyPayload{
		To:      n.adminEmail,
		Subject: fmt.Sprintf("New access request from %s", req.FullName),
		Content: fmt.Sprintf(
			"Name: %s\nEmail: %s\nCompany: %s\nReason: %s\n\nTo approve this request, create an account for this user in the admin dashboard.",
			req.FullName, req.Email, req.Company, reason),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build notification request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("deliver notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("notification webhook returned status %d", resp.StatusCode)
	}
	return nil
}
