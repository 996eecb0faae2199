package alerts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cronpulse-dev/cronpulse/internal/models"
	"github.com/cronpulse-dev/cronpulse/internal/types"
)

// WebhookSendTimeout bounds a single webhook delivery so a dead endpoint
// cannot stall the ping path or the sweep cycle.
const WebhookSendTimeout = 5 * time.Second

type WebhookPayload struct {
	MonitorName string `json:"monitor_name"`
	MonitorSlug string `json:"monitor_slug"`
	Status      string `json:"status"`
	Timestamp   string `json:"timestamp"`
	Details     string `json:"details"`
}

// WebhookNotifier POSTs a JSON alert payload to the monitor's configured URL.
type WebhookNotifier struct {
	client *http.Client
}

func NewWebhookNotifier() *WebhookNotifier {
	return &WebhookNotifier{
		client: &http.Client{Timeout: WebhookSendTimeout},
	}
}

func (n *WebhookNotifier) Name() string {
	return types.ChannelWebhook
}

func (n *WebhookNotifier) Notify(ctx context.Context, monitor *models.Monitor, user *models.User, alertType string) error {
	payload := WebhookPayload{
		MonitorName: monitor.Name,
		MonitorSlug: monitor.Slug,
		Status:      alertType,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		Details:     fmt.Sprintf("Monitor '%s' is now %s.", monitor.Name, strings.ToUpper(alertType)),
	}

	body, err := json.Marshal(payload)

	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, monitor.WebhookURL, bytes.NewBuffer(body))

	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)

	if err != nil {
		return fmt.Errorf("failed to send webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return nil
}
