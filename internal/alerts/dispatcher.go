package alerts

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/cronpulse-dev/cronpulse/internal/metrics"
	"github.com/cronpulse-dev/cronpulse/internal/models"
	"github.com/cronpulse-dev/cronpulse/internal/types"
	"gorm.io/gorm"
)

// Dispatcher fans an alert out to the configured channels and writes one
// audit record per attempted channel into the caller's transaction. Channel
// transport failures are logged and swallowed; only persistence failures
// propagate, so a sweep can roll back atomically.
type Dispatcher struct {
	email   Notifier
	webhook Notifier
}

func NewDispatcher(email Notifier, webhook Notifier) *Dispatcher {
	return &Dispatcher{email: email, webhook: webhook}
}

func (d *Dispatcher) Dispatch(ctx context.Context, tx *gorm.DB, monitor *models.Monitor, alertType string) error {
	var user models.User

	if err := tx.First(&user, monitor.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("No owner for monitor %d, skipping alerts", monitor.ID)
			return nil
		}
		return err
	}

	if d.email != nil && user.EmailAlertsEnabled {
		if err := d.email.Notify(ctx, monitor, &user, alertType); err != nil {
			log.Printf("Email alert for monitor %d failed: %v", monitor.ID, err)
		}

		detail := fmt.Sprintf("%s alert sent to %s", alertLabel(alertType), user.AlertRecipient())

		if err := d.record(tx, monitor, alertType, d.email.Name(), detail); err != nil {
			return err
		}
	}

	if d.webhook != nil && monitor.WebhookURL != "" {
		if err := d.webhook.Notify(ctx, monitor, &user, alertType); err != nil {
			log.Printf("Webhook alert for monitor %d to %s failed: %v", monitor.ID, monitor.WebhookURL, err)
		}

		detail := fmt.Sprintf("%s alert sent to %s", alertLabel(alertType), monitor.WebhookURL)

		if err := d.record(tx, monitor, alertType, d.webhook.Name(), detail); err != nil {
			return err
		}
	}

	return nil
}

func (d *Dispatcher) record(tx *gorm.DB, monitor *models.Monitor, alertType, channel, detail string) error {
	alert := models.Alert{
		MonitorID: monitor.ID,
		AlertType: alertType,
		Channel:   channel,
		Details:   detail,
	}

	if err := tx.Create(&alert).Error; err != nil {
		return err
	}

	metrics.AlertsSent.WithLabelValues(channel, alertType).Inc()
	return nil
}

func alertLabel(alertType string) string {
	if alertType == types.AlertTypeDown {
		return "Down"
	}
	return "Recovery"
}
