package alerts

import (
	"context"

	"github.com/cronpulse-dev/cronpulse/internal/models"
)

// Notifier delivers one alert over one channel. Implementations are best
// effort: a returned error is logged by the dispatcher and never blocks the
// status transition that triggered the alert.
type Notifier interface {
	// Name returns the channel name recorded in the alert audit trail.
	Name() string

	// Notify sends the alert for the given monitor to its owner.
	Notify(ctx context.Context, monitor *models.Monitor, user *models.User, alertType string) error
}
