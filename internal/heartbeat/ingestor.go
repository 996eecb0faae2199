package heartbeat

import (
	"context"
	"errors"
	"time"

	"github.com/cronpulse-dev/cronpulse/internal/alerts"
	"github.com/cronpulse-dev/cronpulse/internal/models"
	"github.com/cronpulse-dev/cronpulse/internal/types"
	"gorm.io/gorm"
)

// Result is the outcome of one heartbeat submission.
type Result int

const (
	// ResultNotFound means the slug matched no monitor.
	ResultNotFound Result = iota
	// ResultPausedAck means the monitor is paused; the heartbeat was accepted
	// but recorded nothing.
	ResultPausedAck
	// ResultAccepted means the heartbeat was recorded and the monitor is up.
	ResultAccepted
)

// Ingestor handles inbound heartbeats. The slug is the only credential: a
// matching slug authorizes the ping, anything else is not found.
type Ingestor struct {
	db         *gorm.DB
	dispatcher *alerts.Dispatcher
}

func NewIngestor(gdb *gorm.DB, dispatcher *alerts.Dispatcher) *Ingestor {
	return &Ingestor{db: gdb, dispatcher: dispatcher}
}

// Receive processes one heartbeat. All mutations happen in a single
// transaction, so a concurrent sweep observes either the pre-ping or the
// fully updated state.
func (i *Ingestor) Receive(ctx context.Context, slug, remoteAddr, userAgent string) (Result, error) {
	result := ResultNotFound

	err := i.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var monitor models.Monitor

		if err := tx.Where("slug = ?", slug).First(&monitor).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				result = ResultNotFound
				return nil
			}
			return err
		}

		if monitor.Status == types.StatusPaused {
			result = ResultPausedAck
			return nil
		}

		now := time.Now().UTC()
		wasDown := monitor.Status == types.StatusDown

		monitor.Status = types.StatusUp
		monitor.LastPingAt = &now

		if err := tx.Model(&monitor).Updates(map[string]interface{}{
			"status":       types.StatusUp,
			"last_ping_at": now,
		}).Error; err != nil {
			return err
		}

		if len(userAgent) > 500 {
			userAgent = userAgent[:500]
		}

		ping := models.Ping{
			MonitorID:  monitor.ID,
			RemoteAddr: remoteAddr,
			UserAgent:  userAgent,
		}

		if err := tx.Create(&ping).Error; err != nil {
			return err
		}

		if wasDown {
			if err := i.dispatcher.Dispatch(ctx, tx, &monitor, types.AlertTypeUp); err != nil {
				return err
			}
		}

		result = ResultAccepted
		return nil
	})

	if err != nil {
		return ResultNotFound, err
	}

	return result, nil
}
