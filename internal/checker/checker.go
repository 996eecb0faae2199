package checker

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"github.com/cronpulse-dev/cronpulse/internal/alerts"
	"github.com/cronpulse-dev/cronpulse/internal/metrics"
	"github.com/cronpulse-dev/cronpulse/internal/models"
	"github.com/cronpulse-dev/cronpulse/internal/types"
	"gorm.io/gorm"
)

// DefaultInterval is how often the overdue sweep runs when CHECK_INTERVAL is
// not configured.
const DefaultInterval = 60 * time.Second

// Checker periodically scans for monitors that missed their window and marks
// them down. Only monitors currently up with a recorded ping are considered,
// which keeps already-down monitors from alerting twice and never-started
// monitors from alerting at all.
type Checker struct {
	db         *gorm.DB
	dispatcher *alerts.Dispatcher
	interval   time.Duration
	sweeping   atomic.Bool
}

func NewChecker(gdb *gorm.DB, dispatcher *alerts.Dispatcher, interval time.Duration) *Checker {
	if interval <= 0 {
		interval = DefaultInterval
	}

	return &Checker{
		db:         gdb,
		dispatcher: dispatcher,
		interval:   interval,
	}
}

// Start runs sweeps on a fixed interval until the context is canceled.
func (c *Checker) Start(ctx context.Context) {
	log.Printf("Checker started (interval %v)", c.interval)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Checker stopped")
			return
		case <-ticker.C:
			if _, err := c.Sweep(ctx); err != nil {
				log.Printf("Sweep failed: %v", err)
			}
		}
	}
}

// Sweep marks every overdue monitor down and dispatches its alerts, all in
// one transaction. It returns the number of monitors newly marked down.
// Sweeps never overlap: a call while one is in flight returns immediately.
func (c *Checker) Sweep(ctx context.Context) (int, error) {
	if !c.sweeping.CompareAndSwap(false, true) {
		return 0, nil
	}
	defer c.sweeping.Store(false)

	metrics.Sweeps.Inc()

	// One snapshot for the whole batch.
	now := time.Now().UTC()
	downCount := 0

	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var monitorsList []models.Monitor

		if err := tx.Where("status = ? AND last_ping_at IS NOT NULL", types.StatusUp).Find(&monitorsList).Error; err != nil {
			return err
		}

		for idx := range monitorsList {
			monitor := &monitorsList[idx]

			if !monitor.Overdue(now) {
				continue
			}

			marked, err := c.markDown(ctx, tx, monitor)

			if err != nil {
				return err
			}

			if marked {
				downCount++
			}
		}

		return nil
	})

	if err != nil {
		return 0, err
	}

	metrics.MonitorsMarkedDown.Add(float64(downCount))
	log.Printf("Sweep complete: %d monitor(s) marked down", downCount)

	return downCount, nil
}

// markDown transitions one monitor to down, guarded by the snapshot it was
// selected under: the update only applies while the row still carries the
// status and last ping the sweep read. It reports false when a concurrent
// ping refreshed the monitor in the meantime, in which case nothing is
// written and no alert fires.
func (c *Checker) markDown(ctx context.Context, tx *gorm.DB, monitor *models.Monitor) (bool, error) {
	res := tx.Model(&models.Monitor{}).
		Where("id = ? AND status = ? AND last_ping_at = ?", monitor.ID, types.StatusUp, monitor.LastPingAt).
		Update("status", types.StatusDown)

	if res.Error != nil {
		return false, res.Error
	}

	if res.RowsAffected == 0 {
		log.Printf("Monitor %d (%s) was refreshed mid-sweep, leaving it alone", monitor.ID, monitor.Name)
		return false, nil
	}

	log.Printf("Monitor %d (%s) is overdue, marking down", monitor.ID, monitor.Name)
	monitor.Status = types.StatusDown

	if err := c.dispatcher.Dispatch(ctx, tx, monitor, types.AlertTypeDown); err != nil {
		return false, err
	}

	return true, nil
}
