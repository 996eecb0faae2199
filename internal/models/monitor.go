package models

import (
	"time"

	"gorm.io/gorm"
)

type Monitor struct {
	gorm.Model

	UserID     uint   `gorm:"not null;index"`
	Name       string `gorm:"not null"`
	Slug       string `gorm:"uniqueIndex;not null"` // Public ping token, the only credential for heartbeats
	Period     int    `gorm:"not null"`             // Expected heartbeat cadence in seconds
	Grace      int    `gorm:"not null"`             // Allowed overrun in seconds
	Status     string `gorm:"not null;default:new"` // "new", "up", "down", "paused"
	LastPingAt *time.Time
	WebhookURL string

	// Relationships
	User   User    `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Pings  []Ping  `gorm:"foreignKey:MonitorID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Alerts []Alert `gorm:"foreignKey:MonitorID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

// Deadline returns the instant after which the monitor is overdue. The zero
// time is returned when the monitor has never been pinged.
func (m *Monitor) Deadline() time.Time {
	if m.LastPingAt == nil {
		return time.Time{}
	}
	return m.LastPingAt.UTC().Add(time.Duration(m.Period+m.Grace) * time.Second)
}

// Overdue reports whether the monitor has missed its window as of now.
// Landing exactly on the deadline is not overdue.
func (m *Monitor) Overdue(now time.Time) bool {
	if m.LastPingAt == nil {
		return false
	}
	return now.UTC().After(m.Deadline())
}
