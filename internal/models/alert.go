package models

import "gorm.io/gorm"

// Alert is the dispatch audit trail. One row is written per channel per
// triggered transition, so a down event with email and webhook enabled
// produces two rows.
type Alert struct {
	gorm.Model

	MonitorID uint   `gorm:"not null;index"`
	AlertType string `gorm:"size:10;not null"` // "down" or "up" (recovery)
	Channel   string `gorm:"size:20;not null"` // "email" or "webhook"
	Details   string

	// Relationships
	Monitor Monitor `gorm:"foreignKey:MonitorID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}
