package models

import "gorm.io/gorm"

// Ping is an append-only heartbeat receipt. Rows are never updated or
// deduplicated.
type Ping struct {
	gorm.Model

	MonitorID  uint   `gorm:"not null;index"`
	RemoteAddr string `gorm:"size:45"`
	UserAgent  string `gorm:"size:500"`

	// Relationships
	Monitor Monitor `gorm:"foreignKey:MonitorID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}
