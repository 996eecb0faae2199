package models

import "gorm.io/gorm"

type User struct {
	gorm.Model

	Username           string `gorm:"uniqueIndex;not null"`
	Email              string `gorm:"uniqueIndex;not null"`
	PasswordHash       string `gorm:"not null"`
	IsActive           bool   `gorm:"default:true"`
	APIKey             string `gorm:"uniqueIndex;not null"`
	AlertEmail         string
	EmailAlertsEnabled bool `gorm:"default:true"`

	// Relationships
	Monitors []Monitor `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

// AlertRecipient returns the address alerts should be sent to, falling back
// to the account email when no dedicated alert address is set.
func (u *User) AlertRecipient() string {
	if u.AlertEmail != "" {
		return u.AlertEmail
	}
	return u.Email
}
