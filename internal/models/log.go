package models

import "time"

// AuditLog records state-changing requests made by a signed-in user.
type AuditLog struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"index;not null"`
	Method    string    `gorm:"size:16"`
	Path      string    `gorm:"size:255"`
	Action    string    `gorm:"size:255"`
	Status    int       `gorm:"not null;default:0"`
	IP        string    `gorm:"size:64"`
	UserAgent string    `gorm:"size:255"`
	CreatedAt time.Time `gorm:"index"`

	User User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
