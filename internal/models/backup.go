package models

import "time"

// Backup is an encrypted snapshot of one user's log and goal stored on disk.
type Backup struct {
	ID        string `gorm:"primaryKey;size:64"`
	UserID    uint   `gorm:"index;not null"`
	FileName  string `gorm:"size:255;not null"`
	FilePath  string `gorm:"size:1024;not null"`
	Size      int64
	Entries   int
	CreatedAt time.Time

	User User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
