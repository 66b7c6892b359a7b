package model

import "time"

// Notification is a per-user alert created by any subsystem that wants to
// reach a user. Deleted individually or in bulk by the cleanup policy.
type Notification struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	UserID     int64     `gorm:"index;not null" json:"userId"`
	Type       string    `gorm:"size:50;not null" json:"type"`
	Title      string    `gorm:"size:200" json:"title"`
	Message    string    `gorm:"type:text;not null" json:"message"`
	IsRead     bool      `gorm:"not null;default:false" json:"isRead"`
	IsArchived bool      `gorm:"not null;default:false" json:"isArchived"`
	CreatedAt  time.Time `gorm:"not null;index" json:"createdAt"`
}
