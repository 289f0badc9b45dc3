package models

import "time"

// Notification tells a user that a message addressed to them was created.
// Exactly one is written per message creation, owned by the receiver.
type Notification struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	UserID    uint      `gorm:"index;not null"`
	MessageID uint      `gorm:"index;not null"`
	IsRead    bool      `gorm:"column:is_read;default:false;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}
