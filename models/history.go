package models

import "time"

// MessageHistory is an append-only snapshot of a message's content taken
// just before a content-changing edit. One row per detected change.
type MessageHistory struct {
	ID         uint      `gorm:"primaryKey;autoIncrement"`
	MessageID  uint      `gorm:"index;not null"`
	OldContent string    `gorm:"type:text;not null"`
	EditedAt   time.Time `gorm:"autoCreateTime"`
}
