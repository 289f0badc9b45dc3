package models

import (
	"time"
)

// Message is a direct message between two users. ParentID links a reply to
// the message it answers; a message with no parent is a thread root. Deleting
// a parent nulls the link on its replies instead of cascading (see
// messaging.Store cascade handling).
type Message struct {
	ID         uint      `gorm:"primaryKey;autoIncrement"`
	SenderID   uint      `gorm:"index;not null"`
	ReceiverID uint      `gorm:"index;not null"`
	Content    string    `gorm:"type:text;not null"`
	Read       bool      `gorm:"column:is_read;default:false;index"`
	Edited     bool      `gorm:"default:false"`
	ParentID   *uint     `gorm:"index"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`

	Replies []Message `gorm:"foreignKey:ParentID"`
}

func (m *Message) IsRoot() bool {
	return m.ParentID == nil
}
