package messaging

import (
	"fmt"
	"time"

	"threadline/models"
)

// UnreadMessage is the minimal projection served to inbox badges: just
// enough columns to render a preview, nothing else loaded.
type UnreadMessage struct {
	ID        uint      `json:"id"`
	SenderID  uint      `json:"sender_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"timestamp"`
}

// UnreadFor returns every unread message addressed to the user at call
// time. Never cached: badge counts must not go stale.
func (s *Store) UnreadFor(userID uint) ([]UnreadMessage, error) {
	var out []UnreadMessage
	err := s.db.Model(&models.Message{}).
		Select("id", "sender_id", "content", "created_at").
		Where("receiver_id = ? AND is_read = ?", userID, false).
		Order("created_at ASC, id ASC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("unread for user %d: %w", userID, err)
	}
	return out, nil
}
