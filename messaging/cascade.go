package messaging

import (
	"fmt"

	"gorm.io/gorm"

	"threadline/models"
)

// DeleteUser removes a user and everything hanging off them: every message
// they sent or received, the history and notifications of those messages,
// and any notification owned by the user about someone else's message.
// Replies to deleted messages that survive (neither sent nor received by the
// user) keep living with their parent link nulled.
//
// The whole cascade runs in one transaction and is the only cascade
// mechanism in this codebase; no ON DELETE constraints are declared, so the
// store cannot race or double-delete against this handler.
func (s *Store) DeleteUser(userID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var msgIDs []uint
		err := tx.Model(&models.Message{}).
			Where("sender_id = ? OR receiver_id = ?", userID, userID).
			Pluck("id", &msgIDs).Error
		if err != nil {
			return fmt.Errorf("collect user messages: %w", err)
		}

		if len(msgIDs) > 0 {
			if err := tx.Where("message_id IN ?", msgIDs).Delete(&models.MessageHistory{}).Error; err != nil {
				return fmt.Errorf("delete message history: %w", err)
			}
			if err := tx.Where("message_id IN ?", msgIDs).Delete(&models.Notification{}).Error; err != nil {
				return fmt.Errorf("delete message notifications: %w", err)
			}
			if err := tx.Model(&models.Message{}).Where("parent_id IN ?", msgIDs).Update("parent_id", nil).Error; err != nil {
				return fmt.Errorf("detach surviving replies: %w", err)
			}
			if err := tx.Where("id IN ?", msgIDs).Delete(&models.Message{}).Error; err != nil {
				return fmt.Errorf("delete messages: %w", err)
			}
		}

		// Notifications the user received about messages not covered above.
		if err := tx.Where("user_id = ?", userID).Delete(&models.Notification{}).Error; err != nil {
			return fmt.Errorf("delete owned notifications: %w", err)
		}

		res := tx.Delete(&models.User{}, userID)
		if res.Error != nil {
			return fmt.Errorf("delete user %d: %w", userID, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("user %d: %w", userID, ErrNotFound)
		}
		return nil
	})
}
