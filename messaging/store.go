package messaging

import (
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"threadline/models"
	"threadline/pkg/cache"
)

const defaultThreadTTL = 60 * time.Second

// Store is the persistence gateway for the messaging core. All lifecycle
// behavior (edit history, notification fan-out, cascades) hangs off its
// methods at fixed transaction points; there is no hidden signal registry.
type Store struct {
	db        *gorm.DB
	threads   *cache.Cache
	threadTTL time.Duration
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:        db,
		threads:   cache.New(500),
		threadTTL: defaultThreadTTL,
	}
}

// DB exposes the underlying connection for callers that need plain queries
// (profile lookups, auth) outside the message lifecycle.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// SetThreadCacheTTL overrides the materialized-thread cache window.
// Safe to call at startup, before requests are served.
func (s *Store) SetThreadCacheTTL(d time.Duration) {
	if d > 0 {
		s.threadTTL = d
	}
}

// SetThreadCacheMaxItems bounds the thread cache size.
func (s *Store) SetThreadCacheMaxItems(n int) {
	s.threads.SetMaxItems(n)
}

// SaveMessage persists msg. A zero ID means creation: the message is
// inserted and one notification is dispatched to the receiver. A non-zero
// ID means update: the stored content is compared inside the update
// transaction and a history snapshot is appended when it changed.
func (s *Store) SaveMessage(msg *models.Message) error {
	if msg.ID == 0 {
		return s.createMessage(msg)
	}
	return s.updateMessage(msg)
}

func (s *Store) createMessage(msg *models.Message) error {
	if msg.ParentID != nil {
		var n int64
		if err := s.db.Model(&models.Message{}).Where("id = ?", *msg.ParentID).Count(&n).Error; err != nil {
			return fmt.Errorf("check parent message: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("parent message %d: %w", *msg.ParentID, ErrNotFound)
		}
	}
	if err := s.db.Create(msg).Error; err != nil {
		return fmt.Errorf("create message: %w", err)
	}

	// Notification fan-out is best-effort auxiliary data: a failure here
	// must not undo the committed message, so it is logged and swallowed.
	notif := models.Notification{UserID: msg.ReceiverID, MessageID: msg.ID}
	if err := s.db.Create(&notif).Error; err != nil {
		log.Printf("[messaging] notification for message %d not created: %v", msg.ID, err)
	}
	return nil
}

func (s *Store) updateMessage(msg *models.Message) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var stored models.Message
		err := tx.First(&stored, msg.ID).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			// Lost a race with a concurrent delete. Tolerated: no
			// comparison, no history, the save proceeds as-is.
		case err != nil:
			return fmt.Errorf("load stored message %d: %w", msg.ID, err)
		case stored.Content != msg.Content:
			msg.Edited = true
			hist := models.MessageHistory{MessageID: msg.ID, OldContent: stored.Content}
			if err := tx.Create(&hist).Error; err != nil {
				return fmt.Errorf("append message history: %w", err)
			}
		}
		if err := tx.Save(msg).Error; err != nil {
			return fmt.Errorf("save message %d: %w", msg.ID, err)
		}
		return nil
	})
}

// GetMessage loads one message by ID.
func (s *Store) GetMessage(id uint) (*models.Message, error) {
	var msg models.Message
	if err := s.db.First(&msg, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("message %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get message %d: %w", id, err)
	}
	return &msg, nil
}

// DeleteMessage removes one message together with its dependent history and
// notifications, and nulls the parent link of its replies. Atomic.
func (s *Store) DeleteMessage(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("message_id = ?", id).Delete(&models.MessageHistory{}).Error; err != nil {
			return fmt.Errorf("delete message history: %w", err)
		}
		if err := tx.Where("message_id = ?", id).Delete(&models.Notification{}).Error; err != nil {
			return fmt.Errorf("delete notifications: %w", err)
		}
		if err := tx.Model(&models.Message{}).Where("parent_id = ?", id).Update("parent_id", nil).Error; err != nil {
			return fmt.Errorf("detach replies: %w", err)
		}
		res := tx.Delete(&models.Message{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete message %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("message %d: %w", id, ErrNotFound)
		}
		return nil
	})
}

// GetUser loads one user by ID.
func (s *Store) GetUser(id uint) (*models.User, error) {
	var u models.User
	if err := s.db.First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return &u, nil
}

// HistoryFor returns the edit history of a message, newest edit first.
func (s *Store) HistoryFor(messageID uint) ([]models.MessageHistory, error) {
	var hist []models.MessageHistory
	err := s.db.Where("message_id = ?", messageID).Order("edited_at DESC, id DESC").Find(&hist).Error
	if err != nil {
		return nil, fmt.Errorf("history for message %d: %w", messageID, err)
	}
	return hist, nil
}

// NotificationsFor returns a user's notifications, newest first.
func (s *Store) NotificationsFor(userID uint) ([]models.Notification, error) {
	var notifs []models.Notification
	err := s.db.Where("user_id = ?", userID).Order("id DESC").Find(&notifs).Error
	if err != nil {
		return nil, fmt.Errorf("notifications for user %d: %w", userID, err)
	}
	return notifs, nil
}

// NotificationsSince returns a user's notifications with ID greater than
// afterID, oldest first. Used by the websocket push loop.
func (s *Store) NotificationsSince(userID, afterID uint) ([]models.Notification, error) {
	var notifs []models.Notification
	err := s.db.Where("user_id = ? AND id > ?", userID, afterID).Order("id ASC").Find(&notifs).Error
	if err != nil {
		return nil, fmt.Errorf("notifications since %d: %w", afterID, err)
	}
	return notifs, nil
}

// MarkNotificationRead flags one of the user's notifications as read.
func (s *Store) MarkNotificationRead(id, userID uint) error {
	res := s.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if res.Error != nil {
		return fmt.Errorf("mark notification %d read: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("notification %d: %w", id, ErrNotFound)
	}
	return nil
}
