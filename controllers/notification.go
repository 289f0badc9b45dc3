package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"threadline/messaging"
	"threadline/middleware"
)

// ListNotifications returns the user's notifications, newest first.
func ListNotifications(store *messaging.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := middleware.CurrentUserID(c)

		notifs, err := store.NotificationsFor(uid)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"msg": "db error"})
			return
		}

		out := make([]gin.H, 0, len(notifs))
		for _, n := range notifs {
			out = append(out, gin.H{
				"id":         n.ID,
				"message_id": n.MessageID,
				"is_read":    n.IsRead,
				"created_at": n.CreatedAt,
			})
		}
		c.JSON(http.StatusOK, gin.H{"notifications": out})
	}
}

// MarkNotificationRead flags one of the user's notifications as read.
func MarkNotificationRead(store *messaging.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := middleware.CurrentUserID(c)
		id, ok := paramID(c, "notification_id")
		if !ok {
			return
		}

		if err := store.MarkNotificationRead(id, uid); err != nil {
			if errors.Is(err, messaging.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"msg": "notification not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"msg": "db error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"msg": "notification marked read"})
	}
}
