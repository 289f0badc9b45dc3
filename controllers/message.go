package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"threadline/messaging"
	"threadline/middleware"
	"threadline/models"
)

func messageJSON(m *models.Message) gin.H {
	return gin.H{
		"id":          m.ID,
		"sender_id":   m.SenderID,
		"receiver_id": m.ReceiverID,
		"content":     m.Content,
		"read":        m.Read,
		"edited":      m.Edited,
		"parent_id":   m.ParentID,
		"timestamp":   m.CreatedAt,
	}
}

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}

// SendMessage creates a message to a receiver, optionally as a reply. The
// messaging core dispatches the receiver's notification as part of the save.
func SendMessage(store *messaging.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := middleware.CurrentUserID(c)

		var body struct {
			ReceiverID uint   `json:"receiver_id"`
			Content    string `json:"content"`
			ParentID   *uint  `json:"parent_id"`
		}
		if err := c.ShouldBindJSON(&body); err != nil || strings.TrimSpace(body.Content) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "receiver_id and content are required"})
			return
		}
		if body.ReceiverID == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "receiver_id and content are required"})
			return
		}

		if _, err := store.GetUser(body.ReceiverID); err != nil {
			if errors.Is(err, messaging.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"msg": "receiver not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"msg": "db error"})
			return
		}

		if !middleware.DuplicateGuard(strconv.FormatUint(uint64(uid), 10), body.Content) {
			c.JSON(http.StatusTooManyRequests, gin.H{"msg": "duplicate message"})
			return
		}

		msg := models.Message{
			SenderID:   uid,
			ReceiverID: body.ReceiverID,
			Content:    body.Content,
			ParentID:   body.ParentID,
		}
		if err := store.SaveMessage(&msg); err != nil {
			if errors.Is(err, messaging.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"msg": "parent message not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"msg": "failed to save message"})
			return
		}

		c.JSON(http.StatusCreated, messageJSON(&msg))
	}
}

// EditMessage replaces a message's content. Only the sender may edit; the
// core appends the pre-edit snapshot to the history when content changed.
func EditMessage(store *messaging.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := middleware.CurrentUserID(c)
		id, ok := paramID(c, "message_id")
		if !ok {
			return
		}

		var body struct {
			Content string `json:"content"`
		}
		if err := c.ShouldBindJSON(&body); err != nil || strings.TrimSpace(body.Content) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "content is required"})
			return
		}

		msg, err := store.GetMessage(id)
		if err != nil {
			if errors.Is(err, messaging.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"msg": "message not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"msg": "db error"})
			return
		}
		if msg.SenderID != uid {
			c.JSON(http.StatusForbidden, gin.H{"msg": "only the sender can edit a message"})
			return
		}

		msg.Content = body.Content
		if err := store.SaveMessage(msg); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"msg": "failed to save message"})
			return
		}

		c.JSON(http.StatusOK, messageJSON(msg))
	}
}

// MarkMessageRead flags a received message as read. Content is untouched,
// so no history row is produced.
func MarkMessageRead(store *messaging.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := middleware.CurrentUserID(c)
		id, ok := paramID(c, "message_id")
		if !ok {
			return
		}

		msg, err := store.GetMessage(id)
		if err != nil {
			if errors.Is(err, messaging.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"msg": "message not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"msg": "db error"})
			return
		}
		if msg.ReceiverID != uid {
			c.JSON(http.StatusForbidden, gin.H{"msg": "only the receiver can mark a message read"})
			return
		}

		msg.Read = true
		if err := store.SaveMessage(msg); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"msg": "failed to save message"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"msg": "message marked read"})
	}
}

// UnreadMessages serves the live unread feed for the authenticated user.
func UnreadMessages(store *messaging.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := middleware.CurrentUserID(c)

		unread, err := store.UnreadFor(uid)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"msg": "db error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"messages": unread, "count": len(unread)})
	}
}

// MessageThread serves the materialized reply tree under a root message.
func MessageThread(store *messaging.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "message_id")
		if !ok {
			return
		}

		thread, err := store.Thread(id)
		if err != nil {
			switch {
			case errors.Is(err, messaging.ErrNotFound):
				c.JSON(http.StatusNotFound, gin.H{"msg": "message not found"})
			case errors.Is(err, messaging.ErrCycle):
				c.JSON(http.StatusConflict, gin.H{"msg": "conversation data is corrupt"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"msg": "db error"})
			}
			return
		}

		out := make([]gin.H, 0, len(thread))
		for i := range thread {
			out = append(out, messageJSON(&thread[i]))
		}
		c.JSON(http.StatusOK, gin.H{"root_id": id, "messages": out})
	}
}

// MessageHistoryList serves a message's edit history, newest edit first.
func MessageHistoryList(store *messaging.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "message_id")
		if !ok {
			return
		}

		if _, err := store.GetMessage(id); err != nil {
			if errors.Is(err, messaging.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"msg": "message not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"msg": "db error"})
			return
		}

		hist, err := store.HistoryFor(id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"msg": "db error"})
			return
		}

		out := make([]gin.H, 0, len(hist))
		for _, h := range hist {
			out = append(out, gin.H{
				"id":          h.ID,
				"old_content": h.OldContent,
				"edited_at":   h.EditedAt,
			})
		}
		c.JSON(http.StatusOK, gin.H{"message_id": id, "history": out})
	}
}
