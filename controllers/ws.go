package controllers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"threadline/messaging"
	"threadline/middleware"
	tokenstore "threadline/pkg/token"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// CORS handled at HTTP level; allow WS here
		return true
	},
}

type wsNotification struct {
	Type      string    `json:"type"`
	ID        uint      `json:"id"`
	MessageID uint      `json:"message_id"`
	CreatedAt time.Time `json:"created_at"`
}

// NotificationsWS pushes the user's notifications over a websocket.
// Authentication is via ?token=JWT (browsers cannot set headers on WS).
// Frames:
//
//	<- {type: "notification", id, message_id, created_at}   one per row
//
// The socket starts from the newest existing notification and polls the
// store for newer rows; this is single-node push, not a broker.
func NotificationsWS(store *messaging.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := strings.TrimSpace(c.Query("token"))
		if tokenStr == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": "missing token query"})
			return
		}
		uid, jti, err := middleware.ParseToken(tokenStr)
		if err != nil || tokenstore.IsRevoked(jti) {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": "invalid token"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("[ws] upgrade failed: %v", err)
			return
		}
		defer conn.Close()

		// start after whatever already exists; the REST endpoint serves backlog
		var lastID uint
		if existing, err := store.NotificationsFor(uid); err == nil && len(existing) > 0 {
			lastID = existing[0].ID
		}

		// reader goroutine only to detect client close
		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				fresh, err := store.NotificationsSince(uid, lastID)
				if err != nil {
					log.Printf("[ws] poll failed for user %d: %v", uid, err)
					continue
				}
				for _, n := range fresh {
					frame := wsNotification{
						Type:      "notification",
						ID:        n.ID,
						MessageID: n.MessageID,
						CreatedAt: n.CreatedAt,
					}
					_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
					if err := conn.WriteJSON(frame); err != nil {
						return
					}
					lastID = n.ID
				}
			}
		}
	}
}
