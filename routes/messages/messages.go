package messages

import (
	"github.com/gin-gonic/gin"

	"threadline/controllers"
	"threadline/messaging"
	"threadline/middleware"
)

// Register registers message routes (protected). Sending is rate-limited.
func Register(g *gin.RouterGroup, store *messaging.Store) {
	g.POST("/messages", middleware.RateLimit(), controllers.SendMessage(store))
	g.GET("/messages/unread", controllers.UnreadMessages(store))
	g.PUT("/messages/:message_id", controllers.EditMessage(store))
	g.POST("/messages/:message_id/read", controllers.MarkMessageRead(store))
	g.GET("/messages/:message_id/thread", controllers.MessageThread(store))
	g.GET("/messages/:message_id/history", controllers.MessageHistoryList(store))
}
