package notifications

import (
	"github.com/gin-gonic/gin"

	"threadline/controllers"
	"threadline/messaging"
)

// Register registers notification routes (protected)
func Register(g *gin.RouterGroup, store *messaging.Store) {
	g.GET("/notifications", controllers.ListNotifications(store))
	g.POST("/notifications/:notification_id/read", controllers.MarkNotificationRead(store))
}
