package websocket

import (
	"github.com/gin-gonic/gin"

	"threadline/controllers"
	"threadline/messaging"
)

// Register registers the websocket notification stream. Auth happens inside
// the handler via the token query parameter.
func Register(r *gin.Engine, store *messaging.Store) {
	r.GET("/ws/notifications", controllers.NotificationsWS(store))
}
