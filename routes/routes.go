package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"threadline/messaging"
	"threadline/middleware"

	authRoutes "threadline/routes/auth"
	messageRoutes "threadline/routes/messages"
	notificationRoutes "threadline/routes/notifications"
	profileRoutes "threadline/routes/profile"
	websocketRoutes "threadline/routes/websocket"
)

func RegisterRoutes(r *gin.Engine, store *messaging.Store) {
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"msg": "threadline messaging backend running"})
	})

	authRoutes.RegisterPublic(r, store)
	websocketRoutes.Register(r, store)

	protected := r.Group("/")
	protected.Use(middleware.AuthMiddleware())
	authRoutes.RegisterProtected(protected, store)
	profileRoutes.Register(protected, store)
	messageRoutes.Register(protected, store)
	notificationRoutes.Register(protected, store)
}
