package profile

import (
	"github.com/gin-gonic/gin"

	"threadline/controllers"
	"threadline/messaging"
)

// Register registers profile routes (protected). DELETE removes the account
// and cascades to all the user's messaging data.
func Register(g *gin.RouterGroup, store *messaging.Store) {
	g.GET("/profile", controllers.Profile(store))
	g.PUT("/profile", controllers.Profile(store))
	g.DELETE("/profile", controllers.DeleteAccount(store))
}
