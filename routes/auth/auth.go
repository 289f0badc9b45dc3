package auth

import (
	"github.com/gin-gonic/gin"

	"threadline/controllers"
	"threadline/messaging"
)

// RegisterPublic registers public auth routes: /register, /login
func RegisterPublic(r *gin.Engine, store *messaging.Store) {
	r.POST("/register", controllers.Register(store))
	r.POST("/login", controllers.Login(store))
}

// RegisterProtected registers protected auth routes (e.g. logout)
func RegisterProtected(g *gin.RouterGroup, store *messaging.Store) {
	g.POST("/logout", controllers.Logout())
}
