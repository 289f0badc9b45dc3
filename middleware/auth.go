package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"threadline/pkg/config"
	tokenstore "threadline/pkg/token"
)

const (
	ContextUserIDKey = "current_user_id"
	ContextJTIKey    = "current_jti"
)

// AuthMiddleware validates the bearer JWT, rejects revoked tokens, and
// stores the authenticated user id in the gin context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "missing authorization header"})
			return
		}
		parts := strings.Fields(auth)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "invalid authorization header"})
			return
		}

		uid, jti, err := ParseToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "invalid token"})
			return
		}
		if tokenstore.IsRevoked(jti) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "Token has been revoked (logout)"})
			return
		}

		c.Set(ContextUserIDKey, uid)
		c.Set(ContextJTIKey, jti)
		c.Next()
	}
}

// ParseToken verifies an HS256 token and returns its subject (user id) and
// jti. Shared with the websocket handler, which authenticates via query
// parameter instead of header.
func ParseToken(tokenStr string) (uint, string, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		// only accept HMAC signing
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return []byte(config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, "", jwt.ErrTokenUnverifiable
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", jwt.ErrTokenInvalidClaims
	}

	jti, _ := claims["jti"].(string)

	var uid int
	switch sub := claims["sub"].(type) {
	case string:
		uid, _ = strconv.Atoi(sub)
	case float64:
		// jwt lib may parse numeric subjects as float64
		uid = int(sub)
	}
	if uid <= 0 {
		return 0, "", jwt.ErrTokenInvalidSubject
	}
	return uint(uid), jti, nil
}

// CurrentUserID reads the authenticated user id set by AuthMiddleware.
func CurrentUserID(c *gin.Context) uint {
	v, _ := c.Get(ContextUserIDKey)
	uid, _ := v.(uint)
	return uid
}
