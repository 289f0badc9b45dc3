package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"threadline/messaging"
	"threadline/middleware"
	"threadline/models"
	tokenstore "threadline/pkg/token"
	utils "threadline/pkg/utills"
)

func Profile(store *messaging.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := middleware.CurrentUserID(c)
		db := store.DB()

		var user models.User
		if err := db.First(&user, uid).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"msg": "User not found"})
			return
		}

		if c.Request.Method == http.MethodGet {
			c.JSON(http.StatusOK, gin.H{
				"id":       user.ID,
				"email":    user.Email,
				"username": user.Username,
			})
			return
		}

		// PUT
		var body struct {
			Email    string `json:"email"`
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid request"})
			return
		}

		newEmail := strings.TrimSpace(strings.ToLower(body.Email))
		if newEmail == "" {
			newEmail = user.Email
		}
		newUsername := strings.TrimSpace(body.Username)
		if newUsername == "" {
			newUsername = user.Username
		}
		newPassword := body.Password

		if newEmail != user.Email {
			var t models.User
			if err := db.Where("email = ?", newEmail).First(&t).Error; err == nil {
				c.JSON(http.StatusConflict, gin.H{"msg": "Email already exists"})
				return
			}
		}
		if newUsername != user.Username {
			var t models.User
			if err := db.Where("username = ?", newUsername).First(&t).Error; err == nil {
				c.JSON(http.StatusConflict, gin.H{"msg": "Username already exists"})
				return
			}
		}

		user.Email = newEmail
		user.Username = newUsername
		if newPassword != "" {
			if !utils.HasLetter(newPassword) || !utils.HasNumber(newPassword) {
				c.JSON(http.StatusBadRequest, gin.H{"msg": "New password must contain at least one letter and one number"})
				return
			}
			if err := user.SetPassword(newPassword); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"msg": "failed to set password"})
				return
			}
		}
		if err := db.Save(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"msg": "failed to update profile"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"msg": "Profile updated successfully"})
	}
}

// DeleteAccount removes the authenticated user and cascades to all their
// messages, notifications, and edit history in one transaction. The token
// is revoked so it cannot outlive the account.
func DeleteAccount(store *messaging.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := middleware.CurrentUserID(c)

		if err := store.DeleteUser(uid); err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, messaging.ErrNotFound) {
				status = http.StatusNotFound
			}
			c.JSON(status, gin.H{"msg": "failed to delete account"})
			return
		}

		if jti, _ := c.Get(middleware.ContextJTIKey); jti != nil {
			if s, ok := jti.(string); ok {
				tokenstore.RevokeToken(s)
			}
		}
		c.JSON(http.StatusOK, gin.H{"msg": "account deleted"})
	}
}
