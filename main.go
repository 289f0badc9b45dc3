package main

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"threadline/messaging"
	"threadline/middleware"
	"threadline/models"
	"threadline/pkg/config"
	"threadline/pkg/logger"
	"threadline/routes"
)

func openDB() (*gorm.DB, error) {
	if config.DBDriver == "mysql" {
		return gorm.Open(mysql.Open(config.DBDSN), &gorm.Config{})
	}
	return gorm.Open(sqlite.Open(config.DBPath), &gorm.Config{})
}

func main() {
	// config init via package init()

	if err := logger.Setup(config.LogDir); err != nil {
		log.Fatalf("failed to set up logging: %v", err)
	}

	db, err := openDB()
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	// auto-migrate
	if err := db.AutoMigrate(&models.User{}, &models.Message{}, &models.Notification{}, &models.MessageHistory{}); err != nil {
		log.Fatalf("failed migrate: %v", err)
	}

	store := messaging.NewStore(db)
	store.SetThreadCacheTTL(time.Duration(config.ThreadCacheTTLSeconds) * time.Second)
	store.SetThreadCacheMaxItems(config.ThreadCacheMaxItems)

	middleware.SetRateLimitConfig(
		time.Duration(config.RateLimitWindowSeconds)*time.Second,
		config.RateLimitCapacity,
	)
	middleware.SetDuplicateTTL(time.Duration(config.DuplicateWindowSeconds) * time.Second)

	r := gin.Default()

	// CORS configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000", "http://localhost:5173", "http://127.0.0.1:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, store)
	if err := r.Run(":" + config.Port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
