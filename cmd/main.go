package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/moa-app/moa-backend/config"
	"github.com/moa-app/moa-backend/database"
	"github.com/moa-app/moa-backend/internal/activity"
	"github.com/moa-app/moa-backend/internal/auditlog"
	"github.com/moa-app/moa-backend/internal/auth"
	"github.com/moa-app/moa-backend/middleware"
	"github.com/moa-app/moa-backend/routes"
	"github.com/moa-app/moa-backend/utils"
)

// @title        MOA Backend API
// @version      1.0
// @description  Activity coordination backend: auth, activities, joins and exports.
// @BasePath     /api
func main() {
	cfg := config.Load()

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	db := database.Connect(cfg)

	if err := utils.InitRedis(cfg); err != nil {
		log.Fatalf("Redis init failed: %v", err)
	}

	log.Println("Running database migrations...")
	if err := db.AutoMigrate(
		&auth.User{},
		&activity.Activity{},
		&auditlog.AuditLog{},
	); err != nil {
		log.Fatalf("DB AutoMigrate failed: %v", err)
	}
	log.Println("Database migrations completed")

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.RateLimiter())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.Setup(router, cfg, db)

	fmt.Printf("Server starting on port %s\n", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
