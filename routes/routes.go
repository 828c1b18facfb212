package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/moa-app/moa-backend/config"
	"github.com/moa-app/moa-backend/internal/activity"
	"github.com/moa-app/moa-backend/internal/auditlog"
	"github.com/moa-app/moa-backend/internal/auth"
	"github.com/moa-app/moa-backend/internal/reports"
	"github.com/moa-app/moa-backend/middleware"

	_ "github.com/moa-app/moa-backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Setup wires repositories, services and handlers and registers all routes.
func Setup(r *gin.Engine, cfg *config.Config, db *gorm.DB) {
	auditRepo := auditlog.NewRepository(db)
	auditSvc := auditlog.NewService(auditRepo)

	authRepo := auth.NewRepository(db)
	authSvc := auth.NewService(authRepo, auditSvc, cfg)
	authHandler := auth.NewHandler(authSvc)

	activityRepo := activity.NewRepository(db)
	activitySvc := activity.NewService(activityRepo, auditSvc)
	activityHandler := activity.NewHandler(activitySvc)

	reportsSvc := reports.NewService(activitySvc, authRepo)
	reportsHandler := reports.NewHandler(reportsSvc)

	requireAuth := middleware.AuthMiddleware(authSvc)

	api := r.Group("/api")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/signup", authHandler.Signup)
			authGroup.POST("/login", authHandler.Login)
			authGroup.PUT("/profile/:id", requireAuth, authHandler.UpdateProfile)
		}

		activities := api.Group("/activities")
		{
			activities.GET("", activityHandler.List)
			activities.POST("", requireAuth, activityHandler.Create)
			activities.PUT("/:id/join", requireAuth, activityHandler.Join)
		}

		reportsGroup := api.Group("/reports", requireAuth)
		{
			reportsGroup.GET("/activities", reportsHandler.ExportActivities)
			reportsGroup.GET("/activities/:id/roster", reportsHandler.ExportRoster)
		}
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
