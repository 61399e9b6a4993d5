package routes

import (
	"github.com/egg-seed/in-stamp-archive/config"
	"github.com/egg-seed/in-stamp-archive/controllers"
	"github.com/egg-seed/in-stamp-archive/middleware"
	"github.com/egg-seed/in-stamp-archive/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, storage *services.StorageService) {
	// Initialize controllers
	authController := controllers.NewAuthController(db, cfg.JWTSecret)
	spotController := controllers.NewSpotController(db)
	spotImageController := controllers.NewSpotImageController(db, storage)
	goshuinController := controllers.NewGoshuinController(db)
	goshuinImageController := controllers.NewGoshuinImageController(db, storage)
	prefectureController := controllers.NewPrefectureController(db)
	exportController := controllers.NewExportController(db, services.NewExportService())

	// Public routes
	public := r.Group("/api")
	{
		public.POST("/auth/register", authController.Register)
		public.POST("/auth/login", authController.Login)
		public.POST("/auth/refresh", authController.RefreshToken)
	}

	// Protected routes
	protected := r.Group("/api")
	protected.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	{
		protected.GET("/auth/me", authController.Me)

		SetupSpotRoutes(protected, spotController, spotImageController, goshuinController)
		SetupGoshuinRoutes(protected, goshuinController, goshuinImageController)
		SetupPrefectureRoutes(protected, prefectureController)
		SetupExportRoutes(protected, exportController)
	}
}
