package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/campus-finds/api-go/controllers"
	"github.com/campus-finds/api-go/middleware"
)

func SetupRoutes(r *gin.Engine, db *gorm.DB) {
	// Initialize controllers
	authController := controllers.NewAuthController(db)
	uploadController := controllers.NewUploadController()
	itemController := controllers.NewItemController(db, uploadController)

	// Public routes
	public := r.Group("/api")
	{
		public.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"success":   true,
				"message":   "CampusFinds API is running",
				"timestamp": time.Now().Format(time.RFC3339),
			})
		})
	}

	// Protected routes
	protected := r.Group("/api")
	protected.Use(middleware.AuthMiddleware())

	SetupAuthRoutes(public, protected, authController)
	SetupItemRoutes(public, protected, itemController)
}
