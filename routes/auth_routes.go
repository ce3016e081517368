package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/campus-finds/api-go/controllers"
)

func SetupAuthRoutes(public, protected *gin.RouterGroup, authController *controllers.AuthController) {
	auth := public.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/google", authController.GoogleLogin)
		auth.POST("/refresh-token", authController.RefreshToken)
	}

	authed := protected.Group("/auth")
	{
		authed.POST("/logout", authController.Logout)
		authed.GET("/profile", authController.GetProfile)
	}
}
