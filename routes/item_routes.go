package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/campus-finds/api-go/controllers"
)

func SetupItemRoutes(public, protected *gin.RouterGroup, itemController *controllers.ItemController) {
	// Browsing is open to everyone
	items := public.Group("/items")
	{
		items.GET("", itemController.GetItems)
		items.GET("/:id", itemController.GetItemByID)
	}

	// Reporting, claiming and resolving require a signed-in member
	authed := protected.Group("/items")
	{
		authed.POST("", itemController.CreateItem)
		authed.GET("/mine", itemController.GetMyItems)
		authed.GET("/stats", itemController.GetDashboardStats)
		authed.PUT("/:id", itemController.UpdateItem)
		authed.DELETE("/:id", itemController.DeleteItem)
		authed.POST("/:id/claim", itemController.ClaimItem)
		authed.PUT("/:id/claim/:claimId", itemController.UpdateClaimStatus)
	}
}
