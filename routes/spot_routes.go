package routes

import (
	"github.com/egg-seed/in-stamp-archive/controllers"
	"github.com/gin-gonic/gin"
)

func SetupSpotRoutes(protected *gin.RouterGroup, spotController *controllers.SpotController, imageController *controllers.SpotImageController, goshuinController *controllers.GoshuinController) {
	spots := protected.Group("/spots")
	{
		spots.GET("", spotController.ListSpots)
		spots.POST("", spotController.CreateSpot)
		spots.GET("/:spotId", spotController.GetSpot)
		spots.PATCH("/:spotId", spotController.UpdateSpot)
		spots.DELETE("/:spotId", spotController.DeleteSpot)

		spots.GET("/:spotId/images", imageController.ListImages)
		spots.POST("/:spotId/images/uploads", imageController.UploadImage)
		spots.PATCH("/:spotId/images/:imageId", imageController.UpdateImage)
		spots.DELETE("/:spotId/images/:imageId", imageController.DeleteImage)
		spots.POST("/:spotId/images/reorder", imageController.ReorderImages)

		spots.POST("/:spotId/goshuin", goshuinController.CreateRecord)
	}
}
