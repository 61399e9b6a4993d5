package routes

import (
	"github.com/egg-seed/in-stamp-archive/controllers"
	"github.com/gin-gonic/gin"
)

func SetupGoshuinRoutes(protected *gin.RouterGroup, goshuinController *controllers.GoshuinController, imageController *controllers.GoshuinImageController) {
	goshuin := protected.Group("/goshuin")
	{
		goshuin.GET("", goshuinController.ListRecords)
		goshuin.GET("/:recordId", goshuinController.GetRecord)
		goshuin.PATCH("/:recordId", goshuinController.UpdateRecord)
		goshuin.DELETE("/:recordId", goshuinController.DeleteRecord)

		goshuin.GET("/:recordId/images", imageController.ListImages)
		goshuin.POST("/:recordId/images/uploads", imageController.UploadImage)
		goshuin.PATCH("/:recordId/images/:imageId", imageController.UpdateImage)
		goshuin.DELETE("/:recordId/images/:imageId", imageController.DeleteImage)
		goshuin.POST("/:recordId/images/reorder", imageController.ReorderImages)
	}
}
