package routes

import (
	"github.com/egg-seed/in-stamp-archive/controllers"
	"github.com/gin-gonic/gin"
)

func SetupPrefectureRoutes(protected *gin.RouterGroup, prefectureController *controllers.PrefectureController) {
	prefectures := protected.Group("/prefectures")
	{
		prefectures.GET("/stats", prefectureController.Stats)
	}
}
