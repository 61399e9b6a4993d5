package routes

import (
	"github.com/egg-seed/in-stamp-archive/controllers"
	"github.com/gin-gonic/gin"
)

func SetupExportRoutes(protected *gin.RouterGroup, exportController *controllers.ExportController) {
	export := protected.Group("/export")
	{
		export.GET("/json", exportController.ExportJSON)
		export.GET("/csv", exportController.ExportCSV)
		export.POST("/json", exportController.ImportJSON)
	}
}
