package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/egg-seed/in-stamp-archive/models"
	"github.com/egg-seed/in-stamp-archive/services"
	"github.com/egg-seed/in-stamp-archive/types"
	"github.com/egg-seed/in-stamp-archive/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ExportController struct {
	DB     *gorm.DB
	Export *services.ExportService
}

func NewExportController(db *gorm.DB, export *services.ExportService) *ExportController {
	return &ExportController{DB: db, Export: export}
}

func exportFilename(extension string) string {
	return fmt.Sprintf("goshuin-export-%s.%s", time.Now().UTC().Format("20060102T150405Z"), extension)
}

func (ec *ExportController) currentUser(c *gin.Context) (*models.User, bool) {
	claims := utils.GetUser(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return nil, false
	}
	var user models.User
	if err := ec.DB.First(&user, "id = ?", claims.UserID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return nil, false
	}
	return &user, true
}

func (ec *ExportController) ExportJSON(c *gin.Context) {
	user, ok := ec.currentUser(c)
	if !ok {
		return
	}

	bundle, err := ec.Export.BuildBundle(ec.DB, user)
	if err != nil {
		handleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFilename("json")))
	c.JSON(http.StatusOK, bundle)
}

func (ec *ExportController) ExportCSV(c *gin.Context) {
	user, ok := ec.currentUser(c)
	if !ok {
		return
	}

	bundle, err := ec.Export.BuildBundle(ec.DB, user)
	if err != nil {
		handleError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := ec.Export.WriteCSV(&buf, bundle); err != nil {
		handleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFilename("csv")))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (ec *ExportController) ImportJSON(c *gin.Context) {
	user, ok := ec.currentUser(c)
	if !ok {
		return
	}

	var bundle types.ExportBundle
	if err := c.ShouldBindJSON(&bundle); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := ec.Export.Import(ec.DB, user, &bundle)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}
