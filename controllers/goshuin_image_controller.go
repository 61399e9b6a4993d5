package controllers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/egg-seed/in-stamp-archive/apperror"
	"github.com/egg-seed/in-stamp-archive/models"
	"github.com/egg-seed/in-stamp-archive/services"
	"github.com/egg-seed/in-stamp-archive/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GoshuinImageController struct {
	DB      *gorm.DB
	Storage *services.StorageService
}

func NewGoshuinImageController(db *gorm.DB, storage *services.StorageService) *GoshuinImageController {
	return &GoshuinImageController{DB: db, Storage: storage}
}

type GoshuinImageUpdateRequest struct {
	ImageType *string `json:"image_type" binding:"omitempty,oneof=stamp_front stamp_back cover other"`
}

func (ic *GoshuinImageController) getImage(recordID, imageID string) (*models.GoshuinImage, error) {
	id, err := uuid.Parse(imageID)
	if err != nil {
		return nil, apperror.NotFound("Goshuin image")
	}
	var image models.GoshuinImage
	if err := ic.DB.Where("id = ? AND goshuin_record_id = ?", id, recordID).First(&image).Error; err != nil {
		return nil, apperror.NotFound("Goshuin image")
	}
	return &image, nil
}

func (ic *GoshuinImageController) ListImages(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	record, err := getRecordForUser(ic.DB, c.Param("recordId"), user)
	if err != nil {
		handleError(c, err)
		return
	}

	images, err := services.ListImages[models.GoshuinImage](ic.DB, "goshuin_record_id", record.ID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": images})
}

func (ic *GoshuinImageController) UploadImage(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	record, err := getRecordForUser(ic.DB, c.Param("recordId"), user)
	if err != nil {
		handleError(c, err)
		return
	}

	imageType := c.DefaultPostForm("image_type", string(models.GoshuinImageTypeStampFront))
	if !models.ValidGoshuinImageType(imageType) {
		handleError(c, apperror.Validation("image_type", "Unknown image type"))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		handleError(c, apperror.Validation("file", "No file provided"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		handleError(c, apperror.Validation("file", "Unable to read uploaded file"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		handleError(c, apperror.Validation("file", "Unable to read uploaded file"))
		return
	}

	imageID := uuid.New()
	result, err := ic.Storage.UploadImage(c.Request.Context(), services.ImageUpload{
		Data:        data,
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		PathPrefix:  fmt.Sprintf("uploads/goshuin/%s/%s/%s/%s", user.UserID, record.SpotID, record.ID, imageID),
	})
	if err != nil {
		handleError(c, err)
		return
	}

	image := models.GoshuinImage{
		ID:              imageID,
		GoshuinRecordID: record.ID,
		ImageURL:        result.OriginalURL,
		ThumbnailURL:    result.ThumbnailURL,
		ImageType:       models.GoshuinImageType(imageType),
	}
	if err := services.AppendGoshuinImage(ic.DB, &image); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"image":    image,
		"metadata": result.Metadata,
	})
}

func (ic *GoshuinImageController) UpdateImage(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	record, err := getRecordForUser(ic.DB, c.Param("recordId"), user)
	if err != nil {
		handleError(c, err)
		return
	}

	image, err := ic.getImage(record.ID.String(), c.Param("imageId"))
	if err != nil {
		handleError(c, err)
		return
	}

	var input GoshuinImageUpdateRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.ImageType != nil {
		if err := ic.DB.Model(image).Update("image_type", *input.ImageType).Error; err != nil {
			handleError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, image)
}

func (ic *GoshuinImageController) DeleteImage(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	record, err := getRecordForUser(ic.DB, c.Param("recordId"), user)
	if err != nil {
		handleError(c, err)
		return
	}

	image, err := ic.getImage(record.ID.String(), c.Param("imageId"))
	if err != nil {
		handleError(c, err)
		return
	}

	if err := services.DeleteGoshuinImage(ic.DB, image); err != nil {
		handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (ic *GoshuinImageController) ReorderImages(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	record, err := getRecordForUser(ic.DB, c.Param("recordId"), user)
	if err != nil {
		handleError(c, err)
		return
	}

	var input ImageReorderRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ids, err := parseIDs(input.ImageIDs)
	if err != nil {
		handleError(c, err)
		return
	}

	images, err := services.ReorderImages[models.GoshuinImage](ic.DB, "goshuin_record_id", record.ID, ids)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": images})
}
