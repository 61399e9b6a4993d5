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

type SpotImageController struct {
	DB      *gorm.DB
	Storage *services.StorageService
}

func NewSpotImageController(db *gorm.DB, storage *services.StorageService) *SpotImageController {
	return &SpotImageController{DB: db, Storage: storage}
}

type SpotImageUpdateRequest struct {
	ImageType *string `json:"image_type" binding:"omitempty,oneof=exterior interior map other"`
	IsPrimary *bool   `json:"is_primary"`
}

func (ic *SpotImageController) getImage(spotID, imageID string) (*models.SpotImage, error) {
	id, err := uuid.Parse(imageID)
	if err != nil {
		return nil, apperror.NotFound("Spot image")
	}
	var image models.SpotImage
	if err := ic.DB.Where("id = ? AND spot_id = ?", id, spotID).First(&image).Error; err != nil {
		return nil, apperror.NotFound("Spot image")
	}
	return &image, nil
}

func (ic *SpotImageController) ListImages(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	spot, err := getSpotForUser(ic.DB, c.Param("spotId"), user)
	if err != nil {
		handleError(c, err)
		return
	}

	images, err := services.ListImages[models.SpotImage](ic.DB, "spot_id", spot.ID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": images})
}

func (ic *SpotImageController) UploadImage(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	spot, err := getSpotForUser(ic.DB, c.Param("spotId"), user)
	if err != nil {
		handleError(c, err)
		return
	}

	imageType := c.DefaultPostForm("image_type", string(models.SpotImageTypeOther))
	if !models.ValidSpotImageType(imageType) {
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
		PathPrefix:  fmt.Sprintf("uploads/spots/%s/%s/%s", user.UserID, spot.ID, imageID),
	})
	if err != nil {
		handleError(c, err)
		return
	}

	image := models.SpotImage{
		ID:           imageID,
		SpotID:       spot.ID,
		ImageURL:     result.OriginalURL,
		ThumbnailURL: result.ThumbnailURL,
		ImageType:    models.SpotImageType(imageType),
	}
	if err := services.AppendSpotImage(ic.DB, &image); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"image":    image,
		"metadata": result.Metadata,
	})
}

func (ic *SpotImageController) UpdateImage(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	spot, err := getSpotForUser(ic.DB, c.Param("spotId"), user)
	if err != nil {
		handleError(c, err)
		return
	}

	image, err := ic.getImage(spot.ID.String(), c.Param("imageId"))
	if err != nil {
		handleError(c, err)
		return
	}

	var input SpotImageUpdateRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err = ic.DB.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{}
		if input.ImageType != nil {
			updates["image_type"] = *input.ImageType
		}
		if input.IsPrimary != nil && *input.IsPrimary {
			if err := services.ClearOtherPrimaries(tx, spot.ID, image.ID); err != nil {
				return err
			}
			updates["is_primary"] = true
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(image).Updates(updates).Error
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, image)
}

func (ic *SpotImageController) DeleteImage(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	spot, err := getSpotForUser(ic.DB, c.Param("spotId"), user)
	if err != nil {
		handleError(c, err)
		return
	}

	image, err := ic.getImage(spot.ID.String(), c.Param("imageId"))
	if err != nil {
		handleError(c, err)
		return
	}

	if err := services.DeleteSpotImage(ic.DB, image); err != nil {
		handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (ic *SpotImageController) ReorderImages(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	spot, err := getSpotForUser(ic.DB, c.Param("spotId"), user)
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

	images, err := services.ReorderImages[models.SpotImage](ic.DB, "spot_id", spot.ID, ids)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": images})
}
