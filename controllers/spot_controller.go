package controllers

import (
	"net/http"
	"strings"

	"github.com/egg-seed/in-stamp-archive/apperror"
	"github.com/egg-seed/in-stamp-archive/models"
	"github.com/egg-seed/in-stamp-archive/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SpotController struct {
	DB *gorm.DB
}

func NewSpotController(db *gorm.DB) *SpotController {
	return &SpotController{DB: db}
}

type SpotListQuery struct {
	PaginationQuery
	Prefecture string `form:"prefecture"`
	Category   string `form:"category"`
	Keyword    string `form:"keyword"`
}

type SpotCreateRequest struct {
	Slug        string   `json:"slug" binding:"required,max=120"`
	Name        string   `json:"name" binding:"required,max=255"`
	SpotType    string   `json:"spot_type" binding:"required,oneof=shrine temple museum other"`
	Prefecture  string   `json:"prefecture" binding:"required,max=100"`
	City        *string  `json:"city" binding:"omitempty,max=100"`
	Address     *string  `json:"address" binding:"omitempty,max=255"`
	Latitude    *float64 `json:"latitude" binding:"omitempty,gte=-90,lte=90"`
	Longitude   *float64 `json:"longitude" binding:"omitempty,gte=-180,lte=180"`
	Description *string  `json:"description"`
	WebsiteURL  *string  `json:"website_url" binding:"omitempty,max=255"`
	PhoneNumber *string  `json:"phone_number" binding:"omitempty,max=32"`
}

type SpotUpdateRequest struct {
	Slug        *string  `json:"slug" binding:"omitempty,max=120"`
	Name        *string  `json:"name" binding:"omitempty,max=255"`
	SpotType    *string  `json:"spot_type" binding:"omitempty,oneof=shrine temple museum other"`
	Prefecture  *string  `json:"prefecture" binding:"omitempty,max=100"`
	City        *string  `json:"city" binding:"omitempty,max=100"`
	Address     *string  `json:"address" binding:"omitempty,max=255"`
	Latitude    *float64 `json:"latitude" binding:"omitempty,gte=-90,lte=90"`
	Longitude   *float64 `json:"longitude" binding:"omitempty,gte=-180,lte=180"`
	Description *string  `json:"description"`
	WebsiteURL  *string  `json:"website_url" binding:"omitempty,max=255"`
	PhoneNumber *string  `json:"phone_number" binding:"omitempty,max=32"`
}

// getSpotForUser returns the spot only when it belongs to the caller; a spot
// owned by someone else is reported as not found.
func getSpotForUser(db *gorm.DB, spotID string, user *utils.UserClaims) (*models.Spot, error) {
	id, err := uuid.Parse(spotID)
	if err != nil {
		return nil, apperror.NotFound("Spot")
	}
	var spot models.Spot
	if err := db.Where("id = ? AND user_id = ?", id, user.UserID).First(&spot).Error; err != nil {
		return nil, apperror.NotFound("Spot")
	}
	return &spot, nil
}

func (sc *SpotController) ListSpots(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var query SpotListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := sc.DB.Model(&models.Spot{}).Where("user_id = ?", user.UserID)

	if query.Prefecture != "" {
		db = db.Where("prefecture = ?", query.Prefecture)
	}
	if query.Category != "" {
		db = db.Where("spot_type = ?", query.Category)
	}
	if query.Keyword != "" {
		pattern := "%" + strings.ToLower(query.Keyword) + "%"
		db = db.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(address) LIKE ?",
			pattern, pattern, pattern)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		handleError(c, err)
		return
	}

	var spots []models.Spot
	offset := (query.Page - 1) * query.Size
	if err := db.Order("created_at DESC").Offset(offset).Limit(query.Size).Find(&spots).Error; err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, PaginatedResponse{
		Items: spots,
		Total: total,
		Page:  query.Page,
		Size:  query.Size,
	})
}

func (sc *SpotController) CreateSpot(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var input SpotCreateRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	spot := models.Spot{
		UserID:      user.UserID,
		Slug:        input.Slug,
		Name:        input.Name,
		SpotType:    models.SpotType(input.SpotType),
		Prefecture:  input.Prefecture,
		City:        input.City,
		Address:     input.Address,
		Latitude:    input.Latitude,
		Longitude:   input.Longitude,
		Description: input.Description,
		WebsiteURL:  input.WebsiteURL,
		PhoneNumber: input.PhoneNumber,
	}

	if err := sc.DB.Create(&spot).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Slug already exists"})
		return
	}

	c.JSON(http.StatusCreated, spot)
}

func (sc *SpotController) GetSpot(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	spot, err := getSpotForUser(sc.DB, c.Param("spotId"), user)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, spot)
}

func (sc *SpotController) UpdateSpot(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	spot, err := getSpotForUser(sc.DB, c.Param("spotId"), user)
	if err != nil {
		handleError(c, err)
		return
	}

	var input SpotUpdateRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if input.Slug != nil {
		updates["slug"] = *input.Slug
	}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.SpotType != nil {
		updates["spot_type"] = *input.SpotType
	}
	if input.Prefecture != nil {
		updates["prefecture"] = *input.Prefecture
	}
	if input.City != nil {
		updates["city"] = *input.City
	}
	if input.Address != nil {
		updates["address"] = *input.Address
	}
	if input.Latitude != nil {
		updates["latitude"] = *input.Latitude
	}
	if input.Longitude != nil {
		updates["longitude"] = *input.Longitude
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.WebsiteURL != nil {
		updates["website_url"] = *input.WebsiteURL
	}
	if input.PhoneNumber != nil {
		updates["phone_number"] = *input.PhoneNumber
	}

	if len(updates) > 0 {
		if err := sc.DB.Model(spot).Updates(updates).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unable to update spot with provided data"})
			return
		}
	}

	c.JSON(http.StatusOK, spot)
}

func (sc *SpotController) DeleteSpot(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	spot, err := getSpotForUser(sc.DB, c.Param("spotId"), user)
	if err != nil {
		handleError(c, err)
		return
	}

	if err := sc.DB.Select("Images", "GoshuinRecords").Delete(spot).Error; err != nil {
		handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
