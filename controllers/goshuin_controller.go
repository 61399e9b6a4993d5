package controllers

import (
	"net/http"
	"time"

	"github.com/egg-seed/in-stamp-archive/apperror"
	"github.com/egg-seed/in-stamp-archive/models"
	"github.com/egg-seed/in-stamp-archive/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GoshuinController struct {
	DB *gorm.DB
}

func NewGoshuinController(db *gorm.DB) *GoshuinController {
	return &GoshuinController{DB: db}
}

type GoshuinListQuery struct {
	PaginationQuery
	SpotID    string `form:"spot_id" binding:"omitempty,uuid"`
	SortOrder string `form:"sort_order,default=desc" binding:"oneof=asc desc"`
}

type GoshuinCreateRequest struct {
	VisitDate         string  `json:"visit_date" binding:"required"`
	AcquisitionMethod string  `json:"acquisition_method" binding:"required,oneof=in_person by_mail event online"`
	Status            string  `json:"status" binding:"omitempty,oneof=planned collected missed"`
	Rating            *int    `json:"rating" binding:"omitempty,min=1,max=5"`
	Notes             *string `json:"notes"`
}

type GoshuinUpdateRequest struct {
	VisitDate         *string `json:"visit_date"`
	AcquisitionMethod *string `json:"acquisition_method" binding:"omitempty,oneof=in_person by_mail event online"`
	Status            *string `json:"status" binding:"omitempty,oneof=planned collected missed"`
	Rating            *int    `json:"rating" binding:"omitempty,min=1,max=5"`
	Notes             *string `json:"notes"`
}

func getRecordForUser(db *gorm.DB, recordID string, user *utils.UserClaims) (*models.GoshuinRecord, error) {
	id, err := uuid.Parse(recordID)
	if err != nil {
		return nil, apperror.NotFound("Goshuin record")
	}
	var record models.GoshuinRecord
	if err := db.Where("id = ? AND user_id = ?", id, user.UserID).First(&record).Error; err != nil {
		return nil, apperror.NotFound("Goshuin record")
	}
	return &record, nil
}

// parseVisitDate validates the wire format and rejects future dates.
func parseVisitDate(value string) (time.Time, error) {
	visitDate, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, apperror.Validation("visit_date", "Visit date must use YYYY-MM-DD format")
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if visitDate.After(today) {
		return time.Time{}, apperror.Validation("visit_date", "Visit date cannot be in the future")
	}
	return visitDate, nil
}

func (gc *GoshuinController) ListRecords(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var query GoshuinListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := gc.DB.Model(&models.GoshuinRecord{}).Where("user_id = ?", user.UserID)
	if query.SpotID != "" {
		db = db.Where("spot_id = ?", query.SpotID)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		handleError(c, err)
		return
	}

	order := "visit_date DESC, created_at DESC"
	if query.SortOrder == "asc" {
		order = "visit_date ASC, created_at ASC"
	}

	var records []models.GoshuinRecord
	offset := (query.Page - 1) * query.Size
	if err := db.Preload("Images").Order(order).Offset(offset).Limit(query.Size).Find(&records).Error; err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, PaginatedResponse{
		Items: records,
		Total: total,
		Page:  query.Page,
		Size:  query.Size,
	})
}

func (gc *GoshuinController) CreateRecord(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	spot, err := getSpotForUser(gc.DB, c.Param("spotId"), user)
	if err != nil {
		handleError(c, err)
		return
	}

	var input GoshuinCreateRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	visitDate, err := parseVisitDate(input.VisitDate)
	if err != nil {
		handleError(c, err)
		return
	}

	status := models.GoshuinStatusCollected
	if input.Status != "" {
		status = models.GoshuinStatus(input.Status)
	}

	record := models.GoshuinRecord{
		UserID:            user.UserID,
		SpotID:            spot.ID,
		VisitDate:         visitDate,
		AcquisitionMethod: models.GoshuinAcquisitionMethod(input.AcquisitionMethod),
		Status:            status,
		Rating:            input.Rating,
		Notes:             input.Notes,
	}

	if err := gc.DB.Create(&record).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A record for this spot and visit date already exists"})
		return
	}

	c.JSON(http.StatusCreated, record)
}

func (gc *GoshuinController) GetRecord(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	record, err := getRecordForUser(gc.DB, c.Param("recordId"), user)
	if err != nil {
		handleError(c, err)
		return
	}

	if err := gc.DB.Preload("Images").First(record, "id = ?", record.ID).Error; err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

func (gc *GoshuinController) UpdateRecord(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	record, err := getRecordForUser(gc.DB, c.Param("recordId"), user)
	if err != nil {
		handleError(c, err)
		return
	}

	var input GoshuinUpdateRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if input.VisitDate != nil {
		visitDate, err := parseVisitDate(*input.VisitDate)
		if err != nil {
			handleError(c, err)
			return
		}
		updates["visit_date"] = visitDate
	}
	if input.AcquisitionMethod != nil {
		updates["acquisition_method"] = *input.AcquisitionMethod
	}
	if input.Status != nil {
		updates["status"] = *input.Status
	}
	if input.Rating != nil {
		updates["rating"] = *input.Rating
	}
	if input.Notes != nil {
		updates["notes"] = *input.Notes
	}

	if len(updates) > 0 {
		if err := gc.DB.Model(record).Updates(updates).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "A record for this spot and visit date already exists"})
			return
		}
	}

	c.JSON(http.StatusOK, record)
}

func (gc *GoshuinController) DeleteRecord(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	record, err := getRecordForUser(gc.DB, c.Param("recordId"), user)
	if err != nil {
		handleError(c, err)
		return
	}

	if err := gc.DB.Select("Images").Delete(record).Error; err != nil {
		handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
