package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/egg-seed/in-stamp-archive/apperror"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// handleError translates component errors to status codes at the request
// boundary. Not-found and not-owned are indistinguishable on purpose.
func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperror.ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperror.ErrValidation), errors.Is(err, apperror.ErrImageValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperror.ErrStorageUpload):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		log.Printf("unhandled error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// parseIDs converts path/body ids, rejecting malformed values up front.
func parseIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, value := range raw {
		id, err := uuid.Parse(value)
		if err != nil {
			return nil, apperror.Validation("image_ids", "Invalid image ID format")
		}
		ids = append(ids, id)
	}
	return ids, nil
}
