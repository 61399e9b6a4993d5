package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GoshuinImageType string

const (
	GoshuinImageTypeStampFront GoshuinImageType = "stamp_front"
	GoshuinImageTypeStampBack  GoshuinImageType = "stamp_back"
	GoshuinImageTypeCover      GoshuinImageType = "cover"
	GoshuinImageTypeOther      GoshuinImageType = "other"
)

func ValidGoshuinImageType(v string) bool {
	switch GoshuinImageType(v) {
	case GoshuinImageTypeStampFront, GoshuinImageTypeStampBack, GoshuinImageTypeCover, GoshuinImageTypeOther:
		return true
	}
	return false
}

// GoshuinImage is one photo in a record's ordered gallery. Shares the dense
// display_order invariant with SpotImage but has no primary flag.
type GoshuinImage struct {
	ID              uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	GoshuinRecordID uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:uq_goshuin_images_order,priority:1" json:"goshuin_record_id"`
	ImageURL        string           `gorm:"size:500;not null" json:"image_url"`
	ThumbnailURL    string           `gorm:"size:500" json:"thumbnail_url"`
	ImageType       GoshuinImageType `gorm:"size:32;not null" json:"image_type"`
	DisplayOrder    int              `gorm:"not null;default:0;uniqueIndex:uq_goshuin_images_order,priority:2" json:"display_order"`
	CreatedAt       time.Time        `json:"created_at"`
}

func (i *GoshuinImage) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

func (i GoshuinImage) ImageID() uuid.UUID { return i.ID }

func (i GoshuinImage) ImageOrder() int { return i.DisplayOrder }
