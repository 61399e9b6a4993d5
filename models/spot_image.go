package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SpotImageType string

const (
	SpotImageTypeExterior SpotImageType = "exterior"
	SpotImageTypeInterior SpotImageType = "interior"
	SpotImageTypeMap      SpotImageType = "map"
	SpotImageTypeOther    SpotImageType = "other"
)

// ValidSpotImageType reports whether the given value is a known spot image type.
func ValidSpotImageType(v string) bool {
	switch SpotImageType(v) {
	case SpotImageTypeExterior, SpotImageTypeInterior, SpotImageTypeMap, SpotImageTypeOther:
		return true
	}
	return false
}

// SpotImage is one photo in a spot's ordered gallery. For a given spot the
// display_order values form a dense 0-based sequence, and at most one image
// carries the primary flag.
type SpotImage struct {
	ID           uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	SpotID       uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:uq_spot_images_order,priority:1" json:"spot_id"`
	ImageURL     string        `gorm:"size:500;not null" json:"image_url"`
	ThumbnailURL string        `gorm:"size:500" json:"thumbnail_url"`
	ImageType    SpotImageType `gorm:"size:32;not null" json:"image_type"`
	IsPrimary    bool          `gorm:"not null;default:false" json:"is_primary"`
	DisplayOrder int           `gorm:"not null;default:0;uniqueIndex:uq_spot_images_order,priority:2" json:"display_order"`
	CreatedAt    time.Time     `json:"created_at"`
}

func (i *SpotImage) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

func (i SpotImage) ImageID() uuid.UUID { return i.ID }

func (i SpotImage) ImageOrder() int { return i.DisplayOrder }
