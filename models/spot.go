package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SpotType string

const (
	SpotTypeShrine SpotType = "shrine"
	SpotTypeTemple SpotType = "temple"
	SpotTypeMuseum SpotType = "museum"
	SpotTypeOther  SpotType = "other"
)

// ValidSpotType reports whether the given value is a known spot type.
func ValidSpotType(v string) bool {
	switch SpotType(v) {
	case SpotTypeShrine, SpotTypeTemple, SpotTypeMuseum, SpotTypeOther:
		return true
	}
	return false
}

type Spot struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	Slug           string          `gorm:"size:120;not null;uniqueIndex:uq_spots_slug" json:"slug"`
	Name           string          `gorm:"size:255;not null" json:"name"`
	SpotType       SpotType        `gorm:"size:32;not null;index" json:"spot_type"`
	Prefecture     string          `gorm:"size:100;not null;index" json:"prefecture"`
	City           *string         `gorm:"size:100" json:"city"`
	Address        *string         `gorm:"size:255" json:"address"`
	Latitude       *float64        `gorm:"check:ck_spots_latitude_range,latitude >= -90 AND latitude <= 90" json:"latitude"`
	Longitude      *float64        `gorm:"check:ck_spots_longitude_range,longitude >= -180 AND longitude <= 180" json:"longitude"`
	Description    *string         `gorm:"type:text" json:"description"`
	WebsiteURL     *string         `gorm:"size:255" json:"website_url"`
	PhoneNumber    *string         `gorm:"size:32" json:"phone_number"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	Images         []SpotImage     `json:"images,omitempty" gorm:"foreignKey:SpotID;constraint:OnDelete:CASCADE"`
	GoshuinRecords []GoshuinRecord `json:"goshuin_records,omitempty" gorm:"foreignKey:SpotID;constraint:OnDelete:CASCADE"`
}

func (s *Spot) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
