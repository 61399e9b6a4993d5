package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GoshuinStatus string

const (
	GoshuinStatusPlanned   GoshuinStatus = "planned"
	GoshuinStatusCollected GoshuinStatus = "collected"
	GoshuinStatusMissed    GoshuinStatus = "missed"
)

func ValidGoshuinStatus(v string) bool {
	switch GoshuinStatus(v) {
	case GoshuinStatusPlanned, GoshuinStatusCollected, GoshuinStatusMissed:
		return true
	}
	return false
}

type GoshuinAcquisitionMethod string

const (
	AcquisitionInPerson GoshuinAcquisitionMethod = "in_person"
	AcquisitionByMail   GoshuinAcquisitionMethod = "by_mail"
	AcquisitionEvent    GoshuinAcquisitionMethod = "event"
	AcquisitionOnline   GoshuinAcquisitionMethod = "online"
)

func ValidAcquisitionMethod(v string) bool {
	switch GoshuinAcquisitionMethod(v) {
	case AcquisitionInPerson, AcquisitionByMail, AcquisitionEvent, AcquisitionOnline:
		return true
	}
	return false
}

// GoshuinRecord tracks one user's acquisition of a goshuin at a spot.
// A user can hold at most one record per spot and visit date.
type GoshuinRecord struct {
	ID                uuid.UUID                `gorm:"type:uuid;primaryKey" json:"id"`
	UserID            uuid.UUID                `gorm:"type:uuid;not null;uniqueIndex:uq_goshuin_records_visit,priority:1" json:"user_id"`
	SpotID            uuid.UUID                `gorm:"type:uuid;not null;index;uniqueIndex:uq_goshuin_records_visit,priority:2" json:"spot_id"`
	VisitDate         time.Time                `gorm:"type:date;not null;uniqueIndex:uq_goshuin_records_visit,priority:3" json:"visit_date"`
	AcquisitionMethod GoshuinAcquisitionMethod `gorm:"size:32;not null" json:"acquisition_method"`
	Status            GoshuinStatus            `gorm:"size:32;not null" json:"status"`
	Rating            *int                     `gorm:"check:ck_goshuin_records_rating_range,rating IS NULL OR (rating >= 1 AND rating <= 5)" json:"rating"`
	Notes             *string                  `gorm:"type:text" json:"notes"`
	CreatedAt         time.Time                `json:"created_at"`
	UpdatedAt         time.Time                `json:"updated_at"`
	Images            []GoshuinImage           `json:"images,omitempty" gorm:"foreignKey:GoshuinRecordID;constraint:OnDelete:CASCADE"`
}

func (r *GoshuinRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
