package types

import (
	"time"

	"github.com/egg-seed/in-stamp-archive/models"
	"github.com/google/uuid"
)

const ExportBundleVersion = "1.0"

type ExportedSpotImage struct {
	ID           uuid.UUID            `json:"id"`
	ImageURL     string               `json:"image_url"`
	ThumbnailURL string               `json:"thumbnail_url"`
	ImageType    models.SpotImageType `json:"image_type"`
	IsPrimary    bool                 `json:"is_primary"`
	DisplayOrder int                  `json:"display_order"`
	CreatedAt    time.Time            `json:"created_at"`
}

type ExportedGoshuinImage struct {
	ID           uuid.UUID               `json:"id"`
	ImageURL     string                  `json:"image_url"`
	ThumbnailURL string                  `json:"thumbnail_url"`
	ImageType    models.GoshuinImageType `json:"image_type"`
	DisplayOrder int                     `json:"display_order"`
	CreatedAt    time.Time               `json:"created_at"`
}

type ExportedGoshuinRecord struct {
	ID                uuid.UUID                       `json:"id"`
	UserID            uuid.UUID                       `json:"user_id"`
	SpotID            uuid.UUID                       `json:"spot_id"`
	VisitDate         time.Time                       `json:"visit_date"`
	AcquisitionMethod models.GoshuinAcquisitionMethod `json:"acquisition_method"`
	Status            models.GoshuinStatus            `json:"status"`
	Rating            *int                            `json:"rating"`
	Notes             *string                         `json:"notes"`
	CreatedAt         time.Time                       `json:"created_at"`
	UpdatedAt         time.Time                       `json:"updated_at"`
	Images            []ExportedGoshuinImage          `json:"images"`
}

type ExportedSpot struct {
	ID             uuid.UUID               `json:"id"`
	UserID         uuid.UUID               `json:"user_id"`
	Slug           string                  `json:"slug"`
	Name           string                  `json:"name"`
	SpotType       models.SpotType         `json:"spot_type"`
	Prefecture     string                  `json:"prefecture"`
	City           *string                 `json:"city"`
	Address        *string                 `json:"address"`
	Latitude       *float64                `json:"latitude"`
	Longitude      *float64                `json:"longitude"`
	Description    *string                 `json:"description"`
	WebsiteURL     *string                 `json:"website_url"`
	PhoneNumber    *string                 `json:"phone_number"`
	CreatedAt      time.Time               `json:"created_at"`
	UpdatedAt      time.Time               `json:"updated_at"`
	Images         []ExportedSpotImage     `json:"images"`
	GoshuinRecords []ExportedGoshuinRecord `json:"goshuin_records"`
}

// PdfImage and friends are the flattened "document sections" rendering
// consumed by downstream document generation, not by import.
type PdfImage struct {
	URL       string `json:"url"`
	ImageType string `json:"image_type"`
	Order     int    `json:"order"`
}

type PdfRecord struct {
	VisitDate         time.Time  `json:"visit_date"`
	AcquisitionMethod string     `json:"acquisition_method"`
	Status            string     `json:"status"`
	Rating            *int       `json:"rating"`
	Notes             *string    `json:"notes"`
	Images            []PdfImage `json:"images"`
}

type PdfSpotSection struct {
	Title    string      `json:"title"`
	Subtitle string      `json:"subtitle,omitempty"`
	Records  []PdfRecord `json:"records"`
}

type ExportUserMetadata struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

// ExportBundle is the versioned snapshot of one user's owned data.
type ExportBundle struct {
	Version     string             `json:"version"`
	GeneratedAt time.Time          `json:"generated_at"`
	User        ExportUserMetadata `json:"user"`
	Spots       []ExportedSpot     `json:"spots"`
	PdfDocument []PdfSpotSection   `json:"pdf_document"`
}

type ImportResult struct {
	Spots          int `json:"spots"`
	GoshuinRecords int `json:"goshuin_records"`
	SpotImages     int `json:"spot_images"`
	GoshuinImages  int `json:"goshuin_images"`
}
