package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/egg-seed/in-stamp-archive/apperror"
	"github.com/egg-seed/in-stamp-archive/models"
	"github.com/egg-seed/in-stamp-archive/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var csvHeader = []string{
	"spot_id", "spot_name", "spot_slug", "spot_type", "prefecture", "city",
	"visit_date", "acquisition_method", "status", "rating", "notes",
}

// ExportService serializes one user's full ownership tree into a portable
// bundle and reconstructs equivalent state from a previously exported one.
type ExportService struct{}

func NewExportService() *ExportService {
	return &ExportService{}
}

// BuildBundle loads the user's spots with their images and the user's goshuin
// records eagerly, and sorts every level deterministically: spots by name,
// images by (display_order, created_at), records by (visit_date, created_at).
func (s *ExportService) BuildBundle(db *gorm.DB, user *models.User) (*types.ExportBundle, error) {
	var spots []models.Spot
	err := db.Where("user_id = ?", user.ID).
		Preload("Images").
		Preload("GoshuinRecords", "user_id = ?", user.ID).
		Preload("GoshuinRecords.Images").
		Order("name ASC").
		Find(&spots).Error
	if err != nil {
		return nil, err
	}

	exportedSpots := make([]types.ExportedSpot, 0, len(spots))
	for _, spot := range spots {
		sortSpotImages(spot.Images)
		sortGoshuinRecords(spot.GoshuinRecords)

		exportedRecords := make([]types.ExportedGoshuinRecord, 0, len(spot.GoshuinRecords))
		for _, record := range spot.GoshuinRecords {
			sortGoshuinImages(record.Images)

			exportedImages := make([]types.ExportedGoshuinImage, 0, len(record.Images))
			for _, image := range record.Images {
				exportedImages = append(exportedImages, types.ExportedGoshuinImage{
					ID:           image.ID,
					ImageURL:     image.ImageURL,
					ThumbnailURL: image.ThumbnailURL,
					ImageType:    image.ImageType,
					DisplayOrder: image.DisplayOrder,
					CreatedAt:    image.CreatedAt,
				})
			}

			exportedRecords = append(exportedRecords, types.ExportedGoshuinRecord{
				ID:                record.ID,
				UserID:            record.UserID,
				SpotID:            record.SpotID,
				VisitDate:         record.VisitDate,
				AcquisitionMethod: record.AcquisitionMethod,
				Status:            record.Status,
				Rating:            record.Rating,
				Notes:             record.Notes,
				CreatedAt:         record.CreatedAt,
				UpdatedAt:         record.UpdatedAt,
				Images:            exportedImages,
			})
		}

		exportedImages := make([]types.ExportedSpotImage, 0, len(spot.Images))
		for _, image := range spot.Images {
			exportedImages = append(exportedImages, types.ExportedSpotImage{
				ID:           image.ID,
				ImageURL:     image.ImageURL,
				ThumbnailURL: image.ThumbnailURL,
				ImageType:    image.ImageType,
				IsPrimary:    image.IsPrimary,
				DisplayOrder: image.DisplayOrder,
				CreatedAt:    image.CreatedAt,
			})
		}

		exportedSpots = append(exportedSpots, types.ExportedSpot{
			ID:             spot.ID,
			UserID:         spot.UserID,
			Slug:           spot.Slug,
			Name:           spot.Name,
			SpotType:       spot.SpotType,
			Prefecture:     spot.Prefecture,
			City:           spot.City,
			Address:        spot.Address,
			Latitude:       spot.Latitude,
			Longitude:      spot.Longitude,
			Description:    spot.Description,
			WebsiteURL:     spot.WebsiteURL,
			PhoneNumber:    spot.PhoneNumber,
			CreatedAt:      spot.CreatedAt,
			UpdatedAt:      spot.UpdatedAt,
			Images:         exportedImages,
			GoshuinRecords: exportedRecords,
		})
	}

	return &types.ExportBundle{
		Version:     types.ExportBundleVersion,
		GeneratedAt: time.Now().UTC(),
		User:        types.ExportUserMetadata{ID: user.ID, Email: user.Email},
		Spots:       exportedSpots,
		PdfDocument: buildPdfSections(exportedSpots),
	}, nil
}

// WriteCSV writes the flattened rendering: one row per (spot, record) pair.
// Spots with no records still emit one row with blank record fields.
func (s *ExportService) WriteCSV(w io.Writer, bundle *types.ExportBundle) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}

	for _, spot := range bundle.Spots {
		if len(spot.GoshuinRecords) == 0 {
			row := spotCSVColumns(spot)
			row = append(row, "", "", "", "", "")
			if err := writer.Write(row); err != nil {
				return err
			}
			continue
		}
		for _, record := range spot.GoshuinRecords {
			row := spotCSVColumns(spot)
			rating := ""
			if record.Rating != nil {
				rating = fmt.Sprintf("%d", *record.Rating)
			}
			notes := ""
			if record.Notes != nil {
				notes = *record.Notes
			}
			row = append(row,
				record.VisitDate.Format("2006-01-02"),
				string(record.AcquisitionMethod),
				string(record.Status),
				rating,
				notes,
			)
			if err := writer.Write(row); err != nil {
				return err
			}
		}
	}

	writer.Flush()
	return writer.Error()
}

// Import upserts every spot, image, record and record image from the bundle,
// re-stamped with the caller's user id, in a single transaction. A bundle
// belonging to another user is rejected with no partial effect.
func (s *ExportService) Import(db *gorm.DB, user *models.User, bundle *types.ExportBundle) (*types.ImportResult, error) {
	if bundle.User.ID != user.ID {
		return nil, apperror.Validation("user", "Export bundle does not belong to the authenticated user")
	}

	result := &types.ImportResult{}
	upsert := clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		for _, exportedSpot := range bundle.Spots {
			spot := models.Spot{
				ID:          exportedSpot.ID,
				UserID:      user.ID,
				Slug:        exportedSpot.Slug,
				Name:        exportedSpot.Name,
				SpotType:    exportedSpot.SpotType,
				Prefecture:  exportedSpot.Prefecture,
				City:        exportedSpot.City,
				Address:     exportedSpot.Address,
				Latitude:    exportedSpot.Latitude,
				Longitude:   exportedSpot.Longitude,
				Description: exportedSpot.Description,
				WebsiteURL:  exportedSpot.WebsiteURL,
				PhoneNumber: exportedSpot.PhoneNumber,
				CreatedAt:   exportedSpot.CreatedAt,
				UpdatedAt:   exportedSpot.UpdatedAt,
			}
			if err := tx.Clauses(upsert).Create(&spot).Error; err != nil {
				return err
			}
			result.Spots++

			for _, exportedImage := range exportedSpot.Images {
				image := models.SpotImage{
					ID:           exportedImage.ID,
					SpotID:       spot.ID,
					ImageURL:     exportedImage.ImageURL,
					ThumbnailURL: exportedImage.ThumbnailURL,
					ImageType:    exportedImage.ImageType,
					IsPrimary:    exportedImage.IsPrimary,
					DisplayOrder: exportedImage.DisplayOrder,
					CreatedAt:    exportedImage.CreatedAt,
				}
				if err := tx.Clauses(upsert).Create(&image).Error; err != nil {
					return err
				}
				result.SpotImages++
			}

			for _, exportedRecord := range exportedSpot.GoshuinRecords {
				record := models.GoshuinRecord{
					ID:                exportedRecord.ID,
					UserID:            user.ID,
					SpotID:            spot.ID,
					VisitDate:         exportedRecord.VisitDate,
					AcquisitionMethod: exportedRecord.AcquisitionMethod,
					Status:            exportedRecord.Status,
					Rating:            exportedRecord.Rating,
					Notes:             exportedRecord.Notes,
					CreatedAt:         exportedRecord.CreatedAt,
					UpdatedAt:         exportedRecord.UpdatedAt,
				}
				if err := tx.Clauses(upsert).Create(&record).Error; err != nil {
					return err
				}
				result.GoshuinRecords++

				for _, exportedImage := range exportedRecord.Images {
					image := models.GoshuinImage{
						ID:              exportedImage.ID,
						GoshuinRecordID: record.ID,
						ImageURL:        exportedImage.ImageURL,
						ThumbnailURL:    exportedImage.ThumbnailURL,
						ImageType:       exportedImage.ImageType,
						DisplayOrder:    exportedImage.DisplayOrder,
						CreatedAt:       exportedImage.CreatedAt,
					}
					if err := tx.Clauses(upsert).Create(&image).Error; err != nil {
						return err
					}
					result.GoshuinImages++
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func buildPdfSections(spots []types.ExportedSpot) []types.PdfSpotSection {
	sections := make([]types.PdfSpotSection, 0, len(spots))
	for _, spot := range spots {
		subtitle := spot.Prefecture
		if spot.City != nil && *spot.City != "" {
			subtitle = subtitle + " · " + *spot.City
		}

		records := make([]types.PdfRecord, 0, len(spot.GoshuinRecords))
		for _, record := range spot.GoshuinRecords {
			images := make([]types.PdfImage, 0, len(record.Images))
			for _, image := range record.Images {
				images = append(images, types.PdfImage{
					URL:       image.ImageURL,
					ImageType: string(image.ImageType),
					Order:     image.DisplayOrder,
				})
			}
			records = append(records, types.PdfRecord{
				VisitDate:         record.VisitDate,
				AcquisitionMethod: string(record.AcquisitionMethod),
				Status:            string(record.Status),
				Rating:            record.Rating,
				Notes:             record.Notes,
				Images:            images,
			})
		}

		sections = append(sections, types.PdfSpotSection{
			Title:    spot.Name,
			Subtitle: subtitle,
			Records:  records,
		})
	}
	return sections
}

func spotCSVColumns(spot types.ExportedSpot) []string {
	city := ""
	if spot.City != nil {
		city = *spot.City
	}
	return []string{
		spot.ID.String(),
		spot.Name,
		spot.Slug,
		string(spot.SpotType),
		spot.Prefecture,
		city,
	}
}

func sortSpotImages(images []models.SpotImage) {
	sort.SliceStable(images, func(i, j int) bool {
		if images[i].DisplayOrder != images[j].DisplayOrder {
			return images[i].DisplayOrder < images[j].DisplayOrder
		}
		return images[i].CreatedAt.Before(images[j].CreatedAt)
	})
}

func sortGoshuinImages(images []models.GoshuinImage) {
	sort.SliceStable(images, func(i, j int) bool {
		if images[i].DisplayOrder != images[j].DisplayOrder {
			return images[i].DisplayOrder < images[j].DisplayOrder
		}
		return images[i].CreatedAt.Before(images[j].CreatedAt)
	})
}

func sortGoshuinRecords(records []models.GoshuinRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if !records[i].VisitDate.Equal(records[j].VisitDate) {
			return records[i].VisitDate.Before(records[j].VisitDate)
		}
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})
}
