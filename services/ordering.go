package services

import (
	"database/sql"
	"errors"

	"github.com/egg-seed/in-stamp-archive/apperror"
	"github.com/egg-seed/in-stamp-archive/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderedImage constrains the two gallery image kinds sharing the dense
// display_order invariant: after any mutation the orders of a parent's images
// are exactly {0..N-1}.
type OrderedImage interface {
	models.SpotImage | models.GoshuinImage
	ImageID() uuid.UUID
	ImageOrder() int
}

// NextDisplayOrder returns 1 + max(display_order) for the parent, or 0 when
// the parent has no images yet.
func NextDisplayOrder[T OrderedImage](tx *gorm.DB, parentColumn string, parentID uuid.UUID) (int, error) {
	var model T
	var max sql.NullInt64
	err := tx.Model(&model).
		Where(parentColumn+" = ?", parentID).
		Select("MAX(display_order)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if !max.Valid {
		return 0, nil
	}
	return int(max.Int64) + 1, nil
}

// ListImages returns the parent's images in presentation order.
func ListImages[T OrderedImage](db *gorm.DB, parentColumn string, parentID uuid.UUID) ([]T, error) {
	var images []T
	err := db.Where(parentColumn+" = ?", parentID).
		Order("display_order ASC, created_at ASC").
		Find(&images).Error
	return images, err
}

// ReorderImages assigns display_order = index for each id in orderedIDs. The
// request must be an exact permutation of the parent's current image ids;
// anything else fails validation with no rows changed.
//
// The unique (parent, display_order) index makes a direct overwrite collide
// mid-update, so the reassignment happens in two phases inside one
// transaction: every row first moves to the disjoint negative range
// -(index+1), then to its final index.
func ReorderImages[T OrderedImage](db *gorm.DB, parentColumn string, parentID uuid.UUID, orderedIDs []uuid.UUID) ([]T, error) {
	requested := make(map[uuid.UUID]struct{}, len(orderedIDs))
	for _, id := range orderedIDs {
		if _, dup := requested[id]; dup {
			return nil, apperror.Validation("image_ids", "Duplicate image IDs provided")
		}
		requested[id] = struct{}{}
	}

	current, err := ListImages[T](db, parentColumn, parentID)
	if err != nil {
		return nil, err
	}
	if len(current) != len(orderedIDs) {
		return nil, apperror.Validation("image_ids", "Provided image IDs do not match existing images")
	}
	for _, image := range current {
		if _, ok := requested[image.ImageID()]; !ok {
			return nil, apperror.Validation("image_ids", "Provided image IDs do not match existing images")
		}
	}

	var model T
	err = db.Transaction(func(tx *gorm.DB) error {
		for index, id := range orderedIDs {
			if err := tx.Model(&model).Where("id = ?", id).
				Update("display_order", -(index + 1)).Error; err != nil {
				return err
			}
		}
		for index, id := range orderedIDs {
			if err := tx.Model(&model).Where("id = ?", id).
				Update("display_order", index).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return ListImages[T](db, parentColumn, parentID)
}

// NormalizeDisplayOrder renumbers the parent's images to a dense 0-based
// sequence in (display_order, created_at) order. Rows only ever move to a
// lower free slot, so sequential updates cannot trip the unique index.
func NormalizeDisplayOrder[T OrderedImage](tx *gorm.DB, parentColumn string, parentID uuid.UUID) error {
	images, err := ListImages[T](tx, parentColumn, parentID)
	if err != nil {
		return err
	}
	var model T
	for index, image := range images {
		if image.ImageOrder() == index {
			continue
		}
		if err := tx.Model(&model).Where("id = ?", image.ImageID()).
			Update("display_order", index).Error; err != nil {
			return err
		}
	}
	return nil
}

// AppendSpotImage inserts the image at the end of the spot's gallery. The
// first image ever uploaded for a spot becomes its primary image.
func AppendSpotImage(db *gorm.DB, image *models.SpotImage) error {
	return db.Transaction(func(tx *gorm.DB) error {
		order, err := NextDisplayOrder[models.SpotImage](tx, "spot_id", image.SpotID)
		if err != nil {
			return err
		}

		var primaryCount int64
		if err := tx.Model(&models.SpotImage{}).
			Where("spot_id = ? AND is_primary = ?", image.SpotID, true).
			Count(&primaryCount).Error; err != nil {
			return err
		}

		image.DisplayOrder = order
		image.IsPrimary = primaryCount == 0
		return tx.Create(image).Error
	})
}

// AppendGoshuinImage inserts the image at the end of the record's gallery.
func AppendGoshuinImage(db *gorm.DB, image *models.GoshuinImage) error {
	return db.Transaction(func(tx *gorm.DB) error {
		order, err := NextDisplayOrder[models.GoshuinImage](tx, "goshuin_record_id", image.GoshuinRecordID)
		if err != nil {
			return err
		}
		image.DisplayOrder = order
		return tx.Create(image).Error
	})
}

// DeleteSpotImage removes the image, promotes the next image in
// (display_order, created_at) order when the primary was deleted, and
// renumbers the rest.
func DeleteSpotImage(db *gorm.DB, image *models.SpotImage) error {
	return db.Transaction(func(tx *gorm.DB) error {
		wasPrimary := image.IsPrimary
		if err := tx.Delete(&models.SpotImage{}, "id = ?", image.ID).Error; err != nil {
			return err
		}

		if wasPrimary {
			var next models.SpotImage
			err := tx.Where("spot_id = ?", image.SpotID).
				Order("display_order ASC, created_at ASC").
				First(&next).Error
			switch {
			case err == nil:
				if err := tx.Model(&next).Update("is_primary", true).Error; err != nil {
					return err
				}
			case !errors.Is(err, gorm.ErrRecordNotFound):
				return err
			}
		}

		return NormalizeDisplayOrder[models.SpotImage](tx, "spot_id", image.SpotID)
	})
}

// DeleteGoshuinImage removes the image and renumbers the rest.
func DeleteGoshuinImage(db *gorm.DB, image *models.GoshuinImage) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.GoshuinImage{}, "id = ?", image.ID).Error; err != nil {
			return err
		}
		return NormalizeDisplayOrder[models.GoshuinImage](tx, "goshuin_record_id", image.GoshuinRecordID)
	})
}

// ClearOtherPrimaries drops the primary flag from every sibling of imageID.
// Called before setting is_primary on imageID so the one-primary invariant
// holds at commit.
func ClearOtherPrimaries(tx *gorm.DB, spotID, imageID uuid.UUID) error {
	return tx.Model(&models.SpotImage{}).
		Where("spot_id = ? AND id <> ?", spotID, imageID).
		Update("is_primary", false).Error
}
