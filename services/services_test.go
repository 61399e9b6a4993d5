package services

import (
	"testing"
	"time"

	"github.com/egg-seed/in-stamp-archive/models"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to open test db")

	err = db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Spot{},
		&models.SpotImage{},
		&models.GoshuinRecord{},
		&models.GoshuinImage{},
	)
	require.NoError(t, err, "failed to migrate test db")

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{Email: email, HashedPassword: "not-a-real-hash"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestSpot(t *testing.T, db *gorm.DB, userID uuid.UUID, slug, name, prefecture string) *models.Spot {
	t.Helper()
	spot := &models.Spot{
		UserID:     userID,
		Slug:       slug,
		Name:       name,
		SpotType:   models.SpotTypeShrine,
		Prefecture: prefecture,
	}
	require.NoError(t, db.Create(spot).Error)
	return spot
}

func createTestRecord(t *testing.T, db *gorm.DB, userID, spotID uuid.UUID, visitDate time.Time) *models.GoshuinRecord {
	t.Helper()
	record := &models.GoshuinRecord{
		UserID:            userID,
		SpotID:            spotID,
		VisitDate:         visitDate,
		AcquisitionMethod: models.AcquisitionInPerson,
		Status:            models.GoshuinStatusCollected,
	}
	require.NoError(t, db.Create(record).Error)
	return record
}

func appendTestSpotImage(t *testing.T, db *gorm.DB, spotID uuid.UUID, url string) *models.SpotImage {
	t.Helper()
	image := &models.SpotImage{
		SpotID:    spotID,
		ImageURL:  url,
		ImageType: models.SpotImageTypeExterior,
	}
	require.NoError(t, AppendSpotImage(db, image))
	return image
}

func appendTestGoshuinImage(t *testing.T, db *gorm.DB, recordID uuid.UUID, url string) *models.GoshuinImage {
	t.Helper()
	image := &models.GoshuinImage{
		GoshuinRecordID: recordID,
		ImageURL:        url,
		ImageType:       models.GoshuinImageTypeStampFront,
	}
	require.NoError(t, AppendGoshuinImage(db, image))
	return image
}
