package services

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/egg-seed/in-stamp-archive/apperror"
	"github.com/egg-seed/in-stamp-archive/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func TestBuildBundle_OrdersSpotsImagesAndRecords(t *testing.T) {
	db := newTestDB(t)
	svc := NewExportService()
	user := createTestUser(t, db, "bundle@example.com")

	// Created out of name order on purpose.
	zen := createTestSpot(t, db, user.ID, "zenko-ji", "Zenko-ji", "Nagano")
	asa := createTestSpot(t, db, user.ID, "senso-ji", "Asakusa Senso-ji", "Tokyo")

	late := createTestRecord(t, db, user.ID, asa.ID, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	early := createTestRecord(t, db, user.ID, asa.ID, time.Date(2023, 1, 20, 0, 0, 0, 0, time.UTC))

	first := appendTestSpotImage(t, db, asa.ID, "https://cdn.example.com/a.jpg")
	second := appendTestSpotImage(t, db, asa.ID, "https://cdn.example.com/b.jpg")

	bundle, err := svc.BuildBundle(db, user)
	require.NoError(t, err)

	assert.Equal(t, "1.0", bundle.Version)
	assert.Equal(t, user.ID, bundle.User.ID)
	require.Len(t, bundle.Spots, 2)

	// Spots sorted by name.
	assert.Equal(t, asa.ID, bundle.Spots[0].ID)
	assert.Equal(t, zen.ID, bundle.Spots[1].ID)

	// Images sorted by display order.
	require.Len(t, bundle.Spots[0].Images, 2)
	assert.Equal(t, first.ID, bundle.Spots[0].Images[0].ID)
	assert.Equal(t, second.ID, bundle.Spots[0].Images[1].ID)

	// Records sorted by visit date.
	require.Len(t, bundle.Spots[0].GoshuinRecords, 2)
	assert.Equal(t, early.ID, bundle.Spots[0].GoshuinRecords[0].ID)
	assert.Equal(t, late.ID, bundle.Spots[0].GoshuinRecords[1].ID)

	// Document sections mirror the spot order.
	require.Len(t, bundle.PdfDocument, 2)
	assert.Equal(t, "Asakusa Senso-ji", bundle.PdfDocument[0].Title)
	assert.Equal(t, "Tokyo", bundle.PdfDocument[0].Subtitle)
}

func TestBuildBundle_ExcludesOtherUsersData(t *testing.T) {
	db := newTestDB(t)
	svc := NewExportService()
	owner := createTestUser(t, db, "owner@example.com")
	other := createTestUser(t, db, "other@example.com")
	createTestSpot(t, db, other.ID, "not-yours", "Not Yours", "Osaka")

	bundle, err := svc.BuildBundle(db, owner)
	require.NoError(t, err)
	assert.Empty(t, bundle.Spots)
}

func TestWriteCSV_OneRowPerRecordAndBlankRowForRecordlessSpots(t *testing.T) {
	db := newTestDB(t)
	svc := NewExportService()
	user := createTestUser(t, db, "csv@example.com")

	visited := createTestSpot(t, db, user.ID, "test-spot", "Test Spot", "Tokyo")
	record := &models.GoshuinRecord{
		UserID:            user.ID,
		SpotID:            visited.ID,
		VisitDate:         time.Date(2023, 1, 20, 0, 0, 0, 0, time.UTC),
		AcquisitionMethod: models.AcquisitionInPerson,
		Status:            models.GoshuinStatusCollected,
		Rating:            intPtr(5),
		Notes:             strPtr("Memorable visit"),
	}
	require.NoError(t, db.Create(record).Error)

	empty := createTestSpot(t, db, user.ID, "wishlist-spot", "Wishlist Spot", "Kyoto")

	bundle, err := svc.BuildBundle(db, user)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, svc.WriteCSV(&buf, bundle))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3, "header plus one row per spot")

	assert.Equal(t, csvHeader, rows[0])

	// Spots sort by name: Test Spot then Wishlist Spot.
	assert.Equal(t, visited.ID.String(), rows[1][0])
	assert.Equal(t, "Test Spot", rows[1][1])
	assert.Equal(t, "Tokyo", rows[1][4])
	assert.Equal(t, "2023-01-20", rows[1][6])
	assert.Equal(t, "in_person", rows[1][7])
	assert.Equal(t, "collected", rows[1][8])
	assert.Equal(t, "5", rows[1][9])
	assert.Equal(t, "Memorable visit", rows[1][10])

	assert.Equal(t, empty.ID.String(), rows[2][0])
	for column := 6; column <= 10; column++ {
		assert.Empty(t, rows[2][column], "recordless spot should emit blank record columns")
	}
}

func TestImport_RoundTripRestoresWipedData(t *testing.T) {
	db := newTestDB(t)
	svc := NewExportService()
	user := createTestUser(t, db, "roundtrip@example.com")

	spot := createTestSpot(t, db, user.ID, "test-spot", "Test Spot", "Tokyo")
	record := createTestRecord(t, db, user.ID, spot.ID, time.Date(2023, 1, 20, 0, 0, 0, 0, time.UTC))
	image := appendTestSpotImage(t, db, spot.ID, "https://cdn.example.com/a.jpg")
	gimage := appendTestGoshuinImage(t, db, record.ID, "https://cdn.example.com/g.jpg")

	bundle, err := svc.BuildBundle(db, user)
	require.NoError(t, err)

	// Wipe everything the user owns.
	require.NoError(t, db.Where("1 = 1").Delete(&models.GoshuinImage{}).Error)
	require.NoError(t, db.Where("1 = 1").Delete(&models.SpotImage{}).Error)
	require.NoError(t, db.Where("1 = 1").Delete(&models.GoshuinRecord{}).Error)
	require.NoError(t, db.Where("1 = 1").Delete(&models.Spot{}).Error)

	result, err := svc.Import(db, user, bundle)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Spots)
	assert.Equal(t, 1, result.GoshuinRecords)
	assert.Equal(t, 1, result.SpotImages)
	assert.Equal(t, 1, result.GoshuinImages)

	var restoredSpot models.Spot
	require.NoError(t, db.First(&restoredSpot, "id = ?", spot.ID).Error)
	assert.Equal(t, "Test Spot", restoredSpot.Name)
	assert.Equal(t, user.ID, restoredSpot.UserID)

	var restoredRecord models.GoshuinRecord
	require.NoError(t, db.First(&restoredRecord, "id = ?", record.ID).Error)
	assert.Equal(t, spot.ID, restoredRecord.SpotID)

	var restoredImage models.SpotImage
	require.NoError(t, db.First(&restoredImage, "id = ?", image.ID).Error)
	assert.True(t, restoredImage.IsPrimary)

	var restoredGoshuinImage models.GoshuinImage
	require.NoError(t, db.First(&restoredGoshuinImage, "id = ?", gimage.ID).Error)
	assert.Equal(t, record.ID, restoredGoshuinImage.GoshuinRecordID)
}

func TestImport_IsIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewExportService()
	user := createTestUser(t, db, "idempotent@example.com")

	spot := createTestSpot(t, db, user.ID, "test-spot", "Test Spot", "Tokyo")
	createTestRecord(t, db, user.ID, spot.ID, time.Date(2023, 1, 20, 0, 0, 0, 0, time.UTC))

	bundle, err := svc.BuildBundle(db, user)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err = svc.Import(db, user, bundle)
		require.NoError(t, err)
	}

	var spotCount, recordCount int64
	require.NoError(t, db.Model(&models.Spot{}).Count(&spotCount).Error)
	require.NoError(t, db.Model(&models.GoshuinRecord{}).Count(&recordCount).Error)
	assert.EqualValues(t, 1, spotCount)
	assert.EqualValues(t, 1, recordCount)
}

func TestImport_RejectsBundleOfAnotherUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewExportService()
	owner := createTestUser(t, db, "bundleowner@example.com")
	intruder := createTestUser(t, db, "intruder@example.com")

	createTestSpot(t, db, owner.ID, "test-spot", "Test Spot", "Tokyo")
	bundle, err := svc.BuildBundle(db, owner)
	require.NoError(t, err)

	_, err = svc.Import(db, intruder, bundle)
	require.ErrorIs(t, err, apperror.ErrValidation)

	var count int64
	require.NoError(t, db.Model(&models.Spot{}).Where("user_id = ?", intruder.ID).Count(&count).Error)
	assert.Zero(t, count, "rejected import must leave no partial rows")
}
