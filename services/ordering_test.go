package services

import (
	"testing"
	"time"

	"github.com/egg-seed/in-stamp-archive/apperror"
	"github.com/egg-seed/in-stamp-archive/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func spotImageOrders(t *testing.T, db *gorm.DB, spotID uuid.UUID) []int {
	t.Helper()
	images, err := ListImages[models.SpotImage](db, "spot_id", spotID)
	require.NoError(t, err)
	orders := make([]int, 0, len(images))
	for _, image := range images {
		orders = append(orders, image.DisplayOrder)
	}
	return orders
}

func TestAppendSpotImage_AssignsSequentialOrders(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "append@example.com")
	spot := createTestSpot(t, db, user.ID, "meiji-jingu", "Meiji Jingu", "Tokyo")

	first := appendTestSpotImage(t, db, spot.ID, "https://cdn.example.com/a.jpg")
	second := appendTestSpotImage(t, db, spot.ID, "https://cdn.example.com/b.jpg")
	third := appendTestSpotImage(t, db, spot.ID, "https://cdn.example.com/c.jpg")

	assert.Equal(t, 0, first.DisplayOrder)
	assert.Equal(t, 1, second.DisplayOrder)
	assert.Equal(t, 2, third.DisplayOrder)
	assert.Equal(t, []int{0, 1, 2}, spotImageOrders(t, db, spot.ID))
}

func TestAppendSpotImage_FirstImageBecomesPrimary(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "primary@example.com")
	spot := createTestSpot(t, db, user.ID, "senso-ji", "Senso-ji", "Tokyo")

	first := appendTestSpotImage(t, db, spot.ID, "https://cdn.example.com/a.jpg")
	second := appendTestSpotImage(t, db, spot.ID, "https://cdn.example.com/b.jpg")

	assert.True(t, first.IsPrimary)
	assert.False(t, second.IsPrimary)
}

func TestReorderImages_AppliesPermutation(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "reorder@example.com")
	spot := createTestSpot(t, db, user.ID, "fushimi-inari", "Fushimi Inari", "Kyoto")

	a := appendTestSpotImage(t, db, spot.ID, "https://cdn.example.com/a.jpg")
	b := appendTestSpotImage(t, db, spot.ID, "https://cdn.example.com/b.jpg")
	c := appendTestSpotImage(t, db, spot.ID, "https://cdn.example.com/c.jpg")

	images, err := ReorderImages[models.SpotImage](db, "spot_id", spot.ID, []uuid.UUID{c.ID, a.ID, b.ID})
	require.NoError(t, err)

	require.Len(t, images, 3)
	assert.Equal(t, c.ID, images[0].ID)
	assert.Equal(t, a.ID, images[1].ID)
	assert.Equal(t, b.ID, images[2].ID)
	assert.Equal(t, []int{0, 1, 2}, spotImageOrders(t, db, spot.ID))
}

func TestReorderImages_RejectsDuplicateIDs(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "dup@example.com")
	spot := createTestSpot(t, db, user.ID, "kinkaku-ji", "Kinkaku-ji", "Kyoto")

	a := appendTestSpotImage(t, db, spot.ID, "https://cdn.example.com/a.jpg")
	b := appendTestSpotImage(t, db, spot.ID, "https://cdn.example.com/b.jpg")

	_, err := ReorderImages[models.SpotImage](db, "spot_id", spot.ID, []uuid.UUID{a.ID, a.ID})
	require.ErrorIs(t, err, apperror.ErrValidation)

	// Orders unchanged.
	images, err := ListImages[models.SpotImage](db, "spot_id", spot.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, images[0].ID)
	assert.Equal(t, b.ID, images[1].ID)
}

func TestReorderImages_RejectsPartialAndForeignSets(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "partial@example.com")
	spot := createTestSpot(t, db, user.ID, "todai-ji", "Todai-ji", "Nara")

	a := appendTestSpotImage(t, db, spot.ID, "https://cdn.example.com/a.jpg")
	appendTestSpotImage(t, db, spot.ID, "https://cdn.example.com/b.jpg")

	// Subset of the gallery.
	_, err := ReorderImages[models.SpotImage](db, "spot_id", spot.ID, []uuid.UUID{a.ID})
	require.ErrorIs(t, err, apperror.ErrValidation)

	// Right size but an id from nowhere.
	_, err = ReorderImages[models.SpotImage](db, "spot_id", spot.ID, []uuid.UUID{a.ID, uuid.New()})
	require.ErrorIs(t, err, apperror.ErrValidation)
}

func TestDeleteSpotImage_RenumbersAndPromotesPrimary(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "delete@example.com")
	spot := createTestSpot(t, db, user.ID, "itsukushima", "Itsukushima", "Hiroshima")

	a := appendTestSpotImage(t, db, spot.ID, "https://cdn.example.com/a.jpg")
	b := appendTestSpotImage(t, db, spot.ID, "https://cdn.example.com/b.jpg")
	c := appendTestSpotImage(t, db, spot.ID, "https://cdn.example.com/c.jpg")

	require.True(t, a.IsPrimary)
	require.NoError(t, DeleteSpotImage(db, a))

	images, err := ListImages[models.SpotImage](db, "spot_id", spot.ID)
	require.NoError(t, err)
	require.Len(t, images, 2)

	assert.Equal(t, b.ID, images[0].ID)
	assert.True(t, images[0].IsPrimary, "next image in order should inherit the primary flag")
	assert.Equal(t, c.ID, images[1].ID)
	assert.False(t, images[1].IsPrimary)
	assert.Equal(t, []int{0, 1}, spotImageOrders(t, db, spot.ID))
}

func TestDeleteSpotImage_NonPrimaryKeepsPrimary(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "keep@example.com")
	spot := createTestSpot(t, db, user.ID, "kiyomizu", "Kiyomizu-dera", "Kyoto")

	a := appendTestSpotImage(t, db, spot.ID, "https://cdn.example.com/a.jpg")
	b := appendTestSpotImage(t, db, spot.ID, "https://cdn.example.com/b.jpg")

	require.NoError(t, DeleteSpotImage(db, b))

	images, err := ListImages[models.SpotImage](db, "spot_id", spot.ID)
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, a.ID, images[0].ID)
	assert.True(t, images[0].IsPrimary)
	assert.Equal(t, 0, images[0].DisplayOrder)
}

func TestDeleteSpotImage_LastImageLeavesEmptyGallery(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "empty@example.com")
	spot := createTestSpot(t, db, user.ID, "byodo-in", "Byodo-in", "Kyoto")

	a := appendTestSpotImage(t, db, spot.ID, "https://cdn.example.com/a.jpg")
	require.NoError(t, DeleteSpotImage(db, a))

	images, err := ListImages[models.SpotImage](db, "spot_id", spot.ID)
	require.NoError(t, err)
	assert.Empty(t, images)
}

func TestClearOtherPrimaries_SingleFlagSurvives(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "flags@example.com")
	spot := createTestSpot(t, db, user.ID, "toshogu", "Nikko Toshogu", "Tochigi")

	appendTestSpotImage(t, db, spot.ID, "https://cdn.example.com/a.jpg")
	b := appendTestSpotImage(t, db, spot.ID, "https://cdn.example.com/b.jpg")

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := ClearOtherPrimaries(tx, spot.ID, b.ID); err != nil {
			return err
		}
		return tx.Model(&models.SpotImage{}).Where("id = ?", b.ID).Update("is_primary", true).Error
	})
	require.NoError(t, err)

	var primaries []models.SpotImage
	require.NoError(t, db.Where("spot_id = ? AND is_primary = ?", spot.ID, true).Find(&primaries).Error)
	require.Len(t, primaries, 1)
	assert.Equal(t, b.ID, primaries[0].ID)
}

func TestGoshuinImages_OrderingIsIndependentPerRecord(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "records@example.com")
	spot := createTestSpot(t, db, user.ID, "zenko-ji", "Zenko-ji", "Nagano")
	first := createTestRecord(t, db, user.ID, spot.ID, time.Date(2023, 1, 20, 0, 0, 0, 0, time.UTC))
	second := createTestRecord(t, db, user.ID, spot.ID, time.Date(2023, 5, 4, 0, 0, 0, 0, time.UTC))

	a := appendTestGoshuinImage(t, db, first.ID, "https://cdn.example.com/g1.jpg")
	b := appendTestGoshuinImage(t, db, first.ID, "https://cdn.example.com/g2.jpg")
	c := appendTestGoshuinImage(t, db, second.ID, "https://cdn.example.com/g3.jpg")

	assert.Equal(t, 0, a.DisplayOrder)
	assert.Equal(t, 1, b.DisplayOrder)
	assert.Equal(t, 0, c.DisplayOrder)

	require.NoError(t, DeleteGoshuinImage(db, a))

	images, err := ListImages[models.GoshuinImage](db, "goshuin_record_id", first.ID)
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, b.ID, images[0].ID)
	assert.Equal(t, 0, images[0].DisplayOrder)
}

func TestReorderGoshuinImages_AppliesPermutation(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "greorder@example.com")
	spot := createTestSpot(t, db, user.ID, "hase-dera", "Hase-dera", "Kanagawa")
	record := createTestRecord(t, db, user.ID, spot.ID, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC))

	a := appendTestGoshuinImage(t, db, record.ID, "https://cdn.example.com/g1.jpg")
	b := appendTestGoshuinImage(t, db, record.ID, "https://cdn.example.com/g2.jpg")

	images, err := ReorderImages[models.GoshuinImage](db, "goshuin_record_id", record.ID, []uuid.UUID{b.ID, a.ID})
	require.NoError(t, err)
	require.Len(t, images, 2)
	assert.Equal(t, b.ID, images[0].ID)
	assert.Equal(t, a.ID, images[1].ID)
}
