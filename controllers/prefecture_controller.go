package controllers

import (
	"net/http"
	"sort"

	"github.com/egg-seed/in-stamp-archive/models"
	"github.com/egg-seed/in-stamp-archive/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type PrefectureController struct {
	DB *gorm.DB
}

func NewPrefectureController(db *gorm.DB) *PrefectureController {
	return &PrefectureController{DB: db}
}

type PrefectureStats struct {
	Prefecture   string `json:"prefecture"`
	SpotCount    int64  `json:"spot_count"`
	GoshuinCount int64  `json:"goshuin_count"`
}

type prefectureCount struct {
	Prefecture string
	Count      int64
}

// Stats aggregates the caller's spots and goshuin records per prefecture.
// Prefectures with spots but no records still appear with a zero count.
func (pc *PrefectureController) Stats(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var spotCounts []prefectureCount
	err := pc.DB.Model(&models.Spot{}).
		Select("prefecture, COUNT(*) AS count").
		Where("user_id = ?", user.UserID).
		Group("prefecture").
		Scan(&spotCounts).Error
	if err != nil {
		handleError(c, err)
		return
	}

	var goshuinCounts []prefectureCount
	err = pc.DB.Model(&models.GoshuinRecord{}).
		Select("spots.prefecture AS prefecture, COUNT(*) AS count").
		Joins("JOIN spots ON spots.id = goshuin_records.spot_id").
		Where("goshuin_records.user_id = ?", user.UserID).
		Group("spots.prefecture").
		Scan(&goshuinCounts).Error
	if err != nil {
		handleError(c, err)
		return
	}

	merged := map[string]*PrefectureStats{}
	for _, row := range spotCounts {
		merged[row.Prefecture] = &PrefectureStats{Prefecture: row.Prefecture, SpotCount: row.Count}
	}
	for _, row := range goshuinCounts {
		entry, ok := merged[row.Prefecture]
		if !ok {
			entry = &PrefectureStats{Prefecture: row.Prefecture}
			merged[row.Prefecture] = entry
		}
		entry.GoshuinCount = row.Count
	}

	stats := make([]PrefectureStats, 0, len(merged))
	var totalSpots, totalGoshuin int64
	for _, entry := range merged {
		stats = append(stats, *entry)
		totalSpots += entry.SpotCount
		totalGoshuin += entry.GoshuinCount
	}
	sort.Slice(stats, func(i, j int) bool {
		return stats[i].Prefecture < stats[j].Prefecture
	})

	c.JSON(http.StatusOK, gin.H{
		"by_prefecture":     stats,
		"total_prefectures": len(stats),
		"total_spots":       totalSpots,
		"total_goshuin":     totalGoshuin,
	})
}
