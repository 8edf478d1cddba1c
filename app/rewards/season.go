package rewards

import (
	"fmt"
	"time"

	"github.com/billix/billix-be/model"
)

const (
	SeasonPointsPerLevel = 500
	MaxSeasonLevel       = 10
)

// seasons are UTC calendar quarters
var seasonNames = [4]string{"Winter", "Spring", "Summer", "Fall"}

func SeasonFor(t time.Time) *model.Season {
	t = t.UTC()
	quarter := (int(t.Month()) - 1) / 3
	start := time.Date(t.Year(), time.Month(quarter*3+1), 1, 0, 0, 0, 0, time.UTC)
	return &model.Season{
		Id:       fmt.Sprintf("%d-Q%d", t.Year(), quarter+1),
		Name:     fmt.Sprintf("%s %d", seasonNames[quarter], t.Year()),
		StartsAt: start,
		EndsAt:   start.AddDate(0, 3, 0),
	}
}

func SeasonLevel(seasonPoints int64) int {
	if seasonPoints <= 0 {
		return 0
	}
	level := seasonPoints / SeasonPointsPerLevel
	if level > MaxSeasonLevel {
		return MaxSeasonLevel
	}
	return int(level)
}

// SeasonLevelProgress is the fraction of the current level completed. The
// last level reports 1.
func SeasonLevelProgress(seasonPoints int64) float64 {
	level := SeasonLevel(seasonPoints)
	if level == MaxSeasonLevel {
		return 1
	}
	if seasonPoints <= 0 {
		return 0
	}
	return clamp01(float64(seasonPoints-int64(level)*SeasonPointsPerLevel) / SeasonPointsPerLevel)
}

func BuildSeasonProgress(season *model.Season, seasonPoints int64) *model.SeasonProgress {
	level := SeasonLevel(seasonPoints)
	var toNext int64
	if level < MaxSeasonLevel {
		if seasonPoints < 0 {
			seasonPoints = 0
		}
		toNext = int64(level+1)*SeasonPointsPerLevel - seasonPoints
	}
	return &model.SeasonProgress{
		Season:            season,
		Points:            seasonPoints,
		Level:             level,
		MaxLevel:          MaxSeasonLevel,
		LevelProgress:     SeasonLevelProgress(seasonPoints),
		PointsToNextLevel: toNext,
	}
}
