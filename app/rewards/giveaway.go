package rewards

import (
	"fmt"
	"time"

	"github.com/billix/billix-be/util"
)

const (
	GiveawayEntryCostPoints = 100
	GiveawayPrizePoints     = 5000
)

var ErrAlreadyEntered = util.NewKindError(util.ErrConflict, "already entered this week's giveaway")

// GiveawayWeek keys a giveaway by ISO week in UTC, e.g. 2026-W42
func GiveawayWeek(t time.Time) string {
	year, week := t.UTC().ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// GiveawayWeekEnd is the Monday 00:00 UTC that closes the week containing t
func GiveawayWeekEnd(t time.Time) time.Time {
	day := util.StartOfDayUTC(t)
	daysIntoWeek := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, 7-daysIntoWeek)
}

// PreviousGiveawayWeek is the most recent week that can be drawn at t
func PreviousGiveawayWeek(t time.Time) string {
	return GiveawayWeek(t.UTC().AddDate(0, 0, -7))
}
