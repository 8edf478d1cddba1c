package controllers

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/billix/billix-be/app/rewards"
	"github.com/billix/billix-be/db"
	"github.com/billix/billix-be/logging"
	"github.com/billix/billix-be/metrics"
	"github.com/billix/billix-be/model"
	"github.com/billix/billix-be/util"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const checkInDayLayout = "2006-01-02"

type RewardsController struct {
	db      db.RewardsDatabase
	catalog *rewards.Catalog
	now     func() time.Time
	pick    func(n int64) int64
	log     *logrus.Entry
}

func NewRewardsController(db db.RewardsDatabase, catalog *rewards.Catalog) *RewardsController {
	return &RewardsController{
		db:      db,
		catalog: catalog,
		now:     time.Now,
		pick:    rand.Int64N,
		log:     logging.Component("rewards"),
	}
}

func (rc *RewardsController) GetBalance(c context.Context, userId string) (*model.Balance, *util.HTTPError) {
	account, err := rc.db.GetRewardAccount(c, userId)
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return rewards.BuildBalance(account), nil
}

func (rc *RewardsController) ListTransactions(c context.Context, query *db.TransactionsListQuery) ([]*model.RewardTransaction, *util.HTTPError) {
	transactions, err := rc.db.GetTransactions(c, query)
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return transactions, nil
}

type QuizResult struct {
	Score         float64        `json:"score"`
	PointsAwarded int64          `json:"pointsAwarded"`
	Balance       *model.Balance `json:"balance"`
}

// SubmitQuiz awards points once per quiz and user
func (rc *RewardsController) SubmitQuiz(c context.Context, userId string, quizId string, correct int, total int) (*QuizResult, *util.HTTPError) {
	if err := rewards.ValidateQuizSubmission(quizId, correct, total); err != nil {
		return nil, util.BuildAppHTTPErr(err)
	}
	points := rewards.QuizPoints(correct, total)
	account, err := rc.earn(c, &db.PointsChange{
		UserId:      userId,
		Points:      points,
		Source:      model.SourceQuiz,
		ReferenceId: quizId,
	})
	if err != nil {
		if db.IsDupKeyErr(err) {
			return nil, util.BuildAppHTTPErr(rewards.ErrQuizAlreadySubmitted)
		}
		return nil, util.BuildAppHTTPErr(err)
	}
	return &QuizResult{
		Score:         rewards.QuizScore(correct, total),
		PointsAwarded: points,
		Balance:       rewards.BuildBalance(account),
	}, nil
}

// DailyCheckIn awards points once per UTC day
func (rc *RewardsController) DailyCheckIn(c context.Context, userId string) (*model.Balance, *util.HTTPError) {
	account, err := rc.earn(c, &db.PointsChange{
		UserId:      userId,
		Points:      rewards.DailyCheckInPoints,
		Source:      model.SourceDailyCheckIn,
		ReferenceId: util.StartOfDayUTC(rc.now()).Format(checkInDayLayout),
	})
	if err != nil {
		if db.IsDupKeyErr(err) {
			return nil, util.BuildAppHTTPErr(rewards.ErrAlreadyCheckedIn)
		}
		return nil, util.BuildAppHTTPErr(err)
	}
	return rewards.BuildBalance(account), nil
}

// AwardPostPoints credits the author of a new post. Failures are returned but
// callers may treat them as non-fatal.
func (rc *RewardsController) AwardPostPoints(c context.Context, userId string, postId string) error {
	_, err := rc.earn(c, &db.PointsChange{
		UserId:      userId,
		Points:      rewards.PostPoints,
		Source:      model.SourcePost,
		ReferenceId: postId,
	})
	return err
}

func (rc *RewardsController) ListCatalog() []*model.CatalogItem {
	return rc.catalog.Items()
}

type RedemptionResult struct {
	Item    *model.CatalogItem `json:"item"`
	Balance *model.Balance     `json:"balance"`
}

func (rc *RewardsController) Redeem(c context.Context, userId string, itemId string) (*RedemptionResult, *util.HTTPError) {
	item, err := rc.catalog.Find(itemId)
	if err != nil {
		return nil, util.BuildAppHTTPErr(err)
	}
	account, err := rc.db.SpendPoints(c, &db.PointsChange{
		UserId:      userId,
		Points:      item.PointsCost,
		Source:      model.SourceRedemption,
		ReferenceId: uuid.NewString(),
	})
	if err != nil {
		return nil, util.BuildAppHTTPErr(err)
	}
	metrics.PointsSpent.WithLabelValues(string(model.SourceRedemption)).Add(float64(item.PointsCost))
	return &RedemptionResult{
		Item:    item,
		Balance: rewards.BuildBalance(account),
	}, nil
}

// GetSeason reports the caller's progress through the current quarterly season
func (rc *RewardsController) GetSeason(c context.Context, userId string) (*model.SeasonProgress, *util.HTTPError) {
	season := rewards.SeasonFor(rc.now())
	points, err := rc.db.SumEarnedPoints(c, userId, season.StartsAt, season.EndsAt)
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return rewards.BuildSeasonProgress(season, points), nil
}

func (rc *RewardsController) GetGiveaway(c context.Context, userId string) (*model.Giveaway, *util.HTTPError) {
	now := rc.now()
	week := rewards.GiveawayWeek(now)
	entries, err := rc.db.GetGiveawayEntryCount(c, week)
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	entered, err := rc.db.HasGiveawayEntry(c, week, userId)
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	lastDraw, err := rc.db.GetGiveawayDraw(c, rewards.PreviousGiveawayWeek(now))
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return &model.Giveaway{
		Week:            week,
		EndsAt:          rewards.GiveawayWeekEnd(now),
		EntryCostPoints: rewards.GiveawayEntryCostPoints,
		PrizePoints:     rewards.GiveawayPrizePoints,
		Entries:         entries,
		Entered:         entered,
		LastDraw:        lastDraw,
	}, nil
}

type GiveawayEntryResult struct {
	Week    string         `json:"week"`
	Balance *model.Balance `json:"balance"`
}

// EnterGiveaway spends the entry cost once per user and week
func (rc *RewardsController) EnterGiveaway(c context.Context, userId string) (*GiveawayEntryResult, *util.HTTPError) {
	week := rewards.GiveawayWeek(rc.now())
	account, err := rc.db.EnterGiveaway(c, &model.GiveawayEntry{UserId: userId, Week: week}, rewards.GiveawayEntryCostPoints)
	if err != nil {
		if db.IsDupKeyErr(err) {
			return nil, util.BuildAppHTTPErr(rewards.ErrAlreadyEntered)
		}
		return nil, util.BuildAppHTTPErr(err)
	}
	metrics.PointsSpent.WithLabelValues(string(model.SourceGiveaway)).Add(rewards.GiveawayEntryCostPoints)
	return &GiveawayEntryResult{
		Week:    week,
		Balance: rewards.BuildBalance(account),
	}, nil
}

// DrawGiveaway draws last week's winner. It returns nil when the week was
// already drawn or had no entries.
func (rc *RewardsController) DrawGiveaway(c context.Context) (*model.GiveawayDraw, error) {
	now := rc.now()
	week := rewards.PreviousGiveawayWeek(now)
	existing, err := rc.db.GetGiveawayDraw(c, week)
	if err != nil || existing != nil {
		return nil, err
	}
	draw, err := rc.db.DrawGiveaway(c, &db.DrawGiveaway{
		Week:        week,
		PrizePoints: rewards.GiveawayPrizePoints,
		Pick:        rc.pick,
		DrawnAt:     now,
	})
	if err != nil {
		if db.IsDupKeyErr(err) {
			rc.log.WithField("week", week).Info("giveaway already drawn by another instance")
			return nil, nil
		}
		return nil, err
	}
	if draw != nil {
		metrics.PointsEarned.WithLabelValues(string(model.SourceGiveawayPrize)).Add(float64(draw.PrizePoints))
	}
	return draw, nil
}

func (rc *RewardsController) earn(c context.Context, change *db.PointsChange) (*model.RewardAccount, error) {
	account, err := rc.db.EarnPoints(c, change)
	if err != nil {
		return nil, err
	}
	metrics.PointsEarned.WithLabelValues(string(change.Source)).Add(float64(change.Points))
	return account, nil
}
