package controllers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/billix/billix-be/app/rewards"
	appDb "github.com/billix/billix-be/db"
	"github.com/billix/billix-be/db/mocks"
	"github.com/billix/billix-be/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestRewardsController(t *testing.T) (*RewardsController, *mocks.Database) {
	catalog, err := rewards.DefaultCatalog()
	require.NoError(t, err)
	store := &mocks.Database{}
	controller := NewRewardsController(store, catalog)
	controller.now = func() time.Time { return time.Date(2024, 5, 6, 23, 30, 0, 0, time.UTC) }
	return controller, store
}

func TestDailyCheckIn(t *testing.T) {
	controller, store := newTestRewardsController(t)
	ctx := context.Background()

	store.On("EarnPoints", mock.Anything, &appDb.PointsChange{
		UserId:      "u1",
		Points:      rewards.DailyCheckInPoints,
		Source:      model.SourceDailyCheckIn,
		ReferenceId: "2024-05-06",
	}).Return(&model.RewardAccount{UserId: "u1", Points: 25, LifetimePoints: 25}, nil).Once()

	balance, httpErr := controller.DailyCheckIn(ctx, "u1")
	require.Nil(t, httpErr)
	assert.EqualValues(t, 25, balance.Points)
	assert.Equal(t, model.TierBronze, balance.Tier)

	store.On("EarnPoints", mock.Anything, mock.Anything).Return(nil, dupKeyErr).Once()
	_, httpErr = controller.DailyCheckIn(ctx, "u1")
	require.NotNil(t, httpErr)
	assert.Equal(t, http.StatusConflict, httpErr.Status)
	assert.Equal(t, rewards.ErrAlreadyCheckedIn.Message, httpErr.Message)
}

func TestSubmitQuiz(t *testing.T) {
	controller, store := newTestRewardsController(t)
	ctx := context.Background()

	_, httpErr := controller.SubmitQuiz(ctx, "u1", "quiz-1", 6, 5)
	require.NotNil(t, httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)

	points := rewards.QuizPoints(5, 5)
	store.On("EarnPoints", mock.Anything, mock.MatchedBy(func(change *appDb.PointsChange) bool {
		return change.Source == model.SourceQuiz && change.ReferenceId == "quiz-1" && change.Points == points
	})).Return(&model.RewardAccount{UserId: "u1", Points: points, LifetimePoints: points}, nil).Once()

	result, httpErr := controller.SubmitQuiz(ctx, "u1", "quiz-1", 5, 5)
	require.Nil(t, httpErr)
	assert.Equal(t, 1.0, result.Score)
	assert.Equal(t, points, result.PointsAwarded)

	store.On("EarnPoints", mock.Anything, mock.Anything).Return(nil, dupKeyErr).Once()
	_, httpErr = controller.SubmitQuiz(ctx, "u1", "quiz-1", 5, 5)
	require.NotNil(t, httpErr)
	assert.Equal(t, http.StatusConflict, httpErr.Status)
}

func TestRedeem(t *testing.T) {
	controller, store := newTestRewardsController(t)
	ctx := context.Background()

	_, httpErr := controller.Redeem(ctx, "u1", "missing-item")
	require.NotNil(t, httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.Status)

	store.On("SpendPoints", mock.Anything, mock.Anything).Return(nil, rewards.ErrInsufficientPoints).Once()
	_, httpErr = controller.Redeem(ctx, "u1", "amazon-5")
	require.NotNil(t, httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)

	store.On("SpendPoints", mock.Anything, mock.MatchedBy(func(change *appDb.PointsChange) bool {
		return change.Points == 600 && change.Source == model.SourceRedemption && change.ReferenceId != ""
	})).Return(&model.RewardAccount{UserId: "u1", Points: 400, LifetimePoints: 1000}, nil).Once()
	result, httpErr := controller.Redeem(ctx, "u1", "amazon-5")
	require.Nil(t, httpErr)
	assert.Equal(t, "amazon-5", result.Item.Id)
	assert.EqualValues(t, 400, result.Balance.Points)
}

func TestGetSeasonCountsOnlyThisQuarter(t *testing.T) {
	controller, store := newTestRewardsController(t)
	store.On("SumEarnedPoints", mock.Anything, "u1",
		time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
	).Return(int64(1250), nil).Once()

	progress, httpErr := controller.GetSeason(context.Background(), "u1")
	require.Nil(t, httpErr)
	assert.Equal(t, "2024-Q2", progress.Id)
	assert.Equal(t, "Spring 2024", progress.Name)
	assert.Equal(t, 2, progress.Level)
	assert.EqualValues(t, 250, progress.PointsToNextLevel)
}

func TestGetGiveaway(t *testing.T) {
	controller, store := newTestRewardsController(t)
	lastDraw := &model.GiveawayDraw{Week: "2024-W18", WinnerId: "u9", Entries: 12, PrizePoints: rewards.GiveawayPrizePoints}
	store.On("GetGiveawayEntryCount", mock.Anything, "2024-W19").Return(int64(7), nil).Once()
	store.On("HasGiveawayEntry", mock.Anything, "2024-W19", "u1").Return(true, nil).Once()
	store.On("GetGiveawayDraw", mock.Anything, "2024-W18").Return(lastDraw, nil).Once()

	giveaway, httpErr := controller.GetGiveaway(context.Background(), "u1")
	require.Nil(t, httpErr)
	assert.Equal(t, "2024-W19", giveaway.Week)
	assert.Equal(t, time.Date(2024, 5, 13, 0, 0, 0, 0, time.UTC), giveaway.EndsAt)
	assert.EqualValues(t, 7, giveaway.Entries)
	assert.True(t, giveaway.Entered)
	assert.Equal(t, lastDraw, giveaway.LastDraw)
	assert.EqualValues(t, rewards.GiveawayEntryCostPoints, giveaway.EntryCostPoints)
}

func TestEnterGiveaway(t *testing.T) {
	controller, store := newTestRewardsController(t)
	ctx := context.Background()
	entry := &model.GiveawayEntry{UserId: "u1", Week: "2024-W19"}

	store.On("EnterGiveaway", mock.Anything, entry, int64(rewards.GiveawayEntryCostPoints)).
		Return(&model.RewardAccount{UserId: "u1", Points: 900, LifetimePoints: 1000}, nil).Once()
	result, httpErr := controller.EnterGiveaway(ctx, "u1")
	require.Nil(t, httpErr)
	assert.Equal(t, "2024-W19", result.Week)
	assert.EqualValues(t, 900, result.Balance.Points)

	store.On("EnterGiveaway", mock.Anything, entry, mock.Anything).Return(nil, dupKeyErr).Once()
	_, httpErr = controller.EnterGiveaway(ctx, "u1")
	require.NotNil(t, httpErr)
	assert.Equal(t, http.StatusConflict, httpErr.Status)
	assert.Equal(t, rewards.ErrAlreadyEntered.Message, httpErr.Message)

	store.On("EnterGiveaway", mock.Anything, entry, mock.Anything).Return(nil, rewards.ErrInsufficientPoints).Once()
	_, httpErr = controller.EnterGiveaway(ctx, "u1")
	require.NotNil(t, httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
}

func TestDrawGiveawayDrawsLastWeekOnce(t *testing.T) {
	controller, store := newTestRewardsController(t)
	controller.pick = func(n int64) int64 { return n - 1 }
	ctx := context.Background()
	drawn := &model.GiveawayDraw{Week: "2024-W18", WinnerId: "u3", Entries: 4, PrizePoints: rewards.GiveawayPrizePoints}

	store.On("GetGiveawayDraw", mock.Anything, "2024-W18").Return(nil, nil).Once()
	store.On("DrawGiveaway", mock.Anything, mock.MatchedBy(func(req *appDb.DrawGiveaway) bool {
		return req.Week == "2024-W18" &&
			req.PrizePoints == rewards.GiveawayPrizePoints &&
			req.Pick(4) == 3 &&
			req.DrawnAt.Equal(controller.now())
	})).Return(drawn, nil).Once()
	draw, err := controller.DrawGiveaway(ctx)
	require.NoError(t, err)
	assert.Equal(t, drawn, draw)

	// a later tick finds the draw and does nothing
	store.On("GetGiveawayDraw", mock.Anything, "2024-W18").Return(drawn, nil).Once()
	draw, err = controller.DrawGiveaway(ctx)
	require.NoError(t, err)
	assert.Nil(t, draw)
	store.AssertNumberOfCalls(t, "DrawGiveaway", 1)
}

func TestDrawGiveawayLosingRaceIsNotAnError(t *testing.T) {
	controller, store := newTestRewardsController(t)
	store.On("GetGiveawayDraw", mock.Anything, "2024-W18").Return(nil, nil).Once()
	store.On("DrawGiveaway", mock.Anything, mock.Anything).Return(nil, dupKeyErr).Once()

	draw, err := controller.DrawGiveaway(context.Background())
	require.NoError(t, err)
	assert.Nil(t, draw)
}
