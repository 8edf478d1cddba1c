package controllers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/billix/billix-be/app/rewards"
	swapRules "github.com/billix/billix-be/app/swap"
	appDb "github.com/billix/billix-be/db"
	"github.com/billix/billix-be/db/mocks"
	"github.com/billix/billix-be/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestSwapController() (*SwapController, *mocks.Database) {
	store := &mocks.Database{}
	controller := NewSwapController(store)
	controller.now = func() time.Time { return testNow }
	return controller, store
}

func recruitingSwap() *model.Swap {
	return &model.Swap{
		Id:                "s1",
		OrganizerId:       "organizer",
		TargetAmountCents: 10000,
		MaxParticipants:   4,
		Status:            model.SwapRecruiting,
	}
}

func TestCreateSwap(t *testing.T) {
	controller, store := newTestSwapController()
	req := &swapRules.NewSwap{
		BillCategory:             "internet",
		Title:                    "Split the fiber bill",
		TargetAmountCents:        10000,
		MaxParticipants:          4,
		Deadline:                 testNow.Add(48 * time.Hour),
		InitialContributionCents: 2500,
	}
	store.On("CreateSwap", mock.Anything, mock.Anything, int64(2500)).Return(nil).Once()

	created, httpErr := controller.CreateSwap(context.Background(), "organizer", req)
	require.Nil(t, httpErr)
	assert.Equal(t, model.SwapRecruiting, created.Status)
	assert.EqualValues(t, 7500, created.RemainingCents)
	require.Len(t, created.Participants, 1)
	assert.Equal(t, "organizer", created.Participants[0].UserId)
	assert.Equal(t, swapRules.ContributionOptions(7500), created.ContributionOptions)

	req.Deadline = testNow
	_, httpErr = controller.CreateSwap(context.Background(), "organizer", req)
	require.NotNil(t, httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
}

func TestJoinSwap(t *testing.T) {
	controller, store := newTestSwapController()
	ctx := context.Background()

	store.On("JoinSwap", mock.Anything, &appDb.JoinSwap{SwapId: "s1", UserId: "late", ContributionCents: 2500}).
		Return(nil, swapRules.ErrSwapFull).Once()
	_, httpErr := controller.Join(ctx, "s1", "late", 2500)
	require.NotNil(t, httpErr)
	assert.Equal(t, http.StatusConflict, httpErr.Status)

	store.On("JoinSwap", mock.Anything, mock.Anything).Return(recruitingSwap(), nil).Once()
	store.On("GetSwap", mock.Anything, "s1").Return(recruitingSwap(), nil)
	store.On("GetSwapParticipants", mock.Anything, "s1").Return([]*model.SwapParticipant{
		{SwapId: "s1", UserId: "organizer", ContributionCents: 2500},
		{SwapId: "s1", UserId: "u1", ContributionCents: 2500},
	}, nil)
	joined, httpErr := controller.Join(ctx, "s1", "u1", 2500)
	require.Nil(t, httpErr)
	assert.Len(t, joined.Participants, 2)
	assert.EqualValues(t, 5000, joined.RemainingCents)
}

func TestStartRequiresOrganizerAndFilledSwap(t *testing.T) {
	controller, store := newTestSwapController()
	ctx := context.Background()
	store.On("GetSwap", mock.Anything, "s1").Return(recruitingSwap(), nil)

	_, httpErr := controller.Start(ctx, "s1", "u1")
	require.NotNil(t, httpErr)
	assert.Equal(t, http.StatusForbidden, httpErr.Status)

	_, httpErr = controller.Start(ctx, "s1", "organizer")
	require.NotNil(t, httpErr)
	assert.Equal(t, http.StatusConflict, httpErr.Status)

	store.On("TransitionSwap", mock.Anything, "s1", []model.SwapStatus{model.SwapRecruiting}, model.SwapCancelled).
		Return(appDb.ErrStaleState).Once()
	_, httpErr = controller.Cancel(ctx, "s1", "organizer")
	require.NotNil(t, httpErr)
	assert.Equal(t, http.StatusConflict, httpErr.Status)
}

func TestGetSwapNotFound(t *testing.T) {
	controller, store := newTestSwapController()
	store.On("GetSwap", mock.Anything, "missing").Return(nil, nil)

	_, httpErr := controller.GetSwap(context.Background(), "missing")
	require.NotNil(t, httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
}

func TestFileAndResolveClaim(t *testing.T) {
	controller, store := newTestSwapController()
	ctx := context.Background()
	inProgress := recruitingSwap()
	inProgress.Status = model.SwapInProgress
	store.On("GetSwap", mock.Anything, "s1").Return(inProgress, nil)
	store.On("GetSwapParticipants", mock.Anything, "s1").Return([]*model.SwapParticipant{
		{SwapId: "s1", UserId: "organizer", ContributionCents: 5000, Paid: true},
		{SwapId: "s1", UserId: "u1", ContributionCents: 5000},
	}, nil)

	_, httpErr := controller.FileClaim(ctx, "s1", "stranger", "never paid", 100)
	require.NotNil(t, httpErr)
	assert.Equal(t, http.StatusForbidden, httpErr.Status)

	_, httpErr = controller.FileClaim(ctx, "s1", "organizer", "never paid", 6000)
	require.NotNil(t, httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)

	store.On("CreateClaim", mock.Anything, mock.Anything).Return(nil).Once()
	claim, httpErr := controller.FileClaim(ctx, "s1", "organizer", "never paid", 5000)
	require.Nil(t, httpErr)
	assert.Equal(t, model.ClaimSubmitted, claim.Status)

	store.On("GetClaim", mock.Anything, "c1").Return(&model.ProtectionClaim{Id: "c1", Status: model.ClaimApproved}, nil).Once()
	_, httpErr = controller.ResolveClaim(ctx, "c1", false)
	require.NotNil(t, httpErr)
	assert.Equal(t, http.StatusConflict, httpErr.Status)

	store.On("GetClaim", mock.Anything, "c2").Return(&model.ProtectionClaim{Id: "c2", Status: model.ClaimSubmitted}, nil).Once()
	store.On("ResolveClaim", mock.Anything, "c2", model.ClaimApproved, testNow).Return(nil).Once()
	resolved, httpErr := controller.ResolveClaim(ctx, "c2", true)
	require.Nil(t, httpErr)
	assert.Equal(t, model.ClaimApproved, resolved.Status)
	require.NotNil(t, resolved.ResolvedAt)
}

func TestListClaimsParticipantsOnly(t *testing.T) {
	controller, store := newTestSwapController()
	store.On("GetSwap", mock.Anything, "s1").Return(recruitingSwap(), nil)
	store.On("GetSwapParticipants", mock.Anything, "s1").Return([]*model.SwapParticipant{
		{SwapId: "s1", UserId: "organizer", ContributionCents: 2500},
	}, nil)

	_, httpErr := controller.ListClaims(context.Background(), "s1", "stranger")
	require.NotNil(t, httpErr)
	assert.Equal(t, http.StatusForbidden, httpErr.Status)
}

func TestMarkPaid(t *testing.T) {
	controller, store := newTestSwapController()
	completed := recruitingSwap()
	completed.Status = model.SwapCompleted
	store.On("MarkParticipantPaid", mock.Anything, "s1", "member").Return(completed, nil).Once()
	store.On("MarkParticipantPaid", mock.Anything, "s1", "stranger").Return(nil, swapRules.ErrNotParticipant).Once()

	swap, httpErr := controller.MarkPaid(context.Background(), "s1", "member")
	require.Nil(t, httpErr)
	assert.Equal(t, model.SwapCompleted, swap.Status)

	_, httpErr = controller.MarkPaid(context.Background(), "s1", "stranger")
	require.NotNil(t, httpErr)
	assert.Equal(t, http.StatusForbidden, httpErr.Status)
}

func TestBoost(t *testing.T) {
	controller, store := newTestSwapController()
	boosted := recruitingSwap()
	until := testNow.Add(swapRules.BoostDuration)
	boosted.BoostedUntil = &until
	store.On("BoostSwap", mock.Anything, &appDb.BoostSwap{
		SwapId:      "s1",
		OrganizerId: "organizer",
		CostPoints:  swapRules.BoostCostPoints,
		Now:         testNow,
	}).Return(boosted, nil).Once()
	store.On("BoostSwap", mock.Anything, mock.MatchedBy(func(req *appDb.BoostSwap) bool {
		return req.OrganizerId == "broke"
	})).Return(nil, rewards.ErrInsufficientPoints).Once()

	swap, httpErr := controller.Boost(context.Background(), "s1", "organizer")
	require.Nil(t, httpErr)
	require.NotNil(t, swap.BoostedUntil)
	assert.Equal(t, until, *swap.BoostedUntil)

	_, httpErr = controller.Boost(context.Background(), "s1", "broke")
	require.NotNil(t, httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
}

func TestLeave(t *testing.T) {
	controller, store := newTestSwapController()
	store.On("LeaveSwap", mock.Anything, "s1", "member").Return(nil).Once()
	store.On("LeaveSwap", mock.Anything, "s1", "organizer").Return(swapRules.ErrOrganizerLeave).Once()

	require.Nil(t, controller.Leave(context.Background(), "s1", "member"))

	httpErr := controller.Leave(context.Background(), "s1", "organizer")
	require.NotNil(t, httpErr)
	assert.Equal(t, http.StatusForbidden, httpErr.Status)
}

func TestCancelRequiresOrganizerAndOpenSwap(t *testing.T) {
	controller, store := newTestSwapController()
	completed := recruitingSwap()
	completed.Id = "done"
	completed.Status = model.SwapCompleted
	store.On("GetSwap", mock.Anything, "s1").Return(recruitingSwap(), nil)
	store.On("GetSwap", mock.Anything, "done").Return(completed, nil)
	store.On("TransitionSwap", mock.Anything, "s1", []model.SwapStatus{model.SwapRecruiting}, model.SwapCancelled).Return(nil).Once()

	_, httpErr := controller.Cancel(context.Background(), "s1", "member")
	require.NotNil(t, httpErr)
	assert.Equal(t, http.StatusForbidden, httpErr.Status)

	_, httpErr = controller.Cancel(context.Background(), "done", "organizer")
	require.NotNil(t, httpErr)
	assert.Equal(t, http.StatusConflict, httpErr.Status)
	assert.Equal(t, "swap is already closed", httpErr.Message)

	cancelled, httpErr := controller.Cancel(context.Background(), "s1", "organizer")
	require.Nil(t, httpErr)
	assert.Equal(t, model.SwapCancelled, cancelled.Status)
	store.AssertNumberOfCalls(t, "TransitionSwap", 1)
}

func TestListMarketplacePages(t *testing.T) {
	controller, store := newTestSwapController()
	pageQuery := func(offset int) interface{} {
		return mock.MatchedBy(func(query *appDb.SwapListQuery) bool {
			return query.Offset == offset &&
				query.Limit == MarketplacePageSize &&
				query.BillCategory == "internet" &&
				query.Now.Equal(testNow) &&
				len(query.Statuses) == 1 && query.Statuses[0] == model.SwapRecruiting
		})
	}
	store.On("GetSwaps", mock.Anything, pageQuery(0)).Return([]*model.Swap{recruitingSwap()}, nil).Once()
	store.On("GetSwaps", mock.Anything, pageQuery(2*MarketplacePageSize)).Return([]*model.Swap{}, nil).Once()
	store.On("GetSwaps", mock.Anything, pageQuery(MaxMarketplacePage*MarketplacePageSize)).Return([]*model.Swap{}, nil).Once()

	swaps, httpErr := controller.ListMarketplace(context.Background(), "internet", -3)
	require.Nil(t, httpErr)
	assert.Len(t, swaps, 1)

	swaps, httpErr = controller.ListMarketplace(context.Background(), "internet", 2)
	require.Nil(t, httpErr)
	assert.Empty(t, swaps)

	_, httpErr = controller.ListMarketplace(context.Background(), "internet", MaxMarketplacePage+1)
	require.Nil(t, httpErr)
	store.AssertExpectations(t)
}

func TestCancelStale(t *testing.T) {
	controller, store := newTestSwapController()
	store.On("CancelStaleSwaps", mock.Anything, testNow).Return(int64(3), nil).Once()

	cancelled, err := controller.CancelStale(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 3, cancelled)
}
