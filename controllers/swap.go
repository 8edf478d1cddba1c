package controllers

import (
	"context"
	"time"

	swapRules "github.com/billix/billix-be/app/swap"
	"github.com/billix/billix-be/db"
	"github.com/billix/billix-be/metrics"
	"github.com/billix/billix-be/model"
	"github.com/billix/billix-be/util"
)

const (
	MarketplacePageSize = 20
	MaxMarketplacePage  = 500
)

type SwapController struct {
	db  db.SwapDatabase
	now func() time.Time
}

func NewSwapController(db db.SwapDatabase) *SwapController {
	return &SwapController{
		db:  db,
		now: time.Now,
	}
}

func (sc *SwapController) CreateSwap(c context.Context, organizerId string, req *swapRules.NewSwap) (*model.SwapWithParticipants, *util.HTTPError) {
	req.Title = util.SanitizeText(req.Title)
	req.BillCategory = util.SanitizeText(req.BillCategory)
	now := sc.now()
	if err := swapRules.ValidateNewSwap(req, now); err != nil {
		return nil, util.BuildAppHTTPErr(err)
	}

	swap := &model.Swap{
		OrganizerId:       organizerId,
		BillCategory:      req.BillCategory,
		Title:             req.Title,
		TargetAmountCents: req.TargetAmountCents,
		MaxParticipants:   req.MaxParticipants,
		Status:            model.SwapRecruiting,
		Deadline:          req.Deadline,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := sc.db.CreateSwap(c, swap, req.InitialContributionCents); err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return withParticipants(swap, []*model.SwapParticipant{{
		SwapId:            swap.Id,
		UserId:            organizerId,
		ContributionCents: req.InitialContributionCents,
		JoinedAt:          now,
	}}), nil
}

// ListMarketplace lists recruiting swaps, boosted ones first
func (sc *SwapController) ListMarketplace(c context.Context, billCategory string, page int) ([]*model.Swap, *util.HTTPError) {
	if page < 0 {
		page = 0
	}
	if page > MaxMarketplacePage {
		page = MaxMarketplacePage
	}
	swaps, err := sc.db.GetSwaps(c, &db.SwapListQuery{
		Statuses:     []model.SwapStatus{model.SwapRecruiting},
		BillCategory: billCategory,
		Now:          sc.now(),
		Offset:       page * MarketplacePageSize,
		Limit:        MarketplacePageSize,
	})
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return swaps, nil
}

func (sc *SwapController) GetSwap(c context.Context, id string) (*model.SwapWithParticipants, *util.HTTPError) {
	swap, participants, err := sc.getSwap(c, id)
	if err != nil {
		return nil, util.BuildAppHTTPErr(err)
	}
	return withParticipants(swap, participants), nil
}

func (sc *SwapController) Join(c context.Context, id string, userId string, contributionCents int64) (*model.SwapWithParticipants, *util.HTTPError) {
	if _, err := sc.db.JoinSwap(c, &db.JoinSwap{
		SwapId:            id,
		UserId:            userId,
		ContributionCents: contributionCents,
	}); err != nil {
		if db.IsDupKeyErr(err) {
			return nil, util.BuildAppHTTPErr(swapRules.ErrAlreadyJoined)
		}
		return nil, util.BuildAppHTTPErr(err)
	}
	metrics.SwapsJoined.Inc()
	return sc.GetSwap(c, id)
}

func (sc *SwapController) Leave(c context.Context, id string, userId string) *util.HTTPError {
	if err := sc.db.LeaveSwap(c, id, userId); err != nil {
		return util.BuildAppHTTPErr(err)
	}
	return nil
}

// Start moves a filled swap into payment collection
func (sc *SwapController) Start(c context.Context, id string, userId string) (*model.Swap, *util.HTTPError) {
	return sc.organizerTransition(c, id, userId, model.SwapInProgress)
}

func (sc *SwapController) Cancel(c context.Context, id string, userId string) (*model.Swap, *util.HTTPError) {
	return sc.organizerTransition(c, id, userId, model.SwapCancelled)
}

// MarkPaid records the caller's payment. The last payment completes the swap.
func (sc *SwapController) MarkPaid(c context.Context, id string, userId string) (*model.Swap, *util.HTTPError) {
	swap, err := sc.db.MarkParticipantPaid(c, id, userId)
	if err != nil {
		return nil, util.BuildAppHTTPErr(err)
	}
	return swap, nil
}

func (sc *SwapController) Boost(c context.Context, id string, userId string) (*model.Swap, *util.HTTPError) {
	swap, err := sc.db.BoostSwap(c, &db.BoostSwap{
		SwapId:      id,
		OrganizerId: userId,
		CostPoints:  swapRules.BoostCostPoints,
		Now:         sc.now(),
	})
	if err != nil {
		return nil, util.BuildAppHTTPErr(err)
	}
	metrics.PointsSpent.WithLabelValues(string(model.SourceBoost)).Add(swapRules.BoostCostPoints)
	return swap, nil
}

func (sc *SwapController) FileClaim(c context.Context, id string, userId string, reason string, amountCents int64) (*model.ProtectionClaim, *util.HTTPError) {
	swap, participants, err := sc.getSwap(c, id)
	if err != nil {
		return nil, util.BuildAppHTTPErr(err)
	}
	reason = util.SanitizeText(reason)
	participant := swapRules.FindParticipant(participants, userId)
	if err := swapRules.ValidateClaim(swap, participant, reason, amountCents); err != nil {
		return nil, util.BuildAppHTTPErr(err)
	}

	claim := &model.ProtectionClaim{
		SwapId:      id,
		ClaimantId:  userId,
		Reason:      reason,
		AmountCents: amountCents,
		Status:      model.ClaimSubmitted,
		CreatedAt:   sc.now(),
	}
	if err := sc.db.CreateClaim(c, claim); err != nil {
		return nil, util.BuildAppHTTPErr(err)
	}
	return claim, nil
}

// ListClaims is visible to participants of the swap only
func (sc *SwapController) ListClaims(c context.Context, id string, userId string) ([]*model.ProtectionClaim, *util.HTTPError) {
	_, participants, err := sc.getSwap(c, id)
	if err != nil {
		return nil, util.BuildAppHTTPErr(err)
	}
	if swapRules.FindParticipant(participants, userId) == nil {
		return nil, util.BuildAppHTTPErr(swapRules.ErrNotParticipant)
	}
	claims, err := sc.db.GetClaimsForSwap(c, id)
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return claims, nil
}

func (sc *SwapController) ResolveClaim(c context.Context, claimId string, approve bool) (*model.ProtectionClaim, *util.HTTPError) {
	claim, err := sc.db.GetClaim(c, claimId)
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	if claim == nil {
		return nil, util.BuildAppHTTPErr(swapRules.ErrClaimNotFound)
	}
	if claim.Status != model.ClaimSubmitted {
		return nil, util.BuildAppHTTPErr(swapRules.ErrClaimResolved)
	}

	status := model.ClaimDenied
	if approve {
		status = model.ClaimApproved
	}
	resolvedAt := sc.now()
	if err := sc.db.ResolveClaim(c, claimId, status, resolvedAt); err != nil {
		return nil, util.BuildAppHTTPErr(translateStaleState(err, swapRules.ErrClaimResolved))
	}
	claim.Status = status
	claim.ResolvedAt = &resolvedAt
	return claim, nil
}

// CancelStale cancels recruiting swaps whose deadline passed
func (sc *SwapController) CancelStale(c context.Context) (int64, error) {
	return sc.db.CancelStaleSwaps(c, sc.now())
}

func (sc *SwapController) organizerTransition(c context.Context, id string, userId string, to model.SwapStatus) (*model.Swap, *util.HTTPError) {
	swap, err := sc.db.GetSwap(c, id)
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	if swap == nil {
		return nil, util.BuildAppHTTPErr(swapRules.ErrSwapNotFound)
	}
	if swap.OrganizerId != userId {
		return nil, util.BuildAppHTTPErr(swapRules.ErrNotOrganizer)
	}
	if swapRules.IsTerminal(swap.Status) {
		return nil, util.BuildAppHTTPErr(swapRules.ErrSwapClosed)
	}
	if !swapRules.CanTransition(swap.Status, to) {
		return nil, util.BuildAppHTTPErr(swapRules.ErrInvalidTransition)
	}
	if err := sc.db.TransitionSwap(c, id, []model.SwapStatus{swap.Status}, to); err != nil {
		return nil, util.BuildAppHTTPErr(translateStaleState(err, swapRules.ErrInvalidTransition))
	}
	swap.Status = to
	return swap, nil
}

func (sc *SwapController) getSwap(c context.Context, id string) (*model.Swap, []*model.SwapParticipant, error) {
	swap, err := sc.db.GetSwap(c, id)
	if err != nil {
		return nil, nil, err
	}
	if swap == nil {
		return nil, nil, swapRules.ErrSwapNotFound
	}
	participants, err := sc.db.GetSwapParticipants(c, id)
	if err != nil {
		return nil, nil, err
	}
	return swap, participants, nil
}

func withParticipants(swap *model.Swap, participants []*model.SwapParticipant) *model.SwapWithParticipants {
	remaining := swapRules.Remaining(swap, participants)
	options := []int64{}
	if swap.Status == model.SwapRecruiting {
		options = swapRules.ContributionOptions(remaining)
	}
	return &model.SwapWithParticipants{
		Swap:                swap,
		Participants:        participants,
		RemainingCents:      remaining,
		ContributionOptions: options,
	}
}
