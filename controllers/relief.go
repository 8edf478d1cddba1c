package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/billix/billix-be/app/relief"
	"github.com/billix/billix-be/app/rewards"
	"github.com/billix/billix-be/db"
	"github.com/billix/billix-be/metrics"
	"github.com/billix/billix-be/model"
	"github.com/billix/billix-be/services"
	"github.com/billix/billix-be/util"
)

// BlobChecker verifies that uploaded blobs referenced by a request exist
type BlobChecker interface {
	Exists(ctx context.Context, blobName string) (bool, error)
}

type ReliefController struct {
	db    db.ReliefDatabase
	blobs BlobChecker
	now   func() time.Time
}

func NewReliefController(db db.ReliefDatabase, blobs BlobChecker) *ReliefController {
	return &ReliefController{
		db:    db,
		blobs: blobs,
		now:   time.Now,
	}
}

func (rc *ReliefController) CreateRequest(c context.Context, userId string, req *relief.NewRequest) (*model.ReliefRequest, *util.HTTPError) {
	req.BillCategory = util.SanitizeText(req.BillCategory)
	req.Description = util.XSSSanitize(req.Description)
	if err := relief.ValidateNewRequest(req); err != nil {
		return nil, util.BuildAppHTTPErr(err)
	}
	if httpErr := checkBlobs(c, rc.blobs, userId, req.DocumentBlobNames); httpErr != nil {
		return nil, httpErr
	}

	now := rc.now()
	request := &model.ReliefRequest{
		RequesterId:       userId,
		BillCategory:      req.BillCategory,
		AmountCents:       req.AmountCents,
		Description:       req.Description,
		Urgency:           req.Urgency,
		Status:            model.ReliefOpen,
		DocumentBlobNames: req.DocumentBlobNames,
		CreatedAt:         now,
		UpdatedAt:         now,
		ExpiresAt:         now.Add(relief.RequestTTL),
	}
	if request.DocumentBlobNames == nil {
		request.DocumentBlobNames = []string{}
	}
	if err := rc.db.CreateReliefRequest(c, request); err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return request, nil
}

func (rc *ReliefController) GetRequest(c context.Context, id string) (*model.ReliefRequest, *util.HTTPError) {
	request, err := rc.getRequest(c, id)
	if err != nil {
		return nil, util.BuildAppHTTPErr(err)
	}
	return request, nil
}

func (rc *ReliefController) ListOpen(c context.Context, billCategory string, before *db.PostKey, limit int) ([]*model.ReliefRequest, *util.HTTPError) {
	requests, err := rc.db.GetReliefRequests(c, &db.ReliefListQuery{
		Statuses:     []model.ReliefStatus{model.ReliefOpen},
		BillCategory: billCategory,
		Before:       before,
		Limit:        limit,
	})
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return requests, nil
}

type MyReliefRequests struct {
	Requested []*model.ReliefRequest `json:"requested"`
	Helping   []*model.ReliefRequest `json:"helping"`
}

func (rc *ReliefController) ListMine(c context.Context, userId string, limit int) (*MyReliefRequests, *util.HTTPError) {
	requested, err := rc.db.GetReliefRequests(c, &db.ReliefListQuery{RequesterId: userId, Limit: limit})
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	helping, err := rc.db.GetReliefRequests(c, &db.ReliefListQuery{HelperId: userId, Limit: limit})
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return &MyReliefRequests{Requested: requested, Helping: helping}, nil
}

func (rc *ReliefController) OfferHelp(c context.Context, id string, userId string) (*model.ReliefRequest, *util.HTTPError) {
	return rc.transition(c, id, model.ReliefMatched, &userId, func(request *model.ReliefRequest) error {
		if request.RequesterId == userId {
			return relief.ErrOwnRequest
		}
		return nil
	})
}

// Accept confirms the matched helper and records the connection fee for both parties
func (rc *ReliefController) Accept(c context.Context, id string, userId string) (*model.ReliefRequest, *util.HTTPError) {
	request, err := rc.getRequest(c, id)
	if err != nil {
		return nil, util.BuildAppHTTPErr(err)
	}
	if request.RequesterId != userId {
		return nil, util.BuildAppHTTPErr(relief.ErrNotRequester)
	}
	if relief.IsTerminal(request.Status) {
		return nil, util.BuildAppHTTPErr(relief.ErrRequestClosed)
	}
	if !relief.CanTransition(request.Status, model.ReliefAccepted) {
		return nil, util.BuildAppHTTPErr(relief.ErrInvalidTransition)
	}

	fee := relief.ConnectionFee(request.AmountCents)
	if err := rc.db.AcceptReliefRequest(c, id, fee); err != nil {
		return nil, util.BuildAppHTTPErr(translateStaleState(err, relief.ErrInvalidTransition))
	}
	metrics.ReliefAccepted.Inc()

	request.Status = model.ReliefAccepted
	request.ConnectionFeeCents = fee
	return request, nil
}

// Decline sends a matched request back to OPEN and clears the helper
func (rc *ReliefController) Decline(c context.Context, id string, userId string) (*model.ReliefRequest, *util.HTTPError) {
	noHelper := ""
	return rc.transition(c, id, model.ReliefOpen, &noHelper, requireRequester(userId))
}

func (rc *ReliefController) Fulfill(c context.Context, id string, userId string) (*model.ReliefRequest, *util.HTTPError) {
	return rc.transition(c, id, model.ReliefFulfilled, nil, func(request *model.ReliefRequest) error {
		if request.HelperId != userId {
			return relief.ErrNotHelper
		}
		return nil
	})
}

func (rc *ReliefController) Cancel(c context.Context, id string, userId string) (*model.ReliefRequest, *util.HTTPError) {
	return rc.transition(c, id, model.ReliefCancelled, nil, requireRequester(userId))
}

// Donate spends DonationPointCost(dollars) points on an open or matched request
func (rc *ReliefController) Donate(c context.Context, id string, userId string, dollars int64) (*model.ReliefDonation, *util.HTTPError) {
	if err := relief.ValidateDonation(dollars); err != nil {
		return nil, util.BuildAppHTTPErr(err)
	}
	request, err := rc.getRequest(c, id)
	if err != nil {
		return nil, util.BuildAppHTTPErr(err)
	}
	if request.RequesterId == userId {
		return nil, util.BuildAppHTTPErr(relief.ErrOwnRequest)
	}
	if relief.IsTerminal(request.Status) {
		return nil, util.BuildAppHTTPErr(relief.ErrRequestClosed)
	}
	if !relief.AcceptsDonations(request.Status) {
		return nil, util.BuildAppHTTPErr(relief.ErrInvalidTransition)
	}
	if util.DollarsToCents(dollars) > request.AmountCents {
		return nil, util.BuildAppHTTPErr(relief.ErrDonationExceedsRequest)
	}

	donation := &model.ReliefDonation{
		ReliefRequestId: id,
		DonorId:         userId,
		Dollars:         dollars,
		PointsSpent:     rewards.DonationPointCost(dollars),
		CreatedAt:       rc.now(),
	}
	if err := rc.db.DonateToRelief(c, donation); err != nil {
		return nil, util.BuildAppHTTPErr(translateStaleState(err, relief.ErrInvalidTransition))
	}
	metrics.PointsSpent.WithLabelValues(string(model.SourceDonation)).Add(float64(donation.PointsSpent))
	return donation, nil
}

func (rc *ReliefController) GetDonations(c context.Context, id string) ([]*model.ReliefDonation, *util.HTTPError) {
	donations, err := rc.db.GetDonations(c, id)
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return donations, nil
}

// ExpireRequests expires every open or matched request past its expiry
func (rc *ReliefController) ExpireRequests(c context.Context) (int64, error) {
	return rc.db.ExpireReliefRequests(c, rc.now())
}

func (rc *ReliefController) getRequest(c context.Context, id string) (*model.ReliefRequest, error) {
	request, err := rc.db.GetReliefRequest(c, id)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, relief.ErrRequestNotFound
	}
	return request, nil
}

// transition applies a guarded status change. check runs against the current
// row before the conditional update.
func (rc *ReliefController) transition(
	c context.Context,
	id string,
	to model.ReliefStatus,
	setHelper *string,
	check func(request *model.ReliefRequest) error,
) (*model.ReliefRequest, *util.HTTPError) {
	request, err := rc.getRequest(c, id)
	if err != nil {
		return nil, util.BuildAppHTTPErr(err)
	}
	if err := check(request); err != nil {
		return nil, util.BuildAppHTTPErr(err)
	}
	if relief.IsTerminal(request.Status) {
		return nil, util.BuildAppHTTPErr(relief.ErrRequestClosed)
	}
	if !relief.CanTransition(request.Status, to) {
		return nil, util.BuildAppHTTPErr(relief.ErrInvalidTransition)
	}

	if err := rc.db.TransitionReliefRequest(c, &db.ReliefTransition{
		Id:        id,
		From:      []model.ReliefStatus{request.Status},
		To:        to,
		SetHelper: setHelper,
	}); err != nil {
		return nil, util.BuildAppHTTPErr(translateStaleState(err, relief.ErrInvalidTransition))
	}

	request.Status = to
	if setHelper != nil {
		request.HelperId = *setHelper
	}
	return request, nil
}

func requireRequester(userId string) func(request *model.ReliefRequest) error {
	return func(request *model.ReliefRequest) error {
		if request.RequesterId != userId {
			return relief.ErrNotRequester
		}
		return nil
	}
}

// translateStaleState maps a lost conditional update onto the feature's error
func translateStaleState(err error, featureErr error) error {
	if errors.Is(err, db.ErrStaleState) {
		return featureErr
	}
	return err
}

// checkBlobs requires every blob to be an existing upload of userId
func checkBlobs(c context.Context, blobs BlobChecker, userId string, blobNames []string) *util.HTTPError {
	for _, blobName := range blobNames {
		if !services.IsOwnedBy(blobName, userId) {
			return &util.HTTPError{
				Status:  http.StatusBadRequest,
				Message: "attachments must be your own uploads",
			}
		}
		exists, err := blobs.Exists(c, blobName)
		if err != nil {
			return util.BuildDbHTTPErr(err)
		}
		if !exists {
			return &util.HTTPError{
				Status:  http.StatusBadRequest,
				Message: "attachment does not exist: " + blobName,
			}
		}
	}
	return nil
}
