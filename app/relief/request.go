package relief

import (
	"time"

	"github.com/billix/billix-be/model"
	"github.com/billix/billix-be/util"
)

const (
	MinAmountCents     = 100
	MaxAmountCents     = 500000
	MaxDescriptionLen  = 2000
	MaxDocuments       = 5
	MaxDonationDollars = 500
	RequestTTL         = 14 * 24 * time.Hour
)

var (
	ErrRequestNotFound        = util.NewKindError(util.ErrNotFound, "relief request not found")
	ErrNotRequester           = util.NewKindError(util.ErrForbidden, "only the requester can do this")
	ErrNotHelper              = util.NewKindError(util.ErrForbidden, "only the matched helper can do this")
	ErrOwnRequest             = util.NewKindError(util.ErrForbidden, "cannot help with your own request")
	ErrInvalidTransition      = util.NewKindError(util.ErrInvalidState, "relief request is not in a valid state for this action")
	ErrRequestClosed          = util.NewKindError(util.ErrInvalidState, "relief request is already closed")
	ErrDonationExceedsRequest = util.Invalidf("donation cannot exceed the requested amount")
)

var transitions = map[model.ReliefStatus][]model.ReliefStatus{
	model.ReliefOpen:     {model.ReliefMatched, model.ReliefCancelled, model.ReliefExpired},
	model.ReliefMatched:  {model.ReliefOpen, model.ReliefAccepted, model.ReliefCancelled, model.ReliefExpired},
	model.ReliefAccepted: {model.ReliefFulfilled},
}

func CanTransition(from, to model.ReliefStatus) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// SourcesFor lists every status that may move to `to`
func SourcesFor(to model.ReliefStatus) []model.ReliefStatus {
	var sources []model.ReliefStatus
	for _, from := range []model.ReliefStatus{model.ReliefOpen, model.ReliefMatched, model.ReliefAccepted} {
		if CanTransition(from, to) {
			sources = append(sources, from)
		}
	}
	return sources
}

func IsTerminal(status model.ReliefStatus) bool {
	return len(transitions[status]) == 0
}

func AcceptsDonations(status model.ReliefStatus) bool {
	return status == model.ReliefOpen || status == model.ReliefMatched
}

type NewRequest struct {
	BillCategory      string
	AmountCents       int64
	Description       string
	Urgency           model.Urgency
	DocumentBlobNames []string
}

func ValidateNewRequest(req *NewRequest) error {
	if req.BillCategory == "" {
		return util.Invalidf("bill category is required")
	}
	if req.AmountCents < MinAmountCents || req.AmountCents > MaxAmountCents {
		return util.Invalidf("amount must be between %v and %v cents", MinAmountCents, MaxAmountCents)
	}
	if len(req.Description) == 0 || len(req.Description) > MaxDescriptionLen {
		return util.Invalidf("description must be between 1 and %v characters", MaxDescriptionLen)
	}
	if !req.Urgency.IsValid() {
		return util.Invalidf("unknown urgency %v", req.Urgency)
	}
	if len(req.DocumentBlobNames) > MaxDocuments {
		return util.Invalidf("at most %v documents can be attached", MaxDocuments)
	}
	return nil
}

func ValidateDonation(dollars int64) error {
	if dollars <= 0 || dollars > MaxDonationDollars {
		return util.Invalidf("donation must be between 1 and %v dollars", MaxDonationDollars)
	}
	return nil
}
