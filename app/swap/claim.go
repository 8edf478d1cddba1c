package swap

import (
	"github.com/billix/billix-be/model"
	"github.com/billix/billix-be/util"
)

const MaxClaimReasonLen = 1000

func ClaimableStatus(status model.SwapStatus) bool {
	return status == model.SwapInProgress || status == model.SwapCompleted
}

func ValidateClaim(swap *model.Swap, participant *model.SwapParticipant, reason string, amountCents int64) error {
	if participant == nil {
		return ErrNotParticipant
	}
	if !ClaimableStatus(swap.Status) {
		return ErrInvalidTransition
	}
	if len(reason) == 0 || len(reason) > MaxClaimReasonLen {
		return util.Invalidf("reason must be between 1 and %v characters", MaxClaimReasonLen)
	}
	if amountCents <= 0 || amountCents > participant.ContributionCents {
		return util.Invalidf("claim amount must be between 1 and %v cents", participant.ContributionCents)
	}
	return nil
}
