package swap

import (
	"github.com/billix/billix-be/model"
	"github.com/billix/billix-be/util"
)

var (
	ErrSwapNotFound      = util.NewKindError(util.ErrNotFound, "swap not found")
	ErrClaimNotFound     = util.NewKindError(util.ErrNotFound, "protection claim not found")
	ErrNotOrganizer      = util.NewKindError(util.ErrForbidden, "only the organizer can do this")
	ErrNotParticipant    = util.NewKindError(util.ErrForbidden, "only participants can do this")
	ErrInvalidTransition = util.NewKindError(util.ErrInvalidState, "swap is not in a valid state for this action")
	ErrNotRecruiting     = util.NewKindError(util.ErrInvalidState, "swap is no longer recruiting")
	ErrSwapFull          = util.NewKindError(util.ErrConflict, "swap has no seats left")
	ErrAlreadyJoined     = util.NewKindError(util.ErrConflict, "already participating in this swap")
	ErrOrganizerLeave    = util.NewKindError(util.ErrForbidden, "the organizer cannot leave; cancel the swap instead")
	ErrClaimOpen         = util.NewKindError(util.ErrConflict, "a protection claim is already open for this swap")
	ErrClaimResolved     = util.NewKindError(util.ErrInvalidState, "protection claim was already resolved")
	ErrSwapClosed        = util.NewKindError(util.ErrInvalidState, "swap is already closed")
)

var transitions = map[model.SwapStatus][]model.SwapStatus{
	model.SwapRecruiting: {model.SwapFilled, model.SwapCancelled},
	model.SwapFilled:     {model.SwapInProgress, model.SwapCancelled},
	model.SwapInProgress: {model.SwapCompleted},
}

func CanTransition(from, to model.SwapStatus) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func SourcesFor(to model.SwapStatus) []model.SwapStatus {
	var sources []model.SwapStatus
	for _, from := range []model.SwapStatus{model.SwapRecruiting, model.SwapFilled, model.SwapInProgress} {
		if CanTransition(from, to) {
			sources = append(sources, from)
		}
	}
	return sources
}

func IsTerminal(status model.SwapStatus) bool {
	return len(transitions[status]) == 0
}
