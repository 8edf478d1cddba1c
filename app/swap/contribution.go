package swap

import (
	"sort"
	"time"

	"github.com/billix/billix-be/model"
	"github.com/billix/billix-be/util"
)

const (
	MinParticipants      = 2
	MaxParticipants      = 6
	MinContributionCents = 100
	MaxTargetCents       = 1000000
	MaxTitleLen          = 120
	MinDeadline          = time.Hour
	MaxDeadline          = 30 * 24 * time.Hour

	BoostCostPoints = 500
	BoostDuration   = 24 * time.Hour
)

var contributionBuckets = []int64{25, 50, 75, 100}

// ContributionOptions offers fixed percentage buckets of what is still needed.
// Buckets under the minimum contribution are dropped, except for the full
// remainder which is always offered while anything is left.
func ContributionOptions(remainingCents int64) []int64 {
	options := []int64{}
	if remainingCents <= 0 {
		return options
	}
	seen := make(map[int64]bool)
	for _, pct := range contributionBuckets {
		amount := (remainingCents*pct + 50) / 100
		if pct == 100 {
			amount = remainingCents
		} else if amount < MinContributionCents {
			continue
		}
		if seen[amount] {
			continue
		}
		seen[amount] = true
		options = append(options, amount)
	}
	sort.Slice(options, func(i, j int) bool { return options[i] < options[j] })
	return options
}

func Contributed(participants []*model.SwapParticipant) int64 {
	var total int64
	for _, p := range participants {
		total += p.ContributionCents
	}
	return total
}

func Remaining(swap *model.Swap, participants []*model.SwapParticipant) int64 {
	remaining := swap.TargetAmountCents - Contributed(participants)
	if remaining < 0 {
		return 0
	}
	return remaining
}

func IsFull(swap *model.Swap, participants []*model.SwapParticipant) bool {
	return len(participants) >= swap.MaxParticipants || Remaining(swap, participants) == 0
}

func AllPaid(participants []*model.SwapParticipant) bool {
	if len(participants) == 0 {
		return false
	}
	for _, p := range participants {
		if !p.Paid {
			return false
		}
	}
	return true
}

func FindParticipant(participants []*model.SwapParticipant, userId string) *model.SwapParticipant {
	for _, p := range participants {
		if p.UserId == userId {
			return p
		}
	}
	return nil
}

// ValidateJoin must be evaluated against a locked snapshot of the swap
func ValidateJoin(swap *model.Swap, participants []*model.SwapParticipant, userId string, contributionCents int64) error {
	if swap.Status != model.SwapRecruiting {
		return ErrNotRecruiting
	}
	if FindParticipant(participants, userId) != nil {
		return ErrAlreadyJoined
	}
	if IsFull(swap, participants) {
		return ErrSwapFull
	}
	remaining := Remaining(swap, participants)
	if contributionCents <= 0 || contributionCents > remaining {
		return util.Invalidf("contribution must be between 1 and %v cents", remaining)
	}
	if contributionCents < MinContributionCents && contributionCents != remaining {
		return util.Invalidf("contribution must be at least %v cents", MinContributionCents)
	}
	return nil
}

type NewSwap struct {
	BillCategory             string
	Title                    string
	TargetAmountCents        int64
	MaxParticipants          int
	Deadline                 time.Time
	InitialContributionCents int64
}

func ValidateNewSwap(req *NewSwap, now time.Time) error {
	if req.BillCategory == "" {
		return util.Invalidf("bill category is required")
	}
	if len(req.Title) == 0 || len(req.Title) > MaxTitleLen {
		return util.Invalidf("title must be between 1 and %v characters", MaxTitleLen)
	}
	if req.TargetAmountCents < MinContributionCents*MinParticipants || req.TargetAmountCents > MaxTargetCents {
		return util.Invalidf("target amount must be between %v and %v cents", MinContributionCents*MinParticipants, MaxTargetCents)
	}
	if req.MaxParticipants < MinParticipants || req.MaxParticipants > MaxParticipants {
		return util.Invalidf("a swap needs between %v and %v participants", MinParticipants, MaxParticipants)
	}
	untilDeadline := req.Deadline.Sub(now)
	if untilDeadline < MinDeadline || untilDeadline > MaxDeadline {
		return util.Invalidf("deadline must be between %v and %v from now", MinDeadline, MaxDeadline)
	}
	if req.InitialContributionCents < MinContributionCents || req.InitialContributionCents >= req.TargetAmountCents {
		return util.Invalidf("organizer contribution must be at least %v cents and less than the target", MinContributionCents)
	}
	return nil
}

// BoostedUntil extends an active boost rather than resetting it
func BoostedUntil(current *time.Time, now time.Time) time.Time {
	start := now
	if current != nil && current.After(now) {
		start = *current
	}
	return start.Add(BoostDuration)
}
