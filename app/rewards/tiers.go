package rewards

import "github.com/billix/billix-be/model"

type tierThreshold struct {
	tier      model.Tier
	minPoints int64
}

// tiers is ordered by ascending minPoints and starts at zero so every
// non-negative lifetime total maps to exactly one tier
var tiers = []tierThreshold{
	{model.TierBronze, 0},
	{model.TierSilver, 1000},
	{model.TierGold, 5000},
	{model.TierPlatinum, 15000},
}

func tierIndex(lifetimePoints int64) int {
	idx := 0
	for i, t := range tiers {
		if lifetimePoints >= t.minPoints {
			idx = i
		}
	}
	return idx
}

func TierFor(lifetimePoints int64) model.Tier {
	return tiers[tierIndex(lifetimePoints)].tier
}

// NextTier returns false when already at the top tier
func NextTier(lifetimePoints int64) (model.Tier, bool) {
	idx := tierIndex(lifetimePoints)
	if idx == len(tiers)-1 {
		return "", false
	}
	return tiers[idx+1].tier, true
}

// TierProgress is the fraction of the way from the current tier threshold to
// the next one, always within [0, 1]. The top tier reports 1.
func TierProgress(lifetimePoints int64) float64 {
	if lifetimePoints <= 0 {
		return 0
	}
	idx := tierIndex(lifetimePoints)
	if idx == len(tiers)-1 {
		return 1
	}
	floor := tiers[idx].minPoints
	ceiling := tiers[idx+1].minPoints
	progress := float64(lifetimePoints-floor) / float64(ceiling-floor)
	return clamp01(progress)
}

func PointsToNextTier(lifetimePoints int64) int64 {
	idx := tierIndex(lifetimePoints)
	if idx == len(tiers)-1 {
		return 0
	}
	if lifetimePoints < 0 {
		lifetimePoints = 0
	}
	return tiers[idx+1].minPoints - lifetimePoints
}

func BuildBalance(account *model.RewardAccount) *model.Balance {
	next, _ := NextTier(account.LifetimePoints)
	return &model.Balance{
		RewardAccount:    account,
		Tier:             TierFor(account.LifetimePoints),
		TierProgress:     TierProgress(account.LifetimePoints),
		NextTier:         next,
		PointsToNextTier: PointsToNextTier(account.LifetimePoints),
	}
}

func clamp01(val float64) float64 {
	if val < 0 {
		return 0
	}
	if val > 1 {
		return 1
	}
	return val
}
