package rewards

import (
	"testing"

	"github.com/billix/billix-be/model"
	"github.com/stretchr/testify/assert"
)

func TestTierFor(t *testing.T) {
	tests := []struct {
		points int64
		want   model.Tier
	}{
		{-10, model.TierBronze},
		{0, model.TierBronze},
		{999, model.TierBronze},
		{1000, model.TierSilver},
		{4999, model.TierSilver},
		{5000, model.TierGold},
		{15000, model.TierPlatinum},
		{1 << 40, model.TierPlatinum},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TierFor(tt.points), "points=%d", tt.points)
	}
}

func TestTierProgressIsClamped(t *testing.T) {
	for _, points := range []int64{-1 << 40, -1, 0, 1, 500, 999, 1000, 4999, 14999, 15000, 1 << 40} {
		progress := TierProgress(points)
		assert.GreaterOrEqual(t, progress, 0.0, "points=%d", points)
		assert.LessOrEqual(t, progress, 1.0, "points=%d", points)
	}
	assert.Equal(t, 0.0, TierProgress(-5))
	assert.Equal(t, 1.0, TierProgress(15000))
	assert.InDelta(t, 0.5, TierProgress(500), 1e-9)
	assert.InDelta(t, 0.25, TierProgress(2000), 1e-9)
}

func TestTierProgressIsMonotonicWithinTier(t *testing.T) {
	for _, tier := range tiers[:len(tiers)-1] {
		prev := -1.0
		next, _ := NextTier(tier.minPoints)
		var ceiling int64
		for _, candidate := range tiers {
			if candidate.tier == next {
				ceiling = candidate.minPoints
			}
		}
		for points := tier.minPoints; points < ceiling; points += 7 {
			progress := TierProgress(points)
			assert.GreaterOrEqual(t, progress, prev, "points=%d", points)
			prev = progress
		}
	}
}

func TestNextTierAndPointsToNextTier(t *testing.T) {
	next, ok := NextTier(0)
	assert.True(t, ok)
	assert.Equal(t, model.TierSilver, next)
	assert.Equal(t, int64(1000), PointsToNextTier(0))
	assert.Equal(t, int64(1000), PointsToNextTier(-50))
	assert.Equal(t, int64(1), PointsToNextTier(4999))

	_, ok = NextTier(20000)
	assert.False(t, ok)
	assert.Equal(t, int64(0), PointsToNextTier(20000))
}

func TestBuildBalance(t *testing.T) {
	balance := BuildBalance(&model.RewardAccount{UserId: "u1", Points: 300, LifetimePoints: 3000})
	assert.Equal(t, model.TierSilver, balance.Tier)
	assert.Equal(t, model.TierGold, balance.NextTier)
	assert.Equal(t, int64(2000), balance.PointsToNextTier)
	assert.InDelta(t, 0.5, balance.TierProgress, 1e-9)
	assert.Equal(t, int64(300), balance.Points)
}
