package swap

import (
	"testing"

	"github.com/billix/billix-be/model"
	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	allowed := [][2]model.SwapStatus{
		{model.SwapRecruiting, model.SwapFilled},
		{model.SwapRecruiting, model.SwapCancelled},
		{model.SwapFilled, model.SwapInProgress},
		{model.SwapFilled, model.SwapCancelled},
		{model.SwapInProgress, model.SwapCompleted},
	}
	statuses := []model.SwapStatus{model.SwapRecruiting, model.SwapFilled, model.SwapInProgress, model.SwapCompleted, model.SwapCancelled}
	for _, from := range statuses {
		for _, to := range statuses {
			want := false
			for _, pair := range allowed {
				if pair[0] == from && pair[1] == to {
					want = true
				}
			}
			assert.Equal(t, want, CanTransition(from, to), "%v -> %v", from, to)
		}
	}
}

func TestSourcesFor(t *testing.T) {
	assert.ElementsMatch(t, []model.SwapStatus{model.SwapRecruiting, model.SwapFilled}, SourcesFor(model.SwapCancelled))
	assert.ElementsMatch(t, []model.SwapStatus{model.SwapInProgress}, SourcesFor(model.SwapCompleted))
	assert.Empty(t, SourcesFor(model.SwapRecruiting))
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(model.SwapCompleted))
	assert.True(t, IsTerminal(model.SwapCancelled))
	assert.False(t, IsTerminal(model.SwapInProgress))
}

func TestValidateClaim(t *testing.T) {
	swap := &model.Swap{Status: model.SwapInProgress}
	participant := &model.SwapParticipant{UserId: "a", ContributionCents: 2000}

	assert.NoError(t, ValidateClaim(swap, participant, "never received payment", 2000))
	assert.ErrorIs(t, ValidateClaim(swap, nil, "reason", 100), ErrNotParticipant)
	assert.Error(t, ValidateClaim(swap, participant, "", 100))
	assert.Error(t, ValidateClaim(swap, participant, "reason", 2001))

	recruiting := &model.Swap{Status: model.SwapRecruiting}
	assert.ErrorIs(t, ValidateClaim(recruiting, participant, "reason", 100), ErrInvalidTransition)
}
