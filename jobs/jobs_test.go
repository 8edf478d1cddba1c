package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/billix/billix-be/controllers"
	"github.com/billix/billix-be/db/mocks"
	"github.com/billix/billix-be/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRegisterRejectsBadSpec(t *testing.T) {
	scheduler := NewScheduler()
	err := scheduler.Register(Job{Name: "bad", Spec: "every now and then", Run: func(context.Context) error { return nil }})
	assert.Error(t, err)
	assert.NoError(t, scheduler.Register(Job{Name: "good", Spec: "@every 1m", Run: func(context.Context) error { return nil }}))
}

func TestRunOnceReturnsJobError(t *testing.T) {
	scheduler := NewScheduler()
	boom := errors.New("boom")
	err := scheduler.RunOnce(context.Background(), Job{Name: "failing", Run: func(context.Context) error { return boom }})
	assert.ErrorIs(t, err, boom)
}

func TestRunOnceAppliesTimeout(t *testing.T) {
	scheduler := NewScheduler()
	scheduler.timeout = 10 * time.Millisecond
	err := scheduler.RunOnce(context.Background(), Job{Name: "slow", Run: func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestMaintenanceJobs(t *testing.T) {
	store := &mocks.Database{}
	store.On("ExpireReliefRequests", mock.Anything, mock.Anything).Return(int64(3), nil).Once()
	store.On("CancelStaleSwaps", mock.Anything, mock.Anything).Return(int64(0), errors.New("db down")).Once()
	scheduler := NewScheduler()

	require.NoError(t, scheduler.RunOnce(context.Background(),
		ExpireReliefRequests("@every 1h", controllers.NewReliefController(store, nil))))
	assert.Error(t, scheduler.RunOnce(context.Background(),
		CancelStaleSwaps("@every 15m", controllers.NewSwapController(store))))
	store.AssertExpectations(t)
}

type countingCleaner struct{ calls int }

func (cc *countingCleaner) Cleanup() int {
	cc.calls++
	return 0
}

func TestCleanupRateLimiter(t *testing.T) {
	cleaner := &countingCleaner{}
	require.NoError(t, NewScheduler().RunOnce(context.Background(), CleanupRateLimiter("@every 10m", cleaner)))
	assert.Equal(t, 1, cleaner.calls)
}

type stubDrawer struct {
	draw *model.GiveawayDraw
	err  error
}

func (sd stubDrawer) DrawGiveaway(context.Context) (*model.GiveawayDraw, error) {
	return sd.draw, sd.err
}

func TestDrawGiveaway(t *testing.T) {
	scheduler := NewScheduler()
	job := DrawGiveaway("@every 1h", stubDrawer{draw: &model.GiveawayDraw{Week: "2026-W42", WinnerId: "u1", Entries: 3}})
	assert.Equal(t, DrawGiveawayJob, job.Name)
	require.NoError(t, scheduler.RunOnce(context.Background(), job))

	// nothing to draw
	require.NoError(t, scheduler.RunOnce(context.Background(), DrawGiveaway("@every 1h", stubDrawer{})))

	boom := errors.New("db down")
	assert.ErrorIs(t, scheduler.RunOnce(context.Background(), DrawGiveaway("@every 1h", stubDrawer{err: boom})), boom)
}
