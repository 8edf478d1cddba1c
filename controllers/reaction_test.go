package controllers

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/billix/billix-be/cache"
	"github.com/billix/billix-be/db/mocks"
	"github.com/billix/billix-be/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestReactionCountsAreCachedUntilNextReaction(t *testing.T) {
	store := &mocks.Database{}
	controller := NewReactionController(store, cache.NewMemoryCache())
	ctx := context.Background()

	store.On("GetReactionCounts", mock.Anything, "p1").Return(map[model.ReactionType]int64{
		model.ReactionLike:    2,
		model.ReactionHelpful: 1,
	}, nil).Once()
	store.On("GetUserReaction", mock.Anything, "p1", "u1").Return(model.ReactionLike, nil)

	counts, httpErr := controller.GetReactionCounts(ctx, "p1", "u1")
	require.Nil(t, httpErr)
	assert.EqualValues(t, 3, counts.Total)
	assert.Equal(t, model.ReactionLike, counts.UserReaction)

	// served from the cache
	counts, httpErr = controller.GetReactionCounts(ctx, "p1", "u1")
	require.Nil(t, httpErr)
	assert.EqualValues(t, 2, counts.Counts[model.ReactionLike])

	store.On("React", mock.Anything, "p1", "u1", model.ReactionNone).Return(nil).Once()
	require.Nil(t, controller.React(ctx, "p1", "u1", model.ReactionNone))

	store.On("GetReactionCounts", mock.Anything, "p1").Return(map[model.ReactionType]int64{
		model.ReactionHelpful: 1,
	}, nil).Once()
	counts, httpErr = controller.GetReactionCounts(ctx, "p1", "")
	require.Nil(t, httpErr)
	assert.EqualValues(t, 1, counts.Total)
	assert.Equal(t, model.ReactionNone, counts.UserReaction)
	store.AssertExpectations(t)
}

func TestReactRejectsUnknownType(t *testing.T) {
	controller := NewReactionController(&mocks.Database{}, cache.NewMemoryCache())
	httpErr := controller.React(context.Background(), "p1", "u1", model.ReactionType("ANGRY"))
	require.NotNil(t, httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
}

// pausingReactionStore hands out a counts snapshot and, once, waits before
// returning it so a write can land in between
type pausingReactionStore struct {
	lock     sync.Mutex
	counts   map[model.ReactionType]int64
	pause    bool
	snapshot chan struct{}
	resume   chan struct{}
}

func (s *pausingReactionStore) React(_ context.Context, _ string, _ string, reaction model.ReactionType) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.counts[reaction]++
	return nil
}

func (s *pausingReactionStore) GetReactionCounts(context.Context, string) (map[model.ReactionType]int64, error) {
	s.lock.Lock()
	snapshot := make(map[model.ReactionType]int64, len(s.counts))
	for reaction, count := range s.counts {
		snapshot[reaction] = count
	}
	pause := s.pause
	s.pause = false
	s.lock.Unlock()

	if pause {
		close(s.snapshot)
		<-s.resume
	}
	return snapshot, nil
}

func (s *pausingReactionStore) GetUserReaction(context.Context, string, string) (model.ReactionType, error) {
	return model.ReactionNone, nil
}

func TestReactionCountsReadDuringReactIsNotServedAfterIt(t *testing.T) {
	store := &pausingReactionStore{
		counts:   map[model.ReactionType]int64{model.ReactionLike: 0},
		pause:    true,
		snapshot: make(chan struct{}),
		resume:   make(chan struct{}),
	}
	controller := NewReactionController(store, cache.NewMemoryCache())
	ctx := context.Background()

	done := make(chan *model.ReactionCounts)
	go func() {
		counts, _ := controller.GetReactionCounts(ctx, "p1", "")
		done <- counts
	}()

	<-store.snapshot
	require.Nil(t, controller.React(ctx, "p1", "u1", model.ReactionLike))
	close(store.resume)
	slowRead := <-done
	require.NotNil(t, slowRead)
	assert.EqualValues(t, 0, slowRead.Counts[model.ReactionLike])

	counts, httpErr := controller.GetReactionCounts(ctx, "p1", "")
	require.Nil(t, httpErr)
	assert.EqualValues(t, 1, counts.Counts[model.ReactionLike])
	assert.EqualValues(t, 1, counts.Total)
}
