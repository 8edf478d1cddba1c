package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/billix/billix-be/cache"
	"github.com/billix/billix-be/db"
	"github.com/billix/billix-be/logging"
	"github.com/billix/billix-be/model"
	"github.com/billix/billix-be/util"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	ReactionCountsTTL = 10 * time.Minute
	// generations outlive the counts they name so an orphaned snapshot expires first
	reactionGenerationTTL = 2 * ReactionCountsTTL
)

// ReactionController caches per-post reaction counts under a generation key.
// Every write to the post's reactions starts a new generation, so a snapshot
// read before the write can never be served after it.
type ReactionController struct {
	db    db.ReactionDatabase
	cache cache.Cache
	log   *logrus.Entry
}

func NewReactionController(db db.ReactionDatabase, cache cache.Cache) *ReactionController {
	return &ReactionController{
		db:    db,
		cache: cache,
		log:   logging.Component("reaction-counts"),
	}
}

func reactionGenerationKey(postId string) string {
	return "reaction-gen:" + postId
}

func reactionCountsKey(postId string, generation string) string {
	return "reaction-counts:" + postId + ":" + generation
}

// generation returns the empty generation when none was recorded or the cache failed
func (rc *ReactionController) generation(c context.Context, postId string) string {
	var generation string
	if _, err := rc.cache.Get(c, reactionGenerationKey(postId), &generation); err != nil {
		rc.log.WithError(err).WithField("postId", postId).Warn("failed to read reaction counts generation")
		return ""
	}
	return generation
}

// React sets the user's reaction. model.ReactionNone removes it.
func (rc *ReactionController) React(c context.Context, postId string, userId string, reaction model.ReactionType) *util.HTTPError {
	if reaction != model.ReactionNone && !reaction.IsValid() {
		return &util.HTTPError{
			Status:  http.StatusBadRequest,
			Message: "unknown reaction type",
		}
	}
	if err := rc.db.React(c, postId, userId, reaction); err != nil {
		return util.BuildDbHTTPErr(err)
	}
	if err := rc.cache.Set(c, reactionGenerationKey(postId), uuid.NewString(), reactionGenerationTTL); err != nil {
		rc.log.WithError(err).WithField("postId", postId).Warn("failed to invalidate cached reaction counts")
	}
	return nil
}

func (rc *ReactionController) GetReactionCounts(c context.Context, postId string, userId string) (*model.ReactionCounts, *util.HTTPError) {
	key := reactionCountsKey(postId, rc.generation(c, postId))
	var counts map[model.ReactionType]int64
	found, err := rc.cache.Get(c, key, &counts)
	if err != nil {
		rc.log.WithError(err).WithField("postId", postId).Warn("failed to read cached reaction counts")
		found = false
	}
	if !found {
		counts, err = rc.db.GetReactionCounts(c, postId)
		if err != nil {
			return nil, util.BuildDbHTTPErr(err)
		}
		if err := rc.cache.Set(c, key, counts, ReactionCountsTTL); err != nil {
			rc.log.WithError(err).WithField("postId", postId).Warn("failed to cache reaction counts")
		}
	}

	result := &model.ReactionCounts{
		PostId: postId,
		Counts: counts,
	}
	for _, count := range counts {
		result.Total += count
	}

	if userId != "" {
		result.UserReaction, err = rc.db.GetUserReaction(c, postId, userId)
		if err != nil {
			return nil, util.BuildDbHTTPErr(err)
		}
	}
	return result, nil
}
