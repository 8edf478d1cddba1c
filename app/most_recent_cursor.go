package app

import (
	"context"
	"time"

	appDb "github.com/billix/billix-be/db"
	"github.com/billix/billix-be/model"
)

type MostRecentCursor struct {
	Groups   []string   `json:"groups,omitempty"`
	LastDate *time.Time `json:"lastDate,omitempty"`
	LastId   string     `json:"lastId,omitempty"`
	ByUser   string     `json:"byUser,omitempty"`
}

func (mrc *MostRecentCursor) Posts(ctx context.Context, store PostStore, user *model.User, cursorOpts *PostCursorOpts) (posts []*model.Post, next PostCursor, err error) {
	var before *appDb.PostKey
	if mrc.LastDate != nil {
		before = &appDb.PostKey{CreatedAt: *mrc.LastDate, Id: mrc.LastId}
	}

	posts, err = store.GetPosts(ctx, &appDb.PostsListQuery{
		GroupIds:  mrc.Groups,
		CreatorId: mrc.ByUser,
		Before:    before,
		Limit:     cursorOpts.limit(),
		PostQueryOpts: &appDb.PostQueryOpts{
			ReactionHistoryOf: reactionHistoryOf(user),
		},
	})
	if err != nil {
		return nil, nil, err
	}
	return posts, mrc.buildCursorForNextPage(posts), nil
}

func (mrc *MostRecentCursor) buildCursorForNextPage(previousPosts []*model.Post) PostCursor {
	if len(previousPosts) == 0 {
		return nil
	}
	last := previousPosts[len(previousPosts)-1]
	lastDate := last.CreatedAt
	return &MostRecentCursor{
		Groups:   mrc.Groups,
		LastDate: &lastDate,
		LastId:   last.Id,
		ByUser:   mrc.ByUser,
	}
}

func (mrc *MostRecentCursor) WithGroups(groups []string) *MostRecentCursor {
	newCursor := *mrc
	newCursor.Groups = groups
	return &newCursor
}
