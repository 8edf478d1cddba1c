package app

import (
	"context"

	appDb "github.com/billix/billix-be/db"
	"github.com/billix/billix-be/model"
)

type MostPopularCursor struct {
	Groups            []string `json:"groups,omitempty"`
	LastReactionTotal *int64   `json:"lastReactionTotal,omitempty"`
	LastId            string   `json:"lastId,omitempty"`
	ByUser            string   `json:"byUser,omitempty"`
}

func (mpc *MostPopularCursor) Posts(ctx context.Context, store PostStore, user *model.User, cursorOpts *PostCursorOpts) (posts []*model.Post, next PostCursor, err error) {
	posts, err = store.GetPosts(ctx, &appDb.PostsListQuery{
		GroupIds:  mpc.Groups,
		CreatorId: mpc.ByUser,
		ByReaction: &appDb.ByReactionPaging{
			MaxReactionTotal: mpc.LastReactionTotal,
			LastId:           mpc.LastId,
		},
		Limit: cursorOpts.limit(),
		PostQueryOpts: &appDb.PostQueryOpts{
			ReactionHistoryOf: reactionHistoryOf(user),
		},
	})
	if err != nil {
		return nil, nil, err
	}
	return posts, mpc.buildCursorForNextPage(posts), nil
}

func (mpc *MostPopularCursor) buildCursorForNextPage(previousPosts []*model.Post) PostCursor {
	if len(previousPosts) == 0 {
		return nil
	}
	last := previousPosts[len(previousPosts)-1]
	lastTotal := last.ReactionTotal
	return &MostPopularCursor{
		Groups:            mpc.Groups,
		LastReactionTotal: &lastTotal,
		LastId:            last.Id,
		ByUser:            mpc.ByUser,
	}
}

func (mpc *MostPopularCursor) WithGroups(groups []string) *MostPopularCursor {
	newCursor := *mpc
	newCursor.Groups = groups
	return &newCursor
}
