package app

import (
	"context"

	"github.com/billix/billix-be/model"
	"github.com/billix/billix-be/util"
)

var ErrSubbedFeedNeedsUser = util.NewKindError(util.ErrNotAuthenticated, "must be logged in to read the feed of your groups")

// SubbedMostRecentCursor limits MostRecentCursor to the caller's groups. The
// group ids are resolved on the first page and carried in the cursor after.
type SubbedMostRecentCursor struct {
	MostRecentCursor
}

func (s *SubbedMostRecentCursor) Posts(ctx context.Context, store PostStore, user *model.User, cursorOpts *PostCursorOpts) (posts []*model.Post, next PostCursor, err error) {
	cursor := &s.MostRecentCursor
	if cursor.Groups == nil {
		groups, err := fetchMemberGroupIds(ctx, store, user)
		if err != nil {
			return nil, nil, err
		}
		cursor = cursor.WithGroups(groups)
	}
	posts, next, err = cursor.Posts(ctx, store, user, cursorOpts)
	if next == nil {
		return posts, nil, err
	}
	return posts, &SubbedMostRecentCursor{*next.(*MostRecentCursor)}, err
}

type SubbedMostPopularCursor struct {
	MostPopularCursor
}

func (s *SubbedMostPopularCursor) Posts(ctx context.Context, store PostStore, user *model.User, cursorOpts *PostCursorOpts) (posts []*model.Post, next PostCursor, err error) {
	cursor := &s.MostPopularCursor
	if cursor.Groups == nil {
		groups, err := fetchMemberGroupIds(ctx, store, user)
		if err != nil {
			return nil, nil, err
		}
		cursor = cursor.WithGroups(groups)
	}
	posts, next, err = cursor.Posts(ctx, store, user, cursorOpts)
	if next == nil {
		return posts, nil, err
	}
	return posts, &SubbedMostPopularCursor{*next.(*MostPopularCursor)}, err
}

func fetchMemberGroupIds(ctx context.Context, store PostStore, user *model.User) ([]string, error) {
	if user == nil {
		return nil, ErrSubbedFeedNeedsUser
	}
	memberships, err := store.GetMembershipsForUser(ctx, user.Id)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(memberships))
	for i, membership := range memberships {
		ids[i] = membership.GroupId
	}
	return ids, nil
}
