package app

import (
	"context"

	"github.com/billix/billix-be/model"
)

type FeedPage struct {
	Posts  []*model.Post      `json:"posts"`
	Cursor *TaggedUnionCursor `json:"cursor"`
}

// GetFeed reads one page of the feed. A nil cursor starts the newest first
// feed across every group.
func GetFeed(
	ctx context.Context,
	store PostStore,
	user *model.User,
	cursor *TaggedUnionCursor,
	opts *PostCursorOpts,
) (*FeedPage, error) {
	if cursor == nil || cursor.PostCursor == nil {
		var err error
		if cursor, err = NewCursor(PostCursorTypeMostRecent); err != nil {
			return nil, err
		}
	}

	posts, next, err := cursor.Posts(ctx, store, user, opts)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []*model.Post{}
	}
	for i, post := range posts {
		posts[i] = post.MakeDisplayableFor(user)
	}

	page := &FeedPage{Posts: posts}
	if next != nil {
		page.Cursor = &TaggedUnionCursor{PostCursor: next, CursorType: cursor.CursorType}
	}
	return page, nil
}
