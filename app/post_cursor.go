package app

import (
	"context"

	appDb "github.com/billix/billix-be/db"
	"github.com/billix/billix-be/model"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 50
)

type PostCursorOpts struct {
	Limit int
}

func (opts *PostCursorOpts) limit() int {
	if opts == nil || opts.Limit <= 0 {
		return DefaultPageSize
	}
	if opts.Limit > MaxPageSize {
		return MaxPageSize
	}
	return opts.Limit
}

// PostStore is the part of the database feeds read from
type PostStore interface {
	GetPosts(ctx context.Context, query *appDb.PostsListQuery) ([]*model.Post, error)
	GetMembershipsForUser(ctx context.Context, userId string) ([]*model.Membership, error)
}

// PostCursor reads one page of posts. next is nil once a page comes back empty.
type PostCursor interface {
	Posts(ctx context.Context, store PostStore, user *model.User, opts *PostCursorOpts) (posts []*model.Post, next PostCursor, err error)
}

type PostCursorType string

func reactionHistoryOf(user *model.User) string {
	if user == nil {
		return ""
	}
	return user.Id
}
