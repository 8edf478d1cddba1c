package app

import (
	"context"

	appDb "github.com/billix/billix-be/db"
	"github.com/billix/billix-be/model"
	"github.com/stretchr/testify/mock"
)

type mockPostStore struct {
	mock.Mock
}

func (m *mockPostStore) GetPosts(ctx context.Context, query *appDb.PostsListQuery) ([]*model.Post, error) {
	args := m.Called(ctx, query)
	posts, _ := args.Get(0).([]*model.Post)
	return posts, args.Error(1)
}

func (m *mockPostStore) GetMembershipsForUser(ctx context.Context, userId string) ([]*model.Membership, error) {
	args := m.Called(ctx, userId)
	memberships, _ := args.Get(0).([]*model.Membership)
	return memberships, args.Error(1)
}
