package app

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	appDb "github.com/billix/billix-be/db"
	"github.com/billix/billix-be/model"
	"github.com/billix/billix-be/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	creator = &model.User{Id: "creator", DisplayName: "Creator"}
	viewer  = &model.User{Id: "viewer", DisplayName: "Viewer"}
)

func newPost(id string, createdAt time.Time, reactionTotal int64, visibility model.Visibility) *model.Post {
	return &model.Post{
		ContentMetadata: &model.ContentMetadata{
			Creator: &model.DisplayableUser{
				User:          creator,
				AnonymousUser: &model.AnonymousUser{DisplayName: "Anon Penny"},
			},
			Visibility: visibility,
			Status:     model.StatusPosted,
			CreatedAt:  createdAt,
		},
		Id:            id,
		ReactionTotal: reactionTotal,
	}
}

func TestGetFeedDefaultsToMostRecent(t *testing.T) {
	store := &mockPostStore{}
	createdAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	store.On("GetPosts", mock.Anything, mock.MatchedBy(func(query *appDb.PostsListQuery) bool {
		return query.Before == nil && query.ByReaction == nil && query.GroupIds == nil &&
			query.Limit == DefaultPageSize && query.ReactionHistoryOf == "viewer"
	})).Return([]*model.Post{
		newPost("p2", createdAt, 0, model.VisibilityNormal),
		newPost("p1", createdAt, 0, model.VisibilityHidden),
	}, nil)

	page, err := GetFeed(context.Background(), store, viewer, nil, nil)
	require.NoError(t, err)
	require.Len(t, page.Posts, 2)

	// hidden posts only show the alias
	assert.Nil(t, page.Posts[1].Creator.User)
	assert.Equal(t, "Anon Penny", page.Posts[1].Creator.AnonymousUser.DisplayName)
	assert.NotNil(t, page.Posts[0].Creator.User)

	require.NotNil(t, page.Cursor)
	assert.Equal(t, PostCursorTypeMostRecent, page.Cursor.CursorType)
	next := page.Cursor.PostCursor.(*MostRecentCursor)
	assert.Equal(t, "p1", next.LastId)
	assert.Equal(t, createdAt, *next.LastDate)
	store.AssertExpectations(t)
}

func TestGetFeedEmptyPageEndsCursor(t *testing.T) {
	store := &mockPostStore{}
	store.On("GetPosts", mock.Anything, mock.Anything).Return([]*model.Post{}, nil)

	cursor, err := NewCursor(PostCursorTypeMostPopular)
	require.NoError(t, err)
	page, err := GetFeed(context.Background(), store, nil, cursor, &PostCursorOpts{Limit: 5})
	require.NoError(t, err)
	assert.Empty(t, page.Posts)
	assert.Nil(t, page.Cursor)

	raw, err := json.Marshal(page)
	require.NoError(t, err)
	assert.JSONEq(t, `{"posts": [], "cursor": null}`, string(raw))
}

func TestMostPopularCursorPagesByReactionTotal(t *testing.T) {
	store := &mockPostStore{}
	total := int64(7)
	store.On("GetPosts", mock.Anything, mock.MatchedBy(func(query *appDb.PostsListQuery) bool {
		return query.ByReaction != nil && *query.ByReaction.MaxReactionTotal == 7 &&
			query.ByReaction.LastId == "p9" && query.Limit == MaxPageSize
	})).Return([]*model.Post{newPost("p3", time.Now(), 4, model.VisibilityNormal)}, nil)

	cursor := &MostPopularCursor{LastReactionTotal: &total, LastId: "p9"}
	posts, next, err := cursor.Posts(context.Background(), store, nil, &PostCursorOpts{Limit: 500})
	require.NoError(t, err)
	assert.Len(t, posts, 1)
	nextCursor := next.(*MostPopularCursor)
	assert.Equal(t, int64(4), *nextCursor.LastReactionTotal)
	assert.Equal(t, "p3", nextCursor.LastId)
}

func TestSubbedCursorResolvesMemberships(t *testing.T) {
	store := &mockPostStore{}
	store.On("GetMembershipsForUser", mock.Anything, "viewer").Return([]*model.Membership{
		{UserId: "viewer", GroupId: "g1"},
		{UserId: "viewer", GroupId: "g2"},
	}, nil).Once()
	store.On("GetPosts", mock.Anything, mock.MatchedBy(func(query *appDb.PostsListQuery) bool {
		return assert.ObjectsAreEqual([]string{"g1", "g2"}, query.GroupIds)
	})).Return([]*model.Post{newPost("p1", time.Now(), 0, model.VisibilityNormal)}, nil)

	cursor, err := NewCursor(PostCursorTypeSubbedMostRecent)
	require.NoError(t, err)
	page, err := GetFeed(context.Background(), store, viewer, cursor, nil)
	require.NoError(t, err)

	require.NotNil(t, page.Cursor)
	assert.Equal(t, PostCursorTypeSubbedMostRecent, page.Cursor.CursorType)
	next := page.Cursor.PostCursor.(*SubbedMostRecentCursor)
	assert.Equal(t, []string{"g1", "g2"}, next.Groups)

	// the second page reuses the groups carried in the cursor
	_, err = GetFeed(context.Background(), store, viewer, page.Cursor, nil)
	require.NoError(t, err)
	store.AssertNumberOfCalls(t, "GetMembershipsForUser", 1)
}

func TestSubbedCursorNeedsUser(t *testing.T) {
	cursor := &SubbedMostPopularCursor{}
	_, _, err := cursor.Posts(context.Background(), &mockPostStore{}, nil, nil)
	assert.ErrorIs(t, err, util.ErrNotAuthenticated)
}

func TestTaggedUnionCursorJSON(t *testing.T) {
	lastDate := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	original := &TaggedUnionCursor{
		CursorType: PostCursorTypeSubbedMostRecent,
		PostCursor: &SubbedMostRecentCursor{MostRecentCursor{
			Groups:   []string{"g1"},
			LastDate: &lastDate,
			LastId:   "p1",
		}},
	}

	raw, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded TaggedUnionCursor
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, PostCursorTypeSubbedMostRecent, decoded.CursorType)
	cursor := decoded.PostCursor.(*SubbedMostRecentCursor)
	assert.Equal(t, "p1", cursor.LastId)
	assert.Equal(t, []string{"g1"}, cursor.Groups)
	assert.True(t, lastDate.Equal(*cursor.LastDate))
}

func TestTaggedUnionCursorUnknownType(t *testing.T) {
	var decoded TaggedUnionCursor
	err := json.Unmarshal([]byte(`{"cursorType": "OLDEST"}`), &decoded)
	assert.ErrorIs(t, err, UnknownCursorTypeErr)
}
