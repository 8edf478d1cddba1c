package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	appDb "github.com/billix/billix-be/db"
	"github.com/billix/billix-be/db/mocks"
	"github.com/billix/billix-be/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fakeGroups map[string]bool

func (fg fakeGroups) GroupsExist(ids []string) bool {
	for _, id := range ids {
		if !fg[id] {
			return false
		}
	}
	return true
}

type fakeRewarder struct {
	awarded []string
	err     error
}

func (fr *fakeRewarder) AwardPostPoints(_ context.Context, _ string, postId string) error {
	fr.awarded = append(fr.awarded, postId)
	return fr.err
}

var author = &model.User{Id: "author", DisplayName: "Author"}

func newTestPostController() (*PostController, *mocks.Database, *fakeRewarder) {
	store := &mocks.Database{}
	rewarder := &fakeRewarder{}
	controller := NewPostController(store, fakeGroups{"bills": true}, fakeBlobs{"uploads/author/a.png": true}, rewarder)
	return controller, store, rewarder
}

func TestCreatePostValidation(t *testing.T) {
	controller, _, _ := newTestPostController()
	ctx := context.Background()

	cases := []struct {
		name string
		req  *CreatePostReq
	}{
		{"empty title", &CreatePostReq{Title: " ", Content: "c", GroupIds: []string{"bills"}}},
		{"long title", &CreatePostReq{Title: strings.Repeat("t", MaxTitleLen+1), Content: "c", GroupIds: []string{"bills"}}},
		{"empty content", &CreatePostReq{Title: "t", GroupIds: []string{"bills"}}},
		{"no groups", &CreatePostReq{Title: "t", Content: "c"}},
		{"unknown group", &CreatePostReq{Title: "t", Content: "c", GroupIds: []string{"nope"}}},
		{"bad visibility", &CreatePostReq{Title: "t", Content: "c", GroupIds: []string{"bills"}, Visibility: "SECRET"}},
		{"foreign image", &CreatePostReq{Title: "t", Content: "c", GroupIds: []string{"bills"}, ImageBlobNames: []string{"uploads/other/a.png"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, httpErr := controller.CreatePost(ctx, author, tc.req)
			require.NotNil(t, httpErr)
			assert.Equal(t, http.StatusBadRequest, httpErr.Status)
		})
	}
}

func TestCreateHiddenPostGetsAlias(t *testing.T) {
	controller, store, rewarder := newTestPostController()
	rewarder.err = errors.New("ledger down")
	store.On("CreatePost", mock.Anything, mock.MatchedBy(func(req *appDb.CreatePost) bool {
		return req.Visibility == model.VisibilityHidden && strings.HasPrefix(req.CreatorAlias, "Anon ") &&
			req.CreatorId == "author" && len(req.ImageBlobNames) == 1
	})).Return("p1", nil).Once()

	postId, httpErr := controller.CreatePost(context.Background(), author, &CreatePostReq{
		Title:          "Negotiated my internet bill",
		Content:        "<script>x</script>Called and asked for the retention desk",
		GroupIds:       []string{"bills"},
		ImageBlobNames: []string{"uploads/author/a.png"},
		Visibility:     model.VisibilityHidden,
	})
	require.Nil(t, httpErr)
	assert.Equal(t, "p1", postId)
	// a failed award does not fail the post
	assert.Equal(t, []string{"p1"}, rewarder.awarded)
	store.AssertExpectations(t)
}

func TestDeletePostRequiresCreator(t *testing.T) {
	controller, store, _ := newTestPostController()
	store.On("GetPostById", mock.Anything, "p1", mock.Anything).Return(&model.Post{
		Id: "p1",
		ContentMetadata: &model.ContentMetadata{
			Creator:    &model.DisplayableUser{User: author},
			Visibility: model.VisibilityNormal,
			Status:     model.StatusPosted,
		},
	}, nil)

	httpErr := controller.DeletePost(context.Background(), "p1", &model.User{Id: "someone"})
	require.NotNil(t, httpErr)
	assert.Equal(t, http.StatusForbidden, httpErr.Status)
	store.AssertNotCalled(t, "MarkPostAsDeleted", mock.Anything, mock.Anything)
}

func TestCreateCommentParentMustBelongToPost(t *testing.T) {
	controller, store, _ := newTestPostController()
	store.On("GetPostById", mock.Anything, "p1", mock.Anything).Return(&model.Post{
		Id: "p1",
		ContentMetadata: &model.ContentMetadata{
			Creator:    &model.DisplayableUser{User: author},
			Visibility: model.VisibilityNormal,
			Status:     model.StatusPosted,
		},
	}, nil)
	store.On("GetCommentById", mock.Anything, "c-other").Return(&model.Comment{Id: "c-other", PostId: "p2"}, nil)

	_, httpErr := controller.CreateComment(context.Background(), "p1", author, &CreateCommentReq{
		ParentId: "c-other",
		Content:  "same here",
	})
	require.NotNil(t, httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
}

func TestReportPostOnce(t *testing.T) {
	controller, store, _ := newTestPostController()
	store.On("GetPostById", mock.Anything, "p1", mock.Anything).Return(&model.Post{
		Id: "p1",
		ContentMetadata: &model.ContentMetadata{
			Creator:    &model.DisplayableUser{User: author},
			Visibility: model.VisibilityNormal,
		},
	}, nil)
	store.On("CreateReport", mock.Anything, mock.Anything).Return(dupKeyErr).Once()

	_, httpErr := controller.ReportPost(context.Background(), "p1", &model.User{Id: "r"}, "spam")
	require.NotNil(t, httpErr)
	assert.Equal(t, http.StatusConflict, httpErr.Status)
}
