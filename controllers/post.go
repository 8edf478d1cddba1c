package controllers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/billix/billix-be/db"
	"github.com/billix/billix-be/logging"
	"github.com/billix/billix-be/model"
	"github.com/billix/billix-be/util"
	"github.com/sirupsen/logrus"
)

const (
	MaxTitleLen        = 200
	MaxPostContentLen  = 10000
	MaxCommentLen      = 2000
	MaxReportReasonLen = 500
	MaxPostImages      = 4
)

type GroupChecker interface {
	GroupsExist(ids []string) bool
}

type PostRewarder interface {
	AwardPostPoints(ctx context.Context, userId string, postId string) error
}

type PostController struct {
	db      db.PostDatabase
	groups  GroupChecker
	blobs   BlobChecker
	rewards PostRewarder
	log     *logrus.Entry
}

func NewPostController(db db.PostDatabase, groups GroupChecker, blobs BlobChecker, rewards PostRewarder) *PostController {
	return &PostController{
		db:      db,
		groups:  groups,
		blobs:   blobs,
		rewards: rewards,
		log:     logging.Component("posts"),
	}
}

type CreatePostReq struct {
	Title           string           `json:"title"`
	Content         string           `json:"content"`
	BillCategory    string           `json:"billCategory"`
	BillAmountCents *int64           `json:"billAmountCents"`
	ImageBlobNames  []string         `json:"imageBlobNames"`
	GroupIds        []string         `json:"groupIds"`
	Visibility      model.Visibility `json:"visibility"`
}

func badRequest(format string, args ...interface{}) *util.HTTPError {
	return &util.HTTPError{
		Status:  http.StatusBadRequest,
		Message: fmt.Sprintf(format, args...),
	}
}

func contentMetadata(user *model.User, visibility model.Visibility) *db.CreateContentMetadata {
	metadata := &db.CreateContentMetadata{
		CreatorId:  user.Id,
		Visibility: visibility,
	}
	if visibility == model.VisibilityHidden {
		metadata.CreatorAlias = util.GenerateAlias()
	}
	return metadata
}

// CreatePost stores the post and credits the author. A failed credit is logged
// and does not fail the request.
func (pc *PostController) CreatePost(c context.Context, user *model.User, req *CreatePostReq) (string, *util.HTTPError) {
	req.Title = util.SanitizeText(req.Title)
	req.Content = util.XSSSanitize(req.Content)
	req.BillCategory = util.SanitizeText(req.BillCategory)
	if req.Visibility == "" {
		req.Visibility = model.VisibilityNormal
	}

	if len(req.Title) == 0 || len(req.Title) > MaxTitleLen {
		return "", badRequest("title must be between 1 and %v characters", MaxTitleLen)
	}
	if len(req.Content) == 0 || len(req.Content) > MaxPostContentLen {
		return "", badRequest("content must be between 1 and %v characters", MaxPostContentLen)
	}
	if !req.Visibility.IsValid() {
		return "", badRequest("unknown visibility %v", req.Visibility)
	}
	if req.BillAmountCents != nil && *req.BillAmountCents < 0 {
		return "", badRequest("bill amount cannot be negative")
	}
	if len(req.GroupIds) == 0 {
		return "", badRequest("a post must belong to at least one group")
	}
	if !pc.groups.GroupsExist(req.GroupIds) {
		return "", badRequest("one or more groups do not exist")
	}
	if len(req.ImageBlobNames) > MaxPostImages {
		return "", badRequest("at most %v images can be attached", MaxPostImages)
	}
	if httpErr := checkBlobs(c, pc.blobs, user.Id, req.ImageBlobNames); httpErr != nil {
		return "", httpErr
	}
	if req.ImageBlobNames == nil {
		req.ImageBlobNames = []string{}
	}

	postId, err := pc.db.CreatePost(c, &db.CreatePost{
		CreateContentMetadata: contentMetadata(user, req.Visibility),
		Title:                 req.Title,
		Content:               req.Content,
		BillCategory:          req.BillCategory,
		BillAmountCents:       req.BillAmountCents,
		ImageBlobNames:        req.ImageBlobNames,
		Groups:                req.GroupIds,
	})
	if err != nil {
		return "", util.BuildDbHTTPErr(err)
	}

	if err := pc.rewards.AwardPostPoints(c, user.Id, postId); err != nil {
		pc.log.WithError(err).WithField("postId", postId).Warn("failed to award post points")
	}
	return postId, nil
}

func (pc *PostController) GetPost(c context.Context, id string, viewer *model.User) (*model.Post, *util.HTTPError) {
	opts := &db.PostQueryOpts{}
	if viewer != nil {
		opts.ReactionHistoryOf = viewer.Id
	}
	post, err := pc.db.GetPostById(c, id, opts)
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	if post == nil {
		return nil, &util.HTTPError{
			Status:  http.StatusNotFound,
			Message: "post not found",
		}
	}
	return post.MakeDisplayableFor(viewer), nil
}

func (pc *PostController) DeletePost(c context.Context, id string, user *model.User) *util.HTTPError {
	post, httpErr := pc.GetPost(c, id, user)
	if httpErr != nil {
		return httpErr
	}
	if !post.CanDelete(user) {
		return &util.HTTPError{
			Status:  http.StatusForbidden,
			Message: "only the creator can delete this post",
		}
	}
	if err := pc.db.MarkPostAsDeleted(c, id); err != nil {
		return util.BuildDbHTTPErr(err)
	}
	return nil
}

type CreateCommentReq struct {
	ParentId   string           `json:"parentId"`
	Content    string           `json:"content"`
	Visibility model.Visibility `json:"visibility"`
}

func (pc *PostController) CreateComment(c context.Context, postId string, user *model.User, req *CreateCommentReq) (string, *util.HTTPError) {
	req.Content = util.XSSSanitize(req.Content)
	if req.Visibility == "" {
		req.Visibility = model.VisibilityNormal
	}
	if len(req.Content) == 0 || len(req.Content) > MaxCommentLen {
		return "", badRequest("comment must be between 1 and %v characters", MaxCommentLen)
	}
	if !req.Visibility.IsValid() {
		return "", badRequest("unknown visibility %v", req.Visibility)
	}

	post, httpErr := pc.GetPost(c, postId, user)
	if httpErr != nil {
		return "", httpErr
	}
	if post.Status == model.StatusDeleted {
		return "", &util.HTTPError{
			Status:  http.StatusConflict,
			Message: "cannot comment on a deleted post",
		}
	}
	if req.ParentId != "" {
		parent, err := pc.db.GetCommentById(c, req.ParentId)
		if err != nil {
			return "", util.BuildDbHTTPErr(err)
		}
		if parent == nil || parent.PostId != postId {
			return "", badRequest("parent comment does not belong to this post")
		}
	}

	commentId, err := pc.db.CreateComment(c, &db.CreateComment{
		CreateContentMetadata: contentMetadata(user, req.Visibility),
		PostId:                postId,
		ParentId:              req.ParentId,
		Content:               req.Content,
	})
	if err != nil {
		return "", util.BuildDbHTTPErr(err)
	}
	return commentId, nil
}

func (pc *PostController) GetComments(c context.Context, postId string, viewer *model.User) ([]*model.CommentTree, *util.HTTPError) {
	forest, err := pc.db.GetCommentForest(c, postId)
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	if forest == nil {
		forest = []*model.CommentTree{}
	}
	for i, tree := range forest {
		forest[i] = tree.MakeDisplayableFor(viewer)
	}
	return forest, nil
}

func (pc *PostController) DeleteComment(c context.Context, id string, user *model.User) *util.HTTPError {
	comment, err := pc.db.GetCommentById(c, id)
	if err != nil {
		return util.BuildDbHTTPErr(err)
	}
	if comment == nil {
		return &util.HTTPError{
			Status:  http.StatusNotFound,
			Message: "comment not found",
		}
	}
	if !comment.CanDelete(user) {
		return &util.HTTPError{
			Status:  http.StatusForbidden,
			Message: "only the creator can delete this comment",
		}
	}
	if err := pc.db.MarkCommentAsDeleted(c, id); err != nil {
		return util.BuildDbHTTPErr(err)
	}
	return nil
}

// ReportPost allows one report per user and post
func (pc *PostController) ReportPost(c context.Context, postId string, user *model.User, reason string) (*model.Report, *util.HTTPError) {
	reason = util.SanitizeText(reason)
	if len(reason) == 0 || len(reason) > MaxReportReasonLen {
		return nil, badRequest("reason must be between 1 and %v characters", MaxReportReasonLen)
	}
	if _, httpErr := pc.GetPost(c, postId, user); httpErr != nil {
		return nil, httpErr
	}

	report := &model.Report{
		PostId:     postId,
		ReporterId: user.Id,
		Reason:     reason,
	}
	if err := pc.db.CreateReport(c, report); err != nil {
		if db.IsDupKeyErr(err) {
			return nil, &util.HTTPError{
				Status:  http.StatusConflict,
				Message: "you already reported this post",
			}
		}
		return nil, util.BuildDbHTTPErr(err)
	}
	return report, nil
}
