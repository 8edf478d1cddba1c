package routes

import (
	"net/http"

	"github.com/billix/billix-be/controllers"
	"github.com/billix/billix-be/db"
	"github.com/billix/billix-be/middleware"
	"github.com/billix/billix-be/model"
	"github.com/billix/billix-be/util"
	"github.com/gin-gonic/gin"
)

type postRoutes struct {
	controller *controllers.PostController
	reactions  *controllers.ReactionController
}

func AddPostRoutes(
	group *gin.RouterGroup,
	db db.Database,
	controller *controllers.PostController,
	reactions *controllers.ReactionController,
	verifier middleware.IdentityVerifier,
	limiter gin.HandlerFunc,
) {
	routes := postRoutes{controller, reactions}
	optionalAuth := middleware.Auth(db, verifier, &middleware.AuthConfig{SessionNotRequired: true, AppAccountNotRequired: true})
	auth := middleware.Auth(db, verifier, &middleware.AuthConfig{})

	posts := group.Group("/posts")
	posts.POST("", auth, limiter, util.HandlerWrapper(routes.createPost, &util.HandlerOpts{SuccessStatus: http.StatusCreated}))
	posts.GET("/:id", optionalAuth, util.HandlerWrapper(routes.getPostById, &util.HandlerOpts{}))
	posts.DELETE("/:id", auth, util.HandlerWrapper(routes.deletePost, &util.HandlerOpts{}))

	posts.GET("/:id/comments", optionalAuth, util.HandlerWrapper(routes.getComments, &util.HandlerOpts{}))
	posts.POST("/:id/comments", auth, limiter, util.HandlerWrapper(routes.createComment, &util.HandlerOpts{SuccessStatus: http.StatusCreated}))
	posts.DELETE("/:id/comments/:commentId", auth, util.HandlerWrapper(routes.deleteComment, &util.HandlerOpts{}))

	posts.GET("/:id/reactions", optionalAuth, util.HandlerWrapper(routes.getReactionCounts, &util.HandlerOpts{}))
	posts.PUT("/:id/reactions", auth, limiter, util.HandlerWrapper(routes.react, &util.HandlerOpts{}))

	posts.POST("/:id/reports", auth, limiter, util.HandlerWrapper(routes.reportPost, &util.HandlerOpts{SuccessStatus: http.StatusCreated}))
}

func (pr *postRoutes) createPost(c *gin.Context) (interface{}, *util.HTTPError) {
	var req controllers.CreatePostReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	id, httpErr := pr.controller.CreatePost(c, middleware.MustGetUser(c), &req)
	if httpErr != nil {
		return nil, httpErr
	}
	return gin.H{"id": id}, nil
}

func (pr *postRoutes) getPostById(c *gin.Context) (interface{}, *util.HTTPError) {
	id, httpErr := util.ParseId(c.Param("id"))
	if httpErr != nil {
		return nil, httpErr
	}
	return pr.controller.GetPost(c, id, middleware.GetUser(c))
}

func (pr *postRoutes) deletePost(c *gin.Context) (interface{}, *util.HTTPError) {
	id, httpErr := util.ParseId(c.Param("id"))
	if httpErr != nil {
		return nil, httpErr
	}
	return nil, pr.controller.DeletePost(c, id, middleware.MustGetUser(c))
}

func (pr *postRoutes) getComments(c *gin.Context) (interface{}, *util.HTTPError) {
	id, httpErr := util.ParseId(c.Param("id"))
	if httpErr != nil {
		return nil, httpErr
	}
	return pr.controller.GetComments(c, id, middleware.GetUser(c))
}

func (pr *postRoutes) createComment(c *gin.Context) (interface{}, *util.HTTPError) {
	id, httpErr := util.ParseId(c.Param("id"))
	if httpErr != nil {
		return nil, httpErr
	}
	var req controllers.CreateCommentReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	commentId, httpErr := pr.controller.CreateComment(c, id, middleware.MustGetUser(c), &req)
	if httpErr != nil {
		return nil, httpErr
	}
	return gin.H{"id": commentId}, nil
}

func (pr *postRoutes) deleteComment(c *gin.Context) (interface{}, *util.HTTPError) {
	commentId, httpErr := util.ParseId(c.Param("commentId"))
	if httpErr != nil {
		return nil, httpErr
	}
	return nil, pr.controller.DeleteComment(c, commentId, middleware.MustGetUser(c))
}

func (pr *postRoutes) getReactionCounts(c *gin.Context) (interface{}, *util.HTTPError) {
	id, httpErr := util.ParseId(c.Param("id"))
	if httpErr != nil {
		return nil, httpErr
	}
	userId := ""
	if user := middleware.GetUser(c); user != nil {
		userId = user.Id
	}
	return pr.reactions.GetReactionCounts(c, id, userId)
}

type reactReq struct {
	// Type is empty to remove the caller's reaction
	Type model.ReactionType `json:"type"`
}

func (pr *postRoutes) react(c *gin.Context) (interface{}, *util.HTTPError) {
	id, httpErr := util.ParseId(c.Param("id"))
	if httpErr != nil {
		return nil, httpErr
	}
	var req reactReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	user := middleware.MustGetUser(c)
	post, httpErr := pr.controller.GetPost(c, id, user)
	if httpErr != nil {
		return nil, httpErr
	}
	if post.Status == model.StatusDeleted {
		return nil, &util.HTTPError{
			Status:  http.StatusConflict,
			Message: "cannot react to a deleted post",
		}
	}
	if httpErr := pr.reactions.React(c, id, user.Id, req.Type); httpErr != nil {
		return nil, httpErr
	}
	return pr.reactions.GetReactionCounts(c, id, user.Id)
}

type reportReq struct {
	Reason string `json:"reason"`
}

func (pr *postRoutes) reportPost(c *gin.Context) (interface{}, *util.HTTPError) {
	id, httpErr := util.ParseId(c.Param("id"))
	if httpErr != nil {
		return nil, httpErr
	}
	var req reportReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	return pr.controller.ReportPost(c, id, middleware.MustGetUser(c), req.Reason)
}
