package routes

import (
	"net/http"

	"github.com/billix/billix-be/controllers"
	"github.com/billix/billix-be/db"
	"github.com/billix/billix-be/middleware"
	"github.com/billix/billix-be/util"
	"github.com/gin-gonic/gin"
)

type groupRoutes struct {
	controller *controllers.GroupController
}

func AddGroupRoutes(
	group *gin.RouterGroup,
	db db.Database,
	controller *controllers.GroupController,
	verifier middleware.IdentityVerifier,
	limiter gin.HandlerFunc,
) {
	routes := groupRoutes{controller}
	optionalAuth := middleware.Auth(db, verifier, &middleware.AuthConfig{SessionNotRequired: true, AppAccountNotRequired: true})
	auth := middleware.Auth(db, verifier, &middleware.AuthConfig{})

	groups := group.Group("/groups")
	groups.GET("", optionalAuth, util.HandlerWrapper(routes.getGroups, &util.HandlerOpts{}))
	groups.GET("/:id", optionalAuth, util.HandlerWrapper(routes.getGroupById, &util.HandlerOpts{}))
	groups.GET("/:id/pos", util.HandlerWrapper(routes.getGroupPos, &util.HandlerOpts{}))
	groups.POST("", auth, middleware.RequireAdmin(), util.HandlerWrapper(routes.createGroup, &util.HandlerOpts{SuccessStatus: http.StatusCreated}))

	memberships := group.Group("/memberships", auth)
	memberships.GET("", util.HandlerWrapper(routes.getMemberships, &util.HandlerOpts{}))
	memberships.PUT("", limiter, util.HandlerWrapper(routes.setMemberships, &util.HandlerOpts{}))
}

func forUser(c *gin.Context) *db.GetGroupsQueryOpts {
	opts := &db.GetGroupsQueryOpts{}
	if user := middleware.GetUser(c); user != nil {
		opts.ForUserId = user.Id
	}
	return opts
}

func (gr *groupRoutes) getGroups(c *gin.Context) (interface{}, *util.HTTPError) {
	return gr.controller.GetGroups(c, forUser(c))
}

func (gr *groupRoutes) getGroupById(c *gin.Context) (interface{}, *util.HTTPError) {
	id, httpErr := util.ParseId(c.Param("id"))
	if httpErr != nil {
		return nil, httpErr
	}
	return gr.controller.GetGroupById(c, id, forUser(c))
}

func (gr *groupRoutes) getGroupPos(c *gin.Context) (interface{}, *util.HTTPError) {
	id, httpErr := util.ParseId(c.Param("id"))
	if httpErr != nil {
		return nil, httpErr
	}
	return gr.controller.GetGroupPos(id)
}

type createGroupReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ParentId    string `json:"parentId"`
}

func (gr *groupRoutes) createGroup(c *gin.Context) (interface{}, *util.HTTPError) {
	var req createGroupReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	id, httpErr := gr.controller.CreateGroup(c, &db.CreateGroup{
		Name:        req.Name,
		Description: req.Description,
		ParentId:    req.ParentId,
	})
	if httpErr != nil {
		return nil, httpErr
	}
	return gin.H{"id": id}, nil
}

func (gr *groupRoutes) getMemberships(c *gin.Context) (interface{}, *util.HTTPError) {
	return gr.controller.GetMemberships(c, middleware.MustGetUser(c).Id)
}

// setMembershipsReq maps group ids to whether the caller should be a member
type setMembershipsReq = map[string]bool

// setMemberships stops at the first failing group. Partial updates are possible.
func (gr *groupRoutes) setMemberships(c *gin.Context) (interface{}, *util.HTTPError) {
	var req setMembershipsReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	user := middleware.MustGetUser(c)
	if httpErr := gr.controller.SetMemberships(c, user.Id, req); httpErr != nil {
		return nil, httpErr
	}
	return gr.controller.GetMemberships(c, user.Id)
}
