package routes

import (
	"context"
	"net/http"

	"github.com/billix/billix-be/app/relief"
	"github.com/billix/billix-be/controllers"
	"github.com/billix/billix-be/db"
	"github.com/billix/billix-be/middleware"
	"github.com/billix/billix-be/model"
	"github.com/billix/billix-be/util"
	"github.com/gin-gonic/gin"
)

type reliefRoutes struct {
	controller *controllers.ReliefController
}

func AddReliefRoutes(
	group *gin.RouterGroup,
	db db.Database,
	controller *controllers.ReliefController,
	verifier middleware.IdentityVerifier,
	limiter gin.HandlerFunc,
) {
	routes := reliefRoutes{controller}
	group.GET("/relief/fees", util.HandlerWrapper(routes.getFees, &util.HandlerOpts{}))
	requests := group.Group("/relief", middleware.Auth(db, verifier, &middleware.AuthConfig{}))
	requests.GET("", util.HandlerWrapper(routes.listOpen, &util.HandlerOpts{}))
	requests.GET("/mine", util.HandlerWrapper(routes.listMine, &util.HandlerOpts{}))
	requests.POST("", limiter, util.HandlerWrapper(routes.createRequest, &util.HandlerOpts{SuccessStatus: http.StatusCreated}))
	requests.GET("/:id", util.HandlerWrapper(routes.getRequest, &util.HandlerOpts{}))
	requests.POST("/:id/offer", limiter, util.HandlerWrapper(routes.withRequest(controller.OfferHelp), &util.HandlerOpts{}))
	requests.POST("/:id/accept", util.HandlerWrapper(routes.withRequest(controller.Accept), &util.HandlerOpts{}))
	requests.POST("/:id/decline", util.HandlerWrapper(routes.withRequest(controller.Decline), &util.HandlerOpts{}))
	requests.POST("/:id/fulfill", util.HandlerWrapper(routes.withRequest(controller.Fulfill), &util.HandlerOpts{}))
	requests.POST("/:id/cancel", util.HandlerWrapper(routes.withRequest(controller.Cancel), &util.HandlerOpts{}))
	requests.GET("/:id/donations", util.HandlerWrapper(routes.getDonations, &util.HandlerOpts{}))
	requests.POST("/:id/donations", limiter, util.HandlerWrapper(routes.donate, &util.HandlerOpts{SuccessStatus: http.StatusCreated}))
}

func (rr *reliefRoutes) getFees(c *gin.Context) (interface{}, *util.HTTPError) {
	return relief.FeeSchedule(), nil
}

type createReliefReq struct {
	BillCategory      string        `json:"billCategory"`
	AmountCents       int64         `json:"amountCents"`
	Description       string        `json:"description"`
	Urgency           model.Urgency `json:"urgency"`
	DocumentBlobNames []string      `json:"documentBlobNames"`
}

func (rr *reliefRoutes) createRequest(c *gin.Context) (interface{}, *util.HTTPError) {
	var req createReliefReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	return rr.controller.CreateRequest(c, middleware.MustGetUser(c).Id, &relief.NewRequest{
		BillCategory:      req.BillCategory,
		AmountCents:       req.AmountCents,
		Description:       req.Description,
		Urgency:           req.Urgency,
		DocumentBlobNames: req.DocumentBlobNames,
	})
}

func (rr *reliefRoutes) listOpen(c *gin.Context) (interface{}, *util.HTTPError) {
	before, httpErr := parseBefore(c)
	if httpErr != nil {
		return nil, httpErr
	}
	limit, httpErr := parseLimit(c)
	if httpErr != nil {
		return nil, httpErr
	}
	return rr.controller.ListOpen(c, c.Query("category"), before, limit)
}

func (rr *reliefRoutes) listMine(c *gin.Context) (interface{}, *util.HTTPError) {
	limit, httpErr := parseLimit(c)
	if httpErr != nil {
		return nil, httpErr
	}
	return rr.controller.ListMine(c, middleware.MustGetUser(c).Id, limit)
}

func (rr *reliefRoutes) getRequest(c *gin.Context) (interface{}, *util.HTTPError) {
	id, httpErr := util.ParseId(c.Param("id"))
	if httpErr != nil {
		return nil, httpErr
	}
	return rr.controller.GetRequest(c, id)
}

type reliefAction func(c context.Context, id string, userId string) (*model.ReliefRequest, *util.HTTPError)

// withRequest adapts a status change on /relief/:id for the caller
func (rr *reliefRoutes) withRequest(action reliefAction) util.Handler {
	return func(c *gin.Context) (interface{}, *util.HTTPError) {
		id, httpErr := util.ParseId(c.Param("id"))
		if httpErr != nil {
			return nil, httpErr
		}
		return action(c, id, middleware.MustGetUser(c).Id)
	}
}

func (rr *reliefRoutes) getDonations(c *gin.Context) (interface{}, *util.HTTPError) {
	id, httpErr := util.ParseId(c.Param("id"))
	if httpErr != nil {
		return nil, httpErr
	}
	return rr.controller.GetDonations(c, id)
}

type donateReq struct {
	Dollars int64 `json:"dollars"`
}

func (rr *reliefRoutes) donate(c *gin.Context) (interface{}, *util.HTTPError) {
	id, httpErr := util.ParseId(c.Param("id"))
	if httpErr != nil {
		return nil, httpErr
	}
	var req donateReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	return rr.controller.Donate(c, id, middleware.MustGetUser(c).Id, req.Dollars)
}
