package routes

import (
	"net/http"

	"github.com/billix/billix-be/controllers"
	"github.com/billix/billix-be/db"
	"github.com/billix/billix-be/middleware"
	"github.com/billix/billix-be/util"
	"github.com/gin-gonic/gin"
)

type rewardsRoutes struct {
	controller *controllers.RewardsController
}

func AddRewardsRoutes(
	group *gin.RouterGroup,
	db db.Database,
	controller *controllers.RewardsController,
	verifier middleware.IdentityVerifier,
	limiter gin.HandlerFunc,
) {
	routes := rewardsRoutes{controller}
	rewards := group.Group("/rewards")
	rewards.GET("/catalog", util.HandlerWrapper(routes.listCatalog, &util.HandlerOpts{}))

	authed := rewards.Group("", middleware.Auth(db, verifier, &middleware.AuthConfig{}))
	authed.GET("/balance", util.HandlerWrapper(routes.getBalance, &util.HandlerOpts{}))
	authed.GET("/transactions", util.HandlerWrapper(routes.listTransactions, &util.HandlerOpts{}))
	authed.POST("/quizzes/:id", limiter, util.HandlerWrapper(routes.submitQuiz, &util.HandlerOpts{}))
	authed.POST("/check-ins", limiter, util.HandlerWrapper(routes.dailyCheckIn, &util.HandlerOpts{}))
	authed.POST("/redemptions", limiter, util.HandlerWrapper(routes.redeem, &util.HandlerOpts{}))
	authed.GET("/season", util.HandlerWrapper(routes.getSeason, &util.HandlerOpts{}))
	authed.GET("/giveaway", util.HandlerWrapper(routes.getGiveaway, &util.HandlerOpts{}))
	authed.POST("/giveaway/entries", limiter, util.HandlerWrapper(routes.enterGiveaway, &util.HandlerOpts{SuccessStatus: http.StatusCreated}))
}

func (rr *rewardsRoutes) listCatalog(c *gin.Context) (interface{}, *util.HTTPError) {
	return rr.controller.ListCatalog(), nil
}

func (rr *rewardsRoutes) getBalance(c *gin.Context) (interface{}, *util.HTTPError) {
	return rr.controller.GetBalance(c, middleware.MustGetUser(c).Id)
}

func (rr *rewardsRoutes) listTransactions(c *gin.Context) (interface{}, *util.HTTPError) {
	before, httpErr := parseBefore(c)
	if httpErr != nil {
		return nil, httpErr
	}
	limit, httpErr := parseLimit(c)
	if httpErr != nil {
		return nil, httpErr
	}
	return rr.controller.ListTransactions(c, &db.TransactionsListQuery{
		UserId: middleware.MustGetUser(c).Id,
		Before: before,
		Limit:  limit,
	})
}

type submitQuizReq struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

func (rr *rewardsRoutes) submitQuiz(c *gin.Context) (interface{}, *util.HTTPError) {
	var req submitQuizReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	return rr.controller.SubmitQuiz(c, middleware.MustGetUser(c).Id, c.Param("id"), req.Correct, req.Total)
}

func (rr *rewardsRoutes) dailyCheckIn(c *gin.Context) (interface{}, *util.HTTPError) {
	return rr.controller.DailyCheckIn(c, middleware.MustGetUser(c).Id)
}

type redeemReq struct {
	ItemId string `json:"itemId"`
}

func (rr *rewardsRoutes) redeem(c *gin.Context) (interface{}, *util.HTTPError) {
	var req redeemReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	return rr.controller.Redeem(c, middleware.MustGetUser(c).Id, req.ItemId)
}

func (rr *rewardsRoutes) getSeason(c *gin.Context) (interface{}, *util.HTTPError) {
	return rr.controller.GetSeason(c, middleware.MustGetUser(c).Id)
}

func (rr *rewardsRoutes) getGiveaway(c *gin.Context) (interface{}, *util.HTTPError) {
	return rr.controller.GetGiveaway(c, middleware.MustGetUser(c).Id)
}

func (rr *rewardsRoutes) enterGiveaway(c *gin.Context) (interface{}, *util.HTTPError) {
	return rr.controller.EnterGiveaway(c, middleware.MustGetUser(c).Id)
}
