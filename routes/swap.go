package routes

import (
	"context"
	"net/http"
	"time"

	swapRules "github.com/billix/billix-be/app/swap"
	"github.com/billix/billix-be/controllers"
	"github.com/billix/billix-be/db"
	"github.com/billix/billix-be/middleware"
	"github.com/billix/billix-be/model"
	"github.com/billix/billix-be/util"
	"github.com/gin-gonic/gin"
)

type swapRoutes struct {
	controller *controllers.SwapController
}

func AddSwapRoutes(
	group *gin.RouterGroup,
	db db.Database,
	controller *controllers.SwapController,
	verifier middleware.IdentityVerifier,
	limiter gin.HandlerFunc,
) {
	routes := swapRoutes{controller}
	auth := middleware.Auth(db, verifier, &middleware.AuthConfig{})

	swaps := group.Group("/swaps", auth)
	swaps.GET("", util.HandlerWrapper(routes.listMarketplace, &util.HandlerOpts{}))
	swaps.POST("", limiter, util.HandlerWrapper(routes.createSwap, &util.HandlerOpts{SuccessStatus: http.StatusCreated}))
	swaps.GET("/:id", util.HandlerWrapper(routes.getSwap, &util.HandlerOpts{}))
	swaps.POST("/:id/join", limiter, util.HandlerWrapper(routes.join, &util.HandlerOpts{}))
	swaps.POST("/:id/leave", util.HandlerWrapper(routes.leave, &util.HandlerOpts{}))
	swaps.POST("/:id/start", util.HandlerWrapper(routes.withSwap(controller.Start), &util.HandlerOpts{}))
	swaps.POST("/:id/paid", util.HandlerWrapper(routes.withSwap(controller.MarkPaid), &util.HandlerOpts{}))
	swaps.POST("/:id/cancel", util.HandlerWrapper(routes.withSwap(controller.Cancel), &util.HandlerOpts{}))
	swaps.POST("/:id/boost", limiter, util.HandlerWrapper(routes.withSwap(controller.Boost), &util.HandlerOpts{}))
	swaps.GET("/:id/claims", util.HandlerWrapper(routes.listClaims, &util.HandlerOpts{}))
	swaps.POST("/:id/claims", limiter, util.HandlerWrapper(routes.fileClaim, &util.HandlerOpts{SuccessStatus: http.StatusCreated}))

	claims := group.Group("/claims", auth, middleware.RequireAdmin())
	claims.POST("/:id/resolve", util.HandlerWrapper(routes.resolveClaim, &util.HandlerOpts{}))
}

type createSwapReq struct {
	BillCategory             string    `json:"billCategory"`
	Title                    string    `json:"title"`
	TargetAmountCents        int64     `json:"targetAmountCents"`
	MaxParticipants          int       `json:"maxParticipants"`
	Deadline                 time.Time `json:"deadline"`
	InitialContributionCents int64     `json:"initialContributionCents"`
}

func (sr *swapRoutes) createSwap(c *gin.Context) (interface{}, *util.HTTPError) {
	var req createSwapReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	return sr.controller.CreateSwap(c, middleware.MustGetUser(c).Id, &swapRules.NewSwap{
		BillCategory:             req.BillCategory,
		Title:                    req.Title,
		TargetAmountCents:        req.TargetAmountCents,
		MaxParticipants:          req.MaxParticipants,
		Deadline:                 req.Deadline,
		InitialContributionCents: req.InitialContributionCents,
	})
}

func (sr *swapRoutes) listMarketplace(c *gin.Context) (interface{}, *util.HTTPError) {
	page, httpErr := parsePage(c)
	if httpErr != nil {
		return nil, httpErr
	}
	return sr.controller.ListMarketplace(c, c.Query("category"), page)
}

func (sr *swapRoutes) getSwap(c *gin.Context) (interface{}, *util.HTTPError) {
	id, httpErr := util.ParseId(c.Param("id"))
	if httpErr != nil {
		return nil, httpErr
	}
	return sr.controller.GetSwap(c, id)
}

type joinSwapReq struct {
	ContributionCents int64 `json:"contributionCents"`
}

func (sr *swapRoutes) join(c *gin.Context) (interface{}, *util.HTTPError) {
	id, httpErr := util.ParseId(c.Param("id"))
	if httpErr != nil {
		return nil, httpErr
	}
	var req joinSwapReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	return sr.controller.Join(c, id, middleware.MustGetUser(c).Id, req.ContributionCents)
}

func (sr *swapRoutes) leave(c *gin.Context) (interface{}, *util.HTTPError) {
	id, httpErr := util.ParseId(c.Param("id"))
	if httpErr != nil {
		return nil, httpErr
	}
	return nil, sr.controller.Leave(c, id, middleware.MustGetUser(c).Id)
}

type swapAction func(c context.Context, id string, userId string) (*model.Swap, *util.HTTPError)

func (sr *swapRoutes) withSwap(action swapAction) util.Handler {
	return func(c *gin.Context) (interface{}, *util.HTTPError) {
		id, httpErr := util.ParseId(c.Param("id"))
		if httpErr != nil {
			return nil, httpErr
		}
		return action(c, id, middleware.MustGetUser(c).Id)
	}
}

func (sr *swapRoutes) listClaims(c *gin.Context) (interface{}, *util.HTTPError) {
	id, httpErr := util.ParseId(c.Param("id"))
	if httpErr != nil {
		return nil, httpErr
	}
	return sr.controller.ListClaims(c, id, middleware.MustGetUser(c).Id)
}

type fileClaimReq struct {
	Reason      string `json:"reason"`
	AmountCents int64  `json:"amountCents"`
}

func (sr *swapRoutes) fileClaim(c *gin.Context) (interface{}, *util.HTTPError) {
	id, httpErr := util.ParseId(c.Param("id"))
	if httpErr != nil {
		return nil, httpErr
	}
	var req fileClaimReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	return sr.controller.FileClaim(c, id, middleware.MustGetUser(c).Id, req.Reason, req.AmountCents)
}

type resolveClaimReq struct {
	Approve bool `json:"approve"`
}

func (sr *swapRoutes) resolveClaim(c *gin.Context) (interface{}, *util.HTTPError) {
	id, httpErr := util.ParseId(c.Param("id"))
	if httpErr != nil {
		return nil, httpErr
	}
	var req resolveClaimReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	return sr.controller.ResolveClaim(c, id, req.Approve)
}
