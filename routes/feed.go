package routes

import (
	"github.com/billix/billix-be/app"
	"github.com/billix/billix-be/db"
	"github.com/billix/billix-be/middleware"
	"github.com/billix/billix-be/util"
	"github.com/gin-gonic/gin"
)

type feedRoutes struct {
	db db.Database
}

func AddFeedRoutes(group *gin.RouterGroup, db db.Database, verifier middleware.IdentityVerifier) {
	routes := feedRoutes{db: db}
	feeds := group.Group("/feeds",
		middleware.Auth(db, verifier, &middleware.AuthConfig{SessionNotRequired: true, AppAccountNotRequired: true}))
	feeds.POST("", util.HandlerWrapper(routes.getFeed, &util.HandlerOpts{}))
}

// getFeedReq carries the cursor returned by the previous page. A missing
// cursor starts a MOST_RECENT feed.
type getFeedReq struct {
	Cursor *app.TaggedUnionCursor `json:"cursor"`
	Limit  int                    `json:"limit"`
}

func (fr *feedRoutes) getFeed(c *gin.Context) (interface{}, *util.HTTPError) {
	var req getFeedReq
	if c.Request.ContentLength != 0 {
		if err := c.BindJSON(&req); err != nil {
			return nil, util.BuildJSONBindHTTPErr(err)
		}
	}
	page, err := app.GetFeed(c, fr.db, middleware.GetUser(c), req.Cursor, &app.PostCursorOpts{Limit: req.Limit})
	if err != nil {
		return nil, util.BuildAppHTTPErr(err)
	}
	return page, nil
}
