package routes

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/billix/billix-be/app"
	"github.com/billix/billix-be/controllers"
	"github.com/billix/billix-be/db"
	"github.com/billix/billix-be/util"
	"github.com/gin-gonic/gin"
)

// parseBefore reads the keyset position from ?before=<RFC3339>&beforeId=<id>
func parseBefore(c *gin.Context) (*db.PostKey, *util.HTTPError) {
	rawBefore := c.Query("before")
	if rawBefore == "" {
		return nil, nil
	}
	before, err := util.ParseTime(rawBefore)
	if err != nil {
		return nil, &util.HTTPError{
			Status:  http.StatusBadRequest,
			Message: "before must be an RFC3339 timestamp",
		}
	}
	return &db.PostKey{CreatedAt: before, Id: c.Query("beforeId")}, nil
}

func parseLimit(c *gin.Context) (int, *util.HTTPError) {
	rawLimit := c.Query("limit")
	if rawLimit == "" {
		return app.DefaultPageSize, nil
	}
	limit, err := strconv.Atoi(rawLimit)
	if err != nil || limit <= 0 {
		return 0, &util.HTTPError{
			Status:  http.StatusBadRequest,
			Message: "limit must be a positive integer",
		}
	}
	if limit > app.MaxPageSize {
		limit = app.MaxPageSize
	}
	return limit, nil
}

func parsePage(c *gin.Context) (int, *util.HTTPError) {
	rawPage := c.Query("page")
	if rawPage == "" {
		return 0, nil
	}
	page, err := strconv.Atoi(rawPage)
	if err != nil || page < 0 || page > controllers.MaxMarketplacePage {
		return 0, &util.HTTPError{
			Status:  http.StatusBadRequest,
			Message: fmt.Sprintf("page must be an integer between 0 and %v", controllers.MaxMarketplacePage),
		}
	}
	return page, nil
}
